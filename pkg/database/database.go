package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sql_practice_backend/internal/config"
	"sql_practice_backend/internal/model"
	"sql_practice_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB 打开学习进度库并完成迁移，默认使用 sqlite，也支持 mysql
func InitDB(cfg *config.ProgressConfig, mode string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		dialector = mysql.Open(dsn)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create progress db dir: %w", err)
		}
		dialector = sqlite.Open(cfg.Path + "?_busy_timeout=5000")
	}

	logLevel := gormlogger.Warn
	if mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	// sqlite 写入需串行，单连接即可保证读改写不交错
	if cfg.Driver != "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	logger.Log.Info("Progress database connection established", zap.String("driver", cfg.Driver))

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Log.Info("Progress database migration completed")
	return db, nil
}

// Migrate 建表并初始化统计单行
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.FlashcardProgress{},
		&model.FlashcardOption{},
		&model.ProblemAttempt{},
		&model.SavedProblem{},
		&model.Statistics{},
	); err != nil {
		return err
	}

	return db.FirstOrCreate(&model.Statistics{ID: model.StatisticsID}).Error
}

// Close 关闭 gorm 底层连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
