package database

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// OpenPractice 以只读方式打开练习库，用户查询只会走这个连接
func OpenPractice(path string) (*sqlx.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("practice database %s: %w", path, err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_query_only=1&_busy_timeout=5000", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Connect > %w", err)
	}
	db.SetMaxOpenConns(4)

	return db, nil
}

// PracticeExists 练习库文件是否存在
func PracticeExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
