package repository

import (
	"errors"
	"sql_practice_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatisticsRepository struct {
	DB *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{DB: db}
}

func (r *StatisticsRepository) WithTx(tx *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{DB: tx}
}

// Get 读取统计单行，不存在时创建。事务内读取会加行锁（sqlite 下忽略）
func (r *StatisticsRepository) Get() (*model.Statistics, error) {
	var stats model.Statistics
	err := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).First(&stats, model.StatisticsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = model.Statistics{ID: model.StatisticsID}
		if err := r.DB.Create(&stats).Error; err != nil {
			return nil, err
		}
		return &stats, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *StatisticsRepository) Save(stats *model.Statistics) error {
	stats.ID = model.StatisticsID
	return r.DB.Save(stats).Error
}
