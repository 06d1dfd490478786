package repository

import (
	"errors"
	"sql_practice_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SavedProblemRepository struct {
	DB *gorm.DB
}

func NewSavedProblemRepository(db *gorm.DB) *SavedProblemRepository {
	return &SavedProblemRepository{DB: db}
}

func (r *SavedProblemRepository) Create(p *model.SavedProblem) error {
	return r.DB.Create(p).Error
}

// List 按最近访问时间倒序
func (r *SavedProblemRepository) List(limit int) ([]model.SavedProblem, error) {
	var list []model.SavedProblem
	err := r.DB.Order("last_accessed DESC").Limit(limit).Find(&list).Error
	return list, err
}

// FindByID 不存在时返回 nil
func (r *SavedProblemRepository) FindByID(id string) (*model.SavedProblem, error) {
	var p model.SavedProblem
	err := r.DB.Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SavedProblemRepository) Touch(id string, at time.Time) error {
	return r.DB.Model(&model.SavedProblem{}).Where("id = ?", id).Update("last_accessed", at).Error
}

// Delete 返回是否删除了记录
func (r *SavedProblemRepository) Delete(id string) (bool, error) {
	res := r.DB.Where("id = ?", id).Delete(&model.SavedProblem{})
	return res.RowsAffected > 0, res.Error
}
