package repository

import (
	"errors"
	"sql_practice_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FlashcardProgressRepository struct {
	DB *gorm.DB
}

func NewFlashcardProgressRepository(db *gorm.DB) *FlashcardProgressRepository {
	return &FlashcardProgressRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库
func (r *FlashcardProgressRepository) WithTx(tx *gorm.DB) *FlashcardProgressRepository {
	return &FlashcardProgressRepository{DB: tx}
}

// FindByCardID 未复习过的卡片返回 nil
func (r *FlashcardProgressRepository) FindByCardID(cardID string) (*model.FlashcardProgress, error) {
	var p model.FlashcardProgress
	err := r.DB.Where("card_id = ?", cardID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *FlashcardProgressRepository) Save(p *model.FlashcardProgress) error {
	return r.DB.Save(p).Error
}

func (r *FlashcardProgressRepository) List() ([]model.FlashcardProgress, error) {
	var list []model.FlashcardProgress
	err := r.DB.Order("level, topic, card_id").Find(&list).Error
	return list, err
}

type FlashcardOptionRepository struct {
	DB *gorm.DB
}

func NewFlashcardOptionRepository(db *gorm.DB) *FlashcardOptionRepository {
	return &FlashcardOptionRepository{DB: db}
}

// Find 未缓存时返回 nil
func (r *FlashcardOptionRepository) Find(cardID string) (*model.FlashcardOption, error) {
	var o model.FlashcardOption
	err := r.DB.Where("card_id = ?", cardID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Upsert 按 card_id 插入或覆盖
func (r *FlashcardOptionRepository) Upsert(cardID, options string) error {
	now := time.Now()
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"options", "updated_at"}),
	}).Create(&model.FlashcardOption{
		CardID:    cardID,
		Options:   options,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}
