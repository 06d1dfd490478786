package repository

import (
	"sql_practice_backend/internal/model"

	"gorm.io/gorm"
)

type ProblemAttemptRepository struct {
	DB *gorm.DB
}

func NewProblemAttemptRepository(db *gorm.DB) *ProblemAttemptRepository {
	return &ProblemAttemptRepository{DB: db}
}

func (r *ProblemAttemptRepository) WithTx(tx *gorm.DB) *ProblemAttemptRepository {
	return &ProblemAttemptRepository{DB: tx}
}

func (r *ProblemAttemptRepository) Create(attempt *model.ProblemAttempt) error {
	return r.DB.Create(attempt).Error
}

// DifficultyCount 按难度聚合
type DifficultyCount struct {
	Difficulty string
	Total      int
	Solved     int
}

func (r *ProblemAttemptRepository) CountByDifficulty() ([]DifficultyCount, error) {
	var rows []DifficultyCount
	err := r.DB.Model(&model.ProblemAttempt{}).
		Select("difficulty, COUNT(*) AS total, SUM(CASE WHEN correct THEN 1 ELSE 0 END) AS solved").
		Group("difficulty").
		Order("difficulty").
		Scan(&rows).Error
	return rows, err
}

// Recent 最近的答题记录，新的在前
func (r *ProblemAttemptRepository) Recent(limit int) ([]model.ProblemAttempt, error) {
	var list []model.ProblemAttempt
	err := r.DB.Order("timestamp DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// TitleSummary 单题历史成绩
type TitleSummary struct {
	ProblemTitle string
	BestScore    int
	Attempts     int
	Solved       int
}

// SummaryByTitles 按题目标题聚合最好成绩、次数和是否做对过
func (r *ProblemAttemptRepository) SummaryByTitles(titles []string) (map[string]TitleSummary, error) {
	result := make(map[string]TitleSummary, len(titles))
	if len(titles) == 0 {
		return result, nil
	}

	var rows []TitleSummary
	err := r.DB.Model(&model.ProblemAttempt{}).
		Select("problem_title, MAX(score) AS best_score, COUNT(*) AS attempts, MAX(CASE WHEN correct THEN 1 ELSE 0 END) AS solved").
		Where("problem_title IN ?", titles).
		Group("problem_title").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ProblemTitle] = row
	}
	return result, nil
}
