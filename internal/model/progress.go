package model

import "time"

const (
	MinCardDifficulty = 0
	MaxCardDifficulty = 5

	// StatisticsID 统计表只有一行
	StatisticsID = 1
)

// FlashcardProgress 每张卡片的复习记录，首次复习时创建，之后只更新不删除
// swagger:model
type FlashcardProgress struct {
	CardID       string    `gorm:"primaryKey;type:varchar(64)" json:"card_id"`
	TimesSeen    int       `gorm:"not null;default:0" json:"times_seen"`
	TimesCorrect int       `gorm:"not null;default:0" json:"times_correct"`
	LastSeen     time.Time `json:"last_seen"`
	Difficulty   int       `gorm:"not null;default:0" json:"difficulty"`
	Topic        string    `gorm:"type:varchar(128)" json:"topic"`
	Level        string    `gorm:"type:varchar(32);index" json:"level"`
}

func (FlashcardProgress) TableName() string {
	return "flashcard_progress"
}

// FlashcardOption 选择题选项缓存，Options 为 JSON 数组
type FlashcardOption struct {
	CardID    string    `gorm:"primaryKey;type:varchar(64)" json:"card_id"`
	Options   string    `gorm:"type:text;not null" json:"options"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FlashcardOption) TableName() string {
	return "flashcard_options"
}

// ProblemAttempt 答题记录，只追加
// swagger:model
type ProblemAttempt struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProblemTitle string    `gorm:"type:varchar(255);index" json:"problem_title"`
	Difficulty   string    `gorm:"type:varchar(32);index" json:"difficulty"`
	Topic        string    `gorm:"type:varchar(128)" json:"topic"`
	Query        string    `gorm:"type:text" json:"query"`
	Score        int       `json:"score"`
	Correct      bool      `json:"correct"`
	Timestamp    time.Time `gorm:"index" json:"timestamp"`
}

func (ProblemAttempt) TableName() string {
	return "problem_history"
}

// Statistics 全局统计（单行 id=1）
// swagger:model
type Statistics struct {
	ID                      uint   `gorm:"primaryKey" json:"-"`
	TotalProblemsAttempted  int    `gorm:"not null;default:0" json:"total_problems_attempted"`
	TotalProblemsSolved     int    `gorm:"not null;default:0" json:"total_problems_solved"`
	TotalFlashcardsReviewed int    `gorm:"not null;default:0" json:"total_flashcards_reviewed"`
	TotalXP                 int    `gorm:"column:total_xp;not null;default:0" json:"total_xp"`
	CurrentStreak           int    `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak           int    `gorm:"not null;default:0" json:"longest_streak"`
	LastActivityDate        string `gorm:"type:varchar(10)" json:"last_activity_date"`
}

func (Statistics) TableName() string {
	return "statistics"
}
