package model

import "time"

const (
	DifficultyBasic        = "basic"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
	DifficultyExpert       = "expert"
)

// Difficulties 难度等级，由易到难
var Difficulties = []string{DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert}

func IsDifficulty(s string) bool {
	for _, d := range Difficulties {
		if d == s {
			return true
		}
	}
	return false
}

const (
	ProblemSourceAI       = "ai"
	ProblemSourceFallback = "fallback"
)

// Problem AI 生成的练习题
// swagger:model
type Problem struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Topic       string   `json:"topic"`
	Hints       []string `json:"hints"`
	Solution    string   `json:"solution"`
	Explanation string   `json:"explanation"`
	Source      string   `json:"source,omitempty"`
	SavedID     string   `json:"saved_id,omitempty"`
}

// Feedback 答案评判结果
// swagger:model
type Feedback struct {
	Correct      bool     `json:"correct"`
	Score        int      `json:"score"`
	Message      string   `json:"message"`
	Improvements []string `json:"improvements"`
	Praise       string   `json:"praise,omitempty"`
}

// SavedProblem 已保存的题目，ProblemData 为题目 JSON
type SavedProblem struct {
	UUIDBase
	Title        string    `gorm:"type:varchar(255);index" json:"title"`
	ProblemData  string    `gorm:"type:text;not null" json:"-"`
	LastAccessed time.Time `gorm:"index" json:"last_accessed"`
}

func (SavedProblem) TableName() string {
	return "saved_problems"
}

// SavedProblemSummary 已保存题目列表项，附带历史成绩
// swagger:model
type SavedProblemSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Difficulty   string    `json:"difficulty"`
	Topic        string    `json:"topic"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
	BestScore    int       `json:"best_score"`
	Attempts     int       `json:"attempts"`
	Solved       bool      `json:"solved"`
}
