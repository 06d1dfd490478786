package model

import "time"

// DifficultyAccuracy 按难度统计的答题正确率
type DifficultyAccuracy struct {
	Total    int     `json:"total"`
	Solved   int     `json:"solved"`
	Accuracy float64 `json:"accuracy"`
}

// RecentProblem 最近答题
type RecentProblem struct {
	Title      string    `json:"title"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`
	Timestamp  time.Time `json:"timestamp"`
}

// TopicLevelStats 按等级、主题聚合的卡片复习情况
type TopicLevelStats struct {
	TotalAttempts    int     `json:"total_attempts"`
	CardsWithCorrect int     `json:"cards_with_correct"`
	TotalReviews     int     `json:"total_reviews"`
	TotalCorrect     int     `json:"total_correct"`
	Accuracy         float64 `json:"accuracy"`
}

// FlashcardOverview 卡片复习总览
type FlashcardOverview struct {
	TotalCardsReviewed int     `json:"total_cards_reviewed"`
	TotalReviews       int     `json:"total_reviews"`
	TotalCorrect       int     `json:"total_correct"`
	AverageAccuracy    float64 `json:"average_accuracy"`
}

// StatsOverview 学习进度汇总
// swagger:model
type StatsOverview struct {
	TotalProblemsAttempted     int                                   `json:"total_problems_attempted"`
	TotalProblemsSolved        int                                   `json:"total_problems_solved"`
	TotalFlashcardsReviewed    int                                   `json:"total_flashcards_reviewed"`
	TotalXP                    int                                   `json:"total_xp"`
	Level                      int                                   `json:"level"`
	XPForNextLevel             int                                   `json:"xp_for_next_level"`
	CurrentStreak              int                                   `json:"current_streak"`
	LongestStreak              int                                   `json:"longest_streak"`
	LastActivityDate           string                                `json:"last_activity_date"`
	AccuracyByDifficulty       map[string]DifficultyAccuracy         `json:"accuracy_by_difficulty"`
	RecentProblems             []RecentProblem                       `json:"recent_problems"`
	FlashcardStatsByTopicLevel map[string]map[string]TopicLevelStats `json:"flashcard_stats_by_topic_level"`
	FlashcardStats             FlashcardOverview                     `json:"flashcard_stats"`
}
