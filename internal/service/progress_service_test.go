package service

import (
	"errors"
	"path/filepath"
	"sql_practice_backend/internal/config"
	"sql_practice_backend/internal/model"
	"sql_practice_backend/internal/repository"
	"sql_practice_backend/internal/util"
	"sql_practice_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advanceDays(n int) { c.now = c.now.AddDate(0, 0, n) }

func newTestProgressService(t *testing.T) (*ProgressService, *fakeClock) {
	t.Helper()
	db, err := database.InitDB(&config.ProgressConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "progress.db"),
	}, "test")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	svc := NewProgressService(
		db,
		repository.NewFlashcardProgressRepository(db),
		repository.NewFlashcardOptionRepository(db),
		repository.NewProblemAttemptRepository(db),
		repository.NewStatisticsRepository(db),
		repository.NewSavedProblemRepository(db),
	)
	clock := &fakeClock{now: time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)}
	svc.SetClock(clock.Now)
	return svc, clock
}

func TestComputeStreak(t *testing.T) {
	day := time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		stats       model.Statistics
		today       time.Time
		wantCurrent int
		wantLongest int
	}{
		{"first activity", model.Statistics{}, day, 1, 1},
		{"same day is a no-op", model.Statistics{CurrentStreak: 3, LongestStreak: 4, LastActivityDate: "2025-01-31"}, day, 3, 4},
		{"consecutive day across month end", model.Statistics{CurrentStreak: 1, LongestStreak: 1, LastActivityDate: "2025-01-31"}, day.AddDate(0, 0, 1), 2, 2},
		{"gap resets", model.Statistics{CurrentStreak: 5, LongestStreak: 5, LastActivityDate: "2025-01-28"}, day, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := tt.stats
			ComputeStreak(&stats, tt.today)
			assert.Equal(t, tt.wantCurrent, stats.CurrentStreak)
			assert.Equal(t, tt.wantLongest, stats.LongestStreak)
			assert.Equal(t, tt.today.Format(util.DateFormat), stats.LastActivityDate)
		})
	}
}

func TestProgressService_StreakAcrossDays(t *testing.T) {
	svc, clock := newTestProgressService(t)

	require.NoError(t, svc.RecordFlashcardReview("basic_1", true, "SELECT", "basic"))
	clock.advanceDays(1)
	require.NoError(t, svc.RecordFlashcardReview("basic_1", true, "SELECT", "basic"))

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentStreak)

	clock.advanceDays(3)
	require.NoError(t, svc.RecordFlashcardReview("basic_1", true, "SELECT", "basic"))

	stats, err = svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 2, stats.LongestStreak)
}

func TestProgressService_FlashcardDifficulty(t *testing.T) {
	t.Run("correct answers stay at zero", func(t *testing.T) {
		svc, _ := newTestProgressService(t)
		for i := 0; i < 4; i++ {
			require.NoError(t, svc.RecordFlashcardReview("card", true, "JOIN", "intermediate"))
		}
		p, err := svc.cardRepo.FindByCardID("card")
		require.NoError(t, err)
		assert.Equal(t, 0, p.Difficulty)
		assert.Equal(t, 4, p.TimesSeen)
		assert.Equal(t, 4, p.TimesCorrect)
	})

	t.Run("incorrect answers climb to five", func(t *testing.T) {
		svc, _ := newTestProgressService(t)
		for n := 1; n <= 7; n++ {
			require.NoError(t, svc.RecordFlashcardReview("card", false, "JOIN", "intermediate"))
			p, err := svc.cardRepo.FindByCardID("card")
			require.NoError(t, err)
			want := n
			if want > model.MaxCardDifficulty {
				want = model.MaxCardDifficulty
			}
			assert.Equal(t, want, p.Difficulty, "after %d incorrect answers", n)
		}
	})
}

func TestProgressService_XPAndStats(t *testing.T) {
	svc, _ := newTestProgressService(t)

	require.NoError(t, svc.RecordFlashcardReview("basic_1", true, "SELECT", "basic"))
	require.NoError(t, svc.RecordFlashcardReview("basic_2", false, "SELECT", "basic"))
	require.NoError(t, svc.RecordFlashcardReview("basic_2", true, "SELECT", "basic"))
	require.NoError(t, svc.RecordProblemAttempt(ProblemAttemptInput{Title: "Join practice", Difficulty: "intermediate", Score: 99, Correct: true}))
	require.NoError(t, svc.RecordProblemAttempt(ProblemAttemptInput{Title: "Join practice", Difficulty: "intermediate", Score: 40, Correct: false}))

	stats, err := svc.GetStats()
	require.NoError(t, err)

	// 5 + 2 + 5 + 99/5 + 40/5
	assert.Equal(t, 39, stats.TotalXP)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 61, stats.XPForNextLevel)
	assert.Equal(t, 2, stats.TotalProblemsAttempted)
	assert.Equal(t, 1, stats.TotalProblemsSolved)
	assert.Equal(t, 3, stats.TotalFlashcardsReviewed)

	assert.Equal(t, model.DifficultyAccuracy{Total: 2, Solved: 1, Accuracy: 50}, stats.AccuracyByDifficulty["intermediate"])
	require.Len(t, stats.RecentProblems, 2)
	assert.Equal(t, 40, stats.RecentProblems[0].Score)

	basic := stats.FlashcardStatsByTopicLevel["basic"]["SELECT"]
	assert.Equal(t, 2, basic.TotalAttempts)
	assert.Equal(t, 2, basic.CardsWithCorrect)
	assert.Equal(t, 3, basic.TotalReviews)
	assert.Equal(t, 2, basic.TotalCorrect)
	// (1/1 + 1/2) / 2
	assert.Equal(t, 75.0, basic.Accuracy)

	assert.Equal(t, model.FlashcardOverview{
		TotalCardsReviewed: 2,
		TotalReviews:       3,
		TotalCorrect:       2,
		AverageAccuracy:    75,
	}, stats.FlashcardStats)
}

func TestProgressService_LevelUp(t *testing.T) {
	svc, _ := newTestProgressService(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.RecordProblemAttempt(ProblemAttemptInput{Title: "p", Difficulty: "basic", Score: 100, Correct: true}))
	}

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 100, stats.TotalXP)
	assert.Equal(t, 2, stats.Level)
	assert.Equal(t, 100, stats.XPForNextLevel)
}

func TestProgressService_FlashcardOptions(t *testing.T) {
	svc, _ := newTestProgressService(t)

	got, err := svc.GetFlashcardOptions("basic_1")
	require.NoError(t, err)
	assert.Nil(t, got)

	options := []model.Option{{Text: "SELECT", Correct: true}, {Text: "PICK"}, {Text: "GET"}, {Text: "FETCH"}}
	require.NoError(t, svc.SaveFlashcardOptions("basic_1", options))
	require.NoError(t, svc.SaveFlashcardOptions("basic_1", options))

	got, err = svc.GetFlashcardOptions("basic_1")
	require.NoError(t, err)
	assert.Equal(t, options, got)
}

func TestProgressService_SavedProblems(t *testing.T) {
	svc, clock := newTestProgressService(t)

	problem := model.Problem{Title: "Revenue", Description: "Sum revenue", Difficulty: "intermediate", Topic: "aggregation", Hints: []string{"h"}}
	id, err := svc.SaveProblem(problem)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, svc.RecordProblemAttempt(ProblemAttemptInput{Title: "Revenue", Difficulty: "intermediate", Score: 80, Correct: true}))

	clock.advanceDays(1)
	got, err := svc.GetSavedProblem(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.SavedID)
	assert.Equal(t, "Sum revenue", got.Description)

	list, err := svc.ListSavedProblems(util.DefaultSavedLimit)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 80, list[0].BestScore)
	assert.Equal(t, 1, list[0].Attempts)
	assert.True(t, list[0].Solved)
	assert.Equal(t, "aggregation", list[0].Topic)
	assert.True(t, list[0].LastAccessed.Equal(clock.now), "last accessed refreshed on read")

	require.NoError(t, svc.DeleteSavedProblem(id))
	assert.True(t, errors.Is(svc.DeleteSavedProblem(id), util.ErrProblemNotFound))
	_, err = svc.GetSavedProblem(id)
	assert.True(t, errors.Is(err, util.ErrProblemNotFound))
}
