package repository

import (
	"path/filepath"
	"sql_practice_backend/internal/config"
	"sql_practice_backend/internal/model"
	"sql_practice_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProgressDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.ProgressConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "progress.db"),
	}, "test")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestFlashcardOptionRepository_Upsert(t *testing.T) {
	repo := NewFlashcardOptionRepository(newProgressDB(t))

	got, err := repo.Find("basic_1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Upsert("basic_1", `[{"text":"a","correct":true}]`))
	require.NoError(t, repo.Upsert("basic_1", `[{"text":"b","correct":true}]`))

	got, err = repo.Find("basic_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `[{"text":"b","correct":true}]`, got.Options)

	var count int64
	require.NoError(t, repo.DB.Model(&model.FlashcardOption{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSavedProblemRepository(t *testing.T) {
	repo := NewSavedProblemRepository(newProgressDB(t))
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	older := &model.SavedProblem{Title: "older", ProblemData: "{}", LastAccessed: base}
	newer := &model.SavedProblem{Title: "newer", ProblemData: "{}", LastAccessed: base.Add(time.Hour)}
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))
	assert.NotEmpty(t, older.ID)

	list, err := repo.List(50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Title)

	require.NoError(t, repo.Touch(older.ID, base.Add(2*time.Hour)))
	list, err = repo.List(50)
	require.NoError(t, err)
	assert.Equal(t, "older", list[0].Title)

	deleted, err := repo.Delete(older.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(older.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := repo.FindByID(older.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProblemAttemptRepository_Aggregates(t *testing.T) {
	repo := NewProblemAttemptRepository(newProgressDB(t))
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	attempts := []model.ProblemAttempt{
		{ProblemTitle: "Top customers", Difficulty: "basic", Score: 40, Correct: false},
		{ProblemTitle: "Top customers", Difficulty: "basic", Score: 90, Correct: true},
		{ProblemTitle: "Running totals", Difficulty: "advanced", Score: 20, Correct: false},
	}
	for i := range attempts {
		attempts[i].Timestamp = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(&attempts[i]))
	}

	counts, err := repo.CountByDifficulty()
	require.NoError(t, err)
	assert.Equal(t, []DifficultyCount{
		{Difficulty: "advanced", Total: 1, Solved: 0},
		{Difficulty: "basic", Total: 2, Solved: 1},
	}, counts)

	recent, err := repo.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Running totals", recent[0].ProblemTitle)

	summary, err := repo.SummaryByTitles([]string{"Top customers", "Unknown"})
	require.NoError(t, err)
	assert.Equal(t, TitleSummary{ProblemTitle: "Top customers", BestScore: 90, Attempts: 2, Solved: 1}, summary["Top customers"])
	_, ok := summary["Unknown"]
	assert.False(t, ok)
}

func TestStatisticsRepository_GetCreatesRow(t *testing.T) {
	db := newProgressDB(t)
	require.NoError(t, db.Where("1 = 1").Delete(&model.Statistics{}).Error)

	repo := NewStatisticsRepository(db)
	stats, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, uint(model.StatisticsID), stats.ID)

	stats.TotalXP = 42
	require.NoError(t, repo.Save(stats))

	again, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, again.TotalXP)
}
