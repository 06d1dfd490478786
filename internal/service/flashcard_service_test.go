package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sql_practice_backend/internal/config"
	mock_service "sql_practice_backend/internal/mocks/service"
	"sql_practice_backend/internal/model"
	"sql_practice_backend/internal/repository"
	"sql_practice_backend/internal/service"
	"sql_practice_backend/internal/util"
	"sql_practice_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newProgressService(t *testing.T) *service.ProgressService {
	t.Helper()
	db, err := database.InitDB(&config.ProgressConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "progress.db"),
	}, "test")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	return service.NewProgressService(
		db,
		repository.NewFlashcardProgressRepository(db),
		repository.NewFlashcardOptionRepository(db),
		repository.NewProblemAttemptRepository(db),
		repository.NewStatisticsRepository(db),
		repository.NewSavedProblemRepository(db),
	)
}

func newQueryService(t *testing.T) *service.QueryService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "practice.db")
	require.NoError(t, database.Seed(path, false))
	db, err := database.OpenPractice(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.QueryConfig{MaxRows: 1000, Timeout: 5 * time.Second}
	return service.NewQueryService(repository.NewPracticeRepository(db, cfg.MaxRows), cfg)
}

func countCorrect(options []model.Option) int {
	n := 0
	for _, o := range options {
		if o.Correct {
			n++
		}
	}
	return n
}

func TestFlashcardService_Catalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, err := service.NewFlashcardService(mock_service.NewMockContentProvider(ctrl), newProgressService(t))
	require.NoError(t, err)

	all := svc.ListFlashcards()
	total := 0
	for _, level := range model.Difficulties {
		cards, ok := all[level]
		require.True(t, ok, level)
		for _, c := range cards {
			assert.Equal(t, level, c.Level)
			assert.NotEmpty(t, c.Question)
			assert.NotEmpty(t, c.Answer)
			assert.Empty(t, c.Options)
		}
		total += len(cards)
	}
	assert.Equal(t, 34, total)

	card, ok := svc.Card("basic_1")
	require.True(t, ok)
	assert.Equal(t, "basic", card.Level)
}

func TestFlashcardService_GetOptions_CachesSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mock_service.NewMockContentProvider(ctrl)
	svc, err := service.NewFlashcardService(provider, newProgressService(t))
	require.NoError(t, err)

	card, _ := svc.Card("basic_2")
	provider.EXPECT().
		GenerateWrongAnswers(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req service.DistractorRequest) service.Result[[]string] {
			assert.Equal(t, card.Answer, req.Answer)
			assert.Equal(t, "basic", req.Difficulty)
			return service.Succeeded([]string{"SELECT UNIQUE ROWS", "GROUP ALL", "FILTER DUPES"})
		}).
		Times(1)

	first, err := svc.GetOptions(context.Background(), model.Flashcard{ID: "basic_2"})
	require.NoError(t, err)
	assert.Len(t, first, 4)
	assert.Equal(t, 1, countCorrect(first))

	// Times(1): the second call must come from the cache
	second, err := svc.GetOptions(context.Background(), model.Flashcard{ID: "basic_2"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFlashcardService_GetOptions_DropsAnswerFromDistractors(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mock_service.NewMockContentProvider(ctrl)
	svc, err := service.NewFlashcardService(provider, newProgressService(t))
	require.NoError(t, err)

	card, _ := svc.Card("inter_1")
	provider.EXPECT().
		GenerateWrongAnswers(gomock.Any(), gomock.Any()).
		Return(service.Succeeded([]string{" " + card.Answer + " ", "All rows from the left table", "all rows from the left table"})).
		Times(1)

	options, err := svc.GetOptions(context.Background(), model.Flashcard{ID: "inter_1"})
	require.NoError(t, err)
	require.Len(t, options, 4)
	assert.Equal(t, 1, countCorrect(options))

	texts := make(map[string]int, len(options))
	for _, o := range options {
		texts[o.Text]++
	}
	assert.Equal(t, 1, texts[card.Answer])
	assert.Equal(t, 1, texts["All rows from the left table"])
	assert.Equal(t, 1, texts["Incorrect option 2"])
	assert.Equal(t, 1, texts["Incorrect option 3"])
}

func TestFlashcardService_GetOptions_FallbackNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mock_service.NewMockContentProvider(ctrl)
	svc, err := service.NewFlashcardService(provider, newProgressService(t))
	require.NoError(t, err)

	provider.EXPECT().
		GenerateWrongAnswers(gomock.Any(), gomock.Any()).
		Return(service.FellBack([]string{"Not x", "This is incorrect", "Wrong answer"}, "unavailable")).
		Times(2)

	for i := 0; i < 2; i++ {
		options, err := svc.GetOptions(context.Background(), model.Flashcard{ID: "basic_1"})
		require.NoError(t, err)
		assert.Len(t, options, 4)
		assert.Equal(t, 1, countCorrect(options))
	}
}

func TestFlashcardService_GetOptions_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, err := service.NewFlashcardService(mock_service.NewMockContentProvider(ctrl), newProgressService(t))
	require.NoError(t, err)

	_, err = svc.GetOptions(context.Background(), model.Flashcard{})
	var ve *util.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = svc.GetOptions(context.Background(), model.Flashcard{ID: "custom_1"})
	assert.True(t, errors.As(err, &ve))
}

func TestFlashcardService_RecordReviewUsesCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	progress := newProgressService(t)
	svc, err := service.NewFlashcardService(mock_service.NewMockContentProvider(ctrl), progress)
	require.NoError(t, err)

	card, _ := svc.Card("inter_1")
	require.NoError(t, svc.RecordReview("inter_1", true, "", ""))

	stats, err := progress.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalFlashcardsReviewed)
	assert.Equal(t, 5, stats.TotalXP)
	assert.Contains(t, stats.FlashcardStatsByTopicLevel["intermediate"], card.Topic)
}

func TestFlashcardService_Explain(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mock_service.NewMockContentProvider(ctrl)
	svc, err := service.NewFlashcardService(provider, newProgressService(t))
	require.NoError(t, err)
	card, _ := svc.Card("adv_1")

	provider.EXPECT().ExplainFlashcard(gomock.Any(), gomock.Any()).Return(service.Succeeded("Window functions keep rows."))
	text, kind, err := svc.Explain(context.Background(), "adv_1", "GROUP BY")
	require.NoError(t, err)
	assert.Equal(t, service.ResultSuccess, kind)
	assert.Equal(t, "Window functions keep rows.", text)

	provider.EXPECT().ExplainFlashcard(gomock.Any(), gomock.Any()).Return(service.FellBack("", "unavailable"))
	text, kind, err = svc.Explain(context.Background(), "adv_1", "")
	require.NoError(t, err)
	assert.Equal(t, service.ResultFallback, kind)
	assert.Equal(t, card.Explanation, text)

	_, _, err = svc.Explain(context.Background(), "nope", "")
	assert.True(t, errors.Is(err, util.ErrFlashcardNotFound))
}
