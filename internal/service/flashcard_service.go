package service

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"sql_practice_backend/internal/model"
	"sql_practice_backend/internal/util"
	"sql_practice_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed catalog/flashcards.yaml
var flashcardCatalog []byte

// FlashcardService 卡片题库、选择题选项与复习记录
type FlashcardService struct {
	provider ContentProvider
	progress *ProgressService
	levels   map[string][]model.Flashcard
	byID     map[string]model.Flashcard
	shuffle  func(options []model.Option)
}

func NewFlashcardService(provider ContentProvider, progress *ProgressService) (*FlashcardService, error) {
	levels, err := loadCatalog(flashcardCatalog)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Flashcard)
	for _, cards := range levels {
		for _, c := range cards {
			byID[c.ID] = c
		}
	}

	return &FlashcardService{
		provider: provider,
		progress: progress,
		levels:   levels,
		byID:     byID,
		shuffle: func(options []model.Option) {
			rand.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
		},
	}, nil
}

func loadCatalog(data []byte) (map[string][]model.Flashcard, error) {
	var levels map[string][]model.Flashcard
	if err := yaml.Unmarshal(data, &levels); err != nil {
		return nil, fmt.Errorf("parse flashcard catalog: %w", err)
	}

	seen := make(map[string]bool)
	for level, cards := range levels {
		if !model.IsDifficulty(level) {
			return nil, fmt.Errorf("flashcard catalog: unknown level %q", level)
		}
		for i := range cards {
			if cards[i].ID == "" || cards[i].Answer == "" {
				return nil, fmt.Errorf("flashcard catalog: card %d in %s is missing id or answer", i, level)
			}
			if seen[cards[i].ID] {
				return nil, fmt.Errorf("flashcard catalog: duplicate card id %q", cards[i].ID)
			}
			seen[cards[i].ID] = true
			cards[i].Level = level
		}
	}
	return levels, nil
}

// ListFlashcards 按等级返回全部卡片
func (s *FlashcardService) ListFlashcards() map[string][]model.Flashcard {
	out := make(map[string][]model.Flashcard, len(s.levels))
	for level, cards := range s.levels {
		out[level] = append([]model.Flashcard(nil), cards...)
	}
	return out
}

func (s *FlashcardService) Card(id string) (model.Flashcard, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// resolve 题库中的卡片以题库为准，其余使用请求中的内容
func (s *FlashcardService) resolve(card model.Flashcard) (model.Flashcard, error) {
	if strings.TrimSpace(card.ID) == "" {
		return card, util.NewValidationError("Card ID is required")
	}
	if c, ok := s.byID[card.ID]; ok {
		return c, nil
	}
	if strings.TrimSpace(card.Answer) == "" {
		return card, util.NewValidationError("Card answer is required")
	}
	return card, nil
}

// GetOptions 返回四个选项，只有模型生成的干扰项才会被缓存
func (s *FlashcardService) GetOptions(ctx context.Context, card model.Flashcard) ([]model.Option, error) {
	card, err := s.resolve(card)
	if err != nil {
		return nil, err
	}

	cached, err := s.progress.GetFlashcardOptions(card.ID)
	if err != nil {
		logger.Log.Warn("Failed to read cached options", zap.String("card_id", card.ID), zap.Error(err))
	}
	if len(cached) > 0 {
		return cached, nil
	}

	result := s.provider.GenerateWrongAnswers(ctx, DistractorRequest{
		Question:   card.Question,
		Answer:     card.Answer,
		Topic:      card.Topic,
		Difficulty: card.Level,
	})
	wrong := result.Value
	if result.Kind == ResultError || len(wrong) == 0 {
		wrong = fallbackDistractors(card.Answer)
	}

	options := make([]model.Option, 0, len(wrong)+1)
	options = append(options, model.Option{Text: card.Answer, Correct: true})
	for _, w := range padOptions(distinctDistractors(card.Answer, wrong)) {
		options = append(options, model.Option{Text: w})
	}
	s.shuffle(options)

	if result.Kind == ResultSuccess {
		if err := s.progress.SaveFlashcardOptions(card.ID, options); err != nil {
			logger.Log.Warn("Failed to cache options", zap.String("card_id", card.ID), zap.Error(err))
		}
	}
	return options, nil
}

// distinctDistractors 去掉与正确答案相同或彼此重复的干扰项（忽略大小写与首尾空白）
func distinctDistractors(answer string, wrong []string) []string {
	seen := map[string]bool{strings.ToLower(strings.TrimSpace(answer)): true}
	out := make([]string, 0, len(wrong))
	for _, w := range wrong {
		key := strings.ToLower(strings.TrimSpace(w))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, w)
	}
	return out
}

// RecordReview 记录一次复习，未给出主题或等级时使用题库中的值
func (s *FlashcardService) RecordReview(cardID string, correct bool, topic, level string) error {
	if strings.TrimSpace(cardID) == "" {
		return util.NewValidationError("Card ID is required")
	}
	if c, ok := s.byID[cardID]; ok {
		if topic == "" {
			topic = c.Topic
		}
		if level == "" {
			level = c.Level
		}
	}
	return s.progress.RecordFlashcardReview(cardID, correct, topic, level)
}

// Explain 生成讲解，模型不可用时返回卡片自带的解释
func (s *FlashcardService) Explain(ctx context.Context, cardID, userAnswer string) (string, ResultKind, error) {
	card, ok := s.byID[cardID]
	if !ok {
		return "", "", util.ErrFlashcardNotFound
	}

	result := s.provider.ExplainFlashcard(ctx, ExplainRequest{
		Concept:    fmt.Sprintf("%s (%s)\nQuestion: %s\nAnswer: %s", card.Topic, card.Level, card.Question, card.Answer),
		UserAnswer: userAnswer,
	})
	if result.Kind != ResultSuccess || result.Value == "" {
		return card.Explanation, ResultFallback, nil
	}
	return result.Value, ResultSuccess, nil
}
