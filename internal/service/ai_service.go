package service

import (
	"context"
	"errors"
	"fmt"
	"sql_practice_backend/internal/config"
	"sql_practice_backend/internal/model"
	"sql_practice_backend/pkg/logger"
	"sql_practice_backend/pkg/monitoring"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"
	"resty.dev/v3"
)

const (
	opGenerateProblem = "generate_problem"
	opCheckAnswer     = "check_answer"
	opGenerateHint    = "generate_hint"
	opWrongAnswers    = "wrong_answers"
	opExplain         = "explain_flashcard"
)

const reasonNotConfigured = "content provider is not configured"

// AIService 通过 OpenAI 兼容接口生成内容，实现 ContentProvider
type AIService struct {
	mu         sync.RWMutex
	cfg        config.AIConfig
	httpClient *resty.Client
	retryDelay time.Duration
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{cfg: cfg, httpClient: newRestyClient(cfg), retryDelay: 200 * time.Millisecond}
}

func newRestyClient(cfg config.AIConfig) *resty.Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(cfg.Timeout)
	return client
}

// UpdateConfig 配置热更新时替换 HTTP 客户端
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	old := s.httpClient
	s.cfg = cfg
	s.httpClient = newRestyClient(cfg)
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	logger.Log.Info("Content provider config updated",
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", cfg.Model),
		zap.Bool("enabled", cfg.Enabled()))
}

func (s *AIService) Close() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.httpClient.Close()
}

func (s *AIService) snapshot() (*resty.Client, config.AIConfig) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.httpClient, s.cfg
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

func (s *AIService) chat(ctx context.Context, client *resty.Client, modelName, prompt string) (string, error) {
	body := ChatCompletionRequest{
		Model: modelName,
		Messages: []Message{
			{Role: "system", Content: tutorSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}

	response, err := client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), truncate(response.String(), 500))
	}

	result, ok := response.Result().(*ChatCompletionResponse)
	if !ok || result == nil || len(result.Choices) == 0 {
		return "", &parseError{content: response.String(), err: errors.New("empty choices")}
	}
	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", &parseError{content: response.String(), err: errors.New("empty content")}
	}
	return content, nil
}

// isRetryableError 解析失败、网络错误、5xx 与 429 可以重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "json.Unmarshal") || strings.Contains(errStr, "unexpected end of JSON input") {
		return true
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "connection reset") || strings.Contains(errStr, "EOF") {
		return true
	}
	if strings.Contains(errStr, "response error 5") {
		return true
	}
	if strings.Contains(errStr, "response error 429") {
		return true
	}
	return false
}

// complete 调用模型并解析输出，parse 返回 parseError 时整体重试
func (s *AIService) complete(ctx context.Context, prompt string, parse func(content string) error) error {
	client, cfg := s.snapshot()
	return retry.Do(
		func() error {
			content, err := s.chat(ctx, client, cfg.Model, prompt)
			if err == nil {
				err = parse(content)
			}
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(cfg.MaxRetries+1),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// Enabled 是否配置了模型地址和密钥
func (s *AIService) Enabled() bool {
	_, cfg := s.snapshot()
	return cfg.Enabled()
}

func isParseFailure(err error) bool {
	var pe *parseError
	return errors.As(err, &pe)
}

func observe(op string, kind ResultKind, start time.Time, err error) {
	monitoring.AICallCounter.WithLabelValues(op, string(kind)).Inc()
	monitoring.AICallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Log.Warn("Content provider call failed",
			zap.String("operation", op),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}

type generatedProblem struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Difficulty  string      `json:"difficulty"`
	Topic       string      `json:"topic"`
	Hints       interface{} `json:"hints"`
	Solution    string      `json:"solution"`
	Explanation string      `json:"explanation"`
}

func (s *AIService) GenerateProblem(ctx context.Context, req ProblemRequest) Result[model.Problem] {
	start := time.Now()
	difficulty := normalizeDifficulty(req.Difficulty)
	if !s.Enabled() {
		observe(opGenerateProblem, ResultFallback, start, nil)
		return FellBack(fallbackProblem(difficulty, req.Topic), reasonNotConfigured)
	}

	var problem model.Problem
	err := s.complete(ctx, problemPrompt(difficulty, req.Topic), func(content string) error {
		var raw generatedProblem
		if err := decodeObject(content, &raw); err != nil {
			return err
		}
		if raw.Title == "" || raw.Description == "" {
			return &parseError{content: content, err: errors.New("missing title or description")}
		}
		problem = model.Problem{
			Title:       raw.Title,
			Description: raw.Description,
			Difficulty:  difficulty,
			Topic:       raw.Topic,
			Hints:       toStrings(raw.Hints),
			Solution:    raw.Solution,
			Explanation: raw.Explanation,
			Source:      model.ProblemSourceAI,
		}
		if problem.Topic == "" {
			problem.Topic = req.Topic
		}
		return nil
	})

	switch {
	case err == nil:
		observe(opGenerateProblem, ResultSuccess, start, nil)
		return Succeeded(problem)
	case isParseFailure(err):
		observe(opGenerateProblem, ResultError, start, err)
		return Failed[model.Problem]("Failed to parse generated problem")
	default:
		observe(opGenerateProblem, ResultFallback, start, err)
		return FellBack(fallbackProblem(difficulty, req.Topic), "content provider unavailable")
	}
}

type generatedFeedback struct {
	Correct      bool        `json:"correct"`
	Score        float64     `json:"score"`
	Message      string      `json:"message"`
	Improvements interface{} `json:"improvements"`
	Praise       string      `json:"praise"`
}

func (s *AIService) CheckAnswer(ctx context.Context, req CheckRequest) Result[model.Feedback] {
	start := time.Now()
	if !s.Enabled() {
		observe(opCheckAnswer, ResultFallback, start, nil)
		return FellBack(fallbackFeedback(req), reasonNotConfigured)
	}

	var feedback model.Feedback
	err := s.complete(ctx, checkPrompt(req), func(content string) error {
		var raw generatedFeedback
		if err := decodeObject(content, &raw); err != nil {
			return err
		}
		score := int(raw.Score)
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		feedback = model.Feedback{
			Correct:      raw.Correct,
			Score:        score,
			Message:      raw.Message,
			Improvements: toStrings(raw.Improvements),
			Praise:       raw.Praise,
		}
		return nil
	})
	if err != nil {
		observe(opCheckAnswer, ResultError, start, err)
		return Result[model.Feedback]{
			Kind: ResultError,
			Value: model.Feedback{
				Correct:      false,
				Message:      "Unable to evaluate your answer right now. Please try again.",
				Improvements: []string{},
			},
			Reason: "Failed to evaluate answer",
		}
	}

	observe(opCheckAnswer, ResultSuccess, start, nil)
	return Succeeded(feedback)
}

func (s *AIService) GenerateHint(ctx context.Context, req HintRequest) Result[string] {
	start := time.Now()
	level := normalizeHintLevel(req.Level)
	if !s.Enabled() {
		observe(opGenerateHint, ResultFallback, start, nil)
		return FellBack(fallbackHints[level], reasonNotConfigured)
	}

	var hint string
	err := s.complete(ctx, hintPrompt(req, level), func(content string) error {
		hint = cleanText(content)
		if hint == "" {
			return &parseError{content: content, err: errors.New("empty hint")}
		}
		return nil
	})
	if err != nil {
		observe(opGenerateHint, ResultFallback, start, err)
		return FellBack(fallbackHints[level], "content provider unavailable")
	}

	observe(opGenerateHint, ResultSuccess, start, nil)
	return Succeeded(hint)
}

func (s *AIService) GenerateWrongAnswers(ctx context.Context, req DistractorRequest) Result[[]string] {
	start := time.Now()
	if !s.Enabled() {
		observe(opWrongAnswers, ResultFallback, start, nil)
		return FellBack(fallbackDistractors(req.Answer), reasonNotConfigured)
	}

	var answers []string
	err := s.complete(ctx, distractorPrompt(req), func(content string) error {
		parsed, err := parseWrongAnswers(content)
		if err != nil {
			return err
		}
		answers = parsed
		return nil
	})
	if err != nil {
		observe(opWrongAnswers, ResultFallback, start, err)
		return FellBack(fallbackDistractors(req.Answer), "content provider unavailable")
	}

	observe(opWrongAnswers, ResultSuccess, start, nil)
	return Succeeded(answers)
}

// ExplainFlashcard 兜底时返回空串，由调用方替换为卡片自带解释
func (s *AIService) ExplainFlashcard(ctx context.Context, req ExplainRequest) Result[string] {
	start := time.Now()
	if !s.Enabled() {
		observe(opExplain, ResultFallback, start, nil)
		return FellBack("", reasonNotConfigured)
	}

	var explanation string
	err := s.complete(ctx, explainPrompt(req), func(content string) error {
		explanation = cleanText(content)
		if explanation == "" {
			return &parseError{content: content, err: errors.New("empty explanation")}
		}
		return nil
	})
	if err != nil {
		observe(opExplain, ResultFallback, start, err)
		return FellBack("", "content provider unavailable")
	}

	observe(opExplain, ResultSuccess, start, nil)
	return Succeeded(explanation)
}

// toStrings 兼容模型把数组写成单个字符串的情况
func toStrings(v interface{}) []string {
	out := []string{}
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if item == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}
