package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sql_practice_backend/internal/config"
	"sql_practice_backend/internal/model"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"
)

func newTestAIService(t *testing.T, handler http.HandlerFunc) (*AIService, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	svc := &AIService{
		cfg: config.AIConfig{
			BaseURL:    server.URL,
			APIKey:     "test-key",
			Model:      "gpt-test",
			MaxRetries: 2,
			Timeout:    5 * time.Second,
		},
		httpClient: resty.New().SetBaseURL(server.URL),
		retryDelay: time.Millisecond,
	}
	return svc, &calls
}

func writeCompletion(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	resp := map[string]interface{}{
		"id":    "chatcmpl-1",
		"model": "gpt-test",
		"choices": []map[string]interface{}{
			{"index": 0, "message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestAIService_NotConfigured(t *testing.T) {
	svc := NewAIService(config.AIConfig{Model: "gpt-test", Timeout: time.Second})
	defer svc.Close()
	ctx := context.Background()

	problem := svc.GenerateProblem(ctx, ProblemRequest{Difficulty: "unknown"})
	assert.Equal(t, ResultFallback, problem.Kind)
	assert.Equal(t, model.DifficultyBasic, problem.Value.Difficulty)
	assert.Equal(t, model.ProblemSourceFallback, problem.Value.Source)
	assert.Len(t, problem.Value.Hints, 3)

	hint := svc.GenerateHint(ctx, HintRequest{Level: 7})
	assert.Equal(t, ResultFallback, hint.Kind)
	assert.Equal(t, fallbackHints[1], hint.Value)

	wrong := svc.GenerateWrongAnswers(ctx, DistractorRequest{Answer: "JOIN"})
	assert.Equal(t, ResultFallback, wrong.Kind)
	assert.Equal(t, []string{"Not JOIN", "This is incorrect", "Wrong answer"}, wrong.Value)

	check := svc.CheckAnswer(ctx, CheckRequest{
		Result:         []map[string]interface{}{{"n": 1}},
		ExpectedResult: []map[string]interface{}{{"n": 1.0}},
	})
	assert.Equal(t, ResultFallback, check.Kind)
	assert.True(t, check.Value.Correct)
	assert.Equal(t, 100, check.Value.Score)
	assert.NoError(t, check.Err())
}

func TestAIService_GenerateProblem(t *testing.T) {
	t.Run("retries malformed output then succeeds", func(t *testing.T) {
		var n int32
		svc, calls := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			var body ChatCompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "gpt-test", body.Model)
			require.Len(t, body.Messages, 2)
			assert.Contains(t, body.Messages[1].Content, "intermediate")

			if atomic.AddInt32(&n, 1) == 1 {
				writeCompletion(t, w, `{"title": "broken"`)
				return
			}
			writeCompletion(t, w, "```json\n{\"title\":\"Orders per city\",\"description\":\"Count orders per city\",\"hints\":[\"a\",\"b\",\"c\"],\"solution\":\"SELECT 1\",\"explanation\":\"x\"}\n```")
		})

		got := svc.GenerateProblem(context.Background(), ProblemRequest{Difficulty: "intermediate", Topic: "joins"})
		require.Equal(t, ResultSuccess, got.Kind)
		assert.Equal(t, int32(2), atomic.LoadInt32(calls))
		assert.Equal(t, "Orders per city", got.Value.Title)
		assert.Equal(t, "intermediate", got.Value.Difficulty)
		assert.Equal(t, "joins", got.Value.Topic)
		assert.Equal(t, []string{"a", "b", "c"}, got.Value.Hints)
		assert.Equal(t, model.ProblemSourceAI, got.Value.Source)
	})

	t.Run("parse failure after retries is an error", func(t *testing.T) {
		svc, calls := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
			writeCompletion(t, w, "I cannot produce JSON today")
		})

		got := svc.GenerateProblem(context.Background(), ProblemRequest{Difficulty: "basic"})
		assert.Equal(t, ResultError, got.Kind)
		assert.Equal(t, int32(3), atomic.LoadInt32(calls))
		assert.Error(t, got.Err())
	})

	t.Run("server errors fall back", func(t *testing.T) {
		svc, calls := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"upstream"}`))
		})

		got := svc.GenerateProblem(context.Background(), ProblemRequest{Difficulty: "expert"})
		assert.Equal(t, ResultFallback, got.Kind)
		assert.Equal(t, int32(3), atomic.LoadInt32(calls))
		assert.Equal(t, "expert", got.Value.Difficulty)
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		svc, calls := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		got := svc.GenerateProblem(context.Background(), ProblemRequest{Difficulty: "basic"})
		assert.Equal(t, ResultFallback, got.Kind)
		assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	})
}

func TestAIService_CheckAnswer(t *testing.T) {
	t.Run("clamps score", func(t *testing.T) {
		svc, _ := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
			writeCompletion(t, w, `Here you go: {"correct": true, "score": 140, "message": "Great", "improvements": "none needed", "praise": "Nice"}`)
		})

		got := svc.CheckAnswer(context.Background(), CheckRequest{Query: "SELECT 1", ProblemDescription: "p"})
		require.Equal(t, ResultSuccess, got.Kind)
		assert.True(t, got.Value.Correct)
		assert.Equal(t, 100, got.Value.Score)
		assert.Equal(t, []string{"none needed"}, got.Value.Improvements)
	})

	t.Run("failure surfaces error feedback", func(t *testing.T) {
		svc, _ := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		got := svc.CheckAnswer(context.Background(), CheckRequest{Query: "SELECT 1"})
		assert.Equal(t, ResultError, got.Kind)
		assert.False(t, got.Value.Correct)
		assert.NotEmpty(t, got.Value.Message)
		assert.Error(t, got.Err())
	})
}

func TestAIService_GenerateWrongAnswers(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "json array",
			content: `["LEFT JOIN", "CROSS JOIN", "FULL JOIN"]`,
			want:    []string{"LEFT JOIN", "CROSS JOIN", "FULL JOIN"},
		},
		{
			name:    "short array is padded",
			content: `["LEFT JOIN"]`,
			want:    []string{"LEFT JOIN", "Incorrect option 2", "Incorrect option 3"},
		},
		{
			name:    "broken array falls back to quoted strings",
			content: `Options: "A", "B", "C", "D"`,
			want:    []string{"A", "B", "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
				writeCompletion(t, w, tt.content)
			})

			got := svc.GenerateWrongAnswers(context.Background(), DistractorRequest{Question: "q", Answer: "INNER JOIN"})
			require.Equal(t, ResultSuccess, got.Kind)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestAIService_HintAndExplain(t *testing.T) {
	svc, _ := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(t, w, `"Try grouping by city."`)
	})

	hint := svc.GenerateHint(context.Background(), HintRequest{ProblemDescription: "p", Level: 2})
	require.Equal(t, ResultSuccess, hint.Kind)
	assert.Equal(t, "Try grouping by city.", hint.Value)

	explain := svc.ExplainFlashcard(context.Background(), ExplainRequest{Concept: "GROUP BY"})
	require.Equal(t, ResultSuccess, explain.Kind)
	assert.Equal(t, "Try grouping by city.", explain.Value)
}

func TestAIService_UpdateConfig(t *testing.T) {
	svc := NewAIService(config.AIConfig{Model: "gpt-test", Timeout: time.Second})
	defer svc.Close()
	assert.False(t, svc.Enabled())

	svc.UpdateConfig(config.AIConfig{BaseURL: "http://localhost:1", APIKey: "k", Model: "other", Timeout: time.Second})
	_, cfg := svc.snapshot()
	assert.True(t, svc.Enabled())
	assert.Equal(t, "other", cfg.Model)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&parseError{content: "x", err: assert.AnError}, true},
		{errString("response error 503: busy"), true},
		{errString("response error 429: slow down"), true},
		{errString("response error 400: bad"), false},
		{errString("dial tcp: connection refused"), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isRetryableError(tt.err), "%v", tt.err)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
