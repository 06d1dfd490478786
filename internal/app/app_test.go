package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sql_practice_backend/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	yaml := fmt.Sprintf(`
server:
  port: "0"
  mode: test
practice:
  path: %s
  auto_seed: true
progress:
  driver: sqlite
  path: %s
log:
  file: %s
rate_limit:
  max_requests: 1000
  window_minutes: 1
`, filepath.Join(dir, "practice.db"), filepath.Join(dir, "progress.db"), filepath.Join(dir, "app.log"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)

	a, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func do(t *testing.T, a *App, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func TestApp_Health(t *testing.T) {
	a := newTestApp(t)

	code, env := do(t, a, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ok", data.Status)
	assert.Equal(t, "fallback", data.Components["content_provider"])
}

func TestApp_QueryRoutes(t *testing.T) {
	a := newTestApp(t)

	code, env := do(t, a, http.MethodPost, "/api/problem/execute", jsonBody{"query": "SELECT COUNT(*) AS n FROM customers"})
	require.Equal(t, http.StatusOK, code)
	var result struct {
		Columns []string                 `json:"columns"`
		Rows    []map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, []string{"n"}, result.Columns)
	require.Len(t, result.Rows, 1)

	code, env = do(t, a, http.MethodPost, "/api/problem/execute", jsonBody{"query": "DELETE FROM customers"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, env.Message)

	code, _ = do(t, a, http.MethodPost, "/api/problem/execute", jsonBody{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, a, http.MethodPost, "/api/problem/execute", jsonBody{"query": "SELECT 1e999 AS x"})
	require.Equal(t, http.StatusOK, code)
	var inf struct {
		Rows []map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &inf))
	require.Len(t, inf.Rows, 1)
	assert.Equal(t, "Infinity", inf.Rows[0]["x"])

	code, _ = do(t, a, http.MethodGet, "/api/database/schema", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodGet, "/api/database/sample-data?table=customers&limit=2", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodGet, "/api/database/sample-data?table=missing", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = do(t, a, http.MethodGet, "/api/database/stats", nil)
	require.Equal(t, http.StatusOK, code)
	var stats map[string]struct {
		RowCount int `json:"row_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Positive(t, stats["customers"].RowCount)
}

func TestApp_ProblemLifecycle(t *testing.T) {
	a := newTestApp(t)

	code, env := do(t, a, http.MethodPost, "/api/problem/generate", jsonBody{"difficulty": "basic"})
	require.Equal(t, http.StatusOK, code)
	var problem struct {
		Title   string `json:"title"`
		Source  string `json:"source"`
		SavedID string `json:"saved_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &problem))
	assert.Equal(t, "fallback", problem.Source)
	require.NotEmpty(t, problem.SavedID)

	code, _ = do(t, a, http.MethodGet, "/api/problem/saved/"+problem.SavedID, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodGet, "/api/problem/saved", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodPost, "/api/problem/hint", jsonBody{"problem_description": "count customers", "hint_level": 2})
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodDelete, "/api/problem/saved/"+problem.SavedID, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodGet, "/api/problem/saved/"+problem.SavedID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestApp_FlashcardRoutes(t *testing.T) {
	a := newTestApp(t)

	code, env := do(t, a, http.MethodGet, "/api/flashcards/all", nil)
	require.Equal(t, http.StatusOK, code)
	var catalog map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &catalog))
	assert.Len(t, catalog, 4)

	code, _ = do(t, a, http.MethodPost, "/api/flashcards/progress", jsonBody{"card_id": "basic_1", "correct": true})
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodPost, "/api/flashcards/options", jsonBody{"card": jsonBody{"id": "basic_1"}})
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodPost, "/api/flashcards/explain", jsonBody{"card_id": "nope"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = do(t, a, http.MethodGet, "/api/progress/stats", nil)
	require.Equal(t, http.StatusOK, code)
	var stats struct {
		TotalXP int `json:"total_xp"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 5, stats.TotalXP)
}

func TestApp_ApplyConfig(t *testing.T) {
	a := newTestApp(t)
	assert.False(t, a.services.ai.Enabled())

	next := *a.Config
	next.AI.BaseURL = "http://localhost:1"
	next.AI.APIKey = "key"
	next.AI.Timeout = time.Second
	a.applyConfig(&next)

	assert.True(t, a.services.ai.Enabled())
}

type jsonBody map[string]interface{}
