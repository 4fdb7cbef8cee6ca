package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	_ "time/tzdata"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC)

func newTask(t *testing.T, title string) *task.Task {
	t.Helper()
	tk, err := task.NewTask(uuid.New(), title)
	require.NoError(t, err)
	return tk
}

func advisorContext(tasks ...*task.Task) schedulingDomain.AdvisorContext {
	return schedulingDomain.NewAdvisorContext(prefsDomain.DefaultPreferences(uuid.New()), tasks, now)
}

// completionServer answers every request with content and counts calls.
func completionServer(t *testing.T, content string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
		})
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestAdvisor_Suggest(t *testing.T) {
	var payload chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` +
			`"{\"priority\":\"High\",\"scheduledTime\":\"2024-03-04T10:00:00Z\",\"insights\":\"Do it early.\"}"}}]}`))
	}))
	defer server.Close()

	a, err := NewAdvisor(Config{BaseURL: server.URL + "/v1/", APIKey: "test-key", Model: "test-model"}, nil)
	require.NoError(t, err)
	tk := newTask(t, "write report")

	s, err := a.Suggest(context.Background(), tk, advisorContext(tk))

	require.NoError(t, err)
	assert.Equal(t, "High", s.Priority)
	assert.True(t, s.ScheduledTime.Equal(time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Do it early.", s.Insight)
	assert.True(t, s.Valid())

	assert.Equal(t, "test-model", payload.Model)
	require.Len(t, payload.Messages, 2)
	assert.Equal(t, "system", payload.Messages[0].Role)
	assert.Contains(t, payload.Messages[1].Content, "write report")
	assert.Contains(t, payload.Messages[1].Content, "existingTasks")
}

func TestAdvisor_RepairsSloppyJSON(t *testing.T) {
	server, _ := completionServer(t, "```json\n{priority: 'low', scheduledTime: '2024-03-04T14:00', insights: 'after lunch',}\n```")
	a, err := NewAdvisor(Config{BaseURL: server.URL}, nil)
	require.NoError(t, err)
	tk := newTask(t, "t")
	ac := advisorContext(tk)
	ac.Timezone = "Europe/Berlin"

	s, err := a.Suggest(context.Background(), tk, ac)

	require.NoError(t, err)
	assert.Equal(t, "low", s.Priority)
	assert.Equal(t, "after lunch", s.Insight)
	assert.True(t, s.ScheduledTime.Equal(time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC)))
}

func TestAdvisor_UnreadableTimeIsLeftZero(t *testing.T) {
	server, _ := completionServer(t, `{"priority": "medium", "scheduledTime": "tomorrow morning", "insight": "soon"}`)
	a, err := NewAdvisor(Config{BaseURL: server.URL}, nil)
	require.NoError(t, err)
	tk := newTask(t, "t")

	s, err := a.Suggest(context.Background(), tk, advisorContext(tk))

	require.NoError(t, err)
	assert.True(t, s.ScheduledTime.IsZero())
	assert.Equal(t, "soon", s.Insight)
	assert.False(t, s.Valid())
}

func TestAdvisor_CachesPerTaskVersionAndHour(t *testing.T) {
	server, calls := completionServer(t, `{"priority": "high", "scheduledTime": "2024-03-04T09:00:00Z"}`)
	a, err := NewAdvisor(Config{BaseURL: server.URL}, nil)
	require.NoError(t, err)
	tk := newTask(t, "t")
	ac := advisorContext(tk)

	_, err = a.Suggest(context.Background(), tk, ac)
	require.NoError(t, err)
	_, err = a.Suggest(context.Background(), tk, ac)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	ac.Now = ac.Now.Add(time.Hour)
	_, err = a.Suggest(context.Background(), tk, ac)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAdvisor_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, `{"error": {"message": "overloaded"}}`, "overloaded"},
		{"no choices", http.StatusOK, `{"choices": []}`, ErrEmptyResponse.Error()},
		{"not json", http.StatusOK, `<html>bad gateway</html>`, "decode advisor response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()
			a, err := NewAdvisor(Config{BaseURL: server.URL}, nil)
			require.NoError(t, err)
			tk := newTask(t, "t")

			_, err = a.Suggest(context.Background(), tk, advisorContext(tk))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAdvisor_RateLimited(t *testing.T) {
	server, calls := completionServer(t, `{"priority": "high", "scheduledTime": "2024-03-04T09:00:00Z"}`)
	a, err := NewAdvisor(Config{BaseURL: server.URL, RatePerSecond: 0.001, Burst: 1}, nil)
	require.NoError(t, err)

	first := newTask(t, "first")
	_, err = a.Suggest(context.Background(), first, advisorContext(first))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	second := newTask(t, "second")
	_, err = a.Suggest(ctx, second, advisorContext(second))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewAdvisor_RequiresBaseURL(t *testing.T) {
	_, err := NewAdvisor(Config{}, nil)

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestParseSuggestion_Garbage(t *testing.T) {
	_, err := parseSuggestion("I cannot help with that.", time.UTC)

	assert.Error(t, err)
}
