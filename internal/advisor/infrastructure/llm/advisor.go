package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultCacheSize = 256
	maxResponseBytes = 1 << 20
)

var (
	// ErrNotConfigured is returned when no endpoint is set.
	ErrNotConfigured = errors.New("advisor: base URL is required")
	// ErrEmptyResponse is returned when the model produced no content.
	ErrEmptyResponse = errors.New("advisor: empty response")
)

// Config configures the chat-completions advisor.
type Config struct {
	BaseURL       string
	APIKey        string
	Model         string
	RatePerSecond float64
	Burst         int
	CacheSize     int
	HTTPClient    *http.Client
}

// Advisor asks an OpenAI-compatible chat completions endpoint for a
// priority and start time per task. Answers are cached per task version
// and hour, and outgoing calls are rate limited.
type Advisor struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	limiter *rate.Limiter
	cache   *lru.Cache[string, schedulingDomain.Suggestion]
	logger  *slog.Logger
}

// NewAdvisor creates an advisor from config.
func NewAdvisor(config Config, logger *slog.Logger) (*Advisor, error) {
	if config.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.CacheSize <= 0 {
		config.CacheSize = defaultCacheSize
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}

	limit := rate.Inf
	if config.RatePerSecond > 0 {
		limit = rate.Limit(config.RatePerSecond)
	}
	if config.Burst < 1 {
		config.Burst = 1
	}

	cache, err := lru.New[string, schedulingDomain.Suggestion](config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("advisor cache: %w", err)
	}

	return &Advisor{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		model:   config.Model,
		client:  config.HTTPClient,
		limiter: rate.NewLimiter(limit, config.Burst),
		cache:   cache,
		logger:  logger,
	}, nil
}

var _ schedulingDomain.Advisor = (*Advisor)(nil)

// Suggest implements schedulingDomain.Advisor.
func (a *Advisor) Suggest(ctx context.Context, t *task.Task, ac schedulingDomain.AdvisorContext) (*schedulingDomain.Suggestion, error) {
	key := cacheKey(t, ac.Now)
	if s, ok := a.cache.Get(key); ok {
		return &s, nil
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("advisor rate limit: %w", err)
	}

	prompt, err := buildPrompt(t, ac)
	if err != nil {
		return nil, err
	}
	content, err := a.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	loc := time.UTC
	if ac.Timezone != "" {
		if l, err := time.LoadLocation(ac.Timezone); err == nil {
			loc = l
		}
	}
	s, err := parseSuggestion(content, loc)
	if err != nil {
		a.logger.Warn("unparseable advisor response", "task_id", t.ID(), "error", err)
		return nil, err
	}

	a.cache.Add(key, *s)
	a.logger.Debug("advisor suggestion", "task_id", t.ID(), "priority", s.Priority)
	return s, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (a *Advisor) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.2,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisor request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read advisor response: %w", err)
	}

	var parsed chatResponse
	decodeErr := json.Unmarshal(raw, &parsed)
	if resp.StatusCode >= http.StatusBadRequest {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("advisor returned %d: %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode advisor response: %w", decodeErr)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return parsed.Choices[0].Message.Content, nil
}

func cacheKey(t *task.Task, now time.Time) string {
	return fmt.Sprintf("%s:%d:%d", t.ID(), t.Version(), now.Truncate(time.Hour).Unix())
}
