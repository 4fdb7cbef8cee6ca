package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/kaptinlin/jsonrepair"
)

const systemPrompt = "You are a task management assistant that helps prioritize and schedule tasks. " +
	`Reply with a single JSON object: {"priority": "low|medium|high", ` +
	`"scheduledTime": "<RFC3339 start time>", "insights": "<one or two sentences>"}.`

type promptPayload struct {
	Task        schedulingDomain.TaskSummary    `json:"task"`
	Description string                          `json:"description,omitempty"`
	Context     schedulingDomain.AdvisorContext `json:"context"`
	Request     string                          `json:"request"`
}

func buildPrompt(t *task.Task, ac schedulingDomain.AdvisorContext) (string, error) {
	b, err := json.Marshal(promptPayload{
		Task:        schedulingDomain.Summarize(t),
		Description: t.Description(),
		Context:     ac,
		Request:     "Suggest a priority and the best start time for this task.",
	})
	if err != nil {
		return "", fmt.Errorf("encode advisor prompt: %w", err)
	}
	return string(b), nil
}

type suggestionPayload struct {
	Priority      string `json:"priority"`
	ScheduledTime string `json:"scheduledTime"`
	Insights      string `json:"insights"`
	Insight       string `json:"insight"`
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseSuggestion decodes model output, repairing sloppy JSON first. An
// unreadable time is left zero so the merger falls back.
func parseSuggestion(content string, loc *time.Location) (*schedulingDomain.Suggestion, error) {
	content = stripFences(content)

	var p suggestionPayload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(content)
		if repairErr != nil {
			return nil, fmt.Errorf("advisor response is not JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &p); err != nil {
			return nil, fmt.Errorf("decode repaired advisor response: %w", err)
		}
	}

	s := &schedulingDomain.Suggestion{
		Priority: strings.TrimSpace(p.Priority),
		Insight:  strings.TrimSpace(p.Insights),
	}
	if s.Insight == "" {
		s.Insight = strings.TrimSpace(p.Insight)
	}
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, strings.TrimSpace(p.ScheduledTime), loc); err == nil {
			s.ScheduledTime = ts
			break
		}
	}
	return s, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
