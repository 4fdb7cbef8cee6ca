package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common planning workflows.
func RegisterPrompts(srv *mcp.Server) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("daily_planning").
		Description("Plan the day: review open work, build the schedule and decide on advisor suggestions.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Daily Planning Session",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me plan my day. Please:

1. Read cadence://tasks/overdue and decide with me which tasks to postpone (task.postpone) or finish first.
2. Call schedule.plan with with_advice set to true.
3. Walk me through the plan: what is scheduled when, and what did not fit.
4. For each suggestion whose priority differs from the current one, explain the insight and ask whether to accept it with priority.commit.

If the plan reports degraded collaborators, tell me which ones and that the plan ignored them.`,
						},
					},
				},
			}, nil
		})

	srv.Prompt("unblock_day").
		Description("Make room when the plan does not fit the day.").
		Argument("date", "Day to rework (YYYY-MM-DD, default today)", false).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			day := args["date"]
			if day == "" {
				day = "today"
			}
			return &mcp.PromptResult{
				Description: "Rework an overfull day",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`My plan for %s does not fit. Call schedule.plan for that date and schedule.free to see the gaps.
For every unscheduled task, propose one of: shrink the estimate (task.update), move it to another day (task.postpone), or drop something lower priority. Apply only the changes I confirm.`, day),
						},
					},
				},
			}, nil
		})

	return nil
}
