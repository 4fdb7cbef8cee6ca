package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers read-only MCP resources over the planner's data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	if deps.App == nil {
		return fmt.Errorf("app is required")
	}
	ts := newToolset(deps)

	jsonResource(srv, "cadence://tasks/active", "Active tasks",
		"Unfinished tasks, highest priority first",
		func(ctx context.Context) (any, error) {
			return ts.listTasks(ctx, taskListInput{SortBy: "priority"})
		})
	jsonResource(srv, "cadence://tasks/overdue", "Overdue tasks",
		"Unfinished tasks past their due date",
		func(ctx context.Context) (any, error) {
			return ts.overdueTasks(ctx, struct{}{})
		})
	jsonResource(srv, "cadence://schedule/today", "Today's plan",
		"Today's schedule built from the current tasks",
		func(ctx context.Context) (any, error) {
			return ts.planDay(ctx, planInput{})
		})
	jsonResource(srv, "cadence://preferences", "Preferences",
		"Working hours, breaks, ranking weights and integrations",
		func(ctx context.Context) (any, error) {
			return ts.getPreferences(ctx, struct{}{})
		})
	return nil
}

func jsonResource(srv *mcp.Server, uri, name, description string, load func(context.Context) (any, error)) {
	srv.Resource(uri).
		Name(name).
		Description(description).
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, _ map[string]string) (*mcp.ResourceContent, error) {
			v, err := load(ctx)
			if err != nil {
				return nil, err
			}
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return nil, err
			}
			return &mcp.ResourceContent{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}
