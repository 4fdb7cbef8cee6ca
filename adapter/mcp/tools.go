package mcp

import (
	"errors"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/mcp-go"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
	// Now defaults to time.Now.
	Now func() time.Time
}

// toolset holds the tool handlers. Each handler mirrors one CLI command.
type toolset struct {
	app *cli.App
	now func() time.Time
}

func newToolset(deps ToolDependencies) *toolset {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &toolset{app: deps.App, now: now}
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	ts := newToolset(deps)
	registerTaskTools(srv, ts)
	registerScheduleTools(srv, ts)
	registerSettingsTools(srv, ts)
	return nil
}
