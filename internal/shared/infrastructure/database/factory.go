package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config selects and configures a backend.
type Config struct {
	// Driver is detected from URL when empty or "auto".
	Driver Driver
	// URL is the Postgres connection string.
	URL string
	// SQLitePath defaults to ~/.cadence/cadence.db.
	SQLitePath string
	// MaxConns caps the Postgres pool.
	MaxConns int
}

// Opener creates a connection for one backend.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]Opener{}

// Register makes a backend available to Open. Backend packages call it
// from init, so importing them for side effects is enough.
func Register(d Driver, open Opener) {
	openers[d] = open
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	d := cfg.Driver
	if d == "" || d == "auto" {
		d = DetectDriver(cfg.URL)
	}
	open, ok := openers[d]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", d)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath returns the local database location.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cadence", "cadence.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
