// Package migrations creates the schema for either backend.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Run applies every *.up.sql file for the connection's driver in name
// order. Statements are idempotent so Run is safe on every start.
func Run(ctx context.Context, conn database.Connection) error {
	dir := conn.Driver().String()
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return fmt.Errorf("read %s migrations: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	for _, name := range names {
		body, err := files.ReadFile(path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := conn.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
