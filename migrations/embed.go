// Package migrations embeds SQL migration files for the supported database dialects.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Dialects with a migration directory.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Apply executes every *.up.sql file for dialect in lexical order.
// Each file is idempotent, so Apply may run on every start.
func Apply(ctx context.Context, db *sql.DB, dialect string) error {
	entries, err := fs.ReadDir(FS, dialect)
	if err != nil {
		return fmt.Errorf("read %s migrations: %w", dialect, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, dialect+"/"+e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
	}
	return nil
}
