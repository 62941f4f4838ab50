// internal/adapters/db/embed.go
package db

import "embed"

// MigrationFiles holds the SQL migrations compiled into the binary so the
// api and worker images need no migrations directory on disk.
//
//go:embed migrations/*.sql
var MigrationFiles embed.FS
