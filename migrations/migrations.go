package migrations

import "embed"

// FS holds the versioned SQL files applied by cmd/migrate.
//
//go:embed *.sql
var FS embed.FS
