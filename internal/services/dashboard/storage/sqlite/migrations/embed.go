package migrations

import "embed"

// FS contains embedded SQLite migrations for dashboard scope storage.
//
//go:embed *.sql
var FS embed.FS
