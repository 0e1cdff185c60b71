// Package migrations embeds the catalog SQLite schema.
package migrations

import "embed"

// FS contains embedded SQLite migrations for catalog storage.
//
//go:embed *.sql
var FS embed.FS
