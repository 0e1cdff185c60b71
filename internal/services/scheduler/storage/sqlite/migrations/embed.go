// Package migrations embeds the scheduler SQLite schema.
package migrations

import "embed"

// FS contains embedded SQLite migrations for scheduler storage.
//
//go:embed *.sql
var FS embed.FS
