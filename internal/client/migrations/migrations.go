// Package migrations embeds the SQLite schema of the CLI session file.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
