// Package db embeds the SQL migrations applied by the catalog store.
package db

import "embed"

// Migrations holds the numbered *.up.sql / *.down.sql files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
