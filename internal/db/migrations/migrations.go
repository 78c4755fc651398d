// Package migrations embeds the versioned schema scripts for goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
