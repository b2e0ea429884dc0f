// Package migrations embeds the versioned schema files applied by the
// migration runner when no MIGRATIONS_DIR override is configured.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
