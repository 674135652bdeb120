// Package migration embeds the SQL scripts that build the cache schema.
package migration

import "embed"

//go:embed *.sql
var Scripts embed.FS
