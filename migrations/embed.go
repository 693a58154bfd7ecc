// Package migrations carries the goose schema migrations applied by laurelctl.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
