// Package migrations embeds the forward and backward SQL migrations for the
// ledger store into the binary, so a fresh database can be set up without
// shipping files next to the executable.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
