// Package migrations embeds the goose SQL migrations for the registry tables
// so the server, the migrate command and the integration tests all apply the
// same schema without depending on a path at runtime.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
