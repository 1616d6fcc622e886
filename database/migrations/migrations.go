// Package migrations contains all database migration files.
// Each migration file uses init() to call migration.Register().
// Blank-import this package wherever migrations must be available
// (cmd/telas, internal/server, tests).
package migrations
