// Package database provides SQLite-based storage for passprivacy run history.
//
// This package implements the HistoryDB, which stores:
//   - One row per analysis run with its parameters and the report as JSON
//   - One row per evaluated (truncation length, digest) pair with its k-anonymity
//
// Only numbers, algorithm names and dataset paths are stored. Passwords,
// digests and bucket prefixes never reach the database.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because the history is a single local file, and the CGO-free
// driver keeps cross-compilation easy.
package database
