// Package history keeps a SQLite ledger of translation runs.
//
// Each run gets a UUID row when it starts, a chunk counter that advances as
// chunks complete, and a terminal status (completed or failed, with the
// failure text stored verbatim). Translated text itself is never stored; a
// failed run is restarted from scratch, not resumed.
//
// The database uses modernc.org/sqlite (pure Go) in WAL mode and a single
// schema versioned through PRAGMA user_version; a mismatch asks the operator to
// move the file aside.
package history
