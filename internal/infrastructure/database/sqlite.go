package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// ConnectSQLite opens the state database in WAL mode. The tracking engine is
// the single writer, so a short busy timeout is enough.
func ConnectSQLite(path string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=500&", path))
}
