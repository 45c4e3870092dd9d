package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteDB wraps the SQLite event log connection.
type SQLiteDB struct {
	*sql.DB
}

// NewSQLiteDB opens (or creates) the database at path and runs migrations.
// ":memory:" opens a private in-memory database.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// one writer keeps appends serialized and the in-memory database shared
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &SQLiteDB{DB: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

const sqliteVersion = 1

func (s *SQLiteDB) migrate() error {
	var version int
	if err := s.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= sqliteVersion {
		return nil
	}

	// presenze keeps the column layout of the original bot database so
	// existing files can be opened as they are
	if _, err := s.Exec(`
CREATE TABLE IF NOT EXISTS presenze (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id   TEXT,
	nome      TEXT,
	azione    TEXT,
	timestamp TEXT,
	lat       REAL,
	lon       REAL
);
CREATE INDEX IF NOT EXISTS idx_presenze_user_time ON presenze (user_id, timestamp, id);
`); err != nil {
		return fmt.Errorf("create presenze: %w", err)
	}

	_, err := s.Exec(fmt.Sprintf("PRAGMA user_version = %d", sqliteVersion))
	return err
}
