package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/gridfall/desktop-organizer/internal/port"
)

// Store implements port.Store using SQLite.
type Store struct {
	db *sql.DB
}

// Ensure Store implements port.Store
var _ port.Store = (*Store)(nil)

// Open opens a connection to the SQLite database
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks database connectivity
func (s *Store) Ping() error {
	return s.db.Ping()
}

// DB returns the underlying database connection
func (s *Store) DB() *sql.DB {
	return s.db
}

// migrate creates or updates the database schema
func (s *Store) migrate() error {
	migrations := []string{
		// Current position of every managed icon.
		`CREATE TABLE IF NOT EXISTS icon_positions (
			filename TEXT PRIMARY KEY,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			width INTEGER NOT NULL DEFAULT 32,
			height INTEGER NOT NULL DEFAULT 32,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Every rule set ever loaded; the newest row is the active one after
		// a restart.
		`CREATE TABLE IF NOT EXISTS rulesets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version TEXT NOT NULL,
			generated_at TIMESTAMP,
			summary TEXT,
			confidence REAL NOT NULL DEFAULT 0,
			rules_json TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// User corrections collected for the next rule generation.
		`CREATE TABLE IF NOT EXISTS corrections (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			from_region TEXT NOT NULL,
			to_region TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_rulesets_created ON rulesets(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_corrections_created ON corrections(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}

	return nil
}
