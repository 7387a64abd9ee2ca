package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// New opens the gateway's SQLite database at path.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite handles one writer at a time; keep the pool small.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ SQLite database connected")

	return &DB{db}, nil
}

// Initialize creates all required tables
func (db *DB) Initialize() error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS session_logs (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL,
		user_prompt TEXT NOT NULL,
		intent      TEXT NOT NULL,
		api_called  TEXT NOT NULL,
		response_json TEXT NOT NULL,
		status      TEXT NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("failed to create session_logs table: %w", err)
	}

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_session_logs_session ON session_logs(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_session_logs_intent ON session_logs(intent)`,
		`CREATE INDEX IF NOT EXISTS idx_session_logs_status ON session_logs(status)`,
		`CREATE INDEX IF NOT EXISTS idx_session_logs_created ON session_logs(created_at)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database initialized successfully")
	return nil
}
