package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"caregate/internal/database"

	"github.com/google/uuid"
)

// Record is one auditable gateway interaction. Records are append-only:
// created once per inbound request, never mutated or deleted (except by the
// retention sweep).
type Record struct {
	SessionID       string
	Prompt          string
	Intent          string
	APICalled       string
	ResponsePayload any
	Status          string // "success" or "failed"
	Timestamp       time.Time
}

// Logger persists audit records to the session_logs table.
type Logger struct {
	db *database.DB
}

// NewLogger creates an audit logger on top of db.
func NewLogger(db *database.DB) *Logger {
	return &Logger{db: db}
}

// Record appends rec asynchronously. Write failures are logged and never
// surfaced to the caller; the audit trail is best-effort append only.
func (l *Logger) Record(rec Record) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.Write(ctx, rec); err != nil {
			log.Printf("⚠️ [AUDIT] Failed to persist record for session %s: %v", rec.SessionID, err)
		}
	}()
}

// Write appends rec synchronously.
func (l *Logger) Write(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec.ResponsePayload)
	if err != nil {
		payload = []byte("{}")
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO session_logs (id, session_id, user_prompt, intent, api_called, response_json, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), rec.SessionID, rec.Prompt, rec.Intent, rec.APICalled, string(payload), rec.Status, ts,
	)
	return err
}

// PurgeOlderThan deletes records created before cutoff and returns how many
// were removed.
func (l *Logger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM session_logs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountBySession returns how many records exist for a session.
func (l *Logger) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM session_logs WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}
