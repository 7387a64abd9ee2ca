package audit

import (
	"context"
	"os"
	"testing"
	"time"

	"caregate/internal/database"
)

func setupTestLogger(t *testing.T) (*Logger, func()) {
	t.Helper()

	tmpFile := "test_audit.db"
	db, err := database.New(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(tmpFile)
		os.Remove(tmpFile + "-wal")
		os.Remove(tmpFile + "-shm")
	}

	return NewLogger(db), cleanup
}

func TestWriteAndCount(t *testing.T) {
	logger, cleanup := setupTestLogger(t)
	defer cleanup()

	ctx := context.Background()
	rec := Record{
		SessionID:       "sess-1",
		Prompt:          "icu beds?",
		Intent:          "beds",
		APICalled:       "GET /api/v1/beds/availability",
		ResponsePayload: map[string]any{"available": 4},
		Status:          "success",
		Timestamp:       time.Now().UTC(),
	}

	if err := logger.Write(ctx, rec); err != nil {
		t.Fatalf("Failed to write record: %v", err)
	}
	if err := logger.Write(ctx, rec); err != nil {
		t.Fatalf("Failed to write second record: %v", err)
	}

	n, err := logger.CountBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Failed to count records: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 records, got %d", n)
	}

	if n, _ := logger.CountBySession(ctx, "other"); n != 0 {
		t.Errorf("Expected 0 records for other session, got %d", n)
	}
}

func TestWriteDefaultsTimestamp(t *testing.T) {
	logger, cleanup := setupTestLogger(t)
	defer cleanup()

	rec := Record{
		SessionID: "sess-2",
		Prompt:    "claim #7421",
		Intent:    "claim",
		APICalled: "GET /api/v1/claims/7421",
		Status:    "failed",
	}

	if err := logger.Write(context.Background(), rec); err != nil {
		t.Fatalf("Failed to write record without timestamp: %v", err)
	}
}

func TestPurgeOlderThan(t *testing.T) {
	logger, cleanup := setupTestLogger(t)
	defer cleanup()

	ctx := context.Background()
	old := Record{SessionID: "sess-1", Prompt: "p", Intent: "beds", APICalled: "none",
		Status: "success", Timestamp: time.Now().UTC().Add(-48 * time.Hour)}
	recent := Record{SessionID: "sess-1", Prompt: "p", Intent: "beds", APICalled: "none",
		Status: "success", Timestamp: time.Now().UTC()}

	if err := logger.Write(ctx, old); err != nil {
		t.Fatalf("Failed to write old record: %v", err)
	}
	if err := logger.Write(ctx, recent); err != nil {
		t.Fatalf("Failed to write recent record: %v", err)
	}

	deleted, err := logger.PurgeOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to purge: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 record purged, got %d", deleted)
	}

	if n, _ := logger.CountBySession(ctx, "sess-1"); n != 1 {
		t.Errorf("Expected 1 record remaining, got %d", n)
	}
}

func TestRecordIsFireAndForget(t *testing.T) {
	logger, cleanup := setupTestLogger(t)
	defer cleanup()

	logger.Record(Record{
		SessionID: "sess-3",
		Prompt:    "icu beds?",
		Intent:    "beds",
		APICalled: "GET /api/v1/beds/availability",
		Status:    "success",
	})

	// Async write; poll briefly for it to land.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := logger.CountBySession(context.Background(), "sess-3"); n == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("Async record never landed")
}
