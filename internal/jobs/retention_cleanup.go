package jobs

import (
	"context"
	"log"
	"time"

	"caregate/internal/audit"
)

// RetentionCleanupJob deletes audit records older than the retention window.
type RetentionCleanupJob struct {
	audit  *audit.Logger
	maxAge time.Duration
}

// NewRetentionCleanupJob creates a retention cleanup job.
func NewRetentionCleanupJob(auditLogger *audit.Logger, maxAge time.Duration) *RetentionCleanupJob {
	return &RetentionCleanupJob{audit: auditLogger, maxAge: maxAge}
}

// Run deletes expired audit records.
func (j *RetentionCleanupJob) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-j.maxAge)

	deleted, err := j.audit.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	if deleted > 0 {
		log.Printf("✅ [RETENTION] Deleted %d audit records older than %s", deleted, cutoff.Format(time.RFC3339))
	}
	return nil
}
