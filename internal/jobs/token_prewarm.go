package jobs

import (
	"context"
	"time"

	"caregate/internal/erp"
)

// TokenPrewarmJob keeps the upstream credential warm so the first query
// after a quiet period does not pay the exchange latency.
type TokenPrewarmJob struct {
	tokens *erp.TokenProvider
}

// NewTokenPrewarmJob creates a token pre-warm job.
func NewTokenPrewarmJob(tokens *erp.TokenProvider) *TokenPrewarmJob {
	return &TokenPrewarmJob{tokens: tokens}
}

// Run acquires or refreshes the credential if needed.
func (j *TokenPrewarmJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := j.tokens.Token(ctx)
	return err
}
