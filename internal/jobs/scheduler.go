package jobs

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled background work.
type Job interface {
	Run(ctx context.Context) error
}

// Scheduler runs registered jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Register adds a job under the given cron spec (standard 5-field syntax).
func (s *Scheduler) Register(spec, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job.Run(context.Background()); err != nil {
			log.Printf("⚠️ [SCHEDULER] Job '%s' failed: %v", name, err)
		}
	})
	if err != nil {
		return err
	}

	log.Printf("✅ [SCHEDULER] Registered job: %s (%s)", name, spec)
	return nil
}

// Start begins running all registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("🚀 [SCHEDULER] Job scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 [SCHEDULER] Job scheduler stopped")
}
