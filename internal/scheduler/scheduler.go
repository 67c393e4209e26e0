// Package scheduler runs the daily follow-up reminder job.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"crm-assistant/internal/store"
)

type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	store  store.Store
}

func New(st store.Store) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		store:  st,
	}
}

func (s *Scheduler) Start() error {
	// Daily at 08:00 UTC
	_, err := s.cron.AddFunc("0 8 * * *", func() {
		if err := s.remind(s.ctx); err != nil {
			log.Printf("follow-up reminder run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Scheduler started - follow-up reminders run daily at 08:00 UTC")
	return nil
}

// remind logs a digest of interactions that still carry a follow-up note.
func (s *Scheduler) remind(ctx context.Context) error {
	pending, err := s.store.PendingFollowUps(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		log.Println("No follow-ups pending")
		return nil
	}

	log.Printf("%d follow-up(s) pending:", len(pending))
	for _, it := range pending {
		name := "unknown HCP"
		if it.HCPName != nil && *it.HCPName != "" {
			name = *it.HCPName
		}
		log.Printf("  %s: %s (interaction %s)", name, *it.FollowUp, it.ID)
	}
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("Scheduler stopped")
}
