package cronjob

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/archsim/archsim-backend/internal/api/http/middleware"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/service"
)

// DefaultSpec runs the sweep every night at 03:00 (seconds field first).
const DefaultSpec = "0 0 3 * * *"

// Reevaluator is satisfied by *service.ArchitectureService.
type Reevaluator interface {
	ReevaluateSubmitted(ctx context.Context) (int, error)
}

// Scheduler periodically re-evaluates every submitted architecture so that
// history reflects rule or weight changes.
type Scheduler struct {
	cron    *cron.Cron
	target  Reevaluator
	timeout time.Duration
}

func NewScheduler(target Reevaluator) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		target:  target,
		timeout: 10 * time.Minute,
	}
}

// Start registers the sweep under spec and starts the cron loop.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = DefaultSpec
	}
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}
	log.Printf("[info] cron scheduler started spec=%q", spec)
	s.cron.Start()
	return nil
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunOnce performs a single sweep. It is also what the cron entry calls.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx = middleware.WithRequestID(ctx, "cron-"+uuid.NewString()[:8])

	start := time.Now()
	n, err := s.target.ReevaluateSubmitted(ctx)
	service.RecordScheduledRun()
	logger := service.NewLogger(ctx)
	if err != nil {
		logger.LogError("reevaluate_submitted", err)
		return
	}
	logger.LogInfof("reevaluate_submitted", "architectures=%d duration=%s", n, time.Since(start))
}
