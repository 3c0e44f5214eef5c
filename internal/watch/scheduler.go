package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
)

// Scheduler triggers periodic full rebuilds through the rebuilder's gate.
type Scheduler struct {
	scheduler gocron.Scheduler
	rebuilder *Rebuilder
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(rebuilder *Rebuilder) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, foundation.InternalError("create scheduler").WithCause(err).Build()
	}
	return &Scheduler{scheduler: s, rebuilder: rebuilder}, nil
}

// Every schedules a full rebuild each interval. The job skips a run while
// the previous one is still going instead of stacking.
func (s *Scheduler) Every(ctx context.Context, interval time.Duration) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.rebuilder.RebuildAll(ctx) }),
		gocron.WithName("full-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", foundation.ConfigError("schedule full rebuild").
			WithCause(err).WithContext("interval", interval.String()).Build()
	}
	slog.Info("Scheduled full rebuild", slog.String("every", interval.String()))
	return job.ID().String(), nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop shuts the scheduler down.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
