package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/sanjitr11/semiotic-logo-generator/config"
	"github.com/sanjitr11/semiotic-logo-generator/internal/logging"
)

// Sweeper fails projects with no progress since a cutoff. *service.Service implements it.
type Sweeper interface {
	SweepStale(ctx context.Context, before time.Time) (int, error)
}

// Scheduler runs the stale-project sweep on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	sweeper    Sweeper
	schedule   string
	staleAfter time.Duration
	now        func() time.Time
	log        logrus.FieldLogger
}

func NewScheduler(sweeper Sweeper, cfg config.SweepConfig, log logrus.FieldLogger) *Scheduler {
	if log == nil {
		log = logging.Discard()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		sweeper:    sweeper,
		schedule:   cfg.Schedule,
		staleAfter: cfg.StaleAfter,
		now:        time.Now,
		log:        log.WithField("job", "stale_sweep"),
	}
}

// Start registers the sweep and starts the cron loop. Each run is bounded by ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.WithError(err).Error("stale sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule stale sweep %q: %w", s.schedule, err)
	}

	s.log.WithFields(logrus.Fields{
		"schedule":    s.schedule,
		"stale_after": s.staleAfter.String(),
	}).Info("cron scheduler started")
	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for a running sweep to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce sweeps projects last updated more than staleAfter ago.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	marked, err := s.sweeper.SweepStale(ctx, s.now().Add(-s.staleAfter))
	if err != nil {
		return marked, err
	}
	if marked > 0 {
		s.log.WithField("marked", marked).Info("stale projects marked as error")
	}
	return marked, nil
}
