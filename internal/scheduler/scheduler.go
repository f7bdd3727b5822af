package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	PruneSpec             = "@every 10m"
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
)

// Pruner drops expired in-memory entries and reports how many were removed.
type Pruner interface {
	Prune(now time.Time) int
}

type Scheduler struct {
	ctx     context.Context
	cron    *cron.Cron
	pruners map[string]Pruner
	now     func() time.Time
	log     *slog.Logger
}

func New(ctx context.Context, pruners map[string]Pruner, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:     ctx,
		cron:    c,
		pruners: pruners,
		now:     time.Now,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(PruneSpec, s.prune); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

// Stop waits for a running prune to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) prune() {
	if s.ctx.Err() != nil {
		s.log.InfoContext(s.ctx, "Scheduler context is done",
			"error", s.ctx.Err())
		return
	}

	now := s.now()
	for name, p := range s.pruners {
		if p == nil {
			continue
		}

		if removed := p.Prune(now); removed > 0 {
			s.log.InfoContext(s.ctx, "Expired entries are pruned",
				"store", name,
				"removed", removed)
		}
	}
}
