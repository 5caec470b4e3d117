package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SessionReaper deletes refresh-token sessions past their expiry.
type SessionReaper interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs the periodic session reap. Expiry checks during refresh
// never delete rows; this job is the only collector.
type Scheduler struct {
	cron     *cron.Cron
	sessions SessionReaper
	log      zerolog.Logger
}

func NewScheduler(sessions SessionReaper, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		sessions: sessions,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.reapSessions); err != nil { // daily, off-peak
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits briefly for a running reap to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) reapSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("session reap failed")
		return
	}
	if count > 0 {
		s.log.Info().Int64("reaped", count).Msg("expired sessions deleted")
	}
}
