package service

import (
	"context"
	"time"

	"socialhub/internal/repository"

	"github.com/sirupsen/logrus"
)

// SessionReaper deletes ledger rows whose expiry has passed. Those rows can
// only back assertions that already fail signature verification, so
// sweeping them does not change what any request observes.
type SessionReaper struct {
	sessions repository.SessionRepository
	interval time.Duration
	clock    Clock
	logger   logrus.FieldLogger
}

func NewSessionReaper(sessions repository.SessionRepository, interval time.Duration, clock Clock, logger logrus.FieldLogger) *SessionReaper {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SessionReaper{
		sessions: sessions,
		interval: interval,
		clock:    clock,
		logger:   logger,
	}
}

// Run sweeps once per interval until ctx is cancelled. A non-positive
// interval disables the reaper.
func (r *SessionReaper) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = r.Sweep(ctx)
		}
	}
}

func (r *SessionReaper) Sweep(ctx context.Context) (int64, error) {
	removed, err := r.sessions.DeleteExpired(ctx, now(r.clock))
	if err != nil {
		r.logger.WithError(err).Error("session sweep failed")
		return 0, err
	}
	if removed > 0 {
		r.logger.WithField("removed", removed).Info("expired sessions removed")
	}
	return removed, nil
}
