package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophaccounts/internal/logging"
	"github.com/dmitrijs2005/gophaccounts/internal/server/repositories/repomanager"
)

// CleanupService purges accounts that stayed unverified past the retention
// window. Overlapping sweeps are safe: each is one bulk delete statement.
type CleanupService struct {
	uow       repomanager.UnitOfWork
	retention time.Duration
	logger    logging.Logger
}

func NewCleanupService(uow repomanager.UnitOfWork, retention time.Duration, logger logging.Logger) *CleanupService {
	return &CleanupService{uow: uow, retention: retention, logger: logger.With("module", "cleanup")}
}

// Sweep removes stale unverified accounts once and returns how many were removed.
func (s *CleanupService) Sweep(ctx context.Context) (int64, error) {
	var removed int64
	err := s.uow.Do(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		removed, err = repos.Users().DeleteStaleUnverified(ctx, s.retention)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info(ctx, "stale unverified accounts removed", "count", removed, "retention", s.retention.String())
	return removed, nil
}

// Run sweeps immediately and then on every tick of interval until ctx is
// done. A failed sweep is logged and the loop goes on.
func (s *CleanupService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error(ctx, "cleanup sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
