package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/pkg/logger"
	"github.com/kingrain94/tagorder-api/pkg/utils"
)

type ArchiveEnqueuer interface {
	SendArchiveMessage(ctx context.Context, beforeDate time.Time) error
}

// RetentionScheduler periodically asks the archive worker to move billing
// events older than the retention window out of postgres.
type RetentionScheduler struct {
	queue         ArchiveEnqueuer
	retentionDays int
	clock         clockwork.Clock
	logger        *logger.Logger
}

func NewRetentionScheduler(queue ArchiveEnqueuer, retentionDays int, clock clockwork.Clock, logger *logger.Logger) *RetentionScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RetentionScheduler{
		queue:         queue,
		retentionDays: retentionDays,
		clock:         clock,
		logger:        logger,
	}
}

// Cutoff is the start of the UTC day retentionDays ago.
func (s *RetentionScheduler) Cutoff() time.Time {
	return utils.DaysAgo(s.clock.Now(), s.retentionDays)
}

func (s *RetentionScheduler) EnqueueArchive(ctx context.Context) error {
	cutoff := s.Cutoff()
	if err := s.queue.SendArchiveMessage(ctx, cutoff); err != nil {
		return fmt.Errorf("failed to enqueue archive message: %w", err)
	}
	s.logger.Info("Billing event archive scheduled", zap.Time("before", cutoff))
	return nil
}

// Register adds the archive job to c on the given cron spec.
func (s *RetentionScheduler) Register(ctx context.Context, c *cron.Cron, spec string) (cron.EntryID, error) {
	if s.retentionDays <= 0 {
		return 0, fmt.Errorf("retention days must be positive, got %d", s.retentionDays)
	}
	return c.AddFunc(spec, func() {
		if err := s.EnqueueArchive(ctx); err != nil {
			s.logger.Error("Scheduled archive failed", err)
		}
	})
}
