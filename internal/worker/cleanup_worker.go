package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/internal/metrics"
	"github.com/kingrain94/tagorder-api/internal/repository"
	"github.com/kingrain94/tagorder-api/internal/service/queue"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

// CleanupWorker deletes billing events that an archive run has already
// written to S3.
type CleanupWorker struct {
	*pool
	queue      RetentionQueue
	repository repository.Repository
	logger     *logger.Logger
}

func NewCleanupWorker(
	queue RetentionQueue,
	repository repository.Repository,
	logger *logger.Logger,
	workerCount int,
	pollInterval time.Duration,
) *CleanupWorker {
	w := &CleanupWorker{
		queue:      queue,
		repository: repository,
		logger:     logger,
	}
	w.pool = newPool("cleanup", logger, workerCount, pollInterval, w.processMessages)
	return w
}

func (w *CleanupWorker) processMessages(ctx context.Context) error {
	queueURL := w.queue.CleanupQueueURL()

	messages, err := w.queue.ReceiveMessages(ctx, queueURL, defaultMaxMessages, defaultWaitSeconds)
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range messages {
		if msg.Message.Type != queue.MessageTypeCleanup {
			w.logger.Warn("Unexpected message on cleanup queue", zap.String("type", string(msg.Message.Type)))
			continue
		}

		if err := w.processCleanupMessage(ctx, msg.Message); err != nil {
			w.logger.Error("Failed to process cleanup message", err, zap.Time("before", msg.Message.BeforeDate))
			continue
		}

		if err := w.queue.DeleteMessage(ctx, queueURL, msg.ReceiptHandle); err != nil {
			w.logger.Error("Failed to delete cleanup message", err)
		}
	}

	return nil
}

func (w *CleanupWorker) processCleanupMessage(ctx context.Context, msg queue.Message) error {
	// Nothing was archived, so nothing may be deleted.
	if msg.ArchiveKey == "" {
		w.logger.Warn("Cleanup message without archive key skipped", zap.Time("before", msg.BeforeDate))
		return nil
	}

	deleted, err := w.repository.BillingEvent().DeleteBefore(ctx, msg.BeforeDate)
	if err != nil {
		return fmt.Errorf("failed to delete billing events before %s: %w", msg.BeforeDate.Format(time.RFC3339), err)
	}
	metrics.ArchivedEventsTotal.WithLabelValues("deleted").Add(float64(deleted))

	w.logger.Info("Archived billing events deleted",
		zap.Int64("count", deleted),
		zap.String("archive_key", msg.ArchiveKey),
		zap.Time("before", msg.BeforeDate))
	return nil
}
