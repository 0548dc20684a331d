package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/internal/domain"
	"github.com/kingrain94/tagorder-api/internal/metrics"
	"github.com/kingrain94/tagorder-api/internal/repository"
	"github.com/kingrain94/tagorder-api/internal/service/queue"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

// ObjectStore is satisfied by *s3.Client.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type billingEventArchive struct {
	BeforeDate time.Time             `json:"before_date"`
	ArchivedAt time.Time             `json:"archived_at"`
	EventCount int                   `json:"event_count"`
	Events     []domain.BillingEvent `json:"events"`
}

// ArchiveWorker copies billing events older than an ARCHIVE message's cutoff
// to S3, then hands the cutoff to the cleanup queue.
type ArchiveWorker struct {
	*pool
	queue      RetentionQueue
	repository repository.Repository
	store      ObjectStore
	bucket     string
	logger     *logger.Logger
	now        func() time.Time
}

func NewArchiveWorker(
	queue RetentionQueue,
	repository repository.Repository,
	store ObjectStore,
	bucket string,
	logger *logger.Logger,
	workerCount int,
	pollInterval time.Duration,
) *ArchiveWorker {
	w := &ArchiveWorker{
		queue:      queue,
		repository: repository,
		store:      store,
		bucket:     bucket,
		logger:     logger,
		now:        time.Now,
	}
	w.pool = newPool("archive", logger, workerCount, pollInterval, w.processMessages)
	return w
}

func (w *ArchiveWorker) processMessages(ctx context.Context) error {
	queueURL := w.queue.ArchiveQueueURL()

	messages, err := w.queue.ReceiveMessages(ctx, queueURL, defaultMaxMessages, defaultWaitSeconds)
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range messages {
		if msg.Message.Type != queue.MessageTypeArchive {
			w.logger.Warn("Unexpected message on archive queue", zap.String("type", string(msg.Message.Type)))
			continue
		}

		if err := w.processArchiveMessage(ctx, msg.Message); err != nil {
			w.logger.Error("Failed to process archive message", err, zap.Time("before", msg.Message.BeforeDate))
			continue
		}

		// Only delete the message if processing was successful
		if err := w.queue.DeleteMessage(ctx, queueURL, msg.ReceiptHandle); err != nil {
			w.logger.Error("Failed to delete archive message", err)
		}
	}

	return nil
}

func (w *ArchiveWorker) processArchiveMessage(ctx context.Context, msg queue.Message) error {
	events, err := w.repository.BillingEvent().ListBefore(ctx, msg.BeforeDate, 0)
	if err != nil {
		return fmt.Errorf("failed to fetch billing events before %s: %w", msg.BeforeDate.Format(time.RFC3339), err)
	}

	if len(events) == 0 {
		w.logger.Info("No billing events to archive", zap.Time("before", msg.BeforeDate))
		return nil
	}

	key, err := w.upload(ctx, msg.BeforeDate, events)
	if err != nil {
		return err
	}
	metrics.ArchivedEventsTotal.WithLabelValues("archived").Add(float64(len(events)))

	w.logger.Info("Billing events archived",
		zap.Int("count", len(events)),
		zap.String("bucket", w.bucket),
		zap.String("key", key))

	if err := w.queue.SendCleanupMessage(ctx, msg.BeforeDate, key); err != nil {
		return fmt.Errorf("failed to enqueue cleanup message: %w", err)
	}
	return nil
}

func (w *ArchiveWorker) upload(ctx context.Context, beforeDate time.Time, events []domain.BillingEvent) (string, error) {
	archivedAt := w.now().UTC()
	key := ArchiveKey(beforeDate, archivedAt)

	body, err := json.Marshal(billingEventArchive{
		BeforeDate: beforeDate,
		ArchivedAt: archivedAt,
		EventCount: len(events),
		Events:     events,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal billing events: %w", err)
	}

	_, err = w.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"before-date": beforeDate.Format(time.RFC3339),
			"event-count": strconv.Itoa(len(events)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload archive to S3: %w", err)
	}
	return key, nil
}

// ArchiveKey names the S3 object for one retention run.
func ArchiveKey(beforeDate, archivedAt time.Time) string {
	return fmt.Sprintf("billing-events/%s/billing_events_before_%s_%s.json",
		beforeDate.UTC().Format("2006/01"),
		beforeDate.UTC().Format("2006-01-02"),
		archivedAt.UTC().Format("20060102T150405Z"))
}
