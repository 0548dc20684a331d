package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/internal/service/queue"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

const (
	defaultMaxMessages = 10
	defaultWaitSeconds = 20
)

// RetentionQueue is the subset of the SQS service the retention workers use.
type RetentionQueue interface {
	ArchiveQueueURL() string
	CleanupQueueURL() string
	SendCleanupMessage(ctx context.Context, beforeDate time.Time, archiveKey string) error
	ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, waitTimeSeconds int32) ([]queue.ReceivedMessage, error)
	DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error
}

// pool runs poll on workerCount goroutines every pollInterval until Stop.
type pool struct {
	name         string
	logger       *logger.Logger
	workerCount  int
	pollInterval time.Duration
	poll         func(ctx context.Context) error

	ctx       context.Context
	cancel    context.CancelFunc
	waitGroup sync.WaitGroup
}

func newPool(name string, logger *logger.Logger, workerCount int, pollInterval time.Duration, poll func(ctx context.Context) error) *pool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &pool{
		name:         name,
		logger:       logger,
		workerCount:  workerCount,
		pollInterval: pollInterval,
		poll:         poll,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (p *pool) Start() {
	p.logger.Info("Starting workers", zap.String("worker", p.name), zap.Int("count", p.workerCount))

	for i := 0; i < p.workerCount; i++ {
		p.waitGroup.Add(1)
		go p.run(i)
	}
}

// Stop cancels in-flight polls and waits for every goroutine to exit.
func (p *pool) Stop() {
	p.logger.Info("Stopping workers", zap.String("worker", p.name))
	p.cancel()
	p.waitGroup.Wait()
	p.logger.Info("All workers stopped", zap.String("worker", p.name))
}

func (p *pool) run(workerID int) {
	defer p.waitGroup.Done()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			if err := p.poll(p.ctx); err != nil && p.ctx.Err() == nil {
				p.logger.Error("Failed to process messages", err,
					zap.String("worker", p.name),
					zap.Int("worker_id", workerID))
			}
		}
	}
}
