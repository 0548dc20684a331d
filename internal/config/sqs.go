package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSConfig names the two retention queues.
type SQSConfig struct {
	AWSConfig
	ArchiveQueueURL string
	CleanupQueueURL string
}

func DefaultSQSConfig() *SQSConfig {
	return &SQSConfig{
		AWSConfig:       loadAWSConfig("AWS_SQS_ENDPOINT"),
		ArchiveQueueURL: getEnvWithDefault("AWS_SQS_ARCHIVE_QUEUE_URL", "http://localhost:4566/000000000000/billing-event-archive-queue"),
		CleanupQueueURL: getEnvWithDefault("AWS_SQS_CLEANUP_QUEUE_URL", "http://localhost:4566/000000000000/billing-event-cleanup-queue"),
	}
}

func (c *SQSConfig) GetClient(ctx context.Context) (*sqs.Client, error) {
	cfg, err := c.load(ctx, sqs.ServiceID)
	if err != nil {
		return nil, err
	}
	return sqs.NewFromConfig(cfg), nil
}
