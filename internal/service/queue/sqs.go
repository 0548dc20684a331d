package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/kingrain94/tagorder-api/internal/config"
)

type MessageType string

const (
	MessageTypeArchive MessageType = "ARCHIVE"
	MessageTypeCleanup MessageType = "CLEANUP"

	typeAttribute = "message_type"
)

// Message asks a retention worker to act on billing events received before
// BeforeDate. ArchiveKey is set on CLEANUP once the archive object exists.
type Message struct {
	Type       MessageType `json:"type"`
	BeforeDate time.Time   `json:"before_date"`
	ArchiveKey string      `json:"archive_key,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

type ReceivedMessage struct {
	Message       Message
	ReceiptHandle *string
}

// API is the part of *sqs.Client the service calls.
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQSService carries retention work between the scheduler and the archive
// and cleanup workers.
type SQSService struct {
	client          API
	archiveQueueURL string
	cleanupQueueURL string
	now             func() time.Time
}

func NewSQSService(client API, config *config.SQSConfig) *SQSService {
	return &SQSService{
		client:          client,
		archiveQueueURL: config.ArchiveQueueURL,
		cleanupQueueURL: config.CleanupQueueURL,
		now:             time.Now,
	}
}

func (s *SQSService) ArchiveQueueURL() string { return s.archiveQueueURL }

func (s *SQSService) CleanupQueueURL() string { return s.cleanupQueueURL }

func (s *SQSService) SendArchiveMessage(ctx context.Context, beforeDate time.Time) error {
	return s.send(ctx, s.archiveQueueURL, Message{
		Type:       MessageTypeArchive,
		BeforeDate: beforeDate,
	})
}

func (s *SQSService) SendCleanupMessage(ctx context.Context, beforeDate time.Time, archiveKey string) error {
	return s.send(ctx, s.cleanupQueueURL, Message{
		Type:       MessageTypeCleanup,
		BeforeDate: beforeDate,
		ArchiveKey: archiveKey,
	})
}

func (s *SQSService) send(ctx context.Context, queueURL string, msg Message) error {
	msg.Timestamp = s.now().UTC()
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", msg.Type, err)
	}

	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			typeAttribute: {DataType: aws.String("String"), StringValue: aws.String(string(msg.Type))},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send %s message: %w", msg.Type, err)
	}
	return nil
}

// ReceiveMessages long-polls queueURL. Bodies that do not decode are deleted
// on the spot so they cannot block the queue.
func (s *SQSService) ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, waitTimeSeconds int32) ([]ReceivedMessage, error) {
	output, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: maxMessages,
		WaitTimeSeconds:     waitTimeSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages: %w", err)
	}

	messages := make([]ReceivedMessage, 0, len(output.Messages))
	for _, raw := range output.Messages {
		var msg Message
		if err := json.Unmarshal([]byte(aws.ToString(raw.Body)), &msg); err != nil || msg.Type == "" {
			if delErr := s.DeleteMessage(ctx, queueURL, raw.ReceiptHandle); delErr != nil {
				return messages, fmt.Errorf("failed to drop malformed message %s: %w", aws.ToString(raw.MessageId), delErr)
			}
			continue
		}
		messages = append(messages, ReceivedMessage{Message: msg, ReceiptHandle: raw.ReceiptHandle})
	}
	return messages, nil
}

func (s *SQSService) DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error {
	_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
