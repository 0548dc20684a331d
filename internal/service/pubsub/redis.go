package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

const (
	channelPrefix = "store_events:"
)

type RedisPubSub struct {
	client       *redis.Client
	logger       *logger.Logger
	subscribers  map[string]*redis.PubSub // store ID -> subscription
	subscriberMu sync.RWMutex
}

func NewRedisPubSub(client *redis.Client, logger *logger.Logger) *RedisPubSub {
	return &RedisPubSub{
		client:      client,
		logger:      logger,
		subscribers: make(map[string]*redis.PubSub),
	}
}

func (ps *RedisPubSub) getChannelName(storeID string) string {
	return channelPrefix + storeID
}

// Publish sends event to the store's channel.
func (ps *RedisPubSub) Publish(ctx context.Context, event *dto.StoreEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal store event: %w", err)
	}

	channel := ps.getChannelName(event.StoreID)
	if err := ps.client.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis channel %s: %w", channel, err)
	}

	return nil
}

// Subscribe delivers events for storeID to callback until ctx is done or
// Unsubscribe is called. A second subscription for the same store is a no-op.
func (ps *RedisPubSub) Subscribe(ctx context.Context, storeID string, callback func(*dto.StoreEvent)) error {
	channel := ps.getChannelName(storeID)

	ps.subscriberMu.Lock()
	if _, exists := ps.subscribers[storeID]; exists {
		ps.subscriberMu.Unlock()
		return nil
	}
	sub := ps.client.Subscribe(ctx, channel)
	ps.subscribers[storeID] = sub
	ps.subscriberMu.Unlock()

	// Wait for the subscription to be confirmed so no publish is missed.
	if _, err := sub.Receive(ctx); err != nil {
		ps.Unsubscribe(storeID)
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	go func() {
		defer ps.remove(storeID, sub)

		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event dto.StoreEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					ps.logger.Error("Failed to unmarshal store event", err, zap.String("channel", channel))
					continue
				}
				callback(&event)

			case <-ctx.Done():
				return
			}
		}
	}()

	ps.logger.Info("Subscribed to store channel", zap.String("channel", channel))
	return nil
}

func (ps *RedisPubSub) Unsubscribe(storeID string) {
	ps.subscriberMu.Lock()
	sub, exists := ps.subscribers[storeID]
	ps.subscriberMu.Unlock()

	if exists {
		ps.remove(storeID, sub)
	}
}

// remove closes sub and forgets it, unless a newer subscription replaced it.
func (ps *RedisPubSub) remove(storeID string, sub *redis.PubSub) {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	if current, ok := ps.subscribers[storeID]; ok && current == sub {
		delete(ps.subscribers, storeID)
	}
	_ = sub.Close()
}

func (ps *RedisPubSub) Close() {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	for storeID, sub := range ps.subscribers {
		_ = sub.Close()
		delete(ps.subscribers, storeID)
	}
}
