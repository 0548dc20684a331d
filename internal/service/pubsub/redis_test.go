package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

type RedisPubSubTestSuite struct {
	suite.Suite
	pubsub *RedisPubSub
}

func (s *RedisPubSubTestSuite) SetupTest() {
	mr := miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.pubsub = NewRedisPubSub(client, logger.NewNop())
	s.T().Cleanup(s.pubsub.Close)
}

func TestRedisPubSub(t *testing.T) {
	suite.Run(t, new(RedisPubSubTestSuite))
}

func (s *RedisPubSubTestSuite) TestPublishReachesStoreSubscriber() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *dto.StoreEvent, 1)
	s.Require().NoError(s.pubsub.Subscribe(ctx, "store-1", func(event *dto.StoreEvent) {
		received <- event
	}))

	s.Require().NoError(s.pubsub.Publish(ctx, &dto.StoreEvent{StoreID: "store-1", Type: "subscription.synced", Plan: "lite", MaxSKU: 30}))

	select {
	case event := <-received:
		s.Equal("store-1", event.StoreID)
		s.Equal("lite", event.Plan)
		s.Equal(30, event.MaxSKU)
		s.False(event.OccurredAt.IsZero())
	case <-time.After(2 * time.Second):
		s.Fail("timed out waiting for store event")
	}
}

func (s *RedisPubSubTestSuite) TestOtherStoresAreNotDelivered() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *dto.StoreEvent, 1)
	s.Require().NoError(s.pubsub.Subscribe(ctx, "store-1", func(event *dto.StoreEvent) {
		received <- event
	}))

	s.Require().NoError(s.pubsub.Publish(ctx, &dto.StoreEvent{StoreID: "store-2"}))

	select {
	case event := <-received:
		s.Failf("unexpected event", "got event for %s", event.StoreID)
	case <-time.After(200 * time.Millisecond):
	}
}

func (s *RedisPubSubTestSuite) TestUnsubscribeForgetsStore() {
	ctx := context.Background()
	s.Require().NoError(s.pubsub.Subscribe(ctx, "store-1", func(*dto.StoreEvent) {}))

	s.pubsub.Unsubscribe("store-1")

	s.pubsub.subscriberMu.RLock()
	defer s.pubsub.subscriberMu.RUnlock()
	s.Empty(s.pubsub.subscribers)
}
