package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/service"
	"github.com/kingrain94/tagorder-api/internal/utils"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

type stubResolver struct {
	storeID string
	err     error
}

func (r stubResolver) StoreIDFor(context.Context, utils.Identity) (string, error) {
	return r.storeID, r.err
}

type fakeStream struct {
	mu           sync.Mutex
	callbacks    map[string]func(*dto.StoreEvent)
	unsubscribed []string
}

func newFakeStream() *fakeStream {
	return &fakeStream{callbacks: make(map[string]func(*dto.StoreEvent))}
}

func (f *fakeStream) Subscribe(_ context.Context, storeID string, callback func(*dto.StoreEvent)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks[storeID] = callback
	return nil
}

func (f *fakeStream) Unsubscribe(storeID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.callbacks, storeID)
	f.unsubscribed = append(f.unsubscribed, storeID)
}

func (f *fakeStream) Close() {}

func (f *fakeStream) callback(storeID string) func(*dto.StoreEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callbacks[storeID]
}

func (f *fakeStream) wasUnsubscribed(storeID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.unsubscribed {
		if id == storeID {
			return true
		}
	}
	return false
}

func newStreamServer(t *testing.T, resolver StoreResolver, stream StoreEventStream) *httptest.Server {
	gin.SetMode(gin.TestMode)
	handler := NewWebSocketHandler(resolver, stream, logger.NewNop())
	go handler.Start()
	t.Cleanup(handler.Stop)

	router := gin.New()
	router.GET("/stream", func(c *gin.Context) {
		c.Set(string(utils.IdentityKey), utils.Identity{UserID: "user-1"})
		c.Next()
	}, handler.HandleWebSocket)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestWebSocket_ForwardsStoreEvents(t *testing.T) {
	stream := newFakeStream()
	server := newStreamServer(t, stubResolver{storeID: "store-1"}, stream)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/stream", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return stream.callback("store-1") != nil }, time.Second, 10*time.Millisecond)
	stream.callback("store-1")(&dto.StoreEvent{StoreID: "store-1", Type: "subscription.synced", Plan: "lite", MaxSKU: 30})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var event dto.StoreEvent
	require.NoError(t, json.Unmarshal(message, &event))
	assert.Equal(t, "lite", event.Plan)
	assert.Equal(t, 30, event.MaxSKU)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return stream.wasUnsubscribed("store-1") }, time.Second, 10*time.Millisecond)
}

func TestWebSocket_NoStore(t *testing.T) {
	server := newStreamServer(t, stubResolver{err: service.ErrStoreNotFound}, newFakeStream())

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/stream", nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}
