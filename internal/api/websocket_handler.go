package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/utils"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

const (
	websocketReadBufferSize        = 1024
	websocketWriteBufferSize       = 1024
	websocketSendChannelBufferSize = 64
	websocketWriteWait             = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  websocketReadBufferSize,
	WriteBufferSize: websocketWriteBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StoreResolver maps the authenticated caller to their store.
type StoreResolver interface {
	StoreIDFor(ctx context.Context, identity utils.Identity) (string, error)
}

// StoreEventStream fans store events out from the shared broker.
type StoreEventStream interface {
	Subscribe(ctx context.Context, storeID string, callback func(*dto.StoreEvent)) error
	Unsubscribe(storeID string)
	Close()
}

type Client struct {
	conn    *websocket.Conn
	storeID string
	send    chan []byte
}

// WebSocketHandler keeps one broker subscription per store with connected
// clients and forwards each event to all of that store's sockets.
type WebSocketHandler struct {
	*BaseHandler
	stores       StoreResolver
	stream       StoreEventStream
	clients      map[*Client]bool
	register     chan *Client
	unregister   chan *Client
	mutex        sync.RWMutex
	logger       *logger.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	storeClients map[string]int
}

func NewWebSocketHandler(stores StoreResolver, stream StoreEventStream, logger *logger.Logger) *WebSocketHandler {
	ctx, cancel := context.WithCancel(context.Background())
	return &WebSocketHandler{
		stores:       stores,
		stream:       stream,
		clients:      make(map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		storeClients: make(map[string]int),
	}
}

// HandleWebSocket Stream store updates
// @Summary Store update stream
// @Description Websocket of plan, quota and subscription status changes for the caller's store
// @Tags    stores
// @Param   access_token query string false "Access token when the Authorization header cannot be set"
// @Success 101
// @Failure 401 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Router  /stores/me/stream [get]
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}

	storeID, err := h.stores.StoreIDFor(h.RequestCtx(c), identity)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:    conn,
		storeID: storeID,
		send:    make(chan []byte, websocketSendChannelBufferSize),
	}
	h.register <- client

	go h.writePump(client)
	go h.readPump(client)
}

func (h *WebSocketHandler) Start() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.storeClients[client.storeID]++

			if h.storeClients[client.storeID] == 1 {
				if err := h.stream.Subscribe(h.ctx, client.storeID, h.handleStoreEvent); err != nil {
					h.logger.Error("Failed to subscribe to store events", err, zap.String("store_id", client.storeID))
				}
			}
			h.mutex.Unlock()

		case client := <-h.unregister:
			h.mutex.Lock()
			h.dropClient(client)
			h.mutex.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *WebSocketHandler) Stop() {
	h.cancel()
	h.stream.Close()
}

// dropClient must be called with the write lock held.
func (h *WebSocketHandler) dropClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	h.storeClients[client.storeID]--
	if h.storeClients[client.storeID] == 0 {
		h.stream.Unsubscribe(client.storeID)
		delete(h.storeClients, client.storeID)
	}
}

func (h *WebSocketHandler) handleStoreEvent(event *dto.StoreEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal store event", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.storeID != event.StoreID {
			continue
		}
		select {
		case client.send <- message:
		default:
			// Slow consumer.
			h.dropClient(client)
		}
	}
}

func (h *WebSocketHandler) writePump(client *Client) {
	defer client.conn.Close()

	for message := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(websocketWriteWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *WebSocketHandler) readPump(client *Client) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.ctx.Done():
		}
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Unexpected websocket close", zap.String("store_id", client.storeID), zap.Error(err))
			}
			return
		}
	}
}
