package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tagorder-api/internal/middleware"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

const maxRequestBodyBytes = 1 << 20

// StoreAPI is what the store routes and the websocket need from the store
// service.
type StoreAPI interface {
	StoreService
	StoreResolver
}

type Server struct {
	checkout   *CheckoutHandler
	webhook    *WebhookHandler
	capacity   *CapacityHandler
	store      *StoreHandler
	websocket  *WebSocketHandler
	auth       *middleware.AuthMiddleware
	rateLimit  *middleware.RateLimitMiddleware
	validation *middleware.ValidationMiddleware
	globalRate int
}

func NewServer(
	checkoutService CheckoutService,
	webhookService WebhookService,
	capacityService CapacityService,
	storeService StoreAPI,
	stream StoreEventStream,
	auth *middleware.AuthMiddleware,
	rateLimit *middleware.RateLimitMiddleware,
	validation *middleware.ValidationMiddleware,
	globalRateLimit int,
	logger *logger.Logger,
) *Server {
	return &Server{
		checkout:   NewCheckoutHandler(checkoutService),
		webhook:    NewWebhookHandler(webhookService),
		capacity:   NewCapacityHandler(capacityService),
		store:      NewStoreHandler(storeService),
		websocket:  NewWebSocketHandler(storeService, stream, logger),
		auth:       auth,
		rateLimit:  rateLimit,
		validation: validation,
		globalRate: globalRateLimit,
	}
}

func (s *Server) SetupRoutes(api *gin.RouterGroup) {
	// Signature-authenticated; the body must reach the verifier untouched.
	// Stripe delivers from a small set of IPs, so it stays outside the
	// per-IP limit. The handler caps the body itself.
	api.POST("/webhook", s.webhook.HandleStripeWebhook)

	public := api.Group("",
		s.validation.ValidateRequestSize(maxRequestBodyBytes),
		s.rateLimit.GlobalRateLimit(s.globalRate),
	)
	public.GET("/capacity", s.capacity.GetCapacity)
	public.GET("/plans", s.store.ListPlans)

	jsonOnly := s.validation.ValidateContentType("application/json")
	public.POST("/checkout", jsonOnly, s.checkout.CreateCheckout)

	stores := public.Group("/stores", s.auth.JWTAuth(), s.rateLimit.UserRateLimit())
	{
		stores.POST("", jsonOnly, s.store.CreateStore)
		stores.GET("/me", s.store.GetMyStore)
		stores.GET("/me/tags", s.store.ListTags)
		stores.GET("/me/tags/export", s.store.ExportTags)
		stores.GET("/me/billing-events", s.store.ListBillingEvents)
		stores.GET("/me/stream", s.websocket.HandleWebSocket)
	}
}

// StartWebSocketHub starts the hub that fans store events out to sockets.
func (s *Server) StartWebSocketHub() {
	go s.websocket.Start()
}

func (s *Server) StopWebSocketHub() {
	s.websocket.Stop()
}
