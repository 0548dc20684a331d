package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/kingrain94/tagorder-api/internal/api"
	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/config"
	"github.com/kingrain94/tagorder-api/internal/domain"
	"github.com/kingrain94/tagorder-api/internal/mocks"
	"github.com/kingrain94/tagorder-api/internal/service"
	"github.com/kingrain94/tagorder-api/internal/service/payment"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

const webhookSecret = "whsec_perf_secret"

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CreateSession(ctx context.Context, req dto.CheckoutRequest, origin string) (*dto.CheckoutResponse, error) {
	args := m.Called(ctx, req, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CheckoutResponse), args.Error(1)
}

// webhookRouter wires the real signature check and reconciler over mocked
// persistence. Every payment_failed delivery updates one store.
func webhookRouter() (*gin.Engine, *mocks.StoreRepository) {
	gin.SetMode(gin.TestMode)
	repo := new(mocks.Repository)
	stores := new(mocks.StoreRepository)
	events := new(mocks.BillingEventRepository)
	repo.On("Store").Return(stores)
	repo.On("BillingEvent").Return(events)

	stores.On("UpdateStatusByCustomerID", mock.Anything, mock.AnythingOfType("string"), domain.SubscriptionPastDue).
		Return(&domain.Store{ID: "store-1", Plan: domain.PlanLite, MaxSKU: 30, SubscriptionStatus: domain.SubscriptionPastDue}, nil)
	events.On("Record", mock.Anything, mock.Anything).Return(nil)

	log := logger.NewNop()
	gateway := payment.NewStripeGateway("sk_test_perf", webhookSecret)
	reconciler := service.NewReconcilerService(
		repo,
		gateway,
		domain.NewPlanCatalog(nil),
		service.NewTagProvisioner(repo, log),
		service.NewReferralService(repo, gateway, 500, "jpy", log),
		log,
	)

	router := gin.New()
	router.POST("/webhook", api.NewWebhookHandler(reconciler).HandleStripeWebhook)
	return router, stores
}

func paymentFailedDelivery(n int) ([]byte, string) {
	payload := []byte(fmt.Sprintf(
		`{"id":"evt_perf_%d","object":"event","type":"invoice.payment_failed","data":{"object":{"id":"in_%d","object":"invoice","customer":"cus_%d"}}}`,
		n, n, n%50))
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    webhookSecret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return payload, signed.Header
}

func BenchmarkWebhookDelivery(b *testing.B) {
	router, _ := webhookRouter()
	payload, signature := paymentFailedDelivery(1)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Stripe-Signature", signature)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				b.Errorf("Expected status 200, got %d", w.Code)
			}
		}
	})
}

func BenchmarkCreateCheckout(b *testing.B) {
	gin.SetMode(gin.TestMode)
	mockService := new(MockCheckoutService)
	mockService.On("CreateSession", mock.Anything, mock.AnythingOfType("dto.CheckoutRequest"), mock.AnythingOfType("string")).
		Return(&dto.CheckoutResponse{URL: "https://checkout.stripe.com/c/pay/cs_test_perf"}, nil)

	router := gin.New()
	router.POST("/checkout", api.NewCheckoutHandler(mockService).CreateCheckout)

	payloadBytes, _ := json.Marshal(dto.CheckoutRequest{PriceID: "price_lite", AccessToken: "token"})

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(payloadBytes))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				b.Errorf("Expected status 200, got %d", w.Code)
			}
		}
	})
}

// TestHighConcurrencyCapacity hammers the public counter and checks the
// database is consulted once per cache window.
func TestHighConcurrencyCapacity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(mocks.Repository)
	stores := new(mocks.StoreRepository)
	repo.On("Store").Return(stores)
	stores.On("CountEarlyBirds", mock.Anything).Return(int64(63), nil).Run(func(args mock.Arguments) {
		time.Sleep(5 * time.Millisecond)
	})

	capacity := service.NewCapacityService(repo, config.CapacityConfig{EarlyBirdTotal: 100, CacheTTL: time.Minute}, clockwork.NewRealClock())
	router := gin.New()
	router.GET("/capacity", api.NewCapacityHandler(capacity).GetCapacity)

	numGoroutines := 100
	requestsPerGoroutine := 10
	totalRequests := numGoroutines * requestsPerGoroutine

	var successCount int32
	var wrongBody int32
	var wg sync.WaitGroup
	startTime := time.Now()

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < requestsPerGoroutine; j++ {
				req, _ := http.NewRequest(http.MethodGet, "/capacity", nil)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				if w.Code != http.StatusOK {
					continue
				}
				atomic.AddInt32(&successCount, 1)

				var resp dto.CapacityResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Remaining != 37 || resp.Closed {
					atomic.AddInt32(&wrongBody, 1)
				}
			}
		}()
	}

	wg.Wait()
	totalTime := time.Since(startTime)

	t.Logf("=== Capacity Concurrency Results ===")
	t.Logf("Total requests: %d", totalRequests)
	t.Logf("Total time: %v", totalTime)
	t.Logf("Throughput: %.2f requests/second", float64(totalRequests)/totalTime.Seconds())

	assert.Equal(t, int32(totalRequests), successCount, "All requests should succeed")
	assert.Equal(t, int32(0), wrongBody, "Every response should carry the cached count")
	stores.AssertNumberOfCalls(t, "CountEarlyBirds", 1)
}

// TestHighConcurrencyWebhooks delivers many signed events at once through
// the real verification path.
func TestHighConcurrencyWebhooks(t *testing.T) {
	router, stores := webhookRouter()

	numGoroutines := 50
	requestsPerGoroutine := 10
	totalRequests := numGoroutines * requestsPerGoroutine

	deliveries := make([][2]string, totalRequests)
	for i := range deliveries {
		payload, signature := paymentFailedDelivery(i)
		deliveries[i] = [2]string{string(payload), signature}
	}

	var successCount int32
	var errorCount int32
	var totalLatency time.Duration
	var maxLatency time.Duration
	var mutex sync.Mutex
	var wg sync.WaitGroup
	startTime := time.Now()

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < requestsPerGoroutine; j++ {
				delivery := deliveries[worker*requestsPerGoroutine+j]
				reqStart := time.Now()

				req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(delivery[0]))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("Stripe-Signature", delivery[1])

				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				reqLatency := time.Since(reqStart)
				mutex.Lock()
				totalLatency += reqLatency
				if reqLatency > maxLatency {
					maxLatency = reqLatency
				}
				if w.Code == http.StatusOK {
					successCount++
				} else {
					errorCount++
				}
				mutex.Unlock()
			}
		}(i)
	}

	wg.Wait()
	totalTime := time.Since(startTime)
	avgLatency := totalLatency / time.Duration(totalRequests)

	t.Logf("=== Webhook Concurrency Results ===")
	t.Logf("Total requests: %d", totalRequests)
	t.Logf("Successful requests: %d", successCount)
	t.Logf("Failed requests: %d", errorCount)
	t.Logf("Total time: %v", totalTime)
	t.Logf("Average latency: %v", avgLatency)
	t.Logf("Max latency: %v", maxLatency)

	require.Equal(t, int32(0), errorCount, "No deliveries should fail")
	assert.Equal(t, int32(totalRequests), successCount)
	stores.AssertNumberOfCalls(t, "UpdateStatusByCustomerID", totalRequests)
}

// TestSustainedWebhookLoad checks throughput stays reasonable over a few
// seconds of back-to-back deliveries.
func TestSustainedWebhookLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping sustained load in short mode")
	}
	router, _ := webhookRouter()

	duration := 3 * time.Second
	startTime := time.Now()
	requestCount := 0
	failures := 0

	for time.Since(startTime) < duration {
		payload, signature := paymentFailedDelivery(requestCount)
		req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Stripe-Signature", signature)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			failures++
		}
		requestCount++
	}

	totalTime := time.Since(startTime)
	throughput := float64(requestCount) / totalTime.Seconds()

	t.Logf("=== Sustained Webhook Load Results ===")
	t.Logf("Duration: %v", duration)
	t.Logf("Total requests: %d", requestCount)
	t.Logf("Average throughput: %.2f requests/second", throughput)

	assert.Zero(t, failures)
	assert.True(t, throughput >= 100, "Should maintain at least 100 deliveries/second, got %.2f", throughput)
}
