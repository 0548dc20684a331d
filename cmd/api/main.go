package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kingrain94/tagorder-api/docs"
	"github.com/kingrain94/tagorder-api/internal/api"
	"github.com/kingrain94/tagorder-api/internal/config"
	"github.com/kingrain94/tagorder-api/internal/domain"
	"github.com/kingrain94/tagorder-api/internal/middleware"
	"github.com/kingrain94/tagorder-api/internal/repository/postgres"
	"github.com/kingrain94/tagorder-api/internal/service"
	"github.com/kingrain94/tagorder-api/internal/service/payment"
	"github.com/kingrain94/tagorder-api/internal/service/pubsub"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

// @title           Tag Order API
// @version         1.0
// @description     Billing, onboarding and tag API for salon reorder tags.

// @host      localhost:10000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))

	cfg, err := config.Load()
	if err != nil {
		appLogger.Fatal("Failed to load config", err)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer dbConnections.Close()

	if os.Getenv("DB_AUTO_MIGRATE") == "true" {
		if err := postgres.Migrate(dbConnections.Writer); err != nil {
			appLogger.Fatal("Failed to migrate database", err)
		}
		appLogger.Info("Database schema migrated")
	}

	redisClient, err := config.DefaultRedisConfig().GetClient(startupCtx)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()

	redisPubSub := pubsub.NewRedisPubSub(redisClient, appLogger)
	repo := postgres.NewPostgresRepository(dbConnections)
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	catalog := newPlanCatalog(cfg.Stripe.Prices)

	var verifier middleware.TokenVerifier
	if cfg.Auth.RemoteVerification() {
		verifier = middleware.NewRemoteVerifier(cfg.Auth.SupabaseURL, cfg.Auth.SupabaseAnonKey)
		appLogger.Info("Verifying tokens against the auth service")
	} else {
		verifier = middleware.NewJWTVerifier(cfg.Auth.JWTSecretKey)
	}

	tagProvisioner := service.NewTagProvisioner(repo, appLogger)
	referralService := service.NewReferralService(repo, gateway, cfg.Stripe.ReferralUnitDiscount, cfg.Stripe.Currency, appLogger)
	capacityService := service.NewCapacityService(repo, cfg.Capacity, clockwork.NewRealClock())
	storeService := service.NewStoreService(repo, catalog, capacityService, tagProvisioner, cfg.FrontendURL, appLogger)
	checkoutService := service.NewCheckoutService(repo, gateway, verifier, cfg, appLogger)
	reconcilerService := service.NewReconcilerService(repo, gateway, catalog, tagProvisioner, referralService, appLogger)
	reconcilerService.SetNotifier(redisPubSub)

	authMiddleware := middleware.NewAuthMiddleware(cfg, verifier)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(redisClient, cfg, appLogger)
	validationMiddleware := middleware.NewValidationMiddleware(appLogger)

	server := api.NewServer(
		checkoutService,
		reconcilerService,
		capacityService,
		storeService,
		redisPubSub,
		authMiddleware,
		rateLimitMiddleware,
		validationMiddleware,
		cfg.GlobalRateLimit,
		appLogger,
	)
	server.StartWebSocketHub()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.ServerPort)
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	server.SetupRoutes(apiGroup)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	server.StopWebSocketHub()
	redisPubSub.Close()

	appLogger.Info("Server exiting")
	appLogger.Sync()
}

// newPlanCatalog keys the paid tiers by their configured Stripe price ids.
func newPlanCatalog(prices config.PriceConfig) *domain.PlanCatalog {
	plans := domain.DefaultPlans()
	return domain.NewPlanCatalog(map[string]domain.Plan{
		prices.Lite:     plans[domain.PlanLite],
		prices.Standard: plans[domain.PlanStandard],
		prices.Pro:      plans[domain.PlanPro],
	})
}
