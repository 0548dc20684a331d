package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kingrain94/tagorder-api/internal/config"
	"github.com/kingrain94/tagorder-api/internal/repository/postgres"
	"github.com/kingrain94/tagorder-api/internal/service/queue"
	"github.com/kingrain94/tagorder-api/internal/worker"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))

	cfg, err := config.Load()
	if err != nil {
		appLogger.Fatal("Failed to load config", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", err)
	}
	defer dbConnections.Close()

	pgRepo := postgres.NewPostgresRepository(dbConnections)

	sqsConfig := config.DefaultSQSConfig()
	sqsClient, err := sqsConfig.GetClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to connect to SQS", err)
	}
	sqsService := queue.NewSQSService(sqsClient, sqsConfig)

	s3Config := config.DefaultS3Config()
	s3Client, err := s3Config.GetClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to connect to S3", err)
	}

	archiveWorker := worker.NewArchiveWorker(
		sqsService,
		pgRepo,
		s3Client,
		s3Config.BucketName,
		appLogger,
		1,
		10*time.Second,
	)
	cleanupWorker := worker.NewCleanupWorker(
		sqsService,
		pgRepo,
		appLogger,
		1,
		5*time.Second,
	)

	scheduler := worker.NewRetentionScheduler(sqsService, cfg.Events.RetentionDays, clockwork.NewRealClock(), appLogger)
	cronRunner := cron.New(cron.WithLocation(time.UTC))
	if _, err := scheduler.Register(ctx, cronRunner, cfg.Events.ArchiveSchedule); err != nil {
		appLogger.Fatal("Failed to schedule billing event archive", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	archiveWorker.Start()
	cleanupWorker.Start()
	cronRunner.Start()
	appLogger.Info("Event worker started",
		zap.String("schedule", cfg.Events.ArchiveSchedule),
		zap.Int("retention_days", cfg.Events.RetentionDays))

	<-sigChan
	appLogger.Info("Shutting down event worker...")

	<-cronRunner.Stop().Done()
	cancel()
	archiveWorker.Stop()
	cleanupWorker.Stop()
	appLogger.Info("Event worker stopped")
	appLogger.Sync()
}
