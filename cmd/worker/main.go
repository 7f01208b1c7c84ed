package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/socially/socially/internal/config"
	"github.com/socially/socially/internal/repository"
	"github.com/socially/socially/internal/services"
	"github.com/socially/socially/internal/workers"
	"github.com/socially/socially/pkg/cache"
	"github.com/socially/socially/pkg/logger"
	"github.com/socially/socially/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger()
	logger.Info("Starting socially page worker...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	consumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.EngagementEvents, "page-worker-group")
	defer consumer.Close()

	userRepo := repository.NewUserRepository(db.DB)
	pages := services.NewPageCache(redisClient, logger)

	pageWorker := workers.NewPageWorker(pages, userRepo, consumer, logger)

	go func() {
		if err := pageWorker.Start(ctx); err != nil {
			logger.WithError(err).Error("Page worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")

	if err := pageWorker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop page worker")
	}

	logger.Info("Worker exited")
}
