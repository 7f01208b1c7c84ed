package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socially/socially/internal/config"
	"github.com/socially/socially/internal/handlers"
	"github.com/socially/socially/internal/middleware"
	"github.com/socially/socially/internal/repository"
	"github.com/socially/socially/internal/services"
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
	logger.Info("Starting socially API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

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

	producer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.EngagementEvents)
	defer producer.Close()

	userRepo := repository.NewUserRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)

	pages := services.NewPageCache(redisClient, logger)
	identityService := services.NewIdentityService(userRepo, producer, logger)
	postService := services.NewPostService(identityService, postRepo, likeRepo, commentRepo, producer, pages, logger)
	profileService := services.NewProfileService(identityService, userRepo, postRepo, producer, pages, logger)
	graphService := services.NewGraphService(identityService, userRepo, followRepo, producer, logger)
	notificationService := services.NewNotificationService(identityService, notificationRepo, logger)

	postHandler := handlers.NewPostHandler(postService)
	profileHandler := handlers.NewProfileHandler(profileService)
	graphHandler := handlers.NewGraphHandler(graphService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	sessionConfig := &middleware.SessionConfig{
		Secret: cfg.Auth.SessionSecret,
		Issuer: cfg.Auth.Issuer,
	}

	api := router.Group("/api/v1")
	{
		// Public reads; anonymous browsing is expected.
		public := api.Group("")
		public.Use(middleware.NewOptionalSessionAuth(sessionConfig))
		{
			public.GET("/posts", postHandler.ListPosts)
			public.GET("/profiles/:username", profileHandler.GetProfile)
			public.GET("/users/:id/posts", profileHandler.GetUserPosts)
			public.GET("/users/:id/liked-posts", profileHandler.GetUserLikedPosts)
			public.GET("/notifications", notificationHandler.ListNotifications)
		}

		protected := api.Group("")
		protected.Use(middleware.NewSessionAuth(sessionConfig))
		{
			protected.POST("/posts", postHandler.CreatePost)
			protected.DELETE("/posts/:id", postHandler.DeletePost)
			protected.POST("/posts/:id/like", postHandler.ToggleLike)
			protected.POST("/posts/:id/comments", postHandler.CreateComment)

			protected.PUT("/profile", profileHandler.UpdateProfile)

			protected.POST("/users/:id/follow", graphHandler.ToggleFollow)
			protected.GET("/users/suggested", graphHandler.SuggestedUsers)

			protected.POST("/notifications/read", notificationHandler.MarkRead)
			protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func init() {
	if err := os.MkdirAll("configs", 0755); err != nil {
		log.Printf("Failed to create configs directory: %v", err)
	}

	configPath := "configs/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":8080"
  mode: "debug"
  read_timeout: 30s
  write_timeout: 30s

database:
  host: "localhost"
  port: 5432
  user: "socially"
  password: "socially"
  dbname: "socially"
  sslmode: "disable"
  max_open_conns: 100
  max_idle_conns: 10

redis:
  host: "localhost"
  port: 6379
  password: ""
  db: 0
  pool_size: 100
  min_idle_conns: 10

kafka:
  brokers:
    - "localhost:9092"
  topics:
    engagement_events: "engagement-events"

auth:
  session_secret: "change-me-in-production"
  issuer: "socially-identity"
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
