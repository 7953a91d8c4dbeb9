package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/handlers"
	"chronicle/internal/logger"
	"chronicle/internal/messaging"
	"chronicle/internal/middleware"
	"chronicle/internal/repository"
	"chronicle/internal/services"
	"chronicle/internal/validator"

	_ "chronicle/internal/docs" // Import swagger docs
)

// @title           Chronicle API
// @version         1.0
// @description     Chronicle is an activity-log ingestion service: it accepts structured change-log records over HTTP and from a message queue and persists them for auditing.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize repository and services
	activityLogRepo := repository.NewActivityLogRepository(dbManager.DB())
	activityLogService := services.NewActivityLogService(activityLogRepo)

	// Initialize handlers
	activityLogHandler := handlers.NewActivityLogHandler(activityLogService)

	// Register custom binding validators
	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")
	v1.POST("/activity-logs", activityLogHandler.CreateActivityLog)
	v1.GET("/activity-logs", activityLogHandler.ListActivityLogs)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the message subscriber when a broker is configured
	if appConfig.KafkaBroker != "" {
		subscriber := messaging.NewSubscriber(messaging.Config{
			Broker:  appConfig.KafkaBroker,
			Topic:   appConfig.KafkaTopic,
			GroupID: appConfig.KafkaGroupID,
		})
		defer subscriber.Close()

		subscriber.RegisterHandler(messaging.ActivityLogMessageType, messaging.NewActivityLogHandler(activityLogService))

		go func() {
			if err := subscriber.Listen(ctx); err != nil {
				log.Errorw("message subscriber stopped", "error", err)
			}
		}()
	} else {
		log.Info("KAFKA_BROKER not set, message subscriber disabled")
	}

	log.Infof("Starting Chronicle backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
