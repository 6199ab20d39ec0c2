package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/joshua-takyi/devevents/internal/config"
	"github.com/joshua-takyi/devevents/internal/connect"
	"github.com/joshua-takyi/devevents/internal/container"
	"github.com/joshua-takyi/devevents/internal/helpers"
	"github.com/joshua-takyi/devevents/internal/middleware"
	"github.com/joshua-takyi/devevents/internal/models"
	"github.com/joshua-takyi/devevents/internal/notify"
	"github.com/joshua-takyi/devevents/internal/routes"
	"github.com/joshua-takyi/devevents/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("Starting DevEvents API server", "environment", cfg.Environment)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection manager. Indexes are built as part of every connection attempt; the unique slug
	// index must exist before any event is written.
	manager, err := connect.NewManager(
		connect.ResolveURI(cfg.MongoDBURI, cfg.MongoDBPassword),
		connect.WithOnConnect(func(ctx context.Context, client *mongo.Client) error {
			return models.EnsureIndexes(ctx, client.Database(cfg.MongoDBDatabase))
		}),
	)
	if err != nil {
		logger.Error("Failed to configure MongoDB", "error", err)
		os.Exit(1)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := manager.Acquire(startCtx); err != nil {
		// Not fatal: the next request retries the connection.
		logger.Warn("MongoDB unavailable at startup", "error", err)
	} else {
		logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)
	}

	var images services.ImageUploader
	if cfg.CloudinaryURL != "" {
		uploader, err := helpers.NewCloudinaryUploader(cfg.CloudinaryURL)
		if err != nil {
			logger.Error("Failed to connect to Cloudinary", "error", err)
			os.Exit(1)
		}
		images = uploader
	}

	var notifier services.BookingNotifier = notify.Nop{}
	var rabbit *notify.Client
	if cfg.RabbitMQURL != "" {
		rabbit, err = notify.NewRabbit(cfg.RabbitMQURL, cfg.BookingExchange, logger)
		if err != nil {
			logger.Error("Failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		notifier = rabbit
		logger.Info("Connected to RabbitMQ successfully", "exchange", cfg.BookingExchange)
	}

	var tokens middleware.TokenValidator
	var verifier *helpers.TokenVerifier
	switch {
	case cfg.AdminJWKSURL != "":
		verifier, err = helpers.NewJWKSVerifier(startCtx, cfg.AdminJWKSURL)
	case cfg.AdminJWTSecret != "":
		verifier, err = helpers.NewHMACVerifier(cfg.AdminJWTSecret)
	}
	cancelStart()
	if err != nil {
		logger.Error("Failed to set up admin token verification", "error", err)
		os.Exit(1)
	}
	if verifier != nil {
		tokens = verifier
	}

	// Initialize dependency container
	appContainer := container.NewContainer(logger, cfg.AllowedOrigins, manager, cfg.MongoDBDatabase, tokens, images, notifier)

	// Setup routes
	router := routes.SetupRoutes(appContainer)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if rabbit != nil {
		rabbit.Close()
	}
	if verifier != nil {
		verifier.Close()
	}
	if err := manager.Close(ctx); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
