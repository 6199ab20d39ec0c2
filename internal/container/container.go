package container

import (
	"log/slog"

	"github.com/joshua-takyi/devevents/internal/connect"
	"github.com/joshua-takyi/devevents/internal/middleware"
	"github.com/joshua-takyi/devevents/internal/models"
	"github.com/joshua-takyi/devevents/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Connections    *connect.Manager
	// Tokens is nil when no admin credentials are configured; admin routes
	// are then not mounted.
	Tokens         middleware.TokenValidator
	EventService   *services.EventService
	BookingService *services.BookingService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	allowedOrigins []string,
	connections *connect.Manager,
	dbName string,
	tokens middleware.TokenValidator,
	images services.ImageUploader,
	notifier services.BookingNotifier,
) *Container {
	repo := models.MongodbNewRepo(connections, dbName)
	eventService := services.NewEventService(repo, images, logger)
	bookingService := services.NewBookingService(repo, repo, notifier, logger)

	return &Container{
		Logger:         logger,
		AllowedOrigins: allowedOrigins,
		Connections:    connections,
		Tokens:         tokens,
		EventService:   eventService,
		BookingService: bookingService,
	}
}
