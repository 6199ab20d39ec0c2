package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevents/internal/container"
	"github.com/joshua-takyi/devevents/internal/handlers"
	"github.com/joshua-takyi/devevents/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":   "OK",
				"service":  "devevents-api",
				"database": container.Connections.State().String(),
			})
		})

		events := v1.Group("/events")
		{
			events.GET("", handlers.ListEvents(container.EventService))
			events.GET("/:slug", handlers.GetEvent(container.EventService))
			events.GET("/:slug/similar", handlers.ListSimilarEvents(container.EventService))
			events.GET("/:slug/bookings/count", handlers.CountBookings(container.BookingService))
		}

		v1.POST("/bookings", handlers.CreateBooking(container.BookingService))
	}

	if container.Tokens != nil {
		admin := v1.Group("/events")
		admin.Use(middleware.AdminAuth(container.Tokens, container.Logger))
		{
			admin.POST("", handlers.CreateEvent(container.EventService))
			admin.PATCH("/:slug", handlers.UpdateEvent(container.EventService))
		}
	} else {
		container.Logger.Warn("Admin credentials not configured; event write routes disabled")
	}

	return r
}
