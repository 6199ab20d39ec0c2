package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevents/internal/models"
	"github.com/joshua-takyi/devevents/internal/services"
)

func CreateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body"))
			return
		}

		booking, err := bs.CreateBooking(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "Thank you for signing up!"))
	}
}

func CountBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, found, err := bs.CountBookings(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, models.ErrorResponse("Event not found."))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"count": n}, ""))
	}
}
