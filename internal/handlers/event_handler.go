package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevents/internal/models"
	"github.com/joshua-takyi/devevents/internal/services"
)

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, found, err := es.GetEventBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, models.ErrorResponse("Event not found."))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitInt, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageSize)))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.FieldErrorResponse("limit", "invalid limit parameter"))
			return
		}
		offsetInt, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.FieldErrorResponse("offset", "invalid offset parameter"))
			return
		}

		events, total, err := es.ListEvents(c.Request.Context(), offsetInt, limitInt)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offsetInt / limitInt) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(events, page, limitInt, total))
	}
}

func ListSimilarEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultSimilar)))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.FieldErrorResponse("limit", "invalid limit parameter"))
			return
		}

		events, found, err := es.ListSimilarEvents(c.Request.Context(), c.Param("slug"), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, models.ErrorResponse("Event not found."))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event models.Event
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body"))
			return
		}

		created, err := es.CreateEvent(c.Request.Context(), &event)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Event created successfully"))
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.EventPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body"))
			return
		}

		updated, err := es.UpdateEvent(c.Request.Context(), c.Param("slug"), &patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Event updated successfully"))
	}
}
