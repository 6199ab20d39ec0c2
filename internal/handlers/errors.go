package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevents/internal/models"
)

// respondError maps domain errors to client responses. Anything unexpected is
// attached to the context so middleware.ErrorHandler logs it and replies
// with a generic 500.
func respondError(c *gin.Context, err error) {
	var (
		ve       *models.ValidationError
		conflict *models.ConflictError
		ref      *models.ReferenceError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, models.FieldErrorResponse(ve.Field, ve.Error()))
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, models.FieldErrorResponse("slug", conflict.Error()))
	case errors.As(err, &ref):
		c.JSON(http.StatusNotFound, models.FieldErrorResponse("event_id", "referenced event does not exist"))
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse("Event not found."))
	default:
		_ = c.Error(err)
	}
}
