package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gymdesk/internal/logger"
	"gymdesk/internal/validation"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
	Field string `json:"field,omitempty" example:"cedula"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Fail writes err as JSON. Validation errors carry their own message to the
// operator; anything else is logged and reported with fallback.
func Fail(c *gin.Context, err error, fallback string) {
	var ve *validation.Error
	if errors.As(err, &ve) {
		status := http.StatusBadRequest
		if errors.Is(err, validation.ErrClientNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: ve.Message, Field: ve.Field})
		return
	}

	logger.Error(fallback, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
}
