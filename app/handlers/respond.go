package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"bot-registry/app/domains"
	"bot-registry/app/dto"

	"github.com/gin-gonic/gin"
)

const (
	msgNoJSON         = "No JSON data provided"
	msgInvalidJSON    = "Invalid JSON body"
	msgNotFound       = "Endpoint not found"
	msgMethodNotAllow = "Method not allowed"
	msgInternal       = "Internal server error"
)

// respondJSON sends a JSON response
func respondJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// respondError sends an error response
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{
		Status:  dto.StatusError,
		Message: message,
	})
}

// respondServiceError maps a dispatch failure onto its HTTP status.
// Internal details only reach the log.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		fieldErr   *domains.FieldError
		unknownErr *domains.UnknownAgentError
	)
	switch {
	case errors.As(err, &fieldErr):
		respondError(c, http.StatusBadRequest, fieldErr.Message)
	case errors.As(err, &unknownErr):
		respondError(c, http.StatusNotFound, fmt.Sprintf("Bot %s is not registered", unknownErr.BotID))
	case errors.Is(err, domains.ErrMissingField):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domains.ErrUnknownAgent):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		respondError(c, http.StatusInternalServerError, msgInternal)
	}
}

// NotFound answers requests for unknown routes
func NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, msgNotFound)
}

// MethodNotAllowed answers requests with an unsupported method on a known route
func MethodNotAllowed(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, msgMethodNotAllow)
}
