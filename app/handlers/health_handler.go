package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"bot-registry/app/dto"
	"bot-registry/app/services"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	botService *services.BotService
	logger     *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(botService *services.BotService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		botService: botService,
		logger:     logger,
	}
}

// Health handles health check
func (h *HealthHandler) Health(c *gin.Context) {
	count, err := h.botService.Count(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, dto.HealthResponse{
		Status:         dto.StatusHealthy,
		Timestamp:      time.Now().UTC(),
		RegisteredBots: count,
	})
}

// Ready handles readiness check
func (h *HealthHandler) Ready(c *gin.Context) {
	respondJSON(c, http.StatusOK, dto.ReadyResponse{Status: dto.StatusReady})
}
