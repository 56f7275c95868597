package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"bot-registry/app/domains"
	"bot-registry/app/dto"
	"bot-registry/app/services"

	"github.com/gin-gonic/gin"
)

// BotHandler handles bot-related endpoints
type BotHandler struct {
	botService *services.BotService
	logger     *slog.Logger
}

// NewBotHandler creates a new bot handler
func NewBotHandler(botService *services.BotService, logger *slog.Logger) *BotHandler {
	return &BotHandler{
		botService: botService,
		logger:     logger,
	}
}

// Register handles bot registration
func (h *BotHandler) Register(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, msgNoJSON)
			return
		}
		respondError(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if len(body) == 0 {
		respondError(c, http.StatusBadRequest, msgNoJSON)
		return
	}

	raw, ok := body["bot_id"]
	if !ok {
		respondServiceError(c, h.logger, domains.NewMissingFieldError("bot_id"))
		return
	}
	botID, ok := raw.(string)
	if !ok {
		respondServiceError(c, h.logger, domains.NewInvalidFieldError("bot_id", "string"))
		return
	}

	req := dto.NewRegisterRequest(botID, body)
	bot, err := h.botService.Register(c.Request.Context(), req.BotID, req.Attributes)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, dto.RegisterResponse{
		Status:  dto.StatusSuccess,
		Message: fmt.Sprintf("Bot %s registered successfully", bot.BotID),
		BotID:   bot.BotID,
	})
}

// ListBots handles listing all registered bots
func (h *BotHandler) ListBots(c *gin.Context) {
	bots, err := h.botService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	botResponses := make([]dto.BotResponse, len(bots))
	for i, bot := range bots {
		botResponses[i] = dto.BotResponse{
			BotID:           bot.BotID,
			RegisteredAt:    bot.RegisteredAt,
			LastSeen:        bot.LastSeen,
			PendingCommands: bot.PendingCount,
			Attributes:      bot.Attributes,
		}
	}

	respondJSON(c, http.StatusOK, dto.ListBotsResponse{
		Status:     dto.StatusSuccess,
		Bots:       botResponses,
		TotalCount: len(botResponses),
	})
}

// Unregister handles bot removal
func (h *BotHandler) Unregister(c *gin.Context) {
	botID := c.Param("bot_id")
	if err := h.botService.Unregister(c.Request.Context(), botID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, dto.MessageResponse{
		Status:  dto.StatusSuccess,
		Message: fmt.Sprintf("Bot %s unregistered successfully", botID),
	})
}
