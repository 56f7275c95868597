package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"

	"bot-registry/app/domains"
	"bot-registry/app/dto"
	"bot-registry/app/services"
	"bot-registry/app/utils"

	"github.com/gin-gonic/gin"
)

// CommandHandler handles command-related endpoints
type CommandHandler struct {
	commandService *services.CommandService
	logger         *slog.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(commandService *services.CommandService, logger *slog.Logger) *CommandHandler {
	return &CommandHandler{
		commandService: commandService,
		logger:         logger,
	}
}

// SubmitCommand handles queueing a command for one bot
func (h *CommandHandler) SubmitCommand(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		respondError(c, http.StatusBadRequest, msgNoJSON)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if len(fields) == 0 {
		respondError(c, http.StatusBadRequest, msgNoJSON)
		return
	}

	var req dto.SubmitCommandRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			respondServiceError(c, h.logger, domains.NewInvalidFieldError(typeErr.Field, jsonTypeName(typeErr.Type)))
		default:
			respondError(c, http.StatusBadRequest, msgInvalidJSON)
		}
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	entry, err := h.commandService.EnqueueCommand(c.Request.Context(), *req.BotID, *req.Command, req.Params)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, dto.SubmitCommandResponse{
		Status:  dto.StatusSuccess,
		Message: fmt.Sprintf("Command '%s' queued for bot %s", entry.Command, *req.BotID),
		Command: entry.Command,
	})
}

// GetCommands handles a bot polling for its pending commands
func (h *CommandHandler) GetCommands(c *gin.Context) {
	botID := c.Param("bot_id")
	commands, err := h.commandService.GetPending(c.Request.Context(), botID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	responses := make([]dto.CommandResponse, len(commands))
	for i, cmd := range commands {
		responses[i] = toCommandResponse(cmd)
	}

	respondJSON(c, http.StatusOK, dto.GetCommandsResponse{
		Status:   dto.StatusSuccess,
		BotID:    botID,
		Commands: responses,
	})
}

// ClearCommands handles a bot acknowledging its executed commands
func (h *CommandHandler) ClearCommands(c *gin.Context) {
	botID := c.Param("bot_id")
	cleared, err := h.commandService.ClearPending(c.Request.Context(), botID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, dto.ClearCommandsResponse{
		Status:       dto.StatusSuccess,
		Message:      fmt.Sprintf("Cleared %d commands for bot %s", cleared, botID),
		ClearedCount: cleared,
	})
}

// jsonTypeName names the JSON type a Go destination type expects
func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Bool:
		return "boolean"
	default:
		return "number"
	}
}

func toCommandResponse(entry domains.CommandEntry) dto.CommandResponse {
	return dto.CommandResponse{
		Command:   entry.Command,
		Params:    entry.Params,
		Timestamp: entry.Timestamp,
		Status:    entry.Status,
	}
}
