package dto

import (
	"encoding/json"
	"time"
)

// Response status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusHealthy = "healthy"
	StatusReady   = "ready"
)

// RegisterResponse represents registration response
type RegisterResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	BotID   string `json:"bot_id"`
}

// SubmitCommandResponse represents command submission response
type SubmitCommandResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Command string `json:"command"`
}

// CommandResponse represents a queued command
type CommandResponse struct {
	Command   string                 `json:"command"`
	Params    map[string]interface{} `json:"params,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Status    string                 `json:"status"`
}

// GetCommandsResponse represents the pending commands of a bot
type GetCommandsResponse struct {
	Status   string            `json:"status"`
	BotID    string            `json:"bot_id"`
	Commands []CommandResponse `json:"commands"`
}

// ClearCommandsResponse represents queue clear response
type ClearCommandsResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ClearedCount int    `json:"cleared_count"`
}

// BotResponse represents a bot in listings
type BotResponse struct {
	BotID           string      `json:"bot_id"`
	RegisteredAt    time.Time   `json:"registered_at"`
	LastSeen        time.Time   `json:"last_seen"`
	PendingCommands int         `json:"pending_commands"`
	Name            interface{} `json:"name,omitempty"`
	Version         interface{} `json:"version,omitempty"`
	BotStatus       interface{} `json:"status,omitempty"`

	// Attributes holds the whitelisted attributes the bot registered with.
	// A key present with a null value is still written.
	Attributes map[string]interface{} `json:"-"`
}

// MarshalJSON writes every present attribute next to the fixed fields
func (b BotResponse) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"bot_id":           b.BotID,
		"registered_at":    b.RegisteredAt,
		"last_seen":        b.LastSeen,
		"pending_commands": b.PendingCommands,
	}
	for key, v := range map[string]interface{}{"name": b.Name, "version": b.Version, "status": b.BotStatus} {
		if v != nil {
			out[key] = v
		}
	}
	for key, v := range b.Attributes {
		out[key] = v
	}
	return json.Marshal(out)
}

// ListBotsResponse represents bot listing response
type ListBotsResponse struct {
	Status     string        `json:"status"`
	Bots       []BotResponse `json:"bots"`
	TotalCount int           `json:"total_count"`
}

// MessageResponse represents a plain success message
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	RegisteredBots int       `json:"registered_bots"`
}

// ReadyResponse represents readiness response
type ReadyResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
