package services

import (
	"context"
	"net/http"
	"net/url"

	"bot-registry/app/dto"
	"bot-registry/bot/clients"
)

// AgentClient provides high-level API methods for the registry
type AgentClient struct {
	httpClient *clients.HTTPClient
}

// NewAgentClient creates a new agent client
func NewAgentClient(httpClient *clients.HTTPClient) *AgentClient {
	return &AgentClient{
		httpClient: httpClient,
	}
}

// IsNotRegistered reports whether the registry rejected the call because the bot is unknown
func IsNotRegistered(err error) bool {
	return clients.IsStatus(err, http.StatusNotFound)
}

// RegisterBot registers or re-registers a bot with its attributes
func (c *AgentClient) RegisterBot(ctx context.Context, botID string, attrs map[string]interface{}) (*dto.RegisterResponse, error) {
	payload := make(map[string]interface{}, len(attrs)+1)
	for k, v := range attrs {
		payload[k] = v
	}
	payload["bot_id"] = botID

	var resp dto.RegisterResponse
	if err := c.httpClient.DoRequest(ctx, http.MethodPost, "/register", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PollCommands fetches the bot's pending commands
func (c *AgentClient) PollCommands(ctx context.Context, botID string) ([]dto.CommandResponse, error) {
	var resp dto.GetCommandsResponse
	if err := c.httpClient.DoRequest(ctx, http.MethodGet, "/commands/"+url.PathEscape(botID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Commands, nil
}

// ClearCommands acknowledges the bot's executed commands
func (c *AgentClient) ClearCommands(ctx context.Context, botID string) (int, error) {
	var resp dto.ClearCommandsResponse
	if err := c.httpClient.DoRequest(ctx, http.MethodPost, "/commands/"+url.PathEscape(botID)+"/clear", nil, &resp); err != nil {
		return 0, err
	}
	return resp.ClearedCount, nil
}

// Unregister removes the bot from the registry
func (c *AgentClient) Unregister(ctx context.Context, botID string) error {
	return c.httpClient.DoRequest(ctx, http.MethodDelete, "/bots/"+url.PathEscape(botID), nil, nil)
}

// SubmitCommand queues a command for a bot
func (c *AgentClient) SubmitCommand(ctx context.Context, botID, command string, params map[string]interface{}) (*dto.SubmitCommandResponse, error) {
	payload := map[string]interface{}{
		"bot_id":  botID,
		"command": command,
	}
	if len(params) > 0 {
		payload["params"] = params
	}

	var resp dto.SubmitCommandResponse
	if err := c.httpClient.DoRequest(ctx, http.MethodPost, "/command", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListBots lists all registered bots
func (c *AgentClient) ListBots(ctx context.Context) (*dto.ListBotsResponse, error) {
	var resp dto.ListBotsResponse
	if err := c.httpClient.DoRequest(ctx, http.MethodGet, "/bots", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health fetches the registry health
func (c *AgentClient) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var resp dto.HealthResponse
	if err := c.httpClient.DoRequest(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
