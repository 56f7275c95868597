package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bot-registry/app/clients"
	"bot-registry/app/domains"
)

// CommandService handles per-bot command queues
type CommandService struct {
	coordinator *Coordinator
	logger      *slog.Logger
}

// NewCommandService creates a new command service
func NewCommandService(coordinator *Coordinator, logger *slog.Logger) *CommandService {
	return &CommandService{
		coordinator: coordinator,
		logger:      logger,
	}
}

// EnqueueCommand appends a pending command to a bot's queue
func (s *CommandService) EnqueueCommand(ctx context.Context, botID, command string, params map[string]interface{}) (*domains.CommandEntry, error) {
	if strings.TrimSpace(botID) == "" {
		return nil, domains.NewEmptyFieldError("bot_id")
	}
	if strings.TrimSpace(command) == "" {
		return nil, domains.NewEmptyFieldError("command")
	}

	var entry domains.CommandEntry
	err := s.coordinator.Do(func(store clients.StorageAdapter, now time.Time) error {
		entry = domains.CommandEntry{
			Command:   command,
			Params:    params,
			Timestamp: now,
			Status:    domains.CommandStatusPending,
		}
		return store.AppendCommand(botID, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "command queued", "bot_id", botID, "command", command)
	entry = entry.Clone()
	return &entry, nil
}

// GetPending returns the bot's queued commands and records the poll as last_seen
func (s *CommandService) GetPending(ctx context.Context, botID string) ([]domains.CommandEntry, error) {
	var commands []domains.CommandEntry
	err := s.coordinator.Do(func(store clients.StorageAdapter, now time.Time) error {
		var err error
		commands, err = store.ListCommands(botID)
		if err != nil {
			return err
		}
		return store.Touch(botID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "bot polled", "bot_id", botID, "pending", len(commands))
	return commands, nil
}

// ClearPending empties the bot's queue and returns the number of cleared commands
func (s *CommandService) ClearPending(ctx context.Context, botID string) (int, error) {
	var cleared int
	err := s.coordinator.Do(func(store clients.StorageAdapter, _ time.Time) error {
		var err error
		cleared, err = store.ClearCommands(botID)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "commands cleared", "bot_id", botID, "cleared_count", cleared)
	return cleared, nil
}
