package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bot-registry/app/clients"
	"bot-registry/app/domains"
)

// BotService handles bot registration and listing
type BotService struct {
	coordinator *Coordinator
	logger      *slog.Logger
}

// NewBotService creates a new bot service
func NewBotService(coordinator *Coordinator, logger *slog.Logger) *BotService {
	return &BotService{
		coordinator: coordinator,
		logger:      logger,
	}
}

// Register adds a bot or replaces the attributes of an existing one
func (s *BotService) Register(ctx context.Context, botID string, attrs map[string]interface{}) (*domains.Bot, error) {
	if strings.TrimSpace(botID) == "" {
		return nil, domains.NewEmptyFieldError("bot_id")
	}

	var (
		bot     *domains.Bot
		created bool
	)
	err := s.coordinator.Do(func(store clients.StorageAdapter, now time.Time) error {
		bot, created = store.UpsertBot(botID, attrs, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.InfoContext(ctx, "bot registered", "bot_id", botID)
	} else {
		s.logger.InfoContext(ctx, "bot re-registered", "bot_id", botID)
	}
	return bot, nil
}

// List returns summaries of all registered bots
func (s *BotService) List(ctx context.Context) ([]domains.BotSummary, error) {
	var bots []domains.BotSummary
	err := s.coordinator.Do(func(store clients.StorageAdapter, _ time.Time) error {
		bots = store.ListBots()
		return nil
	})
	return bots, err
}

// Unregister removes a bot together with its pending commands
func (s *BotService) Unregister(ctx context.Context, botID string) error {
	err := s.coordinator.Do(func(store clients.StorageAdapter, _ time.Time) error {
		return store.RemoveBot(botID)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "bot unregistered", "bot_id", botID)
	return nil
}

// Count returns the number of registered bots
func (s *BotService) Count(ctx context.Context) (int, error) {
	var count int
	err := s.coordinator.Do(func(store clients.StorageAdapter, _ time.Time) error {
		count = store.Count()
		return nil
	})
	return count, err
}
