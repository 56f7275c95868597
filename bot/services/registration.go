package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bot-registry/bot/identity"
	"bot-registry/bot/utils"
)

// MetadataSource supplies host metadata for registration attributes
type MetadataSource interface {
	Collect() (*identity.Metadata, error)
}

// Profile is what the bot advertises about itself
type Profile struct {
	Name         string
	Version      string
	Capabilities []string
}

// RegistrationService handles bot registration and re-registration
type RegistrationService struct {
	agentClient *AgentClient
	identityMgr *identity.Manager
	metadata    MetadataSource
	profile     Profile
	retry       *utils.RetryPolicy
	logger      *slog.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	agentClient *AgentClient,
	identityMgr *identity.Manager,
	metadata MetadataSource,
	profile Profile,
	retry *utils.RetryPolicy,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		agentClient: agentClient,
		identityMgr: identityMgr,
		metadata:    metadata,
		profile:     profile,
		retry:       retry,
		logger:      logger,
	}
}

// ResolveBotID picks the bot id: the configured one, else the saved identity, else a new one that is saved
func (r *RegistrationService) ResolveBotID(configuredID string) (string, error) {
	if configuredID != "" {
		return configuredID, nil
	}

	ident, err := r.identityMgr.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load identity: %w", err)
	}
	if ident != nil {
		return ident.BotID, nil
	}

	ident = &identity.Identity{
		BotID:     utils.GenerateBotID(),
		CreatedAt: time.Now().UTC(),
	}
	if err := r.identityMgr.Save(ident); err != nil {
		return "", fmt.Errorf("failed to save identity: %w", err)
	}
	r.logger.Info("generated new bot identity", "bot_id", ident.BotID)
	return ident.BotID, nil
}

// Attributes builds the registration attributes
func (r *RegistrationService) Attributes() map[string]interface{} {
	attrs := make(map[string]interface{})
	if r.metadata != nil {
		if metadata, err := r.metadata.Collect(); err == nil {
			for k, v := range metadata.Attributes() {
				attrs[k] = v
			}
		} else {
			r.logger.Warn("failed to collect metadata", "error", err)
		}
	}

	capabilities := make([]interface{}, len(r.profile.Capabilities))
	for i, c := range r.profile.Capabilities {
		capabilities[i] = c
	}

	attrs["name"] = r.profile.Name
	attrs["version"] = r.profile.Version
	attrs["status"] = "active"
	attrs["capabilities"] = capabilities
	return attrs
}

// Register registers the bot once
func (r *RegistrationService) Register(ctx context.Context, botID string) error {
	if _, err := r.agentClient.RegisterBot(ctx, botID, r.Attributes()); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	r.logger.InfoContext(ctx, "bot registered", "bot_id", botID)
	return nil
}

// RegisterWithRetry registers the bot, retrying with exponential backoff
func (r *RegistrationService) RegisterWithRetry(ctx context.Context, botID string) error {
	return r.retry.Execute(ctx, func(ctx context.Context) error {
		return r.Register(ctx, botID)
	}, func(attempt int, delay time.Duration, err error) {
		r.logger.WarnContext(ctx, "registration attempt failed",
			"attempt", attempt,
			"retry_in", delay,
			"error", err,
		)
	})
}
