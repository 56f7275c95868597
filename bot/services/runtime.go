package services

import (
	"context"
	"log/slog"
	"time"

	"bot-registry/bot/handlers"
	"bot-registry/bot/storage"
	"bot-registry/bot/utils"

	"golang.org/x/sync/errgroup"
)

// RuntimeOptions tunes the runtime loops
type RuntimeOptions struct {
	PollInterval     time.Duration
	ReregisterDelay  time.Duration
	CleanupInterval  time.Duration
	JournalRetention time.Duration
	UnregisterOnExit bool
	ShutdownTimeout  time.Duration
}

// RuntimeService is the main bot loop: register, poll, execute, clear
type RuntimeService struct {
	agentClient  *AgentClient
	registration *RegistrationService
	puller       *handlers.PullHandler
	journal      *storage.Store
	botID        string
	opts         RuntimeOptions
	logger       *slog.Logger
}

// NewRuntimeService creates a new runtime service
func NewRuntimeService(
	agentClient *AgentClient,
	registration *RegistrationService,
	puller *handlers.PullHandler,
	journal *storage.Store,
	botID string,
	opts RuntimeOptions,
	logger *slog.Logger,
) *RuntimeService {
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Hour
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	return &RuntimeService{
		agentClient:  agentClient,
		registration: registration,
		puller:       puller,
		journal:      journal,
		botID:        botID,
		opts:         opts,
		logger:       logger,
	}
}

// Start registers the bot and runs until ctx is cancelled
func (r *RuntimeService) Start(ctx context.Context) error {
	if err := r.registration.RegisterWithRetry(ctx, r.botID); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "starting command polling loop", "bot_id", r.botID, "interval", r.opts.PollInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.pollLoop(gctx)
		return nil
	})
	if r.journal != nil {
		g.Go(func() error {
			r.cleanupLoop(gctx)
			return nil
		})
	}
	err := g.Wait()

	r.shutdown()
	return err
}

func (r *RuntimeService) pollLoop(ctx context.Context) {
	for {
		wait := r.pollOnce(ctx)
		if err := utils.Sleep(ctx, wait); err != nil {
			return
		}
	}
}

// pollOnce runs one poll cycle and returns how long to wait before the next one
func (r *RuntimeService) pollOnce(ctx context.Context) time.Duration {
	_, err := r.puller.ProcessBatch(ctx)
	switch {
	case err == nil:
		return r.opts.PollInterval
	case ctx.Err() != nil:
		return 0
	case IsNotRegistered(err):
		r.logger.WarnContext(ctx, "bot is not registered, attempting to re-register", "bot_id", r.botID)
		if err := r.registration.Register(ctx, r.botID); err != nil {
			r.logger.ErrorContext(ctx, "re-registration failed", "error", err, "retry_in", r.opts.ReregisterDelay)
			return r.opts.ReregisterDelay
		}
		return r.opts.PollInterval
	default:
		r.logger.ErrorContext(ctx, "poll cycle failed", "error", err)
		return r.opts.PollInterval
	}
}

func (r *RuntimeService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(r.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		r.cleanup(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *RuntimeService) cleanup(ctx context.Context) {
	removed, err := r.journal.CleanupExecutions(ctx, r.opts.JournalRetention)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.WarnContext(ctx, "journal cleanup failed", "error", err)
		}
		return
	}
	if removed > 0 {
		r.logger.InfoContext(ctx, "pruned journal", "removed", removed)
	}
}

// shutdown unregisters the bot, best effort
func (r *RuntimeService) shutdown() {
	r.logger.Info("shutting down bot", "bot_id", r.botID)
	if !r.opts.UnregisterOnExit {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.opts.ShutdownTimeout)
	defer cancel()
	if err := r.agentClient.Unregister(ctx, r.botID); err != nil {
		r.logger.Warn("could not unregister bot", "error", err)
		return
	}
	r.logger.Info("bot unregistered", "bot_id", r.botID)
}
