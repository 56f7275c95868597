package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"bot-registry/bot/clients"
	"bot-registry/bot/executor"
	"bot-registry/bot/handlers"
	"bot-registry/bot/identity"
	"bot-registry/bot/services"
	"bot-registry/bot/storage"
	"bot-registry/bot/utils"
)

// Agent is a fully wired bot
type Agent struct {
	Config  *Config
	Logger  *slog.Logger
	BotID   string
	Journal *storage.Store
	Runtime *services.RuntimeService
}

// Bootstrap loads configuration and wires the bot
func Bootstrap(args []string, logOutput io.Writer) (*Agent, error) {
	cfg, err := LoadConfig(args)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, level, err := NewLogger(cfg.LogLevel, cfg.LogFormat, logOutput)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return New(cfg, logger, level)
}

// New wires the bot from an already loaded config
func New(cfg *Config, logger *slog.Logger, level *slog.LevelVar) (*Agent, error) {
	journal, err := storage.NewStore(cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize journal: %w", err)
	}

	httpClient := clients.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout)
	agentClient := services.NewAgentClient(httpClient)
	collector := identity.NewCollector()

	registration := services.NewRegistrationService(
		agentClient,
		identity.NewManager(cfg.IdentityPath),
		collector,
		services.Profile{
			Name:         cfg.Name,
			Version:      cfg.Version,
			Capabilities: cfg.Capabilities,
		},
		utils.DefaultRetryPolicy(),
		logger,
	)

	botID, err := registration.ResolveBotID(cfg.BotID)
	if err != nil {
		journal.Close()
		return nil, err
	}
	logger = logger.With("bot_id", botID)

	exec := executor.NewExecutor(cfg.DelayScale, collector, level, logger)
	puller := handlers.NewPullHandler(agentClient, exec, journal, botID, logger)

	runtime := services.NewRuntimeService(
		agentClient,
		registration,
		puller,
		journal,
		botID,
		services.RuntimeOptions{
			PollInterval:     cfg.PollInterval,
			ReregisterDelay:  cfg.ReregisterDelay,
			JournalRetention: cfg.JournalRetention,
			UnregisterOnExit: cfg.UnregisterOnExit,
			ShutdownTimeout:  cfg.RequestTimeout,
		},
		logger,
	)

	return &Agent{
		Config:  cfg,
		Logger:  logger,
		BotID:   botID,
		Journal: journal,
		Runtime: runtime,
	}, nil
}

// Run runs the bot until ctx is cancelled, then closes the journal
func (a *Agent) Run(ctx context.Context) error {
	defer a.Journal.Close()
	return a.Runtime.Start(ctx)
}
