package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"bot-registry/app/clients"
	"bot-registry/app/handlers"
	"bot-registry/app/services"
	"bot-registry/storage/memory"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// App represents the application
type App struct {
	Config         *Config
	Logger         *slog.Logger
	Storage        clients.StorageAdapter
	Coordinator    *services.Coordinator
	BotService     *services.BotService
	CommandService *services.CommandService
	Router         *gin.Engine
}

// Bootstrap initializes the application
func Bootstrap(args []string, logOutput io.Writer) (*App, error) {
	cfg, err := LoadConfig(args)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := NewLogger(cfg.LogLevel, cfg.LogFormat, logOutput)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return New(cfg, logger), nil
}

// New wires the application from an already loaded config
func New(cfg *Config, logger *slog.Logger) *App {
	store := memory.NewStore()
	coordinator := services.NewCoordinator(store)

	botService := services.NewBotService(coordinator, logger)
	commandService := services.NewCommandService(coordinator, logger)

	return &App{
		Config:         cfg,
		Logger:         logger,
		Storage:        store,
		Coordinator:    coordinator,
		BotService:     botService,
		CommandService: commandService,
		Router:         NewRouter(cfg, logger, botService, commandService),
	}
}

// NewRouter builds the HTTP router
func NewRouter(cfg *Config, logger *slog.Logger, botService *services.BotService, commandService *services.CommandService) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(handlers.Recovery(logger), handlers.RequestLogger(logger))

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", handlers.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", handlers.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.NoRoute(handlers.NotFound)
	router.NoMethod(handlers.MethodNotAllowed)

	setupRoutes(router,
		handlers.NewBotHandler(botService, logger),
		handlers.NewCommandHandler(commandService, logger),
		handlers.NewHealthHandler(botService, logger),
	)
	return router
}

// setupRoutes configures HTTP routes
func setupRoutes(router *gin.Engine, botHandler *handlers.BotHandler, commandHandler *handlers.CommandHandler, healthHandler *handlers.HealthHandler) {
	// Health endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Bot endpoints
	router.POST("/register", botHandler.Register)
	router.GET("/bots", botHandler.ListBots)
	router.DELETE("/bots/:bot_id", botHandler.Unregister)

	// Command endpoints
	router.POST("/command", commandHandler.SubmitCommand)
	router.GET("/commands/:bot_id", commandHandler.GetCommands)
	router.POST("/commands/:bot_id/clear", commandHandler.ClearCommands)
}

// LogRoutes writes the route table at startup
func (a *App) LogRoutes() {
	for _, route := range a.Router.Routes() {
		a.Logger.Info("route", "method", route.Method, "path", route.Path)
	}
}
