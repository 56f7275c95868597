package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bot-registry/app/dto"
	"bot-registry/bot/identity"
	"bot-registry/bot/storage"
	"bot-registry/bot/utils"
)

// InfoSource supplies host details for get_system_info
type InfoSource interface {
	Collect() (*identity.Metadata, error)
	Usage() (identity.Usage, error)
}

// ExecutionResult represents command execution result
type ExecutionResult struct {
	Command    string
	Outcome    string
	Output     string
	ExecutedAt time.Time
}

type handlerFunc func(params map[string]interface{}) (string, error)

type commandHandler struct {
	duration time.Duration
	run      handlerFunc
}

// Executor runs the simulated command handlers
type Executor struct {
	delayScale float64
	info       InfoSource
	logLevel   *slog.LevelVar
	logger     *slog.Logger
	handlers   map[string]commandHandler
}

// NewExecutor creates a new command executor. delayScale multiplies every simulated duration.
// logLevel, if set, is the level update_config adjusts.
func NewExecutor(delayScale float64, info InfoSource, logLevel *slog.LevelVar, logger *slog.Logger) *Executor {
	e := &Executor{
		delayScale: delayScale,
		info:       info,
		logLevel:   logLevel,
		logger:     logger,
	}
	e.handlers = map[string]commandHandler{
		"status_check":     {duration: time.Second, run: e.statusCheck},
		"start_monitoring": {duration: 2 * time.Second, run: e.startMonitoring},
		"update_config":    {duration: 500 * time.Millisecond, run: e.updateConfig},
		"get_system_info":  {duration: 1500 * time.Millisecond, run: e.systemInfo},
		"restart":          {duration: 3 * time.Second, run: e.restart},
	}
	return e
}

// Supported lists the command names the executor knows
func (e *Executor) Supported() []string {
	return []string{"status_check", "start_monitoring", "update_config", "get_system_info", "restart"}
}

// Execute runs one command. Unknown commands are reported, not failed.
func (e *Executor) Execute(ctx context.Context, cmd dto.CommandResponse) (result ExecutionResult) {
	result.Command = cmd.Command
	defer func() { result.ExecutedAt = time.Now() }()

	e.logger.InfoContext(ctx, "executing command",
		"command", cmd.Command,
		"params", cmd.Params,
		"queued_at", cmd.Timestamp,
	)

	h, ok := e.handlers[cmd.Command]
	if !ok {
		e.logger.WarnContext(ctx, "unknown command", "command", cmd.Command)
		result.Outcome = storage.OutcomeUnknown
		result.Output = fmt.Sprintf("Unknown command: %s", cmd.Command)
		return result
	}

	if err := utils.Sleep(ctx, e.scaled(h.duration)); err != nil {
		result.Outcome = storage.OutcomeInterrupted
		result.Output = "interrupted by shutdown"
		return result
	}

	output, err := h.run(cmd.Params)
	if err != nil {
		e.logger.WarnContext(ctx, "command failed", "command", cmd.Command, "error", err)
		result.Outcome = storage.OutcomeFailed
		result.Output = err.Error()
		return result
	}

	e.logger.InfoContext(ctx, "command completed", "command", cmd.Command, "output", output)
	result.Outcome = storage.OutcomeCompleted
	result.Output = output
	return result
}

func (e *Executor) scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * e.delayScale)
}

func (e *Executor) statusCheck(map[string]interface{}) (string, error) {
	return "Bot is running normally", nil
}

func (e *Executor) startMonitoring(params map[string]interface{}) (string, error) {
	interval := paramOr(params, "interval", 60)
	target := paramOr(params, "target", "default")
	return fmt.Sprintf("Starting monitoring of %v with %vs interval", target, interval), nil
}

func (e *Executor) updateConfig(params map[string]interface{}) (string, error) {
	name := fmt.Sprint(paramOr(params, "log_level", "INFO"))
	if e.logLevel != nil {
		level, err := utils.ParseLogLevel(name)
		if err != nil {
			return "", err
		}
		e.logLevel.Set(level)
	}
	return fmt.Sprintf("Updated log level to %s", name), nil
}

func (e *Executor) systemInfo(map[string]interface{}) (string, error) {
	if e.info == nil {
		return "", fmt.Errorf("system info unavailable")
	}

	usage, err := e.info.Usage()
	if err != nil {
		return "", fmt.Errorf("failed to probe usage: %w", err)
	}

	var b strings.Builder
	b.WriteString("System info: ")
	b.WriteString(usage.String())
	if meta, err := e.info.Collect(); err == nil {
		fmt.Fprintf(&b, " (host %s, %s/%s, %d cores)", meta.Hostname, meta.OSName, meta.Arch, meta.CPUCores)
	}
	return b.String(), nil
}

func (e *Executor) restart(map[string]interface{}) (string, error) {
	return "Restarting bot (simulated)", nil
}

// paramOr returns params[key], or def when absent or null
func paramOr(params map[string]interface{}, key string, def interface{}) interface{} {
	if v, ok := params[key]; ok && v != nil {
		return v
	}
	return def
}
