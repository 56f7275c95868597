package handlers

import (
	"context"
	"log/slog"

	"bot-registry/app/dto"
	"bot-registry/bot/executor"
	"bot-registry/bot/storage"
)

// CommandSource is the registry side of a poll cycle
type CommandSource interface {
	PollCommands(ctx context.Context, botID string) ([]dto.CommandResponse, error)
	ClearCommands(ctx context.Context, botID string) (int, error)
}

// BatchResult summarizes one poll cycle
type BatchResult struct {
	Received    int
	Executed    int
	Cleared     int
	Interrupted bool
}

// PullHandler pulls pending commands, executes them in order, journals them and acknowledges the batch
type PullHandler struct {
	source   CommandSource
	executor *executor.Executor
	journal  *storage.Store
	botID    string
	logger   *slog.Logger
}

// NewPullHandler creates a new pull handler
func NewPullHandler(source CommandSource, exec *executor.Executor, journal *storage.Store, botID string, logger *slog.Logger) *PullHandler {
	return &PullHandler{
		source:   source,
		executor: exec,
		journal:  journal,
		botID:    botID,
		logger:   logger,
	}
}

// ProcessBatch runs one poll cycle. The queue is only cleared when every
// received command ran, so an interrupted batch is delivered again.
func (h *PullHandler) ProcessBatch(ctx context.Context) (BatchResult, error) {
	var result BatchResult

	commands, err := h.source.PollCommands(ctx, h.botID)
	if err != nil {
		return result, err
	}
	result.Received = len(commands)
	if len(commands) == 0 {
		return result, nil
	}
	h.logger.InfoContext(ctx, "received commands", "count", len(commands))

	for _, cmd := range commands {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}

		execResult := h.executor.Execute(ctx, cmd)
		h.record(ctx, cmd, execResult)
		if execResult.Outcome == storage.OutcomeInterrupted {
			result.Interrupted = true
			break
		}
		result.Executed++
	}

	if result.Interrupted {
		return result, nil
	}

	cleared, err := h.source.ClearCommands(ctx, h.botID)
	if err != nil {
		return result, err
	}
	result.Cleared = cleared
	if cleared > 0 {
		h.logger.InfoContext(ctx, "cleared processed commands", "cleared_count", cleared)
	}
	return result, nil
}

func (h *PullHandler) record(ctx context.Context, cmd dto.CommandResponse, result executor.ExecutionResult) {
	if h.journal == nil {
		return
	}

	err := h.journal.RecordExecution(context.WithoutCancel(ctx), &storage.Execution{
		BotID:      h.botID,
		Command:    cmd.Command,
		Params:     cmd.Params,
		QueuedAt:   cmd.Timestamp,
		Outcome:    result.Outcome,
		Output:     result.Output,
		ExecutedAt: result.ExecutedAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to journal execution", "command", cmd.Command, "error", err)
	}
}
