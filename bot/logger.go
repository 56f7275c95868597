package bot

import (
	"fmt"
	"io"
	"log/slog"

	"bot-registry/bot/utils"
)

// NewLogger builds the bot logger. The returned level can be changed at runtime.
func NewLogger(level, format string, w io.Writer) (*slog.Logger, *slog.LevelVar, error) {
	lvl, err := utils.ParseLogLevel(level)
	if err != nil {
		return nil, nil, err
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(lvl)
	opts := &slog.HandlerOptions{Level: levelVar}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, nil, fmt.Errorf("invalid log format %q", format)
	}
	return slog.New(handler), levelVar, nil
}
