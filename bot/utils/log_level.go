package utils

import (
	"fmt"
	"log/slog"
	"strings"
)

// ParseLogLevel parses DEBUG, INFO, WARN/WARNING or ERROR in any case
func ParseLogLevel(name string) (slog.Level, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	if normalized == "WARNING" {
		normalized = "WARN"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(normalized)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unsupported log level %q", name)
	}
	return level, nil
}
