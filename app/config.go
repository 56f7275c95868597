package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Config holds application configuration
type Config struct {
	ServerHost         string
	ServerPort         string
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins []string
	GinMode            string
	ShutdownTimeout    time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig loads configuration from environment variables, overridden by flags
func LoadConfig(args []string) (*Config, error) {
	shutdownSec, err := getEnvInt("SHUTDOWN_TIMEOUT_SEC", 5)
	if err != nil {
		return nil, err
	}
	readSec, err := getEnvInt("READ_TIMEOUT_SEC", 10)
	if err != nil {
		return nil, err
	}
	writeSec, err := getEnvInt("WRITE_TIMEOUT_SEC", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerHost:         getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:         getEnv("SERVER_PORT", "5000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		GinMode:            getEnv("GIN_MODE", "release"),
		ShutdownTimeout:    time.Duration(shutdownSec) * time.Second,
		ReadTimeout:        time.Duration(readSec) * time.Second,
		WriteTimeout:       time.Duration(writeSec) * time.Second,
	}

	fs := pflag.NewFlagSet("api", pflag.ContinueOnError)
	fs.StringVar(&cfg.ServerHost, "host", cfg.ServerHost, "listen host")
	fs.StringVarP(&cfg.ServerPort, "port", "p", cfg.ServerPort, "listen port")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")
	fs.StringSliceVar(&cfg.CORSAllowedOrigins, "cors-origins", cfg.CORSAllowedOrigins, "allowed CORS origins")
	fs.StringVar(&cfg.GinMode, "gin-mode", cfg.GinMode, "gin mode (debug, release, test)")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	port, err := strconv.Atoi(c.ServerPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.ServerPort)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin mode %q", c.GinMode)
	}
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin must be allowed")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, value)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
