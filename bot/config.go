package bot

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"bot-registry/bot/utils"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds bot configuration
type Config struct {
	ConfigPath       string        `yaml:"-"`
	ServerURL        string        `yaml:"server_url"`
	BotID            string        `yaml:"bot_id"`
	Name             string        `yaml:"name"`
	Version          string        `yaml:"version"`
	Capabilities     []string      `yaml:"capabilities"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	ReregisterDelay  time.Duration `yaml:"reregister_delay"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	IdentityPath     string        `yaml:"identity_path"`
	JournalPath      string        `yaml:"journal_path"`
	JournalRetention time.Duration `yaml:"journal_retention"`
	DelayScale       float64       `yaml:"delay_scale"`
	UnregisterOnExit bool          `yaml:"unregister_on_exit"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		ServerURL:        "http://localhost:5000",
		Name:             "Example Bot Client",
		Version:          "1.0.0",
		Capabilities:     []string{"monitoring", "file_operations", "system_info"},
		PollInterval:     5 * time.Second,
		ReregisterDelay:  10 * time.Second,
		RequestTimeout:   10 * time.Second,
		IdentityPath:     ".bot/identity.json",
		JournalPath:      ".bot/journal.db",
		JournalRetention: 24 * time.Hour,
		DelayScale:       1,
		UnregisterOnExit: true,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// LoadConfig layers defaults, the YAML file, environment variables and flags, in that order
func LoadConfig(args []string) (*Config, error) {
	probe := DefaultConfig()
	if err := probe.flagSet().Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	cfg := DefaultConfig()
	cfg.ConfigPath = probe.ConfigPath
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = os.Getenv("BOT_CONFIG")
	}
	if cfg.ConfigPath != "" {
		if err := cfg.loadFile(cfg.ConfigPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.flagSet().Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("bot", pflag.ContinueOnError)
	fs.StringVarP(&c.ConfigPath, "config", "c", c.ConfigPath, "YAML config file")
	fs.StringVarP(&c.ServerURL, "server", "s", c.ServerURL, "registry base URL")
	fs.StringVar(&c.BotID, "id", c.BotID, "bot id (generated and saved when empty)")
	fs.StringVar(&c.Name, "name", c.Name, "bot display name")
	fs.StringVar(&c.Version, "version", c.Version, "bot version")
	fs.StringSliceVar(&c.Capabilities, "capabilities", c.Capabilities, "advertised capabilities")
	fs.DurationVar(&c.PollInterval, "poll-interval", c.PollInterval, "command poll interval")
	fs.DurationVar(&c.ReregisterDelay, "reregister-delay", c.ReregisterDelay, "wait after a failed re-registration")
	fs.DurationVar(&c.RequestTimeout, "request-timeout", c.RequestTimeout, "HTTP request timeout")
	fs.StringVar(&c.IdentityPath, "identity", c.IdentityPath, "identity file path")
	fs.StringVar(&c.JournalPath, "journal", c.JournalPath, "SQLite journal path (:memory: for none on disk)")
	fs.DurationVar(&c.JournalRetention, "journal-retention", c.JournalRetention, "how long journal rows are kept")
	fs.Float64Var(&c.DelayScale, "delay-scale", c.DelayScale, "multiplier for simulated command durations")
	fs.BoolVar(&c.UnregisterOnExit, "unregister-on-exit", c.UnregisterOnExit, "unregister from the registry on shutdown")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (text, json)")
	return fs
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerURL = getEnv("BOT_SERVER_URL", c.ServerURL)
	c.BotID = getEnv("BOT_ID", c.BotID)
	c.Name = getEnv("BOT_NAME", c.Name)
	c.Version = getEnv("BOT_VERSION", c.Version)
	c.IdentityPath = getEnv("BOT_IDENTITY_PATH", c.IdentityPath)
	c.JournalPath = getEnv("BOT_JOURNAL_PATH", c.JournalPath)
	c.LogLevel = getEnv("BOT_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("BOT_LOG_FORMAT", c.LogFormat)

	if v := os.Getenv("BOT_CAPABILITIES"); v != "" {
		c.Capabilities = nil
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				c.Capabilities = append(c.Capabilities, part)
			}
		}
	}
	if v := os.Getenv("BOT_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid BOT_POLL_INTERVAL %q: %w", v, err)
		}
		c.PollInterval = d
	}
	if v := os.Getenv("BOT_DELAY_SCALE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid BOT_DELAY_SCALE %q: %w", v, err)
		}
		c.DelayScale = f
	}
	if v := os.Getenv("BOT_UNREGISTER_ON_EXIT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid BOT_UNREGISTER_ON_EXIT %q: %w", v, err)
		}
		c.UnregisterOnExit = b
	}
	return nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.ServerURL)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.ReregisterDelay < 0 || c.RequestTimeout <= 0 || c.JournalRetention <= 0 {
		return fmt.Errorf("durations must be positive")
	}
	if c.DelayScale < 0 {
		return fmt.Errorf("delay scale must not be negative")
	}
	if _, err := utils.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
