package bot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.ReregisterDelay)
	assert.Equal(t, []string{"monitoring", "file_operations", "system_info"}, cfg.Capabilities)
	assert.True(t, cfg.UnregisterOnExit)
	assert.Empty(t, cfg.BotID)
}

func TestLoadConfigLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_url: http://registry:5000
bot_id: yaml_bot
name: From YAML
poll_interval: 2s
capabilities: [monitoring]
delay_scale: 0.5
unregister_on_exit: false
`), 0644))

	t.Setenv("BOT_CONFIG", path)
	t.Setenv("BOT_NAME", "From Env")
	t.Setenv("BOT_POLL_INTERVAL", "3s")

	cfg, err := LoadConfig([]string{"--id", "flag_bot"})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, "http://registry:5000", cfg.ServerURL)
	assert.Equal(t, "flag_bot", cfg.BotID)
	assert.Equal(t, "From Env", cfg.Name)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, []string{"monitoring"}, cfg.Capabilities)
	assert.Equal(t, 0.5, cfg.DelayScale)
	assert.False(t, cfg.UnregisterOnExit)
}

func TestLoadConfigFlagPointsAtFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bot_id: file_bot\n"), 0644))

	cfg, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, "file_bot", cfg.BotID)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "bad url", args: []string{"--server", "localhost:5000"}},
		{name: "zero poll", args: []string{"--poll-interval", "0s"}},
		{name: "negative scale", args: []string{"--delay-scale", "-1"}},
		{name: "bad level", args: []string{"--log-level", "loud"}},
		{name: "missing file", args: []string{"--config", "/does/not/exist.yaml"}},
		{name: "bad env duration", env: map[string]string{"BOT_POLL_INTERVAL": "often"}},
		{name: "bad env bool", env: map[string]string{"BOT_UNREGISTER_ON_EXIT": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(tt.args)
			assert.Error(t, err)
		})
	}
}
