package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"bot-registry/app"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) string {
	t.Helper()
	color.NoColor = true

	cfg, err := app.LoadConfig([]string{"--gin-mode", "test"})
	require.NoError(t, err)
	server := httptest.NewServer(app.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).Router)
	t.Cleanup(server.Close)
	return server.URL
}

func TestParseKeyValues(t *testing.T) {
	values, err := parseKeyValues([]string{"interval=30", "target=disk", "verbose=true", "ratio=0.5", "name=\"quoted\""})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"interval": float64(30),
		"target":   "disk",
		"verbose":  true,
		"ratio":    0.5,
		"name":     "quoted",
	}, values)

	_, err = parseKeyValues([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseKeyValues([]string{"=x"})
	assert.Error(t, err)
}

func TestCLIFlow(t *testing.T) {
	url := newServer(t)
	var out bytes.Buffer

	require.NoError(t, run(&out, url, "register", []string{"bot_001", "--attr", "name=Test Bot", "--attr", "version=1.0.0"}))
	assert.Contains(t, out.String(), "bot_001")

	out.Reset()
	require.NoError(t, run(&out, url, "send", []string{"bot_001", "start_monitoring", "--param", "interval=30"}))
	assert.Contains(t, out.String(), "queued start_monitoring for bot_001")

	out.Reset()
	require.NoError(t, run(&out, url, "bots", nil))
	assert.Contains(t, out.String(), "Registered bots (1)")
	assert.Contains(t, out.String(), "Test Bot")

	out.Reset()
	require.NoError(t, run(&out, url, "pending", []string{"bot_001"}))
	assert.Contains(t, out.String(), `start_monitoring {"interval":30}`)

	out.Reset()
	require.NoError(t, run(&out, url, "clear", []string{"bot_001"}))
	assert.Contains(t, out.String(), "cleared 1 command(s)")

	out.Reset()
	require.NoError(t, run(&out, url, "health", nil))
	assert.Contains(t, out.String(), "registered bots: 1")

	out.Reset()
	require.NoError(t, run(&out, url, "unregister", []string{"bot_001"}))

	err := run(&out, url, "pending", []string{"bot_001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bot bot_001 is not registered")
}

func TestCLIUsageErrors(t *testing.T) {
	url := newServer(t)
	var out bytes.Buffer

	assert.Error(t, run(&out, url, "send", []string{"bot_001"}))
	assert.Error(t, run(&out, url, "pending", nil))
	assert.Error(t, run(&out, url, "frobnicate", nil))
	assert.Error(t, run(&out, url, "send", []string{"bot_001", "x", "--param", "bad"}))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "-", display(nil))
	assert.Equal(t, "v1", display("v1"))
	assert.Equal(t, "2", display(float64(2)))
	assert.Equal(t, "{a,b}", display(map[string]interface{}{"b": 1, "a": 2}))
}
