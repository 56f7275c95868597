package identity

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLoadMissingFile(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "identity.json"))

	ident, err := m.Load()
	require.NoError(t, err)
	assert.Nil(t, ident)
}

func TestManagerSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "identity.json")
	m := NewManager(path)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, m.Save(&Identity{BotID: "bot_001", CreatedAt: created}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	ident, err := m.Load()
	require.NoError(t, err)
	require.NotNil(t, ident)
	assert.Equal(t, "bot_001", ident.BotID)
	assert.True(t, created.Equal(ident.CreatedAt))
}

func TestManagerRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	m := NewManager(path)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err := m.Load()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"created_at":"2024-01-01T00:00:00Z"}`), 0600))
	_, err = m.Load()
	assert.Error(t, err)
}

func TestMetadataAttributesSkipsUnknownValues(t *testing.T) {
	m := &Metadata{OSName: "linux", Arch: "amd64", Hostname: "box", CPUCores: 4}

	assert.Equal(t, map[string]interface{}{
		"os_name":   "linux",
		"arch":      "amd64",
		"hostname":  "box",
		"cpu_cores": 4,
	}, m.Attributes())
}

func TestCollectorReadsProcFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "meminfo"), []byte(
		"MemTotal:        2048000 kB\nMemFree:          100000 kB\nMemAvailable:     512000 kB\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "loadavg"), []byte("0.50 0.40 0.30 1/100 999\n"), 0644))

	c := &Collector{procRoot: root}

	total, available, err := c.readMemInfo()
	require.NoError(t, err)
	assert.Equal(t, 2000, total)
	assert.Equal(t, 500, available)

	load, err := c.readLoadAverage()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, load, 0.0001)

	usage, err := c.Usage()
	require.NoError(t, err)
	assert.InDelta(t, 75, usage.MemoryPercent, 0.0001)
	assert.InDelta(t, 0.5, usage.LoadAverage, 0.0001)
}

func TestParseDFPercent(t *testing.T) {
	output := "Filesystem     1024-blocks      Used Available Capacity Mounted on\n/dev/sda1        102400000  80000000  22400000      79% /\n"

	pct, err := parseDFPercent(output)
	require.NoError(t, err)
	assert.Equal(t, 79.0, pct)

	_, err = parseDFPercent("garbage")
	assert.Error(t, err)
}

func TestUsageString(t *testing.T) {
	u := Usage{CPUPercent: 45, MemoryPercent: 62, DiskPercent: 78}
	assert.Equal(t, "CPU: 45%, Memory: 62%, Disk: 78%", u.String())
}

func TestCollectAlwaysFillsRuntimeFields(t *testing.T) {
	m, err := NewCollector().Collect()
	require.NoError(t, err)
	assert.NotEmpty(t, m.OSName)
	assert.NotEmpty(t, m.Arch)
	assert.Positive(t, m.CPUCores)
}
