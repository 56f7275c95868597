package identity

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Usage is a point-in-time resource snapshot reported by get_system_info
type Usage struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
	LoadAverage   float64 `json:"load_average"`
}

// String formats the snapshot the way the bot reports it
func (u Usage) String() string {
	return fmt.Sprintf("CPU: %.0f%%, Memory: %.0f%%, Disk: %.0f%%", u.CPUPercent, u.MemoryPercent, u.DiskPercent)
}

// Usage probes current resource usage. Values that cannot be probed stay zero.
func (c *Collector) Usage() (Usage, error) {
	var usage Usage

	if load, err := c.readLoadAverage(); err == nil {
		usage.LoadAverage = load
		if cores := runtime.NumCPU(); cores > 0 {
			usage.CPUPercent = clampPercent(load / float64(cores) * 100)
		}
	}

	if total, available, err := c.readMemInfo(); err == nil && total > 0 {
		usage.MemoryPercent = clampPercent(float64(total-available) / float64(total) * 100)
	}

	if output, err := c.execCommand("df", "-P", "/"); err == nil {
		if pct, err := parseDFPercent(output); err == nil {
			usage.DiskPercent = pct
		}
	}

	return usage, nil
}

func (c *Collector) readLoadAverage() (float64, error) {
	data, err := os.ReadFile(c.procRoot + "/loadavg")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty loadavg")
	}
	return strconv.ParseFloat(fields[0], 64)
}

// parseDFPercent reads the capacity column of POSIX df output
func parseDFPercent(output string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) < 2 {
		return 0, fmt.Errorf("unexpected df output")
	}
	parts := strings.Fields(lines[1])
	if len(parts) < 5 {
		return 0, fmt.Errorf("unexpected df output")
	}
	return strconv.ParseFloat(strings.TrimSuffix(parts[4], "%"), 64)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
