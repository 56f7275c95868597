package identity

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"bot-registry/bot/utils"
)

// Metadata represents host metadata sent as registration attributes
type Metadata struct {
	OSName        string `json:"os_name,omitempty"`
	OSVersion     string `json:"os_version,omitempty"`
	Arch          string `json:"arch,omitempty"`
	KernelVersion string `json:"kernel_version,omitempty"`
	Hostname      string `json:"hostname,omitempty"`
	IPAddress     string `json:"ip_address,omitempty"`
	CPUCores      int    `json:"cpu_cores,omitempty"`
	MemoryMB      int    `json:"memory_mb,omitempty"`
}

// Attributes flattens the metadata into registration attributes, skipping unknown values
func (m *Metadata) Attributes() map[string]interface{} {
	attrs := map[string]interface{}{
		"os_name": m.OSName,
		"arch":    m.Arch,
	}
	if m.OSVersion != "" {
		attrs["os_version"] = m.OSVersion
	}
	if m.KernelVersion != "" {
		attrs["kernel_version"] = m.KernelVersion
	}
	if m.Hostname != "" {
		attrs["hostname"] = m.Hostname
	}
	if m.IPAddress != "" {
		attrs["ip_address"] = m.IPAddress
	}
	if m.CPUCores > 0 {
		attrs["cpu_cores"] = m.CPUCores
	}
	if m.MemoryMB > 0 {
		attrs["memory_mb"] = m.MemoryMB
	}
	return attrs
}

// Collector collects host metadata and usage
type Collector struct {
	procRoot string
}

// NewCollector creates a new metadata collector
func NewCollector() *Collector {
	return &Collector{procRoot: "/proc"}
}

// Collect collects host metadata. Probes that fail leave their field empty.
func (c *Collector) Collect() (*Metadata, error) {
	metadata := &Metadata{
		OSName:   runtime.GOOS,
		Arch:     runtime.GOARCH,
		CPUCores: runtime.NumCPU(),
	}

	if hostname, err := os.Hostname(); err == nil {
		metadata.Hostname = hostname
	}

	if runtime.GOOS == "linux" {
		if osRelease, err := c.readOSRelease(); err == nil {
			metadata.OSVersion = osRelease
		}
		if kernel, err := c.execCommand("uname", "-r"); err == nil {
			metadata.KernelVersion = strings.TrimSpace(kernel)
		}
		if total, _, err := c.readMemInfo(); err == nil {
			metadata.MemoryMB = total
		}
	}

	if ip, err := utils.GetPrimaryIP(); err == nil {
		metadata.IPAddress = ip
	}

	return metadata, nil
}

func (c *Collector) readOSRelease() (string, error) {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "PRETTY_NAME=") {
			return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\""), nil
		}
	}

	return "", fmt.Errorf("PRETTY_NAME not found")
}

func (c *Collector) execCommand(name string, args ...string) (string, error) {
	output, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// readMemInfo returns total and available memory in MB
func (c *Collector) readMemInfo() (totalMB int, availableMB int, err error) {
	data, err := os.ReadFile(c.procRoot + "/meminfo")
	if err != nil {
		return 0, 0, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		kb, convErr := strconv.Atoi(parts[1])
		if convErr != nil {
			continue
		}
		switch parts[0] {
		case "MemTotal:":
			totalMB = kb / 1024
		case "MemAvailable:":
			availableMB = kb / 1024
		}
	}

	if totalMB == 0 {
		return 0, 0, fmt.Errorf("MemTotal not found")
	}
	return totalMB, availableMB, nil
}
