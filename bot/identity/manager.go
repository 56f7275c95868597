package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Identity is the bot identity persisted between runs
type Identity struct {
	BotID     string    `json:"bot_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager handles identity file operations
type Manager struct {
	identityPath string
}

// NewManager creates a new identity manager
func NewManager(identityPath string) *Manager {
	return &Manager{identityPath: identityPath}
}

// Load loads identity from file. A missing file yields a nil identity.
func (m *Manager) Load() (*Identity, error) {
	data, err := os.ReadFile(m.identityPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal identity: %w", err)
	}
	if identity.BotID == "" {
		return nil, fmt.Errorf("identity file %s has no bot_id", m.identityPath)
	}

	return &identity, nil
}

// Save saves identity to file
func (m *Manager) Save(identity *Identity) error {
	dir := filepath.Dir(m.identityPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}

	if err := os.WriteFile(m.identityPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}

	return nil
}
