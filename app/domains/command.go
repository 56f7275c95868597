package domains

import "time"

// CommandStatusPending is the only status the registry assigns
const CommandStatusPending = "pending"

// CommandEntry represents a command waiting in a bot's queue
type CommandEntry struct {
	Command   string                 `json:"command"`
	Params    map[string]interface{} `json:"params,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Status    string                 `json:"status"`
}

// Clone returns a deep copy of the entry
func (e CommandEntry) Clone() CommandEntry {
	e.Params = CloneMap(e.Params)
	return e
}
