package domains

import "time"

// PublicAttributeKeys lists the attributes exposed in bot listings
var PublicAttributeKeys = []string{"name", "version", "status"}

// Bot represents a registered bot
type Bot struct {
	BotID        string                 `json:"bot_id"`
	Attributes   map[string]interface{} `json:"attributes"`
	RegisteredAt time.Time              `json:"registered_at"`
	LastSeen     time.Time              `json:"last_seen"`
}

// Clone returns a deep copy of the bot
func (b *Bot) Clone() *Bot {
	if b == nil {
		return nil
	}
	return &Bot{
		BotID:        b.BotID,
		Attributes:   CloneMap(b.Attributes),
		RegisteredAt: b.RegisteredAt,
		LastSeen:     b.LastSeen,
	}
}

// BotSummary is a listing snapshot of a bot and its queue length
type BotSummary struct {
	BotID        string
	RegisteredAt time.Time
	LastSeen     time.Time
	PendingCount int
	Attributes   map[string]interface{}
}

// PublicAttributes returns the whitelisted subset of the bot's attributes
func (b *Bot) PublicAttributes() map[string]interface{} {
	public := make(map[string]interface{}, len(PublicAttributeKeys))
	for _, key := range PublicAttributeKeys {
		if v, ok := b.Attributes[key]; ok {
			public[key] = CloneValue(v)
		}
	}
	return public
}

// CloneMap deep-copies a JSON-shaped map
func CloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies a decoded JSON value. Scalars are returned as is.
func CloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return CloneMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return val
	}
}
