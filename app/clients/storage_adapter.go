package clients

import (
	"time"

	"bot-registry/app/domains"
)

// StorageAdapter defines the registry store operations.
// Implementations hold no locks; callers serialize access.
type StorageAdapter interface {
	UpsertBot(botID string, attrs map[string]interface{}, now time.Time) (*domains.Bot, bool)
	BotExists(botID string) bool
	Touch(botID string, now time.Time) error
	AppendCommand(botID string, entry domains.CommandEntry) error
	ListCommands(botID string) ([]domains.CommandEntry, error)
	ClearCommands(botID string) (int, error)
	RemoveBot(botID string) error
	ListBots() []domains.BotSummary
	Count() int
}
