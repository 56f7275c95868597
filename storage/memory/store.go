package memory

import (
	"sort"
	"time"

	"bot-registry/app/domains"
)

// Store is the in-memory registry of bots and their command queues.
// It performs no synchronization of its own.
type Store struct {
	bots   map[string]*domains.Bot
	queues map[string][]domains.CommandEntry
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		bots:   make(map[string]*domains.Bot),
		queues: make(map[string][]domains.CommandEntry),
	}
}

// UpsertBot inserts a bot or replaces its attributes.
// registered_at is kept for an existing bot, last_seen is always set to now.
// The returned bool reports whether the bot was newly created.
func (s *Store) UpsertBot(botID string, attrs map[string]interface{}, now time.Time) (*domains.Bot, bool) {
	bot, exists := s.bots[botID]
	if !exists {
		bot = &domains.Bot{BotID: botID, RegisteredAt: now}
		s.bots[botID] = bot
	}
	bot.Attributes = domains.CloneMap(attrs)
	if bot.Attributes == nil {
		bot.Attributes = make(map[string]interface{})
	}
	bot.LastSeen = now

	if _, ok := s.queues[botID]; !ok {
		s.queues[botID] = []domains.CommandEntry{}
	}

	return bot.Clone(), !exists
}

// BotExists reports whether the bot is registered
func (s *Store) BotExists(botID string) bool {
	_, ok := s.bots[botID]
	return ok
}

// Touch updates the last_seen timestamp
func (s *Store) Touch(botID string, now time.Time) error {
	bot, ok := s.bots[botID]
	if !ok {
		return &domains.UnknownAgentError{BotID: botID}
	}
	bot.LastSeen = now
	return nil
}

// AppendCommand adds a command to the end of the bot's queue
func (s *Store) AppendCommand(botID string, entry domains.CommandEntry) error {
	if !s.BotExists(botID) {
		return &domains.UnknownAgentError{BotID: botID}
	}
	s.queues[botID] = append(s.queues[botID], entry.Clone())
	return nil
}

// ListCommands returns a copy of the bot's queue in enqueue order
func (s *Store) ListCommands(botID string) ([]domains.CommandEntry, error) {
	if !s.BotExists(botID) {
		return nil, &domains.UnknownAgentError{BotID: botID}
	}
	queue := s.queues[botID]
	commands := make([]domains.CommandEntry, len(queue))
	for i, entry := range queue {
		commands[i] = entry.Clone()
	}
	return commands, nil
}

// ClearCommands empties the bot's queue and returns how many entries were removed
func (s *Store) ClearCommands(botID string) (int, error) {
	if !s.BotExists(botID) {
		return 0, &domains.UnknownAgentError{BotID: botID}
	}
	cleared := len(s.queues[botID])
	s.queues[botID] = []domains.CommandEntry{}
	return cleared, nil
}

// RemoveBot deletes the bot and its queue
func (s *Store) RemoveBot(botID string) error {
	if !s.BotExists(botID) {
		return &domains.UnknownAgentError{BotID: botID}
	}
	delete(s.bots, botID)
	delete(s.queues, botID)
	return nil
}

// ListBots returns a snapshot of all bots ordered by registration time, then id
func (s *Store) ListBots() []domains.BotSummary {
	summaries := make([]domains.BotSummary, 0, len(s.bots))
	for botID, bot := range s.bots {
		summaries = append(summaries, domains.BotSummary{
			BotID:        botID,
			RegisteredAt: bot.RegisteredAt,
			LastSeen:     bot.LastSeen,
			PendingCount: len(s.queues[botID]),
			Attributes:   bot.PublicAttributes(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].RegisteredAt.Equal(summaries[j].RegisteredAt) {
			return summaries[i].RegisteredAt.Before(summaries[j].RegisteredAt)
		}
		return summaries[i].BotID < summaries[j].BotID
	})
	return summaries
}

// Count returns the number of registered bots
func (s *Store) Count() int {
	return len(s.bots)
}
