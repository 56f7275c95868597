package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"bot-registry/app/clients"
	"bot-registry/app/domains"
	"bot-registry/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fixture struct {
	coordinator *Coordinator
	bots        *BotService
	commands    *CommandService
}

// tickingClock returns a clock that advances one second per read
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coordinator := NewCoordinatorWithClock(memory.NewStore(), tickingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	return &fixture{
		coordinator: coordinator,
		bots:        NewBotService(coordinator, logger),
		commands:    NewCommandService(coordinator, logger),
	}
}

func TestRegisterThenPollReturnsEmptyQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bot, err := f.bots.Register(ctx, "bot_001", map[string]interface{}{"name": "Test Bot 1"})
	require.NoError(t, err)
	assert.Equal(t, "bot_001", bot.BotID)

	commands, err := f.commands.GetPending(ctx, "bot_001")
	require.NoError(t, err)
	assert.Empty(t, commands)
}

func TestRegisterRejectsBlankID(t *testing.T) {
	f := newFixture(t)

	for _, id := range []string{"", "   ", "\t"} {
		_, err := f.bots.Register(context.Background(), id, nil)
		assert.ErrorIs(t, err, domains.ErrMissingField)

		var fieldErr *domains.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "bot_id", fieldErr.Field)
	}

	count, err := f.bots.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEnqueueThenPollPreservesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.bots.Register(ctx, "bot_001", nil)
	require.NoError(t, err)

	_, err = f.commands.EnqueueCommand(ctx, "bot_001", "status_check", nil)
	require.NoError(t, err)
	_, err = f.commands.EnqueueCommand(ctx, "bot_001", "start_monitoring", map[string]interface{}{"interval": 30})
	require.NoError(t, err)

	commands, err := f.commands.GetPending(ctx, "bot_001")
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Equal(t, "status_check", commands[0].Command)
	assert.Equal(t, "start_monitoring", commands[1].Command)
	assert.Equal(t, 30, commands[1].Params["interval"])
	assert.True(t, commands[0].Timestamp.Before(commands[1].Timestamp))
	for _, c := range commands {
		assert.Equal(t, domains.CommandStatusPending, c.Status)
	}
}

func TestEnqueueValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.bots.Register(ctx, "bot_001", nil)
	require.NoError(t, err)

	_, err = f.commands.EnqueueCommand(ctx, "bot_001", "  ", nil)
	assert.ErrorIs(t, err, domains.ErrMissingField)

	_, err = f.commands.EnqueueCommand(ctx, "", "restart", nil)
	assert.ErrorIs(t, err, domains.ErrMissingField)

	_, err = f.commands.EnqueueCommand(ctx, "ghost", "restart", nil)
	assert.ErrorIs(t, err, domains.ErrUnknownAgent)

	var unknown *domains.UnknownAgentError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ghost", unknown.BotID)

	commands, err := f.commands.GetPending(ctx, "bot_001")
	require.NoError(t, err)
	assert.Empty(t, commands)
}

func TestClearPendingReturnsCountAndEmptiesQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.bots.Register(ctx, "bot_001", nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = f.commands.EnqueueCommand(ctx, "bot_001", fmt.Sprintf("c%d", i), nil)
		require.NoError(t, err)
	}

	cleared, err := f.commands.ClearPending(ctx, "bot_001")
	require.NoError(t, err)
	assert.Equal(t, 3, cleared)

	commands, err := f.commands.GetPending(ctx, "bot_001")
	require.NoError(t, err)
	assert.Empty(t, commands)

	cleared, err = f.commands.ClearPending(ctx, "bot_001")
	require.NoError(t, err)
	assert.Zero(t, cleared)
}

func TestPollUpdatesLastSeenOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bot, err := f.bots.Register(ctx, "bot_001", nil)
	require.NoError(t, err)

	_, err = f.commands.GetPending(ctx, "bot_001")
	require.NoError(t, err)

	bots, err := f.bots.List(ctx)
	require.NoError(t, err)
	require.Len(t, bots, 1)
	assert.Equal(t, bot.RegisteredAt, bots[0].RegisteredAt)
	assert.True(t, bots[0].LastSeen.After(bot.LastSeen))
}

func TestReRegisterKeepsRegisteredAtAndQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.bots.Register(ctx, "bot_001", map[string]interface{}{"name": "A", "version": "1.0"})
	require.NoError(t, err)
	_, err = f.commands.EnqueueCommand(ctx, "bot_001", "restart", nil)
	require.NoError(t, err)

	second, err := f.bots.Register(ctx, "bot_001", map[string]interface{}{"name": "B"})
	require.NoError(t, err)
	assert.Equal(t, first.RegisteredAt, second.RegisteredAt)
	assert.True(t, second.LastSeen.After(first.LastSeen))
	assert.Equal(t, map[string]interface{}{"name": "B"}, second.Attributes)

	bots, err := f.bots.List(ctx)
	require.NoError(t, err)
	require.Len(t, bots, 1)
	assert.Equal(t, 1, bots[0].PendingCount)
	assert.Equal(t, map[string]interface{}{"name": "B"}, bots[0].Attributes)
}

func TestUnregisterRemovesBotAndQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.bots.Register(ctx, "bot_001", nil)
	require.NoError(t, err)
	_, err = f.commands.EnqueueCommand(ctx, "bot_001", "restart", nil)
	require.NoError(t, err)

	require.NoError(t, f.bots.Unregister(ctx, "bot_001"))

	_, err = f.commands.GetPending(ctx, "bot_001")
	assert.ErrorIs(t, err, domains.ErrUnknownAgent)
	_, err = f.commands.ClearPending(ctx, "bot_001")
	assert.ErrorIs(t, err, domains.ErrUnknownAgent)
	assert.ErrorIs(t, f.bots.Unregister(ctx, "bot_001"), domains.ErrUnknownAgent)

	bots, err := f.bots.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, bots)
}

func TestListBotsOnlyExposesWhitelistedAttributes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.bots.Register(ctx, "bot_001", map[string]interface{}{
		"name":     "Test Bot",
		"version":  "1.0.0",
		"status":   "active",
		"hostname": "box-1",
	})
	require.NoError(t, err)

	bots, err := f.bots.List(ctx)
	require.NoError(t, err)
	require.Len(t, bots, 1)
	assert.NotContains(t, bots[0].Attributes, "hostname")
	assert.Len(t, bots[0].Attributes, 3)
}

func TestConcurrentEnqueueLosesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.bots.Register(ctx, "bot_001", nil)
	require.NoError(t, err)

	const callers, perCaller = 100, 10
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		caller := i
		g.Go(func() error {
			for j := 0; j < perCaller; j++ {
				if _, err := f.commands.EnqueueCommand(ctx, "bot_001", fmt.Sprintf("c-%d-%d", caller, j), nil); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	commands, err := f.commands.GetPending(ctx, "bot_001")
	require.NoError(t, err)
	require.Len(t, commands, callers*perCaller)

	// per caller order survives and timestamps follow lock order
	next := make(map[int]int)
	for i, c := range commands {
		var caller, seq int
		_, err := fmt.Sscanf(c.Command, "c-%d-%d", &caller, &seq)
		require.NoError(t, err)
		assert.Equal(t, next[caller], seq)
		next[caller] = seq + 1
		if i > 0 {
			assert.False(t, c.Timestamp.Before(commands[i-1].Timestamp))
		}
	}
}

func TestConcurrentRegisterAndPoll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("bot_%03d", i)
		g.Go(func() error {
			if _, err := f.bots.Register(ctx, id, map[string]interface{}{"name": id}); err != nil {
				return err
			}
			if _, err := f.commands.EnqueueCommand(ctx, id, "status_check", nil); err != nil {
				return err
			}
			_, err := f.commands.GetPending(ctx, id)
			return err
		})
	}
	require.NoError(t, g.Wait())

	count, err := f.bots.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, count)
}

func TestCoordinatorRecoversPanicAndReleasesLock(t *testing.T) {
	f := newFixture(t)

	err := f.coordinator.Do(func(clients.StorageAdapter, time.Time) error {
		panic("boom")
	})
	assert.ErrorIs(t, err, domains.ErrInternal)

	// lock must be free again
	done := make(chan error, 1)
	go func() {
		_, err := f.bots.Register(context.Background(), "bot_001", nil)
		done <- err
	}()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("coordinator lock was not released after panic")
	}
}

func TestReturnedSnapshotsAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bot, err := f.bots.Register(ctx, "bot_001", map[string]interface{}{"name": "A"})
	require.NoError(t, err)
	bot.Attributes["name"] = "mutated"

	params := map[string]interface{}{"target": "disk"}
	entry, err := f.commands.EnqueueCommand(ctx, "bot_001", "start_monitoring", params)
	require.NoError(t, err)
	entry.Params["target"] = "mutated"
	params["target"] = "mutated too"

	bots, err := f.bots.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", bots[0].Attributes["name"])

	commands, err := f.commands.GetPending(ctx, "bot_001")
	require.NoError(t, err)
	assert.Equal(t, "disk", commands[0].Params["target"])
}
