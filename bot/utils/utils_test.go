package utils

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponentialBackoff(t *testing.T) {
	base, max := 100*time.Millisecond, time.Second

	assert.Equal(t, 100*time.Millisecond, ExponentialBackoff(0, base, max))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoff(1, base, max))
	assert.Equal(t, 800*time.Millisecond, ExponentialBackoff(3, base, max))
	assert.Equal(t, max, ExponentialBackoff(4, base, max))
	assert.Equal(t, max, ExponentialBackoff(200, base, max))
	assert.Equal(t, base, ExponentialBackoff(-1, base, max))
}

func TestRetryPolicyStopsOnSuccess(t *testing.T) {
	policy := NewRetryPolicy(5, time.Millisecond, 5*time.Millisecond)

	calls := 0
	var retries []int
	err := policy.Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, func(attempt int, _ time.Duration, _ error) {
		retries = append(retries, attempt)
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestRetryPolicyReturnsLastError(t *testing.T) {
	policy := NewRetryPolicy(3, time.Millisecond, time.Millisecond)

	calls := 0
	err := policy.Execute(context.Background(), func(context.Context) error {
		calls++
		return errors.New("still failing")
	}, nil)

	assert.EqualError(t, err, "still failing")
	assert.Equal(t, 3, calls)
}

func TestRetryPolicyHonoursContext(t *testing.T) {
	policy := NewRetryPolicy(10, time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- policy.Execute(ctx, func(context.Context) error {
			calls++
			return errors.New("down")
		}, nil)
	}()

	cancel()
	select {
	case err := <-done:
		assert.EqualError(t, err, "down")
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("retry did not stop on cancellation")
	}
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
}

func TestGenerateBotID(t *testing.T) {
	a, b := GenerateBotID(), GenerateBotID()
	assert.True(t, strings.HasPrefix(a, "bot-"))
	assert.NotEqual(t, a, b)
}

func TestParseLogLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"ERROR":   slog.LevelError,
	} {
		got, err := ParseLogLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLogLevel("chatty")
	assert.Error(t, err)
}
