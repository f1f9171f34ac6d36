package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var fast = Options{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

func TestDoSucceedsAfterRetryableErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fast, func() error {
		calls++
		if calls < 3 {
			return &StatusError{StatusCode: 502}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fast, func() error {
		calls++
		return &StatusError{StatusCode: 400, Message: "Bad Request: chat not found"}
	})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 400, se.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fast, func() error {
		calls++
		return &StatusError{StatusCode: 503}
	})
	assert.Error(t, err)
	assert.Equal(t, 4, calls)
}

func TestDoHonoursRetryAfter(t *testing.T) {
	var waits []time.Duration
	opts := fast
	opts.MaxDelay = 0
	opts.OnRetry = func(_ int, wait time.Duration, _ error) { waits = append(waits, wait) }

	calls := 0
	err := Do(context.Background(), opts, func() error {
		calls++
		if calls == 1 {
			return &StatusError{StatusCode: 429, RetryAfter: 20 * time.Millisecond}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{20 * time.Millisecond}, waits)
}

func TestDoCustomClassifier(t *testing.T) {
	transient := errors.New("transient")
	opts := fast
	opts.Retryable = func(err error) bool { return errors.Is(err, transient) }

	calls := 0
	err := Do(context.Background(), opts, func() error {
		calls++
		if calls == 1 {
			return transient
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := Do(ctx, fast, func() error { calls++; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestFullJitterSleepBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		attempt := rapid.IntRange(-2, 64).Draw(t, "attempt")
		base := time.Duration(rapid.Int64Range(0, int64(time.Second)).Draw(t, "base"))
		max := time.Duration(rapid.Int64Range(0, int64(10*time.Second)).Draw(t, "max"))

		d := FullJitterSleep(attempt, base, max)
		if d < 0 {
			t.Fatalf("negative sleep %v", d)
		}
		if max > 0 && d > max {
			t.Fatalf("sleep %v exceeds max %v", d, max)
		}
		if base == 0 && d != 0 {
			t.Fatalf("zero base must not sleep, got %v", d)
		}
	})
}
