package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Тесты пейсера: подмена ожидания, реальная пауза, отмена контекста.

func TestPacer_WaitUsesInjectedSleeper(t *testing.T) {
	t.Parallel()

	var slept []time.Duration
	p := NewPacer(1100*time.Millisecond, WithSleeper(func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}))

	require.NoError(t, p.Wait(context.Background()))
	require.NoError(t, p.Wait(context.Background()))
	require.Equal(t, []time.Duration{1100 * time.Millisecond, 1100 * time.Millisecond}, slept)
	require.Equal(t, 1100*time.Millisecond, p.Interval())
}

func TestPacer_WaitSleepsInterval(t *testing.T) {
	t.Parallel()

	p := NewPacer(30 * time.Millisecond)

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPacer_WaitHonorsContextCancel(t *testing.T) {
	t.Parallel()

	p := NewPacer(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
