package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelay_GrowsAndCaps(t *testing.T) {
	t.Parallel()

	p := Policy{MaxRetries: 10, BaseDelay: time.Second, Factor: 1.5, MaxDelay: 60 * time.Second}

	var prev time.Duration
	for n := 0; n < 15; n++ {
		d := p.Delay(n)
		assert.LessOrEqual(t, d, p.MaxDelay)
		if d < p.MaxDelay {
			assert.Greater(t, d, prev, "delay must grow strictly below the cap at attempt %d", n)
		} else {
			assert.Equal(t, p.MaxDelay, d, "capped delay stays at the cap from attempt %d", n)
		}
		prev = d
	}

	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, 1500*time.Millisecond, p.Delay(1))
	assert.Equal(t, p.MaxDelay, p.Delay(50))
}

func TestDo_TransientThenSuccess(t *testing.T) {
	t.Parallel()

	p := Policy{MaxRetries: 5, BaseDelay: time.Millisecond, Factor: 1.5, MaxDelay: 5 * time.Millisecond}

	attempts := 0
	err := Do(context.Background(), p, func(ctx context.Context) error {
		attempts++
		if attempts <= 3 {
			return Transient(errors.New("connection reset"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, attempts, "3 transient failures then success is 4 physical attempts")
}

func TestDo_BudgetExhausted(t *testing.T) {
	t.Parallel()

	p := Policy{MaxRetries: 2, BaseDelay: time.Millisecond, Factor: 1.5, MaxDelay: 5 * time.Millisecond}

	attempts := 0
	err := Do(context.Background(), p, func(ctx context.Context) error {
		attempts++
		return Transient(errors.New("timeout"))
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts, "at most MaxRetries+1 physical attempts")
	assert.True(t, IsTransient(err))
}

func TestDo_PermanentNotRetried(t *testing.T) {
	t.Parallel()

	p := Policy{MaxRetries: 5, BaseDelay: time.Millisecond, Factor: 1.5, MaxDelay: 5 * time.Millisecond}

	attempts := 0
	err := Do(context.Background(), p, func(ctx context.Context) error {
		attempts++
		return Permanent(errors.New("bad request"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.True(t, IsPermanent(err))
	assert.False(t, IsTransient(err))
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	p := Policy{MaxRetries: 5, BaseDelay: time.Hour, Factor: 1.5, MaxDelay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, p, func(ctx context.Context) error {
			attempts++
			return Transient(errors.New("refused"))
		})
	}()

	// Let the first attempt fail, then cancel mid-backoff.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestClassification_Unwrap(t *testing.T) {
	t.Parallel()

	base := errors.New("boom")
	assert.ErrorIs(t, Transient(base), base)
	assert.ErrorIs(t, Permanent(base), base)
	assert.Nil(t, Transient(nil))
	assert.Nil(t, Permanent(nil))
}
