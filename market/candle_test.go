package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterval_Bucket(t *testing.T) {
	t.Parallel()

	ts, _ := time.Parse(time.RFC3339, "2025-08-01T10:37:42Z")

	tests := []struct {
		iv   Interval
		want string
	}{
		{M1, "2025-08-01T10:37:00Z"},
		{M5, "2025-08-01T10:35:00Z"},
		{H1, "2025-08-01T10:00:00Z"},
	}

	for _, tt := range tests {
		got := tt.iv.Bucket(ts)
		assert.Equal(t, tt.want, got.UTC().Format(time.RFC3339), "interval %s", tt.iv)
	}
}

func TestParseInterval(t *testing.T) {
	t.Parallel()

	for _, iv := range Intervals {
		got, err := ParseInterval(iv.String())
		require.NoError(t, err)
		assert.Equal(t, iv, got)
	}

	_, err := ParseInterval("2m")
	assert.Error(t, err)
}

func TestCandle_ApplyMaintainsInvariant(t *testing.T) {
	t.Parallel()

	base, _ := time.Parse(time.RFC3339, "2025-08-01T10:00:00Z")
	c := NewCandle(M1, Trade{Time: base, Price: 0.25, BaseAmount: 10})

	c.Apply(Trade{Time: base.Add(10 * time.Second), Price: 0.30, BaseAmount: 1})
	c.Apply(Trade{Time: base.Add(20 * time.Second), Price: 0.20, BaseAmount: 1})

	assert.True(t, c.Low <= c.Open && c.Open <= c.High)
	assert.True(t, c.Low <= c.Close && c.Close <= c.High)
	assert.Equal(t, 0.30, c.High)
	assert.Equal(t, 0.20, c.Low)
	assert.Equal(t, 0.20, c.Close)
	assert.Equal(t, 3, c.TradeCount)
	assert.InDelta(t, 12, c.Volume, 1e-9)
}

func TestAccountState_SellableBase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3.0, AccountState{BaseBalance: 8, BaseReserve: 5}.SellableBase())
	assert.Equal(t, 0.0, AccountState{BaseBalance: 4, BaseReserve: 5}.SellableBase())
	assert.Equal(t, 0.0, AccountState{BaseBalance: 5, BaseReserve: 5}.SellableBase())
}
