package candles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/swingbot/market"
)

type memSink struct {
	finalized []market.Candle
}

func (s *memSink) AppendCandle(c market.Candle) error {
	s.finalized = append(s.finalized, c)
	return nil
}

func trade(ts string, price, amount float64) market.Trade {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return market.Trade{Time: t, Price: price, BaseAmount: amount}
}

func TestAggregator_OHLCVWithinBucket(t *testing.T) {
	t.Parallel()

	sink := &memSink{}
	agg := NewAggregator([]market.Interval{market.M1}, sink)

	require.NoError(t, agg.Apply(trade("2025-08-01T10:00:05Z", 0.25, 10)))
	require.NoError(t, agg.Apply(trade("2025-08-01T10:00:20Z", 0.29, 5)))
	require.NoError(t, agg.Apply(trade("2025-08-01T10:00:40Z", 0.22, 2)))
	require.NoError(t, agg.Apply(trade("2025-08-01T10:00:59Z", 0.26, 3)))

	cur, ok := agg.Current(market.M1)
	require.True(t, ok)
	assert.False(t, cur.IsFinal)
	assert.Equal(t, 0.25, cur.Open, "open is the earliest trade's price")
	assert.Equal(t, 0.29, cur.High)
	assert.Equal(t, 0.22, cur.Low)
	assert.Equal(t, 0.26, cur.Close, "close is the latest trade's price")
	assert.InDelta(t, 20, cur.Volume, 1e-9)
	assert.Equal(t, 4, cur.TradeCount)
	assert.True(t, cur.Low <= cur.Open && cur.Open <= cur.High)
	assert.True(t, cur.Low <= cur.Close && cur.Close <= cur.High)

	// Nothing finalized until the bucket advances.
	assert.Empty(t, sink.finalized)
}

func TestAggregator_FinalizeOnBoundaryCrossing(t *testing.T) {
	t.Parallel()

	sink := &memSink{}
	agg := NewAggregator([]market.Interval{market.M1}, sink)

	require.NoError(t, agg.Apply(trade("2025-08-01T10:00:05Z", 0.25, 10)))
	require.NoError(t, agg.Apply(trade("2025-08-01T10:01:02Z", 0.27, 1)))

	require.Len(t, sink.finalized, 1)
	fin := sink.finalized[0]
	assert.True(t, fin.IsFinal)
	assert.Equal(t, "2025-08-01T10:00:00Z", fin.BucketStart.UTC().Format(time.RFC3339))
	assert.Equal(t, 0.25, fin.Close)

	cur, ok := agg.Current(market.M1)
	require.True(t, ok)
	assert.Equal(t, "2025-08-01T10:01:00Z", cur.BucketStart.UTC().Format(time.RFC3339))
	assert.Equal(t, 0.27, cur.Open)
	assert.Equal(t, 1, cur.TradeCount)
}

func TestAggregator_GapBucketsNotSynthesized(t *testing.T) {
	t.Parallel()

	sink := &memSink{}
	agg := NewAggregator([]market.Interval{market.M1}, sink)

	require.NoError(t, agg.Apply(trade("2025-08-01T10:00:05Z", 0.25, 10)))
	// Next trade lands three buckets later; the empty buckets in between
	// produce no candles.
	require.NoError(t, agg.Apply(trade("2025-08-01T10:03:30Z", 0.30, 2)))

	require.Len(t, sink.finalized, 1)
	cur, ok := agg.Current(market.M1)
	require.True(t, ok)
	assert.Equal(t, "2025-08-01T10:03:00Z", cur.BucketStart.UTC().Format(time.RFC3339))
	assert.Equal(t, cur.Open, cur.Close)
}

func TestAggregator_OutOfOrderTradeDropped(t *testing.T) {
	t.Parallel()

	sink := &memSink{}
	agg := NewAggregator([]market.Interval{market.M1}, sink)

	require.NoError(t, agg.Apply(trade("2025-08-01T10:00:05Z", 0.25, 10)))
	require.NoError(t, agg.Apply(trade("2025-08-01T10:01:10Z", 0.27, 1)))

	finalized := sink.finalized[0]

	// A late trade for the already-finalized bucket changes nothing.
	require.NoError(t, agg.Apply(trade("2025-08-01T10:00:30Z", 0.40, 99)))

	assert.Len(t, sink.finalized, 1)
	assert.Equal(t, finalized, sink.finalized[0], "finalized candle is never mutated")

	cur, _ := agg.Current(market.M1)
	assert.Equal(t, 0.27, cur.High, "current candle unaffected by late trade")
	assert.Equal(t, 1, cur.TradeCount)
}

func TestAggregator_IndependentIntervals(t *testing.T) {
	t.Parallel()

	sink := &memSink{}
	agg := NewAggregator([]market.Interval{market.M1, market.M5, market.H1}, sink)

	require.NoError(t, agg.Apply(trade("2025-08-01T10:04:59Z", 0.25, 10)))
	require.NoError(t, agg.Apply(trade("2025-08-01T10:05:01Z", 0.26, 5)))

	// The 1m and 5m buckets rolled, the 1h bucket did not.
	require.Len(t, sink.finalized, 2)
	for _, c := range sink.finalized {
		assert.True(t, c.IsFinal)
		assert.NotEqual(t, market.H1, c.Interval)
	}

	h1, ok := agg.Current(market.H1)
	require.True(t, ok)
	assert.Equal(t, 2, h1.TradeCount)
}

func TestAggregator_Flush(t *testing.T) {
	t.Parallel()

	sink := &memSink{}
	agg := NewAggregator([]market.Interval{market.M1, market.M5}, sink)

	require.NoError(t, agg.Apply(trade("2025-08-01T10:00:05Z", 0.25, 10)))
	require.NoError(t, agg.Flush())

	assert.Len(t, sink.finalized, 2)
	for _, c := range sink.finalized {
		assert.True(t, c.IsFinal)
	}

	_, ok := agg.Current(market.M1)
	assert.False(t, ok, "flush clears the current slot")
}
