// Package candles buckets the trade stream into fixed-width OHLCV candles,
// one in-progress candle per interval. A candle is finalized and handed to
// the sink when a trade from a later bucket arrives. Buckets without trades
// produce no candle: gaps in the series are real and are not synthesized.
package candles

import (
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/swingbot/market"
	"github.com/rustyeddy/swingbot/metrics"
)

// Sink receives finalized candles. It must not mutate them.
type Sink interface {
	AppendCandle(c market.Candle) error
}

// Aggregator owns the current candle per interval. It is the only mutator;
// the single-threaded polling loop means no locking is needed.
type Aggregator struct {
	intervals []market.Interval
	current   map[market.Interval]*market.Candle
	sink      Sink
}

func NewAggregator(intervals []market.Interval, sink Sink) *Aggregator {
	if len(intervals) == 0 {
		intervals = market.Intervals
	}
	return &Aggregator{
		intervals: intervals,
		current:   make(map[market.Interval]*market.Candle, len(intervals)),
		sink:      sink,
	}
}

// Apply folds one trade into every interval. Trades must arrive in
// non-decreasing time order; a trade older than the current bucket is
// dropped and logged, never applied to an already advanced bucket.
func (a *Aggregator) Apply(t market.Trade) error {
	for _, iv := range a.intervals {
		if err := a.applyInterval(iv, t); err != nil {
			return err
		}
	}
	return nil
}

func (a *Aggregator) applyInterval(iv market.Interval, t market.Trade) error {
	bucket := iv.Bucket(t.Time)
	cur := a.current[iv]

	switch {
	case cur == nil || bucket.After(cur.BucketStart):
		if cur != nil {
			if err := a.finalize(cur); err != nil {
				return err
			}
		}
		c := market.NewCandle(iv, t)
		a.current[iv] = &c

	case bucket.Equal(cur.BucketStart):
		cur.Apply(t)

	default:
		// Late trade for a bucket that already advanced.
		log.Warn().
			Str("interval", iv.String()).
			Time("trade", t.Time).
			Time("bucket", cur.BucketStart).
			Msg("dropping out-of-order trade")
	}
	return nil
}

func (a *Aggregator) finalize(c *market.Candle) error {
	c.IsFinal = true
	log.Debug().
		Str("interval", c.Interval.String()).
		Time("bucket", c.BucketStart).
		Float64("open", c.Open).
		Float64("high", c.High).
		Float64("low", c.Low).
		Float64("close", c.Close).
		Float64("volume", c.Volume).
		Msg("finalized candle")
	metrics.CandlesFinalized.WithLabelValues(c.Interval.String()).Inc()
	return a.sink.AppendCandle(*c)
}

// Current returns a copy of the in-progress candle for the interval, if any.
func (a *Aggregator) Current(iv market.Interval) (market.Candle, bool) {
	cur, ok := a.current[iv]
	if !ok {
		return market.Candle{}, false
	}
	return *cur, true
}

// Flush finalizes all in-progress candles, typically at shutdown so the
// partial buckets are not lost.
func (a *Aggregator) Flush() error {
	for _, iv := range a.intervals {
		if cur, ok := a.current[iv]; ok {
			if err := a.finalize(cur); err != nil {
				return err
			}
			delete(a.current, iv)
		}
	}
	return nil
}
