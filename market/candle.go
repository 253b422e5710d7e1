package market

import (
	"fmt"
	"time"
)

// Interval is a fixed candle bucket width.
type Interval time.Duration

const (
	M1 Interval = Interval(time.Minute)
	M5 Interval = Interval(5 * time.Minute)
	H1 Interval = Interval(time.Hour)
)

// Intervals are the bucket widths the aggregator maintains.
var Intervals = []Interval{M1, M5, H1}

func (i Interval) Duration() time.Duration {
	return time.Duration(i)
}

func (i Interval) String() string {
	switch i {
	case M1:
		return "1m"
	case M5:
		return "5m"
	case H1:
		return "1h"
	}
	return time.Duration(i).String()
}

// ParseInterval maps the short names used in config and the journal back to
// an Interval.
func ParseInterval(s string) (Interval, error) {
	switch s {
	case "1m":
		return M1, nil
	case "5m":
		return M5, nil
	case "1h":
		return H1, nil
	}
	return 0, fmt.Errorf("unknown interval %q", s)
}

// Bucket floors t to the interval boundary containing it.
func (i Interval) Bucket(t time.Time) time.Time {
	return t.Truncate(i.Duration())
}

// Candle is an OHLCV summary of the trades inside one interval bucket.
// While IsFinal is false it is the single in-progress bucket for its interval
// and is owned by the aggregator; once final it is never mutated again.
type Candle struct {
	Interval    Interval
	BucketStart time.Time
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	TradeCount  int
	IsFinal     bool
}

// NewCandle opens a bucket from its first trade.
func NewCandle(iv Interval, t Trade) Candle {
	return Candle{
		Interval:    iv,
		BucketStart: iv.Bucket(t.Time),
		Open:        t.Price,
		High:        t.Price,
		Low:         t.Price,
		Close:       t.Price,
		Volume:      t.BaseAmount,
		TradeCount:  1,
	}
}

// Apply folds a trade from the same bucket into the candle.
func (c *Candle) Apply(t Trade) {
	if t.Price > c.High {
		c.High = t.Price
	}
	if t.Price < c.Low {
		c.Low = t.Price
	}
	c.Close = t.Price
	c.Volume += t.BaseAmount
	c.TradeCount++
}
