// Package journal persists finalized candles and executed orders. The
// trading loop only appends; the query side serves the candles subcommand
// and any external historical consumer reading the same store.
package journal

import (
	"time"

	"github.com/rustyeddy/swingbot/market"
)

// OrderRecord is the journal row for one submitted (or refused) order.
type OrderRecord struct {
	OrderID     string
	Pair        string
	Side        string
	BaseAmount  float64
	Price       float64
	Result      string
	Reason      string
	SubmittedAt time.Time
}

type Journal interface {
	AppendCandle(c market.Candle) error
	QueryCandles(iv market.Interval, from, to time.Time) ([]market.Candle, error)
	RecordOrder(o OrderRecord) error
	Close() error
}
