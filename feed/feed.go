// Package feed retrieves market data for the configured pair: recent trades
// behind a cursor watermark and the current best price. Error classification
// from the horizon client passes through unchanged.
package feed

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/swingbot/horizon"
	"github.com/rustyeddy/swingbot/market"
)

// Venue is the slice of the horizon client the fetcher needs.
type Venue interface {
	Trades(ctx context.Context, pair market.Pair, cursor string, limit int) (horizon.TradePage, error)
	OrderBook(ctx context.Context, pair market.Pair, limit int) (horizon.OrderBook, error)
}

// Fetcher pulls market data for one pair. It keeps the trade cursor so
// repeated RecentTrades calls never re-deliver a consumed trade.
type Fetcher struct {
	venue     Venue
	pair      market.Pair
	cursor    string
	pageLimit int
}

// NewFetcher starts the watermark at the present ledger (Horizon's "now"
// cursor). The first fetch returns only trades that happen after startup;
// replaying the retention window's history would stall candles behind
// reality for hours.
func NewFetcher(venue Venue, pair market.Pair) *Fetcher {
	return &Fetcher{venue: venue, pair: pair, cursor: "now", pageLimit: 200}
}

// Cursor returns the current trade watermark.
func (f *Fetcher) Cursor() string {
	return f.cursor
}

// SetCursor restores a previously saved watermark, e.g. after a restart.
func (f *Fetcher) SetCursor(cursor string) {
	f.cursor = cursor
}

// RecentTrades returns the trades that arrived since the last call, oldest
// first, and advances the watermark. An empty result means no new trades and
// is a success.
func (f *Fetcher) RecentTrades(ctx context.Context) ([]market.Trade, error) {
	page, err := f.venue.Trades(ctx, f.pair, f.cursor, f.pageLimit)
	if err != nil {
		return nil, err
	}
	f.cursor = page.Cursor
	if len(page.Trades) > 0 {
		log.Debug().Int("count", len(page.Trades)).Str("cursor", f.cursor).Msg("fetched trades")
	}
	return page.Trades, nil
}

// CurrentPrice returns the best ask for the pair, the price paid to buy the
// base asset right now, along with the book it came from.
func (f *Fetcher) CurrentPrice(ctx context.Context) (float64, horizon.OrderBook, error) {
	ob, err := f.venue.OrderBook(ctx, f.pair, 20)
	if err != nil {
		return 0, horizon.OrderBook{}, err
	}
	return ob.BestAsk(), ob, nil
}
