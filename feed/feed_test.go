package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/swingbot/horizon"
	"github.com/rustyeddy/swingbot/market"
)

type fakeVenue struct {
	pages  []horizon.TradePage
	book   horizon.OrderBook
	err    error
	calls  int
	cursor string
}

func (v *fakeVenue) Trades(ctx context.Context, pair market.Pair, cursor string, limit int) (horizon.TradePage, error) {
	v.cursor = cursor
	if v.err != nil {
		return horizon.TradePage{}, v.err
	}
	if v.calls >= len(v.pages) {
		return horizon.TradePage{Cursor: cursor}, nil
	}
	page := v.pages[v.calls]
	v.calls++
	return page, nil
}

func (v *fakeVenue) OrderBook(ctx context.Context, pair market.Pair, limit int) (horizon.OrderBook, error) {
	if v.err != nil {
		return horizon.OrderBook{}, v.err
	}
	return v.book, nil
}

var pair = market.Pair{BaseAsset: "XLM", CounterAsset: "USDC", CounterIssuer: "GISSUER"}

func TestNewFetcher_StartsAtPresent(t *testing.T) {
	t.Parallel()

	venue := &fakeVenue{}
	f := NewFetcher(venue, pair)

	assert.Equal(t, "now", f.Cursor())

	trades, err := f.RecentTrades(context.Background())
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, "now", venue.cursor, "history before startup is never requested")
	assert.Equal(t, "now", f.Cursor(), "an empty first page keeps the present watermark")
}

func TestRecentTrades_AdvancesWatermark(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	venue := &fakeVenue{pages: []horizon.TradePage{
		{Trades: []market.Trade{{Time: ts, Price: 0.25, BaseAmount: 10}}, Cursor: "7"},
	}}
	f := NewFetcher(venue, pair)

	trades, err := f.RecentTrades(context.Background())
	require.NoError(t, err)
	assert.Len(t, trades, 1)
	assert.Equal(t, "7", f.Cursor())

	// The next fetch resumes from the watermark and re-delivers nothing.
	trades, err = f.RecentTrades(context.Background())
	require.NoError(t, err)
	assert.Empty(t, trades, "empty result is success")
	assert.Equal(t, "7", venue.cursor)
	assert.Equal(t, "7", f.Cursor())
}

func TestRecentTrades_ErrorLeavesCursor(t *testing.T) {
	t.Parallel()

	venue := &fakeVenue{err: errors.New("boom")}
	f := NewFetcher(venue, pair)
	f.SetCursor("5")

	_, err := f.RecentTrades(context.Background())
	require.Error(t, err)
	assert.Equal(t, "5", f.Cursor(), "a failed fetch must not lose the watermark")
}

func TestCurrentPrice_BestAsk(t *testing.T) {
	t.Parallel()

	venue := &fakeVenue{book: horizon.OrderBook{
		Bids: []horizon.PriceLevel{{Price: 0.24, Amount: 100}},
		Asks: []horizon.PriceLevel{{Price: 0.25, Amount: 50}},
	}}
	f := NewFetcher(venue, pair)

	price, book, err := f.CurrentPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.25, price)
	assert.InDelta(t, 0.04, book.Spread(), 1e-9)
}
