package horizon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rustyeddy/swingbot/market"
	"github.com/rustyeddy/swingbot/retry"
)

type apiTrade struct {
	PagingToken     string `json:"paging_token"`
	LedgerCloseTime string `json:"ledger_close_time"`
	BaseAmount      string `json:"base_amount"`
	CounterAmount   string `json:"counter_amount"`
	Price           struct {
		N string `json:"n"`
		D string `json:"d"`
	} `json:"price"`
}

type tradesResponse struct {
	Embedded struct {
		Records []apiTrade `json:"records"`
	} `json:"_embedded"`
}

// TradePage is one page of trades in ledger order plus the cursor to resume
// from. Horizon returns trades in non-decreasing close time when asked for
// ascending order, so resuming from Cursor never re-delivers a consumed
// trade.
type TradePage struct {
	Trades []market.Trade
	Cursor string
}

// Trades fetches trades for the pair after the given cursor, oldest first.
// An empty cursor starts from the beginning of the retention window; the
// special cursor "now" starts from the current ledger. An empty page is a
// successful result, not an error.
func (c *Client) Trades(ctx context.Context, pair market.Pair, cursor string, limit int) (TradePage, error) {
	q := url.Values{}
	assetQuery(q, pair, "base", "counter")
	q.Set("order", "asc")
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp tradesResponse
	if err := c.call(ctx, "/trades", q, nil, &resp); err != nil {
		return TradePage{}, err
	}

	page := TradePage{Cursor: cursor}
	for _, rec := range resp.Embedded.Records {
		tr, err := parseTrade(rec)
		if err != nil {
			return TradePage{}, err
		}
		page.Trades = append(page.Trades, tr)
		page.Cursor = rec.PagingToken
	}
	return page, nil
}

func parseTrade(rec apiTrade) (market.Trade, error) {
	ts, err := time.Parse(time.RFC3339, rec.LedgerCloseTime)
	if err != nil {
		return market.Trade{}, retry.Permanent(fmt.Errorf("parse trade time %q: %w", rec.LedgerCloseTime, err))
	}
	base, err := strconv.ParseFloat(rec.BaseAmount, 64)
	if err != nil {
		return market.Trade{}, retry.Permanent(fmt.Errorf("parse base amount %q: %w", rec.BaseAmount, err))
	}
	counter, err := strconv.ParseFloat(rec.CounterAmount, 64)
	if err != nil {
		return market.Trade{}, retry.Permanent(fmt.Errorf("parse counter amount %q: %w", rec.CounterAmount, err))
	}

	// Horizon reports price as a rational n/d.
	n, err := strconv.ParseFloat(rec.Price.N, 64)
	if err != nil {
		return market.Trade{}, retry.Permanent(fmt.Errorf("parse price numerator %q: %w", rec.Price.N, err))
	}
	d, err := strconv.ParseFloat(rec.Price.D, 64)
	if err != nil || d == 0 {
		return market.Trade{}, retry.Permanent(fmt.Errorf("parse price denominator %q: %w", rec.Price.D, err))
	}

	return market.Trade{
		Time:          ts,
		Price:         n / d,
		BaseAmount:    base,
		CounterAmount: counter,
	}, nil
}
