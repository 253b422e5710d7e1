package horizon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rustyeddy/swingbot/market"
	"github.com/rustyeddy/swingbot/retry"
)

// PriceLevel is one side of the book at one price.
type PriceLevel struct {
	Price  float64
	Amount float64
}

// OrderBook holds the top of the book for the pair. Bids are what buyers pay
// for the base asset, asks what sellers want for it.
type OrderBook struct {
	Bids []PriceLevel
	Asks []PriceLevel
}

// BestAsk is the lowest ask price, the price paid to buy the base asset
// right now. Zero when the ask side is empty.
func (ob OrderBook) BestAsk() float64 {
	if len(ob.Asks) == 0 {
		return 0
	}
	return ob.Asks[0].Price
}

// BestBid is the highest bid price. Zero when the bid side is empty.
func (ob OrderBook) BestBid() float64 {
	if len(ob.Bids) == 0 {
		return 0
	}
	return ob.Bids[0].Price
}

// Spread is the relative bid/ask spread. Zero when either side is empty.
func (ob OrderBook) Spread() float64 {
	ask, bid := ob.BestAsk(), ob.BestBid()
	if ask <= 0 || bid <= 0 {
		return 0
	}
	return (ask - bid) / ask
}

type apiLevel struct {
	Price  string `json:"price"`
	Amount string `json:"amount"`
}

type orderBookResponse struct {
	Bids []apiLevel `json:"bids"`
	Asks []apiLevel `json:"asks"`
}

// OrderBook fetches the current order book for the pair, selling base for
// counter.
func (c *Client) OrderBook(ctx context.Context, pair market.Pair, limit int) (OrderBook, error) {
	q := url.Values{}
	assetQuery(q, pair, "selling", "buying")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp orderBookResponse
	if err := c.call(ctx, "/order_book", q, nil, &resp); err != nil {
		return OrderBook{}, err
	}

	ob := OrderBook{
		Bids: make([]PriceLevel, 0, len(resp.Bids)),
		Asks: make([]PriceLevel, 0, len(resp.Asks)),
	}
	for _, lv := range resp.Bids {
		pl, err := parseLevel(lv)
		if err != nil {
			return OrderBook{}, err
		}
		ob.Bids = append(ob.Bids, pl)
	}
	for _, lv := range resp.Asks {
		pl, err := parseLevel(lv)
		if err != nil {
			return OrderBook{}, err
		}
		ob.Asks = append(ob.Asks, pl)
	}
	return ob, nil
}

func parseLevel(lv apiLevel) (PriceLevel, error) {
	price, err := strconv.ParseFloat(lv.Price, 64)
	if err != nil {
		return PriceLevel{}, retry.Permanent(fmt.Errorf("parse price %q: %w", lv.Price, err))
	}
	amount, err := strconv.ParseFloat(lv.Amount, 64)
	if err != nil {
		return PriceLevel{}, retry.Permanent(fmt.Errorf("parse amount %q: %w", lv.Amount, err))
	}
	return PriceLevel{Price: price, Amount: amount}, nil
}
