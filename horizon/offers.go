package horizon

import (
	"context"
	"net/url"

	"github.com/rustyeddy/swingbot/market"
)

// Side says which direction an offer trades the base asset.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// OfferRequest describes a manage-offer submission: trade BaseAmount of the
// base asset at Price counter per base. Envelope construction and signing
// are handled by the submission service behind the endpoint.
type OfferRequest struct {
	Account    string
	Pair       market.Pair
	Side       Side
	BaseAmount float64
	Price      float64
}

// OfferResult is the venue's acknowledgement of an accepted offer.
type OfferResult struct {
	Hash   string `json:"hash"`
	Ledger int64  `json:"ledger"`
}

// SubmitOffer places an offer. Transport failures after submission are
// ambiguous: the offer may have been accepted before the response was lost,
// so the caller must reconcile from a fresh balance read rather than assume
// the offer never executed.
func (c *Client) SubmitOffer(ctx context.Context, req OfferRequest) (OfferResult, error) {
	form := url.Values{}
	form.Set("account", req.Account)
	form.Set("side", string(req.Side))
	form.Set("amount", FormatAmount(req.BaseAmount))
	form.Set("price", FormatAmount(req.Price))
	assetQuery(form, req.Pair, "selling", "buying")

	var result OfferResult
	if err := c.call(ctx, "/offers", nil, form, &result); err != nil {
		return OfferResult{}, err
	}
	return result, nil
}
