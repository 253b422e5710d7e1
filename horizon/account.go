package horizon

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rustyeddy/swingbot/market"
	"github.com/rustyeddy/swingbot/retry"
)

type apiBalance struct {
	Balance     string `json:"balance"`
	AssetType   string `json:"asset_type"`
	AssetCode   string `json:"asset_code"`
	AssetIssuer string `json:"asset_issuer"`
}

type accountResponse struct {
	AccountID string       `json:"account_id"`
	Sequence  string       `json:"sequence"`
	Balances  []apiBalance `json:"balances"`
}

// Account fetches the balances for accountID and projects them onto the
// pair: the native balance becomes the base balance, the matching credit
// asset balance the counter balance. A missing trustline for the counter
// asset reads as a zero balance.
func (c *Client) Account(ctx context.Context, accountID string, pair market.Pair, baseReserve float64) (market.AccountState, error) {
	var resp accountResponse
	if err := c.call(ctx, "/accounts/"+accountID, nil, nil, &resp); err != nil {
		return market.AccountState{}, err
	}

	state := market.AccountState{BaseReserve: baseReserve}
	for _, b := range resp.Balances {
		amount, err := strconv.ParseFloat(b.Balance, 64)
		if err != nil {
			return market.AccountState{}, retry.Permanent(fmt.Errorf("parse balance %q: %w", b.Balance, err))
		}
		switch {
		case b.AssetType == "native":
			state.BaseBalance = amount
		case b.AssetCode == pair.CounterAsset && b.AssetIssuer == pair.CounterIssuer:
			state.CounterBalance = amount
		}
	}
	return state, nil
}
