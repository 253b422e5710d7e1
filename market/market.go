package market

import "time"

// Pair identifies the traded pair on the Stellar DEX. The base asset is the
// native asset (XLM); the counter asset is a credit asset and needs an issuer.
type Pair struct {
	BaseAsset     string
	CounterAsset  string
	CounterIssuer string
}

func (p Pair) String() string {
	return p.BaseAsset + "/" + p.CounterAsset
}

// Trade is a single executed trade fetched from the venue. Immutable once
// fetched.
type Trade struct {
	Time          time.Time
	Price         float64
	BaseAmount    float64
	CounterAmount float64
}

// AccountState is a per-tick snapshot of the account balances. It is re-read
// every tick rather than cached: trades can settle between ticks from sources
// outside this bot's control.
type AccountState struct {
	BaseBalance    float64
	CounterBalance float64
	BaseReserve    float64
}

// SellableBase is the base balance with the reserve held back, floored at zero.
func (a AccountState) SellableBase() float64 {
	if a.BaseBalance <= a.BaseReserve {
		return 0
	}
	return a.BaseBalance - a.BaseReserve
}
