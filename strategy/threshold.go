package strategy

import (
	"math"

	"github.com/rustyeddy/swingbot/market"
)

// ThresholdParams configure the swing strategy. BuyThreshold must be below
// SellThreshold; config validation enforces that at startup.
type ThresholdParams struct {
	BuyThreshold    float64
	SellThreshold   float64
	MaxBasePerTrade float64
}

// Threshold buys the base asset below the buy threshold and sells above the
// sell threshold, holding inside the band. There is deliberately no
// hysteresis or cooldown: consecutive ticks at a band edge can repeat the
// same action, and the band itself is the only damping.
type Threshold struct {
	ThresholdParams
}

func init() {
	Register("threshold", func(p ThresholdParams) Strategy {
		return NewThreshold(p)
	})
}

func NewThreshold(p ThresholdParams) *Threshold {
	return &Threshold{ThresholdParams: p}
}

func (s *Threshold) Name() string { return "threshold" }

// truncate clips an amount to the venue's 7 decimal places, rounding down.
// A sized buy must never cost more than the balance that funded it.
func truncate(v float64) float64 {
	return math.Floor(v*1e7) / 1e7
}

func (s *Threshold) Evaluate(price float64, acct market.AccountState) Decision {
	if price <= 0 {
		return Decision{Action: Hold, Price: price, Reason: "no price"}
	}

	switch {
	case price < s.BuyThreshold:
		// Buy as much as the per-trade cap and the counter balance allow.
		affordable := acct.CounterBalance / price
		amount := truncate(min(s.MaxBasePerTrade, affordable))
		return Decision{
			Action:     Buy,
			BaseAmount: amount,
			Price:      price,
			Reason:     "price below buy threshold",
		}

	case price > s.SellThreshold:
		amount := truncate(min(s.MaxBasePerTrade, acct.SellableBase()))
		return Decision{
			Action:     Sell,
			BaseAmount: amount,
			Price:      price,
			Reason:     "price above sell threshold",
		}

	default:
		return Decision{Action: Hold, Price: price, Reason: "price inside band"}
	}
}
