// Package guard enforces the safety constraints between a strategy decision
// and the venue: reserve protection, per-trade caps, and the trading-enabled
// switch. An order that fails a check never reaches the network.
package guard

import (
	"fmt"

	"github.com/rustyeddy/swingbot/market"
	"github.com/rustyeddy/swingbot/strategy"
)

type Violation struct {
	Code string
	Msg  string
}

// Verdict is the result of the pre-submit safety evaluation.
type Verdict struct {
	Allowed    bool
	Violations []Violation
}

func (v *Verdict) add(code, msg string) {
	v.Violations = append(v.Violations, Violation{Code: code, Msg: msg})
	v.Allowed = false
}

func (v Verdict) Reason() string {
	if len(v.Violations) == 0 {
		return ""
	}
	return v.Violations[0].Code
}

// Evaluate runs every safety check against the decision. The invariants: a
// SELL must leave the base reserve untouched, a BUY must be fully covered by
// the counter balance, and both sides respect the per-trade caps.
func Evaluate(p Policy, d strategy.Decision, acct market.AccountState) Verdict {
	v := Verdict{Allowed: true}

	if d.Price <= 0 {
		v.add("NO_PRICE", "decision carries no price")
		return v
	}
	if d.BaseAmount <= 0 {
		v.add("NO_AMOUNT", "base amount must be positive")
		return v
	}

	if p.MaxBasePerTrade > 0 && d.BaseAmount > p.MaxBasePerTrade {
		v.add("BASE_CAP",
			fmt.Sprintf("amount %.7f exceeds per-trade cap %.7f", d.BaseAmount, p.MaxBasePerTrade))
	}

	switch d.Action {
	case strategy.Buy:
		counter := d.BaseAmount * d.Price
		if counter > acct.CounterBalance {
			v.add("INSUFFICIENT_COUNTER",
				fmt.Sprintf("buy needs %.7f counter, balance %.7f", counter, acct.CounterBalance))
		}
		if p.MaxCounterPerTrade > 0 && counter > p.MaxCounterPerTrade {
			v.add("COUNTER_CAP",
				fmt.Sprintf("counter amount %.7f exceeds per-trade cap %.7f", counter, p.MaxCounterPerTrade))
		}
		if p.MinBasePerTrade > 0 && d.BaseAmount < p.MinBasePerTrade {
			v.add("BELOW_MINIMUM",
				fmt.Sprintf("amount %.7f below minimum trade size %.7f", d.BaseAmount, p.MinBasePerTrade))
		}

	case strategy.Sell:
		if acct.BaseBalance-d.BaseAmount < acct.BaseReserve {
			v.add("RESERVE_BREACH",
				fmt.Sprintf("sell of %.7f would leave %.7f, reserve is %.7f",
					d.BaseAmount, acct.BaseBalance-d.BaseAmount, acct.BaseReserve))
		}

	default:
		v.add("NOT_TRADEABLE", fmt.Sprintf("action %s places no order", d.Action))
	}

	return v
}
