// Package strategy holds the per-tick decision logic. Strategies are pure:
// the same price and account snapshot always produce the same decision, and
// no state is carried between ticks.
package strategy

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/swingbot/market"
)

// Action is what a strategy wants to do this tick.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
	Hold Action = "HOLD"
)

// Decision is a one-shot value consumed immediately by the order guard.
// Price is the price the decision was based on.
type Decision struct {
	Action     Action
	BaseAmount float64
	Price      float64
	Reason     string
}

// Strategy evaluates one tick. Implementations must be stateless across
// ticks: every poll re-evaluates from fresh data.
type Strategy interface {
	Name() string
	Evaluate(price float64, acct market.AccountState) Decision
}

var registry = make(map[string]func(ThresholdParams) Strategy)

func Register(name string, build func(ThresholdParams) Strategy) {
	registry[name] = build
}

// ByName builds a registered strategy.
func ByName(name string, params ThresholdParams) (Strategy, error) {
	build, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return build(params), nil
}
