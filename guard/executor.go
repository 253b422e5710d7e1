package guard

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/swingbot/horizon"
	"github.com/rustyeddy/swingbot/market"
	"github.com/rustyeddy/swingbot/pkg/id"
	"github.com/rustyeddy/swingbot/strategy"
)

// Result is the terminal state an Order reaches by the end of its tick.
type Result string

const (
	Pending  Result = "PENDING"
	Filled   Result = "FILLED"
	Rejected Result = "REJECTED"
	Failed   Result = "FAILED"
)

// Order is the record of one execution attempt. A FAILED order is not
// retried this tick; the next tick re-evaluates from a fresh balance read,
// which is also how an ambiguous timeout outcome gets reconciled.
type Order struct {
	ID           string
	Side         horizon.Side
	BaseAmount   float64
	Price        float64
	CounterLimit float64
	SubmittedAt  time.Time
	Result       Result
	Reason       string
	Hash         string
}

// Submitter is the slice of the horizon client the executor needs.
type Submitter interface {
	SubmitOffer(ctx context.Context, req horizon.OfferRequest) (horizon.OfferResult, error)
}

// Executor turns an allowed decision into a venue offer.
type Executor struct {
	policy  Policy
	venue   Submitter
	account string
	pair    market.Pair
}

func NewExecutor(policy Policy, venue Submitter, account string, pair market.Pair) *Executor {
	return &Executor{policy: policy, venue: venue, account: account, pair: pair}
}

// Execute applies the safety checks and, if they pass and trading is
// enabled, submits the offer. The second return is false for HOLD and
// zero-amount decisions, which produce no order at all.
func (e *Executor) Execute(ctx context.Context, d strategy.Decision, acct market.AccountState) (Order, bool) {
	if d.Action == strategy.Hold || d.BaseAmount <= 0 {
		return Order{}, false
	}

	o := Order{
		ID:           id.NewOrder(),
		Side:         side(d.Action),
		BaseAmount:   d.BaseAmount,
		Price:        d.Price,
		CounterLimit: d.BaseAmount * d.Price,
		SubmittedAt:  time.Now().UTC(),
		Result:       Pending,
	}

	if !e.policy.TradingEnabled {
		o.Result = Rejected
		o.Reason = "TRADING_DISABLED"
		log.Info().Str("order", o.ID).Str("side", string(o.Side)).
			Float64("amount", o.BaseAmount).Msg("trading disabled, dry run")
		return o, true
	}

	if v := Evaluate(e.policy, d, acct); !v.Allowed {
		o.Result = Rejected
		o.Reason = v.Reason()
		for _, viol := range v.Violations {
			log.Warn().Str("order", o.ID).Str("code", viol.Code).Msg(viol.Msg)
		}
		return o, true
	}

	res, err := e.venue.SubmitOffer(ctx, horizon.OfferRequest{
		Account:    e.account,
		Pair:       e.pair,
		Side:       o.Side,
		BaseAmount: o.BaseAmount,
		Price:      o.Price,
	})
	if err != nil {
		// Possibly accepted before the response was lost. The next
		// tick's balance read is the source of truth.
		o.Result = Failed
		o.Reason = err.Error()
		log.Error().Err(err).Str("order", o.ID).Msg("offer submission failed")
		return o, true
	}

	o.Result = Filled
	o.Hash = res.Hash
	log.Info().Str("order", o.ID).Str("side", string(o.Side)).
		Float64("amount", o.BaseAmount).Float64("price", o.Price).
		Str("hash", res.Hash).Msg("offer placed")
	return o, true
}

func side(a strategy.Action) horizon.Side {
	if a == strategy.Sell {
		return horizon.Sell
	}
	return horizon.Buy
}
