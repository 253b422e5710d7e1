// Package bot runs the trading loop: one synchronous tick pulls market data,
// rolls candles, evaluates the strategy, and executes through the safety
// guard. Ticks never overlap; a failed tick is logged and the next one
// proceeds from fresh state.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/swingbot/candles"
	"github.com/rustyeddy/swingbot/config"
	"github.com/rustyeddy/swingbot/feed"
	"github.com/rustyeddy/swingbot/guard"
	"github.com/rustyeddy/swingbot/journal"
	"github.com/rustyeddy/swingbot/market"
	"github.com/rustyeddy/swingbot/metrics"
	"github.com/rustyeddy/swingbot/strategy"
)

// AccountReader reads the per-tick balance snapshot.
type AccountReader interface {
	Account(ctx context.Context, accountID string, pair market.Pair, baseReserve float64) (market.AccountState, error)
}

// Bot owns the polling loop. All state it mutates (current candles, price
// check timestamp) is touched by one goroutine only.
type Bot struct {
	cfg      *config.Config
	pair     market.Pair
	fetcher  *feed.Fetcher
	agg      *candles.Aggregator
	strat    strategy.Strategy
	executor *guard.Executor
	accounts AccountReader
	journal  journal.Journal

	lastPriceCheck time.Time
	nowFn          func() time.Time
}

func New(cfg *config.Config, fetcher *feed.Fetcher, agg *candles.Aggregator,
	strat strategy.Strategy, executor *guard.Executor, accounts AccountReader,
	jrn journal.Journal) *Bot {
	return &Bot{
		cfg: cfg,
		pair: market.Pair{
			BaseAsset:     cfg.Pair.BaseAsset,
			CounterAsset:  cfg.Pair.CounterAsset,
			CounterIssuer: cfg.Pair.CounterIssuer,
		},
		fetcher:  fetcher,
		agg:      agg,
		strat:    strat,
		executor: executor,
		accounts: accounts,
		journal:  jrn,
		nowFn:    time.Now,
	}
}

// Run executes ticks until ctx is cancelled, sleeping the polling interval
// between them. The sleep is interruptible so shutdown does not wait out a
// full interval. In-progress candles are flushed on the way out.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.probe(ctx); err != nil {
		return fmt.Errorf("startup probe: %w", err)
	}

	log.Info().
		Str("pair", b.pair.String()).
		Str("strategy", b.strat.Name()).
		Bool("trading_enabled", b.cfg.Trading.Enabled).
		Dur("polling", b.cfg.Trading.Polling()).
		Dur("price_check", b.cfg.Trading.PriceCheck()).
		Msg("bot running")

	for {
		if err := b.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			// A single bad tick must never take the service down.
			log.Error().Err(err).Msg("tick failed")
			metrics.Ticks.WithLabelValues("error").Inc()
		} else {
			metrics.Ticks.WithLabelValues("ok").Inc()
		}

		stop := false
		select {
		case <-ctx.Done():
			stop = true
		case <-time.After(b.cfg.Trading.Polling()):
		}
		if stop {
			break
		}
	}

	if err := b.agg.Flush(); err != nil {
		log.Error().Err(err).Msg("flush candles on shutdown")
	}
	log.Info().Msg("bot stopped")
	return nil
}

// probe verifies the account exists on the network before the loop starts,
// so a bad account or endpoint fails fast instead of failing every tick.
func (b *Bot) probe(ctx context.Context) error {
	acct, err := b.accounts.Account(ctx, b.cfg.Network.Account, b.pair, b.cfg.Trading.BaseReserve)
	if err != nil {
		return err
	}
	log.Info().
		Str("account", b.cfg.Network.Account).
		Float64("base_balance", acct.BaseBalance).
		Float64("counter_balance", acct.CounterBalance).
		Msg("account verified")
	return nil
}

// Tick runs one full cycle: collect trades into candles every tick, and on
// the slower price-check cadence evaluate and possibly trade.
func (b *Bot) Tick(ctx context.Context) error {
	trades, err := b.fetcher.RecentTrades(ctx)
	if err != nil {
		return fmt.Errorf("fetch trades: %w", err)
	}
	for _, t := range trades {
		if err := b.agg.Apply(t); err != nil {
			return fmt.Errorf("aggregate trade: %w", err)
		}
	}

	now := b.nowFn()
	if !b.lastPriceCheck.IsZero() && now.Sub(b.lastPriceCheck) < b.cfg.Trading.PriceCheck() {
		return nil
	}
	b.lastPriceCheck = now

	return b.evaluate(ctx)
}

// evaluate is the decide/execute half of a tick. Balances are re-read here
// every time: trades may settle between ticks from outside this bot.
func (b *Bot) evaluate(ctx context.Context) error {
	price, book, err := b.fetcher.CurrentPrice(ctx)
	if err != nil {
		return fmt.Errorf("fetch price: %w", err)
	}
	metrics.Price.Set(price)

	if max := b.cfg.Trading.MaxSpread; max > 0 && book.Spread() > max {
		log.Warn().Float64("spread", book.Spread()).Float64("max", max).
			Msg("spread too wide, holding")
		metrics.Decisions.WithLabelValues(string(strategy.Hold)).Inc()
		return nil
	}

	acct, err := b.accounts.Account(ctx, b.cfg.Network.Account, b.pair, b.cfg.Trading.BaseReserve)
	if err != nil {
		return fmt.Errorf("fetch account: %w", err)
	}

	decision := b.strat.Evaluate(price, acct)
	metrics.Decisions.WithLabelValues(string(decision.Action)).Inc()
	log.Info().
		Str("action", string(decision.Action)).
		Float64("price", price).
		Float64("amount", decision.BaseAmount).
		Str("reason", decision.Reason).
		Msg("decision")

	order, emitted := b.executor.Execute(ctx, decision, acct)
	if !emitted {
		return nil
	}

	metrics.Orders.WithLabelValues(string(order.Result)).Inc()
	rec := journal.OrderRecord{
		OrderID:     order.ID,
		Pair:        b.pair.String(),
		Side:        string(order.Side),
		BaseAmount:  order.BaseAmount,
		Price:       order.Price,
		Result:      string(order.Result),
		Reason:      order.Reason,
		SubmittedAt: order.SubmittedAt,
	}
	if err := b.journal.RecordOrder(rec); err != nil {
		return fmt.Errorf("record order: %w", err)
	}
	return nil
}
