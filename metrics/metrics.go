// Package metrics exposes the bot's Prometheus counters:
//   - swingbot_ticks_total{result}       – polling ticks (ok|error)
//   - swingbot_decisions_total{action}   – strategy decisions (BUY|SELL|HOLD)
//   - swingbot_orders_total{result}      – orders by terminal result
//   - swingbot_candles_finalized_total{interval} – candles handed to the journal
//   - swingbot_price                     – last observed price (gauge)
//
// Served at /metrics when a listen address is configured.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	Ticks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swingbot_ticks_total",
			Help: "Polling ticks by outcome",
		},
		[]string{"result"},
	)

	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swingbot_decisions_total",
			Help: "Strategy decisions by action",
		},
		[]string{"action"},
	)

	Orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swingbot_orders_total",
			Help: "Orders by terminal result",
		},
		[]string{"result"},
	)

	CandlesFinalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swingbot_candles_finalized_total",
			Help: "Candles finalized and persisted",
		},
		[]string{"interval"},
	)

	Price = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "swingbot_price",
			Help: "Last observed price of the pair",
		},
	)
)

func init() {
	prometheus.MustRegister(Ticks, Decisions, Orders, CandlesFinalized, Price)
}

// Serve starts the /metrics listener. It runs in its own goroutine and a
// listen failure is logged, not fatal: trading continues without metrics.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
		}
	}()
}
