package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/swingbot/bot"
	"github.com/rustyeddy/swingbot/candles"
	"github.com/rustyeddy/swingbot/config"
	"github.com/rustyeddy/swingbot/feed"
	"github.com/rustyeddy/swingbot/guard"
	"github.com/rustyeddy/swingbot/horizon"
	"github.com/rustyeddy/swingbot/journal"
	"github.com/rustyeddy/swingbot/market"
	"github.com/rustyeddy/swingbot/metrics"
	"github.com/rustyeddy/swingbot/retry"
	"github.com/rustyeddy/swingbot/strategy"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trading loop",
	Long: `Run the trading loop until interrupted.

Configuration comes from a YAML/JSON file when -f is given, otherwise from
environment variables alone. Environment variables always override the file.

Example:
  swingbot run -f swingbot.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
}

func loadConfig() (*config.Config, error) {
	if runConfigPath != "" {
		return config.LoadFromFile(runConfigPath)
	}
	return config.FromEnv()
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := horizon.NewClient(cfg.Endpoints(), retry.DefaultPolicy(), cfg.Network.Timeout())
	if err != nil {
		return fmt.Errorf("create horizon client: %w", err)
	}

	jrn, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jrn.Close()

	pair := market.Pair{
		BaseAsset:     cfg.Pair.BaseAsset,
		CounterAsset:  cfg.Pair.CounterAsset,
		CounterIssuer: cfg.Pair.CounterIssuer,
	}

	strat, err := strategy.ByName(cfg.Strategy.Name, strategy.ThresholdParams{
		BuyThreshold:    cfg.Strategy.BuyThreshold,
		SellThreshold:   cfg.Strategy.SellThreshold,
		MaxBasePerTrade: cfg.Strategy.MaxBasePerTrade,
	})
	if err != nil {
		return fmt.Errorf("create strategy: %w", err)
	}

	executor := guard.NewExecutor(guard.Policy{
		TradingEnabled:     cfg.Trading.Enabled,
		MaxBasePerTrade:    cfg.Strategy.MaxBasePerTrade,
		MaxCounterPerTrade: cfg.Trading.MaxCounterPerTrade,
		MinBasePerTrade:    cfg.Trading.MinBasePerTrade,
	}, client, cfg.Network.Account, pair)

	metrics.Serve(cfg.Metrics.ListenAddr)

	b := bot.New(cfg,
		feed.NewFetcher(client, pair),
		candles.NewAggregator(market.Intervals, jrn),
		strat,
		executor,
		client,
		jrn,
	)
	return b.Run(ctx)
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	if cfg.Journal.Type == "csv" {
		return journal.NewCSV(cfg.Journal.CandlesFile, cfg.Journal.OrdersFile)
	}
	return journal.NewSQLite(cfg.Journal.DBPath)
}
