package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/swingbot/market"
)

var candlesCmd = &cobra.Command{
	Use:   "candles <interval>",
	Short: "Query stored candles",
	Long: `Query and display candles from the journal.

The interval is one of 1m, 5m, 1h. Time bounds take RFC 3339 timestamps and
default to the last 24 hours.

Examples:
  swingbot candles 1m
  swingbot candles 1h --from 2025-08-01T00:00:00Z --to 2025-08-02T00:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: runCandles,
}

var (
	candlesFrom string
	candlesTo   string
)

func init() {
	rootCmd.AddCommand(candlesCmd)

	candlesCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	candlesCmd.Flags().StringVar(&candlesFrom, "from", "", "start time (RFC 3339)")
	candlesCmd.Flags().StringVar(&candlesTo, "to", "", "end time (RFC 3339)")
}

func runCandles(cmd *cobra.Command, args []string) error {
	iv, err := market.ParseInterval(args[0])
	if err != nil {
		return err
	}

	to := time.Now().UTC()
	from := to.Add(-24 * time.Hour)
	if candlesFrom != "" {
		if from, err = time.Parse(time.RFC3339, candlesFrom); err != nil {
			return fmt.Errorf("parse --from: %w", err)
		}
	}
	if candlesTo != "" {
		if to, err = time.Parse(time.RFC3339, candlesTo); err != nil {
			return fmt.Errorf("parse --to: %w", err)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	jrn, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jrn.Close()

	cs, err := jrn.QueryCandles(iv, from, to)
	if err != nil {
		return fmt.Errorf("query candles: %w", err)
	}

	fmt.Printf("%-20s %10s %10s %10s %10s %12s %6s\n",
		"bucket", "open", "high", "low", "close", "volume", "trades")
	for _, c := range cs {
		fmt.Printf("%-20s %10.7f %10.7f %10.7f %10.7f %12.7f %6d\n",
			c.BucketStart.UTC().Format(time.RFC3339),
			c.Open, c.High, c.Low, c.Close, c.Volume, c.TradeCount)
	}
	fmt.Printf("\n%d candles\n", len(cs))
	return nil
}
