package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "swingbot",
	Short: "A threshold swing trading bot for the Stellar DEX",
	Long: `Swingbot trades a single pair on the Stellar decentralized exchange using
a simple threshold swing strategy: buy below the buy threshold, sell above
the sell threshold, hold in between.

It also collects the pair's trade stream into 1m/5m/1h OHLCV candles and
persists them for historical analysis.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

var logLevel string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
}

func setupLogging() {
	level := logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	lv, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lv = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lv)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
