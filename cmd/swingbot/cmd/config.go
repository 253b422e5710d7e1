package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/swingbot/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or inspect configuration",
	Long: `Manage bot configuration.

Subcommands:
  init - Generate a default configuration file
  show - Print the effective configuration (file + environment overrides)

Examples:
  swingbot config init -o swingbot.yaml
  swingbot config show -f swingbot.yaml`,
}

var configInitOutput string

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if err := cfg.SaveToFile(configInitOutput); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("Network:  %s (%v)\n", cfg.Network.Name, cfg.Endpoints())
		fmt.Printf("Account:  %s\n", cfg.Network.Account)
		fmt.Printf("Pair:     %s/%s (issuer %s)\n",
			cfg.Pair.BaseAsset, cfg.Pair.CounterAsset, cfg.Pair.CounterIssuer)
		fmt.Printf("Strategy: %s buy<%.7f sell>%.7f max %.7f %s/trade\n",
			cfg.Strategy.Name, cfg.Strategy.BuyThreshold, cfg.Strategy.SellThreshold,
			cfg.Strategy.MaxBasePerTrade, cfg.Pair.BaseAsset)
		fmt.Printf("Trading:  enabled=%v reserve=%.7f poll=%s price-check=%s\n",
			cfg.Trading.Enabled, cfg.Trading.BaseReserve,
			cfg.Trading.Polling(), cfg.Trading.PriceCheck())
		fmt.Printf("Journal:  %s\n", cfg.Journal.Type)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "swingbot.yaml", "output config file path")
	configShowCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
}
