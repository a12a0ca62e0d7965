package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/config"
	"github.com/rustyeddy/tradeops/store"
)

var rootCmd = &cobra.Command{
	Use:   "tradeops",
	Short: "Trade operations reconciliation and PnL for a business date",
	Long: `Tradeops reconciles the internal book of record against the broker's
for one business date, classifies every discrepancy into a typed break with a
severity, and computes end-of-day realized PnL per strategy/symbol/account.

Typical daily flow:
  tradeops load --date 2026-08-28
  tradeops run --date 2026-08-28
  tradeops report breaks --date 2026-08-28

Every engine is idempotent per date: re-running replaces that date's output
in a single transaction and appends a row to the pipeline audit trail.`,
	SilenceUsage: true,
}

var (
	cfgPath string
	dbPath  string
	runDate string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&runDate, "date", "", "business date YYYY-MM-DD (default today)")
}

// loadConfig resolves the effective configuration from flags.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		cfg, err = config.LoadFromFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.SQLite, error) {
	s, err := store.NewSQLite(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return s, nil
}

// targetDate validates --date, defaulting to today.
func targetDate() (string, error) {
	if runDate == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", runDate); err != nil {
		return "", fmt.Errorf("bad --date %q: %w", runDate, err)
	}
	return runDate, nil
}
