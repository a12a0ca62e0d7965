package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/pipeline"
	"github.com/rustyeddy/tradeops/pnl"
	"github.com/rustyeddy/tradeops/report"
)

var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Calculate daily realized PnL from the internal trades",
	Long: `Compute realized PnL, fees and net PnL per (strategy, symbol, account)
from the internal trade set for one business date, replacing any previously
computed rows for that date.

Example:
  tradeops pnl --date 2026-08-28`,
	Args: cobra.NoArgs,
	RunE: runPnl,
}

func init() {
	rootCmd.AddCommand(pnlCmd)
}

func runPnl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	date, err := targetDate()
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if _, err := pipeline.New(s, cfg).CalculatePnl(ctx, date); err != nil {
		return err
	}

	records, err := s.PnlForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("query pnl: %w", err)
	}
	fmt.Println(report.FormatPnlSummary(pnl.RollupByStrategy(records)))
	return nil
}
