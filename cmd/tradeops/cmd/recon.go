package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/pipeline"
	"github.com/rustyeddy/tradeops/report"
)

var reconCmd = &cobra.Command{
	Use:   "recon",
	Short: "Reconcile internal against broker records for a date",
	Long: `Reconcile the two books of record for one business date.

Subcommands:
  trades - full outer join on trade_id, field-by-field break classification
  books  - net position and net cash reconciliation

Each re-run fully replaces that date's break tables inside one transaction
and appends an audit row.

Examples:
  tradeops recon trades --date 2026-08-28
  tradeops recon books --date 2026-08-28`,
}

var reconTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Run trade-level reconciliation",
	Args:  cobra.NoArgs,
	RunE:  runReconTrades,
}

var reconBooksCmd = &cobra.Command{
	Use:   "books",
	Short: "Run position and cash reconciliation",
	Args:  cobra.NoArgs,
	RunE:  runReconBooks,
}

func init() {
	rootCmd.AddCommand(reconCmd)
	reconCmd.AddCommand(reconTradesCmd)
	reconCmd.AddCommand(reconBooksCmd)
}

func runReconTrades(cmd *cobra.Command, args []string) error {
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
	if _, err := pipeline.New(s, cfg).ReconcileTrades(ctx, date); err != nil {
		return err
	}

	breaks, err := s.TradeBreaksForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("query breaks: %w", err)
	}
	fmt.Println(report.FormatTradeBreakSummary(report.SummarizeTradeBreaks(breaks)))
	return nil
}

func runReconBooks(cmd *cobra.Command, args []string) error {
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
	if _, err := pipeline.New(s, cfg).ReconcileBooks(ctx, date); err != nil {
		return err
	}

	positions, err := s.PositionBreaksForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("query position breaks: %w", err)
	}
	cash, err := s.CashBreaksForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("query cash breaks: %w", err)
	}
	fmt.Println(report.FormatPositionBreaks(positions))
	fmt.Println(report.FormatCashBreaks(cash))
	return nil
}
