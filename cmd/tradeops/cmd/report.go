package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/pnl"
	"github.com/rustyeddy/tradeops/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show reconciliation and PnL results for a date",
	Long: `Read-only reporting over previously computed results.

Subcommands:
  breaks - break summary, top HIGH/CRITICAL breaks, optional CSV export
  pnl    - PnL rollup by strategy
  runs   - pipeline audit trail

Examples:
  tradeops report breaks --date 2026-08-28 --csv breaks.csv
  tradeops report pnl --date 2026-08-28
  tradeops report runs --date 2026-08-28`,
}

var reportBreaksCmd = &cobra.Command{
	Use:   "breaks",
	Short: "Summarize the date's breaks",
	Args:  cobra.NoArgs,
	RunE:  runReportBreaks,
}

var reportPnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Show the date's PnL rollup by strategy",
	Args:  cobra.NoArgs,
	RunE:  runReportPnl,
}

var reportRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show the date's pipeline audit trail",
	Args:  cobra.NoArgs,
	RunE:  runReportRuns,
}

var (
	breaksCSVPath string
	topBreaks     int
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportBreaksCmd)
	reportCmd.AddCommand(reportPnlCmd)
	reportCmd.AddCommand(reportRunsCmd)

	reportBreaksCmd.Flags().StringVar(&breaksCSVPath, "csv", "", "export break detail to a CSV file")
	reportBreaksCmd.Flags().IntVar(&topBreaks, "top", 10, "number of top breaks to list")
}

func runReportBreaks(cmd *cobra.Command, args []string) error {
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
	breaks, err := s.TradeBreaksForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("query breaks: %w", err)
	}

	fmt.Println(report.FormatTradeBreakSummary(report.SummarizeTradeBreaks(breaks)))

	top, err := s.TopTradeBreaks(ctx, date, topBreaks)
	if err != nil {
		return fmt.Errorf("query top breaks: %w", err)
	}
	fmt.Println(report.FormatTopBreaks(top))

	if breaksCSVPath != "" {
		f, err := os.Create(breaksCSVPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", breaksCSVPath, err)
		}
		defer f.Close()
		if err := report.WriteBreaksCSV(f, breaks); err != nil {
			return fmt.Errorf("write %s: %w", breaksCSVPath, err)
		}
		fmt.Printf("Break detail exported to %s\n", breaksCSVPath)
	}
	return nil
}

func runReportPnl(cmd *cobra.Command, args []string) error {
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

	records, err := s.PnlForDate(cmd.Context(), date)
	if err != nil {
		return fmt.Errorf("query pnl: %w", err)
	}
	fmt.Println(report.FormatPnlSummary(pnl.RollupByStrategy(records)))
	return nil
}

func runReportRuns(cmd *cobra.Command, args []string) error {
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

	runs, err := s.RunsForDate(cmd.Context(), date)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	fmt.Println(report.FormatRuns(runs))
	return nil
}
