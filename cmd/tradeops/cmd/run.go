package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all reconciliation engines and PnL for a date",
	Long: `Run trade reconciliation, position/cash reconciliation and the PnL
calculation for one business date. The engines write disjoint tables and run
concurrently; each one's failure is independent of the others.

Example:
  tradeops run --date 2026-08-28`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var runWithLoad bool

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runWithLoad, "load", false, "load the date's feed files first")
}

func runRun(cmd *cobra.Command, args []string) error {
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
	r := pipeline.New(s, cfg)

	if runWithLoad {
		res, err := r.LoadFeeds(ctx, date)
		if err != nil {
			return err
		}
		fmt.Printf("%-30s rows=%-6d %s\n", res.Pipeline, res.Rows, res.Duration.Round(time.Millisecond))
	}

	results, err := r.RunAll(ctx, date)
	for _, res := range results {
		fmt.Printf("%-30s rows=%-6d breaks=%-5d %s\n",
			res.Pipeline, res.Rows, res.Breaks, res.Duration.Round(time.Millisecond))
	}
	return err
}
