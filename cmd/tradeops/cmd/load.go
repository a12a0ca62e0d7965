package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeops/pipeline"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the date's raw feed files into the database",
	Long: `Load the six per-date feed files (internal/broker trades, positions and
cash) from the data directory into the reconciliation database.

Loading is idempotent: rows previously loaded for the date are deleted and
the file contents inserted fresh, one transaction per table. Missing feed
files are skipped; the reconcilers report the absence as breaks.

Example:
  tradeops load --date 2026-08-28`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
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

	res, err := pipeline.New(s, cfg).LoadFeeds(cmd.Context(), date)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d rows for %s in %s\n", res.Rows, date, res.Duration.Round(time.Millisecond))
	return nil
}
