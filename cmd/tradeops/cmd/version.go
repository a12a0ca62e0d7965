package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradeops CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tradeops version %s\n", version)
		fmt.Println("Daily trade, position and cash reconciliation with realized PnL")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
