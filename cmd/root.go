// Package cmd implements the harborseal CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"
const logo = "🦭"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "harborseal",
	Short: logo + " harborseal — Agent Scheduling Gateway",
	Long:  logo + " harborseal — a recurring-schedule gateway for agent jobs",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cronCmd)
}
