// Package cmd contains the ledger client commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	nodeURL string
	timeout int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:5000", "Url of the node.")
	rootCmd.PersistentFlags().IntVarP(&timeout, "timeout", "t", 0, "Seconds to wait for the node, zero waits forever.")
}

var rootCmd = &cobra.Command{
	Use:          "client",
	Short:        "Client for a proof of work ledger node",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
