package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run consensus on the node against its peers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/v1/nodes/resolve", nil)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
