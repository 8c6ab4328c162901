package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <url>...",
	Short: "Register peer nodes with the node",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes := struct {
			Nodes []string `json:"nodes"`
		}{
			Nodes: args,
		}

		return call(cmd.OutOrStdout(), http.MethodPost, "/v1/nodes/register", nodes)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
