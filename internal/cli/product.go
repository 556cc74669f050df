package cli

import (
	"github.com/spf13/cobra"
)

var productCmd = &cobra.Command{
	Use:   "product <sku>",
	Short: "Fetch a product with normalized prices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().ProductDetail(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}
