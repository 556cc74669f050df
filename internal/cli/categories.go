package cli

import (
	"github.com/spf13/cobra"
)

var categoryID string

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Categories(cmd.Context(), cmd.OutOrStdout(), categoryID)
	},
}

func init() {
	categoriesCmd.Flags().StringVar(&categoryID, "id", "", "Show a single category instead of the full tree")
}
