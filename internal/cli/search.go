package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"storefront-bridge/internal/app"
)

var (
	searchCategory string
	searchLimit    int
	searchOffset   int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog and print enriched results",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var query string
		if len(args) > 0 {
			query = args[0]
		}
		if query == "" && searchCategory == "" {
			return errors.New("provide a query or --category")
		}

		return getApp().Search(cmd.Context(), cmd.OutOrStdout(), app.SearchOptions{
			Query:    query,
			Category: searchCategory,
			Limit:    searchLimit,
			Offset:   searchOffset,
		})
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Browse a category instead of searching")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Result offset for paging")
}
