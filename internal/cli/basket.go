package cli

import (
	"github.com/spf13/cobra"
)

var basketQuantity int

var basketCmd = &cobra.Command{
	Use:   "basket",
	Short: "Manage shopping baskets",
}

var basketCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new basket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().BasketCreate(cmd.Context(), cmd.OutOrStdout())
	},
}

var basketAddCmd = &cobra.Command{
	Use:   "add <basket-id> <sku>",
	Short: "Add a product to a basket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().BasketAdd(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], basketQuantity)
	},
}

var basketShowCmd = &cobra.Command{
	Use:   "show <basket-id>",
	Short: "Print basket contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().BasketShow(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

var basketCheckoutCmd = &cobra.Command{
	Use:   "checkout <basket-id>",
	Short: "Begin checkout for a basket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Checkout(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	basketAddCmd.Flags().IntVar(&basketQuantity, "quantity", 1, "Quantity to add")

	basketCmd.AddCommand(basketCreateCmd)
	basketCmd.AddCommand(basketAddCmd)
	basketCmd.AddCommand(basketShowCmd)
	basketCmd.AddCommand(basketCheckoutCmd)
}
