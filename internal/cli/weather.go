package cli

import (
	"github.com/spf13/cobra"
)

var weatherDays int

var weatherCmd = &cobra.Command{
	Use:   "weather <city>",
	Short: "Current weather or forecast for a city",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().WeatherReport(cmd.Context(), cmd.OutOrStdout(), args[0], weatherDays)
	},
}

func init() {
	weatherCmd.Flags().IntVar(&weatherDays, "days", 0, "Forecast days (0 for current conditions)")
}
