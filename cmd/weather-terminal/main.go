package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ngmaloney/weather-terminal/internal/owm"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weather-terminal",
	Short: "Weather Terminal - current conditions and forecasts in your terminal",
	Long: `Weather Terminal shows current conditions, a 24-hour outlook and a 5-day
forecast for any city. Run without a subcommand to start the dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var (
	flagDebug bool
	flagUnits string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagUnits, "units", "", "Temperature units: C or F (defaults to the saved preference)")
	addLocationFlags(rootCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

// errorText prefers the user-facing message for weather failures and falls
// back to the raw error for usage mistakes
func errorText(err error) string {
	if _, ok := owm.AsClassified(err); ok {
		return "Error: " + owm.UserMessage(err)
	}
	return "Error: " + err.Error()
}
