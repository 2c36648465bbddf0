package main

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/ngmaloney/weather-terminal/internal/ui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive dashboard",
	Long: `Run the interactive dashboard. With --city or --lat/--lon the report for
that location is loaded on startup.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.Flags().StringVar(&flagCity, "city", "", "City to load on startup")
	tuiCmd.Flags().StringVar(&flagCity, "city", "", "City to load on startup")
	addLocationFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return cmd.Help()
	}

	initial, err := locationFromFlags(cmd, nil, false)
	if err != nil {
		return err
	}

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	zones := zone.New()
	model := ui.NewModel(ui.Options{
		Client:  a.client,
		Places:  a.repo,
		Zones:   zones,
		Logger:  a.logger,
		Units:   a.units,
		Initial: initial,
	})

	a.logger.Infow("starting dashboard", "units", a.units, "db", a.cfg.DBPath)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		a.logger.Errorw("dashboard exited with error", "error", err)
		return err
	}
	return nil
}
