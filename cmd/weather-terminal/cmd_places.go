package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/places"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for cities",
	Long:  `Print city suggestions for a query of at least two characters.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "List saved places",
	Long:  `List the places saved from the dashboard.`,
	Args:  cobra.NoArgs,
	RunE:  runPlacesList,
}

var placesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved place",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlacesDelete,
}

var (
	flagLimit int
	flagSave  int
)

func init() {
	searchCmd.Flags().IntVar(&flagLimit, "limit", 5, "Maximum number of suggestions")
	searchCmd.Flags().IntVar(&flagSave, "save", 0, "Save the suggestion with this number")
	placesCmd.AddCommand(placesDeleteCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(placesCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	suggestions := a.client.SearchCities(cmd.Context(), query, flagLimit)
	out := cmd.OutOrStdout()
	if len(suggestions) == 0 {
		fmt.Fprintf(out, "No cities found for %q\n", query)
		return nil
	}
	printSuggestions(out, suggestions)

	if flagSave > 0 {
		if flagSave > len(suggestions) {
			return fmt.Errorf("--save %d: only %d suggestions", flagSave, len(suggestions))
		}
		place := places.PlaceFromSuggestion(suggestions[flagSave-1])
		if err := a.repo.SavePlace(&place); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n✓ Saved %s\n", place.Name)
	}
	return nil
}

func runPlacesList(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	list, err := a.repo.ListPlaces()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No saved places. Press Ctrl+S in the dashboard or use 'search --save'.")
		return nil
	}
	printPlaces(out, list)
	return nil
}

func runPlacesDelete(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.repo.DeletePlace(name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", name)
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BFFF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// newTable returns a table styled like the dashboard
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#4A90E2"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func coordinates(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

func printSuggestions(out io.Writer, suggestions []models.GeoSuggestion) {
	t := newTable("#", "City", "Coordinates")
	for i, s := range suggestions {
		t.Row(strconv.Itoa(i+1), s.DisplayName(), coordinates(s.Lat, s.Lon))
	}
	fmt.Fprintln(out, t.Render())
}

func printPlaces(out io.Writer, list []models.Place) {
	t := newTable("Name", "Coordinates", "Saved")
	for _, p := range list {
		t.Row(p.Name, coordinates(p.Latitude, p.Longitude), humanize.Time(p.CreatedAt))
	}
	fmt.Fprintln(out, t.Render())
}
