package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/owm"
)

// Message types for async operations

// reportMsg is sent when a combined weather+forecast fetch settles. seq ties
// it to the request that produced it; only the latest request may apply.
type reportMsg struct {
	seq    int
	report *models.Report
	err    error
}

// loadLocationMsg requests a report for a known location, e.g. from startup flags
type loadLocationMsg struct {
	location models.Location
}

// reportTimeout bounds one combined fetch, retries included
const reportTimeout = 45 * time.Second

// fetchReport fetches weather and forecast for loc concurrently
func fetchReport(client owm.Client, loc models.Location, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		report, err := owm.FetchReport(ctx, client, loc)
		return reportMsg{seq: seq, report: report, err: err}
	}
}
