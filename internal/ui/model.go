package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	zone "github.com/lrstanley/bubblezone"
	"github.com/ngmaloney/weather-terminal/internal/autocomplete"
	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/owm"
	"github.com/ngmaloney/weather-terminal/internal/places"
	"go.uber.org/zap"
)

// AppState represents the current state of the application
type AppState int

const (
	StateSearch  AppState = iota // Typing a city, suggestions shown as you type
	StateLoading                 // Waiting for weather + forecast
	StateDisplay                 // Showing a report
	StateError                   // Last request failed
	StatePlaces                  // Browsing saved places
)

// Options wires the model's dependencies
type Options struct {
	Client owm.Client
	Places *places.Repository // nil disables saved places and unit persistence
	Zones  *zone.Manager      // nil disables mouse support
	Logger *zap.SugaredLogger
	Units  models.TemperatureUnit

	// Initial is loaded on startup when set
	Initial *models.Location
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error
	status string

	search  autocomplete.Model
	spinner spinner.Model

	client owm.Client
	repo   *places.Repository
	zones  *zone.Manager
	logger *zap.SugaredLogger

	// Request bookkeeping
	seq          int
	lastLocation *models.Location
	initial      *models.Location

	// Data, replaced wholesale per report
	weather     *models.WeatherSnapshot
	forecast    *models.ForecastSeries
	location    models.Location
	lastUpdated time.Time
	units       models.TemperatureUnit

	// Saved places
	placeList   list.Model
	returnState AppState
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	units := opts.Units
	if units == "" {
		units = models.Celsius
	}

	var search autocomplete.Model
	searchOpts := []autocomplete.Option{
		autocomplete.WithZones(opts.Zones),
		autocomplete.WithLimit(owm.DefaultSearchLimit),
	}
	if opts.Client != nil {
		search = autocomplete.New(opts.Client.SearchCities, searchOpts...)
	} else {
		search = autocomplete.New(nil, searchOpts...)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		state:   StateSearch,
		search:  search,
		spinner: s,
		client:  opts.Client,
		repo:    opts.Places,
		zones:   opts.Zones,
		logger:  logger,
		units:   units,
		initial: opts.Initial,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.initial != nil {
		loc := *m.initial
		return func() tea.Msg {
			return loadLocationMsg{location: loc}
		}
	}
	return m.search.Init()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.search.SetWidth(min(60, max(msg.Width-8, 20)))
		if m.state == StatePlaces {
			m.placeList.SetSize(msg.Width-4, msg.Height-6)
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case autocomplete.SubmitMsg:
		return m.startFetch(submittedLocation(msg))

	case loadLocationMsg:
		return m.startFetch(msg.location)

	case reportMsg:
		return m.handleReport(msg)

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case placesFetchedMsg:
		if msg.err != nil {
			m.logger.Errorw("failed to list places", "error", msg.err)
			m.status = "Could not load saved places"
			return m, nil
		}
		m.returnState = m.state
		m.placeList = createPlaceList(msg.places, m.width-4, m.height-6)
		m.state = StatePlaces
		m.search.Blur()
		return m, nil

	case placeSavedMsg:
		if msg.err != nil {
			m.logger.Errorw("failed to save place", "error", msg.err)
			m.status = "Could not save place"
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %s", msg.place.Name)
		return m, nil

	case placeDeletedMsg:
		if msg.err != nil && !errors.Is(msg.err, places.ErrPlaceNotFound) {
			m.logger.Errorw("failed to delete place", "name", msg.name, "error", msg.err)
			m.status = "Could not delete place"
			return m, nil
		}
		m.status = fmt.Sprintf("Deleted %s", msg.name)
		m.removePlace(msg.name)
		return m, nil

	case list.FilterMatchesMsg:
		var cmd tea.Cmd
		m.placeList, cmd = m.placeList.Update(msg)
		return m, cmd

	case unitsSavedMsg:
		if msg.err != nil {
			m.logger.Warnw("failed to persist unit preference", "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.state == StateSearch || m.state == StateDisplay {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Debounce, suggestion and blink messages belong to the search box
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+u":
		m.units = m.units.Toggle()
		if m.repo != nil {
			return m, saveUnits(m.repo, m.units)
		}
		return m, nil
	case "ctrl+r":
		if m.lastLocation != nil && (m.state == StateError || m.state == StateDisplay) {
			return m.startFetch(*m.lastLocation)
		}
		return m, nil
	case "ctrl+s":
		if m.state == StateDisplay && m.weather != nil && m.repo != nil {
			return m, savePlace(m.repo, places.PlaceFromSnapshot(m.weather))
		}
		return m, nil
	case "ctrl+p":
		if m.repo != nil && m.state != StatePlaces && m.state != StateLoading {
			return m, fetchSavedPlaces(m.repo)
		}
		return m, nil
	}

	// State-specific handling
	switch m.state {
	case StateLoading:
		return m, nil

	case StatePlaces:
		return m.handlePlaceList(msg)

	case StateError:
		if msg.Type == tea.KeyEsc {
			m.err = nil
			m.state = StateSearch
			return m, m.search.Focus()
		}
		// Typing returns to search
		m.err = nil
		m.state = StateSearch
		focus := m.search.Focus()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, tea.Batch(focus, cmd)
	}

	m.status = ""
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// handlePlaceList handles keyboard input in the saved places list
func (m Model) handlePlaceList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.placeList.FilterState() != list.Filtering {
		switch {
		case msg.Type == tea.KeyEnter:
			if item, ok := m.placeList.SelectedItem().(placeItem); ok {
				loc := item.place.Location()
				return m.startFetch(loc)
			}
			return m, nil
		case msg.String() == "d":
			if item, ok := m.placeList.SelectedItem().(placeItem); ok {
				return m, deletePlace(m.repo, item.place.Name)
			}
			return m, nil
		case msg.Type == tea.KeyEsc:
			m.state = m.returnState
			if m.state == StateLoading || m.state == StatePlaces {
				m.state = StateSearch
			}
			return m, m.search.Focus()
		}
	}

	m.placeList, cmd = m.placeList.Update(msg)
	return m, cmd
}

// removePlace drops the named place from the list, keeping any applied filter.
// Matched by name: the cursor indexes the filtered view and may have moved.
func (m *Model) removePlace(name string) {
	var kept []list.Item
	for _, it := range m.placeList.Items() {
		if p, ok := it.(placeItem); ok && p.place.Name == name {
			continue
		}
		kept = append(kept, it)
	}
	m.placeList.SetItems(kept)

	if m.placeList.FilterState() == list.FilterApplied {
		m.placeList.SetFilterText(m.placeList.FilterValue())
		if len(m.placeList.VisibleItems()) == 0 {
			m.placeList.ResetFilter()
		}
	}
}

// startFetch clears the previous error, enters loading and issues a combined
// fetch tagged with a new sequence number
func (m Model) startFetch(loc models.Location) (tea.Model, tea.Cmd) {
	if m.client == nil {
		m.err = owm.ErrMissingCredential()
		m.state = StateError
		return m, nil
	}

	m.seq++
	m.err = nil
	m.status = ""
	m.state = StateLoading
	m.lastLocation = &loc
	m.search.Blur()

	m.logger.Infow("fetching report", "location", loc.String(), "seq", m.seq)
	return m, tea.Batch(m.spinner.Tick, fetchReport(m.client, loc, m.seq))
}

func (m Model) handleReport(msg reportMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		m.logger.Debugw("dropping stale report", "seq", msg.seq, "current", m.seq)
		return m, nil
	}

	if msg.err != nil {
		m.weather = nil
		m.forecast = nil
		m.err = msg.err
		m.state = StateError
		m.logger.Errorw("report failed", "kind", owm.KindOf(msg.err), "error", msg.err)
		return m, nil
	}

	m.weather = msg.report.Weather
	m.forecast = msg.report.Forecast
	m.location = msg.report.Location
	m.lastUpdated = msg.report.FetchedAt
	m.state = StateDisplay
	return m, m.search.Focus()
}

// submittedLocation resolves a committed suggestion to its coordinates and
// free text to a city name lookup
func submittedLocation(msg autocomplete.SubmitMsg) models.Location {
	if s := msg.Suggestion; s != nil {
		loc := models.CoordinateLocation(s.Lat, s.Lon)
		loc.Query = msg.Query
		return loc
	}
	return models.CityLocation(msg.Query)
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch m.state {
	case StateSearch:
		body = m.viewSearch()
	case StateLoading:
		body = m.viewLoading()
	case StateDisplay:
		body = m.viewDisplay()
	case StateError:
		body = m.viewError()
	case StatePlaces:
		body = m.viewPlaces()
	}

	if m.zones != nil {
		return m.zones.Scan(body)
	}
	return body
}

func (m Model) header() []string {
	return []string{
		titleStyle.Render("☁ Weather Terminal"),
		mutedStyle.Render(fmt.Sprintf("Current conditions & forecast • units °%s", m.units)),
		"",
		searchBoxStyle.Render(m.search.View()),
	}
}

func (m Model) footer(help string) []string {
	var sections []string
	if m.status != "" {
		sections = append(sections, "", successStyle.Render(m.status))
	}
	return append(sections, helpStyle.Render(help))
}

// viewSearch renders the search view
func (m Model) viewSearch() string {
	sections := m.header()
	sections = append(sections, "", mutedStyle.Render("Examples: London | Paris, FR | Springfield, Illinois, US"))
	sections = append(sections, m.footer("Enter: Search • ↑/↓: Suggestions • Ctrl+P: Saved places • Ctrl+U: °C/°F • Ctrl+C: Quit")...)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewLoading renders the loading view
func (m Model) viewLoading() string {
	sections := m.header()
	target := ""
	if m.lastLocation != nil {
		target = " for " + m.lastLocation.String()
	}
	sections = append(sections, "", fmt.Sprintf("%s Fetching weather%s...", m.spinner.View(), target))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewError renders the error view
func (m Model) viewError() string {
	sections := m.header()

	errorMsg := "An unknown error occurred"
	if m.err != nil {
		errorMsg = owm.UserMessage(m.err)
	}
	sections = append(sections, "", errorStyle.Render("✗ "+errorMsg))

	help := "Type to search again • Esc: Back • Ctrl+C: Quit"
	if m.lastLocation != nil {
		help = "Ctrl+R: Try again • " + help
	}
	sections = append(sections, m.footer(help)...)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewDisplay renders the report
func (m Model) viewDisplay() string {
	sections := m.header()

	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.renderCurrentPane(), m.renderForecastPane())
	if m.width < 100 {
		panes = lipgloss.JoinVertical(lipgloss.Left, m.renderCurrentPane(), m.renderForecastPane())
	}
	sections = append(sections, "", panes)

	if !m.lastUpdated.IsZero() {
		sections = append(sections, mutedStyle.Render(fmt.Sprintf("%s • updated %s",
			m.location.String(), humanize.Time(m.lastUpdated))))
	}

	help := "Ctrl+R: Refresh • Ctrl+U: °C/°F • Ctrl+C: Quit"
	if m.repo != nil {
		help = "Ctrl+S: Save place • Ctrl+P: Saved places • " + help
	}
	sections = append(sections, m.footer(help)...)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewPlaces renders the saved places list
func (m Model) viewPlaces() string {
	var sections []string
	sections = append(sections, m.placeList.View())
	sections = append(sections, m.footer("Enter: Load • D: Delete • /: Filter • Esc: Back")...)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
