// Package autocomplete is a Bubble Tea component for search-as-you-type city
// lookup. It debounces keystrokes, drops responses for queries the user has
// already typed past, and tracks keyboard and mouse selection.
package autocomplete

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/ngmaloney/weather-terminal/internal/models"
)

const (
	// DefaultDebounce is the quiet period after the last keystroke before a query is issued
	DefaultDebounce = 300 * time.Millisecond

	// MinQueryLength matches the client's short-query cutoff
	MinQueryLength = 2

	searchTimeout = 10 * time.Second
)

// SearchFunc looks up suggestions for query. It must not fail; problems yield an empty slice.
type SearchFunc func(ctx context.Context, query string, limit int) []models.GeoSuggestion

// SubmitMsg is emitted when the user commits a suggestion or submits free text.
// Suggestion is set only when a suggestion was committed.
type SubmitMsg struct {
	Query      string
	Suggestion *models.GeoSuggestion
}

// suggestionsMsg carries a search result tagged with the query and request
// generation that produced it
type suggestionsMsg struct {
	generation  int
	query       string
	suggestions []models.GeoSuggestion
}

// Model is the autocomplete state: the raw input, the last issued query, the
// suggestion list, its visibility and the highlighted index (-1 for none).
type Model struct {
	input  textinput.Model
	search SearchFunc
	limit  int

	debounce time.Duration
	timerID  int
	pending  *pendingTimer

	// generation advances whenever outstanding searches stop being wanted:
	// submit, commit, blur and reset
	generation int

	lastQuery   string
	suggestions []models.GeoSuggestion
	visible     bool
	highlighted int

	zones  *zone.Manager
	prefix string
}

type Option func(*Model)

// WithDebounce overrides DefaultDebounce
func WithDebounce(d time.Duration) Option {
	return func(m *Model) {
		m.debounce = d
	}
}

// WithLimit sets the maximum number of suggestions requested
func WithLimit(limit int) Option {
	return func(m *Model) {
		m.limit = limit
	}
}

// WithZones enables mouse support through the given zone manager. The parent
// view must pass its output through the manager's Scan.
func WithZones(zm *zone.Manager) Option {
	return func(m *Model) {
		m.zones = zm
		if zm != nil {
			m.prefix = zm.NewPrefix()
		}
	}
}

// WithPlaceholder sets the input placeholder
func WithPlaceholder(p string) Option {
	return func(m *Model) {
		m.input.Placeholder = p
	}
}

// New creates a focused autocomplete input backed by search
func New(search SearchFunc, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter city name..."
	ti.CharLimit = 100
	ti.Width = 60
	ti.Focus()

	m := Model{
		input:       ti,
		search:      search,
		debounce:    DefaultDebounce,
		highlighted: -1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Value returns the raw input text
func (m Model) Value() string { return m.input.Value() }

// Suggestions returns the current suggestion list
func (m Model) Suggestions() []models.GeoSuggestion { return m.suggestions }

// Visible reports whether the suggestion list is shown
func (m Model) Visible() bool { return m.visible && len(m.suggestions) > 0 }

// Highlighted returns the highlighted index, -1 when none
func (m Model) Highlighted() int { return m.highlighted }

// LastQuery returns the most recently issued query
func (m Model) LastQuery() string { return m.lastQuery }

// Focused reports whether the input has focus
func (m Model) Focused() bool { return m.input.Focused() }

// SetValue replaces the input text without triggering a search
func (m *Model) SetValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// SetWidth sets the input width
func (m *Model) SetWidth(w int) {
	m.input.Width = w
}

func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes focus and abandons any pending debounce or in-flight search
func (m *Model) Blur() {
	m.input.Blur()
	m.abandon()
}

// Reset clears the input and all suggestion state
func (m *Model) Reset() {
	m.input.Reset()
	m.abandon()
	m.clearSuggestions()
	m.lastQuery = ""
}

// Dismiss hides the list without clearing it
func (m *Model) Dismiss() {
	m.visible = false
}

// Select commits suggestion i, the same as highlighting it and pressing enter
func (m *Model) Select(i int) tea.Cmd {
	if i < 0 || i >= len(m.suggestions) {
		return nil
	}
	s := m.suggestions[i]
	name := s.DisplayName()

	m.abandon()
	m.input.SetValue(name)
	m.input.CursorEnd()
	m.clearSuggestions()
	// A committed value is not a pending query
	m.lastQuery = strings.TrimSpace(name)

	return submit(SubmitMsg{Query: name, Suggestion: &s})
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case debounceMsg:
		return m.handleDebounce(msg)

	case suggestionsMsg:
		m.handleSuggestions(msg)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if !m.input.Focused() {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyDown:
			m.moveDown()
			return m, nil
		case tea.KeyUp:
			m.moveUp()
			return m, nil
		case tea.KeyEsc:
			m.Dismiss()
			return m, nil
		case tea.KeyEnter:
			return m.handleEnter()
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		return m, tea.Batch(cmd, m.inputChanged())
	}
	return m, cmd
}

// inputChanged resets selection and either clears suggestions or restarts the debounce
func (m *Model) inputChanged() tea.Cmd {
	m.highlighted = -1
	m.cancelPending()

	query := strings.TrimSpace(m.input.Value())
	if utf8.RuneCountInString(query) < MinQueryLength {
		m.clearSuggestions()
		return nil
	}

	m.timerID++
	m.pending = newPendingTimer(m.timerID, m.debounce)
	return m.pending.wait
}

func (m Model) handleDebounce(msg debounceMsg) (Model, tea.Cmd) {
	if msg.id != m.timerID || !m.input.Focused() {
		return m, nil
	}
	m.pending = nil

	query := strings.TrimSpace(m.input.Value())
	if utf8.RuneCountInString(query) < MinQueryLength || m.search == nil {
		return m, nil
	}
	m.lastQuery = query
	return m, searchCmd(m.search, m.generation, query, m.limit)
}

// handleSuggestions applies a response only if no submit, commit or blur
// happened since it was issued and its query still matches the input
func (m *Model) handleSuggestions(msg suggestionsMsg) {
	if msg.generation != m.generation || msg.query != strings.TrimSpace(m.input.Value()) {
		return
	}
	m.suggestions = msg.suggestions
	m.visible = len(msg.suggestions) > 0
	m.highlighted = -1
}

func (m Model) handleEnter() (Model, tea.Cmd) {
	if m.Visible() && m.highlighted >= 0 && m.highlighted < len(m.suggestions) {
		cmd := m.Select(m.highlighted)
		return m, cmd
	}

	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return m, nil
	}
	m.abandon()
	m.clearSuggestions()
	return m, submit(SubmitMsg{Query: query})
}

func (m *Model) moveDown() {
	if len(m.suggestions) == 0 {
		return
	}
	if !m.visible {
		m.visible = true
		return
	}
	if m.highlighted < len(m.suggestions)-1 {
		m.highlighted++
	}
}

func (m *Model) moveUp() {
	if !m.Visible() {
		return
	}
	if m.highlighted > 0 {
		m.highlighted--
	} else {
		m.highlighted = -1
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.zones == nil || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if m.Visible() {
		for i := range m.suggestions {
			if m.zones.Get(m.itemZone(i)).InBounds(msg) {
				cmd := m.Select(i)
				return m, cmd
			}
		}
	}

	if !m.zones.Get(m.controlZone()).InBounds(msg) {
		m.Dismiss()
	}
	return m, nil
}

func (m *Model) cancelPending() {
	m.pending.stop()
	m.pending = nil
}

// abandon cancels the pending debounce and invalidates queued debounce
// messages and in-flight responses
func (m *Model) abandon() {
	m.cancelPending()
	m.timerID++
	m.generation++
}

func (m *Model) clearSuggestions() {
	m.suggestions = nil
	m.visible = false
	m.highlighted = -1
}

func searchCmd(search SearchFunc, generation int, query string, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		return suggestionsMsg{generation: generation, query: query, suggestions: search(ctx, query, limit)}
	}
}

func submit(msg SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}
