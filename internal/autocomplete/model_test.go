package autocomplete

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/ngmaloney/weather-terminal/internal/models"
)

// fakeSearch records queries and returns canned suggestions per query
type fakeSearch struct {
	queries []string
	results map[string][]models.GeoSuggestion
}

func (f *fakeSearch) search(ctx context.Context, query string, limit int) []models.GeoSuggestion {
	f.queries = append(f.queries, query)
	if r, ok := f.results[query]; ok {
		return r
	}
	return []models.GeoSuggestion{}
}

var (
	londonGB = models.GeoSuggestion{Name: "London", State: "England", Country: "GB", Lat: 51.5073, Lon: -0.1276}
	londonCA = models.GeoSuggestion{Name: "London", State: "Ontario", Country: "CA", Lat: 42.9834, Lon: -81.233}
	lorient  = models.GeoSuggestion{Name: "Lorient", Country: "FR", Lat: 47.74, Lon: -3.36}
)

func typeRunes(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func key(m Model, t tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: t})
}

// fire delivers the debounce for the current timer and runs the resulting search
func fire(t *testing.T, m Model) (Model, tea.Msg) {
	t.Helper()
	m, cmd := m.Update(debounceMsg{id: m.timerID})
	if cmd == nil {
		t.Fatal("debounce produced no search command")
	}
	return m, cmd()
}

// withSuggestions returns a model showing list for query
func withSuggestions(t *testing.T, query string, list ...models.GeoSuggestion) (Model, *fakeSearch) {
	t.Helper()
	fs := &fakeSearch{results: map[string][]models.GeoSuggestion{query: list}}
	m := New(fs.search)
	m = typeRunes(m, query)
	m, msg := fire(t, m)
	m, _ = m.Update(msg)
	if !m.Visible() {
		t.Fatalf("suggestions for %q not visible", query)
	}
	return m, fs
}

func submitted(t *testing.T, cmd tea.Cmd) SubmitMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	msg, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("command returned %T, want SubmitMsg", cmd())
	}
	return msg
}

func TestNew(t *testing.T) {
	m := New(nil)

	if m.Highlighted() != -1 {
		t.Errorf("Highlighted() = %d, want -1", m.Highlighted())
	}
	if m.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want %v", m.debounce, DefaultDebounce)
	}
	if !m.Focused() {
		t.Error("input should start focused")
	}
	if m.Visible() {
		t.Error("list should start hidden")
	}
}

func TestDebounce_OnlyLatestKeystrokeQueries(t *testing.T) {
	fs := &fakeSearch{}
	m := New(fs.search)

	m = typeRunes(m, "L")
	if m.pending != nil {
		t.Error("single character should not start a debounce timer")
	}

	m = typeRunes(m, "o")
	first := m.pending
	if first == nil {
		t.Fatal("two characters should start a debounce timer")
	}
	firstID := m.timerID

	m = typeRunes(m, "n")
	if !first.isStopped() {
		t.Error("previous timer should be cancelled when a new one starts")
	}
	if m.pending == first || m.pending.id != m.timerID {
		t.Error("pending timer should be replaced by the latest one")
	}

	// The cancelled timer's message is ignored even if it was already queued
	m, cmd := m.Update(debounceMsg{id: firstID})
	if cmd != nil {
		t.Error("stale debounce should not issue a query")
	}

	m, msg := fire(t, m)
	if len(fs.queries) != 1 || fs.queries[0] != "Lon" {
		t.Errorf("queries = %v, want [Lon]", fs.queries)
	}
	if m.LastQuery() != "Lon" {
		t.Errorf("LastQuery() = %q, want Lon", m.LastQuery())
	}
	if sm, ok := msg.(suggestionsMsg); !ok || sm.query != "Lon" {
		t.Errorf("search result = %#v, want tagged with Lon", msg)
	}
}

func TestPendingTimer(t *testing.T) {
	p := newPendingTimer(7, time.Millisecond)
	if msg, ok := p.wait().(debounceMsg); !ok || msg.id != 7 {
		t.Errorf("wait() = %#v, want debounceMsg{7}", msg)
	}

	p = newPendingTimer(8, time.Hour)
	p.stop()
	p.stop()
	if msg := p.wait(); msg != nil {
		t.Errorf("stopped timer wait() = %#v, want nil", msg)
	}

	var nilTimer *pendingTimer
	nilTimer.stop()
}

func TestShortInputClearsSuggestions(t *testing.T) {
	m, _ := withSuggestions(t, "Lon", londonGB, londonCA)

	m, _ = key(m, tea.KeyBackspace)
	m, _ = key(m, tea.KeyBackspace)

	if m.Value() != "L" {
		t.Fatalf("Value() = %q, want L", m.Value())
	}
	if len(m.Suggestions()) != 0 || m.Visible() {
		t.Error("suggestions should be cleared below the minimum length")
	}
	if m.pending != nil {
		t.Error("no timer should be pending below the minimum length")
	}

	// An in-flight response for an old query is dropped
	m, _ = m.Update(suggestionsMsg{query: "Lo", suggestions: []models.GeoSuggestion{lorient}})
	if len(m.Suggestions()) != 0 {
		t.Error("response for abandoned query should be discarded")
	}
}

func TestStaleResponseDoesNotOverwrite(t *testing.T) {
	fs := &fakeSearch{results: map[string][]models.GeoSuggestion{
		"Lo":  {lorient},
		"Lon": {londonGB, londonCA},
	}}
	m := New(fs.search)

	m = typeRunes(m, "Lo")
	m, loMsg := fire(t, m)

	m = typeRunes(m, "n")
	m, lonMsg := fire(t, m)

	// "Lon" resolves first, then the slow "Lo" response arrives
	m, _ = m.Update(lonMsg)
	m, _ = m.Update(loMsg)

	got := m.Suggestions()
	if len(got) != 2 || got[0] != londonGB || got[1] != londonCA {
		t.Errorf("Suggestions() = %v, want London results", got)
	}
	if !m.Visible() {
		t.Error("list should remain visible")
	}
}

func TestEmptyResponseHidesList(t *testing.T) {
	fs := &fakeSearch{}
	m := New(fs.search)
	m = typeRunes(m, "Zzq")
	m, msg := fire(t, m)
	m, _ = m.Update(msg)

	if m.Visible() {
		t.Error("empty result should not show the list")
	}
}

func TestKeyboardNavigation(t *testing.T) {
	m, _ := withSuggestions(t, "Lon", londonGB, londonCA)

	tests := []struct {
		key  tea.KeyType
		want int
	}{
		{tea.KeyDown, 0},
		{tea.KeyDown, 1},
		{tea.KeyDown, 1}, // clamped at the last index
		{tea.KeyUp, 0},
		{tea.KeyUp, -1}, // no wraparound
		{tea.KeyUp, -1},
		{tea.KeyDown, 0},
	}

	for i, tt := range tests {
		m, _ = key(m, tt.key)
		if m.Highlighted() != tt.want {
			t.Errorf("step %d: Highlighted() = %d, want %d", i, m.Highlighted(), tt.want)
		}
	}

	if m.Value() != "Lon" {
		t.Errorf("navigation should not edit the input, got %q", m.Value())
	}
}

func TestTypingResetsHighlight(t *testing.T) {
	m, _ := withSuggestions(t, "Lon", londonGB, londonCA)
	m, _ = key(m, tea.KeyDown)

	m = typeRunes(m, "d")
	if m.Highlighted() != -1 {
		t.Errorf("Highlighted() = %d, want -1 after typing", m.Highlighted())
	}
}

func TestEnterCommitsHighlightedSuggestion(t *testing.T) {
	m, _ := withSuggestions(t, "Lon", londonGB, londonCA)
	m, _ = key(m, tea.KeyDown)
	m, _ = key(m, tea.KeyDown)

	m, cmd := key(m, tea.KeyEnter)
	msg := submitted(t, cmd)

	if msg.Query != "London, Ontario, CA" {
		t.Errorf("Query = %q, want 'London, Ontario, CA'", msg.Query)
	}
	if msg.Suggestion == nil || *msg.Suggestion != londonCA {
		t.Errorf("Suggestion = %v, want London CA", msg.Suggestion)
	}
	if m.Value() != "London, Ontario, CA" {
		t.Errorf("Value() = %q, want committed display name", m.Value())
	}
	if len(m.Suggestions()) != 0 || m.Visible() {
		t.Error("commit should clear suggestions")
	}
	if m.pending != nil {
		t.Error("commit should not start a new search")
	}
}

func TestCommitDisplayNameWithoutState(t *testing.T) {
	m, _ := withSuggestions(t, "Lor", lorient)
	m, _ = key(m, tea.KeyDown)
	_, cmd := key(m, tea.KeyEnter)

	if got := submitted(t, cmd).Query; got != "Lorient, FR" {
		t.Errorf("Query = %q, want 'Lorient, FR'", got)
	}
}

func TestEnterWithoutHighlightSubmitsInput(t *testing.T) {
	m, _ := withSuggestions(t, "Lon", londonGB, londonCA)
	m = typeRunes(m, "don  ")

	m, cmd := key(m, tea.KeyEnter)
	msg := submitted(t, cmd)

	if msg.Query != "London" {
		t.Errorf("Query = %q, want trimmed 'London'", msg.Query)
	}
	if msg.Suggestion != nil {
		t.Error("free-text submit should not carry a suggestion")
	}
	if m.Visible() {
		t.Error("submit should hide suggestions")
	}
}

func TestEnterWithBlankInputDoesNothing(t *testing.T) {
	m := New(nil)
	m = typeRunes(m, "   ")

	_, cmd := key(m, tea.KeyEnter)
	if cmd != nil {
		t.Error("blank input should not submit")
	}
}

func TestEscapeHidesWithoutClearing(t *testing.T) {
	m, _ := withSuggestions(t, "Lon", londonGB, londonCA)
	m, _ = key(m, tea.KeyDown)

	m, _ = key(m, tea.KeyEsc)

	if m.Visible() {
		t.Error("Esc should hide the list")
	}
	if len(m.Suggestions()) != 2 {
		t.Errorf("Esc should keep suggestions, got %d", len(m.Suggestions()))
	}
	if m.Value() != "Lon" {
		t.Errorf("Esc should keep input, got %q", m.Value())
	}

	// Arrow keys do nothing while hidden except re-showing on down
	m, _ = key(m, tea.KeyUp)
	if m.Visible() {
		t.Error("Up should not re-show the list")
	}
	m, _ = key(m, tea.KeyDown)
	if !m.Visible() {
		t.Error("Down should re-show a hidden non-empty list")
	}
}

func TestEnterAfterEscapeSubmitsInput(t *testing.T) {
	m, _ := withSuggestions(t, "Lon", londonGB, londonCA)
	m, _ = key(m, tea.KeyDown)
	m, _ = key(m, tea.KeyEsc)

	_, cmd := key(m, tea.KeyEnter)
	if got := submitted(t, cmd); got.Query != "Lon" || got.Suggestion != nil {
		t.Errorf("submit = %+v, want raw input", got)
	}
}

func TestSelectIgnoresHighlight(t *testing.T) {
	m, _ := withSuggestions(t, "Lon", londonGB, londonCA)
	m, _ = key(m, tea.KeyDown) // highlight London GB

	cmd := m.Select(1)
	if got := submitted(t, cmd); got.Query != "London, Ontario, CA" {
		t.Errorf("Select(1) Query = %q", got.Query)
	}
	if m.Select(5) != nil {
		t.Error("Select() out of range should do nothing")
	}
}

func TestDismissAndReset(t *testing.T) {
	m, _ := withSuggestions(t, "Lon", londonGB)

	m.Dismiss()
	if m.Visible() || len(m.Suggestions()) != 1 {
		t.Error("Dismiss() should hide without clearing")
	}

	m.Reset()
	if m.Value() != "" || len(m.Suggestions()) != 0 || m.LastQuery() != "" {
		t.Error("Reset() should clear input and suggestions")
	}
}

func TestBlurIgnoresKeys(t *testing.T) {
	m := New(nil)
	m.Blur()

	m = typeRunes(m, "Lon")
	if m.Value() != "" {
		t.Errorf("blurred input accepted text: %q", m.Value())
	}
}

func TestSubmitDropsInFlightSuggestions(t *testing.T) {
	fs := &fakeSearch{results: map[string][]models.GeoSuggestion{"Lon": {londonGB, londonCA}}}
	m := New(fs.search)
	m = typeRunes(m, "Lon")
	m, inFlight := fire(t, m)

	m, cmd := key(m, tea.KeyEnter)
	if got := submitted(t, cmd); got.Query != "Lon" {
		t.Fatalf("submitted %q, want Lon", got.Query)
	}

	// The input still reads "Lon" but the search was for a query already submitted
	m, _ = m.Update(inFlight)
	if m.Visible() || len(m.Suggestions()) != 0 {
		t.Errorf("in-flight response re-opened the list: visible=%v suggestions=%d", m.Visible(), len(m.Suggestions()))
	}
}

func TestCommitDropsInFlightSuggestions(t *testing.T) {
	m, fs := withSuggestions(t, "Lon", londonGB, londonCA)
	fs.results["Lond"] = []models.GeoSuggestion{londonGB}
	m = typeRunes(m, "d")
	m, inFlight := fire(t, m)

	m.Select(0)
	m.SetValue("Lond")
	m, _ = m.Update(inFlight)
	if m.Visible() {
		t.Error("response issued before a commit should be discarded")
	}
}

func TestBlurDropsQueuedDebounceAndResponses(t *testing.T) {
	fs := &fakeSearch{results: map[string][]models.GeoSuggestion{"Lon": {londonGB}}}
	m := New(fs.search)
	m = typeRunes(m, "Lon")
	queued := debounceMsg{id: m.timerID}

	m.Blur()
	m, cmd := m.Update(queued)
	if cmd != nil || len(fs.queries) != 0 {
		t.Errorf("debounce after blur issued a query: %v", fs.queries)
	}

	// A search that was already running when focus left is dropped too
	m.Focus()
	m = typeRunes(m, "x")
	m, _ = key(m, tea.KeyBackspace)
	m, inFlight := fire(t, m)
	m.Blur()
	m.Focus()
	m, _ = m.Update(inFlight)
	if m.Visible() {
		t.Error("response issued before blur should be discarded")
	}
}

func TestDebounceWhileBlurredIsIgnored(t *testing.T) {
	fs := &fakeSearch{}
	m := New(fs.search)
	m = typeRunes(m, "Lon")
	m.input.Blur()

	_, cmd := m.Update(debounceMsg{id: m.timerID})
	if cmd != nil {
		t.Error("blurred input should not search")
	}
}

func TestResetDropsInFlightSuggestions(t *testing.T) {
	fs := &fakeSearch{results: map[string][]models.GeoSuggestion{"Lon": {londonGB}}}
	m := New(fs.search)
	m = typeRunes(m, "Lon")
	m, inFlight := fire(t, m)

	m.Reset()
	m = typeRunes(m, "Lon")
	m, _ = m.Update(inFlight)
	if m.Visible() {
		t.Error("response issued before Reset() should be discarded")
	}
}

// zoned renders m through zm and waits for the zone worker to record the
// control zone and every visible item
func zoned(t *testing.T, zm *zone.Manager, m Model) {
	t.Helper()
	zm.Scan(m.View())

	ids := []string{m.controlZone()}
	if m.Visible() {
		for i := range m.suggestions {
			ids = append(ids, m.itemZone(i))
		}
	}
	deadline := time.Now().Add(2 * time.Second)
	for _, id := range ids {
		for zm.Get(id).IsZero() {
			if time.Now().After(deadline) {
				t.Fatalf("zone %s never recorded", id)
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func withZonedSuggestions(t *testing.T, list ...models.GeoSuggestion) (Model, *zone.Manager) {
	t.Helper()
	zm := zone.New()
	t.Cleanup(zm.Close)

	fs := &fakeSearch{results: map[string][]models.GeoSuggestion{"Lon": list}}
	m := New(fs.search, WithZones(zm))
	m = typeRunes(m, "Lon")
	m, msg := fire(t, m)
	m, _ = m.Update(msg)
	if !m.Visible() {
		t.Fatal("suggestions not visible")
	}
	zoned(t, zm, m)
	return m, zm
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestClickSuggestionCommitsIt(t *testing.T) {
	m, zm := withZonedSuggestions(t, londonGB, londonCA)
	m, _ = key(m, tea.KeyDown) // highlight London GB; the click picks the other row
	zoned(t, zm, m)

	z := zm.Get(m.itemZone(1))
	m, cmd := m.Update(press(z.StartX, z.StartY))

	msg := submitted(t, cmd)
	if msg.Suggestion == nil || *msg.Suggestion != londonCA {
		t.Errorf("clicked suggestion = %v, want London CA", msg.Suggestion)
	}
	if msg.Query != "London, Ontario, CA" {
		t.Errorf("Query = %q", msg.Query)
	}
	if m.Visible() || len(m.Suggestions()) != 0 {
		t.Error("click commit should clear suggestions")
	}
}

func TestClickOutsideHidesList(t *testing.T) {
	m, zm := withZonedSuggestions(t, londonGB, londonCA)

	control := zm.Get(m.controlZone())
	m, cmd := m.Update(press(control.EndX+5, control.EndY+5))
	if cmd != nil {
		t.Error("click outside should not submit")
	}
	if m.Visible() {
		t.Error("click outside should hide the list")
	}
	if len(m.Suggestions()) != 2 || m.Value() != "Lon" {
		t.Error("click outside should keep suggestions and input")
	}
}

func TestClickInsideControlKeepsList(t *testing.T) {
	m, zm := withZonedSuggestions(t, londonGB)

	control := zm.Get(m.controlZone())
	m, cmd := m.Update(press(control.StartX, control.StartY))
	if cmd != nil || !m.Visible() {
		t.Error("click on the input should leave the list open")
	}
}

func TestMouseWithoutZonesIsIgnored(t *testing.T) {
	m, _ := withSuggestions(t, "Lon", londonGB)

	m, cmd := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd != nil || !m.Visible() {
		t.Error("mouse should be ignored without a zone manager")
	}
}

func TestView(t *testing.T) {
	m, _ := withSuggestions(t, "Lon", londonGB, londonCA)
	m, _ = key(m, tea.KeyDown)

	view := m.View()
	for _, want := range []string{"London", "England, GB", "Ontario, CA"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m.Dismiss()
	if strings.Contains(m.View(), "Ontario") {
		t.Error("hidden list should not render")
	}
}
