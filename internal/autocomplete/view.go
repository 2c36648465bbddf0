package autocomplete

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4A90E2")).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#00BFFF")).
				Bold(true)

	regionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

func (m Model) controlZone() string { return m.prefix + "control" }

func (m Model) itemZone(i int) string { return fmt.Sprintf("%sitem-%d", m.prefix, i) }

func (m Model) mark(id, v string) string {
	if m.zones == nil {
		return v
	}
	return m.zones.Mark(id, v)
}

// View renders the input and, when visible, the suggestion list beneath it
func (m Model) View() string {
	input := m.input.View()
	if !m.Visible() {
		return m.mark(m.controlZone(), input)
	}

	rows := make([]string, 0, len(m.suggestions))
	for i, s := range m.suggestions {
		rows = append(rows, m.mark(m.itemZone(i), m.renderItem(i == m.highlighted, s.Name, s.State, s.Country)))
	}

	list := listStyle.Render(strings.Join(rows, "\n"))
	return m.mark(m.controlZone(), lipgloss.JoinVertical(lipgloss.Left, input, list))
}

func (m Model) renderItem(selected bool, name, state, country string) string {
	region := country
	if state != "" {
		region = state + ", " + country
	}

	if selected {
		return selectedItemStyle.Render(fmt.Sprintf("› %s  %s", name, region))
	}
	return itemStyle.Render("  "+name) + "  " + regionStyle.Render(region)
}
