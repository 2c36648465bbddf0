package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/places"
)

type placesFetchedMsg struct {
	places []models.Place
	err    error
}

type placeSavedMsg struct {
	place *models.Place
	err   error
}

type placeDeletedMsg struct {
	name string
	err  error
}

type unitsSavedMsg struct {
	err error
}

func fetchSavedPlaces(r *places.Repository) tea.Cmd {
	return func() tea.Msg {
		list, err := r.ListPlaces()
		return placesFetchedMsg{places: list, err: err}
	}
}

func savePlace(r *places.Repository, place models.Place) tea.Cmd {
	return func() tea.Msg {
		err := r.SavePlace(&place)
		return placeSavedMsg{place: &place, err: err}
	}
}

func deletePlace(r *places.Repository, name string) tea.Cmd {
	return func() tea.Msg {
		err := r.DeletePlace(name)
		return placeDeletedMsg{name: name, err: err}
	}
}

func saveUnits(r *places.Repository, u models.TemperatureUnit) tea.Cmd {
	return func() tea.Msg {
		return unitsSavedMsg{err: r.SetUnits(u)}
	}
}
