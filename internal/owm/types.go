package owm

import "github.com/ngmaloney/weather-terminal/internal/models"

// Internal types for OpenWeatherMap API responses

type coordResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type conditionResponse struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainResponse struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

type windResponse struct {
	Speed float64  `json:"speed"`
	Deg   float64  `json:"deg"`
	Gust  *float64 `json:"gust,omitempty"`
}

type weatherResponse struct {
	Coord      coordResponse       `json:"coord"`
	Weather    []conditionResponse `json:"weather"`
	Main       mainResponse        `json:"main"`
	Visibility int                 `json:"visibility"`
	Wind       windResponse        `json:"wind"`
	Clouds     struct {
		All int `json:"all"`
	} `json:"clouds"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	ID       int64  `json:"id"`
	Name     string `json:"name"`
}

type forecastResponse struct {
	List []struct {
		Dt         int64               `json:"dt"`
		Main       mainResponse        `json:"main"`
		Weather    []conditionResponse `json:"weather"`
		Wind       windResponse        `json:"wind"`
		Visibility int                 `json:"visibility"`
		Pop        float64             `json:"pop"`
		DtTxt      string              `json:"dt_txt"`
	} `json:"list"`
	City struct {
		ID         int64         `json:"id"`
		Name       string        `json:"name"`
		Coord      coordResponse `json:"coord"`
		Country    string        `json:"country"`
		Population int64         `json:"population"`
		Timezone   int           `json:"timezone"`
		Sunrise    int64         `json:"sunrise"`
		Sunset     int64         `json:"sunset"`
	} `json:"city"`
}

type geoResponse struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
}

func conditionsFromOWM(in []conditionResponse) []models.Condition {
	out := make([]models.Condition, 0, len(in))
	for _, c := range in {
		out = append(out, models.Condition{
			ID:          c.ID,
			Main:        c.Main,
			Description: c.Description,
			Icon:        c.Icon,
		})
	}
	return out
}

func readingFromOWM(m mainResponse) models.Reading {
	return models.Reading{
		Temperature: m.Temp,
		FeelsLike:   m.FeelsLike,
		TempMin:     m.TempMin,
		TempMax:     m.TempMax,
		Pressure:    m.Pressure,
		Humidity:    m.Humidity,
	}
}

func windFromOWM(w windResponse) models.WindData {
	wind := models.WindData{Speed: w.Speed, Direction: w.Deg}
	if w.Gust != nil {
		wind.GustSpeed = *w.Gust
		wind.HasGust = true
	}
	return wind
}

func (r *weatherResponse) toSnapshot() *models.WeatherSnapshot {
	return &models.WeatherSnapshot{
		Coordinates: models.Coordinates{Lat: r.Coord.Lat, Lon: r.Coord.Lon},
		Conditions:  conditionsFromOWM(r.Weather),
		Main:        readingFromOWM(r.Main),
		Wind:        windFromOWM(r.Wind),
		Clouds:      r.Clouds.All,
		Visibility:  r.Visibility,
		Timezone:    r.Timezone,
		ObservedAt:  r.Dt,
		Name:        r.Name,
		Country:     r.Sys.Country,
		Sunrise:     r.Sys.Sunrise,
		Sunset:      r.Sys.Sunset,
	}
}

func (r *forecastResponse) toSeries() *models.ForecastSeries {
	series := &models.ForecastSeries{
		Entries: make([]models.ForecastEntry, 0, len(r.List)),
		City: models.CityInfo{
			ID:          r.City.ID,
			Name:        r.City.Name,
			Coordinates: models.Coordinates{Lat: r.City.Coord.Lat, Lon: r.City.Coord.Lon},
			Country:     r.City.Country,
			Population:  r.City.Population,
			Timezone:    r.City.Timezone,
			Sunrise:     r.City.Sunrise,
			Sunset:      r.City.Sunset,
		},
	}

	for _, item := range r.List {
		series.Entries = append(series.Entries, models.ForecastEntry{
			Time:          item.Dt,
			TimeText:      item.DtTxt,
			Main:          readingFromOWM(item.Main),
			Conditions:    conditionsFromOWM(item.Weather),
			Wind:          windFromOWM(item.Wind),
			Visibility:    item.Visibility,
			Precipitation: item.Pop,
		})
	}
	return series
}
