package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-assistant/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	defaultOpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"
	openMeteoTimeLayout     = "2006-01-02T15:04"
	openMeteoHourlyFields   = "temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,weathercode,is_day"
)

// OpenMeteoProvider implements weather.Provider for Open-Meteo. It needs no API key
// and always requests metric units.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	namer   LocationNamer
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(opts Options) *OpenMeteoProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenMeteoBaseURL
	}

	return &OpenMeteoProvider{
		name:    NameOpenMeteo,
		baseURL: strings.TrimRight(baseURL, "/"),
		namer:   opts.Namer,
		httpCfg: opts.httpConfig(),
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type omPayload struct {
	CurrentWeather *struct {
		Temperature *float64 `json:"temperature"`
		WindSpeed   *float64 `json:"windspeed"`
		Time        string   `json:"time"`
		WeatherCode *int     `json:"weathercode"`
		IsDay       int      `json:"is_day"`
	} `json:"current_weather"`
	Hourly struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		Apparent    []float64 `json:"apparent_temperature"`
		Humidity    []float64 `json:"relative_humidity_2m"`
		Pressure    []float64 `json:"surface_pressure"`
		WeatherCode []int     `json:"weathercode"`
		IsDay       []int     `json:"is_day"`
	} `json:"hourly"`
}

// complete reports whether every hourly series has one value per time slot.
func (p omPayload) complete() bool {
	n := len(p.Hourly.Time)
	h := p.Hourly
	return n > 0 && len(h.Temperature) == n && len(h.Apparent) == n && len(h.Humidity) == n &&
		len(h.Pressure) == n && len(h.WeatherCode) == n && len(h.IsDay) == n
}

// hourIndex returns the hourly row covering the current_weather time. Current
// readings come in quarter-hour steps, hourly rows on the hour.
func (p omPayload) hourIndex(current string) (int, error) {
	ts, err := time.ParseInLocation(openMeteoTimeLayout, current, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("%w: current_weather time: %v", ErrMalformedPayload, err)
	}
	ts = ts.Truncate(time.Hour)

	for i, t := range p.Hourly.Time {
		slot, err := time.ParseInLocation(openMeteoTimeLayout, t, time.UTC)
		if err != nil {
			return 0, fmt.Errorf("%w: hourly slot %d: %v", ErrMalformedPayload, i, err)
		}
		if slot.Equal(ts) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no hourly row for %s", ErrMalformedPayload, current)
}

func (p *OpenMeteoProvider) FetchCurrent(ctx context.Context, coord weather.Coordinate) (weather.Observation, error) {
	payload, err := p.fetch(ctx, coord, true)
	if err != nil {
		return weather.Observation{}, err
	}
	if payload.CurrentWeather == nil || !payload.complete() {
		return weather.Observation{}, fmt.Errorf("%w: missing current_weather or hourly series", ErrMalformedPayload)
	}

	cw := payload.CurrentWeather
	if cw.Temperature == nil || cw.WindSpeed == nil || cw.WeatherCode == nil {
		return weather.Observation{}, fmt.Errorf("%w: incomplete current_weather", ErrMalformedPayload)
	}
	i, err := payload.hourIndex(cw.Time)
	if err != nil {
		return weather.Observation{}, err
	}

	code := wmoIconCode(*cw.WeatherCode, cw.IsDay == 1)
	return weather.Observation{
		ConditionCode: code,
		Description:   weather.MapConditionToDescription(code),
		TemperatureC:  *cw.Temperature,
		FeelsLikeC:    payload.Hourly.Apparent[i],
		HumidityPct:   int(payload.Hourly.Humidity[i]),
		PressureHPa:   payload.Hourly.Pressure[i],
		WindSpeedKph:  *cw.WindSpeed,
		LocationName:  p.locationName(ctx, coord),
	}, nil
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, coord weather.Coordinate) (weather.Forecast, error) {
	payload, err := p.fetch(ctx, coord, false)
	if err != nil {
		return nil, err
	}
	if !payload.complete() {
		return nil, fmt.Errorf("%w: incomplete hourly series", ErrMalformedPayload)
	}

	h := payload.Hourly
	forecast := make(weather.Forecast, 0, len(h.Time))
	for i, t := range h.Time {
		ts, err := time.ParseInLocation(openMeteoTimeLayout, t, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: hourly slot %d: %v", ErrMalformedPayload, i, err)
		}
		code := wmoIconCode(h.WeatherCode[i], h.IsDay[i] == 1)
		forecast = append(forecast, weather.ForecastEntry{
			Timestamp:     ts,
			ConditionCode: code,
			Description:   weather.MapConditionToDescription(code),
			TemperatureC:  h.Temperature[i],
			FeelsLikeC:    h.Apparent[i],
		})
	}
	return forecast, nil
}

func (p *OpenMeteoProvider) fetch(ctx context.Context, coord weather.Coordinate, current bool) (omPayload, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", coord.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", coord.Longitude))
		values.Set("hourly", openMeteoHourlyFields)
		values.Set("timezone", "UTC")
		values.Set("windspeed_unit", "kmh")
		if current {
			values.Set("current_weather", "true")
			values.Set("forecast_days", "1")
		} else {
			values.Set("forecast_days", "5")
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return omPayload{}, err
	}
	defer resp.Body.Close()

	var payload omPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return omPayload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return payload, nil
}

// Open-Meteo payloads carry no place name.
func (p *OpenMeteoProvider) locationName(ctx context.Context, coord weather.Coordinate) string {
	if p.namer != nil {
		name, err := p.namer.ReverseName(ctx, coord)
		if err == nil && name != "" {
			return name
		}
		if err != nil {
			log.Printf("DEBUG: openmeteo: reverse lookup for %s failed: %v", coord, err)
		}
	}
	return coord.String()
}

// wmoIconCode translates a WMO weather code into the OpenWeather icon vocabulary.
func wmoIconCode(code int, day bool) string {
	var base string
	switch {
	case code == 0:
		base = "01"
	case code == 1:
		base = "02"
	case code == 2:
		base = "03"
	case code == 3:
		base = "04"
	case code == 45 || code == 48:
		base = "50"
	case (code >= 51 && code <= 57) || (code >= 80 && code <= 82):
		base = "09"
	case code >= 61 && code <= 67:
		base = "10"
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		base = "13"
	case code >= 95:
		base = "11"
	default:
		base = unknownConditionBase
	}
	if day {
		return base + "d"
	}
	return base + "n"
}

var _ weather.Provider = (*OpenMeteoProvider)(nil)
