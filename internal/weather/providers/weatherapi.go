package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/i474232898/weather-assistant/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	defaultWeatherAPIBaseURL = "https://api.weatherapi.com/v1"
	weatherAPIForecastDays   = 3
)

// WeatherAPIProvider implements weather.Provider and weather.CityProvider for WeatherAPI.com.
// WeatherAPI always reports metric fields, so the configured units only matter upstream.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(opts Options) *WeatherAPIProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultWeatherAPIBaseURL
	}

	return &WeatherAPIProvider{
		name:    NameWeatherAPI,
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: opts.httpConfig(),
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type wapiCondition struct {
	Text string `json:"text"`
	Code int    `json:"code"`
}

type wapiCurrent struct {
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Current *struct {
		TempC      *float64      `json:"temp_c"`
		FeelsLikeC *float64      `json:"feelslike_c"`
		Humidity   *float64      `json:"humidity"`
		WindKph    *float64      `json:"wind_kph"`
		PressureMb *float64      `json:"pressure_mb"`
		IsDay      int           `json:"is_day"`
		Condition  wapiCondition `json:"condition"`
	} `json:"current"`
}

// missing lists the fields an observation needs that the payload lacks.
func (w wapiCurrent) missing() []string {
	c := w.Current
	if c == nil {
		return []string{"current"}
	}
	var out []string
	for name, v := range map[string]*float64{
		"current.temp_c":      c.TempC,
		"current.feelslike_c": c.FeelsLikeC,
		"current.humidity":    c.Humidity,
		"current.wind_kph":    c.WindKph,
		"current.pressure_mb": c.PressureMb,
	} {
		if v == nil {
			out = append(out, name)
		}
	}
	if c.Condition.Code == 0 {
		out = append(out, "current.condition.code")
	}
	if c.Condition.Text == "" {
		out = append(out, "current.condition.text")
	}
	if w.Location.Name == "" {
		out = append(out, "location.name")
	}
	sort.Strings(out)
	return out
}

type wapiForecast struct {
	Forecast struct {
		ForecastDay []struct {
			Hour []struct {
				TimeEpoch  int64         `json:"time_epoch"`
				TempC      float64       `json:"temp_c"`
				FeelsLikeC float64       `json:"feelslike_c"`
				IsDay      int           `json:"is_day"`
				Condition  wapiCondition `json:"condition"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) FetchCurrent(ctx context.Context, coord weather.Coordinate) (weather.Observation, error) {
	// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
	return p.current(ctx, fmt.Sprintf("%.4f,%.4f", coord.Latitude, coord.Longitude))
}

func (p *WeatherAPIProvider) FetchCurrentByCity(ctx context.Context, city, country string) (weather.Observation, error) {
	q := city
	if country != "" {
		q = fmt.Sprintf("%s,%s", city, country)
	}
	return p.current(ctx, q)
}

func (p *WeatherAPIProvider) current(ctx context.Context, q string) (weather.Observation, error) {
	values := url.Values{}
	values.Set("q", q)

	var payload wapiCurrent
	if err := p.get(ctx, "/current.json", values, &payload); err != nil {
		return weather.Observation{}, err
	}
	if missing := payload.missing(); len(missing) > 0 {
		return weather.Observation{}, fmt.Errorf("%w: missing %s", ErrMalformedPayload, strings.Join(missing, ", "))
	}

	c := payload.Current
	return weather.Observation{
		ConditionCode: weatherAPIIconCode(c.Condition.Code, c.IsDay == 1),
		Description:   c.Condition.Text,
		TemperatureC:  *c.TempC,
		FeelsLikeC:    *c.FeelsLikeC,
		HumidityPct:   int(*c.Humidity),
		PressureHPa:   *c.PressureMb,
		WindSpeedKph:  *c.WindKph,
		LocationName:  payload.Location.Name,
	}, nil
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, coord weather.Coordinate) (weather.Forecast, error) {
	values := url.Values{}
	values.Set("q", fmt.Sprintf("%.4f,%.4f", coord.Latitude, coord.Longitude))
	values.Set("days", fmt.Sprintf("%d", weatherAPIForecastDays))

	var payload wapiForecast
	if err := p.get(ctx, "/forecast.json", values, &payload); err != nil {
		return nil, err
	}

	var forecast weather.Forecast
	for _, day := range payload.Forecast.ForecastDay {
		for _, h := range day.Hour {
			forecast = append(forecast, weather.ForecastEntry{
				Timestamp:     time.Unix(h.TimeEpoch, 0).UTC(),
				ConditionCode: weatherAPIIconCode(h.Condition.Code, h.IsDay == 1),
				Description:   h.Condition.Text,
				TemperatureC:  h.TempC,
				FeelsLikeC:    h.FeelsLikeC,
			})
		}
	}
	if len(forecast) == 0 {
		return nil, fmt.Errorf("%w: no forecast hours", ErrMalformedPayload)
	}

	return forecast, nil
}

func (p *WeatherAPIProvider) get(ctx context.Context, path string, values url.Values, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("weatherapi: %w", ErrMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("key", p.apiKey)

		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, q.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

// weatherAPIIconCode translates a WeatherAPI condition code into the OpenWeather icon vocabulary.
func weatherAPIIconCode(code int, day bool) string {
	var base string
	switch {
	case code == 1000:
		base = "01"
	case code == 1003:
		base = "02"
	case code == 1006:
		base = "03"
	case code == 1009:
		base = "04"
	case code == 1030 || code == 1135 || code == 1147:
		base = "50"
	case code == 1087 || (code >= 1273 && code <= 1282):
		base = "11"
	case code == 1066 || code == 1069 || code == 1072 || code == 1114 || code == 1117 ||
		(code >= 1204 && code <= 1237) || (code >= 1249 && code <= 1264):
		base = "13"
	case (code >= 1150 && code <= 1171) || (code >= 1240 && code <= 1246):
		base = "09"
	case code == 1063 || (code >= 1180 && code <= 1201):
		base = "10"
	default:
		// Unlisted codes still yield a valid icon.
		base = unknownConditionBase
	}
	if day {
		return base + "d"
	}
	return base + "n"
}

var (
	_ weather.Provider     = (*WeatherAPIProvider)(nil)
	_ weather.CityProvider = (*WeatherAPIProvider)(nil)
)
