package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-assistant/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	defaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	openWeatherSlotLayout     = "2006-01-02 15:04:05"
)

// OpenWeatherProvider implements weather.Provider and weather.CityProvider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	units   string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(opts Options) *OpenWeatherProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenWeatherBaseURL
	}

	return &OpenWeatherProvider{
		name:    NameOpenWeather,
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		units:   opts.units(),
		httpCfg: opts.httpConfig(),
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owmCondition struct {
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Pointers tell an absent field apart from a real zero reading.
type owmMain struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	Humidity  *float64 `json:"humidity"`
	Pressure  *float64 `json:"pressure"`
}

type owmCurrent struct {
	Weather []owmCondition `json:"weather"`
	Main    *owmMain       `json:"main"`
	Wind    *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

// missing lists the fields an observation needs that the payload lacks.
func (c owmCurrent) missing() []string {
	var out []string
	if len(c.Weather) == 0 {
		return append(out, "weather")
	}
	if c.Weather[0].Icon == "" {
		out = append(out, "weather.icon")
	}
	if c.Weather[0].Description == "" {
		out = append(out, "weather.description")
	}
	if c.Main == nil {
		out = append(out, "main")
	} else {
		if c.Main.Temp == nil {
			out = append(out, "main.temp")
		}
		if c.Main.FeelsLike == nil {
			out = append(out, "main.feels_like")
		}
		if c.Main.Humidity == nil {
			out = append(out, "main.humidity")
		}
		if c.Main.Pressure == nil {
			out = append(out, "main.pressure")
		}
	}
	if c.Wind == nil || c.Wind.Speed == nil {
		out = append(out, "wind.speed")
	}
	if c.Name == "" {
		out = append(out, "name")
	}
	return out
}

type owmForecast struct {
	List []struct {
		DtTxt   string         `json:"dt_txt"`
		Weather []owmCondition `json:"weather"`
		Main    *owmMain       `json:"main"`
	} `json:"list"`
}

func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, coord weather.Coordinate) (weather.Observation, error) {
	values := p.coordValues(coord)
	var payload owmCurrent
	if err := p.get(ctx, "/weather", values, &payload); err != nil {
		return weather.Observation{}, err
	}
	return p.toObservation(payload)
}

// FetchCurrentByCity queries the current-weather endpoint with q=city[,country].
func (p *OpenWeatherProvider) FetchCurrentByCity(ctx context.Context, city, country string) (weather.Observation, error) {
	q := city
	if country != "" {
		q = fmt.Sprintf("%s,%s", city, country)
	}
	values := url.Values{}
	values.Set("q", q)

	var payload owmCurrent
	if err := p.get(ctx, "/weather", values, &payload); err != nil {
		return weather.Observation{}, err
	}
	return p.toObservation(payload)
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, coord weather.Coordinate) (weather.Forecast, error) {
	values := p.coordValues(coord)
	var payload owmForecast
	if err := p.get(ctx, "/forecast", values, &payload); err != nil {
		return nil, err
	}

	if len(payload.List) == 0 {
		return nil, fmt.Errorf("%w: empty forecast list", ErrMalformedPayload)
	}

	forecast := make(weather.Forecast, 0, len(payload.List))
	for i, item := range payload.List {
		if len(item.Weather) == 0 || item.Weather[0].Icon == "" || item.Main == nil ||
			item.Main.Temp == nil || item.Main.FeelsLike == nil {
			return nil, fmt.Errorf("%w: forecast slot %d lacks weather or main", ErrMalformedPayload, i)
		}
		ts, err := time.ParseInLocation(openWeatherSlotLayout, item.DtTxt, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: forecast slot %d: %v", ErrMalformedPayload, i, err)
		}
		forecast = append(forecast, weather.ForecastEntry{
			Timestamp:     ts,
			ConditionCode: item.Weather[0].Icon,
			Description:   item.Weather[0].Description,
			TemperatureC:  toCelsius(*item.Main.Temp, p.units),
			FeelsLikeC:    toCelsius(*item.Main.FeelsLike, p.units),
		})
	}

	return forecast, nil
}

func (p *OpenWeatherProvider) coordValues(coord weather.Coordinate) url.Values {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%.4f", coord.Latitude))
	values.Set("lon", fmt.Sprintf("%.4f", coord.Longitude))
	return values
}

func (p *OpenWeatherProvider) get(ctx context.Context, path string, values url.Values, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("openweather: %w", ErrMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("appid", p.apiKey)
		q.Set("units", p.units)

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

func (p *OpenWeatherProvider) toObservation(payload owmCurrent) (weather.Observation, error) {
	if missing := payload.missing(); len(missing) > 0 {
		return weather.Observation{}, fmt.Errorf("%w: missing %s", ErrMalformedPayload, strings.Join(missing, ", "))
	}

	m := payload.Main
	return weather.Observation{
		ConditionCode: payload.Weather[0].Icon,
		Description:   payload.Weather[0].Description,
		TemperatureC:  toCelsius(*m.Temp, p.units),
		FeelsLikeC:    toCelsius(*m.FeelsLike, p.units),
		HumidityPct:   int(*m.Humidity),
		PressureHPa:   *m.Pressure,
		WindSpeedKph:  toKph(*payload.Wind.Speed, p.units),
		LocationName:  payload.Name,
	}, nil
}

var (
	_ weather.Provider     = (*OpenWeatherProvider)(nil)
	_ weather.CityProvider = (*OpenWeatherProvider)(nil)
)
