package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/i474232898/weather-assistant/internal/weather"
)

// Provider names accepted by New.
const (
	NameOpenWeather = "openweathermap"
	NameWeatherAPI  = "weatherapi"
	NameOpenMeteo   = "openmeteo"
)

// unknownConditionBase is the icon code base for provider codes with no mapping
// ("04", broken clouds).
const unknownConditionBase = "04"

// LocationNamer looks up a human-readable place name for a coordinate.
type LocationNamer interface {
	ReverseName(ctx context.Context, coord weather.Coordinate) (string, error)
}

// Options configures a provider. Zero values pick each provider's defaults.
type Options struct {
	Client  *http.Client
	APIKey  string
	BaseURL string
	Units   string

	Backoff BackoffConfig

	// RateLimit is the sustained request rate; zero disables the limiter.
	RateLimit rate.Limit
	Burst     int

	// Namer fills in place names for providers whose payloads omit them.
	Namer LocationNamer
}

func (o Options) httpConfig() HTTPClientConfig {
	client := o.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	cfg := HTTPClientConfig{
		Client:  client,
		Backoff: o.Backoff,
	}
	if o.RateLimit > 0 {
		burst := o.Burst
		if burst <= 0 {
			burst = 1
		}
		cfg.Limiter = rate.NewLimiter(o.RateLimit, burst)
	}
	return cfg
}

func (o Options) units() string {
	if o.Units == "" {
		return UnitsMetric
	}
	return o.Units
}

// New builds the named provider.
func New(name string, opts Options) (weather.Provider, error) {
	if err := validUnits(opts.units()); err != nil {
		return nil, err
	}

	switch name {
	case NameOpenWeather, "":
		return NewOpenWeatherProvider(opts), nil
	case NameWeatherAPI:
		return NewWeatherAPIProvider(opts), nil
	case NameOpenMeteo:
		return NewOpenMeteoProvider(opts), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", name)
	}
}
