package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-assistant/internal/common"
	"github.com/i474232898/weather-assistant/internal/samples"
	"github.com/i474232898/weather-assistant/internal/weather"
)

type AppConfig struct {
	// Weather provider.
	Provider       string `validate:"oneof=openweathermap weatherapi openmeteo"`
	WeatherAPIKey  string
	WeatherBaseURL string `validate:"omitempty,url"`
	Units          string `validate:"oneof=metric imperial standard"`

	// FailurePolicy decides whether failed fetches serve the fallback payload.
	FailurePolicy weather.FailurePolicy

	// RenderAllRecommendations appends every recommendation to spoken summaries
	// instead of only the first one.
	RenderAllRecommendations bool

	// Outbound HTTP behaviour.
	HTTPTimeout    time.Duration `validate:"gt=0"`
	MaxRetries     int           `validate:"gte=0,lte=10"`
	RateLimitRPS   float64       `validate:"gte=0"`
	RateLimitBurst int           `validate:"gte=0"`

	GeocoderAPIKey string

	// DefaultLocation is used by voice commands sent without a position.
	DefaultLocation weather.Coordinate

	// FetchInterval controls how often tracked locations are refreshed.
	FetchInterval time.Duration `validate:"gt=0"`

	// Locations to track.
	Locations []weather.Location
	// keys of tracked locations configured without lat/lon
	unresolved map[string]bool

	// In-memory store retention.
	StoreMaxHistory int           // max number of snapshots per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	// AlertTypes enabled for the sample alerts feed.
	AlertTypes map[string]bool

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Provider = getenvDefault("WEATHER_PROVIDER", "openweathermap")
	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	cfg.WeatherBaseURL = os.Getenv("WEATHER_BASE_URL")
	cfg.Units = getenvDefault("WEATHER_UNITS", "metric")

	policy, err := weather.ParseFailurePolicy(os.Getenv("WEATHER_FAILURE_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_FAILURE_POLICY: %w", err)
	}
	cfg.FailurePolicy = policy

	cfg.RenderAllRecommendations, err = getenvBool("RENDER_ALL_RECOMMENDATIONS", false)
	if err != nil {
		return nil, fmt.Errorf("invalid RENDER_ALL_RECOMMENDATIONS: %w", err)
	}

	cfg.HTTPTimeout, err = time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.MaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 0)
	cfg.RateLimitRPS, err = strconv.ParseFloat(getenvDefault("PROVIDER_RATE_LIMIT", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_RATE_LIMIT: %w", err)
	}
	cfg.RateLimitBurst = getenvInt("PROVIDER_RATE_BURST", 5)

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	// Voice commands default to London.
	lat, err := strconv.ParseFloat(getenvDefault("DEFAULT_LAT", "51.5074"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(getenvDefault("DEFAULT_LON", "-0.1278"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_LON: %w", err)
	}
	cfg.DefaultLocation = weather.Coordinate{Latitude: lat, Longitude: lon}
	if !cfg.DefaultLocation.Valid() {
		return nil, fmt.Errorf("invalid default location %s: %w", cfg.DefaultLocation, weather.ErrInvalidCoordinate)
	}

	// Scheduler interval: default 15 minutes.
	cfg.FetchInterval, err = time.ParseDuration(getenvDefault("FETCH_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals

	cfg.StoreMaxAge, err = time.ParseDuration(getenvDefault("STORE_MAX_AGE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}

	cfg.AlertTypes, err = loadAlertTypes()
	if err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	locs, unresolved, err := loadTrackedLocations()
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs
	cfg.unresolved = unresolved

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Provider != "openmeteo" && cfg.WeatherAPIKey == "" {
		log.Printf("WARN: WEATHER_API_KEY is not set; %s requests will fail (policy: %s)", cfg.Provider, cfg.FailurePolicy)
	}

	return cfg, nil
}

// loadTrackedLocations reads WEATHER_LOCATION_CITY/COUNTRY and the optional
// WEATHER_LOCATION_LAT/LON lists. Entries without coordinates are resolved later.
func loadTrackedLocations() ([]weather.Location, map[string]bool, error) {
	cities := common.SplitList(os.Getenv("WEATHER_LOCATION_CITY"))
	countries := common.SplitList(os.Getenv("WEATHER_LOCATION_COUNTRY"))
	lats := common.SplitList(os.Getenv("WEATHER_LOCATION_LAT"))
	lons := common.SplitList(os.Getenv("WEATHER_LOCATION_LON"))

	if len(cities) == 0 {
		return nil, nil, nil
	}
	if len(countries) != 0 && len(cities) != len(countries) {
		return nil, nil, fmt.Errorf("number of cities and countries must be the same")
	}
	if len(lats) != len(lons) || (len(lats) != 0 && len(lats) != len(cities)) {
		return nil, nil, fmt.Errorf("latitudes and longitudes must be given for every city or none")
	}

	locs := make([]weather.Location, 0, len(cities))
	unresolved := make(map[string]bool)
	for i := range cities {
		loc := weather.Location{Name: cities[i]}
		if len(countries) != 0 {
			loc.Country = countries[i]
		}
		if len(lats) != 0 {
			lat, err := strconv.ParseFloat(lats[i], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid WEATHER_LOCATION_LAT %q: %w", lats[i], err)
			}
			lon, err := strconv.ParseFloat(lons[i], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid WEATHER_LOCATION_LON %q: %w", lons[i], err)
			}
			loc.Coordinate = weather.Coordinate{Latitude: lat, Longitude: lon}
			if !loc.Coordinate.Valid() {
				return nil, nil, fmt.Errorf("location %s: %w", loc.Key(), weather.ErrInvalidCoordinate)
			}
		} else {
			unresolved[loc.Key()] = true
		}
		locs = append(locs, loc)
	}

	return locs, unresolved, nil
}

// NeedsGeocoding reports whether a tracked location was configured without
// coordinates. (0,0) given explicitly is a real position.
func (c *AppConfig) NeedsGeocoding(loc weather.Location) bool {
	return c.unresolved[loc.Key()]
}

func loadAlertTypes() (map[string]bool, error) {
	raw := os.Getenv("ALERT_TYPES")
	if raw == "" {
		return nil, nil
	}

	known := make(map[string]bool)
	for _, t := range samples.AlertTypes() {
		known[t] = true
	}

	enabled := make(map[string]bool)
	for _, t := range common.SplitList(strings.ToLower(raw)) {
		if !known[t] {
			return nil, fmt.Errorf("invalid ALERT_TYPES: unknown alert type %q", t)
		}
		enabled[t] = true
	}
	return enabled, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}
