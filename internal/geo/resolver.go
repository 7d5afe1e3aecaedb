package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-assistant/internal/weather"
)

var (
	// ErrNotConfigured is returned when no geocoding API key is set.
	ErrNotConfigured = errors.New("geocoder api key is not configured")
	// ErrNoResults is returned when the geocoder finds nothing.
	ErrNoResults = errors.New("location not found")
)

// The geocoder package keeps its key in a package variable.
var keyMu sync.Mutex

// Backend is the subset of the geocoding API the resolver uses.
type Backend interface {
	Geocoding(address geocoder.Address) (geocoder.Location, error)
	GeocodingReverse(location geocoder.Location) ([]geocoder.Address, error)
}

// googleBackend calls the Google geocoding API through kelvins/geocoder.
type googleBackend struct {
	apiKey string
}

func (b googleBackend) Geocoding(address geocoder.Address) (geocoder.Location, error) {
	keyMu.Lock()
	defer keyMu.Unlock()
	geocoder.ApiKey = b.apiKey
	return geocoder.Geocoding(address)
}

func (b googleBackend) GeocodingReverse(location geocoder.Location) ([]geocoder.Address, error) {
	keyMu.Lock()
	defer keyMu.Unlock()
	geocoder.ApiKey = b.apiKey
	return geocoder.GeocodingReverse(location)
}

// Resolver converts between place names and coordinates.
type Resolver struct {
	backend Backend
}

// NewResolver creates a Resolver backed by Google geocoding. An empty key yields
// a resolver whose calls fail with ErrNotConfigured.
func NewResolver(apiKey string) *Resolver {
	if apiKey == "" {
		return &Resolver{}
	}
	return &Resolver{backend: googleBackend{apiKey: apiKey}}
}

// NewResolverWithBackend creates a Resolver over a custom backend.
func NewResolverWithBackend(b Backend) *Resolver {
	return &Resolver{backend: b}
}

// Configured reports whether lookups can be made.
func (r *Resolver) Configured() bool {
	return r != nil && r.backend != nil
}

// Resolve returns the coordinate of a city.
func (r *Resolver) Resolve(ctx context.Context, city, country string) (weather.Coordinate, error) {
	if !r.Configured() {
		return weather.Coordinate{}, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return weather.Coordinate{}, err
	}

	loc, err := r.backend.Geocoding(geocoder.Address{City: city, Country: country})
	if err != nil {
		return weather.Coordinate{}, fmt.Errorf("geocode %q: %w", strings.Trim(city+","+country, ","), err)
	}

	coord := weather.Coordinate{Latitude: loc.Latitude, Longitude: loc.Longitude}
	if !coord.Valid() || (coord.Latitude == 0 && coord.Longitude == 0) {
		return weather.Coordinate{}, ErrNoResults
	}
	return coord, nil
}

// ReverseName returns a human-readable place name for coord.
func (r *Resolver) ReverseName(ctx context.Context, coord weather.Coordinate) (string, error) {
	if !r.Configured() {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	addrs, err := r.backend.GeocodingReverse(geocoder.Location{Latitude: coord.Latitude, Longitude: coord.Longitude})
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", coord, err)
	}

	// Prefer city and append country if available
	for _, a := range addrs {
		if a.City != "" {
			if a.Country != "" {
				return fmt.Sprintf("%s, %s", a.City, a.Country), nil
			}
			return a.City, nil
		}
	}
	for _, a := range addrs {
		if a.FormattedAddress != "" {
			return a.FormattedAddress, nil
		}
	}
	return "", ErrNoResults
}

// ResolveLocations fills in missing coordinates of tracked locations.
// Locations that cannot be resolved are returned in the error and dropped.
func (r *Resolver) ResolveLocations(ctx context.Context, locs []weather.Location, needsLookup func(weather.Location) bool) ([]weather.Location, error) {
	out := make([]weather.Location, 0, len(locs))
	var errs []error
	for _, loc := range locs {
		if !needsLookup(loc) {
			out = append(out, loc)
			continue
		}
		coord, err := r.Resolve(ctx, loc.Name, loc.Country)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", loc.Key(), err))
			continue
		}
		loc.Coordinate = coord
		out = append(out, loc)
	}
	return out, errors.Join(errs...)
}
