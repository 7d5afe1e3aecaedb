package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

var (
	// ErrInvalidCoordinate is returned when a coordinate is outside the WGS84 ranges.
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	// ErrNoProvider is returned when the gateway has no provider configured.
	ErrNoProvider = errors.New("no weather provider configured")
	// ErrCityLookupUnsupported is returned when neither the provider nor a resolver can handle city queries.
	ErrCityLookupUnsupported = errors.New("city lookup not supported")
)

// Gateway mediates all outbound calls to the remote weather provider and applies
// the configured failure policy to their results.
type Gateway struct {
	provider Provider
	resolver CityResolver
	policy   FailurePolicy
}

// NewGateway creates a new Gateway. resolver may be nil.
func NewGateway(provider Provider, policy FailurePolicy, resolver CityResolver) *Gateway {
	return &Gateway{
		provider: provider,
		resolver: resolver,
		policy:   policy,
	}
}

// WithPolicy returns a copy of the gateway using a different failure policy.
func (g *Gateway) WithPolicy(policy FailurePolicy) *Gateway {
	cp := *g
	cp.policy = policy
	return &cp
}

// Policy returns the failure policy in effect.
func (g *Gateway) Policy() FailurePolicy {
	return g.policy
}

// FetchCurrent returns current conditions for coord. Under UseFallback the error is always nil.
func (g *Gateway) FetchCurrent(ctx context.Context, coord Coordinate) (Observation, error) {
	obs, err := g.fetchCurrent(ctx, coord)
	if err != nil {
		return g.currentFailure(fmt.Errorf("fetch current weather for %s: %w", coord, err))
	}
	return obs, nil
}

func (g *Gateway) fetchCurrent(ctx context.Context, coord Coordinate) (Observation, error) {
	if g.provider == nil {
		return Observation{}, ErrNoProvider
	}
	if !coord.Valid() {
		return Observation{}, ErrInvalidCoordinate
	}
	return g.provider.FetchCurrent(ctx, coord)
}

// FetchForecast returns the provider's forecast slots for coord. Under UseFallback the error is always nil.
func (g *Gateway) FetchForecast(ctx context.Context, coord Coordinate) (Forecast, error) {
	fc, err := g.fetchForecast(ctx, coord)
	if err != nil {
		err = fmt.Errorf("fetch forecast for %s: %w", coord, err)
		if g.policy == PropagateError {
			return nil, err
		}
		log.Printf("WARN: %s: serving fallback forecast: %v", g.providerName(), err)
		return FallbackForecast(), nil
	}
	return fc, nil
}

func (g *Gateway) fetchForecast(ctx context.Context, coord Coordinate) (Forecast, error) {
	if g.provider == nil {
		return nil, ErrNoProvider
	}
	if !coord.Valid() {
		return nil, ErrInvalidCoordinate
	}
	fc, err := g.provider.FetchForecast(ctx, coord)
	if err != nil {
		return nil, err
	}
	if len(fc) == 0 {
		return nil, errors.New("provider returned an empty forecast")
	}
	return fc, nil
}

// FetchCurrentByCity returns current conditions for a named place. Providers that
// support city queries are asked directly; otherwise the city is resolved to a
// coordinate first.
func (g *Gateway) FetchCurrentByCity(ctx context.Context, city, country string) (Observation, error) {
	obs, err := g.fetchCurrentByCity(ctx, city, country)
	if err != nil {
		q := city
		if country != "" {
			q = city + "," + country
		}
		return g.currentFailure(fmt.Errorf("fetch current weather for %q: %w", q, err))
	}
	return obs, nil
}

func (g *Gateway) fetchCurrentByCity(ctx context.Context, city, country string) (Observation, error) {
	if g.provider == nil {
		return Observation{}, ErrNoProvider
	}
	if strings.TrimSpace(city) == "" {
		return Observation{}, errors.New("city is required")
	}
	if cp, ok := g.provider.(CityProvider); ok {
		return cp.FetchCurrentByCity(ctx, city, country)
	}
	if g.resolver == nil {
		return Observation{}, ErrCityLookupUnsupported
	}
	coord, err := g.resolver.Resolve(ctx, city, country)
	if err != nil {
		return Observation{}, fmt.Errorf("resolve city: %w", err)
	}
	return g.fetchCurrent(ctx, coord)
}

func (g *Gateway) currentFailure(err error) (Observation, error) {
	if g.policy == PropagateError {
		return Observation{}, err
	}
	log.Printf("WARN: %s: serving fallback observation: %v", g.providerName(), err)
	return FallbackObservation(), nil
}

func (g *Gateway) providerName() string {
	if g.provider == nil {
		return "gateway"
	}
	return g.provider.Name()
}
