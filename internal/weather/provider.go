package weather

import (
	"context"
	"time"
)

// Provider abstracts a remote weather source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
// Implementations return normalized values: temperatures in Celsius, wind in km/h and
// condition codes in the OpenWeather icon vocabulary.
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, coord Coordinate) (Observation, error)
	FetchForecast(ctx context.Context, coord Coordinate) (Forecast, error)
}

// CityProvider is implemented by providers that can look up current weather by place name.
type CityProvider interface {
	FetchCurrentByCity(ctx context.Context, city, country string) (Observation, error)
}

// CityResolver turns a place name into a coordinate.
type CityResolver interface {
	Resolve(ctx context.Context, city, country string) (Coordinate, error)
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	SaveSnapshot(loc Location, snapshot Snapshot)
	GetLatest(loc Location) (Snapshot, error)
	GetRange(loc Location, from, to time.Time) ([]Snapshot, error)
}
