package weather

import (
	"fmt"
	"time"
)

// Coordinate is a point on the globe in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Valid reports whether the coordinate lies within the WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Observation is the normalized current-weather view for one place.
// Values are always fully populated; a failed fetch is replaced as a whole.
type Observation struct {
	ConditionCode string  `json:"conditionCode"`
	Description   string  `json:"description"`
	TemperatureC  float64 `json:"temperatureC"`
	FeelsLikeC    float64 `json:"feelsLikeC"`
	HumidityPct   int     `json:"humidityPercent"`
	PressureHPa   float64 `json:"pressureHpa"`
	WindSpeedKph  float64 `json:"windSpeedKph"`
	LocationName  string  `json:"locationName"`
}

// ForecastEntry is one provider time slot of a forecast.
type ForecastEntry struct {
	Timestamp     time.Time `json:"timestamp"` // always UTC
	ConditionCode string    `json:"conditionCode"`
	Description   string    `json:"description"`
	TemperatureC  float64   `json:"temperatureC"`
	FeelsLikeC    float64   `json:"feelsLikeC"`
}

// Forecast is an ordered sequence of provider slots (commonly 3-hourly over 5 days).
type Forecast []ForecastEntry

// Location represents a tracked place whose conditions are refreshed periodically.
type Location struct {
	Name       string     `json:"name"`
	Country    string     `json:"country,omitempty"`
	Coordinate Coordinate `json:"coordinate"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	if l.Name == "" {
		return l.Coordinate.String()
	}
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ":" + l.Country
}

// Snapshot is an observation recorded for a tracked location at a point in time.
type Snapshot struct {
	Location    Location    `json:"location"`
	Timestamp   time.Time   `json:"timestamp"` // always UTC
	Observation Observation `json:"observation"`
}
