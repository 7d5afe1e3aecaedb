package providers

import (
	"fmt"
	"math"
)

// Unit systems accepted by OpenWeather-style APIs.
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
	UnitsStandard = "standard"
)

func validUnits(u string) error {
	switch u {
	case UnitsMetric, UnitsImperial, UnitsStandard:
		return nil
	default:
		return fmt.Errorf("unsupported units %q", u)
	}
}

// toCelsius converts a temperature reported in the given unit system.
func toCelsius(v float64, units string) float64 {
	switch units {
	case UnitsImperial:
		return round2((v - 32) * 5 / 9)
	case UnitsStandard:
		return round2(v - 273.15)
	default:
		return v
	}
}

// toKph converts a wind speed reported in the given unit system (m/s or mph).
func toKph(v float64, units string) float64 {
	switch units {
	case UnitsImperial:
		return round2(v * 1.609344)
	default:
		return round2(v * 3.6)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
