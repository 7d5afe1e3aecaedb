package weather

import "time"

const fallbackSlotLayout = "2006-01-02 15:04:05"

// FallbackObservation is served in place of a failed current-weather fetch
// under the UseFallback policy.
func FallbackObservation() Observation {
	return Observation{
		ConditionCode: "02d",
		Description:   "Partly Cloudy",
		TemperatureC:  72,
		FeelsLikeC:    74,
		HumidityPct:   65,
		PressureHPa:   1013,
		WindSpeedKph:  12,
		LocationName:  "Washington DC",
	}
}

// FallbackForecast is served in place of a failed forecast fetch
// under the UseFallback policy.
func FallbackForecast() Forecast {
	return Forecast{
		{Timestamp: fallbackSlot("2024-01-15 12:00:00"), ConditionCode: "01d", Description: "Clear", TemperatureC: 75, FeelsLikeC: 77},
		{Timestamp: fallbackSlot("2024-01-16 12:00:00"), ConditionCode: "02d", Description: "Partly Cloudy", TemperatureC: 72, FeelsLikeC: 74},
		{Timestamp: fallbackSlot("2024-01-17 12:00:00"), ConditionCode: "03d", Description: "Cloudy", TemperatureC: 68, FeelsLikeC: 70},
	}
}

func fallbackSlot(s string) time.Time {
	ts, err := time.ParseInLocation(fallbackSlotLayout, s, time.UTC)
	if err != nil {
		panic("weather: bad fallback slot " + s)
	}
	return ts
}
