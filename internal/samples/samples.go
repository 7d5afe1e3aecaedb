// Package samples holds the literal fixture data shown by the smart-alerts and
// photo-analysis screens. Nothing here is computed; it exists so the app can
// render those screens against a stable payload.
package samples

// Alert types.
const (
	AlertSevere      = "severe"
	AlertRain        = "rain"
	AlertWind        = "wind"
	AlertTemperature = "temperature"
)

// Alert is a sample smart-alert record.
type Alert struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
	Severity    string `json:"severity"`
	Icon        string `json:"icon"`
}

// PhotoAnalysis is the sample result of the cloud-photo screen.
type PhotoAnalysis struct {
	CloudType         string            `json:"cloudType"`
	CloudCover        string            `json:"cloudCover"`
	WeatherPrediction string            `json:"weatherPrediction"`
	Confidence        string            `json:"confidence"`
	Recommendations   []string          `json:"recommendations"`
	Details           map[string]string `json:"details"`
}

// AlertTypes lists every sample alert type.
func AlertTypes() []string {
	return []string{AlertSevere, AlertRain, AlertWind, AlertTemperature}
}

// Alerts returns the sample alerts whose type is enabled. A nil map enables all types.
func Alerts(enabled map[string]bool) []Alert {
	all := []Alert{
		{
			ID:          1,
			Type:        AlertSevere,
			Title:       "Severe Thunderstorm Warning",
			Description: "AI detected unusual atmospheric pressure patterns indicating severe weather within 2 hours",
			Time:        "2 hours ago",
			Severity:    "high",
			Icon:        "weather-lightning",
		},
		{
			ID:          2,
			Type:        AlertRain,
			Title:       "Heavy Rain Alert",
			Description: "ML model predicts 90% chance of heavy rainfall in your area within 1 hour",
			Time:        "1 hour ago",
			Severity:    "medium",
			Icon:        "weather-rainy",
		},
		{
			ID:          3,
			Type:        AlertWind,
			Title:       "High Wind Warning",
			Description: "Anomaly detection identified unusual wind patterns. Wind speeds expected to reach 45 mph",
			Time:        "30 minutes ago",
			Severity:    "medium",
			Icon:        "weather-windy",
		},
		{
			ID:          4,
			Type:        AlertTemperature,
			Title:       "Temperature Anomaly",
			Description: "AI detected temperature pattern deviation. Unusually high temperatures expected",
			Time:        "15 minutes ago",
			Severity:    "low",
			Icon:        "thermometer",
		},
	}

	if enabled == nil {
		return all
	}
	out := make([]Alert, 0, len(all))
	for _, a := range all {
		if enabled[a.Type] {
			out = append(out, a)
		}
	}
	return out
}

// SeverityLabel maps a severity to its display label.
func SeverityLabel(severity string) string {
	switch severity {
	case "high":
		return "High Priority"
	case "medium":
		return "Medium Priority"
	case "low":
		return "Low Priority"
	default:
		return "Unknown"
	}
}

// SamplePhotoAnalysis returns the fixed cloud-photo analysis.
func SamplePhotoAnalysis() PhotoAnalysis {
	return PhotoAnalysis{
		CloudType:         "Cumulus",
		CloudCover:        "60%",
		WeatherPrediction: "Partly Cloudy",
		Confidence:        "85%",
		Recommendations: []string{
			"Light rain possible in the next 2 hours",
			"Good visibility for outdoor activities",
			"UV index: Moderate",
		},
		Details: map[string]string{
			"temperature": "72°F",
			"humidity":    "65%",
			"windSpeed":   "8 mph",
			"pressure":    "1013 hPa",
		},
	}
}
