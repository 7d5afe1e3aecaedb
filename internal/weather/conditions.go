package weather

// DefaultIconKey is returned for condition codes outside the known table.
const DefaultIconKey = "weather-cloudy"

// UnknownDescription is returned for condition codes outside the known table.
const UnknownDescription = "Unknown"

// Keyed by OpenWeather icon codes; other providers translate into this vocabulary.
var iconKeys = map[string]string{
	"01d": "weather-sunny",
	"01n": "weather-night",
	"02d": "weather-partly-cloudy",
	"02n": "weather-night-partly-cloudy",
	"03d": "weather-cloudy",
	"03n": "weather-cloudy",
	"04d": "weather-cloudy",
	"04n": "weather-cloudy",
	"09d": "weather-rainy",
	"09n": "weather-rainy",
	"10d": "weather-partly-rainy",
	"10n": "weather-night-partly-rainy",
	"11d": "weather-lightning",
	"11n": "weather-lightning",
	"13d": "weather-snowy",
	"13n": "weather-snowy",
	"50d": "weather-fog",
	"50n": "weather-fog",
}

var descriptions = map[string]string{
	"01d": "Clear sky",
	"01n": "Clear night",
	"02d": "Few clouds",
	"02n": "Few clouds",
	"03d": "Scattered clouds",
	"03n": "Scattered clouds",
	"04d": "Broken clouds",
	"04n": "Broken clouds",
	"09d": "Shower rain",
	"09n": "Shower rain",
	"10d": "Rain",
	"10n": "Rain",
	"11d": "Thunderstorm",
	"11n": "Thunderstorm",
	"13d": "Snow",
	"13n": "Snow",
	"50d": "Mist",
	"50n": "Mist",
}

// MapConditionToIconKey maps a provider condition code to an app icon key.
func MapConditionToIconKey(code string) string {
	if key, ok := iconKeys[code]; ok {
		return key
	}
	return DefaultIconKey
}

// MapConditionToDescription maps a provider condition code to a short description.
func MapConditionToDescription(code string) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return UnknownDescription
}
