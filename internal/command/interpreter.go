package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/i474232898/weather-assistant/internal/common"
	"github.com/i474232898/weather-assistant/internal/weather"
)

// Recommendation texts, in rule order.
const (
	AdviceCold     = "It's quite cold today. Consider wearing warm clothing."
	AdviceWarm     = "It's warm today. Stay hydrated and wear light clothing."
	AdviceRain     = "Rain is expected. Don't forget your umbrella!"
	AdviceSnow     = "Snow is in the forecast. Drive carefully and dress warmly."
	AdviceSunny    = "It's sunny today. Don't forget sunscreen!"
	AdviceWind     = "It's quite windy. Secure loose objects and be careful outdoors."
	AdviceHumidity = "High humidity today. The air feels more humid than the temperature suggests."
)

// RenderMode controls how many recommendations Render appends.
type RenderMode int

const (
	// FirstRecommendation appends only the first recommendation.
	FirstRecommendation RenderMode = iota
	// AllRecommendations appends every recommendation, space separated.
	AllRecommendations
)

// Classification is the result of interpreting a free-text command.
type Classification struct {
	Topic           Topic  `json:"topic"`
	Utterance       string `json:"utterance"`
	Acknowledgement string `json:"acknowledgement"`
}

// Interpreter classifies weather commands and renders observations as text.
// It holds no mutable state and is safe for concurrent use.
type Interpreter struct {
	mode RenderMode
}

func NewInterpreter(mode RenderMode) *Interpreter {
	return &Interpreter{mode: mode}
}

// Classify lower-cases the utterance and returns the first topic with a keyword
// contained in it. Matching is by substring, so "warmth" is a temperature command.
func (i *Interpreter) Classify(utterance string) Classification {
	text := strings.ToLower(utterance)
	for _, r := range topicRules {
		if common.HasAny(text, r.keywords...) {
			return Classification{Topic: r.topic, Utterance: text, Acknowledgement: r.acknowledgement}
		}
	}
	return Classification{Topic: TopicGeneral, Utterance: text, Acknowledgement: GeneralAcknowledgement}
}

// BuildRecommendations applies the temperature, condition, wind and humidity rules
// in that order. The result is nil when no rule fires.
func (i *Interpreter) BuildRecommendations(obs weather.Observation) []string {
	var recs []string

	switch {
	case obs.TemperatureC < 10:
		recs = append(recs, AdviceCold)
	case obs.TemperatureC > 25:
		recs = append(recs, AdviceWarm)
	}

	desc := strings.ToLower(obs.Description)
	switch {
	case strings.Contains(desc, "rain"):
		recs = append(recs, AdviceRain)
	case strings.Contains(desc, "snow"):
		recs = append(recs, AdviceSnow)
	case strings.Contains(desc, "sunny"):
		recs = append(recs, AdviceSunny)
	}

	if obs.WindSpeedKph > 20 {
		recs = append(recs, AdviceWind)
	}

	if obs.HumidityPct > 70 {
		recs = append(recs, AdviceHumidity)
	}

	return recs
}

// Render produces a one-paragraph spoken summary of obs.
func (i *Interpreter) Render(obs weather.Observation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "In %s, it's currently %s°C with %s. ",
		obs.LocationName, formatNumber(obs.TemperatureC), strings.ToLower(obs.Description))

	if obs.WindSpeedKph > 0 {
		fmt.Fprintf(&b, "The wind is blowing at %s km/h. ", formatNumber(obs.WindSpeedKph))
	}

	fmt.Fprintf(&b, "The humidity is %d%%. ", obs.HumidityPct)

	recs := i.BuildRecommendations(obs)
	if len(recs) > 0 {
		if i.mode == AllRecommendations {
			b.WriteString(strings.Join(recs, " "))
		} else {
			b.WriteString(recs[0])
		}
	}

	return b.String()
}

// formatNumber prints v in its shortest decimal form: 72 -> "72", 21.5 -> "21.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
