package command

import (
	"reflect"
	"strings"
	"testing"

	"github.com/i474232898/weather-assistant/internal/weather"
)

func TestClassify(t *testing.T) {
	in := NewInterpreter(FirstRecommendation)

	tests := []struct {
		utterance string
		want      Topic
	}{
		{"What's the temperature?", TopicTemperature},
		{"Is it HOT outside", TopicTemperature},
		{"I love the warmth", TopicTemperature}, // substring match on "warm"
		{"how humid is it", TopicHumidity},
		{"any breeze today", TopicWind},
		{"Will it rain", TopicRain},
		{"is the road wet", TopicRain},
		{"winter is coming", TopicSnow},
		{"is it bright out", TopicSunny},
		{"overcast skies?", TopicCloudy},
		{"what about tomorrow", TopicForecast},
		{"forecast for the week", TopicForecast},
		{"tell me a joke", TopicGeneral},
		{"", TopicGeneral},
		// Declaration order resolves overlaps.
		{"cold and rainy", TopicTemperature},
		{"windy with rain", TopicWind},
		{"sunny tomorrow", TopicSunny},
		{"snow or clouds", TopicSnow},
	}

	for _, tt := range tests {
		got := in.Classify(tt.utterance)
		if got.Topic != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.utterance, got.Topic, tt.want)
		}
		if got.Utterance != strings.ToLower(tt.utterance) {
			t.Errorf("Classify(%q) utterance = %q, want lower-cased input", tt.utterance, got.Utterance)
		}
	}
}

func TestClassifyAcknowledgements(t *testing.T) {
	in := NewInterpreter(FirstRecommendation)

	got := in.Classify("temp please")
	want := "The current temperature is being fetched. Would you like me to tell you the high and low temperatures for today?"
	if got.Acknowledgement != want {
		t.Errorf("unexpected temperature acknowledgement %q", got.Acknowledgement)
	}

	if got := in.Classify(""); got.Acknowledgement != GeneralAcknowledgement {
		t.Errorf("unexpected general acknowledgement %q", got.Acknowledgement)
	}

	seen := make(map[string]Topic)
	for _, r := range topicRules {
		if r.acknowledgement == "" {
			t.Errorf("topic %s has no acknowledgement", r.topic)
		}
		if other, dup := seen[r.acknowledgement]; dup {
			t.Errorf("topics %s and %s share an acknowledgement", r.topic, other)
		}
		seen[r.acknowledgement] = r.topic
	}
}

func TestClassifyDeterministic(t *testing.T) {
	in := NewInterpreter(FirstRecommendation)
	first := in.Classify("Is it windy tomorrow?")
	for i := 0; i < 10; i++ {
		if got := in.Classify("Is it windy tomorrow?"); got != first {
			t.Fatalf("classification changed between calls: %+v vs %+v", got, first)
		}
	}
}

func TestTopicsOrder(t *testing.T) {
	want := []Topic{
		TopicTemperature, TopicHumidity, TopicWind, TopicRain, TopicSnow,
		TopicSunny, TopicCloudy, TopicForecast, TopicGeneral,
	}
	if got := Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics() = %v, want %v", got, want)
	}
}

func TestBuildRecommendations(t *testing.T) {
	in := NewInterpreter(FirstRecommendation)

	tests := []struct {
		name string
		obs  weather.Observation
		want []string
	}{
		{
			name: "none",
			obs:  weather.Observation{TemperatureC: 18, Description: "few clouds", WindSpeedKph: 10, HumidityPct: 50},
			want: nil,
		},
		{
			name: "cold first",
			obs:  weather.Observation{TemperatureC: 2, Description: "Light Snow", WindSpeedKph: 30, HumidityPct: 90},
			want: []string{AdviceCold, AdviceSnow, AdviceWind, AdviceHumidity},
		},
		{
			name: "warm and sunny",
			obs:  weather.Observation{TemperatureC: 31, Description: "Sunny"},
			want: []string{AdviceWarm, AdviceSunny},
		},
		{
			name: "rain wins over snow",
			obs:  weather.Observation{TemperatureC: 12, Description: "rain and snow"},
			want: []string{AdviceRain},
		},
		{
			name: "thresholds are strict",
			obs:  weather.Observation{TemperatureC: 10, WindSpeedKph: 20, HumidityPct: 70},
			want: nil,
		},
		{
			name: "upper temperature bound is strict",
			obs:  weather.Observation{TemperatureC: 25},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := in.BuildRecommendations(tt.obs)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderFallbackObservation(t *testing.T) {
	in := NewInterpreter(FirstRecommendation)

	got := in.Render(weather.FallbackObservation())
	want := "In Washington DC, it's currently 72°C with partly cloudy. " +
		"The wind is blowing at 12 km/h. " +
		"The humidity is 65%. " +
		"It's warm today. Stay hydrated and wear light clothing."
	if got != want {
		t.Fatalf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderOmitsWindWhenCalm(t *testing.T) {
	in := NewInterpreter(FirstRecommendation)

	obs := weather.Observation{LocationName: "Oslo", TemperatureC: 15.5, Description: "Clear Sky", HumidityPct: 40}
	got := in.Render(obs)
	want := "In Oslo, it's currently 15.5°C with clear sky. The humidity is 40%. "
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
	if strings.Contains(got, "wind") {
		t.Fatalf("calm observation must not mention wind: %q", got)
	}
}

// Only the first recommendation is spoken by default; the rest are dropped.
func TestRenderModes(t *testing.T) {
	obs := weather.Observation{LocationName: "Bergen", TemperatureC: 4, Description: "Rain", WindSpeedKph: 35, HumidityPct: 88}
	prefix := "In Bergen, it's currently 4°C with rain. The wind is blowing at 35 km/h. The humidity is 88%. "

	first := NewInterpreter(FirstRecommendation).Render(obs)
	if first != prefix+AdviceCold {
		t.Errorf("first-only render = %q", first)
	}

	all := NewInterpreter(AllRecommendations).Render(obs)
	wantAll := prefix + strings.Join([]string{AdviceCold, AdviceRain, AdviceWind, AdviceHumidity}, " ")
	if all != wantAll {
		t.Errorf("all render = %q, want %q", all, wantAll)
	}
}
