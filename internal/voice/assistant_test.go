package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/i474232898/weather-assistant/internal/command"
	"github.com/i474232898/weather-assistant/internal/weather"
)

type stubFetcher struct {
	obs   weather.Observation
	err   error
	calls int
	coord weather.Coordinate
}

func (s *stubFetcher) FetchCurrent(_ context.Context, coord weather.Coordinate) (weather.Observation, error) {
	s.calls++
	s.coord = coord
	return s.obs, s.err
}

var london = weather.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

func newTestAssistant(f *stubFetcher) *Assistant {
	return NewAssistant(command.NewInterpreter(command.FirstRecommendation), f, london)
}

func TestAskWeatherTopicFetchesAndRenders(t *testing.T) {
	f := &stubFetcher{obs: weather.FallbackObservation()}
	a := newTestAssistant(f)

	paris := weather.Coordinate{Latitude: 48.8566, Longitude: 2.3522}
	reply, err := a.Ask(context.Background(), "How WINDY is it?", paris)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.Topic != command.TopicWind {
		t.Errorf("expected wind topic, got %s", reply.Topic)
	}
	if reply.Utterance != "how windy is it?" {
		t.Errorf("expected lower-cased utterance, got %q", reply.Utterance)
	}
	if _, err := uuid.Parse(reply.ID); err != nil {
		t.Errorf("expected uuid reply id, got %q", reply.ID)
	}
	if f.calls != 1 || f.coord != paris {
		t.Errorf("expected one fetch at %v, got %d at %v", paris, f.calls, f.coord)
	}
	if reply.Observation == nil || *reply.Observation != weather.FallbackObservation() {
		t.Errorf("expected observation in reply, got %+v", reply.Observation)
	}
	wantSummary := "In Washington DC, it's currently 72°C with partly cloudy. The wind is blowing at 12 km/h. The humidity is 65%. " + command.AdviceWarm
	if reply.Summary != wantSummary {
		t.Errorf("unexpected summary %q", reply.Summary)
	}
	if len(reply.Recommendations) != 1 || reply.Recommendations[0] != command.AdviceWarm {
		t.Errorf("unexpected recommendations %q", reply.Recommendations)
	}
}

func TestAskGeneralSkipsFetch(t *testing.T) {
	f := &stubFetcher{}
	a := newTestAssistant(f)

	reply, err := a.Ask(context.Background(), "play some music", london)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Topic != command.TopicGeneral || reply.Acknowledgement != command.GeneralAcknowledgement {
		t.Errorf("unexpected reply %+v", reply)
	}
	if f.calls != 0 {
		t.Errorf("general commands must not fetch weather")
	}
	if reply.Observation != nil || reply.Summary != "" {
		t.Errorf("general reply must carry no weather: %+v", reply)
	}
}

func TestAskEmptyCommand(t *testing.T) {
	a := newTestAssistant(&stubFetcher{})
	for _, u := range []string{"", "   "} {
		if _, err := a.Ask(context.Background(), u, london); !errors.Is(err, ErrEmptyCommand) {
			t.Errorf("Ask(%q): expected ErrEmptyCommand, got %v", u, err)
		}
	}
}

func TestAskPropagatesFetchError(t *testing.T) {
	boom := errors.New("provider down")
	a := newTestAssistant(&stubFetcher{err: boom})

	if _, err := a.Ask(context.Background(), "rain today?", london); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	f := &stubFetcher{obs: weather.Observation{LocationName: "Reykjavik", TemperatureC: -3, Description: "Snow", HumidityPct: 75}}
	a := newTestAssistant(f)

	obs, summary, recs, err := a.Describe(context.Background(), a.DefaultCoordinate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.LocationName != "Reykjavik" || f.coord != london {
		t.Errorf("unexpected observation %+v at %v", obs, f.coord)
	}
	if summary != "In Reykjavik, it's currently -3°C with snow. The humidity is 75%. "+command.AdviceCold {
		t.Errorf("unexpected summary %q", summary)
	}
	if len(recs) != 3 {
		t.Errorf("expected cold, snow and humidity advice, got %q", recs)
	}
}
