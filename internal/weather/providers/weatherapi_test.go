package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/i474232898/weather-assistant/internal/weather"
)

func TestWeatherAPIFetchCurrent(t *testing.T) {
	var path, q, key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		q = r.URL.Query().Get("q")
		key = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(`{
		  "location": {"name": "London"},
		  "current": {"temp_c": 12.0, "feelslike_c": 10.4, "humidity": 77, "wind_kph": 22.3,
		              "pressure_mb": 1011, "is_day": 0, "condition": {"text": "Light rain", "code": 1183}}
		}`))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(Options{Client: srv.Client(), APIKey: "wk", BaseURL: srv.URL})
	obs, err := p.FetchCurrent(context.Background(), london)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/current.json" || q != "51.5074,-0.1278" || key != "wk" {
		t.Errorf("unexpected request path=%s q=%s key=%s", path, q, key)
	}

	expected := weather.Observation{
		ConditionCode: "10n",
		Description:   "Light rain",
		TemperatureC:  12,
		FeelsLikeC:    10.4,
		HumidityPct:   77,
		PressureHPa:   1011,
		WindSpeedKph:  22.3,
		LocationName:  "London",
	}
	if obs != expected {
		t.Errorf("expected %+v, got %+v", expected, obs)
	}
}

func TestWeatherAPIFetchForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("days") != "3" {
			t.Errorf("expected days=3, got %s", r.URL.Query().Get("days"))
		}
		_, _ = w.Write([]byte(`{"forecast": {"forecastday": [{"hour": [
		  {"time_epoch": 1740787200, "temp_c": 4.1, "feelslike_c": 1.2, "is_day": 0, "condition": {"text": "Clear", "code": 1000}},
		  {"time_epoch": 1740790800, "temp_c": 3.9, "feelslike_c": 0.8, "is_day": 0, "condition": {"text": "Mist", "code": 1030}}
		]}]}}`))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(Options{Client: srv.Client(), APIKey: "wk", BaseURL: srv.URL})
	fc, err := p.FetchForecast(context.Background(), london)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(fc))
	}
	if !fc[0].Timestamp.Equal(time.Unix(1740787200, 0)) || fc[0].ConditionCode != "01n" {
		t.Errorf("unexpected first entry %+v", fc[0])
	}
	if fc[1].ConditionCode != "50n" {
		t.Errorf("expected mist icon, got %q", fc[1].ConditionCode)
	}
}

func TestWeatherAPIMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"location": {"name": "London"}}`))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(Options{Client: srv.Client(), APIKey: "wk", BaseURL: srv.URL})
	if _, err := p.FetchCurrent(context.Background(), london); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
	if _, err := p.FetchForecast(context.Background(), london); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestWeatherAPIPartialCurrent(t *testing.T) {
	tests := map[string]string{
		"empty current": `{"location": {"name": "London"}, "current": {}}`,
		"no humidity":   `{"location": {"name": "London"}, "current": {"temp_c": 3, "feelslike_c": 1, "wind_kph": 4, "pressure_mb": 1000, "condition": {"text": "Clear", "code": 1000}}}`,
		"no condition":  `{"location": {"name": "London"}, "current": {"temp_c": 3, "feelslike_c": 1, "humidity": 50, "wind_kph": 4, "pressure_mb": 1000}}`,
		"no place name": `{"current": {"temp_c": 3, "feelslike_c": 1, "humidity": 50, "wind_kph": 4, "pressure_mb": 1000, "condition": {"text": "Clear", "code": 1000}}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			p := NewWeatherAPIProvider(Options{Client: srv.Client(), APIKey: "wk", BaseURL: srv.URL})
			if _, err := p.FetchCurrent(context.Background(), london); !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}

			g := weather.NewGateway(p, weather.UseFallback, nil)
			obs, err := g.FetchCurrent(context.Background(), london)
			if err != nil || obs != weather.FallbackObservation() {
				t.Fatalf("expected fallback observation, got %+v, %v", obs, err)
			}
		})
	}
}

func TestWeatherAPIIconCode(t *testing.T) {
	tests := []struct {
		code int
		day  bool
		want string
	}{
		{1000, true, "01d"},
		{1003, false, "02n"},
		{1087, true, "11d"},
		{1213, true, "13d"},
		{1153, true, "09d"},
		{1195, false, "10n"},
		{4242, true, "04d"},
		{4242, false, "04n"},
	}
	for _, tt := range tests {
		if got := weatherAPIIconCode(tt.code, tt.day); got != tt.want {
			t.Errorf("weatherAPIIconCode(%d, %v) = %q, want %q", tt.code, tt.day, got, tt.want)
		}
	}
}
