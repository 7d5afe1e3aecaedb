package store

import (
	"errors"
	"testing"
	"time"

	"github.com/i474232898/weather-assistant/internal/weather"
)

var paris = weather.Location{Name: "Paris", Country: "FR", Coordinate: weather.Coordinate{Latitude: 48.8566, Longitude: 2.3522}}

func snapAt(ts time.Time, temp float64) weather.Snapshot {
	return weather.Snapshot{Location: paris, Timestamp: ts, Observation: weather.Observation{TemperatureC: temp}}
}

func TestMemoryStoreLatestAndRange(t *testing.T) {
	s := NewMemoryStore(0, 0)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := s.GetLatest(paris); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	for i := 0; i < 4; i++ {
		s.SaveSnapshot(paris, snapAt(base.Add(time.Duration(i)*time.Hour), float64(i)))
	}

	latest, err := s.GetLatest(paris)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.Observation.TemperatureC != 3 {
		t.Errorf("expected newest snapshot, got %+v", latest)
	}

	got, err := s.GetRange(paris, base.Add(time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Observation.TemperatureC != 1 || got[1].Observation.TemperatureC != 2 {
		t.Errorf("expected inclusive range of 2 snapshots, got %+v", got)
	}

	if _, err := s.GetRange(paris, base.Add(10*time.Hour), base.Add(11*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty range, got %v", err)
	}
}

func TestMemoryStoreMaxHistory(t *testing.T) {
	s := NewMemoryStore(2, 0)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.SaveSnapshot(paris, snapAt(base.Add(time.Duration(i)*time.Minute), float64(i)))
	}

	got, err := s.GetRange(paris, base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Observation.TemperatureC != 3 {
		t.Errorf("expected the two newest snapshots, got %+v", got)
	}
}

func TestMemoryStoreMaxAge(t *testing.T) {
	now := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, 24*time.Hour)
	s.now = func() time.Time { return now }

	s.SaveSnapshot(paris, snapAt(now.Add(-48*time.Hour), 1))
	s.SaveSnapshot(paris, snapAt(now.Add(-30*time.Hour), 2))
	s.SaveSnapshot(paris, snapAt(now.Add(-1*time.Hour), 3))

	got, err := s.GetRange(paris, now.Add(-72*time.Hour), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Observation.TemperatureC != 3 {
		t.Errorf("expected only the fresh snapshot, got %+v", got)
	}

	// A stale-only history still keeps its newest entry.
	other := weather.Location{Name: "Lima"}
	s.SaveSnapshot(other, weather.Snapshot{Location: other, Timestamp: now.Add(-72 * time.Hour)})
	if _, err := s.GetLatest(other); err != nil {
		t.Errorf("expected newest snapshot to survive, got %v", err)
	}
}

func TestMemoryStoreKeysByLocation(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.SaveSnapshot(paris, snapAt(time.Now(), 1))

	if _, err := s.GetLatest(weather.Location{Name: "Paris", Country: "US"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected distinct key for Paris, US, got %v", err)
	}
}

func TestMemoryStoreOutOfOrderSaves(t *testing.T) {
	s := NewMemoryStore(0, 0)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, h := range []int{2, 0, 3, 1} {
		s.SaveSnapshot(paris, snapAt(base.Add(time.Duration(h)*time.Hour), float64(h)))
	}

	latest, err := s.GetLatest(paris)
	if err != nil || latest.Observation.TemperatureC != 3 {
		t.Fatalf("expected the 03:00 observation as latest, got %+v, %v", latest, err)
	}
	got, err := s.GetRange(paris, base, base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, snap := range got {
		if snap.Observation.TemperatureC != float64(i) {
			t.Fatalf("expected chronological order, got %+v", got)
		}
	}
}

func TestMemoryStoreStats(t *testing.T) {
	s := NewMemoryStore(0, 0)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := []weather.Observation{
		{ConditionCode: "10d", TemperatureC: 4, HumidityPct: 90, WindSpeedKph: 30},
		{ConditionCode: "10d", TemperatureC: 7.5, HumidityPct: 80, WindSpeedKph: 12},
		{ConditionCode: "04d", TemperatureC: 6, HumidityPct: 75, WindSpeedKph: 8},
	}
	for i, o := range obs {
		s.SaveSnapshot(paris, weather.Snapshot{Location: paris, Timestamp: base.Add(time.Duration(i) * time.Hour), Observation: o})
	}

	st, err := s.Stats(paris, base, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Count != 3 || !st.First.Equal(base) || !st.Last.Equal(base.Add(2*time.Hour)) {
		t.Errorf("unexpected span %+v", st)
	}
	if st.MinTemperatureC != 4 || st.MaxTemperatureC != 7.5 || st.MeanTemperatureC != 5.83 {
		t.Errorf("unexpected temperatures %+v", st)
	}
	if st.MeanHumidityPct != 81.67 || st.MaxWindSpeedKph != 30 {
		t.Errorf("unexpected humidity/wind %+v", st)
	}
	if st.Conditions["10d"] != 2 || st.Conditions["04d"] != 1 {
		t.Errorf("unexpected conditions %v", st.Conditions)
	}

	if _, err := s.Stats(paris, base.Add(5*time.Hour), base.Add(6*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty range, got %v", err)
	}
}

func TestMemoryStoreLocations(t *testing.T) {
	s := NewMemoryStore(0, 0)
	lima := weather.Location{Name: "Lima", Country: "PE"}
	s.SaveSnapshot(paris, snapAt(time.Now(), 1))
	s.SaveSnapshot(lima, weather.Snapshot{Location: lima, Timestamp: time.Now()})

	got := s.Locations()
	if len(got) != 2 || got[0].Key() != "Lima:PE" || got[1].Key() != "Paris:FR" {
		t.Errorf("unexpected locations %+v", got)
	}
}
