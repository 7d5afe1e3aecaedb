package store

import (
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-assistant/internal/weather"
)

var (
	// ErrNotFound is returned when no observations are recorded for a location.
	ErrNotFound = errors.New("no weather data for location")
)

// RangeStats summarises the observations recorded for a location over a range.
type RangeStats struct {
	Count            int            `json:"count"`
	First            time.Time      `json:"first"`
	Last             time.Time      `json:"last"`
	MinTemperatureC  float64        `json:"minTemperatureC"`
	MaxTemperatureC  float64        `json:"maxTemperatureC"`
	MeanTemperatureC float64        `json:"meanTemperatureC"`
	MeanHumidityPct  float64        `json:"meanHumidityPercent"`
	MaxWindSpeedKph  float64        `json:"maxWindSpeedKph"`
	Conditions       map[string]int `json:"conditions"` // icon code -> observations
}

// observationLog is the time-ordered observation history of one tracked location.
type observationLog struct {
	location  weather.Location
	snapshots []weather.Snapshot
}

// insert keeps the log ordered by timestamp. Equal timestamps keep arrival order.
func (l *observationLog) insert(snap weather.Snapshot) {
	i := sort.Search(len(l.snapshots), func(i int) bool {
		return l.snapshots[i].Timestamp.After(snap.Timestamp)
	})
	l.snapshots = append(l.snapshots, weather.Snapshot{})
	copy(l.snapshots[i+1:], l.snapshots[i:])
	l.snapshots[i] = snap
}

// retain drops the oldest entries beyond maxEntries and those older than cutoff.
// The newest observation always survives so GetLatest keeps answering.
func (l *observationLog) retain(maxEntries int, cutoff time.Time) {
	if maxEntries > 0 && len(l.snapshots) > maxEntries {
		l.snapshots = l.snapshots[len(l.snapshots)-maxEntries:]
	}
	if cutoff.IsZero() {
		return
	}
	i := sort.Search(len(l.snapshots)-1, func(i int) bool {
		return !l.snapshots[i].Timestamp.Before(cutoff)
	})
	l.snapshots = l.snapshots[i:]
}

func (l *observationLog) between(from, to time.Time) []weather.Snapshot {
	lo := sort.Search(len(l.snapshots), func(i int) bool {
		return !l.snapshots[i].Timestamp.Before(from)
	})
	hi := sort.Search(len(l.snapshots), func(i int) bool {
		return l.snapshots[i].Timestamp.After(to)
	})
	if lo >= hi {
		return nil
	}
	out := make([]weather.Snapshot, hi-lo)
	copy(out, l.snapshots[lo:hi])
	return out
}

// MemoryStore is a concurrency-safe in-memory observation history for tracked locations.
type MemoryStore struct {
	mu sync.RWMutex

	// key: Location.Key()
	logs map[string]*observationLog

	maxHistory int           // max observations per location
	maxAge     time.Duration // max age of observations

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited; likewise maxAge.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		logs:       make(map[string]*observationLog),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveSnapshot records an observation for a location and enforces retention.
func (s *MemoryStore) SaveSnapshot(loc weather.Location, snapshot weather.Snapshot) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.logs[key]
	if !ok {
		l = &observationLog{location: loc}
		s.logs[key] = l
	}
	l.insert(snapshot)

	var cutoff time.Time
	if s.maxAge > 0 {
		cutoff = s.now().Add(-s.maxAge)
	}
	l.retain(s.maxHistory, cutoff)
}

// GetLatest returns the most recent observation for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.logs[loc.Key()]
	if !ok || len(l.snapshots) == 0 {
		return weather.Snapshot{}, ErrNotFound
	}
	return l.snapshots[len(l.snapshots)-1], nil
}

// GetRange returns the observations for a location between from and to (inclusive).
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.logs[loc.Key()]
	if !ok {
		return nil, ErrNotFound
	}
	result := l.between(from, to)
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Stats summarises the observations for a location between from and to (inclusive).
func (s *MemoryStore) Stats(loc weather.Location, from, to time.Time) (RangeStats, error) {
	snaps, err := s.GetRange(loc, from, to)
	if err != nil {
		return RangeStats{}, err
	}
	return summarise(snaps), nil
}

// Locations lists every location with recorded observations.
func (s *MemoryStore) Locations() []weather.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.Location, 0, len(s.logs))
	for _, l := range s.logs {
		if len(l.snapshots) > 0 {
			out = append(out, l.location)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func summarise(snaps []weather.Snapshot) RangeStats {
	st := RangeStats{
		Count:           len(snaps),
		First:           snaps[0].Timestamp,
		Last:            snaps[len(snaps)-1].Timestamp,
		MinTemperatureC: math.Inf(1),
		MaxTemperatureC: math.Inf(-1),
		Conditions:      make(map[string]int),
	}

	var tempSum, humiditySum float64
	for _, snap := range snaps {
		obs := snap.Observation
		st.MinTemperatureC = math.Min(st.MinTemperatureC, obs.TemperatureC)
		st.MaxTemperatureC = math.Max(st.MaxTemperatureC, obs.TemperatureC)
		st.MaxWindSpeedKph = math.Max(st.MaxWindSpeedKph, obs.WindSpeedKph)
		tempSum += obs.TemperatureC
		humiditySum += float64(obs.HumidityPct)
		if obs.ConditionCode != "" {
			st.Conditions[obs.ConditionCode]++
		}
	}
	n := float64(len(snaps))
	st.MeanTemperatureC = math.Round(tempSum/n*100) / 100
	st.MeanHumidityPct = math.Round(humiditySum/n*100) / 100
	return st
}

var _ weather.Store = (*MemoryStore)(nil)
