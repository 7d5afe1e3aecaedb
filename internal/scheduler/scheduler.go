package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-assistant/internal/weather"
)

// CurrentFetcher fetches current conditions for a tracked location.
type CurrentFetcher interface {
	FetchCurrent(ctx context.Context, coord weather.Coordinate) (weather.Observation, error)
}

// Scheduler periodically refreshes current weather for tracked locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   CurrentFetcher
	store     weather.Store
	locations []weather.Location
	interval  time.Duration

	now func() time.Time
}

// New creates a new Scheduler. The gateway is switched to PropagateError so that
// fallback payloads never end up in the history.
func New(locations []weather.Location, interval time.Duration, gateway *weather.Gateway, store weather.Store) *Scheduler {
	return newScheduler(locations, interval, gateway.WithPolicy(weather.PropagateError), store)
}

func newScheduler(locations []weather.Location, interval time.Duration, fetcher CurrentFetcher, store weather.Store) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		fetcher:   fetcher,
		store:     store,
		locations: locations,
		interval:  interval,
		now:       time.Now,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("INFO: scheduler: no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("INFO: scheduler: tracking %d locations every %d minutes", len(s.locations), minutes)
	return nil
}

// RunOnce fetches every tracked location concurrently and records the successes.
// It returns the number of snapshots saved.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	log.Println("DEBUG: scheduler: running weather fetch job")

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		saved int
	)
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			obs, err := s.fetcher.FetchCurrent(ctx, loc.Coordinate)
			if err != nil {
				// The previous snapshot stays the latest.
				log.Printf("WARN: scheduler: fetch failed for %s: %v", loc.Key(), err)
				return
			}
			s.store.SaveSnapshot(loc, weather.Snapshot{
				Location:    loc,
				Timestamp:   s.now().UTC(),
				Observation: obs,
			})

			mu.Lock()
			saved++
			mu.Unlock()
		}()
	}
	wg.Wait()

	log.Printf("DEBUG: scheduler: completed weather fetch job (%d/%d saved)", saved, len(s.locations))
	return saved
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
