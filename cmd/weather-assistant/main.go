package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	httpapi "github.com/i474232898/weather-assistant/internal/api/http"
	"github.com/i474232898/weather-assistant/internal/command"
	"github.com/i474232898/weather-assistant/internal/config"
	"github.com/i474232898/weather-assistant/internal/geo"
	"github.com/i474232898/weather-assistant/internal/scheduler"
	"github.com/i474232898/weather-assistant/internal/store"
	"github.com/i474232898/weather-assistant/internal/voice"
	"github.com/i474232898/weather-assistant/internal/weather"
	"github.com/i474232898/weather-assistant/internal/weather/providers"
)

func main() {
	// Load configuration (.env is read by config.Load).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Geocoding is optional; without a key, city lookups go to the provider only.
	resolver := geo.NewResolver(cfg.GeocoderAPIKey)

	opts := providers.Options{
		Client:  httpClient,
		APIKey:  cfg.WeatherAPIKey,
		BaseURL: cfg.WeatherBaseURL,
		Units:   cfg.Units,
		Backoff: providers.BackoffConfig{
			MaxRetries:      cfg.MaxRetries,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		RateLimit: rate.Limit(cfg.RateLimitRPS),
		Burst:     cfg.RateLimitBurst,
	}
	var cityResolver weather.CityResolver
	if resolver.Configured() {
		opts.Namer = resolver
		cityResolver = resolver
	}

	// Provider with resilience (rate limit + circuit breaker + optional backoff).
	provider, err := providers.New(cfg.Provider, opts)
	if err != nil {
		log.Fatalf("failed to create weather provider: %v", err)
	}
	gateway := weather.NewGateway(provider, cfg.FailurePolicy, cityResolver)
	log.Printf("INFO: using %s provider (units: %s, failure policy: %s)", provider.Name(), cfg.Units, cfg.FailurePolicy)

	mode := command.FirstRecommendation
	if cfg.RenderAllRecommendations {
		mode = command.AllRecommendations
	}
	assistant := voice.NewAssistant(command.NewInterpreter(mode), gateway, cfg.DefaultLocation)

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Tracked locations given by name only need geocoding before they can be fetched.
	resolveCtx, cancelResolve := context.WithTimeout(context.Background(), 30*time.Second)
	locations, err := resolver.ResolveLocations(resolveCtx, cfg.Locations, cfg.NeedsGeocoding)
	cancelResolve()
	if err != nil {
		log.Printf("WARN: some tracked locations were dropped: %v", err)
	}

	// Scheduler that periodically fetches and stores data.
	sched := scheduler.New(locations, cfg.FetchInterval, gateway, memStore)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-assistant",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Outbound calls may take up to HTTPTimeout on their own.
		WriteTimeout: cfg.HTTPTimeout + 5*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-assistant",
			"provider": provider.Name(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Gateway:    gateway,
		Assistant:  assistant,
		Store:      memStore,
		Locations:  locations,
		AlertTypes: cfg.AlertTypes,
	})

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: listening on :%s", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
