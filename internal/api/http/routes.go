package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-assistant/internal/common"
	"github.com/i474232898/weather-assistant/internal/samples"
	"github.com/i474232898/weather-assistant/internal/store"
	"github.com/i474232898/weather-assistant/internal/voice"
	"github.com/i474232898/weather-assistant/internal/weather"
)

var validate = validator.New()

// Deps are the components the HTTP handlers call into.
type Deps struct {
	Gateway   *weather.Gateway
	Assistant *voice.Assistant
	Store     weather.Store
	Locations []weather.Location
	// AlertTypes enabled by default for the sample alerts feed; nil enables all.
	AlertTypes map[string]bool
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		var (
			obs weather.Observation
			err error
		)
		if city := strings.TrimSpace(c.Query("city")); city != "" {
			obs, err = deps.Gateway.FetchCurrentByCity(c.UserContext(), city, strings.TrimSpace(c.Query("country")))
		} else {
			coord, perr := parseCoordinateQuery(c)
			if perr != nil {
				return fiber.NewError(fiber.StatusBadRequest, perr.Error())
			}
			obs, err = deps.Gateway.FetchCurrent(c.UserContext(), coord)
		}
		if err != nil {
			return gatewayError(err)
		}

		return c.JSON(fiber.Map{
			"observation": obs,
			"iconKey":     weather.MapConditionToIconKey(obs.ConditionCode),
		})
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		coord, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		fc, err := deps.Gateway.FetchForecast(c.UserContext(), coord)
		if err != nil {
			return gatewayError(err)
		}
		if c.QueryBool("daily") {
			fc = fc.Daily()
		}

		return c.JSON(fiber.Map{
			"coordinate": coord,
			"entries":    fc,
		})
	})

	v1.Get("/weather/summary", func(c *fiber.Ctx) error {
		coord, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		obs, text, recs, err := deps.Assistant.Describe(c.UserContext(), coord)
		if err != nil {
			return gatewayError(err)
		}

		return c.JSON(fiber.Map{
			"observation":     obs,
			"text":            text,
			"recommendations": recs,
		})
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, ok := findLocation(deps.Locations, req.Name, req.Country)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "location is not tracked")
		}

		snapshots, err := deps.Store.GetRange(loc, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		resp := fiber.Map{
			"location":  loc,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		}
		if ss, ok := deps.Store.(statsStore); ok {
			if stats, err := ss.Stats(loc, req.From, req.To); err == nil {
				resp["stats"] = stats
			}
		}
		return c.JSON(resp)
	})

	v1.Get("/conditions/:code", func(c *fiber.Ctx) error {
		code := c.Params("code")
		return c.JSON(fiber.Map{
			"code":        code,
			"iconKey":     weather.MapConditionToIconKey(code),
			"description": weather.MapConditionToDescription(code),
		})
	})

	v1.Post("/commands", func(c *fiber.Ctx) error {
		var req commandRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if (req.Lat == nil) != (req.Lon == nil) {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lon must be given together")
		}

		coord := deps.Assistant.DefaultCoordinate()
		if req.Lat != nil && req.Lon != nil {
			coord = weather.Coordinate{Latitude: *req.Lat, Longitude: *req.Lon}
		}

		reply, err := deps.Assistant.Ask(c.UserContext(), req.Utterance, coord)
		if err != nil {
			if errors.Is(err, voice.ErrEmptyCommand) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return gatewayError(err)
		}

		return c.JSON(reply)
	})

	v1.Get("/samples/alerts", func(c *fiber.Ctx) error {
		enabled := deps.AlertTypes
		if raw := c.Query("types"); raw != "" {
			enabled = make(map[string]bool)
			for _, t := range common.SplitList(strings.ToLower(raw)) {
				enabled[t] = true
			}
		}

		alerts := samples.Alerts(enabled)
		out := make([]alertResponse, 0, len(alerts))
		for _, a := range alerts {
			out = append(out, alertResponse{Alert: a, SeverityLabel: samples.SeverityLabel(a.Severity)})
		}

		return c.JSON(fiber.Map{
			"sample": true,
			"alerts": out,
		})
	})

	v1.Get("/samples/photo-analysis", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sample":   true,
			"analysis": samples.SamplePhotoAnalysis(),
		})
	})
}

// statsStore is implemented by stores that can summarise a history range.
type statsStore interface {
	Stats(loc weather.Location, from, to time.Time) (store.RangeStats, error)
}

func gatewayError(err error) error {
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}

// coordinateQuery holds the lat/lon query parameters.
type coordinateQuery struct {
	Lat string `validate:"required,latitude"`
	Lon string `validate:"required,longitude"`
}

func parseCoordinateQuery(c *fiber.Ctx) (weather.Coordinate, error) {
	q := coordinateQuery{
		Lat: c.Query("lat"),
		Lon: c.Query("lon"),
	}
	if err := validate.Struct(q); err != nil {
		return weather.Coordinate{}, err
	}

	lat, err := strconv.ParseFloat(q.Lat, 64)
	if err != nil {
		return weather.Coordinate{}, err
	}
	lon, err := strconv.ParseFloat(q.Lon, 64)
	if err != nil {
		return weather.Coordinate{}, err
	}
	return weather.Coordinate{Latitude: lat, Longitude: lon}, nil
}

type commandRequest struct {
	Utterance string   `json:"utterance"`
	Lat       *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon       *float64 `json:"lon" validate:"omitempty,longitude"`
}

type alertResponse struct {
	samples.Alert
	SeverityLabel string `json:"severityLabel"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Name    string    `validate:"required"`
	Country string    `validate:"omitempty"`
	From    time.Time `validate:"required"`
	To      time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Name = strings.TrimSpace(c.Query("name"))
	h.Country = strings.TrimSpace(c.Query("country"))

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// findLocation looks up a tracked location by name and, optionally, country.
func findLocation(locs []weather.Location, name, country string) (weather.Location, bool) {
	for _, l := range locs {
		if !strings.EqualFold(l.Name, name) {
			continue
		}
		if country != "" && !strings.EqualFold(l.Country, country) {
			continue
		}
		return l, true
	}
	return weather.Location{}, false
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
