package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/prashantprakashhh/smart-energy-optimizer/internal/collector"
	"github.com/prashantprakashhh/smart-energy-optimizer/internal/store"
)

var validate = validator.New()

// Fetcher runs one collection into a directory.
type Fetcher interface {
	FetchAndSave(ctx context.Context, outputDir string, lat, lon float64) (string, error)
}

// Reader loads previously written collector output.
type Reader interface {
	LoadWeather(dir string) (collector.WeatherSnapshot, error)
	LoadPrices(dir string) (collector.PriceSeries, error)
}

// Options configures the routes.
type Options struct {
	DataDir string

	// Default coordinates for fetches that do not pass lat/lon.
	Latitude  float64
	Longitude float64
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, fetcher Fetcher, reader Reader, opts Options) {
	v1 := app.Group("/api/v1")

	v1.Post("/fetch", func(c *fiber.Ctx) error {
		q, err := parseLocationQuery(c, opts.Latitude, opts.Longitude)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		msg, err := fetcher.FetchAndSave(c.UserContext(), opts.DataDir, q.Lat, q.Lon)
		if err != nil {
			return fetchError(c, err)
		}

		return c.JSON(fiber.Map{
			"status": msg,
			"lat":    q.Lat,
			"lon":    q.Lon,
		})
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		snapshot, err := reader.LoadWeather(opts.DataDir)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data has been fetched yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather data")
		}

		return c.JSON(snapshot)
	})

	v1.Get("/prices", func(c *fiber.Ctx) error {
		var req rangeQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.set {
			if err := validate.Struct(req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		series, err := reader.LoadPrices(opts.DataDir)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no price data has been fetched yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read price data")
		}

		points := series.Data
		if req.set {
			points = collector.FilterWindow(points, req.From.UnixMilli(), req.To.UnixMilli())
		}
		if points == nil {
			points = []collector.PricePoint{}
		}

		return c.JSON(fiber.Map{
			"data":    points,
			"summary": collector.Summarize(points),
		})
	})
}

// fetchError maps collector failures to responses that keep the upstream
// diagnostics.
func fetchError(c *fiber.Ctx, err error) error {
	var (
		cfgErr   *collector.ConfigurationError
		httpErr  *collector.UpstreamHTTPError
		parseErr *collector.UpstreamParseError
		ioErr    *collector.IOError
	)

	switch {
	case errors.As(err, &cfgErr):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   true,
			"kind":    "configuration",
			"message": err.Error(),
		})
	case errors.As(err, &httpErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":          true,
			"kind":           "upstream_http",
			"provider":       httpErr.Provider,
			"upstreamStatus": httpErr.StatusCode,
			"upstreamBody":   httpErr.Body,
			"message":        err.Error(),
		})
	case errors.As(err, &parseErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":        true,
			"kind":         "upstream_parse",
			"provider":     parseErr.Provider,
			"upstreamBody": parseErr.Body,
			"message":      err.Error(),
		})
	case errors.Is(err, collector.ErrCircuitOpen):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   true,
			"kind":    "circuit_open",
			"message": err.Error(),
		})
	case errors.As(err, &ioErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"kind":    "io",
			"path":    ioErr.Path,
			"message": err.Error(),
		})
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

// locationQuery holds the coordinates of a fetch.
type locationQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func parseLocationQuery(c *fiber.Ctx, defLat, defLon float64) (locationQuery, error) {
	q := locationQuery{Lat: defLat, Lon: defLon}

	if s := c.Query("lat"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, errors.New("lat must be a number")
		}
		q.Lat = v
	}
	if s := c.Query("lon"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, errors.New("lon must be a number")
		}
		q.Lon = v
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// rangeQuery holds the optional time range of the prices endpoint.
type rangeQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`

	set bool
}

func (r *rangeQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" && toStr == "" {
		return nil
	}
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters must be given together")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	r.From = from
	r.To = to
	r.set = true
	return nil
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
