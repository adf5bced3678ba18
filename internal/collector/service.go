package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompletionMessage is returned once both files have been written.
const CompletionMessage = "Data fetching complete."

// DefaultWindow is the trailing span of price points kept.
const DefaultWindow = 48 * time.Hour

// Config holds the settings the Service needs at call time.
type Config struct {
	// OpenWeatherAPIKey is resolved by the caller; the Service never reads the environment.
	OpenWeatherAPIKey string

	// SMARD series selection.
	PriceFilter     string
	PriceRegion     string
	PriceResolution string

	// Window is the trailing span of prices to keep. Zero means DefaultWindow.
	Window time.Duration
}

// Service fetches weather and prices and writes both to a directory.
type Service struct {
	cfg     Config
	weather WeatherSource
	prices  PriceSource
	sink    Sink
	logger  *zap.SugaredLogger

	now func() time.Time
}

// NewService creates a new Service.
func NewService(cfg Config, weather WeatherSource, prices PriceSource, sink Sink, logger *zap.SugaredLogger) *Service {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		cfg:     cfg,
		weather: weather,
		prices:  prices,
		sink:    sink,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// FetchAndSave fetches the weather for (lat, lon) and the trailing price window,
// then writes weather_data.json and smard_prices.json into outputDir.
//
// Weather is fetched and written before prices. A failure aborts the run; a file
// written before the failure is left in place.
func (s *Service) FetchAndSave(ctx context.Context, outputDir string, lat, lon float64) (string, error) {
	log := s.logger.With("run_id", uuid.NewString(), "dir", outputDir)

	startMs, endMs := Window(s.now(), s.cfg.Window)

	if s.cfg.OpenWeatherAPIKey == "" {
		log.Errorw("weather api key missing")
		return "", &ConfigurationError{Key: "OPENWEATHER_API_KEY", Reason: "is not set"}
	}

	log.Infow("fetching weather", "lat", lat, "lon", lon)
	snapshot, err := s.weather.FetchWeather(ctx, s.cfg.OpenWeatherAPIKey, lat, lon)
	if err != nil {
		log.Errorw("weather fetch failed", "error", err)
		return "", fmt.Errorf("fetch weather: %w", err)
	}

	path, err := s.sink.SaveWeather(outputDir, snapshot)
	if err != nil {
		return "", fmt.Errorf("save weather: %w", err)
	}
	log.Infow("weather saved", "path", path, "hours", len(snapshot.Hourly))

	q := PriceQuery{
		Filter:     s.cfg.PriceFilter,
		Region:     s.cfg.PriceRegion,
		Resolution: s.cfg.PriceResolution,
		StartMs:    startMs,
		EndMs:      endMs,
	}
	log.Infow("fetching prices", "filter", q.Filter, "region", q.Region, "start_ms", startMs, "end_ms", endMs)
	points, err := s.prices.FetchDayAheadPrices(ctx, q)
	if err != nil {
		log.Errorw("price fetch failed", "error", err)
		return "", fmt.Errorf("fetch prices: %w", err)
	}

	path, err = s.sink.SavePrices(outputDir, PriceSeries{Data: points})
	if err != nil {
		return "", fmt.Errorf("save prices: %w", err)
	}

	summary := Summarize(points)
	log.Infow("prices saved", "path", path, "count", summary.Count, "min", summary.Min, "max", summary.Max, "mean", summary.Mean)

	return CompletionMessage, nil
}
