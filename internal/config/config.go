package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/prashantprakashhh/smart-energy-optimizer/internal/collector"
	"github.com/prashantprakashhh/smart-energy-optimizer/internal/collector/providers"
)

// Mannheim, Germany.
const (
	defaultLatitude  = 49.4875
	defaultLongitude = 8.4660
)

var validate = validator.New()

type AppConfig struct {
	// OpenWeatherAPIKey comes from the environment only. An empty key is not a
	// load error; the collector reports it when a fetch is attempted.
	OpenWeatherAPIKey string `yaml:"-"`

	Env string `yaml:"env"`

	// DataDir receives weather_data.json and smard_prices.json.
	DataDir string `yaml:"data_dir" validate:"required"`

	Latitude  float64 `yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `yaml:"longitude" validate:"gte=-180,lte=180"`

	// PriceWindow is the trailing span of prices to keep.
	PriceWindow time.Duration `yaml:"-" validate:"gt=0"`

	// HTTPTimeout of 0 leaves the http.Client default (no timeout).
	HTTPTimeout time.Duration `yaml:"-" validate:"gte=0"`

	OpenWeather OpenWeatherConfig `yaml:"openweather"`
	SMARD       SMARDConfig       `yaml:"smard"`

	Port string `yaml:"port" validate:"required,numeric"`
}

type OpenWeatherConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
}

type SMARDConfig struct {
	BaseURL    string `yaml:"base_url" validate:"required,url"`
	Filter     string `yaml:"filter" validate:"required"`
	Region     string `yaml:"region" validate:"required"`
	Resolution string `yaml:"resolution" validate:"required,oneof=hour quarterhour day week month year"`
}

// fileConfig mirrors AppConfig for YAML, with durations as strings.
type fileConfig struct {
	AppConfig   `yaml:",inline"`
	PriceWindow string `yaml:"price_window"`
	HTTPTimeout string `yaml:"http_timeout"`
}

// LoadDotEnv copies the variables of a .env file in the working directory into
// the process environment. Variables already set are left alone. A missing file
// is returned as an error the caller may ignore.
func LoadDotEnv() error {
	return godotenv.Load()
}

// Load builds the configuration from defaults, the optional YAML file at path,
// and the environment, in increasing order of precedence. Call LoadDotEnv first
// for .env values to be seen.
func Load(path string) (*AppConfig, error) {
	cfg := defaults()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ServiceConfig returns the settings the collector needs at call time.
func (c *AppConfig) ServiceConfig() collector.Config {
	return collector.Config{
		OpenWeatherAPIKey: c.OpenWeatherAPIKey,
		PriceFilter:       c.SMARD.Filter,
		PriceRegion:       c.SMARD.Region,
		PriceResolution:   c.SMARD.Resolution,
		Window:            c.PriceWindow,
	}
}

func defaults() *AppConfig {
	return &AppConfig{
		Env:         "prod",
		DataDir:     "data",
		Latitude:    defaultLatitude,
		Longitude:   defaultLongitude,
		PriceWindow: collector.DefaultWindow,
		OpenWeather: OpenWeatherConfig{
			BaseURL: providers.DefaultOpenWeatherBaseURL,
		},
		SMARD: SMARDConfig{
			BaseURL:    providers.DefaultSMARDBaseURL,
			Filter:     providers.DefaultSMARDFilter,
			Region:     providers.DefaultSMARDRegion,
			Resolution: providers.DefaultSMARDResolution,
		},
		Port: "8080",
	}
}

func loadFile(path string, cfg *AppConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := fileConfig{AppConfig: *cfg}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.PriceWindow != "" {
		d, err := time.ParseDuration(fc.PriceWindow)
		if err != nil {
			return fmt.Errorf("invalid price_window: %w", err)
		}
		fc.AppConfig.PriceWindow = d
	}
	if fc.HTTPTimeout != "" {
		d, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("invalid http_timeout: %w", err)
		}
		fc.AppConfig.HTTPTimeout = d
	}

	*cfg = fc.AppConfig
	return nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	cfg.Env = getenvDefault("APP_ENV", cfg.Env)
	cfg.DataDir = getenvDefault("DATA_DIR", cfg.DataDir)
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.OpenWeather.BaseURL = getenvDefault("OPENWEATHER_BASE_URL", cfg.OpenWeather.BaseURL)
	cfg.SMARD.BaseURL = getenvDefault("SMARD_BASE_URL", cfg.SMARD.BaseURL)
	cfg.SMARD.Filter = getenvDefault("SMARD_FILTER", cfg.SMARD.Filter)
	cfg.SMARD.Region = getenvDefault("SMARD_REGION", cfg.SMARD.Region)
	cfg.SMARD.Resolution = getenvDefault("SMARD_RESOLUTION", cfg.SMARD.Resolution)

	var err error
	if cfg.Latitude, err = getenvFloat("LATITUDE", cfg.Latitude); err != nil {
		return err
	}
	if cfg.Longitude, err = getenvFloat("LONGITUDE", cfg.Longitude); err != nil {
		return err
	}
	if cfg.PriceWindow, err = getenvDuration("PRICE_WINDOW", cfg.PriceWindow); err != nil {
		return err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}

	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
