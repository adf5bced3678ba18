package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"OPENWEATHER_API_KEY", "APP_ENV", "DATA_DIR", "PORT", "LATITUDE", "LONGITUDE",
	"PRICE_WINDOW", "HTTP_TIMEOUT", "OPENWEATHER_BASE_URL", "SMARD_BASE_URL",
	"SMARD_FILTER", "SMARD_REGION", "SMARD_RESOLUTION",
}

// clearEnv blanks every variable Load reads; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Empty(t, cfg.OpenWeatherAPIKey)
	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, 49.4875, cfg.Latitude)
	require.Equal(t, 8.4660, cfg.Longitude)
	require.Equal(t, 48*time.Hour, cfg.PriceWindow)
	require.Zero(t, cfg.HTTPTimeout)
	require.Equal(t, "https://api.openweathermap.org", cfg.OpenWeather.BaseURL)
	require.Equal(t, "https://www.smard.de/app/chart_data", cfg.SMARD.BaseURL)
	require.Equal(t, "1001", cfg.SMARD.Filter)
	require.Equal(t, "DE", cfg.SMARD.Region)
	require.Equal(t, "hour", cfg.SMARD.Resolution)
	require.Equal(t, "8080", cfg.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "abc123")
	t.Setenv("DATA_DIR", "/tmp/energy")
	t.Setenv("LATITUDE", "52.52")
	t.Setenv("LONGITUDE", "13.405")
	t.Setenv("PRICE_WINDOW", "24h")
	t.Setenv("HTTP_TIMEOUT", "15s")
	t.Setenv("SMARD_REGION", "AT")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "abc123", cfg.OpenWeatherAPIKey)
	require.Equal(t, "/tmp/energy", cfg.DataDir)
	require.Equal(t, 52.52, cfg.Latitude)
	require.Equal(t, 13.405, cfg.Longitude)
	require.Equal(t, 24*time.Hour, cfg.PriceWindow)
	require.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "AT", cfg.SMARD.Region)

	sc := cfg.ServiceConfig()
	require.Equal(t, "abc123", sc.OpenWeatherAPIKey)
	require.Equal(t, "AT", sc.PriceRegion)
	require.Equal(t, 24*time.Hour, sc.Window)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: dev
data_dir: ./out
latitude: 48.137
longitude: 11.575
price_window: 12h
port: "7070"
smard:
  filter: "4169"
  resolution: quarterhour
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "./out", cfg.DataDir)
	require.Equal(t, 48.137, cfg.Latitude)
	require.Equal(t, 12*time.Hour, cfg.PriceWindow)
	require.Equal(t, "4169", cfg.SMARD.Filter)
	require.Equal(t, "quarterhour", cfg.SMARD.Resolution)
	// Unset file keys keep their defaults.
	require.Equal(t, "DE", cfg.SMARD.Region)
	require.Equal(t, "https://www.smard.de/app/chart_data", cfg.SMARD.BaseURL)
	// Environment wins over the file.
	require.Equal(t, "9090", cfg.Port)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "Latitude out of range", key: "LATITUDE", val: "91"},
		{name: "Longitude not a number", key: "LONGITUDE", val: "east"},
		{name: "Bad window", key: "PRICE_WINDOW", val: "two days"},
		{name: "Negative window", key: "PRICE_WINDOW", val: "-1h"},
		{name: "Unknown resolution", key: "SMARD_RESOLUTION", val: "fortnight"},
		{name: "Bad base url", key: "SMARD_BASE_URL", val: "not a url"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(test.key, test.val)

			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv leaves variables that exist, even empty ones, untouched.
	require.NoError(t, os.Unsetenv("OPENWEATHER_API_KEY"))
	require.NoError(t, os.Unsetenv("SMARD_REGION"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENWEATHER_API_KEY=from-dotenv\nSMARD_REGION=AT\n"), 0o644))
	chdir(t, dir)

	require.NoError(t, LoadDotEnv())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", cfg.OpenWeatherAPIKey)
	require.Equal(t, "AT", cfg.SMARD.Region)
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	require.Error(t, LoadDotEnv())
}

// chdir switches the working directory for the test and restores it afterwards.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
