package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/prashantprakashhh/smart-energy-optimizer/internal/api/http"
	"github.com/prashantprakashhh/smart-energy-optimizer/internal/collector"
	"github.com/prashantprakashhh/smart-energy-optimizer/internal/collector/providers"
	"github.com/prashantprakashhh/smart-energy-optimizer/internal/config"
	"github.com/prashantprakashhh/smart-energy-optimizer/internal/logging"
	"github.com/prashantprakashhh/smart-energy-optimizer/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	serve := flag.Bool("serve", false, "Run the HTTP API instead of a single fetch")
	outDir := flag.String("out", "", "Output directory (overrides DATA_DIR)")
	lat := flag.Float64("lat", 0, "Latitude (overrides LATITUDE)")
	lon := flag.Float64("lon", 0, "Longitude (overrides LONGITUDE)")
	flag.Parse()

	// Load configuration. The .env result is reported once the logger exists.
	dotEnvErr := config.LoadDotEnv()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.DataDir = *outDir
		case "lat":
			cfg.Latitude = *lat
		case "lon":
			cfg.Longitude = *lon
		}
	})

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if dotEnvErr != nil {
		sugar.Infow("no .env file loaded", "error", dotEnvErr)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	files := store.NewFileStore()
	service := collector.NewService(
		cfg.ServiceConfig(),
		providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeather.BaseURL, sugar.Named("openweather")),
		providers.NewSMARDProvider(httpClient, cfg.SMARD.BaseURL, sugar.Named("smard")),
		files,
		sugar.Named("collector"),
	)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		sugar.Fatalw("failed to create data dir", "dir", cfg.DataDir, "error", err)
	}

	if !*serve {
		if err := runOnce(service, cfg); err != nil {
			sugar.Errorw("fetch failed", "error", err)
			logger.Sync()
			os.Exit(1)
		}
		return
	}

	runServer(service, files, cfg, sugar)
}

func runOnce(service *collector.Service, cfg *config.AppConfig) error {
	msg, err := service.FetchAndSave(context.Background(), cfg.DataDir, cfg.Latitude, cfg.Longitude)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func runServer(service *collector.Service, files *store.FileStore, cfg *config.AppConfig, sugar *zap.SugaredLogger) {
	app := httpapi.NewApp(service, files, httpapi.Options{
		DataDir:   cfg.DataDir,
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
	})

	go func() {
		sugar.Infow("listening", "port", cfg.Port, "data_dir", cfg.DataDir)
		if err := app.Listen(":" + cfg.Port); err != nil {
			sugar.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		sugar.Errorw("error during shutdown", "error", err)
	}
}
