package collector

import (
	"context"
)

// WeatherSource fetches the combined current + hourly forecast for a coordinate.
type WeatherSource interface {
	FetchWeather(ctx context.Context, apiKey string, lat, lon float64) (WeatherSnapshot, error)
}

// PriceSource fetches day-ahead prices and filters them to the query window.
type PriceSource interface {
	FetchDayAheadPrices(ctx context.Context, q PriceQuery) ([]PricePoint, error)
}

// Sink persists fetched data into a directory and returns the written path.
type Sink interface {
	SaveWeather(dir string, snapshot WeatherSnapshot) (string, error)
	SavePrices(dir string, series PriceSeries) (string, error)
}
