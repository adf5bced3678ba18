package providers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/prashantprakashhh/smart-energy-optimizer/internal/collector"
)

// DefaultOpenWeatherBaseURL is the One Call API host.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

const oneCallPath = "/data/3.0/onecall"

// OpenWeatherProvider fetches current and hourly weather from the One Call 3.0 API.
type OpenWeatherProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

// NewOpenWeatherProvider creates a provider. An empty baseURL selects the public API.
func NewOpenWeatherProvider(client *http.Client, baseURL string, logger *zap.SugaredLogger) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		circuit: newBreaker("openweathermap", logger),
		logger:  logger,
	}
}

// FetchWeather sends one request and returns the parsed snapshot.
func (p *OpenWeatherProvider) FetchWeather(ctx context.Context, apiKey string, lat, lon float64) (collector.WeatherSnapshot, error) {
	u := p.requestURL(apiKey, lat, lon)
	p.logger.Debugw("openweather request", "url", redactKey(u))

	body, err := doGet(ctx, p.client, p.circuit, p.name, u)
	if err != nil {
		var httpErr *collector.UpstreamHTTPError
		if errors.As(err, &httpErr) {
			p.logger.Errorw("openweather returned non-success status", "status", httpErr.StatusCode, "body", httpErr.Body)
		}
		return collector.WeatherSnapshot{}, err
	}
	p.logger.Debugw("openweather response", "body", preview(body))

	var snapshot collector.WeatherSnapshot
	if err := decodeStrict(p.name, body, &snapshot); err != nil {
		p.logger.Errorw("openweather response did not match schema", "error", err, "body", string(body))
		return collector.WeatherSnapshot{}, err
	}

	return snapshot, nil
}

func (p *OpenWeatherProvider) requestURL(apiKey string, lat, lon float64) string {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("exclude", "minutely,daily,alerts")
	values.Set("appid", apiKey)
	values.Set("units", "metric")

	return p.baseURL + oneCallPath + "?" + values.Encode()
}

// redactKey hides the appid value so request URLs can be logged.
func redactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	if q.Get("appid") != "" {
		q.Set("appid", "REDACTED")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
