package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/prashantprakashhh/smart-energy-optimizer/internal/collector"
)

// SMARD chart_data defaults: day-ahead auction price, Germany, hourly.
const (
	DefaultSMARDBaseURL    = "https://www.smard.de/app/chart_data"
	DefaultSMARDFilter     = "1001"
	DefaultSMARDRegion     = "DE"
	DefaultSMARDResolution = "hour"
)

// SMARDProvider reads the day-ahead price index published by smard.de.
//
// The index endpoint returns every currently published point and has no
// server-side range filter, so the window is applied after decoding. Points
// older than what the index still carries are not backfilled.
type SMARDProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

// NewSMARDProvider creates a provider. An empty baseURL selects the public endpoint.
func NewSMARDProvider(client *http.Client, baseURL string, logger *zap.SugaredLogger) *SMARDProvider {
	if baseURL == "" {
		baseURL = DefaultSMARDBaseURL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &SMARDProvider{
		name:    "smard",
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		circuit: newBreaker("smard", logger),
		logger:  logger,
	}
}

// FetchDayAheadPrices sends one request for the series index and returns the
// points inside [q.StartMs, q.EndMs] in provider order.
func (p *SMARDProvider) FetchDayAheadPrices(ctx context.Context, q collector.PriceQuery) ([]collector.PricePoint, error) {
	u := p.indexURL(q)
	p.logger.Debugw("smard request", "url", u)

	body, err := doGet(ctx, p.client, p.circuit, p.name, u)
	if err != nil {
		return nil, err
	}

	var series collector.PriceSeries
	if err := decodeStrict(p.name, body, &series); err != nil {
		p.logger.Errorw("smard response did not match schema", "error", err, "body", preview(body))
		return nil, err
	}

	points := collector.FilterWindow(series.Data, q.StartMs, q.EndMs)
	p.logger.Debugw("smard prices filtered", "published", len(series.Data), "kept", len(points))

	return points, nil
}

func (p *SMARDProvider) indexURL(q collector.PriceQuery) string {
	filter := orDefault(q.Filter, DefaultSMARDFilter)
	region := orDefault(q.Region, DefaultSMARDRegion)
	resolution := orDefault(q.Resolution, DefaultSMARDResolution)

	return fmt.Sprintf("%s/%s/%s/index_%s.json",
		p.baseURL,
		url.PathEscape(filter),
		url.PathEscape(region),
		url.PathEscape(resolution),
	)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
