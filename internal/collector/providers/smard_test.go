package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prashantprakashhh/smart-energy-optimizer/internal/collector"
)

const smardIndexBody = `{"data":[
  {"timestamp": 1733702400000, "value": 95.12},
  {"timestamp": 1733706000000, "value": 101.3},
  {"timestamp": 1733709600000, "value": -0.01},
  {"timestamp": 1733713200000, "value": 87.5},
  {"timestamp": 1733716800000, "value": 120}
]}`

func TestSMARDFetchFiltersWindow(t *testing.T) {
	var hits atomic.Int32
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		paths <- r.URL.Path
		fmt.Fprint(w, smardIndexBody)
	}))
	defer srv.Close()

	p := NewSMARDProvider(srv.Client(), srv.URL+"/app/chart_data", nil)
	points, err := p.FetchDayAheadPrices(context.Background(), collector.PriceQuery{
		Filter:     "1001",
		Region:     "DE",
		Resolution: "hour",
		StartMs:    1733706000000,
		EndMs:      1733713200000,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, hits.Load())
	require.Equal(t, "/app/chart_data/1001/DE/index_hour.json", <-paths)

	require.Len(t, points, 3)
	require.Equal(t, int64(1733706000000), points[0].TimestampMs())
	require.Equal(t, 101.3, points[0].Price())
	require.Equal(t, int64(1733709600000), points[1].TimestampMs())
	require.Equal(t, -0.01, points[1].Price())
	require.Equal(t, int64(1733713200000), points[2].TimestampMs())
}

func TestSMARDIndexURL(t *testing.T) {
	p := NewSMARDProvider(http.DefaultClient, "", nil)

	require.Equal(t,
		"https://www.smard.de/app/chart_data/1001/DE/index_hour.json",
		p.indexURL(collector.PriceQuery{}))
	require.Equal(t,
		"https://www.smard.de/app/chart_data/4169/AT/index_quarterhour.json",
		p.indexURL(collector.PriceQuery{Filter: "4169", Region: "AT", Resolution: "quarterhour"}))
}

func TestSMARDNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "not found")
	}))
	defer srv.Close()

	p := NewSMARDProvider(srv.Client(), srv.URL, nil)
	_, err := p.FetchDayAheadPrices(context.Background(), collector.PriceQuery{EndMs: 1})

	var httpErr *collector.UpstreamHTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	require.Equal(t, "not found", httpErr.Body)
	require.Equal(t, "smard", httpErr.Provider)
}

func TestSMARDSchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Missing data", body: `{"series": []}`},
		{name: "Null price", body: `{"data": [{"timestamp": 1, "value": null}]}`},
		{name: "Mistyped timestamp", body: `{"data": [{"timestamp": "yesterday", "value": 1}]}`},
		{name: "Truncated", body: `{"data": [`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, test.body)
			}))
			defer srv.Close()

			p := NewSMARDProvider(srv.Client(), srv.URL, nil)
			_, err := p.FetchDayAheadPrices(context.Background(), collector.PriceQuery{EndMs: 10})

			var parseErr *collector.UpstreamParseError
			require.ErrorAs(t, err, &parseErr)
			require.Equal(t, test.body, parseErr.Body)
		})
	}
}

func TestSMARDEmptyIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer srv.Close()

	p := NewSMARDProvider(srv.Client(), srv.URL, nil)
	points, err := p.FetchDayAheadPrices(context.Background(), collector.PriceQuery{EndMs: 10})
	require.NoError(t, err)
	require.NotNil(t, points)
	require.Empty(t, points)
}
