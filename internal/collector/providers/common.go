package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/encoding/json"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/prashantprakashhh/smart-energy-optimizer/internal/collector"
)

// bodyPreviewLen bounds how much of a response body is written to debug logs.
const bodyPreviewLen = 500

var (
	errNoHTTPClient = errors.New("http client not configured")

	validate = validator.New()
)

// newBreaker builds the per-provider circuit breaker. It never retries; once
// open it rejects calls until Timeout has passed. Only transport failures count
// against it: a delivered response, whatever its status, is a success.
func newBreaker(name string, logger *zap.SugaredLogger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  1,
		Interval:     1 * time.Minute,
		Timeout:      2 * time.Minute,
		IsSuccessful: isDelivered,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("circuit breaker state changed", "provider", name, "from", from.String(), "to", to.String())
		},
	})
}

// isDelivered reports whether the upstream answered, including with a non-2xx status.
func isDelivered(err error) bool {
	if err == nil {
		return true
	}
	var httpErr *collector.UpstreamHTTPError
	return errors.As(err, &httpErr)
}

// doGet sends exactly one GET and returns the full body of a 2xx response.
// A non-2xx response becomes an UpstreamHTTPError carrying the body.
func doGet(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	provider string,
	rawURL string,
) ([]byte, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", provider, err)
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", provider, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: read body: %w", provider, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &collector.UpstreamHTTPError{
				Provider:   provider,
				StatusCode: resp.StatusCode,
				Body:       string(body),
			}
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w: %v", provider, collector.ErrCircuitOpen, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected result type from circuit breaker", provider)
	}
	return body, nil
}

// decodeStrict decodes body into v and checks its required fields.
// Either failure becomes an UpstreamParseError holding the raw body.
func decodeStrict(provider string, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &collector.UpstreamParseError{Provider: provider, Body: string(body), Err: err}
	}
	if err := validate.Struct(v); err != nil {
		return &collector.UpstreamParseError{Provider: provider, Body: string(body), Err: err}
	}
	return nil
}

func preview(body []byte) string {
	if len(body) > bodyPreviewLen {
		return string(body[:bodyPreviewLen])
	}
	return string(body)
}
