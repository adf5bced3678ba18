package collector

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is returned when a provider's circuit breaker rejects a call
// without sending a request.
var ErrCircuitOpen = errors.New("circuit breaker open")

// ConfigurationError reports a missing or unusable setting.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Key, e.Reason)
}

// UpstreamHTTPError is a non-2xx response from a provider.
// Body holds the full response text.
type UpstreamHTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// UpstreamParseError is a response that could not be decoded into the expected
// shape. Body holds the raw response so schema changes can be diagnosed.
type UpstreamParseError struct {
	Provider string
	Body     string
	Err      error
}

func (e *UpstreamParseError) Error() string {
	return fmt.Sprintf("%s: invalid response: %v", e.Provider, e.Err)
}

func (e *UpstreamParseError) Unwrap() error {
	return e.Err
}

// IOError is a failure writing or reading a data file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
