package openrouter

import "fmt"

// ConfigError reports missing or unusable client configuration. It is
// fatal for the whole run: no request can succeed until the configuration
// is fixed.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "openrouter: " + e.Reason
}

// TransportError wraps a network-level failure. The request may be retried
// by the caller; no usage was recorded.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("openrouter: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-success response from the provider, carrying the
// provider-supplied message (unknown model, rate limit, bad request).
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("openrouter: API error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("openrouter: API error (HTTP %d)", e.StatusCode)
}
