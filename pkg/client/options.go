package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ResponseValidator checks decoded endpoint responses. *contract.Contract
// satisfies it.
type ResponseValidator interface {
	ValidateResponse(operationID string, value any) error
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client. Useful for tests
// and proxies.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout caps each request. Zero keeps requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger routes request logs to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithResponseValidator checks responses against the endpoint contract.
// Mismatches are logged and never fail the call.
func WithResponseValidator(validator ResponseValidator) Option {
	return func(c *Client) {
		c.validator = validator
	}
}
