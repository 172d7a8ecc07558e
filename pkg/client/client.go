// Package client talks to the remote BFHL endpoint: a POST carrying the
// submitted payload and a GET reporting the operation code.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-bfhl/pkg/contract"
	"github.com/goliatone/go-bfhl/pkg/payload"
	"github.com/goliatone/go-bfhl/pkg/view"
)

// StatusError reports a non-2xx endpoint response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "client: unexpected status " + e.Status
}

// Client issues requests against one configured endpoint URL.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
	validator  ResponseValidator
	retry      *retryablehttp.Client
}

// New constructs a Client for endpoint, which must be an absolute http(s) URL.
func New(endpoint string, options ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("client: endpoint url is required")
	}
	parsed, err := url.ParseRequestURI(endpoint)
	if err != nil {
		return nil, fmt.Errorf("client: invalid endpoint url %q: %w", endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported endpoint scheme %q", parsed.Scheme)
	}

	c := &Client{
		endpoint: endpoint,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	httpClient := c.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	clone := *httpClient
	if c.timeout > 0 && clone.Timeout == 0 {
		clone.Timeout = c.timeout
	}

	retry := retryablehttp.NewClient()
	retry.HTTPClient = &clone
	retry.RetryMax = 0
	retry.CheckRetry = noRetry
	retry.Logger = leveledLogger{logger: c.logger}
	retry.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, _ int) {
		c.logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("endpoint request")
	}
	c.retry = retry

	return c, nil
}

// Endpoint reports the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit posts p.Body and returns the decoded response object.
func (c *Client) Submit(ctx context.Context, p payload.Payload) (view.Response, error) {
	if len(p.Body) == 0 {
		return nil, errors.New("client: payload body is empty")
	}
	body, err := c.do(ctx, http.MethodPost, p.Body)
	if err != nil {
		return nil, err
	}
	resp, err := view.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("client: submit: %w", err)
	}
	c.checkResponse(contract.OperationSubmit, resp)
	return resp, nil
}

// OperationCode fetches the endpoint with GET and returns the operation_code
// field verbatim. A missing field yields nil.
func (c *Client) OperationCode(ctx context.Context) (any, error) {
	body, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	resp, err := view.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("client: operation code: %w", err)
	}
	c.checkResponse(contract.OperationOperationCode, resp)
	return resp[view.FieldOperationCode], nil
}

func (c *Client) do(ctx context.Context, method string, body []byte) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("client: context is required")
	}

	var reqBody any
	if body != nil {
		reqBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.retry.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("url", c.endpoint).Dur("elapsed", time.Since(started)).Msg("endpoint request failed")
		return nil, fmt.Errorf("client: %s %s: %w", method, c.endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	c.logger.Info().
		Str("method", method).
		Str("url", c.endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("endpoint response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return data, nil
}

func (c *Client) checkResponse(operationID string, resp view.Response) {
	if c.validator == nil {
		return
	}
	if err := c.validator.ValidateResponse(operationID, map[string]any(resp)); err != nil {
		c.logger.Warn().Err(err).Str("operation", operationID).Msg("endpoint response does not match contract")
	}
}

// noRetry hands every outcome back to the caller after the first attempt.
func noRetry(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	return false, err
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
