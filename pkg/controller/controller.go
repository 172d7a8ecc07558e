// Package controller holds the form state and the three user actions: submit,
// select filter options, and fetch the operation code.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-bfhl/pkg/payload"
	"github.com/goliatone/go-bfhl/pkg/view"
)

// MessageOperationCodeFailed is shown when the operation code fetch fails.
// Submit failures reuse payload.MessageInvalidJSON.
const MessageOperationCodeFailed = "Failed to fetch operation code"

// Endpoint is the remote side of the form. *client.Client satisfies it.
type Endpoint interface {
	Submit(ctx context.Context, p payload.Payload) (view.Response, error)
	OperationCode(ctx context.Context) (any, error)
}

// InputParser validates raw input. *payload.Parser satisfies it.
type InputParser interface {
	Parse(raw string) (payload.Payload, error)
}

// Notice is the acknowledgment shown after an operation code fetch.
type Notice struct {
	Message string `json:"message"`
	Failed  bool   `json:"failed"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes controller logs to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithParser overrides the input parser.
func WithParser(parser InputParser) Option {
	return func(c *Controller) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithState seeds the initial state.
func WithState(state State) Option {
	return func(c *Controller) {
		c.state = state
	}
}

// Controller owns one form's state. Every dispatch is atomic; concurrent
// submissions are not de-duplicated and the last one to finish wins.
type Controller struct {
	endpoint Endpoint
	parser   InputParser
	logger   zerolog.Logger

	mu    sync.RWMutex
	state State
}

// New constructs a Controller bound to endpoint.
func New(endpoint Endpoint, options ...Option) (*Controller, error) {
	if endpoint == nil {
		return nil, errors.New("controller: endpoint is required")
	}
	c := &Controller{
		endpoint: endpoint,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.parser == nil {
		c.parser = payload.DefaultParser()
	}
	return c, nil
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Dispatch applies action and returns the resulting state.
func (c *Controller) Dispatch(action Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, action)
	return c.state
}

// SetInput records text without submitting it.
func (c *Controller) SetInput(text string) State {
	return c.Dispatch(InputChanged{Text: text})
}

// Submit validates text and forwards it to the endpoint. Validation failures
// never reach the network. Any request failure clears the response and
// records the generic invalid input message.
func (c *Controller) Submit(ctx context.Context, text string) State {
	c.Dispatch(SubmitStarted{Text: text})

	p, err := c.parser.Parse(text)
	if err != nil {
		c.logger.Debug().Err(err).Msg("submit rejected")
		return c.Dispatch(SubmitFailed{Message: payload.Message(err)})
	}

	resp, err := c.endpoint.Submit(ctx, p)
	if err != nil {
		c.logger.Error().Err(err).Msg("submit failed")
		return c.Dispatch(SubmitFailed{Message: payload.MessageInvalidJSON})
	}
	return c.Dispatch(SubmitSucceeded{Response: resp})
}

// Select replaces the filter selection. Unknown values are dropped. It never
// calls the endpoint.
func (c *Controller) Select(values ...string) State {
	return c.Dispatch(OptionsChanged{Selection: view.NewSelection(values...)})
}

// FetchOperationCode queries the endpoint independently of any submission.
// It leaves the form state untouched.
func (c *Controller) FetchOperationCode(ctx context.Context) Notice {
	code, err := c.endpoint.OperationCode(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("operation code fetch failed")
		return Notice{Message: MessageOperationCodeFailed, Failed: true}
	}
	return Notice{Message: "Operation Code: " + formatCode(code)}
}

// View renders the filtered response for the current state.
func (c *Controller) View() (string, error) {
	return c.State().View()
}

// formatCode prints scalars the way a template literal would, nil included.
func formatCode(code any) string {
	if code == nil {
		return "undefined"
	}
	return fmt.Sprint(code)
}
