// Package bfhl is the entry point for embedding the BFHL form. It wires the
// payload parser, the endpoint client and the form controller together; the
// sub-packages stay usable on their own.
package bfhl

import (
	"github.com/goliatone/go-bfhl/pkg/client"
	"github.com/goliatone/go-bfhl/pkg/contract"
	"github.com/goliatone/go-bfhl/pkg/controller"
	"github.com/goliatone/go-bfhl/pkg/payload"
	"github.com/goliatone/go-bfhl/pkg/server"
	"github.com/goliatone/go-bfhl/pkg/view"
)

// Response aliases view.Response for callers of the root package.
type Response = view.Response

// State aliases the controller state.
type State = controller.State

// Notice aliases the operation code acknowledgment.
type Notice = controller.Notice

// NewClient returns an endpoint client that checks responses against the
// embedded contract. Caller options are applied last.
func NewClient(endpoint string, options ...client.Option) (*client.Client, error) {
	opts := append([]client.Option{client.WithResponseValidator(contract.MustLoad())}, options...)
	return client.New(endpoint, opts...)
}

// NewController binds a controller to endpoint.
func NewController(endpoint controller.Endpoint, options ...controller.Option) (*controller.Controller, error) {
	return controller.New(endpoint, options...)
}

// ControllerFactory returns a server.ControllerFactory whose controllers
// share one parser and endpoint.
func ControllerFactory(endpoint controller.Endpoint, options ...controller.Option) server.ControllerFactory {
	opts := append([]controller.Option{controller.WithParser(payload.DefaultParser())}, options...)
	return func() (*controller.Controller, error) {
		return controller.New(endpoint, opts...)
	}
}
