// Package contract describes the remote BFHL endpoint as an embedded OpenAPI
// document and validates request and response bodies against it.
package contract

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation identifiers declared by the embedded document.
const (
	OperationSubmit        = "submitData"
	OperationOperationCode = "getOperationCode"
)

//go:embed openapi.yaml
var embeddedDocument []byte

// Document returns the raw embedded OpenAPI document.
func Document() []byte {
	out := make([]byte, len(embeddedDocument))
	copy(out, embeddedDocument)
	return out
}

// Issue mirrors a single schema validation failure.
type Issue struct {
	Operation string `json:"operation"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
}

// ValidationError wraps the first schema failure for an operation.
type ValidationError struct {
	Issue Issue
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Issue.Field != "" {
		return fmt.Sprintf("contract: %s: %s: %s", e.Issue.Operation, e.Issue.Field, e.Issue.Message)
	}
	return fmt.Sprintf("contract: %s: %s", e.Issue.Operation, e.Issue.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Contract holds the request and response schemas of each operation.
type Contract struct {
	requests  map[string]*openapi3.Schema
	responses map[string]*openapi3.Schema
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*Contract, error) {
	return LoadFromData(ctx, embeddedDocument)
}

// MustLoad panics when the embedded document is broken. Useful for init-time
// wiring and tests.
func MustLoad() *Contract {
	c, err := Load(context.Background())
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFromData builds a Contract from an arbitrary OpenAPI payload.
func LoadFromData(ctx context.Context, raw []byte) (*Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}

	c := &Contract{
		requests:  make(map[string]*openapi3.Schema),
		responses: make(map[string]*openapi3.Schema),
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			c.collect(op)
		}
	}

	for _, id := range []string{OperationSubmit, OperationOperationCode} {
		if _, ok := c.responses[id]; !ok {
			return nil, fmt.Errorf("contract: operation %q is not declared", id)
		}
	}
	return c, nil
}

func (c *Contract) collect(op *openapi3.Operation) {
	if op == nil || op.OperationID == "" {
		return
	}
	if body := op.RequestBody; body != nil && body.Value != nil {
		if mt := body.Value.Content.Get("application/json"); mt != nil && mt.Schema != nil {
			c.requests[op.OperationID] = mt.Schema.Value
		}
	}
	if op.Responses == nil {
		return
	}
	if ref, ok := op.Responses.Map()["200"]; ok && ref != nil && ref.Value != nil {
		if mt := ref.Value.Content.Get("application/json"); mt != nil && mt.Schema != nil {
			c.responses[op.OperationID] = mt.Schema.Value
		}
	}
}

// ValidateRequest checks a decoded request body against the operation schema.
func (c *Contract) ValidateRequest(operationID string, value any) error {
	if c == nil {
		return errors.New("contract: not loaded")
	}
	schema, ok := c.requests[operationID]
	if !ok {
		return fmt.Errorf("contract: operation %q has no request schema", operationID)
	}
	return visit(operationID, schema, value)
}

// ValidateResponse checks a decoded response body against the operation schema.
func (c *Contract) ValidateResponse(operationID string, value any) error {
	if c == nil {
		return errors.New("contract: not loaded")
	}
	schema, ok := c.responses[operationID]
	if !ok {
		return fmt.Errorf("contract: operation %q has no response schema", operationID)
	}
	return visit(operationID, schema, value)
}

func visit(operationID string, schema *openapi3.Schema, value any) error {
	if schema == nil {
		return nil
	}
	plain, err := jsonToAny(value)
	if err != nil {
		return fmt.Errorf("contract: %s: normalise value: %w", operationID, err)
	}
	err = schema.VisitJSON(plain, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	return &ValidationError{Issue: issueFromError(operationID, err), Err: err}
}

// jsonToAny round-trips value through encoding/json so named map types and
// json.Number values reach the schema visitor as plain JSON types. Numbers
// stay json.Number so out of range values survive.
func jsonToAny(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func issueFromError(operationID string, err error) Issue {
	issue := Issue{Operation: operationID, Message: strings.TrimSpace(err.Error())}

	var multi openapi3.MultiError
	if errors.As(err, &multi) && len(multi) > 0 {
		err = multi[0]
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		issue.Field = strings.Join(schemaErr.JSONPointer(), ".")
		if reason := strings.TrimSpace(schemaErr.Reason); reason != "" {
			issue.Message = reason
		}
	}
	return issue
}
