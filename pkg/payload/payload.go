// Package payload validates the JSON typed into the form before it is
// forwarded to the endpoint.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/goliatone/go-bfhl/pkg/contract"
)

// User facing validation messages.
const (
	MessageInvalidJSON = "Invalid JSON input"
	MessageMissingData = "JSON must contain a 'data' array."
)

var (
	// ErrInvalidJSON reports input that does not parse as JSON.
	ErrInvalidJSON = errors.New(MessageInvalidJSON)
	// ErrMissingData reports well formed JSON without a data array.
	ErrMissingData = errors.New(MessageMissingData)
)

// Payload is user input accepted for submission.
type Payload struct {
	// Body is the compacted input, sent verbatim as the request body.
	Body []byte
	// Value is the decoded input. Numbers are kept as json.Number.
	Value map[string]any
}

// Validator checks a decoded request body. *contract.Contract satisfies it.
type Validator interface {
	ValidateRequest(operationID string, value any) error
}

// Parser turns raw text into a Payload.
type Parser struct {
	validator Validator
}

// NewParser constructs a Parser. A nil validator falls back to the embedded
// endpoint contract.
func NewParser(validator Validator) *Parser {
	if validator == nil {
		validator = contract.MustLoad()
	}
	return &Parser{validator: validator}
}

// Parse validates raw against the embedded endpoint contract.
func Parse(raw string) (Payload, error) {
	return DefaultParser().Parse(raw)
}

// Parse decodes raw and checks it carries a data array. The JSON literal null
// is reported as invalid input, every other well formed value without a data
// array as missing data.
func (p *Parser) Parse(raw string) (Payload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return Payload{}, ErrInvalidJSON
	}

	decoded, err := decode(trimmed)
	if err != nil {
		return Payload{}, ErrInvalidJSON
	}
	if decoded == nil {
		return Payload{}, ErrInvalidJSON
	}

	if err := p.validator.ValidateRequest(contract.OperationSubmit, decoded); err != nil {
		return Payload{}, errors.Join(ErrMissingData, err)
	}
	value, ok := decoded.(map[string]any)
	if !ok {
		return Payload{}, ErrMissingData
	}

	var body bytes.Buffer
	if err := json.Compact(&body, []byte(trimmed)); err != nil {
		return Payload{}, ErrInvalidJSON
	}
	return Payload{Body: body.Bytes(), Value: value}, nil
}

// decode keeps numbers as json.Number so values outside float64 range, which
// are still valid JSON, are accepted.
func decode(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// Message returns the user facing text for a Parse error. Unknown errors map
// to the generic invalid input message.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingData):
		return MessageMissingData
	default:
		return MessageInvalidJSON
	}
}
