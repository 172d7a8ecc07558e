package contract

import (
	"context"
	"errors"
	"testing"
)

func TestLoadEmbeddedDocument(t *testing.T) {
	c, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := c.requests[OperationSubmit]; !ok {
		t.Fatalf("expected request schema for %s", OperationSubmit)
	}
	if _, ok := c.responses[OperationOperationCode]; !ok {
		t.Fatalf("expected response schema for %s", OperationOperationCode)
	}
}

func TestLoadFromDataRejectsMissingOperations(t *testing.T) {
	raw := []byte(`{
  "openapi": "3.0.3",
  "info": {"title": "x", "version": "1"},
  "paths": {
    "/other": {
      "get": {"operationId": "other", "responses": {"200": {"description": "ok"}}}
    }
  }
}`)
	if _, err := LoadFromData(context.Background(), raw); err == nil {
		t.Fatalf("expected error for document without BFHL operations")
	}
}

func TestLoadFromDataRejectsEmptyPayload(t *testing.T) {
	if _, err := LoadFromData(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestValidateRequest(t *testing.T) {
	c := MustLoad()

	valid := []any{
		map[string]any{"data": []any{}},
		map[string]any{"data": []any{"a", 1.0, "B"}, "extra": true},
	}
	for _, value := range valid {
		if err := c.ValidateRequest(OperationSubmit, value); err != nil {
			t.Fatalf("expected %#v to be valid: %v", value, err)
		}
	}

	invalid := []any{
		map[string]any{},
		map[string]any{"data": "abc"},
		map[string]any{"data": nil},
		map[string]any{"data": map[string]any{}},
		[]any{1.0},
		"data",
		3.0,
	}
	for _, value := range invalid {
		err := c.ValidateRequest(OperationSubmit, value)
		if err == nil {
			t.Fatalf("expected %#v to be rejected", value)
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %T", err)
		}
		if vErr.Issue.Operation != OperationSubmit {
			t.Fatalf("unexpected operation %q", vErr.Issue.Operation)
		}
	}
}

func TestValidateResponse(t *testing.T) {
	c := MustLoad()

	if err := c.ValidateResponse(OperationSubmit, map[string]any{"numbers": []any{"1"}, "is_success": true}); err != nil {
		t.Fatalf("expected response to be valid: %v", err)
	}
	if err := c.ValidateResponse(OperationSubmit, map[string]any{"numbers": "1"}); err == nil {
		t.Fatalf("expected non-array numbers to be rejected")
	}
	if err := c.ValidateResponse(OperationOperationCode, map[string]any{"operation_code": 1.0}); err != nil {
		t.Fatalf("expected operation code response to be valid: %v", err)
	}
	if err := c.ValidateResponse(OperationOperationCode, map[string]any{}); err == nil {
		t.Fatalf("expected missing operation_code to be rejected")
	}
}

func TestValidateUnknownOperation(t *testing.T) {
	c := MustLoad()
	if err := c.ValidateRequest(OperationOperationCode, map[string]any{}); err == nil {
		t.Fatalf("expected error for operation without request body")
	}
}
