package view

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response is the decoded JSON object returned by the endpoint. Its shape is
// expected but not enforced.
type Response map[string]any

// Filter derives the displayed copy of resp for the given selection. Selecting
// Alphabets blanks numbers, selecting Numbers blanks alphabets, and the highest
// lowercase alphabet stays blank unless its own tag is selected. Blanked fields
// are set even when resp lacks them. resp is never modified.
func Filter(resp Response, sel Selection) Response {
	if resp == nil {
		return nil
	}
	out := make(Response, len(resp)+3)
	for key, value := range resp {
		out[key] = value
	}
	if sel.Has(TagAlphabets) {
		out[FieldNumbers] = []any{}
	}
	if sel.Has(TagNumbers) {
		out[FieldAlphabets] = []any{}
	}
	if !sel.Has(TagHighestLowercase) {
		out[FieldHighestLowercase] = []any{}
	}
	return out
}

// Render serializes resp with two space indentation for the display region.
// A nil response renders as the empty string.
func Render(resp Response) (string, error) {
	if resp == nil {
		return "", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any(resp)); err != nil {
		return "", fmt.Errorf("view: encode response: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Decode parses an endpoint body into a Response. Numbers are kept verbatim
// and anything other than a JSON object is rejected.
func Decode(body []byte) (Response, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("view: decode response: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("view: decode response: expected a JSON object")
	}
	return Response(out), nil
}
