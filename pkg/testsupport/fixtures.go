// Package testsupport holds fixture and golden helpers shared by tests.
package testsupport

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bfhl/pkg/view"
)

// MustLoadResponse decodes a JSON object fixture the way the client decodes
// endpoint bodies.
func MustLoadResponse(t *testing.T, path string) view.Response {
	t.Helper()
	resp, err := view.Decode(MustReadGolden(t, path))
	if err != nil {
		t.Fatalf("decode fixture %s: %v", path, err)
	}
	return resp
}

// CompareGolden returns a diff string if the values differ. Trailing
// newlines on strings are ignored.
func CompareGolden(want, got any) string {
	if w, ok := want.(string); ok {
		if g, ok := got.(string); ok {
			return cmp.Diff(strings.TrimRight(w, "\n"), strings.TrimRight(g, "\n"))
		}
	}
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
