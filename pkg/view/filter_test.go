package view_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bfhl/pkg/view"
)

func sampleResponse() view.Response {
	return view.Response{
		"numbers":                    []any{1, 2},
		"alphabets":                  []any{"a"},
		"highest_lowercase_alphabet": []any{"a"},
	}
}

func TestFilterSelectionTable(t *testing.T) {
	cases := []struct {
		name string
		sel  view.Selection
		want view.Response
	}{
		{
			name: "none",
			sel:  nil,
			want: view.Response{
				"numbers":                    []any{1, 2},
				"alphabets":                  []any{"a"},
				"highest_lowercase_alphabet": []any{},
			},
		},
		{
			name: "alphabets",
			sel:  view.NewSelection("Alphabets"),
			want: view.Response{
				"numbers":                    []any{},
				"alphabets":                  []any{"a"},
				"highest_lowercase_alphabet": []any{},
			},
		},
		{
			name: "numbers",
			sel:  view.NewSelection("Numbers"),
			want: view.Response{
				"numbers":                    []any{1, 2},
				"alphabets":                  []any{},
				"highest_lowercase_alphabet": []any{},
			},
		},
		{
			name: "alphabets and highest lowercase",
			sel:  view.NewSelection("Alphabets", "Highest lowercase alphabet"),
			want: view.Response{
				"numbers":                    []any{},
				"alphabets":                  []any{"a"},
				"highest_lowercase_alphabet": []any{"a"},
			},
		},
		{
			name: "all",
			sel:  view.NewSelection("Numbers", "Alphabets", "Highest lowercase alphabet"),
			want: view.Response{
				"numbers":                    []any{},
				"alphabets":                  []any{},
				"highest_lowercase_alphabet": []any{"a"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := view.Filter(sampleResponse(), tc.sel)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("filtered response mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	resp := sampleResponse()
	_ = view.Filter(resp, view.NewSelection("Alphabets", "Numbers"))

	if diff := cmp.Diff(sampleResponse(), resp); diff != "" {
		t.Fatalf("input response mutated (-want +got):\n%s", diff)
	}
}

func TestFilterAddsMissingFields(t *testing.T) {
	resp := view.Response{"is_success": true}

	got := view.Filter(resp, view.NewSelection("Alphabets"))
	want := view.Response{
		"is_success":                 true,
		"numbers":                    []any{},
		"highest_lowercase_alphabet": []any{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filtered response mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterNilResponse(t *testing.T) {
	if got := view.Filter(nil, view.NewSelection("Numbers")); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}

func TestNewSelectionNormalises(t *testing.T) {
	got := view.NewSelection(" Numbers ", "bogus", "Alphabets", "Numbers", "")
	want := view.Selection{view.TagAlphabets, view.TagNumbers}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if view.NewSelection("bogus") != nil {
		t.Fatalf("expected unknown-only selection to be nil")
	}
}

func TestRenderIndentsWithoutEscaping(t *testing.T) {
	resp, err := view.Decode([]byte(`{"numbers":[1,2.50],"alphabets":["<a>"]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got, err := view.Render(resp)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "{\n  \"alphabets\": [\n    \"<a>\"\n  ],\n  \"numbers\": [\n    1,\n    2.50\n  ]\n}"
	if got != want {
		t.Fatalf("unexpected render output:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderNil(t *testing.T) {
	got, err := view.Render(nil)
	if err != nil || got != "" {
		t.Fatalf("expected empty render, got %q err %v", got, err)
	}
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`[1]`, `null`, `"x"`, `{`} {
		if _, err := view.Decode([]byte(body)); err == nil {
			t.Fatalf("expected error for %s", body)
		}
	}
}
