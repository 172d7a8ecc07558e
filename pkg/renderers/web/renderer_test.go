package web_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bfhl/pkg/controller"
	"github.com/goliatone/go-bfhl/pkg/renderers/web"
	"github.com/goliatone/go-bfhl/pkg/view"
)

func render(t *testing.T, r *web.Renderer, state controller.State, notice *controller.Notice) string {
	t.Helper()
	var b strings.Builder
	if err := r.Render(&b, state, notice); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func newRenderer(t *testing.T, opts ...web.Option) *web.Renderer {
	t.Helper()
	r, err := web.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderEmptyForm(t *testing.T) {
	out := render(t, newRenderer(t), controller.State{}, nil)

	for _, want := range []string{
		"<h1>BFHL Frontend Application</h1>",
		`name="json"`,
		`placeholder="Enter JSON input"`,
		`rows="5"`,
		`cols="50"`,
		"Get Operation Code",
		`href="/assets/bfhl.css"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in page:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{`name="options"`, "<pre", "<dialog"} {
		if strings.Contains(out, unwanted) {
			t.Fatalf("did not expect %q without a response:\n%s", unwanted, out)
		}
	}
}

func TestRenderErrorLine(t *testing.T) {
	out := render(t, newRenderer(t), controller.State{Input: "{", Error: "Invalid JSON input"}, nil)
	if !strings.Contains(out, `role="alert">Invalid JSON input</p>`) {
		t.Fatalf("expected error line:\n%s", out)
	}
	if !strings.Contains(out, ">{</textarea>") {
		t.Fatalf("expected input retained:\n%s", out)
	}
}

func TestRenderResponseWithSelection(t *testing.T) {
	state := controller.State{
		Response: view.Response{"numbers": []any{1}, "alphabets": []any{"<a>"}},
		Options:  view.NewSelection("Numbers"),
	}
	out := render(t, newRenderer(t), state, nil)

	if !strings.Contains(out, `<label for="options">Select Options: </label>`) || !strings.Contains(out, `<select id="options" name="options" multiple`) {
		t.Fatalf("expected labelled options select:\n%s", out)
	}
	if !strings.Contains(out, `<option value="Numbers" selected>`) {
		t.Fatalf("expected Numbers selected:\n%s", out)
	}
	if !strings.Contains(out, `<option value="Alphabets">`) {
		t.Fatalf("expected Alphabets unselected:\n%s", out)
	}
	if !strings.Contains(out, `&quot;alphabets&quot;: []`) {
		t.Fatalf("expected filtered view:\n%s", out)
	}
	if strings.Contains(out, "<a>") {
		t.Fatalf("response content must be escaped:\n%s", out)
	}
}

func TestRenderNoticeEscapesVerbatimText(t *testing.T) {
	notice := &controller.Notice{Message: "Operation Code: A<B>C <script>x</script> & 42"}
	out := render(t, newRenderer(t), controller.State{}, notice)

	want := "<p>Operation Code: A&lt;B&gt;C &lt;script&gt;x&lt;/script&gt; &amp; 42</p>"
	if !strings.Contains(out, want) {
		t.Fatalf("expected escaped notice %q:\n%s", want, out)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("notice must not inject markup:\n%s", out)
	}
	if !strings.Contains(out, "<dialog") {
		t.Fatalf("expected dialog:\n%s", out)
	}

	failed := render(t, newRenderer(t), controller.State{}, &controller.Notice{Message: "Failed to fetch operation code", Failed: true})
	if !strings.Contains(failed, "is-failed") {
		t.Fatalf("expected failed class:\n%s", failed)
	}
}

func TestPageData(t *testing.T) {
	r := newRenderer(t)
	data, err := r.PageData(controller.State{Response: view.Response{}}, nil)
	if err != nil {
		t.Fatalf("page data: %v", err)
	}
	want := []map[string]any{
		{"value": "Alphabets", "selected": false},
		{"value": "Numbers", "selected": false},
		{"value": "Highest lowercase alphabet", "selected": false},
	}
	if diff := cmp.Diff(want, data["options"]); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if _, ok := data["notice"]; ok {
		t.Fatalf("expected no notice")
	}
}

func TestDarkVariant(t *testing.T) {
	sel, err := web.NewManifestSelector(web.DefaultManifest()).Select("", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	out := render(t, newRenderer(t, web.WithTheme(web.RendererConfig(sel))), controller.State{}, nil)
	if !strings.Contains(out, `data-theme="dark"`) {
		t.Fatalf("expected dark theme attribute:\n%s", out)
	}
	if !strings.Contains(out, "--background: #111827;") {
		t.Fatalf("expected dark tokens:\n%s", out)
	}
}

func TestAssetsFS(t *testing.T) {
	data, err := fs.ReadFile(web.AssetsFS(), web.StylesheetName)
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(string(data), ".bfhl-view") {
		t.Fatalf("unexpected stylesheet contents")
	}
}
