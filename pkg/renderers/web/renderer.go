// Package web renders the form page for the HTTP surface.
package web

import (
	"fmt"
	"io"
	"io/fs"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-bfhl/pkg/controller"
	"github.com/goliatone/go-bfhl/pkg/render/template"
	"github.com/goliatone/go-bfhl/pkg/render/template/gotemplate"
	"github.com/goliatone/go-bfhl/pkg/view"
)

// Title is the page heading.
const Title = "BFHL Frontend Application"

// Routes are the form targets the page posts to.
type Routes struct {
	Home          string
	Submit        string
	Options       string
	OperationCode string
}

// DefaultRoutes matches the server's mux.
func DefaultRoutes() Routes {
	return Routes{
		Home:          "/",
		Submit:        "/submit",
		Options:       "/options",
		OperationCode: "/operation-code",
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplateRenderer replaces the embedded pongo2 engine.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(r *Renderer) {
		r.engine = renderer
	}
}

// WithTemplatesFS loads templates from files instead of the embedded set.
func WithTemplatesFS(files fs.FS) Option {
	return func(r *Renderer) {
		r.templates = files
	}
}

// WithTheme sets the resolved theme configuration.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *Renderer) {
		r.theme = cfg
	}
}

// WithRoutes overrides the form targets.
func WithRoutes(routes Routes) Option {
	return func(r *Renderer) {
		r.routes = routes
	}
}

// WithLogger sets the renderer logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// Renderer turns controller state into the HTML page.
type Renderer struct {
	engine    template.TemplateRenderer
	templates fs.FS
	theme     *theme.RendererConfig
	routes    Routes
	logger    zerolog.Logger
}

// New builds a Renderer. Without options it uses the embedded templates and
// the light variant of DefaultManifest.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		templates: TemplatesFS(),
		routes:    DefaultRoutes(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.theme == nil {
		sel, err := NewManifestSelector(DefaultManifest()).Select(DefaultThemeName, VariantLight)
		if err != nil {
			return nil, err
		}
		r.theme = RendererConfig(sel)
	}

	if r.engine == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(r.templates))
		if err != nil {
			return nil, fmt.Errorf("web: template engine: %w", err)
		}
		r.engine = engine
	}

	return r, nil
}

// Render writes the page for state. notice is shown once as a dialog when
// non-nil.
func (r *Renderer) Render(w io.Writer, state controller.State, notice *controller.Notice) error {
	data, err := r.PageData(state, notice)
	if err != nil {
		return err
	}
	if _, err := r.engine.RenderTemplate(PageTemplate, data, w); err != nil {
		r.logger.Error().Err(err).Msg("page render failed")
		return fmt.Errorf("web: render page: %w", err)
	}
	return nil
}

// PageData builds the template context for state.
func (r *Renderer) PageData(state controller.State, notice *controller.Notice) (map[string]any, error) {
	rendered, err := state.View()
	if err != nil {
		return nil, fmt.Errorf("web: render view: %w", err)
	}

	options := make([]map[string]any, 0, len(view.Tags()))
	for _, tag := range view.Tags() {
		options = append(options, map[string]any{
			"value":    string(tag),
			"selected": state.Options.Has(tag),
		})
	}

	data := map[string]any{
		"title":        Title,
		"stylesheet":   r.stylesheetURL(),
		"theme":        r.themeContext(),
		"input":        state.Input,
		"error":        state.Error,
		"has_response": state.HasResponse(),
		"options":      options,
		"view":         rendered,
		"routes": map[string]any{
			"home":           r.routes.Home,
			"submit":         r.routes.Submit,
			"options":        r.routes.Options,
			"operation_code": r.routes.OperationCode,
		},
	}
	if notice != nil {
		data["notice"] = map[string]any{
			"message": notice.Message,
			"failed":  notice.Failed,
		}
	}
	return data, nil
}

func (r *Renderer) stylesheetURL() string {
	if r.theme != nil && r.theme.AssetURL != nil {
		if url := r.theme.AssetURL("stylesheet"); url != "" {
			return url
		}
	}
	return "/assets/" + StylesheetName
}

func (r *Renderer) themeContext() map[string]any {
	if r.theme == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":    r.theme.Theme,
		"variant": r.theme.Variant,
		"style":   cssVarsStyle(r.theme.CSSVars),
	}
}
