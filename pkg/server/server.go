// Package server exposes the form over HTTP. Each browser session owns a
// controller; every form action posts and redirects back to the page.
package server

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-bfhl/pkg/renderers/web"
)

// DefaultCookieName names the session cookie.
const DefaultCookieName = "bfhl_session"

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRenderer replaces the default page renderer.
func WithRenderer(renderer *web.Renderer) Option {
	return func(s *Server) {
		s.renderer = renderer
	}
}

// WithSessionTTL sets how long idle sessions are kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.ttl = ttl
	}
}

// WithCookieName overrides DefaultCookieName.
func WithCookieName(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.cookieName = name
		}
	}
}

// WithAssets overrides the files served under /assets/.
func WithAssets(assets fs.FS) Option {
	return func(s *Server) {
		s.assets = assets
	}
}

// Server holds the session store and the page renderer.
type Server struct {
	sessions   *SessionStore
	renderer   *web.Renderer
	assets     fs.FS
	logger     zerolog.Logger
	ttl        time.Duration
	cookieName string
}

// New builds a Server that creates session controllers with factory.
func New(factory ControllerFactory, options ...Option) (*Server, error) {
	if factory == nil {
		return nil, errors.New("server: controller factory is required")
	}
	s := &Server{
		assets:     web.AssetsFS(),
		logger:     zerolog.Nop(),
		ttl:        DefaultSessionTTL,
		cookieName: DefaultCookieName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.renderer == nil {
		renderer, err := web.New(web.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.renderer = renderer
	}
	s.sessions = NewSessionStore(factory, s.ttl)
	return s, nil
}

// Sessions exposes the store so callers can run its sweeper.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	routes := web.DefaultRoutes()

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc(routes.Home, s.handlePage).Methods(http.MethodGet)
	r.HandleFunc(routes.Submit, s.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc(routes.Options, s.handleOptions).Methods(http.MethodPost)
	r.HandleFunc(routes.OperationCode, s.handleOperationCode).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.PathPrefix("/assets/").Handler(
		http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))),
	).Methods(http.MethodGet)
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
