package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-bfhl/pkg/controller"
	"github.com/goliatone/go-bfhl/pkg/view"
)

type pageJSON struct {
	Input    string        `json:"input"`
	Options  []string      `json:"options"`
	Error    string        `json:"error"`
	Response view.Response `json:"response"`
	View     string        `json:"view"`
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	var id string
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		id = cookie.Value
	}
	sess, created, err := s.sessions.Acquire(id)
	if err != nil {
		s.logger.Error().Err(err).Msg("session controller")
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     s.cookieName,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(s.ttl.Seconds()),
		})
	}
	return sess, true
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	state := sess.Controller().State()

	if r.URL.Query().Get("format") == "json" {
		s.writeJSON(w, state)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, state, s.sessions.TakeNotice(sess)); err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	state := sess.Controller().Submit(r.Context(), r.PostForm.Get("json"))
	if state.Error != "" {
		s.logger.Info().Str("session", sess.ID()).Str("error", state.Error).Msg("submit rejected")
	}
	s.redirectHome(w, r)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess.Controller().Select(r.PostForm["options"]...)
	s.redirectHome(w, r)
}

func (s *Server) handleOperationCode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	notice := sess.Controller().FetchOperationCode(r.Context())
	s.sessions.SetNotice(sess, notice)
	s.redirectHome(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) writeJSON(w http.ResponseWriter, state controller.State) {
	rendered, err := state.View()
	if err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	body := pageJSON{
		Input:    state.Input,
		Options:  state.Options.Strings(),
		Error:    state.Error,
		Response: state.Response,
		View:     rendered,
	}
	if body.Options == nil {
		body.Options = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("encode page json")
	}
}
