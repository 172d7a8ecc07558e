// Package tui drives the form from a terminal. A Session loops over a menu of
// the controller's actions until the user quits or presses Ctrl+C.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-bfhl/pkg/controller"
	"github.com/goliatone/go-bfhl/pkg/view"
)

// Menu entries.
const (
	ActionSubmit        = "Submit JSON"
	ActionFilter        = "Filter response"
	ActionOperationCode = "Get Operation Code"
	ActionQuit          = "Quit"
)

// Session is one interactive terminal run bound to a controller.
type Session struct {
	ctrl   *controller.Controller
	driver PromptDriver
	theme  Theme
	logger zerolog.Logger
}

// NewSession binds a session to ctrl. The survey driver is used unless
// WithPromptDriver is given.
func NewSession(ctrl *controller.Controller, options ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, errors.New("tui: controller is required")
	}
	s := &Session{
		ctrl:   ctrl,
		theme:  DefaultTheme(),
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// Run loops until Quit is chosen and confirmed. Aborting a prompt ends the session
// without error.
func (s *Session) Run(ctx context.Context) error {
	for {
		err := s.step(ctx)
		if errors.Is(err, errQuit) {
			return nil
		}
		if errors.Is(err, ErrAborted) {
			s.logger.Debug().Msg("session aborted")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

var errQuit = errors.New("tui: quit")

func (s *Session) menu() []string {
	items := []string{ActionSubmit}
	if s.ctrl.State().HasResponse() {
		items = append(items, ActionFilter)
	}
	return append(items, ActionOperationCode, ActionQuit)
}

func (s *Session) step(ctx context.Context) error {
	items := s.menu()
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      "What next?",
		Options:      items,
		DefaultIndex: 0,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(items) {
		return fmt.Errorf("tui: invalid menu choice %d", idx)
	}

	switch items[idx] {
	case ActionSubmit:
		return s.Submit(ctx)
	case ActionFilter:
		return s.Filter(ctx)
	case ActionOperationCode:
		return s.OperationCode(ctx)
	default:
		return s.confirmQuit(ctx)
	}
}

func (s *Session) confirmQuit(ctx context.Context) error {
	ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Leave the form?", Default: true})
	if err != nil {
		return err
	}
	if ok {
		return errQuit
	}
	return nil
}

// Submit prompts for JSON input and submits it.
func (s *Session) Submit(ctx context.Context) error {
	text, err := s.driver.TextArea(ctx, TextAreaConfig{
		Message: "Enter JSON input",
		Default: s.ctrl.State().Input,
		Help:    `An object with a "data" array, e.g. {"data": ["A", "1", "b"]}`,
	})
	if err != nil {
		return err
	}

	state := s.ctrl.Submit(ctx, text)
	if state.Error != "" {
		return s.driver.Info(ctx, s.theme.ErrorPrefix+state.Error)
	}
	return s.printView(ctx)
}

// Filter prompts for the tag selection and prints the filtered response.
func (s *Session) Filter(ctx context.Context) error {
	tags := view.Tags()
	options := make([]string, len(tags))
	current := s.ctrl.State().Options
	var defaults []int
	for i, tag := range tags {
		options[i] = string(tag)
		if current.Has(tag) {
			defaults = append(defaults, i)
		}
	}

	picked, err := s.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Filter response",
		Options:  options,
		Defaults: defaults,
	})
	if err != nil {
		return err
	}
	s.ctrl.Select(valuesAt(options, picked)...)
	return s.printView(ctx)
}

// OperationCode fetches and prints the operation code notice.
func (s *Session) OperationCode(ctx context.Context) error {
	notice := s.ctrl.FetchOperationCode(ctx)
	prefix := s.theme.InfoPrefix
	if notice.Failed {
		prefix = s.theme.ErrorPrefix
	}
	return s.driver.Info(ctx, prefix+notice.Message)
}

func (s *Session) printView(ctx context.Context) error {
	rendered, err := s.ctrl.View()
	if err != nil {
		return fmt.Errorf("tui: render view: %w", err)
	}
	if rendered == "" {
		return nil
	}
	return s.driver.Info(ctx, s.theme.InfoPrefix+rendered)
}
