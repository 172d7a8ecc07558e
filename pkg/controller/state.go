package controller

import "github.com/goliatone/go-bfhl/pkg/view"

// State is the single record behind the form. Transitions never mutate a
// State in place; Reduce returns a replacement.
type State struct {
	Input    string         `json:"input"`
	Response view.Response  `json:"response"`
	Options  view.Selection `json:"options"`
	Error    string         `json:"error"`
}

// HasResponse reports whether a successful response is on display.
func (s State) HasResponse() bool {
	return s.Response != nil
}

// View renders the filtered response, or "" when there is none.
func (s State) View() (string, error) {
	return view.Render(view.Filter(s.Response, s.Options))
}

// Action is a state transition request.
type Action interface {
	apply(State) State
}

// InputChanged records new raw input text.
type InputChanged struct{ Text string }

// SubmitStarted resets the form ahead of a new submission.
type SubmitStarted struct{ Text string }

// SubmitFailed records a user facing failure message.
type SubmitFailed struct{ Message string }

// SubmitSucceeded stores the endpoint response.
type SubmitSucceeded struct{ Response view.Response }

// OptionsChanged replaces the filter selection.
type OptionsChanged struct{ Selection view.Selection }

func (a InputChanged) apply(s State) State {
	s.Input = a.Text
	return s
}

func (a SubmitStarted) apply(s State) State {
	return State{Input: a.Text}
}

func (a SubmitFailed) apply(s State) State {
	s.Response = nil
	s.Error = a.Message
	return s
}

func (a SubmitSucceeded) apply(s State) State {
	s.Response = a.Response
	s.Error = ""
	return s
}

func (a OptionsChanged) apply(s State) State {
	s.Options = a.Selection
	return s
}

// Reduce applies action to s and returns the next state. A nil action leaves
// s unchanged.
func Reduce(s State, action Action) State {
	if action == nil {
		return s
	}
	return action.apply(s)
}
