// Package fetchstate tracks the lifecycle of one remote call made on behalf of a view:
// a repository page fetch or a contact relay send.
package fetchstate

import (
	"errors"
	"fmt"
	"time"
)

// Status is the phase of a retrieval.
type Status string

const (
	Idle    Status = "idle"
	Loading Status = "loading"
	Success Status = "success"
	Error   Status = "error"
)

// ErrInvalidTransition is returned when a move is not one of
// idle→loading, loading→success, loading→error, success→loading, error→loading.
var ErrInvalidTransition = errors.New("fetchstate: invalid transition")

var allowed = map[Status][]Status{
	Idle:    {Loading},
	Loading: {Success, Error},
	Success: {Loading},
	Error:   {Loading},
}

// State is a value type; methods that change it take a pointer.
// Message is set only while Status is Error, LastUpdated only once Success was reached.
type State struct {
	Status      Status
	Message     string
	LastUpdated time.Time
}

// New returns an idle state.
func New() State {
	return State{Status: Idle}
}

// CanTransition reports whether from→to is legal.
func CanTransition(from, to Status) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Begin moves the state into Loading.
func (s *State) Begin() error {
	if err := s.check(Loading); err != nil {
		return err
	}
	s.Status = Loading
	s.Message = ""
	return nil
}

// Succeed moves a loading state into Success stamped with at.
func (s *State) Succeed(at time.Time) error {
	if err := s.check(Success); err != nil {
		return err
	}
	s.Status = Success
	s.Message = ""
	s.LastUpdated = at
	return nil
}

// Fail moves a loading state into Error carrying msg.
// LastUpdated keeps the time of the previous success, if any.
func (s *State) Fail(msg string) error {
	if err := s.check(Error); err != nil {
		return err
	}
	if msg == "" {
		msg = "request failed"
	}
	s.Status = Error
	s.Message = msg
	return nil
}

func (s *State) check(to Status) error {
	if !CanTransition(s.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, to)
	}
	return nil
}

// IsLoading is a convenience for templates.
func (s State) IsLoading() bool { return s.Status == Loading }

// HasSucceeded reports whether a success was ever recorded.
func (s State) HasSucceeded() bool { return !s.LastUpdated.IsZero() }

// Age is the time since the last success; zero when there was none.
func (s State) Age(now time.Time) time.Duration {
	if s.LastUpdated.IsZero() {
		return 0
	}
	return now.Sub(s.LastUpdated)
}
