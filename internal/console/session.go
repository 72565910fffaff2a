// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"modgraph/cli/internal/backend"
	"modgraph/cli/internal/bridge/model"
	"modgraph/cli/internal/catalog"
	apperrors "modgraph/cli/internal/errors"
	"modgraph/cli/internal/logging"

	"github.com/pterm/pterm"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for failures and dropped responses.
func WithLogger(l *pterm.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithState starts the session from st instead of NewState().
func WithState(st State) Option {
	return func(s *Session) { s.state = st }
}

type task struct {
	token  uint64
	cancel context.CancelFunc
}

// Session owns a console State and runs the effects the reducer asks for.
// It is safe for concurrent use.
type Session struct {
	api    backend.API
	logger *pterm.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	tasks    [slotCount]task
	inflight int
	changed  chan struct{}
	closed   bool
}

// NewSession creates a Session issuing queries through api.
func NewSession(api backend.API, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		api:     api,
		logger:  logging.Discard(),
		ctx:     ctx,
		cancel:  cancel,
		state:   NewState(),
		changed: make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dispatch applies a user action. A rejected action leaves the state unchanged
// and returns an *errors.E tagged invalid_input or not_ready.
func (s *Session) Dispatch(a Action) error {
	if _, ok := a.(Done); ok {
		return apperrors.New(apperrors.InvalidInput, "completions are internal")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.New(apperrors.NotReady, "session closed")
	}

	next, effects, err := Reduce(s.state, a)
	if err != nil {
		return err
	}
	s.state = next
	for _, e := range effects {
		s.start(e)
	}
	s.broadcast()
	return nil
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Changed returns a channel closed on the next state change.
func (s *Session) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// Wait blocks until no task is in flight or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.inflight == 0 {
			s.mu.Unlock()
			return nil
		}
		ch := s.changed
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels all in-flight tasks. Completions that arrive later are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// start must be called with mu held.
func (s *Session) start(e Effect) {
	if prev := s.tasks[e.Slot]; prev.cancel != nil {
		prev.cancel()
		s.tasks[e.Slot] = task{}
	}
	if e.Kind == Cancel {
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.tasks[e.Slot] = task{token: e.Token, cancel: cancel}
	s.inflight++
	go func() {
		rows, err := s.execute(ctx, e)
		s.finish(e, rows, err)
	}()
}

func (s *Session) execute(ctx context.Context, e Effect) ([]model.Row, error) {
	switch e.Kind {
	case FetchRange:
		return s.api.RelationRange(ctx, e.Relation)
	case FetchDomain:
		return s.api.ModuleDomain(ctx)
	case RunQuery:
		switch e.Mode {
		case catalog.ModePrograms:
			return s.api.ModulesForProgram(ctx, e.Subject)
		case catalog.ModeModules:
			return s.api.ModulesByRelation(ctx, e.Relation, e.Object)
		case catalog.ModeProperty:
			return s.api.ModuleProperty(ctx, e.Subject, e.Relation)
		}
	}
	return nil, apperrors.New(apperrors.InvalidInput, fmt.Sprintf("no handler for effect %d", e.Kind))
}

func (s *Session) finish(e Effect, rows []model.Row, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	if t := s.tasks[e.Slot]; t.token == e.Token && t.cancel != nil {
		t.cancel()
		s.tasks[e.Slot] = task{}
	}
	if s.closed {
		s.broadcast()
		return
	}

	next, _, rerr := Reduce(s.state, Done{Effect: e, Rows: rows, Err: err})
	switch {
	case stderrors.Is(rerr, ErrStale):
		s.logger.Debug("dropped stale response", s.logger.Args("slot", e.Slot.String(), "token", e.Token))
	case rerr != nil:
		s.logger.Warn("completion rejected", s.logger.Args("slot", e.Slot.String(), "error", rerr.Error()))
	default:
		s.state = next
		if err != nil {
			logging.LogFailure(s.logger, e.Slot.String(), err)
		}
	}
	s.broadcast()
}

// broadcast must be called with mu held.
func (s *Session) broadcast() {
	close(s.changed)
	s.changed = make(chan struct{})
}
