// Package state holds explicit UI state containers with pure
// reducers. Reducers take (state, action) and return the next state;
// the container serializes dispatches, so there are no shared mutable
// globals.
package state

import "sync"

// Action is a state transition request. Unknown actions leave the
// state unchanged.
type Action any

// Store owns a state value and applies actions through a reducer.
type Store[S any] struct {
	mu     sync.Mutex
	state  S
	reduce func(S, Action) S
}

// NewStore builds a store from an initial state and a reducer.
func NewStore[S any](initial S, reduce func(S, Action) S) *Store[S] {
	return &Store[S]{state: initial, reduce: reduce}
}

// Dispatch applies an action and returns the resulting state.
func (s *Store[S]) Dispatch(a Action) S {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.reduce(s.state, a)
	return s.state
}

// State returns the current state.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
