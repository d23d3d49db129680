// Package fsm provides the transition table shared by the order, payment and
// logistics status models.
package fsm

import (
	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

// Table maps each state to the set of states it may transition to. A state
// with an empty (or missing) entry is terminal.
type Table[S ~string] map[S][]S

// Can reports whether a transition from `from` to `to` is allowed.
func (t Table[S]) Can(from, to S) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Allowed returns the states reachable from `from`.
func (t Table[S]) Allowed(from S) []S {
	allowed := t[from]
	out := make([]S, len(allowed))
	copy(out, allowed)
	return out
}

// Terminal reports whether `s` has no outgoing transitions.
func (t Table[S]) Terminal(s S) bool {
	return len(t[s]) == 0
}

// Validate returns an InvalidTransition error if the transition is not
// allowed.
func (t Table[S]) Validate(from, to S) error {
	if !t.Can(from, to) {
		return apperrors.InvalidTransition(string(from), string(to))
	}
	return nil
}
