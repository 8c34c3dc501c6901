// Package chain runs ordered fallback strategies: each stage of the assistant
// lists its primary call first and its deterministic default last, and the
// first strategy that succeeds wins. Strategies are attempted once each.
package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrExhausted is returned when every strategy in a chain failed
var ErrExhausted = errors.New("all strategies failed")

// Strategy is one link in a fallback chain
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
	// Accept is an optional success predicate applied to a nil-error result.
	// A rejected result moves the chain on to the next strategy.
	Accept func(T) bool
}

// Attempt records the outcome of one strategy
type Attempt struct {
	Name string
	Err  error
}

// Result is what a chain run produced
type Result[T any] struct {
	Value    T
	Strategy string    // name of the strategy that produced Value
	Attempts []Attempt // failed attempts before Strategy, in order
}

// Failed reports whether any strategy before the winning one failed
func (r Result[T]) Failed() bool {
	return len(r.Attempts) > 0
}

// Errors returns the failed attempts as "name: error" strings
func (r Result[T]) Errors() []string {
	out := make([]string, 0, len(r.Attempts))
	for _, a := range r.Attempts {
		out = append(out, fmt.Sprintf("%s: %v", a.Name, a.Err))
	}
	return out
}

// errRejected marks a result refused by a strategy's Accept predicate
var errRejected = errors.New("result rejected")

// Run tries the strategies in order and returns the first accepted result.
// Every strategy still runs on a cancelled context so that a local default at
// the end of the chain can answer.
func Run[T any](ctx context.Context, strategies ...Strategy[T]) (Result[T], error) {
	var res Result[T]
	for _, s := range strategies {
		v, err := s.Run(ctx)
		if err == nil && s.Accept != nil && !s.Accept(v) {
			err = errRejected
		}
		if err != nil {
			res.Attempts = append(res.Attempts, Attempt{Name: s.Name, Err: err})
			continue
		}

		res.Value = v
		res.Strategy = s.Name
		return res, nil
	}

	names := make([]string, 0, len(res.Attempts))
	for _, a := range res.Attempts {
		names = append(names, a.Name)
	}
	return res, fmt.Errorf("%w: %s", ErrExhausted, strings.Join(names, ", "))
}

// Static wraps a value that never fails, for use as the last link of a chain
func Static[T any](name string, fn func() T) Strategy[T] {
	return Strategy[T]{
		Name: name,
		Run: func(context.Context) (T, error) {
			return fn(), nil
		},
	}
}
