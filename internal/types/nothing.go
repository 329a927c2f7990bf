package types

import (
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Nothing is the `nothing` type: no value ever checks, and it has no
// default (a property declared `nothing` with no body is always a
// MissingProperty, never silently satisfied).
type Nothing struct{}

func (n Nothing) Check(v value.Value, _ *frame.Frame, _ Evaluator) (value.Value, error) {
	return nil, typeMismatch(n, v)
}

func (Nothing) Default(_ *frame.Frame, _ Evaluator) (value.Value, bool, error) {
	return nil, false, nil
}

func (Nothing) String() string { return "nothing" }
