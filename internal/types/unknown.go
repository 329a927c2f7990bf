package types

import (
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Unknown is the `unknown` type: every value checks, and it has no default.
type Unknown struct{}

func (Unknown) Check(v value.Value, _ *frame.Frame, _ Evaluator) (value.Value, error) { return v, nil }

func (Unknown) Default(_ *frame.Frame, _ Evaluator) (value.Value, bool, error) {
	return nil, false, nil
}

func (Unknown) String() string { return "unknown" }
