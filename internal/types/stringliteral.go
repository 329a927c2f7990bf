package types

import (
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// StringLiteral is a string-literal type (spec section 4.E); `"a"|"b"` is
// modeled as a Union of two StringLiterals.
type StringLiteral struct {
	Literal string
}

func (s StringLiteral) Check(v value.Value, _ *frame.Frame, _ Evaluator) (value.Value, error) {
	str, ok := v.(value.String)
	if !ok || string(str) != s.Literal {
		return nil, typeMismatch(s, v)
	}
	return v, nil
}

func (s StringLiteral) Default(_ *frame.Frame, _ Evaluator) (value.Value, bool, error) {
	return value.String(s.Literal), true, nil
}

func (s StringLiteral) String() string { return `"` + s.Literal + `"` }
