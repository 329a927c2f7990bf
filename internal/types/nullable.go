package types

import (
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Nullable is `T?`: Null always checks, otherwise delegates to Element.
type Nullable struct {
	Element Type
}

func (n Nullable) Check(v value.Value, fr *frame.Frame, ev Evaluator) (value.Value, error) {
	if v.Kind() == value.KindNull {
		return v, nil
	}
	if _, err := n.Element.Check(v, fr, ev); err != nil {
		return nil, typeMismatch(n, v)
	}
	return v, nil
}

// Default implements Type: Nullable's default is always null (spec section
// 4.E), regardless of whether Element itself has a default.
func (n Nullable) Default(_ *frame.Frame, _ Evaluator) (value.Value, bool, error) {
	return value.TheNull, true, nil
}

func (n Nullable) String() string { return n.Element.String() + "?" }
