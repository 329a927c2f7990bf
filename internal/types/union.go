package types

import (
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Union is `T1 | T2 | ...`, checked left-to-right (spec section 4.E): the
// first member that accepts v wins, and errors from earlier members are
// discarded in favor of the union-wide TypeMismatch.
type Union struct {
	Members []Type
}

func (u Union) Check(v value.Value, fr *frame.Frame, ev Evaluator) (value.Value, error) {
	for _, m := range u.Members {
		if checked, err := m.Check(v, fr, ev); err == nil {
			return checked, nil
		}
	}
	return nil, typeMismatch(u, v)
}

// Default implements Type: the leftmost member with a default wins (spec
// section 4.E).
func (u Union) Default(fr *frame.Frame, ev Evaluator) (value.Value, bool, error) {
	for _, m := range u.Members {
		if d, ok, err := m.Default(fr, ev); err != nil {
			return nil, false, err
		} else if ok {
			return d, true, nil
		}
	}
	return nil, false, nil
}

func (u Union) String() string {
	s := ""
	for i, m := range u.Members {
		if i > 0 {
			s += "|"
		}
		s += m.String()
	}
	return s
}
