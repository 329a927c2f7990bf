package types

import (
	"github.com/pkl-lang/pkl-core/internal/ast"
	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Constrained is `T(pred1, pred2, ...)` (spec section 4.E): v must satisfy
// Base, then every predicate must evaluate to true under a custom-this
// scope bound to v.
type Constrained struct {
	Base       Type
	Predicates []ast.Expr
}

func (c Constrained) Check(v value.Value, fr *frame.Frame, ev Evaluator) (value.Value, error) {
	checked, err := c.Base.Check(v, fr, ev)
	if err != nil {
		return nil, err
	}

	predFrame := fr.WithAux(frame.CustomThis, v)

	for _, pred := range c.Predicates {
		result, err := ev.EvalExpr(pred, predFrame)
		if err != nil {
			return nil, err
		}

		b, ok := result.(value.Boolean)
		if !ok || !bool(b) {
			return nil, diag.New(diag.KindConstraintViolation,
				"value %s does not satisfy the constraint on type %s", v, c).WithRange(pred.Range())
		}
	}

	return checked, nil
}

// Default implements Type: Base's default must itself satisfy every
// predicate, otherwise Constrained has no default (spec section 4.E).
func (c Constrained) Default(fr *frame.Frame, ev Evaluator) (value.Value, bool, error) {
	base, ok, err := c.Base.Default(fr, ev)
	if err != nil || !ok {
		return nil, false, err
	}

	if _, err := c.Check(base, fr, ev); err != nil {
		if diag.Is(err, diag.KindConstraintViolation) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return base, true, nil
}

func (c Constrained) String() string {
	s := c.Base.String() + "("
	for i := range c.Predicates {
		if i > 0 {
			s += ", "
		}
		s += "..."
	}
	return s + ")"
}
