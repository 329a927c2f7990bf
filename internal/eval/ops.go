package eval

import (
	"math"

	"github.com/pkl-lang/pkl-core/internal/ast"
	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// ValuesEqual implements spec section 4.A's full equality rule for
// object-like operands: every visible member of both a and b is forced
// before delegating to Value.Equals' cached-snapshot comparison (see
// objectlike.go's objectEquals doc comment), so that `==` does not depend on
// which members happened to be forced already. Non-object-like operands
// compare directly.
func (e *Evaluator) ValuesEqual(a, b value.Value, fr *frame.Frame) (bool, error) {
	ao, aok := a.(value.Objectlike)
	bo, bok := b.(value.Objectlike)

	if !aok || !bok {
		return a.Equals(b), nil
	}

	if ao.Kind() != bo.Kind() {
		return false, nil
	}

	for _, k := range value.VisibleKeys(ao) {
		if _, err := e.Force(ao, k, fr); err != nil {
			return false, err
		}
	}

	for _, k := range value.VisibleKeys(bo) {
		if _, err := e.Force(bo, k, fr); err != nil {
			return false, err
		}
	}

	return ao.Equals(bo), nil
}

func (e *Evaluator) evalBinaryOp(n *ast.BinaryOp, fr *frame.Frame) (value.Value, error) {
	// && and || short-circuit (spec section 4.D), so the right operand must
	// not be evaluated eagerly.
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		return e.evalShortCircuit(n, fr)
	}

	left, err := e.EvalExpr(n.Left, fr)
	if err != nil {
		return nil, err
	}

	right, err := e.EvalExpr(n.Right, fr)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case ast.OpEq:
		eq, err := e.ValuesEqual(left, right, fr)
		if err != nil {
			return nil, err
		}
		return value.Boolean(eq), nil
	case ast.OpNeq:
		eq, err := e.ValuesEqual(left, right, fr)
		if err != nil {
			return nil, err
		}
		return value.Boolean(!eq), nil
	}

	if n.Op == ast.OpAdd {
		if v, ok, err := evalConcat(left, right); ok {
			return v, err
		}
	}

	if n.Op >= ast.OpLt && n.Op <= ast.OpGte {
		return evalCompare(n.Op, left, right, n.Range())
	}

	return evalArith(n.Op, left, right, n.Range())
}

func (e *Evaluator) evalShortCircuit(n *ast.BinaryOp, fr *frame.Frame) (value.Value, error) {
	left, err := e.EvalExpr(n.Left, fr)
	if err != nil {
		return nil, err
	}

	lb, ok := left.(value.Boolean)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, "operand of %s must be a Boolean", opName(n.Op)).WithRange(n.Range())
	}

	if n.Op == ast.OpAnd && !bool(lb) {
		return value.Boolean(false), nil
	}

	if n.Op == ast.OpOr && bool(lb) {
		return value.Boolean(true), nil
	}

	right, err := e.EvalExpr(n.Right, fr)
	if err != nil {
		return nil, err
	}

	rb, ok := right.(value.Boolean)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, "operand of %s must be a Boolean", opName(n.Op)).WithRange(n.Range())
	}

	return rb, nil
}

// evalConcat handles the `+` overloads that are not numeric addition:
// String, List and Bytes concatenation, Set union and Map merge (spec
// section 4.D, "Arithmetic/string/coll ops"). ok is false when left
// is not one of these kinds, signalling the caller to fall through to
// numeric addition.
func evalConcat(left, right value.Value) (value.Value, bool, error) {
	switch l := left.(type) {
	case value.String:
		r, ok := right.(value.String)
		if !ok {
			return nil, true, diag.New(diag.KindTypeMismatch, "cannot concatenate String with %s", right.Kind())
		}
		return value.String(string(l) + string(r)), true, nil
	case value.List:
		r, ok := right.(value.List)
		if !ok {
			return nil, true, diag.New(diag.KindTypeMismatch, "cannot concatenate List with %s", right.Kind())
		}
		out := make([]value.Value, 0, len(l.Elements)+len(r.Elements))
		out = append(out, l.Elements...)
		out = append(out, r.Elements...)
		return value.NewList(out), true, nil
	case value.Set:
		r, ok := right.(value.Set)
		if !ok {
			return nil, true, diag.New(diag.KindTypeMismatch, "cannot union Set with %s", right.Kind())
		}
		out := make([]value.Value, 0, len(l.Elements)+len(r.Elements))
		out = append(out, l.Elements...)
		out = append(out, r.Elements...)
		return value.NewSet(out), true, nil
	case value.Map:
		r, ok := right.(value.Map)
		if !ok {
			return nil, true, diag.New(diag.KindTypeMismatch, "cannot merge Map with %s", right.Kind())
		}
		out := make([]value.MapEntry, 0, len(l.Entries)+len(r.Entries))
		out = append(out, l.Entries...)
		out = append(out, r.Entries...)
		return value.NewMap(out), true, nil
	case value.Bytes:
		r, ok := right.(value.Bytes)
		if !ok {
			return nil, true, diag.New(diag.KindTypeMismatch, "cannot concatenate Bytes with %s", right.Kind())
		}
		out := make(value.Bytes, 0, len(l)+len(r))
		out = append(out, l...)
		out = append(out, r...)
		return out, true, nil
	default:
		return nil, false, nil
	}
}

func asFloat(v value.Value) (float64, bool) {
	switch n := v.(type) {
	case value.Int:
		return float64(n), true
	case value.Float:
		return float64(n), true
	default:
		return 0, false
	}
}

func evalCompare(op ast.BinOp, left, right value.Value, r diag.Range) (value.Value, error) {
	if ls, ok := left.(value.String); ok {
		rs, ok := right.(value.String)
		if !ok {
			return nil, diag.New(diag.KindTypeMismatch, "cannot compare String with %s", right.Kind()).WithRange(r)
		}
		return value.Boolean(compareOrdered(op, stringCompare(string(ls), string(rs)))), nil
	}

	lf, ok := asFloat(left)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, "cannot order a %s", left.Kind()).WithRange(r)
	}

	rf, ok := asFloat(right)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, "cannot order %s with %s", left.Kind(), right.Kind()).WithRange(r)
	}

	switch {
	case lf < rf:
		return value.Boolean(compareOrdered(op, -1)), nil
	case lf > rf:
		return value.Boolean(compareOrdered(op, 1)), nil
	default:
		return value.Boolean(compareOrdered(op, 0)), nil
	}
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOrdered(op ast.BinOp, cmp int) bool {
	switch op {
	case ast.OpLt:
		return cmp < 0
	case ast.OpLte:
		return cmp <= 0
	case ast.OpGt:
		return cmp > 0
	case ast.OpGte:
		return cmp >= 0
	default:
		return false
	}
}

func evalArith(op ast.BinOp, left, right value.Value, r diag.Range) (value.Value, error) {
	li, lIsInt := left.(value.Int)
	ri, rIsInt := right.(value.Int)

	if lIsInt && rIsInt && op != ast.OpDiv {
		return evalIntArith(op, li, ri, r)
	}

	lf, ok := asFloat(left)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, "operand must be numeric, got %s", left.Kind()).WithRange(r)
	}

	rf, ok := asFloat(right)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, "operand must be numeric, got %s", right.Kind()).WithRange(r)
	}

	switch op {
	case ast.OpAdd:
		return value.Float(lf + rf), nil
	case ast.OpSub:
		return value.Float(lf - rf), nil
	case ast.OpMul:
		return value.Float(lf * rf), nil
	case ast.OpDiv:
		return value.Float(lf / rf), nil
	case ast.OpPow:
		return value.Float(floatPow(lf, rf)), nil
	default:
		return nil, diag.New(diag.KindInternalBug, "unhandled float operator %s", opName(op)).WithRange(r)
	}
}

func floatPow(base, exp float64) float64 {
	if exp != math.Trunc(exp) {
		return math.Pow(base, exp)
	}

	result := 1.0
	neg := exp < 0

	n := exp
	if neg {
		n = -n
	}

	// Integral exponents are computed by repeated multiplication;
	// fractional ones were handled by math.Pow above.
	for i := 0.0; i < n; i++ {
		result *= base
	}

	if neg {
		return 1 / result
	}

	return result
}

func evalIntArith(op ast.BinOp, l, r value.Int, rng diag.Range) (value.Value, error) {
	switch op {
	case ast.OpAdd:
		v, err := value.AddInt(l, r)
		return wrapOverflow(v, err, rng)
	case ast.OpSub:
		v, err := value.SubInt(l, r)
		return wrapOverflow(v, err, rng)
	case ast.OpMul:
		v, err := value.MulInt(l, r)
		return wrapOverflow(v, err, rng)
	case ast.OpIntDiv:
		if r == 0 {
			return nil, diag.New(diag.KindEval, "division by zero").WithRange(rng)
		}
		return value.Int(int64(l) / int64(r)), nil
	case ast.OpMod:
		if r == 0 {
			return nil, diag.New(diag.KindEval, "division by zero").WithRange(rng)
		}
		return value.Int(int64(l) % int64(r)), nil
	case ast.OpPow:
		if r < 0 {
			return value.Float(floatPow(float64(l), float64(r))), nil
		}
		v, err := value.PowInt(l, int64(r))
		return wrapOverflow(v, err, rng)
	default:
		return nil, diag.New(diag.KindInternalBug, "unhandled int operator %s", opName(op)).WithRange(rng)
	}
}

func wrapOverflow(v value.Int, err error, r diag.Range) (value.Value, error) {
	if err != nil {
		return nil, diag.New(diag.KindIntegerOverflow, "%v", err).WithRange(r)
	}
	return v, nil
}

func opName(op ast.BinOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpIntDiv:
		return "~/"
	case ast.OpMod:
		return "%"
	case ast.OpPow:
		return "pow"
	case ast.OpEq:
		return "=="
	case ast.OpNeq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpLte:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGte:
		return ">="
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	default:
		return "?"
	}
}

func (e *Evaluator) evalUnaryOp(n *ast.UnaryOp, fr *frame.Frame) (value.Value, error) {
	v, err := e.EvalExpr(n.Operand, fr)
	if err != nil {
		return nil, err
	}

	if n.Not {
		b, ok := v.(value.Boolean)
		if !ok {
			return nil, diag.New(diag.KindTypeMismatch, "operand of ! must be a Boolean").WithRange(n.Range())
		}
		return value.Boolean(!bool(b)), nil
	}

	switch num := v.(type) {
	case value.Int:
		neg, err := value.SubInt(0, num)
		if err != nil {
			return nil, diag.New(diag.KindIntegerOverflow, "%v", err).WithRange(n.Range())
		}
		return neg, nil
	case value.Float:
		return -num, nil
	default:
		return nil, diag.New(diag.KindTypeMismatch, "operand of - must be numeric, got %s", v.Kind()).WithRange(n.Range())
	}
}
