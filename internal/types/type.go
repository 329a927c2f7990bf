// Package types implements the type checker and constraint evaluator of
// spec section 4.E: every type expression reduces to an immutable Type
// descriptor exposing Check (a predicate) and Default (a value factory).
package types

import (
	"github.com/pkl-lang/pkl-core/internal/ast"
	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Evaluator is the slice of the expression evaluator (package eval) that
// the type checker needs: evaluating constraint-predicate bodies and
// constructing the frame-dependent empty object-like values (Dynamic,
// Listing, Mapping) used as parameterized-collection defaults. Defining the
// dependency as an interface here (implemented by *eval.Evaluator) avoids an
// import cycle, matching spec section 6's pattern of injected collaborator
// contracts.
type Evaluator interface {
	// EvalExpr reduces expr to a value within fr.
	EvalExpr(expr ast.Expr, fr *frame.Frame) (value.Value, error)
	// NewEmptyObject constructs a fresh, parent-less object-like of the
	// given kind (Dynamic, Listing or Mapping), enclosed by fr.
	NewEmptyObject(kind value.Kind, fr *frame.Frame) (value.Objectlike, error)
}

// Type is an immutable type descriptor (spec section 4.E).
type Type interface {
	// Check verifies v against this type, returning v on success or a
	// *diag.Error of kind TypeMismatch/ConstraintViolation on failure.
	Check(v value.Value, fr *frame.Frame, ev Evaluator) (value.Value, error)
	// Default computes this type's default value, if any.
	Default(fr *frame.Frame, ev Evaluator) (value.Value, bool, error)
	// String renders the type the way Pkl's error messages would.
	String() string
}

func typeMismatch(t Type, v value.Value) error {
	return diag.New(diag.KindTypeMismatch, "expected a value of type %s, but got %s", t, v.Kind())
}
