// Package diag implements the error taxonomy and source-frame stacks of
// spec section 7: every failure the evaluator or codec can raise is a typed
// diag.Error carrying a diag.Kind, a one-sentence description, and (for
// evaluation errors) a stack of call-site frames.
package diag

import (
	"fmt"
	"strings"
)

// Kind enumerates the error taxonomy of spec section 7.
type Kind string

// The complete error taxonomy.
const (
	KindEval                Kind = "EvalError"
	KindTypeMismatch        Kind = "TypeMismatch"
	KindConstraintViolation Kind = "ConstraintViolation"
	KindCircularReference   Kind = "CircularReference"
	KindMissingProperty     Kind = "MissingProperty"
	KindMissingKey          Kind = "MissingKey"
	KindDuplicateDefinition Kind = "DuplicateDefinition"
	KindCannotAmend         Kind = "CannotAmend"
	KindCannotInferParent   Kind = "CannotInferParent"
	KindIntegerOverflow     Kind = "IntegerOverflow"
	KindSecurityDenied      Kind = "SecurityDenied"
	KindIOError             Kind = "IOError"
	KindInvalidEncoding     Kind = "InvalidEncoding"
	KindConstRequired       Kind = "ConstRequired"
	KindCancelled           Kind = "Cancelled"
	KindTimeout             Kind = "Timeout"
	KindInternalBug         Kind = "InternalBug"
)

// Range is a half-open span within a source file, 1-indexed line/column
// (matching the convention of the injected AST's source locations).
type Range struct {
	Line      int
	StartCol  int
	EndCol    int
	SourceLine string
}

// Caret renders a "faulting source line with a caret span" per spec
// section 7's user-visible formatting requirement (b).
func (r Range) Caret() string {
	if r.SourceLine == "" {
		return ""
	}

	pad := strings.Repeat(" ", max0(r.StartCol-1))
	width := max1(r.EndCol - r.StartCol)

	return r.SourceLine + "\n" + pad + strings.Repeat("^", width)
}

func max0(n int) int {
	if n < 0 {
		return 0
	}

	return n
}

func max1(n int) int {
	if n < 1 {
		return 1
	}

	return n
}

// Frame is one entry in the call-site stack captured as the evaluator
// enters each member/method body (spec section 4.D, "Failure semantics").
type Frame struct {
	ModuleURI string
	Member    string
	Range     Range
}

func (f Frame) String() string {
	return fmt.Sprintf("at %s (%s:%d)", f.Member, f.ModuleURI, f.Range.Line)
}

// Error is the single error type raised throughout this module. Kind
// identifies the taxonomy entry; Range/stack support the user-visible
// rendering of spec section 7.
type Error struct {
	Kind    Kind
	Message string
	Range   Range
	Stack   []Frame
}

// New constructs an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithRange attaches a source range to an error, returning a copy.
func (e *Error) WithRange(r Range) *Error {
	n := *e
	n.Range = r

	return &n
}

// Push appends a call-site frame as the error unwinds through evaluator
// member/method entry, per spec section 4.D, so Stack lists frames
// innermost first.
func (e *Error) Push(f Frame) *Error {
	n := *e
	n.Stack = append(append([]Frame(nil), n.Stack...), f)

	return &n
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Format renders the full user-visible diagnostic: (a) a one-sentence
// description, (b) the faulting source line with a caret span, (c) the
// call-site stack with module URIs (spec section 7).
func (e *Error) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s\n", e.Kind, e.Message)

	if caret := e.Range.Caret(); caret != "" {
		b.WriteString(caret)
		b.WriteString("\n")
	}

	for _, f := range e.Stack {
		b.WriteString("  ")
		b.WriteString(f.String())
		b.WriteString("\n")
	}

	return b.String()
}

// Is reports whether err is a diag.Error of the given kind, unwrapping
// through fmt.Errorf %w wrapping.
func Is(err error, kind Kind) bool {
	var e *Error
	if ae, ok := err.(*Error); ok {
		e = ae
	} else if u, ok := err.(interface{ Unwrap() error }); ok {
		return Is(u.Unwrap(), kind)
	}

	return e != nil && e.Kind == kind
}
