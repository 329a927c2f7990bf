package types

import (
	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Alias is a `typealias` reference (spec section 4.E): it unfolds to
// Target.Aliased, which is populated with a reduced Type at module-build
// time (see Reduce). Aliased is opaque on value.TypeAlias to keep the value
// package free of a dependency on this one; a Target whose Aliased field has
// not yet been reduced is an internal bug, not a user-facing error.
type Alias struct {
	Target *value.TypeAlias
}

func (a Alias) unfold() (Type, error) {
	t, ok := a.Target.Aliased.(Type)
	if !ok {
		return nil, diag.New(diag.KindInternalBug, "typealias %s was never reduced to a type", a.Target.QualifiedName)
	}
	return t, nil
}

func (a Alias) Check(v value.Value, fr *frame.Frame, ev Evaluator) (value.Value, error) {
	t, err := a.unfold()
	if err != nil {
		return nil, err
	}
	return t.Check(v, fr, ev)
}

func (a Alias) Default(fr *frame.Frame, ev Evaluator) (value.Value, bool, error) {
	t, err := a.unfold()
	if err != nil {
		return nil, false, err
	}
	return t.Default(fr, ev)
}

func (a Alias) String() string { return a.Target.QualifiedName }
