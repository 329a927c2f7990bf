// Package eval implements the expression evaluator and member-force
// algorithm of spec sections 4.B and 4.D. The two are mutually recursive
// (forcing a member requires evaluating its body; evaluating certain
// expressions requires forcing members), so — unlike the rest of this
// module's one-concern-per-package layout — they are merged into this single
// package rather than split across member/eval, mirroring the teacher's own
// practice of collapsing a tightly mutually-recursive component cluster into
// one Go package (see DESIGN.md, "Package consolidation").
package eval

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pkl-lang/pkl-core/internal/ast"
	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/readers"
	"github.com/pkl-lang/pkl-core/internal/types"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Evaluator owns one value graph (spec section 5: "single-threaded
// cooperative within one evaluator instance"; separate evaluators share no
// mutable state and may run in parallel).
type Evaluator struct {
	Classes   *ClassTable
	Readers   *readers.Registry
	ModuleURI string
	Log       *logrus.Entry

	ctx      context.Context
	deadline time.Time
}

// NewEvaluator constructs an Evaluator against the given collaborators.
func NewEvaluator(classes *ClassTable, reg *readers.Registry, moduleURI string) *Evaluator {
	return &Evaluator{
		Classes:   classes,
		Readers:   reg,
		ModuleURI: moduleURI,
		Log:       logrus.WithField("module", moduleURI),
		ctx:       context.Background(),
	}
}

// WithDeadline returns an Evaluator sharing this one's collaborators but
// bound to ctx for cancellation/timeout checks (spec section 5).
func (e *Evaluator) WithDeadline(ctx context.Context) *Evaluator {
	n := *e
	n.ctx = ctx
	return &n
}

// checkCancel implements spec section 5: "the evaluator checks a
// cancellation flag between AST node reductions and at every suspension
// point".
func (e *Evaluator) checkCancel() error {
	select {
	case <-e.ctx.Done():
		if e.ctx.Err() == context.DeadlineExceeded {
			return diag.New(diag.KindTimeout, "evaluation deadline exceeded")
		}
		return diag.New(diag.KindCancelled, "evaluation cancelled")
	default:
		return nil
	}
}

// Force implements spec section 4.B's force(object, key) algorithm.
func (e *Evaluator) Force(obj value.Objectlike, key value.Key, fr *frame.Frame) (value.Value, error) {
	if err := e.checkCancel(); err != nil {
		return nil, err
	}

	if cached, ok := obj.Cache().Cached(key); ok {
		return cached, nil
	}

	owner, def, found := value.OwningDef(obj, key)
	if !found {
		return e.forceDefault(obj, key, fr)
	}

	if !obj.Cache().MarkInProgress(key) {
		if cached, ok := obj.Cache().Cached(key); ok {
			return cached, nil
		}
		return nil, diag.New(diag.KindCircularReference, "circular reference forcing %s", key)
	}

	e.Log.WithField("key", key.String()).Debug("forcing member")

	result, err := e.evalDef(def, owner, obj, fr)
	if err != nil {
		obj.Cache().Revert(key)
		return nil, err
	}

	if def.DeclaredType != nil {
		checked, err := e.checkDeclaredType(def.DeclaredType, result, fr)
		if err != nil {
			obj.Cache().Revert(key)
			return nil, err
		}
		result = checked
	}

	return obj.Cache().Memoize(key, result), nil
}

// ForceAll forces every visible member of obj, recursing into any member
// whose forced value is itself an Objectlike (spec section 4.G's export
// precondition: "an object graph is exported by forcing it completely
// first"). Used by callers that render or encode a module rather than
// evaluate one member at a time.
func (e *Evaluator) ForceAll(obj value.Objectlike, fr *frame.Frame) error {
	for _, key := range value.VisibleKeys(obj) {
		v, err := e.Force(obj, key, fr)
		if err != nil {
			return err
		}

		if child, ok := v.(value.Objectlike); ok {
			if err := e.ForceAll(child, frame.New(child, child)); err != nil {
				return err
			}
		}
	}

	return nil
}

// ResolveClass implements types.Resolver by delegating to this evaluator's
// class table.
func (e *Evaluator) ResolveClass(qualifiedName string) (*value.Class, bool) {
	return e.Classes.ResolveClass(qualifiedName)
}

// ResolveAlias implements types.Resolver.
func (e *Evaluator) ResolveAlias(qualifiedName string) (*value.TypeAlias, bool) {
	return e.Classes.ResolveAlias(qualifiedName)
}

// NewEmptyObject implements types.Evaluator: it constructs a fresh,
// parent-less object-like used as a parameterized Listing/Mapping default
// (spec section 4.E).
func (e *Evaluator) NewEmptyObject(kind value.Kind, fr *frame.Frame) (value.Objectlike, error) {
	switch kind {
	case value.KindDynamic:
		return value.NewDynamic(nil, fr), nil
	case value.KindListing:
		return value.NewListing(nil, fr, nil), nil
	case value.KindMapping:
		return value.NewMapping(nil, fr, nil, nil), nil
	default:
		return nil, diag.New(diag.KindInternalBug, "NewEmptyObject: unsupported kind %s", kind)
	}
}

func (e *Evaluator) checkDeclaredType(declared any, v value.Value, fr *frame.Frame) (value.Value, error) {
	te, ok := declared.(ast.TypeExpr)
	if !ok {
		return nil, diag.New(diag.KindInternalBug, "declared type is not an ast.TypeExpr (%T)", declared)
	}

	t, err := types.Reduce(te, e)
	if err != nil {
		return nil, err
	}

	return t.Check(v, fr, e)
}

func (e *Evaluator) forceDefault(obj value.Objectlike, key value.Key, fr *frame.Frame) (value.Value, error) {
	_, _, ok := value.NearestDefault(obj)
	if !ok {
		return nil, diag.New(diag.KindMissingKey, "no member for key %s", key)
	}

	fnVal, err := e.Force(obj, value.PropertyKey("default"), fr)
	if err != nil {
		return nil, err
	}

	fn, ok := fnVal.(*value.Function)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, "default member is not a function")
	}

	keyArg, err := keyToValue(key)
	if err != nil {
		return nil, err
	}

	result, err := e.CallFunction(fn, []value.Value{keyArg})
	if err != nil {
		return nil, err
	}

	return obj.Cache().Memoize(key, result), nil
}

func keyToValue(key value.Key) (value.Value, error) {
	switch key.Kind() {
	case value.KeyProperty:
		return value.String(key.Name()), nil
	case value.KeyElement:
		return value.Int(key.Element()), nil
	case value.KeyEntry:
		return key.Entry(), nil
	default:
		return nil, diag.New(diag.KindInternalBug, "unknown key kind")
	}
}

func (e *Evaluator) evalDef(def *value.Def, owner, receiver value.Objectlike, fr *frame.Frame) (value.Value, error) {
	if def.Constant != nil {
		return def.Constant, nil
	}

	body, ok := def.Body.(ast.Expr)
	if !ok {
		return nil, diag.New(diag.KindInternalBug, "member %s has neither a constant nor a body", def.Name)
	}

	memberFrame := frame.New(receiver, owner)
	if enc, ok := owner.EnclosingFrame().(*frame.Frame); ok {
		memberFrame = memberFrame.WithEnclosing(enc)
	}

	result, err := e.EvalExpr(body, memberFrame)
	if err != nil {
		if de, ok := err.(*diag.Error); ok {
			return nil, de.Push(diag.Frame{ModuleURI: e.ModuleURI, Member: def.Name, Range: body.Range()})
		}
		return nil, err
	}

	return result, nil
}

// CallFunction invokes fn with args, dispatching to its native
// implementation or its captured-frame AST body (spec section 3, "Function:
// closure: captured receiver/owner/frame + callable AST").
func (e *Evaluator) CallFunction(fn *value.Function, args []value.Value) (value.Value, error) {
	if fn.Native != nil {
		return fn.Native(args)
	}

	body, ok := fn.Body.(ast.Expr)
	if !ok {
		return nil, diag.New(diag.KindInternalBug, "function %s has no body", fn.Name)
	}

	captured, _ := fn.CapturedFrame.(*frame.Frame)
	if captured == nil {
		captured = frame.New(nil, nil)
	}

	names := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		names[i] = p.Name
	}

	return e.EvalExpr(body, captured.WithCall(names, args))
}
