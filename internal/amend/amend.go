// Package amend implements the amend/compose engine of spec section 4.F:
// combining a parent value with an overlay of object-literal members into a
// new object-like, preserving declaration order and per-kind member
// semantics (property vs. entry vs. element syntax).
package amend

import (
	"github.com/pkl-lang/pkl-core/internal/ast"
	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Evaluator is the slice of the expression evaluator this package needs:
// evaluating entry keys, predicate-member conditions/bodies and `when`
// conditions, and forcing a parent's existing members so predicate members
// can test them. Implemented by *eval.Evaluator; defined here to avoid an
// import cycle (eval depends on amend, not the reverse).
type Evaluator interface {
	EvalExpr(expr ast.Expr, fr *frame.Frame) (value.Value, error)
	Force(obj value.Objectlike, key value.Key, fr *frame.Frame) (value.Value, error)
}

// BlankInstance constructs a parent-less object-like of the given kind and
// class, used to realize `new T { ... }` (spec section 4.D, "Infer
// parent"): T's blank instance becomes the amend parent that Compose then
// overlays the literal's members onto. Constructing a blank instance of an
// abstract class fails with CannotInferParent.
func BlankInstance(kind value.Kind, class *value.Class, enclosing value.Enclosing) (value.Objectlike, error) {
	switch kind {
	case value.KindDynamic:
		return value.NewDynamic(nil, enclosing), nil
	case value.KindListing:
		return value.NewListing(nil, enclosing, nil), nil
	case value.KindMapping:
		return value.NewMapping(nil, enclosing, nil, nil), nil
	case value.KindTyped:
		if class.Abstract {
			return nil, diag.New(diag.KindCannotInferParent, "cannot instantiate abstract class %s", class.QualifiedName)
		}
		return value.NewTyped(class, nil, enclosing), nil
	default:
		return nil, diag.New(diag.KindCannotInferParent, "type %s has no instantiable default", class.QualifiedName)
	}
}

// Compose combines parent with overlay's members into a fresh object-like of
// parent's own kind and class (spec section 4.F). enclosing is the lexical
// environment the result's member bodies resolve free identifiers against;
// fr is the frame Compose itself evaluates entry keys, predicate conditions
// and `when` conditions in (the frame active at the amend/new expression).
func Compose(parent value.Objectlike, overlay *ast.ObjectLiteral, enclosing value.Enclosing, fr *frame.Frame, ev Evaluator) (value.Objectlike, error) {
	result := likeParent(parent, enclosing)
	if result == nil {
		return nil, diag.New(diag.KindCannotAmend, "cannot amend a value of kind %s", parent.Kind())
	}

	nextElement := value.ElementCount(parent)

	if err := composeMembers(result, parent, overlay.Members, &nextElement, fr, ev); err != nil {
		return nil, err
	}

	return result, nil
}

func likeParent(parent value.Objectlike, enclosing value.Enclosing) value.Objectlike {
	switch p := parent.(type) {
	case *value.Dynamic:
		return value.NewDynamic(parent, enclosing)
	case *value.Listing:
		return value.NewListing(parent, enclosing, p.ElementType)
	case *value.Mapping:
		return value.NewMapping(parent, enclosing, p.KeyType, p.ValueType)
	case *value.Module:
		return value.NewModule(p.Name, p.URI, p.Class(), parent, enclosing)
	case *value.Typed:
		return value.NewTyped(p.Class(), parent, enclosing)
	default:
		return nil
	}
}

// ComposeInto appends decls onto result's member table without constructing
// a fresh likeParent shell, used by a for-generator (spec section 4.D) to
// accumulate generated members directly into an already-built Dynamic.
// parent only affects per-declaration kind checks and declared-type
// inheritance, as in Compose.
func ComposeInto(result, parent value.Objectlike, decls []ast.MemberDecl, nextElement *int64, fr *frame.Frame, ev Evaluator) error {
	return composeMembers(result, parent, decls, nextElement, fr, ev)
}

func composeMembers(result, parent value.Objectlike, decls []ast.MemberDecl, nextElement *int64, fr *frame.Frame, ev Evaluator) error {
	for _, decl := range decls {
		if err := composeMember(result, parent, decl, nextElement, fr, ev); err != nil {
			return err
		}
	}

	return nil
}

func composeMember(result, parent value.Objectlike, decl ast.MemberDecl, nextElement *int64, fr *frame.Frame, ev Evaluator) error {
	switch d := decl.(type) {
	case *ast.PropertyDecl:
		return composeProperty(result, parent, d)
	case *ast.ElementDecl:
		return composeElement(result, parent, d, nextElement)
	case *ast.EntryDecl:
		return composeEntry(result, parent, d, fr, ev)
	case *ast.PredicateDecl:
		return composePredicate(result, parent, d, fr, ev)
	case *ast.WhenDecl:
		return composeWhen(result, parent, d, nextElement, fr, ev)
	default:
		return diag.New(diag.KindInternalBug, "unreduced member-declaration node %T", decl)
	}
}

func requireKind(parent value.Objectlike, what string, r diag.Range, allowed ...value.Kind) error {
	k := parent.Kind()
	for _, a := range allowed {
		if k == a {
			return nil
		}
	}

	return diag.New(diag.KindCannotAmend, "%s is not valid when amending a %s", what, k).WithRange(r)
}

func composeProperty(result, parent value.Objectlike, d *ast.PropertyDecl) error {
	if err := requireKind(parent, "a property member", d.Range(), value.KindDynamic, value.KindTyped, value.KindModule); err != nil {
		return err
	}

	key := propertyKey(d.Name, d.Flags)

	var declaredType any = d.DeclaredType
	if declaredType == nil {
		if _, owningDef, ok := value.OwningDef(parent, key); ok {
			declaredType = owningDef.DeclaredType
		}
	}
	if declaredType == nil && !d.Flags.Has(value.FlagLocal) {
		declaredType = classPropertyType(result.Class(), d.Name)
	}

	def := &value.Def{Name: d.Name, Flags: d.Flags, DeclaredType: declaredType, Body: d.Body, Owner: result}

	if !result.Members().Define(key, def) {
		return diag.New(diag.KindDuplicateDefinition, "duplicate definition of property %s", d.Name).WithRange(d.Range())
	}

	return nil
}

func propertyKey(name string, flags value.MemberFlags) value.Key {
	if flags.Has(value.FlagLocal) {
		return value.LocalPropertyKey(name)
	}
	return value.PropertyKey(name)
}

// classPropertyType looks up name in class's declared properties (spec
// section 3's class property descriptors, searching superclasses via
// Class.Property), so a literal assignment like `new Person { age = 0 }`
// picks up the class's declared type even though the property decl itself
// carries none and no ancestor object in the amend chain has defined the
// member yet.
func classPropertyType(class *value.Class, name string) ast.TypeExpr {
	if class == nil {
		return nil
	}
	p, ok := class.Property(name)
	if !ok {
		return nil
	}
	te, _ := p.DeclaredType.(ast.TypeExpr)
	return te
}

func composeElement(result, parent value.Objectlike, d *ast.ElementDecl, nextElement *int64) error {
	if err := requireKind(parent, "an element member", d.Range(), value.KindListing, value.KindDynamic); err != nil {
		return err
	}

	key := value.ElementKey(*nextElement)
	*nextElement++

	def := &value.Def{Name: key.String(), Flags: d.Flags, Body: d.Body, Owner: result}

	if !result.Members().Define(key, def) {
		return diag.New(diag.KindDuplicateDefinition, "duplicate definition of element %s", key).WithRange(d.Range())
	}

	return nil
}

func composeEntry(result, parent value.Objectlike, d *ast.EntryDecl, fr *frame.Frame, ev Evaluator) error {
	if err := requireKind(parent, "an entry member", d.Range(), value.KindMapping, value.KindDynamic); err != nil {
		return err
	}

	keyVal, err := ev.EvalExpr(d.Key, fr)
	if err != nil {
		return err
	}

	key := value.EntryKey(keyVal)

	def := &value.Def{Name: key.String(), Flags: d.Flags, Body: d.Body, Owner: result}

	if !result.Members().Define(key, def) {
		return diag.New(diag.KindDuplicateDefinition, "duplicate definition of entry %s", key).WithRange(d.Range())
	}

	return nil
}

// composePredicate implements `[[pred]] { overlay }` (spec section 4.F):
// every visible key of the parent chain is forced, tested against pred
// under a custom-this scope, and matches are eagerly re-composed with
// overlay and memoized as a constant on the result (the predicate pass
// itself runs eagerly at compose time, unlike ordinary lazy member bodies).
func composePredicate(result, parent value.Objectlike, d *ast.PredicateDecl, fr *frame.Frame, ev Evaluator) error {
	predFrame := fr.WithOwner(parent)

	for _, key := range value.VisibleKeys(parent) {
		forced, err := ev.Force(parent, key, fr)
		if err != nil {
			return err
		}

		matched, err := ev.EvalExpr(d.Predicate, predFrame.WithAux(frame.CustomThis, forced))
		if err != nil {
			return err
		}

		b, ok := matched.(value.Boolean)
		if !ok || !bool(b) {
			continue
		}

		target, ok := forced.(value.Objectlike)
		if !ok {
			return diag.New(diag.KindCannotAmend, "predicate member matched a non-object-like value at %s", key).WithRange(d.Range())
		}

		composed, err := Compose(target, d.Overlay, parent.EnclosingFrame(), fr, ev)
		if err != nil {
			return err
		}

		def := &value.Def{Name: key.String(), Constant: composed, Owner: result}
		result.Members().Overlay(key, def)
	}

	return nil
}

func composeWhen(result, parent value.Objectlike, d *ast.WhenDecl, nextElement *int64, fr *frame.Frame, ev Evaluator) error {
	cond, err := ev.EvalExpr(d.Cond, fr)
	if err != nil {
		return err
	}

	b, ok := cond.(value.Boolean)
	branch := d.Else
	if ok && bool(b) {
		branch = d.Then
	}

	return composeMembers(result, parent, branch, nextElement, fr, ev)
}
