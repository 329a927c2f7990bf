package eval

import (
	"testing"

	"github.com/pkl-lang/pkl-core/internal/amend"
	"github.com/pkl-lang/pkl-core/internal/ast"
	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

func propertyDecl(name string, body ast.Expr) *ast.PropertyDecl {
	return &ast.PropertyDecl{Name: name, Body: body}
}

func constant(v value.Value) ast.Expr {
	return &ast.Constant{Value: v}
}

// TestOrderPreservationAndIdempotence covers both order preservation and
// amend idempotence: composing an empty overlay onto parent{x=1,y=2}
// preserves order and values but produces a distinct object identity, and
// composing child{y=3,z=4} onto that same parent yields declaration order
// [x,y,z] with child's overlay values winning for the shared key.
func TestOrderPreservationAndIdempotence(t *testing.T) {
	e := newTestEvaluator()
	root := value.NewDynamic(nil, nil)
	fr := frame.New(root, root)

	parent, err := amend.Compose(root, &ast.ObjectLiteral{Members: []ast.MemberDecl{
		propertyDecl("x", constant(value.Int(1))),
		propertyDecl("y", constant(value.Int(2))),
	}}, fr, fr, e)
	if err != nil {
		t.Fatalf("compose parent: %v", err)
	}

	idempotent, err := amend.Compose(parent, &ast.ObjectLiteral{}, fr, fr, e)
	if err != nil {
		t.Fatalf("compose empty overlay: %v", err)
	}
	if idempotent == parent {
		t.Fatalf("amending with an empty overlay returned the same identity")
	}

	parentKeys := value.VisibleKeys(parent)
	idempotentKeys := value.VisibleKeys(idempotent)
	if len(parentKeys) != len(idempotentKeys) {
		t.Fatalf("idempotent amend changed member count: %d vs %d", len(parentKeys), len(idempotentKeys))
	}
	for i, k := range parentKeys {
		if k != idempotentKeys[i] {
			t.Fatalf("idempotent amend reordered members: %v vs %v", parentKeys, idempotentKeys)
		}

		want, err := e.Force(parent, k, fr)
		if err != nil {
			t.Fatalf("Force(parent, %v): %v", k, err)
		}
		got, err := e.Force(idempotent, k, fr)
		if err != nil {
			t.Fatalf("Force(idempotent, %v): %v", k, err)
		}
		if !got.Equals(want) {
			t.Fatalf("idempotent amend changed value of %v: got %v, want %v", k, got, want)
		}
	}

	child, err := amend.Compose(parent, &ast.ObjectLiteral{Members: []ast.MemberDecl{
		propertyDecl("y", constant(value.Int(3))),
		propertyDecl("z", constant(value.Int(4))),
	}}, fr, fr, e)
	if err != nil {
		t.Fatalf("compose child: %v", err)
	}

	keys := value.VisibleKeys(child)
	if len(keys) != 3 || keys[0].Name() != "x" || keys[1].Name() != "y" || keys[2].Name() != "z" {
		t.Fatalf("child keys = %v, want [x y z]", keys)
	}

	wantValues := map[string]value.Value{"x": value.Int(1), "y": value.Int(3), "z": value.Int(4)}
	for _, k := range keys {
		got, err := e.Force(child, k, fr)
		if err != nil {
			t.Fatalf("Force(child, %v): %v", k, err)
		}
		if !got.Equals(wantValues[k.Name()]) {
			t.Fatalf("child.%s = %v, want %v", k.Name(), got, wantValues[k.Name()])
		}
	}
}

// personClass builds a class with a String name property and an Int age
// property constrained to positive values (`age: Int(this > 0)`), the class
// used by the constraint-violation and type-default scenarios below.
func personClass() *value.Class {
	ageType := &ast.ConstrainedType{
		Base: &ast.ClassType{QualifiedName: "Int"},
		Predicates: []ast.Expr{
			&ast.BinaryOp{Op: ast.OpGt, Left: &ast.Identifier{Name: "this"}, Right: constant(value.Int(0))},
		},
	}

	return &value.Class{
		QualifiedName: "Person",
		Properties: []*value.PropertyDescriptor{
			{Name: "name", DeclaredType: ast.TypeExpr(&ast.ClassType{QualifiedName: "String"})},
			{Name: "age", DeclaredType: ast.TypeExpr(ageType)},
		},
	}
}

// TestConstructorRejectsConstraintViolation is end-to-end scenario S3:
// `new Person { name = "A"; age = 0 }` composes without error (amend never
// evaluates a property's value), but forcing age surfaces the unmet `this >
// 0` predicate as ConstraintViolation.
func TestConstructorRejectsConstraintViolation(t *testing.T) {
	e := newTestEvaluator()
	e.Classes.Register(personClass())

	root := value.NewDynamic(nil, nil)
	fr := frame.New(root, root)

	n := &ast.New{
		ExplicitType: &ast.ClassType{QualifiedName: "Person"},
		Overlay: &ast.ObjectLiteral{Members: []ast.MemberDecl{
			propertyDecl("name", constant(value.String("A"))),
			propertyDecl("age", constant(value.Int(0))),
		}},
	}

	result, err := e.EvalExpr(n, fr)
	if err != nil {
		t.Fatalf("new Person{...}: %v", err)
	}

	obj, ok := result.(value.Objectlike)
	if !ok {
		t.Fatalf("new Person{...} did not produce an object-like, got %T", result)
	}

	if _, err := e.Force(obj, value.PropertyKey("age"), fr); !diag.Is(err, diag.KindConstraintViolation) {
		t.Fatalf("Force(age) = %v, want ConstraintViolation", err)
	}
}

// widgetClass declares a single Int property with no member def anywhere in
// an instance built from it, exercising the type-default path.
func widgetClass() *value.Class {
	return &value.Class{
		QualifiedName: "Widget",
		Properties: []*value.PropertyDescriptor{
			{Name: "count", DeclaredType: ast.TypeExpr(&ast.ClassType{QualifiedName: "Int"})},
		},
	}
}

// TestTypeDefaultRoundtrip is testable property 4: forcing a declared
// property with no member def anywhere in the amend chain yields its
// declared type's default instead of MissingProperty.
func TestTypeDefaultRoundtrip(t *testing.T) {
	e := newTestEvaluator()
	e.Classes.Register(widgetClass())

	root := value.NewDynamic(nil, nil)
	fr := frame.New(root, root)

	n := &ast.New{
		ExplicitType: &ast.ClassType{QualifiedName: "Widget"},
		Overlay:      &ast.ObjectLiteral{},
	}

	result, err := e.EvalExpr(n, fr)
	if err != nil {
		t.Fatalf("new Widget{}: %v", err)
	}

	obj := result.(value.Objectlike)

	got, err := e.Force(obj, value.PropertyKey("count"), fr)
	if err != nil {
		t.Fatalf("Force(count): %v", err)
	}
	if got != value.Value(value.Int(0)) {
		t.Fatalf("count default = %v, want Int(0)", got)
	}
}

// TestMissingPropertyWithoutDefault is the negative half of testable
// property 4: a declared property whose type has no default (here
// `age: Int(this > 0)`, whose base default 0 fails the constraint) and no
// member def fails MissingProperty rather than silently defaulting.
func TestMissingPropertyWithoutDefault(t *testing.T) {
	e := newTestEvaluator()
	e.Classes.Register(personClass())

	root := value.NewDynamic(nil, nil)
	fr := frame.New(root, root)

	n := &ast.New{
		ExplicitType: &ast.ClassType{QualifiedName: "Person"},
		Overlay:      &ast.ObjectLiteral{},
	}

	if _, err := e.EvalExpr(n, fr); !diag.Is(err, diag.KindMissingProperty) {
		t.Fatalf("new Person{} = %v, want MissingProperty", err)
	}
}

// TestConstEnforcementOnReadProperty is testable property 7: reading a
// non-const member through a ReadProperty that requires const (spec section
// 4.D, the scope a `const` member body evaluates its free references in)
// fails ConstRequired, while a member flagged const reads through cleanly.
func TestConstEnforcementOnReadProperty(t *testing.T) {
	e := newTestEvaluator()

	obj := value.NewDynamic(nil, nil)
	obj.Members().Define(value.PropertyKey("plain"), &value.Def{Name: "plain", Constant: value.Int(1)})
	obj.Members().Define(value.PropertyKey("fixed"), &value.Def{Name: "fixed", Flags: value.FlagConst, Constant: value.Int(2)})

	fr := frame.New(obj, obj)

	_, err := e.EvalExpr(&ast.ReadProperty{Name: "plain", NeedsConst: true}, fr)
	if !diag.Is(err, diag.KindConstRequired) {
		t.Fatalf("reading non-const plain under NeedsConst = %v, want ConstRequired", err)
	}

	got, err := e.EvalExpr(&ast.ReadProperty{Name: "fixed", NeedsConst: true}, fr)
	if err != nil {
		t.Fatalf("reading const fixed under NeedsConst: %v", err)
	}
	if got != value.Value(value.Int(2)) {
		t.Fatalf("fixed = %v, want Int(2)", got)
	}
}

// TestMappingDefaultMemberDispatch is end-to-end scenario S5: a Mapping
// with a `default` member set to a one-argument function dispatches that
// function with the missing key when an entry outside the declared ones is
// forced, memoizing the result exactly like any other forced member.
func TestMappingDefaultMemberDispatch(t *testing.T) {
	e := newTestEvaluator()

	mapping := value.NewMapping(nil, nil, nil, nil)
	lengthOf := value.NewNativeFunction("default", 1, func(args []value.Value) (value.Value, error) {
		s := args[0].(value.String)
		return value.Int(len(s)), nil
	})
	mapping.Members().Define(value.PropertyKey("default"), &value.Def{Name: "default", Flags: value.FlagDefault, Constant: lengthOf})

	fr := frame.New(mapping, mapping)

	key := value.EntryKey(value.String("abc"))
	got, err := e.Force(mapping, key, fr)
	if err != nil {
		t.Fatalf("Force(mapping[\"abc\"]): %v", err)
	}
	if got != value.Value(value.Int(3)) {
		t.Fatalf("mapping[\"abc\"] = %v, want Int(3)", got)
	}

	again, err := e.Force(mapping, key, fr)
	if err != nil {
		t.Fatalf("second Force: %v", err)
	}
	if again != got {
		t.Fatalf("default-member dispatch did not memoize: %v vs %v", again, got)
	}
}

// TestCircularReferenceTwoFrameStack is end-to-end scenario S6: `a = b; b =
// a` fails CircularReference instead of recursing without bound. Forcing a
// evaluates a ReadProperty for b, which forces b, which evaluates a
// ReadProperty for a, re-entering Force(obj, a) while it is still
// in-progress.
func TestCircularReferenceTwoFrameStack(t *testing.T) {
	e := newTestEvaluator()

	obj := value.NewDynamic(nil, nil)
	obj.Members().Define(value.PropertyKey("a"), &value.Def{Name: "a", Body: &ast.ReadProperty{Name: "b"}})
	obj.Members().Define(value.PropertyKey("b"), &value.Def{Name: "b", Body: &ast.ReadProperty{Name: "a"}})

	fr := frame.New(obj, obj)

	_, err := e.Force(obj, value.PropertyKey("a"), fr)
	if !diag.Is(err, diag.KindCircularReference) {
		t.Fatalf("Force(a) = %v, want CircularReference", err)
	}

	de, ok := err.(*diag.Error)
	if !ok || len(de.Stack) != 2 {
		t.Fatalf("Force(a) error = %#v, want a *diag.Error with a two-frame stack", err)
	}
	members := map[string]bool{de.Stack[0].Member: true, de.Stack[1].Member: true}
	if !members["a"] || !members["b"] {
		t.Fatalf("stack = %v, want frames citing both a and b", de.Stack)
	}
}
