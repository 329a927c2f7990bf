package eval

import (
	"testing"

	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/readers"
	"github.com/pkl-lang/pkl-core/internal/value"
)

func newTestEvaluator() *Evaluator {
	return NewEvaluator(NewClassTable(), readers.NewRegistry(), "repl:text")
}

func TestForceMemoizesConstantMember(t *testing.T) {
	obj := value.NewDynamic(nil, nil)
	key := value.PropertyKey("x")
	obj.Members().Define(key, &value.Def{Name: "x", Constant: value.Int(42)})

	e := newTestEvaluator()
	fr := frame.New(obj, obj)

	got, err := e.Force(obj, key, fr)
	if err != nil {
		t.Fatalf("Force: %v", err)
	}
	if got != value.Int(42) {
		t.Fatalf("Force = %v, want 42", got)
	}

	cached, ok := obj.Cache().Cached(key)
	if !ok || cached != value.Int(42) {
		t.Fatalf("member not memoized after Force: %v, %v", cached, ok)
	}
}

func TestForceDetectsCircularReference(t *testing.T) {
	obj := value.NewDynamic(nil, nil)
	key := value.PropertyKey("x")
	obj.Members().Define(key, &value.Def{Name: "x", Constant: value.Int(1)})

	if !obj.Cache().MarkInProgress(key) {
		t.Fatalf("MarkInProgress: expected first call to succeed")
	}

	e := newTestEvaluator()
	fr := frame.New(obj, obj)

	_, err := e.Force(obj, key, fr)
	if !diag.Is(err, diag.KindCircularReference) {
		t.Fatalf("Force during in-progress force: err = %v, want CircularReference", err)
	}
}

func TestForceMissingKeyWithoutDefault(t *testing.T) {
	obj := value.NewDynamic(nil, nil)

	e := newTestEvaluator()
	fr := frame.New(obj, obj)

	_, err := e.Force(obj, value.PropertyKey("missing"), fr)
	if !diag.Is(err, diag.KindMissingKey) {
		t.Fatalf("Force(missing) err = %v, want MissingKey", err)
	}
}

func TestForceAllRecursesIntoNestedObjects(t *testing.T) {
	child := value.NewDynamic(nil, nil)
	child.Members().Define(value.PropertyKey("leaf"), &value.Def{Name: "leaf", Constant: value.String("hi")})

	parent := value.NewDynamic(nil, nil)
	parent.Members().Define(value.PropertyKey("child"), &value.Def{Name: "child", Constant: child})

	e := newTestEvaluator()

	if err := e.ForceAll(parent, frame.New(parent, parent)); err != nil {
		t.Fatalf("ForceAll: %v", err)
	}

	leaf, ok := child.Cache().Cached(value.PropertyKey("leaf"))
	if !ok || leaf != value.String("hi") {
		t.Fatalf("nested member not forced: %v, %v", leaf, ok)
	}
}

// TestForceInheritedMemberTwice exercises forcing a member that the querying
// object only inherits (never overlays) through two independent Force calls
// on the same object/key. A memoization bug that writes the cache entry to
// the wrong table (rather than a distinct per-object cache) surfaces here as
// a nil Def on the second OwningDef walk.
func TestForceInheritedMemberTwice(t *testing.T) {
	parent := value.NewDynamic(nil, nil)
	key := value.PropertyKey("x")
	parent.Members().Define(key, &value.Def{Name: "x", Constant: value.Int(7)})

	child := value.NewDynamic(parent, nil)

	e := newTestEvaluator()
	fr := frame.New(child, child)

	first, err := e.Force(child, key, fr)
	if err != nil {
		t.Fatalf("first Force: %v", err)
	}
	if first != value.Int(7) {
		t.Fatalf("first Force = %v, want 7", first)
	}

	second, err := e.Force(child, key, fr)
	if err != nil {
		t.Fatalf("second Force: %v", err)
	}
	if second != value.Int(7) {
		t.Fatalf("second Force = %v, want 7", second)
	}

	if _, def, ok := value.OwningDef(child, key); !ok || def == nil {
		t.Fatalf("OwningDef(child, x) = (%v, %v), want a real Def", def, ok)
	}
}

func TestForceAllOfEmptyObjectSucceeds(t *testing.T) {
	obj := value.NewDynamic(nil, nil)

	e := newTestEvaluator()

	if err := e.ForceAll(obj, frame.New(obj, obj)); err != nil {
		t.Fatalf("ForceAll of an empty object should succeed, got %v", err)
	}
}
