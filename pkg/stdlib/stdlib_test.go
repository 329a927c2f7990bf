package stdlib

import (
	"testing"

	"github.com/pkl-lang/pkl-core/internal/value"
)

func member(t *testing.T, name string) *value.Function {
	t.Helper()

	mod := Module()

	v, ok := mod.Cache().Cached(value.PropertyKey(name))
	if !ok {
		t.Fatalf("base module has no member %q", name)
	}

	fn, ok := v.(*value.Function)
	if !ok {
		t.Fatalf("member %q is not a function, got %T", name, v)
	}

	return fn
}

func TestModuleIsASingleton(t *testing.T) {
	if Module() != Module() {
		t.Fatalf("Module() returned different instances across calls")
	}
}

func TestListAndSetConstructors(t *testing.T) {
	list, err := member(t, "List").Native([]value.Value{value.Int(1), value.Int(2)})
	if err != nil {
		t.Fatalf("List(...): %v", err)
	}
	if !list.Equals(value.NewList([]value.Value{value.Int(1), value.Int(2)})) {
		t.Errorf("List(...) = %v", list)
	}

	set, err := member(t, "Set").Native([]value.Value{value.Int(1), value.Int(1)})
	if err != nil {
		t.Fatalf("Set(...): %v", err)
	}
	if !set.Equals(value.NewSet([]value.Value{value.Int(1), value.Int(1)})) {
		t.Errorf("Set(...) = %v", set)
	}
}

func TestMinMaxPreserveIntType(t *testing.T) {
	got, err := member(t, "min").Native([]value.Value{value.Int(5), value.Int(2)})
	if err != nil {
		t.Fatalf("min: %v", err)
	}
	if got != value.Value(value.Int(2)) {
		t.Errorf("min(5, 2) = %v, want Int(2)", got)
	}

	got, err = member(t, "max").Native([]value.Value{value.Float(1.5), value.Int(3)})
	if err != nil {
		t.Fatalf("max: %v", err)
	}
	if got != value.Value(value.Float(3)) {
		t.Errorf("max(1.5, 3) = %v, want Float(3)", got)
	}
}

func TestAbsRejectsNonNumber(t *testing.T) {
	_, err := member(t, "abs").Native([]value.Value{value.String("x")})
	if err == nil {
		t.Fatalf("expected TypeMismatch error")
	}
}

func TestThrowRaisesWithMessage(t *testing.T) {
	_, err := member(t, "throw").Native([]value.Value{value.String("boom")})
	if err == nil || err.Error() == "" {
		t.Fatalf("expected a non-empty error, got %v", err)
	}
}
