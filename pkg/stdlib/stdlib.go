// Package stdlib builds the global base module snapshot of spec section 9:
// the last tier of free-identifier resolution (spec section 4.D point (d),
// "the base-module stdlib members"), evaluated once and shared by handle
// across every Evaluator rather than re-built per evaluation.
//
// The teacher embeds its standard library as Pkl-equivalent source
// (`//go:embed stdlib.lisp`, gated behind `corsetConfig.Stdlib`) and parses
// it at compile startup. This core owns no parser (spec section 1 puts
// parsing out of scope; see internal/eval's documented import
// simplification), so the snapshot here is built directly as Go-constructed
// value.Value members instead of parsed source — the same "evaluate an
// embedded standard library once, share the result" mechanism, with Go
// function literals standing in for the parsed Pkl bodies the teacher's
// stdlib.lisp would otherwise supply.
package stdlib

import (
	"math"
	"strings"
	"sync"

	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/value"
)

var (
	once     sync.Once
	snapshot *value.Module
)

// Module returns the immutable base-module snapshot, building it on first
// use and reusing the same *value.Module handle thereafter (spec section
// 9's "evaluate it once at startup into an immutable snapshot; share by
// handle across evaluators").
func Module() *value.Module {
	once.Do(func() {
		snapshot = build()
	})

	return snapshot
}

func build() *value.Module {
	class := &value.Class{QualifiedName: "pkl.base", Doc: "The Pkl base module."}
	mod := value.NewModule("pkl.base", "pkl:base", class, nil, nil)

	for name, fn := range functions() {
		key := value.PropertyKey(name)
		mod.Members().Define(key, &value.Def{Name: name, Flags: value.FlagConst, Constant: fn})
		mod.Cache().Memoize(key, fn)
	}

	return mod
}

func functions() map[string]*value.Function {
	return map[string]*value.Function{
		"List": value.NewNativeFunction("List", -1, func(args []value.Value) (value.Value, error) {
			return value.NewList(append([]value.Value(nil), args...)), nil
		}),
		"Set": value.NewNativeFunction("Set", -1, func(args []value.Value) (value.Value, error) {
			return value.NewSet(append([]value.Value(nil), args...)), nil
		}),
		"Pair": value.NewNativeFunction("Pair", 2, func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, diag.New(diag.KindEval, "Pair requires exactly 2 arguments, got %d", len(args))
			}
			return value.NewPair(args[0], args[1]), nil
		}),
		"IntSeq": value.NewNativeFunction("IntSeq", 2, func(args []value.Value) (value.Value, error) {
			start, end, err := twoInts(args, "IntSeq")
			if err != nil {
				return nil, err
			}
			return value.NewIntSeq(start, end, 1), nil
		}),
		"min": value.NewNativeFunction("min", 2, func(args []value.Value) (value.Value, error) {
			a, b, err := twoNumbers(args, "min")
			if err != nil {
				return nil, err
			}
			return numberFrom(args[0], math.Min(a, b)), nil
		}),
		"max": value.NewNativeFunction("max", 2, func(args []value.Value) (value.Value, error) {
			a, b, err := twoNumbers(args, "max")
			if err != nil {
				return nil, err
			}
			return numberFrom(args[0], math.Max(a, b)), nil
		}),
		"abs": value.NewNativeFunction("abs", 1, func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, diag.New(diag.KindEval, "abs requires exactly 1 argument, got %d", len(args))
			}
			switch n := args[0].(type) {
			case value.Int:
				if n < 0 {
					return -n, nil
				}
				return n, nil
			case value.Float:
				return value.Float(math.Abs(float64(n))), nil
			default:
				return nil, diag.New(diag.KindTypeMismatch, "abs requires a number, got %s", n.Kind())
			}
		}),
		"throw": value.NewNativeFunction("throw", 1, func(args []value.Value) (value.Value, error) {
			msg := "error"
			if len(args) == 1 {
				if s, ok := args[0].(value.String); ok {
					msg = s.Raw()
				}
			}
			return nil, diag.New(diag.KindEval, "%s", msg)
		}),
		"trace": value.NewNativeFunction("trace", 1, func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, diag.New(diag.KindEval, "trace requires exactly 1 argument, got %d", len(args))
			}
			return args[0], nil
		}),
	}
}

func twoInts(args []value.Value, name string) (int64, int64, error) {
	if len(args) != 2 {
		return 0, 0, diag.New(diag.KindEval, "%s requires exactly 2 arguments, got %d", name, len(args))
	}

	a, ok := args[0].(value.Int)
	if !ok {
		return 0, 0, diag.New(diag.KindTypeMismatch, "%s requires Int arguments, got %s", name, args[0].Kind())
	}

	b, ok := args[1].(value.Int)
	if !ok {
		return 0, 0, diag.New(diag.KindTypeMismatch, "%s requires Int arguments, got %s", name, args[1].Kind())
	}

	return int64(a), int64(b), nil
}

func twoNumbers(args []value.Value, name string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, diag.New(diag.KindEval, "%s requires exactly 2 arguments, got %d", name, len(args))
	}

	a, err := asFloat(args[0], name)
	if err != nil {
		return 0, 0, err
	}

	b, err := asFloat(args[1], name)
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}

func asFloat(v value.Value, name string) (float64, error) {
	switch n := v.(type) {
	case value.Int:
		return float64(n), nil
	case value.Float:
		return float64(n), nil
	default:
		return 0, diag.New(diag.KindTypeMismatch, "%s requires number arguments, got %s", name, v.Kind())
	}
}

// numberFrom preserves template's concrete type (Int stays Int) when both
// operands round-trip losslessly through float64, matching Pkl's own
// min/max which do not widen an Int pair to Float.
func numberFrom(template value.Value, f float64) value.Value {
	if _, ok := template.(value.Int); ok && f == math.Trunc(f) {
		return value.Int(int64(f))
	}

	return value.Float(f)
}

// Trim is exported for internal/eval's string-method dispatch table to call
// directly without a Function indirection; kept alongside the module
// snapshot since it is the same category of base-library behavior.
func Trim(s string) string { return strings.TrimSpace(s) }
