package types

import (
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Class is the `Class C` (optionally parameterized, `List<E>`) row of the
// spec section 4.E table. Args holds reduced element/entry types for
// parameterized classes (e.g. [E] for List<E>, [K, V] for Map<K, V>); it is
// empty for a bare class reference.
type Class struct {
	Target *value.Class
	Args   []Type
}

// NewClass wraps an already-resolved class descriptor as a Type.
func NewClass(target *value.Class) Class { return Class{Target: target} }

func (c Class) instanceOf(v value.Value) bool {
	switch c.Target {
	case value.NumberClass:
		return v.Kind() == value.KindInt || v.Kind() == value.KindFloat
	}

	if c.Target.IsBuiltin {
		if v.Kind() == c.Target.Builtin {
			return true
		}
		// Object-like builtins (Dynamic/Listing/Mapping) also carry a
		// *value.Class, so a user subclass of them still matches here.
	}

	if obj, ok := v.(value.Objectlike); ok {
		return obj.Class().IsSubclassOf(c.Target)
	}

	return false
}

// Check implements Type.
func (c Class) Check(v value.Value, fr *frame.Frame, ev Evaluator) (value.Value, error) {
	if !c.instanceOf(v) {
		return nil, typeMismatch(c, v)
	}

	if len(c.Args) == 0 {
		return v, nil
	}

	return c.checkParameterized(v, fr, ev)
}

func (c Class) checkParameterized(v value.Value, fr *frame.Frame, ev Evaluator) (value.Value, error) {
	switch lst := v.(type) {
	case value.List:
		elem := c.Args[0]
		for _, e := range lst.Elements {
			if _, err := elem.Check(e, fr, ev); err != nil {
				return nil, err
			}
		}
	case value.Set:
		elem := c.Args[0]
		for _, e := range lst.Elements {
			if _, err := elem.Check(e, fr, ev); err != nil {
				return nil, err
			}
		}
	case value.Map:
		kt, vt := c.Args[0], c.Args[1]
		for _, entry := range lst.Entries {
			if _, err := kt.Check(entry.Key, fr, ev); err != nil {
				return nil, err
			}
			if _, err := vt.Check(entry.Value, fr, ev); err != nil {
				return nil, err
			}
		}
	}
	// Listing/Mapping values pass without any check of their elements or
	// entries: no type is attached to them here, and forcing a member does
	// not check it against the type arguments.
	return v, nil
}

// Default implements Type.
func (c Class) Default(fr *frame.Frame, ev Evaluator) (value.Value, bool, error) {
	if len(c.Args) > 0 {
		return c.parameterizedDefault(fr, ev)
	}

	switch c.Target {
	case value.IntClass:
		return value.Int(0), true, nil
	case value.FloatClass:
		return value.Float(0), true, nil
	case value.BooleanClass:
		return value.Boolean(false), true, nil
	case value.StringClass:
		return value.String(""), true, nil
	case value.BytesClass:
		return value.Bytes(nil), true, nil
	case value.ListClass:
		return value.NewList(nil), true, nil
	case value.SetClass:
		return value.NewSet(nil), true, nil
	case value.MapClass:
		return value.NewMap(nil), true, nil
	}

	// Object-like classes (Dynamic/Listing/Mapping/user Typed/Module) have
	// no context-free default: an untyped property of one of these types
	// left without a body is always MissingProperty, never silently
	// satisfied (spec section 4.E, testable property 4).
	return nil, false, nil
}

func (c Class) parameterizedDefault(fr *frame.Frame, ev Evaluator) (value.Value, bool, error) {
	switch c.Target {
	case value.ListClass:
		return value.NewList(nil), true, nil
	case value.SetClass:
		return value.NewSet(nil), true, nil
	case value.MapClass:
		return value.NewMap(nil), true, nil
	case value.ListingClass:
		obj, err := ev.NewEmptyObject(value.KindListing, fr)
		if err != nil {
			return nil, false, err
		}
		return obj, true, nil
	case value.MappingClass:
		obj, err := ev.NewEmptyObject(value.KindMapping, fr)
		if err != nil {
			return nil, false, err
		}
		return obj, true, nil
	}

	return nil, false, nil
}

// String implements Type.
func (c Class) String() string {
	if len(c.Args) == 0 {
		return c.Target.QualifiedName
	}

	s := c.Target.QualifiedName + "<"
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ">"
}
