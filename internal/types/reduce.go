package types

import (
	"github.com/pkl-lang/pkl-core/internal/ast"
	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Resolver looks up classes and type aliases by qualified name, used to
// reduce ast.ClassType/ast.AliasType nodes into Type values. It is
// implemented by whatever owns the currently-loaded module's class/typealias
// table (package eval), keeping this package free of a dependency on module
// loading.
type Resolver interface {
	ResolveClass(qualifiedName string) (*value.Class, bool)
	ResolveAlias(qualifiedName string) (*value.TypeAlias, bool)
}

// Reduce lowers an injected ast.TypeExpr into the Type this package's
// checker operates on (spec section 4.E). Reduction of a ConstrainedType's
// predicate expressions is deferred to the evaluator at Check time; Reduce
// only threads the raw ast.Expr nodes through.
func Reduce(node ast.TypeExpr, r Resolver) (Type, error) {
	switch n := node.(type) {
	case *ast.UnknownType:
		return Unknown{}, nil
	case *ast.NothingType:
		return Nothing{}, nil
	case *ast.StringLiteralType:
		return StringLiteral{Literal: n.Literal}, nil
	case *ast.NullableType:
		elem, err := Reduce(n.Element, r)
		if err != nil {
			return nil, err
		}
		return Nullable{Element: elem}, nil
	case *ast.UnionType:
		members := make([]Type, len(n.Members))
		for i, m := range n.Members {
			red, err := Reduce(m, r)
			if err != nil {
				return nil, err
			}
			members[i] = red
		}
		return Union{Members: members}, nil
	case *ast.ConstrainedType:
		base, err := Reduce(n.Base, r)
		if err != nil {
			return nil, err
		}
		return Constrained{Base: base, Predicates: n.Predicates}, nil
	case *ast.AliasType:
		alias, ok := r.ResolveAlias(n.QualifiedName)
		if !ok {
			return nil, diag.New(diag.KindInternalBug, "unresolved typealias %s", n.QualifiedName)
		}
		return Alias{Target: alias}, nil
	case *ast.ClassType:
		return reduceClassType(n, r)
	default:
		return nil, diag.New(diag.KindInternalBug, "unreduced type-expression node %T", node)
	}
}

func reduceClassType(n *ast.ClassType, r Resolver) (Type, error) {
	class, ok := r.ResolveClass(n.QualifiedName)
	if !ok {
		if builtin, ok := value.BuiltinClasses[n.QualifiedName]; ok {
			class = builtin
		} else {
			return nil, diag.New(diag.KindInternalBug, "unresolved class %s", n.QualifiedName)
		}
	}

	if len(n.TypeArgs) == 0 {
		return Class{Target: class}, nil
	}

	args := make([]Type, len(n.TypeArgs))
	for i, a := range n.TypeArgs {
		red, err := Reduce(a, r)
		if err != nil {
			return nil, err
		}
		args[i] = red
	}

	return Class{Target: class, Args: args}, nil
}
