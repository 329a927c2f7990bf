// Package schema projects an evaluated module's class/alias/method shape
// into a read-only structure external collaborators (typed-record code
// generators, IDE tooling) can consume without reaching into evaluator
// internals (spec section 4.H; spec section 9, "Reflection into consumer
// languages: the schema mirror is the sole contract").
package schema

import "github.com/pkl-lang/pkl-core/internal/value"

// Module is the root of a schema mirror: one evaluated Pkl module's name,
// URI, and the classes/aliases/methods it declares or re-exports.
type Module struct {
	Name    string
	URI     string
	Classes []*ClassDescriptor
	Aliases []*AliasDescriptor
	Methods []*MethodDescriptor
}

// ClassDescriptor mirrors one value.Class (spec section 4.H: "qualified
// name, open/abstract, superclass ref, doc-comment, annotations,
// properties").
type ClassDescriptor struct {
	QualifiedName string
	ModuleURI     string
	Open          bool
	Abstract      bool
	// SuperclassRef is the superclass's qualified name, or "" at the root
	// of the hierarchy.
	SuperclassRef string
	Doc           string
	Annotations   []value.Value
	Properties    []*PropertyDescriptor
}

// PropertyDescriptor mirrors one value.PropertyDescriptor (spec section
// 4.H: "name, type-expression, doc, annotations, hidden?"). TypeExpr is
// opaque (an ast.TypeExpr) to avoid pulling the AST package into this
// reflection-only surface.
type PropertyDescriptor struct {
	Name        string
	TypeExpr    any
	Doc         string
	Annotations []value.Value
	Hidden      bool
}

// MethodDescriptor mirrors one value.MethodDescriptor.
type MethodDescriptor struct {
	Name       string
	Doc        string
	ReturnType any
	Parameters []ParamDescriptor
}

// ParamDescriptor mirrors one method parameter.
type ParamDescriptor struct {
	Name     string
	TypeExpr any
}

// AliasDescriptor mirrors one value.TypeAlias.
type AliasDescriptor struct {
	QualifiedName string
	ModuleURI     string
	Aliased       any
	Doc           string
}

// Mirror projects mod's evaluated shape plus the full set of classes/aliases
// visible from it into a Module descriptor. Builtin classes (Dynamic,
// Listing, Mapping, ...) are excluded since they carry no user-authored
// structure to reflect.
func Mirror(mod *value.Module, classes []*value.Class, aliases []*value.TypeAlias) *Module {
	out := &Module{Name: mod.Name, URI: mod.URI}

	for _, c := range classes {
		if c.IsBuiltin {
			continue
		}

		out.Classes = append(out.Classes, classDescriptor(c))
	}

	for _, a := range aliases {
		out.Aliases = append(out.Aliases, aliasDescriptor(a))
	}

	if mc := mod.Class(); mc != nil {
		for _, m := range mc.Methods {
			out.Methods = append(out.Methods, methodDescriptor(m))
		}
	}

	return out
}

func classDescriptor(c *value.Class) *ClassDescriptor {
	superRef := ""
	if c.Super != nil {
		superRef = c.Super.QualifiedName
	}

	d := &ClassDescriptor{
		QualifiedName: c.QualifiedName,
		ModuleURI:     c.ModuleURI,
		Open:          c.Open,
		Abstract:      c.Abstract,
		SuperclassRef: superRef,
		Doc:           c.Doc,
		Annotations:   c.Annotations,
	}

	for _, p := range c.Properties {
		d.Properties = append(d.Properties, &PropertyDescriptor{
			Name:        p.Name,
			TypeExpr:    p.DeclaredType,
			Doc:         p.Doc,
			Annotations: p.Annotations,
			Hidden:      p.Hidden,
		})
	}

	return d
}

func methodDescriptor(m *value.MethodDescriptor) *MethodDescriptor {
	d := &MethodDescriptor{Name: m.Name, Doc: m.Doc, ReturnType: m.ReturnType}

	for _, p := range m.Parameters {
		d.Parameters = append(d.Parameters, ParamDescriptor{Name: p.Name, TypeExpr: p.DeclaredType})
	}

	return d
}

func aliasDescriptor(a *value.TypeAlias) *AliasDescriptor {
	return &AliasDescriptor{QualifiedName: a.QualifiedName, ModuleURI: a.ModuleURI, Aliased: a.Aliased, Doc: a.Doc}
}
