package eval

import "github.com/pkl-lang/pkl-core/internal/value"

// ClassTable is the by-qualified-name class/typealias lookup the type
// checker's Reduce consults (types.Resolver). Populating it is the
// module-loading concern this core leaves injected (spec section 1,
// "assume an AST ... is given"); callers register a module's declared
// classes/aliases as they build its AST.
type ClassTable struct {
	classes map[string]*value.Class
	aliases map[string]*value.TypeAlias
}

// NewClassTable constructs an empty table.
func NewClassTable() *ClassTable {
	return &ClassTable{classes: make(map[string]*value.Class), aliases: make(map[string]*value.TypeAlias)}
}

// Register adds a class, keyed by its qualified name.
func (t *ClassTable) Register(c *value.Class) { t.classes[c.QualifiedName] = c }

// RegisterAlias adds a type alias, keyed by its qualified name.
func (t *ClassTable) RegisterAlias(a *value.TypeAlias) { t.aliases[a.QualifiedName] = a }

// ResolveClass implements types.Resolver.
func (t *ClassTable) ResolveClass(qualifiedName string) (*value.Class, bool) {
	c, ok := t.classes[qualifiedName]
	return c, ok
}

// ResolveAlias implements types.Resolver.
func (t *ClassTable) ResolveAlias(qualifiedName string) (*value.TypeAlias, bool) {
	a, ok := t.aliases[qualifiedName]
	return a, ok
}
