package schema

// Registry indexes a mirrored Module's classes and aliases by qualified
// name, the same "look up a declared unit by its key" shape the teacher's
// schema.ModuleMap uses to go from a module identifier to its register
// mapping (here: qualified name to descriptor, rather than module id to
// register map).
type Registry struct {
	classes map[string]*ClassDescriptor
	aliases map[string]*AliasDescriptor
}

// NewRegistry indexes every class and alias descriptor in m.
func NewRegistry(m *Module) *Registry {
	r := &Registry{
		classes: make(map[string]*ClassDescriptor, len(m.Classes)),
		aliases: make(map[string]*AliasDescriptor, len(m.Aliases)),
	}

	for _, c := range m.Classes {
		r.classes[c.QualifiedName] = c
	}

	for _, a := range m.Aliases {
		r.aliases[a.QualifiedName] = a
	}

	return r
}

// Class looks up a class descriptor by qualified name.
func (r *Registry) Class(qualifiedName string) (*ClassDescriptor, bool) {
	c, ok := r.classes[qualifiedName]
	return c, ok
}

// Alias looks up an alias descriptor by qualified name.
func (r *Registry) Alias(qualifiedName string) (*AliasDescriptor, bool) {
	a, ok := r.aliases[qualifiedName]
	return a, ok
}
