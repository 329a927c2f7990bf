package value

// PropertyDescriptor is one declared property of a Class (spec section 3,
// "Class descriptor"). DeclaredType and Default are opaque (typically a
// types.Type and an ast.Expr respectively) so this package does not need to
// import the type checker or AST packages. CachedDefault/DefaultComputed are
// not read or written anywhere in this module: a property's type default is
// recomputed each time an instance needs it, not memoized here.
type PropertyDescriptor struct {
	Name         string
	DeclaredType any
	Default      any
	Annotations  []Value
	Hidden       bool
	Doc          string

	CachedDefault   Value
	DefaultComputed bool
}

// MethodDescriptor is one declared method of a Class.
type MethodDescriptor struct {
	Name       string
	Parameters []PropertyDescriptor
	ReturnType any
	Body       any
	Doc        string
}

// Class is the runtime descriptor for a user-defined or built-in Pkl class
// (spec section 3).
type Class struct {
	QualifiedName string
	ModuleURI     string
	Open          bool
	Abstract      bool
	Super         *Class
	Properties    []*PropertyDescriptor
	Methods       []*MethodDescriptor
	TypeParams    []string
	Annotations   []Value
	Doc           string

	// Builtin, when set, identifies this Class as a stdlib type resolved by
	// tag rather than by user-declared structure ("for stdlib classes uses
	// variant tag", spec section 4.E).
	Builtin    Kind
	IsBuiltin  bool
}

// IsSubclassOf reports whether c is class or a (transitive) subclass of it.
func (c *Class) IsSubclassOf(class *Class) bool {
	for cur := c; cur != nil; cur = cur.Super {
		if cur == class || cur.QualifiedName == class.QualifiedName {
			return true
		}
	}

	return false
}

// Property looks up a declared property by name, searching superclasses.
func (c *Class) Property(name string) (*PropertyDescriptor, bool) {
	for cur := c; cur != nil; cur = cur.Super {
		for _, p := range cur.Properties {
			if p.Name == name {
				return p, true
			}
		}
	}

	return nil, false
}

// Kind implements Value (classes are themselves first-class values).
func (*Class) Kind() Kind { return KindClass }

// Equals implements Value: class identity is by qualified name + module URI.
func (c *Class) Equals(other Value) bool {
	o, ok := other.(*Class)
	return ok && c.QualifiedName == o.QualifiedName && c.ModuleURI == o.ModuleURI
}

// Hash implements Value.
func (c *Class) Hash() uint64 { return hashCombine(0xc1a55, hashString(c.QualifiedName), hashString(c.ModuleURI)) }

// String implements Value.
func (c *Class) String() string { return "class " + c.QualifiedName }

// NewBuiltinClass constructs a Class descriptor standing in for a stdlib
// type resolved by Kind tag rather than by declared structure.
func NewBuiltinClass(name string, kind Kind) *Class {
	return &Class{QualifiedName: name, Builtin: kind, IsBuiltin: true}
}
