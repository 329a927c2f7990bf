package value

// Module is a Typed value that is additionally the root object of an
// evaluated Pkl module (spec section 3).
type Module struct {
	Typed

	Name string
	URI  string
}

// NewModule constructs a Module object-like value.
func NewModule(name, uri string, class *Class, parent Objectlike, enclosing Enclosing) *Module {
	return &Module{
		Typed: *NewTyped(class, parent, enclosing),
		Name:  name,
		URI:   uri,
	}
}

// Kind implements Value.
func (*Module) Kind() Kind { return KindModule }

// Equals implements Value.
func (m *Module) Equals(other Value) bool {
	o, ok := other.(*Module)
	return ok && m.URI == o.URI && objectEquals(m, o)
}

// Hash implements Value.
func (m *Module) Hash() uint64 { return hashCombine(0x3d0d41e, uint64(m.Handle())) }

// String implements Value.
func (m *Module) String() string { return membersString("module "+m.Name, m.Members()) }
