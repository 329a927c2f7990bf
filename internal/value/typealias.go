package value

// TypeAlias is the runtime descriptor for a `typealias` declaration (spec
// section 3). Aliased is opaque (a types.Type once resolved) to avoid an
// import cycle with the type-checker package.
type TypeAlias struct {
	QualifiedName string
	ModuleURI     string
	Aliased       any
	Doc           string
}

// Kind implements Value.
func (*TypeAlias) Kind() Kind { return KindTypeAlias }

// Equals implements Value.
func (t *TypeAlias) Equals(other Value) bool {
	o, ok := other.(*TypeAlias)
	return ok && t.QualifiedName == o.QualifiedName && t.ModuleURI == o.ModuleURI
}

// Hash implements Value.
func (t *TypeAlias) Hash() uint64 {
	return hashCombine(0x7a11a5, hashString(t.QualifiedName), hashString(t.ModuleURI))
}

// String implements Value.
func (t *TypeAlias) String() string { return "typealias " + t.QualifiedName }
