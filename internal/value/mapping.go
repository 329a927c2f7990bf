package value

// Mapping is a typed keyed collection with lazily-evaluated values (spec
// section 3). It may declare a `default` member invoked on a missing-key
// lookup (spec section 3, "Default member").
type Mapping struct {
	handle    Handle
	members   *Table
	cache     *Cache
	parent    Objectlike
	hasParent bool
	class     *Class
	enclosing Enclosing
	KeyType   any // opaque types.Type
	ValueType any // opaque types.Type
}

// MappingClass is the built-in class backing every Mapping instance.
var MappingClass = NewBuiltinClass("Mapping", KindMapping)

// NewMapping constructs a Mapping object-like value.
func NewMapping(parent Objectlike, enclosing Enclosing, keyType, valueType any) *Mapping {
	m := &Mapping{
		handle: NextHandle(), members: NewTable(), cache: NewCache(), enclosing: enclosing,
		class: MappingClass, KeyType: keyType, ValueType: valueType,
	}
	if parent != nil {
		m.parent, m.hasParent = parent, true
	}

	return m
}

// Handle returns this object's stable identity.
func (m *Mapping) Handle() Handle { return m.handle }

// Kind implements Value.
func (*Mapping) Kind() Kind { return KindMapping }

// Members implements Objectlike.
func (m *Mapping) Members() *Table { return m.members }

// Cache implements Objectlike.
func (m *Mapping) Cache() *Cache { return m.cache }

// Parent implements Objectlike.
func (m *Mapping) Parent() (Objectlike, bool) { return m.parent, m.hasParent }

// Class implements Objectlike.
func (m *Mapping) Class() *Class { return m.class }

// EnclosingFrame implements Objectlike.
func (m *Mapping) EnclosingFrame() Enclosing { return m.enclosing }

// Equals implements Value.
func (m *Mapping) Equals(other Value) bool {
	o, ok := other.(*Mapping)
	return ok && objectEquals(m, o)
}

// Hash implements Value.
func (m *Mapping) Hash() uint64 { return hashCombine(0x3a991750, uint64(m.handle)) }

// String implements Value.
func (m *Mapping) String() string { return membersString("Mapping", m.members) }
