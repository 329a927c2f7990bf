package value

// Typed is an instance of a user-declared Class (spec section 3).
type Typed struct {
	handle    Handle
	members   *Table
	cache     *Cache
	parent    Objectlike
	hasParent bool
	class     *Class
	enclosing Enclosing
}

// NewTyped constructs a Typed object-like value of the given class.
func NewTyped(class *Class, parent Objectlike, enclosing Enclosing) *Typed {
	t := &Typed{handle: NextHandle(), members: NewTable(), cache: NewCache(), enclosing: enclosing, class: class}
	if parent != nil {
		t.parent, t.hasParent = parent, true
	}

	return t
}

// Handle returns this object's stable identity.
func (t *Typed) Handle() Handle { return t.handle }

// Kind implements Value.
func (*Typed) Kind() Kind { return KindTyped }

// Members implements Objectlike.
func (t *Typed) Members() *Table { return t.members }

// Cache implements Objectlike.
func (t *Typed) Cache() *Cache { return t.cache }

// Parent implements Objectlike.
func (t *Typed) Parent() (Objectlike, bool) { return t.parent, t.hasParent }

// Class implements Objectlike.
func (t *Typed) Class() *Class { return t.class }

// EnclosingFrame implements Objectlike.
func (t *Typed) EnclosingFrame() Enclosing { return t.enclosing }

// Equals implements Value.
func (t *Typed) Equals(other Value) bool {
	o, ok := other.(*Typed)
	return ok && t.class == o.class && objectEquals(t, o)
}

// Hash implements Value.
func (t *Typed) Hash() uint64 { return hashCombine(0x7190d, uint64(t.handle)) }

// String implements Value.
func (t *Typed) String() string { return membersString(t.class.QualifiedName, t.members) }
