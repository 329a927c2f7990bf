package value

// Dynamic is the ad-hoc bag-of-properties/entries/elements object-like
// variant (spec section 3).
type Dynamic struct {
	handle    Handle
	members   *Table
	cache     *Cache
	parent    Objectlike
	hasParent bool
	class     *Class
	enclosing Enclosing
}

// DynamicClass is the built-in class backing every Dynamic instance.
var DynamicClass = NewBuiltinClass("Dynamic", KindDynamic)

// NewDynamic constructs a Dynamic object-like value. parent may be nil.
func NewDynamic(parent Objectlike, enclosing Enclosing) *Dynamic {
	d := &Dynamic{handle: NextHandle(), members: NewTable(), cache: NewCache(), enclosing: enclosing, class: DynamicClass}
	if parent != nil {
		d.parent, d.hasParent = parent, true
	}

	return d
}

// Handle returns this object's stable identity.
func (d *Dynamic) Handle() Handle { return d.handle }

// Kind implements Value.
func (*Dynamic) Kind() Kind { return KindDynamic }

// Members implements Objectlike.
func (d *Dynamic) Members() *Table { return d.members }

// Cache implements Objectlike.
func (d *Dynamic) Cache() *Cache { return d.cache }

// Parent implements Objectlike.
func (d *Dynamic) Parent() (Objectlike, bool) { return d.parent, d.hasParent }

// Class implements Objectlike.
func (d *Dynamic) Class() *Class { return d.class }

// EnclosingFrame implements Objectlike.
func (d *Dynamic) EnclosingFrame() Enclosing { return d.enclosing }

// Equals implements Value.
func (d *Dynamic) Equals(other Value) bool {
	o, ok := other.(*Dynamic)
	return ok && objectEquals(d, o)
}

// Hash implements Value.
func (d *Dynamic) Hash() uint64 { return hashCombine(0xd7a, uint64(d.handle)) }

// String implements Value.
func (d *Dynamic) String() string { return membersString("Dynamic", d.members) }
