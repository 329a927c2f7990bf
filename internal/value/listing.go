package value

// Listing is a typed ordered sequence with lazily-evaluated elements (spec
// section 3).
type Listing struct {
	handle      Handle
	members     *Table
	cache       *Cache
	parent      Objectlike
	hasParent   bool
	class       *Class
	enclosing   Enclosing
	ElementType any // opaque types.Type; elements are not checked against it
}

// ListingClass is the built-in class backing every Listing instance.
var ListingClass = NewBuiltinClass("Listing", KindListing)

// NewListing constructs a Listing object-like value.
func NewListing(parent Objectlike, enclosing Enclosing, elemType any) *Listing {
	l := &Listing{handle: NextHandle(), members: NewTable(), cache: NewCache(), enclosing: enclosing, class: ListingClass, ElementType: elemType}
	if parent != nil {
		l.parent, l.hasParent = parent, true
	}

	return l
}

// Handle returns this object's stable identity.
func (l *Listing) Handle() Handle { return l.handle }

// Kind implements Value.
func (*Listing) Kind() Kind { return KindListing }

// Members implements Objectlike.
func (l *Listing) Members() *Table { return l.members }

// Cache implements Objectlike.
func (l *Listing) Cache() *Cache { return l.cache }

// Parent implements Objectlike.
func (l *Listing) Parent() (Objectlike, bool) { return l.parent, l.hasParent }

// Class implements Objectlike.
func (l *Listing) Class() *Class { return l.class }

// EnclosingFrame implements Objectlike.
func (l *Listing) EnclosingFrame() Enclosing { return l.enclosing }

// Length returns the dense element count, i.e. one past the greatest
// element index declared anywhere in the amend chain (spec section 3:
// "Element indices in a Listing are dense 0..length").
func (l *Listing) Length() int64 { return ElementCount(l) }

// Equals implements Value.
func (l *Listing) Equals(other Value) bool {
	o, ok := other.(*Listing)
	return ok && objectEquals(l, o)
}

// Hash implements Value.
func (l *Listing) Hash() uint64 { return hashCombine(0x1157170, uint64(l.handle)) }

// String implements Value.
func (l *Listing) String() string { return membersString("Listing", l.members) }
