package value

import (
	"fmt"
	"sort"
)

// KeyKind distinguishes the three forms a MemberKey can take (spec section 3,
// "MemberKey").
type KeyKind uint8

const (
	// KeyProperty identifies a member by interned property name.
	KeyProperty KeyKind = iota
	// KeyEntry identifies a Mapping/Dynamic member by an arbitrary forced
	// value used as its key.
	KeyEntry
	// KeyElement identifies a Listing/List element by non-negative index.
	KeyElement
)

// Key is a MemberKey: a property identifier, an entry key, or an element
// index. Two keys are Equal when their kind matches and, for KeyEntry, their
// values compare structurally equal per spec section 3's Set/Map equality
// rule (the amend open question: structurally-equal-but-distinct entry keys
// collide, see DESIGN.md).
type Key struct {
	kind    KeyKind
	name    string
	local   bool
	entry   Value
	element int64
}

// PropertyKey constructs a property MemberKey for a non-local property.
func PropertyKey(name string) Key { return Key{kind: KeyProperty, name: name} }

// LocalPropertyKey constructs a property MemberKey for a `local` property. A
// local member shares its name with, but never collides with, a non-local
// member of the same name: they occupy separate namespace slots within the
// same lexical scope (spec section 4.D, "does not collide").
func LocalPropertyKey(name string) Key { return Key{kind: KeyProperty, name: name, local: true} }

// EntryKey constructs an entry MemberKey from an already-forced value.
func EntryKey(v Value) Key { return Key{kind: KeyEntry, entry: v} }

// ElementKey constructs an element MemberKey from a dense index.
func ElementKey(index int64) Key { return Key{kind: KeyElement, element: index} }

// Kind reports which form this key takes.
func (k Key) Kind() KeyKind { return k.kind }

// Name returns the property name for a KeyProperty key; panics otherwise.
func (k Key) Name() string {
	if k.kind != KeyProperty {
		panic("Key.Name: not a property key")
	}
	return k.name
}

// Entry returns the entry value for a KeyEntry key; panics otherwise.
func (k Key) Entry() Value {
	if k.kind != KeyEntry {
		panic("Key.Entry: not an entry key")
	}
	return k.entry
}

// Element returns the element index for a KeyElement key; panics otherwise.
func (k Key) Element() int64 {
	if k.kind != KeyElement {
		panic("Key.Element: not an element key")
	}
	return k.element
}

// Equals implements the collision rule used by Table: two keys of different
// kinds are never equal; property keys compare by name; element keys compare
// by index; entry keys compare by the structural equality of their (forced)
// values.
func (k Key) Equals(other Key) bool {
	if k.kind != other.kind {
		return false
	}

	switch k.kind {
	case KeyProperty:
		return k.name == other.name && k.local == other.local
	case KeyElement:
		return k.element == other.element
	default:
		return k.entry.Equals(other.entry)
	}
}

// Hash returns a hash consistent with Equals.
func (k Key) Hash() uint64 {
	switch k.kind {
	case KeyProperty:
		h := hashString(k.name)*3 + 1
		if k.local {
			h = hashCombine(h, 0x10ca1)
		}
		return h
	case KeyElement:
		return uint64(k.element)*3 + 2
	default:
		return k.entry.Hash()*3 + 0
	}
}

// Local reports whether this is a property key in the `local` namespace.
func (k Key) Local() bool { return k.kind == KeyProperty && k.local }

// String renders the key for diagnostics.
func (k Key) String() string {
	switch k.kind {
	case KeyProperty:
		if k.local {
			return "local " + k.name
		}
		return k.name
	case KeyElement:
		return fmt.Sprintf("[%d]", k.element)
	default:
		return fmt.Sprintf("[%s]", k.entry.String())
	}
}

// MemberFlags are the per-member modifiers of spec section 3 ("MemberDef
// fields"). They are a bitset since several can combine (e.g. local+const).
type MemberFlags uint8

// Flag bits. A member with no bits set is an ordinary forced-and-exported
// member.
const (
	FlagLocal MemberFlags = 1 << iota
	FlagHidden
	FlagConst
	FlagFixed
	FlagExternal
	FlagAbstract
	FlagDefault
)

// Has reports whether every bit in want is set in f.
func (f MemberFlags) Has(want MemberFlags) bool { return f&want == want }

// Def is a MemberDef: the static, pre-evaluation description of a member
// (spec section 3). Body is an opaque value supplied by the caller (an
// ast.Expr in practice) so that this package does not need to depend on the
// AST package.
type Def struct {
	// Name is a human-readable label used in diagnostics; for property
	// members it is the property name, for entries/elements a synthesized
	// description.
	Name string
	// Flags captures local/hidden/const/fixed/external/abstract/default.
	Flags MemberFlags
	// DeclaredType is the optional declared type expression (opaque,
	// typically a types.Type once resolved); nil when untyped.
	DeclaredType any
	// Body is the opaque member body (typically an ast.Expr); nil for a
	// constant member whose value is carried directly in Constant.
	Body any
	// Constant, when non-nil, is a pre-forced literal value bypassing the
	// evaluator entirely (used by the amend engine's synthetic members and
	// by codec-decoded objects).
	Constant Value
	// Owner is the object-like that physically declares this member; set
	// by whoever builds the def (Table.Define does not set it).
	Owner Objectlike
}

// ForceState tracks the per-key lifecycle described in spec section 4.D's
// state machine: unforced -> in-progress -> forced. forced->in-progress is
// unreachable (memoization is write-once).
type ForceState uint8

// The three possible states of a cache slot.
const (
	Unforced ForceState = iota
	InProgress
	Forced
)

// entry pairs a Key with its Def for ordered iteration.
type entry struct {
	key Key
	def *Def
}

// Table is the ordered member-definition map described in spec section 3's
// *members* field: insertion order is preserved for iteration/export and
// lookups are O(1) via an auxiliary hash index. Table holds only the static
// declarations a member table was built from — which keys exist, their
// flags, their body — never a forced value; that lives in the separate
// per-object Cache (spec section 3's *cache* field). Splitting the two
// means Lookup can never return a result for a key this table does not
// actually declare, regardless of what has or hasn't been forced elsewhere
// in the amend chain. The force *algorithm* lives in package eval to avoid
// an import cycle — see DESIGN.md "Package consolidation".
type Table struct {
	order []entry
	index map[uint64][]int // hash -> indices into order, for collision buckets
	deflt *Def             // the at-most-one `default` member, if any
}

// NewTable creates an empty member table.
func NewTable() *Table {
	return &Table{index: make(map[uint64][]int)}
}

// Define inserts a new member definition under key, in declaration order.
// If a member of this key already exists in *this* table (not an ancestor),
// it reports ok=false so the caller can raise DuplicateDefinition; local and
// non-local members of the same name do not collide (spec section 4.D tie
// break) since the `local` flag is part of the Key (see LocalPropertyKey).
func (t *Table) Define(key Key, def *Def) (ok bool) {
	if def.Flags.Has(FlagDefault) {
		if t.deflt != nil {
			return false
		}
		t.deflt = def
	}

	h := key.Hash()
	for _, idx := range t.index[h] {
		if t.order[idx].key.Equals(key) {
			return false
		}
	}

	t.order = append(t.order, entry{key, def})
	t.index[h] = append(t.index[h], len(t.order)-1)

	return true
}

// Overlay inserts or replaces a member definition under key. Unlike Define,
// a pre-existing entry is replaced in place (the amend engine uses this to
// shadow a parent's def while preserving the parent's declaration position,
// spec section 3's order invariant).
func (t *Table) Overlay(key Key, def *Def) {
	if def.Flags.Has(FlagDefault) {
		t.deflt = def
	}

	h := key.Hash()
	for _, idx := range t.index[h] {
		if t.order[idx].key.Equals(key) {
			t.order[idx].def = def
			return
		}
	}

	t.order = append(t.order, entry{key, def})
	t.index[h] = append(t.index[h], len(t.order)-1)
}

// Lookup returns the member definition for key directly declared on this
// table (not consulting any parent), or (nil, false) if absent.
func (t *Table) Lookup(key Key) (*Def, bool) {
	h := key.Hash()
	for _, idx := range t.index[h] {
		if t.order[idx].key.Equals(key) {
			return t.order[idx].def, true
		}
	}

	return nil, false
}

// Default returns this table's `default` member, if declared.
func (t *Table) Default() (*Def, bool) {
	if t.deflt == nil {
		return nil, false
	}

	return t.deflt, true
}

// Len returns the number of members declared directly on this table.
func (t *Table) Len() int { return len(t.order) }

// Keys returns this table's keys in declaration order.
func (t *Table) Keys() []Key {
	keys := make([]Key, len(t.order))
	for i, e := range t.order {
		keys[i] = e.key
	}

	return keys
}

// Each invokes f for every (key, def) pair in declaration order.
func (t *Table) Each(f func(Key, *Def)) {
	for _, e := range t.order {
		f(e.key, e.def)
	}
}

// cacheSlot is one entry of a Cache: the force-state and, once Forced, the
// memoized value for a key.
type cacheSlot struct {
	state ForceState
	value Value
}

// cacheEntry pairs a Key with its cacheSlot.
type cacheEntry struct {
	key  Key
	slot *cacheSlot
}

// Cache is the per-object force cache described in spec section 3's *cache*
// field: a MemberKey -> forced Value map, initially empty, independent of
// the Table that declares the member. Force(object, key) in package eval
// always reads and writes object's own Cache — even when the Def it evaluates
// is declared on an ancestor's Table — so repeated forces of the same
// (object, key) pair are O(1) regardless of inheritance depth, and a lookup
// of one object's declared members can never observe another object's
// in-flight or memoized force state.
type Cache struct {
	order []cacheEntry
	index map[uint64][]int
}

// NewCache creates an empty force cache.
func NewCache() *Cache {
	return &Cache{index: make(map[uint64][]int)}
}

// State returns the force-state for key, or Unforced if the key has never
// been touched by MarkInProgress or Memoize.
func (c *Cache) State(key Key) ForceState {
	if s, ok := c.find(key); ok {
		return s.state
	}

	return Unforced
}

// MarkInProgress transitions key's slot from Unforced to InProgress,
// reporting false (and leaving the slot untouched) if it is already
// InProgress — the caller should treat that as CircularReference — or if it
// is already Forced, in which case the caller should simply use the cached
// value instead of reforcing.
func (c *Cache) MarkInProgress(key Key) bool {
	s := c.findOrCreate(key)
	if s.state == Unforced {
		s.state = InProgress
		return true
	}

	return false
}

// Memoize stores v as the forced value for key and transitions its slot to
// Forced. Calling Memoize on an already-Forced slot is a no-op returning the
// original cached value (write-once semantics, spec section 3 invariant).
func (c *Cache) Memoize(key Key, v Value) Value {
	s := c.findOrCreate(key)
	if s.state == Forced {
		return s.value
	}

	s.value = v
	s.state = Forced

	return v
}

// Revert transitions an in-progress slot back to Unforced (used on
// cancellation, spec section 5: "any in-progress entries are reverted to
// unforced").
func (c *Cache) Revert(key Key) {
	if s, ok := c.find(key); ok && s.state == InProgress {
		s.state = Unforced
	}
}

// Cached returns the memoized value for key, if forced.
func (c *Cache) Cached(key Key) (Value, bool) {
	if s, ok := c.find(key); ok && s.state == Forced {
		return s.value, true
	}

	return nil, false
}

func (c *Cache) find(key Key) (*cacheSlot, bool) {
	h := key.Hash()
	for _, idx := range c.index[h] {
		if c.order[idx].key.Equals(key) {
			return c.order[idx].slot, true
		}
	}

	return nil, false
}

func (c *Cache) findOrCreate(key Key) *cacheSlot {
	if s, ok := c.find(key); ok {
		return s
	}

	c.order = append(c.order, cacheEntry{key, &cacheSlot{}})
	h := key.Hash()
	c.index[h] = append(c.index[h], len(c.order)-1)

	return c.order[len(c.order)-1].slot
}

// SortedElementIndices returns the indices of the element-kind keys in keys,
// sorted ascending; the codec uses it to export Listing elements in index
// order (spec section 3, "dense 0..length").
func SortedElementIndices(keys []Key) []int64 {
	var out []int64

	for _, k := range keys {
		if k.Kind() == KeyElement {
			out = append(out, k.Element())
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
