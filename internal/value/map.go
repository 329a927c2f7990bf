package value

import "strings"

// MapEntry is a single key/value pair within a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is an ordered collection with keys unique by structural equality
// (spec section 3). Unlike Mapping, a Map's values are already forced and it
// has no parent chain.
type Map struct {
	Entries []MapEntry
}

// NewMap constructs a Map from entries, with later duplicate keys (by
// structural equality) overwriting the value at the earlier key's position —
// matching Pkl's `Map(...)` constructor semantics.
func NewMap(entries []MapEntry) Map {
	var out []MapEntry

	for _, e := range entries {
		replaced := false

		for i, o := range out {
			if e.Key.Equals(o.Key) {
				out[i].Value = e.Value
				replaced = true

				break
			}
		}

		if !replaced {
			out = append(out, e)
		}
	}

	return Map{Entries: out}
}

// Get looks up a key by structural equality.
func (m Map) Get(key Value) (Value, bool) {
	for _, e := range m.Entries {
		if e.Key.Equals(key) {
			return e.Value, true
		}
	}

	return nil, false
}

// Kind implements Value.
func (Map) Kind() Kind { return KindMap }

// Equals implements Value.
func (m Map) Equals(other Value) bool {
	o, ok := other.(Map)
	if !ok || len(m.Entries) != len(o.Entries) {
		return false
	}

	for _, e := range m.Entries {
		v, found := o.Get(e.Key)
		if !found || !v.Equals(e.Value) {
			return false
		}
	}

	return true
}

// Hash implements Value. Order-independent, matching Equals.
func (m Map) Hash() uint64 {
	h := uint64(0)
	for _, e := range m.Entries {
		h += hashCombine(e.Key.Hash(), e.Value.Hash())
	}

	return hashCombine(0x8a9, h)
}

// String implements Value.
func (m Map) String() string {
	var b strings.Builder

	b.WriteString("Map(")

	for i, e := range m.Entries {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(e.Key.String())
		b.WriteString(", ")
		b.WriteString(e.Value.String())
	}

	b.WriteString(")")

	return b.String()
}
