package value

import "strings"

// List is an ordered, indexable sequence of already-forced values (spec
// section 3). Unlike Listing, List has no lazy members and no parent chain.
type List struct {
	Elements []Value
}

// NewList constructs a List.
func NewList(elements []Value) List { return List{Elements: elements} }

// Kind implements Value.
func (List) Kind() Kind { return KindList }

// Equals implements Value.
func (l List) Equals(other Value) bool {
	o, ok := other.(List)
	if !ok || len(l.Elements) != len(o.Elements) {
		return false
	}

	for i := range l.Elements {
		if !l.Elements[i].Equals(o.Elements[i]) {
			return false
		}
	}

	return true
}

// Hash implements Value.
func (l List) Hash() uint64 {
	h := uint64(0x1157)
	for _, e := range l.Elements {
		h = hashCombine(h, e.Hash())
	}

	return h
}

// String implements Value.
func (l List) String() string {
	var b strings.Builder

	b.WriteString("List(")

	for i, e := range l.Elements {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(e.String())
	}

	b.WriteString(")")

	return b.String()
}
