// Package codec implements the binary export/import wire format of spec
// section 4.G: a sequence of MessagePack values carrying a small integer
// type discriminator for every non-primitive value.
package codec

import "strconv"

// PathElement is one breadcrumb segment: either a named field ("members",
// "key", "value", ...) or a numeric index into an array.
type PathElement struct {
	Field string
	Index int
	// HasIndex distinguishes a numeric element (Index meaningful) from a
	// named field (Field meaningful); a PathElement never carries both.
	HasIndex bool
}

// FieldElement constructs a named-field breadcrumb segment.
func FieldElement(name string) PathElement { return PathElement{Field: name} }

// IndexElement constructs a numeric-index breadcrumb segment.
func IndexElement(i int) PathElement { return PathElement{Index: i, HasIndex: true} }

func (e PathElement) String() string {
	if e.HasIndex {
		return "[" + strconv.Itoa(e.Index) + "]"
	}

	return "." + e.Field
}

// Path is the deque of breadcrumb segments a streaming decode maintains so
// that an InvalidEncoding failure can report precisely where in the value
// tree decoding went wrong (spec section 4.G, "readers track a breadcrumb
// path ... for precise error locations").
type Path []PathElement

// Push returns a copy of p with e appended, leaving p itself unmodified —
// decode recursion pushes/pops by value rather than mutating a shared slice.
func (p Path) Push(e PathElement) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)

	return append(out, e)
}

func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}

	s := "$"
	for _, e := range p {
		s += e.String()
	}

	return s
}
