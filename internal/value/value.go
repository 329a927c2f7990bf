// Package value implements the tagged-variant runtime object model described
// in spec section 3: every value a Pkl module can produce, from primitives
// through to lazily-evaluated object-like aggregates, is one of the
// concrete types in this package.
package value

import "fmt"

// Kind identifies which variant of Value a given instance implements. Kinds
// are used for class-by-tag resolution of stdlib types (see Class.Builtin)
// rather than a runtime type hierarchy.
type Kind uint8

// The full set of Value variants. Order matches spec section 3.
const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindFloat
	KindString
	KindBytes
	KindDuration
	KindDataSize
	KindPair
	KindIntSeq
	KindRegex
	KindList
	KindSet
	KindMap
	KindListing
	KindMapping
	KindDynamic
	KindTyped
	KindModule
	KindClass
	KindTypeAlias
	KindFunction
)

// String renders a Kind using the name stdlib code generators expect to see
// in diagnostics (e.g. "List", "Mapping").
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindDuration:
		return "Duration"
	case KindDataSize:
		return "DataSize"
	case KindPair:
		return "Pair"
	case KindIntSeq:
		return "IntSeq"
	case KindRegex:
		return "Regex"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	case KindListing:
		return "Listing"
	case KindMapping:
		return "Mapping"
	case KindDynamic:
		return "Dynamic"
	case KindTyped:
		return "Typed"
	case KindModule:
		return "Module"
	case KindClass:
		return "Class"
	case KindTypeAlias:
		return "TypeAlias"
	case KindFunction:
		return "Function"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is implemented by every runtime variant of spec section 3. Values
// are immutable after construction; object-like variants additionally
// populate their member cache write-once (see member.go).
type Value interface {
	// Kind identifies which concrete variant this value implements.
	Kind() Kind
	// Equals reports structural equality per spec section 4.A: content
	// addressed for primitives/pairs/collections/durations/sizes/regex (by
	// source), identity based for Function, and by forced-member snapshot
	// for object-like values.
	Equals(other Value) bool
	// Hash returns a hash consistent with Equals: equal values always
	// hash equal. Used by Set/Map member keys and the member table.
	Hash() uint64
	// String renders this value the way Pkl's `toString` would.
	String() string
}

// Objectlike is implemented by the five aggregate variants that carry a
// member table: Listing, Mapping, Dynamic, Typed and Module (spec section 3,
// "Object-like"). It is the extension point the member table, amend engine
// and evaluator all operate against.
type Objectlike interface {
	Value
	// Members returns this object's ordered member table.
	Members() *Table
	// Cache returns this object's force cache (spec section 3's *cache*
	// field), distinct from Members: a force always reads and memoizes
	// against the querying object's own Cache, never the Table of whichever
	// ancestor declares the Def.
	Cache() *Cache
	// Parent returns the value this object amends, if any.
	Parent() (Objectlike, bool)
	// Class returns the descriptor for this object's runtime class (the
	// built-in Dynamic/Listing/Mapping class, or a user Class).
	Class() *Class
	// EnclosingFrame returns the lexical environment captured at the point
	// this object literal was evaluated, used to resolve free identifiers
	// in member bodies (spec section 3, "enclosing frame").
	EnclosingFrame() Enclosing
}

// Enclosing is the minimal contract the frame package's lexical chain
// exposes back into the value package, avoiding an import cycle between
// value (which must store an enclosing link on every object-like) and frame
// (which defines the concrete Frame type built atop Objectlike). A *frame.Frame
// satisfies this interface.
type Enclosing interface {
	// EnclosingOwner returns the object-like that lexically encloses the
	// owner of the frame this was obtained from, or (nil, false) at the
	// module root.
	EnclosingOwner() (Objectlike, bool)
}
