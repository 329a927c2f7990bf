package value

import "fmt"

// Pair holds exactly two values (spec section 3).
type Pair struct {
	First  Value
	Second Value
}

// NewPair constructs a Pair.
func NewPair(first, second Value) Pair { return Pair{first, second} }

// Kind implements Value.
func (Pair) Kind() Kind { return KindPair }

// Equals implements Value.
func (p Pair) Equals(other Value) bool {
	o, ok := other.(Pair)
	return ok && p.First.Equals(o.First) && p.Second.Equals(o.Second)
}

// Hash implements Value.
func (p Pair) Hash() uint64 { return hashCombine(0x9a12, p.First.Hash(), p.Second.Hash()) }

// String implements Value.
func (p Pair) String() string { return fmt.Sprintf("Pair(%s, %s)", p.First, p.Second) }
