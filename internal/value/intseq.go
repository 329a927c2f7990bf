package value

import "fmt"

// IntSeq is a (start, end, step) integer sequence (spec section 3), as
// produced by Pkl's `start..end` / `start..<end` range expressions.
type IntSeq struct {
	Start int64
	End   int64
	Step  int64
}

// NewIntSeq constructs an IntSeq.
func NewIntSeq(start, end, step int64) IntSeq { return IntSeq{start, end, step} }

// Kind implements Value.
func (IntSeq) Kind() Kind { return KindIntSeq }

// Equals implements Value.
func (s IntSeq) Equals(other Value) bool {
	o, ok := other.(IntSeq)
	return ok && s == o
}

// Hash implements Value.
func (s IntSeq) Hash() uint64 {
	return hashCombine(0x5e90, uint64(s.Start), uint64(s.End), uint64(s.Step))
}

// String implements Value.
func (s IntSeq) String() string { return fmt.Sprintf("IntSeq(%d, %d, %d)", s.Start, s.End, s.Step) }

// Len returns the number of elements this sequence produces.
func (s IntSeq) Len() int64 {
	if s.Step == 0 {
		return 0
	}

	span := s.End - s.Start
	if (span > 0) != (s.Step > 0) {
		return 0
	}

	n := span / s.Step
	if span%s.Step != 0 {
		n++
	}

	return n
}

// At returns the i'th element of this sequence.
func (s IntSeq) At(i int64) int64 { return s.Start + i*s.Step }
