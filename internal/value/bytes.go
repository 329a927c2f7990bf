package value

import (
	"bytes"
	"encoding/hex"
)

// Bytes is an immutable byte-string value.
type Bytes []byte

// Kind implements Value.
func (Bytes) Kind() Kind { return KindBytes }

// Equals implements Value.
func (b Bytes) Equals(other Value) bool {
	o, ok := other.(Bytes)
	return ok && bytes.Equal(b, o)
}

// Hash implements Value.
func (b Bytes) Hash() uint64 {
	h := uint64(0xbebebebe)
	for _, c := range b {
		h = hashCombine(h, uint64(c))
	}

	return h
}

// String implements Value.
func (b Bytes) String() string { return "Bytes(0x" + hex.EncodeToString(b) + ")" }
