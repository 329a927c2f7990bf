package value

import "strconv"

// String is a UTF-8 text value.
type String string

// Kind implements Value.
func (String) Kind() Kind { return KindString }

// Equals implements Value.
func (s String) Equals(other Value) bool {
	o, ok := other.(String)
	return ok && s == o
}

// Hash implements Value.
func (s String) Hash() uint64 { return hashString(string(s)) }

// String implements Value, quoting the way Pkl's `toString` would for a
// nested/diagnostic rendering; top-level string export writes the raw bytes
// instead (see internal/codec).
func (s String) String() string { return strconv.Quote(string(s)) }

// Raw returns the unquoted Go string.
func (s String) Raw() string { return string(s) }
