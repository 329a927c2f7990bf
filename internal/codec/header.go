package codec

// Code is the small integer type discriminator prefixing every
// non-primitive value on the wire (spec section 4.G). Primitives (nil,
// bool, int, float, str) need no discriminator; they are written as their
// direct MessagePack equivalents.
type Code int8

// The complete discriminator taxonomy, in the order spec section 4.G lists
// them. Codes 16-18 (Property/Entry/Element) are only legal as the first
// element of an OBJECT member triple, never as a standalone value.
const (
	CodeObject Code = iota + 1
	CodeMap
	CodeMapping
	CodeList
	CodeListing
	CodeSet
	CodeDuration
	CodeDataSize
	CodePair
	CodeIntSeq
	CodeRegex
	CodeClass
	CodeTypeAlias
	CodeFunction
	CodeBytes
	CodeProperty
	CodeEntry
	CodeElement
)

// EnvelopeMagic marks a file produced by this package's EncodeFile, the same
// way the teacher's binfile package leads with a fixed "zkbinary" identifier
// before any library-encoded payload (see binfile.go's Header).
var EnvelopeMagic = [8]byte{'p', 'k', 'l', 'b', 'i', 'n', 'f', 'l'}

// EnvelopeVersion is the format version stamped on every file written by
// EncodeFile; DecodeFile rejects a mismatched version rather than guessing
// at forward compatibility.
const EnvelopeVersion uint16 = 1
