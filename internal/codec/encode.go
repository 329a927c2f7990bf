package codec

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// EncodeFile writes v prefixed with the fixed pkl-binary envelope (magic +
// version, see header.go) used by the `pkl-binary` output format of the CLI
// options struct (spec section 6).
func EncodeFile(w io.Writer, v value.Value) error {
	if _, err := w.Write(EnvelopeMagic[:]); err != nil {
		return err
	}

	var verBuf [2]byte
	binary.BigEndian.PutUint16(verBuf[:], EnvelopeVersion)

	if _, err := w.Write(verBuf[:]); err != nil {
		return err
	}

	return Encode(w, v)
}

// Encode writes v to w in the wire format of spec section 4.G. v's object
// graph is assumed already fully forced (callers export a module by forcing
// every visible member first, then calling Encode); a member still unforced
// at encode time is reported as InvalidEncoding rather than silently
// dropped.
func Encode(w io.Writer, v value.Value) error {
	enc := msgpack.NewEncoder(w)
	return encodeValue(enc, v, nil)
}

// EncodeBytes is a convenience wrapper returning the encoded bytes directly.
func EncodeBytes(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func encodeValue(enc *msgpack.Encoder, v value.Value, path Path) error {
	switch t := v.(type) {
	case value.Null:
		return enc.EncodeNil()
	case value.Boolean:
		return enc.EncodeBool(bool(t))
	case value.Int:
		return enc.EncodeInt64(int64(t))
	case value.Float:
		return enc.EncodeFloat64(float64(t))
	case value.String:
		return enc.EncodeString(t.Raw())
	case value.Bytes:
		return encodeTagged(enc, CodeBytes, func() error { return enc.EncodeBytes(t) })
	case value.Duration:
		return encodeTagged(enc, CodeDuration, func() error {
			if err := enc.EncodeFloat64(t.Value); err != nil {
				return err
			}
			return enc.EncodeString(t.Unit.String())
		})
	case value.DataSize:
		return encodeTagged(enc, CodeDataSize, func() error {
			if err := enc.EncodeFloat64(t.Value); err != nil {
				return err
			}
			return enc.EncodeString(t.Unit.String())
		})
	case value.Pair:
		return encodeTagged(enc, CodePair, func() error {
			if err := encodeValue(enc, t.First, path.Push(FieldElement("first"))); err != nil {
				return err
			}
			return encodeValue(enc, t.Second, path.Push(FieldElement("second")))
		})
	case value.IntSeq:
		return encodeTagged(enc, CodeIntSeq, func() error {
			if err := enc.EncodeInt64(t.Start); err != nil {
				return err
			}
			if err := enc.EncodeInt64(t.End); err != nil {
				return err
			}
			return enc.EncodeInt64(t.Step)
		})
	case value.Regex:
		return encodeTagged(enc, CodeRegex, func() error { return enc.EncodeString(t.Source) })
	case value.List:
		return encodeSequence(enc, CodeList, t.Elements, path)
	case value.Set:
		return encodeSequence(enc, CodeSet, t.Elements, path)
	case value.Map:
		return encodeMap(enc, t, path)
	case *value.Class:
		return encodeTagged(enc, CodeClass, func() error {
			if err := enc.EncodeString(t.QualifiedName); err != nil {
				return err
			}
			return enc.EncodeString(t.ModuleURI)
		})
	case *value.TypeAlias:
		return encodeTagged(enc, CodeTypeAlias, func() error {
			if err := enc.EncodeString(t.QualifiedName); err != nil {
				return err
			}
			return enc.EncodeString(t.ModuleURI)
		})
	case *value.Function:
		// Opaque per spec section 4.G; decoders may refuse to reconstruct a
		// callable from this.
		if err := enc.EncodeArrayLen(1); err != nil {
			return err
		}
		return enc.EncodeInt8(int8(CodeFunction))
	case *value.Listing:
		return encodeListing(enc, t, path)
	case *value.Mapping:
		return encodeMapping(enc, t, path)
	default:
		if obj, ok := v.(value.Objectlike); ok {
			return encodeObject(enc, obj, path)
		}
		return diag.New(diag.KindInvalidEncoding, "cannot encode value of kind %s at %s", v.Kind(), path).WithRange(diag.Range{})
	}
}

func encodeTagged(enc *msgpack.Encoder, code Code, fields func() error) error {
	if err := enc.EncodeArrayLen(1 + fieldCount(code)); err != nil {
		return err
	}

	if err := enc.EncodeInt8(int8(code)); err != nil {
		return err
	}

	return fields()
}

// fieldCount is the number of array slots a tagged encoding carries after
// its code, matching the layouts spec section 4.G enumerates.
func fieldCount(code Code) int {
	switch code {
	case CodeBytes, CodeRegex:
		return 1
	case CodeDuration, CodeDataSize, CodePair, CodeClass, CodeTypeAlias:
		return 2
	case CodeIntSeq:
		return 3
	default:
		return 0
	}
}

func encodeSequence(enc *msgpack.Encoder, code Code, elements []value.Value, path Path) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}

	if err := enc.EncodeInt8(int8(code)); err != nil {
		return err
	}

	if err := enc.EncodeArrayLen(len(elements)); err != nil {
		return err
	}

	for i, e := range elements {
		if err := encodeValue(enc, e, path.Push(IndexElement(i))); err != nil {
			return err
		}
	}

	return nil
}

func encodeMap(enc *msgpack.Encoder, m value.Map, path Path) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}

	if err := enc.EncodeInt8(int8(CodeMap)); err != nil {
		return err
	}

	if err := enc.EncodeMapLen(len(m.Entries)); err != nil {
		return err
	}

	for _, e := range m.Entries {
		if err := encodeValue(enc, e.Key, path.Push(FieldElement("key"))); err != nil {
			return err
		}
		if err := encodeValue(enc, e.Value, path.Push(FieldElement("value"))); err != nil {
			return err
		}
	}

	return nil
}

// cachedAt returns the value memoized for key on obj itself. A force always
// reads and writes the querying object's own cache regardless of which
// ancestor declares the def, so encoding obj after ForceAll never needs to
// walk the amend chain to find the memoized value.
func cachedAt(obj value.Objectlike, key value.Key) (value.Value, bool) {
	return obj.Cache().Cached(key)
}

func encodeListing(enc *msgpack.Encoder, l *value.Listing, path Path) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}

	if err := enc.EncodeInt8(int8(CodeListing)); err != nil {
		return err
	}

	indices := value.SortedElementIndices(value.VisibleKeys(l))

	if err := enc.EncodeArrayLen(len(indices)); err != nil {
		return err
	}

	for _, idx := range indices {
		key := value.ElementKey(idx)

		v, ok := cachedAt(l, key)
		if !ok {
			return diag.New(diag.KindInvalidEncoding, "unforced element %d at %s", idx, path)
		}

		if err := encodeValue(enc, v, path.Push(IndexElement(int(idx)))); err != nil {
			return err
		}
	}

	return nil
}

func encodeMapping(enc *msgpack.Encoder, m *value.Mapping, path Path) error {
	keys := entryKeys(m)

	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}

	if err := enc.EncodeInt8(int8(CodeMapping)); err != nil {
		return err
	}

	if err := enc.EncodeMapLen(len(keys)); err != nil {
		return err
	}

	for _, key := range keys {
		v, ok := cachedAt(m, key)
		if !ok {
			return diag.New(diag.KindInvalidEncoding, "unforced entry at %s", path)
		}

		if err := encodeValue(enc, key.Entry(), path.Push(FieldElement("key"))); err != nil {
			return err
		}
		if err := encodeValue(enc, v, path.Push(FieldElement("value"))); err != nil {
			return err
		}
	}

	return nil
}

func entryKeys(obj value.Objectlike) []value.Key {
	var out []value.Key

	for _, k := range value.VisibleKeys(obj) {
		if k.Kind() == value.KeyEntry {
			out = append(out, k)
		}
	}

	return out
}

// exportableKeys is VisibleKeys filtered to the members spec section 4.G's
// OBJECT encoding actually carries: `local` members never leave the
// declaring scope, and `hidden` properties are excluded from external
// representations the same way a hand-written Pkl renderer would skip them.
func exportableKeys(obj value.Objectlike) []value.Key {
	var out []value.Key

	for _, k := range value.VisibleKeys(obj) {
		if k.Local() {
			continue
		}

		if _, def, ok := value.OwningDef(obj, k); ok && def.Flags.Has(value.FlagHidden) {
			continue
		}

		out = append(out, k)
	}

	return out
}

func encodeObject(enc *msgpack.Encoder, obj value.Objectlike, path Path) error {
	name, uri := objectIdentity(obj)

	if err := enc.EncodeArrayLen(4); err != nil {
		return err
	}

	if err := enc.EncodeInt8(int8(CodeObject)); err != nil {
		return err
	}

	if err := enc.EncodeString(name); err != nil {
		return err
	}

	if err := enc.EncodeString(uri); err != nil {
		return err
	}

	keys := exportableKeys(obj)

	if err := enc.EncodeArrayLen(len(keys)); err != nil {
		return err
	}

	for _, key := range keys {
		if err := encodeMember(enc, obj, key, path); err != nil {
			return err
		}
	}

	return nil
}

// objectIdentity returns the two strings that follow the OBJECT code: a
// module's own name/URI, or a class instance's qualified name/declaring
// module URI (spec section 4.G; S1 shows a module's name and URI occupying
// these same two slots).
func objectIdentity(obj value.Objectlike) (string, string) {
	if m, ok := obj.(*value.Module); ok {
		return m.Name, m.URI
	}

	return obj.Class().QualifiedName, obj.Class().ModuleURI
}

func encodeMember(enc *msgpack.Encoder, obj value.Objectlike, key value.Key, path Path) error {
	v, ok := cachedAt(obj, key)
	if !ok {
		return diag.New(diag.KindInvalidEncoding, "unforced member %s at %s", key, path)
	}

	switch key.Kind() {
	case value.KeyProperty:
		if err := enc.EncodeArrayLen(3); err != nil {
			return err
		}
		if err := enc.EncodeInt8(int8(CodeProperty)); err != nil {
			return err
		}
		if err := enc.EncodeString(key.Name()); err != nil {
			return err
		}
		return encodeValue(enc, v, path.Push(FieldElement(key.Name())))
	case value.KeyEntry:
		if err := enc.EncodeArrayLen(3); err != nil {
			return err
		}
		if err := enc.EncodeInt8(int8(CodeEntry)); err != nil {
			return err
		}
		if err := encodeValue(enc, key.Entry(), path.Push(FieldElement("key"))); err != nil {
			return err
		}
		return encodeValue(enc, v, path.Push(FieldElement("value")))
	default: // KeyElement
		if err := enc.EncodeArrayLen(3); err != nil {
			return err
		}
		if err := enc.EncodeInt8(int8(CodeElement)); err != nil {
			return err
		}
		if err := enc.EncodeInt64(key.Element()); err != nil {
			return err
		}
		return encodeValue(enc, v, path.Push(IndexElement(int(key.Element()))))
	}
}
