package codec

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// ClassResolver resolves a qualified class/alias name to its registered
// descriptor, used to reconstruct a Typed instance pointing at the exact
// same *value.Class the encoding side used (spec section 8's "binary
// roundtrip" property only holds at the pointer-identity Typed.Equals
// compares by when Decode is given the originating evaluator's class
// table). *eval.Evaluator already satisfies this via types.Resolver.
type ClassResolver interface {
	ResolveClass(qualifiedName string) (*value.Class, bool)
	ResolveAlias(qualifiedName string) (*value.TypeAlias, bool)
}

// Decode reads one wire value from r (spec section 4.G). resolver may be
// nil, in which case CLASS/TYPEALIAS codes and OBJECT instances of a
// user-defined class decode to freshly synthesized, structurally faithful
// but unregistered descriptors.
func Decode(r io.Reader, resolver ClassResolver) (value.Value, error) {
	dec := msgpack.NewDecoder(r)

	raw, err := dec.DecodeInterface()
	if err != nil {
		return nil, diag.New(diag.KindInvalidEncoding, "malformed msgpack stream: %v", err)
	}

	return fromRaw(raw, resolver, nil)
}

// DecodeBytes is a convenience wrapper over an in-memory buffer.
func DecodeBytes(data []byte, resolver ClassResolver) (value.Value, error) {
	return Decode(bytes.NewReader(data), resolver)
}

// DecodeFile reads a file written by EncodeFile, checking the envelope
// magic and version before decoding the payload.
func DecodeFile(r io.Reader, resolver ClassResolver) (value.Value, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, diag.New(diag.KindInvalidEncoding, "truncated pkl-binary header: %v", err)
	}

	if magic != EnvelopeMagic {
		return nil, diag.New(diag.KindInvalidEncoding, "not a pkl-binary file")
	}

	var verBuf [2]byte
	if _, err := io.ReadFull(r, verBuf[:]); err != nil {
		return nil, diag.New(diag.KindInvalidEncoding, "truncated pkl-binary header: %v", err)
	}

	if v := binary.BigEndian.Uint16(verBuf[:]); v != EnvelopeVersion {
		return nil, diag.New(diag.KindInvalidEncoding, "unsupported pkl-binary version %d", v)
	}

	return Decode(r, resolver)
}

func fromRaw(raw any, resolver ClassResolver, path Path) (value.Value, error) {
	switch t := raw.(type) {
	case nil:
		return value.TheNull, nil
	case bool:
		return value.Boolean(t), nil
	case float32:
		return value.Float(t), nil
	case float64:
		return value.Float(t), nil
	case string:
		return value.String(t), nil
	case []byte:
		return value.Bytes(t), nil
	case []any:
		return fromTagged(t, resolver, path)
	default:
		if i, ok := toInt64(raw); ok {
			return value.Int(i), nil
		}
		return nil, diag.New(diag.KindInvalidEncoding, "unsupported wire value %T at %s", raw, path)
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		if i, ok := toInt64(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}

func fromTagged(arr []any, resolver ClassResolver, path Path) (value.Value, error) {
	if len(arr) == 0 {
		return nil, diag.New(diag.KindInvalidEncoding, "empty tagged array at %s", path)
	}

	codeNum, ok := toInt64(arr[0])
	if !ok {
		return nil, diag.New(diag.KindInvalidEncoding, "malformed type code at %s", path)
	}

	code := Code(codeNum)

	switch code {
	case CodeBytes:
		b, ok := arr[1].([]byte)
		if !ok {
			return nil, diag.New(diag.KindInvalidEncoding, "BYTES payload is not binary at %s", path)
		}
		return value.Bytes(b), nil

	case CodeDuration:
		v, _ := toFloat64(arr[1])
		unit, _ := arr[2].(string)
		u, ok := value.ParseDurationUnit(unit)
		if !ok {
			return nil, diag.New(diag.KindInvalidEncoding, "unknown duration unit %q at %s", unit, path)
		}
		return value.NewDuration(v, u), nil

	case CodeDataSize:
		v, _ := toFloat64(arr[1])
		unit, _ := arr[2].(string)
		u, ok := value.ParseDataSizeUnit(unit)
		if !ok {
			return nil, diag.New(diag.KindInvalidEncoding, "unknown data size unit %q at %s", unit, path)
		}
		return value.NewDataSize(v, u), nil

	case CodePair:
		first, err := fromRaw(arr[1], resolver, path.Push(FieldElement("first")))
		if err != nil {
			return nil, err
		}
		second, err := fromRaw(arr[2], resolver, path.Push(FieldElement("second")))
		if err != nil {
			return nil, err
		}
		return value.NewPair(first, second), nil

	case CodeIntSeq:
		start, _ := toInt64(arr[1])
		end, _ := toInt64(arr[2])
		step, _ := toInt64(arr[3])
		return value.NewIntSeq(start, end, step), nil

	case CodeRegex:
		src, _ := arr[1].(string)
		re, err := value.CompileRegex(src)
		if err != nil {
			return nil, diag.New(diag.KindInvalidEncoding, "invalid regex source at %s: %v", path, err)
		}
		return re, nil

	case CodeClass:
		name, _ := arr[1].(string)
		uri, _ := arr[2].(string)
		if resolver != nil {
			if c, ok := resolver.ResolveClass(name); ok {
				return c, nil
			}
		}
		return &value.Class{QualifiedName: name, ModuleURI: uri}, nil

	case CodeTypeAlias:
		name, _ := arr[1].(string)
		uri, _ := arr[2].(string)
		if resolver != nil {
			if a, ok := resolver.ResolveAlias(name); ok {
				return a, nil
			}
		}
		return &value.TypeAlias{QualifiedName: name, ModuleURI: uri}, nil

	case CodeFunction:
		return nil, diag.New(diag.KindInvalidEncoding, "cannot decode a Function value at %s", path)

	case CodeList:
		elems, err := decodeElements(arr, 1, resolver, path)
		if err != nil {
			return nil, err
		}
		return value.NewList(elems), nil

	case CodeSet:
		elems, err := decodeElements(arr, 1, resolver, path)
		if err != nil {
			return nil, err
		}
		return value.NewSet(elems), nil

	case CodeMap:
		entries, err := decodeMapEntries(arr[1], resolver, path)
		if err != nil {
			return nil, err
		}
		return value.NewMap(entries), nil

	case CodeListing:
		return decodeListing(arr, resolver, path)

	case CodeMapping:
		return decodeMapping(arr, resolver, path)

	case CodeObject:
		return decodeObject(arr, resolver, path)

	default:
		return nil, diag.New(diag.KindInvalidEncoding, "unknown wire code %d at %s", code, path)
	}
}

func decodeElements(arr []any, slot int, resolver ClassResolver, path Path) ([]value.Value, error) {
	raw, ok := arr[slot].([]any)
	if !ok {
		return nil, diag.New(diag.KindInvalidEncoding, "expected an array payload at %s", path)
	}

	out := make([]value.Value, len(raw))

	for i, e := range raw {
		v, err := fromRaw(e, resolver, path.Push(IndexElement(i)))
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func decodeMapEntries(raw any, resolver ClassResolver, path Path) ([]value.MapEntry, error) {
	var out []value.MapEntry

	switch m := raw.(type) {
	case map[string]any:
		for k, v := range m {
			keyVal, err := fromRaw(k, resolver, path.Push(FieldElement("key")))
			if err != nil {
				return nil, err
			}

			valVal, err := fromRaw(v, resolver, path.Push(FieldElement("value")))
			if err != nil {
				return nil, err
			}

			out = append(out, value.MapEntry{Key: keyVal, Value: valVal})
		}
	case map[any]any:
		for k, v := range m {
			keyVal, err := fromRaw(k, resolver, path.Push(FieldElement("key")))
			if err != nil {
				return nil, err
			}

			valVal, err := fromRaw(v, resolver, path.Push(FieldElement("value")))
			if err != nil {
				return nil, err
			}

			out = append(out, value.MapEntry{Key: keyVal, Value: valVal})
		}
	default:
		return nil, diag.New(diag.KindInvalidEncoding, "expected a map payload at %s", path)
	}

	return out, nil
}

func decodeListing(arr []any, resolver ClassResolver, path Path) (value.Value, error) {
	raw, ok := arr[1].([]any)
	if !ok {
		return nil, diag.New(diag.KindInvalidEncoding, "expected an array payload at %s", path)
	}

	l := value.NewListing(nil, nil, nil)

	for i, e := range raw {
		v, err := fromRaw(e, resolver, path.Push(IndexElement(i)))
		if err != nil {
			return nil, err
		}

		defineForced(l, value.ElementKey(int64(i)), v)
	}

	return l, nil
}

func decodeMapping(arr []any, resolver ClassResolver, path Path) (value.Value, error) {
	entries, err := decodeMapEntries(arr[1], resolver, path)
	if err != nil {
		return nil, err
	}

	m := value.NewMapping(nil, nil, nil, nil)

	for _, e := range entries {
		defineForced(m, value.EntryKey(e.Key), e.Value)
	}

	return m, nil
}

func decodeObject(arr []any, resolver ClassResolver, path Path) (value.Value, error) {
	name, _ := arr[1].(string)
	uri, _ := arr[2].(string)

	members, ok := arr[3].([]any)
	if !ok {
		return nil, diag.New(diag.KindInvalidEncoding, "OBJECT members payload is not an array at %s", path)
	}

	obj := objectFor(name, uri, resolver)

	for _, raw := range members {
		triple, ok := raw.([]any)
		if !ok || len(triple) < 3 {
			return nil, diag.New(diag.KindInvalidEncoding, "malformed OBJECT member at %s", path)
		}

		if err := decodeMember(obj, triple, resolver, path); err != nil {
			return nil, err
		}
	}

	return obj, nil
}

// defineForced installs v on obj as both a real member definition and its
// own already-forced value. Binary decoding never runs through the
// evaluator, so a decoded member needs a Constant-bearing Def (to remain
// visible to VisibleKeys/OwningDef) in addition to a populated Cache entry
// (so a later re-encode can read the value back via cachedAt without first
// forcing it).
func defineForced(obj value.Objectlike, key value.Key, v value.Value) {
	obj.Members().Define(key, &value.Def{Name: key.String(), Constant: v})
	obj.Cache().Memoize(key, v)
}

func decodeMember(obj value.Objectlike, triple []any, resolver ClassResolver, path Path) error {
	codeNum, ok := toInt64(triple[0])
	if !ok {
		return diag.New(diag.KindInvalidEncoding, "malformed member code at %s", path)
	}

	switch Code(codeNum) {
	case CodeProperty:
		name, _ := triple[1].(string)

		v, err := fromRaw(triple[2], resolver, path.Push(FieldElement(name)))
		if err != nil {
			return err
		}

		defineForced(obj, value.PropertyKey(name), v)

	case CodeEntry:
		keyVal, err := fromRaw(triple[1], resolver, path.Push(FieldElement("key")))
		if err != nil {
			return err
		}

		v, err := fromRaw(triple[2], resolver, path.Push(FieldElement("value")))
		if err != nil {
			return err
		}

		defineForced(obj, value.EntryKey(keyVal), v)

	case CodeElement:
		idx, _ := toInt64(triple[1])

		v, err := fromRaw(triple[2], resolver, path.Push(IndexElement(int(idx))))
		if err != nil {
			return err
		}

		defineForced(obj, value.ElementKey(idx), v)

	default:
		return diag.New(diag.KindInvalidEncoding, "unknown member code %d at %s", codeNum, path)
	}

	return nil
}

// objectFor reconstructs the object-like shell an OBJECT code names: the
// built-in Dynamic class by its fixed name, a registered user class when
// resolver can find one, or (the fallback spec section 4.G leaves open for
// the module root, see S1) a Module carrying name/uri directly.
func objectFor(name, uri string, resolver ClassResolver) value.Objectlike {
	if name == "Dynamic" {
		return value.NewDynamic(nil, nil)
	}

	if resolver != nil {
		if class, ok := resolver.ResolveClass(name); ok {
			return value.NewTyped(class, nil, nil)
		}
	}

	class := &value.Class{QualifiedName: name, ModuleURI: uri}

	return value.NewModule(name, uri, class, nil, nil)
}
