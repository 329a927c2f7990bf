// Package render converts an evaluated value graph into the output formats
// named by spec section 6's CLI options form (`output-format:
// {pcf|json|yaml|plist|xml|pkl-binary}`). `pkl-binary` is handled directly by
// internal/codec; this package covers the text formats.
package render

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/value"
)

// Format names one of spec section 6's text output formats.
type Format string

const (
	FormatPCF  Format = "pcf"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// Render dispatches v to the renderer for format. v's object graph must
// already be fully forced, the same precondition internal/codec.Encode
// documents for export.
func Render(format Format, v value.Value) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(v)
	case FormatXML:
		return renderXML(v)
	case FormatPCF, "":
		return renderPCF(v), nil
	default:
		return "", diag.New(diag.KindIOError, "unsupported output format %q (yaml/plist require a third-party encoder not present in this build)", format)
	}
}

// ToGo converts v into plain Go data (map[string]any / []any / primitives)
// suitable for encoding/json and encoding/xml, the same "evaluated value
// graph to a generic tree" step internal/codec's encode side performs for
// the binary format.
func ToGo(v value.Value) any {
	switch t := v.(type) {
	case value.Null:
		return nil
	case value.Boolean:
		return bool(t)
	case value.Int:
		return int64(t)
	case value.Float:
		return float64(t)
	case value.String:
		return t.Raw()
	case value.Bytes:
		return []byte(t)
	case value.Duration:
		return t.String()
	case value.DataSize:
		return t.String()
	case value.Pair:
		return []any{ToGo(t.First), ToGo(t.Second)}
	case value.List:
		return toGoSlice(t.Elements)
	case value.Set:
		return toGoSlice(t.Elements)
	case value.Map:
		out := make(map[string]any, len(t.Entries))
		for _, e := range t.Entries {
			out[fmt.Sprint(ToGo(e.Key))] = ToGo(e.Value)
		}
		return out
	default:
		if obj, ok := v.(value.Objectlike); ok {
			return objectToGo(obj)
		}
		return fmt.Sprint(v)
	}
}

func toGoSlice(elements []value.Value) []any {
	out := make([]any, len(elements))
	for i, e := range elements {
		out[i] = ToGo(e)
	}
	return out
}

func objectToGo(obj value.Objectlike) any {
	keys := value.VisibleKeys(obj)

	hasElement := false
	for _, k := range keys {
		if k.Kind() == value.KeyElement {
			hasElement = true
			break
		}
	}

	if hasElement && len(keys) == int(value.ElementCount(obj)) {
		out := make([]any, value.ElementCount(obj))
		for _, k := range keys {
			if v, ok := cachedAt(obj, k); ok {
				out[int(k.Element())] = ToGo(v)
			}
		}
		return out
	}

	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if k.Local() {
			continue
		}

		v, ok := cachedAt(obj, k)
		if !ok {
			continue
		}

		out[memberName(k)] = ToGo(v)
	}

	return out
}

func memberName(k value.Key) string {
	switch k.Kind() {
	case value.KeyProperty:
		return k.Name()
	case value.KeyEntry:
		return fmt.Sprint(ToGo(k.Entry()))
	default:
		return fmt.Sprintf("%d", k.Element())
	}
}

func cachedAt(obj value.Objectlike, key value.Key) (value.Value, bool) {
	return obj.Cache().Cached(key)
}

func renderJSON(v value.Value) (string, error) {
	data, err := json.MarshalIndent(ToGo(v), "", "  ")
	if err != nil {
		return "", diag.New(diag.KindIOError, "rendering json: %v", err)
	}

	return string(data), nil
}

// xmlNode is an intermediate tree encoding/xml can marshal generically,
// since Go data (map[string]any) has no natural XML shape of its own.
type xmlNode struct {
	XMLName xml.Name
	Attr    []xml.Attr  `xml:",any,attr"`
	Content string      `xml:",chardata"`
	Nodes   []*xmlNode  `xml:",any"`
}

func renderXML(v value.Value) (string, error) {
	root := toXMLNode("module", ToGo(v))

	data, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", diag.New(diag.KindIOError, "rendering xml: %v", err)
	}

	return xml.Header + string(data), nil
}

func toXMLNode(name string, v any) *xmlNode {
	n := &xmlNode{XMLName: xml.Name{Local: sanitizeXMLName(name)}}

	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			n.Nodes = append(n.Nodes, toXMLNode(k, t[k]))
		}
	case []any:
		for i, e := range t {
			n.Nodes = append(n.Nodes, toXMLNode(fmt.Sprintf("item%d", i), e))
		}
	case nil:
		// empty element
	default:
		n.Content = fmt.Sprint(t)
	}

	return n
}

func sanitizeXMLName(name string) string {
	if name == "" {
		return "_"
	}

	r := []rune(name)
	if !isXMLNameStart(r[0]) {
		r[0] = '_'
	}

	return string(r)
}

func isXMLNameStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// renderPCF renders v as a flat indented `key = value` text, the Pkl
// Config Format's plain-text sibling and the format a hand-rolled config
// renderer in this corpus would produce absent a PCF-specific library
// (there is none in the retrieved pack).
func renderPCF(v value.Value) string {
	var b strings.Builder
	writePCF(&b, ToGo(v), 0)
	return b.String()
}

func writePCF(b *strings.Builder, v any, indent int) {
	pad := strings.Repeat("  ", indent)

	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			switch t[k].(type) {
			case map[string]any, []any:
				fmt.Fprintf(b, "%s%s {\n", pad, k)
				writePCF(b, t[k], indent+1)
				fmt.Fprintf(b, "%s}\n", pad)
			default:
				fmt.Fprintf(b, "%s%s = %v\n", pad, k, scalarPCF(t[k]))
			}
		}
	case []any:
		for _, e := range t {
			switch e.(type) {
			case map[string]any, []any:
				fmt.Fprintf(b, "%snew {\n", pad)
				writePCF(b, e, indent+1)
				fmt.Fprintf(b, "%s}\n", pad)
			default:
				fmt.Fprintf(b, "%s%v\n", pad, scalarPCF(e))
			}
		}
	default:
		fmt.Fprintf(b, "%s%v\n", pad, scalarPCF(t))
	}
}

func scalarPCF(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	if v == nil {
		return "null"
	}

	return fmt.Sprint(v)
}
