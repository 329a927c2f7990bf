package render

import (
	"strings"
	"testing"

	"github.com/pkl-lang/pkl-core/internal/value"
)

func forcedDynamic() *value.Dynamic {
	d := value.NewDynamic(nil, nil)
	defineAndCache(d, value.PropertyKey("name"), value.String("widget"))
	defineAndCache(d, value.PropertyKey("count"), value.Int(3))
	return d
}

// defineAndCache installs v on obj as a real Def and its own forced cache
// entry, the fixture-building equivalent of what a completed Force call
// leaves behind.
func defineAndCache(obj value.Objectlike, key value.Key, v value.Value) {
	obj.Members().Define(key, &value.Def{Name: key.String(), Constant: v})
	obj.Cache().Memoize(key, v)
}

func TestRenderJSON(t *testing.T) {
	out, err := Render(FormatJSON, forcedDynamic())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(out, `"name"`) || !strings.Contains(out, "widget") {
		t.Errorf("json output missing expected fields: %s", out)
	}
}

func TestRenderPCF(t *testing.T) {
	out := renderPCF(forcedDynamic())

	if !strings.Contains(out, `name = "widget"`) {
		t.Errorf("pcf output missing name assignment: %s", out)
	}
	if !strings.Contains(out, "count = 3") {
		t.Errorf("pcf output missing count assignment: %s", out)
	}
}

func TestRenderXML(t *testing.T) {
	out, err := Render(FormatXML, forcedDynamic())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(out, "<name>widget</name>") {
		t.Errorf("xml output missing name element: %s", out)
	}
}

func TestRenderRejectsUnsupportedFormat(t *testing.T) {
	if _, err := Render("yaml", forcedDynamic()); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestRenderListAsJSONArray(t *testing.T) {
	l := value.NewList([]value.Value{value.Int(1), value.Int(2)})

	out, err := Render(FormatJSON, l)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(out, "[\n") {
		t.Errorf("expected a JSON array, got %s", out)
	}
}
