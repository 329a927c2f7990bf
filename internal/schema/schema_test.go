package schema

import (
	"testing"

	"github.com/pkl-lang/pkl-core/internal/value"
)

func TestMirrorClassesAndAliases(t *testing.T) {
	super := &value.Class{QualifiedName: "pkg#Animal", ModuleURI: "pkg.pkl", Open: true}
	sub := &value.Class{
		QualifiedName: "pkg#Dog",
		ModuleURI:     "pkg.pkl",
		Super:         super,
		Properties: []*value.PropertyDescriptor{
			{Name: "name", Doc: "the dog's name"},
			{Name: "secret", Hidden: true},
		},
	}

	alias := &value.TypeAlias{QualifiedName: "pkg#Breed", ModuleURI: "pkg.pkl"}

	moduleClass := &value.Class{
		QualifiedName: "pkg",
		Methods: []*value.MethodDescriptor{
			{Name: "bark", Parameters: []value.PropertyDescriptor{{Name: "loud"}}},
		},
	}

	mod := value.NewModule("pkg", "pkg.pkl", moduleClass, nil, nil)

	mirrored := Mirror(mod, []*value.Class{value.DynamicClass, super, sub}, []*value.TypeAlias{alias})

	if len(mirrored.Classes) != 2 {
		t.Fatalf("expected 2 non-builtin classes, got %d", len(mirrored.Classes))
	}

	reg := NewRegistry(mirrored)

	dog, ok := reg.Class("pkg#Dog")
	if !ok {
		t.Fatalf("expected pkg#Dog to be registered")
	}

	if dog.SuperclassRef != "pkg#Animal" {
		t.Errorf("SuperclassRef = %q, want pkg#Animal", dog.SuperclassRef)
	}

	if len(dog.Properties) != 2 || dog.Properties[1].Name != "secret" || !dog.Properties[1].Hidden {
		t.Fatalf("unexpected properties: %+v", dog.Properties)
	}

	if _, ok := reg.Alias("pkg#Breed"); !ok {
		t.Errorf("expected pkg#Breed alias to be registered")
	}

	if len(mirrored.Methods) != 1 || mirrored.Methods[0].Name != "bark" {
		t.Fatalf("unexpected methods: %+v", mirrored.Methods)
	}
}
