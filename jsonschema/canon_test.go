package jsonschema_test

import (
	"errors"
	"reflect"
	"testing"

	js "github.com/higlass/hgschema/jsonschema"
)

func enumOf(vals ...any) *js.Object {
	return js.New().Set("enum", vals).Set("type", "string")
}

func TestSimplifyEnum_UnionOfEnums(t *testing.T) {
	s := js.New().Set("anyOf", []any{enumOf("x"), enumOf("y", "z")})
	got, err := js.SimplifyEnum(s)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := map[string]any{"enum": []any{"x", "y", "z"}}
	if !reflect.DeepEqual(got.ToMap(), want) {
		t.Fatalf("got %v want %v", got.ToMap(), want)
	}
}

func TestSimplifyEnum_SingleValueBecomesConst(t *testing.T) {
	got, err := js.SimplifyEnum(enumOf("heatmap"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !reflect.DeepEqual(got.ToMap(), map[string]any{"const": "heatmap"}) {
		t.Fatalf("got %v", got.ToMap())
	}
}

func TestSimplifyEnum_DropsTypeFromPlainEnum(t *testing.T) {
	got, err := js.SimplifyEnum(enumOf("x", "y"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !reflect.DeepEqual(got.ToMap(), map[string]any{"enum": []any{"x", "y"}}) {
		t.Fatalf("got %v", got.ToMap())
	}
}

func TestSimplifyEnum_RejectsMixedUnion(t *testing.T) {
	s := js.New().Set("anyOf", []any{enumOf("x"), js.New().Set("type", "number")})
	if _, err := js.SimplifyEnum(s); !errors.Is(err, js.ErrNotEnum) {
		t.Fatalf("expected ErrNotEnum, got %v", err)
	}
	if _, err := js.SimplifyEnum(js.New().Set("type", "string")); !errors.Is(err, js.ErrNotEnum) {
		t.Fatalf("expected ErrNotEnum, got %v", err)
	}
}

func TestStripTitles(t *testing.T) {
	root := js.New().
		Set("title", "Root").
		Set("properties", js.New().Set("a", js.New().Set("title", "A").Set("type", "string"))).
		Set("definitions", js.New().Set("Def", js.New().
			Set("title", "Def").
			Set("properties", js.New().Set("b", js.New().Set("title", "B"))),
		))
	js.StripTitles(root)
	want := map[string]any{
		"title":       "Root",
		"properties":  map[string]any{"a": map[string]any{"type": "string"}},
		"definitions": map[string]any{"Def": map[string]any{"properties": map[string]any{"b": map[string]any{}}}},
	}
	if !reflect.DeepEqual(root.ToMap(), want) {
		t.Fatalf("got %v", root.ToMap())
	}
}

func TestIsolate_LiftsSoleDefinition(t *testing.T) {
	entry := js.New().
		Set("title", "Entry").
		Set("type", "object").
		Set("properties", js.New().Set("view", js.New().Set("title", "View").Set("type", "string")))
	root := js.New().Set("title", "Entry").Set("$ref", js.RefPrefix+"Entry").Set("definitions", js.New().Set("Entry", entry))
	got := js.Isolate(root)
	want := map[string]any{
		"type":       "object",
		"properties": map[string]any{"view": map[string]any{"type": "string"}},
	}
	if !reflect.DeepEqual(got.ToMap(), want) {
		t.Fatalf("got %v", got.ToMap())
	}
	if !entry.Has("title") {
		t.Fatalf("Isolate must not mutate its input")
	}
}

func TestWithMetadata_Order(t *testing.T) {
	root := js.New().Set("title", "T").Set("type", "object")
	out := js.WithMetadata(root, js.DraftURI, "https://example.org/#x")
	keys := out.Keys()
	if !reflect.DeepEqual(keys, []string{"$schema", "$id", "title", "type"}) {
		t.Fatalf("unexpected key order %v", keys)
	}
}

func TestSetMinItems(t *testing.T) {
	root := js.New().Set("properties", js.New().Set("views", js.New().Set("type", "array")))
	if err := js.SetMinItems(root, "views", 1); err != nil {
		t.Fatalf("err: %v", err)
	}
	props, _ := root.Object("properties")
	views, _ := props.Object("views")
	if v, _ := views.Get("minItems"); v != 1 {
		t.Fatalf("minItems not set: %v", views.ToMap())
	}
	if err := js.SetMinItems(root, "missing", 1); err == nil {
		t.Fatalf("expected error for missing property")
	}
}

func TestCollapseEnumProperty(t *testing.T) {
	s := js.New().Set("properties", js.New().
		Set("axis", js.New().Set("anyOf", []any{enumOf("x"), enumOf("y")})).
		Set("lock", js.New().Set("type", "string")))
	if err := js.CollapseEnumProperty(s, "axis"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if err := js.CollapseEnumProperty(s, "lock"); err != nil {
		t.Fatalf("non-enum property should be skipped: %v", err)
	}
	props, _ := s.Object("properties")
	axis, _ := props.Object("axis")
	if !reflect.DeepEqual(axis.ToMap(), map[string]any{"enum": []any{"x", "y"}}) {
		t.Fatalf("got %v", axis.ToMap())
	}
}

func TestDocument_HoistsNonRecursiveRoot(t *testing.T) {
	defs := js.NewDefinitions()
	defs.Set("Leaf", js.New().Set("type", "string"))
	defs.Set("Root", js.New().Set("type", "object").Set("properties", js.New().Set("l", js.Ref("Leaf"))))
	doc := js.Document(js.Ref("Root"), defs)
	if v, _ := doc.Get("type"); v != "object" {
		t.Fatalf("root not hoisted: %v", doc.ToMap())
	}
	d, ok := doc.Object(js.DefinitionsKey)
	if !ok || d.Has("Root") || !d.Has("Leaf") {
		t.Fatalf("unexpected definitions: %v", doc.ToMap())
	}
}

func TestDocument_KeepsRecursiveRootAsRef(t *testing.T) {
	defs := js.NewDefinitions()
	defs.Set("Node", js.New().Set("properties", js.New().Set("children", js.New().Set("items", js.Ref("Node")))))
	doc := js.Document(js.Ref("Node"), defs)
	if !doc.Has("$ref") || !doc.Has(js.DefinitionsKey) {
		t.Fatalf("recursive root must stay a reference: %v", doc.ToMap())
	}
}
