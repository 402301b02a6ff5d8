package jsonschema_test

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	js "github.com/higlass/hgschema/jsonschema"
)

func TestObject_KeepsInsertionOrder(t *testing.T) {
	o := js.New().Set("b", 1).Set("a", "x").Set("c", true)
	o.Set("b", 2) // existing key keeps its slot
	b, err := o.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(b), `{"b":2,"a":"x","c":true}`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestObject_PrependAndDelete(t *testing.T) {
	o := js.New().Set("a", 1).Set("b", 2)
	o.Prepend("b", 3)
	if got := strings.Join(o.Keys(), ","); got != "b,a" {
		t.Fatalf("unexpected keys: %s", got)
	}
	if !o.Delete("a") || o.Delete("a") {
		t.Fatalf("delete should report presence once")
	}
	if o.Len() != 1 {
		t.Fatalf("expected one key left, got %v", o.Keys())
	}
}

func TestParse_RoundTripPreservesOrder(t *testing.T) {
	in := `{"z":{"y":[1,{"b":null,"a":"s"}],"x":false},"a":1.5}`
	o, err := js.Parse([]byte(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := o.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != in {
		t.Fatalf("round trip changed document\n got=%s\nwant=%s", b, in)
	}
}

func TestParse_RejectsNonObject(t *testing.T) {
	if _, err := js.Parse([]byte(`[1,2]`)); err == nil {
		t.Fatalf("expected error for array document")
	}
}

func TestClone_IsDeep(t *testing.T) {
	o := js.New().Set("p", js.New().Set("title", "P"))
	c := o.Clone()
	p, _ := c.Object("p")
	p.Delete("title")
	orig, _ := o.Object("p")
	if !orig.Has("title") {
		t.Fatalf("clone shares nested objects")
	}
}

func TestMarshalYAML_Ordered(t *testing.T) {
	o := js.New().Set("$schema", js.DraftURI).Set("type", "object").Set("enum", []any{"x", "y"})
	b, err := yaml.Marshal(o)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	out := string(b)
	if !strings.HasPrefix(out, "$schema:") {
		t.Fatalf("expected $schema first, got:\n%s", out)
	}
	if strings.Index(out, "type:") > strings.Index(out, "enum:") {
		t.Fatalf("key order not preserved:\n%s", out)
	}
}

func TestParseYAML_PreservesOrder(t *testing.T) {
	o, err := js.ParseYAML([]byte("z: 1\na:\n  y: [1, two]\n  b: true\nm: null\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := strings.Join(o.Keys(), ","); got != "z,a,m" {
		t.Fatalf("root keys: %s", got)
	}
	a, ok := o.Object("a")
	if !ok || strings.Join(a.Keys(), ",") != "y,b" {
		t.Fatalf("nested keys: %v", a.Keys())
	}
	y, _ := a.Get("y")
	if arr, ok := y.([]any); !ok || len(arr) != 2 || arr[1] != "two" {
		t.Fatalf("sequence: %#v", y)
	}
	if _, err := js.ParseYAML([]byte("- 1\n- 2\n")); err == nil {
		t.Fatalf("expected error for a top-level sequence")
	}
}
