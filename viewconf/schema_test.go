package viewconf_test

import (
	"reflect"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	js "github.com/higlass/hgschema/jsonschema"
	"github.com/higlass/hgschema/viewconf"
)

func schemaMap(t *testing.T) map[string]any {
	t.Helper()
	b, err := viewconf.SchemaJSON()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var out map[string]any
	if err := gojson.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func definition(t *testing.T, doc map[string]any, name string) map[string]any {
	t.Helper()
	defs, _ := doc["definitions"].(map[string]any)
	d, ok := defs[name].(map[string]any)
	if !ok {
		t.Fatalf("definition %s missing", name)
	}
	return d
}

func property(t *testing.T, s map[string]any, name string) map[string]any {
	t.Helper()
	props, _ := s["properties"].(map[string]any)
	p, ok := props[name].(map[string]any)
	if !ok {
		t.Fatalf("property %s missing", name)
	}
	return p
}

func TestSchema_Header(t *testing.T) {
	b, err := viewconf.SchemaJSON()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	doc, err := js.Parse(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	keys := doc.Keys()
	if len(keys) < 3 || keys[0] != "$schema" || keys[1] != "$id" || keys[2] != "title" {
		t.Fatalf("unexpected key order %v", keys)
	}
	if v, _ := doc.Get("$schema"); v != js.DraftURI {
		t.Fatalf("$schema: %v", v)
	}
	if v, _ := doc.Get("$id"); v != viewconf.SchemaID {
		t.Fatalf("$id: %v", v)
	}
	if v, _ := doc.Get("title"); v != viewconf.Title {
		t.Fatalf("title: %v", v)
	}
	if v, _ := doc.Get("additionalProperties"); v != false {
		t.Fatalf("root must forbid unknown keys: %v", v)
	}
}

func TestSchema_Views(t *testing.T) {
	views := property(t, schemaMap(t), "views")
	if views["minItems"] != float64(1) {
		t.Fatalf("views minItems: %v", views)
	}
	items, _ := views["items"].(map[string]any)
	if items["$ref"] != "#/definitions/View" {
		t.Fatalf("views items: %v", items)
	}
}

func TestSchema_NoGeneratedTitles(t *testing.T) {
	doc := schemaMap(t)
	defs, _ := doc["definitions"].(map[string]any)
	for name, raw := range defs {
		d, _ := raw.(map[string]any)
		if _, ok := d["title"]; ok {
			t.Fatalf("definition %s keeps its title", name)
		}
		props, _ := d["properties"].(map[string]any)
		for pname, p := range props {
			if _, ok := p.(map[string]any)["title"]; ok {
				t.Fatalf("%s.%s keeps its title", name, pname)
			}
		}
	}
	props, _ := doc["properties"].(map[string]any)
	for pname, p := range props {
		if _, ok := p.(map[string]any)["title"]; ok {
			t.Fatalf("root property %s keeps its title", pname)
		}
	}
}

func TestSchema_LockEntries(t *testing.T) {
	doc := schemaMap(t)
	lock := definition(t, doc, "Lock")
	wantTuple := map[string]any{
		"type":     "array",
		"minItems": float64(3),
		"maxItems": float64(3),
		"items":    []any{map[string]any{"type": "number"}, map[string]any{"type": "number"}, map[string]any{"type": "number"}},
	}
	if !reflect.DeepEqual(lock["additionalProperties"], wantTuple) {
		t.Fatalf("Lock additionalProperties: %v", lock["additionalProperties"])
	}

	vsl := definition(t, doc, "ValueScaleLock")
	wantEntry := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"view":  map[string]any{"type": "string"},
			"track": map[string]any{"type": "string"},
		},
		"required": []any{"view", "track"},
	}
	if !reflect.DeepEqual(vsl["additionalProperties"], wantEntry) {
		t.Fatalf("ValueScaleLock additionalProperties: %v", vsl["additionalProperties"])
	}
	if _, ok := definition(t, doc, "ZoomLocks")["additionalProperties"]; !ok {
		t.Fatalf("ZoomLocks must forbid unknown keys")
	}
}

func TestSchema_CollapsedEnums(t *testing.T) {
	doc := schemaMap(t)
	axis := property(t, definition(t, doc, "AxisSpecificLock"), "axis")
	if !reflect.DeepEqual(axis, map[string]any{"enum": []any{"x", "y"}}) {
		t.Fatalf("axis: %v", axis)
	}
	for def, kind := range map[string]string{"HeatmapTrack": viewconf.HeatmapType, "CombinedTrack": viewconf.CombinedType} {
		typ := property(t, definition(t, doc, def), "type")
		if !reflect.DeepEqual(typ, map[string]any{"const": kind}) {
			t.Fatalf("%s.type: %v", def, typ)
		}
	}
	enum, _ := property(t, definition(t, doc, "EnumTrack"), "type")["enum"].([]any)
	if len(enum) != 68 {
		t.Fatalf("EnumTrack.type has %d values", len(enum))
	}
	proj, _ := property(t, definition(t, doc, "IndependentViewportProjectionTrack"), "type")["enum"].([]any)
	if len(proj) != 3 {
		t.Fatalf("projection kinds: %v", proj)
	}
	if typ := property(t, definition(t, doc, "BaseTrack"), "type"); typ["type"] != "string" {
		t.Fatalf("BaseTrack.type is a free string: %v", typ)
	}
}

func TestSchema_TrackUnionOrder(t *testing.T) {
	tracks := definition(t, schemaMap(t), "Tracks")
	items, _ := property(t, tracks, "center")["items"].(map[string]any)
	anyOf, _ := items["anyOf"].([]any)
	var refs []string
	for _, it := range anyOf {
		refs = append(refs, it.(map[string]any)["$ref"].(string))
	}
	want := []string{
		"#/definitions/EnumTrack",
		"#/definitions/CombinedTrack",
		"#/definitions/HeatmapTrack",
		"#/definitions/IndependentViewportProjectionTrack",
		"#/definitions/BaseTrack",
	}
	if !reflect.DeepEqual(refs, want) {
		t.Fatalf("got %v want %v", refs, want)
	}
	if tracks["description"] != "Track layout within a View." {
		t.Fatalf("Tracks description: %v", tracks["description"])
	}
}

func TestSchema_Layout(t *testing.T) {
	layout := definition(t, schemaMap(t), "Layout")
	w := property(t, layout, "w")
	if w["default"] != float64(12) || w["type"] != "integer" || w["description"] != "Width" {
		t.Fatalf("w: %v", w)
	}
	if _, ok := layout["required"]; ok {
		t.Fatalf("layout fields are all defaulted")
	}
}

func TestSchemaOf_SingleVariant(t *testing.T) {
	doc, err := viewconf.SchemaOf(viewconf.HeatmapTracks())
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	defs, _ := doc.Object(js.DefinitionsKey)
	for _, name := range []string{"View_HeatmapTrack", "Tracks_HeatmapTrack", "HeatmapTrack"} {
		if !defs.Has(name) {
			t.Fatalf("missing %s in %v", name, defs.Keys())
		}
	}
	if defs.Has("EnumTrack") {
		t.Fatalf("unused variants must not be defined")
	}
}

func TestSchemaJSON_Formats(t *testing.T) {
	b, err := viewconf.SchemaJSON(viewconf.WithIndent("", "  "))
	if err != nil {
		t.Fatalf("indent: %v", err)
	}
	if !strings.HasPrefix(string(b), "{\n  \"$schema\": ") {
		t.Fatalf("unexpected indented output %.40q", b)
	}
	y, err := viewconf.SchemaJSON(viewconf.WithYAML())
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.HasPrefix(string(y), "$schema: ") {
		t.Fatalf("unexpected yaml output %.40q", y)
	}
	var fromYAML map[string]any
	if err := yaml.Unmarshal(y, &fromYAML); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if fromYAML["$id"] != viewconf.SchemaID || fromYAML["definitions"] == nil {
		t.Fatalf("yaml document: %v", fromYAML["$id"])
	}
}

func TestLockSchema_Canonical(t *testing.T) {
	doc, err := viewconf.LockSchema().JSONSchema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	ap, ok := doc.Object("additionalProperties")
	if !ok || ap.Len() != 4 {
		t.Fatalf("lock entry shape: %v", ap)
	}
	props, _ := doc.Object("properties")
	if p, _ := props.Object("uid"); p.Has("title") {
		t.Fatalf("property titles are removed")
	}
}
