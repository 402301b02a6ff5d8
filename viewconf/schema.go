package viewconf

import (
	"fmt"

	"gopkg.in/yaml.v3"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/dsl"
	js "github.com/higlass/hgschema/jsonschema"
)

// SchemaID is the $id of the generated schema document.
const SchemaID = "https://higlass.io/#viewconf"

// Definitions whose undeclared keys are typed lock entries.
var lockEntryDefinitions = map[string]func() dsl.Node{
	"Lock":           lockEntryNode,
	"ValueScaleLock": func() dsl.Node { return valueScaleLockEntryNode() },
}

// Definitions with a single-literal or union-of-literals property.
var enumProperties = []struct{ definition, property string }{
	{"AxisSpecificLock", "axis"},
	{"EnumTrack", "type"},
	{"CombinedTrack", "type"},
	{"HeatmapTrack", "type"},
	{"IndependentViewportProjectionTrack", "type"},
	{"BaseTrack", "type"},
}

// Canonicalize rewrites a derived schema document in place: generated titles
// are removed, lock definitions get their entry shape as
// additionalProperties, and literal unions collapse to a single enum or
// const.
func Canonicalize(doc *js.Object) error {
	// Definitions are located by title, so look them up before stripping.
	targets := map[string]*js.Object{}
	for name := range lockEntryDefinitions {
		if s, ok := lookup(doc, name); ok {
			targets[name] = s
		}
	}
	for _, ep := range enumProperties {
		if s, ok := lookup(doc, ep.definition); ok {
			targets[ep.definition] = s
		}
	}

	js.StripTitles(doc)

	for name, entry := range lockEntryDefinitions {
		s, ok := targets[name]
		if !ok {
			continue
		}
		es, err := dsl.Document(entry())
		if err != nil {
			return fmt.Errorf("viewconf: %s entry schema: %w", name, err)
		}
		js.SetAdditionalProperties(s, js.Isolate(es))
	}

	for _, ep := range enumProperties {
		s, ok := targets[ep.definition]
		if !ok {
			continue
		}
		if err := js.CollapseEnumProperty(s, ep.property); err != nil {
			return fmt.Errorf("viewconf: %s.%s: %w", ep.definition, ep.property, err)
		}
	}
	return nil
}

// lookup finds a definition by name, or the root itself when the named type
// was hoisted to the root.
func lookup(doc *js.Object, name string) (*js.Object, bool) {
	if defs, ok := doc.Object(js.DefinitionsKey); ok {
		if s, ok := defs.Object(name); ok {
			return s, true
		}
	}
	if title, _ := doc.Get("title"); title == name {
		return doc, true
	}
	return nil, false
}

// Schema returns the canonical JSON Schema of a viewconf accepting every
// track variant.
func Schema() (*js.Object, error) { return SchemaOf(DefaultTracks()) }

// SchemaOf returns the canonical JSON Schema of a viewconf over set.
func SchemaOf[T Track](set TrackSet[T]) (*js.Object, error) {
	doc, err := ViewconfSchema(set).JSONSchema()
	if err != nil {
		return nil, err
	}
	if err := js.SetMinItems(doc, "views", 1); err != nil {
		return nil, fmt.Errorf("viewconf: %w", err)
	}
	return js.WithMetadata(doc, js.DraftURI, SchemaID), nil
}

// SchemaOption configures SchemaJSON output.
type SchemaOption func(*schemaOptions)

type schemaOptions struct {
	prefix string
	indent string
	yaml   bool
}

// WithIndent pretty-prints the JSON output.
func WithIndent(prefix, indent string) SchemaOption {
	return func(o *schemaOptions) { o.prefix, o.indent = prefix, indent }
}

// WithYAML renders the schema as YAML instead of JSON.
func WithYAML() SchemaOption { return func(o *schemaOptions) { o.yaml = true } }

// SchemaJSON renders the canonical schema document.
func SchemaJSON(opts ...SchemaOption) ([]byte, error) {
	var o schemaOptions
	for _, opt := range opts {
		opt(&o)
	}
	doc, err := Schema()
	if err != nil {
		return nil, err
	}
	switch {
	case o.yaml:
		return yaml.Marshal(doc)
	case o.indent != "" || o.prefix != "":
		return hgschema.MarshalIndent(doc, o.prefix, o.indent)
	default:
		return hgschema.Marshal(doc)
	}
}
