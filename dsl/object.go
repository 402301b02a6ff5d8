package dsl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/i18n"
	js "github.com/higlass/hgschema/jsonschema"
)

// ObjectNode validates JSON objects with declared fields and a policy for
// undeclared keys.
type ObjectNode struct {
	name        string
	title       string
	description string
	fields      []*field
	byName      map[string]*field
	unknown     hgschema.UnknownPolicy
	entries     Node
	refines     []objRefine
	bind        func(context.Context, Values) (any, error)
}

type field struct {
	name        string
	node        Node
	required    bool
	hasDefault  bool
	def         any
	description string
	examples    []any
}

type objRefine struct {
	name string
	fn   func(context.Context, Values) error
}

// ObjectBuilder declares an object node.
type ObjectBuilder struct {
	n    *ObjectNode
	errs []error
}

// FieldStep configures the field most recently added to a builder.
type FieldStep struct {
	b *ObjectBuilder
	f *field
}

// Object creates a builder with safe defaults (UnknownStrict). A non-empty
// name registers the object as a schema definition.
func Object(name string) *ObjectBuilder {
	return &ObjectBuilder{n: &ObjectNode{
		name:    name,
		byName:  map[string]*field{},
		unknown: hgschema.UnknownStrict,
	}}
}

// Title overrides the schema title, which defaults to the object name.
func (b *ObjectBuilder) Title(t string) *ObjectBuilder { b.n.title = t; return b }

// Description sets the schema description.
func (b *ObjectBuilder) Description(d string) *ObjectBuilder { b.n.description = d; return b }

// Field registers a field. Fields are optional until Required is called.
func (b *ObjectBuilder) Field(name string, n Node) *FieldStep {
	if n == nil {
		b.errs = append(b.errs, fmt.Errorf("field %q: nil node", name))
	}
	if _, dup := b.n.byName[name]; dup {
		b.errs = append(b.errs, fmt.Errorf("field %q declared twice", name))
	}
	f := &field{name: name, node: n}
	b.n.fields = append(b.n.fields, f)
	b.n.byName[name] = f
	return &FieldStep{b: b, f: f}
}

// UnknownStrict rejects undeclared keys.
func (b *ObjectBuilder) UnknownStrict() *ObjectBuilder {
	b.n.unknown = hgschema.UnknownStrict
	b.n.entries = nil
	return b
}

// UnknownStrip drops undeclared keys.
func (b *ObjectBuilder) UnknownStrip() *ObjectBuilder {
	b.n.unknown = hgschema.UnknownStrip
	b.n.entries = nil
	return b
}

// UnknownPassthrough keeps undeclared keys unvalidated in Values.Extra.
func (b *ObjectBuilder) UnknownPassthrough() *ObjectBuilder {
	b.n.unknown = hgschema.UnknownPassthrough
	b.n.entries = nil
	return b
}

// Entries validates every undeclared key against n and keeps the parsed
// values in Values.Extra.
func (b *ObjectBuilder) Entries(n Node) *ObjectBuilder {
	b.n.unknown = hgschema.UnknownPassthrough
	b.n.entries = n
	return b
}

// Refine adds an object-level check executed after all fields validated.
func (b *ObjectBuilder) Refine(name string, fn func(context.Context, Values) error) *ObjectBuilder {
	if fn != nil {
		b.n.refines = append(b.n.refines, objRefine{name: name, fn: fn})
	}
	return b
}

// Bind converts the validated Values into the value returned by Parse.
// Without a binder Parse returns Values.Map().
func (b *ObjectBuilder) Bind(fn func(context.Context, Values) (any, error)) *ObjectBuilder {
	b.n.bind = fn
	return b
}

// Build checks the declaration and returns the node.
func (b *ObjectBuilder) Build() (*ObjectNode, error) {
	errs := append([]error(nil), b.errs...)
	for _, f := range b.n.fields {
		if f.required && f.hasDefault {
			errs = append(errs, fmt.Errorf("field %q: required fields cannot have a default", f.name))
		}
		if f.hasDefault && f.node != nil {
			if _, err := f.node.Parse(context.Background(), f.def); err != nil {
				errs = append(errs, fmt.Errorf("field %q: invalid default: %w", f.name, err))
			}
		}
	}
	if len(errs) > 0 {
		name := b.n.name
		if name == "" {
			name = "object"
		}
		return nil, fmt.Errorf("dsl: %s: %w", name, errors.Join(errs...))
	}
	return b.n, nil
}

// MustBuild is Build that panics on error.
func (b *ObjectBuilder) MustBuild() *ObjectNode {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}

// Required marks the field as required and returns the builder.
func (s *FieldStep) Required() *ObjectBuilder { s.f.required = true; return s.b }

// Optional marks the field as optional (default) and returns the builder.
func (s *FieldStep) Optional() *ObjectBuilder { s.f.required = false; return s.b }

// Default sets the value used when the field is absent or null. It is parsed
// through the field node and exported to JSON Schema.
func (s *FieldStep) Default(v any) *FieldStep {
	s.f.hasDefault = true
	s.f.def = v
	return s
}

// Description documents the field in the exported schema.
func (s *FieldStep) Description(d string) *FieldStep { s.f.description = d; return s }

// Examples lists sample values in the exported schema.
func (s *FieldStep) Examples(v ...any) *FieldStep { s.f.examples = v; return s }

func (s *FieldStep) Field(name string, n Node) *FieldStep { return s.b.Field(name, n) }
func (s *FieldStep) UnknownStrict() *ObjectBuilder        { return s.b.UnknownStrict() }
func (s *FieldStep) UnknownStrip() *ObjectBuilder         { return s.b.UnknownStrip() }
func (s *FieldStep) UnknownPassthrough() *ObjectBuilder   { return s.b.UnknownPassthrough() }
func (s *FieldStep) Entries(n Node) *ObjectBuilder        { return s.b.Entries(n) }
func (s *FieldStep) Refine(name string, fn func(context.Context, Values) error) *ObjectBuilder {
	return s.b.Refine(name, fn)
}
func (s *FieldStep) Bind(fn func(context.Context, Values) (any, error)) *ObjectBuilder {
	return s.b.Bind(fn)
}
func (s *FieldStep) Build() (*ObjectNode, error) { return s.b.Build() }
func (s *FieldStep) MustBuild() *ObjectNode      { return s.b.MustBuild() }

// Name returns the definition name ("" for inline objects).
func (o *ObjectNode) Name() string { return o.name }

// EntryNode returns the node applied to undeclared keys, if any.
func (o *ObjectNode) EntryNode() Node { return o.entries }

// FieldNames lists the declared fields in declaration order.
func (o *ObjectNode) FieldNames() []string {
	out := make([]string, len(o.fields))
	for i, f := range o.fields {
		out[i] = f.name
	}
	return out
}

func (o *ObjectNode) Expected() string {
	if o.name != "" {
		return o.name
	}
	return "object"
}

// Parse validates v and returns the bound value.
func (o *ObjectNode) Parse(ctx context.Context, v any) (any, error) {
	vals, err := o.ParseValues(ctx, v)
	if err != nil {
		return nil, err
	}
	if o.bind == nil {
		return vals.Map(), nil
	}
	out, err := o.bind(ctx, vals)
	if err != nil {
		return nil, hgschema.IssuesFromErr("/", err)
	}
	return out, nil
}

// ParseValues validates v and returns its fields and extra entries without
// binding them.
func (o *ObjectNode) ParseValues(ctx context.Context, v any) (Values, error) {
	src, ok := v.(map[string]any)
	if !ok {
		return Values{}, typeIssue(o.Expected(), v)
	}
	failFast := hgschema.IsFailFast(ctx)
	vals := Values{Fields: make(map[string]any, len(o.fields))}
	var iss hgschema.Issues
	for _, f := range o.fields {
		raw, present := src[f.name]
		if present && raw == nil && !f.required {
			present = false
		}
		if !present {
			switch {
			case f.required:
				it := hgschema.Root().Field(f.name).Issue(hgschema.CodeRequired)
				it.Expected = f.node.Expected()
				it.Hint = "required property missing"
				iss = hgschema.AppendIssues(iss, it)
			case f.hasDefault:
				// defaults were checked by Build
				if dv, err := f.node.Parse(ctx, f.def); err == nil {
					vals.Fields[f.name] = dv
				}
			}
			if failFast && len(iss) > 0 {
				return Values{}, iss
			}
			continue
		}
		pv, err := f.node.Parse(ctx, raw)
		if err != nil {
			iss = hgschema.AppendIssues(iss, at(f.name, err)...)
			if failFast {
				return Values{}, iss
			}
			continue
		}
		vals.Fields[f.name] = pv
	}
	for _, k := range sortedKeys(src) {
		if _, declared := o.byName[k]; declared {
			continue
		}
		switch {
		case o.entries != nil:
			pv, err := o.entries.Parse(ctx, src[k])
			if err != nil {
				iss = hgschema.AppendIssues(iss, at(k, err)...)
			} else {
				vals.Extra = append(vals.Extra, Entry{Key: k, Value: pv})
			}
		case o.unknown == hgschema.UnknownPassthrough:
			vals.Extra = append(vals.Extra, Entry{Key: k, Value: src[k]})
		case o.unknown == hgschema.UnknownStrip:
		default:
			it := hgschema.Root().Field(k).Issue(hgschema.CodeUnknownKey)
			it.Got = hgschema.Describe(src[k])
			it.Hint = "unknown field " + k
			iss = hgschema.AppendIssues(iss, it)
		}
		if failFast && len(iss) > 0 {
			return Values{}, iss
		}
	}
	if len(iss) > 0 {
		return Values{}, iss
	}
	for _, r := range o.refines {
		if err := r.fn(ctx, vals); err != nil {
			if ri, ok := hgschema.AsIssues(err); ok {
				iss = hgschema.AppendIssues(iss, ri...)
			} else {
				iss = hgschema.AppendIssues(iss, hgschema.Issue{
					Path:    "/",
					Code:    hgschema.CodeCustom,
					Message: i18n.T(hgschema.CodeCustom, nil),
					Hint:    r.name + ": " + err.Error(),
					Cause:   err,
				})
			}
			if failFast {
				break
			}
		}
	}
	if len(iss) > 0 {
		return Values{}, iss
	}
	return vals, nil
}

// JSONSchema emits a $ref for named objects and the inline schema otherwise.
func (o *ObjectNode) JSONSchema(defs *js.Definitions) (*js.Object, error) {
	if o.name == "" {
		return o.body(defs)
	}
	if defs.Has(o.name) {
		return js.Ref(o.name), nil
	}
	defs.Reserve(o.name)
	body, err := o.body(defs)
	if err != nil {
		return nil, err
	}
	defs.Set(o.name, body)
	return js.Ref(o.name), nil
}

func (o *ObjectNode) body(defs *js.Definitions) (*js.Object, error) {
	s := js.New()
	title := o.title
	if title == "" {
		title = o.name
	}
	if title != "" {
		s.Set("title", title)
	}
	if o.description != "" {
		s.Set("description", o.description)
	}
	s.Set("type", "object")
	props := js.New()
	var required []any
	for _, f := range o.fields {
		fs, err := f.node.JSONSchema(defs)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", o.Expected(), f.name, err)
		}
		props.Set(f.name, f.property(fs))
		if f.required {
			required = append(required, f.name)
		}
	}
	s.Set("properties", props)
	if len(required) > 0 {
		s.Set("required", required)
	}
	if o.unknown == hgschema.UnknownStrict {
		s.Set("additionalProperties", false)
	}
	return s, nil
}

// property decorates a field schema with its title and annotations. Bare
// references carry no generated title; annotated references are wrapped in
// allOf.
func (f *field) property(fs *js.Object) *js.Object {
	_, isRef := js.RefName(fs)
	p := js.New()
	if !isRef {
		p.Set("title", fieldTitle(f.name))
	}
	if f.description != "" {
		p.Set("description", f.description)
	}
	if f.hasDefault {
		p.Set("default", f.def)
	}
	if len(f.examples) > 0 {
		p.Set("examples", f.examples)
	}
	if isRef {
		if p.Len() == 0 {
			return fs
		}
		return p.Set("allOf", []any{fs})
	}
	for _, k := range fs.Keys() {
		v, _ := fs.Get(k)
		p.Set(k, v)
	}
	return p
}

// fieldTitle title-cases each run of letters: "tilesetUid" -> "Tilesetuid".
func fieldTitle(name string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range strings.ReplaceAll(name, "_", " ") {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
