package jsonschema

import (
	"errors"
	"fmt"
)

// ErrNotEnum is returned by SimplifyEnum for fragments that are neither an
// enum nor a union of enums.
var ErrNotEnum = errors.New("jsonschema: fragment is not an enum or a union of enums")

// ExcludePropertyTitles removes the generated "title" of every property of s.
func ExcludePropertyTitles(s *Object) {
	props, ok := s.Object("properties")
	if !ok {
		return
	}
	for _, k := range props.keys {
		if p, ok := props.Object(k); ok {
			p.Delete("title")
		}
	}
}

// StripTitles removes property titles from the root and from every
// definition, and the titles of the definitions themselves. The root title
// is kept.
func StripTitles(root *Object) {
	ExcludePropertyTitles(root)
	defs, ok := root.Object(DefinitionsKey)
	if !ok {
		return
	}
	for _, name := range defs.keys {
		d, ok := defs.Object(name)
		if !ok {
			continue
		}
		ExcludePropertyTitles(d)
		d.Delete("title")
	}
}

// Simplify lifts the sole definition of a document to the root when the root
// is only a reference to it.
func Simplify(root *Object) *Object {
	if !root.Has("$ref") {
		return root
	}
	defs, ok := root.Object(DefinitionsKey)
	if !ok || defs.Len() != 1 {
		return root
	}
	only, ok := defs.Object(defs.keys[0])
	if !ok {
		return root
	}
	return only
}

// Isolate returns the schema of a single type with its generated titles
// removed, suitable for inlining into another schema.
func Isolate(root *Object) *Object {
	s := Simplify(root).Clone()
	ExcludePropertyTitles(s)
	s.Delete("title")
	return s
}

// IsEnum reports whether s is an enum or a union of enums.
func IsEnum(s *Object) bool {
	if s.Has("enum") {
		return true
	}
	for _, key := range []string{"anyOf", "allOf"} {
		v, ok := s.Get(key)
		if !ok {
			continue
		}
		branches, _ := v.([]any)
		if len(branches) == 0 {
			return false
		}
		for _, b := range branches {
			bo, ok := b.(*Object)
			if !ok || !bo.Has("enum") {
				return false
			}
		}
		return true
	}
	return false
}

// SimplifyEnum reduces a union of enums into a single enum, and a single
// value enum into a const.
func SimplifyEnum(s *Object) (*Object, error) {
	for _, key := range []string{"anyOf", "allOf"} {
		v, ok := s.Get(key)
		if !ok {
			continue
		}
		branches, _ := v.([]any)
		var enum []any
		for i, b := range branches {
			bo, ok := b.(*Object)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] is not an object", ErrNotEnum, key, i)
			}
			vals, ok := enumValues(bo)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] has no enum", ErrNotEnum, key, i)
			}
			enum = append(enum, vals...)
		}
		if key == "anyOf" {
			return New().Set("enum", enum), nil
		}
		return collapse(enum), nil
	}
	enum, ok := enumValues(s)
	if !ok {
		return nil, ErrNotEnum
	}
	return collapse(enum), nil
}

func collapse(enum []any) *Object {
	if len(enum) == 1 {
		return New().Set("const", enum[0])
	}
	return New().Set("enum", enum)
}

func enumValues(s *Object) ([]any, bool) {
	v, ok := s.Get("enum")
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case []any:
		return append([]any(nil), t...), true
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	default:
		return nil, false
	}
}

// CollapseEnumProperty applies SimplifyEnum to the named property of s.
// Properties that are not enums are left untouched.
func CollapseEnumProperty(s *Object, prop string) error {
	props, ok := s.Object("properties")
	if !ok {
		return nil
	}
	p, ok := props.Object(prop)
	if !ok || !IsEnum(p) {
		return nil
	}
	simplified, err := SimplifyEnum(p)
	if err != nil {
		return err
	}
	props.Set(prop, simplified)
	return nil
}

// SetAdditionalProperties replaces the additionalProperties clause of s.
func SetAdditionalProperties(s *Object, entry *Object) {
	s.Set("additionalProperties", entry)
}

// SetMinItems sets minItems on the named property of s.
func SetMinItems(s *Object, prop string, n int) error {
	props, ok := s.Object("properties")
	if !ok {
		return fmt.Errorf("jsonschema: no properties to patch %q", prop)
	}
	p, ok := props.Object(prop)
	if !ok {
		return fmt.Errorf("jsonschema: property %q not found", prop)
	}
	p.Set("minItems", n)
	return nil
}

// WithMetadata returns a copy of root whose first keys are "$schema" and
// "$id", followed by the root keys in their original order.
func WithMetadata(root *Object, schemaURI, id string) *Object {
	out := New().Set("$schema", schemaURI).Set("$id", id)
	for _, k := range root.keys {
		if k == "$schema" || k == "$id" {
			continue
		}
		out.Set(k, root.values[k])
	}
	return out
}
