package jsonschema

import "strings"

// Draft-07 document keys used across the package.
const (
	DraftURI       = "http://json-schema.org/draft-07/schema#"
	DefinitionsKey = "definitions"
	RefPrefix      = "#/" + DefinitionsKey + "/"
)

// Definitions collects named schemas while a type graph is walked. A name is
// reserved before its schema is built so recursive references terminate.
type Definitions struct {
	obj *Object
}

// NewDefinitions returns an empty registry.
func NewDefinitions() *Definitions { return &Definitions{obj: New()} }

// Has reports whether name is reserved or defined.
func (d *Definitions) Has(name string) bool { return d.obj.Has(name) }

// Reserve claims name, fixing its position in the output.
func (d *Definitions) Reserve(name string) {
	if !d.obj.Has(name) {
		d.obj.Set(name, nil)
	}
}

// Set stores the schema for name.
func (d *Definitions) Set(name string, s *Object) { d.obj.Set(name, s) }

// Get returns the schema for name.
func (d *Definitions) Get(name string) (*Object, bool) { return d.obj.Object(name) }

// Len returns the number of definitions.
func (d *Definitions) Len() int { return d.obj.Len() }

// Object returns the underlying ordered object.
func (d *Definitions) Object() *Object { return d.obj }

// Ref returns {"$ref": "#/definitions/<name>"}.
func Ref(name string) *Object { return New().Set("$ref", RefPrefix+name) }

// RefName returns the definition name s points at, if s is a bare reference.
func RefName(s *Object) (string, bool) {
	if s == nil || s.Len() != 1 {
		return "", false
	}
	v, _ := s.Get("$ref")
	ref, ok := v.(string)
	if !ok || !strings.HasPrefix(ref, RefPrefix) {
		return "", false
	}
	return strings.TrimPrefix(ref, RefPrefix), true
}

// References reports whether any "$ref" below v points at name.
func References(v any, name string) bool {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return false
		}
		if ref, ok := t.values["$ref"].(string); ok && ref == RefPrefix+name {
			return true
		}
		for _, k := range t.keys {
			if References(t.values[k], name) {
				return true
			}
		}
	case []any:
		for _, it := range t {
			if References(it, name) {
				return true
			}
		}
	}
	return false
}

// Document assembles a standalone schema from a root fragment and the
// definitions collected while building it. A bare reference root is replaced
// by its definition unless the definition refers to itself.
func Document(root *Object, defs *Definitions) *Object {
	if name, ok := RefName(root); ok {
		if def, ok := defs.Get(name); ok {
			rest := defs.obj.Clone()
			rest.Delete(name)
			if !References(def, name) && !References(rest, name) {
				out := def.Clone()
				if rest.Len() > 0 {
					out.Set(DefinitionsKey, rest)
				}
				return out
			}
		}
	}
	out := root.Clone()
	if defs.Len() > 0 {
		out.Set(DefinitionsKey, defs.obj.Clone())
	}
	return out
}
