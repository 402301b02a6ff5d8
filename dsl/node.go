package dsl

import (
	"context"
	"fmt"
	"sort"

	hgschema "github.com/higlass/hgschema"
	js "github.com/higlass/hgschema/jsonschema"
)

// Node is a declarative schema description over decoded documents.
type Node interface {
	// Parse validates v and returns its normalized value. Failures are
	// hgschema.Issues with paths relative to v.
	Parse(ctx context.Context, v any) (any, error)
	// JSONSchema emits the fragment describing the node, registering named
	// objects in defs.
	JSONSchema(defs *js.Definitions) (*js.Object, error)
	// Expected describes the accepted shape for issue reporting.
	Expected() string
}

// Document builds a standalone JSON Schema document for n.
func Document(n Node) (*js.Object, error) {
	defs := js.NewDefinitions()
	root, err := n.JSONSchema(defs)
	if err != nil {
		return nil, err
	}
	return js.Document(root, defs), nil
}

// typed adapts a Node to hgschema.Schema[T].
type typed[T any] struct{ node Node }

// Typed adapts n to hgschema.Schema[T]. The node must produce values of type T.
func Typed[T any](n Node) hgschema.Schema[T] { return typed[T]{node: n} }

func (s typed[T]) Parse(ctx context.Context, v any) (T, error) {
	var zero T
	out, err := s.node.Parse(ctx, v)
	if err != nil {
		return zero, err
	}
	tv, ok := out.(T)
	if !ok {
		return zero, hgschema.Issues{{
			Path:    "/",
			Code:    hgschema.CodeParseError,
			Message: fmt.Sprintf("schema produced %T, want %T", out, zero),
		}}
	}
	return tv, nil
}

func (s typed[T]) Validate(ctx context.Context, v any) error {
	_, err := s.node.Parse(ctx, v)
	return err
}

func (s typed[T]) JSONSchema() (*js.Object, error) { return Document(s.node) }

// Entry is an undeclared key of an object together with its value.
type Entry struct {
	Key   string
	Value any
}

// Values is the validated content of an object handed to a binder.
type Values struct {
	// Fields holds the declared fields that were present or defaulted.
	Fields map[string]any
	// Extra holds undeclared keys in sorted order. It is only filled for
	// objects with passthrough or entry policies.
	Extra []Entry
}

// Has reports whether the declared field name is set.
func (v Values) Has(name string) bool {
	_, ok := v.Fields[name]
	return ok
}

// Map flattens fields and extra entries into one map.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v.Fields)+len(v.Extra))
	for k, val := range v.Fields {
		out[k] = val
	}
	for _, e := range v.Extra {
		out[e.Key] = e.Value
	}
	return out
}

// Get returns the field name converted to T.
func Get[T any](v Values, name string) (T, bool) {
	raw, ok := v.Fields[name]
	if !ok {
		var zero T
		return zero, false
	}
	tv, ok := raw.(T)
	return tv, ok
}

// Ptr returns a pointer to the field name, or nil when it is unset.
func Ptr[T any](v Values, name string) *T {
	tv, ok := Get[T](v, name)
	if !ok {
		return nil
	}
	return &tv
}

// Slice converts a list field into []T, skipping elements of another type.
func Slice[T any](v Values, name string) []T {
	raw, ok := Get[[]any](v, name)
	if !ok {
		return nil
	}
	out := make([]T, 0, len(raw))
	for _, it := range raw {
		if tv, ok := it.(T); ok {
			out = append(out, tv)
		}
	}
	return out
}

// MapOf converts a map field into map[string]T, skipping values of another
// type.
func MapOf[T any](v Values, name string) map[string]T {
	raw, ok := Get[map[string]any](v, name)
	if !ok {
		return nil
	}
	out := make(map[string]T, len(raw))
	for k, it := range raw {
		if tv, ok := it.(T); ok {
			out[k] = tv
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func typeIssue(expected string, got any) hgschema.Issues {
	return hgschema.Issues{hgschema.NewIssue(hgschema.CodeInvalidType, expected, got)}
}

// at rebases err, which is expected to carry Issues, under the given key.
func at(key string, err error) hgschema.Issues {
	return hgschema.Rebase(hgschema.Root().Field(key).Pointer(), hgschema.IssuesFromErr("/", err))
}

func atIndex(i int, err error) hgschema.Issues {
	return hgschema.Rebase(hgschema.Root().Index(i).Pointer(), hgschema.IssuesFromErr("/", err))
}
