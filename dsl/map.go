package dsl

import (
	"context"

	hgschema "github.com/higlass/hgschema"
	js "github.com/higlass/hgschema/jsonschema"
)

// Map returns a node for objects with arbitrary keys whose values all match
// value.
func Map(value Node) Node { return mapNode{value: value} }

type mapNode struct{ value Node }

func (m mapNode) Parse(ctx context.Context, v any) (any, error) {
	src, ok := v.(map[string]any)
	if !ok {
		return nil, typeIssue("object", v)
	}
	var iss hgschema.Issues
	out := make(map[string]any, len(src))
	for _, k := range sortedKeys(src) {
		pv, err := m.value.Parse(ctx, src[k])
		if err != nil {
			iss = hgschema.AppendIssues(iss, at(k, err)...)
			if hgschema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[k] = pv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (m mapNode) JSONSchema(defs *js.Definitions) (*js.Object, error) {
	vs, err := m.value.JSONSchema(defs)
	if err != nil {
		return nil, err
	}
	return js.New().Set("type", "object").Set("additionalProperties", vs), nil
}

func (m mapNode) Expected() string { return "object of " + m.value.Expected() }

// MapAny returns a node for open objects whose values are not validated.
func MapAny() Node { return mapAnyNode{} }

type mapAnyNode struct{}

func (mapAnyNode) Parse(_ context.Context, v any) (any, error) {
	src, ok := v.(map[string]any)
	if !ok {
		return nil, typeIssue("object", v)
	}
	return src, nil
}

func (mapAnyNode) JSONSchema(*js.Definitions) (*js.Object, error) {
	return js.New().Set("type", "object"), nil
}

func (mapAnyNode) Expected() string { return "object" }
