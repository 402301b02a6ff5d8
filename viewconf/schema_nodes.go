package viewconf

import (
	"context"
	"sync"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/dsl"
	js "github.com/higlass/hgschema/jsonschema"
)

// onceNode builds a node graph on first use. Nodes are immutable afterwards
// and shared by concurrent parses.
func onceNode[N dsl.Node](build func() N) func() N { return sync.OnceValue(build) }

// convertNode maps the parsed value of the wrapped node.
type convertNode struct {
	dsl.Node
	fn func(any) any
}

func convert(n dsl.Node, fn func(any) any) dsl.Node { return convertNode{Node: n, fn: fn} }

func (c convertNode) Parse(ctx context.Context, v any) (any, error) {
	out, err := c.Node.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return c.fn(out), nil
}

// canonicalSchema adapts a node to hgschema.Schema[T] whose exported
// document goes through the canonical passes.
type canonicalSchema[T any] struct {
	hgschema.Schema[T]
}

func modelSchema[T any](n dsl.Node) hgschema.Schema[T] {
	return canonicalSchema[T]{Schema: dsl.Typed[T](n)}
}

func (s canonicalSchema[T]) JSONSchema() (*js.Object, error) {
	doc, err := s.Schema.JSONSchema()
	if err != nil {
		return nil, err
	}
	if err := Canonicalize(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
