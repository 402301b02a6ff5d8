package dsl

import (
	"context"
	"fmt"

	hgschema "github.com/higlass/hgschema"
	js "github.com/higlass/hgschema/jsonschema"
)

// ArrayNode validates lists whose elements share one node.
type ArrayNode struct {
	elem   Node
	minLen int
	maxLen int
}

// Array returns an array node with the given element node.
func Array(elem Node) *ArrayNode { return &ArrayNode{elem: elem, minLen: -1, maxLen: -1} }

// Min sets the minimum length.
func (a *ArrayNode) Min(n int) *ArrayNode { a.minLen = n; return a }

// Max sets the maximum length.
func (a *ArrayNode) Max(n int) *ArrayNode { a.maxLen = n; return a }

// Elem returns the element node.
func (a *ArrayNode) Elem() Node { return a.elem }

func (a *ArrayNode) Parse(ctx context.Context, v any) (any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, typeIssue(a.Expected(), v)
	}
	var iss hgschema.Issues
	if a.minLen >= 0 && len(arr) < a.minLen {
		it := hgschema.NewIssue(hgschema.CodeTooShort, a.Expected(), v)
		it.Params = map[string]any{"min": a.minLen, "got": len(arr)}
		iss = hgschema.AppendIssues(iss, it)
	}
	if a.maxLen >= 0 && len(arr) > a.maxLen {
		it := hgschema.NewIssue(hgschema.CodeTooLong, a.Expected(), v)
		it.Params = map[string]any{"max": a.maxLen, "got": len(arr)}
		iss = hgschema.AppendIssues(iss, it)
	}
	if len(iss) > 0 && hgschema.IsFailFast(ctx) {
		return nil, iss
	}
	out := make([]any, len(arr))
	for i, it := range arr {
		pv, err := a.elem.Parse(ctx, it)
		if err != nil {
			iss = hgschema.AppendIssues(iss, atIndex(i, err)...)
			if hgschema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[i] = pv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (a *ArrayNode) JSONSchema(defs *js.Definitions) (*js.Object, error) {
	items, err := a.elem.JSONSchema(defs)
	if err != nil {
		return nil, err
	}
	s := js.New().Set("type", "array")
	if a.minLen >= 0 {
		s.Set("minItems", a.minLen)
	}
	if a.maxLen >= 0 {
		s.Set("maxItems", a.maxLen)
	}
	s.Set("items", items)
	return s, nil
}

func (a *ArrayNode) Expected() string { return "array of " + a.elem.Expected() }

// Tuple returns a node for fixed-length lists with one node per position.
func Tuple(elems ...Node) Node { return tupleNode{elems: elems} }

type tupleNode struct{ elems []Node }

func (t tupleNode) Parse(ctx context.Context, v any) (any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, typeIssue(t.Expected(), v)
	}
	if n := len(t.elems); len(arr) != n {
		code := hgschema.CodeTooShort
		if len(arr) > n {
			code = hgschema.CodeTooLong
		}
		it := hgschema.NewIssue(code, t.Expected(), v)
		it.Params = map[string]any{"len": n, "got": len(arr)}
		return nil, hgschema.Issues{it}
	}
	var iss hgschema.Issues
	out := make([]any, len(arr))
	for i, el := range t.elems {
		pv, err := el.Parse(ctx, arr[i])
		if err != nil {
			iss = hgschema.AppendIssues(iss, atIndex(i, err)...)
			if hgschema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[i] = pv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (t tupleNode) JSONSchema(defs *js.Definitions) (*js.Object, error) {
	items := make([]any, len(t.elems))
	for i, el := range t.elems {
		s, err := el.JSONSchema(defs)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return js.New().
		Set("type", "array").
		Set("minItems", len(t.elems)).
		Set("maxItems", len(t.elems)).
		Set("items", items), nil
}

func (t tupleNode) Expected() string { return fmt.Sprintf("array of length %d", len(t.elems)) }
