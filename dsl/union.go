package dsl

import (
	"context"
	"strings"
	"sync"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/i18n"
	js "github.com/higlass/hgschema/jsonschema"
)

// UnionNode tries its variants in declaration order and keeps the first one
// that parses. A value matching none of them fails with CodeNoMatch.
type UnionNode struct {
	variants []Node
}

// Union returns an ordered first-match union.
func Union(variants ...Node) *UnionNode { return &UnionNode{variants: variants} }

// Variants returns the variants in resolution order.
func (u *UnionNode) Variants() []Node { return append([]Node(nil), u.variants...) }

// Resolve returns the index of the first matching variant and its value.
func (u *UnionNode) Resolve(ctx context.Context, v any) (int, any, error) {
	// Variants are attempted independently; a failed attempt must not stop the
	// next one, so fail-fast only applies inside the attempt.
	var tried []string
	var last hgschema.Issues
	for i, n := range u.variants {
		out, err := n.Parse(ctx, v)
		if err == nil {
			return i, out, nil
		}
		tried = append(tried, n.Expected())
		last = hgschema.IssuesFromErr("/", err)
	}
	it := hgschema.Issue{
		Path:     "/",
		Code:     hgschema.CodeNoMatch,
		Message:  i18n.T(hgschema.CodeNoMatch, nil),
		Expected: strings.Join(tried, " | "),
		Got:      hgschema.Describe(v),
		Params:   map[string]any{"variants": len(u.variants)},
	}
	if len(last) > 0 {
		it.Hint = "last variant: " + last[0].String()
		it.Cause = last
	}
	return -1, nil, hgschema.Issues{it}
}

func (u *UnionNode) Parse(ctx context.Context, v any) (any, error) {
	_, out, err := u.Resolve(ctx, v)
	return out, err
}

func (u *UnionNode) JSONSchema(defs *js.Definitions) (*js.Object, error) {
	branches := make([]any, len(u.variants))
	for i, n := range u.variants {
		s, err := n.JSONSchema(defs)
		if err != nil {
			return nil, err
		}
		branches[i] = s
	}
	return js.New().Set("anyOf", branches), nil
}

func (u *UnionNode) Expected() string {
	parts := make([]string, len(u.variants))
	for i, n := range u.variants {
		parts[i] = n.Expected()
	}
	return strings.Join(parts, " | ")
}

// Nullable accepts null in addition to what n accepts. The exported schema is
// the schema of n.
func Nullable(n Node) Node { return nullableNode{inner: n} }

type nullableNode struct{ inner Node }

func (n nullableNode) Parse(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return n.inner.Parse(ctx, v)
}

func (n nullableNode) JSONSchema(defs *js.Definitions) (*js.Object, error) {
	return n.inner.JSONSchema(defs)
}

func (n nullableNode) Expected() string { return n.inner.Expected() + " or null" }

// Lazy defers building a node until first use, which allows recursive
// definitions.
func Lazy(build func() Node) Node { return &lazyNode{build: build} }

type lazyNode struct {
	once  sync.Once
	build func() Node
	node  Node
}

func (l *lazyNode) get() Node {
	l.once.Do(func() { l.node = l.build() })
	return l.node
}

func (l *lazyNode) Parse(ctx context.Context, v any) (any, error) { return l.get().Parse(ctx, v) }

func (l *lazyNode) JSONSchema(defs *js.Definitions) (*js.Object, error) {
	return l.get().JSONSchema(defs)
}

func (l *lazyNode) Expected() string { return l.get().Expected() }
