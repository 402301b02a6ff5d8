package dsl_test

import (
	"context"
	"testing"

	hgschema "github.com/higlass/hgschema"
	d "github.com/higlass/hgschema/dsl"
)

func TestUnion_FirstMatchWins(t *testing.T) {
	ctx := context.Background()
	narrow := d.Object("Narrow").Field("type", d.Literal("a")).Required().UnknownStrip().MustBuild()
	wide := d.Object("Wide").Field("type", d.String()).Required().UnknownPassthrough().MustBuild()
	u := d.Union(narrow, wide)

	idx, _, err := u.Resolve(ctx, map[string]any{"type": "a", "x": 1})
	if err != nil || idx != 0 {
		t.Fatalf("expected first variant, got %d %v", idx, err)
	}
	idx, _, err = u.Resolve(ctx, map[string]any{"type": "b"})
	if err != nil || idx != 1 {
		t.Fatalf("expected fallback variant, got %d %v", idx, err)
	}
	_, _, err = u.Resolve(ctx, map[string]any{"kind": "b"})
	iss, ok := hgschema.AsIssues(err)
	if !ok || iss[0].Code != hgschema.CodeNoMatch || iss[0].Expected != "Narrow | Wide" {
		t.Fatalf("expected no_match, got %v", err)
	}
}

func TestLazy_Recursive(t *testing.T) {
	var tree d.Node
	tree = d.Object("Tree").
		Field("children", d.Array(d.Lazy(func() d.Node { return tree }))).
		MustBuild()
	in := map[string]any{"children": []any{map[string]any{"children": []any{}}}}
	if _, err := tree.Parse(context.Background(), in); err != nil {
		t.Fatalf("parse: %v", err)
	}
	bad := map[string]any{"children": []any{map[string]any{"children": []any{1}}}}
	_, err := tree.Parse(context.Background(), bad)
	iss, _ := hgschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/children/0/children/0" {
		t.Fatalf("unexpected issues %v", iss)
	}
}
