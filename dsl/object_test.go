package dsl_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	hgschema "github.com/higlass/hgschema"
	d "github.com/higlass/hgschema/dsl"
)

func TestObject_RequiredDefaultsAndStrict(t *testing.T) {
	ctx := context.Background()
	n := d.Object("Layout").
		Field("x", d.Integer()).Default(0).
		Field("w", d.Integer()).Default(12).
		Field("name", d.String()).Required().
		MustBuild()

	got, err := n.Parse(ctx, map[string]any{"name": "a", "x": nil})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]any{"name": "a", "x": 0, "w": 12}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	_, err = n.Parse(ctx, map[string]any{"zzz": 1, "aaa": true})
	iss, _ := hgschema.AsIssues(err)
	if len(iss) != 3 {
		t.Fatalf("expected 3 issues, got %v", iss)
	}
	if iss[0].Code != hgschema.CodeRequired || iss[0].Path != "/name" {
		t.Fatalf("unexpected first issue %v", iss[0])
	}
	if iss[1].Path != "/aaa" || iss[2].Path != "/zzz" || iss[1].Code != hgschema.CodeUnknownKey {
		t.Fatalf("unknown keys should be reported in sorted order: %v", iss)
	}
	if !errors.Is(err, hgschema.ErrValidation) {
		t.Fatalf("issues should match ErrValidation")
	}
}

func TestObject_UnknownPolicies(t *testing.T) {
	ctx := context.Background()
	in := map[string]any{"a": "x", "extra": 1}

	strip := d.Object("").Field("a", d.String()).UnknownStrip().MustBuild()
	got, err := strip.Parse(ctx, in)
	if err != nil || !reflect.DeepEqual(got, map[string]any{"a": "x"}) {
		t.Fatalf("strip: %v %v", got, err)
	}

	pass := d.Object("").Field("a", d.String()).UnknownPassthrough().MustBuild()
	vals, err := pass.ParseValues(ctx, in)
	if err != nil {
		t.Fatalf("passthrough: %v", err)
	}
	if len(vals.Extra) != 1 || vals.Extra[0].Key != "extra" || vals.Extra[0].Value != 1 {
		t.Fatalf("unexpected extra %v", vals.Extra)
	}
}

func TestObject_Entries(t *testing.T) {
	ctx := context.Background()
	n := d.Object("Lock").
		Field("uid", d.String()).
		Entries(d.Tuple(d.Number(), d.Number(), d.Number())).
		MustBuild()

	vals, err := n.ParseValues(ctx, map[string]any{"uid": "a", "v2": []any{4, 5, 6}, "v1": []any{1, 2, 3}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid, _ := d.Get[string](vals, "uid"); uid != "a" {
		t.Fatalf("uid not bound as field: %v", vals.Fields)
	}
	if len(vals.Extra) != 2 || vals.Extra[0].Key != "v1" || vals.Extra[1].Key != "v2" {
		t.Fatalf("unexpected entries %v", vals.Extra)
	}

	_, err = n.Parse(ctx, map[string]any{"uid": "a", "v1": []any{1, 2}})
	iss, _ := hgschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/v1" || iss[0].Code != hgschema.CodeTooShort {
		t.Fatalf("expected too_short at /v1, got %v", iss)
	}
}

func TestObject_RefineAndBind(t *testing.T) {
	type pair struct{ A, B int }
	n := d.Object("Pair").
		Field("a", d.Integer()).Required().
		Field("b", d.Integer()).Required().
		Refine("ordered", func(_ context.Context, v d.Values) error {
			a, _ := d.Get[int](v, "a")
			b, _ := d.Get[int](v, "b")
			if a > b {
				return errors.New("a must not exceed b")
			}
			return nil
		}).
		Bind(func(_ context.Context, v d.Values) (any, error) {
			a, _ := d.Get[int](v, "a")
			b, _ := d.Get[int](v, "b")
			return pair{a, b}, nil
		}).
		MustBuild()

	s := d.Typed[pair](n)
	p, err := s.Parse(context.Background(), map[string]any{"a": 1, "b": 2})
	if err != nil || p != (pair{1, 2}) {
		t.Fatalf("got %v %v", p, err)
	}
	_, err = s.Parse(context.Background(), map[string]any{"a": 3, "b": 2})
	iss, _ := hgschema.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != hgschema.CodeCustom {
		t.Fatalf("expected custom issue, got %v", err)
	}
}

func TestObject_BuildErrors(t *testing.T) {
	_, err := d.Object("X").Field("a", d.String()).Field("a", d.String()).Build()
	if err == nil {
		t.Fatalf("expected duplicate field error")
	}
	_, err = d.Object("X").Field("n", d.Integer()).Default("nope").Build()
	if err == nil {
		t.Fatalf("expected invalid default error")
	}
}
