package hgschema_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	hgschema "github.com/higlass/hgschema"
)

func TestIssues_ErrorsIsAndAs(t *testing.T) {
	var err error = hgschema.Issues{hgschema.NewIssue(hgschema.CodeInvalidType, "string", 1.5)}
	wrapped := fmt.Errorf("loading: %w", err)
	if !errors.Is(wrapped, hgschema.ErrValidation) {
		t.Fatalf("expected errors.Is to match ErrValidation")
	}
	iss, ok := hgschema.AsIssues(wrapped)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected AsIssues to extract issues, got %v", wrapped)
	}
	if iss[0].Expected != "string" || iss[0].Got != "number" || iss[0].Path != "/" {
		t.Fatalf("unexpected issue %+v", iss[0])
	}
	if _, ok := hgschema.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors are not issues")
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	var iss hgschema.Issues
	for i := 0; i < 5; i++ {
		iss = hgschema.AppendIssues(iss, hgschema.Root().Index(i).Issue(hgschema.CodeRequired))
	}
	msg := iss.Error()
	if !strings.HasPrefix(msg, "required at /0; required at /1; required at /2") {
		t.Fatalf("unexpected summary %q", msg)
	}
	if !strings.HasSuffix(msg, "(total 5)") {
		t.Fatalf("summary should carry the total: %q", msg)
	}
}

func TestIssue_String(t *testing.T) {
	it := hgschema.NewIssue(hgschema.CodeTooShort, "array of length 3", []any{1.0})
	it.Path = "/view1"
	if got, want := it.String(), "too_short at /view1 (expected array of length 3, got array)"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRebase(t *testing.T) {
	iss := hgschema.Issues{{Path: "/"}, {Path: "/a"}, {Path: "b"}}
	got := hgschema.Rebase("/views/0", iss)
	var paths []string
	for _, it := range got {
		paths = append(paths, it.Path)
	}
	want := []string{"/views/0", "/views/0/a", "/views/0/b"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("got %v want %v", paths, want)
	}
	if iss[1].Path != "/a" {
		t.Fatalf("Rebase must not modify its input")
	}
}

func TestIssue_Segments(t *testing.T) {
	p := hgschema.Root().Field("locksDict").Field("a/b").Field("c~d").Index(2)
	it := p.Issue(hgschema.CodeCustom)
	if it.Path != "/locksDict/a~1b/c~0d/2" {
		t.Fatalf("pointer: %s", it.Path)
	}
	want := []string{"locksDict", "a/b", "c~d", "2"}
	if !reflect.DeepEqual(it.Segments(), want) {
		t.Fatalf("segments: %v", it.Segments())
	}
	if hgschema.Root().Issue(hgschema.CodeCustom).Segments() != nil {
		t.Fatalf("root has no segments")
	}
}

func TestAt(t *testing.T) {
	if got := hgschema.At("/views/0/").Field("layout").Pointer(); got != "/views/0/layout" {
		t.Fatalf("got %s", got)
	}
	if got := hgschema.At("").Pointer(); got != "/" {
		t.Fatalf("got %s", got)
	}
	escaped := "/views/0/tracks/gallery~1x/options/a~0b"
	if got := hgschema.At(escaped).Pointer(); got != escaped {
		t.Fatalf("escaped segments must survive a round trip, got %s", got)
	}
	root := hgschema.At("/views")
	a, b := root.Index(0), root.Index(1)
	if a.Pointer() != "/views/0" || b.Pointer() != "/views/1" {
		t.Fatalf("sibling paths share state: %s %s", a.Pointer(), b.Pointer())
	}
	if got := hgschema.Root().Field("uid/with~chars").Pointer(); got != "/uid~1with~0chars" {
		t.Fatalf("got %s", got)
	}
}

func TestIssuesFromErr(t *testing.T) {
	if hgschema.IssuesFromErr("/", nil) != nil {
		t.Fatalf("nil error gives nil issues")
	}
	cause := errors.New("boom")
	iss := hgschema.IssuesFromErr("/x", cause)
	if len(iss) != 1 || iss[0].Code != hgschema.CodeParseError || !errors.Is(iss[0].Cause, cause) {
		t.Fatalf("unexpected %v", iss)
	}
}

func TestDescribe(t *testing.T) {
	cases := map[string]any{
		"null":    nil,
		"string":  "s",
		"boolean": true,
		"object":  map[string]any{},
		"array":   []any{},
		"number":  3,
	}
	for want, v := range cases {
		if got := hgschema.Describe(v); got != want {
			t.Fatalf("Describe(%v) = %s want %s", v, got, want)
		}
	}
}
