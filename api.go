package hgschema

import (
	"context"

	js "github.com/higlass/hgschema/jsonschema"
)

// Schema surfaces construction, validation, and JSON Schema projection for a
// typed value.
type Schema[T any] interface {
	// Parse validates a decoded document (maps, slices, strings, numbers,
	// booleans, nil) and builds T. It returns Issues when validation fails.
	Parse(ctx context.Context, v any) (T, error)

	// Validate checks v without building T.
	Validate(ctx context.Context, v any) error

	// JSONSchema projects the schema into a standalone JSON Schema document.
	JSONSchema() (*js.Object, error)
}

// SafeParse parses v into T, returning (zero, false) on validation error.
func SafeParse[T any](ctx context.Context, s Schema[T], v any) (T, bool) {
	val, err := s.Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, false
	}
	return val, true
}

// Is returns true if v conforms to the schema s.
func Is[T any](ctx context.Context, s Schema[T], v any) bool {
	return s.Validate(ctx, v) == nil
}

// ParseBytes decodes data per opt and parses it with s.
func ParseBytes[T any](ctx context.Context, s Schema[T], data []byte, opts ...ParseOpt) (T, error) {
	var zero T
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	v, err := Decode(data, opt)
	if err != nil {
		return zero, err
	}
	return s.Parse(ctx, v)
}

// Revalidate serializes a programmatically built value and parses it back
// through s, so every field is checked against its declared shape.
func Revalidate[T any](ctx context.Context, s Schema[T], v any) error {
	b, err := Marshal(v)
	if err != nil {
		return IssuesFromErr("/", err)
	}
	doc, err := Decode(b, ParseOpt{})
	if err != nil {
		return err
	}
	return s.Validate(ctx, doc)
}

// ---- Parse-time context options ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that marks fail-fast parsing behavior.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
