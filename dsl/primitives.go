package dsl

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	hgschema "github.com/higlass/hgschema"
	js "github.com/higlass/hgschema/jsonschema"
)

// String accepts JSON strings.
func String() Node { return stringNode{} }

type stringNode struct{}

func (stringNode) Parse(_ context.Context, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, typeIssue("string", v)
	}
	return s, nil
}

func (stringNode) JSONSchema(*js.Definitions) (*js.Object, error) {
	return js.New().Set("type", "string"), nil
}

func (stringNode) Expected() string { return "string" }

// Bool accepts JSON booleans.
func Bool() Node { return boolNode{} }

type boolNode struct{}

func (boolNode) Parse(_ context.Context, v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, typeIssue("boolean", v)
	}
	return b, nil
}

func (boolNode) JSONSchema(*js.Definitions) (*js.Object, error) {
	return js.New().Set("type", "boolean"), nil
}

func (boolNode) Expected() string { return "boolean" }

// Number accepts any JSON number and normalizes it to float64.
func Number() Node { return numberNode{} }

type numberNode struct{}

func (numberNode) Parse(_ context.Context, v any) (any, error) {
	f, ok := toFloat(v)
	if !ok {
		return nil, typeIssue("number", v)
	}
	return f, nil
}

func (numberNode) JSONSchema(*js.Definitions) (*js.Object, error) {
	return js.New().Set("type", "number"), nil
}

func (numberNode) Expected() string { return "number" }

// Integer accepts integral JSON numbers and normalizes them to int. Numbers
// such as 12.0 are accepted.
func Integer() Node { return integerNode{} }

type integerNode struct{}

func (integerNode) Parse(_ context.Context, v any) (any, error) {
	if n, ok := v.(interface{ Int64() (int64, error) }); ok {
		i, err := n.Int64()
		if err == nil {
			return int(i), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return nil, typeIssue("integer", v)
		}
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, typeIssue("integer", v)
	}
	return int(f), nil
}

func (integerNode) JSONSchema(*js.Definitions) (*js.Object, error) {
	return js.New().Set("type", "integer"), nil
}

func (integerNode) Expected() string { return "integer" }

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case interface{ Float64() (float64, error) }:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Any accepts every value unchanged.
func Any() Node { return anyNode{} }

type anyNode struct{}

func (anyNode) Parse(_ context.Context, v any) (any, error) { return v, nil }

func (anyNode) JSONSchema(*js.Definitions) (*js.Object, error) { return js.New(), nil }

func (anyNode) Expected() string { return "any value" }

// Null accepts only JSON null.
func Null() Node { return nullNode{} }

type nullNode struct{}

func (nullNode) Parse(_ context.Context, v any) (any, error) {
	if v != nil {
		return nil, typeIssue("null", v)
	}
	return nil, nil
}

func (nullNode) JSONSchema(*js.Definitions) (*js.Object, error) {
	return js.New().Set("type", "null"), nil
}

func (nullNode) Expected() string { return "null" }

// Literal accepts one of the given strings.
func Literal(values ...string) Node {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return literalNode{values: values, set: set}
}

type literalNode struct {
	values []string
	set    map[string]struct{}
}

func (l literalNode) Parse(_ context.Context, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, typeIssue(l.Expected(), v)
	}
	if _, ok := l.set[s]; !ok {
		code := hgschema.CodeInvalidEnum
		if len(l.values) == 1 {
			code = hgschema.CodeInvalidConst
		}
		it := hgschema.NewIssue(code, l.Expected(), v)
		it.Got = strconv.Quote(s)
		return nil, hgschema.Issues{it}
	}
	return s, nil
}

func (l literalNode) JSONSchema(*js.Definitions) (*js.Object, error) {
	enum := make([]any, len(l.values))
	for i, v := range l.values {
		enum[i] = v
	}
	return js.New().Set("enum", enum).Set("type", "string"), nil
}

func (l literalNode) Expected() string {
	switch {
	case len(l.values) == 1:
		return strconv.Quote(l.values[0])
	case len(l.values) > 4:
		return fmt.Sprintf("one of %d known values", len(l.values))
	default:
		quoted := make([]string, len(l.values))
		for i, v := range l.values {
			quoted[i] = strconv.Quote(v)
		}
		return "one of " + strings.Join(quoted, ", ")
	}
}
