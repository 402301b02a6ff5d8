package viewconf

import (
	"context"

	gojson "github.com/goccy/go-json"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/dsl"
)

// Domain is a numeric coordinate range (min, max). The order of the bounds
// is not checked.
type Domain [2]float64

// Min returns the lower bound.
func (d Domain) Min() float64 { return d[0] }

// Max returns the upper bound.
func (d Domain) Max() float64 { return d[1] }

// StringOrList holds a value that is either a single string or a list of
// strings, remembering which form was used.
type StringOrList struct {
	One  string
	Many []string
	List bool
}

// Strings returns the value as a list.
func (s StringOrList) Strings() []string {
	if s.List {
		return s.Many
	}
	return []string{s.One}
}

func (s StringOrList) MarshalJSON() ([]byte, error) {
	if s.List {
		if s.Many == nil {
			return []byte("[]"), nil
		}
		return gojson.Marshal(s.Many)
	}
	return gojson.Marshal(s.One)
}

// OverlayOptions styles an overlay.
type OverlayOptions struct {
	Extent         [][]int       `json:"extent,omitempty"`
	MinWidth       *float64      `json:"minWidth,omitempty"`
	Fill           *string       `json:"fill,omitempty"`
	FillOpacity    *float64      `json:"fillOpacity,omitempty"`
	Stroke         *string       `json:"stroke,omitempty"`
	StrokeOpacity  *float64      `json:"strokeOpacity,omitempty"`
	StrokeWidth    *float64      `json:"strokeWidth,omitempty"`
	StrokePos      *StringOrList `json:"strokePos,omitempty"`
	Outline        *string       `json:"outline,omitempty"`
	OutlineOpacity *float64      `json:"outlineOpacity,omitempty"`
	OutlineWidth   *float64      `json:"outlineWidth,omitempty"`
	OutlinePos     *StringOrList `json:"outlinePos,omitempty"`
}

// Overlay is an annotation region drawn across views.
type Overlay struct {
	Type          *string         `json:"type,omitempty"`
	UID           *string         `json:"uid,omitempty"`
	ChromInfoPath *string         `json:"chromInfoPath,omitempty"`
	Includes      []string        `json:"includes,omitempty"`
	Options       *OverlayOptions `json:"options,omitempty"`
}

func domainNode() dsl.Node {
	return dsl.Tuple(dsl.Number(), dsl.Number())
}

func toDomain(v any) *Domain {
	raw, ok := v.([]any)
	if !ok || len(raw) != 2 {
		return nil
	}
	lo, _ := raw[0].(float64)
	hi, _ := raw[1].(float64)
	return &Domain{lo, hi}
}

func bindDomain(v dsl.Values, name string) *Domain { return toDomain(v.Fields[name]) }

func stringOrListNode() dsl.Node {
	return dsl.Union(dsl.String(), dsl.Array(dsl.String()))
}

func bindStringOrList(v dsl.Values, name string) *StringOrList {
	raw, ok := v.Fields[name]
	if !ok {
		return nil
	}
	switch t := raw.(type) {
	case string:
		return &StringOrList{One: t}
	case []any:
		out := &StringOrList{List: true, Many: make([]string, 0, len(t))}
		for _, it := range t {
			s, _ := it.(string)
			out.Many = append(out.Many, s)
		}
		return out
	}
	return nil
}

// Optional collections bind empty values as nil: serialization omits them,
// so an empty list or map and an absent one are the same value.

func bindStrings(v dsl.Values, name string) []string {
	if out := dsl.Slice[string](v, name); len(out) > 0 {
		return out
	}
	return nil
}

func bindList(v dsl.Values, name string) []any {
	if out, _ := dsl.Get[[]any](v, name); len(out) > 0 {
		return out
	}
	return nil
}

func bindMap(v dsl.Values, name string) map[string]any {
	if out, _ := dsl.Get[map[string]any](v, name); len(out) > 0 {
		return out
	}
	return nil
}

var overlayOptionsNode = onceNode(func() dsl.Node {
	return dsl.Object("OverlayOptions").
		Field("extent", dsl.Array(dsl.Array(dsl.Integer()))).
		Field("minWidth", dsl.Number()).
		Field("fill", dsl.String()).
		Field("fillOpacity", dsl.Number()).
		Field("stroke", dsl.String()).
		Field("strokeOpacity", dsl.Number()).
		Field("strokeWidth", dsl.Number()).
		Field("strokePos", stringOrListNode()).
		Field("outline", dsl.String()).
		Field("outlineOpacity", dsl.Number()).
		Field("outlineWidth", dsl.Number()).
		Field("outlinePos", stringOrListNode()).
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			o := &OverlayOptions{
				MinWidth:       dsl.Ptr[float64](v, "minWidth"),
				Fill:           dsl.Ptr[string](v, "fill"),
				FillOpacity:    dsl.Ptr[float64](v, "fillOpacity"),
				Stroke:         dsl.Ptr[string](v, "stroke"),
				StrokeOpacity:  dsl.Ptr[float64](v, "strokeOpacity"),
				StrokeWidth:    dsl.Ptr[float64](v, "strokeWidth"),
				StrokePos:      bindStringOrList(v, "strokePos"),
				Outline:        dsl.Ptr[string](v, "outline"),
				OutlineOpacity: dsl.Ptr[float64](v, "outlineOpacity"),
				OutlineWidth:   dsl.Ptr[float64](v, "outlineWidth"),
				OutlinePos:     bindStringOrList(v, "outlinePos"),
			}
			for _, row := range dsl.Slice[[]any](v, "extent") {
				ints := make([]int, 0, len(row))
				for _, it := range row {
					n, _ := it.(int)
					ints = append(ints, n)
				}
				o.Extent = append(o.Extent, ints)
			}
			return o, nil
		}).
		MustBuild()
})

var overlayNode = onceNode(func() dsl.Node {
	return dsl.Object("Overlay").
		Field("type", dsl.String()).
		Field("uid", dsl.String()).
		Field("chromInfoPath", dsl.String()).
		Field("includes", dsl.Array(dsl.String())).
		Field("options", overlayOptionsNode()).
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			o := Overlay{
				Type:          dsl.Ptr[string](v, "type"),
				UID:           dsl.Ptr[string](v, "uid"),
				ChromInfoPath: dsl.Ptr[string](v, "chromInfoPath"),
				Includes:      bindStrings(v, "includes"),
			}
			o.Options, _ = dsl.Get[*OverlayOptions](v, "options")
			return o, nil
		}).
		MustBuild()
})

// OverlaySchema validates and builds an Overlay.
func OverlaySchema() hgschema.Schema[Overlay] { return modelSchema[Overlay](overlayNode()) }

// OverlayOptionsSchema validates and builds OverlayOptions.
func OverlayOptionsSchema() hgschema.Schema[*OverlayOptions] {
	return modelSchema[*OverlayOptions](overlayOptionsNode())
}

// DomainSchema validates a Domain.
func DomainSchema() hgschema.Schema[Domain] {
	return modelSchema[Domain](convert(domainNode(), func(v any) any { return *toDomain(v) }))
}
