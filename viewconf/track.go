package viewconf

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"

	gojson "github.com/goccy/go-json"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/dsl"
)

// Track is one of the track variants: *EnumTrack, *CombinedTrack,
// *HeatmapTrack, *IndependentViewportProjectionTrack or *BaseTrack.
type Track interface {
	TrackType() string
	isTrack()
}

// TrackCommon holds the fields shared by every track variant.
type TrackCommon struct {
	Type    string         `json:"type"`
	UID     *string        `json:"uid,omitempty"`
	Width   *int           `json:"width,omitempty"`
	Height  *int           `json:"height,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// TrackType returns the type tag.
func (c TrackCommon) TrackType() string { return c.Type }

func (TrackCommon) isTrack() {}

// Tileset references an externally served tiled data source.
type Tileset struct {
	TilesetUID *string `json:"tilesetUid,omitempty"`
	Server     *string `json:"server,omitempty"`
}

// Data describes where a track reads its data from. Payload shapes are
// defined by the data source and kept as open maps.
type Data struct {
	Type        *string        `json:"type,omitempty"`
	URL         *string        `json:"url,omitempty"`
	Server      *string        `json:"server,omitempty"`
	Filetype    *string        `json:"filetype,omitempty"`
	Children    []any          `json:"children,omitempty"`
	TilesetInfo map[string]any `json:"tilesetInfo,omitempty"`
	Tiles       map[string]any `json:"tiles,omitempty"`
}

// BaseTrack is the catch-all variant. Fields it does not declare are kept in
// Extra and written back on serialization.
type BaseTrack struct {
	TrackCommon
	Extra map[string]any `json:"-"`
}

func (t BaseTrack) MarshalJSON() ([]byte, error) {
	b, err := gojson.Marshal(t.TrackCommon)
	if err != nil || len(t.Extra) == 0 {
		return b, err
	}
	keys := make([]string, 0, len(t.Extra))
	for k := range t.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	for _, k := range keys {
		kb, err := gojson.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := gojson.Marshal(t.Extra[k])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EnumTrack is a track of one of the known kinds. A viewport projection kind
// is only an EnumTrack when FromViewUID is set.
type EnumTrack struct {
	Tileset
	TrackCommon
	Data          *Data    `json:"data,omitempty"`
	ChromInfoPath *string  `json:"chromInfoPath,omitempty"`
	FromViewUID   *string  `json:"fromViewUid,omitempty"`
	X             *float64 `json:"x,omitempty"`
	Y             *float64 `json:"y,omitempty"`
}

// HeatmapTrack is a track of type "heatmap".
type HeatmapTrack struct {
	Tileset
	TrackCommon
	Data       *Data   `json:"data,omitempty"`
	Position   *string `json:"position,omitempty"`
	Transforms []any   `json:"transforms,omitempty"`
}

// IndependentViewportProjectionTrack is a viewport projection that is not
// bound to another view.
type IndependentViewportProjectionTrack struct {
	TrackCommon
	ProjectionXDomain *Domain  `json:"projectionXDomain,omitempty"`
	ProjectionYDomain *Domain  `json:"projectionYDomain,omitempty"`
	Transforms        []any    `json:"transforms,omitempty"`
	X                 *float64 `json:"x,omitempty"`
	Y                 *float64 `json:"y,omitempty"`
}

// CombinedTrack layers child tracks of any variant.
type CombinedTrack struct {
	TrackCommon
	Contents []Track `json:"contents"`
	Position *string `json:"position,omitempty"`
}

func (t CombinedTrack) MarshalJSON() ([]byte, error) {
	type plain CombinedTrack
	if t.Contents == nil {
		t.Contents = []Track{}
	}
	return gojson.Marshal(plain(t))
}

var dataNode = onceNode(func() *dsl.ObjectNode {
	return dsl.Object("Data").
		Field("type", dsl.String()).
		Field("url", dsl.String()).
		Field("server", dsl.String()).
		Field("filetype", dsl.String()).
		Field("children", dsl.Array(dsl.Any())).
		Field("tilesetInfo", dsl.MapAny()).
		Field("tiles", dsl.MapAny()).
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			d := &Data{
				Type:     dsl.Ptr[string](v, "type"),
				URL:      dsl.Ptr[string](v, "url"),
				Server:   dsl.Ptr[string](v, "server"),
				Filetype: dsl.Ptr[string](v, "filetype"),
			}
			d.Children = bindList(v, "children")
			d.TilesetInfo = bindMap(v, "tilesetInfo")
			d.Tiles = bindMap(v, "tiles")
			return d, nil
		}).
		MustBuild()
})

var tilesetNode = onceNode(func() *dsl.ObjectNode {
	b := dsl.Object("Tileset").UnknownStrip()
	tilesetFields(b)
	return b.Bind(func(_ context.Context, v dsl.Values) (any, error) {
		t := bindTileset(v)
		return &t, nil
	}).MustBuild()
})

func tilesetFields(b *dsl.ObjectBuilder) {
	b.Field("tilesetUid", dsl.String())
	b.Field("server", dsl.String())
}

func bindTileset(v dsl.Values) Tileset {
	return Tileset{TilesetUID: dsl.Ptr[string](v, "tilesetUid"), Server: dsl.Ptr[string](v, "server")}
}

func commonFields(b *dsl.ObjectBuilder, typ dsl.Node) {
	b.Field("type", typ).Required()
	b.Field("uid", dsl.String())
	b.Field("width", dsl.Integer())
	b.Field("height", dsl.Integer())
	b.Field("options", dsl.MapAny())
}

func bindCommon(v dsl.Values) TrackCommon {
	typ, _ := dsl.Get[string](v, "type")
	return TrackCommon{
		Type:    typ,
		UID:     dsl.Ptr[string](v, "uid"),
		Width:   dsl.Ptr[int](v, "width"),
		Height:  dsl.Ptr[int](v, "height"),
		Options: bindMap(v, "options"),
	}
}

func missingSourceView(hint string) error {
	it := hgschema.Root().Field("fromViewUid").Issue(hgschema.CodeRequired)
	it.Expected = "string"
	it.Hint = hint
	return hgschema.Issues{it}
}

var enumTrackNode = onceNode(func() *dsl.ObjectNode {
	b := dsl.Object("EnumTrack")
	tilesetFields(b)
	commonFields(b, dsl.Union(dsl.Literal(ViewportProjectionTypes...), dsl.Literal(KnownTrackTypes...)))
	return b.
		Field("data", dataNode()).
		Field("chromInfoPath", dsl.String()).
		Field("fromViewUid", dsl.String()).
		Field("x", dsl.Number()).
		Field("y", dsl.Number()).
		UnknownStrip().
		Refine("projection source", func(_ context.Context, v dsl.Values) error {
			typ, _ := dsl.Get[string](v, "type")
			if IsViewportProjection(typ) && !v.Has("fromViewUid") {
				return missingSourceView("viewport projections without a source view are independent projections")
			}
			return nil
		}).
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			t := &EnumTrack{
				Tileset:       bindTileset(v),
				TrackCommon:   bindCommon(v),
				ChromInfoPath: dsl.Ptr[string](v, "chromInfoPath"),
				FromViewUID:   dsl.Ptr[string](v, "fromViewUid"),
				X:             dsl.Ptr[float64](v, "x"),
				Y:             dsl.Ptr[float64](v, "y"),
			}
			t.Data, _ = dsl.Get[*Data](v, "data")
			return t, nil
		}).
		MustBuild()
})

var heatmapTrackNode = onceNode(func() *dsl.ObjectNode {
	b := dsl.Object("HeatmapTrack")
	tilesetFields(b)
	commonFields(b, dsl.Literal(HeatmapType))
	return b.
		Field("data", dataNode()).
		Field("position", dsl.String()).
		Field("transforms", dsl.Array(dsl.Any())).
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			t := &HeatmapTrack{
				Tileset:     bindTileset(v),
				TrackCommon: bindCommon(v),
				Position:    dsl.Ptr[string](v, "position"),
			}
			t.Data, _ = dsl.Get[*Data](v, "data")
			t.Transforms = bindList(v, "transforms")
			return t, nil
		}).
		MustBuild()
})

var independentViewportProjectionTrackNode = onceNode(func() *dsl.ObjectNode {
	b := dsl.Object("IndependentViewportProjectionTrack")
	commonFields(b, dsl.Literal(ViewportProjectionTypes...))
	return b.
		Field("fromViewUid", dsl.Null()).
		Field("projectionXDomain", domainNode()).
		Field("projectionYDomain", domainNode()).
		Field("transforms", dsl.Array(dsl.Any())).
		Field("x", dsl.Number()).
		Field("y", dsl.Number()).
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			t := &IndependentViewportProjectionTrack{
				TrackCommon:       bindCommon(v),
				ProjectionXDomain: bindDomain(v, "projectionXDomain"),
				ProjectionYDomain: bindDomain(v, "projectionYDomain"),
				X:                 dsl.Ptr[float64](v, "x"),
				Y:                 dsl.Ptr[float64](v, "y"),
			}
			t.Transforms = bindList(v, "transforms")
			return t, nil
		}).
		MustBuild()
})

// The track union and CombinedTrack refer to each other, so both are built
// behind explicit sync.Once values instead of initialized package variables.
var (
	combinedOnce sync.Once
	combinedNode *dsl.ObjectNode
	trackOnce    sync.Once
	trackUnion   *dsl.UnionNode
)

func combinedTrackNode() *dsl.ObjectNode {
	combinedOnce.Do(func() { combinedNode = buildCombinedTrackNode() })
	return combinedNode
}

func buildCombinedTrackNode() *dsl.ObjectNode {
	b := dsl.Object("CombinedTrack")
	commonFields(b, dsl.Literal(CombinedType))
	return b.
		Field("contents", dsl.Array(dsl.Lazy(func() dsl.Node { return trackNode() }))).Required().
		Field("position", dsl.String()).
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			t := &CombinedTrack{
				TrackCommon: bindCommon(v),
				Contents:    dsl.Slice[Track](v, "contents"),
				Position:    dsl.Ptr[string](v, "position"),
			}
			if t.Contents == nil {
				t.Contents = []Track{}
			}
			return t, nil
		}).
		MustBuild()
}

var baseTrackNode = onceNode(func() *dsl.ObjectNode {
	b := dsl.Object("BaseTrack")
	commonFields(b, dsl.String())
	return b.
		UnknownPassthrough().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			t := &BaseTrack{TrackCommon: bindCommon(v)}
			for _, e := range v.Extra {
				if t.Extra == nil {
					t.Extra = make(map[string]any, len(v.Extra))
				}
				t.Extra[e.Key] = e.Value
			}
			return t, nil
		}).
		MustBuild()
})

// trackNode resolves tracks by trying the variants in order; BaseTrack comes
// last and accepts any object with a string type.
func trackNode() *dsl.UnionNode {
	trackOnce.Do(func() {
		trackUnion = dsl.Union(
			enumTrackNode(),
			combinedTrackNode(),
			heatmapTrackNode(),
			independentViewportProjectionTrackNode(),
			baseTrackNode(),
		)
	})
	return trackUnion
}

// ErrNotTrack is returned by ParseTrack for values that no variant accepts,
// which only happens for non-objects and objects without a string type.
var ErrNotTrack = errors.New("viewconf: value is not a track")

// ParseTrack resolves a decoded track document to its variant.
func ParseTrack(ctx context.Context, v any) (Track, error) {
	t, err := TrackSchema().Parse(ctx, v)
	if err != nil {
		return nil, errors.Join(ErrNotTrack, err)
	}
	return t, nil
}

// TrackSchema validates any track variant.
func TrackSchema() hgschema.Schema[Track] { return modelSchema[Track](trackNode()) }

// EnumTrackSchema validates and builds an EnumTrack.
func EnumTrackSchema() hgschema.Schema[*EnumTrack] { return modelSchema[*EnumTrack](enumTrackNode()) }

// HeatmapTrackSchema validates and builds a HeatmapTrack.
func HeatmapTrackSchema() hgschema.Schema[*HeatmapTrack] {
	return modelSchema[*HeatmapTrack](heatmapTrackNode())
}

// IndependentViewportProjectionTrackSchema validates and builds an
// IndependentViewportProjectionTrack.
func IndependentViewportProjectionTrackSchema() hgschema.Schema[*IndependentViewportProjectionTrack] {
	return modelSchema[*IndependentViewportProjectionTrack](independentViewportProjectionTrackNode())
}

// CombinedTrackSchema validates and builds a CombinedTrack.
func CombinedTrackSchema() hgschema.Schema[*CombinedTrack] {
	return modelSchema[*CombinedTrack](combinedTrackNode())
}

// BaseTrackSchema validates and builds a BaseTrack.
func BaseTrackSchema() hgschema.Schema[*BaseTrack] { return modelSchema[*BaseTrack](baseTrackNode()) }

// DataSchema validates and builds Data.
func DataSchema() hgschema.Schema[*Data] { return modelSchema[*Data](dataNode()) }

// TilesetSchema validates and builds a Tileset.
func TilesetSchema() hgschema.Schema[*Tileset] { return modelSchema[*Tileset](tilesetNode()) }
