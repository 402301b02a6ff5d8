package viewconf

import (
	"context"

	"github.com/tidwall/jsonc"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/dsl"
	js "github.com/higlass/hgschema/jsonschema"
)

// Title is the schema title of the root document.
const Title = "HiGlass viewconf"

// Viewconf is the root object describing a HiGlass visualization.
//
// A Viewconf is a plain value. Edits to its fields, or to the views, tracks
// and locks it holds, are not validated when made; call Validate to re-check
// the whole document against its TrackSet.
type Viewconf[T Track] struct {
	Editable           bool             `json:"editable"`
	ViewEditable       bool             `json:"viewEditable"`
	TracksEditable     bool             `json:"tracksEditable"`
	ZoomFixed          *bool            `json:"zoomFixed,omitempty"`
	CompactLayout      *bool            `json:"compactLayout,omitempty"`
	ExportViewURL      *string          `json:"exportViewUrl,omitempty"`
	TrackSourceServers []string         `json:"trackSourceServers,omitempty"`
	Views              []View[T]        `json:"views,omitempty"`
	ZoomLocks          *ZoomLocks       `json:"zoomLocks,omitempty"`
	LocationLocks      *LocationLocks   `json:"locationLocks,omitempty"`
	ValueScaleLocks    *ValueScaleLocks `json:"valueScaleLocks,omitempty"`
	ChromInfoPath      *string          `json:"chromInfoPath,omitempty"`
}

// New returns an empty viewconf with the editable flags set.
func New[T Track]() *Viewconf[T] {
	return &Viewconf[T]{Editable: true, ViewEditable: true, TracksEditable: true}
}

var (
	defaultTracks    = newTrackSet[Track]("", func() dsl.Node { return trackNode() })
	enumTracks       = newTrackSet[*EnumTrack]("EnumTrack", func() dsl.Node { return enumTrackNode() })
	heatmapTracks    = newTrackSet[*HeatmapTrack]("HeatmapTrack", func() dsl.Node { return heatmapTrackNode() })
	combinedTracks   = newTrackSet[*CombinedTrack]("CombinedTrack", func() dsl.Node { return combinedTrackNode() })
	baseTracks       = newTrackSet[*BaseTrack]("BaseTrack", func() dsl.Node { return baseTrackNode() })
	projectionTracks = newTrackSet[*IndependentViewportProjectionTrack](
		"IndependentViewportProjectionTrack",
		func() dsl.Node { return independentViewportProjectionTrackNode() },
	)
)

// DefaultTracks accepts every track variant.
func DefaultTracks() TrackSet[Track] { return defaultTracks }

// EnumTracks accepts only EnumTrack.
func EnumTracks() TrackSet[*EnumTrack] { return enumTracks }

// HeatmapTracks accepts only HeatmapTrack.
func HeatmapTracks() TrackSet[*HeatmapTrack] { return heatmapTracks }

// CombinedTracks accepts only CombinedTrack.
func CombinedTracks() TrackSet[*CombinedTrack] { return combinedTracks }

// BaseTracks accepts only BaseTrack.
func BaseTracks() TrackSet[*BaseTrack] { return baseTracks }

// IndependentViewportProjectionTracks accepts only
// IndependentViewportProjectionTrack.
func IndependentViewportProjectionTracks() TrackSet[*IndependentViewportProjectionTrack] {
	return projectionTracks
}

func (s *trackSet[T]) buildViewconf() *dsl.ObjectNode {
	return dsl.Object(s.name("Viewconf")).
		Title(Title).
		Description("Root object describing a HiGlass visualization.").
		Field("editable", dsl.Bool()).Default(true).
		Field("viewEditable", dsl.Bool()).Default(true).
		Field("tracksEditable", dsl.Bool()).Default(true).
		Field("zoomFixed", dsl.Bool()).
		Field("compactLayout", dsl.Bool()).
		Field("exportViewUrl", dsl.String()).
		Field("trackSourceServers", dsl.Array(dsl.String())).
		Field("views", dsl.Array(s.view).Min(1)).
		Field("zoomLocks", zoomLocksNode()).
		Field("locationLocks", locationLocksNode()).
		Field("valueScaleLocks", valueScaleLocksNode()).
		Field("chromInfoPath", dsl.String()).
		UnknownStrict().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			vc := New[T]()
			vc.Editable, _ = dsl.Get[bool](v, "editable")
			vc.ViewEditable, _ = dsl.Get[bool](v, "viewEditable")
			vc.TracksEditable, _ = dsl.Get[bool](v, "tracksEditable")
			vc.ZoomFixed = dsl.Ptr[bool](v, "zoomFixed")
			vc.CompactLayout = dsl.Ptr[bool](v, "compactLayout")
			vc.ExportViewURL = dsl.Ptr[string](v, "exportViewUrl")
			vc.TrackSourceServers = bindStrings(v, "trackSourceServers")
			vc.Views = dsl.Slice[View[T]](v, "views")
			vc.ZoomLocks, _ = dsl.Get[*ZoomLocks](v, "zoomLocks")
			vc.LocationLocks, _ = dsl.Get[*LocationLocks](v, "locationLocks")
			vc.ValueScaleLocks, _ = dsl.Get[*ValueScaleLocks](v, "valueScaleLocks")
			vc.ChromInfoPath = dsl.Ptr[string](v, "chromInfoPath")
			return vc, nil
		}).
		MustBuild()
}

// ViewconfSchema validates and builds a Viewconf over set.
func ViewconfSchema[T Track](set TrackSet[T]) hgschema.Schema[*Viewconf[T]] {
	_, _, root := set.nodes()
	return modelSchema[*Viewconf[T]](root)
}

// Parse decodes and validates a viewconf accepting every track variant.
// Every failing path is reported unless opts request fail-fast.
func Parse(ctx context.Context, data []byte, opts ...hgschema.ParseOpt) (*Viewconf[Track], error) {
	return ParseAs(ctx, DefaultTracks(), data, opts...)
}

// ParseAs decodes and validates a viewconf whose views accept set.
// Lock entries keep the key order of the document.
func ParseAs[T Track](ctx context.Context, set TrackSet[T], data []byte, opts ...hgschema.ParseOpt) (*Viewconf[T], error) {
	vc, err := hgschema.ParseBytes(ctx, ViewconfSchema(set), data, opts...)
	if err != nil {
		return nil, err
	}
	var opt hgschema.ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if doc, err := orderedDocument(data, opt.Format); err == nil {
		vc.restoreEntryOrder(doc)
	}
	return vc, nil
}

// FromValue validates an already decoded document.
func FromValue[T Track](ctx context.Context, set TrackSet[T], v any) (*Viewconf[T], error) {
	return ViewconfSchema(set).Parse(ctx, v)
}

// Validate re-checks a viewconf, typically after programmatic edits.
func (vc *Viewconf[T]) Validate(ctx context.Context, set TrackSet[T]) error {
	return hgschema.Revalidate(ctx, ViewconfSchema(set), vc)
}

func orderedDocument(data []byte, f hgschema.Format) (*js.Object, error) {
	switch f {
	case hgschema.FormatYAML:
		return js.ParseYAML(data)
	case hgschema.FormatJSONC:
		return js.Parse(jsonc.ToJSON(data))
	default:
		return js.Parse(data)
	}
}

// restoreEntryOrder sorts the dynamic entries of every lock by their
// position in doc.
func (vc *Viewconf[T]) restoreEntryOrder(doc *js.Object) {
	if vc.ZoomLocks != nil {
		for uid, l := range vc.ZoomLocks.LocksDict {
			l.entries = l.reorder(lockKeys(doc, "zoomLocks", uid))
			vc.ZoomLocks.LocksDict[uid] = l
		}
	}
	if vc.LocationLocks != nil {
		for uid, l := range vc.LocationLocks.LocksDict {
			l.entries = l.reorder(lockKeys(doc, "locationLocks", uid))
			vc.LocationLocks.LocksDict[uid] = l
		}
	}
	if vc.ValueScaleLocks != nil {
		for uid, l := range vc.ValueScaleLocks.LocksDict {
			l.entries = l.reorder(lockKeys(doc, "valueScaleLocks", uid))
			vc.ValueScaleLocks.LocksDict[uid] = l
		}
	}
}

func lockKeys(doc *js.Object, container, uid string) []string {
	c, ok := doc.Object(container)
	if !ok {
		return nil
	}
	dict, ok := c.Object("locksDict")
	if !ok {
		return nil
	}
	l, ok := dict.Object(uid)
	if !ok {
		return nil
	}
	return l.Keys()
}
