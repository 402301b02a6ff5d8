package viewconf

import (
	"context"
	"errors"
	"iter"
	"sync"

	gojson "github.com/goccy/go-json"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/dsl"
	js "github.com/higlass/hgschema/jsonschema"
)

// TrackPosition names a slot of the Tracks container.
type TrackPosition string

const (
	PositionLeft    TrackPosition = "left"
	PositionRight   TrackPosition = "right"
	PositionTop     TrackPosition = "top"
	PositionBottom  TrackPosition = "bottom"
	PositionCenter  TrackPosition = "center"
	PositionWhole   TrackPosition = "whole"
	PositionGallery TrackPosition = "gallery"
)

// TrackPositions lists the slots in declaration order.
var TrackPositions = []TrackPosition{
	PositionLeft, PositionRight, PositionTop, PositionBottom,
	PositionCenter, PositionWhole, PositionGallery,
}

// Tracks groups the tracks of a view by screen position.
type Tracks[T Track] struct {
	Left    []T `json:"left,omitempty"`
	Right   []T `json:"right,omitempty"`
	Top     []T `json:"top,omitempty"`
	Bottom  []T `json:"bottom,omitempty"`
	Center  []T `json:"center,omitempty"`
	Whole   []T `json:"whole,omitempty"`
	Gallery []T `json:"gallery,omitempty"`
}

// Slot returns the tracks at pos.
func (t *Tracks[T]) Slot(pos TrackPosition) []T {
	if p := t.slot(pos); p != nil {
		return *p
	}
	return nil
}

func (t *Tracks[T]) slot(pos TrackPosition) *[]T {
	switch pos {
	case PositionLeft:
		return &t.Left
	case PositionRight:
		return &t.Right
	case PositionTop:
		return &t.Top
	case PositionBottom:
		return &t.Bottom
	case PositionCenter:
		return &t.Center
	case PositionWhole:
		return &t.Whole
	case PositionGallery:
		return &t.Gallery
	}
	return nil
}

// All yields (position, track) pairs in slot order, skipping empty slots.
func (t *Tracks[T]) All() iter.Seq2[TrackPosition, T] {
	return func(yield func(TrackPosition, T) bool) {
		for _, pos := range TrackPositions {
			for _, tr := range t.Slot(pos) {
				if !yield(pos, tr) {
					return
				}
			}
		}
	}
}

// Layout is the size and position of a view on the grid.
type Layout struct {
	X      int   `json:"x"`
	Y      int   `json:"y"`
	W      int   `json:"w"`
	H      int   `json:"h"`
	Moved  *bool `json:"moved,omitempty"`
	Static *bool `json:"static,omitempty"`
}

// DefaultLayout returns the layout used for absent fields.
func DefaultLayout() Layout { return Layout{W: 12, H: 12} }

// GenomePositionSearchBox configures the location search of a view.
type GenomePositionSearchBox struct {
	AutocompleteServer *string `json:"autocompleteServer,omitempty"`
	AutocompleteID     *string `json:"autocompleteId,omitempty"`
	ChromInfoServer    *string `json:"chromInfoServer,omitempty"`
	ChromInfoID        *string `json:"chromInfoId,omitempty"`
	Visible            *bool   `json:"visible,omitempty"`
}

// ZoomLimits bounds the zoom level of a view. A nil Max means unbounded.
type ZoomLimits struct {
	Min float64
	Max *float64
}

// DefaultZoomLimits returns (1, unbounded).
func DefaultZoomLimits() ZoomLimits { return ZoomLimits{Min: 1} }

func (z ZoomLimits) MarshalJSON() ([]byte, error) {
	return gojson.Marshal([2]any{z.Min, z.Max})
}

// View is a panel with a layout and the tracks it displays. Fields may be
// assigned freely; assignments are not checked until Validate runs.
type View[T Track] struct {
	Layout                         Layout                   `json:"layout"`
	Tracks                         Tracks[T]                `json:"tracks"`
	UID                            *string                  `json:"uid,omitempty"`
	AutocompleteSource             *string                  `json:"autocompleteSource,omitempty"`
	ChromInfoPath                  *string                  `json:"chromInfoPath,omitempty"`
	GenomePositionSearchBox        *GenomePositionSearchBox `json:"genomePositionSearchBox,omitempty"`
	GenomePositionSearchBoxVisible *bool                    `json:"genomePositionSearchBoxVisible,omitempty"`
	InitialXDomain                 *Domain                  `json:"initialXDomain,omitempty"`
	InitialYDomain                 *Domain                  `json:"initialYDomain,omitempty"`
	Overlays                       []Overlay                `json:"overlays,omitempty"`
	SelectionView                  *bool                    `json:"selectionView,omitempty"`
	ZoomFixed                      *bool                    `json:"zoomFixed,omitempty"`
	ZoomLimits                     ZoomLimits               `json:"zoomLimits"`
}

// NewView returns a view with default layout and zoom limits.
func NewView[T Track]() View[T] {
	return View[T]{Layout: DefaultLayout(), ZoomLimits: DefaultZoomLimits()}
}

var layoutNode = onceNode(func() *dsl.ObjectNode {
	return dsl.Object("Layout").
		Description("Size and position of a View.").
		Field("x", dsl.Integer()).Default(0).Description("The X Position").
		Field("y", dsl.Integer()).Default(0).Description("The Y Position").
		Field("w", dsl.Integer()).Default(12).Description("Width").
		Field("h", dsl.Integer()).Default(12).Description("Height").
		Field("moved", dsl.Bool()).
		Field("static", dsl.Bool()).
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			l := DefaultLayout()
			l.X, _ = dsl.Get[int](v, "x")
			l.Y, _ = dsl.Get[int](v, "y")
			l.W, _ = dsl.Get[int](v, "w")
			l.H, _ = dsl.Get[int](v, "h")
			l.Moved = dsl.Ptr[bool](v, "moved")
			l.Static = dsl.Ptr[bool](v, "static")
			return l, nil
		}).
		MustBuild()
})

var genomePositionSearchBoxNode = onceNode(func() *dsl.ObjectNode {
	return dsl.Object("GenomePositionSearchBox").
		Description("Locations to search within a View.").
		Field("autocompleteServer", dsl.String()).
		Description("The Autocomplete Server URL").Examples("//higlass.io/api/v1").
		Field("autocompleteId", dsl.String()).
		Description("The Autocomplete ID").Examples("OHJakQICQD6gTD7skx4EWA").
		Field("chromInfoServer", dsl.String()).
		Description("The Chrominfo Server URL").Examples("//higlass.io/api/v1").
		Field("chromInfoId", dsl.String()).
		Description("The Chromosome Info ID").Examples("hg19").
		Field("visible", dsl.Bool()).Description("The Visible Schema").
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			return &GenomePositionSearchBox{
				AutocompleteServer: dsl.Ptr[string](v, "autocompleteServer"),
				AutocompleteID:     dsl.Ptr[string](v, "autocompleteId"),
				ChromInfoServer:    dsl.Ptr[string](v, "chromInfoServer"),
				ChromInfoID:        dsl.Ptr[string](v, "chromInfoId"),
				Visible:            dsl.Ptr[bool](v, "visible"),
			}, nil
		}).
		MustBuild()
})

func zoomLimitsNode() dsl.Node {
	return convert(dsl.Tuple(dsl.Number(), dsl.Nullable(dsl.Number())), func(v any) any {
		raw, _ := v.([]any)
		z := ZoomLimits{}
		z.Min, _ = raw[0].(float64)
		if hi, ok := raw[1].(float64); ok {
			z.Max = &hi
		}
		return z
	})
}

// TrackSet selects the track variants accepted by views. Use DefaultTracks or
// one of the single-variant sets; schemas built over the zero value fail with
// ErrZeroTrackSet.
type TrackSet[T Track] struct {
	*trackSet[T]
}

type trackSet[T Track] struct {
	suffix string
	track  func() dsl.Node

	once     sync.Once
	tracks   *dsl.ObjectNode
	view     *dsl.ObjectNode
	viewconf *dsl.ObjectNode
}

func newTrackSet[T Track](suffix string, track func() dsl.Node) TrackSet[T] {
	return TrackSet[T]{&trackSet[T]{suffix: suffix, track: track}}
}

func (s *trackSet[T]) name(base string) string {
	if s.suffix == "" {
		return base
	}
	return base + "_" + s.suffix
}

// ErrZeroTrackSet is returned when parsing or exporting over a zero TrackSet.
var ErrZeroTrackSet = errors.New("viewconf: zero TrackSet, use DefaultTracks or a single-variant set")

type zeroSetNode struct{}

func (zeroSetNode) Parse(context.Context, any) (any, error) { return nil, ErrZeroTrackSet }

func (zeroSetNode) JSONSchema(*js.Definitions) (*js.Object, error) { return nil, ErrZeroTrackSet }

func (zeroSetNode) Expected() string { return "viewconf" }

func (s *trackSet[T]) nodes() (tracks, view, root dsl.Node) {
	if s == nil {
		return zeroSetNode{}, zeroSetNode{}, zeroSetNode{}
	}
	s.once.Do(func() {
		s.tracks = s.buildTracks()
		s.view = s.buildView()
		s.viewconf = s.buildViewconf()
	})
	return s.tracks, s.view, s.viewconf
}

func (s *trackSet[T]) buildTracks() *dsl.ObjectNode {
	b := dsl.Object(s.name("Tracks")).Description("Track layout within a View.")
	for _, pos := range TrackPositions {
		b.Field(string(pos), dsl.Array(s.track()))
	}
	return b.
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			var out Tracks[T]
			for _, pos := range TrackPositions {
				if list := dsl.Slice[T](v, string(pos)); len(list) > 0 {
					*out.slot(pos) = list
				}
			}
			return out, nil
		}).
		MustBuild()
}

func (s *trackSet[T]) buildView() *dsl.ObjectNode {
	return dsl.Object(s.name("View")).
		Description("An arrangment of Tracks to display within a given Layout.").
		Field("layout", layoutNode()).Required().
		Field("tracks", s.tracks).Required().
		Field("uid", dsl.String()).
		Field("autocompleteSource", dsl.String()).
		Field("chromInfoPath", dsl.String()).
		Field("genomePositionSearchBox", genomePositionSearchBoxNode()).
		Field("genomePositionSearchBoxVisible", dsl.Bool()).
		Field("initialXDomain", domainNode()).
		Field("initialYDomain", domainNode()).
		Field("overlays", dsl.Array(overlayNode())).
		Field("selectionView", dsl.Bool()).
		Field("zoomFixed", dsl.Bool()).
		Field("zoomLimits", zoomLimitsNode()).Default([]any{1, nil}).
		UnknownStrict().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			view := NewView[T]()
			view.Layout, _ = dsl.Get[Layout](v, "layout")
			view.Tracks, _ = dsl.Get[Tracks[T]](v, "tracks")
			view.UID = dsl.Ptr[string](v, "uid")
			view.AutocompleteSource = dsl.Ptr[string](v, "autocompleteSource")
			view.ChromInfoPath = dsl.Ptr[string](v, "chromInfoPath")
			view.GenomePositionSearchBox, _ = dsl.Get[*GenomePositionSearchBox](v, "genomePositionSearchBox")
			view.GenomePositionSearchBoxVisible = dsl.Ptr[bool](v, "genomePositionSearchBoxVisible")
			view.InitialXDomain = bindDomain(v, "initialXDomain")
			view.InitialYDomain = bindDomain(v, "initialYDomain")
			if overlays := dsl.Slice[Overlay](v, "overlays"); len(overlays) > 0 {
				view.Overlays = overlays
			}
			view.SelectionView = dsl.Ptr[bool](v, "selectionView")
			view.ZoomFixed = dsl.Ptr[bool](v, "zoomFixed")
			if z, ok := dsl.Get[ZoomLimits](v, "zoomLimits"); ok {
				view.ZoomLimits = z
			}
			return view, nil
		}).
		MustBuild()
}

// LayoutSchema validates and builds a Layout.
func LayoutSchema() hgschema.Schema[Layout] { return modelSchema[Layout](layoutNode()) }

// GenomePositionSearchBoxSchema validates and builds a GenomePositionSearchBox.
func GenomePositionSearchBoxSchema() hgschema.Schema[*GenomePositionSearchBox] {
	return modelSchema[*GenomePositionSearchBox](genomePositionSearchBoxNode())
}

// TracksSchema validates and builds the Tracks container of set.
func TracksSchema[T Track](set TrackSet[T]) hgschema.Schema[Tracks[T]] {
	tracks, _, _ := set.nodes()
	return modelSchema[Tracks[T]](tracks)
}

// ViewSchema validates and builds a View over set.
func ViewSchema[T Track](set TrackSet[T]) hgschema.Schema[View[T]] {
	_, view, _ := set.nodes()
	return modelSchema[View[T]](view)
}

// Validate re-checks v over set after programmatic edits.
func (v View[T]) Validate(ctx context.Context, set TrackSet[T]) error {
	return hgschema.Revalidate(ctx, ViewSchema(set), v)
}

// ParseView validates a decoded view document over set.
func ParseView[T Track](ctx context.Context, set TrackSet[T], v any) (View[T], error) {
	return ViewSchema(set).Parse(ctx, v)
}
