package viewconf

// Track kinds whose view is projected from another view.
const (
	ViewportProjectionCenter     = "viewport-projection-center"
	ViewportProjectionVertical   = "viewport-projection-vertical"
	ViewportProjectionHorizontal = "viewport-projection-horizontal"
)

// ViewportProjectionTypes lists the viewport projection kinds.
var ViewportProjectionTypes = []string{
	ViewportProjectionCenter,
	ViewportProjectionVertical,
	ViewportProjectionHorizontal,
}

// KnownTrackTypes lists the remaining track kinds understood by the renderer.
var KnownTrackTypes = []string{
	"multivec",
	"1d-heatmap",
	"line",
	"point",
	"bar",
	"divergent-bar",
	"stacked-interval",
	"gene-annotations",
	"linear-2d-rectangle-domains",
	"chromosome-labels",
	"linear-heatmap",
	"1d-value-interval",
	"2d-annotations",
	"2d-chromosome-annotations",
	"2d-chromosome-grid",
	"2d-chromosome-labels",
	"2d-rectangle-domains",
	"2d-tiles",
	"arrowhead-domains",
	"bedlike",
	"cross-rule",
	"dummy",
	"horizontal-1d-annotations",
	"horizontal-1d-heatmap",
	"horizontal-1d-tiles",
	"horizontal-1d-value-interval",
	"horizontal-2d-rectangle-domains",
	"horizontal-bar",
	"horizontal-chromosome-grid",
	"horizontal-chromosome-labels",
	"horizontal-divergent-bar",
	"horizontal-gene-annotations",
	"horizontal-heatmap",
	"horizontal-line",
	"horizontal-multivec",
	"horizontal-point",
	"horizontal-rule",
	"horizontal-vector-heatmap",
	"image-tiles",
	"left-axis",
	"left-stacked-interval",
	"mapbox-tiles",
	"osm-2d-tile-ids",
	"osm-tiles",
	"raster-tiles",
	"simple-svg",
	"square-markers",
	"top-axis",
	"top-stacked-interval",
	"vertical-1d-annotations",
	"vertical-1d-heatmap",
	"vertical-1d-tiles",
	"vertical-1d-value-interval",
	"vertical-2d-rectangle-domains",
	"vertical-bar",
	"vertical-bedlike",
	"vertical-chromosome-grid",
	"vertical-chromosome-labels",
	"vertical-gene-annotations",
	"vertical-heatmap",
	"vertical-line",
	"vertical-multivec",
	"vertical-point",
	"vertical-rule",
	"vertical-vector-heatmap",
}

// Literal kinds with dedicated variants.
const (
	HeatmapType  = "heatmap"
	CombinedType = "combined"
)

// EnumTrackTypes returns every kind accepted by EnumTrack: the projection
// kinds followed by KnownTrackTypes.
func EnumTrackTypes() []string {
	out := make([]string, 0, len(ViewportProjectionTypes)+len(KnownTrackTypes))
	out = append(out, ViewportProjectionTypes...)
	return append(out, KnownTrackTypes...)
}

// IsViewportProjection reports whether kind is a viewport projection kind.
func IsViewportProjection(kind string) bool {
	switch kind {
	case ViewportProjectionCenter, ViewportProjectionVertical, ViewportProjectionHorizontal:
		return true
	}
	return false
}
