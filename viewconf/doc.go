// Package viewconf models the HiGlass view configuration ("viewconf").
//
// A viewconf holds views, each with a layout and tracks grouped by screen
// position, plus locks that synchronize zoom, location and value scales
// across views. Every type has a declarative schema node that validates a
// decoded document, builds the typed value and emits its JSON Schema
// fragment. Schema assembles the canonical draft-07 document for the whole
// model.
//
// Views are generic over the accepted track variants. DefaultTracks accepts
// every variant through the ordered union EnumTrack, CombinedTrack,
// HeatmapTrack, IndependentViewportProjectionTrack, BaseTrack; the first
// variant that validates wins and BaseTrack accepts any track with a string
// type.
package viewconf
