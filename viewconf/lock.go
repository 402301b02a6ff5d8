package viewconf

import (
	"context"
	"iter"

	gojson "github.com/goccy/go-json"

	hgschema "github.com/higlass/hgschema"
	"github.com/higlass/hgschema/dsl"
)

// LockEntry is the (x offset, y offset, scale factor) recorded for a view in
// a zoom or location lock.
type LockEntry [3]float64

// Lock synchronizes zoom or location across views. Besides uid, every key of
// the document is a view uid mapped to a LockEntry. Set only rejects
// reserved keys; Validate re-checks the whole lock.
type Lock struct {
	UID *string
	entries[LockEntry]
}

// Set records the entry for view. The reserved key "uid" is rejected.
func (l *Lock) Set(view string, e LockEntry) error {
	if view == "uid" {
		return reservedKey(view)
	}
	l.set(view, e)
	return nil
}

// Get returns the entry for view.
func (l *Lock) Get(view string) (LockEntry, bool) { return l.get(view) }

// Delete removes the entry for view.
func (l *Lock) Delete(view string) bool { return l.delete(view) }

// Len returns the number of view entries.
func (l *Lock) Len() int { return l.len() }

// All yields the (view uid, entry) pairs. Declared fields are not included.
func (l *Lock) All() iter.Seq2[string, LockEntry] { return l.all() }

func (l Lock) MarshalJSON() ([]byte, error) {
	var fixed []field
	if l.UID != nil {
		fixed = append(fixed, field{"uid", *l.UID})
	}
	return marshalRecord(fixed, &l.entries)
}

// Validate checks the lock against its schema.
func (l Lock) Validate(ctx context.Context) error {
	return hgschema.Revalidate(ctx, LockSchema(), l)
}

// ValueScaleLockEntry points at the track whose value scale is locked.
type ValueScaleLockEntry struct {
	View  string `json:"view"`
	Track string `json:"track"`
}

// ValueScaleLock synchronizes value scales. Besides the declared fields,
// every key is a view uid mapped to a ValueScaleLockEntry.
type ValueScaleLock struct {
	UID                   *string
	IgnoreOffScreenValues *bool
	entries[ValueScaleLockEntry]
}

// Set records the entry for view. Declared field names are rejected.
func (l *ValueScaleLock) Set(view string, e ValueScaleLockEntry) error {
	if view == "uid" || view == "ignoreOffScreenValues" {
		return reservedKey(view)
	}
	l.set(view, e)
	return nil
}

// Get returns the entry for view.
func (l *ValueScaleLock) Get(view string) (ValueScaleLockEntry, bool) { return l.get(view) }

// Delete removes the entry for view.
func (l *ValueScaleLock) Delete(view string) bool { return l.delete(view) }

// Len returns the number of view entries.
func (l *ValueScaleLock) Len() int { return l.len() }

// All yields the (view uid, entry) pairs. Declared fields are not included.
func (l *ValueScaleLock) All() iter.Seq2[string, ValueScaleLockEntry] { return l.all() }

func (l ValueScaleLock) MarshalJSON() ([]byte, error) {
	var fixed []field
	if l.UID != nil {
		fixed = append(fixed, field{"uid", *l.UID})
	}
	if l.IgnoreOffScreenValues != nil {
		fixed = append(fixed, field{"ignoreOffScreenValues", *l.IgnoreOffScreenValues})
	}
	return marshalRecord(fixed, &l.entries)
}

// Validate checks the lock against its schema.
func (l ValueScaleLock) Validate(ctx context.Context) error {
	return hgschema.Revalidate(ctx, ValueScaleLockSchema(), l)
}

func reservedKey(key string) error {
	it := hgschema.Root().Field(key).Issue(hgschema.CodeCustom)
	it.Hint = "key is a declared field and cannot hold a view entry"
	return hgschema.Issues{it}
}

// Axis names a genomic axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// AxisSpecificLock locks a single axis of a view.
type AxisSpecificLock struct {
	Axis Axis   `json:"axis"`
	Lock string `json:"lock"`
}

// AxisSpecificLocks holds per-axis locks of a view.
type AxisSpecificLocks struct {
	X *AxisSpecificLock `json:"x,omitempty"`
	Y *AxisSpecificLock `json:"y,omitempty"`
}

// LocationLock is either the id of a lock or a set of axis specific locks.
type LocationLock struct {
	LockID string
	Axes   *AxisSpecificLocks
}

func (l LocationLock) MarshalJSON() ([]byte, error) {
	if l.Axes != nil {
		return gojson.Marshal(l.Axes)
	}
	return gojson.Marshal(l.LockID)
}

// LocationLocks maps views to location locks.
type LocationLocks struct {
	LocksByViewUID map[string]LocationLock `json:"locksByViewUid,omitempty"`
	LocksDict      map[string]Lock         `json:"locksDict,omitempty"`
}

// ZoomLocks maps views to zoom locks.
type ZoomLocks struct {
	LocksByViewUID map[string]string `json:"locksByViewUid,omitempty"`
	LocksDict      map[string]Lock   `json:"locksDict,omitempty"`
}

// ValueScaleLocks maps views to value scale locks.
type ValueScaleLocks struct {
	LocksByViewUID map[string]string         `json:"locksByViewUid,omitempty"`
	LocksDict      map[string]ValueScaleLock `json:"locksDict,omitempty"`
}

func lockEntryNode() dsl.Node { return dsl.Tuple(dsl.Number(), dsl.Number(), dsl.Number()) }

var valueScaleLockEntryNode = onceNode(func() *dsl.ObjectNode {
	return dsl.Object("ValueScaleLockEntry").
		Field("view", dsl.String()).Required().
		Field("track", dsl.String()).Required().
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			view, _ := dsl.Get[string](v, "view")
			track, _ := dsl.Get[string](v, "track")
			return ValueScaleLockEntry{View: view, Track: track}, nil
		}).
		MustBuild()
})

var lockNode = onceNode(func() *dsl.ObjectNode {
	return dsl.Object("Lock").
		Field("uid", dsl.String()).
		Entries(lockEntryNode()).
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			l := Lock{UID: dsl.Ptr[string](v, "uid")}
			for _, e := range v.Extra {
				raw, _ := e.Value.([]any)
				var entry LockEntry
				for i := range entry {
					entry[i], _ = raw[i].(float64)
				}
				l.set(e.Key, entry)
			}
			return l, nil
		}).
		MustBuild()
})

var valueScaleLockNode = onceNode(func() *dsl.ObjectNode {
	return dsl.Object("ValueScaleLock").
		Field("uid", dsl.String()).
		Field("ignoreOffScreenValues", dsl.Bool()).
		Entries(valueScaleLockEntryNode()).
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			l := ValueScaleLock{
				UID:                   dsl.Ptr[string](v, "uid"),
				IgnoreOffScreenValues: dsl.Ptr[bool](v, "ignoreOffScreenValues"),
			}
			for _, e := range v.Extra {
				entry, _ := e.Value.(ValueScaleLockEntry)
				l.set(e.Key, entry)
			}
			return l, nil
		}).
		MustBuild()
})

var axisSpecificLockNode = onceNode(func() *dsl.ObjectNode {
	return dsl.Object("AxisSpecificLock").
		Field("axis", dsl.Literal(string(AxisX), string(AxisY))).Required().
		Field("lock", dsl.String()).Required().
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			axis, _ := dsl.Get[string](v, "axis")
			lock, _ := dsl.Get[string](v, "lock")
			return &AxisSpecificLock{Axis: Axis(axis), Lock: lock}, nil
		}).
		MustBuild()
})

var axisSpecificLocksNode = onceNode(func() *dsl.ObjectNode {
	return dsl.Object("AxisSpecificLocks").
		Field("x", axisSpecificLockNode()).
		Field("y", axisSpecificLockNode()).
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			out := &AxisSpecificLocks{}
			out.X, _ = dsl.Get[*AxisSpecificLock](v, "x")
			out.Y, _ = dsl.Get[*AxisSpecificLock](v, "y")
			return out, nil
		}).
		MustBuild()
})

var locationLockNode = onceNode(func() dsl.Node {
	return convert(dsl.Union(dsl.String(), axisSpecificLocksNode()), func(v any) any {
		if axes, ok := v.(*AxisSpecificLocks); ok {
			return LocationLock{Axes: axes}
		}
		id, _ := v.(string)
		return LocationLock{LockID: id}
	})
})

var locationLocksNode = onceNode(func() *dsl.ObjectNode {
	return dsl.Object("LocationLocks").
		Field("locksByViewUid", dsl.Map(locationLockNode())).
		Field("locksDict", dsl.Map(lockNode())).
		UnknownStrip().
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			return &LocationLocks{
				LocksByViewUID: mapOrEmpty[LocationLock](v, "locksByViewUid"),
				LocksDict:      mapOrEmpty[Lock](v, "locksDict"),
			}, nil
		}).
		MustBuild()
})

var zoomLocksNode = onceNode(func() *dsl.ObjectNode {
	return dsl.Object("ZoomLocks").
		Field("locksByViewUid", dsl.Map(dsl.String())).
		Field("locksDict", dsl.Map(lockNode())).
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			return &ZoomLocks{
				LocksByViewUID: mapOrEmpty[string](v, "locksByViewUid"),
				LocksDict:      mapOrEmpty[Lock](v, "locksDict"),
			}, nil
		}).
		MustBuild()
})

var valueScaleLocksNode = onceNode(func() *dsl.ObjectNode {
	return dsl.Object("ValueScaleLocks").
		Field("locksByViewUid", dsl.Map(dsl.String())).
		Field("locksDict", dsl.Map(valueScaleLockNode())).
		Bind(func(_ context.Context, v dsl.Values) (any, error) {
			return &ValueScaleLocks{
				LocksByViewUID: mapOrEmpty[string](v, "locksByViewUid"),
				LocksDict:      mapOrEmpty[ValueScaleLock](v, "locksDict"),
			}, nil
		}).
		MustBuild()
})

// ParseLock validates a decoded lock document. Each dynamic key must hold a
// list of three numbers; failures are reported at the offending key.
func ParseLock(ctx context.Context, v any) (Lock, error) { return LockSchema().Parse(ctx, v) }

// ParseValueScaleLock validates a decoded value scale lock document.
func ParseValueScaleLock(ctx context.Context, v any) (ValueScaleLock, error) {
	return ValueScaleLockSchema().Parse(ctx, v)
}

// LockSchema validates and builds a Lock.
func LockSchema() hgschema.Schema[Lock] { return modelSchema[Lock](lockNode()) }

// ValueScaleLockSchema validates and builds a ValueScaleLock.
func ValueScaleLockSchema() hgschema.Schema[ValueScaleLock] {
	return modelSchema[ValueScaleLock](valueScaleLockNode())
}

// AxisSpecificLockSchema validates and builds an AxisSpecificLock.
func AxisSpecificLockSchema() hgschema.Schema[*AxisSpecificLock] {
	return modelSchema[*AxisSpecificLock](axisSpecificLockNode())
}

// AxisSpecificLocksSchema validates and builds AxisSpecificLocks.
func AxisSpecificLocksSchema() hgschema.Schema[*AxisSpecificLocks] {
	return modelSchema[*AxisSpecificLocks](axisSpecificLocksNode())
}

// LocationLocksSchema validates and builds LocationLocks.
func LocationLocksSchema() hgschema.Schema[*LocationLocks] {
	return modelSchema[*LocationLocks](locationLocksNode())
}

// ZoomLocksSchema validates and builds ZoomLocks.
func ZoomLocksSchema() hgschema.Schema[*ZoomLocks] { return modelSchema[*ZoomLocks](zoomLocksNode()) }

// ValueScaleLocksSchema validates and builds ValueScaleLocks.
func ValueScaleLocksSchema() hgschema.Schema[*ValueScaleLocks] {
	return modelSchema[*ValueScaleLocks](valueScaleLocksNode())
}

func mapOrEmpty[T any](v dsl.Values, name string) map[string]T {
	if m := dsl.MapOf[T](v, name); m != nil {
		return m
	}
	return map[string]T{}
}
