package viewconf

import (
	"bytes"
	"iter"
	"slices"

	gojson "github.com/goccy/go-json"
)

// entries is an insertion-ordered mapping from view uid to a lock entry.
// Every write replaces the backing slice, so copies of a lock never observe
// each other's changes.
type entries[E any] struct {
	items []entry[E]
}

type entry[E any] struct {
	key string
	val E
}

func (e *entries[E]) index(key string) int {
	return slices.IndexFunc(e.items, func(it entry[E]) bool { return it.key == key })
}

func (e *entries[E]) set(key string, v E) {
	items := slices.Clone(e.items)
	if i := e.index(key); i >= 0 {
		items[i].val = v
	} else {
		items = append(items, entry[E]{key: key, val: v})
	}
	e.items = items
}

func (e *entries[E]) get(key string) (E, bool) {
	if i := e.index(key); i >= 0 {
		return e.items[i].val, true
	}
	var zero E
	return zero, false
}

func (e *entries[E]) delete(key string) bool {
	i := e.index(key)
	if i < 0 {
		return false
	}
	e.items = slices.Delete(slices.Clone(e.items), i, i+1)
	if len(e.items) == 0 {
		e.items = nil
	}
	return true
}

func (e *entries[E]) len() int { return len(e.items) }

func (e *entries[E]) all() iter.Seq2[string, E] {
	return func(yield func(string, E) bool) {
		for _, it := range e.items {
			if !yield(it.key, it.val) {
				return
			}
		}
	}
}

// reorder returns the entries with the listed keys first, in that order.
// Entries not listed keep their relative order after them.
func (e entries[E]) reorder(keys []string) entries[E] {
	if len(e.items) == 0 {
		return e
	}
	out := make([]entry[E], 0, len(e.items))
	seen := make(map[string]bool, len(e.items))
	for _, k := range keys {
		if i := e.index(k); i >= 0 && !seen[k] {
			out = append(out, e.items[i])
			seen[k] = true
		}
	}
	for _, it := range e.items {
		if !seen[it.key] {
			out = append(out, it)
		}
	}
	return entries[E]{items: out}
}

// field is one member of a serialized record.
type field struct {
	key string
	val any
}

// marshalRecord writes the declared fields followed by the dynamic entries,
// keeping both orders.
func marshalRecord[E any](fixed []field, e *entries[E]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	write := func(k string, v any) error {
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
		kb, err := gojson.Marshal(k)
		if err != nil {
			return err
		}
		vb, err := gojson.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return nil
	}
	for _, f := range fixed {
		if err := write(f.key, f.val); err != nil {
			return nil, err
		}
	}
	for k, v := range e.all() {
		if err := write(k, v); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
