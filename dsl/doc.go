// Package dsl provides declarative schema nodes for hgschema.
//
// Overview
//   - Every Node validates a decoded document (maps, slices, strings,
//     numbers, booleans, nil) and emits its own JSON Schema fragment, so the
//     runtime semantics and the exported schema come from one description.
//   - Builder API: declare object semantics (required/default/unknown
//     policy/refine) with Object(name).Field(...).Required().MustBuild().
//   - Dynamic keys: Entries(node) validates every undeclared key against one
//     node, which is how records mixing fixed fields with keyed entries are
//     described.
//   - Typed binding: Bind(fn) turns the validated Values of an object into a
//     Go value; Typed[T](node) adapts any node to hgschema.Schema[T].
//
// Entry points
//   - String()/Bool()/Number()/Integer()/Any()/Null()/Literal(...): scalars.
//   - Array(elem)/Tuple(elems...): lists with length bounds or fixed arity.
//   - Map(value)/MapAny(): objects keyed by arbitrary strings.
//   - Union(nodes...): ordered first match. Nullable(node), Lazy(fn).
//   - Document(node): assemble a standalone draft-07 schema with definitions.
//
// Design guidelines
//   - Issues carry root-relative JSON Pointers; parents rebase child issues.
//   - Named objects become definitions and are referenced with $ref, which
//     also terminates recursion through Lazy.
//   - Optional fields treat an explicit null like an absent key.
package dsl
