// Package mockgen turns a structural schema into a concrete mock value.
//
// Generation is driven entirely by a caller-supplied seed: for a fixed
// (schema, seed) pair the output is bit-for-bit identical across calls. The
// random stream is consumed in a single fixed traversal order (objects in
// property-declaration order, then arrays by index), so callers can rely on
// reproducible fixtures.
package mockgen
