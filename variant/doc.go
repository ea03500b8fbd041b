// Package variant implements the codec between native Go values and the
// engine's dynamic variant representation.
//
// Value is a closed sum over the engine's variant kinds. Every native
// type that crosses the boundary maps to exactly one canonical kind;
// accessors fail with a conversion error when the runtime kind does not
// match, they never coerce silently. The one sanctioned exception is the
// numeric-width metadata carried by method descriptors, which refines a
// generic int/float kind for bounds checking (see CheckMetadata).
//
// Codec moves Values across the boundary through the interface table's
// per-kind constructors. Collection payloads are deep-copied on every
// crossing; the two sides never alias element storage. Whoever constructs
// a host variant destroys it, unless ownership is handed over.
//
// Math types use the Real scalar, float64 by default and float32 under
// the gdext_single build tag. One module build is internally consistent
// about the precision of its math-type variants.
package variant
