//go:build gdext_single

package variant

// Real is the scalar used by math-type variants. This build uses 32-bit
// precision to match hosts compiled with single-precision floats.
type Real = float32

// RealIsDouble reports the precision this module was built with.
const RealIsDouble = false
