//go:build !gdext_single

package variant

// Real is the scalar used by math-type variants. This build uses 64-bit
// precision; build with -tags gdext_single for 32-bit hosts.
type Real = float64

// RealIsDouble reports the precision this module was built with.
const RealIsDouble = true
