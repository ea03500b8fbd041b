package variant

import (
	"math"

	"github.com/wirebound/gdext/errors"
	"github.com/wirebound/gdext/ffi"
)

// NarrowingPolicy decides what happens when a ptrcall writes a wide
// numeric value into a narrower declared slot. The host documents the
// behavior per build; the generic call path always validates.
type NarrowingPolicy uint8

const (
	// NarrowValidate rejects values outside the declared width.
	NarrowValidate NarrowingPolicy = iota
	// NarrowTruncate silently truncates, matching hosts that expect
	// C-style conversion.
	NarrowTruncate
)

type intRange struct {
	min, max int64
	unsigned bool
	umax     uint64
}

var intRanges = map[ffi.ArgumentMetadata]intRange{
	ffi.MetadataIntIsInt8:   {min: math.MinInt8, max: math.MaxInt8},
	ffi.MetadataIntIsInt16:  {min: math.MinInt16, max: math.MaxInt16},
	ffi.MetadataIntIsInt32:  {min: math.MinInt32, max: math.MaxInt32},
	ffi.MetadataIntIsInt64:  {min: math.MinInt64, max: math.MaxInt64},
	ffi.MetadataIntIsUint8:  {unsigned: true, umax: math.MaxUint8},
	ffi.MetadataIntIsUint16: {unsigned: true, umax: math.MaxUint16},
	ffi.MetadataIntIsUint32: {unsigned: true, umax: math.MaxUint32},
	ffi.MetadataIntIsUint64: {unsigned: true, umax: math.MaxUint64},
}

// CheckMetadata validates that v fits the concrete numeric width declared
// by md. MetadataNone always passes. Non-numeric kinds are unaffected by
// metadata and pass unchanged; kind checking is the caller's concern.
func CheckMetadata(v Value, md ffi.ArgumentMetadata) error {
	switch md {
	case ffi.MetadataNone:
		return nil
	case ffi.MetadataRealIsDouble:
		return nil
	case ffi.MetadataRealIsFloat:
		if v.kind != ffi.KindFloat {
			return nil
		}
		f := v.data.(float64)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}
		if f > math.MaxFloat32 || f < -math.MaxFloat32 {
			return errors.Overflow(errors.PhaseConvert, f, "float32")
		}
		return nil
	default:
		if v.kind != ffi.KindInt {
			return nil
		}
		r, ok := intRanges[md]
		if !ok {
			return errors.Unsupported(errors.PhaseConvert, "argument metadata "+md.String())
		}
		i := v.data.(int64)
		if r.unsigned {
			if i < 0 || (r.umax < math.MaxUint64 && uint64(i) > r.umax) {
				return errors.Overflow(errors.PhaseConvert, i, md.String())
			}
			return nil
		}
		if i < r.min || i > r.max {
			return errors.Overflow(errors.PhaseConvert, i, md.String())
		}
		return nil
	}
}

// NarrowInt applies the narrowing policy to an int64 heading into a slot
// declared with md. Under NarrowValidate an out-of-range value errors;
// under NarrowTruncate it wraps the way a C cast would.
func NarrowInt(x int64, md ffi.ArgumentMetadata, policy NarrowingPolicy) (int64, error) {
	if md == ffi.MetadataNone || md == ffi.MetadataIntIsInt64 {
		return x, nil
	}
	if policy == NarrowValidate {
		if err := CheckMetadata(NewInt(x), md); err != nil {
			return 0, err
		}
		return x, nil
	}
	switch md {
	case ffi.MetadataIntIsInt8:
		return int64(int8(x)), nil
	case ffi.MetadataIntIsInt16:
		return int64(int16(x)), nil
	case ffi.MetadataIntIsInt32:
		return int64(int32(x)), nil
	case ffi.MetadataIntIsUint8:
		return int64(uint8(x)), nil
	case ffi.MetadataIntIsUint16:
		return int64(uint16(x)), nil
	case ffi.MetadataIntIsUint32:
		return int64(uint32(x)), nil
	case ffi.MetadataIntIsUint64:
		return x, nil
	default:
		return x, nil
	}
}
