package variant

// Packed arrays are the engine's typed, contiguous element stores.
// Element order is preserved and storage is deep-copied on every boundary
// crossing; the two sides never share element memory.

type PackedByteArray []byte
type PackedInt32Array []int32
type PackedInt64Array []int64
type PackedFloat32Array []float32
type PackedFloat64Array []float64
type PackedStringArray []string
type PackedVector2Array []Vector2
type PackedVector3Array []Vector3
type PackedColorArray []Color

func (p PackedByteArray) Clone() PackedByteArray       { return clonePacked(p) }
func (p PackedInt32Array) Clone() PackedInt32Array     { return clonePacked(p) }
func (p PackedInt64Array) Clone() PackedInt64Array     { return clonePacked(p) }
func (p PackedFloat32Array) Clone() PackedFloat32Array { return clonePacked(p) }
func (p PackedFloat64Array) Clone() PackedFloat64Array { return clonePacked(p) }
func (p PackedStringArray) Clone() PackedStringArray   { return clonePacked(p) }
func (p PackedVector2Array) Clone() PackedVector2Array { return clonePacked(p) }
func (p PackedVector3Array) Clone() PackedVector3Array { return clonePacked(p) }
func (p PackedColorArray) Clone() PackedColorArray     { return clonePacked(p) }

func clonePacked[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	out := make(S, len(s))
	copy(out, s)
	return out
}
