package variant

import (
	"fmt"
	"math"

	"github.com/wirebound/gdext/errors"
	"github.com/wirebound/gdext/ffi"
)

// Value is the native representation of one engine variant: a kind tag
// plus the payload for that kind. The zero Value is nil.
type Value struct {
	data any
	kind ffi.VariantKind
}

// Kind returns the discriminant tag.
func (v Value) Kind() ffi.VariantKind {
	return v.kind
}

// IsNil reports whether the value holds the nil kind.
func (v Value) IsNil() bool {
	return v.kind == ffi.KindNil
}

// Constructors. Collection payloads are copied so the Value owns its
// storage independently of the caller's slice.

func NewNil() Value               { return Value{} }
func NewBool(b bool) Value        { return Value{kind: ffi.KindBool, data: b} }
func NewInt(i int64) Value        { return Value{kind: ffi.KindInt, data: i} }
func NewFloat(f float64) Value    { return Value{kind: ffi.KindFloat, data: f} }
func NewString(s string) Value    { return Value{kind: ffi.KindString, data: s} }
func NewVector2(x Vector2) Value  { return Value{kind: ffi.KindVector2, data: x} }
func NewVector2i(x Vector2i) Value {
	return Value{kind: ffi.KindVector2i, data: x}
}
func NewRect2(x Rect2) Value   { return Value{kind: ffi.KindRect2, data: x} }
func NewRect2i(x Rect2i) Value { return Value{kind: ffi.KindRect2i, data: x} }
func NewVector3(x Vector3) Value {
	return Value{kind: ffi.KindVector3, data: x}
}
func NewVector3i(x Vector3i) Value {
	return Value{kind: ffi.KindVector3i, data: x}
}
func NewTransform2D(x Transform2D) Value {
	return Value{kind: ffi.KindTransform2D, data: x}
}
func NewVector4(x Vector4) Value {
	return Value{kind: ffi.KindVector4, data: x}
}
func NewVector4i(x Vector4i) Value {
	return Value{kind: ffi.KindVector4i, data: x}
}
func NewPlane(x Plane) Value { return Value{kind: ffi.KindPlane, data: x} }
func NewQuaternion(x Quaternion) Value {
	return Value{kind: ffi.KindQuaternion, data: x}
}
func NewAABB(x AABB) Value   { return Value{kind: ffi.KindAABB, data: x} }
func NewBasis(x Basis) Value { return Value{kind: ffi.KindBasis, data: x} }
func NewTransform3D(x Transform3D) Value {
	return Value{kind: ffi.KindTransform3D, data: x}
}
func NewProjection(x Projection) Value {
	return Value{kind: ffi.KindProjection, data: x}
}
func NewColor(x Color) Value { return Value{kind: ffi.KindColor, data: x} }
func NewStringName(n StringName) Value {
	return Value{kind: ffi.KindStringName, data: n}
}
func NewNodePath(p NodePath) Value {
	return Value{kind: ffi.KindNodePath, data: p}
}
func NewRID(r ffi.RID) Value { return Value{kind: ffi.KindRID, data: r} }
func NewObject(o ffi.ObjectPtr) Value {
	return Value{kind: ffi.KindObject, data: o}
}
func NewCallable(c Callable) Value {
	return Value{kind: ffi.KindCallable, data: c}
}
func NewSignal(s Signal) Value { return Value{kind: ffi.KindSignal, data: s} }
func NewDictionary(d *Dictionary) Value {
	if d == nil {
		d = &Dictionary{}
	}
	return Value{kind: ffi.KindDictionary, data: d}
}
func NewArray(a Array) Value {
	return Value{kind: ffi.KindArray, data: a.Clone()}
}

func NewPackedByteArray(p PackedByteArray) Value {
	return Value{kind: ffi.KindPackedByteArray, data: p.Clone()}
}
func NewPackedInt32Array(p PackedInt32Array) Value {
	return Value{kind: ffi.KindPackedInt32Array, data: p.Clone()}
}
func NewPackedInt64Array(p PackedInt64Array) Value {
	return Value{kind: ffi.KindPackedInt64Array, data: p.Clone()}
}
func NewPackedFloat32Array(p PackedFloat32Array) Value {
	return Value{kind: ffi.KindPackedFloat32Array, data: p.Clone()}
}
func NewPackedFloat64Array(p PackedFloat64Array) Value {
	return Value{kind: ffi.KindPackedFloat64Array, data: p.Clone()}
}
func NewPackedStringArray(p PackedStringArray) Value {
	return Value{kind: ffi.KindPackedStringArray, data: p.Clone()}
}
func NewPackedVector2Array(p PackedVector2Array) Value {
	return Value{kind: ffi.KindPackedVector2Array, data: p.Clone()}
}
func NewPackedVector3Array(p PackedVector3Array) Value {
	return Value{kind: ffi.KindPackedVector3Array, data: p.Clone()}
}
func NewPackedColorArray(p PackedColorArray) Value {
	return Value{kind: ffi.KindPackedColorArray, data: p.Clone()}
}

// From converts a native Go value to its canonical variant kind. Integer
// widths widen to int64; uint64 values beyond the int64 range are an
// overflow error, not a wrap.
func From(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NewNil(), nil
	case Value:
		return t, nil
	case bool:
		return NewBool(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int8:
		return NewInt(int64(t)), nil
	case int16:
		return NewInt(int64(t)), nil
	case int32:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case uint8:
		return NewInt(int64(t)), nil
	case uint16:
		return NewInt(int64(t)), nil
	case uint32:
		return NewInt(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return NewNil(), errors.Overflow(errors.PhaseConvert, t, "int64")
		}
		return NewInt(int64(t)), nil
	case float32:
		return NewFloat(float64(t)), nil
	case float64:
		return NewFloat(t), nil
	case string:
		return NewString(t), nil
	case StringName:
		return NewStringName(t), nil
	case NodePath:
		return NewNodePath(t), nil
	case Vector2:
		return NewVector2(t), nil
	case Vector2i:
		return NewVector2i(t), nil
	case Rect2:
		return NewRect2(t), nil
	case Rect2i:
		return NewRect2i(t), nil
	case Vector3:
		return NewVector3(t), nil
	case Vector3i:
		return NewVector3i(t), nil
	case Transform2D:
		return NewTransform2D(t), nil
	case Vector4:
		return NewVector4(t), nil
	case Vector4i:
		return NewVector4i(t), nil
	case Plane:
		return NewPlane(t), nil
	case Quaternion:
		return NewQuaternion(t), nil
	case AABB:
		return NewAABB(t), nil
	case Basis:
		return NewBasis(t), nil
	case Transform3D:
		return NewTransform3D(t), nil
	case Projection:
		return NewProjection(t), nil
	case Color:
		return NewColor(t), nil
	case ffi.RID:
		return NewRID(t), nil
	case ffi.ObjectPtr:
		return NewObject(t), nil
	case Callable:
		return NewCallable(t), nil
	case Signal:
		return NewSignal(t), nil
	case *Dictionary:
		return NewDictionary(t), nil
	case Array:
		return NewArray(t), nil
	case []Value:
		return NewArray(Array(t)), nil
	case PackedByteArray:
		return NewPackedByteArray(t), nil
	case []byte:
		return NewPackedByteArray(PackedByteArray(t)), nil
	case PackedInt32Array:
		return NewPackedInt32Array(t), nil
	case []int32:
		return NewPackedInt32Array(PackedInt32Array(t)), nil
	case PackedInt64Array:
		return NewPackedInt64Array(t), nil
	case []int64:
		return NewPackedInt64Array(PackedInt64Array(t)), nil
	case PackedFloat32Array:
		return NewPackedFloat32Array(t), nil
	case []float32:
		return NewPackedFloat32Array(PackedFloat32Array(t)), nil
	case PackedFloat64Array:
		return NewPackedFloat64Array(t), nil
	case []float64:
		return NewPackedFloat64Array(PackedFloat64Array(t)), nil
	case PackedStringArray:
		return NewPackedStringArray(t), nil
	case []string:
		return NewPackedStringArray(PackedStringArray(t)), nil
	case PackedVector2Array:
		return NewPackedVector2Array(t), nil
	case []Vector2:
		return NewPackedVector2Array(PackedVector2Array(t)), nil
	case PackedVector3Array:
		return NewPackedVector3Array(t), nil
	case []Vector3:
		return NewPackedVector3Array(PackedVector3Array(t)), nil
	case PackedColorArray:
		return NewPackedColorArray(t), nil
	case []Color:
		return NewPackedColorArray(PackedColorArray(t)), nil
	default:
		return NewNil(), errors.New(errors.PhaseConvert, errors.KindUnsupported).
			Detail("no canonical variant kind for Go type %T", x).
			Build()
	}
}

func (v Value) mismatch(expected ffi.VariantKind) error {
	return errors.KindMismatchErr(errors.PhaseConvert, expected.String(), v.kind.String())
}

// Typed accessors. Each fails when the runtime kind differs from the
// accessor's kind; no silent coercion happens here.

func (v Value) AsBool() (bool, error) {
	if v.kind != ffi.KindBool {
		return false, v.mismatch(ffi.KindBool)
	}
	return v.data.(bool), nil
}

func (v Value) AsInt() (int64, error) {
	if v.kind != ffi.KindInt {
		return 0, v.mismatch(ffi.KindInt)
	}
	return v.data.(int64), nil
}

func (v Value) AsFloat() (float64, error) {
	if v.kind != ffi.KindFloat {
		return 0, v.mismatch(ffi.KindFloat)
	}
	return v.data.(float64), nil
}

func (v Value) AsString() (string, error) {
	if v.kind != ffi.KindString {
		return "", v.mismatch(ffi.KindString)
	}
	return v.data.(string), nil
}

func (v Value) AsVector2() (Vector2, error) {
	if v.kind != ffi.KindVector2 {
		return Vector2{}, v.mismatch(ffi.KindVector2)
	}
	return v.data.(Vector2), nil
}

func (v Value) AsVector2i() (Vector2i, error) {
	if v.kind != ffi.KindVector2i {
		return Vector2i{}, v.mismatch(ffi.KindVector2i)
	}
	return v.data.(Vector2i), nil
}

func (v Value) AsRect2() (Rect2, error) {
	if v.kind != ffi.KindRect2 {
		return Rect2{}, v.mismatch(ffi.KindRect2)
	}
	return v.data.(Rect2), nil
}

func (v Value) AsRect2i() (Rect2i, error) {
	if v.kind != ffi.KindRect2i {
		return Rect2i{}, v.mismatch(ffi.KindRect2i)
	}
	return v.data.(Rect2i), nil
}

func (v Value) AsVector3() (Vector3, error) {
	if v.kind != ffi.KindVector3 {
		return Vector3{}, v.mismatch(ffi.KindVector3)
	}
	return v.data.(Vector3), nil
}

func (v Value) AsVector3i() (Vector3i, error) {
	if v.kind != ffi.KindVector3i {
		return Vector3i{}, v.mismatch(ffi.KindVector3i)
	}
	return v.data.(Vector3i), nil
}

func (v Value) AsTransform2D() (Transform2D, error) {
	if v.kind != ffi.KindTransform2D {
		return Transform2D{}, v.mismatch(ffi.KindTransform2D)
	}
	return v.data.(Transform2D), nil
}

func (v Value) AsVector4() (Vector4, error) {
	if v.kind != ffi.KindVector4 {
		return Vector4{}, v.mismatch(ffi.KindVector4)
	}
	return v.data.(Vector4), nil
}

func (v Value) AsVector4i() (Vector4i, error) {
	if v.kind != ffi.KindVector4i {
		return Vector4i{}, v.mismatch(ffi.KindVector4i)
	}
	return v.data.(Vector4i), nil
}

func (v Value) AsPlane() (Plane, error) {
	if v.kind != ffi.KindPlane {
		return Plane{}, v.mismatch(ffi.KindPlane)
	}
	return v.data.(Plane), nil
}

func (v Value) AsQuaternion() (Quaternion, error) {
	if v.kind != ffi.KindQuaternion {
		return Quaternion{}, v.mismatch(ffi.KindQuaternion)
	}
	return v.data.(Quaternion), nil
}

func (v Value) AsAABB() (AABB, error) {
	if v.kind != ffi.KindAABB {
		return AABB{}, v.mismatch(ffi.KindAABB)
	}
	return v.data.(AABB), nil
}

func (v Value) AsBasis() (Basis, error) {
	if v.kind != ffi.KindBasis {
		return Basis{}, v.mismatch(ffi.KindBasis)
	}
	return v.data.(Basis), nil
}

func (v Value) AsTransform3D() (Transform3D, error) {
	if v.kind != ffi.KindTransform3D {
		return Transform3D{}, v.mismatch(ffi.KindTransform3D)
	}
	return v.data.(Transform3D), nil
}

func (v Value) AsProjection() (Projection, error) {
	if v.kind != ffi.KindProjection {
		return Projection{}, v.mismatch(ffi.KindProjection)
	}
	return v.data.(Projection), nil
}

func (v Value) AsColor() (Color, error) {
	if v.kind != ffi.KindColor {
		return Color{}, v.mismatch(ffi.KindColor)
	}
	return v.data.(Color), nil
}

func (v Value) AsStringName() (StringName, error) {
	if v.kind != ffi.KindStringName {
		return "", v.mismatch(ffi.KindStringName)
	}
	return v.data.(StringName), nil
}

func (v Value) AsNodePath() (NodePath, error) {
	if v.kind != ffi.KindNodePath {
		return "", v.mismatch(ffi.KindNodePath)
	}
	return v.data.(NodePath), nil
}

func (v Value) AsObject() (ffi.ObjectPtr, error) {
	if v.kind != ffi.KindObject {
		return nil, v.mismatch(ffi.KindObject)
	}
	return v.data.(ffi.ObjectPtr), nil
}

func (v Value) AsRID() (ffi.RID, error) {
	if v.kind != ffi.KindRID {
		return 0, v.mismatch(ffi.KindRID)
	}
	return v.data.(ffi.RID), nil
}

func (v Value) AsCallable() (Callable, error) {
	if v.kind != ffi.KindCallable {
		return Callable{}, v.mismatch(ffi.KindCallable)
	}
	return v.data.(Callable), nil
}

func (v Value) AsSignal() (Signal, error) {
	if v.kind != ffi.KindSignal {
		return Signal{}, v.mismatch(ffi.KindSignal)
	}
	return v.data.(Signal), nil
}

func (v Value) AsDictionary() (*Dictionary, error) {
	if v.kind != ffi.KindDictionary {
		return nil, v.mismatch(ffi.KindDictionary)
	}
	return v.data.(*Dictionary), nil
}

// AsArray returns a copy of the array payload.
func (v Value) AsArray() (Array, error) {
	if v.kind != ffi.KindArray {
		return nil, v.mismatch(ffi.KindArray)
	}
	return v.data.(Array).Clone(), nil
}

// AsPackedByteArray returns a copy of the payload. The same copy
// discipline applies to every packed accessor below.
func (v Value) AsPackedByteArray() (PackedByteArray, error) {
	if v.kind != ffi.KindPackedByteArray {
		return nil, v.mismatch(ffi.KindPackedByteArray)
	}
	return v.data.(PackedByteArray).Clone(), nil
}

func (v Value) AsPackedInt32Array() (PackedInt32Array, error) {
	if v.kind != ffi.KindPackedInt32Array {
		return nil, v.mismatch(ffi.KindPackedInt32Array)
	}
	return v.data.(PackedInt32Array).Clone(), nil
}

func (v Value) AsPackedInt64Array() (PackedInt64Array, error) {
	if v.kind != ffi.KindPackedInt64Array {
		return nil, v.mismatch(ffi.KindPackedInt64Array)
	}
	return v.data.(PackedInt64Array).Clone(), nil
}

func (v Value) AsPackedFloat32Array() (PackedFloat32Array, error) {
	if v.kind != ffi.KindPackedFloat32Array {
		return nil, v.mismatch(ffi.KindPackedFloat32Array)
	}
	return v.data.(PackedFloat32Array).Clone(), nil
}

func (v Value) AsPackedFloat64Array() (PackedFloat64Array, error) {
	if v.kind != ffi.KindPackedFloat64Array {
		return nil, v.mismatch(ffi.KindPackedFloat64Array)
	}
	return v.data.(PackedFloat64Array).Clone(), nil
}

func (v Value) AsPackedStringArray() (PackedStringArray, error) {
	if v.kind != ffi.KindPackedStringArray {
		return nil, v.mismatch(ffi.KindPackedStringArray)
	}
	return v.data.(PackedStringArray).Clone(), nil
}

func (v Value) AsPackedVector2Array() (PackedVector2Array, error) {
	if v.kind != ffi.KindPackedVector2Array {
		return nil, v.mismatch(ffi.KindPackedVector2Array)
	}
	return v.data.(PackedVector2Array).Clone(), nil
}

func (v Value) AsPackedVector3Array() (PackedVector3Array, error) {
	if v.kind != ffi.KindPackedVector3Array {
		return nil, v.mismatch(ffi.KindPackedVector3Array)
	}
	return v.data.(PackedVector3Array).Clone(), nil
}

func (v Value) AsPackedColorArray() (PackedColorArray, error) {
	if v.kind != ffi.KindPackedColorArray {
		return nil, v.mismatch(ffi.KindPackedColorArray)
	}
	return v.data.(PackedColorArray).Clone(), nil
}

// Equal reports payload equality. Unlike the engine's == operator it
// treats NaN as equal to NaN, so a round-tripped value compares equal to
// its source.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ffi.KindNil:
		return true
	case ffi.KindFloat:
		return floatEqual(v.data.(float64), o.data.(float64))
	case ffi.KindDictionary:
		return v.data.(*Dictionary).Equal(o.data.(*Dictionary))
	case ffi.KindArray:
		return v.data.(Array).Equal(o.data.(Array))
	case ffi.KindPackedByteArray:
		return sliceEqual(v.data.(PackedByteArray), o.data.(PackedByteArray), func(a, b byte) bool { return a == b })
	case ffi.KindPackedInt32Array:
		return sliceEqual(v.data.(PackedInt32Array), o.data.(PackedInt32Array), func(a, b int32) bool { return a == b })
	case ffi.KindPackedInt64Array:
		return sliceEqual(v.data.(PackedInt64Array), o.data.(PackedInt64Array), func(a, b int64) bool { return a == b })
	case ffi.KindPackedFloat32Array:
		return sliceEqual(v.data.(PackedFloat32Array), o.data.(PackedFloat32Array), func(a, b float32) bool {
			return floatEqual(float64(a), float64(b))
		})
	case ffi.KindPackedFloat64Array:
		return sliceEqual(v.data.(PackedFloat64Array), o.data.(PackedFloat64Array), floatEqual)
	case ffi.KindPackedStringArray:
		return sliceEqual(v.data.(PackedStringArray), o.data.(PackedStringArray), func(a, b string) bool { return a == b })
	case ffi.KindPackedVector2Array:
		return sliceEqual(v.data.(PackedVector2Array), o.data.(PackedVector2Array), func(a, b Vector2) bool { return a == b })
	case ffi.KindPackedVector3Array:
		return sliceEqual(v.data.(PackedVector3Array), o.data.(PackedVector3Array), func(a, b Vector3) bool { return a == b })
	case ffi.KindPackedColorArray:
		return sliceEqual(v.data.(PackedColorArray), o.data.(PackedColorArray), func(a, b Color) bool { return a == b })
	default:
		return v.data == o.data
	}
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

func sliceEqual[E any](a, b []E, eq func(E, E) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

// String returns a debug representation; it is not the engine's
// stringification.
func (v Value) String() string {
	if v.kind == ffi.KindNil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%v)", v.kind, v.data)
}
