package variant

import (
	"unsafe"

	"github.com/wirebound/gdext/errors"
	"github.com/wirebound/gdext/ffi"
)

// Codec moves Values across the boundary through the interface table's
// per-kind constructors. The constructors are fetched once at build time;
// after that the codec is read-only and safe for concurrent use.
type Codec struct {
	table *ffi.InterfaceTable
	from  [ffi.KindMax]ffi.VariantFromTypeConstructor
	to    [ffi.KindMax]ffi.TypeFromVariantConstructor
}

// NewCodec prefetches the per-kind constructors from the table.
func NewCodec(table *ffi.InterfaceTable) *Codec {
	c := &Codec{table: table}
	for k := ffi.KindBool; k < ffi.KindMax; k++ {
		c.from[k] = table.GetVariantFromTypeConstructor(k)
		c.to[k] = table.GetVariantToTypeConstructor(k)
	}
	return c
}

// Lower writes v into the host variant cell at dst. The caller owns dst
// and is responsible for destroying it, unless ownership is transferred
// to the host by the surrounding call.
func (c *Codec) Lower(v Value, dst ffi.VariantPtr) error {
	if v.IsNil() {
		c.table.VariantNewNil(dst)
		return nil
	}
	ctor := c.from[v.kind]
	if ctor == nil {
		return errors.Unsupported(errors.PhaseConvert, "host provides no constructor for kind "+v.kind.String())
	}
	cell := RawCell(v.kind)
	StoreRaw(v, cell)
	ctor(dst, cell)
	return nil
}

// LowerNew allocates a fresh variant cell, lowers v into it, and hands
// the cell to the caller, who must destroy it.
func (c *Codec) LowerNew(v Value) (ffi.VariantPtr, error) {
	cell := ffi.AllocVariant()
	if err := c.Lower(v, cell); err != nil {
		return nil, err
	}
	return cell, nil
}

// Lift reads the host variant at src into a Value. Collection payloads
// are copied out; src stays owned by its creator.
func (c *Codec) Lift(src ffi.ConstVariantPtr) (Value, error) {
	kind := c.table.VariantGetType(src)
	if kind == ffi.KindNil {
		return NewNil(), nil
	}
	if !kind.Valid() {
		return NewNil(), errors.InvalidInput(errors.PhaseConvert, "host variant has out-of-range kind")
	}
	conv := c.to[kind]
	if conv == nil {
		return NewNil(), errors.Unsupported(errors.PhaseConvert, "host provides no extractor for kind "+kind.String())
	}
	cell := RawCell(kind)
	conv(cell, ffi.VariantPtr(src))
	return LoadRaw(kind, ffi.ConstTypePtr(cell)), nil
}

// LiftExpect lifts src and fails with a kind mismatch when the variant's
// runtime kind differs from expected. This is the from_variant side of
// the codec contract used by argument validation.
func (c *Codec) LiftExpect(src ffi.ConstVariantPtr, expected ffi.VariantKind) (Value, error) {
	kind := c.table.VariantGetType(src)
	if kind != expected {
		return NewNil(), errors.KindMismatchErr(errors.PhaseConvert, expected.String(), kind.String())
	}
	return c.Lift(src)
}

// Destroy releases a variant cell this side constructed.
func (c *Codec) Destroy(v ffi.VariantPtr) {
	c.table.VariantDestroy(v)
}

// RawCell allocates zeroed native storage for one value of the given
// kind, laid out the way ptrcall arguments and per-kind constructors
// expect it.
func RawCell(kind ffi.VariantKind) ffi.TypePtr {
	var p unsafe.Pointer
	switch kind {
	case ffi.KindBool:
		p = unsafe.Pointer(new(bool))
	case ffi.KindInt:
		p = unsafe.Pointer(new(int64))
	case ffi.KindFloat:
		p = unsafe.Pointer(new(float64))
	case ffi.KindString:
		p = unsafe.Pointer(new(string))
	case ffi.KindVector2:
		p = unsafe.Pointer(new(Vector2))
	case ffi.KindVector2i:
		p = unsafe.Pointer(new(Vector2i))
	case ffi.KindRect2:
		p = unsafe.Pointer(new(Rect2))
	case ffi.KindRect2i:
		p = unsafe.Pointer(new(Rect2i))
	case ffi.KindVector3:
		p = unsafe.Pointer(new(Vector3))
	case ffi.KindVector3i:
		p = unsafe.Pointer(new(Vector3i))
	case ffi.KindTransform2D:
		p = unsafe.Pointer(new(Transform2D))
	case ffi.KindVector4:
		p = unsafe.Pointer(new(Vector4))
	case ffi.KindVector4i:
		p = unsafe.Pointer(new(Vector4i))
	case ffi.KindPlane:
		p = unsafe.Pointer(new(Plane))
	case ffi.KindQuaternion:
		p = unsafe.Pointer(new(Quaternion))
	case ffi.KindAABB:
		p = unsafe.Pointer(new(AABB))
	case ffi.KindBasis:
		p = unsafe.Pointer(new(Basis))
	case ffi.KindTransform3D:
		p = unsafe.Pointer(new(Transform3D))
	case ffi.KindProjection:
		p = unsafe.Pointer(new(Projection))
	case ffi.KindColor:
		p = unsafe.Pointer(new(Color))
	case ffi.KindStringName:
		p = unsafe.Pointer(new(StringName))
	case ffi.KindNodePath:
		p = unsafe.Pointer(new(NodePath))
	case ffi.KindRID:
		p = unsafe.Pointer(new(ffi.RID))
	case ffi.KindObject:
		p = unsafe.Pointer(new(ffi.ObjectPtr))
	case ffi.KindCallable:
		p = unsafe.Pointer(new(Callable))
	case ffi.KindSignal:
		p = unsafe.Pointer(new(Signal))
	case ffi.KindDictionary:
		p = unsafe.Pointer(new(*Dictionary))
	case ffi.KindArray:
		p = unsafe.Pointer(new(Array))
	case ffi.KindPackedByteArray:
		p = unsafe.Pointer(new(PackedByteArray))
	case ffi.KindPackedInt32Array:
		p = unsafe.Pointer(new(PackedInt32Array))
	case ffi.KindPackedInt64Array:
		p = unsafe.Pointer(new(PackedInt64Array))
	case ffi.KindPackedFloat32Array:
		p = unsafe.Pointer(new(PackedFloat32Array))
	case ffi.KindPackedFloat64Array:
		p = unsafe.Pointer(new(PackedFloat64Array))
	case ffi.KindPackedStringArray:
		p = unsafe.Pointer(new(PackedStringArray))
	case ffi.KindPackedVector2Array:
		p = unsafe.Pointer(new(PackedVector2Array))
	case ffi.KindPackedVector3Array:
		p = unsafe.Pointer(new(PackedVector3Array))
	case ffi.KindPackedColorArray:
		p = unsafe.Pointer(new(PackedColorArray))
	default:
		return nil
	}
	return ffi.TypePtr(p)
}

// StoreRaw writes v's payload into the native storage at p, which must
// have v's kind layout. Collection payloads are copied in. A nil p is a
// no-op so callers can pass through an absent return slot.
func StoreRaw(v Value, p ffi.TypePtr) {
	if p == nil || v.kind == ffi.KindNil {
		return
	}
	u := unsafe.Pointer(p)
	switch v.kind {
	case ffi.KindBool:
		*(*bool)(u) = v.data.(bool)
	case ffi.KindInt:
		*(*int64)(u) = v.data.(int64)
	case ffi.KindFloat:
		*(*float64)(u) = v.data.(float64)
	case ffi.KindString:
		*(*string)(u) = v.data.(string)
	case ffi.KindVector2:
		*(*Vector2)(u) = v.data.(Vector2)
	case ffi.KindVector2i:
		*(*Vector2i)(u) = v.data.(Vector2i)
	case ffi.KindRect2:
		*(*Rect2)(u) = v.data.(Rect2)
	case ffi.KindRect2i:
		*(*Rect2i)(u) = v.data.(Rect2i)
	case ffi.KindVector3:
		*(*Vector3)(u) = v.data.(Vector3)
	case ffi.KindVector3i:
		*(*Vector3i)(u) = v.data.(Vector3i)
	case ffi.KindTransform2D:
		*(*Transform2D)(u) = v.data.(Transform2D)
	case ffi.KindVector4:
		*(*Vector4)(u) = v.data.(Vector4)
	case ffi.KindVector4i:
		*(*Vector4i)(u) = v.data.(Vector4i)
	case ffi.KindPlane:
		*(*Plane)(u) = v.data.(Plane)
	case ffi.KindQuaternion:
		*(*Quaternion)(u) = v.data.(Quaternion)
	case ffi.KindAABB:
		*(*AABB)(u) = v.data.(AABB)
	case ffi.KindBasis:
		*(*Basis)(u) = v.data.(Basis)
	case ffi.KindTransform3D:
		*(*Transform3D)(u) = v.data.(Transform3D)
	case ffi.KindProjection:
		*(*Projection)(u) = v.data.(Projection)
	case ffi.KindColor:
		*(*Color)(u) = v.data.(Color)
	case ffi.KindStringName:
		*(*StringName)(u) = v.data.(StringName)
	case ffi.KindNodePath:
		*(*NodePath)(u) = v.data.(NodePath)
	case ffi.KindRID:
		*(*ffi.RID)(u) = v.data.(ffi.RID)
	case ffi.KindObject:
		*(*ffi.ObjectPtr)(u) = v.data.(ffi.ObjectPtr)
	case ffi.KindCallable:
		*(*Callable)(u) = v.data.(Callable)
	case ffi.KindSignal:
		*(*Signal)(u) = v.data.(Signal)
	case ffi.KindDictionary:
		*(**Dictionary)(u) = v.data.(*Dictionary).Clone()
	case ffi.KindArray:
		*(*Array)(u) = v.data.(Array).Clone()
	case ffi.KindPackedByteArray:
		*(*PackedByteArray)(u) = v.data.(PackedByteArray).Clone()
	case ffi.KindPackedInt32Array:
		*(*PackedInt32Array)(u) = v.data.(PackedInt32Array).Clone()
	case ffi.KindPackedInt64Array:
		*(*PackedInt64Array)(u) = v.data.(PackedInt64Array).Clone()
	case ffi.KindPackedFloat32Array:
		*(*PackedFloat32Array)(u) = v.data.(PackedFloat32Array).Clone()
	case ffi.KindPackedFloat64Array:
		*(*PackedFloat64Array)(u) = v.data.(PackedFloat64Array).Clone()
	case ffi.KindPackedStringArray:
		*(*PackedStringArray)(u) = v.data.(PackedStringArray).Clone()
	case ffi.KindPackedVector2Array:
		*(*PackedVector2Array)(u) = v.data.(PackedVector2Array).Clone()
	case ffi.KindPackedVector3Array:
		*(*PackedVector3Array)(u) = v.data.(PackedVector3Array).Clone()
	case ffi.KindPackedColorArray:
		*(*PackedColorArray)(u) = v.data.(PackedColorArray).Clone()
	}
}

// LoadRaw reads native storage with the given kind's layout into a
// Value, copying collection payloads out.
func LoadRaw(kind ffi.VariantKind, p ffi.ConstTypePtr) Value {
	if p == nil || kind == ffi.KindNil {
		return NewNil()
	}
	u := unsafe.Pointer(p)
	switch kind {
	case ffi.KindBool:
		return NewBool(*(*bool)(u))
	case ffi.KindInt:
		return NewInt(*(*int64)(u))
	case ffi.KindFloat:
		return NewFloat(*(*float64)(u))
	case ffi.KindString:
		return NewString(*(*string)(u))
	case ffi.KindVector2:
		return NewVector2(*(*Vector2)(u))
	case ffi.KindVector2i:
		return NewVector2i(*(*Vector2i)(u))
	case ffi.KindRect2:
		return NewRect2(*(*Rect2)(u))
	case ffi.KindRect2i:
		return NewRect2i(*(*Rect2i)(u))
	case ffi.KindVector3:
		return NewVector3(*(*Vector3)(u))
	case ffi.KindVector3i:
		return NewVector3i(*(*Vector3i)(u))
	case ffi.KindTransform2D:
		return NewTransform2D(*(*Transform2D)(u))
	case ffi.KindVector4:
		return NewVector4(*(*Vector4)(u))
	case ffi.KindVector4i:
		return NewVector4i(*(*Vector4i)(u))
	case ffi.KindPlane:
		return NewPlane(*(*Plane)(u))
	case ffi.KindQuaternion:
		return NewQuaternion(*(*Quaternion)(u))
	case ffi.KindAABB:
		return NewAABB(*(*AABB)(u))
	case ffi.KindBasis:
		return NewBasis(*(*Basis)(u))
	case ffi.KindTransform3D:
		return NewTransform3D(*(*Transform3D)(u))
	case ffi.KindProjection:
		return NewProjection(*(*Projection)(u))
	case ffi.KindColor:
		return NewColor(*(*Color)(u))
	case ffi.KindStringName:
		return NewStringName(*(*StringName)(u))
	case ffi.KindNodePath:
		return NewNodePath(*(*NodePath)(u))
	case ffi.KindRID:
		return NewRID(*(*ffi.RID)(u))
	case ffi.KindObject:
		return NewObject(*(*ffi.ObjectPtr)(u))
	case ffi.KindCallable:
		return NewCallable(*(*Callable)(u))
	case ffi.KindSignal:
		return NewSignal(*(*Signal)(u))
	case ffi.KindDictionary:
		return NewDictionary((*(**Dictionary)(u)).Clone())
	case ffi.KindArray:
		return NewArray(*(*Array)(u))
	case ffi.KindPackedByteArray:
		return NewPackedByteArray(*(*PackedByteArray)(u))
	case ffi.KindPackedInt32Array:
		return NewPackedInt32Array(*(*PackedInt32Array)(u))
	case ffi.KindPackedInt64Array:
		return NewPackedInt64Array(*(*PackedInt64Array)(u))
	case ffi.KindPackedFloat32Array:
		return NewPackedFloat32Array(*(*PackedFloat32Array)(u))
	case ffi.KindPackedFloat64Array:
		return NewPackedFloat64Array(*(*PackedFloat64Array)(u))
	case ffi.KindPackedStringArray:
		return NewPackedStringArray(*(*PackedStringArray)(u))
	case ffi.KindPackedVector2Array:
		return NewPackedVector2Array(*(*PackedVector2Array)(u))
	case ffi.KindPackedVector3Array:
		return NewPackedVector3Array(*(*PackedVector3Array)(u))
	case ffi.KindPackedColorArray:
		return NewPackedColorArray(*(*PackedColorArray)(u))
	default:
		return NewNil()
	}
}
