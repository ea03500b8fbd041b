package ffi

import "unsafe"

// Opaque pointer types exchanged with the engine. They address memory
// owned by one side or the other and are only ever dereferenced through
// interface-table operations, never directly.

type (
	// VariantPtr addresses a variant cell. The side that constructed the
	// variant destroys it, unless ownership is explicitly transferred.
	VariantPtr      unsafe.Pointer
	ConstVariantPtr unsafe.Pointer

	// TypePtr addresses the concrete in-memory layout of one variant
	// kind, used on the ptrcall path and by the per-kind constructors.
	TypePtr      unsafe.Pointer
	ConstTypePtr unsafe.Pointer

	// StringPtr and StringNamePtr address engine-owned string handles.
	// Raw native string buffers never cross the boundary.
	StringPtr          unsafe.Pointer
	ConstStringPtr     unsafe.Pointer
	StringNamePtr      unsafe.Pointer
	ConstStringNamePtr unsafe.Pointer

	// ObjectPtr addresses an engine object.
	ObjectPtr unsafe.Pointer

	// ClassInstancePtr addresses the native-side instance state attached
	// to an engine object of an extension class.
	ClassInstancePtr unsafe.Pointer

	// ScriptInstanceDataPtr addresses the native implementation behind a
	// dynamic script instance; ScriptInstancePtr is the engine-side handle.
	ScriptInstanceDataPtr unsafe.Pointer
	ScriptInstancePtr     unsafe.Pointer
	ScriptLanguagePtr     unsafe.Pointer

	// ClassLibraryPtr identifies this extension library to the engine.
	ClassLibraryPtr unsafe.Pointer

	MethodBindPtr unsafe.Pointer
)

// InstanceID is the engine-wide identity of an object. Zero is invalid.
type InstanceID uint64

// RID is an engine resource identifier.
type RID uint64

type variantCell struct {
	_ [3]uint64
}

type stringCell struct {
	_ [1]uint64
}

// AllocVariant reserves caller-owned storage for one variant, standing in
// for the stack storage a C caller would provide. The engine tracks the
// cell by address until VariantDestroy.
func AllocVariant() VariantPtr {
	return VariantPtr(unsafe.Pointer(new(variantCell)))
}

// AllocString reserves caller-owned storage for one engine string handle.
func AllocString() StringPtr {
	return StringPtr(unsafe.Pointer(new(stringCell)))
}

// AllocStringName reserves caller-owned storage for one interned name handle.
func AllocStringName() StringNamePtr {
	return StringNamePtr(unsafe.Pointer(new(stringCell)))
}
