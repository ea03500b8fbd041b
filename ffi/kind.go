package ffi

// VariantKind is the engine's dynamic type discriminant.
// Values match the host header exactly; the order is frozen.
type VariantKind uint32

const (
	KindNil VariantKind = iota

	// atomic types
	KindBool
	KindInt
	KindFloat
	KindString

	// math types
	KindVector2
	KindVector2i
	KindRect2
	KindRect2i
	KindVector3
	KindVector3i
	KindTransform2D
	KindVector4
	KindVector4i
	KindPlane
	KindQuaternion
	KindAABB
	KindBasis
	KindTransform3D
	KindProjection

	// misc types
	KindColor
	KindStringName
	KindNodePath
	KindRID
	KindObject
	KindCallable
	KindSignal
	KindDictionary
	KindArray

	// typed arrays
	KindPackedByteArray
	KindPackedInt32Array
	KindPackedInt64Array
	KindPackedFloat32Array
	KindPackedFloat64Array
	KindPackedStringArray
	KindPackedVector2Array
	KindPackedVector3Array
	KindPackedColorArray

	KindMax
)

var kindNames = [...]string{
	KindNil:                "Nil",
	KindBool:               "bool",
	KindInt:                "int",
	KindFloat:              "float",
	KindString:             "String",
	KindVector2:            "Vector2",
	KindVector2i:           "Vector2i",
	KindRect2:              "Rect2",
	KindRect2i:             "Rect2i",
	KindVector3:            "Vector3",
	KindVector3i:           "Vector3i",
	KindTransform2D:        "Transform2D",
	KindVector4:            "Vector4",
	KindVector4i:           "Vector4i",
	KindPlane:              "Plane",
	KindQuaternion:         "Quaternion",
	KindAABB:               "AABB",
	KindBasis:              "Basis",
	KindTransform3D:        "Transform3D",
	KindProjection:         "Projection",
	KindColor:              "Color",
	KindStringName:         "StringName",
	KindNodePath:           "NodePath",
	KindRID:                "RID",
	KindObject:             "Object",
	KindCallable:           "Callable",
	KindSignal:             "Signal",
	KindDictionary:         "Dictionary",
	KindArray:              "Array",
	KindPackedByteArray:    "PackedByteArray",
	KindPackedInt32Array:   "PackedInt32Array",
	KindPackedInt64Array:   "PackedInt64Array",
	KindPackedFloat32Array: "PackedFloat32Array",
	KindPackedFloat64Array: "PackedFloat64Array",
	KindPackedStringArray:  "PackedStringArray",
	KindPackedVector2Array: "PackedVector2Array",
	KindPackedVector3Array: "PackedVector3Array",
	KindPackedColorArray:   "PackedColorArray",
}

func (k VariantKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Valid reports whether k is a concrete kind the engine accepts.
func (k VariantKind) Valid() bool {
	return k < KindMax
}

// IsPacked reports whether k is one of the typed-array kinds.
func (k VariantKind) IsPacked() bool {
	return k >= KindPackedByteArray && k <= KindPackedColorArray
}

// VariantOperator identifies an engine-evaluated variant operator.
type VariantOperator uint32

const (
	// comparison
	OpEqual VariantOperator = iota
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual

	// mathematic
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNegate
	OpPositive
	OpModule
	OpPower

	// bitwise
	OpShiftLeft
	OpShiftRight
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNegate

	// logic
	OpAnd
	OpOr
	OpXor
	OpNot

	// containment
	OpIn
	OpMaxSentinel
)
