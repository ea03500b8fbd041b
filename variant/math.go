package variant

// Geometric value types crossing the boundary. Field layout follows the
// engine's builtin types; all Real fields share the build-wide precision.

type Vector2 struct {
	X, Y Real
}

type Vector2i struct {
	X, Y int32
}

type Rect2 struct {
	Position, Size Vector2
}

type Rect2i struct {
	Position, Size Vector2i
}

type Vector3 struct {
	X, Y, Z Real
}

type Vector3i struct {
	X, Y, Z int32
}

type Vector4 struct {
	X, Y, Z, W Real
}

type Vector4i struct {
	X, Y, Z, W int32
}

// Transform2D is a 2x3 affine transform: two basis columns plus origin.
type Transform2D struct {
	A, B, Origin Vector2
}

type Plane struct {
	Normal Vector3
	D      Real
}

type Quaternion struct {
	X, Y, Z, W Real
}

type AABB struct {
	Position, Size Vector3
}

// Basis is a 3x3 matrix stored as rows, matching the engine layout.
type Basis struct {
	Rows [3]Vector3
}

type Transform3D struct {
	Basis  Basis
	Origin Vector3
}

// Projection is a 4x4 matrix stored as columns.
type Projection struct {
	Columns [4]Vector4
}

// Color components are always 32-bit regardless of the Real precision.
type Color struct {
	R, G, B, A float32
}
