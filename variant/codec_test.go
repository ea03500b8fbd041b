package variant

import (
	"math"
	"sync"
	"testing"

	"github.com/wirebound/gdext/ffi"
)

// codecHost is a minimal stand-in for the engine side of the variant
// slots. Variant cells are opaque; content is tracked by pointer
// identity, the way the real host tracks it by cell address.
type codecHost struct {
	mu    sync.Mutex
	cells map[ffi.VariantPtr]Value
}

func newCodecHost() *codecHost {
	return &codecHost{cells: make(map[ffi.VariantPtr]Value)}
}

func (h *codecHost) table() *ffi.InterfaceTable {
	return &ffi.InterfaceTable{
		VariantNewNil: func(r ffi.VariantPtr) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.cells[r] = NewNil()
		},
		VariantDestroy: func(v ffi.VariantPtr) {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.cells, v)
		},
		VariantGetType: func(v ffi.ConstVariantPtr) ffi.VariantKind {
			h.mu.Lock()
			defer h.mu.Unlock()
			return h.cells[ffi.VariantPtr(v)].Kind()
		},
		GetVariantFromTypeConstructor: func(kind ffi.VariantKind) ffi.VariantFromTypeConstructor {
			return func(r ffi.VariantPtr, src ffi.TypePtr) {
				v := LoadRaw(kind, ffi.ConstTypePtr(src))
				h.mu.Lock()
				defer h.mu.Unlock()
				h.cells[r] = v
			}
		},
		GetVariantToTypeConstructor: func(kind ffi.VariantKind) ffi.TypeFromVariantConstructor {
			return func(r ffi.TypePtr, src ffi.VariantPtr) {
				h.mu.Lock()
				v := h.cells[src]
				h.mu.Unlock()
				StoreRaw(v, r)
			}
		},
	}
}

func (h *codecHost) live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.cells)
}

func TestCodec_RoundTrip(t *testing.T) {
	host := newCodecHost()
	c := NewCodec(host.table())

	dict := &Dictionary{}
	dict.Set(NewString("answer"), NewInt(42))
	dict.Set(NewInt(7), NewBool(true))

	cases := []struct {
		name string
		v    Value
	}{
		{"nil", NewNil()},
		{"bool_true", NewBool(true)},
		{"bool_false", NewBool(false)},
		{"int_zero", NewInt(0)},
		{"int_max", NewInt(math.MaxInt64)},
		{"int_min", NewInt(math.MinInt64)},
		{"float", NewFloat(3.5)},
		{"float_nan", NewFloat(math.NaN())},
		{"float_pos_inf", NewFloat(math.Inf(1))},
		{"float_neg_inf", NewFloat(math.Inf(-1))},
		{"float_max", NewFloat(math.MaxFloat64)},
		{"string_empty", NewString("")},
		{"string_utf8", NewString("héllo wörld")},
		{"vector2", NewVector2(Vector2{X: 1.5, Y: -2})},
		{"vector2i", NewVector2i(Vector2i{X: -1, Y: 2})},
		{"rect2", NewRect2(Rect2{Position: Vector2{X: 1}, Size: Vector2{Y: 2}})},
		{"rect2i", NewRect2i(Rect2i{Size: Vector2i{X: 3}})},
		{"vector3", NewVector3(Vector3{X: 1, Y: 2, Z: 3})},
		{"vector3i", NewVector3i(Vector3i{Z: -3})},
		{"transform2d", NewTransform2D(Transform2D{A: Vector2{X: 1}, B: Vector2{Y: 1}, Origin: Vector2{X: 5, Y: 6}})},
		{"vector4", NewVector4(Vector4{W: 4})},
		{"vector4i", NewVector4i(Vector4i{W: -4})},
		{"plane", NewPlane(Plane{Normal: Vector3{Y: 1}, D: 2})},
		{"quaternion", NewQuaternion(Quaternion{W: 1})},
		{"aabb", NewAABB(AABB{Size: Vector3{X: 1, Y: 1, Z: 1}})},
		{"basis", NewBasis(Basis{Rows: [3]Vector3{{X: 1}, {Y: 1}, {Z: 1}}})},
		{"transform3d", NewTransform3D(Transform3D{Origin: Vector3{X: 9}})},
		{"projection", NewProjection(Projection{Columns: [4]Vector4{{X: 1}, {Y: 1}, {Z: 1}, {W: 1}}})},
		{"color", NewColor(Color{R: 0.25, G: 0.5, B: 0.75, A: 1})},
		{"string_name", NewStringName("_ready")},
		{"node_path", NewNodePath("/root/Main/Player")},
		{"rid", NewRID(ffi.RID(12345))},
		{"callable", NewCallable(Callable{Object: 7, Method: "fire"})},
		{"signal", NewSignal(Signal{Object: 7, Name: "hit"})},
		{"dictionary", NewDictionary(dict)},
		{"dictionary_empty", NewDictionary(&Dictionary{})},
		{"array", NewArray(Array{NewInt(1), NewString("two"), NewNil()})},
		{"array_empty", NewArray(Array{})},
		{"packed_byte", NewPackedByteArray(PackedByteArray{0, 127, 255})},
		{"packed_byte_empty", NewPackedByteArray(PackedByteArray{})},
		{"packed_int32", NewPackedInt32Array(PackedInt32Array{math.MinInt32, math.MaxInt32})},
		{"packed_int64", NewPackedInt64Array(PackedInt64Array{math.MinInt64, math.MaxInt64})},
		{"packed_float32", NewPackedFloat32Array(PackedFloat32Array{-1.5, 1.5})},
		{"packed_float64", NewPackedFloat64Array(PackedFloat64Array{math.SmallestNonzeroFloat64})},
		{"packed_string", NewPackedStringArray(PackedStringArray{"", "a", "b"})},
		{"packed_vector2", NewPackedVector2Array(PackedVector2Array{{X: 1, Y: 2}})},
		{"packed_vector3", NewPackedVector3Array(PackedVector3Array{{Z: 3}})},
		{"packed_color", NewPackedColorArray(PackedColorArray{{R: 1, A: 1}})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cell := ffi.AllocVariant()
			if err := c.Lower(tc.v, cell); err != nil {
				t.Fatalf("Lower: %v", err)
			}
			got, err := c.Lift(ffi.ConstVariantPtr(cell))
			if err != nil {
				t.Fatalf("Lift: %v", err)
			}
			if !got.Equal(tc.v) {
				t.Fatalf("round trip changed value: got %v, want %v", got, tc.v)
			}
			c.Destroy(cell)
		})
	}
	if n := host.live(); n != 0 {
		t.Fatalf("%d variant cells leaked", n)
	}
}

func TestCodec_LiftExpect(t *testing.T) {
	host := newCodecHost()
	c := NewCodec(host.table())

	cell, err := c.LowerNew(NewInt(5))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Destroy(cell)

	v, err := c.LiftExpect(ffi.ConstVariantPtr(cell), ffi.KindInt)
	if err != nil {
		t.Fatalf("matching kind rejected: %v", err)
	}
	if n, _ := v.AsInt(); n != 5 {
		t.Fatalf("lifted %d, want 5", n)
	}
	if _, err := c.LiftExpect(ffi.ConstVariantPtr(cell), ffi.KindString); err == nil {
		t.Fatal("kind mismatch not reported")
	}
}

func TestCodec_CollectionOwnership(t *testing.T) {
	host := newCodecHost()
	c := NewCodec(host.table())

	arr := PackedInt64Array{1, 2, 3}
	cell, err := c.LowerNew(NewPackedInt64Array(arr))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Destroy(cell)

	arr[0] = 99
	got, err := c.Lift(ffi.ConstVariantPtr(cell))
	if err != nil {
		t.Fatal(err)
	}
	back, _ := got.AsPackedInt64Array()
	if back[0] != 1 {
		t.Fatalf("lowered payload shares storage with the caller, got %d", back[0])
	}
}
