package variant

import (
	"math"
	"testing"

	"github.com/wirebound/gdext/ffi"
)

func TestFrom_Natives(t *testing.T) {
	cases := []struct {
		name string
		in   any
		kind ffi.VariantKind
	}{
		{"nil", nil, ffi.KindNil},
		{"bool", true, ffi.KindBool},
		{"int", 42, ffi.KindInt},
		{"int8", int8(-1), ffi.KindInt},
		{"int64", int64(math.MinInt64), ffi.KindInt},
		{"uint32", uint32(7), ffi.KindInt},
		{"float32", float32(1.5), ffi.KindFloat},
		{"float64", 2.5, ffi.KindFloat},
		{"string", "hello", ffi.KindString},
		{"bytes", []byte{1, 2, 3}, ffi.KindPackedByteArray},
		{"string_name", StringName("Node"), ffi.KindStringName},
		{"node_path", NodePath("/root/Main"), ffi.KindNodePath},
		{"vector2", Vector2{X: 1, Y: 2}, ffi.KindVector2},
		{"color", Color{R: 1}, ffi.KindColor},
		{"rid", ffi.RID(9), ffi.KindRID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := From(tc.in)
			if err != nil {
				t.Fatalf("From(%v): %v", tc.in, err)
			}
			if v.Kind() != tc.kind {
				t.Fatalf("kind = %v, want %v", v.Kind(), tc.kind)
			}
		})
	}
}

func TestFrom_Uint64Overflow(t *testing.T) {
	if _, err := From(uint64(math.MaxUint64)); err == nil {
		t.Fatal("expected overflow error for uint64 beyond int64 range")
	}
	v, err := From(uint64(math.MaxInt64))
	if err != nil {
		t.Fatalf("max int64 as uint64 should convert: %v", err)
	}
	got, err := v.AsInt()
	if err != nil || got != math.MaxInt64 {
		t.Fatalf("AsInt = %d, %v", got, err)
	}
}

func TestFrom_Unsupported(t *testing.T) {
	if _, err := From(struct{ X int }{}); err == nil {
		t.Fatal("expected error for unsupported Go type")
	}
}

func TestAccessors_KindMismatch(t *testing.T) {
	v := NewInt(1)
	if _, err := v.AsString(); err == nil {
		t.Fatal("AsString on an int should fail")
	}
	if _, err := v.AsBool(); err == nil {
		t.Fatal("AsBool on an int should fail")
	}
	if got, err := v.AsInt(); err != nil || got != 1 {
		t.Fatalf("AsInt = %d, %v", got, err)
	}
}

func TestAccessors_Math(t *testing.T) {
	v := NewVector3(Vector3{X: 1, Y: 2, Z: 3})
	got, err := v.AsVector3()
	if err != nil {
		t.Fatal(err)
	}
	if got.Z != 3 {
		t.Fatalf("AsVector3 = %+v", got)
	}
	if _, err := v.AsVector2(); err == nil {
		t.Fatal("AsVector2 on a Vector3 should fail")
	}

	c := NewColor(Color{R: 0.5, A: 1})
	if back, err := c.AsColor(); err != nil || back.R != 0.5 {
		t.Fatalf("AsColor = %+v, %v", back, err)
	}
}

func TestValue_CollectionIsolation(t *testing.T) {
	arr := Array{NewInt(1), NewInt(2)}
	v := NewArray(arr)
	arr[0] = NewInt(99)

	back, err := v.AsArray()
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := back[0].AsInt(); got != 1 {
		t.Fatalf("value shares backing array with caller, got %d", got)
	}

	back[1] = NewInt(42)
	again, _ := v.AsArray()
	if got, _ := again[1].AsInt(); got != 2 {
		t.Fatalf("accessor leaked internal slice, got %d", got)
	}
}

func TestDictionary_InsertionOrder(t *testing.T) {
	d := &Dictionary{}
	d.Set(NewString("b"), NewInt(2))
	d.Set(NewString("a"), NewInt(1))
	d.Set(NewString("b"), NewInt(3))

	var keys []string
	d.Each(func(k, _ Value) bool {
		s, _ := k.AsString()
		keys = append(keys, s)
		return true
	})
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("keys = %v, want [b a]", keys)
	}
	got, ok := d.Get(NewString("b"))
	if !ok {
		t.Fatal("key b missing")
	}
	if n, _ := got.AsInt(); n != 3 {
		t.Fatalf("b = %d, want 3 after overwrite", n)
	}

	if !d.Delete(NewString("a")) {
		t.Fatal("delete a failed")
	}
	if d.Len() != 1 {
		t.Fatalf("len = %d, want 1", d.Len())
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil_nil", NewNil(), NewNil(), true},
		{"nil_int", NewNil(), NewInt(0), false},
		{"int_eq", NewInt(5), NewInt(5), true},
		{"int_ne", NewInt(5), NewInt(6), false},
		{"kind_ne", NewInt(5), NewFloat(5), false},
		{"nan_nan", NewFloat(math.NaN()), NewFloat(math.NaN()), true},
		{"inf", NewFloat(math.Inf(1)), NewFloat(math.Inf(1)), true},
		{"str", NewString("x"), NewString("x"), true},
		{"vec", NewVector3(Vector3{X: 1}), NewVector3(Vector3{X: 1}), true},
		{
			"packed_eq",
			NewPackedInt64Array(PackedInt64Array{1, 2}),
			NewPackedInt64Array(PackedInt64Array{1, 2}),
			true,
		},
		{
			"packed_len",
			NewPackedInt64Array(PackedInt64Array{1}),
			NewPackedInt64Array(PackedInt64Array{1, 2}),
			false,
		},
		{
			"array_nested",
			NewArray(Array{NewInt(1), NewString("s")}),
			NewArray(Array{NewInt(1), NewString("s")}),
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Fatalf("Equal = %v, want %v", got, tc.want)
			}
			if got := tc.b.Equal(tc.a); got != tc.want {
				t.Fatalf("Equal not symmetric")
			}
		})
	}
}

func TestEqual_Dictionary(t *testing.T) {
	a := &Dictionary{}
	a.Set(NewInt(1), NewString("one"))
	b := &Dictionary{}
	b.Set(NewInt(1), NewString("one"))
	if !NewDictionary(a).Equal(NewDictionary(b)) {
		t.Fatal("equal dictionaries reported unequal")
	}
	b.Set(NewInt(2), NewString("two"))
	if NewDictionary(a).Equal(NewDictionary(b)) {
		t.Fatal("dictionaries of different size reported equal")
	}
}
