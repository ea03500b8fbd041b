package variant

import (
	"math"
	"testing"

	"github.com/wirebound/gdext/ffi"
)

func TestCheckMetadata_Int(t *testing.T) {
	cases := []struct {
		name string
		val  int64
		md   ffi.ArgumentMetadata
		ok   bool
	}{
		{"none", math.MaxInt64, ffi.MetadataNone, true},
		{"int8_fit", 127, ffi.MetadataIntIsInt8, true},
		{"int8_over", 128, ffi.MetadataIntIsInt8, false},
		{"int8_under", -129, ffi.MetadataIntIsInt8, false},
		{"int16_fit", -32768, ffi.MetadataIntIsInt16, true},
		{"int32_over", math.MaxInt32 + 1, ffi.MetadataIntIsInt32, false},
		{"int64_fit", math.MinInt64, ffi.MetadataIntIsInt64, true},
		{"uint8_fit", 255, ffi.MetadataIntIsUint8, true},
		{"uint8_neg", -1, ffi.MetadataIntIsUint8, false},
		{"uint32_over", math.MaxUint32 + 1, ffi.MetadataIntIsUint32, false},
		{"uint64_fit", math.MaxInt64, ffi.MetadataIntIsUint64, true},
		{"uint64_neg", -1, ffi.MetadataIntIsUint64, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckMetadata(NewInt(tc.val), tc.md)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("value %d passed %v check", tc.val, tc.md)
			}
		})
	}
}

func TestCheckMetadata_Float(t *testing.T) {
	if err := CheckMetadata(NewFloat(1e300), ffi.MetadataRealIsDouble); err != nil {
		t.Fatalf("double metadata rejected double value: %v", err)
	}
	if err := CheckMetadata(NewFloat(1e300), ffi.MetadataRealIsFloat); err == nil {
		t.Fatal("1e300 fits no float32")
	}
	if err := CheckMetadata(NewFloat(math.Inf(1)), ffi.MetadataRealIsFloat); err != nil {
		t.Fatalf("infinity is representable in float32: %v", err)
	}
	if err := CheckMetadata(NewFloat(math.NaN()), ffi.MetadataRealIsFloat); err != nil {
		t.Fatalf("NaN is representable in float32: %v", err)
	}
}

func TestCheckMetadata_NonNumericPasses(t *testing.T) {
	if err := CheckMetadata(NewString("x"), ffi.MetadataIntIsInt8); err != nil {
		t.Fatalf("metadata must not constrain non-int kinds: %v", err)
	}
}

func TestNarrowInt(t *testing.T) {
	if _, err := NarrowInt(300, ffi.MetadataIntIsInt8, NarrowValidate); err == nil {
		t.Fatal("validate policy accepted out-of-range value")
	}
	got, err := NarrowInt(300, ffi.MetadataIntIsInt8, NarrowTruncate)
	if err != nil {
		t.Fatal(err)
	}
	wide := 300
	if got != int64(int8(wide)) {
		t.Fatalf("truncate = %d, want %d", got, int64(int8(wide)))
	}
	got, err = NarrowInt(-1, ffi.MetadataIntIsUint16, NarrowTruncate)
	if err != nil || got != math.MaxUint16 {
		t.Fatalf("uint16 truncate of -1 = %d, %v", got, err)
	}
	got, err = NarrowInt(math.MinInt64, ffi.MetadataIntIsInt64, NarrowValidate)
	if err != nil || got != math.MinInt64 {
		t.Fatalf("int64 passthrough = %d, %v", got, err)
	}
}
