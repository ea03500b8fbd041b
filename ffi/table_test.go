package ffi

import (
	"reflect"
	"strings"
	"testing"
)

// stubTable builds a table with every slot populated by a zero-value
// implementation, then gives it a compatible version.
func stubTable() *InterfaceTable {
	t := &InterfaceTable{}
	v := reflect.ValueOf(t).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Func {
			continue
		}
		f.Set(reflect.MakeFunc(f.Type(), func(args []reflect.Value) []reflect.Value {
			out := make([]reflect.Value, f.Type().NumOut())
			for j := range out {
				out[j] = reflect.Zero(f.Type().Out(j))
			}
			return out
		}))
	}
	t.GetVersion = func() Version {
		return Version{Major: 4, Minor: 1, String: "4.1-stub"}
	}
	return t
}

func TestInterfaceTable_ValidateComplete(t *testing.T) {
	table := stubTable()
	if err := table.Validate(); err != nil {
		t.Fatalf("Validate failed on complete table: %v", err)
	}
}

func TestInterfaceTable_ValidateNil(t *testing.T) {
	var table *InterfaceTable
	if err := table.Validate(); err == nil {
		t.Fatal("Validate should fail on nil table")
	}
}

func TestInterfaceTable_ValidateMissingSlot(t *testing.T) {
	table := stubTable()
	table.VariantNewNil = nil
	table.ObjectSetInstance = nil

	err := table.Validate()
	if err == nil {
		t.Fatal("Validate should fail with nil slots")
	}
	msg := err.Error()
	if !strings.Contains(msg, "variant_new_nil") {
		t.Errorf("error %q does not name variant_new_nil", msg)
	}
	if !strings.Contains(msg, "object_set_instance") {
		t.Errorf("error %q does not name object_set_instance", msg)
	}
}

func TestInterfaceTable_ValidateVersion(t *testing.T) {
	table := stubTable()
	table.GetVersion = func() Version {
		return Version{Major: 5}
	}
	if err := table.Validate(); err == nil {
		t.Fatal("Validate should reject an incompatible major version")
	}
}

func TestSlotName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"VariantNewNil", "variant_new_nil"},
		{"GetVersion", "get_version"},
		{"StringNewWithUTF8Chars", "string_new_with_utf8_chars"},
		{"ClassdbRegisterExtensionClassMethod", "classdb_register_extension_class_method"},
		{"ObjectGetInstanceID", "object_get_instance_id"},
	}
	for _, tt := range tests {
		if got := slotName(tt.in); got != tt.want {
			t.Errorf("slotName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVariantKind_Strings(t *testing.T) {
	if KindMax != 38 {
		t.Fatalf("kind count changed: %d", KindMax)
	}
	for k := KindNil; k < KindMax; k++ {
		if k.String() == "unknown" {
			t.Errorf("kind %d has no name", k)
		}
	}
	if VariantKind(99).String() != "unknown" {
		t.Error("out-of-range kind should be unknown")
	}
	if !KindPackedByteArray.IsPacked() || KindArray.IsPacked() {
		t.Error("IsPacked misclassifies")
	}
}

func TestCallError(t *testing.T) {
	var nilErr *CallError
	if !nilErr.OK() {
		t.Error("nil CallError should be OK")
	}

	e := WrongArgumentCount(1, 2)
	if e.Type != CallErrorTooFewArguments || e.Expected != 2 {
		t.Fatalf("got %+v", e)
	}
	e = WrongArgumentCount(3, 2)
	if e.Type != CallErrorTooManyArguments {
		t.Fatalf("got %+v", e)
	}

	e = InvalidArgument(0, KindString)
	if e.Argument != 0 || VariantKind(e.Expected) != KindString {
		t.Fatalf("got %+v", e)
	}
	if !strings.Contains(e.Error(), "String") {
		t.Errorf("message %q should name expected kind", e.Error())
	}
}
