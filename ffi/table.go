package ffi

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/wirebound/gdext/errors"
)

// Version identifies the host build that supplied the table.
type Version struct {
	Major  uint32
	Minor  uint32
	Patch  uint32
	String string
}

// MajorVersion is the host ABI generation this binding layer targets.
const MajorVersion = 4

// InterfaceTable is the single table of operations the host supplies at
// load time. It is never reissued; after Validate succeeds it is treated
// as read-only and may be shared across host threads freely.
//
// Slot groups follow the host header: version/diagnostics, variant data
// I/O, string and name handles, object model, class registration, and
// script instances. Every slot is mandatory.
type InterfaceTable struct {
	// version and diagnostics
	GetVersion   func() Version
	PrintError   func(description, function, file string, line int32)
	PrintWarning func(description, function, file string, line int32)

	// variant data I/O
	VariantNewNil  func(r VariantPtr)
	VariantNewCopy func(r VariantPtr, src ConstVariantPtr)
	VariantDestroy func(v VariantPtr)
	VariantGetType func(v ConstVariantPtr) VariantKind

	// Per-kind constructors; fetched once per kind and cached by the
	// caller. The returned functions read/write the kind's concrete
	// native layout through the TypePtr.
	GetVariantFromTypeConstructor func(kind VariantKind) VariantFromTypeConstructor
	GetVariantToTypeConstructor   func(kind VariantKind) TypeFromVariantConstructor

	// string handles
	StringNewWithUTF8Chars func(r StringPtr, chars string)
	StringToUTF8Chars      func(s ConstStringPtr) string

	// interned name handles
	StringNameNewWithUTF8Chars func(r StringNamePtr, chars string)
	StringNameToUTF8Chars      func(s ConstStringNamePtr) string

	// object model
	ClassdbConstructObject  func(class ConstStringNamePtr) ObjectPtr
	ObjectSetInstance       func(obj ObjectPtr, class ConstStringNamePtr, instance ClassInstancePtr)
	ObjectDestroy           func(obj ObjectPtr)
	ObjectGetInstanceID     func(obj ObjectPtr) InstanceID
	ObjectGetInstanceFromID func(id InstanceID) ObjectPtr

	// instance bindings
	ObjectGetInstanceBinding func(obj ObjectPtr, token unsafe.Pointer, callbacks *InstanceBindingCallbacks) unsafe.Pointer
	ObjectSetInstanceBinding func(obj ObjectPtr, token unsafe.Pointer, binding unsafe.Pointer, callbacks *InstanceBindingCallbacks)

	// class registration
	ClassdbRegisterExtensionClass       func(library ClassLibraryPtr, name, parent ConstStringNamePtr, info *ClassCreationInfo)
	ClassdbRegisterExtensionClassMethod func(library ClassLibraryPtr, class ConstStringNamePtr, info *ClassMethodInfo)
	ClassdbUnregisterExtensionClass     func(library ClassLibraryPtr, name ConstStringNamePtr)

	// script instances
	ScriptInstanceCreate func(info *ScriptInstanceInfo, data ScriptInstanceDataPtr) ScriptInstancePtr
}

// Validate checks that every slot is populated and the host version is
// compatible. It is called once at load; a failure here is fatal to the
// whole module, before any registration happens.
func (t *InterfaceTable) Validate() error {
	if t == nil {
		return errors.NilPointer(errors.PhaseLoad, "interface table")
	}

	var missing []string
	v := reflect.ValueOf(*t)
	rt := v.Type()
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).Type.Kind() != reflect.Func {
			continue
		}
		if v.Field(i).IsNil() {
			missing = append(missing, slotName(rt.Field(i).Name))
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.PhaseLoad, errors.KindMissingSlot).
			Detail("%d interface table slot(s) are nil: %s", len(missing), strings.Join(missing, ", ")).
			Build()
	}

	ver := t.GetVersion()
	if ver.Major != MajorVersion {
		return errors.VersionMismatch(
			fmt.Sprintf("%d.x", MajorVersion),
			fmt.Sprintf("%d.%d.%d", ver.Major, ver.Minor, ver.Patch),
		)
	}
	return nil
}

// slotName converts a Go field name to the host header's snake_case slot
// name for diagnostics: VariantNewNil -> variant_new_nil.
func slotName(field string) string {
	var b strings.Builder
	prev := byte(0)
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c >= 'A' && c <= 'Z' {
			if prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9' {
				b.WriteByte('_')
			}
			c += 'a' - 'A'
		}
		b.WriteByte(c)
		prev = field[i]
	}
	return b.String()
}
