package script

import (
	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/variant"
)

// Property describes one property slot exposed by an instance.
type Property struct {
	Name       string
	Kind       ffi.VariantKind
	ClassName  string
	Hint       uint32
	HintString string
	Usage      uint32
}

// MethodSignature describes one callable method exposed by an instance.
type MethodSignature struct {
	Name      string
	Flags     ffi.MethodFlags
	Args      []Property
	Return    ffi.VariantKind
	HasReturn bool
}

// Instance is the native implementation behind one script instance.
// The bridge calls it from whatever thread the engine calls in on;
// implementations guard their own state.
type Instance interface {
	// Owner returns the engine object this instance is attached to.
	Owner() ffi.ObjectPtr

	// SetProperty stores a named property, reporting whether the name
	// was recognized.
	SetProperty(name string, value variant.Value) bool

	// GetProperty loads a named property.
	GetProperty(name string) (variant.Value, bool)

	// PropertyList enumerates the properties in declaration order.
	PropertyList() []Property

	// MethodList enumerates the callable methods.
	MethodList() []MethodSignature

	// HasMethod reports whether the named method exists.
	HasMethod(name string) bool

	// Call dispatches a dynamic call. The returned call error is nil
	// on success.
	Call(method string, args []variant.Value) (variant.Value, *ffi.CallError)

	// Free releases the instance. It runs exactly once, when the
	// engine drops the script instance.
	Free()
}

// Optional capabilities, detected by assertion at attach time. Absent
// capabilities are reported to the engine as unimplemented callbacks.

// Notifier receives engine notifications.
type Notifier interface {
	Notification(what int32)
}

// Stringifier renders a display representation.
type Stringifier interface {
	ToString() (string, bool)
}

// Reverter answers property revert queries from the editor.
type Reverter interface {
	CanRevert(name string) bool
	Revert(name string) (variant.Value, bool)
}

// PropertyTyper answers per-property kind queries without a full list.
type PropertyTyper interface {
	PropertyType(name string) (ffi.VariantKind, bool)
}

// RefCounted observes the owner's strong-count transitions. The return
// of RefCountDecremented reports whether the instance can die.
type RefCounted interface {
	RefCountIncremented()
	RefCountDecremented() bool
}

// StateProvider walks the instance's serializable state, pushing one
// (name, value) pair per property into add.
type StateProvider interface {
	PropertyState(add func(name string, value variant.Value))
}

// ScriptProvider reports the script resource backing the instance.
type ScriptProvider interface {
	Script() ffi.ObjectPtr
}

// LanguageProvider reports the implementing language.
type LanguageProvider interface {
	Language() ffi.ScriptLanguagePtr
}

// Placeholder marks editor placeholder instances.
type Placeholder interface {
	IsPlaceholder() bool
}
