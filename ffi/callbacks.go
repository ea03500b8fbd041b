package ffi

import "unsafe"

// Callback signatures the engine invokes on the binding layer. Shapes
// mirror the host header one to one; userdata fields round-trip untouched.

// Per-kind variant constructors, fetched once per kind from the table.
type (
	VariantFromTypeConstructor func(r VariantPtr, src TypePtr)
	TypeFromVariantConstructor func(r TypePtr, src VariantPtr)
)

// Extension class lifecycle and introspection.
type (
	ClassCreateInstance func(userdata unsafe.Pointer) ObjectPtr
	ClassFreeInstance   func(userdata unsafe.Pointer, instance ClassInstancePtr)

	ClassSet func(instance ClassInstancePtr, name ConstStringNamePtr, value ConstVariantPtr) bool
	ClassGet func(instance ClassInstancePtr, name ConstStringNamePtr, ret VariantPtr) bool

	// ClassGetPropertyList hands the engine a list the binding owns until
	// the engine returns it through the matching free callback.
	ClassGetPropertyList  func(instance ClassInstancePtr) []PropertyInfo
	ClassFreePropertyList func(instance ClassInstancePtr, list []PropertyInfo)

	ClassPropertyCanRevert func(instance ClassInstancePtr, name ConstStringNamePtr) bool
	ClassPropertyGetRevert func(instance ClassInstancePtr, name ConstStringNamePtr, ret VariantPtr) bool

	ClassNotification func(instance ClassInstancePtr, what int32)

	// ClassToString writes the representation into the engine-provided
	// string handle and reports whether the conversion was valid.
	ClassToString func(instance ClassInstancePtr, out StringPtr) bool

	ClassReference   func(instance ClassInstancePtr)
	ClassUnreference func(instance ClassInstancePtr)

	ClassGetRID func(instance ClassInstancePtr) RID

	// ClassCallVirtual runs one resolved virtual override with raw
	// argument and return pointers; the engine has already validated them.
	ClassCallVirtual func(instance ClassInstancePtr, args []ConstTypePtr, ret TypePtr)

	// ClassGetVirtual resolves a virtual method by exact name. A nil
	// return means "not overridden", not an error.
	ClassGetVirtual func(userdata unsafe.Pointer, name ConstStringNamePtr) ClassCallVirtual
)

// Method dispatch entry points.
type (
	// MethodCall is the generic, fully validated calling convention.
	// constCall is set when the engine issues the call through a
	// const-qualified access path; calling a mutating method that way
	// is reported as CallErrorMethodNotConst.
	MethodCall func(userdata unsafe.Pointer, instance ClassInstancePtr, args []ConstVariantPtr, ret VariantPtr, constCall bool, err *CallError)

	// MethodPtrcall is the performance convention: the engine guarantees
	// argument count and types, the callee only marshals.
	MethodPtrcall func(userdata unsafe.Pointer, instance ClassInstancePtr, args []ConstTypePtr, ret TypePtr)
)

// Instance binding lifecycle. The engine invokes create lazily the first
// time a binding is needed for an object, free exactly once when the
// object dies, and reference on every strong-count transition of a
// reference-counted object. Reference returning true means the native
// side holds a strong reference of its own.
type (
	InstanceBindingCreate    func(token, instance unsafe.Pointer) unsafe.Pointer
	InstanceBindingFree      func(token, instance, binding unsafe.Pointer)
	InstanceBindingReference func(token, binding unsafe.Pointer, reference bool) bool
)

// InstanceBindingCallbacks is the triple the engine stores per token.
// Field order matches the host struct.
type InstanceBindingCallbacks struct {
	Create    InstanceBindingCreate
	Free      InstanceBindingFree
	Reference InstanceBindingReference
}

// Script instance protocol.
type (
	ScriptInstanceSet func(instance ScriptInstanceDataPtr, name ConstStringNamePtr, value ConstVariantPtr) bool
	ScriptInstanceGet func(instance ScriptInstanceDataPtr, name ConstStringNamePtr, ret VariantPtr) bool

	ScriptInstanceGetPropertyList  func(instance ScriptInstanceDataPtr) []PropertyInfo
	ScriptInstanceFreePropertyList func(instance ScriptInstanceDataPtr, list []PropertyInfo)
	ScriptInstanceGetPropertyType  func(instance ScriptInstanceDataPtr, name ConstStringNamePtr) (VariantKind, bool)

	ScriptInstancePropertyCanRevert func(instance ScriptInstanceDataPtr, name ConstStringNamePtr) bool
	ScriptInstancePropertyGetRevert func(instance ScriptInstanceDataPtr, name ConstStringNamePtr, ret VariantPtr) bool

	ScriptInstanceGetOwner func(instance ScriptInstanceDataPtr) ObjectPtr

	// ScriptInstancePropertyStateAdd receives one (name, value) pair per
	// invocation; the value is borrowed for the duration of the call.
	ScriptInstancePropertyStateAdd func(name ConstStringNamePtr, value ConstVariantPtr, userdata unsafe.Pointer)
	ScriptInstanceGetPropertyState func(instance ScriptInstanceDataPtr, add ScriptInstancePropertyStateAdd, userdata unsafe.Pointer)

	ScriptInstanceGetMethodList  func(instance ScriptInstanceDataPtr) []MethodInfo
	ScriptInstanceFreeMethodList func(instance ScriptInstanceDataPtr, list []MethodInfo)

	ScriptInstanceHasMethod func(instance ScriptInstanceDataPtr, name ConstStringNamePtr) bool

	ScriptInstanceCall func(self ScriptInstanceDataPtr, method ConstStringNamePtr, args []ConstVariantPtr, ret VariantPtr, err *CallError)

	ScriptInstanceNotification func(instance ScriptInstanceDataPtr, what int32)
	ScriptInstanceToString     func(instance ScriptInstanceDataPtr, out StringPtr) bool

	ScriptInstanceRefCountIncremented func(instance ScriptInstanceDataPtr)
	ScriptInstanceRefCountDecremented func(instance ScriptInstanceDataPtr) bool

	ScriptInstanceGetScript     func(instance ScriptInstanceDataPtr) ObjectPtr
	ScriptInstanceIsPlaceholder func(instance ScriptInstanceDataPtr) bool
	ScriptInstanceGetLanguage   func(instance ScriptInstanceDataPtr) ScriptLanguagePtr

	ScriptInstanceFree func(instance ScriptInstanceDataPtr)
)
