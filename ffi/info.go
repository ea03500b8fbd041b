package ffi

import "unsafe"

// Descriptor structs submitted to the engine. Field order matches the
// host header; the engine reads these without any translation layer.

// PropertyInfo describes one property or argument slot.
type PropertyInfo struct {
	Type       VariantKind
	Name       StringNamePtr
	ClassName  StringNamePtr
	Hint       uint32
	HintString StringPtr
	Usage      uint32
}

// MethodInfo describes one method for reflective listings
// (script instances, dynamic introspection).
type MethodInfo struct {
	Name        StringNamePtr
	ReturnValue PropertyInfo
	Flags       uint32
	ID          int32

	// Arguments are ordered; DefaultArguments is right-aligned to the
	// trailing arguments and never longer than Arguments.
	Arguments        []PropertyInfo
	DefaultArguments []VariantPtr
}

// ClassCreationInfo registers one extension class. CreateInstance and
// FreeInstance are mandatory; every other callback left nil tells the
// engine the class does not implement that hook at all.
type ClassCreationInfo struct {
	IsVirtual  bool
	IsAbstract bool

	Set              ClassSet
	Get              ClassGet
	GetPropertyList  ClassGetPropertyList
	FreePropertyList ClassFreePropertyList

	PropertyCanRevert ClassPropertyCanRevert
	PropertyGetRevert ClassPropertyGetRevert

	Notification ClassNotification
	ToString     ClassToString

	Reference   ClassReference
	Unreference ClassUnreference

	CreateInstance ClassCreateInstance
	FreeInstance   ClassFreeInstance

	GetVirtual ClassGetVirtual
	GetRID     ClassGetRID

	ClassUserdata unsafe.Pointer
}

// ClassMethodInfo registers one compiled method with both calling
// conventions. ReturnValueInfo is ignored when HasReturnValue is false.
type ClassMethodInfo struct {
	Name           StringNamePtr
	MethodUserdata unsafe.Pointer

	Call    MethodCall
	Ptrcall MethodPtrcall

	MethodFlags MethodFlags

	HasReturnValue      bool
	ReturnValueInfo     *PropertyInfo
	ReturnValueMetadata ArgumentMetadata

	// ArgumentsInfo and ArgumentsMetadata run parallel, one entry per
	// declared argument.
	ArgumentsInfo     []PropertyInfo
	ArgumentsMetadata []ArgumentMetadata

	// DefaultArguments fills trailing omitted call positions,
	// right-aligned; length never exceeds len(ArgumentsInfo).
	DefaultArguments []VariantPtr
}

// ScriptInstanceInfo wires a native dynamic-instance implementation into
// the engine's scripting protocol. Field order matches the host struct.
type ScriptInstanceInfo struct {
	Set ScriptInstanceSet
	Get ScriptInstanceGet

	GetPropertyList  ScriptInstanceGetPropertyList
	FreePropertyList ScriptInstanceFreePropertyList

	PropertyCanRevert ScriptInstancePropertyCanRevert
	PropertyGetRevert ScriptInstancePropertyGetRevert

	GetOwner         ScriptInstanceGetOwner
	GetPropertyState ScriptInstanceGetPropertyState

	GetMethodList   ScriptInstanceGetMethodList
	FreeMethodList  ScriptInstanceFreeMethodList
	GetPropertyType ScriptInstanceGetPropertyType

	HasMethod ScriptInstanceHasMethod

	Call         ScriptInstanceCall
	Notification ScriptInstanceNotification

	ToString ScriptInstanceToString

	RefCountIncremented ScriptInstanceRefCountIncremented
	RefCountDecremented ScriptInstanceRefCountDecremented

	GetScript ScriptInstanceGetScript

	IsPlaceholder ScriptInstanceIsPlaceholder

	SetFallback ScriptInstanceSet
	GetFallback ScriptInstanceGet

	GetLanguage ScriptInstanceGetLanguage

	Free ScriptInstanceFree
}
