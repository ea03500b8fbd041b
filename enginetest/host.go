package enginetest

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/variant"
)

// Object is the host-side half of one engine object.
type Object struct {
	Class         string
	ID            ffi.InstanceID
	Instance      ffi.ClassInstancePtr
	InstanceClass string
	RefCount      int

	bindings map[unsafe.Pointer]objectBinding
}

type objectBinding struct {
	binding   unsafe.Pointer
	callbacks *ffi.InstanceBindingCallbacks
}

// Class is one registered extension class as the host recorded it.
type Class struct {
	Name    string
	Parent  string
	Info    *ffi.ClassCreationInfo
	Methods map[string]*ffi.ClassMethodInfo
}

// ScriptInstance is one hosted script instance.
type ScriptInstance struct {
	Info *ffi.ScriptInstanceInfo
	Data ffi.ScriptInstanceDataPtr
}

// Host is the fake engine. All state is guarded by one mutex; driver
// methods may be called from any goroutine.
type Host struct {
	mu sync.Mutex

	version ffi.Version

	variants map[ffi.VariantPtr]variant.Value
	strings  map[ffi.StringPtr]string
	names    map[ffi.StringNamePtr]string

	objects map[ffi.ObjectPtr]*Object
	byID    map[ffi.InstanceID]ffi.ObjectPtr
	nextID  ffi.InstanceID

	classes map[string]*Class
	scripts map[ffi.ScriptInstancePtr]*ScriptInstance

	errorLog   []string
	warningLog []string
}

// New builds an empty host reporting the given version.
func New() *Host {
	return &Host{
		version:  ffi.Version{Major: ffi.MajorVersion, Minor: 2, Patch: 0, String: "test-host"},
		variants: make(map[ffi.VariantPtr]variant.Value),
		strings:  make(map[ffi.StringPtr]string),
		names:    make(map[ffi.StringNamePtr]string),
		objects:  make(map[ffi.ObjectPtr]*Object),
		byID:     make(map[ffi.InstanceID]ffi.ObjectPtr),
		classes:  make(map[string]*Class),
		scripts:  make(map[ffi.ScriptInstancePtr]*ScriptInstance),
	}
}

// SetVersion overrides the version the table reports.
func (h *Host) SetVersion(v ffi.Version) {
	h.mu.Lock()
	h.version = v
	h.mu.Unlock()
}

// Table returns a fully populated interface table over this host.
func (h *Host) Table() *ffi.InterfaceTable {
	return &ffi.InterfaceTable{
		GetVersion: func() ffi.Version {
			h.mu.Lock()
			defer h.mu.Unlock()
			return h.version
		},
		PrintError: func(description, function, file string, line int32) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.errorLog = append(h.errorLog, fmt.Sprintf("%s:%d %s: %s", file, line, function, description))
		},
		PrintWarning: func(description, function, file string, line int32) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.warningLog = append(h.warningLog, fmt.Sprintf("%s:%d %s: %s", file, line, function, description))
		},

		VariantNewNil: func(r ffi.VariantPtr) {
			h.setVariant(r, variant.NewNil())
		},
		VariantNewCopy: func(r ffi.VariantPtr, src ffi.ConstVariantPtr) {
			h.setVariant(r, h.variant(ffi.VariantPtr(src)))
		},
		VariantDestroy: func(v ffi.VariantPtr) {
			h.mu.Lock()
			delete(h.variants, v)
			h.mu.Unlock()
		},
		VariantGetType: func(v ffi.ConstVariantPtr) ffi.VariantKind {
			return h.variant(ffi.VariantPtr(v)).Kind()
		},
		GetVariantFromTypeConstructor: func(kind ffi.VariantKind) ffi.VariantFromTypeConstructor {
			return func(r ffi.VariantPtr, src ffi.TypePtr) {
				h.setVariant(r, variant.LoadRaw(kind, ffi.ConstTypePtr(src)))
			}
		},
		GetVariantToTypeConstructor: func(kind ffi.VariantKind) ffi.TypeFromVariantConstructor {
			return func(r ffi.TypePtr, src ffi.VariantPtr) {
				variant.StoreRaw(h.variant(src), r)
			}
		},

		StringNewWithUTF8Chars: func(r ffi.StringPtr, chars string) {
			h.mu.Lock()
			h.strings[r] = chars
			h.mu.Unlock()
		},
		StringToUTF8Chars: func(s ffi.ConstStringPtr) string {
			h.mu.Lock()
			defer h.mu.Unlock()
			return h.strings[ffi.StringPtr(s)]
		},
		StringNameNewWithUTF8Chars: func(r ffi.StringNamePtr, chars string) {
			h.mu.Lock()
			h.names[r] = chars
			h.mu.Unlock()
		},
		StringNameToUTF8Chars: func(s ffi.ConstStringNamePtr) string {
			h.mu.Lock()
			defer h.mu.Unlock()
			return h.names[ffi.StringNamePtr(s)]
		},

		ClassdbConstructObject: func(class ffi.ConstStringNamePtr) ffi.ObjectPtr {
			return h.NewObject(h.nameString(class))
		},
		ObjectSetInstance: func(obj ffi.ObjectPtr, class ffi.ConstStringNamePtr, instance ffi.ClassInstancePtr) {
			h.mu.Lock()
			defer h.mu.Unlock()
			if o, ok := h.objects[obj]; ok {
				o.Instance = instance
				o.InstanceClass = h.names[ffi.StringNamePtr(class)]
			}
		},
		ObjectDestroy: func(obj ffi.ObjectPtr) {
			h.FreeObject(obj)
		},
		ObjectGetInstanceID: func(obj ffi.ObjectPtr) ffi.InstanceID {
			h.mu.Lock()
			defer h.mu.Unlock()
			if o, ok := h.objects[obj]; ok {
				return o.ID
			}
			return 0
		},
		ObjectGetInstanceFromID: func(id ffi.InstanceID) ffi.ObjectPtr {
			h.mu.Lock()
			defer h.mu.Unlock()
			return h.byID[id]
		},

		ObjectGetInstanceBinding: func(obj ffi.ObjectPtr, token unsafe.Pointer, callbacks *ffi.InstanceBindingCallbacks) unsafe.Pointer {
			return h.getBinding(obj, token, callbacks)
		},
		ObjectSetInstanceBinding: func(obj ffi.ObjectPtr, token, binding unsafe.Pointer, callbacks *ffi.InstanceBindingCallbacks) {
			h.mu.Lock()
			defer h.mu.Unlock()
			if o, ok := h.objects[obj]; ok {
				o.bindings[token] = objectBinding{binding: binding, callbacks: callbacks}
			}
		},

		ClassdbRegisterExtensionClass: func(_ ffi.ClassLibraryPtr, name, parent ffi.ConstStringNamePtr, info *ffi.ClassCreationInfo) {
			h.mu.Lock()
			defer h.mu.Unlock()
			n := h.names[ffi.StringNamePtr(name)]
			h.classes[n] = &Class{
				Name:    n,
				Parent:  h.names[ffi.StringNamePtr(parent)],
				Info:    info,
				Methods: make(map[string]*ffi.ClassMethodInfo),
			}
		},
		ClassdbRegisterExtensionClassMethod: func(_ ffi.ClassLibraryPtr, class ffi.ConstStringNamePtr, info *ffi.ClassMethodInfo) {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.classes[h.names[ffi.StringNamePtr(class)]]; ok {
				c.Methods[h.names[info.Name]] = info
			}
		},
		ClassdbUnregisterExtensionClass: func(_ ffi.ClassLibraryPtr, name ffi.ConstStringNamePtr) {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.classes, h.names[ffi.StringNamePtr(name)])
		},

		ScriptInstanceCreate: func(info *ffi.ScriptInstanceInfo, data ffi.ScriptInstanceDataPtr) ffi.ScriptInstancePtr {
			si := &ScriptInstance{Info: info, Data: data}
			handle := ffi.ScriptInstancePtr(unsafe.Pointer(si))
			h.mu.Lock()
			h.scripts[handle] = si
			h.mu.Unlock()
			return handle
		},
	}
}

func (h *Host) setVariant(p ffi.VariantPtr, v variant.Value) {
	h.mu.Lock()
	h.variants[p] = v
	h.mu.Unlock()
}

func (h *Host) variant(p ffi.VariantPtr) variant.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.variants[p]
}

func (h *Host) nameString(p ffi.ConstStringNamePtr) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.names[ffi.StringNamePtr(p)]
}

// NewObject creates a bare host object of the given class. Extension
// instances attach through ObjectSetInstance.
func (h *Host) NewObject(class string) ffi.ObjectPtr {
	o := &Object{Class: class, bindings: make(map[unsafe.Pointer]objectBinding)}
	p := ffi.ObjectPtr(unsafe.Pointer(o))
	h.mu.Lock()
	h.nextID++
	o.ID = h.nextID
	h.objects[p] = o
	h.byID[o.ID] = p
	h.mu.Unlock()
	return p
}

// FreeObject destroys an object the way the engine does: the extension
// instance is freed through its class's free callback, then every
// binding is released through its free callback.
func (h *Host) FreeObject(obj ffi.ObjectPtr) {
	h.mu.Lock()
	o, ok := h.objects[obj]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.objects, obj)
	delete(h.byID, o.ID)
	class := h.classes[o.InstanceClass]
	h.mu.Unlock()

	if o.Instance != nil && class != nil && class.Info.FreeInstance != nil {
		class.Info.FreeInstance(class.Info.ClassUserdata, o.Instance)
	}
	for token, b := range o.bindings {
		if b.callbacks != nil && b.callbacks.Free != nil {
			b.callbacks.Free(token, unsafe.Pointer(obj), b.binding)
		}
	}
}

// Lookup returns the host-side state of an object.
func (h *Host) Lookup(obj ffi.ObjectPtr) (*Object, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.objects[obj]
	return o, ok
}

// RegisteredClass returns a class as the host recorded it.
func (h *Host) RegisteredClass(name string) (*Class, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.classes[name]
	return c, ok
}

// Script returns a hosted script instance by handle.
func (h *Host) Script(handle ffi.ScriptInstancePtr) (*ScriptInstance, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	si, ok := h.scripts[handle]
	return si, ok
}

func (h *Host) getBinding(obj ffi.ObjectPtr, token unsafe.Pointer, callbacks *ffi.InstanceBindingCallbacks) unsafe.Pointer {
	h.mu.Lock()
	o, ok := h.objects[obj]
	if !ok {
		h.mu.Unlock()
		return nil
	}
	if b, exists := o.bindings[token]; exists {
		h.mu.Unlock()
		return b.binding
	}
	h.mu.Unlock()

	// Lazy create outside the lock; the callback may call back into
	// the table.
	var binding unsafe.Pointer
	if callbacks != nil && callbacks.Create != nil {
		binding = callbacks.Create(token, unsafe.Pointer(obj))
	}
	h.mu.Lock()
	o.bindings[token] = objectBinding{binding: binding, callbacks: callbacks}
	h.mu.Unlock()
	return binding
}

// Ref raises an object's strong count and walks every binding's
// reference callback the way the engine does on an upward transition.
func (h *Host) Ref(obj ffi.ObjectPtr) {
	h.mu.Lock()
	o, ok := h.objects[obj]
	if !ok {
		h.mu.Unlock()
		return
	}
	o.RefCount++
	bindings := o.snapshot()
	h.mu.Unlock()
	for token, b := range bindings {
		if b.callbacks != nil && b.callbacks.Reference != nil {
			b.callbacks.Reference(token, b.binding, true)
		}
	}
}

// Unref lowers an object's strong count, walks the reference callbacks,
// and destroys the object when the count reaches zero and no binding
// holds a strong reference of its own.
func (h *Host) Unref(obj ffi.ObjectPtr) {
	h.mu.Lock()
	o, ok := h.objects[obj]
	if !ok {
		h.mu.Unlock()
		return
	}
	o.RefCount--
	count := o.RefCount
	bindings := o.snapshot()
	h.mu.Unlock()

	keep := false
	for token, b := range bindings {
		if b.callbacks != nil && b.callbacks.Reference != nil {
			if b.callbacks.Reference(token, b.binding, false) {
				keep = true
			}
		}
	}
	if count <= 0 && !keep {
		h.FreeObject(obj)
	}
}

func (o *Object) snapshot() map[unsafe.Pointer]objectBinding {
	out := make(map[unsafe.Pointer]objectBinding, len(o.bindings))
	for k, v := range o.bindings {
		out[k] = v
	}
	return out
}

// CallMethod drives one registered method through the generic
// convention, exactly as the engine would: arguments become live
// variant cells, the call runs, and the return cell is read back.
func (h *Host) CallMethod(class, method string, instance ffi.ClassInstancePtr, args []variant.Value) (variant.Value, *ffi.CallError) {
	return h.callMethod(class, method, instance, args, false)
}

// CallMethodConst is CallMethod issued through a const-qualified access
// path, as the engine does when the caller holds a const reference.
func (h *Host) CallMethodConst(class, method string, instance ffi.ClassInstancePtr, args []variant.Value) (variant.Value, *ffi.CallError) {
	return h.callMethod(class, method, instance, args, true)
}

func (h *Host) callMethod(class, method string, instance ffi.ClassInstancePtr, args []variant.Value, constCall bool) (variant.Value, *ffi.CallError) {
	h.mu.Lock()
	c, ok := h.classes[class]
	h.mu.Unlock()
	if !ok {
		return variant.NewNil(), ffi.NewCallError(ffi.CallErrorInvalidMethod)
	}
	info, ok := c.Methods[method]
	if !ok {
		return variant.NewNil(), ffi.NewCallError(ffi.CallErrorInvalidMethod)
	}

	raw := make([]ffi.ConstVariantPtr, len(args))
	for i, a := range args {
		cell := ffi.AllocVariant()
		h.setVariant(cell, a)
		raw[i] = ffi.ConstVariantPtr(cell)
	}
	ret := ffi.AllocVariant()
	h.setVariant(ret, variant.NewNil())

	var cerr ffi.CallError
	info.Call(info.MethodUserdata, instance, raw, ret, constCall, &cerr)

	out := h.variant(ret)
	h.mu.Lock()
	for _, p := range raw {
		delete(h.variants, ffi.VariantPtr(p))
	}
	delete(h.variants, ret)
	h.mu.Unlock()

	if cerr.Type != ffi.CallOK {
		return variant.NewNil(), &cerr
	}
	return out, nil
}

// Ptrcall drives one registered method through the pointer convention.
// The caller must pass exactly the declared arguments; the host side of
// a real engine has validated them already.
func (h *Host) Ptrcall(class, method string, instance ffi.ClassInstancePtr, args []variant.Value) (variant.Value, bool) {
	h.mu.Lock()
	c, ok := h.classes[class]
	h.mu.Unlock()
	if !ok {
		return variant.NewNil(), false
	}
	info, ok := c.Methods[method]
	if !ok {
		return variant.NewNil(), false
	}

	raw := make([]ffi.ConstTypePtr, len(args))
	for i, a := range args {
		cell := variant.RawCell(a.Kind())
		variant.StoreRaw(a, cell)
		raw[i] = ffi.ConstTypePtr(cell)
	}
	var ret ffi.TypePtr
	retKind := ffi.KindNil
	if info.HasReturnValue && info.ReturnValueInfo != nil {
		retKind = info.ReturnValueInfo.Type
		ret = variant.RawCell(retKind)
	}

	info.Ptrcall(info.MethodUserdata, instance, raw, ret)

	if ret == nil {
		return variant.NewNil(), true
	}
	return variant.LoadRaw(retKind, ffi.ConstTypePtr(ret)), true
}

// CallVirtual resolves and invokes a virtual method on an instance.
// The second return reports whether the class had an override.
func (h *Host) CallVirtual(class, method string, instance ffi.ClassInstancePtr, args []variant.Value, retKind ffi.VariantKind) (variant.Value, bool) {
	h.mu.Lock()
	c, ok := h.classes[class]
	h.mu.Unlock()
	if !ok || c.Info.GetVirtual == nil {
		return variant.NewNil(), false
	}
	name := ffi.AllocStringName()
	h.mu.Lock()
	h.names[name] = method
	h.mu.Unlock()

	fn := c.Info.GetVirtual(c.Info.ClassUserdata, ffi.ConstStringNamePtr(name))
	if fn == nil {
		return variant.NewNil(), false
	}

	raw := make([]ffi.ConstTypePtr, len(args))
	for i, a := range args {
		cell := variant.RawCell(a.Kind())
		variant.StoreRaw(a, cell)
		raw[i] = ffi.ConstTypePtr(cell)
	}
	var ret ffi.TypePtr
	if retKind != ffi.KindNil {
		ret = variant.RawCell(retKind)
	}
	fn(instance, raw, ret)
	if ret == nil {
		return variant.NewNil(), true
	}
	return variant.LoadRaw(retKind, ffi.ConstTypePtr(ret)), true
}

// LiveVariants reports how many variant cells are alive, for leak
// checks in tests.
func (h *Host) LiveVariants() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.variants)
}

// Errors returns captured error prints.
func (h *Host) Errors() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.errorLog...)
}

// Warnings returns captured warning prints.
func (h *Host) Warnings() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.warningLog...)
}
