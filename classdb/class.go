package classdb

import (
	"sort"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wirebound/gdext/errors"
	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/variant"
)

// Class is the compiled, registered form of a Descriptor.
type Class struct {
	reg      *Registry
	desc     *Descriptor
	binds    map[string]*methodBind
	defaults []ffi.VariantPtr
}

// Name returns the registered class name.
func (c *Class) Name() string { return c.desc.Name }

// Parent returns the name of the class this one extends.
func (c *Class) Parent() string { return c.desc.Parent }

// Methods lists declared method names in sorted order.
func (c *Class) Methods() []string {
	out := make([]string, 0, len(c.binds))
	for name := range c.binds {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Method returns the declaration of one method.
func (c *Class) Method(name string) (*Method, bool) {
	b, ok := c.binds[name]
	if !ok {
		return nil, false
	}
	return b.method, true
}

// MethodID returns the stable dispatch id of one method.
func (c *Class) MethodID(name string) (uint64, bool) {
	b, ok := c.binds[name]
	if !ok {
		return 0, false
	}
	return b.id, true
}

func (c *Class) destroyDefaults() {
	for _, cell := range c.defaults {
		c.reg.codec.Destroy(cell)
	}
	c.defaults = nil
}

// instantiate constructs the engine object and its native instance,
// then ties them together. Shared by the host's create callback and
// Registry.Construct.
func (c *Class) instantiate() (obj ffi.ObjectPtr, err error) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("constructor panicked",
				zap.String("class", c.desc.Name),
				zap.Any("panic", r))
			obj, err = nil, errors.New(errors.PhaseCall, errors.KindInvalidInput).
				Class(c.desc.Name).Detail("constructor panicked").Build()
		}
	}()

	value := c.desc.Constructor()
	obj = c.reg.table.ClassdbConstructObject(ffi.ConstStringNamePtr(c.reg.internName(c.desc.Parent)))
	if obj == nil {
		return nil, errors.New(errors.PhaseCall, errors.KindNotFound).
			Class(c.desc.Name).
			Detail("host could not construct parent %q", c.desc.Parent).Build()
	}

	rec := &instanceRecord{class: c, value: value, object: obj}
	rec.id = c.reg.table.ObjectGetInstanceID(obj)
	p := c.reg.storeInstance(rec)
	c.reg.table.ObjectSetInstance(obj, ffi.ConstStringNamePtr(c.reg.internName(c.desc.Name)), p)
	return obj, nil
}

func (c *Class) freeInstance(p ffi.ClassInstancePtr) {
	rec, ok := c.reg.dropInstance(p)
	if !ok {
		// Unknown pointer or second free of the same one. The memory
		// is not touched.
		Logger().Error("free of unknown or already freed instance",
			zap.String("class", c.desc.Name))
		return
	}
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("destructor panicked",
				zap.String("class", c.desc.Name),
				zap.Any("panic", r))
		}
	}()
	c.desc.Destructor(rec.value)
}

// value resolves the native instance behind a host-supplied pointer.
func (c *Class) value(p ffi.ClassInstancePtr) (any, bool) {
	rec, ok := c.reg.instance(p)
	if !ok {
		Logger().Error("callback on unknown instance", zap.String("class", c.desc.Name))
		return nil, false
	}
	return rec.value, true
}

// creationInfo assembles the host registration struct. Hooks the
// descriptor leaves nil stay nil so the host sees them as absent.
func (c *Class) creationInfo() *ffi.ClassCreationInfo {
	info := &ffi.ClassCreationInfo{
		IsVirtual:  c.desc.IsVirtual,
		IsAbstract: c.desc.IsAbstract,
		CreateInstance: func(_ unsafe.Pointer) ffi.ObjectPtr {
			obj, err := c.instantiate()
			if err != nil {
				return nil
			}
			return obj
		},
		FreeInstance: func(_ unsafe.Pointer, p ffi.ClassInstancePtr) {
			c.freeInstance(p)
		},
	}

	if c.desc.Set != nil {
		info.Set = func(p ffi.ClassInstancePtr, name ffi.ConstStringNamePtr, value ffi.ConstVariantPtr) bool {
			inst, ok := c.value(p)
			if !ok {
				return false
			}
			v, err := c.reg.codec.Lift(value)
			if err != nil {
				Logger().Error("property set lift failed",
					zap.String("class", c.desc.Name), zap.Error(err))
				return false
			}
			return c.desc.Set(inst, c.reg.nameOf(name), v)
		}
	}
	if c.desc.Get != nil {
		info.Get = func(p ffi.ClassInstancePtr, name ffi.ConstStringNamePtr, ret ffi.VariantPtr) bool {
			inst, ok := c.value(p)
			if !ok {
				return false
			}
			v, found := c.desc.Get(inst, c.reg.nameOf(name))
			if !found {
				return false
			}
			if err := c.reg.codec.Lower(v, ret); err != nil {
				Logger().Error("property get lower failed",
					zap.String("class", c.desc.Name), zap.Error(err))
				return false
			}
			return true
		}
	}
	if c.desc.PropertyList != nil {
		info.GetPropertyList = func(p ffi.ClassInstancePtr) []ffi.PropertyInfo {
			inst, ok := c.value(p)
			if !ok {
				return nil
			}
			props := c.desc.PropertyList(inst)
			list := make([]ffi.PropertyInfo, len(props))
			for i, pd := range props {
				list[i] = c.reg.propertyInfo(pd)
			}
			c.reg.mu.Lock()
			if rec, ok := c.reg.instances[p]; ok {
				rec.propertyLists++
			}
			c.reg.mu.Unlock()
			return list
		}
		info.FreePropertyList = func(p ffi.ClassInstancePtr, _ []ffi.PropertyInfo) {
			c.reg.mu.Lock()
			defer c.reg.mu.Unlock()
			rec, ok := c.reg.instances[p]
			if !ok || rec.propertyLists == 0 {
				Logger().Error("property list freed twice or for unknown instance",
					zap.String("class", c.desc.Name))
				return
			}
			rec.propertyLists--
		}
	}
	if c.desc.CanRevert != nil {
		info.PropertyCanRevert = func(p ffi.ClassInstancePtr, name ffi.ConstStringNamePtr) bool {
			inst, ok := c.value(p)
			return ok && c.desc.CanRevert(inst, c.reg.nameOf(name))
		}
	}
	if c.desc.Revert != nil {
		info.PropertyGetRevert = func(p ffi.ClassInstancePtr, name ffi.ConstStringNamePtr, ret ffi.VariantPtr) bool {
			inst, ok := c.value(p)
			if !ok {
				return false
			}
			v, found := c.desc.Revert(inst, c.reg.nameOf(name))
			if !found {
				return false
			}
			return c.reg.codec.Lower(v, ret) == nil
		}
	}
	if c.desc.Notification != nil {
		info.Notification = func(p ffi.ClassInstancePtr, what int32) {
			if inst, ok := c.value(p); ok {
				c.desc.Notification(inst, what)
			}
		}
	}
	if c.desc.ToString != nil {
		info.ToString = func(p ffi.ClassInstancePtr, out ffi.StringPtr) bool {
			inst, ok := c.value(p)
			if !ok {
				return false
			}
			s, valid := c.desc.ToString(inst)
			if !valid {
				return false
			}
			c.reg.table.StringNewWithUTF8Chars(out, s)
			return true
		}
	}
	if c.desc.Reference != nil {
		info.Reference = func(p ffi.ClassInstancePtr) {
			if inst, ok := c.value(p); ok {
				c.desc.Reference(inst)
			}
		}
	}
	if c.desc.Unreference != nil {
		info.Unreference = func(p ffi.ClassInstancePtr) {
			if inst, ok := c.value(p); ok {
				c.desc.Unreference(inst)
			}
		}
	}
	if c.desc.RID != nil {
		info.GetRID = func(p ffi.ClassInstancePtr) ffi.RID {
			inst, ok := c.value(p)
			if !ok {
				return 0
			}
			return c.desc.RID(inst)
		}
	}
	if len(c.desc.Virtuals) > 0 {
		info.GetVirtual = func(_ unsafe.Pointer, name ffi.ConstStringNamePtr) ffi.ClassCallVirtual {
			vm, ok := c.desc.Virtuals[c.reg.nameOf(name)]
			if !ok {
				return nil
			}
			return c.virtualThunk(vm)
		}
	}
	return info
}

// virtualThunk adapts one virtual body to the raw-pointer convention
// the host calls resolved virtuals with.
func (c *Class) virtualThunk(vm VirtualMethod) ffi.ClassCallVirtual {
	return func(p ffi.ClassInstancePtr, raw []ffi.ConstTypePtr, ret ffi.TypePtr) {
		defer func() {
			if r := recover(); r != nil {
				Logger().Error("virtual method panicked",
					zap.String("class", c.desc.Name),
					zap.Any("panic", r))
			}
		}()
		inst, ok := c.value(p)
		if !ok {
			return
		}
		args := make([]variant.Value, len(vm.Args))
		for i, kind := range vm.Args {
			if i < len(raw) {
				args[i] = variant.LoadRaw(kind, raw[i])
			}
		}
		result := vm.Fn(inst, args)
		if vm.HasReturn && ret != nil {
			variant.StoreRaw(result, ret)
		}
	}
}

// methodInfo assembles the host registration struct for one method.
// defaults are the pre-lowered variant cells for this method, in
// declaration order.
func (c *Class) methodInfo(b *methodBind, defaults []ffi.VariantPtr) *ffi.ClassMethodInfo {
	m := b.method
	info := &ffi.ClassMethodInfo{
		Name:        c.reg.internName(m.Name),
		MethodFlags: m.Flags,
		Call: func(_ unsafe.Pointer, p ffi.ClassInstancePtr, args []ffi.ConstVariantPtr, ret ffi.VariantPtr, constCall bool, cerr *ffi.CallError) {
			b.call(p, args, ret, constCall, cerr)
		},
		Ptrcall: func(_ unsafe.Pointer, p ffi.ClassInstancePtr, args []ffi.ConstTypePtr, ret ffi.TypePtr) {
			b.ptrcall(p, args, ret)
		},
		DefaultArguments: defaults,
	}
	if m.Return != nil {
		ri := c.reg.propertyInfo(PropertyDescriptor{Name: m.Return.Name, Kind: m.Return.Kind})
		info.HasReturnValue = true
		info.ReturnValueInfo = &ri
		info.ReturnValueMetadata = m.Return.Metadata
	}
	info.ArgumentsInfo = make([]ffi.PropertyInfo, len(m.Args))
	info.ArgumentsMetadata = make([]ffi.ArgumentMetadata, len(m.Args))
	for i, a := range m.Args {
		info.ArgumentsInfo[i] = c.reg.propertyInfo(PropertyDescriptor{Name: a.Name, Kind: a.Kind})
		info.ArgumentsMetadata[i] = a.Metadata
	}
	return info
}
