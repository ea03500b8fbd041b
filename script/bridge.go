package script

import (
	"sync"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/wirebound/gdext/errors"
	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/variant"
)

// state is the bridge-side record for one attached instance. Its
// address is the ScriptInstanceDataPtr the engine calls back with.
type state struct {
	inst Instance

	mu            sync.Mutex
	propertyLists int
	methodLists   int
	freed         bool
}

func (s *state) ptr() ffi.ScriptInstanceDataPtr {
	return ffi.ScriptInstanceDataPtr(unsafe.Pointer(s))
}

// Bridge adapts Instances to the host's script-instance protocol. One
// bridge serves any number of instances; the callback table is shared
// and instances are told apart by their data pointer.
type Bridge struct {
	table *ffi.InterfaceTable
	codec *variant.Codec
	info  *ffi.ScriptInstanceInfo

	mu        sync.Mutex
	instances map[ffi.ScriptInstanceDataPtr]*state
	names     map[string]ffi.StringNamePtr
}

// NewBridge builds a bridge over a validated table.
func NewBridge(table *ffi.InterfaceTable) *Bridge {
	b := &Bridge{
		table:     table,
		codec:     variant.NewCodec(table),
		instances: make(map[ffi.ScriptInstanceDataPtr]*state),
		names:     make(map[string]ffi.StringNamePtr),
	}
	b.info = b.buildInfo()
	return b
}

// Attach registers inst with the engine and returns the engine-side
// handle. The instance stays attached until the engine frees it.
func (b *Bridge) Attach(inst Instance) (ffi.ScriptInstancePtr, error) {
	if inst == nil {
		return nil, errors.NilPointer(errors.PhaseScript, "script instance")
	}
	st := &state{inst: inst}
	b.mu.Lock()
	b.instances[st.ptr()] = st
	b.mu.Unlock()

	handle := b.table.ScriptInstanceCreate(b.info, st.ptr())
	if handle == nil {
		b.mu.Lock()
		delete(b.instances, st.ptr())
		b.mu.Unlock()
		return nil, errors.New(errors.PhaseScript, errors.KindInvalidInput).
			Detail("host refused the script instance").Build()
	}
	return handle, nil
}

// Live reports the number of attached instances.
func (b *Bridge) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.instances)
}

func (b *Bridge) state(p ffi.ScriptInstanceDataPtr) (*state, bool) {
	b.mu.Lock()
	st, ok := b.instances[p]
	b.mu.Unlock()
	if !ok {
		Logger().Error("callback for unknown script instance")
	}
	return st, ok
}

func (b *Bridge) internName(s string) ffi.StringNamePtr {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.names[s]; ok {
		return p
	}
	p := ffi.AllocStringName()
	b.table.StringNameNewWithUTF8Chars(p, s)
	b.names[s] = p
	return p
}

func (b *Bridge) nameOf(p ffi.ConstStringNamePtr) string {
	return b.table.StringNameToUTF8Chars(p)
}

func (b *Bridge) propertyInfo(p Property) ffi.PropertyInfo {
	info := ffi.PropertyInfo{
		Type:  p.Kind,
		Name:  b.internName(p.Name),
		Hint:  p.Hint,
		Usage: p.Usage,
	}
	if p.ClassName != "" {
		info.ClassName = b.internName(p.ClassName)
	}
	if p.HintString != "" {
		s := ffi.AllocString()
		b.table.StringNewWithUTF8Chars(s, p.HintString)
		info.HintString = s
	}
	return info
}

func (b *Bridge) buildInfo() *ffi.ScriptInstanceInfo {
	info := &ffi.ScriptInstanceInfo{
		Set: func(p ffi.ScriptInstanceDataPtr, name ffi.ConstStringNamePtr, value ffi.ConstVariantPtr) bool {
			st, ok := b.state(p)
			if !ok {
				return false
			}
			v, err := b.codec.Lift(value)
			if err != nil {
				Logger().Error("script set lift failed", zap.Error(err))
				return false
			}
			return st.inst.SetProperty(b.nameOf(name), v)
		},
		Get: func(p ffi.ScriptInstanceDataPtr, name ffi.ConstStringNamePtr, ret ffi.VariantPtr) bool {
			st, ok := b.state(p)
			if !ok {
				return false
			}
			v, found := st.inst.GetProperty(b.nameOf(name))
			if !found {
				return false
			}
			return b.codec.Lower(v, ret) == nil
		},
		GetPropertyList: func(p ffi.ScriptInstanceDataPtr) []ffi.PropertyInfo {
			st, ok := b.state(p)
			if !ok {
				return nil
			}
			props := st.inst.PropertyList()
			list := make([]ffi.PropertyInfo, len(props))
			for i, pr := range props {
				list[i] = b.propertyInfo(pr)
			}
			st.mu.Lock()
			st.propertyLists++
			st.mu.Unlock()
			return list
		},
		FreePropertyList: func(p ffi.ScriptInstanceDataPtr, _ []ffi.PropertyInfo) {
			st, ok := b.state(p)
			if !ok {
				return
			}
			st.mu.Lock()
			defer st.mu.Unlock()
			if st.propertyLists == 0 {
				Logger().Error("property list freed without a matching get",
					zap.Error(errors.DoubleFree("property list")))
				return
			}
			st.propertyLists--
		},
		GetMethodList: func(p ffi.ScriptInstanceDataPtr) []ffi.MethodInfo {
			st, ok := b.state(p)
			if !ok {
				return nil
			}
			sigs := st.inst.MethodList()
			list := make([]ffi.MethodInfo, len(sigs))
			for i, sig := range sigs {
				mi := ffi.MethodInfo{
					Name:  b.internName(sig.Name),
					Flags: uint32(sig.Flags),
					ID:    int32(xxhash.Sum64String(sig.Name)),
				}
				if sig.HasReturn {
					mi.ReturnValue = ffi.PropertyInfo{Type: sig.Return}
				}
				mi.Arguments = make([]ffi.PropertyInfo, len(sig.Args))
				for j, a := range sig.Args {
					mi.Arguments[j] = b.propertyInfo(a)
				}
				list[i] = mi
			}
			st.mu.Lock()
			st.methodLists++
			st.mu.Unlock()
			return list
		},
		FreeMethodList: func(p ffi.ScriptInstanceDataPtr, _ []ffi.MethodInfo) {
			st, ok := b.state(p)
			if !ok {
				return
			}
			st.mu.Lock()
			defer st.mu.Unlock()
			if st.methodLists == 0 {
				Logger().Error("method list freed without a matching get",
					zap.Error(errors.DoubleFree("method list")))
				return
			}
			st.methodLists--
		},
		HasMethod: func(p ffi.ScriptInstanceDataPtr, name ffi.ConstStringNamePtr) bool {
			st, ok := b.state(p)
			return ok && st.inst.HasMethod(b.nameOf(name))
		},
		Call: func(p ffi.ScriptInstanceDataPtr, method ffi.ConstStringNamePtr, raw []ffi.ConstVariantPtr, ret ffi.VariantPtr, cerr *ffi.CallError) {
			*cerr = ffi.CallError{Type: ffi.CallOK}
			st, ok := b.state(p)
			if !ok {
				*cerr = ffi.CallError{Type: ffi.CallErrorInstanceIsNull}
				return
			}
			args := make([]variant.Value, len(raw))
			for i, rp := range raw {
				v, err := b.codec.Lift(rp)
				if err != nil {
					*cerr = *ffi.InvalidArgument(i, ffi.KindNil)
					return
				}
				args[i] = v
			}
			out, callErr := b.dispatch(st, b.nameOf(method), args)
			if callErr != nil {
				*cerr = *callErr
				return
			}
			if ret != nil {
				if err := b.codec.Lower(out, ret); err != nil {
					Logger().Error("script call return lowering failed", zap.Error(err))
					*cerr = ffi.CallError{Type: ffi.CallErrorInvalidMethod}
				}
			}
		},
		GetOwner: func(p ffi.ScriptInstanceDataPtr) ffi.ObjectPtr {
			st, ok := b.state(p)
			if !ok {
				return nil
			}
			return st.inst.Owner()
		},
		GetPropertyState: func(p ffi.ScriptInstanceDataPtr, add ffi.ScriptInstancePropertyStateAdd, userdata unsafe.Pointer) {
			st, ok := b.state(p)
			if !ok {
				return
			}
			provider, ok := st.inst.(StateProvider)
			if !ok {
				// Fall back to walking the declared property list.
				for _, pr := range st.inst.PropertyList() {
					if v, found := st.inst.GetProperty(pr.Name); found {
						b.pushState(add, pr.Name, v, userdata)
					}
				}
				return
			}
			provider.PropertyState(func(name string, v variant.Value) {
				b.pushState(add, name, v, userdata)
			})
		},
		GetPropertyType: func(p ffi.ScriptInstanceDataPtr, name ffi.ConstStringNamePtr) (ffi.VariantKind, bool) {
			st, ok := b.state(p)
			if !ok {
				return ffi.KindNil, false
			}
			if typer, ok := st.inst.(PropertyTyper); ok {
				return typer.PropertyType(b.nameOf(name))
			}
			for _, pr := range st.inst.PropertyList() {
				if pr.Name == b.nameOf(name) {
					return pr.Kind, true
				}
			}
			return ffi.KindNil, false
		},
		Free: func(p ffi.ScriptInstanceDataPtr) {
			b.mu.Lock()
			st, ok := b.instances[p]
			if ok {
				delete(b.instances, p)
			}
			b.mu.Unlock()
			if !ok {
				Logger().Error("free of unknown or already freed script instance",
					zap.Error(errors.DoubleFree("script instance")))
				return
			}
			st.mu.Lock()
			leaked := st.propertyLists + st.methodLists
			st.freed = true
			st.mu.Unlock()
			if leaked > 0 {
				Logger().Error("script instance freed with outstanding lists",
					zap.Error(errors.ListLeak(leaked)))
			}
			st.inst.Free()
		},
	}

	info.Notification = func(p ffi.ScriptInstanceDataPtr, what int32) {
		st, ok := b.state(p)
		if !ok {
			return
		}
		if n, ok := st.inst.(Notifier); ok {
			n.Notification(what)
		}
	}
	info.ToString = func(p ffi.ScriptInstanceDataPtr, out ffi.StringPtr) bool {
		st, ok := b.state(p)
		if !ok {
			return false
		}
		sf, ok := st.inst.(Stringifier)
		if !ok {
			return false
		}
		s, valid := sf.ToString()
		if !valid {
			return false
		}
		b.table.StringNewWithUTF8Chars(out, s)
		return true
	}
	info.PropertyCanRevert = func(p ffi.ScriptInstanceDataPtr, name ffi.ConstStringNamePtr) bool {
		st, ok := b.state(p)
		if !ok {
			return false
		}
		r, ok := st.inst.(Reverter)
		return ok && r.CanRevert(b.nameOf(name))
	}
	info.PropertyGetRevert = func(p ffi.ScriptInstanceDataPtr, name ffi.ConstStringNamePtr, ret ffi.VariantPtr) bool {
		st, ok := b.state(p)
		if !ok {
			return false
		}
		r, ok := st.inst.(Reverter)
		if !ok {
			return false
		}
		v, found := r.Revert(b.nameOf(name))
		if !found {
			return false
		}
		return b.codec.Lower(v, ret) == nil
	}
	info.RefCountIncremented = func(p ffi.ScriptInstanceDataPtr) {
		st, ok := b.state(p)
		if !ok {
			return
		}
		if rc, ok := st.inst.(RefCounted); ok {
			rc.RefCountIncremented()
		}
	}
	info.RefCountDecremented = func(p ffi.ScriptInstanceDataPtr) bool {
		st, ok := b.state(p)
		if !ok {
			return true
		}
		if rc, ok := st.inst.(RefCounted); ok {
			return rc.RefCountDecremented()
		}
		return true
	}
	info.GetScript = func(p ffi.ScriptInstanceDataPtr) ffi.ObjectPtr {
		st, ok := b.state(p)
		if !ok {
			return nil
		}
		if sp, ok := st.inst.(ScriptProvider); ok {
			return sp.Script()
		}
		return nil
	}
	info.GetLanguage = func(p ffi.ScriptInstanceDataPtr) ffi.ScriptLanguagePtr {
		st, ok := b.state(p)
		if !ok {
			return nil
		}
		if lp, ok := st.inst.(LanguageProvider); ok {
			return lp.Language()
		}
		return nil
	}
	info.IsPlaceholder = func(p ffi.ScriptInstanceDataPtr) bool {
		st, ok := b.state(p)
		if !ok {
			return false
		}
		if ph, ok := st.inst.(Placeholder); ok {
			return ph.IsPlaceholder()
		}
		return false
	}
	info.SetFallback = info.Set
	info.GetFallback = info.Get
	return info
}

// dispatch runs one dynamic call with panic containment.
func (b *Bridge) dispatch(st *state, method string, args []variant.Value) (out variant.Value, cerr *ffi.CallError) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("script method panicked",
				zap.String("method", method),
				zap.Any("panic", r))
			out, cerr = variant.NewNil(), ffi.NewCallError(ffi.CallErrorInvalidMethod)
		}
	}()
	return st.inst.Call(method, args)
}

// pushState lowers one (name, value) pair, pushes it, and destroys the
// cell: state values are borrowed by the receiver for the duration of
// the add call only.
func (b *Bridge) pushState(add ffi.ScriptInstancePropertyStateAdd, name string, v variant.Value, userdata unsafe.Pointer) {
	cell, err := b.codec.LowerNew(v)
	if err != nil {
		Logger().Error("property state lowering failed",
			zap.String("property", name), zap.Error(err))
		return
	}
	add(ffi.ConstStringNamePtr(b.internName(name)), ffi.ConstVariantPtr(cell), userdata)
	b.codec.Destroy(cell)
}
