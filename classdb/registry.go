package classdb

import (
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wirebound/gdext/errors"
	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/variant"
)

// Registry owns every class this library has registered with the host,
// plus the live native instances behind their engine objects. One
// registry exists per library load.
type Registry struct {
	table   *ffi.InterfaceTable
	codec   *variant.Codec
	library ffi.ClassLibraryPtr
	policy  variant.NarrowingPolicy

	mu        sync.RWMutex
	classes   map[string]*Class
	instances map[ffi.ClassInstancePtr]*instanceRecord
	names     map[string]ffi.StringNamePtr
}

// NewRegistry builds a registry over a validated interface table.
func NewRegistry(table *ffi.InterfaceTable, library ffi.ClassLibraryPtr) *Registry {
	return &Registry{
		table:     table,
		codec:     variant.NewCodec(table),
		library:   library,
		classes:   make(map[string]*Class),
		instances: make(map[ffi.ClassInstancePtr]*instanceRecord),
		names:     make(map[string]ffi.StringNamePtr),
	}
}

// SetNarrowingPolicy selects how pointer-call return values are fitted
// into narrower declared widths.
func (r *Registry) SetNarrowingPolicy(p variant.NarrowingPolicy) {
	r.policy = p
}

// Codec returns the boundary codec the registry dispatches through.
func (r *Registry) Codec() *variant.Codec {
	return r.codec
}

// internName returns the host handle for an interned name, creating it
// on first use. Handles live until the library unloads.
func (r *Registry) internName(s string) ffi.StringNamePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.names[s]; ok {
		return p
	}
	p := ffi.AllocStringName()
	r.table.StringNameNewWithUTF8Chars(p, s)
	r.names[s] = p
	return p
}

func (r *Registry) nameOf(p ffi.ConstStringNamePtr) string {
	return r.table.StringNameToUTF8Chars(p)
}

// Register validates desc, submits the class and its methods to the
// host, and retains the compiled form for dispatch. Validation problems
// are aggregated so a malformed descriptor reports everything wrong
// with it at once.
func (r *Registry) Register(desc *Descriptor) error {
	if desc == nil {
		return errors.NilPointer(errors.PhaseRegister, "class descriptor")
	}
	if err := desc.validate(); err != nil {
		return errors.Registration(desc.Name, err)
	}

	r.mu.Lock()
	if _, exists := r.classes[desc.Name]; exists {
		r.mu.Unlock()
		return errors.DuplicateClass(desc.Name)
	}
	r.mu.Unlock()

	c := &Class{reg: r, desc: desc, binds: make(map[string]*methodBind, len(desc.Methods))}
	for _, m := range desc.Methods {
		c.binds[m.Name] = newMethodBind(r, c, m)
	}

	// Defaults are lowered once and stay alive until unregistration;
	// the host reads them on every call that omits trailing arguments.
	var lowerErrs error
	for _, m := range desc.Methods {
		for _, dv := range m.Default {
			cell, err := r.codec.LowerNew(dv)
			if err != nil {
				lowerErrs = multierr.Append(lowerErrs, err)
				continue
			}
			c.defaults = append(c.defaults, cell)
		}
	}
	if lowerErrs != nil {
		c.destroyDefaults()
		return errors.Registration(desc.Name, lowerErrs)
	}

	r.table.ClassdbRegisterExtensionClass(
		r.library,
		ffi.ConstStringNamePtr(r.internName(desc.Name)),
		ffi.ConstStringNamePtr(r.internName(desc.Parent)),
		c.creationInfo(),
	)
	next := 0
	for _, m := range desc.Methods {
		info := c.methodInfo(c.binds[m.Name], c.defaults[next:next+len(m.Default)])
		next += len(m.Default)
		r.table.ClassdbRegisterExtensionClassMethod(r.library, ffi.ConstStringNamePtr(r.internName(desc.Name)), info)
	}

	r.mu.Lock()
	r.classes[desc.Name] = c
	r.mu.Unlock()

	Logger().Info("class registered",
		zap.String("class", desc.Name),
		zap.String("parent", desc.Parent),
		zap.Int("methods", len(desc.Methods)))
	return nil
}

// Unregister withdraws a class from the host. It refuses while native
// instances of the class are still alive; the host would be left with
// objects whose extension half is gone.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	c, ok := r.classes[name]
	if !ok {
		r.mu.Unlock()
		return errors.NotFound(errors.PhaseRegister, "class", name)
	}
	live := 0
	for _, rec := range r.instances {
		if rec.class == c {
			live++
		}
	}
	if live > 0 {
		r.mu.Unlock()
		return errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			Class(name).
			Detail("%d live instance(s) prevent unregistration", live).Build()
	}
	delete(r.classes, name)
	r.mu.Unlock()

	r.table.ClassdbUnregisterExtensionClass(r.library, ffi.ConstStringNamePtr(r.internName(name)))
	c.destroyDefaults()

	Logger().Info("class unregistered", zap.String("class", name))
	return nil
}

// Class returns a registered class by name.
func (r *Registry) Class(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// Classes lists registered class names in sorted order.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.classes))
	for name := range r.classes {
		out = append(out, name)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Construct creates one engine object of a registered class together
// with its native instance, the same path the host's own construction
// request takes.
func (r *Registry) Construct(name string) (ffi.ObjectPtr, error) {
	c, ok := r.Class(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, "class", name)
	}
	return c.instantiate()
}

func (r *Registry) propertyInfo(pd PropertyDescriptor) ffi.PropertyInfo {
	info := ffi.PropertyInfo{
		Type:  pd.Kind,
		Name:  r.internName(pd.Name),
		Hint:  pd.Hint,
		Usage: pd.Usage,
	}
	if pd.ClassName != "" {
		info.ClassName = r.internName(pd.ClassName)
	}
	if pd.HintString != "" {
		p := ffi.AllocString()
		r.table.StringNewWithUTF8Chars(p, pd.HintString)
		info.HintString = p
	}
	return info
}
