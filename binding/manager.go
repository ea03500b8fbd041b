package binding

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wirebound/gdext/ffi"
)

// Factory builds the native wrapper for one engine object. It runs at
// most once per object, under the manager's lock.
type Factory func(obj ffi.ObjectPtr) any

// Observer receives lifecycle notifications. All methods are called
// outside the manager's lock.
type Observer interface {
	BindingCreated(obj ffi.ObjectPtr)
	BindingFreed(obj ffi.ObjectPtr)
	BindingReferenced(obj ffi.ObjectPtr, increment bool, strong int64)
}

type entry struct {
	object ffi.ObjectPtr
	value  any
	strong int64
}

func (e *entry) ptr() unsafe.Pointer {
	return unsafe.Pointer(e)
}

// Manager owns the binding table for one library. The token cell
// address identifies this manager to the engine; the engine hands it
// back on every callback.
type Manager struct {
	table   *ffi.InterfaceTable
	factory Factory
	token   *byte

	mu       sync.Mutex
	entries  map[unsafe.Pointer]*entry
	byObject map[ffi.ObjectPtr]*entry

	observer Observer
	fatal    func(msg string, fields ...zap.Field)
}

// NewManager builds a manager over a validated table. factory is
// mandatory.
func NewManager(table *ffi.InterfaceTable, factory Factory) *Manager {
	m := &Manager{
		table:    table,
		factory:  factory,
		token:    new(byte),
		entries:  make(map[unsafe.Pointer]*entry),
		byObject: make(map[ffi.ObjectPtr]*entry),
	}
	m.fatal = func(msg string, fields ...zap.Field) {
		Logger().Fatal(msg, fields...)
	}
	return m
}

// SetObserver installs a lifecycle observer.
func (m *Manager) SetObserver(o Observer) {
	m.mu.Lock()
	m.observer = o
	m.mu.Unlock()
}

// setFatalHook replaces the abort path. Tests use it to assert on
// consistency violations without exiting the process.
func (m *Manager) setFatalHook(fn func(msg string, fields ...zap.Field)) {
	m.fatal = fn
}

// Token identifies this manager to the engine.
func (m *Manager) Token() unsafe.Pointer {
	return unsafe.Pointer(m.token)
}

// Callbacks returns the triple registered with the engine for this
// manager's token.
func (m *Manager) Callbacks() *ffi.InstanceBindingCallbacks {
	return &ffi.InstanceBindingCallbacks{
		Create:    m.create,
		Free:      m.free,
		Reference: m.reference,
	}
}

// Bind returns the wrapper for obj, creating it through the engine on
// first use. Subsequent calls return the same wrapper.
func (m *Manager) Bind(obj ffi.ObjectPtr) any {
	if obj == nil {
		return nil
	}
	p := m.table.ObjectGetInstanceBinding(obj, m.Token(), m.Callbacks())
	if p == nil {
		return nil
	}
	m.mu.Lock()
	e, ok := m.entries[p]
	m.mu.Unlock()
	if !ok {
		m.fatal("engine returned a binding this manager never created",
			zap.Uintptr("binding", uintptr(p)))
		return nil
	}
	return e.value
}

// Lookup returns the wrapper for obj if one already exists, without
// creating it.
func (m *Manager) Lookup(obj ffi.ObjectPtr) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byObject[obj]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Live reports the number of bindings currently alive.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Strong reports the native strong count for obj.
func (m *Manager) Strong(obj ffi.ObjectPtr) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.byObject[obj]; ok {
		return e.strong
	}
	return 0
}

func (m *Manager) create(_, instance unsafe.Pointer) unsafe.Pointer {
	obj := ffi.ObjectPtr(instance)

	m.mu.Lock()
	if _, exists := m.byObject[obj]; exists {
		m.mu.Unlock()
		m.fatal("second binding create for the same object",
			zap.Uintptr("object", uintptr(instance)))
		return nil
	}
	e := &entry{object: obj, value: m.factory(obj)}
	m.entries[e.ptr()] = e
	m.byObject[obj] = e
	obs := m.observer
	m.mu.Unlock()

	if obs != nil {
		obs.BindingCreated(obj)
	}
	return e.ptr()
}

func (m *Manager) free(_, instance, binding unsafe.Pointer) {
	obj := ffi.ObjectPtr(instance)

	m.mu.Lock()
	e, ok := m.entries[binding]
	if !ok {
		m.mu.Unlock()
		m.fatal("free of unknown or already freed binding",
			zap.Uintptr("object", uintptr(instance)),
			zap.Uintptr("binding", uintptr(binding)))
		return
	}
	if e.strong != 0 {
		Logger().Warn("binding freed with a non-zero strong count",
			zap.Int64("strong", e.strong))
	}
	delete(m.entries, binding)
	delete(m.byObject, e.object)
	obs := m.observer
	m.mu.Unlock()

	if obs != nil {
		obs.BindingFreed(obj)
	}
}

func (m *Manager) reference(_, binding unsafe.Pointer, increment bool) bool {
	m.mu.Lock()
	e, ok := m.entries[binding]
	if !ok {
		m.mu.Unlock()
		m.fatal("reference callback for unknown binding",
			zap.Uintptr("binding", uintptr(binding)))
		return false
	}
	if increment {
		e.strong++
	} else {
		e.strong--
		if e.strong < 0 {
			strong := e.strong
			m.mu.Unlock()
			m.fatal("binding strong count went negative",
				zap.Int64("strong", strong))
			return false
		}
	}
	strong := e.strong
	obj := e.object
	obs := m.observer
	m.mu.Unlock()

	if obs != nil {
		obs.BindingReferenced(obj, increment, strong)
	}
	return strong > 0
}
