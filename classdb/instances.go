package classdb

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/wirebound/gdext/ffi"
)

// instanceRecord is the native state attached to one live engine object
// of an extension class. The ClassInstancePtr handed to the host is the
// address of this record; the registry's instance map is the source of
// truth for which records are alive.
type instanceRecord struct {
	class  *Class
	value  any
	object ffi.ObjectPtr
	id     ffi.InstanceID

	// propertyLists counts lists handed to the host and not yet
	// returned through the free callback.
	propertyLists int
}

func (r *instanceRecord) ptr() ffi.ClassInstancePtr {
	return ffi.ClassInstancePtr(unsafe.Pointer(r))
}

func (r *Registry) storeInstance(rec *instanceRecord) ffi.ClassInstancePtr {
	p := rec.ptr()
	r.mu.Lock()
	r.instances[p] = rec
	r.mu.Unlock()
	return p
}

func (r *Registry) instance(p ffi.ClassInstancePtr) (*instanceRecord, bool) {
	if p == nil {
		return nil, false
	}
	r.mu.RLock()
	rec, ok := r.instances[p]
	r.mu.RUnlock()
	return rec, ok
}

// dropInstance removes the record and reports whether it was present.
// A miss means the host freed a pointer it never created or freed it
// twice; the caller logs and refuses to touch the memory.
func (r *Registry) dropInstance(p ffi.ClassInstancePtr) (*instanceRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.instances[p]
	if !ok {
		return nil, false
	}
	if rec.propertyLists != 0 {
		Logger().Warn("instance freed with outstanding property lists",
			zap.String("class", rec.class.desc.Name),
			zap.Int("outstanding", rec.propertyLists))
	}
	delete(r.instances, p)
	return rec, true
}

// LiveInstances returns the number of native instances currently bound
// to engine objects.
func (r *Registry) LiveInstances() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}

// InstanceValue returns the native value behind an instance pointer.
func (r *Registry) InstanceValue(p ffi.ClassInstancePtr) (any, bool) {
	rec, ok := r.instance(p)
	if !ok {
		return nil, false
	}
	return rec.value, true
}
