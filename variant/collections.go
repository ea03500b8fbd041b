package variant

import "github.com/wirebound/gdext/ffi"

// StringName is an interned engine name. Interning happens host-side at
// lowering time; on the Go side it behaves as a plain string.
type StringName string

// NodePath is an engine scene-tree path.
type NodePath string

// Callable pairs an object identity with a method name.
type Callable struct {
	Object ffi.InstanceID
	Method StringName
}

// Signal pairs an object identity with a signal name.
type Signal struct {
	Object ffi.InstanceID
	Name   StringName
}

// Array is an ordered list of Values. The top-level slice is copied on
// every boundary crossing.
type Array []Value

// Clone returns a copy of the array's top-level storage.
func (a Array) Clone() Array {
	if a == nil {
		return nil
	}
	out := make(Array, len(a))
	copy(out, a)
	return out
}

// Equal compares element-wise.
func (a Array) Equal(b Array) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

type pair struct {
	key   Value
	value Value
}

// Dictionary is an insertion-ordered mapping of Values to Values.
// Lookup uses Value.Equal, so any variant kind can act as a key.
type Dictionary struct {
	pairs []pair
}

// Set inserts or replaces the value for key, preserving insertion order.
func (d *Dictionary) Set(key, value Value) {
	for i := range d.pairs {
		if d.pairs[i].key.Equal(key) {
			d.pairs[i].value = value
			return
		}
	}
	d.pairs = append(d.pairs, pair{key: key, value: value})
}

// Get returns the value stored under key.
func (d *Dictionary) Get(key Value) (Value, bool) {
	for i := range d.pairs {
		if d.pairs[i].key.Equal(key) {
			return d.pairs[i].value, true
		}
	}
	return NewNil(), false
}

// Delete removes key and reports whether it was present.
func (d *Dictionary) Delete(key Value) bool {
	for i := range d.pairs {
		if d.pairs[i].key.Equal(key) {
			d.pairs = append(d.pairs[:i], d.pairs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.pairs)
}

// Each iterates entries in insertion order until fn returns false.
func (d *Dictionary) Each(fn func(key, value Value) bool) {
	if d == nil {
		return
	}
	for i := range d.pairs {
		if !fn(d.pairs[i].key, d.pairs[i].value) {
			return
		}
	}
}

// Clone returns a copy with its own entry storage.
func (d *Dictionary) Clone() *Dictionary {
	if d == nil {
		return nil
	}
	out := &Dictionary{pairs: make([]pair, len(d.pairs))}
	copy(out.pairs, d.pairs)
	return out
}

// Equal compares entries pairwise, order included.
func (d *Dictionary) Equal(o *Dictionary) bool {
	if d.Len() != o.Len() {
		return false
	}
	for i := range d.pairs {
		if !d.pairs[i].key.Equal(o.pairs[i].key) || !d.pairs[i].value.Equal(o.pairs[i].value) {
			return false
		}
	}
	return true
}
