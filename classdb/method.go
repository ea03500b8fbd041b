package classdb

import (
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/wirebound/gdext/errors"
	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/variant"
)

// Argument declares one method argument or the return slot.
type Argument struct {
	Name     string
	Kind     ffi.VariantKind
	Metadata ffi.ArgumentMetadata
}

// Method declares one callable method. Fn receives the instance value
// (nil for static methods) and the fully resolved argument list:
// defaults filled in, kinds and metadata already validated on the
// generic path. Vararg methods receive declared arguments validated
// and the surplus as-is.
type Method struct {
	Name    string
	Flags   ffi.MethodFlags
	Args    []Argument
	Return  *Argument
	Default []variant.Value

	Fn func(instance any, args []variant.Value) (variant.Value, error)
}

func (m *Method) validate(class string) error {
	b := func(kind errors.Kind) *errors.Builder {
		return errors.New(errors.PhaseRegister, kind).Class(class).Method(m.Name)
	}
	if m == nil {
		return errors.InvalidInput(errors.PhaseRegister, "nil method in class "+class)
	}
	if m.Name == "" {
		return errors.InvalidInput(errors.PhaseRegister, "unnamed method in class "+class)
	}
	if m.Fn == nil {
		return b(errors.KindMissingCallback).Detail("method has no body").Build()
	}
	if len(m.Default) > len(m.Args) {
		return b(errors.KindInvalidInput).
			Detail("%d defaults for %d arguments", len(m.Default), len(m.Args)).Build()
	}
	for i := range m.Default {
		arg := m.Args[len(m.Args)-len(m.Default)+i]
		if !m.Default[i].IsNil() && m.Default[i].Kind() != arg.Kind {
			return b(errors.KindMismatch).
				Expected(arg.Kind.String()).Actual(m.Default[i].Kind().String()).
				Detail("default for argument %q", arg.Name).Build()
		}
	}
	if m.Flags.Has(ffi.MethodFlagStatic) && m.Flags.Has(ffi.MethodFlagVirtual) {
		return b(errors.KindInvalidInput).Detail("method is both static and virtual").Build()
	}
	return nil
}

// Vararg reports whether the method accepts surplus arguments.
func (m *Method) Vararg() bool { return m.Flags.Has(ffi.MethodFlagVararg) }

// Static reports whether the method dispatches without an instance.
func (m *Method) Static() bool { return m.Flags.Has(ffi.MethodFlagStatic) }

// methodBind is the compiled dispatch form of one method: the declared
// shape plus the thunks handed to the host.
type methodBind struct {
	reg    *Registry
	class  *Class
	method *Method
	id     uint64
}

func newMethodBind(reg *Registry, class *Class, m *Method) *methodBind {
	return &methodBind{
		reg:    reg,
		class:  class,
		method: m,
		id:     xxhash.Sum64String(class.desc.Name + "." + m.Name),
	}
}

// resolveArgs fills defaults and validates count, kinds, and metadata
// for the generic convention. On failure the call error is populated
// and the returned slice is nil.
func (b *methodBind) resolveArgs(raw []ffi.ConstVariantPtr, cerr *ffi.CallError) []variant.Value {
	m := b.method
	declared := len(m.Args)
	required := declared - len(m.Default)

	if len(raw) < required {
		*cerr = ffi.CallError{Type: ffi.CallErrorTooFewArguments, Expected: int32(required)}
		return nil
	}
	if !m.Vararg() && len(raw) > declared {
		*cerr = ffi.CallError{Type: ffi.CallErrorTooManyArguments, Expected: int32(declared)}
		return nil
	}

	out := make([]variant.Value, 0, len(raw))
	for i, p := range raw {
		if i >= declared {
			// Vararg surplus: lifted without a declared kind.
			v, err := b.reg.codec.Lift(p)
			if err != nil {
				*cerr = ffi.CallError{Type: ffi.CallErrorInvalidArgument, Argument: int32(i)}
				return nil
			}
			out = append(out, v)
			continue
		}
		arg := m.Args[i]
		v, err := b.reg.codec.LiftExpect(p, arg.Kind)
		if err != nil {
			*cerr = *ffi.InvalidArgument(i, arg.Kind)
			return nil
		}
		if err := variant.CheckMetadata(v, arg.Metadata); err != nil {
			*cerr = *ffi.InvalidArgument(i, arg.Kind)
			return nil
		}
		out = append(out, v)
	}
	for i := len(raw); i < declared; i++ {
		out = append(out, m.Default[i-required])
	}
	return out
}

// call is the generic convention entry point.
func (b *methodBind) call(instance ffi.ClassInstancePtr, raw []ffi.ConstVariantPtr, ret ffi.VariantPtr, constCall bool, cerr *ffi.CallError) {
	*cerr = ffi.CallError{Type: ffi.CallOK}

	args := b.resolveArgs(raw, cerr)
	if cerr.Type != ffi.CallOK {
		return
	}

	// A mutating method cannot be reached through a const-qualified
	// path. Static methods have no receiver to mutate.
	if constCall && !b.method.Static() && !b.method.Flags.Has(ffi.MethodFlagConst) {
		*cerr = ffi.CallError{Type: ffi.CallErrorMethodNotConst}
		return
	}

	var target any
	if !b.method.Static() {
		rec, ok := b.reg.instance(instance)
		if !ok {
			*cerr = ffi.CallError{Type: ffi.CallErrorInstanceIsNull}
			return
		}
		target = rec.value
	}

	result, ok := b.invoke(target, args)
	if !ok {
		*cerr = ffi.CallError{Type: ffi.CallErrorInvalidMethod}
		return
	}
	if ret == nil {
		return
	}
	if b.method.Return == nil {
		b.reg.table.VariantNewNil(ret)
		return
	}
	if err := b.reg.codec.Lower(result, ret); err != nil {
		Logger().Error("return lowering failed",
			zap.String("class", b.class.desc.Name),
			zap.String("method", b.method.Name),
			zap.Error(err))
		*cerr = ffi.CallError{Type: ffi.CallErrorInvalidMethod}
	}
}

// ptrcall is the trusted convention entry point. The host has already
// validated count and kinds; only marshaling and narrowing happen here.
func (b *methodBind) ptrcall(instance ffi.ClassInstancePtr, raw []ffi.ConstTypePtr, ret ffi.TypePtr) {
	m := b.method
	args := make([]variant.Value, 0, len(m.Args))
	for i, arg := range m.Args {
		if i >= len(raw) {
			args = append(args, m.Default[i-(len(m.Args)-len(m.Default))])
			continue
		}
		args = append(args, variant.LoadRaw(arg.Kind, raw[i]))
	}

	var target any
	if !m.Static() {
		rec, ok := b.reg.instance(instance)
		if !ok {
			Logger().Error("pointer call on unknown instance",
				zap.String("class", b.class.desc.Name),
				zap.String("method", m.Name))
			return
		}
		target = rec.value
	}

	result, ok := b.invoke(target, args)
	if !ok || ret == nil || m.Return == nil {
		return
	}
	if result.Kind() == ffi.KindInt && m.Return.Metadata != ffi.MetadataNone {
		n, _ := result.AsInt()
		narrowed, err := variant.NarrowInt(n, m.Return.Metadata, b.reg.policy)
		if err != nil {
			Logger().Error("return value does not fit declared width",
				zap.String("class", b.class.desc.Name),
				zap.String("method", m.Name),
				zap.Int64("value", n),
				zap.Error(err))
			return
		}
		result = variant.NewInt(narrowed)
	}
	variant.StoreRaw(result, ret)
}

// invoke runs the method body with panic containment. A panic or a
// body error is logged and reported as a failed call, never propagated
// into the host.
func (b *methodBind) invoke(target any, args []variant.Value) (result variant.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("method body panicked",
				zap.String("class", b.class.desc.Name),
				zap.String("method", b.method.Name),
				zap.Any("panic", r))
			result, ok = variant.NewNil(), false
		}
	}()
	out, err := b.method.Fn(target, args)
	if err != nil {
		Logger().Error("method body failed",
			zap.String("class", b.class.desc.Name),
			zap.String("method", b.method.Name),
			zap.Error(err))
		return variant.NewNil(), false
	}
	return out, true
}
