package script_test

import (
	"testing"
	"unsafe"

	"github.com/wirebound/gdext/enginetest"
	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/script"
	"github.com/wirebound/gdext/variant"
)

// fakeInstance is a minimal scripted object: a property bag plus an
// "echo" method.
type fakeInstance struct {
	owner ffi.ObjectPtr
	props map[string]variant.Value
	freed int
}

func newFakeInstance(owner ffi.ObjectPtr) *fakeInstance {
	return &fakeInstance{owner: owner, props: map[string]variant.Value{
		"health": variant.NewInt(100),
	}}
}

func (f *fakeInstance) Owner() ffi.ObjectPtr { return f.owner }

func (f *fakeInstance) SetProperty(name string, v variant.Value) bool {
	if _, ok := f.props[name]; !ok {
		return false
	}
	f.props[name] = v
	return true
}

func (f *fakeInstance) GetProperty(name string) (variant.Value, bool) {
	v, ok := f.props[name]
	return v, ok
}

func (f *fakeInstance) PropertyList() []script.Property {
	return []script.Property{{Name: "health", Kind: ffi.KindInt}}
}

func (f *fakeInstance) MethodList() []script.MethodSignature {
	return []script.MethodSignature{{
		Name:      "echo",
		Args:      []script.Property{{Name: "value", Kind: ffi.KindString}},
		Return:    ffi.KindString,
		HasReturn: true,
	}}
}

func (f *fakeInstance) HasMethod(name string) bool { return name == "echo" || name == "explode" }

func (f *fakeInstance) Call(method string, args []variant.Value) (variant.Value, *ffi.CallError) {
	switch method {
	case "echo":
		if len(args) != 1 {
			return variant.NewNil(), ffi.WrongArgumentCount(len(args), 1)
		}
		return args[0], nil
	case "explode":
		panic("scripted panic")
	default:
		return variant.NewNil(), ffi.NewCallError(ffi.CallErrorInvalidMethod)
	}
}

func (f *fakeInstance) Free() { f.freed++ }

func attach(t *testing.T) (*enginetest.Host, *enginetest.ScriptInstance, *fakeInstance) {
	t.Helper()
	host := enginetest.New()
	bridge := script.NewBridge(host.Table())
	inst := newFakeInstance(host.NewObject("Node"))

	handle, err := bridge.Attach(inst)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	si, ok := host.Script(handle)
	if !ok {
		t.Fatal("host did not record the script instance")
	}
	return host, si, inst
}

func internName(host *enginetest.Host, s string) ffi.ConstStringNamePtr {
	p := ffi.AllocStringName()
	host.Table().StringNameNewWithUTF8Chars(p, s)
	return ffi.ConstStringNamePtr(p)
}

func lowerVariant(host *enginetest.Host, v variant.Value) ffi.VariantPtr {
	cell := ffi.AllocVariant()
	raw := variant.RawCell(v.Kind())
	variant.StoreRaw(v, raw)
	host.Table().GetVariantFromTypeConstructor(v.Kind())(cell, raw)
	return cell
}

func liftVariant(host *enginetest.Host, p ffi.VariantPtr) variant.Value {
	kind := host.Table().VariantGetType(ffi.ConstVariantPtr(p))
	if kind == ffi.KindNil {
		return variant.NewNil()
	}
	raw := variant.RawCell(kind)
	host.Table().GetVariantToTypeConstructor(kind)(raw, p)
	return variant.LoadRaw(kind, ffi.ConstTypePtr(raw))
}

func TestAttach_Properties(t *testing.T) {
	host, si, _ := attach(t)
	name := internName(host, "health")

	ret := ffi.AllocVariant()
	if !si.Info.Get(si.Data, name, ret) {
		t.Fatal("get refused")
	}
	if v := liftVariant(host, ret); !v.Equal(variant.NewInt(100)) {
		t.Fatalf("health = %v", v)
	}

	if !si.Info.Set(si.Data, name, ffi.ConstVariantPtr(lowerVariant(host, variant.NewInt(42)))) {
		t.Fatal("set refused")
	}
	if !si.Info.Get(si.Data, name, ret) {
		t.Fatal("get after set refused")
	}
	if v := liftVariant(host, ret); !v.Equal(variant.NewInt(42)) {
		t.Fatalf("health = %v after set", v)
	}

	unknown := internName(host, "mana")
	if si.Info.Set(si.Data, unknown, ffi.ConstVariantPtr(lowerVariant(host, variant.NewInt(1)))) {
		t.Fatal("set of unknown property accepted")
	}
	if si.Info.Get(si.Data, unknown, ret) {
		t.Fatal("get of unknown property accepted")
	}
}

func TestCall(t *testing.T) {
	host, si, _ := attach(t)
	method := internName(host, "echo")

	args := []ffi.ConstVariantPtr{ffi.ConstVariantPtr(lowerVariant(host, variant.NewString("hi")))}
	ret := ffi.AllocVariant()
	var cerr ffi.CallError
	si.Info.Call(si.Data, method, args, ret, &cerr)
	if !cerr.OK() {
		t.Fatalf("call failed: %v", &cerr)
	}
	if v := liftVariant(host, ret); !v.Equal(variant.NewString("hi")) {
		t.Fatalf("echo = %v", v)
	}

	si.Info.Call(si.Data, method, nil, ret, &cerr)
	if cerr.Type != ffi.CallErrorTooFewArguments {
		t.Fatalf("cerr = %v", &cerr)
	}

	missing := internName(host, "vanish")
	si.Info.Call(si.Data, missing, nil, ret, &cerr)
	if cerr.Type != ffi.CallErrorInvalidMethod {
		t.Fatalf("cerr = %v for missing method", &cerr)
	}
}

func TestCall_PanicContained(t *testing.T) {
	host, si, _ := attach(t)
	method := internName(host, "explode")

	ret := ffi.AllocVariant()
	var cerr ffi.CallError
	si.Info.Call(si.Data, method, nil, ret, &cerr)
	if cerr.Type != ffi.CallErrorInvalidMethod {
		t.Fatalf("panic not mapped to a failed call: %v", &cerr)
	}
}

func TestMethodList(t *testing.T) {
	host, si, _ := attach(t)

	list := si.Info.GetMethodList(si.Data)
	if len(list) != 1 {
		t.Fatalf("method list has %d entries", len(list))
	}
	if got := host.Table().StringNameToUTF8Chars(ffi.ConstStringNamePtr(list[0].Name)); got != "echo" {
		t.Fatalf("method name = %q", got)
	}
	if list[0].ReturnValue.Type != ffi.KindString {
		t.Fatal("return kind not forwarded")
	}
	si.Info.FreeMethodList(si.Data, list)

	name := internName(host, "echo")
	if !si.Info.HasMethod(si.Data, name) {
		t.Fatal("has_method missed a declared method")
	}
}

func TestPropertyListPairing(t *testing.T) {
	_, si, inst := attach(t)

	l1 := si.Info.GetPropertyList(si.Data)
	l2 := si.Info.GetPropertyList(si.Data)
	if len(l1) != 1 || len(l2) != 1 {
		t.Fatal("property lists incomplete")
	}
	si.Info.FreePropertyList(si.Data, l1)
	si.Info.FreePropertyList(si.Data, l2)

	// A third free has no matching get; the bridge must not blow up.
	si.Info.FreePropertyList(si.Data, l2)

	si.Info.Free(si.Data)
	if inst.freed != 1 {
		t.Fatalf("instance freed %d times, want 1", inst.freed)
	}
}

func TestFree_Once(t *testing.T) {
	_, si, inst := attach(t)

	si.Info.Free(si.Data)
	si.Info.Free(si.Data)
	if inst.freed != 1 {
		t.Fatalf("instance freed %d times on a double free, want 1", inst.freed)
	}
}

func TestPropertyState_FallbackWalk(t *testing.T) {
	host, si, _ := attach(t)

	type pair struct {
		name  string
		value variant.Value
	}
	var got []pair
	si.Info.GetPropertyState(si.Data, func(name ffi.ConstStringNamePtr, value ffi.ConstVariantPtr, _ unsafe.Pointer) {
		got = append(got, pair{
			name:  host.Table().StringNameToUTF8Chars(name),
			value: liftVariant(host, ffi.VariantPtr(value)),
		})
	}, nil)

	if len(got) != 1 || got[0].name != "health" {
		t.Fatalf("state = %+v", got)
	}
	if !got[0].value.Equal(variant.NewInt(100)) {
		t.Fatalf("health state = %v", got[0].value)
	}
}

func TestGetPropertyType(t *testing.T) {
	host, si, _ := attach(t)

	kind, ok := si.Info.GetPropertyType(si.Data, internName(host, "health"))
	if !ok || kind != ffi.KindInt {
		t.Fatalf("kind = %v, ok = %v", kind, ok)
	}
	if _, ok := si.Info.GetPropertyType(si.Data, internName(host, "mana")); ok {
		t.Fatal("unknown property typed")
	}
}

func TestGetOwner(t *testing.T) {
	_, si, inst := attach(t)
	if si.Info.GetOwner(si.Data) != inst.owner {
		t.Fatal("owner mismatch")
	}
}
