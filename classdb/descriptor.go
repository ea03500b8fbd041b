package classdb

import (
	"go.uber.org/multierr"

	"github.com/wirebound/gdext/errors"
	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/variant"
)

// PropertyDescriptor describes one property slot in native terms. The
// registry translates it to the host's property-info shape at the
// moment a list crosses the boundary.
type PropertyDescriptor struct {
	Name       string
	Kind       ffi.VariantKind
	ClassName  string
	Hint       uint32
	HintString string
	Usage      uint32
}

// VirtualMethod is one overridable hook resolved by exact name. The
// host caches the resolution, so Fn must stay valid for the lifetime of
// the class registration.
type VirtualMethod struct {
	Args      []ffi.VariantKind
	Return    ffi.VariantKind
	HasReturn bool
	Fn        func(instance any, args []variant.Value) variant.Value
}

// Descriptor declares one native class. Constructor and Destructor are
// mandatory; every other hook left nil is reported to the host as
// absent rather than stubbed.
type Descriptor struct {
	Name   string
	Parent string

	IsVirtual  bool
	IsAbstract bool

	Constructor func() any
	Destructor  func(instance any)

	Set func(instance any, name string, value variant.Value) bool
	Get func(instance any, name string) (variant.Value, bool)

	PropertyList func(instance any) []PropertyDescriptor

	CanRevert func(instance any, name string) bool
	Revert    func(instance any, name string) (variant.Value, bool)

	Notification func(instance any, what int32)
	ToString     func(instance any) (string, bool)

	Reference   func(instance any)
	Unreference func(instance any)

	RID func(instance any) ffi.RID

	Virtuals map[string]VirtualMethod

	Methods []*Method
}

// validate collects every structural problem in the descriptor instead
// of stopping at the first one.
func (d *Descriptor) validate() error {
	var errs error
	if d.Name == "" {
		errs = multierr.Append(errs, errors.InvalidInput(errors.PhaseRegister, "class name is empty"))
	}
	if d.Parent == "" {
		errs = multierr.Append(errs, errors.InvalidInput(errors.PhaseRegister, "parent class name is empty"))
	}
	if d.Constructor == nil {
		errs = multierr.Append(errs, errors.MissingCallback(d.Name, "constructor"))
	}
	if d.Destructor == nil {
		errs = multierr.Append(errs, errors.MissingCallback(d.Name, "destructor"))
	}

	seen := make(map[string]bool, len(d.Methods))
	for _, m := range d.Methods {
		if err := m.validate(d.Name); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if seen[m.Name] {
			errs = multierr.Append(errs, errors.New(errors.PhaseRegister, errors.KindInvalidInput).
				Class(d.Name).Method(m.Name).
				Detail("method declared twice").Build())
		}
		seen[m.Name] = true
	}
	for name, vm := range d.Virtuals {
		if vm.Fn == nil {
			errs = multierr.Append(errs, errors.New(errors.PhaseRegister, errors.KindMissingCallback).
				Class(d.Name).Method(name).
				Detail("virtual method has no body").Build())
		}
	}
	return errs
}
