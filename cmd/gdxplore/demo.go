package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wirebound/gdext"
	"github.com/wirebound/gdext/classdb"
	"github.com/wirebound/gdext/enginetest"
	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/variant"
)

// demo classes registered into the explorer's in-process host. They
// cover the interesting dispatch shapes: defaults, statics, varargs,
// and non-trivial argument kinds.

type counter struct {
	count int64
}

type greeter struct {
	greeting string
}

type mover struct {
	position variant.Vector2
}

func demoDescriptors() []*classdb.Descriptor {
	return []*classdb.Descriptor{
		{
			Name:        "Counter",
			Parent:      "RefCounted",
			Constructor: func() any { return &counter{} },
			Destructor:  func(any) {},
			Get: func(inst any, name string) (variant.Value, bool) {
				if name == "count" {
					return variant.NewInt(inst.(*counter).count), true
				}
				return variant.NewNil(), false
			},
			PropertyList: func(any) []classdb.PropertyDescriptor {
				return []classdb.PropertyDescriptor{{Name: "count", Kind: ffi.KindInt}}
			},
			Methods: []*classdb.Method{
				{
					Name:    "add",
					Args:    []classdb.Argument{{Name: "amount", Kind: ffi.KindInt}},
					Return:  &classdb.Argument{Name: "total", Kind: ffi.KindInt},
					Default: []variant.Value{variant.NewInt(1)},
					Fn: func(inst any, args []variant.Value) (variant.Value, error) {
						n, _ := args[0].AsInt()
						c := inst.(*counter)
						c.count += n
						return variant.NewInt(c.count), nil
					},
				},
				{
					Name: "reset",
					Fn: func(inst any, _ []variant.Value) (variant.Value, error) {
						inst.(*counter).count = 0
						return variant.NewNil(), nil
					},
				},
			},
		},
		{
			Name:        "Greeter",
			Parent:      "Node",
			Constructor: func() any { return &greeter{greeting: "Hello"} },
			Destructor:  func(any) {},
			Methods: []*classdb.Method{
				{
					Name:    "greet",
					Args:    []classdb.Argument{{Name: "name", Kind: ffi.KindString}},
					Return:  &classdb.Argument{Name: "message", Kind: ffi.KindString},
					Default: []variant.Value{variant.NewString("world")},
					Fn: func(inst any, args []variant.Value) (variant.Value, error) {
						name, _ := args[0].AsString()
						return variant.NewString(inst.(*greeter).greeting + ", " + name + "!"), nil
					},
				},
				{
					Name:   "join",
					Flags:  ffi.MethodFlagStatic | ffi.MethodFlagVararg,
					Return: &classdb.Argument{Name: "joined", Kind: ffi.KindString},
					Fn: func(_ any, args []variant.Value) (variant.Value, error) {
						parts := make([]string, 0, len(args))
						for _, a := range args {
							parts = append(parts, a.String())
						}
						return variant.NewString(strings.Join(parts, " ")), nil
					},
				},
			},
		},
		{
			Name:        "Mover",
			Parent:      "Node2D",
			Constructor: func() any { return &mover{} },
			Destructor:  func(any) {},
			Methods: []*classdb.Method{
				{
					Name:   "move",
					Args:   []classdb.Argument{{Name: "delta", Kind: ffi.KindVector2}},
					Return: &classdb.Argument{Name: "position", Kind: ffi.KindVector2},
					Fn: func(inst any, args []variant.Value) (variant.Value, error) {
						m := inst.(*mover)
						if d, err := args[0].AsVector2(); err == nil {
							m.position.X += d.X
							m.position.Y += d.Y
						}
						return variant.NewVector2(m.position), nil
					},
				},
			},
		},
	}
}

// explorer is the in-process world the commands operate on: a fake
// host with the demo extension loaded into it.
type explorer struct {
	host *enginetest.Host
	ext  *gdext.Extension
}

func newExplorer() (*explorer, error) {
	host := enginetest.New()
	ext, err := gdext.Load(host.Table(), &gdext.Library{Name: "gdxplore-demo"})
	if err != nil {
		return nil, err
	}
	for _, desc := range demoDescriptors() {
		if err := ext.Registry().Register(desc); err != nil {
			return nil, err
		}
	}
	return &explorer{host: host, ext: ext}, nil
}

// call constructs a fresh instance (unless the method is static) and
// dispatches through the generic convention, exactly as the engine
// would.
func (e *explorer) call(class, method string, args []variant.Value) (variant.Value, error) {
	c, ok := e.ext.Registry().Class(class)
	if !ok {
		return variant.NewNil(), fmt.Errorf("unknown class %q", class)
	}
	m, ok := c.Method(method)
	if !ok {
		return variant.NewNil(), fmt.Errorf("class %s has no method %q", class, method)
	}

	var inst ffi.ClassInstancePtr
	if !m.Static() {
		obj, err := e.ext.Registry().Construct(class)
		if err != nil {
			return variant.NewNil(), err
		}
		defer e.host.FreeObject(obj)
		o, _ := e.host.Lookup(obj)
		inst = o.Instance
	}

	out, cerr := e.host.CallMethod(class, method, inst, args)
	if cerr != nil {
		return variant.NewNil(), cerr
	}
	return out, nil
}

// parseValue converts one command-line token into the declared kind.
func parseValue(kind ffi.VariantKind, s string) (variant.Value, error) {
	switch kind {
	case ffi.KindBool:
		return variant.NewBool(s == "true" || s == "1"), nil
	case ffi.KindInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return variant.NewNil(), fmt.Errorf("%q is not an integer", s)
		}
		return variant.NewInt(n), nil
	case ffi.KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return variant.NewNil(), fmt.Errorf("%q is not a number", s)
		}
		return variant.NewFloat(f), nil
	case ffi.KindString:
		return variant.NewString(s), nil
	case ffi.KindStringName:
		return variant.NewStringName(variant.StringName(s)), nil
	case ffi.KindNodePath:
		return variant.NewNodePath(variant.NodePath(s)), nil
	case ffi.KindVector2:
		parts := strings.SplitN(s, ",", 2)
		if len(parts) != 2 {
			return variant.NewNil(), fmt.Errorf("%q is not an x,y pair", s)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errX != nil || errY != nil {
			return variant.NewNil(), fmt.Errorf("%q is not an x,y pair", s)
		}
		return variant.NewVector2(variant.Vector2{X: variant.Real(x), Y: variant.Real(y)}), nil
	default:
		return variant.NewNil(), fmt.Errorf("kind %s has no text form", kind)
	}
}

// literal renders a value as it would be typed on the command line.
func literal(v variant.Value) string {
	switch v.Kind() {
	case ffi.KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case ffi.KindInt:
		n, _ := v.AsInt()
		return strconv.FormatInt(n, 10)
	case ffi.KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case ffi.KindString:
		s, _ := v.AsString()
		return strconv.Quote(s)
	default:
		return v.String()
	}
}

// signature renders a method declaration for listings.
func signature(m *classdb.Method) string {
	params := make([]string, 0, len(m.Args))
	for i, a := range m.Args {
		p := a.Name + ": " + a.Kind.String()
		if i >= len(m.Args)-len(m.Default) {
			p += " = " + literal(m.Default[i-(len(m.Args)-len(m.Default))])
		}
		params = append(params, p)
	}
	if m.Vararg() {
		params = append(params, "...")
	}
	sig := m.Name + "(" + strings.Join(params, ", ") + ")"
	if m.Return != nil {
		sig += " -> " + m.Return.Kind.String()
	}
	if m.Static() {
		sig = "static " + sig
	}
	return sig
}
