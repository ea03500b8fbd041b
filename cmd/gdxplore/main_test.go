package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/variant"
)

func TestExplorer_Classes(t *testing.T) {
	e, err := newExplorer()
	if err != nil {
		t.Fatalf("newExplorer: %v", err)
	}

	want := []string{"Counter", "Greeter", "Mover"}
	if diff := cmp.Diff(want, e.ext.Registry().Classes()); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestSignature(t *testing.T) {
	e, err := newExplorer()
	if err != nil {
		t.Fatalf("newExplorer: %v", err)
	}

	cases := map[string]string{
		"add":   "add(amount: int = 1) -> int",
		"reset": "reset()",
	}
	c, _ := e.ext.Registry().Class("Counter")
	for name, want := range cases {
		m, ok := c.Method(name)
		if !ok {
			t.Fatalf("Counter has no %s", name)
		}
		if got := signature(m); got != want {
			t.Fatalf("signature(%s) = %q, want %q", name, got, want)
		}
	}

	g, _ := e.ext.Registry().Class("Greeter")
	join, _ := g.Method("join")
	if got := signature(join); got != "static join(...) -> String" {
		t.Fatalf("signature(join) = %q", got)
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		kind ffi.VariantKind
		in   string
		want variant.Value
	}{
		{ffi.KindBool, "true", variant.NewBool(true)},
		{ffi.KindBool, "0", variant.NewBool(false)},
		{ffi.KindInt, "-42", variant.NewInt(-42)},
		{ffi.KindFloat, "2.5", variant.NewFloat(2.5)},
		{ffi.KindString, "hi there", variant.NewString("hi there")},
		{ffi.KindVector2, "1, -2.5", variant.NewVector2(variant.Vector2{X: 1, Y: -2.5})},
	}
	for _, tc := range cases {
		got, err := parseValue(tc.kind, tc.in)
		if err != nil {
			t.Fatalf("parseValue(%s, %q): %v", tc.kind, tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("parseValue(%s, %q) = %v, want %v", tc.kind, tc.in, got, tc.want)
		}
	}

	if _, err := parseValue(ffi.KindInt, "abc"); err == nil {
		t.Fatal("expected error for non-integer")
	}
	if _, err := parseValue(ffi.KindVector2, "1"); err == nil {
		t.Fatal("expected error for malformed pair")
	}
	if _, err := parseValue(ffi.KindDictionary, "{}"); err == nil {
		t.Fatal("expected error for kind with no text form")
	}
}

func TestParseArgs(t *testing.T) {
	e, err := newExplorer()
	if err != nil {
		t.Fatalf("newExplorer: %v", err)
	}
	c, _ := e.ext.Registry().Class("Counter")
	add, _ := c.Method("add")

	vals, err := parseArgs(add, []string{"3"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if diff := cmp.Diff([]variant.Value{variant.NewInt(3)}, vals); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}

	// default covers the omitted argument
	if _, err := parseArgs(add, nil); err != nil {
		t.Fatalf("parseArgs with default: %v", err)
	}
	if _, err := parseArgs(add, []string{"1", "2"}); err == nil {
		t.Fatal("expected error for surplus on non-vararg method")
	}

	g, _ := e.ext.Registry().Class("Greeter")
	join, _ := g.Method("join")
	vals, err = parseArgs(join, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("parseArgs vararg: %v", err)
	}
	if len(vals) != 3 {
		t.Fatalf("expected 3 vararg values, got %d", len(vals))
	}
}

func TestExplorer_Call(t *testing.T) {
	e, err := newExplorer()
	if err != nil {
		t.Fatalf("newExplorer: %v", err)
	}

	out, err := e.call("Counter", "add", []variant.Value{variant.NewInt(5)})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if n, _ := out.AsInt(); n != 5 {
		t.Fatalf("add(5) = %d, want 5", n)
	}

	out, err = e.call("Greeter", "greet", nil)
	if err != nil {
		t.Fatalf("call with default: %v", err)
	}
	if s, _ := out.AsString(); s != "Hello, world!" {
		t.Fatalf("greet() = %q", s)
	}

	out, err = e.call("Mover", "move", []variant.Value{
		variant.NewVector2(variant.Vector2{X: 3, Y: 4}),
	})
	if err != nil {
		t.Fatalf("call with vector: %v", err)
	}
	pos, _ := out.AsVector2()
	if pos.X != 3 || pos.Y != 4 {
		t.Fatalf("move(3,4) = %+v", pos)
	}

	if _, err := e.call("Counter", "missing", nil); err == nil {
		t.Fatal("expected error for unknown method")
	}
	if _, err := e.call("Nope", "x", nil); err == nil {
		t.Fatal("expected error for unknown class")
	}
}
