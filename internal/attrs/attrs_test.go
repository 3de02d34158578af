package attrs

import (
	"errors"
	"testing"

	"tccl/internal/diag"
	"tccl/internal/types"
)

func TestEqualByCanonicalForm(t *testing.T) {
	a := NewType(types.Integer())
	b := NewType(types.Integer())
	if a == b {
		t.Fatalf("test needs distinct pointers")
	}
	if !Equal(a, b) {
		t.Fatalf("two int32 type attributes must be equal")
	}
	if Equal(a, NewType(types.Boolean())) {
		t.Fatalf("int32 must not equal bool")
	}
	if !Equal(NewError(diag.SemaError, "boom"), NewError(diag.SemaTypeMismatch, "boom")) {
		t.Fatalf("error equality is the message text")
	}
	if Equal(a, nil) || !Equal(nil, nil) {
		t.Fatalf("nil handling broken")
	}
}

func TestMethodSignatureString(t *testing.T) {
	m := NewMethod("f", nil, types.Void(), nil)
	if got := m.String(); got != "() -> void" {
		t.Fatalf("got %q", got)
	}
	m = NewMethod("g", nil, types.Boolean(), []Declaration{
		{Name: "a", Type: types.Integer()},
		{Name: "s", Type: types.String()},
	})
	if got := m.String(); got != "int32 -> string -> bool" {
		t.Fatalf("got %q", got)
	}
	if got := m.ParamList(); got != "int32,string" {
		t.Fatalf("ParamList = %q", got)
	}
	if m.Param("s") != 1 || m.Param("zz") != -1 {
		t.Fatalf("Param lookup broken")
	}
}

func TestRegisterLocalFirstAppearanceWins(t *testing.T) {
	m := NewMethod("main", nil, types.Void(), nil)
	m.RegisterLocal("x", types.Integer())
	m.RegisterLocal("y", types.Boolean())
	m.RegisterLocal("x", types.String())

	if len(m.Locals()) != 2 {
		t.Fatalf("expected 2 locals, got %d", len(m.Locals()))
	}
	if m.Location("x") != 0 || m.Location("y") != 1 || m.Location("z") != -1 {
		t.Fatalf("unexpected slots: x=%d y=%d z=%d", m.Location("x"), m.Location("y"), m.Location("z"))
	}
	if !m.Locals()[0].Type.Equal(types.Integer()) {
		t.Fatalf("re-registration must keep the original type")
	}
}

func TestClassMembers(t *testing.T) {
	c := NewClass("Point")
	if err := c.Enter("x", NewType(types.Integer())); err != nil {
		t.Fatalf("enter: %v", err)
	}
	err := c.Enter("x", NewType(types.Boolean()))
	var dup *DuplicateMemberError
	if !errors.As(err, &dup) || dup.Name != "x" {
		t.Fatalf("expected duplicate member error, got %v", err)
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Fatalf("lookup of a missing member must fail")
	}
	got, ok := c.Lookup("x")
	if !ok || got.String() != "int32" {
		t.Fatalf("lookup x = %v, %v", got, ok)
	}
	if c.String() != "Point" {
		t.Fatalf("class canonical form = %q", c.String())
	}
}

func TestTypeOfAndIsError(t *testing.T) {
	if _, ok := TypeOf(&VariableAttributes{}); ok {
		t.Fatalf("variable attributes carry no type")
	}
	if typ, ok := TypeOf(NewType(types.String())); !ok || !typ.Equal(types.String()) {
		t.Fatalf("TypeOf string failed")
	}
	cause := NewError(diag.SemaUndeclaredVariable, "Accessing undeclared variable q")
	cascade := CascadeFrom(cause)
	if !IsError(cascade) || !cascade.Cascade || cascade.Code != cause.Code {
		t.Fatalf("cascade must keep the cause code")
	}
}
