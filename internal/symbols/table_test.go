package symbols

import (
	"errors"
	"testing"

	"tccl/internal/attrs"
	"tccl/internal/types"
)

func TestNewSeedsSystemRoutines(t *testing.T) {
	table := New()
	if table.CurrentNestLevel() != 1 {
		t.Fatalf("expected the global frame only, got level %d", table.CurrentNestLevel())
	}
	for _, name := range []string{"Write", "WriteLine"} {
		a, ok := table.Lookup(name)
		if !ok {
			t.Fatalf("%s not registered", name)
		}
		m, ok := a.(*attrs.MethodAttributes)
		if !ok {
			t.Fatalf("%s is %T, want method", name, a)
		}
		if m.Owner() != ConsoleClass || m.String() != "string -> void" {
			t.Fatalf("%s has signature %q owned by %q", name, m.String(), m.Owner())
		}
	}
}

func TestOpenCloseRoundTrip(t *testing.T) {
	table := New()
	before := table.CurrentNestLevel()
	table.OpenScope()
	table.OpenScope()
	if table.CurrentNestLevel() != before+2 {
		t.Fatalf("open must increment the nest level")
	}
	table.CloseScope()
	table.CloseScope()
	if table.CurrentNestLevel() != before {
		t.Fatalf("close must decrement back to %d, got %d", before, table.CurrentNestLevel())
	}
}

// Closing a scope decrements the nest level; it must never drift upwards or
// below zero.
func TestCloseScopeDecrements(t *testing.T) {
	table := &Table{}
	table.OpenScope()
	table.CloseScope()
	if table.CurrentNestLevel() != 0 {
		t.Fatalf("expected level 0, got %d", table.CurrentNestLevel())
	}
	table.CloseScope()
	if table.CurrentNestLevel() != 0 {
		t.Fatalf("closing with no frames must keep level 0, got %d", table.CurrentNestLevel())
	}
}

func TestShadowingLaw(t *testing.T) {
	table := New()
	outer := attrs.NewType(types.Integer())
	inner := attrs.NewType(types.Boolean())
	if err := table.Enter("x", outer); err != nil {
		t.Fatalf("enter outer: %v", err)
	}
	table.OpenScope()
	if err := table.Enter("x", inner); err != nil {
		t.Fatalf("shadowing in a new frame must be allowed: %v", err)
	}
	if err := table.Enter("y", inner); err != nil {
		t.Fatalf("enter y: %v", err)
	}
	if got, _ := table.Lookup("x"); got != inner {
		t.Fatalf("lookup must return the innermost declaration")
	}
	table.CloseScope()
	if got, _ := table.Lookup("x"); got != outer {
		t.Fatalf("after close the outer declaration must be visible again")
	}
	if table.Has("y") {
		t.Fatalf("y must be unreachable after its scope closed")
	}
	if _, ok := table.Lookup("y"); ok {
		t.Fatalf("lookup of a closed name must report not found")
	}
}

func TestDuplicateDeclaration(t *testing.T) {
	table := New()
	table.OpenScope()
	if err := table.Enter("a", attrs.NewType(types.Integer())); err != nil {
		t.Fatalf("enter: %v", err)
	}
	err := table.Enter("a", attrs.NewType(types.Integer()))
	var dup *DuplicateDeclarationError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateDeclarationError, got %v", err)
	}
	if dup.Name != "a" || dup.Level != 2 {
		t.Fatalf("unexpected error payload %+v", dup)
	}
	if !table.HasLocal("a") || table.HasLocal("Write") {
		t.Fatalf("HasLocal must only see the innermost frame")
	}
}

func TestEnterInParent(t *testing.T) {
	table := New()
	if err := table.EnterInParent("f", attrs.NewType(types.Void())); !errors.Is(err, ErrNoParentScope) {
		t.Fatalf("expected ErrNoParentScope with a single frame, got %v", err)
	}
	table.OpenScope() // class
	table.OpenScope() // method
	m := attrs.NewMethod("f", nil, types.Void(), nil)
	if err := table.EnterInParent("f", m); err != nil {
		t.Fatalf("enter in parent: %v", err)
	}
	if table.HasLocal("f") {
		t.Fatalf("method name must not land in the innermost frame")
	}
	table.CloseScope()
	if !table.HasLocal("f") {
		t.Fatalf("method name must live in the enclosing frame")
	}
}

func TestEnterWithoutScope(t *testing.T) {
	table := &Table{}
	if err := table.Enter("x", &attrs.VariableAttributes{}); !errors.Is(err, ErrNoScope) {
		t.Fatalf("expected ErrNoScope, got %v", err)
	}
}
