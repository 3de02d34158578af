package symbols

import (
	"errors"
	"fmt"

	"tccl/internal/attrs"
)

// ErrNoScope is returned when an operation needs a frame that does not exist.
var ErrNoScope = errors.New("symbols: no open scope")

// ErrNoParentScope is returned by EnterInParent when only one frame is open.
var ErrNoParentScope = errors.New("symbols: no enclosing scope")

// DuplicateDeclarationError reports a name entered twice into the same frame.
type DuplicateDeclarationError struct {
	Name  string
	Level int
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("duplicate declaration of %s at nest level %d", e.Name, e.Level)
}

type frame map[string]attrs.Attributes

// Table is a stack of lexical scope frames. Frames are kept outermost first;
// lookups walk from the innermost frame outwards.
type Table struct {
	frames []frame
}

// New returns a table with the global frame open and the system routines
// registered in it.
func New() *Table {
	t := &Table{}
	t.FillSystem()
	return t
}

// CurrentNestLevel is the number of open frames. It never goes negative.
func (t *Table) CurrentNestLevel() int {
	return len(t.frames)
}

// OpenScope pushes an empty frame.
func (t *Table) OpenScope() {
	t.frames = append(t.frames, make(frame))
}

// CloseScope pops the innermost frame. Closing with no open frame is a no-op.
func (t *Table) CloseScope() {
	if len(t.frames) == 0 {
		return
	}
	t.frames[len(t.frames)-1] = nil
	t.frames = t.frames[:len(t.frames)-1]
}

// Enter inserts name into the innermost frame.
func (t *Table) Enter(name string, a attrs.Attributes) error {
	return t.enterAt(len(t.frames)-1, name, a)
}

// EnterInParent inserts name into the frame enclosing the innermost one.
func (t *Table) EnterInParent(name string, a attrs.Attributes) error {
	if len(t.frames) < 2 {
		return ErrNoParentScope
	}
	return t.enterAt(len(t.frames)-2, name, a)
}

func (t *Table) enterAt(idx int, name string, a attrs.Attributes) error {
	if idx < 0 {
		return ErrNoScope
	}
	f := t.frames[idx]
	if _, exists := f[name]; exists {
		return &DuplicateDeclarationError{Name: name, Level: idx + 1}
	}
	f[name] = a
	return nil
}

// Has reports whether name is visible in any frame.
func (t *Table) Has(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// HasLocal reports whether name is declared in the innermost frame.
func (t *Table) HasLocal(name string) bool {
	if len(t.frames) == 0 {
		return false
	}
	_, ok := t.frames[len(t.frames)-1][name]
	return ok
}

// Lookup returns the innermost visible declaration of name.
func (t *Table) Lookup(name string) (attrs.Attributes, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if a, ok := t.frames[i][name]; ok {
			return a, true
		}
	}
	return nil, false
}
