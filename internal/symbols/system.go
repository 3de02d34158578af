package symbols

import (
	"tccl/internal/attrs"
	"tccl/internal/types"
)

// ConsoleClass is the synthetic class owning the builtin output routines.
const ConsoleClass = "System.Console"

// Builtin output routines.
const (
	BuiltinWrite     = "Write"
	BuiltinWriteLine = "WriteLine"
)

// IsBuiltin reports whether name is one of the console routines.
func IsBuiltin(name string) bool {
	return name == BuiltinWrite || name == BuiltinWriteLine
}

// FillSystem opens the global frame (if needed) and registers Write and
// WriteLine as void routines taking one string.
func (t *Table) FillSystem() *Table {
	if len(t.frames) == 0 {
		t.OpenScope()
	}
	console := attrs.NewClass(ConsoleClass)
	for _, name := range []string{BuiltinWriteLine, BuiltinWrite} {
		m := attrs.NewMethod(name, console, types.Void(), []attrs.Declaration{
			{Name: "arg", Type: types.String()},
		})
		// the global frame is fresh, entering cannot collide
		_ = console.Enter(name, m)
		_ = t.enterAt(0, name, m)
	}
	return t
}
