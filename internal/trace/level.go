package trace

import (
	"fmt"
	"strings"
)

// Level is the tracing verbosity. Each level admits every scope up to its
// ceiling.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring only, dumped on failure
	LevelPhase        // driver and pass spans
	LevelDetail       // plus per-file spans
	LevelDebug        // plus one point per visited node
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// ceilings[l] is the finest scope l lets through; 0 admits nothing.
var ceilings = [...]Scope{
	LevelPhase:  ScopePass,
	LevelDetail: ScopeModule,
	LevelDebug:  ScopeNode,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a --trace-level value.
func ParseLevel(s string) (Level, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if name == want {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope pass the level filter.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(ceilings) {
		return false
	}
	return scope <= ceilings[l]
}
