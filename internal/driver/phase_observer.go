package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names passed to a PhaseObserver.
const (
	PhaseCache = "cache"
	PhaseSema  = "sema"
	PhaseEmit  = "emit"
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	// Failed is set on PhaseEnd when the phase reported errors.
	Failed bool
}

// PhaseObserver receives phase events emitted during Compile.
type PhaseObserver func(PhaseEvent)
