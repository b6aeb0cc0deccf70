package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names reported through PhaseObserver and recorded by the timer.
const (
	PhaseParse   = "parse"
	PhaseIRGen   = "irgen"
	PhaseCodegen = "codegen"
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Err     error // set on PhaseEnd when the phase failed
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Compile.
// It may be called from several goroutines when files compile in parallel.
type PhaseObserver func(PhaseEvent)
