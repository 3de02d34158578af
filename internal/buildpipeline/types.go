package buildpipeline

import "time"

// Stage is one step a file goes through.
type Stage string

const (
	StageLoad  Stage = "load"  // decode the *.ast file
	StageCheck Stage = "check" // semantic pass
	StageEmit  Stage = "emit"  // IL generation
	StageWrite Stage = "write" // listing written under the output dir
)

// Stages in the order a file passes through them.
var Stages = []Stage{StageLoad, StageCheck, StageEmit, StageWrite}

// Status of a file within its current stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event is one progress report for File.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

type ProgressSink interface {
	OnEvent(Event)
}

// Timings sums stage durations over every file of a build. The zero value
// is ready to use.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = map[Stage]time.Duration{}
	}
	t.stages[stage] += dur
}

// Has reports whether any file reached stage.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum adds up the given stages; with no arguments it covers all of them.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if len(stages) == 0 {
		stages = Stages
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
