package etl

import (
	"fmt"
	"time"
)

// RunState tracks where a pipeline run ended up.
type RunState string

const (
	StateIdle         RunState = "idle"
	StateExtracting   RunState = "extracting"
	StateTransforming RunState = "transforming"
	StateLoading      RunState = "loading"
	StateCommitted    RunState = "committed"
	StateRolledBack   RunState = "rolled_back"
)

// Failure records one per-item failure. Index is the item's 1-based position
// within the requested range, so reports stay unambiguous even though
// concurrent fetches complete out of order.
type Failure struct {
	Index  int         `json:"index"`
	Name   string      `json:"name,omitempty"`
	Kind   FailureKind `json:"kind"`
	Detail string      `json:"detail"`
}

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	Requested int       `json:"requested"`
	Loaded    int       `json:"loaded"`
	Failures  []Failure `json:"failures"`
	State     RunState  `json:"state"`

	ExtractDuration   time.Duration `json:"-"`
	TransformDuration time.Duration `json:"-"`
	LoadDuration      time.Duration `json:"-"`
}

// AddFailure records a per-item failure.
func (r *RunResult) AddFailure(index int, name string, kind FailureKind, detail string) {
	r.Failures = append(r.Failures, Failure{Index: index, Name: name, Kind: kind, Detail: detail})
}

// Summary returns a human-readable summary of the run.
func (r *RunResult) Summary() string {
	return fmt.Sprintf("requested=%d loaded=%d failures=%d state=%s",
		r.Requested, r.Loaded, len(r.Failures), r.State)
}
