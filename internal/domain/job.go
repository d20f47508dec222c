package domain

import (
	"time"

	"github.com/cseifert512/Drafted/internal/geometry"
)

// JobState enumerates opening-edit job lifecycle states. Transitions are
// monotonic: Pending -> Rendering -> Blending -> Complete, with Failed
// reachable from any non-terminal state and never left.
type JobState string

const (
	StatePending   JobState = "pending"
	StateRendering JobState = "rendering"
	StateBlending  JobState = "blending"
	StateComplete  JobState = "complete"
	StateFailed    JobState = "failed"
)

// Terminal reports whether the state can never change again.
func (s JobState) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

// Verdict is the outcome of validating one candidate image against the
// original. A failing verdict is data, not an error: it consumes retry
// budget but never aborts the job by itself.
type Verdict struct {
	Pass        bool               `json:"pass"`
	FailedCheck string             `json:"failed_check,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

// Check names carried on failing verdicts.
const (
	CheckMarkerResidue = "marker-residue"
	CheckContamination = "contamination"
	CheckOversized     = "oversized"
)

// Attempt records one generator round. The rejected image is retained only
// when the verdict failed, for diagnostics.
type Attempt struct {
	Index       int       `json:"index"`
	Verdict     Verdict   `json:"verdict"`
	RejectedPNG []byte    `json:"rejected_png,omitempty"`
	At          time.Time `json:"at"`
}

// Job is one opening-edit request run to completion. It is exclusively owned
// by its controller while Rendering/Blending; status readers only ever see
// consistent snapshots taken through the JobStore.
type Job struct {
	ID           string
	PlanID       string
	Opening      Opening
	BasePNG      []byte
	Vector       VectorDescription
	BBox         geometry.Rect
	State        JobState
	Attempts     []Attempt
	FinalPNG     []byte
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone deep-copies the job so stores can hand out snapshots that later
// mutations cannot reach.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	out := *j
	out.BasePNG = append([]byte(nil), j.BasePNG...)
	out.FinalPNG = append([]byte(nil), j.FinalPNG...)
	out.Attempts = make([]Attempt, len(j.Attempts))
	for i, a := range j.Attempts {
		out.Attempts[i] = a
		out.Attempts[i].RejectedPNG = append([]byte(nil), a.RejectedPNG...)
		if a.Verdict.Metrics != nil {
			m := make(map[string]float64, len(a.Verdict.Metrics))
			for k, v := range a.Verdict.Metrics {
				m[k] = v
			}
			out.Attempts[i].Verdict.Metrics = m
		}
	}
	return &out
}
