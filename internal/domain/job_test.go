package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStateTerminal(t *testing.T) {
	assert.False(t, StatePending.Terminal())
	assert.False(t, StateRendering.Terminal())
	assert.False(t, StateBlending.Terminal())
	assert.True(t, StateComplete.Terminal())
	assert.True(t, StateFailed.Terminal())
}

func TestJobCloneIsDeep(t *testing.T) {
	job := &Job{
		ID:      "j1",
		BasePNG: []byte{1, 2},
		Attempts: []Attempt{{
			Index:       1,
			Verdict:     Verdict{FailedCheck: CheckMarkerResidue, Metrics: map[string]float64{"marker_frac": 0.2}},
			RejectedPNG: []byte{9},
		}},
		FinalPNG: []byte{5},
	}

	clone := job.Clone()
	require.NotNil(t, clone)

	clone.BasePNG[0] = 77
	clone.FinalPNG[0] = 77
	clone.Attempts[0].RejectedPNG[0] = 77
	clone.Attempts[0].Verdict.Metrics["marker_frac"] = 0.9

	assert.Equal(t, byte(1), job.BasePNG[0])
	assert.Equal(t, byte(5), job.FinalPNG[0])
	assert.Equal(t, byte(9), job.Attempts[0].RejectedPNG[0])
	assert.Equal(t, 0.2, job.Attempts[0].Verdict.Metrics["marker_frac"])
}

func TestJobCloneNil(t *testing.T) {
	var job *Job
	assert.Nil(t, job.Clone())
}
