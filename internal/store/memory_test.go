package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cseifert512/Drafted/internal/domain"
	"github.com/cseifert512/Drafted/internal/geometry"
)

func sampleJob(id string) *domain.Job {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Job{
		ID:     id,
		PlanID: "plan-1",
		Opening: domain.Opening{
			ID:          "op-1",
			Kind:        domain.KindWindow,
			Wall:        domain.WallSegment{Start: geometry.Point{X: 0, Y: 0}, End: geometry.Point{X: 10, Y: 0}},
			Position:    0.5,
			WidthInches: 36,
		},
		BasePNG:   []byte{1, 2, 3},
		BBox:      geometry.Rect{X1: 10, Y1: 10, X2: 60, Y2: 60},
		State:     domain.StatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryCreateAndGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, sampleJob("j1")))

	got, err := m.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "j1", got.ID)
	assert.Equal(t, domain.StatePending, got.State)

	err = m.Create(ctx, sampleJob("j1"))
	assert.Error(t, err)
}

func TestMemoryGetUnknown(t *testing.T) {
	m := NewMemory()
	_, err := m.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemorySnapshotsAreIsolated(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	job := sampleJob("j1")
	require.NoError(t, m.Create(ctx, job))

	// Mutating the caller's struct after Create must not leak into the store.
	job.State = domain.StateFailed
	job.BasePNG[0] = 99

	got, err := m.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, got.State)
	assert.Equal(t, byte(1), got.BasePNG[0])

	// Mutating a returned snapshot must not leak either.
	got.Attempts = append(got.Attempts, domain.Attempt{Index: 1})
	again, err := m.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Empty(t, again.Attempts)
}

func TestMemoryUpdate(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	job := sampleJob("j1")
	require.NoError(t, m.Create(ctx, job))

	job.State = domain.StateComplete
	job.FinalPNG = []byte{7, 7}
	require.NoError(t, m.Update(ctx, job))

	got, err := m.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateComplete, got.State)
	assert.Equal(t, []byte{7, 7}, got.FinalPNG)

	assert.ErrorIs(t, m.Update(ctx, sampleJob("missing")), domain.ErrNotFound)
}

func TestMemoryDeleteByOpening(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, sampleJob("j1")))

	other := sampleJob("j2")
	other.Opening.ID = "op-2"
	require.NoError(t, m.Create(ctx, other))

	require.NoError(t, m.DeleteByOpening(ctx, "plan-1", "op-1"))
	_, err := m.GetByID(ctx, "j1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The other opening's job survives.
	_, err = m.GetByID(ctx, "j2")
	assert.NoError(t, err)

	assert.ErrorIs(t, m.DeleteByOpening(ctx, "plan-1", "op-1"), domain.ErrNotFound)
}
