package image

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cseifert512/Drafted/internal/domain"
	"github.com/cseifert512/Drafted/internal/geometry"
)

func TestBuildEditInstruction(t *testing.T) {
	op := domain.Opening{
		ID:          "op-1",
		Kind:        domain.KindInteriorDoor,
		Wall:        domain.WallSegment{End: geometry.Point{X: 10}},
		Position:    0.5,
		WidthInches: 32,
	}

	got := BuildEditInstruction(op)
	assert.Contains(t, got, "red rectangle")
	assert.Contains(t, got, "interior hinged door")
	assert.Contains(t, got, "32 inches")
	assert.Contains(t, got, "Remove the red rectangle completely")
	assert.NotContains(t, got, "exterior wall")
}

func TestBuildEditInstructionExteriorKinds(t *testing.T) {
	op := domain.Opening{Kind: domain.KindWindow, WidthInches: 48}
	got := BuildEditInstruction(op)
	assert.Contains(t, got, "casement window")
	assert.Contains(t, got, "exterior wall")
}
