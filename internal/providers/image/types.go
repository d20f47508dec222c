package image

import "context"

// EditRequest carries the annotated render and the edit instruction for one
// generator attempt.
type EditRequest struct {
	// AnnotatedPNG is the base render with the marker drawn at the opening
	// location.
	AnnotatedPNG []byte
	// Instruction describes the opening to draw and the constraint to stay
	// inside the marked region.
	Instruction string
	RequestID   string
}

// EditResult is the outcome of a successful generator call. Whether the
// content is acceptable is the validator's decision, not the provider's.
type EditResult struct {
	EditedPNG      []byte
	ElapsedSeconds float64
}

// Generator is the contract implemented by all image-edit providers. Any
// returned error is a call-level failure (network, auth, timeout) and is
// fatal for the calling job; only a nil-error result enters validation.
type Generator interface {
	Generate(ctx context.Context, req EditRequest) (*EditResult, error)
}
