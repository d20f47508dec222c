package image

import (
	"context"
	"time"
)

// Stub is a development generator that echoes the annotated image back after
// a short delay. Useful for exercising the job pipeline without an API key;
// the validator rejects its output (the marker survives), which also makes
// it a handy retry-path fixture.
type Stub struct {
	Delay time.Duration
}

func NewStub() *Stub {
	return &Stub{Delay: 250 * time.Millisecond}
}

func (s *Stub) Generate(ctx context.Context, req EditRequest) (*EditResult, error) {
	start := time.Now()
	select {
	case <-time.After(s.Delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &EditResult{
		EditedPNG:      append([]byte(nil), req.AnnotatedPNG...),
		ElapsedSeconds: time.Since(start).Seconds(),
	}, nil
}

var _ Generator = (*Stub)(nil)
