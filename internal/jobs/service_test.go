package jobs

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cseifert512/Drafted/internal/domain"
	"github.com/cseifert512/Drafted/internal/geometry"
	provider "github.com/cseifert512/Drafted/internal/providers/image"
	"github.com/cseifert512/Drafted/internal/store"
	"github.com/cseifert512/Drafted/internal/validate"
)

// scriptedGenerator returns canned responses in order, repeating the last
// one once the script runs out.
type scriptedGenerator struct {
	mu        sync.Mutex
	responses [][]byte
	err       error
	calls     int
}

func (g *scriptedGenerator) Generate(_ context.Context, req provider.EditRequest) (*provider.EditResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	idx := g.calls - 1
	if idx >= len(g.responses) {
		idx = len(g.responses) - 1
	}
	return &provider.EditResult{
		EditedPNG:      append([]byte(nil), g.responses[idx]...),
		ElapsedSeconds: 0.01,
	}, nil
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func whitePNG(t *testing.T, w, h int) ([]byte, *image.RGBA) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes(), img
}

// blockPNG re-encodes the base with a solid block stamped over it.
func blockPNG(t *testing.T, base *image.RGBA, r geometry.Rect, c color.RGBA) []byte {
	img := image.NewRGBA(base.Bounds())
	copy(img.Pix, base.Pix)
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testOpening() domain.Opening {
	return domain.Opening{
		ID:   "op-1",
		Kind: domain.KindInteriorDoor,
		Wall: domain.WallSegment{
			Start: geometry.Point{X: 20, Y: 50},
			End:   geometry.Point{X: 80, Y: 50},
		},
		Position:    0.5,
		WidthInches: 36,
	}
}

func testVector() domain.VectorDescription {
	return domain.VectorDescription{ViewBox: geometry.ViewBox{W: 100, H: 100}}
}

func newTestService(t *testing.T, gen provider.Generator) (*Service, *store.Memory) {
	mem := store.NewMemory()
	svc := NewService(context.Background(), mem, gen, validate.New(validate.DefaultConfig()), zerolog.Nop(), Config{
		MaxRetries: 3,
		PaddingPx:  20,
	})
	return svc, mem
}

func TestJobRecoversAfterRejectedAttempts(t *testing.T) {
	basePNG, baseImg := whitePNG(t, 200, 200)

	// The opening center maps to pixel (100,100); both blocks sit inside
	// the edit bbox the service derives.
	editRegion := geometry.Rect{X1: 90, Y1: 90, X2: 110, Y2: 110}
	rejected := blockPNG(t, baseImg, editRegion, color.RGBA{R: 255, A: 255})
	accepted := blockPNG(t, baseImg, editRegion, color.RGBA{R: 120, G: 110, B: 100, A: 255})

	gen := &scriptedGenerator{responses: [][]byte{rejected, rejected, accepted}}
	svc, _ := newTestService(t, gen)

	jobID, err := svc.Submit(context.Background(), "plan-1", testOpening(), basePNG, testVector())
	require.NoError(t, err)
	svc.Drain()

	job, err := svc.Status(context.Background(), jobID)
	require.NoError(t, err)

	assert.Equal(t, domain.StateComplete, job.State)
	assert.NotEmpty(t, job.FinalPNG)
	assert.Empty(t, job.ErrorMessage)
	require.Len(t, job.Attempts, 3)
	assert.Equal(t, domain.CheckMarkerResidue, job.Attempts[0].Verdict.FailedCheck)
	assert.Equal(t, domain.CheckMarkerResidue, job.Attempts[1].Verdict.FailedCheck)
	assert.True(t, job.Attempts[2].Verdict.Pass)
	assert.NotEmpty(t, job.Attempts[0].RejectedPNG)
	assert.Empty(t, job.Attempts[2].RejectedPNG)
	assert.Equal(t, 3, gen.callCount())
}

func TestCompletedJobNeverDriftsOutsideBBox(t *testing.T) {
	basePNG, baseImg := whitePNG(t, 200, 200)
	accepted := blockPNG(t, baseImg, geometry.Rect{X1: 90, Y1: 90, X2: 110, Y2: 110}, color.RGBA{R: 120, G: 110, B: 100, A: 255})

	gen := &scriptedGenerator{responses: [][]byte{accepted}}
	svc, _ := newTestService(t, gen)

	jobID, err := svc.Submit(context.Background(), "plan-1", testOpening(), basePNG, testVector())
	require.NoError(t, err)
	svc.Drain()

	job, err := svc.Status(context.Background(), jobID)
	require.NoError(t, err)
	require.Equal(t, domain.StateComplete, job.State)

	final, err := png.Decode(bytes.NewReader(job.FinalPNG))
	require.NoError(t, err)
	rgba, ok := final.(*image.RGBA)
	if !ok {
		got := image.NewRGBA(final.Bounds())
		for y := 0; y < 200; y++ {
			for x := 0; x < 200; x++ {
				got.Set(x, y, final.At(x, y))
			}
		}
		rgba = got
	}

	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			if job.BBox.Contains(x, y) {
				continue
			}
			require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgba.RGBAAt(x, y), "drift at (%d,%d)", x, y)
		}
	}
	assert.Equal(t, color.RGBA{R: 120, G: 110, B: 100, A: 255}, rgba.RGBAAt(100, 100))
}

func TestJobFailsAfterRetryBudgetExhausted(t *testing.T) {
	basePNG, baseImg := whitePNG(t, 200, 200)
	rejected := blockPNG(t, baseImg, geometry.Rect{X1: 90, Y1: 90, X2: 110, Y2: 110}, color.RGBA{R: 255, A: 255})

	gen := &scriptedGenerator{responses: [][]byte{rejected}}
	svc, _ := newTestService(t, gen)

	jobID, err := svc.Submit(context.Background(), "plan-1", testOpening(), basePNG, testVector())
	require.NoError(t, err)
	svc.Drain()

	job, err := svc.Status(context.Background(), jobID)
	require.NoError(t, err)

	assert.Equal(t, domain.StateFailed, job.State)
	assert.Empty(t, job.FinalPNG)
	assert.Contains(t, job.ErrorMessage, "attempts rejected")
	assert.Len(t, job.Attempts, 3)
	assert.Equal(t, 3, gen.callCount())
}

func TestGeneratorCallErrorIsFatalNotRetried(t *testing.T) {
	basePNG, _ := whitePNG(t, 200, 200)

	gen := &scriptedGenerator{err: errors.New("upstream unreachable")}
	svc, _ := newTestService(t, gen)

	jobID, err := svc.Submit(context.Background(), "plan-1", testOpening(), basePNG, testVector())
	require.NoError(t, err)
	svc.Drain()

	job, err := svc.Status(context.Background(), jobID)
	require.NoError(t, err)

	assert.Equal(t, domain.StateFailed, job.State)
	assert.Contains(t, job.ErrorMessage, "generation call failed")
	assert.Contains(t, job.ErrorMessage, "upstream unreachable")
	assert.Empty(t, job.Attempts)
	assert.Equal(t, 1, gen.callCount(), "call failures must not consume the retry budget")
}

func TestUndecodableGeneratorOutputIsFatal(t *testing.T) {
	basePNG, _ := whitePNG(t, 200, 200)

	gen := &scriptedGenerator{responses: [][]byte{[]byte("not a png")}}
	svc, _ := newTestService(t, gen)

	jobID, err := svc.Submit(context.Background(), "plan-1", testOpening(), basePNG, testVector())
	require.NoError(t, err)
	svc.Drain()

	job, err := svc.Status(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateFailed, job.State)
	assert.Equal(t, 1, gen.callCount())
}

func TestSubmitRejectsBadInputSynchronously(t *testing.T) {
	basePNG, _ := whitePNG(t, 200, 200)
	gen := &scriptedGenerator{}
	svc, _ := newTestService(t, gen)

	op := testOpening()
	op.Position = 1.5
	_, err := svc.Submit(context.Background(), "plan-1", op, basePNG, testVector())
	assert.ErrorIs(t, err, domain.ErrGeometry)

	_, err = svc.Submit(context.Background(), "plan-1", testOpening(), []byte("junk"), testVector())
	assert.ErrorIs(t, err, domain.ErrGeometry)

	_, err = svc.Submit(context.Background(), "plan-1", testOpening(), basePNG, domain.VectorDescription{})
	assert.ErrorIs(t, err, domain.ErrGeometry)

	assert.Equal(t, 0, gen.callCount())
}

func TestStatusUnknownJob(t *testing.T) {
	svc, _ := newTestService(t, &scriptedGenerator{})
	_, err := svc.Status(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveDeletesJobBookkeeping(t *testing.T) {
	basePNG, baseImg := whitePNG(t, 200, 200)
	accepted := blockPNG(t, baseImg, geometry.Rect{X1: 90, Y1: 90, X2: 110, Y2: 110}, color.RGBA{R: 120, G: 110, B: 100, A: 255})

	svc, _ := newTestService(t, &scriptedGenerator{responses: [][]byte{accepted}})

	jobID, err := svc.Submit(context.Background(), "plan-1", testOpening(), basePNG, testVector())
	require.NoError(t, err)
	svc.Drain()

	require.NoError(t, svc.Remove(context.Background(), "plan-1", "op-1"))

	_, err = svc.Status(context.Background(), jobID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Remove(context.Background(), "plan-1", "op-1"), domain.ErrNotFound)
}
