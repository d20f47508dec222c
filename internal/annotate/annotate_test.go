package annotate

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cseifert512/Drafted/internal/domain"
	"github.com/cseifert512/Drafted/internal/geometry"
)

func testOpening() domain.Opening {
	return domain.Opening{
		ID:   "op-1",
		Kind: domain.KindWindow,
		Wall: domain.WallSegment{
			Start: geometry.Point{X: 20, Y: 50},
			End:   geometry.Point{X: 80, Y: 50},
		},
		Position:    0.5,
		WidthInches: 36,
	}
}

func testTransform(t *testing.T) geometry.Transform {
	tr, err := geometry.NewTransform(geometry.ViewBox{W: 100, H: 100}, 400, 400)
	require.NoError(t, err)
	return tr
}

func TestAnnotateDrawsMarkerInsideBBox(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 400, 400))
	for i := range base.Pix {
		base.Pix[i] = 255
	}

	marked, bbox, err := Annotate(base, testOpening(), testTransform(t), DefaultPaddingPx)
	require.NoError(t, err)

	markerCount := 0
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			if marked.RGBAAt(x, y) == MarkerColor {
				markerCount++
				assert.True(t, bbox.Contains(x, y), "marker pixel (%d,%d) outside bbox %+v", x, y, bbox)
			}
		}
	}
	assert.Greater(t, markerCount, 0)
	assert.True(t, bbox.Contains(200, 200), "bbox must contain the opening center")
}

func TestAnnotateLeavesBaseUntouched(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 400, 400))
	for i := range base.Pix {
		base.Pix[i] = 255
	}

	_, _, err := Annotate(base, testOpening(), testTransform(t), DefaultPaddingPx)
	require.NoError(t, err)

	for _, p := range base.Pix {
		require.Equal(t, uint8(255), p)
	}
}

func TestAnnotateRejectsMissingWall(t *testing.T) {
	op := testOpening()
	op.Wall = domain.WallSegment{}

	base := image.NewRGBA(image.Rect(0, 0, 100, 100))
	_, _, err := Annotate(base, op, testTransform(t), DefaultPaddingPx)
	assert.ErrorIs(t, err, domain.ErrGeometry)
}

func TestAnnotateVerticalWall(t *testing.T) {
	op := testOpening()
	op.Wall = domain.WallSegment{Start: geometry.Point{X: 50, Y: 20}, End: geometry.Point{X: 50, Y: 80}}

	base := image.NewRGBA(image.Rect(0, 0, 400, 400))
	marked, bbox, err := Annotate(base, op, testTransform(t), DefaultPaddingPx)
	require.NoError(t, err)

	// Vertical wall: the footprint is taller than wide.
	assert.Greater(t, bbox.Dy(), bbox.Dx())
	found := false
	for y := 0; y < 400 && !found; y++ {
		for x := 0; x < 400; x++ {
			if marked.RGBAAt(x, y) == (color.RGBA{R: 255, A: 255}) {
				found = true
				break
			}
		}
	}
	assert.True(t, found)
}
