// Package annotate marks the requested opening location on a copy of the base
// render so the external generator knows exactly which region to redraw.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/cseifert512/Drafted/internal/blend"
	"github.com/cseifert512/Drafted/internal/domain"
	"github.com/cseifert512/Drafted/internal/geometry"
)

// MarkerColor is pure red: high contrast and absent from the rendered floor
// plan palette, so leftover marker pixels in generator output are a reliable
// failure signal.
var MarkerColor = color.RGBA{R: 255, A: 255}

// Marker stroke width in pixels.
const strokeWidth = 4

// DefaultPaddingPx expands the opening footprint into the edit bbox.
const DefaultPaddingPx = 20

// Annotate draws the opening marker on a copy of base and derives the edit
// bounding box. The stored base image is never mutated. Fails explicitly when
// the opening carries no wall segment; it never guesses a location.
func Annotate(base image.Image, op domain.Opening, t geometry.Transform, padPx int) (*image.RGBA, geometry.Rect, error) {
	if op.Wall.Zero() {
		return nil, geometry.Rect{}, fmt.Errorf("%w: opening %s has no wall endpoints", domain.ErrGeometry, op.ID)
	}

	frame := geometry.WallGeometry(op.Wall.Start, op.Wall.End, op.Position)
	bbox := geometry.OpeningBBox(frame, op.WidthVec(), geometry.WallThicknessVec, t, padPx)

	corners := geometry.FootprintCorners(frame, op.WidthVec(), geometry.WallThicknessVec)
	px := make([]geometry.Point, len(corners))
	for i, c := range corners {
		px[i] = t.ToPixel(c)
	}

	marked := blend.ToRGBA(base)
	for i := range px {
		drawLine(marked, px[i], px[(i+1)%len(px)], MarkerColor, strokeWidth)
	}
	return marked, bbox, nil
}

// drawLine stamps a square brush of the given width along the segment.
func drawLine(img *image.RGBA, a, b geometry.Point, c color.RGBA, width int) {
	steps := int(math.Ceil(math.Hypot(b.X-a.X, b.Y-a.Y)))
	if steps == 0 {
		steps = 1
	}
	half := width / 2
	bounds := img.Bounds()
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		cx := int(math.Round(a.X + (b.X-a.X)*f))
		cy := int(math.Round(a.Y + (b.Y-a.Y)*f))
		for dy := -half; dy <= half; dy++ {
			for dx := -half; dx <= half; dx++ {
				x, y := cx+dx, cy+dy
				if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
}
