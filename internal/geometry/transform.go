package geometry

import "math"

// One vector unit in the floor-plan frame corresponds to two inches of real
// space; openings are specified in inches and converted on the way in.
const InchesPerVectorUnit = 2.0

// WallThicknessVec is the across-wall extent, in vector units, that an opening
// footprint must cover so the marker spans the drawn wall.
const WallThicknessVec = 8.0

// MinBBoxSpan is the floor on an edit rectangle's width and height. Generators
// produce garbage when asked to edit a sliver, so a bbox is grown to at least
// this span (and shifted back inside the image) before use.
const MinBBoxSpan = 48

// Transform maps vector-space coordinates onto one rendered raster.
type Transform struct {
	VB     ViewBox
	PixelW int
	PixelH int
}

// NewTransform pairs a viewBox with the target raster dimensions. A zero-extent
// viewBox cannot be mapped and is rejected.
func NewTransform(vb ViewBox, pixelW, pixelH int) (Transform, error) {
	if vb.W == 0 || vb.H == 0 || pixelW <= 0 || pixelH <= 0 {
		return Transform{}, ErrDegenerateViewBox
	}
	return Transform{VB: vb, PixelW: pixelW, PixelH: pixelH}, nil
}

func (t Transform) scaleX() float64 { return float64(t.PixelW) / t.VB.W }

func (t Transform) scaleY() float64 { return float64(t.PixelH) / t.VB.H }

// ToPixel maps a vector-space point to pixel space.
func (t Transform) ToPixel(p Point) Point {
	return Point{
		X: (p.X - t.VB.X) * t.scaleX(),
		Y: (p.Y - t.VB.Y) * t.scaleY(),
	}
}

// WallFrame is the local frame of a wall segment: unit direction along the
// wall, unit normal across it, and the opening center on it.
type WallFrame struct {
	Dir    Point
	Normal Point
	Center Point
}

// WallGeometry computes the frame for an opening placed at the given fraction
// along a wall segment. A degenerate (zero-length) segment yields a horizontal
// direction so downstream math stays finite.
func WallGeometry(start, end Point, frac float64) WallFrame {
	dx := end.X - start.X
	dy := end.Y - start.Y
	length := math.Hypot(dx, dy)

	dir := Point{X: 1, Y: 0}
	if length > 0 {
		dir = Point{X: dx / length, Y: dy / length}
	}
	return WallFrame{
		Dir:    dir,
		Normal: Point{X: -dir.Y, Y: dir.X},
		Center: Point{X: start.X + dx*frac, Y: start.Y + dy*frac},
	}
}

// FootprintCorners returns the four vector-space corners of an opening
// footprint: an oriented rectangle widthVec long along the wall and
// thicknessVec deep across it, centered on the frame.
func FootprintCorners(frame WallFrame, widthVec, thicknessVec float64) [4]Point {
	halfW := widthVec / 2
	halfT := thicknessVec / 2
	return [4]Point{
		{X: frame.Center.X - frame.Dir.X*halfW - frame.Normal.X*halfT, Y: frame.Center.Y - frame.Dir.Y*halfW - frame.Normal.Y*halfT},
		{X: frame.Center.X + frame.Dir.X*halfW - frame.Normal.X*halfT, Y: frame.Center.Y + frame.Dir.Y*halfW - frame.Normal.Y*halfT},
		{X: frame.Center.X + frame.Dir.X*halfW + frame.Normal.X*halfT, Y: frame.Center.Y + frame.Dir.Y*halfW + frame.Normal.Y*halfT},
		{X: frame.Center.X - frame.Dir.X*halfW + frame.Normal.X*halfT, Y: frame.Center.Y - frame.Dir.Y*halfW + frame.Normal.Y*halfT},
	}
}

// OpeningBBox builds the pixel-space edit rectangle for an opening footprint.
// The footprint corners are mapped to pixel space, bounded axis-aligned,
// padded, grown to the minimum span, and clamped to the image.
func OpeningBBox(frame WallFrame, widthVec, thicknessVec float64, t Transform, padPx int) Rect {
	corners := FootprintCorners(frame, widthVec, thicknessVec)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := t.ToPixel(c)
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	r := Rect{
		X1: int(math.Floor(minX)),
		Y1: int(math.Floor(minY)),
		X2: int(math.Ceil(maxX)),
		Y2: int(math.Ceil(maxY)),
	}
	r = r.Pad(padPx)
	r = ensureSpan(r, MinBBoxSpan, t.PixelW, t.PixelH)
	return r.Clamp(t.PixelW, t.PixelH)
}

// ensureSpan grows r symmetrically to at least span on each axis, then shifts
// it back inside a w x h image so growth is not lost to clamping.
func ensureSpan(r Rect, span, w, h int) Rect {
	if r.Dx() < span {
		grow := span - r.Dx()
		r.X1 -= grow / 2
		r.X2 += grow - grow/2
	}
	if r.Dy() < span {
		grow := span - r.Dy()
		r.Y1 -= grow / 2
		r.Y2 += grow - grow/2
	}
	if r.X1 < 0 {
		r.X2 -= r.X1
		r.X1 = 0
	}
	if r.Y1 < 0 {
		r.Y2 -= r.Y1
		r.Y1 = 0
	}
	if r.X2 > w {
		r.X1 -= r.X2 - w
		r.X2 = w
	}
	if r.Y2 > h {
		r.Y1 -= r.Y2 - h
		r.Y2 = h
	}
	return r
}
