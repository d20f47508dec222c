package geometry

import "errors"

var ErrDegenerateViewBox = errors.New("viewbox has zero extent")

// Point is a location in vector (viewBox) space or, after mapping, in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ViewBox is the floor plan's native coordinate frame: origin plus extent.
type ViewBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned pixel-space rectangle with exclusive upper bounds.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r Rect) Dx() int { return r.X2 - r.X1 }

func (r Rect) Dy() int { return r.Y2 - r.Y1 }

func (r Rect) Area() int { return r.Dx() * r.Dy() }

// Contains reports whether the pixel (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X1 && x < r.X2 && y >= r.Y1 && y < r.Y2
}

// Pad grows the rectangle by px on every side.
func (r Rect) Pad(px int) Rect {
	return Rect{X1: r.X1 - px, Y1: r.Y1 - px, X2: r.X2 + px, Y2: r.Y2 + px}
}

// Clamp restricts the rectangle to the bounds of a w x h image.
func (r Rect) Clamp(w, h int) Rect {
	out := r
	if out.X1 < 0 {
		out.X1 = 0
	}
	if out.Y1 < 0 {
		out.Y1 = 0
	}
	if out.X2 > w {
		out.X2 = w
	}
	if out.Y2 > h {
		out.Y2 = h
	}
	if out.X2 < out.X1 {
		out.X2 = out.X1
	}
	if out.Y2 < out.Y1 {
		out.Y2 = out.Y1
	}
	return out
}

// RoomPolygon is an ordered vertex list in vector space describing one room.
type RoomPolygon struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
}
