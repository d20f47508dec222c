package blend

import (
	"image"
	"math"
	"sort"

	"github.com/cseifert512/Drafted/internal/geometry"
)

// FeatheredMask rasterizes a rectangle into a w x h weight map and feathers
// its edges. 255 means the overlay wins, 0 keeps the base, the blurred band
// in between blends smoothly.
func FeatheredMask(w, h int, r geometry.Rect, radius int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, w, h))
	clamped := r.Clamp(w, h)
	for y := clamped.Y1; y < clamped.Y2; y++ {
		row := mask.Pix[y*mask.Stride+clamped.X1 : y*mask.Stride+clamped.X2]
		for i := range row {
			row[i] = 255
		}
	}
	return blurGray(mask, radius)
}

// PolygonMask rasterizes a room polygon, expanded outward from its centroid
// by expandPx, and feathers the result. Used when the room polygon rather
// than a plain rectangle defines the soft edit region.
func PolygonMask(w, h int, pts []image.Point, expandPx, radius int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, w, h))
	if len(pts) >= 3 {
		fillPolygon(mask, expandPolygon(pts, expandPx))
	}
	return blurGray(mask, radius)
}

// expandPolygon pushes each vertex away from the centroid by expandPx.
// Exact for convex rooms, close enough for the mildly concave ones floor
// plans produce.
func expandPolygon(pts []image.Point, expandPx int) []image.Point {
	if expandPx <= 0 || len(pts) < 3 {
		return pts
	}
	var cx, cy float64
	for _, p := range pts {
		cx += float64(p.X)
		cy += float64(p.Y)
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))

	out := make([]image.Point, len(pts))
	for i, p := range pts {
		dx := float64(p.X) - cx
		dy := float64(p.Y) - cy
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			out[i] = p
			continue
		}
		f := (dist + float64(expandPx)) / dist
		out[i] = image.Point{X: int(cx + dx*f), Y: int(cy + dy*f)}
	}
	return out
}

// fillPolygon scanline-fills pts into the mask using the even-odd rule.
func fillPolygon(mask *image.Gray, pts []image.Point) {
	bounds := mask.Bounds()
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if minY < bounds.Min.Y {
		minY = bounds.Min.Y
	}
	if maxY >= bounds.Max.Y {
		maxY = bounds.Max.Y - 1
	}

	xs := make([]int, 0, len(pts))
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		fy := float64(y) + 0.5
		j := len(pts) - 1
		for i := 0; i < len(pts); i++ {
			yi, yj := float64(pts[i].Y), float64(pts[j].Y)
			if (yi > fy) != (yj > fy) {
				t := (fy - yi) / (yj - yi)
				xs = append(xs, int(float64(pts[i].X)+t*float64(pts[j].X-pts[i].X)))
			}
			j = i
		}
		sort.Ints(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			x1, x2 := xs[k], xs[k+1]
			if x1 < bounds.Min.X {
				x1 = bounds.Min.X
			}
			if x2 >= bounds.Max.X {
				x2 = bounds.Max.X - 1
			}
			for x := x1; x <= x2; x++ {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
}

// blurGray feathers a mask with three separable box-blur passes, a standard
// approximation of a Gaussian of comparable radius.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return src
	}
	boxR := radius / 2
	if boxR < 1 {
		boxR = 1
	}
	out := src
	for pass := 0; pass < 3; pass++ {
		out = boxBlurPass(out, boxR)
	}
	return out
}

func boxBlurPass(src *image.Gray, r int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewGray(b)
	// horizontal
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		sum := 0
		count := 0
		for x := -r; x <= r; x++ {
			if x >= 0 && x < w {
				sum += int(row[x])
				count++
			}
		}
		for x := 0; x < w; x++ {
			tmp.Pix[y*tmp.Stride+x] = uint8(sum / count)
			if lead := x + r + 1; lead < w {
				sum += int(row[lead])
				count++
			}
			if trail := x - r; trail >= 0 {
				sum -= int(row[trail])
				count--
			}
		}
	}
	out := image.NewGray(b)
	// vertical
	for x := 0; x < w; x++ {
		sum := 0
		count := 0
		for y := -r; y <= r; y++ {
			if y >= 0 && y < h {
				sum += int(tmp.Pix[y*tmp.Stride+x])
				count++
			}
		}
		for y := 0; y < h; y++ {
			out.Pix[y*out.Stride+x] = uint8(sum / count)
			if lead := y + r + 1; lead < h {
				sum += int(tmp.Pix[lead*tmp.Stride+x])
				count++
			}
			if trail := y - r; trail >= 0 {
				sum -= int(tmp.Pix[trail*tmp.Stride+x])
				count--
			}
		}
	}
	return out
}
