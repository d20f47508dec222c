package blend

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/cseifert512/Drafted/internal/geometry"
)

// ToRGBA normalizes any image to RGBA without touching the source.
func ToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		out := image.NewRGBA(rgba.Bounds())
		copy(out.Pix, rgba.Pix)
		return out
	}
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out
}

// Resize scales src to w x h with Catmull-Rom resampling. Used to bring a
// generator candidate back to the base image's dimensions before validation.
func Resize(src image.Image, w, h int) *image.RGBA {
	if b := src.Bounds(); b.Dx() == w && b.Dy() == h {
		return ToRGBA(src)
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return out
}

// Composite blends overlay onto base per pixel as base*(1-m) + overlay*m,
// with m the mask weight. Base and overlay must share dimensions.
func Composite(base, overlay image.Image, mask *image.Gray) *image.RGBA {
	b := ToRGBA(base)
	o := ToRGBA(overlay)
	bounds := b.Bounds()
	out := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			m := int(mask.Pix[(y-mask.Rect.Min.Y)*mask.Stride+(x-mask.Rect.Min.X)])
			bi := b.PixOffset(x, y)
			oi := o.PixOffset(x, y)
			di := out.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				out.Pix[di+c] = uint8((int(b.Pix[bi+c])*(255-m) + int(o.Pix[oi+c])*m) / 255)
			}
		}
	}
	return out
}

// BBoxComposite copies overlay pixels verbatim inside the bbox onto a copy of
// base. Every pixel outside the bbox stays byte-identical to base, which is
// the no-drift guarantee the post-validation path relies on.
func BBoxComposite(base, overlay image.Image, r geometry.Rect) *image.RGBA {
	out := ToRGBA(base)
	o := ToRGBA(overlay)
	clamped := r.Clamp(out.Bounds().Dx(), out.Bounds().Dy())
	region := image.Rect(clamped.X1, clamped.Y1, clamped.X2, clamped.Y2)
	draw.Draw(out, region, o, image.Point{X: clamped.X1, Y: clamped.Y1}, draw.Src)
	return out
}
