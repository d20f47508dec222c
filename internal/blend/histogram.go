package blend

import (
	"image"

	"gonum.org/v1/gonum/floats"
)

// HistogramMatch maps each source intensity to the reference intensity with
// the nearest cumulative frequency at or above it, per channel. It corrects
// global lighting and color drift in a full re-render before a feathered
// blend; the exact bbox path never needs it.
func HistogramMatch(src, ref image.Image) *image.RGBA {
	s := ToRGBA(src)
	r := ToRGBA(ref)
	out := image.NewRGBA(s.Bounds())
	copy(out.Pix, s.Pix)

	for c := 0; c < 3; c++ {
		srcCDF := channelCDF(s, c)
		refCDF := channelCDF(r, c)
		lookup := matchLookup(srcCDF, refCDF)
		for i := c; i < len(out.Pix); i += 4 {
			out.Pix[i] = lookup[s.Pix[i]]
		}
	}
	return out
}

func channelCDF(img *image.RGBA, channel int) []float64 {
	hist := make([]float64, 256)
	for i := channel; i < len(img.Pix); i += 4 {
		hist[img.Pix[i]]++
	}
	cdf := make([]float64, 256)
	floats.CumSum(cdf, hist)
	if total := cdf[255]; total > 0 {
		floats.Scale(1/total, cdf)
	}
	return cdf
}

func matchLookup(srcCDF, refCDF []float64) [256]uint8 {
	var lookup [256]uint8
	refIdx := 0
	for srcIdx := 0; srcIdx < 256; srcIdx++ {
		for refIdx < 255 && refCDF[refIdx] < srcCDF[srcIdx] {
			refIdx++
		}
		lookup[srcIdx] = uint8(refIdx)
	}
	return lookup
}
