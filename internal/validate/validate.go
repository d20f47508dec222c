// Package validate judges generator output against the original render. The
// generator is a black box that occasionally hallucinates: leaves the edit
// marker in place, repaints rooms it was told not to touch, or draws an
// opening far larger than requested. Every candidate passes through three
// checks before it is allowed anywhere near the final image.
package validate

import (
	"fmt"
	"image"

	"github.com/cseifert512/Drafted/internal/blend"
	"github.com/cseifert512/Drafted/internal/domain"
	"github.com/cseifert512/Drafted/internal/geometry"
)

// Config holds the detection thresholds. They were tuned empirically against
// observed generator failures and may need re-tuning per target generator,
// so they are configuration, never inlined at a call site.
type Config struct {
	// Marker pixels have a dominant red channel. A candidate bbox whose
	// marker-colored fraction exceeds MarkerMaxFrac was not actually edited.
	MarkerRMin    uint8
	MarkerGMax    uint8
	MarkerBMax    uint8
	MarkerMaxFrac float64

	// A pixel outside the bbox counts as changed when any channel moved by
	// more than ChangeDelta. Subtle lighting shifts pass, content does not.
	ChangeDelta uint8
	// Reject when more than this fraction of all outside-bbox pixels changed.
	ContaminationMaxFrac float64
	// Reject when the changed-outside pixel count exceeds this multiple of
	// the bbox's own area, even if it is a small fraction of the image.
	OversizedMaxRatio float64
}

// DefaultConfig returns the tuned thresholds.
func DefaultConfig() Config {
	return Config{
		MarkerRMin:           200,
		MarkerGMax:           80,
		MarkerBMax:           80,
		MarkerMaxFrac:        0.005,
		ChangeDelta:          50,
		ContaminationMaxFrac: 0.005,
		OversizedMaxRatio:    2.0,
	}
}

// Validator runs the anti-hallucination checks.
type Validator struct {
	cfg Config
}

func New(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate runs the checks in order, short-circuiting on the first failure:
// marker residue, outside-bbox contamination, oversized generation. All
// computed metrics are carried on the verdict either way so rejections can
// be replayed from logs.
func (v *Validator) Validate(original, candidate image.Image, bbox geometry.Rect) domain.Verdict {
	orig := blend.ToRGBA(original)
	w, h := orig.Bounds().Dx(), orig.Bounds().Dy()
	cand := blend.Resize(candidate, w, h)
	r := bbox.Clamp(w, h)

	metrics := map[string]float64{
		"bbox_area": float64(r.Area()),
	}

	markerFrac, markerPixels := v.markerFraction(cand, r)
	metrics["marker_frac"] = markerFrac
	metrics["marker_pixels"] = float64(markerPixels)
	if markerFrac > v.cfg.MarkerMaxFrac {
		return domain.Verdict{
			FailedCheck: domain.CheckMarkerResidue,
			Reason: fmt.Sprintf("marker residue: %.2f%% of bbox pixels are marker-colored (%d pixels); the edit marker was not replaced",
				markerFrac*100, markerPixels),
			Metrics: metrics,
		}
	}

	changed, outside := v.changedOutside(orig, cand, r)
	metrics["changed_outside"] = float64(changed)
	metrics["outside_total"] = float64(outside)

	var contamination float64
	if outside > 0 {
		contamination = float64(changed) / float64(outside)
	}
	metrics["contamination_frac"] = contamination
	if contamination > v.cfg.ContaminationMaxFrac {
		return domain.Verdict{
			FailedCheck: domain.CheckContamination,
			Reason: fmt.Sprintf("contamination: %.2f%% of pixels outside the edit region changed (%d pixels); content was added where it should not be",
				contamination*100, changed),
			Metrics: metrics,
		}
	}

	var ratio float64
	if r.Area() > 0 {
		ratio = float64(changed) / float64(r.Area())
	}
	metrics["oversized_ratio"] = ratio
	if ratio > v.cfg.OversizedMaxRatio {
		return domain.Verdict{
			FailedCheck: domain.CheckOversized,
			Reason: fmt.Sprintf("oversized generation: changes outside the bbox cover %.0f%% of the bbox area (%d changed pixels vs %d bbox pixels)",
				ratio*100, changed, r.Area()),
			Metrics: metrics,
		}
	}

	return domain.Verdict{Pass: true, Metrics: metrics}
}

// markerFraction classifies bbox pixels of the candidate as marker-colored
// via the channel thresholds and returns the marker fraction and count.
func (v *Validator) markerFraction(cand *image.RGBA, r geometry.Rect) (float64, int) {
	if r.Area() == 0 {
		return 0, 0
	}
	count := 0
	for y := r.Y1; y < r.Y2; y++ {
		i := cand.PixOffset(r.X1, y)
		for x := r.X1; x < r.X2; x, i = x+1, i+4 {
			if cand.Pix[i] > v.cfg.MarkerRMin && cand.Pix[i+1] < v.cfg.MarkerGMax && cand.Pix[i+2] < v.cfg.MarkerBMax {
				count++
			}
		}
	}
	return float64(count) / float64(r.Area()), count
}

// changedOutside counts pixels strictly outside the bbox where any channel of
// the candidate differs from the original by more than the delta, along with
// the total number of outside pixels.
func (v *Validator) changedOutside(orig, cand *image.RGBA, r geometry.Rect) (changed, outside int) {
	b := orig.Bounds()
	delta := int(v.cfg.ChangeDelta)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := orig.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			if r.Contains(x, y) {
				continue
			}
			outside++
			for c := 0; c < 3; c++ {
				d := int(orig.Pix[i+c]) - int(cand.Pix[i+c])
				if d > delta || d < -delta {
					changed++
					break
				}
			}
		}
	}
	return changed, outside
}
