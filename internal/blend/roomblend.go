package blend

import (
	"image"

	"github.com/cseifert512/Drafted/internal/domain"
)

// RoomBlend is the feathered fallback path used when no edit bbox is
// available: the candidate is blended into the base only within the room
// polygon containing the opening. Glass kinds change room lighting, so the
// candidate is histogram-matched to the base first and the mask edge is kept
// wider; plain doors get a tight mask and no color correction.
func RoomBlend(base, overlay image.Image, roomPx []image.Point, p domain.KindParams) *image.RGBA {
	expand, feather := blendParams(p)
	if p.AffectsLighting {
		overlay = HistogramMatch(overlay, base)
	}
	b := base.Bounds()
	mask := PolygonMask(b.Dx(), b.Dy(), roomPx, expand, feather)
	return Composite(base, overlay, mask)
}

func blendParams(p domain.KindParams) (expandPx, featherRadius int) {
	switch {
	case p.AffectsLighting && !p.IsDoor:
		return 15, 20
	case p.AffectsLighting:
		return 10, 15
	default:
		return 5, 10
	}
}
