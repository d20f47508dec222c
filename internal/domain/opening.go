package domain

import (
	"fmt"
	"strings"

	"github.com/cseifert512/Drafted/internal/geometry"
)

// OpeningKind enumerates the door and window types that can be placed on a wall.
type OpeningKind string

const (
	KindInteriorDoor  OpeningKind = "interior_door"
	KindExteriorDoor  OpeningKind = "exterior_door"
	KindSlidingDoor   OpeningKind = "sliding_door"
	KindFrenchDoor    OpeningKind = "french_door"
	KindWindow        OpeningKind = "window"
	KindPictureWindow OpeningKind = "picture_window"
	KindBayWindow     OpeningKind = "bay_window"
)

// KindParams captures per-kind behavior so callers never branch on substrings.
type KindParams struct {
	IsExterior bool
	Glass      bool
	// AffectsLighting marks kinds whose insertion changes room lighting;
	// those get histogram matching before any feathered fallback blend.
	AffectsLighting bool
	IsDoor          bool
}

var kindTable = map[OpeningKind]KindParams{
	KindInteriorDoor:  {IsDoor: true},
	KindExteriorDoor:  {IsExterior: true, IsDoor: true},
	KindSlidingDoor:   {IsExterior: true, Glass: true, AffectsLighting: true, IsDoor: true},
	KindFrenchDoor:    {Glass: true, AffectsLighting: true, IsDoor: true},
	KindWindow:        {IsExterior: true, Glass: true, AffectsLighting: true},
	KindPictureWindow: {IsExterior: true, Glass: true, AffectsLighting: true},
	KindBayWindow:     {IsExterior: true, Glass: true, AffectsLighting: true},
}

// Params returns the behavior table entry for the kind. Unknown kinds get the
// interior-door defaults; ParseOpeningKind prevents them from entering the system.
func (k OpeningKind) Params() KindParams {
	return kindTable[k]
}

// Valid reports whether the kind is part of the closed enumeration.
func (k OpeningKind) Valid() bool {
	_, ok := kindTable[k]
	return ok
}

// ParseOpeningKind normalizes free-form input into a supported kind.
func ParseOpeningKind(s string) (OpeningKind, error) {
	k := OpeningKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown opening kind %q", ErrGeometry, s)
	}
	return k, nil
}

// Describe renders a human-readable description of the opening for the
// generator prompt.
func (o Opening) Describe() string {
	w := int(o.WidthInches)
	switch o.Kind {
	case KindInteriorDoor:
		return fmt.Sprintf("a standard interior hinged door (%d inches wide) with a wooden panel, swinging %s", w, o.swingOrDefault())
	case KindExteriorDoor:
		return fmt.Sprintf("an exterior entry door (%d inches wide) with solid wood or glass panel design", w)
	case KindSlidingDoor:
		return fmt.Sprintf("a sliding glass door (%d inches wide) with large glass panels and a metal frame", w)
	case KindFrenchDoor:
		return fmt.Sprintf("French double doors (%d inches wide) with glass panes and decorative frames", w)
	case KindWindow:
		return fmt.Sprintf("a standard casement window (%d inches wide) with glass panes and white frame", w)
	case KindPictureWindow:
		return fmt.Sprintf("a large picture window (%d inches wide) with a single fixed glass pane", w)
	case KindBayWindow:
		return fmt.Sprintf("a bay window (%d inches wide) projecting outward with multiple glass panes", w)
	default:
		return fmt.Sprintf("an opening (%d inches wide)", w)
	}
}

func (o Opening) swingOrDefault() string {
	if o.Swing == "" {
		return "right"
	}
	return o.Swing
}

// WallSegment is a straight run of wall in vector space.
type WallSegment struct {
	Start geometry.Point `json:"start"`
	End   geometry.Point `json:"end"`
}

// Zero reports whether the segment carries no endpoints at all, i.e. the wall
// was never provided.
func (w WallSegment) Zero() bool {
	return w.Start == (geometry.Point{}) && w.End == (geometry.Point{})
}

// Opening is a door or window placed at a fractional position along a wall
// segment. Created once per request and never mutated.
type Opening struct {
	ID          string      `json:"id"`
	Kind        OpeningKind `json:"kind"`
	Wall        WallSegment `json:"wall"`
	Position    float64     `json:"position"`
	WidthInches float64     `json:"width_inches"`
	Swing       string      `json:"swing,omitempty"`
}

// WidthVec converts the opening width to vector units.
func (o Opening) WidthVec() float64 {
	return o.WidthInches / geometry.InchesPerVectorUnit
}

// Validate rejects openings that cannot be placed.
func (o Opening) Validate() error {
	if !o.Kind.Valid() {
		return fmt.Errorf("%w: unknown opening kind %q", ErrGeometry, o.Kind)
	}
	if o.Wall.Zero() {
		return fmt.Errorf("%w: opening %s has no wall segment", ErrGeometry, o.ID)
	}
	if o.Position < 0 || o.Position > 1 {
		return fmt.Errorf("%w: position %v outside [0,1]", ErrGeometry, o.Position)
	}
	if o.WidthInches <= 0 {
		return fmt.Errorf("%w: opening width must be positive", ErrGeometry)
	}
	return nil
}

// VectorDescription is the pre-parsed vector floor plan supplied with a job:
// room polygons, wall segments, the viewBox, and the raster dimensions the
// base image was rendered at. This module never parses vector markup text.
type VectorDescription struct {
	ViewBox geometry.ViewBox       `json:"view_box"`
	PixelW  int                    `json:"pixel_w,omitempty"`
	PixelH  int                    `json:"pixel_h,omitempty"`
	Rooms   []geometry.RoomPolygon `json:"rooms,omitempty"`
	Walls   []WallSegment          `json:"walls,omitempty"`
}
