package geometry

// Contains reports whether the point lies inside the polygon using the
// ray-casting odd/even crossing rule. Points on an edge may land on either
// side; callers that care should not place openings exactly on room borders.
func (rp RoomPolygon) Contains(p Point) bool {
	n := len(rp.Points)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi := rp.Points[i]
		pj := rp.Points[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// ContainingRoom returns the first room polygon containing the point. The
// second return is false when no room contains it; callers then fall back to
// a rectangular edit region.
func ContainingRoom(p Point, rooms []RoomPolygon) (RoomPolygon, bool) {
	for _, room := range rooms {
		if room.Contains(p) {
			return room, true
		}
	}
	return RoomPolygon{}, false
}
