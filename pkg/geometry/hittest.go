package geometry

// PointInPolygon returns true if the point lies inside the polygon using the
// even-odd ray casting rule. The polygon does not need to be closed.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			crossX := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// DistanceToSegment returns the shortest distance from a point to the line
// segment between a and b.
func DistanceToSegment(p, a, b Point2D) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}

	// Project p onto the segment, clamped to its endpoints.
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Point2D{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
	return p.Distance(closest)
}

// PointNearPolyline returns true if the point is within tolerance of any
// segment of the polyline.
func PointNearPolyline(p Point2D, polyline []Point2D, tolerance float64) bool {
	for i := 0; i+1 < len(polyline); i++ {
		if DistanceToSegment(p, polyline[i], polyline[i+1]) <= tolerance {
			return true
		}
	}
	return false
}

// NearestVertex returns the index of the vertex closest to p that lies within
// tolerance, or -1 if none qualifies.
func NearestVertex(p Point2D, vertices []Point2D, tolerance float64) int {
	best := -1
	bestDist := tolerance
	for i, v := range vertices {
		if d := p.Distance(v); d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
