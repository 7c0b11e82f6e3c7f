package canopy

// Ray is a directed line through P1 and P2. Depending on the operation it is
// treated as an infinite line or as the segment between its endpoints.
type Ray struct {
	P1, P2 Vec2
}

// OrientationToLine returns the cross product (P2-P1) x (v-P1). The result is
// positive on one side of the line, negative on the other and zero for
// collinear points. In a Y-down coordinate system a positive value means v
// is to the right of the direction of travel.
func (r Ray) OrientationToLine(v Vec2) float64 {
	return (r.P2.X-r.P1.X)*(v.Y-r.P1.Y) - (r.P2.Y-r.P1.Y)*(v.X-r.P1.X)
}

// params returns the line parameters ua (along r) and ub (along o) of the
// intersection of the two infinite lines. ok is false for parallel lines.
func (r Ray) params(o Ray) (ua, ub float64, ok bool) {
	den := (o.P2.Y-o.P1.Y)*(r.P2.X-r.P1.X) - (o.P2.X-o.P1.X)*(r.P2.Y-r.P1.Y)
	if den == 0 {
		return 0, 0, false
	}
	ua = ((o.P2.X-o.P1.X)*(r.P1.Y-o.P1.Y) - (o.P2.Y-o.P1.Y)*(r.P1.X-o.P1.X)) / den
	ub = ((r.P2.X-r.P1.X)*(r.P1.Y-o.P1.Y) - (r.P2.Y-r.P1.Y)*(r.P1.X-o.P1.X)) / den
	return ua, ub, true
}

// at returns the point P1 + (P2-P1)*t.
func (r Ray) at(t float64) Vec2 {
	return r.P1.Add(r.P2.Sub(r.P1).Mul(t))
}

// Intersection returns the point where the infinite lines through r and o
// cross. ok is false for parallel or coincident lines.
func (r Ray) Intersection(o Ray) (Vec2, bool) {
	ua, _, ok := r.params(o)
	if !ok {
		return Vec2{}, false
	}
	return r.at(ua), true
}

// SegmentIntersection returns the point where the segments r and o cross.
// Touching endpoints count as an intersection. ok is false when the segments
// are parallel or do not meet.
func (r Ray) SegmentIntersection(o Ray) (Vec2, bool) {
	ua, ub, ok := r.params(o)
	if !ok || ua < 0 || ua > 1 || ub < 0 || ub > 1 {
		return Vec2{}, false
	}
	return r.at(ua), true
}

// polygonEdge returns the edge from vertex i to its successor, wrapping
// around to the first vertex.
func polygonEdge(poly []Vec2, i int) Ray {
	j := i + 1
	if j == len(poly) {
		j = 0
	}
	return Ray{poly[i], poly[j]}
}

// PolygonContains reports whether p lies inside poly using the crossing
// number rule. A point equal to a vertex is always inside. Polygons with
// fewer than three vertices contain nothing but their vertices.
func PolygonContains(poly []Vec2, p Vec2) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if EqualWithin(p.X, a.X, DefaultTolerance) && EqualWithin(p.Y, a.Y, DefaultTolerance) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// PolygonSegmentIntersection tests ray as a segment against each edge of
// poly in order and returns the first intersection found.
func PolygonSegmentIntersection(poly []Vec2, ray Ray) (Vec2, bool) {
	for i := range poly {
		if p, ok := polygonEdge(poly, i).SegmentIntersection(ray); ok {
			return p, true
		}
	}
	return Vec2{}, false
}

// PolygonIntersection is like PolygonSegmentIntersection but treats both the
// edges and ray as infinite lines, so only parallel edges are skipped.
func PolygonIntersection(poly []Vec2, ray Ray) (Vec2, bool) {
	for i := range poly {
		if p, ok := polygonEdge(poly, i).Intersection(ray); ok {
			return p, true
		}
	}
	return Vec2{}, false
}

// PolygonsIntersect reports whether any edge of a crosses any edge of b.
// One polygon lying entirely inside the other does not count.
func PolygonsIntersect(a, b []Vec2) bool {
	for i := range a {
		ea := polygonEdge(a, i)
		for j := range b {
			if _, ok := ea.SegmentIntersection(polygonEdge(b, j)); ok {
				return true
			}
		}
	}
	return false
}

// ClipPolygon clamps subject to clip by casting a segment from the center of
// subject's bounding box through each subject vertex. Where the segment hits
// an edge of clip the vertex moves to that hit; otherwise it is kept. The
// result always has len(subject) vertices.
//
// This is a cheap silhouette clip for shapes nested inside convex owners,
// not a general polygon clipper: concave or self-intersecting inputs may
// produce a wrong shape.
func ClipPolygon(subject, clip []Vec2) []Vec2 {
	if len(subject) == 0 {
		return nil
	}
	out := make([]Vec2, len(subject))
	c := CenterOf(subject)
	for i, v := range subject {
		if p, ok := PolygonSegmentIntersection(clip, Ray{c, v}); ok {
			out[i] = p
		} else {
			out[i] = v
		}
	}
	return out
}
