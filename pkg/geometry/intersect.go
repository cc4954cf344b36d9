package geometry

import "math"

// Hit describes where a query segment p1->p2 meets another shape.
// Ua is the fractional position of Point along the query segment, measured from p1,
// and is what callers compare to pick the nearest of several hits.
type Hit struct {
	Ua    float64
	Ub    float64
	Point Vector2D
}

// SegmentIntersect reports whether segment p1->p2 crosses segment p3->p4.
// Parallel and collinear segments (zero determinant) never intersect, even when they overlap.
// Both parameters must lie strictly inside (0,1): touching at an endpoint is not a hit.
func SegmentIntersect(p1, p2, p3, p4 Vector2D) (Hit, bool) {
	denom := (p4.Y-p3.Y)*(p2.X-p1.X) - (p4.X-p3.X)*(p2.Y-p1.Y)
	if denom == 0.0 {
		return Hit{}, false
	}
	ua := ((p4.X-p3.X)*(p1.Y-p3.Y) - (p4.Y-p3.Y)*(p1.X-p3.X)) / denom
	ub := ((p2.X-p1.X)*(p1.Y-p3.Y) - (p2.Y-p1.Y)*(p1.X-p3.X)) / denom
	if ua > 0.0 && ua < 1.0 && ub > 0.0 && ub < 1.0 {
		return Hit{
			Ua:    ua,
			Ub:    ub,
			Point: Vector2D{p1.X + ua*(p2.X-p1.X), p1.Y + ua*(p2.Y-p1.Y)},
		}, true
	}
	return Hit{}, false
}

// SegmentCircleIntersect reports whether segment p1->p2 passes within radius of center.
//
// The hit point is the foot of the perpendicular dropped from center onto the line, not the
// entry point of the chord. Its position along the segment is measured on whichever axis the
// segment spans most, and only feet strictly inside (0,1) count.
// Ub is always zero for circle hits.
func SegmentCircleIntersect(p1, p2, center Vector2D, radius float64) (Hit, bool) {
	v := Vector2D{p2.Y - p1.Y, -(p2.X - p1.X)} // perpendicular to the segment
	d := math.Abs((p2.X-p1.X)*(p1.Y-center.Y) - (p1.X-center.X)*(p2.Y-p1.Y))
	d = d / v.Len()
	// a degenerate segment gives NaN here, which fails every comparison below
	if !(d <= radius) {
		return Hit{}, false
	}

	v.NormalizeInPlace()
	v.Scale(d)
	up := center.Add(v)

	var ua float64
	if math.Abs(p2.X-p1.X) > math.Abs(p2.Y-p1.Y) {
		ua = (up.X - p1.X) / (p2.X - p1.X)
	} else {
		ua = (up.Y - p1.Y) / (p2.Y - p1.Y)
	}
	if ua > 0.0 && ua < 1.0 {
		return Hit{Ua: ua, Point: up}, true
	}
	return Hit{}, false
}
