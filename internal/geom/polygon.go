// Package geom provides the polygon geometry predicates the planner needs to
// filter candidate frames: point containment and boundary intersection.
package geom

import (
	"math"

	"github.com/piwi3910/tilescan/internal/model"
)

// epsilon merges nearly-coincident points and absorbs rounding error in the
// orientation tests. Comfortable for values representing µm or pixels.
const epsilon = 1e-9

// Polygon is a closed, non-self-intersecting boundary.
type Polygon struct {
	pts model.Outline
}

// NewPolygon wraps an outline. The outline is implicitly closed.
func NewPolygon(o model.Outline) Polygon {
	return Polygon{pts: o}
}

// ContainsPoint reports whether the point lies inside the polygon, using the
// even-odd ray casting rule. Points exactly on the boundary may land on
// either side; the planner's companion boundary-intersection test covers
// those tiles.
func (p Polygon) ContainsPoint(pt model.Point2D) bool {
	n := len(p.pts)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := p.pts[i], p.pts[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			crossX := a.X + (pt.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pt.X < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// IntersectsRect reports whether the polygon's boundary crosses the
// rectangle's boundary. A rectangle fully inside or fully outside the polygon
// does not intersect it.
func (p Polygon) IntersectsRect(r model.Rect) bool {
	n := len(p.pts)
	if n < 2 {
		return false
	}
	corners := [4]model.Point2D{
		{X: r.MinX, Y: r.MinY},
		{X: r.MaxX, Y: r.MinY},
		{X: r.MaxX, Y: r.MaxY},
		{X: r.MinX, Y: r.MaxY},
	}
	for i := 0; i < n; i++ {
		a := p.pts[i]
		b := p.pts[(i+1)%n]
		for c := 0; c < 4; c++ {
			if segmentsIntersect(a, b, corners[c], corners[(c+1)%4]) {
				return true
			}
		}
	}
	return false
}

// segmentsIntersect reports whether segments ab and cd intersect, including
// touching endpoints and collinear overlap.
func segmentsIntersect(a, b, c, d model.Point2D) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear cases: check whether the collinear point falls on the segment.
	if o1 == 0 && onSegment(a, b, c) {
		return true
	}
	if o2 == 0 && onSegment(a, b, d) {
		return true
	}
	if o3 == 0 && onSegment(c, d, a) {
		return true
	}
	if o4 == 0 && onSegment(c, d, b) {
		return true
	}
	return false
}

// orientation returns the turn direction of the triple (a, b, c):
// 1 clockwise, -1 counter-clockwise, 0 collinear.
func orientation(a, b, c model.Point2D) int {
	v := (b.Y-a.Y)*(c.X-b.X) - (b.X-a.X)*(c.Y-b.Y)
	if math.Abs(v) < epsilon {
		return 0
	}
	if v > 0 {
		return 1
	}
	return -1
}

// onSegment reports whether point p, known collinear with ab, lies between
// a and b.
func onSegment(a, b, p model.Point2D) bool {
	return p.X <= math.Max(a.X, b.X)+epsilon && p.X >= math.Min(a.X, b.X)-epsilon &&
		p.Y <= math.Max(a.Y, b.Y)+epsilon && p.Y >= math.Min(a.Y, b.Y)-epsilon
}
