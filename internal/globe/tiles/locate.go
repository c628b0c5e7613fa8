package tiles

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"github.com/Faultbox/hexglobe/internal/globe/sphere"
)

// locator answers point-in-tile queries with an s2.ShapeIndex over the
// un-shrunk tile outlines. It is built lazily on the first query.
type locator struct {
	index  *s2.ShapeIndex
	query  *s2.ContainsPointQuery
	owners map[s2.Shape]int
}

func newLocator(tiles []*Tile) *locator {
	l := &locator{
		index:  s2.NewShapeIndex(),
		owners: make(map[s2.Shape]int, len(tiles)),
	}
	for _, t := range tiles {
		if len(t.Outline) < 3 {
			continue
		}
		pts := make([]s2.Point, len(t.Outline))
		for i, ll := range t.Outline {
			pts[i] = s2.PointFromLatLng(ll.S2())
		}
		loop := s2.LoopFromPoints(pts)
		loop.Normalize()
		l.index.Add(loop)
		l.owners[loop] = t.Index
	}
	l.query = s2.NewContainsPointQuery(l.index, s2.VertexModelSemiOpen)
	return l
}

func (l *locator) containing(p s2.Point) []int {
	var out []int
	for _, shape := range l.query.ContainingShapes(p) {
		if idx, ok := l.owners[shape]; ok {
			out = append(out, idx)
		}
	}
	return out
}

// Locate returns the index of the tile under a render-frame point, such
// as a ray hit on the globe. Points inside several overlapping outlines,
// or in a gap between outlines, resolve to the tile with the angularly
// nearest center.
func (r *Registry) Locate(p r3.Vector) (int, bool) {
	set, err := r.current()
	if err != nil || len(set.tiles) == 0 || p.Norm() == 0 {
		return 0, false
	}
	if set.locator == nil {
		set.locator = newLocator(set.tiles)
	}

	candidates := set.locator.containing(sphere.ToS2Point(p))
	if len(candidates) == 1 {
		return candidates[0], true
	}
	if len(candidates) > 1 {
		return nearestOf(set.tiles, candidates, p), true
	}
	return r.Nearest(p)
}

// Nearest returns the index of the tile whose center is angularly
// closest to p.
func (r *Registry) Nearest(p r3.Vector) (int, bool) {
	set, err := r.current()
	if err != nil || len(set.tiles) == 0 || p.Norm() == 0 {
		return 0, false
	}
	best, bestDot := -1, -2.0
	dir := p.Normalize()
	for i, t := range set.tiles {
		if d := t.Center.Normalize().Dot(dir); d > bestDot {
			best, bestDot = i, d
		}
	}
	return best, best >= 0
}

func nearestOf(tiles []*Tile, candidates []int, p r3.Vector) int {
	dir := p.Normalize()
	best, bestDot := candidates[0], -2.0
	for _, i := range candidates {
		if d := tiles[i].Center.Normalize().Dot(dir); d > bestDot {
			best, bestDot = i, d
		}
	}
	return best
}
