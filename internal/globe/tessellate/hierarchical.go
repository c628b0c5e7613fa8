package tessellate

import (
	"fmt"

	"github.com/golang/geo/s2"

	"github.com/Faultbox/hexglobe/internal/globe/sphere"
)

// numFaces is the number of S2 base cells covering the sphere.
const numFaces = 6

// MaxResolution is the deepest renderable subdivision level: 6*4^10,
// about 6.3M tiles. S2 itself goes to level 30.
const MaxResolution = 10

// Hierarchical enumerates S2 cells: the six cube-face cells at
// resolution 0, each split into four children per level.
type Hierarchical struct {
	level int
}

// NewHierarchical returns a strategy for the given subdivision level.
func NewHierarchical(resolution int) (*Hierarchical, error) {
	if resolution < 0 || resolution > MaxResolution {
		return nil, &ConfigError{
			Field:  "resolution",
			Value:  resolution,
			Reason: fmt.Sprintf("must be in [0,%d]", MaxResolution),
		}
	}
	return &Hierarchical{level: resolution}, nil
}

// Name implements Strategy.
func (h *Hierarchical) Name() string { return StrategyHierarchical }

// Level returns the subdivision level.
func (h *Hierarchical) Level() int { return h.level }

// CellCount returns 6*4^level without enumerating.
func (h *Hierarchical) CellCount() int {
	return numFaces << (2 * h.level)
}

// Cells implements Strategy. Order is face order, then Hilbert child order.
func (h *Hierarchical) Cells() ([]TileID, error) {
	ids := make([]TileID, 0, h.CellCount())
	for face := range numFaces {
		root := s2.CellIDFromFace(face)
		end := root.ChildEndAtLevel(h.level)
		for c := root.ChildBeginAtLevel(h.level); c != end; c = c.Next() {
			ids = append(ids, TileID(c))
		}
	}
	return ids, nil
}

// Polygon implements Strategy. S2 returns cell vertices counter-clockwise
// around the cell interior.
func (h *Hierarchical) Polygon(id TileID) (Polygon, error) {
	cid := s2.CellID(id)
	if !cid.IsValid() || cid.Level() != h.level {
		return Polygon{}, fmt.Errorf("cell %s at level %d: %w", cid.ToToken(), h.level, ErrUnknownTile)
	}

	cell := s2.CellFromCellID(cid)
	ring := make([]sphere.LatLng, 4)
	for k := range ring {
		ring[k] = sphere.FromS2(s2.LatLngFromPoint(cell.Vertex(k)))
	}

	return Polygon{
		Ring:   ring,
		Center: sphere.FromS2(s2.LatLngFromPoint(cid.Point())),
	}, nil
}

// Token returns the S2 token for a hierarchical tile id.
func Token(id TileID) string {
	return s2.CellID(id).ToToken()
}
