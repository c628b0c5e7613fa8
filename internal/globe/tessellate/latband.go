package tessellate

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"github.com/Faultbox/hexglobe/internal/globe/sphere"
)

const twoPi = 2 * math.Pi

// Row describes one latitude row of the band layout.
type Row struct {
	Lat    float64 // degrees
	Count  int     // tiles in the row, at least 1
	Step   float64 // longitude spacing, radians
	Offset float64 // accumulated stagger, radians in [0, 2pi)
	First  int     // enumeration index of the row's first tile
}

// LatitudeBand packs hexagons row by row from the south pole to the
// north pole. Each row holds as many tiles as fit around its
// circumference, staggered against the previous row.
type LatitudeBand struct {
	step       float64
	radius     float64
	tileRadius float64
	rows       []Row
	total      int
}

// NewLatitudeBand lays out rows every step degrees on a globe of the
// given radius, using hexagons of circumradius tileRadius.
func NewLatitudeBand(step, radius, tileRadius float64) (*LatitudeBand, error) {
	switch {
	case !(step > 0) || step > 180:
		return nil, &ConfigError{Field: "lat_step", Value: step, Reason: "must be in (0,180]"}
	case !(radius > 0):
		return nil, &ConfigError{Field: "radius", Value: radius, Reason: "must be positive"}
	case !(tileRadius > 0):
		return nil, &ConfigError{Field: "tile_radius", Value: tileRadius, Reason: "must be positive"}
	}

	lb := &LatitudeBand{step: step, radius: radius, tileRadius: tileRadius}
	lb.layout()
	return lb, nil
}

// InterlockRadius returns the hexagon circumradius at which rows step
// degrees apart on a globe of the given radius interlock: pointy-top
// hexagons nest when the row spacing is 1.5 circumradii.
func InterlockRadius(step, radius float64) float64 {
	return step * math.Pi / 180 * radius / 1.5
}

// layout computes the rows. Latitudes come from the row number rather
// than a running sum so float drift cannot drop the last row.
func (lb *LatitudeBand) layout() {
	tileWidth := lb.tileRadius * math.Sqrt(3)
	numRows := int(math.Floor(180/lb.step+1e-9)) + 1

	counts := make([]int, numRows)
	lats := make([]float64, numRows)
	for i := range numRows {
		lat := -90 + float64(i)*lb.step
		rowRadius := lb.radius * math.Cos(lat*math.Pi/180)
		circumference := twoPi * rowRadius
		lats[i] = lat
		counts[i] = max(1, int(math.Floor(circumference/tileWidth)))
	}

	offsets := StaggerOffsets(counts)
	lb.rows = make([]Row, numRows)
	first := 0
	for i := range numRows {
		lb.rows[i] = Row{
			Lat:    lats[i],
			Count:  counts[i],
			Step:   twoPi / float64(counts[i]),
			Offset: offsets[i],
			First:  first,
		}
		first += counts[i]
	}
	lb.total = first
}

// StaggerOffsets returns the accumulated longitude offset of each row.
// The first row starts at 0. A row with the same count as its
// predecessor shifts by half its step (brick pattern); otherwise it
// shifts by half the difference between the two steps. The running
// offset wraps into [0, 2pi).
func StaggerOffsets(counts []int) []float64 {
	offsets := make([]float64, len(counts))
	offset := 0.0
	for i := 1; i < len(counts); i++ {
		cur := twoPi / float64(counts[i])
		prev := twoPi / float64(counts[i-1])
		if counts[i] != counts[i-1] {
			offset += 0.5 * (prev - cur)
		} else {
			offset += cur / 2
		}
		offset = wrapTwoPi(offset)
		offsets[i] = offset
	}
	return offsets
}

// Name implements Strategy.
func (lb *LatitudeBand) Name() string { return StrategyLatitudeBand }

// Rows returns a copy of the row layout.
func (lb *LatitudeBand) Rows() []Row {
	out := make([]Row, len(lb.rows))
	copy(out, lb.rows)
	return out
}

// CellCount returns the number of tiles across all rows.
func (lb *LatitudeBand) CellCount() int { return lb.total }

// Cells implements Strategy. Order is south to north, then by longitude step.
func (lb *LatitudeBand) Cells() ([]TileID, error) {
	ids := make([]TileID, 0, lb.total)
	for r, row := range lb.rows {
		for c := range row.Count {
			ids = append(ids, bandID(r, c))
		}
	}
	return ids, nil
}

// Polygon implements Strategy. The outline is a hexagon laid in the
// plane tangent to the tile center.
func (lb *LatitudeBand) Polygon(id TileID) (Polygon, error) {
	r, c := splitBandID(id)
	if r >= len(lb.rows) || c >= lb.rows[r].Count {
		return Polygon{}, fmt.Errorf("band tile (%d,%d): %w", r, c, ErrUnknownTile)
	}

	center := lb.Center(r, c)
	return Polygon{
		Ring:   hexagon(center, lb.tileRadius/lb.radius),
		Center: center,
	}, nil
}

// Center returns the geographic center of tile c in row r.
func (lb *LatitudeBand) Center(r, c int) sphere.LatLng {
	row := lb.rows[r]
	lng := float64(c)*row.Step + row.Offset
	return sphere.LatLng{Lat: row.Lat, Lng: sphere.NormalizeLng(lng * 180 / math.Pi)}
}

// RowCol splits a latitude band tile id.
func RowCol(id TileID) (row, col int) {
	return splitBandID(id)
}

func bandID(row, col int) TileID {
	return TileID(uint64(row)<<32 | uint64(col))
}

func splitBandID(id TileID) (int, int) {
	return int(uint64(id) >> 32), int(uint64(id) & 0xffffffff)
}

// hexagon returns six vertices at angular radius alpha (radians) around
// center, counter-clockwise as seen from outside. The east/north frame
// is derived from longitude alone so it stays defined at the poles.
func hexagon(center sphere.LatLng, alpha float64) []sphere.LatLng {
	p := s2.PointFromLatLng(center.S2()).Vector
	lng := center.Lng * math.Pi / 180
	east := r3.Vector{X: -math.Sin(lng), Y: math.Cos(lng)}
	north := p.Cross(east).Normalize()

	ring := make([]sphere.LatLng, 6)
	for k := range ring {
		a := math.Pi/6 + float64(k)*math.Pi/3
		dir := east.Mul(math.Cos(a)).Add(north.Mul(math.Sin(a)))
		v := p.Mul(math.Cos(alpha)).Add(dir.Mul(math.Sin(alpha)))
		ring[k] = sphere.FromS2(s2.LatLngFromPoint(s2.Point{Vector: v.Normalize()}))
	}
	return ring
}

func wrapTwoPi(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}
