// Package tiles owns the per-tile geometry of a globe build.
package tiles

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/hexglobe/internal/globe/mesh"
	"github.com/Faultbox/hexglobe/internal/globe/sphere"
	"github.com/Faultbox/hexglobe/internal/globe/tessellate"
)

var (
	// ErrDisposed is returned by queries after Dispose.
	ErrDisposed = errors.New("tile registry disposed")
	// ErrNotBuilt is returned by queries before the first build.
	ErrNotBuilt = errors.New("tile registry not built")
	// ErrOutOfRange is returned for indexes outside [0, Count()).
	ErrOutOfRange = errors.New("tile index out of range")
)

// Tile is one renderable cell. Fields are read-only for callers.
type Tile struct {
	Index    int // render-order position, stable for the build
	ID       tessellate.TileID
	LatLng   sphere.LatLng
	Outline  []sphere.LatLng // un-shrunk polygon, geographic
	Boundary sphere.Boundary // shrunk polygon on the tile layer
	Center   r3.Vector       // on the nominal sphere
	Color    Color
	Flat     *mesh.Mesh
	Extruded *mesh.Mesh
}

// Key identifies a build. Any change triggers a rebuild.
type Key struct {
	Strategy    string
	Resolution  int
	LatStep     float64
	Radius      float64
	TileRadius  float64
	LayerOffset float64
	Depth       float64
	Shrink      float64
}

func (k Key) strategyOptions() tessellate.Options {
	return tessellate.Options{
		Strategy:   k.Strategy,
		Resolution: k.Resolution,
		LatStep:    k.LatStep,
		Radius:     k.Radius,
		TileRadius: k.TileRadius,
	}
}

func (k Key) projectOptions() tessellate.ProjectOptions {
	return tessellate.ProjectOptions{
		Radius:      k.Radius,
		LayerOffset: k.LayerOffset,
		Shrink:      k.Shrink,
	}
}

// Validate reports the first invalid projection or extrusion parameter as
// a *tessellate.ConfigError. Strategy parameters are checked by the
// strategy constructor.
func (k Key) Validate() error {
	if err := k.projectOptions().Validate(); err != nil {
		return err
	}
	if !(k.Depth > 0) {
		return &tessellate.ConfigError{Field: "extrusion_depth", Value: k.Depth, Reason: "must be positive"}
	}
	return nil
}

// BuildReport summarizes one build.
type BuildReport struct {
	Key        Key
	Generation uint64
	Cells      int           // cells enumerated
	Built      int           // tiles stored
	Skipped    error         // multierr of per-tile geometry errors
	Duration   time.Duration // wall time of the build
}

// SkippedCount returns the number of tiles dropped from the build.
func (r BuildReport) SkippedCount() int {
	return len(multierr.Errors(r.Skipped))
}

type tileSet struct {
	generation uint64
	tiles      []*Tile
	locator    *locator
}

// Registry holds the tiles of the current build. It is not safe for
// concurrent use; all calls happen on the render thread.
type Registry struct {
	log         *zap.Logger
	palette     []Color
	newStrategy StrategyFactory

	key        Key
	active     *tileSet
	generation uint64
	disposed   bool
	last       BuildReport

	hooks  map[int]func(generation uint64)
	nextID int
}

// StrategyFactory creates the cell enumerator for a build.
type StrategyFactory func(tessellate.Options) (tessellate.Strategy, error)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// WithPalette sets the cyclic tile palette.
func WithPalette(p []Color) Option {
	return func(r *Registry) {
		if len(p) > 0 {
			r.palette = p
		}
	}
}

// WithStrategyFactory replaces tessellate.New as the enumerator source.
func WithStrategyFactory(f StrategyFactory) Option {
	return func(r *Registry) {
		if f != nil {
			r.newStrategy = f
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		log:         zap.NewNop(),
		palette:     DefaultPalette,
		newStrategy: tessellate.New,
		hooks:       make(map[int]func(uint64)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ensure makes the registry reflect key, rebuilding only when key differs
// from the current build. The new tile set is built completely before it
// replaces the old one; the old set is released after the swap. On error
// the current set stays active.
func (r *Registry) Ensure(key Key) (changed bool, err error) {
	if r.active != nil && r.key == key {
		return false, nil
	}

	set, report, err := r.build(key)
	if err != nil {
		return false, err
	}
	r.swap(key, set, report)
	return true, nil
}

// Rebuild forces a rebuild with the current key. Like Ensure, a failed
// build leaves the current set active.
func (r *Registry) Rebuild() error {
	set, report, err := r.build(r.key)
	if err != nil {
		return err
	}
	r.swap(r.key, set, report)
	return nil
}

func (r *Registry) swap(key Key, set *tileSet, report BuildReport) {
	old := r.active
	r.active = set
	r.key = key
	r.disposed = false
	r.last = report
	r.release(old)
}

func (r *Registry) build(key Key) (*tileSet, BuildReport, error) {
	start := time.Now()

	if err := key.Validate(); err != nil {
		return nil, BuildReport{}, err
	}
	strategy, err := r.newStrategy(key.strategyOptions())
	if err != nil {
		return nil, BuildReport{}, err
	}
	ids, err := strategy.Cells()
	if err != nil {
		return nil, BuildReport{}, fmt.Errorf("enumerate cells: %w", err)
	}

	r.generation++
	set := &tileSet{
		generation: r.generation,
		tiles:      make([]*Tile, 0, len(ids)),
	}
	report := BuildReport{Key: key, Generation: set.generation, Cells: len(ids)}

	popts := key.projectOptions()
	for order, id := range ids {
		tile, err := buildTile(strategy, id, popts, key.Depth)
		if err != nil {
			var cfgErr *tessellate.ConfigError
			if errors.As(err, &cfgErr) {
				return nil, BuildReport{}, err
			}
			r.log.Warn("skipping tile",
				zap.Uint64("id", uint64(id)),
				zap.Int("order", order),
				zap.Error(err),
			)
			report.Skipped = multierr.Append(report.Skipped, err)
			continue
		}
		tile.Index = len(set.tiles)
		tile.Color = r.palette[order%len(r.palette)]
		set.tiles = append(set.tiles, tile)
	}

	report.Built = len(set.tiles)
	report.Duration = time.Since(start)

	r.log.Info("tiles built",
		zap.String("strategy", strategy.Name()),
		zap.Uint64("generation", set.generation),
		zap.Int("cells", report.Cells),
		zap.Int("built", report.Built),
		zap.Int("skipped", report.SkippedCount()),
		zap.Duration("took", report.Duration),
	)

	return set, report, nil
}

func buildTile(s tessellate.Strategy, id tessellate.TileID, popts tessellate.ProjectOptions, depth float64) (*Tile, error) {
	poly, err := s.Polygon(id)
	if err != nil {
		return nil, err
	}
	proj, err := tessellate.Project(poly, popts)
	if err != nil {
		return nil, err
	}
	flat, err := mesh.BuildFlat(proj.Boundary)
	if err != nil {
		return nil, fmt.Errorf("tile %d: %w", id, err)
	}
	extruded, err := mesh.BuildExtruded(proj.Boundary, depth)
	if err != nil {
		return nil, fmt.Errorf("tile %d: %w", id, err)
	}

	return &Tile{
		ID:       id,
		LatLng:   proj.LatLng,
		Outline:  poly.Ring,
		Boundary: proj.Boundary,
		Center:   proj.Center,
		Flat:     flat,
		Extruded: extruded,
	}, nil
}

// Get returns the tile at render index i.
func (r *Registry) Get(i int) (*Tile, error) {
	set, err := r.current()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(set.tiles) {
		return nil, fmt.Errorf("index %d of %d: %w", i, len(set.tiles), ErrOutOfRange)
	}
	return set.tiles[i], nil
}

// Count returns the number of tiles, or 0 when nothing is built.
func (r *Registry) Count() int {
	if r.active == nil {
		return 0
	}
	return len(r.active.tiles)
}

// Generation returns the generation of the active build, or 0.
func (r *Registry) Generation() uint64 {
	if r.active == nil {
		return 0
	}
	return r.active.generation
}

// Key returns the key of the active build.
func (r *Registry) Key() Key {
	return r.key
}

// LastReport returns the report of the most recent successful build.
func (r *Registry) LastReport() BuildReport {
	return r.last
}

// OnDispose registers fn to run whenever a tile set is released, with
// that set's generation. The returned func unregisters it.
func (r *Registry) OnDispose(fn func(generation uint64)) (cancel func()) {
	id := r.nextID
	r.nextID++
	r.hooks[id] = fn
	return func() {
		delete(r.hooks, id)
	}
}

// Dispose releases every tile and mesh. Queries fail with ErrDisposed
// until the next Ensure.
func (r *Registry) Dispose() {
	r.release(r.active)
	r.active = nil
	r.disposed = true
}

func (r *Registry) current() (*tileSet, error) {
	if r.disposed {
		return nil, ErrDisposed
	}
	if r.active == nil {
		return nil, ErrNotBuilt
	}
	return r.active, nil
}

func (r *Registry) release(set *tileSet) {
	if set == nil {
		return
	}
	for _, fn := range r.hooks {
		fn(set.generation)
	}
	for _, t := range set.tiles {
		t.Flat = nil
		t.Extruded = nil
	}
	set.tiles = nil
	set.locator = nil

	r.log.Debug("tile set released", zap.Uint64("generation", set.generation))
}
