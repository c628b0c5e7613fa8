// Package globe wires the tile registry, the selection controller and the
// camera driver into one interactive globe. It owns no GPU state; the
// viewer reads tiles and materials from it each frame.
package globe

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/hexglobe/internal/engine/camera"
	"github.com/Faultbox/hexglobe/internal/globe/selection"
	"github.com/Faultbox/hexglobe/internal/globe/sphere"
	"github.com/Faultbox/hexglobe/internal/globe/tessellate"
	"github.com/Faultbox/hexglobe/internal/globe/tiles"
)

// TileSelected is published on every transition into Selected.
type TileSelected struct {
	Index  int
	ID     tessellate.TileID
	LatLng sphere.LatLng
}

// Globe is the interactive globe core. It is not safe for concurrent
// use; all calls happen on the render thread.
type Globe struct {
	log       *zap.Logger
	tiles     *tiles.Registry
	selection *selection.Controller
	aligner   *camera.Aligner

	listeners map[int]func(TileSelected)
	nextID    int
}

// Options configures a Globe.
type Options struct {
	Logger     *zap.Logger
	Palette    []tiles.Color
	SpeedCurve camera.SpeedCurve
	// Strategies overrides tessellate.New, mainly for tests.
	Strategies tiles.StrategyFactory
}

// New creates a globe driving orbit. Nothing is built until Apply.
func New(orbit camera.Orbit, opts Options) *Globe {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	g := &Globe{
		log: log,
		tiles: tiles.New(
			tiles.WithLogger(log.Named("tiles")),
			tiles.WithPalette(opts.Palette),
			tiles.WithStrategyFactory(opts.Strategies),
		),
		aligner:   camera.NewAligner(orbit, opts.SpeedCurve, log.Named("camera")),
		listeners: make(map[int]func(TileSelected)),
	}
	g.selection = selection.New(g.tiles.Count)
	g.selection.Subscribe(g.onSelection)
	return g
}

// Tiles returns the tile registry.
func (g *Globe) Tiles() *tiles.Registry {
	return g.tiles
}

// Selection returns the selection controller.
func (g *Globe) Selection() *selection.Controller {
	return g.selection
}

// Apply builds the tile set for key if it differs from the current one.
// A rebuild clears the selection before the next frame; a rejected key
// leaves both the tile set and the selection alone.
func (g *Globe) Apply(key tiles.Key) (changed bool, err error) {
	changed, err = g.tiles.Ensure(key)
	if changed {
		g.selection.Clear()
	}
	return changed, err
}

// Click toggles selection of the tile at render index i.
func (g *Globe) Click(i int) (selection.State, error) {
	return g.selection.Click(i)
}

// Frame runs per-frame camera bookkeeping and returns the applied speeds.
func (g *Globe) Frame() camera.Speeds {
	return g.aligner.Frame()
}

// OnTileSelected registers fn for selection events. The returned func
// unregisters it.
func (g *Globe) OnTileSelected(fn func(TileSelected)) (cancel func()) {
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	return func() {
		delete(g.listeners, id)
	}
}

// Dispose clears the selection and releases all tiles.
func (g *Globe) Dispose() {
	g.selection.Clear()
	g.tiles.Dispose()
}

func (g *Globe) onSelection(ch selection.Change) {
	if !ch.To.Selected {
		g.log.Debug("tile deselected", zap.Int("index", ch.From.Index))
		return
	}

	tile, err := g.tiles.Get(ch.To.Index)
	if err != nil {
		// Click already bounds-checked against Count.
		g.log.Error("selected tile missing", zap.Int("index", ch.To.Index), zap.Error(err))
		return
	}

	if _, ok := g.aligner.Align(tile.Center); !ok {
		g.log.Warn("cannot align camera", zap.Int("index", tile.Index))
	}

	ev := TileSelected{Index: tile.Index, ID: tile.ID, LatLng: tile.LatLng}
	g.log.Info("tile selected",
		zap.Uint64("id", uint64(ev.ID)),
		zap.Int("index", ev.Index),
		zap.Float64("lat", ev.LatLng.Lat),
		zap.Float64("lng", ev.LatLng.Lng),
	)
	for _, fn := range g.listeners {
		fn(ev)
	}
}

// IsConfigError reports whether err is a build configuration error.
func IsConfigError(err error) bool {
	var cfgErr *tessellate.ConfigError
	return errors.As(err, &cfgErr)
}
