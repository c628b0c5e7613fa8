package globe

import (
	"errors"
	gomath "math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/hexglobe/internal/engine/camera"
	"github.com/Faultbox/hexglobe/internal/globe/selection"
	"github.com/Faultbox/hexglobe/internal/globe/sphere"
	"github.com/Faultbox/hexglobe/internal/globe/tessellate"
	"github.com/Faultbox/hexglobe/internal/globe/tiles"
)

// grid lays n small squares on a lat/lng lattice.
type grid struct{ n int }

func (g grid) Name() string { return "grid" }

func (g grid) Cells() ([]tessellate.TileID, error) {
	ids := make([]tessellate.TileID, g.n)
	for i := range ids {
		ids[i] = tessellate.TileID(i)
	}
	return ids, nil
}

func (g grid) Polygon(id tessellate.TileID) (tessellate.Polygon, error) {
	i := int(id)
	if i >= g.n {
		return tessellate.Polygon{}, tessellate.ErrUnknownTile
	}
	lat := -60 + float64(i%11)*12
	lng := -175 + float64(i/11)*30
	const d = 3.0
	return tessellate.Polygon{
		Ring: []sphere.LatLng{
			{Lat: lat - d, Lng: lng - d},
			{Lat: lat - d, Lng: lng + d},
			{Lat: lat + d, Lng: lng + d},
			{Lat: lat + d, Lng: lng - d},
		},
		Center: sphere.LatLng{Lat: lat, Lng: lng},
	}, nil
}

func gridKey() tiles.Key {
	return tiles.Key{Strategy: "grid", Radius: 2, LayerOffset: 1.002, Depth: 0.05, Shrink: 0.9}
}

func newGridGlobe(t *testing.T, n int, log *zap.Logger) (*Globe, *camera.OrbitCamera) {
	t.Helper()
	cam := camera.NewOrbitCamera()
	g := New(cam, Options{
		Logger:     log,
		SpeedCurve: camera.DefaultSpeedCurve,
		Strategies: func(tessellate.Options) (tessellate.Strategy, error) { return grid{n: n}, nil },
	})
	if _, err := g.Apply(gridKey()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return g, cam
}

func TestClickThirdOf122(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	g, cam := newGridGlobe(t, 122, zap.New(core))
	if g.Tiles().Count() != 122 {
		t.Fatalf("Count = %d, want 122", g.Tiles().Count())
	}

	cam.SetAzimuthalAngle(5 * gomath.Pi)
	before := cam.AzimuthalAngle()

	var events []TileSelected
	g.OnTileSelected(func(ev TileSelected) { events = append(events, ev) })

	state, err := g.Click(3)
	if err != nil || state != (selection.State{Index: 3, Selected: true}) {
		t.Fatalf("Click(3) = %v, %v", state, err)
	}

	sel := g.Selection()
	for i := range g.Tiles().Count() {
		want := selection.VariantFlat
		if i == 3 {
			want = selection.VariantExtruded
		}
		if got := sel.Variant(i); got != want {
			t.Fatalf("Variant(%d) = %v, want %v", i, got, want)
		}
	}

	tile, _ := g.Tiles().Get(3)
	az, _, _ := camera.TargetAngles(tile.Center)
	moved := cam.AzimuthalAngle() - before
	if gomath.Abs(moved) > gomath.Pi || gomath.Abs(moved-camera.AngleDelta(before, az)) > 1e-9 {
		t.Errorf("azimuth moved by %v, want shortest delta %v", moved, camera.AngleDelta(before, az))
	}

	if len(events) != 1 || events[0].Index != 3 || events[0].LatLng != tile.LatLng {
		t.Errorf("events = %+v", events)
	}
	entries := logs.FilterMessage("tile selected").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d selection events", len(entries))
	}
	if f := entries[0].ContextMap(); f["index"] != int64(3) || f["lat"] != tile.LatLng.Lat {
		t.Errorf("log fields = %v", f)
	}

	// Clicking again deselects without another event or camera move.
	after := cam.AzimuthalAngle()
	if s, _ := g.Click(3); s != selection.Unselected {
		t.Errorf("second Click(3) = %v", s)
	}
	if len(events) != 1 || cam.AzimuthalAngle() != after {
		t.Error("deselection published an event or moved the camera")
	}
}

func TestClickOutOfRangeKeepsCamera(t *testing.T) {
	g, cam := newGridGlobe(t, 10, nil)
	before := cam.AzimuthalAngle()
	if _, err := g.Click(10); !errors.Is(err, selection.ErrOutOfRange) {
		t.Errorf("Click(10) err = %v", err)
	}
	if cam.AzimuthalAngle() != before {
		t.Error("rejected click moved the camera")
	}
}

func TestApplyRebuildClearsSelection(t *testing.T) {
	g, _ := newGridGlobe(t, 20, nil)
	g.Click(5)

	if changed, err := g.Apply(gridKey()); err != nil || changed {
		t.Fatalf("Apply(same key) = %v, %v", changed, err)
	}
	if _, ok := g.Selection().Selected(); !ok {
		t.Error("same key cleared the selection")
	}

	bad := gridKey()
	bad.Depth = -1
	if _, err := g.Apply(bad); !IsConfigError(err) {
		t.Errorf("Apply(bad) err = %v, want config error", err)
	}
	if _, ok := g.Selection().Selected(); !ok {
		t.Error("rejected key cleared the selection")
	}

	next := gridKey()
	next.Shrink = 0.5
	if changed, err := g.Apply(next); err != nil || !changed {
		t.Fatalf("Apply(new key) = %v, %v", changed, err)
	}
	if g.Selection().State() != selection.Unselected {
		t.Errorf("state after rebuild = %v", g.Selection().State())
	}
}

func TestFrameScalesWithDistance(t *testing.T) {
	g, cam := newGridGlobe(t, 4, nil)

	cam.SetDistance(cam.MaxDistance)
	far := g.Frame()
	cam.SetDistance(cam.MinDistance)
	near := g.Frame()

	if near.Rotate >= far.Rotate {
		t.Errorf("speed near %v >= far %v", near.Rotate, far.Rotate)
	}
	if cam.RotateSpeed != near.Rotate || cam.ZoomSpeed != near.Zoom {
		t.Errorf("orbit speeds = %v, %v; want %+v", cam.RotateSpeed, cam.ZoomSpeed, near)
	}
}

func TestDispose(t *testing.T) {
	g, _ := newGridGlobe(t, 8, nil)
	g.Click(2)
	g.Dispose()

	if _, err := g.Tiles().Get(0); !errors.Is(err, tiles.ErrDisposed) {
		t.Errorf("Get(0) after Dispose err = %v", err)
	}
	if g.Selection().State() != selection.Unselected {
		t.Error("Dispose left a selection")
	}
	if _, err := g.Click(0); !errors.Is(err, selection.ErrOutOfRange) {
		t.Errorf("Click after Dispose err = %v", err)
	}
}
