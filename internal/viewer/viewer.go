// Package viewer implements the interactive globe window and its main loop.
package viewer

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/hexglobe/internal/config"
	"github.com/Faultbox/hexglobe/internal/engine/camera"
	"github.com/Faultbox/hexglobe/internal/engine/input"
	"github.com/Faultbox/hexglobe/internal/engine/lighting"
	"github.com/Faultbox/hexglobe/internal/engine/picking"
	"github.com/Faultbox/hexglobe/internal/engine/renderer"
	"github.com/Faultbox/hexglobe/internal/engine/screenshot"
	"github.com/Faultbox/hexglobe/internal/engine/window"
	"github.com/Faultbox/hexglobe/internal/globe"
	"github.com/Faultbox/hexglobe/internal/globe/mesh"
	"github.com/Faultbox/hexglobe/internal/globe/tessellate"
	"github.com/Faultbox/hexglobe/internal/globe/tiles"
	"github.com/Faultbox/hexglobe/internal/logger"
	"github.com/Faultbox/hexglobe/pkg/math"
)

const (
	title = "HexGlobe"

	fovY      = 45 * gomath.Pi / 180
	nearPlane = 0.1
	farPlane  = 100

	clickTolerance = 4 // pixels
)

var sphereColor = tiles.RGB(0xb5, 0x52, 0x39)

// Viewer is the main viewer instance.
type Viewer struct {
	config  *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	globeGL  *renderer.GlobeRenderer
	input    *input.Input

	camera *camera.OrbitCamera
	globe  *globe.Globe
	click  picking.ClickFilter
	sun    lighting.Sun
	shots  *screenshot.Capture

	viewProj       math.Mat4
	wantScreenshot bool
}

// New creates the window, GL state and globe, and builds the first tile set.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		config: cfg,
		log:    logger.Named("viewer"),
		click:  picking.ClickFilter{Tolerance: clickTolerance},
		sun:    cfg.Sun(),
		shots:  screenshot.New(cfg.Graphics.ScreenshotDir, "hexglobe"),
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("strategy", cfg.Globe.Strategy),
	)

	palette, err := cfg.TilePalette()
	if err != nil {
		return nil, err
	}

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	dw, dh := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:  dw,
		Height: dh,
		MSAA:   cfg.Graphics.MSAA > 0,
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.camera = cfg.Orbit()
	v.globe = globe.New(v.camera, globe.Options{
		Logger:     logger.Named("globe"),
		Palette:    palette,
		SpeedCurve: cfg.SpeedCurve(),
	})
	v.globe.OnTileSelected(v.onTileSelected)

	key := cfg.TileKey()
	v.globeGL, err = renderer.NewGlobeRenderer(v.globe.Tiles(), mesh.BuildSphere(key.Radius, 64, 128), sphereColor)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create globe renderer: %w", err)
	}

	if err := v.apply(key); err != nil {
		v.Close()
		return nil, err
	}

	v.input = input.New()

	v.log.Info("viewer initialized")
	return v, nil
}

func (v *Viewer) apply(key tiles.Key) error {
	if _, err := v.globe.Apply(key); err != nil {
		return fmt.Errorf("build tiles: %w", err)
	}
	r := v.globe.Tiles().LastReport()
	if r.Skipped != nil {
		v.log.Warn("tiles skipped",
			zap.Int("skipped", r.SkippedCount()),
			zap.Error(r.Skipped),
		)
	}
	v.window.SetTitle(fmt.Sprintf("%s - %s, %d tiles", title, key.Strategy, r.Built))
	return nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if limit := v.config.Graphics.FPSLimit; limit > 0 && !v.config.Graphics.VSync {
		frameBudget = time.Second / time.Duration(limit)
	}

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			if err := v.handle(event); err != nil {
				return err
			}
		}

		// 2. Update globe and camera
		v.globe.Frame()
		v.camera.Update()

		// 3. Render
		v.render()

		// 4. Present (swap buffers)
		v.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spent := time.Since(now); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}
	}

	return nil
}

func (v *Viewer) handle(event input.Event) error {
	switch event.Type {
	case input.EventWindowResize:
		v.renderer.Resize(v.window.DrawableSize())

	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			v.running = false
		case sdl.SCANCODE_TAB:
			return v.toggleStrategy()
		case sdl.SCANCODE_F12:
			v.wantScreenshot = true
		}

	case input.EventMouseDown:
		if event.Button == sdl.BUTTON_LEFT {
			v.click.Press(event.MouseX, event.MouseY)
		}

	case input.EventMouseMove:
		if event.Held {
			v.click.Move(event.MouseX, event.MouseY)
			if v.click.Dragging() {
				v.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}
		}

	case input.EventMouseUp:
		if event.Button == sdl.BUTTON_LEFT && v.click.Release(event.MouseX, event.MouseY) {
			v.pick(event.MouseX, event.MouseY)
		}

	case input.EventMouseWheel:
		v.camera.HandleZoom(event.Wheel)
	}
	return nil
}

// pick selects the tile under window point (x, y).
func (v *Viewer) pick(x, y int) {
	w, h := v.window.GetSize()
	if w == 0 || h == 0 {
		return
	}

	key := v.globe.Tiles().Key()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), v.viewProj.Inverse())
	i, ok := picking.PickTile(ray, key.Radius*key.LayerOffset, v.globe.Tiles())
	if !ok {
		v.log.Debug("click missed the globe", zap.Int("x", x), zap.Int("y", y))
		return
	}
	if _, err := v.globe.Click(i); err != nil {
		v.log.Warn("click rejected", zap.Int("index", i), zap.Error(err))
	}
}

// toggleStrategy rebuilds the globe with the other tessellation.
func (v *Viewer) toggleStrategy() error {
	key := v.globe.Tiles().Key()
	if key.Strategy == tessellate.StrategyHierarchical {
		key.Strategy = tessellate.StrategyLatitudeBand
	} else {
		key.Strategy = tessellate.StrategyHierarchical
	}
	v.log.Info("switching strategy", zap.String("strategy", key.Strategy))
	return v.apply(key)
}

func (v *Viewer) onTileSelected(ev globe.TileSelected) {
	v.window.SetTitle(fmt.Sprintf("%s - tile %d (%.2f, %.2f)", title, ev.Index, ev.LatLng.Lat, ev.LatLng.Lng))
}

// render draws the current frame.
func (v *Viewer) render() {
	proj := math.Perspective(fovY, v.renderer.Aspect(), nearPlane, farPlane)
	v.viewProj = proj.Mul(v.camera.ViewMatrix())

	v.globeGL.Sync(v.globe.Tiles(), v.globe.Selection())

	v.renderer.Begin()
	v.globeGL.Render(v.viewProj, v.camera.Position(), v.sun, v.globe.Selection())
	v.renderer.End()

	if v.wantScreenshot {
		v.wantScreenshot = false
		v.captureScreenshot()
	}
}

// captureScreenshot saves the frame just rendered, before it is presented.
func (v *Viewer) captureScreenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.Save(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.globe != nil {
		v.globe.Dispose()
	}
	if v.globeGL != nil {
		v.globeGL.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
