// Package selection tracks which globe tile, if any, is selected.
package selection

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned by Click for indexes outside the tile range.
var ErrOutOfRange = errors.New("selection index out of range")

// State is the controller state: Unselected, or Selected(Index).
type State struct {
	Index    int
	Selected bool
}

// Unselected is the empty state.
var Unselected = State{Index: -1}

// String implements fmt.Stringer.
func (s State) String() string {
	if !s.Selected {
		return "Unselected"
	}
	return fmt.Sprintf("Selected(%d)", s.Index)
}

// Change describes one transition.
type Change struct {
	From State
	To   State
}

// Variant is the mesh shown for a tile.
type Variant int

const (
	VariantFlat Variant = iota
	VariantExtruded
)

func (v Variant) String() string {
	if v == VariantExtruded {
		return "extruded"
	}
	return "flat"
}

// CullFace selects which triangle side the renderer discards.
type CullFace int

const (
	CullBack CullFace = iota
	CullFront
	CullNone // double-sided
)

// Material describes how a tile is drawn.
type Material struct {
	Opacity  float32
	Cull     CullFace
	Selected bool
}

// Materials used for selected and unselected tiles.
var (
	SelectedMaterial   = Material{Opacity: 1.0, Cull: CullBack, Selected: true}
	UnselectedMaterial = Material{Opacity: 0.55, Cull: CullNone}
)

// Controller is a single-slot selection state machine. It is not safe
// for concurrent use.
type Controller struct {
	count func() int
	state State

	listeners map[int]func(Change)
	nextID    int
}

// New creates an Unselected controller. count returns the current number
// of selectable tiles and bounds every Click.
func New(count func() int) *Controller {
	return &Controller{
		count:     count,
		state:     Unselected,
		listeners: make(map[int]func(Change)),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Selected returns the selected index.
func (c *Controller) Selected() (int, bool) {
	return c.state.Index, c.state.Selected
}

// Click toggles i: Selected(i) becomes Unselected, anything else becomes
// Selected(i). An index outside [0, count) leaves the state unchanged.
func (c *Controller) Click(i int) (State, error) {
	if n := c.count(); i < 0 || i >= n {
		return c.state, fmt.Errorf("click %d of %d: %w", i, n, ErrOutOfRange)
	}

	next := State{Index: i, Selected: true}
	if c.state.Selected && c.state.Index == i {
		next = Unselected
	}
	c.transition(next)
	return c.state, nil
}

// Clear returns to Unselected. Used when the tile set is rebuilt.
func (c *Controller) Clear() {
	if c.state.Selected {
		c.transition(Unselected)
	}
}

// Variant returns the mesh variant to draw for tile i.
func (c *Controller) Variant(i int) Variant {
	if c.state.Selected && c.state.Index == i {
		return VariantExtruded
	}
	return VariantFlat
}

// Material returns the material to draw tile i with.
func (c *Controller) Material(i int) Material {
	if c.state.Selected && c.state.Index == i {
		return SelectedMaterial
	}
	return UnselectedMaterial
}

// Subscribe registers fn for every transition. The returned func
// unregisters it.
func (c *Controller) Subscribe(fn func(Change)) (cancel func()) {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

func (c *Controller) transition(next State) {
	change := Change{From: c.state, To: next}
	c.state = next
	for _, fn := range c.listeners {
		fn(change)
	}
}
