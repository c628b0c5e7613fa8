package picking

// ClickFilter tells clicks from drags. A press and release count as a
// click only when the pointer stayed within Tolerance pixels of the press
// position; anything else is an orbit drag.
type ClickFilter struct {
	Tolerance int

	down         bool
	startX       int
	startY       int
	maxDeviation int
}

// Press records a button press at (x, y).
func (f *ClickFilter) Press(x, y int) {
	f.down = true
	f.startX, f.startY = x, y
	f.maxDeviation = 0
}

// Move records pointer motion while the button is held.
func (f *ClickFilter) Move(x, y int) {
	if !f.down {
		return
	}
	if d := chebyshev(x-f.startX, y-f.startY); d > f.maxDeviation {
		f.maxDeviation = d
	}
}

// Release ends the gesture and reports whether it was a click.
func (f *ClickFilter) Release(x, y int) bool {
	if !f.down {
		return false
	}
	f.Move(x, y)
	f.down = false
	return f.maxDeviation <= f.Tolerance
}

// Dragging reports whether the current press has moved past Tolerance.
func (f *ClickFilter) Dragging() bool {
	return f.down && f.maxDeviation > f.Tolerance
}

func chebyshev(dx, dy int) int {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}
