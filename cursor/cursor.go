// Package cursor implements §4.7: the passthrough/move/resize pointer
// state machine, hit-testing, and loading the on-screen cursor image from
// an XCursor theme.
package cursor

import (
	"github.com/waytile/waytile/box"
	"github.com/waytile/waytile/output"
	"github.com/waytile/waytile/shell"
	"github.com/waytile/waytile/view"
)

// Mode is the cursor's current grab state.
type Mode int

const (
	ModePassthrough Mode = iota
	ModeMove
	ModeResize
)

// Button mirrors the three buttons §4.7 gives meaning to while the
// pointer modifier is held; anything else passes through to the client.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Hit is the result of hit-testing: the surface under the cursor (if any)
// and the view it belongs to, when the surface is a mapped view rather
// than a layer surface.
type Hit struct {
	Surface shell.Surface
	View    *view.View
	Found   bool
}

// Cursor is the single pointer shared by every input device on a seat
// (§5's "shared resources").
type Cursor struct {
	mode Mode

	x, y float64

	pressedCount int

	grabView       *view.View
	resizeXOffset  int32
	resizeYOffset  int32
	resizeOrigin   box.Box

	pointerFocus shell.Surface
	theme        *Theme

	overlay, top, bottom, background LayerHitTester
}

// New constructs a passthrough-mode cursor positioned at the origin.
func New(theme *Theme) *Cursor {
	return &Cursor{theme: theme}
}

// SetLayerHitTesters wires the backend's per-layer hit-testing callbacks
// into HitTest's overlay/top/bottom/background stages; any may be nil.
func (c *Cursor) SetLayerHitTesters(overlay, top, bottom, background LayerHitTester) {
	c.overlay, c.top, c.bottom, c.background = overlay, top, bottom, background
}

func (c *Cursor) Mode() Mode           { return c.mode }
func (c *Cursor) Position() (x, y float64) { return c.x, c.y }
func (c *Cursor) PressedCount() int    { return c.pressedCount }

// Press records a button going down and, on the first of a possibly
// multi-button press, decides whether to start a move/resize grab or
// close the hit view, per §4.7's transition table. modifierHeld is the
// backend's report of whether the configured pointer modifier is active.
func (c *Cursor) Press(o *output.Output, btn Button, modifierHeld bool) {
	c.pressedCount++
	if c.pressedCount != 1 || c.mode != ModePassthrough {
		return
	}
	hit := c.HitTest(o)
	if !hit.Found || hit.View == nil || !modifierHeld {
		return
	}
	if hit.View.Pending().Fullscreen {
		return
	}
	switch btn {
	case ButtonLeft:
		c.beginMove(o, hit.View)
	case ButtonRight:
		c.beginResize(o, hit.View)
	case ButtonMiddle:
		hit.View.Close()
	}
}

// Release records a button going up; once every button is up and the
// cursor is not in passthrough, the grab ends and hit-testing re-runs at
// the current position (§4.7).
func (c *Cursor) Release(o *output.Output) {
	if c.pressedCount > 0 {
		c.pressedCount--
	}
	if c.pressedCount == 0 && c.mode != ModePassthrough {
		c.mode = ModePassthrough
		c.grabView = nil
		c.Motion(o, c.x, c.y, 0, 0)
	}
}

func (c *Cursor) beginMove(o *output.Output, v *view.View) {
	c.mode = ModeMove
	c.grabView = v
	v.SetFloat(true)
	requestArrange(o)
}

func (c *Cursor) beginResize(o *output.Output, v *view.View) {
	c.mode = ModeResize
	c.grabView = v
	v.SetFloat(true)
	b := v.Pending().Box
	c.resizeOrigin = b
	c.resizeXOffset = int32(c.x) - b.Right()
	c.resizeYOffset = int32(c.y) - b.Bottom()
	requestArrange(o)
}

// requestArrange is a hook point: the real compositor wires this to
// root.Root.Arrange via a closure set at seat/backend construction time,
// since cursor intentionally never imports root (no cycle back through
// the view/output graph it already touches).
var requestArrange = func(o *output.Output) {}

// SetArranger lets the composition root wire grab-triggered arrangement
// requests back to root.Root.Arrange without cursor importing root.
func SetArranger(f func(o *output.Output)) { requestArrange = f }

// Motion advances the cursor by (dx, dy) and runs the mode-specific
// behavior described in §4.7.
func (c *Cursor) Motion(o *output.Output, x, y, dx, dy float64) {
	c.x, c.y = x, y

	switch c.mode {
	case ModePassthrough:
		c.motionPassthrough(o)
	case ModeMove:
		c.motionMove(o, dx, dy)
	case ModeResize:
		c.motionResize(o, dx, dy)
	}
}

func (c *Cursor) motionPassthrough(o *output.Output) {
	hit := c.HitTest(o)
	if !hit.Found {
		c.pointerFocus = nil
		return
	}
	c.pointerFocus = hit.Surface
}

// motionMove translates the grabbed view's pending box, clamped so it stays
// inside the output's usable area; no margin is reserved for a border. No
// configure is sent since size is unchanged. Only pending.Box moves here:
// current is not updated and picks up the new position at the next
// transaction commit.
func (c *Cursor) motionMove(o *output.Output, dx, dy float64) {
	v := c.grabView
	if v == nil {
		return
	}
	b := v.Pending().Box
	b.X += int32(dx)
	b.Y += int32(dy)
	b = b.Clamp(o.Usable())
	v.SetPendingBox(b)
}

// motionResize adjusts the grabbed view's size by (dx, dy), clamps via the
// view's own constraints and the output edges, issues a configure if the
// clamped size differs from what the client currently believes, and warps
// the cursor to preserve the grabbed-corner offset (§4.7).
func (c *Cursor) motionResize(o *output.Output, dx, dy float64) {
	v := c.grabView
	if v == nil {
		return
	}
	b := v.Pending().Box
	b.Width += int32(dx)
	b.Height += int32(dy)
	v.SetPendingBox(b)
	v.ApplyConstraints()
	b = v.Pending().Box
	b = b.Clamp(o.Usable())
	v.SetPendingBox(b)

	if v.NeedsConfigure() {
		v.Configure()
	}
	c.x = float64(b.Right() + c.resizeXOffset)
	c.y = float64(b.Bottom() + c.resizeYOffset)
}

// LayerHitTester is the backend-supplied capability for hit-testing a
// layer's surfaces (including their popups); the simulated core has no
// layer-shell clients, so callers may pass nil for layers with nothing to
// test.
type LayerHitTester func(x, y int32) (shell.Surface, bool)

// HitTest implements §4.7's hit-testing order: overlay, top, views
// (focused first, then iteration order over current.tags), bottom,
// background. "Focused first" falls out of iteration order alone, since
// Seat.FocusView always raises the focused view to the front of the
// stack; this stage never needs to special-case it.
func (c *Cursor) HitTest(o *output.Output) Hit {
	ix, iy := int32(c.x), int32(c.y)

	for _, tester := range []LayerHitTester{c.overlay, c.top} {
		if tester == nil {
			continue
		}
		if s, ok := tester(ix, iy); ok {
			return Hit{Surface: s, Found: true}
		}
	}
	for n := range o.Views().Iterator(nil, o.Pending().Tags) {
		v := n.Value
		if surfaceAt(v, c.x, c.y) {
			return Hit{Surface: v.Shell(), View: v, Found: true}
		}
	}
	for _, tester := range []LayerHitTester{c.bottom, c.background} {
		if tester == nil {
			continue
		}
		if s, ok := tester(ix, iy); ok {
			return Hit{Surface: s, Found: true}
		}
	}
	return Hit{}
}

func surfaceAt(v *view.View, x, y float64) bool {
	b := v.Pending().Box
	if !b.Contains(int32(x), int32(y)) {
		return false
	}
	lx, ly := int32(x)-b.X, int32(y)-b.Y
	return v.Shell().SurfaceAt(lx, ly)
}
