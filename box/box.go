// Package box implements the integer rectangle arithmetic shared by every
// layout-facing component: views, outputs, layer surfaces and the cursor all
// speak in terms of box.Box.
package box

// Box is an axis-aligned integer rectangle, x/y at the top-left corner.
type Box struct {
	X, Y          int32
	Width, Height int32
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Right returns the x coordinate just past the box's right edge.
func (b Box) Right() int32 { return b.X + b.Width }

// Bottom returns the y coordinate just past the box's bottom edge.
func (b Box) Bottom() int32 { return b.Y + b.Height }

// Contains reports whether the point (x, y) lies within the box.
func (b Box) Contains(x, y int32) bool {
	return x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom()
}

// Intersect returns the overlapping region of a and b, and whether one
// exists. An empty intersection is reported as (Box{}, false).
func Intersect(a, b Box) (Box, bool) {
	x0 := max32(a.X, b.X)
	y0 := max32(a.Y, b.Y)
	x1 := min32(a.Right(), b.Right())
	y1 := min32(a.Bottom(), b.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Box{}, false
	}
	return Box{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Centered returns a box of the given size centered within outer.
func Centered(outer Box, width, height int32) Box {
	return Box{
		X:      outer.X + (outer.Width-width)/2,
		Y:      outer.Y + (outer.Height-height)/2,
		Width:  width,
		Height: height,
	}
}

// Shrink returns b reduced by n on every edge. A negative n grows it.
func (b Box) Shrink(n int32) Box {
	return Box{
		X:      b.X + n,
		Y:      b.Y + n,
		Width:  b.Width - 2*n,
		Height: b.Height - 2*n,
	}
}

// Clamp moves b so that it fully fits within bound, shrinking it only if it
// is already larger than bound. Used to keep floating/grabbed views on
// screen without resizing them.
func (b Box) Clamp(bound Box) Box {
	out := b
	if out.Width > bound.Width {
		out.Width = bound.Width
	}
	if out.Height > bound.Height {
		out.Height = bound.Height
	}
	if out.X < bound.X {
		out.X = bound.X
	}
	if out.Y < bound.Y {
		out.Y = bound.Y
	}
	if out.Right() > bound.Right() {
		out.X = bound.Right() - out.Width
	}
	if out.Bottom() > bound.Bottom() {
		out.Y = bound.Bottom() - out.Height
	}
	return out
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
