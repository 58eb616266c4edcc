// Package shell defines the capability set the Root/Transaction engine uses
// to talk to a mapped client surface, regardless of whether it is backed by
// xdg-shell or an Xwayland override-redirect window. Per the design notes,
// this is static polymorphism over a small interface rather than a type
// switch sprinkled through the core: Root, View and Output only ever call
// through Surface.
//
// Concrete shell wire-ups (the real xdg-shell/Xwayland protocol handling)
// are out of scope for the compositor core; this package additionally ships
// two deterministic stand-ins (XDGSurface, X11Surface) used by the
// simulated backend and by tests, mirroring how the teacher package
// (wayland.WaylandWindow) wired layer-shell configure/ack events with
// plain handler callbacks.
package shell

import "github.com/waytile/waytile/box"

// Serial identifies one outstanding configure on a shell that acknowledges
// asynchronously (xdg-shell-like). It is meaningless for synchronous shells.
type Serial uint32

// Constraints bounds the size the compositor may configure a surface to.
type Constraints struct {
	MinWidth, MinHeight int32
	MaxWidth, MaxHeight int32
}

// Clamp fits width/height into the constraint bounds. A zero max means
// unbounded on that axis, matching xdg-shell's convention for
// min_size/max_size.
func (c Constraints) Clamp(width, height int32) (int32, int32) {
	if width < c.MinWidth {
		width = c.MinWidth
	}
	if c.MaxWidth > 0 && width > c.MaxWidth {
		width = c.MaxWidth
	}
	if height < c.MinHeight {
		height = c.MinHeight
	}
	if c.MaxHeight > 0 && height > c.MaxHeight {
		height = c.MaxHeight
	}
	return width, height
}

// Surface is the capability set a mapped view's backing client exposes to
// the compositor core.
type Surface interface {
	// Configure asks the client to take box b. For an asynchronously
	// acknowledging shell it returns the serial the client is expected to
	// ack via a later, out-of-band notifyConfigured call; Synchronous
	// shells return an unspecified serial that the caller must ignore.
	Configure(b box.Box) Serial

	// Synchronous reports whether this shell never acknowledges configures
	// (Xwayland override-redirect-style) and should be treated as already
	// configured the instant Configure returns.
	Synchronous() bool

	// Close asks the client to close. Eventual unmap is observed later,
	// asynchronously, through the backend's own unmap event.
	Close()

	Constraints() Constraints
	SetActivated(active bool)
	SetFullscreen(fullscreen bool)

	// AppID is the client-reported application identifier, or "" if the
	// client never set one.
	AppID() string

	// SurfaceAt hit-tests this surface and its popups/subsurfaces at the
	// point (x, y), relative to the view's top-left corner.
	SurfaceAt(x, y int32) bool

	// ForEachSurface visits this surface and every popup/subsurface it
	// owns, used when the backend needs to address each wl_surface
	// individually (e.g. to send a frame callback).
	ForEachSurface(visit func())
}
