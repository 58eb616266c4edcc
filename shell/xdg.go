package shell

import "github.com/waytile/waytile/box"

// XDGHandlers mirrors the teacher's *Handlers-struct convention
// (proto.LayerSurfaceHandlers in the layer-shell client) for the events a
// backend delivers asynchronously once a real xdg-shell surface exists.
type XDGHandlers struct {
	// OnAckConfigure fires when the client has acknowledged serial.
	OnAckConfigure func(serial Serial)
	// OnClose fires when the client's xdg_toplevel requests a close.
	OnClose func()
}

// XDGSurface is a deterministic stand-in for a real xdg-shell toplevel,
// used by the simulated backend and tests. Every Configure call allocates
// the next serial; AckConfigure lets test code (or a future real backend
// adapter) deliver the client's acknowledgement.
type XDGSurface struct {
	appID       string
	constraints Constraints
	nextSerial  Serial
	activated   bool
	fullscreen  bool
	closed      bool

	handlers XDGHandlers
}

// NewXDGSurface constructs a simulated xdg-shell toplevel.
func NewXDGSurface(appID string, constraints Constraints, handlers XDGHandlers) *XDGSurface {
	return &XDGSurface{
		appID:       appID,
		constraints: constraints,
		handlers:    handlers,
	}
}

func (s *XDGSurface) Configure(b box.Box) Serial {
	s.nextSerial++
	return s.nextSerial
}

func (s *XDGSurface) Synchronous() bool { return false }

// AckConfigure simulates the client's xdg_surface.ack_configure request.
func (s *XDGSurface) AckConfigure(serial Serial) {
	if s.handlers.OnAckConfigure != nil {
		s.handlers.OnAckConfigure(serial)
	}
}

func (s *XDGSurface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.handlers.OnClose != nil {
		s.handlers.OnClose()
	}
}

func (s *XDGSurface) Constraints() Constraints { return s.constraints }
func (s *XDGSurface) SetActivated(a bool)      { s.activated = a }
func (s *XDGSurface) SetFullscreen(f bool)     { s.fullscreen = f }
func (s *XDGSurface) AppID() string            { return s.appID }

func (s *XDGSurface) SurfaceAt(x, y int32) bool { return true }
func (s *XDGSurface) ForEachSurface(visit func()) {
	visit()
}
