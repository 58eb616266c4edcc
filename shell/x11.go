package shell

import "github.com/waytile/waytile/box"

// X11Handlers mirrors XDGHandlers for Xwayland override-redirect windows,
// which have no ack-configure request at all.
type X11Handlers struct {
	OnClose func()
}

// X11Surface is a deterministic stand-in for an Xwayland override-redirect
// window: it has no acknowledgement handshake, so Synchronous reports true
// and the transaction engine treats Configure as instantly settled.
type X11Surface struct {
	appID       string
	constraints Constraints
	activated   bool
	fullscreen  bool
	closed      bool

	handlers X11Handlers
}

func NewX11Surface(appID string, constraints Constraints, handlers X11Handlers) *X11Surface {
	return &X11Surface{appID: appID, constraints: constraints, handlers: handlers}
}

func (s *X11Surface) Configure(b box.Box) Serial { return 0 }
func (s *X11Surface) Synchronous() bool          { return true }

func (s *X11Surface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.handlers.OnClose != nil {
		s.handlers.OnClose()
	}
}

func (s *X11Surface) Constraints() Constraints { return s.constraints }
func (s *X11Surface) SetActivated(a bool)      { s.activated = a }
func (s *X11Surface) SetFullscreen(f bool)     { s.fullscreen = f }
func (s *X11Surface) AppID() string            { return s.appID }

func (s *X11Surface) SurfaceAt(x, y int32) bool   { return true }
func (s *X11Surface) ForEachSurface(visit func()) { visit() }
