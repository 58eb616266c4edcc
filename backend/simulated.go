package backend

import (
	"github.com/waytile/waytile/box"
	"github.com/waytile/waytile/cursor"
	"github.com/waytile/waytile/input"
	"github.com/waytile/waytile/logging"
	"github.com/waytile/waytile/output"
	"github.com/waytile/waytile/root"
	"github.com/waytile/waytile/seat"
	"github.com/waytile/waytile/shell"
	"github.com/waytile/waytile/view"
	"github.com/waytile/waytile/viewstack"
)

// Simulated is a deterministic stand-in compositor backend: it drives
// Root/Output/Seat/Cursor the way a real Wayland/DRM backend would, but
// every shell surface is one of shell's own XDGSurface/X11Surface
// simulators instead of a real wl_surface. cmd/waytiled-sim and the test
// suite use it to exercise the whole core without any real display
// server.
type Simulated struct {
	log *logging.Logger

	Root  *root.Root
	Input *input.Manager

	nextViewID view.ID
}

// NewSimulated constructs a Simulated backend with Root on the real
// time.AfterFunc deadline timer (root.RealScheduler) and a commit callback
// that only logs, plus one "default" seat.
func NewSimulated() *Simulated {
	s := &Simulated{log: logging.New("backend:sim")}
	s.Root = root.New(root.RealScheduler, func() { s.log.Infof("transaction committed") })

	sea := seat.New("default")
	cur := cursor.New(nil)
	cursor.SetArranger(func(o *output.Output) { s.Root.Arrange() })
	s.Input = input.New(sea, cur)
	return s
}

// AddOutput registers a new output of the given physical size.
func (s *Simulated) AddOutput(id output.ID, full box.Box) *output.Output {
	o := output.New(id, full)
	o.ArrangeLayers()
	s.Root.AddOutput(o)
	return o
}

// SpawnView creates a new mapped view on o, backed by a simulated xdg
// (async is true) or x11-override-redirect (async is false) shell, and
// requests an arrangement.
func (s *Simulated) SpawnView(o *output.Output, appID string, async bool, natural box.Box) *view.View {
	s.nextViewID++
	id := s.nextViewID

	var surf shell.Surface
	if async {
		surf = shell.NewXDGSurface(appID, shell.Constraints{}, shell.XDGHandlers{
			OnAckConfigure: func(serial shell.Serial) { s.Root.NotifyConfigured(id, uint32(serial)) },
			OnClose:        func() { s.CloseView(o, id) },
		})
	} else {
		surf = shell.NewX11Surface(appID, shell.Constraints{}, shell.X11Handlers{
			OnClose: func() { s.CloseView(o, id) },
		})
	}

	v := view.New(id, view.OutputID(o.ID()), surf, 0)
	o.MapView(v, viewstack.AttachTop, natural)
	s.Root.RegisterView(v)
	s.Input.Seat().FocusView(o, v, 0)
	return v
}

// CloseView handles the view with the given id having closed: it clears
// the seat's focus on it and unregisters it from Root, which removes it
// from o's stack. The shell's OnClose handler calls it. It does not ask
// the client to close (view.Close does), and a second call for the same id
// finds no view and does nothing.
func (s *Simulated) CloseView(o *output.Output, id view.ID) {
	for n := range o.Views().Iterator(nil, 0xFFFFFFFF) {
		if n.Value.ID() == id {
			s.Input.Seat().ClearFocusOn(n.Value)
			s.Root.UnregisterView(o, n.Value)
			return
		}
	}
}
