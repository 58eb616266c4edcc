// Package seat implements §4.6's focus state machine: a tagged-sum focus
// target, the locked mode used by input-inhibitors, and the symmetric
// activate/deactivate dance that keeps exactly one view focused.
package seat

import (
	"github.com/waytile/waytile/logging"
	"github.com/waytile/waytile/output"
	"github.com/waytile/waytile/view"
)

// Mode is the seat's input mode. ModeNormal is the only unlocked mode; an
// active input-inhibitor switches every seat to ModeLocked (id 1, per
// §4.6) until it deactivates.
type Mode int

const (
	ModeNormal Mode = iota
	ModeLocked
)

// TargetKind distinguishes the tagged sum a focus target actually is.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetView
	TargetLayer
)

// FocusTarget is the tagged sum described in §4.6: none, a view, or a
// layer-shell surface (keyboard-interactive layer popups, notably).
type FocusTarget struct {
	Kind TargetKind
	View *view.View
}

// KeyboardSurface is the subset of keyboard-interactive behavior a layer
// surface needs for focus, kept separate from output.LayerSurface (which
// only covers exclusive-zone/configure) since not every layer surface
// accepts keyboard focus.
type KeyboardSurface interface {
	SetActivated(active bool)
}

// Seat is one logical input seat ("default", per §4.8 — the compositor
// never creates a second one, but nothing here assumes that).
type Seat struct {
	name string
	log  *logging.Logger

	mode          Mode
	previousMode  Mode
	focus         FocusTarget
	inhibitingOwner uintptr
	inhibited     bool

	lastFocused map[output.ID]*view.View
}

// New constructs a seat named name ("default" in practice).
func New(name string) *Seat {
	return &Seat{
		name:        name,
		log:         logging.New("seat:" + name),
		lastFocused: make(map[output.ID]*view.View),
	}
}

func (s *Seat) Mode() Mode           { return s.mode }
func (s *Seat) Focused() FocusTarget { return s.focus }

// Inhibited reports whether an input-inhibitor currently owns this seat.
func (s *Seat) Inhibited() bool { return s.inhibited }

// ActivateInhibitor locks the seat to owner: focus is cleared and the mode
// becomes ModeLocked, per §4.6. Calling it again with a different owner
// while already inhibited is a no-op; the first inhibitor wins.
func (s *Seat) ActivateInhibitor(owner uintptr) {
	if s.inhibited {
		return
	}
	s.inhibited = true
	s.inhibitingOwner = owner
	s.previousMode = s.mode
	s.mode = ModeLocked
	s.clearFocus()
}

// DeactivateInhibitor restores the previous mode and re-runs focus
// selection via FocusBest, per §4.6's "focus(null)" on deactivation.
func (s *Seat) DeactivateInhibitor(owner uintptr, o *output.Output) {
	if !s.inhibited || s.inhibitingOwner != owner {
		return
	}
	s.inhibited = false
	s.mode = s.previousMode
	if o != nil {
		o.ArrangeLayers()
		s.FocusBest(o)
	}
}

// AllowsFocus reports whether surfaceOwner (a client identity; the backend
// decides what identifies "owner", e.g. a wl_client pointer) may receive
// focus under the current inhibitor gate.
func (s *Seat) AllowsFocus(surfaceOwner uintptr) bool {
	if !s.inhibited {
		return true
	}
	return surfaceOwner == s.inhibitingOwner
}

func (s *Seat) clearFocus() {
	if s.focus.Kind == TargetView && s.focus.View != nil {
		s.focus.View.SetActivated(false)
		s.focus.View.DecFocus()
	}
	s.focus = FocusTarget{}
}

// FocusView raises v to the top of o's ViewStack focused render order,
// activates it, and deactivates whatever was focused before (§4.6). It is
// a no-op if v is nil or the inhibitor gate rejects it.
func (s *Seat) FocusView(o *output.Output, v *view.View, owner uintptr) {
	if v == nil {
		return
	}
	if !s.AllowsFocus(owner) {
		return
	}
	if s.focus.Kind == TargetView && s.focus.View == v {
		return
	}
	s.clearFocus()

	s.raiseToTop(o, v)

	v.SetActivated(true)
	v.IncFocus()
	s.focus = FocusTarget{Kind: TargetView, View: v}
	s.lastFocused[o.ID()] = v
}

// raiseToTop moves v's node to the front of the stack by removing and
// re-attaching it; the ViewStack has no in-place "move to front" op, so
// this mirrors how a fresh Push would be done for an already-inserted
// node.
func (s *Seat) raiseToTop(o *output.Output, v *view.View) {
	stack := o.Views()
	for n := range stack.Iterator(nil, 0xFFFFFFFF) {
		if n.Value == v {
			stack.Remove(n)
			stack.Push(v)
			return
		}
	}
}

// ClearFocusOn clears the current focus target if it is v, e.g. when v
// unmaps. Used so Output/Root never need to reach into Seat's internals.
func (s *Seat) ClearFocusOn(v *view.View) {
	if s.focus.Kind == TargetView && s.focus.View == v {
		s.clearFocus()
	}
}

// FocusBest implements §4.6's focus(null): the most recently focused
// still-visible view on o, else no focus at all.
func (s *Seat) FocusBest(o *output.Output) {
	if s.inhibited {
		return
	}
	if last := s.lastFocused[o.ID()]; last != nil && last.Mapped() {
		if last.PendingTagsOrCurrent()&o.Pending().Tags != 0 {
			s.FocusView(o, last, 0)
			return
		}
	}
	for n := range o.Views().Iterator(nil, o.Pending().Tags) {
		s.FocusView(o, n.Value, 0)
		return
	}
	s.clearFocus()
}

// OnOutputTagsChanged is the seat-aware half of Output.SetTags / ToggleTags: the
// invariant "at least one tag must always be focused per output" (§4.6)
// is already enforced at the Output level (zero is rejected); this just
// re-runs focus selection afterward since the visible view set changed.
func (s *Seat) OnOutputTagsChanged(o *output.Output) {
	if s.focus.Kind == TargetView && s.focus.View != nil {
		if s.focus.View.PendingTagsOrCurrent()&o.Pending().Tags != 0 {
			return
		}
	}
	s.FocusBest(o)
}
