// Package view implements per-window compositor state: the current/pending/
// inflight geometry triple, size constraints, serial tracking and the
// handful of operations §4.2 of the specification assigns to a View. View
// never reaches back into its Output or Root; those hold *View and drive
// the cross-cutting parts of map/unmap (stack insertion, focus clearing,
// transaction scheduling) themselves, per the "arena+id, never own a
// back-reference" design note.
package view

import (
	"github.com/waytile/waytile/box"
	"github.com/waytile/waytile/shell"
)

// ID is a stable, non-owning handle to a View, used anywhere a cross-link
// would otherwise require a pointer cycle.
type ID uint64

// OutputID is a stable, non-owning handle to the Output a View is currently
// assigned to.
type OutputID uint64

// Snapshot is the value-semantic geometry triple every View carries three
// copies of (current, pending, inflight). It is cheap to copy by design: the
// transaction engine swaps these wholesale at commit.
type Snapshot struct {
	Box        box.Box
	Tags       uint32
	Float      bool
	Fullscreen bool
	FocusCount int
}

// View is one managed client window.
type View struct {
	id       ID
	outputID OutputID
	shell    shell.Surface

	current  Snapshot
	pending  Snapshot
	inflight Snapshot

	constraints shell.Constraints
	floatBox    box.Box

	pendingSerial    shell.Serial
	hasPendingSerial bool

	mapped bool
	closed bool
}

// New constructs a View attached to outputID, wired to surface s. tags must
// be non-zero (the caller is responsible for deriving it from the output's
// focused tags filtered by spawn_tagmask before calling New).
func New(id ID, outputID OutputID, s shell.Surface, tags uint32) *View {
	if tags == 0 {
		tags = 1
	}
	v := &View{
		id:          id,
		outputID:    outputID,
		shell:       s,
		constraints: s.Constraints(),
	}
	snap := Snapshot{Tags: tags}
	v.current, v.pending, v.inflight = snap, snap, snap
	return v
}

func (v *View) ID() ID                 { return v.id }
func (v *View) OutputID() OutputID     { return v.outputID }
func (v *View) SetOutputID(o OutputID) { v.outputID = o }
func (v *View) Shell() shell.Surface   { return v.shell }
func (v *View) AppID() string          { return v.shell.AppID() }
func (v *View) Mapped() bool           { return v.mapped }
func (v *View) Closed() bool           { return v.closed }

func (v *View) Current() Snapshot  { return v.current }
func (v *View) Pending() Snapshot  { return v.pending }
func (v *View) Inflight() Snapshot { return v.inflight }

// CurrentTags implements viewstack.Tagged.
func (v *View) CurrentTags() uint32 { return v.current.Tags }

// PendingTagsOrCurrent implements viewstack.Tagged.
func (v *View) PendingTagsOrCurrent() uint32 {
	if v.mapped {
		return v.pending.Tags
	}
	return v.current.Tags
}

// SetPendingBox overwrites pending.Box directly, used by Output.ArrangeViews
// once a geometry has been decided (fullscreen/float directly, tiled once
// the bound layout client's demand commits).
func (v *View) SetPendingBox(b box.Box) { v.pending.Box = b }

// FloatBox returns the remembered floating geometry.
func (v *View) FloatBox() box.Box { return v.floatBox }

// SetFloatBox overwrites the remembered floating geometry, e.g. after a
// move/resize grab ends.
func (v *View) SetFloatBox(b box.Box) { v.floatBox = b }

// Map performs the mapped-phase state setup described in §3's Lifecycle:
// tags (already filtered by spawn_tagmask by the caller) and an initial
// float_box centered in the output's usable area. Views map tiled by
// default (float_box is only remembered, not applied) so a bound layout
// client's arrangement takes over immediately; SetFloat(true) is what
// actually switches a view to floating. It does not touch any ViewStack
// or transaction; Output.MapView does that around this call.
func (v *View) Map(tags uint32, naturalBox box.Box) {
	if tags == 0 {
		tags = v.pending.Tags
	}
	v.mapped = true
	v.floatBox = naturalBox
	v.pending.Tags = tags
	v.pending.Box = naturalBox
}

// Unmap clears the mapped flag. The caller (Output.UnmapView) is
// responsible for removing the node from the ViewStack and for asking Root
// to clear this view from every seat's focus target.
func (v *View) Unmap() {
	v.mapped = false
}

// SetTags overwrites pending.Tags unless doing so would zero it, per the
// "every view has at least one tag" invariant. Reports whether the change
// was applied.
func (v *View) SetTags(tags uint32) bool {
	if tags == 0 {
		return false
	}
	v.pending.Tags = tags
	return true
}

// ToggleTags XORs mask into pending.Tags unless the result would be zero.
// Reports whether the change was applied.
func (v *View) ToggleTags(mask uint32) bool {
	return v.SetTags(v.pending.Tags ^ mask)
}

// SetFloat updates pending.Float.
func (v *View) SetFloat(float bool) {
	v.pending.Float = float
	if float {
		v.pending.Box = v.floatBox
	}
}

// SetFullscreen updates pending.Fullscreen and forwards it to the shell.
func (v *View) SetFullscreen(fullscreen bool) {
	v.pending.Fullscreen = fullscreen
	v.shell.SetFullscreen(fullscreen)
}

// SetActivated forwards activation state to the shell; it is not part of
// any snapshot.
func (v *View) SetActivated(active bool) {
	v.shell.SetActivated(active)
}

// IncFocus/DecFocus maintain pending.FocusCount as seats focus/unfocus this
// view.
func (v *View) IncFocus() { v.pending.FocusCount++ }
func (v *View) DecFocus() {
	if v.pending.FocusCount > 0 {
		v.pending.FocusCount--
	}
}

// ApplyPending copies the chosen pending fields (tags/float/fullscreen,
// and focus count) into current, as described in §4.2. Callers that
// change one of those pending fields (control's tag/float/fullscreen
// commands) call this immediately afterwards so current reflects the
// change without waiting on a box transaction, and use the returned
// changed to decide whether an arrangement is actually warranted. It does
// not touch Box; Box only moves current<-pending at transaction commit.
func (v *View) ApplyPending() (changed bool) {
	if v.current.Tags != v.pending.Tags ||
		v.current.Float != v.pending.Float ||
		v.current.Fullscreen != v.pending.Fullscreen {
		changed = true
	}
	v.current.Tags = v.pending.Tags
	v.current.Float = v.pending.Float
	v.current.Fullscreen = v.pending.Fullscreen
	v.current.FocusCount = v.pending.FocusCount
	return changed
}

// ApplyConstraints clamps pending.Box.{Width,Height} into [min, max].
func (v *View) ApplyConstraints() {
	w, h := v.constraints.Clamp(v.pending.Box.Width, v.pending.Box.Height)
	v.pending.Box.Width = w
	v.pending.Box.Height = h
}

// NeedsConfigure reports whether pending.Box differs from what the client
// currently believes (inflight.Box while a configure is outstanding, else
// current.Box).
func (v *View) NeedsConfigure() bool {
	believed := v.current.Box
	if v.hasPendingSerial {
		believed = v.inflight.Box
	}
	return believed != v.pending.Box
}

// Configure instructs the client to take pending.Box and records the
// resulting serial (absent/sentinel for synchronous shells). It returns
// immediately; the caller (Root) decides whether to wait for an
// acknowledgement based on Shell().Synchronous().
func (v *View) Configure() shell.Serial {
	v.ApplyConstraints()
	serial := v.shell.Configure(v.pending.Box)
	v.inflight = v.pending
	if v.shell.Synchronous() {
		v.hasPendingSerial = false
		return serial
	}
	v.pendingSerial = serial
	v.hasPendingSerial = true
	return serial
}

// PendingSerial returns the outstanding configure serial and whether one is
// set, per the View invariant in §3.
func (v *View) PendingSerial() (shell.Serial, bool) {
	return v.pendingSerial, v.hasPendingSerial
}

// AckConfigure clears pending_serial if serial matches the outstanding one.
// A mismatched serial is a protocol-level inconsistency the caller should
// log and ignore (§4.2 Failure), so it reports whether serial matched.
func (v *View) AckConfigure(serial shell.Serial) bool {
	if !v.hasPendingSerial || serial != v.pendingSerial {
		return false
	}
	v.hasPendingSerial = false
	return true
}

// ForceAcked clears pending_serial unconditionally: used by the transaction
// engine's deadline path and when a view closes mid-transaction.
func (v *View) ForceAcked() {
	v.hasPendingSerial = false
}

// Commit copies pending into current and clears pending_serial, the atomic
// per-view half of a transaction commit.
func (v *View) Commit() {
	v.current = v.pending
	v.hasPendingSerial = false
}

// Close asks the client to close. The eventual unmap is observed later via
// the backend's own unmap notification.
func (v *View) Close() {
	v.shell.Close()
}
