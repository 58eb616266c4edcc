// Package root implements the global arrangement coordinator and the
// atomic, deadline-bounded transaction engine described in §4.4. Root owns
// every Output and every View (by stable id, never by back-reference),
// and is the only component allowed to drive a transaction from
// idle/collecting/configuring/awaiting/committing and back to idle.
package root

import (
	"time"

	"github.com/waytile/waytile/layout"
	"github.com/waytile/waytile/logging"
	"github.com/waytile/waytile/output"
	"github.com/waytile/waytile/shell"
	"github.com/waytile/waytile/view"
)

// Phase is one of the transaction engine's five states.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCollecting
	PhaseConfiguring
	PhaseAwaiting
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCollecting:
		return "collecting"
	case PhaseConfiguring:
		return "configuring"
	case PhaseAwaiting:
		return "awaiting"
	case PhaseCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// DefaultDeadline is the suggested commit_deadline from §4.4.
const DefaultDeadline = 200 * time.Millisecond

// Timer is the handle returned by Scheduler.AfterFunc, abstracted so tests
// can drive the deadline deterministically instead of sleeping.
type Timer interface {
	Stop() bool
}

// Scheduler abstracts the single suspension point the transaction engine
// needs: a timer callback for the commit deadline. A real backend wires
// this to its event loop's timer source; tests use a fake that fires only
// when told to.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealScheduler is the production Scheduler, backed by time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}

// Root coordinates every Output and View.
type Root struct {
	scheduler Scheduler
	deadline  time.Duration
	log       *logging.Logger

	outputs map[output.ID]*output.Output
	views   map[view.ID]*view.View
	registry *layout.Registry

	phase Phase

	pendingOutputs  int
	pendingRearrange bool

	awaiting map[view.ID]struct{}
	timer    Timer

	onCommit func()
}

// New constructs an empty Root. onCommit is called once per completed
// transaction, after every view's pending has been copied into current —
// the signal a backend uses to repaint.
func New(scheduler Scheduler, onCommit func()) *Root {
	if scheduler == nil {
		scheduler = RealScheduler
	}
	return &Root{
		scheduler: scheduler,
		deadline:  DefaultDeadline,
		log:       logging.New("root"),
		outputs:   make(map[output.ID]*output.Output),
		views:     make(map[view.ID]*view.View),
		registry:  layout.NewRegistry(),
		awaiting:  make(map[view.ID]struct{}),
		onCommit:  onCommit,
	}
}

// SetDeadline overrides DefaultDeadline, mostly for tests.
func (r *Root) SetDeadline(d time.Duration) { r.deadline = d }

func (r *Root) Registry() *layout.Registry { return r.registry }
func (r *Root) Phase() Phase                { return r.phase }

func (r *Root) AddOutput(o *output.Output) { r.outputs[o.ID()] = o }
func (r *Root) RemoveOutput(id output.ID)  { delete(r.outputs, id) }
func (r *Root) Output(id output.ID) (*output.Output, bool) {
	o, ok := r.outputs[id]
	return o, ok
}
func (r *Root) Outputs() map[output.ID]*output.Output { return r.outputs }

func (r *Root) trackView(v *view.View) { r.views[v.ID()] = v }
func (r *Root) untrackView(id view.ID) { delete(r.views, id) }

// Arrange is the Root half of mapping/unmapping/tag changes/focus changes:
// it requests a fresh arrangement, coalescing with any transaction already
// in flight per §4.4's "queued, exactly one fresh arrangement" rule.
func (r *Root) Arrange() {
	if r.phase != PhaseIdle {
		r.pendingRearrange = true
		return
	}
	r.arrangeNow()
}

func (r *Root) arrangeNow() {
	r.phase = PhaseCollecting
	r.pendingOutputs = len(r.outputs)
	if r.pendingOutputs == 0 {
		r.startTransaction()
		return
	}
	for _, o := range r.outputs {
		o.ArrangeLayers()
		o.ArrangeViews(r.outputSettled)
	}
}

func (r *Root) outputSettled() {
	r.pendingOutputs--
	if r.pendingOutputs <= 0 {
		r.startTransaction()
	}
}

// startTransaction calls configure() on every view whose pending.Box
// differs from what its client believes, registers pending serials for
// asynchronously-acking shells, and either commits immediately or arms the
// commit deadline (§4.4).
func (r *Root) startTransaction() {
	r.phase = PhaseConfiguring
	r.awaiting = make(map[view.ID]struct{})

	for id, v := range r.views {
		if !v.Mapped() || v.Closed() {
			continue
		}
		if !v.NeedsConfigure() {
			continue
		}
		v.Configure()
		if !v.Shell().Synchronous() {
			r.awaiting[id] = struct{}{}
		}
	}

	r.phase = PhaseAwaiting
	if len(r.awaiting) == 0 {
		r.commit()
		return
	}
	r.timer = r.scheduler.AfterFunc(r.deadline, r.onDeadline)
}

// NotifyConfigured is called when a client acknowledges serial for viewID
// (§4.4). An ack for a view not currently awaited, or with the wrong
// serial, is a stale/unexpected client state: logged and ignored (§7).
func (r *Root) NotifyConfigured(viewID view.ID, serial uint32) {
	if r.phase != PhaseAwaiting {
		return
	}
	v, ok := r.views[viewID]
	if !ok {
		return
	}
	if _, waiting := r.awaiting[viewID]; !waiting {
		r.log.Warnf("ack from view %d not part of the live transaction, ignoring", viewID)
		return
	}
	if !v.AckConfigure(shell.Serial(serial)) {
		r.log.Warnf("view %d acked unknown serial %d, ignoring", viewID, serial)
		return
	}
	delete(r.awaiting, viewID)
	if len(r.awaiting) == 0 {
		r.stopTimer()
		r.commit()
	}
}

// NotifyViewClosed handles a view closing mid-transaction: its pending
// serial is cleared and it is treated as acknowledged (§4.4).
func (r *Root) NotifyViewClosed(viewID view.ID) {
	if r.phase == PhaseAwaiting {
		if _, waiting := r.awaiting[viewID]; waiting {
			if v, ok := r.views[viewID]; ok {
				v.ForceAcked()
			}
			delete(r.awaiting, viewID)
			if len(r.awaiting) == 0 {
				r.stopTimer()
				r.commit()
			}
		}
	}
	r.untrackView(viewID)
}

func (r *Root) onDeadline() {
	if r.phase != PhaseAwaiting {
		return
	}
	r.log.Warnf("commit deadline reached with %d view(s) unacknowledged, committing anyway", len(r.awaiting))
	for id := range r.awaiting {
		if v, ok := r.views[id]; ok {
			v.ForceAcked()
		}
	}
	r.awaiting = make(map[view.ID]struct{})
	r.commit()
}

func (r *Root) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// commit is the atomic per-transaction commit: every view's pending
// becomes current, in one pass, before any render callback fires.
func (r *Root) commit() {
	r.phase = PhaseCommitting
	for _, v := range r.views {
		v.Commit()
	}
	r.phase = PhaseIdle

	if r.onCommit != nil {
		r.onCommit()
	}

	if r.pendingRearrange {
		r.pendingRearrange = false
		r.arrangeNow()
	}
}

// RegisterView adds v to Root's global registry, e.g. right after
// Output.MapView inserts it into the stack, and requests an arrangement.
func (r *Root) RegisterView(v *view.View) {
	r.trackView(v)
	r.Arrange()
}

// UnregisterView removes v from an output's stack and Root's bookkeeping,
// clears any outstanding transaction wait on it, and requests a fresh
// arrangement.
func (r *Root) UnregisterView(o *output.Output, v *view.View) {
	for n := range o.Views().Iterator(nil, 0xFFFFFFFF) {
		if n.Value == v {
			o.UnmapView(n)
			break
		}
	}
	r.NotifyViewClosed(v.ID())
	r.Arrange()
}
