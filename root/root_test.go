package root

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/waytile/waytile/box"
	"github.com/waytile/waytile/output"
	"github.com/waytile/waytile/shell"
	"github.com/waytile/waytile/view"
	"github.com/waytile/waytile/viewstack"
)

type fakeTimer struct{ stopped bool }

func (t *fakeTimer) Stop() bool { t.stopped = true; return true }

type fakeScheduler struct {
	fn    func()
	timer *fakeTimer
}

func (f *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	f.fn = fn
	f.timer = &fakeTimer{}
	return f.timer
}

func newAsyncView(id view.ID) *view.View {
	s := shell.NewXDGSurface("app", shell.Constraints{}, shell.XDGHandlers{})
	return view.New(id, 0, s, 1)
}

func newSyncView(id view.ID) *view.View {
	s := shell.NewX11Surface("app", shell.Constraints{}, shell.X11Handlers{})
	return view.New(id, 0, s, 1)
}

func TestArrangeCommitsImmediatelyWithNoOutputs(t *testing.T) {
	commits := 0
	r := New(&fakeScheduler{}, func() { commits++ })
	r.Arrange()
	if r.Phase() != PhaseIdle {
		t.Fatalf("expected idle phase, got %v", r.Phase())
	}
	if commits != 1 {
		t.Fatalf("expected exactly one commit, got %d", commits)
	}
}

func TestTransactionWaitsForAckThenCommits(t *testing.T) {
	sched := &fakeScheduler{}
	commits := 0
	r := New(sched, func() { commits++ })

	o := output.New(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})
	o.ArrangeLayers()
	r.AddOutput(o)

	v := newAsyncView(1)
	o.MapView(v, viewstack.AttachTop, box.Box{Width: 200, Height: 100})
	r.RegisterView(v)

	if r.Phase() != PhaseAwaiting {
		t.Fatalf("expected awaiting phase with an unacked async view, got %v", r.Phase())
	}
	if commits != 0 {
		t.Fatalf("must not commit before the configure is acked")
	}
	if sched.timer == nil {
		t.Fatalf("expected a deadline timer to be armed")
	}

	serial, ok := v.PendingSerial()
	if !ok {
		t.Fatalf("expected a pending serial on the view")
	}
	r.NotifyConfigured(v.ID(), uint32(serial))

	if r.Phase() != PhaseIdle {
		t.Fatalf("expected idle after the only outstanding ack arrives, got %v", r.Phase())
	}
	if commits != 1 {
		t.Fatalf("expected exactly one commit, got %d", commits)
	}
	if !sched.timer.stopped {
		t.Fatalf("expected the deadline timer to be stopped once satisfied early")
	}
}

func TestSynchronousShellCommitsWithoutWaiting(t *testing.T) {
	sched := &fakeScheduler{}
	commits := 0
	r := New(sched, func() { commits++ })

	o := output.New(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})
	o.ArrangeLayers()
	r.AddOutput(o)

	v := newSyncView(1)
	o.MapView(v, viewstack.AttachTop, box.Box{Width: 200, Height: 100})
	r.RegisterView(v)

	if r.Phase() != PhaseIdle {
		t.Fatalf("a synchronous shell should never leave the transaction awaiting, got %v", r.Phase())
	}
	if commits != 1 {
		t.Fatalf("expected exactly one commit, got %d", commits)
	}
	if sched.timer != nil {
		t.Fatalf("no deadline timer should be armed when nothing is outstanding")
	}
}

func TestDeadlineForcesCommitWithUnacknowledgedViews(t *testing.T) {
	sched := &fakeScheduler{}
	commits := 0
	r := New(sched, func() { commits++ })

	o := output.New(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})
	o.ArrangeLayers()
	r.AddOutput(o)

	v := newAsyncView(1)
	o.MapView(v, viewstack.AttachTop, box.Box{Width: 200, Height: 100})
	r.RegisterView(v)

	if r.Phase() != PhaseAwaiting {
		t.Fatalf("expected awaiting phase, got %v", r.Phase())
	}
	if sched.fn == nil {
		t.Fatalf("expected a deadline callback to be captured")
	}

	sched.fn() // simulate the deadline firing before any ack arrives

	if r.Phase() != PhaseIdle {
		t.Fatalf("deadline must force a commit, got phase %v", r.Phase())
	}
	if commits != 1 {
		t.Fatalf("expected exactly one commit from the forced deadline, got %d", commits)
	}
	if _, pending := v.PendingSerial(); pending {
		t.Fatalf("view should have no pending serial after a forced commit")
	}
}

func TestViewClosedMidTransactionTreatedAsAcknowledged(t *testing.T) {
	sched := &fakeScheduler{}
	commits := 0
	r := New(sched, func() { commits++ })

	o := output.New(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})
	o.ArrangeLayers()
	r.AddOutput(o)

	v := newAsyncView(1)
	o.MapView(v, viewstack.AttachTop, box.Box{Width: 200, Height: 100})
	r.RegisterView(v)

	if r.Phase() != PhaseAwaiting {
		t.Fatalf("expected awaiting phase, got %v", r.Phase())
	}

	r.NotifyViewClosed(v.ID())

	if r.Phase() != PhaseIdle {
		t.Fatalf("closing the only outstanding view must finalize the transaction, got %v", r.Phase())
	}
	if commits != 1 {
		t.Fatalf("expected exactly one commit, got %d", commits)
	}
}

func TestSecondArrangeWhileLiveIsCoalescedThenRunsOnCommit(t *testing.T) {
	sched := &fakeScheduler{}
	commits := 0
	r := New(sched, func() { commits++ })

	o := output.New(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})
	o.ArrangeLayers()
	r.AddOutput(o)

	v := newAsyncView(1)
	o.MapView(v, viewstack.AttachTop, box.Box{Width: 200, Height: 100})
	r.RegisterView(v)

	if r.Phase() != PhaseAwaiting {
		t.Fatalf("expected awaiting phase, got %v", r.Phase())
	}

	r.Arrange() // a second request while the first transaction is still live

	serial, _ := v.PendingSerial()
	r.NotifyConfigured(v.ID(), uint32(serial))

	// Nothing changed geometry-wise on the coalesced re-arrangement, so the
	// second pass has nothing to configure and settles back to idle
	// immediately.
	if r.Phase() != PhaseIdle {
		t.Fatalf("expected idle after the coalesced re-arrangement settles, got %v", r.Phase())
	}
	if commits != 2 {
		t.Fatalf("expected two commits (original + coalesced re-arrangement), got %d", commits)
	}
}

// TestTransactionAlwaysSettlesToIdle resolves a single outstanding async
// view with one randomly chosen event (ack, close or deadline) and checks
// the engine always ends up idle rather than stuck awaiting.
func TestTransactionAlwaysSettlesToIdle(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sched := &fakeScheduler{}
		r := New(sched, func() {})

		o := output.New(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})
		o.ArrangeLayers()
		r.AddOutput(o)

		v := newAsyncView(1)
		o.MapView(v, viewstack.AttachTop, box.Box{Width: 200, Height: 100})
		r.RegisterView(v)

		if r.Phase() != PhaseAwaiting {
			t.Fatalf("expected awaiting phase right after registering an async view, got %v", r.Phase())
		}

		resolved := false
		action := rapid.SampledFrom([]string{"ack", "close", "deadline"}).Draw(rt, "action")
		switch action {
		case "ack":
			if serial, pending := v.PendingSerial(); pending {
				r.NotifyConfigured(v.ID(), uint32(serial))
				resolved = true
			}
		case "close":
			r.NotifyViewClosed(v.ID())
			resolved = true
		case "deadline":
			if sched.fn != nil {
				sched.fn()
				resolved = true
			}
		}

		if resolved && r.Phase() != PhaseIdle {
			t.Fatalf("expected idle after resolving the only outstanding view via %q, got %v", action, r.Phase())
		}
	})
}
