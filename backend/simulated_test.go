package backend

import (
	"testing"

	"github.com/waytile/waytile/box"
	"github.com/waytile/waytile/root"
)

func TestSpawnViewReachesIdleForSynchronousShell(t *testing.T) {
	b := NewSimulated()
	o := b.AddOutput(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})

	v := b.SpawnView(o, "term", false, box.Box{Width: 200, Height: 100})

	if b.Root.Phase() != root.PhaseIdle {
		t.Fatalf("expected idle after a synchronous-shell spawn, got %v", b.Root.Phase())
	}
	if !v.Mapped() {
		t.Fatalf("expected the view to be mapped")
	}
}

func TestSpawnViewAsyncWaitsForAckThenCloses(t *testing.T) {
	b := NewSimulated()
	o := b.AddOutput(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})

	v := b.SpawnView(o, "term", true, box.Box{Width: 200, Height: 100})

	serial, pending := v.PendingSerial()
	if pending {
		b.Root.NotifyConfigured(v.ID(), uint32(serial))
	}
	if b.Root.Phase() != root.PhaseIdle {
		t.Fatalf("expected idle after ack, got %v", b.Root.Phase())
	}

	v.Close()
	found := false
	for n := range o.Views().Iterator(nil, 0xFFFFFFFF) {
		if n.Value == v {
			found = true
		}
	}
	if found {
		t.Fatalf("expected the view to be removed from the stack once closed")
	}
}

func TestMostRecentlySpawnedViewIsFocusedAndRaised(t *testing.T) {
	b := NewSimulated()
	o := b.AddOutput(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})

	v1 := b.SpawnView(o, "a", false, box.Box{Width: 400, Height: 600})
	v2 := b.SpawnView(o, "b", false, box.Box{Width: 400, Height: 600})

	if b.Input.Seat().Focused().View != v2 {
		t.Fatalf("expected the most recently spawned view focused")
	}
	if o.Views().First().Value != v2 {
		t.Fatalf("expected focused view raised to top of stack")
	}
	_ = v1
}
