package input

import (
	"testing"

	"github.com/waytile/waytile/box"
	"github.com/waytile/waytile/cursor"
	"github.com/waytile/waytile/output"
	"github.com/waytile/waytile/seat"
)

func TestAddRemoveDevice(t *testing.T) {
	m := New(seat.New("default"), cursor.New(nil))
	m.AddDevice(Device{Kind: DevicePointer, Name: "mouse0"})
	m.AddDevice(Device{Kind: DeviceKeyboard, Name: "kbd0"})
	if len(m.Devices()) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(m.Devices()))
	}

	m.RemoveDevice("mouse0")
	if len(m.Devices()) != 1 || m.Devices()[0].Name != "kbd0" {
		t.Fatalf("expected only kbd0 left, got %+v", m.Devices())
	}
}

func TestInputInhibitorLocksAndRestoresSeat(t *testing.T) {
	s := seat.New("default")
	m := New(s, cursor.New(nil))
	o := output.New(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})

	owner := uintptr(99)
	m.ActivateInputInhibitor(owner)
	if s.Mode() != seat.ModeLocked {
		t.Fatalf("expected seat locked")
	}

	m.DeactivateInputInhibitor(owner, o)
	if s.Mode() != seat.ModeNormal {
		t.Fatalf("expected seat restored to normal")
	}
}

func TestDeactivateWithWrongOwnerIsNoop(t *testing.T) {
	s := seat.New("default")
	m := New(s, cursor.New(nil))
	o := output.New(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})

	m.ActivateInputInhibitor(1)
	m.DeactivateInputInhibitor(2, o)
	if s.Mode() != seat.ModeLocked {
		t.Fatalf("a different owner must not be able to release the inhibitor")
	}
}
