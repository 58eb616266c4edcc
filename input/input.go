// Package input implements §4.8: one logical seat's device bookkeeping
// and the input-inhibitor gate. Device identity (physical vs. virtual)
// is the backend's concern; once attached here, a pointer or keyboard is
// routed uniformly.
package input

import (
	"github.com/waytile/waytile/cursor"
	"github.com/waytile/waytile/logging"
	"github.com/waytile/waytile/output"
	"github.com/waytile/waytile/seat"
)

// DeviceKind distinguishes the two device classes InputManager routes.
type DeviceKind int

const (
	DevicePointer DeviceKind = iota
	DeviceKeyboard
)

// Device is the backend-supplied capability set InputManager needs to
// track an attached input device; it carries no behavior of its own; the
// backend's concrete device drives the seat via Cursor/Seat methods
// directly once it is registered.
type Device struct {
	Kind DeviceKind
	Name string
}

// Manager is the single "default" seat's device registry and
// input-inhibitor gate (§4.8, §5 "shared resources").
type Manager struct {
	log    *logging.Logger
	seat   *seat.Seat
	cursor *cursor.Cursor

	devices []Device

	inhibitorOwner uintptr
	hasInhibitor   bool
}

// New constructs an InputManager over an existing Seat/Cursor pair (both
// already own their own state; InputManager only tracks devices and the
// inhibitor gate on top of them).
func New(s *seat.Seat, c *cursor.Cursor) *Manager {
	return &Manager{
		log:    logging.New("input"),
		seat:   s,
		cursor: c,
	}
}

func (m *Manager) Seat() *seat.Seat      { return m.seat }
func (m *Manager) Cursor() *cursor.Cursor { return m.cursor }
func (m *Manager) Devices() []Device      { return m.devices }

// AddDevice registers a newly discovered device, physical or virtual; the
// two are indistinguishable once attached (§4.8).
func (m *Manager) AddDevice(d Device) {
	m.devices = append(m.devices, d)
	m.log.Infof("device attached: kind=%d name=%q", d.Kind, d.Name)
}

// RemoveDevice unregisters a device by name.
func (m *Manager) RemoveDevice(name string) {
	for i, d := range m.devices {
		if d.Name == name {
			m.devices = append(m.devices[:i], m.devices[i+1:]...)
			return
		}
	}
}

// ActivateInputInhibitor locks the seat down to owner (e.g. a lock-screen
// client), per §4.6/§4.8.
func (m *Manager) ActivateInputInhibitor(owner uintptr) {
	m.hasInhibitor = true
	m.inhibitorOwner = owner
	m.seat.ActivateInhibitor(owner)
}

// DeactivateInputInhibitor releases the lock previously taken by owner,
// restoring focus on o via Seat's focus(null) candidate selection (§4.6).
func (m *Manager) DeactivateInputInhibitor(owner uintptr, o *output.Output) {
	if !m.hasInhibitor || m.inhibitorOwner != owner {
		return
	}
	m.hasInhibitor = false
	m.seat.DeactivateInhibitor(owner, o)
}
