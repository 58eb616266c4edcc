// Package wire implements the on-the-wire encoding for the layout_v2
// protocol described in spec §4.5/§6: a small, Wayland-flavored binary
// framing (object id, opcode, length-prefixed arguments) carried over a
// Unix domain socket between the compositor and an external layout
// process.
//
// The framing follows the same object-addressed, opcode-dispatched shape
// the retrieved wayland compositor/xdg_shell bindings use (object id +
// opcode header, fixed-width integer args, length-prefixed strings), and
// reuses go-wayland's Fixed type for the protocol's "fixed" tunable values
// since it is the same 24.8 fixed-point format Wayland itself defines.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/rajveermalviya/go-wayland/wayland"
)

// Fixed is the layout_v2 24.8 signed fixed-point type, reusing Wayland's
// own wire representation.
type Fixed = wayland.Fixed

// ObjectID addresses one protocol object (a layout_manager or a bound
// layout). 0 is never a valid id.
type ObjectID uint32

// Opcode identifies a request or event within an object's interface.
type Opcode uint16

var ErrShortMessage = errors.New("wire: message shorter than its declared length")

// Message is one decoded frame: an object id, an opcode, and its raw
// argument bytes (already stripped of the frame header).
type Message struct {
	Object ObjectID
	Op     Opcode
	Args   []byte
}

const headerLen = 4 + 2 + 2 // object id, opcode, length

// Encoder accumulates argument bytes for one outgoing message.
type Encoder struct {
	object ObjectID
	op     Opcode
	buf    []byte
}

// NewEncoder starts a message addressed to object with opcode op.
func NewEncoder(object ObjectID, op Opcode) *Encoder {
	return &Encoder{object: object, op: op}
}

func (e *Encoder) PutUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) PutInt32(v int32) { e.PutUint32(uint32(v)) }

func (e *Encoder) PutFixed(v Fixed) { e.PutInt32(int32(v)) }

// PutString appends a uint32 byte-length prefix followed by the raw UTF-8
// bytes (no NUL terminator or padding; this is not wire-compatible with
// real Wayland framing, only inspired by its shape).
func (e *Encoder) PutString(s string) {
	e.PutUint32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *Encoder) PutNewID(id ObjectID) { e.PutUint32(uint32(id)) }

// Bytes returns the fully framed message: header + arguments.
func (e *Encoder) Bytes() []byte {
	if len(e.buf) > 0xFFFF {
		panic(fmt.Sprintf("wire: message too large (%d bytes)", len(e.buf)))
	}
	out := make([]byte, headerLen+len(e.buf))
	binary.LittleEndian.PutUint32(out[0:4], uint32(e.object))
	binary.LittleEndian.PutUint16(out[4:6], uint16(e.op))
	binary.LittleEndian.PutUint16(out[6:8], uint16(len(e.buf)))
	copy(out[headerLen:], e.buf)
	return out
}

// Decoder reads argument values out of a Message's payload in order.
type Decoder struct {
	buf []byte
	off int
}

func NewDecoder(m Message) *Decoder { return &Decoder{buf: m.Args} }

func (d *Decoder) Uint32() (uint32, error) {
	if d.off+4 > len(d.buf) {
		return 0, ErrShortMessage
	}
	v := binary.LittleEndian.Uint32(d.buf[d.off : d.off+4])
	d.off += 4
	return v, nil
}

func (d *Decoder) Int32() (int32, error) {
	v, err := d.Uint32()
	return int32(v), err
}

func (d *Decoder) Fixed() (Fixed, error) {
	v, err := d.Int32()
	return Fixed(v), err
}

func (d *Decoder) String() (string, error) {
	n, err := d.Uint32()
	if err != nil {
		return "", err
	}
	if d.off+int(n) > len(d.buf) {
		return "", ErrShortMessage
	}
	s := string(d.buf[d.off : d.off+int(n)])
	d.off += int(n)
	return s, nil
}

func (d *Decoder) NewID() (ObjectID, error) {
	v, err := d.Uint32()
	return ObjectID(v), err
}

// ReadMessage reads one framed message from r.
func ReadMessage(r io.Reader) (Message, error) {
	var hdr [headerLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Message{}, err
	}
	m := Message{
		Object: ObjectID(binary.LittleEndian.Uint32(hdr[0:4])),
		Op:     Opcode(binary.LittleEndian.Uint16(hdr[4:6])),
	}
	n := binary.LittleEndian.Uint16(hdr[6:8])
	if n > 0 {
		m.Args = make([]byte, n)
		if _, err := io.ReadFull(r, m.Args); err != nil {
			return Message{}, err
		}
	}
	return m, nil
}

// WriteMessage writes msg, an already-framed message from Encoder.Bytes,
// to w.
func WriteMessage(w io.Writer, msg []byte) error {
	_, err := w.Write(msg)
	return err
}
