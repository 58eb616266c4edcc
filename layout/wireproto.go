// Wire opcodes and a wire-encoding EventSink for layout_v2, so the
// transport-agnostic protocol core in layout.go has a concrete binary
// counterpart: WireSink turns EventSink calls into framed wire.Message
// bytes the way a real socket-backed compositor would, and the opcodes
// here are what a remote layout process (cmd/waylayout) decodes.
package layout

import (
	"io"

	"github.com/waytile/waytile/layout/wire"
)

// Event opcodes: compositor -> layout client.
const (
	OpNamespaceInUse  wire.Opcode = 0
	OpLayoutDemand    wire.Opcode = 1
	OpAdvertiseView   wire.Opcode = 2
	OpAdvertiseDone   wire.Opcode = 3
	OpSetIntValue     wire.Opcode = 4
	OpModIntValue     wire.Opcode = 5
	OpSetFixedValue   wire.Opcode = 6
	OpModFixedValue   wire.Opcode = 7
	OpSetStringValue  wire.Opcode = 8
	OpProtocolErrorOp wire.Opcode = 9
)

// Request opcodes: layout client -> compositor.
const (
	OpPushViewDimensions wire.Opcode = 0
	OpCommit             wire.Opcode = 1
)

// WireSink implements EventSink by framing each call as a wire.Message
// addressed to object and writing it to w. A real backend constructs one
// per bound Client and drains its incoming requests (OpPushViewDimensions,
// OpCommit) back into Client.PushViewDimensions/Commit on the same
// connection; that socket plumbing belongs to the backend, not this
// package, mirroring EventSink's own transport-agnostic design.
type WireSink struct {
	Object wire.ObjectID
	W      io.Writer
}

func (s WireSink) send(e *wire.Encoder) {
	_ = wire.WriteMessage(s.W, e.Bytes())
}

func (s WireSink) NamespaceInUse() {
	s.send(wire.NewEncoder(s.Object, OpNamespaceInUse))
}

func (s WireSink) LayoutDemand(serial uint32, viewCount int, usableWidth, usableHeight uint32, tags uint32) {
	e := wire.NewEncoder(s.Object, OpLayoutDemand)
	e.PutUint32(serial)
	e.PutUint32(uint32(viewCount))
	e.PutUint32(usableWidth)
	e.PutUint32(usableHeight)
	e.PutUint32(tags)
	s.send(e)
}

func (s WireSink) AdvertiseView(serial uint32, tags uint32, appID string) {
	e := wire.NewEncoder(s.Object, OpAdvertiseView)
	e.PutUint32(serial)
	e.PutUint32(tags)
	e.PutString(appID)
	s.send(e)
}

func (s WireSink) AdvertiseDone(serial uint32) {
	e := wire.NewEncoder(s.Object, OpAdvertiseDone)
	e.PutUint32(serial)
	s.send(e)
}

func (s WireSink) SetIntValue(key string, value int32) {
	e := wire.NewEncoder(s.Object, OpSetIntValue)
	e.PutString(key)
	e.PutInt32(value)
	s.send(e)
}

func (s WireSink) ModIntValue(key string, delta int32) {
	e := wire.NewEncoder(s.Object, OpModIntValue)
	e.PutString(key)
	e.PutInt32(delta)
	s.send(e)
}

func (s WireSink) SetFixedValue(key string, value wire.Fixed) {
	e := wire.NewEncoder(s.Object, OpSetFixedValue)
	e.PutString(key)
	e.PutFixed(value)
	s.send(e)
}

func (s WireSink) ModFixedValue(key string, delta wire.Fixed) {
	e := wire.NewEncoder(s.Object, OpModFixedValue)
	e.PutString(key)
	e.PutFixed(delta)
	s.send(e)
}

func (s WireSink) SetStringValue(key string, value string) {
	e := wire.NewEncoder(s.Object, OpSetStringValue)
	e.PutString(key)
	e.PutString(value)
	s.send(e)
}

func (s WireSink) ProtocolError(code ErrorCode, message string) {
	e := wire.NewEncoder(s.Object, OpProtocolErrorOp)
	e.PutUint32(uint32(code))
	e.PutString(message)
	s.send(e)
}
