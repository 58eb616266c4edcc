// Package layout implements the layout_v2 protocol core described in
// §4.5: namespace registration, the layout-demand/push-dimensions/commit
// handshake with serial-based supersession, and per-client tunable
// storage. It is deliberately transport-agnostic — an EventSink is
// whatever turns these calls into wire bytes (a real Unix-socket backend,
// or a test double) — so the protocol semantics in the HARD CORE are
// testable without a socket.
package layout

import (
	"fmt"
	"sync"

	"github.com/waytile/waytile/box"
	"github.com/waytile/waytile/layout/wire"
)

// Descriptor is one view advertised as part of a layout demand.
type Descriptor struct {
	Tags  uint32
	AppID string // "" is advertised as the null app id.
}

// ErrorCode is a layout_v2 protocol error code (§6).
type ErrorCode int

const (
	ErrCountMismatch   ErrorCode = 0
	ErrAlreadyCommitted ErrorCode = 1
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCountMismatch:
		return "count_mismatch"
	case ErrAlreadyCommitted:
		return "already_committed"
	default:
		return fmt.Sprintf("error(%d)", int(c))
	}
}

// EventSink turns protocol events into wire traffic for one bound Client.
// The compositor core only ever calls through this interface; how the
// bytes reach the remote process is the backend's concern.
type EventSink interface {
	NamespaceInUse()
	LayoutDemand(serial uint32, viewCount int, usableWidth, usableHeight uint32, tags uint32)
	AdvertiseView(serial uint32, tags uint32, appID string)
	AdvertiseDone(serial uint32)
	SetIntValue(key string, value int32)
	ModIntValue(key string, delta int32)
	SetFixedValue(key string, value wire.Fixed)
	ModFixedValue(key string, delta wire.Fixed)
	SetStringValue(key string, value string)
	ProtocolError(code ErrorCode, message string)
}

// Key identifies a registered binding. Namespaces must be unique per
// output, and a namespace already bound on one output cannot be bound by a
// *different* client on any other output (§4.5 Registration).
type Key struct {
	Output    uint64
	Namespace string
}

// pendingDemand tracks the one live layout demand for a client.
type pendingDemand struct {
	serial    uint32
	views     int
	committed bool
}

// Client is one compositor-side object bound by a get_layout request. It
// belongs to exactly one (output, namespace) key for its lifetime.
type Client struct {
	mu sync.Mutex

	key      Key
	owner    uintptr // opaque identity of the remote connection, for cross-output uniqueness
	sink     EventSink
	refused  bool
	nextSer  uint32
	live     *pendingDemand
	tunables map[string]any // last-known value per key: int32, wire.Fixed, or string
}

// Registry is the process-wide layout-namespace registry (§9 "Global
// state"): namespaces must be unique per (output, namespace), and the same
// namespace string cannot be used by two different clients across outputs.
type Registry struct {
	mu       sync.Mutex
	byKey    map[Key]*Client
	ownerOf  map[string]uintptr // namespace -> owning connection identity
}

func NewRegistry() *Registry {
	return &Registry{
		byKey:   make(map[Key]*Client),
		ownerOf: make(map[string]uintptr),
	}
}

// GetLayout implements the get_layout request. owner identifies the
// requesting connection (so cross-output uniqueness can be enforced); sink
// receives this client's events.
func (r *Registry) GetLayout(output uint64, namespace string, owner uintptr, sink EventSink) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key{Output: output, Namespace: namespace}
	c := &Client{key: key, owner: owner, sink: sink, tunables: make(map[string]any)}

	if existing, ok := r.byKey[key]; ok && existing != nil {
		c.refused = true
		sink.NamespaceInUse()
		return c
	}
	if prevOwner, ok := r.ownerOf[namespace]; ok && prevOwner != owner {
		c.refused = true
		sink.NamespaceInUse()
		return c
	}

	r.byKey[key] = c
	r.ownerOf[namespace] = owner
	return c
}

// Release removes c from the registry (destruction request or disconnect).
func (r *Registry) Release(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.refused {
		return
	}
	if cur, ok := r.byKey[c.key]; ok && cur == c {
		delete(r.byKey, c.key)
	}
	// Only clear the namespace owner if no other output still holds it.
	stillUsed := false
	for k := range r.byKey {
		if k.Namespace == c.key.Namespace {
			stillUsed = true
			break
		}
	}
	if !stillUsed {
		delete(r.ownerOf, c.key.Namespace)
	}
}

// Lookup returns the client bound to (output, namespace), if any.
func (r *Registry) Lookup(output uint64, namespace string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byKey[Key{Output: output, Namespace: namespace}]
	return c, ok
}

// Refused reports whether this object was refused at registration time
// (namespace_in_use). Per §4.5, all further requests except destruction
// are ignored on a refused object.
func (c *Client) Refused() bool { return c.refused }

func (c *Client) Namespace() string { return c.key.Namespace }

// Demand issues a layout_demand/advertise_view*/advertise_done sequence
// for the given views and returns the serial that identifies it. Any
// previously live demand on this client is implicitly superseded (§4.5
// Cancellation): no explicit cancel is sent, the new serial simply becomes
// the only one the compositor will honor a commit for.
func (c *Client) Demand(views []Descriptor, usable box.Box, tags uint32) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refused {
		return 0
	}

	c.nextSer++
	serial := c.nextSer
	c.live = &pendingDemand{serial: serial, views: len(views)}

	c.sink.LayoutDemand(serial, len(views), uint32(usable.Width), uint32(usable.Height), tags)
	for _, v := range views {
		c.sink.AdvertiseView(serial, v.Tags, v.AppID)
	}
	c.sink.AdvertiseDone(serial)
	return serial
}

// PushViewDimensions records one proposed geometry for the live demand
// identified by serial. Requests for a superseded serial are silently
// ignored (§4.5). dims accumulates in call order until Commit.
func (c *Client) PushViewDimensions(serial uint32, dims *[]box.Box, x, y, w, h int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refused || c.live == nil || c.live.serial != serial {
		return // stale or unknown serial: ignored, not an error.
	}
	*dims = append(*dims, box.Box{X: x, Y: y, Width: w, Height: h})
}

// Commit validates and applies a demand's response. onApply is called with
// the accumulated geometries, in advertised order, only if the commit is
// accepted. It returns false (having already reported the protocol error
// through the EventSink) if the count mismatched or the demand was already
// committed.
func (c *Client) Commit(serial uint32, dims []box.Box, onApply func([]box.Box)) bool {
	c.mu.Lock()
	if c.refused {
		c.mu.Unlock()
		return false
	}
	if c.live == nil || c.live.serial != serial {
		c.mu.Unlock()
		return false // stale serial: ignored, no error (§4.5).
	}
	if c.live.committed {
		c.sink.ProtocolError(ErrAlreadyCommitted, fmt.Sprintf("serial %d already committed", serial))
		c.mu.Unlock()
		return false
	}
	if len(dims) != c.live.views {
		c.sink.ProtocolError(ErrCountMismatch, fmt.Sprintf("expected %d dimensions, got %d", c.live.views, len(dims)))
		c.mu.Unlock()
		return false
	}
	c.live.committed = true
	c.mu.Unlock()

	onApply(dims)
	return true
}

// SetTunable stores a new tunable value and, if this client is currently
// bound (not refused), forwards the corresponding event so the remote
// layout process can react; per §4.5 a value change triggers a fresh
// demand only when the caller (Output) judges the object "active" — that
// decision is the caller's, not this package's.
func (c *Client) SetTunable(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refused {
		return
	}
	c.tunables[key] = value
	switch v := value.(type) {
	case int32:
		c.sink.SetIntValue(key, v)
	case wire.Fixed:
		c.sink.SetFixedValue(key, v)
	case string:
		c.sink.SetStringValue(key, v)
	}
}

// ModTunable applies a delta to an existing int or fixed tunable (mod_*).
// Unknown keys default the base to zero, matching "the compositor stores
// these" with no separate existence check mandated by the spec.
func (c *Client) ModTunable(key string, delta any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refused {
		return
	}
	switch d := delta.(type) {
	case int32:
		base, _ := c.tunables[key].(int32)
		base += d
		c.tunables[key] = base
		c.sink.ModIntValue(key, d)
	case wire.Fixed:
		base, _ := c.tunables[key].(wire.Fixed)
		base += d
		c.tunables[key] = base
		c.sink.ModFixedValue(key, d)
	}
}

// Tunables returns a copy of the last-known tunable values, for the
// control surface's introspection commands.
func (c *Client) Tunables() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.tunables))
	for k, v := range c.tunables {
		out[k] = v
	}
	return out
}
