// Package output implements per-display compositor state: the four
// layer-shell lists, the usable-area computation, the view stack, and
// §4.3's arrangeLayers/arrangeViews operations.
package output

import (
	"github.com/waytile/waytile/box"
	"github.com/waytile/waytile/layout"
	"github.com/waytile/waytile/view"
	"github.com/waytile/waytile/viewstack"
)

// ID is a stable, non-owning handle to an Output.
type ID uint64

// Layer indexes the four layer-shell stacking bands, scanned in this order
// (overlay, top, bottom, background) whenever exclusive zones are
// recomputed (§4.3) or hit-testing runs top-down (§4.7).
type Layer int

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

// Edge is the anchor a layer surface reserves exclusive space against.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// LayerSurface is the capability set Output needs from a layer-shell
// surface to fold it into usable-area accounting and send it a configure.
// The real xdg/wlr-layer-shell wire handling is an external collaborator
// (§1); this is the seam the core touches it through.
type LayerSurface interface {
	Edge() Edge
	ExclusiveZone() int32
	Configure(usable box.Box)
}

// State is the {tags, layout-client binding} pair Output keeps a current
// and a pending copy of (§3).
type State struct {
	Tags            uint32
	LayoutNamespace string
}

// Output is one physical display.
type Output struct {
	id ID

	full   box.Box
	usable box.Box

	layers [4][]LayerSurface

	views viewstack.Stack[*view.View]

	current, pending State
	spawnTagmask     uint32

	layoutClients map[string]*layout.Client
	demand        *demandContext
}

// demandContext remembers which tiled views a live LayoutDemand was issued
// for, so that when its commit eventually arrives the resulting geometries
// can be matched back up in advertised order.
type demandContext struct {
	client    *layout.Client
	serial    uint32
	tiled     []*view.View
	onSettled func()
}

// New constructs an Output covering full, with tag 1 focused initially so
// it is never in the zero-tags state the invariant forbids.
func New(id ID, full box.Box) *Output {
	return &Output{
		id:            id,
		full:          full,
		usable:        full,
		current:       State{Tags: 1},
		pending:       State{Tags: 1},
		spawnTagmask:  0xFFFFFFFF,
		layoutClients: make(map[string]*layout.Client),
	}
}

func (o *Output) ID() ID           { return o.id }
func (o *Output) Full() box.Box    { return o.full }
func (o *Output) Usable() box.Box  { return o.usable }
func (o *Output) Current() State   { return o.current }
func (o *Output) Pending() State   { return o.pending }
func (o *Output) SpawnTagmask() uint32 { return o.spawnTagmask }

func (o *Output) SetSpawnTagmask(mask uint32) { o.spawnTagmask = mask }

// SetFull updates the output's physical rectangle (e.g. on mode change);
// callers must follow with ArrangeLayers to recompute usable.
func (o *Output) SetFull(full box.Box) { o.full = full }

// Views returns the output's ViewStack for iteration by Seat/Cursor/Root.
func (o *Output) Views() *viewstack.Stack[*view.View] { return &o.views }

// SetTags overwrites pending.Tags unless doing so would zero it (§4.6).
// Reports whether the change was applied.
func (o *Output) SetTags(tags uint32) bool {
	if tags == 0 {
		return false
	}
	o.pending.Tags = tags
	return true
}

// ToggleTags XORs mask into pending.Tags unless the result would be zero.
func (o *Output) ToggleTags(mask uint32) bool {
	return o.SetTags(o.pending.Tags ^ mask)
}

// BindLayout records the layout client currently bound to namespace on
// this output (Output's half of the layout registry's (output,namespace)
// key).
func (o *Output) BindLayout(namespace string, c *layout.Client) {
	o.layoutClients[namespace] = c
}

// UnbindLayout removes namespace's binding, e.g. on client disconnect.
func (o *Output) UnbindLayout(namespace string) {
	delete(o.layoutClients, namespace)
	if o.pending.LayoutNamespace == namespace {
		o.pending.LayoutNamespace = ""
	}
}

// GetLayoutByName returns the registered layout for this output with the
// given namespace, if any (§4.3).
func (o *Output) GetLayoutByName(namespace string) (*layout.Client, bool) {
	c, ok := o.layoutClients[namespace]
	return c, ok
}

// SetActiveLayout selects which bound namespace arrangeViews submits tiled
// views to.
func (o *Output) SetActiveLayout(namespace string) {
	o.pending.LayoutNamespace = namespace
}

// MapView inserts v into the ViewStack per mode and performs the
// mapped-phase View setup: tags are the output's focused tags filtered by
// spawnTagmask, and the natural geometry is centered in the usable area.
func (o *Output) MapView(v *view.View, mode viewstack.AttachMode, natural box.Box) *viewstack.Node[*view.View] {
	tags := o.pending.Tags & o.spawnTagmask
	if tags == 0 {
		tags = o.pending.Tags
	}
	v.SetOutputID(view.OutputID(o.id))
	v.Map(tags, box.Centered(o.usable, natural.Width, natural.Height))
	return o.views.Attach(mode, v)
}

// UnmapView removes n from the ViewStack and marks its view unmapped. The
// caller (Root) is responsible for clearing this view from every seat's
// focus target.
func (o *Output) UnmapView(n *viewstack.Node[*view.View]) {
	n.Value.Unmap()
	o.views.Remove(n)
}

// ArrangeLayers recomputes exclusive zones from each layer list, scanned
// overlay/top/bottom/background, deriving the usable rectangle, and sends
// each layer surface its configure (§4.3).
func (o *Output) ArrangeLayers() {
	usable := o.full
	for _, layerIdx := range []Layer{LayerOverlay, LayerTop, LayerBottom, LayerBackground} {
		for _, ls := range o.layers[layerIdx] {
			z := ls.ExclusiveZone()
			if z > 0 {
				usable = reserve(usable, ls.Edge(), z)
			}
		}
	}
	o.usable = usable
	for _, list := range o.layers {
		for _, ls := range list {
			ls.Configure(o.usable)
		}
	}
}

func reserve(usable box.Box, edge Edge, z int32) box.Box {
	switch edge {
	case EdgeTop:
		usable.Y += z
		usable.Height -= z
	case EdgeBottom:
		usable.Height -= z
	case EdgeLeft:
		usable.X += z
		usable.Width -= z
	case EdgeRight:
		usable.Width -= z
	}
	return usable
}

// AddLayerSurface registers ls on the named stacking band.
func (o *Output) AddLayerSurface(l Layer, ls LayerSurface) {
	o.layers[l] = append(o.layers[l], ls)
}

// RemoveLayerSurface unregisters ls from the named stacking band.
func (o *Output) RemoveLayerSurface(l Layer, ls LayerSurface) {
	list := o.layers[l]
	for i, cur := range list {
		if cur == ls {
			o.layers[l] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// ArrangeViews partitions the ViewStack using pendingIterator(_,
// pending.Tags): floating and fullscreen views get their geometry
// directly, tiled views are submitted to the bound layout client as a
// LayoutDemand (§4.3). onSettled is invoked once every view's pending.Box
// has a value: synchronously if there were no tiled views (or no bound
// layout client), or later, asynchronously, once the layout client
// commits its response.
func (o *Output) ArrangeViews(onSettled func()) {
	var tiled []*view.View
	for n := range o.views.PendingIterator(nil, o.pending.Tags) {
		v := n.Value
		p := v.Pending()
		switch {
		case p.Fullscreen:
			v.SetPendingBox(o.full)
		case p.Float:
			v.SetPendingBox(v.FloatBox())
		default:
			tiled = append(tiled, v)
		}
	}

	if len(tiled) == 0 {
		onSettled()
		return
	}

	client, ok := o.GetLayoutByName(o.pending.LayoutNamespace)
	if !ok {
		// No bound layout client: tiled views keep whatever geometry they
		// last had; only the floating/fullscreen pass above changed
		// anything.
		onSettled()
		return
	}

	descriptors := make([]layout.Descriptor, len(tiled))
	for i, v := range tiled {
		descriptors[i] = layout.Descriptor{Tags: v.Pending().Tags, AppID: v.AppID()}
	}

	o.demand = &demandContext{client: client, tiled: tiled, onSettled: onSettled}
	o.demand.serial = client.Demand(descriptors, o.usable, o.pending.Tags)
}

// CommitLayoutDemand applies a layout client's commit(serial) response: it
// is the glue between the transport-agnostic layout.Client.Commit and this
// output's live demand, matching geometries back to the tiled views
// ArrangeViews submitted them for and invoking that call's onSettled.
//
// Per §4.3, a decisively rejected response (count mismatch, or a commit
// replaying an already-committed serial) still settles the output, with
// the tiled views keeping whatever geometry they already had: the last
// good layout remains rather than the output waiting forever for a
// response that will never turn into an accepted commit. Only a stale or
// foreign commit (serial not matching this output's live demand) is
// ignored without settling, since it says nothing about that demand's
// fate.
func (o *Output) CommitLayoutDemand(client *layout.Client, serial uint32, dims []box.Box) bool {
	if o.demand == nil || o.demand.client != client || o.demand.serial != serial {
		return false
	}
	d := o.demand
	o.demand = nil
	ok := client.Commit(serial, dims, func(result []box.Box) {
		for i, v := range d.tiled {
			v.SetPendingBox(result[i])
		}
	})
	d.onSettled()
	return ok
}
