package control

import (
	"strings"
	"testing"

	"github.com/waytile/waytile/box"
	"github.com/waytile/waytile/layout"
	"github.com/waytile/waytile/layout/wire"
	"github.com/waytile/waytile/output"
	"github.com/waytile/waytile/root"
	"github.com/waytile/waytile/seat"
	"github.com/waytile/waytile/shell"
	"github.com/waytile/waytile/view"
	"github.com/waytile/waytile/viewstack"
)

func newTestContext(t *testing.T) (Context, *view.View) {
	t.Helper()
	o := output.New(1, box.Box{X: 0, Y: 0, Width: 800, Height: 600})
	o.ArrangeLayers()
	r := root.New(nil, func() {})
	r.AddOutput(o)

	s := shell.NewXDGSurface("app", shell.Constraints{}, shell.XDGHandlers{})
	v := view.New(1, 0, s, 0)
	o.MapView(v, viewstack.AttachTop, box.Box{Width: 200, Height: 100})
	r.RegisterView(v)

	se := seat.New("default")
	se.FocusView(o, v, 0)

	return Context{Root: r, Seat: se, Output: o, View: v}, v
}

func TestSetFocusedTagsRejectsZero(t *testing.T) {
	ctx, _ := newTestContext(t)
	srv := &Server{}
	reply := srv.dispatch(ctx, "set-focused-tags 0")
	if !strings.HasPrefix(reply, "error") {
		t.Fatalf("expected an error reply, got %q", reply)
	}
	if ctx.Output.Pending().Tags == 0 {
		t.Fatalf("tags must not have been zeroed")
	}
}

func TestSetFocusedTagsApplies(t *testing.T) {
	ctx, _ := newTestContext(t)
	srv := &Server{}
	reply := srv.dispatch(ctx, "set-focused-tags 4")
	if reply != "ok" {
		t.Fatalf("expected ok, got %q", reply)
	}
	if ctx.Output.Pending().Tags != 4 {
		t.Fatalf("expected tags=4, got %d", ctx.Output.Pending().Tags)
	}
}

func TestToggleFloatAndFullscreen(t *testing.T) {
	ctx, v := newTestContext(t)
	srv := &Server{}

	if reply := srv.dispatch(ctx, "toggle-float"); reply != "ok" {
		t.Fatalf("expected ok, got %q", reply)
	}
	if !v.Pending().Float {
		t.Fatalf("expected view to become floating")
	}

	if reply := srv.dispatch(ctx, "toggle-fullscreen"); reply != "ok" {
		t.Fatalf("expected ok, got %q", reply)
	}
	if !v.Pending().Fullscreen {
		t.Fatalf("expected view to become fullscreen")
	}
}

func TestCloseWithoutFocusedViewErrors(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.View = nil
	srv := &Server{}
	reply := srv.dispatch(ctx, "close")
	if !strings.HasPrefix(reply, "error") {
		t.Fatalf("expected error without a focused view, got %q", reply)
	}
}

func TestSetLayoutValueRoundTripsThroughDump(t *testing.T) {
	ctx, _ := newTestContext(t)
	srv := &Server{}

	reg := layout.NewRegistry()
	sink := recordingSink{}
	client := reg.GetLayout(uint64(ctx.Output.ID()), "tile", 1, &sink)
	ctx.Output.BindLayout("tile", client)

	reply := srv.dispatch(ctx, "set-layout-value tile main-ratio int:5")
	if reply != "ok" {
		t.Fatalf("expected ok, got %q", reply)
	}

	dump := srv.dispatch(ctx, "default-layout tile")
	if dump != "ok" {
		t.Fatalf("expected namespace switch to return ok, got %q", dump)
	}

	yamlDump := srv.dispatch(ctx, "default-layout")
	if !strings.Contains(yamlDump, "main-ratio") {
		t.Fatalf("expected tunable dump to mention main-ratio, got %q", yamlDump)
	}
}

type recordingSink struct{}

func (recordingSink) NamespaceInUse()                                 {}
func (recordingSink) LayoutDemand(uint32, int, uint32, uint32, uint32) {}
func (recordingSink) AdvertiseView(uint32, uint32, string)             {}
func (recordingSink) AdvertiseDone(uint32)                             {}
func (recordingSink) SetIntValue(string, int32)                        {}
func (recordingSink) ModIntValue(string, int32)                        {}
func (recordingSink) SetFixedValue(string, wire.Fixed)                 {}
func (recordingSink) ModFixedValue(string, wire.Fixed)                 {}
func (recordingSink) SetStringValue(string, string)                    {}
func (recordingSink) ProtocolError(layout.ErrorCode, string)           {}
