// Command waytiled-sim drives backend.Simulated through a full
// map/arrange/configure/commit cycle with no real display server, as a
// smoke test and demonstration of the compositor core described in
// SPEC_FULL.md.
package main

import (
	"fmt"
	"os"

	"github.com/waytile/waytile/backend"
	"github.com/waytile/waytile/box"
	"github.com/waytile/waytile/root"
	"github.com/waytile/waytile/view"
)

func main() {
	b := backend.NewSimulated()
	o := b.AddOutput(1, box.Box{X: 0, Y: 0, Width: 1920, Height: 1080})

	views := []*view.View{
		b.SpawnView(o, "term", true, box.Box{Width: 800, Height: 600}),
		b.SpawnView(o, "editor", true, box.Box{Width: 800, Height: 600}),
	}

	for _, v := range views {
		if serial, pending := v.PendingSerial(); pending {
			b.Root.NotifyConfigured(v.ID(), uint32(serial))
		}
	}

	if b.Root.Phase() != root.PhaseIdle {
		fmt.Fprintln(os.Stderr, "waytiled-sim: transaction did not settle to idle")
		os.Exit(1)
	}

	fmt.Printf("output usable=%v\n", o.Usable())
	for n := range o.Views().Iterator(nil, 0xFFFFFFFF) {
		fmt.Printf("view %d (%s): box=%v tags=%#x\n", n.Value.ID(), n.Value.AppID(), n.Value.Current().Box, n.Value.Current().Tags)
	}
}
