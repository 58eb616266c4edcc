// Command waylayout is the trivial reference layout_v2 client permitted by
// the compositor's non-goals: a master-stack layout generator, communicating
// over the layout/wire framing on stdin (events) and stdout (requests), the
// way the compositor would drive it once connected over a socket.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/waytile/waytile/layout"
	"github.com/waytile/waytile/layout/wire"
)

// masterRatio is the fraction of usable width the master column occupies,
// a mod_layout_value-tunable int32 stored in promille (0-1000) to avoid
// floating point over the wire; 1 fixed point unit mirrors wire.Fixed's
// 24.8 format but this generator only ever receives it as a plain int.
var masterRatio int32 = 600 // 60.0%

var masterCount int32 = 1

func main() {
	namespace := flag.String("namespace", "tile", "layout namespace to advertise in logs")
	flag.Parse()

	l := log.New(os.Stderr, fmt.Sprintf("[waylayout:%s] ", *namespace), log.LstdFlags)
	if err := run(os.Stdin, os.Stdout, l); err != nil && err != io.EOF {
		l.Fatalf("fatal: %v", err)
	}
}

// run reads events until the pipe closes, replying to every layout_demand
// with a master-stack arrangement and applying set/mod_*_value events to
// the two tunables this generator understands (main-ratio, main-count).
func run(r io.Reader, w io.Writer, l *log.Logger) error {
	var pending struct {
		serial uint32
		views  int
		tags   []uint32
		usableW, usableH uint32
	}

	for {
		msg, err := wire.ReadMessage(r)
		if err != nil {
			return err
		}
		d := wire.NewDecoder(msg)

		switch msg.Op {
		case layout.OpLayoutDemand:
			serial, _ := d.Uint32()
			count, _ := d.Uint32()
			usableW, _ := d.Uint32()
			usableH, _ := d.Uint32()
			_, _ = d.Uint32() // tags, unused by this generator
			pending.serial = serial
			pending.views = int(count)
			pending.tags = pending.tags[:0]
			pending.usableW, pending.usableH = usableW, usableH

		case layout.OpAdvertiseView:
			_, _ = d.Uint32() // serial
			tags, _ := d.Uint32()
			_, _ = d.String() // app id, unused by this generator
			pending.tags = append(pending.tags, tags)

		case layout.OpAdvertiseDone:
			serial, _ := d.Uint32()
			if serial != pending.serial {
				l.Printf("advertise_done for stale serial %d, ignoring", serial)
				continue
			}
			boxes := masterStack(int(pending.usableW), int(pending.usableH), pending.views, masterRatio, int(masterCount))
			for _, b := range boxes {
				e := wire.NewEncoder(msg.Object, layout.OpPushViewDimensions)
				e.PutUint32(pending.serial)
				e.PutInt32(b.x)
				e.PutInt32(b.y)
				e.PutInt32(b.w)
				e.PutInt32(b.h)
				if err := wire.WriteMessage(w, e.Bytes()); err != nil {
					return err
				}
			}
			e := wire.NewEncoder(msg.Object, layout.OpCommit)
			e.PutUint32(pending.serial)
			if err := wire.WriteMessage(w, e.Bytes()); err != nil {
				return err
			}

		case layout.OpSetIntValue:
			key, _ := d.String()
			v, _ := d.Int32()
			applyIntValue(key, v, false)

		case layout.OpModIntValue:
			key, _ := d.String()
			v, _ := d.Int32()
			applyIntValue(key, v, true)

		case layout.OpNamespaceInUse:
			return fmt.Errorf("layout namespace already in use")

		case layout.OpProtocolErrorOp:
			code, _ := d.Uint32()
			msgStr, _ := d.String()
			l.Printf("protocol error %d: %s", code, msgStr)
		}
	}
}

func applyIntValue(key string, v int32, delta bool) {
	switch key {
	case "main-ratio":
		if delta {
			masterRatio += v
		} else {
			masterRatio = v
		}
		if masterRatio < 50 {
			masterRatio = 50
		}
		if masterRatio > 950 {
			masterRatio = 950
		}
	case "main-count":
		if delta {
			masterCount += v
		} else {
			masterCount = v
		}
		if masterCount < 1 {
			masterCount = 1
		}
	}
}

type rect struct{ x, y, w, h int32 }

// masterStack lays out n views in a master column (the first
// masterCount of them, at ratio/1000 of width) and a stack filling the
// remainder, splitting each column's height evenly.
func masterStack(usableW, usableH, n int, ratio int32, masterCount int) []rect {
	if n == 0 {
		return nil
	}
	if masterCount > n {
		masterCount = n
	}
	out := make([]rect, 0, n)

	if masterCount == n {
		// Everything fits in the master column: split the full width.
		h := int32(usableH) / int32(n)
		for i := 0; i < n; i++ {
			y := int32(i) * h
			rh := h
			if i == n-1 {
				rh = int32(usableH) - y
			}
			out = append(out, rect{0, y, int32(usableW), rh})
		}
		return out
	}

	masterW := int32(usableW) * ratio / 1000
	stackW := int32(usableW) - masterW
	stackCount := n - masterCount

	if masterCount > 0 {
		h := int32(usableH) / int32(masterCount)
		for i := 0; i < masterCount; i++ {
			y := int32(i) * h
			rh := h
			if i == masterCount-1 {
				rh = int32(usableH) - y
			}
			out = append(out, rect{0, y, masterW, rh})
		}
	}
	h := int32(usableH) / int32(stackCount)
	for i := 0; i < stackCount; i++ {
		y := int32(i) * h
		rh := h
		if i == stackCount-1 {
			rh = int32(usableH) - y
		}
		out = append(out, rect{masterW, y, stackW, rh})
	}
	return out
}
