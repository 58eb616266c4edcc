// Command waytiled is the compositor daemon entry point. Until a real
// Wayland/DRM backend is wired in (an external collaborator per the core
// specification's scope), it runs on top of backend.Simulated so the full
// transaction/focus/cursor/control stack in this repo can be exercised
// end to end from process start.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/waytile/waytile/backend"
	"github.com/waytile/waytile/box"
	"github.com/waytile/waytile/config"
	"github.com/waytile/waytile/control"
	"github.com/waytile/waytile/cursor"
	"github.com/waytile/waytile/logging"
	"github.com/waytile/waytile/seat"
	"github.com/waytile/waytile/view"
)

func main() {
	log := logging.New("waytiled")

	xkb := config.XKBFromEnv()
	log.Infof("xkb layout=%q variant=%q rules=%q", xkb.Layout, xkb.Variant, xkb.Rules)

	themeName := cursor.ThemeNameFromEnv()
	themeSize := cursor.SizeFromEnv()
	if err := config.ExportCursorEnv(themeName, themeSize); err != nil {
		log.Warnf("exporting cursor theme env: %v", err)
	}

	b := backend.NewSimulated()
	o := b.AddOutput(1, box.Box{X: 0, Y: 0, Width: 1920, Height: 1080})

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = os.TempDir()
	}
	sockPath := control.SocketPath(runtimeDir, os.Getpid())
	srv, err := control.Listen(sockPath, func() control.Context {
		var focused *view.View
		if f := b.Input.Seat().Focused(); f.Kind == seat.TargetView {
			focused = f.View
		}
		return control.Context{Root: b.Root, Seat: b.Input.Seat(), Output: o, View: focused}
	})
	if err != nil {
		log.Fatalf("starting control socket: %v", err)
	}
	defer srv.Close()
	log.Infof("control socket listening at %s", sockPath)

	go func() {
		if err := srv.Serve(); err != nil {
			log.Warnf("control socket closed: %v", err)
		}
	}()

	launcher := backend.NewLauncher()
	if init := config.FindInit(); init != "" {
		log.Infof("running init file %s", init)
		env := append(os.Environ(), fmt.Sprintf("WAYTILE_CONTROL_SOCKET=%s", sockPath))
		if err := launcher.Start(init, env); err != nil {
			log.Warnf("running init file: %v", err)
		}
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	log.Infof("shutting down")
	launcher.Shutdown()
}
