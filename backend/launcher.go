// Package backend provides the deterministic simulated backend (§1/§5)
// plus the init-process launcher (§6). The capability interfaces the core
// drives are defined elsewhere (shell.Surface, output.LayerSurface).
package backend

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/waytile/waytile/logging"
)

// Launcher runs the executable init file as a process-group leader and
// signals the whole group with SIGTERM on compositor exit, per §6.
type Launcher struct {
	log *logging.Logger
	cmd *exec.Cmd
}

// NewLauncher constructs a Launcher; nothing is started until Start.
func NewLauncher() *Launcher {
	return &Launcher{log: logging.New("launcher")}
}

// Start execs path as a new process-group leader. A backend calls
// this once, after the compositor's own wire socket is ready.
func (l *Launcher) Start(path string, env []string) error {
	if path == "" {
		return nil
	}
	cmd := exec.Command(path)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("backend: starting init %q: %w", path, err)
	}
	l.cmd = cmd
	l.log.Infof("started init process %q, pid=%d", path, cmd.Process.Pid)
	return nil
}

// Shutdown sends SIGTERM to the init process's entire group, per §6.
func (l *Launcher) Shutdown() {
	if l.cmd == nil || l.cmd.Process == nil {
		return
	}
	pgid := l.cmd.Process.Pid
	if err := unix.Kill(-pgid, unix.SIGTERM); err != nil {
		l.log.Warnf("failed to signal init process group %d: %v", pgid, err)
	}
}
