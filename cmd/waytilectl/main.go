// Command waytilectl is a minimal client for the control socket in
// SPEC_FULL.md's supplemented CLI control surface: it joins its
// arguments into one command line, sends it to
// $XDG_RUNTIME_DIR/waytile-<pid>.sock, and prints the reply. The full CLI
// control utility itself is named as an out-of-scope external collaborator
// in the core specification; this is just enough of a client to drive and
// smoke-test the in-scope control.Server from a shell.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/waytile/waytile/control"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: waytilectl <pid> <command...>")
		os.Exit(2)
	}

	pid, err := strconv.Atoi(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid pid %q: %v\n", os.Args[1], err)
		os.Exit(2)
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = os.TempDir()
	}
	path := control.SocketPath(runtimeDir, pid)

	conn, err := net.Dial("unix", path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to %s: %v\n", path, err)
		os.Exit(1)
	}
	defer conn.Close()

	line := strings.Join(os.Args[2:], " ")
	if _, err := fmt.Fprintln(conn, line); err != nil {
		fmt.Fprintf(os.Stderr, "sending command: %v\n", err)
		os.Exit(1)
	}
	// Half-close so the server sees the end of input and closes the
	// connection once it has replied, ending the read loop below.
	if uc, ok := conn.(*net.UnixConn); ok {
		_ = uc.CloseWrite()
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		fmt.Println(scanner.Text())
	}
}
