// Package control implements the CLI control surface §6 names by command
// but leaves the transport unspecified: a line-oriented request/response
// protocol over a Unix domain socket at
// $XDG_RUNTIME_DIR/waytile-<pid>.sock, mirroring the teacher's
// "socket/tempfile lives under the runtime directory" convention.
package control

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/waytile/waytile/layout/wire"
	"github.com/waytile/waytile/logging"
	"github.com/waytile/waytile/output"
	"github.com/waytile/waytile/root"
	"github.com/waytile/waytile/seat"
	"github.com/waytile/waytile/view"
)

// SocketPath returns the conventional control-socket path for pid under
// runtimeDir (normally os.Getenv("XDG_RUNTIME_DIR")).
func SocketPath(runtimeDir string, pid int) string {
	return fmt.Sprintf("%s/waytile-%d.sock", runtimeDir, pid)
}

// Context is the subset of compositor state a command needs: the focused
// output/view (as the CLI utility specifies, or the seat's defaults), the
// seat, and Root to request the resulting arrangement.
type Context struct {
	Root   *root.Root
	Seat   *seat.Seat
	Output *output.Output
	View   *view.View // nil if no view is focused
}

// Server listens on a Unix socket and runs one command per line, per §6's
// "all take effect in the next transaction": every handler mutates pending
// state, and view-level tag/float/fullscreen changes go through
// View.ApplyPending so current reflects them immediately per §4.2, only
// requesting an arrangement (ctx.Root.Arrange) when that actually changes
// what the layout would produce.
type Server struct {
	log      *logging.Logger
	listener net.Listener
	ctx      func() Context
}

// Listen binds path (removing any stale socket file first, the usual
// Unix-domain-socket hygiene) and returns a Server ready to Serve.
// ctxFn is called once per command line to capture the compositor's
// current output/seat/view.
func Listen(path string, ctxFn func() Context) (*Server, error) {
	_ = os.Remove(path)
	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("control: listening on %q: %w", path, err)
	}
	return &Server{log: logging.New("control"), listener: l, ctx: ctxFn}, nil
}

// Close stops accepting connections and removes the socket file.
func (s *Server) Close() error {
	return s.listener.Close()
}

// Serve accepts connections until the listener closes. Each connection is
// handled to completion in the caller's goroutine before the next one is
// accepted. Handlers touch Root/Output/Seat/View directly, with no
// locking or hand-off to another goroutine.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply := s.dispatch(s.ctx(), line)
		fmt.Fprintln(conn, reply)
	}
}

// dispatch runs one command line and returns the response text. Unknown
// commands and malformed arguments are configuration errors per §7: a
// message back to the caller, no state change.
func (s *Server) dispatch(ctx Context, line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "error: empty command"
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "set-focused-tags":
		return s.withTagArg(args, func(mask uint32) string {
			if !ctx.Output.SetTags(mask) {
				return "error: tags would be zero, ignored"
			}
			ctx.Root.Arrange()
			return "ok"
		})
	case "toggle-focused-tags":
		return s.withTagArg(args, func(mask uint32) string {
			if !ctx.Output.ToggleTags(mask) {
				return "error: tags would be zero, ignored"
			}
			ctx.Root.Arrange()
			return "ok"
		})
	case "set-view-tags":
		return s.withView(ctx, func(v *view.View) string {
			return s.withTagArg(args, func(mask uint32) string {
				if !v.SetTags(mask) {
					return "error: tags would be zero, ignored"
				}
				if v.ApplyPending() {
					ctx.Root.Arrange()
				}
				return "ok"
			})
		})
	case "toggle-view-tags":
		return s.withView(ctx, func(v *view.View) string {
			return s.withTagArg(args, func(mask uint32) string {
				if !v.ToggleTags(mask) {
					return "error: tags would be zero, ignored"
				}
				if v.ApplyPending() {
					ctx.Root.Arrange()
				}
				return "ok"
			})
		})
	case "spawn-tagmask":
		return s.withTagArg(args, func(mask uint32) string {
			ctx.Output.SetSpawnTagmask(mask)
			return "ok"
		})
	case "close":
		return s.withView(ctx, func(v *view.View) string {
			v.Close()
			return "ok"
		})
	case "toggle-float":
		return s.withView(ctx, func(v *view.View) string {
			v.SetFloat(!v.Pending().Float)
			if v.ApplyPending() {
				ctx.Root.Arrange()
			}
			return "ok"
		})
	case "toggle-fullscreen":
		return s.withView(ctx, func(v *view.View) string {
			v.SetFullscreen(!v.Pending().Fullscreen)
			if v.ApplyPending() {
				ctx.Root.Arrange()
			}
			return "ok"
		})
	case "focus-view":
		return s.withView(ctx, func(v *view.View) string {
			ctx.Seat.FocusView(ctx.Output, v, 0)
			return "ok"
		})
	case "default-layout", "output-layout":
		return s.dumpLayout(ctx, args)
	case "set-layout-value":
		return s.setTunable(ctx, args, false)
	case "mod-layout-value":
		return s.setTunable(ctx, args, true)
	default:
		return fmt.Sprintf("error: unknown command %q", cmd)
	}
}

func (s *Server) withTagArg(args []string, f func(mask uint32) string) string {
	if len(args) != 1 {
		return "error: expected exactly one tag mask argument"
	}
	mask, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		return fmt.Sprintf("error: invalid tag mask %q", args[0])
	}
	return f(uint32(mask))
}

func (s *Server) withView(ctx Context, f func(v *view.View) string) string {
	if ctx.View == nil {
		return "error: no focused view"
	}
	return f(ctx.View)
}

// dumpLayout implements the supplemented layout tunable introspection:
// with no arguments, the namespace and current tunables are dumped as
// YAML.
func (s *Server) dumpLayout(ctx Context, args []string) string {
	namespace := ctx.Output.Pending().LayoutNamespace
	if len(args) == 1 {
		namespace = args[0]
		ctx.Output.SetActiveLayout(namespace)
		ctx.Root.Arrange()
		return "ok"
	}
	client, ok := ctx.Output.GetLayoutByName(namespace)
	if !ok {
		return fmt.Sprintf("error: no layout bound under namespace %q", namespace)
	}
	dump := struct {
		Namespace string         `yaml:"namespace"`
		Tunables  map[string]any `yaml:"tunables"`
	}{Namespace: namespace, Tunables: client.Tunables()}
	out, err := yaml.Marshal(dump)
	if err != nil {
		return fmt.Sprintf("error: marshaling tunables: %v", err)
	}
	return string(out)
}

func (s *Server) setTunable(ctx Context, args []string, delta bool) string {
	if len(args) != 3 {
		return "error: expected <namespace> <key> <type:value>"
	}
	namespace, key, typed := args[0], args[1], args[2]
	client, ok := ctx.Output.GetLayoutByName(namespace)
	if !ok {
		return fmt.Sprintf("error: no layout bound under namespace %q", namespace)
	}
	value, err := parseTunable(typed)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if delta {
		client.ModTunable(key, value)
	} else {
		client.SetTunable(key, value)
	}
	ctx.Root.Arrange()
	return "ok"
}

// parseTunable reads a "<kind>:<value>" argument, kind one of
// int/fixed/string, per §6's {int, fixed, string} tunable parameterization.
func parseTunable(s string) (any, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected <kind>:<value>, got %q", s)
	}
	kind, raw := parts[0], parts[1]
	switch kind {
	case "int":
		n, err := strconv.ParseInt(raw, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid int %q", raw)
		}
		return int32(n), nil
	case "fixed":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fixed %q", raw)
		}
		return wire.Fixed(f * 256), nil
	case "string":
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown tunable kind %q", kind)
	}
}
