package tape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Gaurav-Gosain/folio/internal/geom"
	"github.com/Gaurav-Gosain/folio/internal/taskbar"
	"github.com/Gaurav-Gosain/folio/internal/wm"
)

// ExpectationError is a failed Expect command.
type ExpectationError struct {
	Line int
	Want string
	Got  string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("line %d: expected %s, got %s", e.Line, e.Want, e.Got)
}

// Stats summarizes a run.
type Stats struct {
	Commands     int
	Expectations int
	Failed       int
	Elapsed      time.Duration
}

// Runner plays a script against a desktop without a terminal.
type Runner struct {
	desktop *wm.Desktop
	log     io.Writer
	sleep   bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLog writes one line per executed command to w.
func WithLog(w io.Writer) RunnerOption {
	return func(r *Runner) { r.log = w }
}

// WithSleep makes Sleep commands actually wait. They are skipped by
// default so regression scripts run instantly.
func WithSleep(sleep bool) RunnerOption {
	return func(r *Runner) { r.sleep = sleep }
}

// NewRunner creates a runner driving d.
func NewRunner(d *wm.Desktop, opts ...RunnerOption) *Runner {
	r := &Runner{desktop: d, log: io.Discard}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes commands in order. Failed expectations do not stop the run;
// they are joined into the returned error. Cancelling ctx stops the run
// between commands.
func (r *Runner) Run(ctx context.Context, commands []Command) (Stats, error) {
	start := time.Now()
	stats := Stats{}
	var failures []error

	for i, cmd := range commands {
		if err := ctx.Err(); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}
		_, _ = fmt.Fprintf(r.log, "[%d/%d] %s\n", i+1, len(commands), cmd)
		stats.Commands++

		if cmd.Type == CommandType_Expect {
			stats.Expectations++
			if err := r.expect(cmd); err != nil {
				stats.Failed++
				failures = append(failures, err)
				_, _ = fmt.Fprintf(r.log, "  FAIL %v\n", err)
			}
			continue
		}
		if cmd.Type == CommandType_Sleep && r.sleep {
			select {
			case <-ctx.Done():
				stats.Elapsed = time.Since(start)
				return stats, ctx.Err()
			case <-time.After(cmd.Delay):
			}
			continue
		}
		r.exec(cmd)
	}

	stats.Elapsed = time.Since(start)
	return stats, errors.Join(failures...)
}

func point(args []string) geom.Point {
	return geom.Point{X: atoi(args[0]), Y: atoi(args[1])}
}

// atoi parses operands the parser has already validated.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func (r *Runner) exec(cmd Command) {
	d := r.desktop
	switch cmd.Type {
	case CommandType_Viewport:
		d.SetViewport(atoi(cmd.Args[0]), atoi(cmd.Args[1]))
	case CommandType_Open:
		d.Open(cmd.Args[0])
	case CommandType_Close:
		d.Close(cmd.Args[0])
	case CommandType_Minimize:
		d.Minimize(cmd.Args[0])
	case CommandType_Maximize:
		d.Maximize(cmd.Args[0])
	case CommandType_Focus:
		d.Focus(cmd.Args[0])
	case CommandType_FocusNext:
		d.FocusNext()
	case CommandType_FocusPrev:
		d.FocusPrev()
	case CommandType_RestoreAll:
		d.RestoreAll()
	case CommandType_Taskbar:
		taskbar.Click(d, cmd.Args[0])
	case CommandType_Press:
		d.PointerDown(point(cmd.Args), 1)
	case CommandType_Move:
		d.PointerMove(point(cmd.Args))
	case CommandType_Release:
		d.PointerUp()
	case CommandType_DoubleClick:
		p := point(cmd.Args)
		d.PointerDown(p, 1)
		d.PointerUp()
		d.PointerDown(p, 2)
		d.PointerUp()
	case CommandType_Blur:
		d.Cancel()
	}
}

func (r *Runner) expect(cmd Command) error {
	fail := func(want, got string) error {
		return &ExpectationError{Line: cmd.Line, Want: want, Got: got}
	}

	switch kind, args := cmd.Args[0], cmd.Args[1:]; kind {
	case ExpectFocused:
		got := r.desktop.FocusedID()
		if got == "" {
			got = "none"
		}
		if got != args[0] {
			return fail("focused "+args[0], "focused "+got)
		}

	case ExpectBounds:
		w, ok := r.desktop.Window(args[0])
		if !ok {
			return fail("window "+args[0], "no such window")
		}
		want := geom.Rect{X: atoi(args[1]), Y: atoi(args[2]), Width: atoi(args[3]), Height: atoi(args[4])}
		if w.Bounds != want {
			return fail(args[0]+" bounds "+rectString(want), rectString(w.Bounds))
		}

	case ExpectState:
		w, ok := r.desktop.Window(args[0])
		if !ok {
			return fail("window "+args[0], "no such window")
		}
		if !hasState(w, args[1]) {
			return fail(args[0]+" "+args[1], describeState(w))
		}
	}
	return nil
}

func rectString(r geom.Rect) string {
	return fmt.Sprintf("%d %d %d %d", r.X, r.Y, r.Width, r.Height)
}

func hasState(w wm.Window, state string) bool {
	switch state {
	case "open":
		return w.Open
	case "closed":
		return !w.Open
	case "minimized":
		return w.Minimized
	case "maximized":
		return w.Maximized
	}
	return false
}

func describeState(w wm.Window) string {
	switch {
	case !w.Open:
		return "closed"
	case w.Minimized:
		return "minimized"
	case w.Maximized:
		return "maximized"
	default:
		return "open"
	}
}
