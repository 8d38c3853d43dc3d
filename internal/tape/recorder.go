package tape

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Gaurav-Gosain/folio/internal/pointer"
	"github.com/Gaurav-Gosain/folio/internal/wm"
)

// DefaultMinSleep is the shortest pause between two events that is written
// out as a Sleep command.
const DefaultMinSleep = 100 * time.Millisecond

// Recorder records desktop interactions as tape commands. It is not safe
// for concurrent use; a session records from its own update loop.
type Recorder struct {
	commands  []Command
	startTime time.Time
	lastEvent time.Time
	now       func() time.Time
	minSleep  time.Duration

	// dropRelease swallows the Up that follows a recorded DoubleClick.
	dropRelease bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderClock replaces time.Now.
func WithRecorderClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// WithMinSleep sets the shortest pause recorded as Sleep. Zero records no
// pauses at all.
func WithMinSleep(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.minSleep = d }
}

// NewRecorder creates a new tape recorder
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{now: time.Now, minSleep: DefaultMinSleep}
	for _, opt := range opts {
		opt(r)
	}
	r.startTime = r.now()
	r.lastEvent = r.startTime
	return r
}

func (r *Recorder) add(typ CommandType, args ...string) {
	now := r.now()
	if gap := now.Sub(r.lastEvent); r.minSleep > 0 && gap >= r.minSleep && len(r.commands) > 0 {
		gap = gap.Round(10 * time.Millisecond)
		r.commands = append(r.commands, Command{
			Type:  CommandType_Sleep,
			Args:  []string{gap.String()},
			Delay: gap,
			Line:  len(r.commands) + 1,
		})
	}
	r.lastEvent = now
	r.commands = append(r.commands, Command{Type: typ, Args: args, Line: len(r.commands) + 1})
}

func (r *Recorder) last() *Command {
	if len(r.commands) == 0 {
		return nil
	}
	return &r.commands[len(r.commands)-1]
}

// RecordViewport records a viewport change in desktop units.
func (r *Recorder) RecordViewport(width, height int) {
	if c := r.last(); c != nil && c.Type == CommandType_Viewport {
		c.Args = []string{strconv.Itoa(width), strconv.Itoa(height)}
		return
	}
	r.add(CommandType_Viewport, strconv.Itoa(width), strconv.Itoa(height))
}

// RecordAction records a desktop operation. Window operations take the
// target window ID; FocusNext, FocusPrev and RestoreAll take none.
func (r *Recorder) RecordAction(typ CommandType, id ...string) {
	r.add(typ, id...)
}

// RecordPointer records a pointer event that was delivered to the desktop.
// Consecutive moves collapse into the last one, and a press with Clicks 2
// turns the preceding click into a DoubleClick.
func (r *Recorder) RecordPointer(ev pointer.Event) {
	x, y := strconv.Itoa(ev.Point.X), strconv.Itoa(ev.Point.Y)
	switch ev.Kind {
	case pointer.Down:
		if ev.Button != pointer.Primary {
			return
		}
		if ev.Clicks >= 2 && r.collapseDoubleClick(x, y) {
			return
		}
		r.add(CommandType_Press, x, y)
	case pointer.Move:
		if c := r.last(); c != nil && c.Type == CommandType_Move {
			c.Args = []string{x, y}
			r.lastEvent = r.now()
			return
		}
		r.add(CommandType_Move, x, y)
	case pointer.Up:
		if r.dropRelease {
			r.dropRelease = false
			return
		}
		r.add(CommandType_Release)
	case pointer.Cancel:
		r.dropRelease = false
		r.add(CommandType_Blur)
	}
}

// collapseDoubleClick rewrites a trailing "Press x y, Release" into a
// single DoubleClick.
func (r *Recorder) collapseDoubleClick(x, y string) bool {
	n := len(r.commands)
	if n < 2 {
		return false
	}
	press, release := r.commands[n-2], r.commands[n-1]
	if press.Type != CommandType_Press || release.Type != CommandType_Release {
		return false
	}
	r.commands[n-2] = Command{Type: CommandType_DoubleClick, Args: []string{x, y}, Line: press.Line}
	r.commands = r.commands[:n-1]
	r.dropRelease = true
	r.lastEvent = r.now()
	return true
}

// RecordSnapshot appends expectations describing the current state of d, so
// replaying the tape checks that the desktop ends up the same way.
func (r *Recorder) RecordSnapshot(d *wm.Desktop) {
	for _, w := range d.Windows() {
		r.commands = append(r.commands, Command{
			Type: CommandType_Expect,
			Args: []string{ExpectState, w.ID, describeState(w)},
			Line: len(r.commands) + 1,
		})
		if w.Open {
			r.commands = append(r.commands, Command{
				Type: CommandType_Expect,
				Args: append([]string{ExpectBounds, w.ID}, strings.Fields(rectString(w.Bounds))...),
				Line: len(r.commands) + 1,
			})
		}
	}
	focused := d.FocusedID()
	if focused == "" {
		focused = "none"
	}
	r.commands = append(r.commands, Command{
		Type: CommandType_Expect,
		Args: []string{ExpectFocused, focused},
		Line: len(r.commands) + 1,
	})
}

// Commands returns all recorded commands
func (r *Recorder) Commands() []Command {
	return r.commands
}

// CommandCount returns the number of recorded commands
func (r *Recorder) CommandCount() int {
	return len(r.commands)
}

// Clear clears all recorded commands
func (r *Recorder) Clear() {
	r.commands = nil
	r.dropRelease = false
	r.startTime = r.now()
	r.lastEvent = r.startTime
}

// String returns the tape content as a formatted string
func (r *Recorder) String(header string) string {
	var sb strings.Builder
	if header != "" {
		fmt.Fprintf(&sb, "# %s\n", header)
		fmt.Fprintf(&sb, "# Recorded: %s\n\n", r.startTime.Format(time.RFC3339))
	}
	for _, cmd := range r.commands {
		sb.WriteString(cmd.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteToFile saves the recorded tape to a file
func (r *Recorder) WriteToFile(filename string, header string) error {
	return os.WriteFile(filename, []byte(r.String(header)), 0o644)
}
