// Package taskbar projects the desktop's windows onto a one-line bar with
// one button per open or minimized window, plus a tray with the clock and
// host usage.
package taskbar

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/folio/internal/sysinfo"
	"github.com/Gaurav-Gosain/folio/internal/theme"
	"github.com/Gaurav-Gosain/folio/internal/wm"
)

// Height is the number of terminal rows the taskbar occupies.
const Height = 1

const (
	maxTitleWidth = 20
	overflowMark  = " …"
	clockFormat   = "15:04"
)

// State is the visual class of a taskbar entry.
type State int

const (
	// Normal entries belong to open windows without focus.
	Normal State = iota
	// Active marks the focused, non-minimized window.
	Active
	// Minimized marks a window hidden from the desktop.
	Minimized
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Minimized:
		return "minimized"
	default:
		return "normal"
	}
}

// Entry is one taskbar button. It is derived from window state and never
// stored separately.
type Entry struct {
	ID    string
	Title string
	Icon  string
	State State
}

// Desktop is the part of the window manager the taskbar reads and drives.
type Desktop interface {
	Windows() []wm.Window
	Window(id string) (wm.Window, bool)
	FocusedID() string
	Open(id string)
	Minimize(id string)
	Focus(id string)
}

// Entries returns one entry per open or minimized window, in declaration
// order.
func Entries(d Desktop) []Entry {
	focused := d.FocusedID()
	var entries []Entry
	for _, w := range d.Windows() {
		if !w.OnTaskbar() {
			continue
		}
		e := Entry{ID: w.ID, Title: w.Title, Icon: w.Icon}
		switch {
		case w.Minimized:
			e.State = Minimized
		case w.ID == focused:
			e.State = Active
		}
		if e.Title == "" {
			e.Title = w.ID
		}
		entries = append(entries, e)
	}
	return entries
}

// Click applies a taskbar click: a minimized window is reopened, the
// focused window is minimized, and any other window is focused.
func Click(d Desktop, id string) {
	w, ok := d.Window(id)
	if !ok || !w.OnTaskbar() {
		return
	}
	switch {
	case w.Minimized:
		d.Open(id)
	case d.FocusedID() == id:
		d.Minimize(id)
	default:
		d.Focus(id)
	}
}

type hit struct {
	id         string
	start, end int
}

// Taskbar caches the entry projection and the cell ranges of the last
// render so clicks on the bar can be routed back to a window.
type Taskbar struct {
	desktop   Desktop
	entries   []Entry
	hits      []hit
	now       func() time.Time
	sampler   *sysinfo.Sampler
	hideClock bool
}

// Option configures a Taskbar.
type Option func(*Taskbar)

// WithClock replaces time.Now for the tray clock.
func WithClock(now func() time.Time) Option {
	return func(t *Taskbar) { t.now = now }
}

// WithSampler shows CPU and RAM usage from s in the tray.
func WithSampler(s *sysinfo.Sampler) Option {
	return func(t *Taskbar) { t.sampler = s }
}

// WithHideClock removes the clock from the tray.
func WithHideClock(hide bool) Option {
	return func(t *Taskbar) { t.hideClock = hide }
}

// New creates a taskbar over d.
func New(d Desktop, opts ...Option) *Taskbar {
	t := &Taskbar{desktop: d, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	t.Refresh()
	return t
}

// Refresh re-derives the entries from the desktop. It is idempotent and is
// meant to be the desktop's change hook.
func (t *Taskbar) Refresh() {
	if t.desktop == nil {
		return
	}
	t.entries = Entries(t.desktop)
}

// Entries returns the entries as of the last Refresh.
func (t *Taskbar) Entries() []Entry {
	return t.entries
}

// Click forwards a click on the entry with the given ID.
func (t *Taskbar) Click(id string) {
	if t.desktop == nil {
		return
	}
	Click(t.desktop, id)
}

// EntryAt returns the ID of the entry drawn at column x by the last Render.
func (t *Taskbar) EntryAt(x int) (string, bool) {
	for _, h := range t.hits {
		if x >= h.start && x < h.end {
			return h.id, true
		}
	}
	return "", false
}

// Render draws the bar at the given width. Entries that do not fit are
// replaced by an overflow mark; the tray is dropped when it would take more
// than half of the bar.
func (t *Taskbar) Render(width int) string {
	t.hits = t.hits[:0]
	if width <= 0 {
		return ""
	}

	base := lipgloss.NewStyle().
		Background(theme.TaskbarBg()).
		Foreground(theme.TaskbarFg())

	tray := t.renderTray(base)
	trayWidth := lipgloss.Width(tray)
	if trayWidth > width/2 {
		tray, trayWidth = "", 0
	}
	avail := width - trayWidth

	var b strings.Builder
	x := 0
	if avail > 0 {
		b.WriteString(base.Render(" "))
		x = 1
	}

	for i, e := range t.entries {
		label := entryLabel(e)
		w := ansi.StringWidth(label)
		sep := 0
		if i > 0 {
			sep = 1
		}
		if x+sep+w > avail {
			if x+len([]rune(overflowMark)) <= avail {
				b.WriteString(base.Foreground(theme.TaskbarMinimized()).Render(overflowMark))
				x += len([]rune(overflowMark))
			}
			break
		}
		if sep > 0 {
			b.WriteString(base.Render(" "))
			x++
		}
		b.WriteString(entryStyle(base, e.State).Render(label))
		t.hits = append(t.hits, hit{id: e.ID, start: x, end: x + w})
		x += w
	}

	if pad := width - x - trayWidth; pad > 0 {
		b.WriteString(base.Render(strings.Repeat(" ", pad)))
	}
	b.WriteString(tray)
	return b.String()
}

func entryLabel(e Entry) string {
	title := ansi.Truncate(e.Title, maxTitleWidth, "…")
	if e.Icon != "" {
		return " " + e.Icon + " " + title + " "
	}
	return " " + title + " "
}

func entryStyle(base lipgloss.Style, s State) lipgloss.Style {
	switch s {
	case Active:
		return base.
			Background(theme.TaskbarActive()).
			Foreground(theme.ButtonFg()).
			Bold(true)
	case Minimized:
		return base.
			Foreground(theme.TaskbarMinimized()).
			Italic(true)
	default:
		return base
	}
}

func (t *Taskbar) renderTray(base lipgloss.Style) string {
	var parts []string
	if t.sampler != nil {
		parts = append(parts, t.sampler.CPUGraph(), t.sampler.MemUsage())
	}
	if !t.hideClock {
		parts = append(parts, t.now().Format(clockFormat))
	}
	if len(parts) == 0 {
		return ""
	}
	return base.Foreground(theme.TaskbarTray()).Render(strings.Join(parts, "  ") + " ")
}
