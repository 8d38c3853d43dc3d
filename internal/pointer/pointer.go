// Package pointer turns mouse and touch input into a single stream of
// pointer events in desktop units.
package pointer

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/folio/internal/geom"
)

// Kind identifies the phase of a pointer event.
type Kind int

const (
	// Down starts an interaction.
	Down Kind = iota + 1
	// Move reports a new pointer position.
	Move
	// Up ends an interaction.
	Up
	// Cancel ends an interaction without a position, e.g. on focus loss.
	Cancel
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Button identifies the pressed button. Touch input always reports Primary.
type Button int

const (
	NoButton Button = iota
	Primary
	Secondary
	Middle
)

// Event is a normalized pointer event.
type Event struct {
	Kind   Kind
	Point  geom.Point // desktop units
	Cell   geom.Point // terminal cell the event came from
	Button Button
	// Clicks is 2 for the second press of a double click, 1 otherwise.
	// Only meaningful for Down events.
	Clicks int
	Touch  bool
}

// TouchPhase is the phase reported by a touch front end.
type TouchPhase int

const (
	TouchStart TouchPhase = iota
	TouchMove
	TouchEnd
	TouchCancel
)

// TouchMsg carries a single-finger touch event in cell coordinates. The
// bundled SSH and web front ends never produce it: in the browser a tap
// reaches the session as an ordinary mouse click through sip. Embedders
// with raw touch input can deliver it to a session with tea.Program.Send.
type TouchMsg struct {
	Phase TouchPhase
	X     int
	Y     int
}

// DefaultDoubleClick is the longest gap between two presses that still
// counts as a double click.
const DefaultDoubleClick = 400 * time.Millisecond

// Tracker converts input messages into Events.
type Tracker struct {
	scale       geom.Scale
	doubleClick time.Duration
	now         func() time.Time

	lastPress time.Time
	lastCell  geom.Point
	clicks    int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithScale sets the cell to unit scale.
func WithScale(s geom.Scale) Option {
	return func(t *Tracker) { t.scale = s }
}

// WithDoubleClick sets the double click interval. Zero disables double
// click detection.
func WithDoubleClick(d time.Duration) Option {
	return func(t *Tracker) { t.doubleClick = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker returns a tracker using DefaultScale and DefaultDoubleClick
// unless overridden.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		scale:       geom.DefaultScale,
		doubleClick: DefaultDoubleClick,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Scale returns the tracker's cell scale.
func (t *Tracker) Scale() geom.Scale {
	return t.scale
}

// Translate converts msg into an Event. It reports false for messages that
// are not pointer input.
func (t *Tracker) Translate(msg tea.Msg) (Event, bool) {
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		m := msg.Mouse()
		return t.press(geom.Point{X: m.X, Y: m.Y}, button(m.Button), false), true
	case tea.MouseMotionMsg:
		m := msg.Mouse()
		return t.event(Move, geom.Point{X: m.X, Y: m.Y}, button(m.Button), false), true
	case tea.MouseReleaseMsg:
		m := msg.Mouse()
		return t.event(Up, geom.Point{X: m.X, Y: m.Y}, button(m.Button), false), true
	case TouchMsg:
		cell := geom.Point{X: msg.X, Y: msg.Y}
		switch msg.Phase {
		case TouchStart:
			return t.press(cell, Primary, true), true
		case TouchMove:
			return t.event(Move, cell, Primary, true), true
		case TouchEnd:
			return t.event(Up, cell, Primary, true), true
		default:
			return Event{Kind: Cancel, Touch: true}, true
		}
	case tea.BlurMsg:
		return Event{Kind: Cancel}, true
	}
	return Event{}, false
}

func (t *Tracker) event(kind Kind, cell geom.Point, b Button, touch bool) Event {
	return Event{
		Kind:   kind,
		Point:  t.scale.ToUnits(cell),
		Cell:   cell,
		Button: b,
		Touch:  touch,
	}
}

func (t *Tracker) press(cell geom.Point, b Button, touch bool) Event {
	ev := t.event(Down, cell, b, touch)
	now := t.now()

	if b == Primary && t.doubleClick > 0 && t.clicks == 1 &&
		cell == t.lastCell && now.Sub(t.lastPress) <= t.doubleClick {
		ev.Clicks = 2
		t.clicks = 0
		t.lastPress = time.Time{}
		return ev
	}

	ev.Clicks = 1
	if b == Primary {
		t.clicks = 1
		t.lastPress = now
		t.lastCell = cell
	} else {
		t.clicks = 0
	}
	return ev
}

func button(b tea.MouseButton) Button {
	switch b {
	case tea.MouseLeft:
		return Primary
	case tea.MouseRight:
		return Secondary
	case tea.MouseMiddle:
		return Middle
	default:
		return NoButton
	}
}
