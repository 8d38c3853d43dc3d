package wm

import (
	"slices"

	"github.com/Gaurav-Gosain/folio/internal/geom"
)

// Default limits, in desktop units.
const (
	DefaultMinWidth     = 300
	DefaultMinHeight    = 200
	DefaultVisibleFloor = 100
	DefaultHotZone      = 20
	DefaultHeaderHeight = 16
	DefaultButtonWidth  = 24
)

// Limits holds the geometry constants the desktop enforces.
type Limits struct {
	MinWidth  int
	MinHeight int
	// VisibleFloor is how much of a window must stay inside the viewport
	// while dragging.
	VisibleFloor int
	// HotZone is the side of the square resize zone at a window's
	// bottom-right corner.
	HotZone      int
	HeaderHeight int
	ButtonWidth  int
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{
		MinWidth:     DefaultMinWidth,
		MinHeight:    DefaultMinHeight,
		VisibleFloor: DefaultVisibleFloor,
		HotZone:      DefaultHotZone,
		HeaderHeight: DefaultHeaderHeight,
		ButtonWidth:  DefaultButtonWidth,
	}
}

// Desktop owns the window registry, the z-order counter and the active
// gesture. It is not safe for concurrent use; each desktop belongs to a
// single event loop.
type Desktop struct {
	windows  []*Window
	byID     map[string]*Window
	focused  *Window
	zCounter int
	viewport geom.Size
	limits   Limits
	gesture  Gesture
	view     WindowView
	onChange func()
}

// Option configures a Desktop.
type Option func(*Desktop)

// WithLimits overrides the default limits. Zero fields keep their default.
func WithLimits(l Limits) Option {
	return func(d *Desktop) {
		def := DefaultLimits()
		if l.MinWidth <= 0 {
			l.MinWidth = def.MinWidth
		}
		if l.MinHeight <= 0 {
			l.MinHeight = def.MinHeight
		}
		if l.VisibleFloor <= 0 {
			l.VisibleFloor = def.VisibleFloor
		}
		if l.HotZone <= 0 {
			l.HotZone = def.HotZone
		}
		if l.HeaderHeight <= 0 {
			l.HeaderHeight = def.HeaderHeight
		}
		if l.ButtonWidth <= 0 {
			l.ButtonWidth = def.ButtonWidth
		}
		d.limits = l
	}
}

// WithView attaches the renderer.
func WithView(v WindowView) Option {
	return func(d *Desktop) {
		if v != nil {
			d.view = v
		}
	}
}

// WithViewport sets the initial viewport size.
func WithViewport(width, height int) Option {
	return func(d *Desktop) { d.viewport = geom.Size{Width: width, Height: height} }
}

// OnChange registers the hook run after every state-changing operation.
// The taskbar uses it to re-render.
func OnChange(fn func()) Option {
	return func(d *Desktop) { d.onChange = fn }
}

// New creates a desktop holding one window per spec. Specs with duplicate
// or empty IDs are skipped. Every window gets a distinct initial z-order in
// declaration order, then windows declared open are opened in that order,
// leaving the last of them focused.
func New(specs []WindowSpec, opts ...Option) *Desktop {
	d := &Desktop{
		byID:   make(map[string]*Window, len(specs)),
		limits: DefaultLimits(),
		view:   nopView{},
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, s := range specs {
		if s.ID == "" {
			continue
		}
		if _, dup := d.byID[s.ID]; dup {
			continue
		}
		d.zCounter++
		w := &Window{
			ID:     s.ID,
			Title:  s.Title,
			Icon:   s.Icon,
			Body:   s.Body,
			Z:      d.zCounter,
			Bounds: d.fitMinimum(s.Bounds),
		}
		d.windows = append(d.windows, w)
		d.byID[w.ID] = w
	}

	for _, s := range specs {
		if s.Open {
			if w := d.byID[s.ID]; w != nil && !w.Open {
				d.open(w)
			}
		}
	}

	d.syncAll()
	return d
}

func (d *Desktop) fitMinimum(r geom.Rect) geom.Rect {
	r.Width = max(r.Width, d.limits.MinWidth)
	r.Height = max(r.Height, d.limits.MinHeight)
	return r
}

// Limits returns the enforced limits.
func (d *Desktop) Limits() Limits {
	return d.limits
}

// Viewport returns the current viewport size.
func (d *Desktop) Viewport() geom.Size {
	return d.viewport
}

// SetViewport records a new viewport size. Maximized windows follow it.
func (d *Desktop) SetViewport(width, height int) {
	d.viewport = geom.Size{Width: width, Height: height}
	for _, w := range d.windows {
		if w.Maximized {
			w.Bounds = d.viewportRect()
		}
	}
	d.changed()
}

func (d *Desktop) viewportRect() geom.Rect {
	return geom.Rect{Width: d.viewport.Width, Height: d.viewport.Height}
}

// Open shows the window, un-minimizes it and focuses it.
func (d *Desktop) Open(id string) {
	w := d.byID[id]
	if w == nil {
		return
	}
	d.open(w)
	d.changed()
}

func (d *Desktop) open(w *Window) {
	w.Open = true
	w.Minimized = false
	d.focus(w)
}

// Close hides the window and clears its minimized, maximized and focused
// flags. A maximized window gets its saved geometry back so that it
// reopens where it was.
func (d *Desktop) Close(id string) {
	w := d.byID[id]
	if w == nil {
		return
	}
	if d.gesture.Target == w.ID {
		d.gesture = Gesture{}
	}
	if w.Maximized {
		d.restore(w)
	}
	w.Open = false
	w.Minimized = false
	d.blur(w)
	d.changed()
}

// Minimize hides the window while keeping it open and on the taskbar.
// Closed windows stay closed; minimizing one does nothing.
func (d *Desktop) Minimize(id string) {
	w := d.byID[id]
	if w == nil || !w.Open {
		return
	}
	if d.gesture.Target == w.ID {
		d.gesture = Gesture{}
	}
	w.Minimized = true
	d.blur(w)
	d.changed()
}

// Maximize toggles the window between its normal geometry and the full
// viewport. Maximize followed by Maximize restores the exact prior bounds.
// A drag or resize on the window ends either way.
func (d *Desktop) Maximize(id string) {
	w := d.byID[id]
	if w == nil {
		return
	}
	if d.gesture.Target == w.ID {
		d.gesture = Gesture{}
	}
	if w.Maximized {
		d.restore(w)
	} else {
		saved := w.Bounds
		w.Saved = &saved
		w.Maximized = true
		w.Bounds = d.viewportRect()
	}
	d.changed()
}

func (d *Desktop) restore(w *Window) {
	if w.Saved != nil {
		w.Bounds = *w.Saved
	}
	w.Saved = nil
	w.Maximized = false
}

// Focus makes the window the focused one and raises it above every other
// window. Closed and minimized windows cannot take focus; use Open.
func (d *Desktop) Focus(id string) {
	w := d.byID[id]
	if w == nil || !w.Visible() {
		return
	}
	d.focus(w)
	d.changed()
}

func (d *Desktop) focus(w *Window) {
	if d.focused != nil && d.focused != w {
		d.focused.Focused = false
	}
	d.zCounter++
	w.Z = d.zCounter
	w.Focused = true
	d.focused = w
}

func (d *Desktop) blur(w *Window) {
	w.Focused = false
	if d.focused == w {
		d.focused = nil
	}
}

// FocusNext focuses the next visible window after the focused one, in
// declaration order, wrapping around.
func (d *Desktop) FocusNext() {
	d.cycle(1)
}

// FocusPrev focuses the previous visible window, wrapping around.
func (d *Desktop) FocusPrev() {
	d.cycle(-1)
}

func (d *Desktop) cycle(step int) {
	var visible []*Window
	current := -1
	for _, w := range d.windows {
		if !w.Visible() {
			continue
		}
		if w == d.focused {
			current = len(visible)
		}
		visible = append(visible, w)
	}
	if len(visible) == 0 {
		return
	}

	next := 0
	if current >= 0 {
		next = (current + step + len(visible)) % len(visible)
	} else if step < 0 {
		next = len(visible) - 1
	}
	d.focus(visible[next])
	d.changed()
}

// RestoreAll opens every minimized window, in declaration order.
func (d *Desktop) RestoreAll() {
	restored := false
	for _, w := range d.windows {
		if w.Minimized {
			d.open(w)
			restored = true
		}
	}
	if restored {
		d.changed()
	}
}

// FocusedID returns the focused window's ID, or "" when no window has focus.
func (d *Desktop) FocusedID() string {
	if d.focused == nil {
		return ""
	}
	return d.focused.ID
}

// Window returns a snapshot of the window with the given ID.
func (d *Desktop) Window(id string) (Window, bool) {
	w := d.byID[id]
	if w == nil {
		return Window{}, false
	}
	return w.snapshot(), true
}

// Windows returns snapshots of every window in declaration order.
func (d *Desktop) Windows() []Window {
	out := make([]Window, 0, len(d.windows))
	for _, w := range d.windows {
		out = append(out, w.snapshot())
	}
	return out
}

// Stack returns the IDs of visible windows from bottom to top.
func (d *Desktop) Stack() []string {
	visible := make([]*Window, 0, len(d.windows))
	for _, w := range d.windows {
		if w.Visible() {
			visible = append(visible, w)
		}
	}
	slices.SortFunc(visible, func(a, b *Window) int { return a.Z - b.Z })

	ids := make([]string, len(visible))
	for i, w := range visible {
		ids[i] = w.ID
	}
	return ids
}

// changed pushes state to the view and runs the change hook.
func (d *Desktop) changed() {
	d.syncAll()
	if d.onChange != nil {
		d.onChange()
	}
}

func (d *Desktop) syncAll() {
	for _, w := range d.windows {
		d.view.SetBounds(w.ID, w.Bounds)
		d.view.SetZOrder(w.ID, w.Z)
		d.view.SetVisualState(w.ID, w.visualState())
	}
}
