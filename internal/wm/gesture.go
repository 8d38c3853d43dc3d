package wm

import (
	"github.com/Gaurav-Gosain/folio/internal/geom"
	"github.com/Gaurav-Gosain/folio/internal/pointer"
)

// GestureKind identifies the active pointer interaction.
type GestureKind int

const (
	// Idle means no gesture is active.
	Idle GestureKind = iota
	// Dragging moves the target window with the pointer.
	Dragging
	// Resizing grows or shrinks the target window from its top-left corner.
	Resizing
)

// String returns the string representation of the gesture kind.
func (k GestureKind) String() string {
	switch k {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Gesture is the single pointer interaction a desktop may have in flight.
type Gesture struct {
	Kind   GestureKind
	Target string

	// Offset is pointer minus window top-left at drag start.
	Offset geom.Point

	// StartSize and StartPointer are captured at resize start.
	StartSize    geom.Size
	StartPointer geom.Point
}

// Active reports whether a drag or resize is in progress.
func (g Gesture) Active() bool {
	return g.Kind != Idle
}

// Gesture returns the current gesture.
func (d *Desktop) Gesture() Gesture {
	return d.gesture
}

// HandlePointer routes a normalized pointer event. Moves and releases are
// handled wherever the pointer is, so a gesture keeps tracking after the
// pointer leaves the window it started on.
func (d *Desktop) HandlePointer(ev pointer.Event) {
	switch ev.Kind {
	case pointer.Down:
		if ev.Button != pointer.Primary {
			return
		}
		d.PointerDown(ev.Point, ev.Clicks)
	case pointer.Move:
		d.PointerMove(ev.Point)
	case pointer.Up:
		d.PointerUp()
	case pointer.Cancel:
		d.Cancel()
	}
}

// PointerDown focuses the window under p and starts whatever p's region
// calls for: a control button action, a resize, a drag, or, for a double
// click on the header, a maximize toggle. It does nothing while another
// gesture is active.
func (d *Desktop) PointerDown(p geom.Point, clicks int) {
	if d.gesture.Active() {
		return
	}
	w := d.windowAt(p)
	if w == nil {
		return
	}

	d.focus(w)
	region := d.regionAt(w, p)

	switch region {
	case RegionClose:
		d.Close(w.ID)
		return
	case RegionMinimize:
		d.Minimize(w.ID)
		return
	case RegionMaximize:
		d.Maximize(w.ID)
		return
	case RegionResize:
		d.beginResize(w, p)
	case RegionHeader:
		if clicks >= 2 {
			d.Maximize(w.ID)
			return
		}
		if !w.Maximized {
			d.beginDrag(w, p)
		}
	}
	d.changed()
}

func (d *Desktop) beginDrag(w *Window, p geom.Point) {
	d.gesture = Gesture{
		Kind:   Dragging,
		Target: w.ID,
		Offset: p.Sub(w.Bounds.Min()),
	}
}

func (d *Desktop) beginResize(w *Window, p geom.Point) {
	d.gesture = Gesture{
		Kind:         Resizing,
		Target:       w.ID,
		StartSize:    w.Bounds.Size(),
		StartPointer: p,
	}
}

// PointerMove updates the active gesture. Without one it does nothing.
func (d *Desktop) PointerMove(p geom.Point) {
	w := d.byID[d.gesture.Target]
	if w == nil || w.Maximized {
		return
	}

	switch d.gesture.Kind {
	case Dragging:
		top := p.Sub(d.gesture.Offset)
		w.Bounds.X = geom.Clamp(top.X, 0, d.viewport.Width-d.limits.VisibleFloor)
		w.Bounds.Y = geom.Clamp(top.Y, 0, d.viewport.Height-d.limits.VisibleFloor)
	case Resizing:
		start := d.gesture.StartSize
		from := d.gesture.StartPointer
		w.Bounds.Width = max(d.limits.MinWidth, start.Width+(p.X-from.X))
		w.Bounds.Height = max(d.limits.MinHeight, start.Height+(p.Y-from.Y))
	default:
		return
	}
	d.view.SetBounds(w.ID, w.Bounds)
}

// PointerUp ends the active gesture. The last written bounds stay.
func (d *Desktop) PointerUp() {
	d.gesture = Gesture{}
}

// Cancel ends the active gesture when the pointer release will never
// arrive, e.g. because the terminal lost focus.
func (d *Desktop) Cancel() {
	d.PointerUp()
}
