package wm

import "github.com/Gaurav-Gosain/folio/internal/geom"

// Region identifies the part of a window under a point.
type Region int

const (
	RegionNone Region = iota
	RegionBody
	RegionHeader
	RegionClose
	RegionMaximize
	RegionMinimize
	RegionResize
)

// String returns the string representation of the region.
func (r Region) String() string {
	switch r {
	case RegionBody:
		return "body"
	case RegionHeader:
		return "header"
	case RegionClose:
		return "close"
	case RegionMaximize:
		return "maximize"
	case RegionMinimize:
		return "minimize"
	case RegionResize:
		return "resize"
	default:
		return "none"
	}
}

// WindowAt returns the ID of the topmost visible window containing p.
func (d *Desktop) WindowAt(p geom.Point) (string, bool) {
	if w := d.windowAt(p); w != nil {
		return w.ID, true
	}
	return "", false
}

func (d *Desktop) windowAt(p geom.Point) *Window {
	var top *Window
	for _, w := range d.windows {
		if !w.Visible() || !w.Bounds.Contains(p) {
			continue
		}
		if top == nil || w.Z > top.Z {
			top = w
		}
	}
	return top
}

// RegionAt classifies p against the window with the given ID.
func (d *Desktop) RegionAt(id string, p geom.Point) Region {
	w := d.byID[id]
	if w == nil || !w.Visible() {
		return RegionNone
	}
	return d.regionAt(w, p)
}

// regionAt checks the control buttons first, then the resize corner, then
// the header. On windows shorter than HeaderHeight+HotZone the corner zone
// and the header overlap; the corner wins there.
func (d *Desktop) regionAt(w *Window, p geom.Point) Region {
	r := w.Bounds
	if !r.Contains(p) {
		return RegionNone
	}
	l := d.limits
	right := r.X + r.Width
	bottom := r.Y + r.Height

	if p.Y < r.Y+l.HeaderHeight {
		switch {
		case p.X >= right-l.ButtonWidth:
			return RegionClose
		case p.X >= right-2*l.ButtonWidth:
			return RegionMaximize
		case p.X >= right-3*l.ButtonWidth:
			return RegionMinimize
		}
	}

	if !w.Maximized && p.X >= right-l.HotZone && p.Y >= bottom-l.HotZone {
		return RegionResize
	}

	if p.Y < r.Y+l.HeaderHeight {
		return RegionHeader
	}
	return RegionBody
}
