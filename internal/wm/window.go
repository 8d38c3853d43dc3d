package wm

import "github.com/Gaurav-Gosain/folio/internal/geom"

// WindowSpec declares a window at desktop construction time.
type WindowSpec struct {
	ID     string
	Title  string
	Icon   string
	Body   string
	Bounds geom.Rect
	Open   bool // open at startup
}

// Window is the registry's record for one declared window.
type Window struct {
	ID    string
	Title string
	Icon  string
	Body  string

	Open      bool
	Minimized bool
	Maximized bool
	Focused   bool

	// Z is the stacking rank; higher draws above lower.
	Z int

	// Bounds is the current geometry. While maximized it equals the viewport.
	Bounds geom.Rect
	// Saved holds the geometry captured right before maximizing.
	Saved *geom.Rect
}

// Visible reports whether the window is drawn on the desktop.
func (w *Window) Visible() bool {
	return w.Open && !w.Minimized
}

// OnTaskbar reports whether the window has a taskbar entry.
func (w *Window) OnTaskbar() bool {
	return w.Open || w.Minimized
}

func (w *Window) snapshot() Window {
	c := *w
	if w.Saved != nil {
		saved := *w.Saved
		c.Saved = &saved
	}
	return c
}

// VisualState is what a WindowView needs to know to style a window.
type VisualState struct {
	Visible   bool
	Minimized bool
	Maximized bool
	Focused   bool
}

func (w *Window) visualState() VisualState {
	return VisualState{
		Visible:   w.Visible(),
		Minimized: w.Minimized,
		Maximized: w.Maximized,
		Focused:   w.Focused,
	}
}
