package wm

import "github.com/Gaurav-Gosain/folio/internal/geom"

// WindowView receives rendering updates from the desktop. The desktop never
// reads anything back from it.
type WindowView interface {
	SetBounds(id string, bounds geom.Rect)
	SetZOrder(id string, z int)
	SetVisualState(id string, state VisualState)
}

type nopView struct{}

func (nopView) SetBounds(string, geom.Rect) {}
func (nopView) SetZOrder(string, int) {}
func (nopView) SetVisualState(string, VisualState) {}
