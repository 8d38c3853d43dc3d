package app

import (
	"charm.land/lipgloss/v2"

	"github.com/Gaurav-Gosain/folio/internal/geom"
	"github.com/Gaurav-Gosain/folio/internal/wm"
)

// windowLayer is the renderer's copy of one window's geometry and state,
// kept current by the desktop through the WindowView methods.
type windowLayer struct {
	bounds geom.Rect
	state  wm.VisualState

	cached *lipgloss.Layer
	dirty  bool
}

// layerView implements wm.WindowView by caching one lipgloss layer per
// window and invalidating it when the desktop reports a change.
type layerView struct {
	layers map[string]*windowLayer
}

func newLayerView() *layerView {
	return &layerView{layers: make(map[string]*windowLayer)}
}

func (v *layerView) get(id string) *windowLayer {
	l := v.layers[id]
	if l == nil {
		l = &windowLayer{dirty: true}
		v.layers[id] = l
	}
	return l
}

func (v *layerView) SetBounds(id string, bounds geom.Rect) {
	l := v.get(id)
	if l.bounds != bounds {
		l.bounds = bounds
		l.dirty = true
	}
}

// SetZOrder is a no-op: Render stacks layers by their rank in
// Desktop.Stack, and a change of rank needs no redraw.
func (v *layerView) SetZOrder(string, int) {}

func (v *layerView) SetVisualState(id string, state wm.VisualState) {
	l := v.get(id)
	if l.state != state {
		l.state = state
		l.dirty = true
	}
}

// invalidate forces every window to be redrawn, e.g. after a theme change
// or terminal resize.
func (v *layerView) invalidate() {
	for _, l := range v.layers {
		l.dirty = true
	}
}
