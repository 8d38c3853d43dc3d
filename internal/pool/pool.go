// Package pool provides sync.Pool backed buffers for the render path, which
// runs on every frame.
package pool

import (
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
)

var stringBuilderPool = sync.Pool{
	New: func() any { return new(strings.Builder) },
}

// GetStringBuilder returns an empty builder.
func GetStringBuilder() *strings.Builder {
	return stringBuilderPool.Get().(*strings.Builder)
}

// PutStringBuilder resets sb and returns it to the pool.
func PutStringBuilder(sb *strings.Builder) {
	sb.Reset()
	stringBuilderPool.Put(sb)
}

var layerSlicePool = sync.Pool{
	New: func() any {
		s := make([]*lipgloss.Layer, 0, 16)
		return &s
	},
}

// GetLayerSlice returns a layer slice with room for a typical desktop.
func GetLayerSlice() *[]*lipgloss.Layer {
	return layerSlicePool.Get().(*[]*lipgloss.Layer)
}

// PutLayerSlice clears the slice and returns it to the pool.
func PutLayerSlice(s *[]*lipgloss.Layer) {
	clear(*s)
	*s = (*s)[:0]
	layerSlicePool.Put(s)
}
