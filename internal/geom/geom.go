// Package geom provides the integer geometry shared by the window manager,
// the pointer tracker and the renderer.
package geom

// Point is a position in desktop units.
type Point struct {
	X int
	Y int
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size is a width/height pair in desktop units.
type Size struct {
	Width  int
	Height int
}

// Rect represents a window position and size.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Min returns the top-left corner.
func (r Rect) Min() Point {
	return Point{X: r.X, Y: r.Y}
}

// Max returns the exclusive bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Clamp limits v to [lo, hi]. When hi < lo the lower bound wins, so a
// viewport smaller than the limit pins to the origin instead of going
// negative.
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Scale maps terminal cells to desktop units.
type Scale struct {
	CellWidth  int
	CellHeight int
}

// DefaultScale approximates a typical monospace cell of 8x16 pixels.
var DefaultScale = Scale{CellWidth: 8, CellHeight: 16}

func (s Scale) normalized() Scale {
	if s.CellWidth <= 0 {
		s.CellWidth = 1
	}
	if s.CellHeight <= 0 {
		s.CellHeight = 1
	}
	return s
}

// ToUnits converts a cell position to the desktop position of the cell's
// center, so a click hits the window drawn in that cell.
func (s Scale) ToUnits(cell Point) Point {
	s = s.normalized()
	return Point{
		X: cell.X*s.CellWidth + s.CellWidth/2,
		Y: cell.Y*s.CellHeight + s.CellHeight/2,
	}
}

// SizeToUnits converts a cell count to desktop units.
func (s Scale) SizeToUnits(cols, rows int) Size {
	s = s.normalized()
	return Size{Width: cols * s.CellWidth, Height: rows * s.CellHeight}
}

// ToCells converts a desktop rectangle to the cells whose centers it
// contains, which is exactly the set of cells ToUnits maps back into it.
// The result is at least one cell in each direction.
func (s Scale) ToCells(r Rect) Rect {
	s = s.normalized()
	hw, hh := s.CellWidth/2, s.CellHeight/2
	x0 := ceilDiv(r.X-hw, s.CellWidth)
	y0 := ceilDiv(r.Y-hh, s.CellHeight)
	x1 := ceilDiv(r.X+r.Width-hw, s.CellWidth)
	y1 := ceilDiv(r.Y+r.Height-hh, s.CellHeight)
	return Rect{
		X:      x0,
		Y:      y0,
		Width:  max(x1-x0, 1),
		Height: max(y1-y0, 1),
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
