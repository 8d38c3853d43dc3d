package app

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/folio/internal/geom"
	"github.com/Gaurav-Gosain/folio/internal/pointer"
	"github.com/Gaurav-Gosain/folio/internal/tape"
	"github.com/Gaurav-Gosain/folio/internal/theme"
)

// Desktop icons sit in a column at the left edge of the wallpaper, one per
// declared window, with a blank row between them.
const (
	iconLeft    = 1
	iconTop     = 1
	iconWidth   = 16
	iconSpacing = 2
)

// launcher is one desktop icon, in desktop-relative cells.
type launcher struct {
	id    string
	label string
	cells geom.Rect
}

// launchers lays out the icons that fit on the desktop. The last row is
// kept for the help hint.
func (m *Model) launchers() []launcher {
	if m.width < iconLeft+iconWidth {
		return nil
	}
	rows := m.desktopRows()
	var out []launcher
	for i, w := range m.desktop.Windows() {
		y := iconTop + i*iconSpacing
		if y >= rows-1 {
			break
		}
		title := w.Title
		if title == "" {
			title = w.ID
		}
		label := title
		if w.Icon != "" {
			label = w.Icon + " " + title
		}
		label = " " + ansi.Truncate(label, iconWidth-2, "…")
		label += strings.Repeat(" ", iconWidth-ansi.StringWidth(label))
		out = append(out, launcher{
			id:    w.ID,
			label: label,
			cells: geom.Rect{X: iconLeft, Y: y, Width: iconWidth, Height: 1},
		})
	}
	return out
}

// launcherAt returns the window whose icon is drawn at the desktop-relative
// cell.
func (m *Model) launcherAt(cell geom.Point) (string, bool) {
	for _, l := range m.launchers() {
		if l.cells.Contains(cell) {
			return l.id, true
		}
	}
	return "", false
}

// launch opens the window behind an icon on a double click, or on a single
// tap for touch input. Icons covered by a window are not hit.
func (m *Model) launch(ev pointer.Event) bool {
	if ev.Kind != pointer.Down || ev.Button != pointer.Primary || m.desktop.Gesture().Active() {
		return false
	}
	if _, covered := m.desktop.WindowAt(ev.Point); covered {
		return false
	}
	id, ok := m.launcherAt(ev.Cell)
	if !ok || (ev.Clicks < 2 && !ev.Touch) {
		return false
	}
	m.log.Debug("launch", "session", m.sessionID, "window", id)
	m.desktop.Open(id)
	m.record(tape.CommandType_Open, id)
	return true
}

// renderIconRow draws the wallpaper row y with the icon l on it.
func renderIconRow(bg lipgloss.Style, l launcher, width int) string {
	icon := bg.Foreground(theme.DesktopIcon()).Bold(true).Render(l.label)
	rest := width - l.cells.X - l.cells.Width
	return bg.Render(strings.Repeat(" ", l.cells.X)) + icon + bg.Render(strings.Repeat(" ", max(rest, 0)))
}
