package app

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/folio/internal/config"
	"github.com/Gaurav-Gosain/folio/internal/pool"
	"github.com/Gaurav-Gosain/folio/internal/theme"
	"github.com/Gaurav-Gosain/folio/internal/wm"
)

// Title bar buttons, left to right. Each is three cells wide to match the
// window manager's button hit regions.
const (
	buttonMinimize = " _ "
	buttonMaximize = " □ "
	buttonRestore  = " ▣ "
	buttonClose    = " × "
	buttonCells    = 3

	resizeGrip = "◢"

	zTaskbar = 1 << 20
	zHelp    = zTaskbar + 1
)

var asciiBorder = lipgloss.Border{
	Top:         "-",
	Bottom:      "-",
	Left:        "|",
	Right:       "|",
	TopLeft:     "+",
	TopRight:    "+",
	BottomLeft:  "+",
	BottomRight: "+",
}

func borderFor(style string) lipgloss.Border {
	switch style {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	case "ascii":
		return asciiBorder
	default:
		return lipgloss.RoundedBorder()
	}
}

// Render composes the wallpaper, every visible window, the taskbar and the
// help overlay into one frame.
func (m *Model) Render() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	layersPtr := pool.GetLayerSlice()
	defer pool.PutLayerSlice(layersPtr)
	layers := (*layersPtr)[:0]

	top := m.desktopTop()
	rows := m.desktopRows()
	layers = append(layers, lipgloss.NewLayer(m.renderWallpaper(rows)).X(0).Y(top).Z(0).ID("desktop"))

	m.trackGesture()
	layers = m.windowLayers(layers, top, rows)

	if m.barRows() > 0 {
		layers = append(layers, lipgloss.NewLayer(m.taskbar.Render(m.width)).
			X(0).Y(m.barRow()).Z(zTaskbar).ID("taskbar"))
	}
	if m.showHelp {
		if help := m.helpLayer(); help != nil {
			layers = append(layers, help)
		}
	}

	*layersPtr = layers
	canvas := lipgloss.NewCanvas()
	canvas.AddLayers(layers...)
	return lipgloss.Sprint(canvas.Render())
}

// trackGesture redraws the windows whose border changes when a drag or
// resize starts or ends.
func (m *Model) trackGesture() {
	target := ""
	if g := m.desktop.Gesture(); g.Active() {
		target = g.Target
	}
	if target == m.gestureTarget {
		return
	}
	if m.gestureTarget != "" {
		m.view.get(m.gestureTarget).dirty = true
	}
	if target != "" {
		m.view.get(target).dirty = true
	}
	m.gestureTarget = target
}

func (m *Model) renderWallpaper(rows int) string {
	if rows <= 0 {
		return ""
	}
	style := lipgloss.NewStyle().Background(theme.DesktopBg()).Foreground(theme.DesktopFg())
	blank := style.Render(strings.Repeat(" ", m.width))

	hint := ""
	if keys := m.keys.GetKeysForDisplay(config.ActionToggleHelp); keys != "" {
		hint = "folio · " + keys + " for help "
	}

	icons := make(map[int]launcher)
	for _, l := range m.launchers() {
		icons[l.cells.Y] = l
	}

	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)
	for y := range rows {
		if y > 0 {
			sb.WriteByte('\n')
		}
		if l, ok := icons[y]; ok {
			sb.WriteString(renderIconRow(style, l, m.width))
			continue
		}
		if y == rows-1 && hint != "" && ansi.StringWidth(hint) < m.width {
			sb.WriteString(style.Render(strings.Repeat(" ", m.width-ansi.StringWidth(hint)) + hint))
			continue
		}
		sb.WriteString(blank)
	}
	return sb.String()
}

// windowLayers appends the visible windows bottom to top. A layer's Z is
// its rank in the stack, not the desktop's z counter, so windows always
// stay below the taskbar and the help overlay.
func (m *Model) windowLayers(layers []*lipgloss.Layer, top, rows int) []*lipgloss.Layer {
	for i, id := range m.desktop.Stack() {
		w, ok := m.desktop.Window(id)
		if !ok {
			continue
		}
		l := m.view.get(id)
		if l.dirty || l.cached == nil {
			l.cached = m.windowLayer(w, l, top, rows)
			l.dirty = false
		}
		if l.cached == nil {
			continue
		}
		if z := i + 1; l.cached.GetZ() != z {
			l.cached.Z(z)
		}
		layers = append(layers, l.cached)
	}
	return layers
}

// windowLayer draws w at its cell rectangle, clipped to the desktop area.
func (m *Model) windowLayer(w wm.Window, l *windowLayer, top, rows int) *lipgloss.Layer {
	cells := m.scale.ToCells(l.bounds)
	content := m.renderWindow(w, cells.Width, cells.Height, w.ID == m.gestureTarget)
	clipped, x, y := clipWindowContent(content, cells.X, cells.Y, m.width, rows)
	if clipped == "" {
		return nil
	}
	return lipgloss.NewLayer(clipped).X(x).Y(y + top).ID(w.ID)
}

func (m *Model) borderColor(w wm.Window, dragging bool) color.Color {
	switch {
	case dragging:
		return theme.BorderDragging()
	case w.Focused:
		return theme.BorderFocused()
	default:
		return theme.BorderUnfocused()
	}
}

// renderWindow draws a width x height cell window: a one-row title bar, the
// body framed by side borders and a bottom border carrying the resize grip.
func (m *Model) renderWindow(w wm.Window, width, height int, dragging bool) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	c := m.borderColor(w, dragging)
	lines := make([]string, 0, height)
	lines = append(lines, renderTitleBar(w, width, c))
	if height == 1 {
		return lines[0]
	}

	edge := lipgloss.NewStyle().Foreground(c)
	body := lipgloss.NewStyle().Foreground(theme.WindowFg()).Background(theme.WindowBg())
	inner := max(width-2, 0)
	text := strings.Split(w.Body, "\n")

	for i := range height - 2 {
		line := ""
		if i < len(text) {
			line = ansi.Truncate(text[i], max(inner-1, 0), "…")
			if inner > 0 {
				line = " " + line
			}
		}
		if pad := inner - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		lines = append(lines, edge.Render(m.border.Left)+body.Render(line)+edge.Render(m.border.Right))
	}

	corner := edge.Render(m.border.BottomRight)
	if !w.Maximized {
		corner = edge.Render(resizeGrip)
	}
	bottom := edge.Render(m.border.BottomLeft + strings.Repeat(m.border.Bottom, inner))
	lines = append(lines, bottom+corner)
	return strings.Join(lines, "\n")
}

// renderTitleBar draws the header row: icon and title on the left, the
// minimize, maximize and close buttons flush right.
func renderTitleBar(w wm.Window, width int, c color.Color) string {
	bar := lipgloss.NewStyle().Background(c).Foreground(theme.ButtonFg()).Bold(true)
	buttons := ""
	if width >= 3*buttonCells+1 {
		btn := lipgloss.NewStyle().Foreground(theme.ButtonFg())
		maxGlyph := buttonMaximize
		if w.Maximized {
			maxGlyph = buttonRestore
		}
		buttons = btn.Background(theme.ButtonMinimize()).Render(buttonMinimize) +
			btn.Background(theme.ButtonMaximize()).Render(maxGlyph) +
			btn.Background(theme.ButtonClose()).Render(buttonClose)
	}

	titleWidth := width - lipgloss.Width(buttons)
	title := w.Title
	if title == "" {
		title = w.ID
	}
	if w.Icon != "" {
		title = w.Icon + " " + title
	}
	title = ansi.Truncate(" "+title, titleWidth, "…")
	if pad := titleWidth - ansi.StringWidth(title); pad > 0 {
		title += strings.Repeat(" ", pad)
	}
	return bar.Render(title) + buttons
}

// clipWindowContent cuts content placed at (x, y) down to the part inside a
// viewport of the given size and returns it with its new origin.
func clipWindowContent(content string, x, y, viewportWidth, viewportHeight int) (string, int, int) {
	if content == "" {
		return "", max(x, 0), max(y, 0)
	}
	lines := strings.Split(content, "\n")
	windowWidth := ansi.StringWidth(lines[0])
	windowHeight := len(lines)

	if x+windowWidth <= 0 || x >= viewportWidth || y+windowHeight <= 0 || y >= viewportHeight {
		return "", max(x, 0), max(y, 0)
	}

	clipTop, clipLeft := max(-y, 0), max(-x, 0)
	finalX, finalY := max(x, 0), max(y, 0)

	lines = lines[clipTop:]
	if visible := viewportHeight - finalY; visible < len(lines) {
		lines = lines[:visible]
	}

	right := clipLeft + viewportWidth - finalX
	if clipLeft > 0 || x+windowWidth > viewportWidth {
		for i, line := range lines {
			lines[i] = ansi.Cut(line, clipLeft, right)
		}
	}
	return strings.Join(lines, "\n"), finalX, finalY
}

func (m *Model) helpLayer() *lipgloss.Layer {
	title := lipgloss.NewStyle().Foreground(theme.HelpTitle()).Bold(true)
	key := lipgloss.NewStyle().Foreground(theme.HelpKey()).Bold(true)
	text := lipgloss.NewStyle().Foreground(theme.HelpText())

	sections := config.GetKeybindings(m.keys)
	keyWidth := 0
	for _, s := range sections {
		for _, b := range s.Bindings {
			keyWidth = max(keyWidth, ansi.StringWidth(b.Key))
		}
	}

	var blocks []string
	for _, s := range sections {
		rows := []string{title.Render(s.Title)}
		for _, b := range s.Bindings {
			rows = append(rows, key.Width(keyWidth+2).Render(b.Key)+text.Render(b.Description))
		}
		blocks = append(blocks, strings.Join(rows, "\n"))
	}

	box := lipgloss.NewStyle().
		Border(m.border).
		BorderForeground(theme.BorderFocused()).
		Padding(0, 1).
		Render(strings.Join(blocks, "\n\n"))

	w, h := lipgloss.Width(box), lipgloss.Height(box)
	clipped, x, y := clipWindowContent(box, (m.width-w)/2, (m.height-h)/2, m.width, m.height)
	if clipped == "" {
		return nil
	}
	return lipgloss.NewLayer(clipped).X(x).Y(y).Z(zHelp).ID("help")
}
