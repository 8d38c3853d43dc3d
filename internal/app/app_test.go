package app

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/folio/internal/config"
	"github.com/Gaurav-Gosain/folio/internal/geom"
	"github.com/Gaurav-Gosain/folio/internal/pointer"
	"github.com/Gaurav-Gosain/folio/internal/tape"
	"github.com/Gaurav-Gosain/folio/internal/wm"
)

const (
	termWidth  = 100
	termHeight = 30
)

// testConfig declares two open windows at the default 8x16 scale:
//
//	alpha {0,0,320,208}     -> cells {0,0,40,13}
//	beta  {400,160,320,208} -> cells {50,10,40,13}
//
// beta is declared last and so starts focused.
func testConfig() *config.UserConfig {
	cfg := config.DefaultConfig()
	cfg.Windows = []config.WindowConfig{
		{ID: "alpha", Title: "Alpha", Body: "alpha body", X: 0, Y: 0, Width: 320, Height: 208, Open: true},
		{ID: "beta", Title: "Beta", Body: "beta body", X: 400, Y: 160, Width: 320, Height: 208, Open: true},
		{ID: "gamma", Title: "Gamma", Body: "gamma body", X: 100, Y: 100, Width: 320, Height: 208},
	}
	return cfg
}

func newTestModel(t *testing.T, cfg *config.UserConfig) *Model {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	clock := time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)
	return New(Options{
		Config: cfg,
		Logger: log.New(io.Discard),
		Width:  termWidth,
		Height: termHeight,
		Now:    func() time.Time { return clock },
	})
}

func window(t *testing.T, m *Model, id string) wm.Window {
	t.Helper()
	w, ok := m.Desktop().Window(id)
	if !ok {
		t.Fatalf("window %q not found", id)
	}
	return w
}

func press(m *Model, x, y int) {
	m.Update(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func motion(m *Model, x, y int) {
	m.Update(tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func release(m *Model, x, y int) {
	m.Update(tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func key(m *Model, k tea.KeyPressMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

func runeKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestNewSizesViewportBelowTaskbar(t *testing.T) {
	m := newTestModel(t, nil)
	want := geom.Size{Width: termWidth * 8, Height: (termHeight - 1) * 16}
	if got := m.Desktop().Viewport(); got != want {
		t.Errorf("viewport = %+v, want %+v", got, want)
	}
	if got := m.Desktop().FocusedID(); got != "beta" {
		t.Errorf("focused = %q, want beta", got)
	}
}

func TestClickBodyFocusesWindow(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, 5, 5)
	release(m, 5, 5)

	if got := m.Desktop().FocusedID(); got != "alpha" {
		t.Errorf("focused = %q, want alpha", got)
	}
	if m.Desktop().Gesture().Active() {
		t.Error("body click should not start a gesture")
	}
}

func TestDragTitleBar(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, 2, 0)
	if g := m.Desktop().Gesture(); g.Kind != wm.Dragging || g.Target != "alpha" {
		t.Fatalf("gesture = %+v, want dragging alpha", g)
	}
	motion(m, 12, 4)
	release(m, 12, 4)

	want := geom.Rect{X: 80, Y: 64, Width: 320, Height: 208}
	if got := window(t, m, "alpha").Bounds; got != want {
		t.Errorf("bounds = %+v, want %+v", got, want)
	}
	if m.Desktop().Gesture().Active() {
		t.Error("release should end the drag")
	}
}

func TestResizeFromCorner(t *testing.T) {
	m := newTestModel(t, nil)
	// Bottom-right cell of alpha is (39,12), center (316,200).
	press(m, 39, 12)
	if g := m.Desktop().Gesture(); g.Kind != wm.Resizing {
		t.Fatalf("gesture = %v, want resizing", g.Kind)
	}
	motion(m, 49, 16)
	release(m, 49, 16)

	want := geom.Rect{X: 0, Y: 0, Width: 400, Height: 272}
	if got := window(t, m, "alpha").Bounds; got != want {
		t.Errorf("bounds = %+v, want %+v", got, want)
	}
}

func TestTitleBarButtons(t *testing.T) {
	tests := []struct {
		name  string
		cellX int
		check func(t *testing.T, w wm.Window)
	}{
		{"close", 39, func(t *testing.T, w wm.Window) {
			if w.Open {
				t.Error("window should be closed")
			}
		}},
		{"maximize", 35, func(t *testing.T, w wm.Window) {
			if !w.Maximized {
				t.Error("window should be maximized")
			}
			if w.Bounds != (geom.Rect{Width: 800, Height: 464}) {
				t.Errorf("bounds = %+v, want the viewport", w.Bounds)
			}
		}},
		{"minimize", 32, func(t *testing.T, w wm.Window) {
			if !w.Minimized || !w.Open {
				t.Errorf("window should be minimized and open, got %+v", w)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, nil)
			press(m, tt.cellX, 0)
			release(m, tt.cellX, 0)
			tt.check(t, window(t, m, "alpha"))
			if m.Desktop().Gesture().Active() {
				t.Error("buttons should not start a gesture")
			}
		})
	}
}

func TestDoubleClickTitleMaximizes(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, 5, 0)
	release(m, 5, 0)
	press(m, 5, 0)
	release(m, 5, 0)

	if !window(t, m, "alpha").Maximized {
		t.Error("double click on the title bar should maximize")
	}
}

func TestBlurCancelsDrag(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, 2, 0)
	m.Update(tea.BlurMsg{})
	if m.Desktop().Gesture().Active() {
		t.Error("blur should end the gesture")
	}
	motion(m, 30, 20)
	if got := window(t, m, "alpha").Bounds; got.X != 0 || got.Y != 0 {
		t.Errorf("window moved after blur: %+v", got)
	}
}

// entryColumn finds a column of the rendered taskbar that hits id.
func entryColumn(t *testing.T, m *Model, id string) int {
	t.Helper()
	m.Render()
	for x := range m.width {
		if got, ok := m.Taskbar().EntryAt(x); ok && got == id {
			return x
		}
	}
	t.Fatalf("no taskbar entry for %q", id)
	return 0
}

func TestTaskbarClicks(t *testing.T) {
	m := newTestModel(t, nil)
	bar := termHeight - 1

	// alpha is visible but unfocused: focus it.
	press(m, entryColumn(t, m, "alpha"), bar)
	if got := m.Desktop().FocusedID(); got != "alpha" {
		t.Fatalf("focused = %q, want alpha", got)
	}

	// Focused: minimize it.
	x := entryColumn(t, m, "alpha")
	press(m, x, bar)
	release(m, x, bar)
	if !window(t, m, "alpha").Minimized {
		t.Fatal("clicking the focused entry should minimize")
	}

	// Minimized: bring it back.
	press(m, entryColumn(t, m, "alpha"), bar)
	if w := window(t, m, "alpha"); w.Minimized || !w.Focused {
		t.Errorf("alpha should be restored and focused, got %+v", w)
	}
}

func TestTaskbarAtTopShiftsDesktop(t *testing.T) {
	cfg := testConfig()
	cfg.Appearance.TaskbarPosition = "top"
	m := newTestModel(t, cfg)

	// Row 1 is the desktop's row 0: alpha's title bar.
	press(m, 2, 1)
	if g := m.Desktop().Gesture(); g.Kind != wm.Dragging || g.Target != "alpha" {
		t.Fatalf("gesture = %+v, want dragging alpha", g)
	}
	motion(m, 12, 5)
	release(m, 12, 5)
	if got := window(t, m, "alpha").Bounds; got.X != 80 || got.Y != 64 {
		t.Errorf("bounds = %+v, want origin (80,64)", got)
	}
}

func TestKeyActions(t *testing.T) {
	m := newTestModel(t, nil)

	key(m, runeKey('x'))
	if window(t, m, "beta").Open {
		t.Fatal("x should close the focused window")
	}
	if got := m.Desktop().FocusedID(); got != "" {
		t.Errorf("focused = %q after close, want none", got)
	}

	key(m, runeKey('3'))
	if w := window(t, m, "gamma"); !w.Open || !w.Focused {
		t.Errorf("3 should open gamma, got %+v", w)
	}

	key(m, runeKey('m'))
	if !window(t, m, "gamma").Minimized {
		t.Error("m should minimize gamma")
	}

	key(m, tea.KeyPressMsg{Code: tea.KeyTab})
	if got := m.Desktop().FocusedID(); got != "alpha" {
		t.Errorf("tab focused %q, want alpha", got)
	}

	key(m, runeKey('f'))
	if !window(t, m, "alpha").Maximized {
		t.Error("f should maximize alpha")
	}

	key(m, runeKey('M'))
	if window(t, m, "gamma").Minimized {
		t.Error("M should restore gamma")
	}
}

func TestHelpOverlayCapturesKeys(t *testing.T) {
	m := newTestModel(t, nil)

	key(m, runeKey('?'))
	if !m.HelpVisible() {
		t.Fatal("? should show help")
	}
	key(m, runeKey('x'))
	if !window(t, m, "beta").Open {
		t.Error("keys other than quit should not reach the desktop while help is shown")
	}
	if !strings.Contains(ansi.Strip(m.Render()), "WINDOWS") {
		t.Error("help overlay should list the WINDOWS section")
	}

	key(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.HelpVisible() {
		t.Error("esc should hide help")
	}
}

func TestReleaseUnderHelpEndsDrag(t *testing.T) {
	tests := []struct {
		name string
		end  func(m *Model)
	}{
		{"release", func(m *Model) { release(m, 2, 0) }},
		{"blur", func(m *Model) { m.Update(tea.BlurMsg{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, nil)
			press(m, 2, 0)
			if !m.Desktop().Gesture().Active() {
				t.Fatal("title bar press should start a drag")
			}

			key(m, runeKey('?'))
			motion(m, 30, 20)
			tt.end(m)
			if m.Desktop().Gesture().Active() {
				t.Fatal("gesture should end while help is shown")
			}
			if !m.HelpVisible() {
				t.Error("ending a gesture should not hide help")
			}
			key(m, runeKey('?'))

			press(m, 60, 15)
			release(m, 60, 15)
			if got := m.Desktop().FocusedID(); got != "beta" {
				t.Errorf("focused = %q, want beta", got)
			}
			want := geom.Rect{X: 0, Y: 0, Width: 320, Height: 208}
			if got := window(t, m, "alpha").Bounds; got != want {
				t.Errorf("alpha bounds = %v, want %v", got, want)
			}
		})
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, nil)
	cmd := key(m, runeKey('q'))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestWindowSizeMsgFollowsMaximized(t *testing.T) {
	m := newTestModel(t, nil)
	m.Desktop().Maximize("alpha")
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	want := geom.Rect{Width: 480, Height: 304}
	if got := window(t, m, "alpha").Bounds; got != want {
		t.Errorf("maximized bounds = %+v, want %+v", got, want)
	}
}

func TestConfigReloadHidesTaskbar(t *testing.T) {
	m := newTestModel(t, nil)
	cfg := testConfig()
	cfg.Appearance.TaskbarPosition = "hidden"
	cfg.Appearance.Theme = ""
	m.Update(ConfigReloadedMsg{Config: cfg})

	if got := m.Desktop().Viewport().Height; got != termHeight*16 {
		t.Errorf("viewport height = %d, want %d", got, termHeight*16)
	}
	// The bottom row now belongs to the desktop.
	press(m, 2, termHeight-1)
	if m.Desktop().Gesture().Active() {
		t.Error("click on an empty desktop row should not start a gesture")
	}
}

func TestRender(t *testing.T) {
	m := newTestModel(t, nil)
	out := ansi.Strip(m.Render())
	lines := strings.Split(out, "\n")

	if len(lines) != termHeight {
		t.Fatalf("rendered %d lines, want %d", len(lines), termHeight)
	}
	for _, want := range []string{"Alpha", "Beta", "alpha body", "beta body", "×", "09:05"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if strings.Contains(out, "gamma body") {
		t.Error("closed window should not be drawn")
	}
	if !strings.Contains(lines[10], "Beta") {
		t.Errorf("beta's title bar should be on row 10, got %q", lines[10])
	}

	m.Desktop().Minimize("beta")
	out = ansi.Strip(m.Render())
	if strings.Contains(out, "beta body") {
		t.Error("minimized window should not be drawn")
	}
	if !strings.Contains(out, "Beta") {
		t.Error("minimized window should stay on the taskbar")
	}
}

func TestRenderEmptyBeforeSize(t *testing.T) {
	m := New(Options{Config: testConfig(), Logger: log.New(io.Discard)})
	if got := m.Render(); got != "" {
		t.Errorf("Render before first size = %q, want empty", got)
	}
}

func TestClipWindowContent(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		x, y         int
		want         string
		wantX, wantY int
	}{
		{"inside", "abcd\nefgh", 1, 1, "abcd\nefgh", 1, 1},
		{"right edge", "abcd\nefgh", 8, 0, "ab\nef", 8, 0},
		{"bottom edge", "abcd\nefgh\nijkl", 0, 8, "abcd\nefgh", 0, 8},
		{"left edge", "abcd\nefgh", -2, 0, "cd\ngh", 0, 0},
		{"top edge", "abcd\nefgh", 0, -1, "efgh", 0, 0},
		{"off screen", "abcd", 20, 0, "", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, x, y := clipWindowContent(tt.content, tt.x, tt.y, 10, 10)
			if got != tt.want || x != tt.wantX || y != tt.wantY {
				t.Errorf("clip = (%q, %d, %d), want (%q, %d, %d)", got, x, y, tt.want, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestLayerViewMarksChangesDirty(t *testing.T) {
	v := newLayerView()
	v.SetBounds("a", geom.Rect{Width: 10, Height: 10})
	l := v.get("a")
	l.dirty = false

	v.SetBounds("a", geom.Rect{Width: 10, Height: 10})
	v.SetZOrder("a", 0)
	if l.dirty {
		t.Error("unchanged state should not dirty the layer")
	}
	v.SetVisualState("a", wm.VisualState{Visible: true})
	if !l.dirty {
		t.Error("state change should dirty the layer")
	}
}

func TestRecorderReplaysSession(t *testing.T) {
	cfg := testConfig()
	rec := tape.NewRecorder(tape.WithMinSleep(0))
	m := New(Options{
		Config:   cfg,
		Logger:   log.New(io.Discard),
		Width:    termWidth,
		Height:   termHeight,
		Recorder: rec,
	})

	press(m, 2, 0)
	motion(m, 8, 2)
	motion(m, 12, 4)
	release(m, 12, 4)
	press(m, entryColumn(t, m, "alpha"), termHeight-1)
	key(m, runeKey('?'))
	rec.RecordSnapshot(m.Desktop())

	script := rec.String("")
	for _, want := range []string{"Viewport 800 464", "Press 20 8", "Move 100 72", "Release", "Taskbar alpha"} {
		if !strings.Contains(script, want) {
			t.Errorf("recording missing %q:\n%s", want, script)
		}
	}

	commands, errs := tape.ParseFile(script)
	if len(errs) > 0 {
		t.Fatalf("recording does not parse: %v", errs)
	}
	replay := wm.New(cfg.WindowSpecs(), wm.WithLimits(cfg.Limits()))
	if _, err := tape.NewRunner(replay).Run(context.Background(), commands); err != nil {
		t.Fatalf("replay diverged: %v", err)
	}
	if w, _ := replay.Window("alpha"); !w.Minimized || w.Bounds.X != 80 {
		t.Errorf("replayed alpha = %+v", w)
	}
}

func TestDesktopIconsOpenWindows(t *testing.T) {
	m := newTestModel(t, nil)
	m.Desktop().Close("alpha")

	lines := strings.Split(ansi.Strip(m.Render()), "\n")
	for row, want := range map[int]string{1: "  Alpha", 3: "  Beta", 5: "  Gamma"} {
		if !strings.HasPrefix(lines[row], want) {
			t.Errorf("row %d = %q, want prefix %q", row, lines[row], want)
		}
	}

	press(m, 3, 1)
	release(m, 3, 1)
	if window(t, m, "alpha").Open {
		t.Fatal("a single click on an icon should not open its window")
	}
	press(m, 3, 1)
	release(m, 3, 1)
	if w := window(t, m, "alpha"); !w.Open || !w.Focused {
		t.Fatalf("double click on the icon should open and focus alpha: %+v", w)
	}

	// alpha now covers the icon column.
	press(m, 3, 5)
	release(m, 3, 5)
	press(m, 3, 5)
	release(m, 3, 5)
	if window(t, m, "gamma").Open {
		t.Error("icons under a window should not be hit")
	}

	m.Desktop().Close("alpha")
	m.Update(pointer.TouchMsg{Phase: pointer.TouchStart, X: 4, Y: 5})
	m.Update(pointer.TouchMsg{Phase: pointer.TouchEnd, X: 4, Y: 5})
	if w := window(t, m, "gamma"); !w.Open || !w.Focused {
		t.Errorf("a tap on the icon should open gamma: %+v", w)
	}
}

func TestIconsRecordedAsOpen(t *testing.T) {
	rec := tape.NewRecorder(tape.WithMinSleep(0))
	cfg := testConfig()
	m := New(Options{Config: cfg, Logger: log.New(io.Discard), Width: termWidth, Height: termHeight, Recorder: rec})
	m.Desktop().Close("alpha")

	press(m, 3, 5)
	release(m, 3, 5)
	press(m, 3, 5)
	release(m, 3, 5)

	if !strings.Contains(rec.String(""), "Open gamma\n") {
		t.Errorf("tape should open gamma:\n%s", rec.String(""))
	}
}

func TestWindowLayersStayBelowTaskbar(t *testing.T) {
	m := newTestModel(t, nil)
	m.Desktop().Open("gamma")
	for range 50 {
		m.Desktop().FocusNext()
	}

	layers := m.windowLayers(nil, m.desktopTop(), m.desktopRows())
	stack := m.Desktop().Stack()
	if len(layers) != len(stack) {
		t.Fatalf("got %d layers for stack %v", len(layers), stack)
	}
	for i, l := range layers {
		if l.GetID() != stack[i] || l.GetZ() != i+1 {
			t.Errorf("layer %d = %s z=%d, want %s z=%d", i, l.GetID(), l.GetZ(), stack[i], i+1)
		}
		if l.GetZ() >= zTaskbar {
			t.Errorf("layer %s z=%d reaches the taskbar", l.GetID(), l.GetZ())
		}
	}
	if top := window(t, m, stack[len(stack)-1]); !top.Focused {
		t.Errorf("top layer %s should be the focused window", top.ID)
	}
}
