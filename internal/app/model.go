// Package app is the bubbletea model that puts the desktop on a terminal:
// it feeds terminal input to the window manager, the taskbar and the
// keybinding registry, and composes windows into layers for display.
package app

import (
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/folio/internal/config"
	"github.com/Gaurav-Gosain/folio/internal/geom"
	"github.com/Gaurav-Gosain/folio/internal/pointer"
	"github.com/Gaurav-Gosain/folio/internal/sysinfo"
	"github.com/Gaurav-Gosain/folio/internal/tape"
	"github.com/Gaurav-Gosain/folio/internal/taskbar"
	"github.com/Gaurav-Gosain/folio/internal/theme"
	"github.com/Gaurav-Gosain/folio/internal/wm"
)

// FPS caps the frame rate of every session.
const FPS = 60

// TickMsg redraws the clock and tray once a second.
type TickMsg time.Time

// ConfigReloadedMsg carries a config re-read after the file changed on disk.
type ConfigReloadedMsg struct {
	Config *config.UserConfig
}

// Options configures a Model.
type Options struct {
	Config *config.UserConfig
	// Sampler feeds the tray. Nil hides CPU and RAM usage.
	Sampler *sysinfo.Sampler
	// SessionID tags log lines when several sessions share a process.
	SessionID string
	Logger    *log.Logger
	// Width and Height are the terminal size in cells, when known before
	// the first WindowSizeMsg.
	Width, Height int
	// Now replaces time.Now for the clock.
	Now func() time.Time
	// Recorder, when set, receives every desktop operation the session
	// performs.
	Recorder *tape.Recorder
}

// Model is one desktop session.
type Model struct {
	cfg     *config.UserConfig
	keys    *config.KeybindRegistry
	scale   geom.Scale
	desktop *wm.Desktop
	view    *layerView
	tracker *pointer.Tracker
	taskbar *taskbar.Taskbar
	sampler *sysinfo.Sampler
	rec     *tape.Recorder
	now     func() time.Time

	log       *log.Logger
	sessionID string

	width, height int
	border        lipgloss.Border
	barPosition   string
	showHelp      bool
	quitting      bool

	// gestureTarget is the window drawn with the dragging border.
	gestureTarget string
}

// New creates a session model.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "app"})
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := &Model{
		cfg:       cfg,
		scale:     cfg.Scale(),
		view:      newLayerView(),
		sampler:   opts.Sampler,
		rec:       opts.Recorder,
		now:       now,
		log:       logger,
		sessionID: opts.SessionID,
	}
	m.desktop = wm.New(cfg.WindowSpecs(),
		wm.WithLimits(cfg.Limits()),
		wm.WithView(m.view),
		wm.OnChange(m.desktopChanged),
	)
	m.tracker = pointer.NewTracker(
		pointer.WithScale(m.scale),
		pointer.WithDoubleClick(cfg.DoubleClick()),
	)
	m.applyAppearance(cfg)
	if opts.Width > 0 && opts.Height > 0 {
		m.resize(opts.Width, opts.Height)
	}
	return m
}

// Desktop exposes the window manager, mainly for tests and scripting.
func (m *Model) Desktop() *wm.Desktop {
	return m.desktop
}

// Taskbar exposes the taskbar.
func (m *Model) Taskbar() *taskbar.Taskbar {
	return m.taskbar
}

// HelpVisible reports whether the help overlay is shown.
func (m *Model) HelpVisible() bool {
	return m.showHelp
}

func (m *Model) desktopChanged() {
	if m.taskbar != nil {
		m.taskbar.Refresh()
	}
}

// applyAppearance rebuilds everything derived from the appearance and
// keybinding sections. Geometry settings only take effect on restart. The
// theme is process-wide and is set up by the caller.
func (m *Model) applyAppearance(cfg *config.UserConfig) {
	m.keys = config.NewKeybindRegistry(cfg)
	m.border = borderFor(cfg.Appearance.BorderStyle)
	m.barPosition = cfg.Appearance.TaskbarPosition

	opts := []taskbar.Option{
		taskbar.WithClock(m.now),
		taskbar.WithHideClock(cfg.Appearance.HideClock),
	}
	if m.sampler != nil && !cfg.Appearance.HideSysinfo {
		opts = append(opts, taskbar.WithSampler(m.sampler))
	}
	m.taskbar = taskbar.New(m.desktop, opts...)
	m.view.invalidate()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Init starts the clock.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case TickMsg:
		return m, tick()

	case ConfigReloadedMsg:
		if msg.Config != nil {
			if msg.Config.Scale() != m.scale || msg.Config.Limits() != m.cfg.Limits() {
				m.log.Info("desktop geometry changed, restart to apply", "session", m.sessionID)
			}
			theme.Initialize(msg.Config.Appearance.Theme)
			m.applyAppearance(msg.Config)
			m.cfg.Appearance = msg.Config.Appearance
			m.cfg.Keybindings = msg.Config.Keybindings
			m.resize(m.width, m.height)
		}
		return m, nil
	}

	if ev, ok := m.tracker.Translate(msg); ok {
		m.handlePointer(ev)
	}
	return m, nil
}

// barRows is the number of terminal rows the taskbar takes.
func (m *Model) barRows() int {
	if m.barPosition == "hidden" {
		return 0
	}
	return taskbar.Height
}

// desktopTop is the first terminal row of the desktop.
func (m *Model) desktopTop() int {
	if m.barPosition == "top" {
		return taskbar.Height
	}
	return 0
}

func (m *Model) barRow() int {
	if m.barPosition == "top" {
		return 0
	}
	return m.height - taskbar.Height
}

func (m *Model) desktopRows() int {
	return max(m.height-m.barRows(), 0)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vp := m.scale.SizeToUnits(width, m.desktopRows())
	m.desktop.SetViewport(vp.Width, vp.Height)
	if m.rec != nil {
		m.rec.RecordViewport(vp.Width, vp.Height)
	}
	m.view.invalidate()
}

func (m *Model) handlePointer(ev pointer.Event) {
	if m.showHelp {
		switch ev.Kind {
		case pointer.Down:
			m.showHelp = false
			return
		case pointer.Move:
			return
		}
		// A release or cancel still has to end a gesture started before
		// the overlay opened.
	}

	if ev.Kind == pointer.Down && !m.desktop.Gesture().Active() &&
		m.barRows() > 0 && ev.Cell.Y == m.barRow() {
		if ev.Button != pointer.Primary {
			return
		}
		if id, ok := m.taskbar.EntryAt(ev.Cell.X); ok {
			m.log.Debug("taskbar click", "session", m.sessionID, "window", id)
			m.taskbar.Click(id)
			m.record(tape.CommandType_Taskbar, id)
		}
		return
	}

	if top := m.desktopTop(); top > 0 && ev.Kind != pointer.Cancel {
		ev.Cell.Y -= top
		ev.Point = m.scale.ToUnits(ev.Cell)
	}
	if m.launch(ev) {
		return
	}
	if m.rec != nil && (ev.Kind != pointer.Move || m.desktop.Gesture().Active()) {
		m.rec.RecordPointer(ev)
	}
	m.desktop.HandlePointer(ev)
}

// View renders the desktop.
func (m *Model) View() tea.View {
	var view tea.View
	if m.quitting {
		return view
	}
	view.SetContent(m.Render())
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion
	view.ReportFocus = true
	return view
}
