// Package config loads folio's TOML configuration: desktop geometry,
// appearance, keybindings and the windows shown on the desktop.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/folio/internal/geom"
	"github.com/Gaurav-Gosain/folio/internal/wm"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "FOLIO_CONFIG"

const configRelPath = "folio/config.toml"

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "config",
})

// SetLogLevel sets the logging level for the config package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Valid values for the appearance settings.
var (
	BorderStyles     = []string{"rounded", "normal", "thick", "double", "hidden", "ascii"}
	TaskbarPositions = []string{"bottom", "top", "hidden"}
)

// UserConfig is the on-disk configuration.
type UserConfig struct {
	Desktop     DesktopConfig     `toml:"desktop"`
	Appearance  AppearanceConfig  `toml:"appearance"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
	Windows     []WindowConfig    `toml:"windows"`
}

// DesktopConfig holds the window manager geometry, in desktop units.
type DesktopConfig struct {
	CellWidth     int `toml:"cell_width" comment:"Desktop units per terminal column"`
	CellHeight    int `toml:"cell_height" comment:"Desktop units per terminal row"`
	MinWidth      int `toml:"min_width"`
	MinHeight     int `toml:"min_height"`
	VisibleFloor  int `toml:"visible_floor" comment:"Units of a dragged window that always stay on screen"`
	HotZone       int `toml:"hot_zone" comment:"Side of the resize corner"`
	DoubleClickMs int `toml:"double_click_ms"`
}

// AppearanceConfig holds visual settings. These are the only settings
// applied live when the file changes.
type AppearanceConfig struct {
	Theme           string `toml:"theme" comment:"bubbletint theme ID; empty uses the built-in palette"`
	BorderStyle     string `toml:"border_style" comment:"rounded, normal, thick, double, hidden, ascii"`
	TaskbarPosition string `toml:"taskbar_position" comment:"bottom, top, hidden"`
	HideClock       bool   `toml:"hide_clock"`
	HideSysinfo     bool   `toml:"hide_sysinfo"`
}

// KeybindingsConfig maps action names to the keys bound to them.
type KeybindingsConfig struct {
	Desktop map[string][]string `toml:"desktop"`
}

// WindowConfig declares one desktop window.
type WindowConfig struct {
	ID     string `toml:"id"`
	Title  string `toml:"title"`
	Icon   string `toml:"icon,omitempty"`
	Body   string `toml:"body,multiline"`
	X      int    `toml:"x"`
	Y      int    `toml:"y"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Open   bool   `toml:"open,omitempty"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Desktop: DesktopConfig{
			CellWidth:     geom.DefaultScale.CellWidth,
			CellHeight:    geom.DefaultScale.CellHeight,
			MinWidth:      wm.DefaultMinWidth,
			MinHeight:     wm.DefaultMinHeight,
			VisibleFloor:  wm.DefaultVisibleFloor,
			HotZone:       wm.DefaultHotZone,
			DoubleClickMs: 400,
		},
		Appearance: AppearanceConfig{
			BorderStyle:     "rounded",
			TaskbarPosition: "bottom",
		},
		Keybindings: KeybindingsConfig{
			Desktop: DefaultKeybindings(),
		},
		Windows: defaultWindows(),
	}
}

func defaultWindows() []WindowConfig {
	return []WindowConfig{
		{
			ID: "welcome", Title: "Welcome", Icon: "*",
			Body: "Welcome to folio.\n\nDrag a window by its title bar, resize it from\n" +
				"the bottom-right corner, and double-click a title\nbar to maximize.\n\n" +
				"Press ? for keybindings.",
			X: 160, Y: 64, Width: 440, Height: 256, Open: true,
		},
		{
			ID: "about", Title: "About", Icon: "@",
			Body: "A desktop-style portfolio that runs in your\nterminal, over SSH, or in the browser.",
			X: 240, Y: 128, Width: 400, Height: 240,
		},
		{
			ID: "projects", Title: "Projects", Icon: "#",
			Body: "Edit the [[windows]] tables in your config\nfile to list your own projects here.",
			X: 320, Y: 192, Width: 480, Height: 288,
		},
		{
			ID: "skills", Title: "Skills", Icon: "+",
			Body: "Go, terminal UIs, distributed systems.",
			X: 400, Y: 256, Width: 400, Height: 224,
		},
		{
			ID: "contact", Title: "Contact", Icon: "&",
			Body: "ssh folio.example.com\nhttps://folio.example.com",
			X: 480, Y: 320, Width: 400, Height: 208,
		},
	}
}

// GetConfigPath returns the config file path, creating its directory.
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	p, err := xdg.ConfigFile(configRelPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	return p, nil
}

// GetLogPath returns the path of the log file used while the TUI owns the
// terminal.
func GetLogPath() (string, error) {
	p, err := xdg.StateFile("folio/folio.log")
	if err != nil {
		return "", fmt.Errorf("failed to resolve log path: %w", err)
	}
	return p, nil
}

// LoadUserConfig loads the config file, writing the defaults first if it
// does not exist.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the config at path. Missing settings keep their defaults
// and invalid ones are reset to them with a warning.
func LoadFrom(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		logger.Info("created default config", "path", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*UserConfig, error) {
	cfg := DefaultConfig()
	cfg.Windows = nil
	cfg.Keybindings.Desktop = nil

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Windows == nil {
		cfg.Windows = defaultWindows()
	}
	for _, w := range cfg.Validate() {
		logger.Warn(w)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML with a short header.
func Save(path string, cfg *UserConfig) error {
	data, err := Marshal(cfg, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders cfg as a commented TOML document.
func Marshal(cfg *UserConfig, path string) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("# folio configuration file\n")
	sb.WriteString("# Geometry is in desktop units; see cell_width and cell_height.\n")
	sb.WriteString("# Multiple keys can be bound to the same action.\n")
	if path != "" {
		sb.WriteString("#\n# Configuration location: " + path + "\n")
	}
	sb.WriteString("\n")

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	sb.Write(data)
	return []byte(sb.String()), nil
}

// Validate resets out-of-range settings to their defaults and returns one
// warning per reset.
func (c *UserConfig) Validate() []string {
	def := DefaultConfig()
	var warnings []string
	fix := func(name string, v *int, lo int, fallback int) {
		if *v < lo {
			warnings = append(warnings, fmt.Sprintf("%s must be at least %d, using %d", name, lo, fallback))
			*v = fallback
		}
	}

	d := &c.Desktop
	fix("desktop.cell_width", &d.CellWidth, 1, def.Desktop.CellWidth)
	fix("desktop.cell_height", &d.CellHeight, 1, def.Desktop.CellHeight)
	fix("desktop.min_width", &d.MinWidth, 1, def.Desktop.MinWidth)
	fix("desktop.min_height", &d.MinHeight, 1, def.Desktop.MinHeight)
	fix("desktop.visible_floor", &d.VisibleFloor, 1, def.Desktop.VisibleFloor)
	fix("desktop.hot_zone", &d.HotZone, 1, def.Desktop.HotZone)
	fix("desktop.double_click_ms", &d.DoubleClickMs, 50, def.Desktop.DoubleClickMs)

	a := &c.Appearance
	if !slices.Contains(BorderStyles, a.BorderStyle) {
		warnings = append(warnings, fmt.Sprintf("unknown border_style %q, using %q", a.BorderStyle, def.Appearance.BorderStyle))
		a.BorderStyle = def.Appearance.BorderStyle
	}
	if !slices.Contains(TaskbarPositions, a.TaskbarPosition) {
		warnings = append(warnings, fmt.Sprintf("unknown taskbar_position %q, using %q", a.TaskbarPosition, def.Appearance.TaskbarPosition))
		a.TaskbarPosition = def.Appearance.TaskbarPosition
	}

	seen := map[string]bool{}
	windows := c.Windows[:0]
	for _, w := range c.Windows {
		switch {
		case w.ID == "":
			warnings = append(warnings, fmt.Sprintf("window %q has no id, skipping", w.Title))
			continue
		case seen[w.ID]:
			warnings = append(warnings, fmt.Sprintf("duplicate window id %q, skipping", w.ID))
			continue
		}
		seen[w.ID] = true
		windows = append(windows, w)
	}
	c.Windows = windows

	return warnings
}

// Scale returns the cell-to-unit scale.
func (c *UserConfig) Scale() geom.Scale {
	return geom.Scale{CellWidth: c.Desktop.CellWidth, CellHeight: c.Desktop.CellHeight}
}

// Limits returns the window manager limits.
func (c *UserConfig) Limits() wm.Limits {
	return wm.Limits{
		MinWidth:     c.Desktop.MinWidth,
		MinHeight:    c.Desktop.MinHeight,
		VisibleFloor: c.Desktop.VisibleFloor,
		HotZone:      c.Desktop.HotZone,
		HeaderHeight: c.Desktop.CellHeight,
		ButtonWidth:  3 * c.Desktop.CellWidth,
	}
}

// DoubleClick returns the double-click interval.
func (c *UserConfig) DoubleClick() time.Duration {
	return time.Duration(c.Desktop.DoubleClickMs) * time.Millisecond
}

// WindowSpecs converts the window declarations for wm.New.
func (c *UserConfig) WindowSpecs() []wm.WindowSpec {
	specs := make([]wm.WindowSpec, 0, len(c.Windows))
	for _, w := range c.Windows {
		specs = append(specs, wm.WindowSpec{
			ID:     w.ID,
			Title:  w.Title,
			Icon:   w.Icon,
			Body:   w.Body,
			Bounds: geom.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height},
			Open:   w.Open,
		})
	}
	return specs
}
