// Package theme provides the color palette for folio's desktop, windows and
// taskbar.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at startup. An empty name disables theming and the
// built-in fallback colors are used.
func Initialize(themeName string) {
	if themeName == "" {
		enabled = false
		return
	}

	enabled = true
	tint.NewDefaultRegistry()

	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
	}
}

// IsEnabled returns true if theming is enabled.
func IsEnabled() bool {
	return enabled
}

// Current returns the active tint, or nil when theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

func pick(fallback string, fromTint func(t *tint.Tint) color.Color) color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color(fallback)
	}
	return fromTint(t)
}

// DesktopBg is the wallpaper color behind every window.
func DesktopBg() color.Color {
	return pick("#1b2b34", func(t *tint.Tint) color.Color { return t.Bg })
}

// DesktopFg colors the desktop hint text.
func DesktopFg() color.Color {
	return pick("#65737e", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// DesktopIcon colors the launcher icons on the wallpaper.
func DesktopIcon() color.Color {
	return pick("#c0c5ce", func(t *tint.Tint) color.Color { return t.BrightWhite })
}

// Window border colors
func BorderUnfocused() color.Color {
	return pick("#FAAAAA", func(t *tint.Tint) color.Color { return t.Red })
}

func BorderFocused() color.Color {
	return pick("#AFFFFF", func(t *tint.Tint) color.Color { return t.BrightCyan })
}

// BorderDragging highlights the window under an active drag or resize.
func BorderDragging() color.Color {
	return pick("#AFFFAF", func(t *tint.Tint) color.Color { return t.BrightGreen })
}

// WindowBg and WindowFg color a window's body.
func WindowBg() color.Color {
	return pick("#000000", func(t *tint.Tint) color.Color { return t.Bg })
}

func WindowFg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) color.Color { return t.Fg })
}

// Control button colors, in header order.
func ButtonMinimize() color.Color {
	return pick("#cdcd00", func(t *tint.Tint) color.Color { return t.Yellow })
}

func ButtonMaximize() color.Color {
	return pick("#00cd00", func(t *tint.Tint) color.Color { return t.Green })
}

func ButtonClose() color.Color {
	return pick("#cd0000", func(t *tint.Tint) color.Color { return t.Red })
}

func ButtonFg() color.Color {
	return pick("#000000", func(t *tint.Tint) color.Color { return t.Black })
}

// Taskbar colors
func TaskbarBg() color.Color {
	return pick("#262626", func(t *tint.Tint) color.Color { return t.Black })
}

func TaskbarFg() color.Color {
	return pick("#bcbcbc", func(t *tint.Tint) color.Color { return t.White })
}

func TaskbarActive() color.Color {
	return pick("#5fd7ff", func(t *tint.Tint) color.Color { return t.BrightBlue })
}

func TaskbarMinimized() color.Color {
	return pick("#808080", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

func TaskbarTray() color.Color {
	return pick("#afd787", func(t *tint.Tint) color.Color { return t.BrightGreen })
}

// Help overlay colors
func HelpTitle() color.Color {
	return pick("#ffaf00", func(t *tint.Tint) color.Color { return t.BrightYellow })
}

func HelpKey() color.Color {
	return pick("#5fd7ff", func(t *tint.Tint) color.Color { return t.BrightCyan })
}

func HelpText() color.Color {
	return pick("#d0d0d0", func(t *tint.Tint) color.Color { return t.Fg })
}
