package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/Gaurav-Gosain/folio/internal/config"
	"github.com/Gaurav-Gosain/folio/internal/tape"
	"github.com/Gaurav-Gosain/folio/internal/wm"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	passStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// newTable returns a rounded table in the CLI's house style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// printConfigPath prints the config file path
func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

// editConfigFile opens the config file in $EDITOR
func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	// Loading writes the defaults when the file does not exist yet.
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if _, err := config.LoadFrom(configPath); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return errors.New("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	// Report problems now rather than on the next start.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	_, err = config.Parse(data)
	return err
}

// resetConfigToDefaults resets the configuration file to default settings
func resetConfigToDefaults(yes bool) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil && !yes {
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		_, _ = fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.Save(configPath, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: folio config edit")
	return nil
}

// listKeybindings prints all configured keybindings in a pretty table
func listKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default keybindings...")
		userConfig = config.DefaultConfig()
	}
	registry := config.NewKeybindRegistry(userConfig)

	fmt.Println()
	fmt.Println(titleStyle.Render("folio Keybindings"))
	fmt.Println()

	for _, section := range config.GetKeybindings(registry) {
		t := newTable("Keys", "Action")
		for _, b := range section.Bindings {
			t.Row(b.Key, b.Description)
		}
		fmt.Println(sectionStyle.Render(section.Title))
		fmt.Println(t.Render())
		fmt.Println()
	}
	return nil
}

// listWindows prints the windows declared in the config file.
func listWindows() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	config.ApplyOverrides(overrides(), userConfig)

	t := newTable("#", "ID", "Title", "Position", "Size", "At start")
	for i, w := range userConfig.Windows {
		start := "closed"
		if w.Open {
			start = "open"
		}
		t.Row(
			strconv.Itoa(i+1),
			w.ID,
			w.Title,
			fmt.Sprintf("%d,%d", w.X, w.Y),
			fmt.Sprintf("%dx%d", w.Width, w.Height),
			start,
		)
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("Declared windows"))
	fmt.Println(t.Render())
	fmt.Println(noteStyle.Render(fmt.Sprintf(
		"Geometry is in desktop units (%dx%d per cell). Windows 1-9 open with their number key.",
		userConfig.Desktop.CellWidth, userConfig.Desktop.CellHeight)))
	return nil
}

func windowState(w wm.Window) string {
	switch {
	case !w.Open:
		return "closed"
	case w.Minimized:
		return "minimized"
	case w.Maximized:
		return "maximized"
	default:
		return "open"
	}
}

// printDesktopTable prints every window of d with its current state.
func printDesktopTable(d *wm.Desktop) {
	t := newTable("ID", "State", "Bounds", "Z", "Focused")
	for _, w := range d.Windows() {
		focused := ""
		if w.Focused {
			focused = "*"
		}
		b := w.Bounds
		t.Row(
			w.ID,
			windowState(w),
			fmt.Sprintf("%d,%d %dx%d", b.X, b.Y, b.Width, b.Height),
			strconv.Itoa(w.Z),
			focused,
		)
	}
	vp := d.Viewport()
	fmt.Println(sectionStyle.Render(fmt.Sprintf("Desktop %dx%d", vp.Width, vp.Height)))
	fmt.Println(t.Render())
}

func printPlayStats(stats tape.Stats) {
	summary := fmt.Sprintf("%d commands, %d expectations", stats.Commands, stats.Expectations)
	if stats.Failed > 0 {
		fmt.Println(failStyle.Render(fmt.Sprintf("FAIL %s, %d failed", summary, stats.Failed)))
		return
	}
	fmt.Println(passStyle.Render("PASS " + summary))
}
