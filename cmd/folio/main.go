// Package main implements folio, a desktop of draggable, resizable windows
// with a taskbar, served in the local terminal, over SSH or in the browser.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/folio/internal/config"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode       bool
	cpuProfile      string
	themeName       string
	borderStyle     string
	taskbarPosition string
	hideClock       bool
	hideSysinfo     bool
	cellWidth       int
	cellHeight      int
)

func overrides() config.Overrides {
	return config.Overrides{
		ThemeName:       themeName,
		BorderStyle:     borderStyle,
		TaskbarPosition: taskbarPosition,
		HideClock:       hideClock,
		HideSysinfo:     hideSysinfo,
		CellWidth:       cellWidth,
		CellHeight:      cellHeight,
	}
}

func main() {
	var recordPath string

	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "A windowed desktop in your terminal",
		Long: `folio - a windowed desktop in your terminal

Windows declared in the config file can be opened, dragged by their title
bar, resized from the bottom-right corner, minimized to the taskbar and
maximized. The same desktop can be served over SSH or to a browser, with
an independent desktop per connection.`,
		Example: `  # Run folio
  folio

  # Run with a theme and the taskbar on top
  folio --theme dracula --taskbar-position top

  # Record the session as a replayable script
  folio --record session.tape

  # Serve over SSH
  folio ssh --port 2222

  # Replay a script headless
  folio play session.tape`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal(cmd.Context(), recordPath)
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	pf.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	pf.StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight)")
	pf.StringVar(&borderStyle, "border-style", "", "Window border style: rounded, normal, thick, double, hidden, ascii")
	pf.StringVar(&taskbarPosition, "taskbar-position", "", "Taskbar position: bottom, top, hidden")
	pf.BoolVar(&hideClock, "hide-clock", false, "Hide the taskbar clock")
	pf.BoolVar(&hideSysinfo, "hide-sysinfo", false, "Hide CPU and memory usage in the taskbar")
	pf.IntVar(&cellWidth, "cell-width", 0, "Desktop units per terminal column (default from config)")
	pf.IntVar(&cellHeight, "cell-height", 0, "Desktop units per terminal row (default from config)")
	rootCmd.Flags().StringVar(&recordPath, "record", "", "Record the session to a tape file")

	// SSH command variables
	var sshHost, sshPort, sshKeyPath string
	var sshIdle time.Duration

	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Run folio as SSH server",
		Long: `Run folio as an SSH server

Every SSH connection gets its own desktop. The server generates a host key
automatically if none exists.`,
		Example: `  # Start SSH server on default port
  folio ssh

  # Start on custom port, reachable from other hosts
  folio ssh --host 0.0.0.0 --port 2222`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(cmd.Context(), sshHost, sshPort, sshKeyPath, sshIdle)
		},
	}
	sshCmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
	sshCmd.Flags().DurationVar(&sshIdle, "idle-timeout", 0, "Disconnect idle clients after this long (0 = never)")

	// Web command variables
	var webHost, webPort string
	var webReadOnly bool
	var webMaxConnections int

	webCmd := &cobra.Command{
		Use:   "web",
		Short: "Serve folio in the browser",
		Long: `Serve folio in the browser

Every browser tab gets its own desktop. Powered by sip
(github.com/Gaurav-Gosain/sip).`,
		Example: `  # Start web server on default port (7681)
  folio web

  # Bind to all interfaces, view only
  folio web --host 0.0.0.0 --read-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebServer(cmd.Context(), webHost, webPort, webReadOnly, webMaxConnections)
		},
	}
	webCmd.Flags().StringVar(&webPort, "port", "7681", "Web server port")
	webCmd.Flags().StringVar(&webHost, "host", "localhost", "Web server host")
	webCmd.Flags().BoolVar(&webReadOnly, "read-only", false, "Disable input from clients (view only)")
	webCmd.Flags().IntVar(&webMaxConnections, "max-connections", 0, "Maximum concurrent connections (0 = unlimited)")

	// Play command variables
	var playCols, playRows int
	var playRealTime, playVerbose bool

	playCmd := &cobra.Command{
		Use:   "play FILE",
		Short: "Replay a tape script against a headless desktop",
		Long: `Replay a tape script against a headless desktop

Runs every command in the script, checks its Expect lines and prints the
resulting taskbar and window list. Exits with an error if any expectation
failed.`,
		Example: `  # Check a recorded session still behaves the same
  folio play session.tape

  # Show each command and honor Sleep
  folio play --verbose --real-time demo.tape`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), args[0], playCols, playRows, playRealTime, playVerbose)
		},
	}
	playCmd.Flags().IntVar(&playCols, "cols", 100, "Terminal columns the desktop starts with")
	playCmd.Flags().IntVar(&playRows, "rows", 30, "Terminal rows the desktop starts with")
	playCmd.Flags().BoolVar(&playRealTime, "real-time", false, "Wait for Sleep commands instead of skipping them")
	playCmd.Flags().BoolVarP(&playVerbose, "verbose", "v", false, "Print each command as it runs")

	validateCmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a tape script for syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateTape(args[0])
		},
	}

	tapeCmd := &cobra.Command{
		Use:   "tape",
		Short: "Work with tape scripts",
	}
	tapeCmd.AddCommand(validateCmd)

	// Config command group
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage folio configuration",
		Long:  `Manage folio configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the folio configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	var resetYes bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the folio configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults(resetYes)
		},
	}
	configResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip the confirmation prompt")

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)

	// Keybinds command group
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
	}
	keybindsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings()
		},
	})

	// Windows command group
	windowsCmd := &cobra.Command{
		Use:     "windows",
		Aliases: []string{"win"},
		Short:   "Inspect declared windows",
	}
	windowsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the windows declared in the config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listWindows()
		},
	})

	rootCmd.AddCommand(sshCmd, webCmd, playCmd, tapeCmd, configCmd, keybindsCmd, windowsCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
