package server

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/sip"
	"github.com/charmbracelet/colorprofile"
)

// WebConfig holds configuration for the browser front end.
type WebConfig struct {
	Host           string
	Port           string
	ReadOnly       bool
	MaxConnections int
	Debug          bool
}

// StartWebServer serves a desktop to every browser tab until ctx is done.
func StartWebServer(ctx context.Context, cfg WebConfig, sessions *Sessions) error {
	// Stdout is not a TTY here, so lipgloss would otherwise detect no
	// color support and strip every style.
	lipgloss.Writer.Profile = colorprofile.TrueColor
	_ = os.Setenv("TERM", "xterm-256color")
	_ = os.Setenv("COLORTERM", "truecolor")

	sipConfig := sip.DefaultConfig()
	sipConfig.Host = cfg.Host
	sipConfig.Port = cfg.Port
	sipConfig.ReadOnly = cfg.ReadOnly
	sipConfig.MaxConnections = cfg.MaxConnections
	sipConfig.Debug = cfg.Debug

	sessions.log.Info("starting web server", "addr", cfg.Host+":"+cfg.Port, "read_only", cfg.ReadOnly)
	return sip.NewServer(sipConfig).Serve(ctx, sessions.webHandler)
}

// webHandler creates the desktop for one browser session. sip does not
// report disconnects, so web sessions are logged but not counted.
func (s *Sessions) webHandler(sess sip.Session) (tea.Model, []tea.ProgramOption) {
	pty := sess.Pty()
	id := newSessionID()
	s.log.Info("web session started", "session", shortID(id), "size", [2]int{pty.Width, pty.Height})
	return s.New(id, pty.Width, pty.Height), programOptions()
}
