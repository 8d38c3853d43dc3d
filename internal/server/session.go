// Package server serves folio desktops over SSH and the web. Every
// connection gets its own desktop; the config and the system sampler are
// shared.
package server

import (
	"os"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/folio/internal/app"
	"github.com/Gaurav-Gosain/folio/internal/config"
	"github.com/Gaurav-Gosain/folio/internal/sysinfo"
)

// Sessions creates the per-connection models and counts live connections.
type Sessions struct {
	cfg     *config.UserConfig
	sampler *sysinfo.Sampler
	log     *log.Logger

	active atomic.Int64
}

// NewSessions returns a session factory. A nil cfg uses the defaults; a nil
// sampler hides the tray usage readout.
func NewSessions(cfg *config.UserConfig, sampler *sysinfo.Sampler, logger *log.Logger) *Sessions {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "server"})
	}
	return &Sessions{cfg: cfg, sampler: sampler, log: logger}
}

// Begin records a new connection and returns its session ID.
func (s *Sessions) Begin(transport, remote string) string {
	id := newSessionID()
	n := s.active.Add(1)
	s.log.Info("session started", "session", shortID(id), "transport", transport, "remote", remote, "active", n)
	return id
}

// Done records the end of a session started by Begin.
func (s *Sessions) Done(id string) {
	n := s.active.Add(-1)
	s.log.Info("session ended", "session", shortID(id), "active", n)
}

// Active returns the number of sessions begun and not yet done.
func (s *Sessions) Active() int64 {
	return s.active.Load()
}

// New returns a fresh desktop of width x height cells for session id.
func (s *Sessions) New(id string, width, height int) *app.Model {
	return app.New(app.Options{
		Config:    s.cfg,
		Sampler:   s.sampler,
		SessionID: id,
		Logger:    s.log.With("session", shortID(id)),
		Width:     width,
		Height:    height,
	})
}

func newSessionID() string {
	return uuid.NewString()
}

func shortID(id string) string {
	return id[:min(len(id), 8)]
}

// programOptions are shared by every served session.
func programOptions() []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithFPS(app.FPS)}
}
