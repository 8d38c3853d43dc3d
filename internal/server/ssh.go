package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/ssh"
)

const shutdownTimeout = 5 * time.Second

type sessionIDKey struct{}

// SSHConfig holds configuration for the SSH server.
type SSHConfig struct {
	Host string
	Port string
	// KeyPath is the host key; it is generated on first start. Empty uses
	// folio/ssh_host_key under the XDG data directory.
	KeyPath     string
	IdleTimeout time.Duration
}

// StartSSHServer serves a desktop to every SSH client with a PTY until ctx
// is done.
func StartSSHServer(ctx context.Context, cfg SSHConfig, sessions *Sessions) error {
	keyPath := cfg.KeyPath
	if keyPath == "" {
		p, err := xdg.DataFile("folio/ssh_host_key")
		if err != nil {
			return fmt.Errorf("failed to resolve host key path: %w", err)
		}
		keyPath = p
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(keyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(sessions.sshHandler),
			trackSessions(sessions),
			logging.Middleware(),
		),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}
	server, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		sessions.log.Info("starting SSH server", "addr", server.Addr, "host_key", keyPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("SSH server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sessions.log.Info("shutting down SSH server", "active", sessions.Active())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// trackSessions assigns each connection an ID and counts it while it is
// open. It runs before the bubbletea handler, which reads the ID back.
func trackSessions(sessions *Sessions) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			id := sessions.Begin("ssh", sess.RemoteAddr().String())
			sess.Context().SetValue(sessionIDKey{}, id)
			defer sessions.Done(id)
			next(sess)
		}
	}
}

// sshHandler creates the desktop for one SSH session.
func (s *Sessions) sshHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, active := sess.Pty()
	if !active {
		wish.Fatalln(sess, "folio needs an interactive terminal, try ssh -t")
		return nil, nil
	}
	id, _ := sess.Context().Value(sessionIDKey{}).(string)
	return s.New(id, pty.Window.Width, pty.Window.Height), programOptions()
}
