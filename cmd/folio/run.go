package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/folio/internal/app"
	"github.com/Gaurav-Gosain/folio/internal/config"
	"github.com/Gaurav-Gosain/folio/internal/server"
	"github.com/Gaurav-Gosain/folio/internal/sysinfo"
	"github.com/Gaurav-Gosain/folio/internal/tape"
	"github.com/Gaurav-Gosain/folio/internal/taskbar"
	"github.com/Gaurav-Gosain/folio/internal/theme"
	"github.com/Gaurav-Gosain/folio/internal/wm"
)

const sampleInterval = time.Second

// newLogger builds the process logger and points the package loggers at
// the same level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	level := log.InfoLevel
	if debugMode {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	config.SetLogLevel(level)
	sysinfo.SetLogger(logger.WithPrefix("sysinfo"))
	return logger
}

// loadConfig loads the user config, falling back to the defaults, and
// applies the command-line overrides.
func loadConfig(logger *log.Logger) *config.UserConfig {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "err", err)
		cfg = config.DefaultConfig()
	}
	config.ApplyOverrides(overrides(), cfg)
	return cfg
}

func startCPUProfile() (stop func(), err error) {
	if cpuProfile == "" {
		return func() {}, nil
	}
	f, err := os.Create(cpuProfile)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}

// startSampler feeds the taskbar tray until ctx is done. It returns nil
// when the tray is hidden.
func startSampler(ctx context.Context, cfg *config.UserConfig) *sysinfo.Sampler {
	if cfg.Appearance.HideSysinfo {
		return nil
	}
	sampler := sysinfo.NewSampler(sysinfo.HostProbe{})
	go sampler.Run(ctx, sampleInterval)
	return sampler
}

// shutdownOnSignal cancels the returned context on SIGINT or SIGTERM.
func shutdownOnSignal(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(c)
		select {
		case <-c:
			logger.Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func runLocal(parent context.Context, recordPath string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("folio needs a terminal; use 'folio web' or 'folio ssh' to serve it instead")
	}

	// The alt screen owns stdout, so logs go to a file.
	logPath, err := config.GetLogPath()
	if err != nil {
		return err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(logFile, "folio")
	if debugMode {
		fmt.Printf("Debug mode enabled, logging to %s\n", logPath)
	}

	stopProfile, err := startCPUProfile()
	if err != nil {
		return err
	}
	defer stopProfile()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	cfg := loadConfig(logger)
	theme.Initialize(cfg.Appearance.Theme)

	var rec *tape.Recorder
	if recordPath != "" {
		rec = tape.NewRecorder()
	}

	model := app.New(app.Options{
		Config:   cfg,
		Sampler:  startSampler(ctx, cfg),
		Logger:   logger,
		Recorder: rec,
	})

	p := tea.NewProgram(
		model,
		tea.WithFPS(app.FPS),
		tea.WithoutSignalHandler(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			p.Send(tea.QuitMsg{})
		case <-ctx.Done():
		}
	}()

	if configPath, err := config.GetConfigPath(); err == nil {
		logger.Debug("configuration", "path", configPath)
		err := config.Watch(ctx, configPath, func(next *config.UserConfig, err error) {
			if err != nil {
				logger.Warn("config reload failed", "err", err)
				return
			}
			config.ApplyOverrides(overrides(), next)
			p.Send(app.ConfigReloadedMsg{Config: next})
		})
		if err != nil {
			logger.Warn("config changes will not be applied live", "err", err)
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	if rec != nil {
		rec.RecordSnapshot(model.Desktop())
		if err := rec.WriteToFile(recordPath, "folio session "+version); err != nil {
			return fmt.Errorf("failed to save recording: %w", err)
		}
		fmt.Printf("Recorded %d commands to %s\n", rec.CommandCount(), recordPath)
	}
	return nil
}

func runSSHServer(parent context.Context, host, port, keyPath string, idle time.Duration) error {
	logger := newLogger(os.Stderr, "ssh")

	stopProfile, err := startCPUProfile()
	if err != nil {
		return err
	}
	defer stopProfile()

	ctx, cancel := shutdownOnSignal(parent, logger)
	defer cancel()

	cfg := loadConfig(logger)
	theme.Initialize(cfg.Appearance.Theme)
	sessions := server.NewSessions(cfg, startSampler(ctx, cfg), logger)

	err = server.StartSSHServer(ctx, server.SSHConfig{
		Host:        host,
		Port:        port,
		KeyPath:     keyPath,
		IdleTimeout: idle,
	}, sessions)
	if err != nil {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}

func runWebServer(parent context.Context, host, port string, readOnly bool, maxConnections int) error {
	logger := newLogger(os.Stderr, "web")

	ctx, cancel := shutdownOnSignal(parent, logger)
	defer cancel()

	cfg := loadConfig(logger)
	theme.Initialize(cfg.Appearance.Theme)
	sessions := server.NewSessions(cfg, startSampler(ctx, cfg), logger)

	err := server.StartWebServer(ctx, server.WebConfig{
		Host:           host,
		Port:           port,
		ReadOnly:       readOnly,
		MaxConnections: maxConnections,
		Debug:          debugMode,
	}, sessions)
	if err != nil {
		return fmt.Errorf("web server error: %w", err)
	}
	return nil
}

func readTape(path string) ([]tape.Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tape: %w", err)
	}
	commands, errs := tape.ParseFile(string(data))
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s has %d error(s):\n  %s", path, len(errs), strings.Join(errs, "\n  "))
	}
	return commands, nil
}

func validateTape(path string) error {
	commands, err := readTape(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d commands, OK\n", path, len(commands))
	return nil
}

func runPlay(parent context.Context, path string, cols, rows int, realTime, verbose bool) error {
	logger := newLogger(os.Stderr, "play")

	commands, err := readTape(path)
	if err != nil {
		return err
	}

	ctx, cancel := shutdownOnSignal(parent, logger)
	defer cancel()

	cfg := loadConfig(logger)
	theme.Initialize(cfg.Appearance.Theme)
	vp := cfg.Scale().SizeToUnits(cols, max(rows-1, 1))
	desktop := wm.New(cfg.WindowSpecs(),
		wm.WithLimits(cfg.Limits()),
		wm.WithViewport(vp.Width, vp.Height),
	)

	opts := []tape.RunnerOption{tape.WithSleep(realTime)}
	if verbose {
		opts = append(opts, tape.WithLog(os.Stdout))
	}
	stats, runErr := tape.NewRunner(desktop, opts...).Run(ctx, commands)

	fmt.Println(taskbar.New(desktop, taskbar.WithHideClock(true)).Render(cols))
	fmt.Println()
	printDesktopTable(desktop)
	printPlayStats(stats)

	if runErr != nil {
		if stats.Failed > 0 {
			return fmt.Errorf("%d of %d expectations failed:\n%w", stats.Failed, stats.Expectations, runErr)
		}
		return runErr
	}
	return nil
}
