// Package sysinfo samples host CPU and memory usage for the taskbar tray.
package sysinfo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "sysinfo",
})

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// HistorySize is the number of CPU samples kept for the graph.
const HistorySize = 10

var bars = []rune("▁▂▃▄▅▆▇█")

// Probe reads the current CPU and memory usage, in percent.
type Probe interface {
	CPUPercent() (float64, error)
	MemPercent() (float64, error)
}

// HostProbe reads the local host through gopsutil.
type HostProbe struct{}

// CPUPercent returns the CPU usage since the previous call.
func (HostProbe) CPUPercent() (float64, error) {
	pct, err := cpu.Percent(0, false)
	if err != nil {
		return 0, fmt.Errorf("failed to read cpu usage: %w", err)
	}
	if len(pct) == 0 {
		return 0, nil
	}
	return pct[0], nil
}

// MemPercent returns the share of physical memory in use.
func (HostProbe) MemPercent() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("failed to read memory usage: %w", err)
	}
	return vm.UsedPercent, nil
}

// Sampler keeps a short CPU history and the latest memory reading. It is
// shared by every session on a server, so it is safe for concurrent use.
type Sampler struct {
	probe Probe

	mu      sync.RWMutex
	history []float64
	mem     float64
}

// NewSampler returns a sampler reading from p. A nil probe reads the host.
func NewSampler(p Probe) *Sampler {
	if p == nil {
		p = HostProbe{}
	}
	return &Sampler{probe: p}
}

// Sample takes one reading. Failed reads keep the previous values.
func (s *Sampler) Sample() error {
	c, cerr := s.probe.CPUPercent()
	m, merr := s.probe.MemPercent()

	s.mu.Lock()
	defer s.mu.Unlock()
	if cerr == nil {
		if len(s.history) >= HistorySize {
			s.history = s.history[1:]
		}
		s.history = append(s.history, clampPercent(c))
	}
	if merr == nil {
		s.mem = clampPercent(m)
	}

	if cerr != nil {
		return cerr
	}
	return merr
}

func clampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}

// CPU returns the latest CPU reading.
func (s *Sampler) CPU() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return 0
	}
	return s.history[len(s.history)-1]
}

// Mem returns the latest memory reading.
func (s *Sampler) Mem() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem
}

// CPUGraph renders the history as a fixed-width bar graph followed by the
// latest percentage, e.g. "CPU:    ▁▂▃▅▇█  42%". The width never changes so
// the tray does not shift.
func (s *Sampler) CPUGraph() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", HistorySize-len(s.history)))
	for _, v := range s.history {
		b.WriteRune(bars[min(int(v/12.5), len(bars)-1)])
	}

	current := 0.0
	if len(s.history) > 0 {
		current = s.history[len(s.history)-1]
	}
	return fmt.Sprintf("CPU:%s %3.0f%%", b.String(), current)
}

// MemUsage renders the memory reading, e.g. "RAM:  37%".
func (s *Sampler) MemUsage() string {
	return fmt.Sprintf("RAM:%4.0f%%", s.Mem())
}

// Run samples every interval until ctx is done. Read errors are logged at
// debug level; a host that cannot report usage just shows stale values.
func (s *Sampler) Run(ctx context.Context, every time.Duration) {
	if err := s.Sample(); err != nil {
		logger.Debug("sysinfo sample failed", "err", err)
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.Sample(); err != nil {
				logger.Debug("sysinfo sample failed", "err", err)
			}
		}
	}
}
