package sysinfo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

type fakeProbe struct {
	cpu    []float64
	mem    float64
	cpuErr error
}

func (p *fakeProbe) CPUPercent() (float64, error) {
	if p.cpuErr != nil {
		return 0, p.cpuErr
	}
	v := p.cpu[0]
	p.cpu = p.cpu[1:]
	return v, nil
}

func (p *fakeProbe) MemPercent() (float64, error) { return p.mem, nil }

func TestSamplerKeepsBoundedHistory(t *testing.T) {
	probe := &fakeProbe{mem: 37}
	for i := range 15 {
		probe.cpu = append(probe.cpu, float64(i*10))
	}
	s := NewSampler(probe)
	for range 15 {
		if err := s.Sample(); err != nil {
			t.Fatalf("Sample: %v", err)
		}
	}

	if len(s.history) != HistorySize {
		t.Errorf("history length = %d, want %d", len(s.history), HistorySize)
	}
	if got := s.CPU(); got != 100 {
		t.Errorf("CPU() = %v, want 100 (clamped)", got)
	}
	if got := s.Mem(); got != 37 {
		t.Errorf("Mem() = %v, want 37", got)
	}
}

func TestCPUGraphFixedWidth(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    string
	}{
		{"empty", nil, "CPU:             0%"},
		{"one idle sample", []float64{0}, "CPU:         ▁   0%"},
		{"rising", []float64{0, 50, 100}, "CPU:       ▁▅█ 100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampler(&fakeProbe{cpu: tt.samples})
			for range tt.samples {
				_ = s.Sample()
			}
			got := s.CPUGraph()
			if got != tt.want {
				t.Errorf("CPUGraph() = %q, want %q", got, tt.want)
			}
			if n := utf8.RuneCountInString(got); n != 19 {
				t.Errorf("graph is %d runes wide, want 19", n)
			}
		})
	}
}

func TestSampleErrorKeepsPreviousValues(t *testing.T) {
	probe := &fakeProbe{cpu: []float64{42}, mem: 10}
	s := NewSampler(probe)
	if err := s.Sample(); err != nil {
		t.Fatalf("Sample: %v", err)
	}

	probe.cpuErr = errors.New("no /proc")
	probe.mem = 20
	if err := s.Sample(); err == nil {
		t.Fatal("expected an error")
	}
	if s.CPU() != 42 {
		t.Errorf("CPU() = %v, want previous 42", s.CPU())
	}
	if s.Mem() != 20 {
		t.Errorf("Mem() = %v, want 20", s.Mem())
	}
	if !strings.HasPrefix(s.MemUsage(), "RAM:") {
		t.Errorf("MemUsage() = %q", s.MemUsage())
	}
}

type steadyProbe struct{ cpu, mem float64 }

func (p steadyProbe) CPUPercent() (float64, error) { return p.cpu, nil }
func (p steadyProbe) MemPercent() (float64, error) { return p.mem, nil }

func TestRunSamplesUntilCancelled(t *testing.T) {
	s := NewSampler(steadyProbe{cpu: 50, mem: 25})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for s.Mem() != 25 {
		select {
		case <-deadline:
			t.Fatal("sampler never ran")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if s.CPU() != 50 {
		t.Errorf("CPU = %v, want 50", s.CPU())
	}
}
