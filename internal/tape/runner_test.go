package tape

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/folio/internal/geom"
	"github.com/Gaurav-Gosain/folio/internal/wm"
)

func testDesktop() *wm.Desktop {
	return wm.New([]wm.WindowSpec{
		{ID: "a", Title: "A", Bounds: geom.Rect{X: 50, Y: 60, Width: 400, Height: 300}},
		{ID: "b", Title: "B", Bounds: geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}},
		{ID: "c", Title: "C", Bounds: geom.Rect{X: 150, Y: 150, Width: 400, Height: 300}},
	})
}

func mustParse(t *testing.T, script string) []Command {
	t.Helper()
	commands, errs := ParseFile(script)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return commands
}

func TestRunnerScenario(t *testing.T) {
	script := `Viewport 1280 720
Open a
Open b
Expect focused b

# drag a by its header
Press 60 65
Move 210 165
Release
Expect focused a
Expect bounds a 200 160 400 300

# grow it from the corner
Press 595 455
Move 645 505
Release
Expect bounds a 200 160 450 350

# double click the header toggles maximize
DoubleClick 210 165
Expect state a maximized
Expect bounds a 0 0 1280 720
DoubleClick 10 5
Expect bounds a 200 160 450 350

# the taskbar minimizes the focused window
Taskbar a
Expect state a minimized
Expect focused none
RestoreAll
Expect focused a
Close b
Expect state b closed
Sleep 10s
`
	d := testDesktop()
	var log bytes.Buffer
	stats, err := NewRunner(d, WithLog(&log)).Run(context.Background(), mustParse(t, script))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Expectations != 11 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want 11 expectations and no failures", stats)
	}
	if stats.Commands != 26 {
		t.Errorf("stats.Commands = %d, want 26", stats.Commands)
	}
	if stats.Elapsed > 5e9 {
		t.Errorf("Sleep should be skipped by default, run took %v", stats.Elapsed)
	}
	if !strings.Contains(log.String(), "[1/26] Viewport 1280 720") {
		t.Errorf("log missing first command:\n%s", log.String())
	}
}

func TestRunnerFailedExpectations(t *testing.T) {
	script := `Open a
Expect focused b
Expect bounds a 0 0 10 10
Expect state a open
Expect state zz open
`
	stats, err := NewRunner(testDesktop()).Run(context.Background(), mustParse(t, script))
	if err == nil {
		t.Fatal("Run() returned no error for failing expectations")
	}
	if stats.Expectations != 4 || stats.Failed != 3 {
		t.Errorf("stats = %+v, want 4 expectations and 3 failures", stats)
	}

	var expErr *ExpectationError
	if !errors.As(err, &expErr) {
		t.Fatalf("error %v does not wrap an ExpectationError", err)
	}
	if expErr.Line != 2 || expErr.Want != "focused b" || expErr.Got != "focused a" {
		t.Errorf("first failure = %+v", expErr)
	}

	msg := err.Error()
	for _, want := range []string{
		"line 3: expected a bounds 0 0 10 10, got 50 60 400 300",
		"line 5: expected window zz, got no such window",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q:\n%s", want, msg)
		}
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := testDesktop()
	stats, err := NewRunner(d).Run(ctx, mustParse(t, "Open a\nOpen b\n"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if stats.Commands != 0 {
		t.Errorf("ran %d commands after cancel", stats.Commands)
	}
	if d.FocusedID() != "" {
		t.Errorf("desktop changed after cancel: focused %q", d.FocusedID())
	}
}

func TestRunnerSleepHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	commands := mustParse(t, "Open a\nSleep 1m\nOpen b\n")

	runner := NewRunner(testDesktop(), WithSleep(true))
	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx, commands)
		done <- err
	}()
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}
