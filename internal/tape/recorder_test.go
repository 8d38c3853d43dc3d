package tape

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/folio/internal/geom"
	"github.com/Gaurav-Gosain/folio/internal/pointer"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func down(x, y, clicks int) pointer.Event {
	return pointer.Event{Kind: pointer.Down, Point: geom.Point{X: x, Y: y}, Button: pointer.Primary, Clicks: clicks}
}

func move(x, y int) pointer.Event {
	return pointer.Event{Kind: pointer.Move, Point: geom.Point{X: x, Y: y}}
}

func up() pointer.Event {
	return pointer.Event{Kind: pointer.Up}
}

func TestRecorderPointerEvents(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	r := NewRecorder(WithRecorderClock(clock.now))

	r.RecordViewport(800, 600)
	r.RecordViewport(1280, 720)
	r.RecordAction(CommandType_Open, "a")
	r.RecordPointer(down(60, 65, 1))
	r.RecordPointer(move(100, 100))
	r.RecordPointer(move(150, 130))
	r.RecordPointer(move(210, 165))
	r.RecordPointer(up())
	clock.advance(1500 * time.Millisecond)
	r.RecordPointer(down(210, 165, 1))
	r.RecordPointer(up())
	r.RecordPointer(down(210, 165, 2))
	r.RecordPointer(up())
	r.RecordPointer(pointer.Event{Kind: pointer.Cancel})
	r.RecordAction(CommandType_FocusNext)

	want := `Viewport 1280 720
Open a
Press 60 65
Move 210 165
Release
Sleep 1.5s
DoubleClick 210 165
Blur
FocusNext
`
	if got := r.String(""); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestRecorderSkipsShortPauses(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	r := NewRecorder(WithRecorderClock(clock.now))

	r.RecordAction(CommandType_Open, "a")
	clock.advance(50 * time.Millisecond)
	r.RecordAction(CommandType_Minimize, "a")
	clock.advance(2 * time.Minute)
	r.RecordAction(CommandType_RestoreAll)

	got := r.String("")
	want := "Open a\nMinimize a\nSleep 2m0s\nRestoreAll\n"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	r = NewRecorder(WithRecorderClock(clock.now), WithMinSleep(0))
	r.RecordAction(CommandType_Open, "a")
	clock.advance(time.Hour)
	r.RecordAction(CommandType_Close, "a")
	if r.CommandCount() != 2 {
		t.Errorf("WithMinSleep(0) recorded %v", r.Commands())
	}
}

func TestRecorderReplaysToSameState(t *testing.T) {
	original := testDesktop()
	clock := &fakeClock{t: time.Now()}
	r := NewRecorder(WithRecorderClock(clock.now))

	record := func(ev pointer.Event) {
		r.RecordPointer(ev)
		original.HandlePointer(ev)
	}

	original.SetViewport(1280, 720)
	r.RecordViewport(1280, 720)
	original.Open("a")
	r.RecordAction(CommandType_Open, "a")
	original.Open("b")
	r.RecordAction(CommandType_Open, "b")
	record(down(60, 65, 1))
	record(move(300, 200))
	record(up())
	original.Minimize("b")
	r.RecordAction(CommandType_Minimize, "b")
	r.RecordSnapshot(original)

	header := "folio session"
	path := filepath.Join(t.TempDir(), "session.tape")
	if err := r.WriteToFile(path, header); err != nil {
		t.Fatalf("WriteToFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "# folio session\n# Recorded: ") {
		t.Errorf("missing header:\n%s", content)
	}
	for _, want := range []string{
		"Expect state a open",
		"Expect bounds a 290 195 400 300",
		"Expect state b minimized",
		"Expect state c closed",
		"Expect focused a",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("tape missing %q:\n%s", want, content)
		}
	}

	stats, err := NewRunner(testDesktop()).Run(context.Background(), mustParse(t, content))
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if stats.Expectations == 0 {
		t.Error("replay checked no expectations")
	}
}

func TestRecorderClear(t *testing.T) {
	r := NewRecorder()
	r.RecordAction(CommandType_Open, "a")
	r.Clear()
	if r.CommandCount() != 0 {
		t.Errorf("CommandCount() = %d after Clear", r.CommandCount())
	}
}
