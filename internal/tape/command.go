package tape

import (
	"fmt"
	"strings"
	"time"
)

// CommandType represents the type of a tape command
type CommandType string

const (
	CommandType_Viewport    CommandType = "Viewport"
	CommandType_Open        CommandType = "Open"
	CommandType_Close       CommandType = "Close"
	CommandType_Minimize    CommandType = "Minimize"
	CommandType_Maximize    CommandType = "Maximize"
	CommandType_Focus       CommandType = "Focus"
	CommandType_FocusNext   CommandType = "FocusNext"
	CommandType_FocusPrev   CommandType = "FocusPrev"
	CommandType_RestoreAll  CommandType = "RestoreAll"
	CommandType_Taskbar     CommandType = "Taskbar"
	CommandType_Press       CommandType = "Press"
	CommandType_Move        CommandType = "Move"
	CommandType_Release     CommandType = "Release"
	CommandType_DoubleClick CommandType = "DoubleClick"
	CommandType_Blur        CommandType = "Blur"
	CommandType_Sleep       CommandType = "Sleep"
	CommandType_Expect      CommandType = "Expect"
)

// Expectation kinds understood by Expect.
const (
	ExpectFocused = "focused"
	ExpectBounds  = "bounds"
	ExpectState   = "state"
)

// Window states understood by "Expect state".
var windowStates = []string{"open", "closed", "minimized", "maximized"}

// Command represents a parsed tape command
type Command struct {
	Type CommandType
	// Args holds the operands as written: window IDs, numbers and, for
	// Expect, the expectation kind first.
	Args  []string
	Delay time.Duration // for Sleep
	Line  int           // Source line number
}

// String returns the command as it would be written in a script
func (c Command) String() string {
	if len(c.Args) == 0 {
		return string(c.Type)
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " \t\"#") {
			a = fmt.Sprintf("%q", a)
		}
		args[i] = a
	}
	return string(c.Type) + " " + strings.Join(args, " ")
}
