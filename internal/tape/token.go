package tape

// TokenType represents the type of a token in a .tape file
type TokenType string

const (
	// Special tokens
	TOKEN_EOF     TokenType = "EOF"
	TOKEN_ILLEGAL TokenType = "ILLEGAL"
	TOKEN_NEWLINE TokenType = "NEWLINE"

	// Literals
	TOKEN_STRING     TokenType = "STRING"
	TOKEN_NUMBER     TokenType = "NUMBER"
	TOKEN_DURATION   TokenType = "DURATION"
	TOKEN_IDENTIFIER TokenType = "IDENTIFIER"

	// Commands - Desktop
	TOKEN_VIEWPORT    TokenType = "Viewport"
	TOKEN_OPEN        TokenType = "Open"
	TOKEN_CLOSE       TokenType = "Close"
	TOKEN_MINIMIZE    TokenType = "Minimize"
	TOKEN_MAXIMIZE    TokenType = "Maximize"
	TOKEN_FOCUS       TokenType = "Focus"
	TOKEN_FOCUS_NEXT  TokenType = "FocusNext"
	TOKEN_FOCUS_PREV  TokenType = "FocusPrev"
	TOKEN_RESTORE_ALL TokenType = "RestoreAll"
	TOKEN_TASKBAR     TokenType = "Taskbar"

	// Commands - Pointer
	TOKEN_PRESS        TokenType = "Press"
	TOKEN_MOVE         TokenType = "Move"
	TOKEN_RELEASE      TokenType = "Release"
	TOKEN_DOUBLE_CLICK TokenType = "DoubleClick"
	TOKEN_BLUR         TokenType = "Blur"

	// Commands - Synchronization and checks
	TOKEN_SLEEP  TokenType = "Sleep"
	TOKEN_EXPECT TokenType = "Expect"
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsCommand returns true if the token type starts a command
func (tt TokenType) IsCommand() bool {
	switch tt {
	case TOKEN_VIEWPORT, TOKEN_OPEN, TOKEN_CLOSE, TOKEN_MINIMIZE, TOKEN_MAXIMIZE,
		TOKEN_FOCUS, TOKEN_FOCUS_NEXT, TOKEN_FOCUS_PREV, TOKEN_RESTORE_ALL, TOKEN_TASKBAR,
		TOKEN_PRESS, TOKEN_MOVE, TOKEN_RELEASE, TOKEN_DOUBLE_CLICK, TOKEN_BLUR,
		TOKEN_SLEEP, TOKEN_EXPECT:
		return true
	}
	return false
}

// KeywordTokenMap maps string keywords to token types
var KeywordTokenMap = map[string]TokenType{
	"Viewport":   TOKEN_VIEWPORT,
	"Open":       TOKEN_OPEN,
	"Close":      TOKEN_CLOSE,
	"Minimize":   TOKEN_MINIMIZE,
	"Maximize":   TOKEN_MAXIMIZE,
	"Focus":      TOKEN_FOCUS,
	"FocusNext":  TOKEN_FOCUS_NEXT,
	"FocusPrev":  TOKEN_FOCUS_PREV,
	"RestoreAll": TOKEN_RESTORE_ALL,
	"Taskbar":    TOKEN_TASKBAR,

	"Press":       TOKEN_PRESS,
	"Move":        TOKEN_MOVE,
	"Release":     TOKEN_RELEASE,
	"DoubleClick": TOKEN_DOUBLE_CLICK,
	"Blur":        TOKEN_BLUR,

	"Sleep":  TOKEN_SLEEP,
	"Expect": TOKEN_EXPECT,
}

// LookupKeyword returns the token type for a keyword, or TOKEN_IDENTIFIER if not a keyword
func LookupKeyword(ident string) TokenType {
	if tt, ok := KeywordTokenMap[ident]; ok {
		return tt
	}
	return TOKEN_IDENTIFIER
}
