package tape

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

type operand int

const (
	opWindow operand = iota
	opNumber
	opDuration
)

func (o operand) String() string {
	switch o {
	case opNumber:
		return "a number"
	case opDuration:
		return "a duration"
	default:
		return "a window id"
	}
}

type signature struct {
	typ  CommandType
	args []operand
}

// signatures lists the operands of every command except Expect.
var signatures = map[TokenType]signature{
	TOKEN_VIEWPORT:     {CommandType_Viewport, []operand{opNumber, opNumber}},
	TOKEN_OPEN:         {CommandType_Open, []operand{opWindow}},
	TOKEN_CLOSE:        {CommandType_Close, []operand{opWindow}},
	TOKEN_MINIMIZE:     {CommandType_Minimize, []operand{opWindow}},
	TOKEN_MAXIMIZE:     {CommandType_Maximize, []operand{opWindow}},
	TOKEN_FOCUS:        {CommandType_Focus, []operand{opWindow}},
	TOKEN_FOCUS_NEXT:   {CommandType_FocusNext, nil},
	TOKEN_FOCUS_PREV:   {CommandType_FocusPrev, nil},
	TOKEN_RESTORE_ALL:  {CommandType_RestoreAll, nil},
	TOKEN_TASKBAR:      {CommandType_Taskbar, []operand{opWindow}},
	TOKEN_PRESS:        {CommandType_Press, []operand{opNumber, opNumber}},
	TOKEN_MOVE:         {CommandType_Move, []operand{opNumber, opNumber}},
	TOKEN_RELEASE:      {CommandType_Release, nil},
	TOKEN_DOUBLE_CLICK: {CommandType_DoubleClick, []operand{opNumber, opNumber}},
	TOKEN_BLUR:         {CommandType_Blur, nil},
	TOKEN_SLEEP:        {CommandType_Sleep, []operand{opDuration}},
}

// Parser parses .tape files into commands
type Parser struct {
	lexer  *Lexer
	curTok Token
	errors []string
}

// NewParser creates a new parser from a lexer
func NewParser(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.lexer.NextToken()
}

// Parse parses the entire tape file and returns all valid commands. Lines
// with errors are skipped and reported by Errors.
func (p *Parser) Parse() []Command {
	var commands []Command
	for p.curTok.Type != TOKEN_EOF {
		if p.curTok.Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}
		if cmd, ok := p.parseCommand(); ok {
			commands = append(commands, cmd)
		}
	}
	return commands
}

func (p *Parser) parseCommand() (Command, bool) {
	tok := p.curTok
	cmd := Command{Line: tok.Line}

	if tok.Type == TOKEN_EXPECT {
		p.nextToken()
		return p.parseExpect(cmd)
	}

	sig, ok := signatures[tok.Type]
	if !ok {
		p.addError(fmt.Sprintf("unknown command %q", tok.Literal))
		p.skipToNextLine()
		return cmd, false
	}
	cmd.Type = sig.typ
	p.nextToken()

	for _, op := range sig.args {
		arg, ok := p.parseOperand(op, string(cmd.Type))
		if !ok {
			return cmd, false
		}
		cmd.Args = append(cmd.Args, arg)
	}
	if cmd.Type == CommandType_Sleep {
		d, err := time.ParseDuration(cmd.Args[0])
		if err != nil || d < 0 {
			p.addErrorAt(tok.Line, fmt.Sprintf("invalid duration: %s", cmd.Args[0]))
			p.skipToNextLine()
			return cmd, false
		}
		cmd.Delay = d
	}
	return cmd, p.endOfLine()
}

// parseExpect handles the three expectation forms:
//
//	Expect focused <id|none>
//	Expect bounds <id> <x> <y> <width> <height>
//	Expect state <id> <open|closed|minimized|maximized>
func (p *Parser) parseExpect(cmd Command) (Command, bool) {
	cmd.Type = CommandType_Expect
	if p.curTok.Type != TOKEN_IDENTIFIER {
		p.addError("Expect needs focused, bounds or state")
		p.skipToNextLine()
		return cmd, false
	}
	kind := p.curTok.Literal
	p.nextToken()

	var ops []operand
	switch kind {
	case ExpectFocused:
		ops = []operand{opWindow}
	case ExpectBounds:
		ops = []operand{opWindow, opNumber, opNumber, opNumber, opNumber}
	case ExpectState:
		ops = []operand{opWindow, opWindow}
	default:
		p.addError(fmt.Sprintf("unknown expectation %q", kind))
		p.skipToNextLine()
		return cmd, false
	}

	cmd.Args = []string{kind}
	for _, op := range ops {
		arg, ok := p.parseOperand(op, "Expect "+kind)
		if !ok {
			return cmd, false
		}
		cmd.Args = append(cmd.Args, arg)
	}
	if kind == ExpectState && !slices.Contains(windowStates, cmd.Args[2]) {
		p.addErrorAt(cmd.Line, fmt.Sprintf("unknown window state %q", cmd.Args[2]))
		p.skipToNextLine()
		return cmd, false
	}
	return cmd, p.endOfLine()
}

func (p *Parser) parseOperand(op operand, context string) (string, bool) {
	tok := p.curTok
	valid := false
	switch op {
	case opWindow:
		valid = tok.Type == TOKEN_IDENTIFIER || tok.Type == TOKEN_STRING
	case opNumber:
		if tok.Type == TOKEN_NUMBER {
			_, err := strconv.Atoi(tok.Literal)
			valid = err == nil
		}
	case opDuration:
		valid = tok.Type == TOKEN_DURATION
	}
	if !valid {
		got := tok.Literal
		if tok.Type == TOKEN_NEWLINE || tok.Type == TOKEN_EOF {
			got = "end of line"
		}
		p.addError(fmt.Sprintf("%s expects %s, got %q", context, op, got))
		p.skipToNextLine()
		return "", false
	}
	p.nextToken()
	return tok.Literal, true
}

// endOfLine reports a trailing operand as an error.
func (p *Parser) endOfLine() bool {
	if p.curTok.Type == TOKEN_NEWLINE || p.curTok.Type == TOKEN_EOF {
		return true
	}
	p.addError(fmt.Sprintf("unexpected %q", p.curTok.Literal))
	p.skipToNextLine()
	return false
}

func (p *Parser) skipToNextLine() {
	for p.curTok.Type != TOKEN_NEWLINE && p.curTok.Type != TOKEN_EOF {
		p.nextToken()
	}
}

func (p *Parser) addError(msg string) {
	p.addErrorAt(p.curTok.Line, msg)
}

func (p *Parser) addErrorAt(line int, msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", line, msg))
}

// Errors returns the parse errors
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseFile parses a complete tape script.
func ParseFile(content string) ([]Command, []string) {
	p := NewParser(New(content))
	commands := p.Parse()
	return commands, p.Errors()
}

// ValidateScript checks if a tape script is valid (parses without errors)
func ValidateScript(content string) (bool, []string) {
	commands, errors := ParseFile(content)
	if len(errors) > 0 {
		return false, errors
	}
	if len(commands) == 0 {
		return false, []string{"no commands found in script"}
	}
	return true, nil
}
