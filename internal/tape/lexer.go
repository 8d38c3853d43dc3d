package tape

import (
	"strings"
	"unicode"
)

// Lexer tokenizes .tape file input
type Lexer struct {
	input   string
	pos     int  // current position
	nextPos int  // next position
	ch      byte // current character
	line    int
	column  int
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// readChar reads the next character and updates position tracking
func (l *Lexer) readChar() {
	if l.pos < len(l.input) && l.nextPos > 0 && l.input[l.pos] == '\n' {
		l.line++
		l.column = 0
	}
	if l.nextPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.nextPos]
	}
	l.pos = l.nextPos
	l.nextPos++
	l.column++
}

// skipWhitespace skips spaces and tabs (not newlines)
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment skips a comment line (from # to end of line)
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readString reads a quoted string (single or double)
func (l *Lexer) readString(quote byte) string {
	var sb strings.Builder
	l.readChar() // skip opening quote

	for l.ch != quote && l.ch != 0 && l.ch != '\n' {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(l.ch)
			}
		} else {
			sb.WriteByte(l.ch)
		}
		l.readChar()
	}

	if l.ch == quote {
		l.readChar()
	}
	return sb.String()
}

func (l *Lexer) readWhile(ok func(byte) bool) string {
	start := l.pos
	for l.ch != 0 && ok(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// NextToken returns the next token in the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column}

	switch {
	case l.ch == 0:
		tok.Type = TOKEN_EOF

	case l.ch == '\n':
		tok.Type = TOKEN_NEWLINE
		tok.Literal = "\n"
		l.readChar()

	case l.ch == '#':
		l.skipComment()
		return l.NextToken()

	case l.ch == '"' || l.ch == '\'':
		tok.Type = TOKEN_STRING
		tok.Literal = l.readString(l.ch)

	case isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())):
		num := string(l.ch)
		l.readChar()
		num += l.readWhile(func(c byte) bool { return isDigit(c) || c == '.' })
		if isLetter(l.ch) {
			tok.Type = TOKEN_DURATION
			tok.Literal = num + l.readWhile(isDurationChar)
		} else {
			tok.Type = TOKEN_NUMBER
			tok.Literal = num
		}

	case isIdentifierChar(l.ch):
		literal := l.readWhile(isIdentifierChar)
		tok.Type = LookupKeyword(literal)
		tok.Literal = literal

	default:
		tok.Type = TOKEN_ILLEGAL
		tok.Literal = string(l.ch)
		l.readChar()
	}

	return tok
}

// peekChar returns the next character without consuming it
func (l *Lexer) peekChar() byte {
	if l.nextPos >= len(l.input) {
		return 0
	}
	return l.input[l.nextPos]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

// isDurationChar accepts compound durations such as "1m30s".
func isDurationChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '.'
}

// isIdentifierChar accepts window IDs such as "about-me" or "blog.post".
func isIdentifierChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '-' || ch == '.'
}

// Tokenize returns all tokens from the input (useful for testing)
func Tokenize(input string) []Token {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			break
		}
	}
	return tokens
}
