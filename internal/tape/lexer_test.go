package tape

import (
	"testing"
)

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "Open command",
			input:    `Open about`,
			expected: []TokenType{TOKEN_OPEN, TOKEN_IDENTIFIER, TOKEN_EOF},
		},
		{
			name:     "Sleep command",
			input:    `Sleep 500ms`,
			expected: []TokenType{TOKEN_SLEEP, TOKEN_DURATION, TOKEN_EOF},
		},
		{
			name:     "Viewport command",
			input:    `Viewport 1280 720`,
			expected: []TokenType{TOKEN_VIEWPORT, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_EOF},
		},
		{
			name:     "Bare command",
			input:    `RestoreAll`,
			expected: []TokenType{TOKEN_RESTORE_ALL, TOKEN_EOF},
		},
		{
			name:     "Expect bounds",
			input:    `Expect bounds about 0 0 320 208`,
			expected: []TokenType{TOKEN_EXPECT, TOKEN_IDENTIFIER, TOKEN_IDENTIFIER, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_EOF},
		},
		{
			name:     "Two lines",
			input:    "Press 10 10\nRelease",
			expected: []TokenType{TOKEN_PRESS, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_NEWLINE, TOKEN_RELEASE, TOKEN_EOF},
		},
		{
			name:     "Illegal character",
			input:    `Open @`,
			expected: []TokenType{TOKEN_OPEN, TOKEN_ILLEGAL, TOKEN_EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)

			if len(tokens) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %d: %v", len(tt.expected), len(tokens), tokens)
			}

			for i, expectedType := range tt.expected {
				if tokens[i].Type != expectedType {
					t.Errorf("Token %d: expected %v, got %v", i, expectedType, tokens[i].Type)
				}
			}
		})
	}
}

func TestLexerLiterals(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantType    TokenType
		wantLiteral string
	}{
		{"Negative number", `-40`, TOKEN_NUMBER, "-40"},
		{"Milliseconds", `250ms`, TOKEN_DURATION, "250ms"},
		{"Fractional seconds", `1.5s`, TOKEN_DURATION, "1.5s"},
		{"Compound duration", `1m30s`, TOKEN_DURATION, "1m30s"},
		{"Hyphenated id", `about-me`, TOKEN_IDENTIFIER, "about-me"},
		{"Dotted id", `blog.post`, TOKEN_IDENTIFIER, "blog.post"},
		{"Double quoted string", `"my window"`, TOKEN_STRING, "my window"},
		{"Single quoted string", `'my window'`, TOKEN_STRING, "my window"},
		{"Escaped quote", `"say \"hi\""`, TOKEN_STRING, `say "hi"`},
		{"Keyword is case sensitive", `open`, TOKEN_IDENTIFIER, "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			if tok.Type != tt.wantType {
				t.Errorf("Expected type %v, got %v", tt.wantType, tok.Type)
			}
			if tok.Literal != tt.wantLiteral {
				t.Errorf("Expected literal %q, got %q", tt.wantLiteral, tok.Literal)
			}
		})
	}
}

func TestLexerComments(t *testing.T) {
	input := "# open the about window\nOpen about # trailing\n"
	expected := []TokenType{TOKEN_NEWLINE, TOKEN_OPEN, TOKEN_IDENTIFIER, TOKEN_NEWLINE, TOKEN_EOF}

	tokens := Tokenize(input)
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, want := range expected {
		if tokens[i].Type != want {
			t.Errorf("Token %d: expected %v, got %v", i, want, tokens[i].Type)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	tokens := Tokenize("Open about\n  Close about")

	tests := []struct {
		index  int
		typ    TokenType
		line   int
		column int
	}{
		{0, TOKEN_OPEN, 1, 1},
		{1, TOKEN_IDENTIFIER, 1, 6},
		{3, TOKEN_CLOSE, 2, 3},
		{4, TOKEN_IDENTIFIER, 2, 9},
	}

	for _, tt := range tests {
		tok := tokens[tt.index]
		if tok.Type != tt.typ {
			t.Errorf("Token %d: expected %v, got %v", tt.index, tt.typ, tok.Type)
			continue
		}
		if tok.Line != tt.line || tok.Column != tt.column {
			t.Errorf("Token %d (%s): expected %d:%d, got %d:%d",
				tt.index, tok.Literal, tt.line, tt.column, tok.Line, tok.Column)
		}
	}
}

func TestIsCommand(t *testing.T) {
	for keyword, tt := range KeywordTokenMap {
		if !tt.IsCommand() {
			t.Errorf("%s should be a command", keyword)
		}
	}
	for _, tt := range []TokenType{TOKEN_EOF, TOKEN_NEWLINE, TOKEN_NUMBER, TOKEN_IDENTIFIER} {
		if tt.IsCommand() {
			t.Errorf("%s should not be a command", tt)
		}
	}
}
