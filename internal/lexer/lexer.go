package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cx-lang/cxc/internal/diag"
)

type LexerErrorKind int

const (
	ErrIllegalRune LexerErrorKind = iota
	ErrUnterminatedString
	ErrUnterminatedBlockComment
	ErrInvalidNumber
)

// LexerError is a recoverable lexical error. The lexer records it and keeps
// producing tokens.
type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Text    string
	Span    Span
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	switch e.Kind {
	case ErrIllegalRune:
		r := []rune(e.Text)
		if len(r) == 0 {
			r = []rune{0}
		}
		return diag.InvalidCharacter(r[0], e.Span)
	case ErrUnterminatedString:
		return diag.UnterminatedString(e.Span)
	case ErrUnterminatedBlockComment:
		return diag.UnterminatedComment(e.Span)
	case ErrInvalidNumber:
		return diag.InvalidNumber(e.Text, e.Span)
	default:
		return diag.Diagnostic{
			Stage:    diag.StageLexer,
			Severity: diag.SeverityError,
			Code:     diag.Code("LEXER_UNKNOWN_ERROR"),
			Message:  e.Message,
			Span:     e.Span,
		}
	}
}

// Lexer represents the lexer state
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // line of ch, 1-based
	column   int  // column of ch, 0-based
	filename string

	Errors []LexerError
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input: []rune(input),
		pos:   -1,
		line:  1,
		// column becomes 0 after the first read
		column: -1,
	}
	l.read()
	return l
}

// SetFilename attributes every span produced from now on to name.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Diagnostics returns the recorded lexer errors as diagnostics.
func (l *Lexer) Diagnostics() diag.List {
	var out diag.List
	for _, e := range l.Errors {
		out.Add(e.ToDiagnostic())
	}
	return out
}

// Tokenize lexes the whole input. The returned slice always ends with an EOF
// token; lexical errors are reported as diagnostics rather than aborting.
func Tokenize(input string, filename string) ([]Token, diag.List) {
	l := New(input)
	l.SetFilename(filename)

	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			continue
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks, l.Diagnostics()
}

func (l *Lexer) addError(kind LexerErrorKind, msg, text string, span Span) {
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Text:    text,
		Span:    span,
	})
}

// read advances the lexer to the next character, keeping line and column
// pointed at the new current character.
func (l *Lexer) read() {
	if l.pos >= 0 && l.pos < len(l.input) && l.input[l.pos] == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	l.pos++
	if l.pos >= len(l.input) {
		l.pos = len(l.input)
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
}

// peek returns the next character without advancing
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// makeToken builds a token that started at (startLine, startCol, startPos)
// and ends just before the current character.
func (l *Lexer) makeToken(tokType TokenType, startLine, startCol, startPos int) Token {
	endCol := l.column - 1
	if l.line != startLine || endCol < startCol {
		// zero-width (EOF) or line-crossing tokens end where they start
		endCol = startCol
	}
	return Token{
		Type:    tokType,
		Literal: string(l.input[startPos:l.pos]),
		Span: Span{
			Filename:  l.filename,
			StartLine: startLine,
			StartCol:  startCol,
			EndLine:   startLine,
			EndCol:    endCol,
		},
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.read()
		case l.ch == '/' && l.peek() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.read()
			}
		case l.ch == '/' && l.peek() == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	startLine, startCol, startPos := l.line, l.column, l.pos
	l.read() // consume '/'
	l.read() // consume '*'
	for {
		if l.ch == 0 {
			span := Span{Filename: l.filename, StartLine: startLine, StartCol: startCol, EndLine: startLine, EndCol: startCol + 1}
			l.addError(ErrUnterminatedBlockComment, "unterminated block comment", string(l.input[startPos:l.pos]), span)
			return
		}
		if l.ch == '*' && l.peek() == '/' {
			l.read()
			l.read()
			return
		}
		l.read()
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	startLine, startCol, startPos := l.line, l.column, l.pos

	// two consumes the current character and, when the next one is next,
	// that one too.
	two := func(next rune, double, single TokenType) Token {
		if l.peek() == next {
			l.read()
			l.read()
			return l.makeToken(double, startLine, startCol, startPos)
		}
		l.read()
		return l.makeToken(single, startLine, startCol, startPos)
	}
	one := func(tt TokenType) Token {
		l.read()
		return l.makeToken(tt, startLine, startCol, startPos)
	}

	switch l.ch {
	case 0:
		return l.makeToken(EOF, startLine, startCol, startPos)
	case '=':
		return two('=', EQ, ASSIGN)
	case '!':
		return two('=', NOT_EQ, BANG)
	case '+':
		return one(PLUS)
	case '-':
		return two('>', ARROW, MINUS)
	case '*':
		return one(ASTERISK)
	case '/':
		return one(SLASH)
	case '%':
		return one(PERCENT)
	case '^':
		return one(CARET)
	case '&':
		return two('&', AND, AMPERSAND)
	case '|':
		return two('|', OR, PIPE)
	case '<':
		return two('=', LE, LT)
	case '>':
		return two('=', GE, GT)
	case ';':
		return one(SEMICOLON)
	case ',':
		return one(COMMA)
	case ':':
		return one(COLON)
	case '(':
		return one(LPAREN)
	case ')':
		return one(RPAREN)
	case '{':
		return one(LBRACE)
	case '}':
		return one(RBRACE)
	case '[':
		return one(LBRACKET)
	case ']':
		return one(RBRACKET)
	case '.':
		if l.peek() == '.' && l.pos+2 < len(l.input) && l.input[l.pos+2] == '.' {
			l.read()
			l.read()
			return one(ELLIPSIS)
		}
	case '"':
		return l.readString(startLine, startCol, startPos)
	}

	switch {
	case isLetter(l.ch):
		for isLetter(l.ch) || isDigit(l.ch) {
			l.read()
		}
		tok := l.makeToken(IDENT, startLine, startCol, startPos)
		tok.Type = LookupIdent(tok.Literal)
		return tok
	case isDigit(l.ch):
		return l.readNumber(startLine, startCol, startPos)
	}

	tok := one(ILLEGAL)
	l.addError(ErrIllegalRune, "illegal character "+strconv.Quote(tok.Literal), tok.Literal, tok.Span)
	return tok
}

// readNumber reads a decimal, hex (0x) or binary (0b) literal. Underscores
// are accepted as digit separators. A literal glued to letters, or one that
// overflows int64, is reported and still returned as an INT token so the
// parser can carry on.
func (l *Lexer) readNumber(startLine, startCol, startPos int) Token {
	base := 10
	if l.ch == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		base = 16
		l.read()
		l.read()
	} else if l.ch == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		base = 2
		l.read()
		l.read()
	}

	for isDigit(l.ch) || isLetter(l.ch) {
		l.read()
	}

	tok := l.makeToken(INT, startLine, startCol, startPos)

	digits := strings.ReplaceAll(tok.Literal, "_", "")
	if base != 10 {
		digits = digits[2:]
	}
	value, err := strconv.ParseInt(digits, base, 64)
	if err != nil || digits == "" {
		l.addError(ErrInvalidNumber, "invalid number format", tok.Literal, tok.Span)
		return tok
	}
	tok.Int = value
	return tok
}

// readString reads a string literal. The opening quote is the current
// character; escapes are kept verbatim in the literal.
func (l *Lexer) readString(startLine, startCol, startPos int) Token {
	l.read() // skip opening quote
	for {
		switch l.ch {
		case '"':
			l.read()
			return l.makeToken(STRING, startLine, startCol, startPos)
		case 0, '\n':
			tok := l.makeToken(STRING, startLine, startCol, startPos)
			l.addError(ErrUnterminatedString, "unterminated string literal", tok.Literal, tok.Span)
			return tok
		case '\\':
			l.read()
			if l.ch != 0 && l.ch != '\n' {
				l.read()
			}
		default:
			l.read()
		}
	}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}
