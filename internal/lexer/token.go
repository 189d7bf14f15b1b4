package lexer

import "github.com/cx-lang/cxc/internal/diag"

// TokenType represents the type of a token
type TokenType string

// Span is the source range of a token. Lines are 1-based, columns 0-based,
// and EndCol is inclusive.
type Span = diag.Span

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string // exact text from source
	Int     int64  // parsed value for INT tokens
	Span    Span
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"  // foo, main, x
	INT    TokenType = "INT"    // 1343456
	STRING TokenType = "STRING" // "hello"

	// Operators
	ASSIGN    TokenType = "="
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	ASTERISK  TokenType = "*"
	SLASH     TokenType = "/"
	PERCENT   TokenType = "%"
	BANG      TokenType = "!"
	AMPERSAND TokenType = "&"
	PIPE      TokenType = "|"
	CARET     TokenType = "^"
	AND       TokenType = "&&"
	OR        TokenType = "||"

	LT     TokenType = "<"
	GT     TokenType = ">"
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	ELLIPSIS  TokenType = "..."

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	ARROW TokenType = "->"

	// Keywords
	FN        TokenType = "FN"
	VAR       TokenType = "VAR"
	CONST     TokenType = "CONST"
	MUT       TokenType = "MUT"
	INT_TYPE  TokenType = "INT_TYPE"
	CHAR_TYPE TokenType = "CHAR_TYPE"
	VOID_TYPE TokenType = "VOID_TYPE"
	STRUCT    TokenType = "STRUCT"
	ENUM      TokenType = "ENUM"
	UNION     TokenType = "UNION"
	RETURN    TokenType = "RETURN"
	IF        TokenType = "IF"
	ELSE      TokenType = "ELSE"
	WHILE     TokenType = "WHILE"
	FOR       TokenType = "FOR"
	DO        TokenType = "DO"
	BREAK     TokenType = "BREAK"
	CONTINUE  TokenType = "CONTINUE"
	SWITCH    TokenType = "SWITCH"
	CASE      TokenType = "CASE"
	DEFAULT   TokenType = "DEFAULT"
	GOTO      TokenType = "GOTO"
	STATIC    TokenType = "STATIC"
	EXTERN    TokenType = "EXTERN"
	TYPEDEF   TokenType = "TYPEDEF"
	SIZEOF    TokenType = "SIZEOF"
)

var keywords = map[string]TokenType{
	"fn":       FN,
	"var":      VAR,
	"const":    CONST,
	"mut":      MUT,
	"int":      INT_TYPE,
	"char":     CHAR_TYPE,
	"void":     VOID_TYPE,
	"struct":   STRUCT,
	"enum":     ENUM,
	"union":    UNION,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"do":       DO,
	"break":    BREAK,
	"continue": CONTINUE,
	"switch":   SWITCH,
	"case":     CASE,
	"default":  DEFAULT,
	"goto":     GOTO,
	"static":   STATIC,
	"extern":   EXTERN,
	"typedef":  TYPEDEF,
	"sizeof":   SIZEOF,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Display returns the token as it should appear in a diagnostic message.
func (t Token) Display() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case IDENT, INT, STRING, ILLEGAL:
		return t.Literal
	}
	if t.Literal != "" {
		return t.Literal
	}
	return string(t.Type)
}

// IsTypeName reports whether the token can begin a type name.
func (t Token) IsTypeName() bool {
	switch t.Type {
	case IDENT, INT_TYPE, CHAR_TYPE, VOID_TYPE, STRUCT, ENUM, UNION:
		return true
	default:
		return false
	}
}
