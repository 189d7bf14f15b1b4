package parser

import (
	"errors"
	"fmt"

	"github.com/cx-lang/cxc/internal/ast"
	"github.com/cx-lang/cxc/internal/diag"
	"github.com/cx-lang/cxc/internal/lexer"
)

type Option func(*options)

type options struct {
	filename        string
	firstTokenSpans bool
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithFirstTokenSpans makes every diagnostic point at the first token of the
// stream instead of the token under the cursor. It only exists to compare
// against output of the historical implementation.
func WithFirstTokenSpans() Option {
	return func(o *options) {
		o.firstTokenSpans = true
	}
}

// parseContext names where a declaration is being parsed. It selects the
// recovery anchor after a failed declaration.
type parseContext int

const (
	contextGlobal parseContext = iota
	contextFunction
	contextFunctionParams
	contextBlock
	contextExpression
)

func (c parseContext) String() string {
	switch c {
	case contextGlobal:
		return "global"
	case contextFunction:
		return "function"
	case contextFunctionParams:
		return "function parameters"
	case contextBlock:
		return "block"
	case contextExpression:
		return "expression"
	default:
		return fmt.Sprintf("context(%d)", int(c))
	}
}

// Parser is a recursive-descent parser over a finished token stream.
//   - The cursor only moves forward, through advance; recovery skips tokens
//     but never rewinds.
//   - errors is append-only and keeps encounter order. A failed declaration
//     contributes exactly one entry.
//   - A Parser is used for a single ParseProgram call and is not safe for
//     concurrent use.
type Parser struct {
	tokens []lexer.Token
	pos    int

	errors diag.List

	filename        string
	firstTokenSpans bool
}

// New returns a parser reading tokens. The stream is expected to end with an
// EOF token; a missing one is synthesized.
func New(tokens []lexer.Token, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Parser{
		tokens:          tokens,
		filename:        cfg.filename,
		firstTokenSpans: cfg.firstTokenSpans,
	}
}

// ParseProgram parses tokens as one translation unit. See (*Parser).ParseProgram.
func ParseProgram(tokens []lexer.Token, opts ...Option) (*ast.Program, diag.List) {
	return New(tokens, opts...).ParseProgram()
}

// ParseSource tokenizes src and parses it. Lexical diagnostics come first in
// the returned batch, followed by syntax diagnostics.
func ParseSource(src string, opts ...Option) (*ast.Program, diag.List) {
	p := New(nil, opts...)
	toks, lexDiags := lexer.Tokenize(src, p.filename)
	p.tokens = toks

	prog, parseDiags := p.ParseProgram()
	if len(lexDiags) == 0 {
		return prog, parseDiags
	}
	all := append(lexDiags, parseDiags...)
	return nil, all
}

// ParseProgram parses the whole token stream. It returns either the program
// and a nil list, or a nil program and every diagnostic found: parsing always
// continues to the end of the stream so one call reports all syntax errors.
func (p *Parser) ParseProgram() (*ast.Program, diag.List) {
	start := p.peek().Span

	var decls []ast.Decl
	for !p.at(lexer.EOF) {
		if decl := p.declaration(contextGlobal); decl != nil {
			decls = append(decls, decl)
		}
	}

	if len(p.errors) > 0 {
		return nil, p.errors.WithFilename(p.filename)
	}

	return ast.NewProgram(decls, start.Merge(p.peek().Span)), nil
}

// declaration parses one declaration. On failure it records the diagnostic,
// resynchronizes at the anchor of ctx and returns nil.
func (p *Parser) declaration(ctx parseContext) ast.Decl {
	decl, err := p.parseDeclaration()
	if err != nil {
		p.report(err)
		p.recover(ctx)
		return nil
	}
	return decl
}

// recover skips tokens up to the recovery anchor of ctx. Global declarations
// resynchronize after the next ';'. Block declarations also stop in front of
// the closing '}' so the enclosing block can still be closed.
func (p *Parser) recover(ctx parseContext) {
	switch ctx {
	case contextGlobal:
		p.skipPast(lexer.SEMICOLON)
	case contextBlock:
		p.skipPast(lexer.SEMICOLON, lexer.RBRACE)
	default:
		panic(fmt.Sprintf("parser: no recovery anchor in %s context", ctx))
	}
}

// skipPast discards tokens until EOF or one of anchors. A ';' anchor is
// consumed; any other anchor is left under the cursor.
func (p *Parser) skipPast(anchors ...lexer.TokenType) {
	for !p.at(lexer.EOF) {
		tt := p.peek().Type
		for _, anchor := range anchors {
			if tt != anchor {
				continue
			}
			if tt == lexer.SEMICOLON {
				p.advance()
			}
			return
		}
		p.advance()
	}
}

// report records err. Every enclosing construct left open at end of input
// fails at the same place, so an end-of-input diagnostic repeating the
// previous one is dropped.
func (p *Parser) report(err error) {
	var d diag.Diagnostic
	if !errors.As(err, &d) {
		d = diag.UnexpectedToken(err.Error(), p.currentSpan())
	}
	if n := len(p.errors); n > 0 && d.Code == diag.CodeParseUnexpectedEndOfFile {
		if last := p.errors[n-1]; last.Code == d.Code && last.Span == d.Span {
			return
		}
	}
	p.errors.Add(d)
}

// peek returns the token under the cursor.
func (p *Parser) peek() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.eofToken()
}

func (p *Parser) eofToken() lexer.Token {
	var span lexer.Span
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1].Span
		span = lexer.Span{
			Filename:  last.Filename,
			StartLine: last.EndLine,
			StartCol:  last.EndCol + 1,
			EndLine:   last.EndLine,
			EndCol:    last.EndCol + 1,
		}
	}
	return lexer.Token{Type: lexer.EOF, Span: span}
}

// advance consumes and returns the token under the cursor. EOF is never consumed.
func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) at(tt lexer.TokenType) bool {
	return p.peek().Type == tt
}

// accept consumes the current token when it has type tt.
func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.at(tt) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of type tt or fails with a missing-token diagnostic.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if p.at(tt) {
		return p.advance(), nil
	}
	if p.at(lexer.EOF) {
		return lexer.Token{}, diag.UnexpectedEOF(p.currentSpan())
	}
	return lexer.Token{}, diag.MissingToken(string(tt), p.peek().Display(), p.currentSpan())
}

// expectIdent consumes an identifier.
func (p *Parser) expectIdent() (lexer.Token, error) {
	if p.at(lexer.IDENT) {
		return p.advance(), nil
	}
	if p.at(lexer.EOF) {
		return lexer.Token{}, diag.UnexpectedEOF(p.currentSpan())
	}
	return lexer.Token{}, diag.MissingIdentifier(p.peek().Display(), p.currentSpan())
}

// currentSpan is the location attached to diagnostics raised at the cursor.
func (p *Parser) currentSpan() lexer.Span {
	if p.firstTokenSpans && len(p.tokens) > 0 {
		return p.tokens[0].Span
	}
	return p.peek().Span
}
