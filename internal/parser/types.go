package parser

import (
	"github.com/cx-lang/cxc/internal/ast"
	"github.com/cx-lang/cxc/internal/diag"
	"github.com/cx-lang/cxc/internal/lexer"
)

var sizedIntegers = map[string]*ast.IntegerType{
	"i8":  {Bits: 8, Signed: true},
	"i16": {Bits: 16, Signed: true},
	"i32": {Bits: 32, Signed: true},
	"i64": {Bits: 64, Signed: true},
	"u8":  {Bits: 8},
	"u16": {Bits: 16},
	"u32": {Bits: 32},
	"u64": {Bits: 64},
}

// parseType parses a base type followed by any number of '*' suffixes.
func (p *Parser) parseType() (ast.Type, error) {
	base, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	for p.accept(lexer.ASTERISK) {
		base = &ast.PointerType{To: base}
	}
	return base, nil
}

func (p *Parser) parseBaseType() (ast.Type, error) {
	tok := p.peek()
	if tok.IsTypeName() {
		return p.parseTypeName()
	}

	switch tok.Type {
	case lexer.AMPERSAND:
		p.advance()
		mutable := p.accept(lexer.MUT)
		to, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.RefType{To: to, Mutable: mutable}, nil
	case lexer.LBRACKET:
		return p.parseArrayType()
	case lexer.EOF:
		return nil, diag.UnexpectedEOF(p.currentSpan())
	default:
		return nil, diag.MissingToken("type", tok.Display(), p.currentSpan())
	}
}

// parseTypeName parses a primitive, a sized integer, `struct|enum|union Name`
// or any other identifier as a named type.
func (p *Parser) parseTypeName() (ast.Type, error) {
	tok := p.advance()
	switch tok.Type {
	case lexer.INT_TYPE:
		return ast.Int, nil
	case lexer.CHAR_TYPE:
		return ast.Char, nil
	case lexer.VOID_TYPE:
		return ast.Void, nil
	case lexer.STRUCT, lexer.ENUM, lexer.UNION:
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return &ast.NamedType{Name: tok.Literal + " " + name.Literal}, nil
	}

	if it, ok := sizedIntegers[tok.Literal]; ok {
		// fresh copy; type nodes are never shared between declarations
		return &ast.IntegerType{Bits: it.Bits, Signed: it.Signed}, nil
	}
	return &ast.NamedType{Name: tok.Literal}, nil
}

// parseArrayType parses `[T]` or `[T; N]`.
func (p *Parser) parseArrayType() (ast.Type, error) {
	p.advance()
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}

	length := ast.DynamicLength
	if p.accept(lexer.SEMICOLON) {
		n, err := p.expect(lexer.INT)
		if err != nil {
			return nil, err
		}
		if n.Int < 0 {
			return nil, diag.InvalidNumber(n.Literal, n.Span)
		}
		length = int(n.Int)
	}

	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ArrayType{Elem: elem, Length: length}, nil
}
