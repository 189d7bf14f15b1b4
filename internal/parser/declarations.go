package parser

import (
	"github.com/cx-lang/cxc/internal/ast"
	"github.com/cx-lang/cxc/internal/diag"
	"github.com/cx-lang/cxc/internal/lexer"
)

// parseDeclaration dispatches on the leading token. Anything that is not a
// function or variable declaration is parsed as a side-effect expression.
func (p *Parser) parseDeclaration() (ast.Decl, error) {
	switch p.peek().Type {
	case lexer.EOF:
		return nil, diag.UnexpectedEOF(p.currentSpan())
	case lexer.FN:
		return p.parseFunctionDecl()
	case lexer.VAR, lexer.CONST:
		return p.parseVariableDecl()
	default:
		return p.parseExprDecl()
	}
}

// parseFunctionDecl parses
//
//	fn name ( [param {, param}] [, ... [type]] ) [-> type] ( ; | { decls } )
func (p *Parser) parseFunctionDecl() (*ast.FnDecl, error) {
	fnTok := p.advance()

	name, err := p.declName()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var (
		variadic     bool
		variadicType ast.Type
	)
	items, err := parseDelimited(p, delimitedConfig{Closing: lexer.RPAREN}, func(int) (*ast.Param, error) {
		if variadic {
			return nil, diag.MissingToken(string(lexer.RPAREN), p.peek().Display(), p.currentSpan())
		}
		if p.accept(lexer.ELLIPSIS) {
			variadic = true
			if !p.at(lexer.RPAREN) {
				typ, err := p.parseType()
				if err != nil {
					return nil, err
				}
				variadicType = typ
			}
			return nil, nil
		}
		return p.parseParam()
	})
	if err != nil {
		return nil, err
	}

	params := make([]*ast.Param, 0, len(items))
	for _, param := range items {
		if param != nil {
			params = append(params, param)
		}
	}

	var ret ast.Type
	if p.accept(lexer.ARROW) {
		if ret, err = p.parseType(); err != nil {
			return nil, err
		}
	}

	var body *ast.CompoundExpr
	if !p.accept(lexer.SEMICOLON) {
		if !p.at(lexer.LBRACE) {
			if p.at(lexer.EOF) {
				return nil, diag.UnexpectedEOF(p.currentSpan())
			}
			return nil, diag.MissingToken(string(lexer.LBRACE), p.peek().Display(), p.currentSpan()).
				WithHelp("a function body must be a block, or end the declaration with ';'")
		}
		if body, err = p.parseCompound(); err != nil {
			return nil, err
		}
	}

	decl := ast.NewFnDecl(name.Literal, params, ret, body, fnTok.Span.Merge(p.prevSpan()))
	decl.Variadic = variadic
	decl.VariadicType = variadicType
	return decl, nil
}

// parseParam parses `name : type`, `name : &type` or `name : &mut type`.
func (p *Parser) parseParam() (*ast.Param, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}

	if p.accept(lexer.AMPERSAND) {
		mutable := p.accept(lexer.MUT)
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ast.NewRefParam(name.Literal, typ, mutable, name.Span.Merge(p.prevSpan())), nil
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return ast.NewParam(name.Literal, typ, name.Span.Merge(p.prevSpan())), nil
}

// parseVariableDecl parses `(var | const) name : type = expr ;`.
func (p *Parser) parseVariableDecl() (*ast.VarDecl, error) {
	kw := p.advance()
	mutability := ast.Mutable
	if kw.Type == lexer.CONST {
		mutability = ast.Immutable
	}

	name, err := p.declName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	return ast.NewVarDecl(name.Literal, typ, init, mutability, kw.Span.Merge(p.prevSpan())), nil
}

func (p *Parser) parseExprDecl() (*ast.ExprDecl, error) {
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.accept(lexer.SEMICOLON)
	return ast.NewExprDecl(x, x.Span().Merge(p.prevSpan())), nil
}

// declName reads the name following a declaration keyword.
func (p *Parser) declName() (lexer.Token, error) {
	switch p.peek().Type {
	case lexer.IDENT:
		return p.advance(), nil
	case lexer.EOF:
		return lexer.Token{}, diag.UnexpectedEOF(p.currentSpan())
	default:
		return lexer.Token{}, diag.DeclarationMissingName(p.currentSpan())
	}
}

// prevSpan is the span of the most recently consumed token.
func (p *Parser) prevSpan() lexer.Span {
	if p.pos == 0 {
		return p.peek().Span
	}
	return p.tokens[p.pos-1].Span
}
