package parser

import (
	"github.com/cx-lang/cxc/internal/ast"
	"github.com/cx-lang/cxc/internal/diag"
	"github.com/cx-lang/cxc/internal/lexer"
)

// binaryLevels lists the binary operators from the loosest binding level to
// the tightest. Every level is left-associative.
var binaryLevels = []map[lexer.TokenType]ast.BinaryOp{
	{lexer.OR: ast.LogicalOr},
	{lexer.AND: ast.LogicalAnd},
	{lexer.EQ: ast.Eq, lexer.NOT_EQ: ast.Neq},
	{lexer.LT: ast.Lt, lexer.GT: ast.Gt, lexer.LE: ast.Leq, lexer.GE: ast.Geq},
	{lexer.PLUS: ast.Add, lexer.MINUS: ast.Sub},
	{lexer.ASTERISK: ast.Mul, lexer.SLASH: ast.Div, lexer.PERCENT: ast.Mod},
}

var unaryOps = map[lexer.TokenType]ast.UnaryOp{
	lexer.MINUS:     ast.Neg,
	lexer.BANG:      ast.Not,
	lexer.ASTERISK:  ast.Deref,
	lexer.AMPERSAND: ast.AddrOf,
}

func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseBinary(0)
}

// parseBinary parses one operand of the given level, then folds every
// following operator of that level into a left-leaning tree.
func (p *Parser) parseBinary(level int) (ast.Expr, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := binaryLevels[level][p.peek().Type]
		if !ok {
			return left, nil
		}
		p.advance()

		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpr(op, left, right)
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	op, ok := unaryOps[p.peek().Type]
	if !ok {
		return p.parsePostfix()
	}
	opTok := p.advance()

	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return ast.NewUnaryExpr(op, x, opTok.Span), nil
}

// parsePostfix parses a primary expression followed by any number of call
// suffixes.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.accept(lexer.LPAREN) {
		args, err := parseDelimited(p, delimitedConfig{Closing: lexer.RPAREN}, func(int) (ast.Expr, error) {
			return p.parseExpression()
		})
		if err != nil {
			return nil, err
		}
		x = ast.NewCallExpr(x, args, x.Span().Merge(p.prevSpan()))
	}
	return x, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.INT:
		p.advance()
		return ast.NewIntegerLit(tok.Int, tok.Span), nil
	case lexer.IDENT:
		p.advance()
		return ast.NewIdent(tok.Literal, tok.Span), nil
	case lexer.LPAREN:
		p.advance()
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return x, nil
	case lexer.LBRACE:
		return p.parseCompound()
	case lexer.EOF:
		return nil, diag.UnexpectedEOF(p.currentSpan())
	default:
		return nil, diag.UnexpectedToken(tok.Display(), p.currentSpan())
	}
}

// parseCompound parses `{ decls }`. Failed nested declarations are reported
// and skipped with block recovery; the block itself still closes normally.
func (p *Parser) parseCompound() (*ast.CompoundExpr, error) {
	lbrace, err := p.expect(lexer.LBRACE)
	if err != nil {
		return nil, err
	}

	var decls []ast.Decl
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		if decl := p.declaration(contextBlock); decl != nil {
			decls = append(decls, decl)
		}
	}

	rbrace, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	return ast.NewCompoundExpr(decls, lbrace.Span.Merge(rbrace.Span)), nil
}
