package parser

import (
	"testing"

	"github.com/cx-lang/cxc/internal/lexer"
)

func TestRecoverWithoutAnchorPanics(t *testing.T) {
	for _, ctx := range []parseContext{contextFunction, contextFunctionParams, contextExpression} {
		t.Run(ctx.String(), func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected recovery in %s context to panic", ctx)
				}
			}()

			p := New([]lexer.Token{{Type: lexer.EOF}})
			p.recover(ctx)
		})
	}
}

func TestRecoverAnchors(t *testing.T) {
	toks, errs := lexer.Tokenize("a b ; c } d", "")
	if len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}

	p := New(toks)
	p.recover(contextBlock)
	if got := p.peek().Literal; got != "c" {
		t.Fatalf("expected block recovery to stop after ';' at %q, got %q", "c", got)
	}

	p.recover(contextBlock)
	if !p.at(lexer.RBRACE) {
		t.Fatalf("expected block recovery to stop at '}', got %q", p.peek().Display())
	}

	p.recover(contextGlobal)
	if !p.at(lexer.EOF) {
		t.Fatalf("expected global recovery to reach end of input, got %q", p.peek().Display())
	}
}

func TestParseDelimitedTrailing(t *testing.T) {
	toks, _ := lexer.Tokenize("1, 2, )", "")
	p := New(toks)

	items, err := parseDelimited(p, delimitedConfig{Closing: lexer.RPAREN, AllowTrailing: true}, func(int) (int64, error) {
		tok, err := p.expect(lexer.INT)
		return tok.Int, err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0] != 1 || items[1] != 2 {
		t.Fatalf("expected [1 2], got %v", items)
	}
	if !p.at(lexer.EOF) {
		t.Fatalf("expected closing token to be consumed")
	}
}
