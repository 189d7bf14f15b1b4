package parser

import (
	"github.com/cx-lang/cxc/internal/diag"
	"github.com/cx-lang/cxc/internal/lexer"
)

type delimitedConfig struct {
	Closing   lexer.TokenType
	Separator lexer.TokenType

	AllowTrailing bool
}

// parseDelimited parses `item {sep item} [sep] close` after the opening
// token has been consumed; an immediate closing token yields no items. The
// closing token is consumed on success.
func parseDelimited[T any](p *Parser, cfg delimitedConfig, parseItem func(idx int) (T, error)) ([]T, error) {
	if cfg.Separator == "" {
		cfg.Separator = lexer.COMMA
	}

	if cfg.Closing == "" {
		panic("parseDelimited requires a closing token")
	}

	var items []T
	if p.accept(cfg.Closing) {
		return items, nil
	}

	for {
		item, err := parseItem(len(items))
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		switch {
		case p.accept(cfg.Separator):
			if p.at(cfg.Closing) {
				if !cfg.AllowTrailing {
					return nil, diag.UnexpectedToken(p.peek().Display(), p.currentSpan())
				}
				p.advance()
				return items, nil
			}
		case p.accept(cfg.Closing):
			return items, nil
		default:
			return nil, diag.MissingToken(string(cfg.Closing), p.peek().Display(), p.currentSpan())
		}
	}
}
