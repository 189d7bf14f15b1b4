package diag

import (
	"fmt"
	"strconv"
)

func newError(stage Stage, code Code, span Span, msg string) Diagnostic {
	return Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  msg,
		Span:     span,
	}
}

// InvalidCharacter reports a rune the lexer cannot start a token with.
func InvalidCharacter(ch rune, span Span) Diagnostic {
	d := newError(StageLexer, CodeLexerInvalidCharacter, span, "invalid character "+strconv.QuoteRune(ch))
	d.Found = string(ch)
	return d
}

// UnterminatedString reports a string literal missing its closing quote.
func UnterminatedString(span Span) Diagnostic {
	return newError(StageLexer, CodeLexerUnterminatedString, span, "unterminated string literal")
}

// UnterminatedComment reports a block comment still open at end of input.
func UnterminatedComment(span Span) Diagnostic {
	return newError(StageLexer, CodeLexerUnterminatedComment, span, "unterminated block comment")
}

// InvalidNumber reports a numeric literal that does not fit a 64-bit signed integer
// or is otherwise malformed.
func InvalidNumber(text string, span Span) Diagnostic {
	d := newError(StageLexer, CodeLexerInvalidNumber, span, fmt.Sprintf("invalid number format `%s`", text))
	d.Found = text
	return d
}

// UnexpectedToken reports a token that cannot appear at this position.
func UnexpectedToken(found string, span Span) Diagnostic {
	d := newError(StageParser, CodeParseUnexpectedToken, span, fmt.Sprintf("unexpected token `%s`", found))
	d.Found = found
	return d
}

// MissingToken reports a required token that was not found.
func MissingToken(expected, found string, span Span) Diagnostic {
	d := newError(StageParser, CodeParseMissingToken, span, fmt.Sprintf("expected `%s`, found `%s`", expected, found))
	d.Expected = expected
	d.Found = found
	return d
}

// DeclarationMissingName reports a declaration keyword not followed by a name.
func DeclarationMissingName(span Span) Diagnostic {
	return newError(StageParser, CodeParseDeclarationNoName, span, "declaration is missing a name")
}

// MissingIdentifier reports a position where an identifier was required.
func MissingIdentifier(found string, span Span) Diagnostic {
	d := newError(StageParser, CodeParseMissingIdentifier, span, fmt.Sprintf("expected identifier, found `%s`", found))
	d.Found = found
	return d
}

// UnexpectedEOF reports input that ended in the middle of a construct.
func UnexpectedEOF(span Span) Diagnostic {
	return newError(StageParser, CodeParseUnexpectedEndOfFile, span, "unexpected end of input")
}

// UndefinedVariable reports a reference to a name with no declaration in scope.
func UndefinedVariable(name string, span Span) Diagnostic {
	d := newError(StageSemantic, CodeUndefinedVariable, span, fmt.Sprintf("undefined variable `%s`", name))
	d.Name = name
	return d
}

// RedefinedVariable reports a second declaration of name; prev locates the first.
func RedefinedVariable(name string, span, prev Span) Diagnostic {
	d := newError(StageSemantic, CodeRedefinedVariable, span, fmt.Sprintf("`%s` is already defined", name))
	d.Name = name
	d.Prev = &prev
	return d.
		WithPrimarySpan(span, "redefined here").
		WithSecondarySpan(prev, "previous definition here")
}

// TypeMismatch reports an expression whose type differs from the expected one.
func TypeMismatch(expected, got fmt.Stringer, span Span) Diagnostic {
	d := newError(StageSemantic, CodeTypeMismatch, span,
		fmt.Sprintf("mismatched types: expected `%s`, found `%s`", expected, got))
	d.Expected = expected.String()
	d.Found = got.String()
	return d
}

// MutabilityMismatch reports a reference whose mutability differs from the expected one.
func MutabilityMismatch(expected, got fmt.Stringer, span Span) Diagnostic {
	d := newError(StageSemantic, CodeMutabilityMismatch, span,
		fmt.Sprintf("mutability mismatch: expected %s reference, found %s", expected, got))
	d.Expected = expected.String()
	d.Found = got.String()
	return d
}

// InvalidOperation reports an operator applied to an operand type that does not support it.
func InvalidOperation(operation string, operand fmt.Stringer, span Span) Diagnostic {
	d := newError(StageSemantic, CodeInvalidOperation, span,
		fmt.Sprintf("cannot apply `%s` to a value of type `%s`", operation, operand))
	d.Name = operation
	d.Found = operand.String()
	return d
}

// Unsupported reports a tree shape the code generator has no lowering for.
func Unsupported(construct string, span Span) Diagnostic {
	d := newError(StageCodegen, CodeGenUnsupported, span, fmt.Sprintf("code generation for %s is not supported", construct))
	d.Name = construct
	return d
}
