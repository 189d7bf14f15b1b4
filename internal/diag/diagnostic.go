package diag

import (
	"fmt"
	"strings"
)

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer    Stage = "lexer"
	StageParser   Stage = "parser"
	StageSemantic Stage = "semantic"
	StageCodegen  Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// LabeledSpan represents a span with an optional label.
type LabeledSpan struct {
	Span  Span   `cbor:"span"`
	Label string `cbor:"label,omitempty"`
	Style string `cbor:"style"` // "primary" or "secondary"
}

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexical errors
	CodeLexerInvalidCharacter    Code = "LEXER_INVALID_CHARACTER"
	CodeLexerUnterminatedString  Code = "LEXER_UNTERMINATED_STRING"
	CodeLexerUnterminatedComment Code = "LEXER_UNTERMINATED_COMMENT"
	CodeLexerInvalidNumber       Code = "LEXER_INVALID_NUMBER"

	// Syntax errors
	CodeParseUnexpectedToken     Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseMissingToken        Code = "PARSE_MISSING_TOKEN"
	CodeParseDeclarationNoName   Code = "PARSE_DECLARATION_MISSING_NAME"
	CodeParseMissingIdentifier   Code = "PARSE_MISSING_IDENTIFIER"
	CodeParseUnexpectedEndOfFile Code = "PARSE_UNEXPECTED_EOF"

	// Semantic errors
	CodeUndefinedVariable  Code = "SEMA_UNDEFINED_VARIABLE"
	CodeRedefinedVariable  Code = "SEMA_REDEFINED_VARIABLE"
	CodeTypeMismatch       Code = "SEMA_TYPE_MISMATCH"
	CodeMutabilityMismatch Code = "SEMA_MUTABILITY_MISMATCH"
	CodeInvalidOperation   Code = "SEMA_INVALID_OPERATION"

	// Codegen errors
	CodeGenUnsupported Code = "CODEGEN_UNSUPPORTED"
)

// Span represents a location in source code. Lines are 1-based, columns are
// 0-based and EndCol is inclusive.
type Span struct {
	Filename  string `cbor:"file,omitempty"`
	StartLine int    `cbor:"start_line"`
	StartCol  int    `cbor:"start_col"`
	EndLine   int    `cbor:"end_line"`
	EndCol    int    `cbor:"end_col"`
}

// Merge returns the span starting at s and ending where other ends.
func (s Span) Merge(other Span) Span {
	merged := Span{
		Filename:  s.Filename,
		StartLine: s.StartLine,
		StartCol:  s.StartCol,
		EndLine:   other.EndLine,
		EndCol:    other.EndCol,
	}
	if merged.Filename == "" {
		merged.Filename = other.Filename
	}
	return merged
}

// String returns a human-readable representation of the span. Columns are
// printed 1-based.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.StartLine, s.StartCol+1)
	}
	return fmt.Sprintf("%d:%d", s.StartLine, s.StartCol+1)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.StartLine > 0 && s.EndLine >= s.StartLine
}

// Width returns the number of columns covered on the start line.
func (s Span) Width() int {
	if s.EndLine != s.StartLine || s.EndCol < s.StartCol {
		return 1
	}
	return s.EndCol - s.StartCol + 1
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage    `cbor:"stage"`
	Severity Severity `cbor:"severity"`
	Code     Code     `cbor:"code"`
	Message  string   `cbor:"message"`
	Span     Span     `cbor:"span"`

	// Variant payloads. Only the fields relevant to Code are populated.
	Name     string `cbor:"name,omitempty"`
	Expected string `cbor:"expected,omitempty"`
	Found    string `cbor:"found,omitempty"`
	Prev     *Span  `cbor:"prev,omitempty"`

	LabeledSpans []LabeledSpan `cbor:"labels,omitempty"`
	Notes        []string      `cbor:"notes,omitempty"`
	Help         string        `cbor:"help,omitempty"`
}

// Error implements error.
func (d Diagnostic) Error() string {
	var b strings.Builder
	if d.Span.IsValid() {
		b.WriteString(d.Span.String())
		b.WriteString(": ")
	}
	severity := d.Severity
	if severity == "" {
		severity = SeverityError
	}
	b.WriteString(string(severity))
	if d.Code != "" {
		fmt.Fprintf(&b, "[%s]", d.Code)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// WithLabeledSpan adds a labeled span to the diagnostic.
func (d Diagnostic) WithLabeledSpan(span Span, label string, style string) Diagnostic {
	if style == "" {
		style = "primary"
	}
	d.LabeledSpans = append(d.LabeledSpans, LabeledSpan{
		Span:  span,
		Label: label,
		Style: style,
	})
	return d
}

// WithPrimarySpan adds a primary labeled span.
func (d Diagnostic) WithPrimarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "primary")
}

// WithSecondarySpan adds a secondary labeled span.
func (d Diagnostic) WithSecondarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "secondary")
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// WithFilename attributes the diagnostic's spans to filename when they carry none.
func (d Diagnostic) WithFilename(filename string) Diagnostic {
	if filename == "" {
		return d
	}
	if d.Span.Filename == "" {
		d.Span.Filename = filename
	}
	if d.Prev != nil && d.Prev.Filename == "" {
		prev := *d.Prev
		prev.Filename = filename
		d.Prev = &prev
	}
	if len(d.LabeledSpans) > 0 {
		labeled := make([]LabeledSpan, len(d.LabeledSpans))
		copy(labeled, d.LabeledSpans)
		for i := range labeled {
			if labeled[i].Span.Filename == "" {
				labeled[i].Span.Filename = filename
			}
		}
		d.LabeledSpans = labeled
	}
	return d
}
