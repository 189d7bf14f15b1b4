package codegen

import "strings"

// Output is the sectioned assembly produced for one translation unit. Every
// buffer is append-only while generating and holds one line per entry.
type Output struct {
	Externs []string // extern directives
	Globals []string // names exported with a global directive
	Text    []string // labels and instructions
	Data    []string // initialized data
	BSS     []string // uninitialized data
}

// String renders the output as NASM source. The .bss section is omitted when
// it is empty.
func (o *Output) String() string {
	var b strings.Builder

	for _, line := range o.Externs {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(o.Externs) > 0 {
		b.WriteByte('\n')
	}

	b.WriteString("section .text\n")
	for _, name := range o.Globals {
		b.WriteString("global ")
		b.WriteString(name)
		b.WriteByte('\n')
	}
	writeLines(&b, o.Text)

	b.WriteString("\nsection .data\n")
	writeLines(&b, o.Data)

	if len(o.BSS) > 0 {
		b.WriteString("\nsection .bss\n")
		writeLines(&b, o.BSS)
	}

	return b.String()
}

func writeLines(b *strings.Builder, lines []string) {
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
