package diag

import (
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// List is an ordered batch of diagnostics. Entries keep the order in which
// they were reported.
type List []Diagnostic

// Add appends d to the list.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Extend appends every diagnostic of other.
func (l *List) Extend(other List) {
	*l = append(*l, other...)
}

// HasErrors reports whether any diagnostic has error severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError || d.Severity == "" {
			return true
		}
	}
	return false
}

// Err returns the list as an error, or nil when it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Error implements error by joining every diagnostic on its own line.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].Error()
	}
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

// WithFilename attributes every diagnostic without a filename to filename.
func (l List) WithFilename(filename string) List {
	if filename == "" || len(l) == 0 {
		return l
	}
	out := make(List, len(l))
	for i, d := range l {
		out[i] = d.WithFilename(filename)
	}
	return out
}

// EncodeCBOR writes the list to w as a CBOR array.
func (l List) EncodeCBOR(w io.Writer) error {
	return cbor.NewEncoder(w).Encode([]Diagnostic(l))
}

// DecodeCBOR reads a list previously written with EncodeCBOR.
func DecodeCBOR(r io.Reader) (List, error) {
	var l List
	if err := cbor.NewDecoder(r).Decode(&l); err != nil {
		return nil, err
	}
	return l, nil
}
