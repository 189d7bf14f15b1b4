package ast

import (
	"fmt"
	"strings"
)

// Type is a type annotation. Types carry no spans and compare structurally
// with TypesEqual.
type Type interface {
	typeNode()
	String() string
}

// NamedType is an unresolved reference to a type by name.
type NamedType struct {
	Name string
}

// IntegerType is a sized integer such as i32 or u8.
type IntegerType struct {
	Bits   uint8
	Signed bool
}

// Primitive is one of the C-style builtin types.
type Primitive int

const (
	Int Primitive = iota
	Void
	Char
)

// Field is one member of a compound type.
type Field struct {
	Name   string
	Type   Type
	Offset int // byte offset from the start of the compound
}

// CompoundType is a struct-like type with laid-out fields.
type CompoundType struct {
	Name   string
	Fields []Field
}

// PointerType is a raw pointer (T*).
type PointerType struct {
	To Type
}

// RefType is a reference (&T or &mut T).
type RefType struct {
	To      Type
	Mutable bool
}

// DynamicLength marks an ArrayType without a fixed length.
const DynamicLength = -1

// ArrayType is [T; N], or [T] when Length is DynamicLength.
type ArrayType struct {
	Elem   Type
	Length int
}

// FuncType is a function signature.
type FuncType struct {
	Return       Type
	Params       []Type
	Variadic     bool
	VariadicType Type // nil when variadic arguments are unconstrained
}

func (*NamedType) typeNode()    {}
func (*IntegerType) typeNode()  {}
func (Primitive) typeNode()     {}
func (*CompoundType) typeNode() {}
func (*PointerType) typeNode()  {}
func (*RefType) typeNode()      {}
func (*ArrayType) typeNode()    {}
func (*FuncType) typeNode()     {}

func (t *NamedType) String() string { return t.Name }

func (t *IntegerType) String() string {
	if t.Signed {
		return fmt.Sprintf("i%d", t.Bits)
	}
	return fmt.Sprintf("u%d", t.Bits)
}

func (p Primitive) String() string {
	switch p {
	case Int:
		return "int"
	case Void:
		return "void"
	case Char:
		return "char"
	default:
		return "?"
	}
}

func (t *CompoundType) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {", t.Name)
	for i, f := range t.Fields {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, " %s: %s", f.Name, f.Type)
	}
	b.WriteString(" }")
	return b.String()
}

func (t *PointerType) String() string { return t.To.String() + "*" }

func (t *RefType) String() string {
	if t.Mutable {
		return "&mut " + t.To.String()
	}
	return "&" + t.To.String()
}

func (t *ArrayType) String() string {
	if t.Length == DynamicLength {
		return "[" + t.Elem.String() + "]"
	}
	return fmt.Sprintf("[%s; %d]", t.Elem, t.Length)
}

func (t *FuncType) String() string {
	parts := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		parts = append(parts, p.String())
	}
	if t.Variadic {
		if t.VariadicType != nil {
			parts = append(parts, "..."+t.VariadicType.String())
		} else {
			parts = append(parts, "...")
		}
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), t.Return)
}

// IsInteger reports whether t is one of the integer types.
func IsInteger(t Type) bool {
	switch t := t.(type) {
	case *IntegerType:
		return true
	case Primitive:
		return t == Int || t == Char
	default:
		return false
	}
}

// IsScalar reports whether a value of type t fits in a general purpose register.
func IsScalar(t Type) bool {
	switch t.(type) {
	case *PointerType, *RefType:
		return true
	default:
		return IsInteger(t)
	}
}

// TypesEqual compares two types structurally.
func TypesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *NamedType:
		b, ok := b.(*NamedType)
		return ok && a.Name == b.Name
	case *IntegerType:
		b, ok := b.(*IntegerType)
		return ok && a.Bits == b.Bits && a.Signed == b.Signed
	case Primitive:
		b, ok := b.(Primitive)
		return ok && a == b
	case *CompoundType:
		b, ok := b.(*CompoundType)
		if !ok || a.Name != b.Name || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			fa, fb := a.Fields[i], b.Fields[i]
			if fa.Name != fb.Name || fa.Offset != fb.Offset || !TypesEqual(fa.Type, fb.Type) {
				return false
			}
		}
		return true
	case *PointerType:
		b, ok := b.(*PointerType)
		return ok && TypesEqual(a.To, b.To)
	case *RefType:
		b, ok := b.(*RefType)
		return ok && a.Mutable == b.Mutable && TypesEqual(a.To, b.To)
	case *ArrayType:
		b, ok := b.(*ArrayType)
		return ok && a.Length == b.Length && TypesEqual(a.Elem, b.Elem)
	case *FuncType:
		b, ok := b.(*FuncType)
		if !ok || a.Variadic != b.Variadic || len(a.Params) != len(b.Params) {
			return false
		}
		if !TypesEqual(a.Return, b.Return) || !TypesEqual(a.VariadicType, b.VariadicType) {
			return false
		}
		for i := range a.Params {
			if !TypesEqual(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// SizeOf returns the storage size of t in bytes on x86-64. ok is false for
// types without a known size: void, named types (unresolved), function
// types and dynamically sized arrays.
func SizeOf(t Type) (size int, ok bool) {
	switch t := t.(type) {
	case Primitive:
		switch t {
		case Int:
			return 4, true
		case Char:
			return 1, true
		}
		return 0, false
	case *IntegerType:
		return (int(t.Bits) + 7) / 8, true
	case *PointerType, *RefType:
		return 8, true
	case *ArrayType:
		if t.Length == DynamicLength {
			return 0, false
		}
		elem, ok := SizeOf(t.Elem)
		if !ok {
			return 0, false
		}
		return elem * t.Length, true
	case *CompoundType:
		end := 0
		for _, f := range t.Fields {
			fs, ok := SizeOf(f.Type)
			if !ok {
				return 0, false
			}
			end = max(end, f.Offset+fs)
		}
		return end, true
	default:
		return 0, false
	}
}
