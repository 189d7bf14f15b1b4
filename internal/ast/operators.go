package ast

// BinaryOp tags a binary operation.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	LogicalAnd
	LogicalOr
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	Eq
	Neq
	Lt
	Gt
	Leq
	Geq
	Assign
)

var binaryOpNames = [...]string{
	Add:        "+",
	Sub:        "-",
	Mul:        "*",
	Div:        "/",
	Mod:        "%",
	LogicalAnd: "&&",
	LogicalOr:  "||",
	BitAnd:     "&",
	BitOr:      "|",
	BitXor:     "^",
	Shl:        "<<",
	Shr:        ">>",
	Eq:         "==",
	Neq:        "!=",
	Lt:         "<",
	Gt:         ">",
	Leq:        "<=",
	Geq:        ">=",
	Assign:     "=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// IsComparison reports whether op yields a boolean 0/1 result.
func (op BinaryOp) IsComparison() bool {
	return op >= Eq && op <= Geq
}

// UnaryOp tags a prefix operation.
type UnaryOp int

const (
	Neg    UnaryOp = iota // -x
	Not                   // !x
	Deref                 // *x
	AddrOf                // &x
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	case Deref:
		return "*"
	case AddrOf:
		return "&"
	default:
		return "?"
	}
}
