// Package x86sim interprets the subset of NASM x86-64 assembly emitted by the
// code generator. It exists to check generated code without an assembler.
package x86sim

import (
	"fmt"
	"strconv"
	"strings"
)

type operandKind int

const (
	operandReg operandKind = iota
	operandImm
	operandMem
)

type operand struct {
	kind operandKind
	reg  string // register name, or base register for memory operands
	imm  int64  // immediate value, or displacement for memory operands
}

type instruction struct {
	op     string
	args   []operand
	target string // label operand of call
	line   int
	text   string
}

// Program is parsed assembly ready to run.
type Program struct {
	insts  []instruction
	labels map[string]int
}

// Parse reads NASM source. Only the .text section is decoded; extern, global
// and data directives are accepted and ignored.
func Parse(src string) (*Program, error) {
	prog := &Program{labels: make(map[string]int)}
	section := ".text"

	for i, raw := range strings.Split(src, "\n") {
		lineNo := i + 1
		line := raw
		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "section":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: malformed section directive", lineNo)
			}
			section = fields[1]
			continue
		case "extern", "global":
			continue
		}
		if section != ".text" {
			continue
		}

		if name, ok := strings.CutSuffix(line, ":"); ok {
			if _, dup := prog.labels[name]; dup {
				return nil, fmt.Errorf("line %d: duplicate label %q", lineNo, name)
			}
			prog.labels[name] = len(prog.insts)
			continue
		}

		inst, err := parseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		inst.line = lineNo
		prog.insts = append(prog.insts, inst)
	}

	return prog, nil
}

func parseInstruction(line string) (instruction, error) {
	op, rest, _ := strings.Cut(line, " ")
	inst := instruction{op: op, text: line}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return inst, nil
	}
	if op == "call" {
		inst.target = rest
		return inst, nil
	}
	for _, arg := range strings.Split(rest, ",") {
		o, err := parseOperand(strings.TrimSpace(arg))
		if err != nil {
			return instruction{}, err
		}
		inst.args = append(inst.args, o)
	}
	return inst, nil
}

func parseOperand(s string) (operand, error) {
	s = strings.TrimPrefix(s, "qword ")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "[") {
		inner, ok := strings.CutSuffix(s[1:], "]")
		if !ok {
			return operand{}, fmt.Errorf("unterminated memory operand %q", s)
		}
		return parseAddress(inner)
	}

	if isRegister(s) {
		return operand{kind: operandReg, reg: s}, nil
	}

	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return operand{}, fmt.Errorf("unknown operand %q", s)
	}
	return operand{kind: operandImm, imm: v}, nil
}

// parseAddress decodes `reg`, `reg + n` or `reg - n`.
func parseAddress(s string) (operand, error) {
	s = strings.ReplaceAll(s, " ", "")

	sign := int64(1)
	base, disp, found := strings.Cut(s, "+")
	if !found {
		base, disp, found = strings.Cut(s, "-")
		sign = -1
	}
	if !isRegister(base) {
		return operand{}, fmt.Errorf("unsupported address base %q", base)
	}

	o := operand{kind: operandMem, reg: base}
	if found {
		n, err := strconv.ParseInt(disp, 0, 64)
		if err != nil {
			return operand{}, fmt.Errorf("bad displacement %q", disp)
		}
		o.imm = sign * n
	}
	return o, nil
}
