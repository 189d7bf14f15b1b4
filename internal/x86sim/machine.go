package x86sim

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/tliron/commonlog"
)

var (
	// ErrStepLimit is returned when a program runs longer than Machine.MaxSteps.
	ErrStepLimit = errors.New("x86sim: step limit exceeded")

	// ErrDivide is the #DE fault raised by div on a zero divisor or a quotient
	// that does not fit in rax.
	ErrDivide = errors.New("x86sim: divide error")
)

const (
	stackTop       int64 = 0x7fff0000
	returnSentinel int64 = -1

	defaultMaxSteps = 1 << 20
)

var registers = []string{
	"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rsp", "rbp",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

func isRegister(name string) bool {
	if name == "al" {
		return true
	}
	for _, r := range registers {
		if r == name {
			return true
		}
	}
	return false
}

// Machine holds the architectural state of one simulated thread.
type Machine struct {
	regs map[string]int64
	mem  map[int64]byte

	// operands of the last cmp, read by setcc
	cmpLeft, cmpRight int64

	MaxSteps int
	Steps    int

	log commonlog.Logger
}

// NewMachine returns a machine with an empty stack.
func NewMachine() *Machine {
	m := &Machine{
		regs:     make(map[string]int64, len(registers)),
		mem:      make(map[int64]byte),
		MaxSteps: defaultMaxSteps,
		log:      commonlog.GetLogger("cxc.x86sim"),
	}
	m.regs["rsp"] = stackTop
	m.regs["rbp"] = stackTop
	return m
}

// Reg returns the value of a 64-bit register.
func (m *Machine) Reg(name string) int64 {
	return m.regs[name]
}

// Call runs prog from label entry until it returns, and yields rax.
func (m *Machine) Call(prog *Program, entry string) (int64, error) {
	pc, ok := prog.labels[entry]
	if !ok {
		return 0, fmt.Errorf("x86sim: no label %q", entry)
	}

	m.push(returnSentinel)
	for {
		if pc < 0 || pc >= len(prog.insts) {
			return 0, fmt.Errorf("x86sim: control left the program at index %d", pc)
		}
		if m.Steps >= m.MaxSteps {
			return 0, ErrStepLimit
		}
		m.Steps++

		inst := prog.insts[pc]
		m.log.Debugf("%4d: %s", inst.line, inst.text)

		next, done, err := m.step(prog, inst, pc+1)
		if err != nil {
			return 0, fmt.Errorf("line %d: %s: %w", inst.line, inst.text, err)
		}
		if done {
			return m.regs["rax"], nil
		}
		pc = next
	}
}

// Run parses src and calls entry on a fresh machine.
func Run(src, entry string) (int64, error) {
	prog, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return NewMachine().Call(prog, entry)
}

func (m *Machine) step(prog *Program, inst instruction, next int) (int, bool, error) {
	args := inst.args
	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("expected %d operand(s), got %d", n, len(args))
		}
		return nil
	}

	switch inst.op {
	case "mov":
		if err := arity(2); err != nil {
			return 0, false, err
		}
		v, err := m.read(args[1])
		if err != nil {
			return 0, false, err
		}
		return next, false, m.write(args[0], v)

	case "movzx":
		if err := arity(2); err != nil {
			return 0, false, err
		}
		v, err := m.read(args[1])
		if err != nil {
			return 0, false, err
		}
		return next, false, m.write(args[0], v&0xff)

	case "push":
		if err := arity(1); err != nil {
			return 0, false, err
		}
		v, err := m.read(args[0])
		if err != nil {
			return 0, false, err
		}
		m.push(v)
		return next, false, nil

	case "pop":
		if err := arity(1); err != nil {
			return 0, false, err
		}
		return next, false, m.write(args[0], m.pop())

	case "add", "sub", "imul", "xor", "and", "or":
		if err := arity(2); err != nil {
			return 0, false, err
		}
		a, err := m.read(args[0])
		if err != nil {
			return 0, false, err
		}
		b, err := m.read(args[1])
		if err != nil {
			return 0, false, err
		}
		return next, false, m.write(args[0], arith(inst.op, a, b))

	case "neg":
		if err := arity(1); err != nil {
			return 0, false, err
		}
		v, err := m.read(args[0])
		if err != nil {
			return 0, false, err
		}
		return next, false, m.write(args[0], -v)

	case "div":
		if err := arity(1); err != nil {
			return 0, false, err
		}
		d, err := m.read(args[0])
		if err != nil {
			return 0, false, err
		}
		hi, lo := uint64(m.regs["rdx"]), uint64(m.regs["rax"])
		if d == 0 || hi >= uint64(d) {
			return 0, false, ErrDivide
		}
		q, r := bits.Div64(hi, lo, uint64(d))
		m.regs["rax"], m.regs["rdx"] = int64(q), int64(r)
		return next, false, nil

	case "cmp":
		if err := arity(2); err != nil {
			return 0, false, err
		}
		a, err := m.read(args[0])
		if err != nil {
			return 0, false, err
		}
		b, err := m.read(args[1])
		if err != nil {
			return 0, false, err
		}
		m.cmpLeft, m.cmpRight = a, b
		return next, false, nil

	case "sete", "setne", "setl", "setg", "setle", "setge":
		if err := arity(1); err != nil {
			return 0, false, err
		}
		var v int64
		if m.condition(inst.op) {
			v = 1
		}
		return next, false, m.write(args[0], v)

	case "call":
		target, ok := prog.labels[inst.target]
		if !ok {
			return 0, false, fmt.Errorf("unknown call target %q", inst.target)
		}
		m.push(int64(next))
		return target, false, nil

	case "ret":
		addr := m.pop()
		if addr == returnSentinel {
			return 0, true, nil
		}
		return int(addr), false, nil
	}

	return 0, false, fmt.Errorf("unsupported instruction %q", inst.op)
}

func arith(op string, a, b int64) int64 {
	switch op {
	case "add":
		return a + b
	case "sub":
		return a - b
	case "imul":
		return a * b
	case "xor":
		return a ^ b
	case "and":
		return a & b
	default:
		return a | b
	}
}

func (m *Machine) condition(op string) bool {
	a, b := m.cmpLeft, m.cmpRight
	switch op {
	case "sete":
		return a == b
	case "setne":
		return a != b
	case "setl":
		return a < b
	case "setg":
		return a > b
	case "setle":
		return a <= b
	default:
		return a >= b
	}
}

func (m *Machine) read(o operand) (int64, error) {
	switch o.kind {
	case operandImm:
		return o.imm, nil
	case operandReg:
		if o.reg == "al" {
			return m.regs["rax"] & 0xff, nil
		}
		return m.regs[o.reg], nil
	default:
		return m.load(m.regs[o.reg] + o.imm), nil
	}
}

func (m *Machine) write(o operand, v int64) error {
	switch o.kind {
	case operandReg:
		if o.reg == "al" {
			m.regs["rax"] = m.regs["rax"]&^0xff | v&0xff
			return nil
		}
		m.regs[o.reg] = v
		return nil
	case operandMem:
		m.store(m.regs[o.reg]+o.imm, v)
		return nil
	default:
		return errors.New("cannot write to an immediate")
	}
}

func (m *Machine) push(v int64) {
	m.regs["rsp"] -= 8
	m.store(m.regs["rsp"], v)
}

func (m *Machine) pop() int64 {
	v := m.load(m.regs["rsp"])
	m.regs["rsp"] += 8
	return v
}

// load reads a little-endian qword.
func (m *Machine) load(addr int64) int64 {
	var v uint64
	for i := int64(7); i >= 0; i-- {
		v = v<<8 | uint64(m.mem[addr+i])
	}
	return int64(v)
}

func (m *Machine) store(addr, v int64) {
	u := uint64(v)
	for i := int64(0); i < 8; i++ {
		m.mem[addr+i] = byte(u)
		u >>= 8
	}
}
