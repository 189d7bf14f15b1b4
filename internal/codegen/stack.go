package codegen

import "fmt"

// Registers of the fixed evaluation convention. Every expression leaves its
// value in the accumulator; the left operand of a binary operation is parked
// on the native stack and restored into the secondary register.
const (
	accumulator = "rax"
	secondary   = "rbx"
)

// evalStack models the native stack slots the generator pushes while
// evaluating expressions. Each slot remembers the register that was pushed.
type evalStack struct {
	slots []string
	max   int
}

func (s *evalStack) push(reg string) {
	s.slots = append(s.slots, reg)
	s.max = max(s.max, len(s.slots))
}

func (s *evalStack) pop() error {
	if len(s.slots) == 0 {
		return fmt.Errorf("%w: pop from empty stack", ErrUnbalancedStack)
	}
	s.slots = s.slots[:len(s.slots)-1]
	return nil
}

func (s *evalStack) depth() int {
	return len(s.slots)
}

// expect verifies that the depth is back to mark.
func (s *evalStack) expect(mark int) error {
	if d := s.depth(); d != mark {
		return fmt.Errorf("%w: depth %d, expected %d", ErrUnbalancedStack, d, mark)
	}
	return nil
}
