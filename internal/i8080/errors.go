package i8080

import (
	"errors"
	"fmt"
)

// ErrTruncated is matched by every TruncatedError.
var ErrTruncated = errors.New("truncated instruction")

// TruncatedError reports an instruction whose operand bytes run past the
// end of the input.
type TruncatedError struct {
	Addr   uint16 // address of the opcode
	Opcode byte
	Need   int // operand bytes required
	Have   int // operand bytes present
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated instruction at %04X: opcode 0x%02X needs %d operand byte(s), %d available",
		e.Addr, e.Opcode, e.Need, e.Have)
}

func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncated
}
