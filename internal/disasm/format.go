package disasm

import (
	"fmt"
	"strings"
)

// String renders the operand the way it appears in a listing.
func (o Operand) String() string {
	switch o.Kind {
	case Register, Pair:
		return o.Name
	case Imm8:
		return fmt.Sprintf("#$%02X", o.Value)
	case Imm16:
		return fmt.Sprintf("#$%04X", o.Value)
	case Addr:
		return fmt.Sprintf("$%04X", o.Value)
	case Port, Raw:
		return fmt.Sprintf("$%02X", o.Value)
	case Vector:
		return fmt.Sprintf("%d", o.Value)
	}
	return "err"
}

// Text returns the mnemonic and operands without the address column.
func (i Inst) Text() string {
	if len(i.Args) == 0 {
		return i.Op
	}
	args := make([]string, len(i.Args))
	for n, arg := range i.Args {
		args[n] = arg.String()
	}
	return i.Op + " " + strings.Join(args, ", ")
}

// Format renders one listing line: "AAAA OP arg, arg".
func Format(i Inst) string {
	return fmt.Sprintf("%04X %s", i.Addr, i.Text())
}

// FormatWithBytes renders a listing line with the raw encoding padded to
// the widest instruction, e.g. "0000 C3 34 12  JMP $1234".
func FormatWithBytes(i Inst) string {
	var hex strings.Builder
	for n := 0; n < len(i.Raw); n++ {
		if n < i.Len {
			fmt.Fprintf(&hex, "%02X ", i.Raw[n])
		} else {
			hex.WriteString("   ")
		}
	}
	return fmt.Sprintf("%04X %s %s", i.Addr, hex.String(), i.Text())
}

// String implements fmt.Stringer using Format.
func (i Inst) String() string {
	return Format(i)
}
