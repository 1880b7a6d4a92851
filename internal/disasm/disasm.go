// Package disasm defines the decoded instruction representation shared by
// the 8080 decoder and every output sink (text, JSON, TUI).
package disasm

// OperandKind tells the formatter how to render an operand.
type OperandKind int

const (
	Register OperandKind = iota // named 8-bit register or M
	Pair                        // register pair: B, D, H, SP or PSW
	Imm8                        // 8-bit immediate data
	Imm16                       // 16-bit immediate data (LXI)
	Addr                        // 16-bit memory or branch address
	Port                        // I/O port number
	Vector                      // RST vector number 0-7
	Raw                         // raw byte of an unknown opcode
)

func (k OperandKind) String() string {
	switch k {
	case Register:
		return "register"
	case Pair:
		return "pair"
	case Imm8:
		return "imm8"
	case Imm16:
		return "imm16"
	case Addr:
		return "address"
	case Port:
		return "port"
	case Vector:
		return "vector"
	case Raw:
		return "raw"
	}
	return "unknown"
}

// Operand is one decoded operand. Name is set for Register and Pair kinds,
// Value for everything else.
type Operand struct {
	Kind  OperandKind
	Name  string
	Value uint16
}

// Inst is a decoded 8080 instruction.
type Inst struct {
	Addr    uint16    // address of the opcode byte
	Op      string    // mnemonic in uppercase
	Args    []Operand // operands in printed order
	Len     int       // bytes consumed, opcode included (1-3)
	Raw     [3]byte   // opcode followed by operand bytes
	Unknown bool      // opcode matched no decode rule
}

// Bytes returns the raw encoding of the instruction.
func (i Inst) Bytes() []byte {
	return i.Raw[:i.Len]
}

// Next returns the address of the instruction that follows i.
func (i Inst) Next() uint16 {
	return i.Addr + uint16(i.Len)
}

// Stream is a linear sequence of instructions in address order.
type Stream []Inst

// Size returns the total number of bytes covered by the stream.
func (s Stream) Size() int {
	n := 0
	for _, inst := range s {
		n += inst.Len
	}
	return n
}

// Unknown counts the instructions that fell through every decode rule.
func (s Stream) Unknown() int {
	n := 0
	for _, inst := range s {
		if inst.Unknown {
			n++
		}
	}
	return n
}

// Index returns the position of the instruction starting at addr, or -1.
func (s Stream) Index(addr uint16) int {
	for i, inst := range s {
		if inst.Addr == addr {
			return i
		}
	}
	return -1
}
