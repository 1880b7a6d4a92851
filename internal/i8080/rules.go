package i8080

import "dis8080/internal/disasm"

// width is the number of operand bytes following the opcode.
type width int

const (
	noData width = iota
	data8
	data16
)

// matcher decides whether a rule applies to an opcode.
type matcher func(op byte) bool

func exact(b byte) matcher {
	return func(op byte) bool { return op == b }
}

func oneOf(set ...byte) matcher {
	return func(op byte) bool {
		for _, b := range set {
			if op == b {
				return true
			}
		}
		return false
	}
}

// masked matches op&mask == value and then asks guard. A false guard lets
// the search continue with the next rule.
func masked(mask, value byte, guard func(byte) bool) matcher {
	return func(op byte) bool {
		if op&mask != value {
			return false
		}
		return guard == nil || guard(op)
	}
}

type builder func(op byte, data uint16) (string, []disasm.Operand)

type rule struct {
	name         string
	match        matcher
	width        width
	build        builder
	undocumented bool // only active with WithUndocumented
}

func reg(code uint8) disasm.Operand {
	return disasm.Operand{Kind: disasm.Register, Name: RegisterName(code)}
}

func pair(code uint8, ctx PairContext) disasm.Operand {
	return disasm.Operand{Kind: disasm.Pair, Name: PairName(code, ctx)}
}

func value(kind disasm.OperandKind, v uint16) disasm.Operand {
	return disasm.Operand{Kind: kind, Value: v}
}

func fixed(mnemonic string) builder {
	return func(byte, uint16) (string, []disasm.Operand) {
		return mnemonic, nil
	}
}

func withValue(mnemonic string, kind disasm.OperandKind) builder {
	return func(_ byte, data uint16) (string, []disasm.Operand) {
		return mnemonic, []disasm.Operand{value(kind, data)}
	}
}

func withPair(mnemonic string, ctx PairContext) builder {
	return func(op byte, _ uint16) (string, []disasm.Operand) {
		return mnemonic, []disasm.Operand{pair(Pair(op), ctx)}
	}
}

func withDst(mnemonic string) builder {
	return func(op byte, _ uint16) (string, []disasm.Operand) {
		return mnemonic, []disasm.Operand{reg(Dst(op))}
	}
}

func move(op byte, _ uint16) (string, []disasm.Operand) {
	return "MOV", []disasm.Operand{reg(Dst(op)), reg(Src(op))}
}

func moveImmediate(op byte, data uint16) (string, []disasm.Operand) {
	return "MVI", []disasm.Operand{reg(Dst(op)), value(disasm.Imm8, data)}
}

func loadPair(op byte, data uint16) (string, []disasm.Operand) {
	return "LXI", []disasm.Operand{pair(Pair(op), PairSP), value(disasm.Imm16, data)}
}

// aluOps is indexed by the primary field of 10xxxxxx opcodes.
var aluOps = [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}

func arithmetic(op byte, _ uint16) (string, []disasm.Operand) {
	return aluOps[Dst(op)], []disasm.Operand{reg(Src(op))}
}

func conditional(prefix string, target bool) builder {
	return func(op byte, data uint16) (string, []disasm.Operand) {
		mnemonic := prefix + ConditionName(Dst(op))
		if target {
			return mnemonic, []disasm.Operand{value(disasm.Addr, data)}
		}
		return mnemonic, nil
	}
}

func restart(op byte, _ uint16) (string, []disasm.Operand) {
	return "RST", []disasm.Operand{value(disasm.Vector, uint16(Dst(op)))}
}

func srcIsRegister(op byte) bool { return IsRegisterCode(Src(op)) }
func dstIsRegister(op byte) bool { return IsRegisterCode(Dst(op)) }
func bothValid(op byte) bool     { return HasValidDestination(op) && HasValidSource(op) }

// nopAliases are architecturally undefined opcodes that execute as NOP.
var nopAliases = []byte{0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38}

// rules is evaluated top to bottom; the first match wins. Exact opcodes
// come first, then alias lists, then exact sets, then guarded ranges.
var rules = []rule{
	// single opcodes, no data
	{name: "nop", match: exact(0x00), build: fixed("NOP")},
	{name: "hlt", match: exact(0x76), build: fixed("HLT")},
	{name: "rlc", match: exact(0x07), build: fixed("RLC")},
	{name: "rrc", match: exact(0x0F), build: fixed("RRC")},
	{name: "ral", match: exact(0x17), build: fixed("RAL")},
	{name: "rar", match: exact(0x1F), build: fixed("RAR")},
	{name: "daa", match: exact(0x27), build: fixed("DAA")},
	{name: "cma", match: exact(0x2F), build: fixed("CMA")},
	{name: "stc", match: exact(0x37), build: fixed("STC")},
	{name: "cmc", match: exact(0x3F), build: fixed("CMC")},
	{name: "ret", match: exact(0xC9), build: fixed("RET")},
	{name: "xthl", match: exact(0xE3), build: fixed("XTHL")},
	{name: "pchl", match: exact(0xE9), build: fixed("PCHL")},
	{name: "xchg", match: exact(0xEB), build: fixed("XCHG")},
	{name: "di", match: exact(0xF3), build: fixed("DI")},
	{name: "sphl", match: exact(0xF9), build: fixed("SPHL")},
	{name: "ei", match: exact(0xFB), build: fixed("EI")},

	// single opcodes, 16-bit address
	{name: "shld", match: exact(0x22), width: data16, build: withValue("SHLD", disasm.Addr)},
	{name: "lhld", match: exact(0x2A), width: data16, build: withValue("LHLD", disasm.Addr)},
	{name: "sta", match: exact(0x32), width: data16, build: withValue("STA", disasm.Addr)},
	{name: "lda", match: exact(0x3A), width: data16, build: withValue("LDA", disasm.Addr)},
	{name: "jmp", match: exact(0xC3), width: data16, build: withValue("JMP", disasm.Addr)},
	{name: "call", match: exact(0xCD), width: data16, build: withValue("CALL", disasm.Addr)},

	// single opcodes, 8-bit data
	{name: "adi", match: exact(0xC6), width: data8, build: withValue("ADI", disasm.Imm8)},
	{name: "aci", match: exact(0xCE), width: data8, build: withValue("ACI", disasm.Imm8)},
	{name: "sui", match: exact(0xD6), width: data8, build: withValue("SUI", disasm.Imm8)},
	{name: "sbi", match: exact(0xDE), width: data8, build: withValue("SBI", disasm.Imm8)},
	{name: "ani", match: exact(0xE6), width: data8, build: withValue("ANI", disasm.Imm8)},
	{name: "xri", match: exact(0xEE), width: data8, build: withValue("XRI", disasm.Imm8)},
	{name: "ori", match: exact(0xF6), width: data8, build: withValue("ORI", disasm.Imm8)},
	{name: "cpi", match: exact(0xFE), width: data8, build: withValue("CPI", disasm.Imm8)},
	{name: "out", match: exact(0xD3), width: data8, build: withValue("OUT", disasm.Port)},
	{name: "in", match: exact(0xDB), width: data8, build: withValue("IN", disasm.Port)},

	{name: "nop-alias", match: oneOf(nopAliases...), build: fixed("NOP")},

	{name: "jmp-alias", match: exact(0xCB), width: data16, build: withValue("JMP", disasm.Addr), undocumented: true},
	{name: "ret-alias", match: exact(0xD9), build: fixed("RET"), undocumented: true},
	{name: "call-alias", match: oneOf(0xDD, 0xED, 0xFD), width: data16, build: withValue("CALL", disasm.Addr), undocumented: true},

	// register pair forms
	{name: "lxi", match: oneOf(0x01, 0x11, 0x21, 0x31), width: data16, build: loadPair},
	{name: "inx", match: oneOf(0x03, 0x13, 0x23, 0x33), build: withPair("INX", PairSP)},
	{name: "dcx", match: oneOf(0x0B, 0x1B, 0x2B, 0x3B), build: withPair("DCX", PairSP)},
	{name: "dad", match: oneOf(0x09, 0x19, 0x29, 0x39), build: withPair("DAD", PairSP)},
	{name: "push", match: oneOf(0xC5, 0xD5, 0xE5, 0xF5), build: withPair("PUSH", PairPSW)},
	{name: "pop", match: oneOf(0xC1, 0xD1, 0xE1, 0xF1), build: withPair("POP", PairPSW)},
	{name: "stax", match: oneOf(0x02, 0x12), build: withPair("STAX", PairSP)},
	{name: "ldax", match: oneOf(0x0A, 0x1A), build: withPair("LDAX", PairSP)},

	// guarded ranges; HLT (0x76) is already taken above
	{name: "mov-to-mem", match: masked(0xF8, 0x70, srcIsRegister), build: move},
	{name: "mov-from-mem", match: masked(0xC7, 0x46, dstIsRegister), build: move},
	{name: "mov", match: masked(0xC0, 0x40, bothValid), build: move},
	{name: "mvi", match: masked(0xC7, 0x06, HasValidDestination), width: data8, build: moveImmediate},
	{name: "inr", match: masked(0xC7, 0x04, HasValidDestination), build: withDst("INR")},
	{name: "dcr", match: masked(0xC7, 0x05, HasValidDestination), build: withDst("DCR")},
	{name: "alu", match: masked(0xC0, 0x80, HasValidSource), build: arithmetic},
	{name: "jcc", match: masked(0xC7, 0xC2, nil), width: data16, build: conditional("J", true)},
	{name: "ccc", match: masked(0xC7, 0xC4, nil), width: data16, build: conditional("C", true)},
	{name: "rcc", match: masked(0xC7, 0xC0, nil), build: conditional("R", false)},
	{name: "rst", match: masked(0xC7, 0xC7, nil), build: restart},
}
