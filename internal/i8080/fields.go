package i8080

// Opcode bit fields
//
//	  7 6 | 5 4 3 | 2 1 0
//	 -----+-------+------
//	  grp |  DDD  |  SSS     DDD = primary (destination / condition / RST n)
//	      | RP  x |          RP  = register pair, bits 4-5
//
// DDD / SSS register encoding
//
//	| code | reg |
//	--------------
//	| 000  | B   |
//	| 001  | C   |
//	| 010  | D   |
//	| 011  | E   |
//	| 100  | H   |
//	| 101  | L   |
//	| 110  | M   |  memory addressed by H-L, not a register
//	| 111  | A   |
const (
	RegB uint8 = 0b000
	RegC uint8 = 0b001
	RegD uint8 = 0b010
	RegE uint8 = 0b011
	RegH uint8 = 0b100
	RegL uint8 = 0b101
	RegM uint8 = 0b110
	RegA uint8 = 0b111
)

// PairContext selects what pair code 3 means.
type PairContext int

const (
	PairSP  PairContext = iota // LXI, INX, DCX, DAD
	PairPSW                    // PUSH, POP
)

const badField = "err"

var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

var pairNames = [2][4]string{
	PairSP:  {"B", "D", "H", "SP"},
	PairPSW: {"B", "D", "H", "PSW"},
}

var conditionNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

// Dst extracts the primary field, bits 3-5.
func Dst(op byte) uint8 {
	return (op >> 3) & 0x07
}

// Src extracts the secondary field, bits 0-2.
func Src(op byte) uint8 {
	return op & 0x07
}

// Pair extracts the register pair field, bits 4-5.
func Pair(op byte) uint8 {
	return (op >> 4) & 0x03
}

// RegisterName returns the register for a 3-bit code, "M" for the memory
// operand and "err" for anything outside 0-7.
func RegisterName(code uint8) string {
	if code >= uint8(len(registerNames)) {
		return badField
	}
	return registerNames[code]
}

// PairName returns the register pair for a 2-bit code in the given context.
func PairName(code uint8, ctx PairContext) string {
	if code >= 4 || (ctx != PairSP && ctx != PairPSW) {
		return badField
	}
	return pairNames[ctx][code]
}

// ConditionName returns the flag test for a 3-bit condition code.
func ConditionName(code uint8) string {
	if code >= uint8(len(conditionNames)) {
		return badField
	}
	return conditionNames[code]
}

// IsRegisterCode reports whether code names a real register. The memory
// sentinel 110 is not a register.
func IsRegisterCode(code uint8) bool {
	return code <= RegA && code != RegM
}

func isOperandCode(code uint8) bool {
	return IsRegisterCode(code) || code == RegM
}

// HasValidDestination reports whether the primary field of op is a register
// or the memory operand.
func HasValidDestination(op byte) bool {
	return isOperandCode(Dst(op))
}

// HasValidSource reports whether the secondary field of op is a register or
// the memory operand.
func HasValidSource(op byte) bool {
	return isOperandCode(Src(op))
}
