package disasm

import (
	"fmt"
	"strings"
)

// Record is the JSON form of an instruction.
type Record struct {
	Address  string   `json:"address"`
	Bytes    string   `json:"bytes"`
	Mnemonic string   `json:"mnemonic"`
	Operands []string `json:"operands,omitempty"`
	Length   int      `json:"length"`
	Unknown  bool     `json:"unknown,omitempty"`
}

// NewRecord converts an instruction into its JSON record.
func NewRecord(i Inst) Record {
	raw := make([]string, i.Len)
	for n, b := range i.Bytes() {
		raw[n] = fmt.Sprintf("%02X", b)
	}

	var ops []string
	for _, arg := range i.Args {
		ops = append(ops, arg.String())
	}

	return Record{
		Address:  fmt.Sprintf("%04X", i.Addr),
		Bytes:    strings.Join(raw, " "),
		Mnemonic: i.Op,
		Operands: ops,
		Length:   i.Len,
		Unknown:  i.Unknown,
	}
}

// Records converts a whole stream.
func (s Stream) Records() []Record {
	out := make([]Record, 0, len(s))
	for _, inst := range s {
		out = append(out, NewRecord(inst))
	}
	return out
}
