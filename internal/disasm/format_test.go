package disasm

import (
	"encoding/json"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		inst     Inst
		expected string
	}{
		{
			name:     "no operands",
			inst:     Inst{Addr: 0, Op: "NOP", Len: 1},
			expected: "0000 NOP",
		},
		{
			name: "two registers",
			inst: Inst{Addr: 0x1A, Op: "MOV", Len: 1, Args: []Operand{
				{Kind: Register, Name: "B"},
				{Kind: Register, Name: "C"},
			}},
			expected: "001A MOV B, C",
		},
		{
			name:     "address",
			inst:     Inst{Addr: 0xBEEF, Op: "JMP", Len: 3, Args: []Operand{{Kind: Addr, Value: 0x1234}}},
			expected: "BEEF JMP $1234",
		},
		{
			name: "register and byte immediate",
			inst: Inst{Op: "MVI", Len: 2, Args: []Operand{
				{Kind: Register, Name: "B"},
				{Kind: Imm8, Value: 0x99},
			}},
			expected: "0000 MVI B, #$99",
		},
		{
			name: "pair and word immediate",
			inst: Inst{Op: "LXI", Len: 3, Args: []Operand{
				{Kind: Pair, Name: "SP"},
				{Kind: Imm16, Value: 0x0F},
			}},
			expected: "0000 LXI SP, #$000F",
		},
		{
			name:     "port",
			inst:     Inst{Op: "OUT", Len: 2, Args: []Operand{{Kind: Port, Value: 0x10}}},
			expected: "0000 OUT $10",
		},
		{
			name:     "vector",
			inst:     Inst{Op: "RST", Len: 1, Args: []Operand{{Kind: Vector, Value: 7}}},
			expected: "0000 RST 7",
		},
		{
			name:     "unknown",
			inst:     Inst{Op: "???", Len: 1, Unknown: true, Args: []Operand{{Kind: Raw, Value: 0xCB}}},
			expected: "0000 ??? $CB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.inst); got != tt.expected {
				t.Errorf("Format() = %q, want %q", got, tt.expected)
			}
			if got := tt.inst.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatWithBytes(t *testing.T) {
	jmp := Inst{Addr: 0x100, Op: "JMP", Len: 3, Raw: [3]byte{0xC3, 0x34, 0x12},
		Args: []Operand{{Kind: Addr, Value: 0x1234}}}
	if got, want := FormatWithBytes(jmp), "0100 C3 34 12  JMP $1234"; got != want {
		t.Errorf("FormatWithBytes() = %q, want %q", got, want)
	}

	nop := Inst{Addr: 0x103, Op: "NOP", Len: 1}
	if got, want := FormatWithBytes(nop), "0103 00        NOP"; got != want {
		t.Errorf("FormatWithBytes() = %q, want %q", got, want)
	}
}

func TestRecord(t *testing.T) {
	inst := Inst{Addr: 0x0002, Op: "MVI", Len: 2, Raw: [3]byte{0x06, 0x99},
		Args: []Operand{{Kind: Register, Name: "B"}, {Kind: Imm8, Value: 0x99}}}

	data, err := json.Marshal(NewRecord(inst))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	expected := `{"address":"0002","bytes":"06 99","mnemonic":"MVI","operands":["B","#$99"],"length":2}`
	if string(data) != expected {
		t.Errorf("record = %s\nwant     %s", data, expected)
	}
}

func TestStream(t *testing.T) {
	s := Stream{
		{Addr: 0, Op: "JMP", Len: 3},
		{Addr: 3, Op: "???", Len: 1, Unknown: true},
		{Addr: 4, Op: "HLT", Len: 1},
	}

	if s.Size() != 5 {
		t.Errorf("Size() = %d, want 5", s.Size())
	}
	if s.Unknown() != 1 {
		t.Errorf("Unknown() = %d, want 1", s.Unknown())
	}
	if s.Index(4) != 2 {
		t.Errorf("Index(4) = %d, want 2", s.Index(4))
	}
	if s.Index(1) != -1 {
		t.Errorf("Index(1) = %d, want -1", s.Index(1))
	}
	if s[0].Next() != 3 {
		t.Errorf("Next() = %d, want 3", s[0].Next())
	}
	if len(s.Records()) != 3 {
		t.Errorf("Records() len = %d, want 3", len(s.Records()))
	}
}
