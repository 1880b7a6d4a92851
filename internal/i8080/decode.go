// Package i8080 decodes Intel 8080 machine code into instructions.
//
// Decoding is static and single pass: every opcode is classified through an
// ordered rule list, its operand bytes are consumed from the same source and
// the program counter advances by the instruction length. Branches are
// printed, never followed.
package i8080

import (
	"io"
	"log/slog"

	"dis8080/internal/disasm"
)

// ByteReader is a forward-only source of bytes. ok is false at end of input.
type ByteReader interface {
	Next() (b byte, ok bool)
}

// UnknownOp is the mnemonic given to opcodes no rule accepts.
const UnknownOp = "???"

// Decoder walks a ByteReader one instruction at a time.
type Decoder struct {
	src          ByteReader
	pc           uint16
	undocumented bool
	logger       *slog.Logger
	count        int
	err          error
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithOrigin sets the address of the first byte.
func WithOrigin(origin uint16) Option {
	return func(d *Decoder) { d.pc = origin }
}

// WithUndocumented decodes CB, D9, DD, ED and FD as the JMP, RET and CALL
// aliases real 8080 silicon executes. Without it they decode as unknown.
func WithUndocumented(enabled bool) Option {
	return func(d *Decoder) { d.undocumented = enabled }
}

// WithLogger sets the logger used for per-instruction debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDecoder creates a decoder reading from src.
func NewDecoder(src ByteReader, opts ...Option) *Decoder {
	d := &Decoder{
		src:    src,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// PC returns the address of the next opcode.
func (d *Decoder) PC() uint16 {
	return d.pc
}

// Count returns how many instructions have been decoded so far.
func (d *Decoder) Count() int {
	return d.count
}

// Next decodes one instruction. It returns io.EOF once the input is
// exhausted and a *TruncatedError if the last instruction is incomplete.
// Both are terminal: later calls return the same error.
func (d *Decoder) Next() (disasm.Inst, error) {
	if d.err != nil {
		return disasm.Inst{}, d.err
	}

	op, ok := d.src.Next()
	if !ok {
		d.err = io.EOF
		return disasm.Inst{}, d.err
	}

	inst := disasm.Inst{Addr: d.pc, Len: 1}
	inst.Raw[0] = op

	r := d.classify(op)
	if r == nil {
		inst.Op = UnknownOp
		inst.Args = []disasm.Operand{{Kind: disasm.Raw, Value: uint16(op)}}
		inst.Unknown = true
		d.logger.Debug("Unknown opcode", "addr", inst.Addr, "opcode", op)
		return d.advance(inst), nil
	}

	need := int(r.width)
	var data uint16
	for n := 0; n < need; n++ {
		b, ok := d.src.Next()
		if !ok {
			d.err = &TruncatedError{Addr: d.pc, Opcode: op, Need: need, Have: n}
			return disasm.Inst{}, d.err
		}
		inst.Raw[1+n] = b
		data |= uint16(b) << (8 * n) // low byte first
	}

	inst.Len = 1 + need
	inst.Op, inst.Args = r.build(op, data)
	d.logger.Debug("Decoded", "addr", inst.Addr, "opcode", op, "rule", r.name, "len", inst.Len)
	return d.advance(inst), nil
}

func (d *Decoder) advance(inst disasm.Inst) disasm.Inst {
	d.pc += uint16(inst.Len)
	d.count++
	return inst
}

// classify returns the first rule accepting op, or nil.
func (d *Decoder) classify(op byte) *rule {
	for i := range rules {
		r := &rules[i]
		if r.undocumented && !d.undocumented {
			continue
		}
		if r.match(op) {
			return r
		}
	}
	return nil
}

// Walk decodes until end of input, handing every instruction to fn. It
// returns nil at end of input, the first error from fn, or the decode error.
func (d *Decoder) Walk(fn func(disasm.Inst) error) error {
	for {
		inst, err := d.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(inst); err != nil {
			return err
		}
	}
}

// Decode decodes all of src. On a decode error the instructions decoded
// before it are returned along with the error.
func Decode(src ByteReader, opts ...Option) (disasm.Stream, error) {
	var out disasm.Stream
	err := NewDecoder(src, opts...).Walk(func(inst disasm.Inst) error {
		out = append(out, inst)
		return nil
	})
	return out, err
}

// Length returns the encoded length of op, or 0 when no rule accepts it.
func Length(op byte, undocumented bool) int {
	d := Decoder{undocumented: undocumented}
	r := d.classify(op)
	if r == nil {
		return 0
	}
	return 1 + int(r.width)
}
