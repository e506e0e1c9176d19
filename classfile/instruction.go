package classfile

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/wippyai/classview/errors"
)

// Instruction is one decoded bytecode instruction.
type Instruction struct {
	Switch   *SwitchTable // tableswitch and lookupswitch only
	Operands []Value
	Hidden   []Value // alignment padding and reserved bytes
	Opcode   Value
	PC       int // offset of the opcode from the start of the code array
	Size     int
}

// SwitchTable holds the variable-length body of a switch instruction.
// Low and High are set for tableswitch, NPairs for lookupswitch.
type SwitchTable struct {
	Low     *Value
	High    *Value
	NPairs  *Value
	Cases   []SwitchCase
	Default Value
}

// SwitchCase is one jump table entry. Match is the lookupswitch key value;
// for tableswitch it is nil and Key is implied by Low.
type SwitchCase struct {
	Match  *Value
	Target Value
	Key    int64
}

// Mnemonic returns the opcode name.
func (in *Instruction) Mnemonic() string {
	return in.Opcode.Name
}

// Targets returns every absolute jump target of the instruction.
func (in *Instruction) Targets() []int {
	var out []int
	for _, op := range in.Operands {
		if op.Kind == OperandBranch2 || op.Kind == OperandBranch4 {
			out = append(out, op.Index())
		}
	}
	if in.Switch != nil {
		out = append(out, in.Switch.Default.Index())
		for _, c := range in.Switch.Cases {
			out = append(out, c.Target.Index())
		}
	}
	return out
}

// Values returns every value of the instruction, hidden ones included,
// ordered by offset.
func (in *Instruction) Values() []Value {
	vals := []Value{in.Opcode}
	vals = append(vals, in.Operands...)
	vals = append(vals, in.Hidden...)
	if s := in.Switch; s != nil {
		vals = append(vals, s.Default)
		for _, p := range []*Value{s.Low, s.High, s.NPairs} {
			if p != nil {
				vals = append(vals, *p)
			}
		}
		for _, c := range s.Cases {
			if c.Match != nil {
				vals = append(vals, *c.Match)
			}
			vals = append(vals, c.Target)
		}
	}
	sort.SliceStable(vals, func(i, j int) bool { return vals[i].Offset < vals[j].Offset })
	return vals
}

// disassembler decodes one code array. base is the absolute offset of the
// first opcode; jump targets and switch alignment are measured from it.
type disassembler struct {
	c    *cursor
	pool *ConstantPool
	base int
}

func disassemble(c *cursor, pool *ConstantPool) ([]Instruction, error) {
	d := &disassembler{c: c, pool: pool, base: c.pos()}
	var out []Instruction
	for c.remaining() > 0 {
		pc := c.pos() - d.base
		in, err := d.next()
		if err != nil {
			return nil, errors.Within(err, fmt.Sprintf("code@%d", pc))
		}
		out = append(out, in)
	}
	return out, nil
}

func (d *disassembler) next() (Instruction, error) {
	opVal, err := d.c.readUnsigned(1, OperandOpcode)
	if err != nil {
		return Instruction{}, err
	}
	in := Instruction{PC: opVal.Offset - d.base}
	op := uint8(opVal.Raw)
	info, ok := LookupOpcode(op)
	if !ok {
		return Instruction{}, errors.UnknownOpcode(opVal.Offset, op, "")
	}
	opVal.Name = info.Name
	in.Opcode = opVal

	switch op {
	case OpTableswitch:
		err = d.tableswitch(&in)
	case OpLookupswitch:
		err = d.lookupswitch(&in)
	case OpWide:
		err = d.wide(&in)
	default:
		for _, kind := range info.Operands {
			v, err := d.operand(in.PC, kind)
			if err != nil {
				return Instruction{}, err
			}
			if kind == OperandReserved {
				in.Hidden = append(in.Hidden, v)
			} else {
				in.Operands = append(in.Operands, v)
			}
		}
	}
	if err != nil {
		return Instruction{}, err
	}
	in.Size = d.c.pos() - opVal.Offset
	return in, nil
}

// operand reads one fixed-width operand and names it. pc is the
// method-relative offset of the owning opcode.
func (d *disassembler) operand(pc int, kind OperandKind) (Value, error) {
	var (
		v   Value
		err error
	)
	if kind.Signed() {
		v, err = d.c.readSigned(kind.Width(), kind)
	} else {
		v, err = d.c.readUnsigned(kind.Width(), kind)
	}
	if err != nil {
		return Value{}, err
	}
	switch kind {
	case OperandBranch2, OperandBranch4:
		v.Num += int64(pc)
		v.Name = strconv.FormatInt(v.Num, 10)
	case OperandConst1, OperandConst2:
		c, err := d.pool.lookup(v.Index(), v.Offset)
		if err != nil {
			return Value{}, err
		}
		v.Name = c.Info.Tag().String() + ": " + c.Name
	case OperandLocal1, OperandLocal2:
		v.Name = "@" + strconv.FormatInt(v.Num, 10)
	case OperandArrayType:
		name, ok := newarrayTypes[v.Raw]
		if !ok {
			return Value{}, errors.InvalidData(errors.PhaseDisassemble, v.Offset,
				fmt.Sprintf("unknown newarray type code %d", v.Raw))
		}
		v.Name = name
	case OperandReserved:
	default:
		v.Name = strconv.FormatInt(v.Num, 10)
	}
	return v, nil
}

func (d *disassembler) wide(in *Instruction) error {
	inner, err := d.c.readUnsigned(1, OperandOpcode)
	if err != nil {
		return err
	}
	op := uint8(inner.Raw)
	if !Widenable(op) {
		return errors.UnknownOpcode(inner.Offset, op,
			fmt.Sprintf("opcode 0x%02x cannot follow wide", op))
	}
	info, _ := LookupOpcode(op)
	inner.Name = info.Name
	index, err := d.operand(in.PC, OperandLocal2)
	if err != nil {
		return err
	}
	in.Operands = append(in.Operands, inner, index)
	if op == OpIinc {
		inc, err := d.operand(in.PC, OperandS2)
		if err != nil {
			return err
		}
		in.Operands = append(in.Operands, inc)
	}
	return nil
}

// switchHeader consumes padding and the default target shared by both
// switch forms.
func (d *disassembler) switchHeader(in *Instruction) error {
	pad, err := d.c.align(d.base, 4)
	if err != nil {
		return err
	}
	if pad.Width > 0 {
		in.Hidden = append(in.Hidden, pad)
	}
	def, err := d.operand(in.PC, OperandBranch4)
	if err != nil {
		return err
	}
	in.Switch = &SwitchTable{Default: def}
	return nil
}

// ensure fails early when a declared table cannot fit in the code array.
func (d *disassembler) ensure(n int64, size int64) error {
	need := n * size
	if need > int64(d.c.remaining()) {
		return errors.UnexpectedEOF(errors.PhaseDisassemble, d.c.pos(), int(need), d.c.remaining())
	}
	return nil
}

func (d *disassembler) tableswitch(in *Instruction) error {
	if err := d.switchHeader(in); err != nil {
		return err
	}
	low, err := d.operand(in.PC, OperandS4)
	if err != nil {
		return err
	}
	high, err := d.operand(in.PC, OperandS4)
	if err != nil {
		return err
	}
	if high.Num < low.Num {
		return errors.InvalidData(errors.PhaseDisassemble, high.Offset,
			fmt.Sprintf("tableswitch high %d is below low %d", high.Num, low.Num))
	}
	n := high.Num - low.Num + 1
	if err := d.ensure(n, 4); err != nil {
		return err
	}
	in.Switch.Low, in.Switch.High = &low, &high
	in.Switch.Cases = make([]SwitchCase, 0, n)
	for i := int64(0); i < n; i++ {
		target, err := d.operand(in.PC, OperandBranch4)
		if err != nil {
			return err
		}
		in.Switch.Cases = append(in.Switch.Cases, SwitchCase{Key: low.Num + i, Target: target})
	}
	return nil
}

func (d *disassembler) lookupswitch(in *Instruction) error {
	if err := d.switchHeader(in); err != nil {
		return err
	}
	npairs, err := d.operand(in.PC, OperandS4)
	if err != nil {
		return err
	}
	if npairs.Num < 0 {
		return errors.InvalidData(errors.PhaseDisassemble, npairs.Offset,
			fmt.Sprintf("lookupswitch npairs %d is negative", npairs.Num))
	}
	if err := d.ensure(npairs.Num, 8); err != nil {
		return err
	}
	in.Switch.NPairs = &npairs
	in.Switch.Cases = make([]SwitchCase, 0, npairs.Num)
	for i := int64(0); i < npairs.Num; i++ {
		match, err := d.operand(in.PC, OperandS4)
		if err != nil {
			return err
		}
		target, err := d.operand(in.PC, OperandBranch4)
		if err != nil {
			return err
		}
		in.Switch.Cases = append(in.Switch.Cases, SwitchCase{Key: match.Num, Match: &match, Target: target})
	}
	return nil
}
