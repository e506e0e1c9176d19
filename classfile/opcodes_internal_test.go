package classfile

import "testing"

func TestOpcodeTable(t *testing.T) {
	tests := []struct {
		op       uint8
		name     string
		operands []OperandKind
	}{
		{0x00, "nop", nil},
		{0x10, "bipush", []OperandKind{OperandS1}},
		{0x11, "sipush", []OperandKind{OperandS2}},
		{0x12, "ldc", []OperandKind{OperandConst1}},
		{0x14, "ldc2_w", []OperandKind{OperandConst2}},
		{0x19, "aload", []OperandKind{OperandLocal1}},
		{0x84, "iinc", []OperandKind{OperandLocal1, OperandS1}},
		{0xa7, "goto", []OperandKind{OperandBranch2}},
		{0xa9, "ret", []OperandKind{OperandLocal1}},
		{0xb9, "invokeinterface", []OperandKind{OperandConst2, OperandReserved}},
		{0xba, "invokedynamic", []OperandKind{OperandConst2, OperandReserved}},
		{0xbc, "newarray", []OperandKind{OperandArrayType}},
		{0xc5, "multianewarray", []OperandKind{OperandConst2, OperandU1}},
		{0xc7, "ifnonnull", []OperandKind{OperandBranch2}},
		{0xc8, "goto_w", []OperandKind{OperandBranch4}},
		{0xc9, "jsr_w", []OperandKind{OperandBranch4}},
		{0xca, "breakpoint", nil},
		{0xfe, "impdep1", nil},
		{0xff, "impdep2", nil},
	}
	for _, tt := range tests {
		info, ok := LookupOpcode(tt.op)
		if !ok {
			t.Errorf("0x%02x undefined", tt.op)
			continue
		}
		if info.Name != tt.name {
			t.Errorf("0x%02x name = %q, want %q", tt.op, info.Name, tt.name)
		}
		if len(info.Operands) != len(tt.operands) {
			t.Errorf("%s operands = %v, want %v", tt.name, info.Operands, tt.operands)
			continue
		}
		for i := range tt.operands {
			if info.Operands[i] != tt.operands[i] {
				t.Errorf("%s operand %d = %v, want %v", tt.name, i, info.Operands[i], tt.operands[i])
			}
		}
	}

	for op := 0xcb; op <= 0xfd; op++ {
		if _, ok := LookupOpcode(uint8(op)); ok {
			t.Errorf("0x%02x should be undefined", op)
		}
	}
}

func TestWidenable(t *testing.T) {
	for op := 0; op < 256; op++ {
		want := (op >= 0x15 && op <= 0x19) || (op >= 0x36 && op <= 0x3a) || op == 0x84 || op == 0xa9
		if got := Widenable(uint8(op)); got != want {
			t.Errorf("Widenable(0x%02x) = %v", op, got)
		}
	}
}

func TestCursorValues(t *testing.T) {
	c := newCursor([]byte{0xca, 0xfe, 0xba, 0xbe, 0xff, 0xfe, 0x00, 0x2a, 'h', 'i'})

	magic, err := c.hex(4)
	if err != nil {
		t.Fatal(err)
	}
	if magic.Str != "0xCAFEBABE" || magic.Raw != Magic || magic.Width != 4 {
		t.Errorf("magic = %+v", magic)
	}
	s, err := c.readSigned(2, OperandS2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Num != -2 || s.Raw != 0xfffe || s.Offset != 4 || s.Kind != OperandS2 {
		t.Errorf("signed = %+v", s)
	}
	u, err := c.u2()
	if err != nil {
		t.Fatal(err)
	}
	if u.Num != 42 || u.End() != 8 {
		t.Errorf("unsigned = %+v", u)
	}
	text, err := c.utf8(2)
	if err != nil {
		t.Fatal(err)
	}
	if text.Str != "hi" || text.Offset != 8 {
		t.Errorf("utf8 = %+v", text)
	}
	if c.remaining() != 0 {
		t.Errorf("remaining = %d", c.remaining())
	}
}

func TestCursorAlign(t *testing.T) {
	c := newCursor(make([]byte, 8))
	if _, err := c.skip(1); err != nil {
		t.Fatal(err)
	}
	pad, err := c.align(0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if pad.Offset != 1 || pad.Width != 3 || pad.Kind != OperandPadding {
		t.Errorf("pad = %+v", pad)
	}
	pad, err = c.align(0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if pad.Width != 0 {
		t.Errorf("aligned cursor padded %d bytes", pad.Width)
	}
}

func TestOperandKindText(t *testing.T) {
	b, err := OperandBranch2.MarshalText()
	if err != nil || string(b) != "branch_offset2" {
		t.Errorf("MarshalText = %q, %v", b, err)
	}
	if OperandKind(200).String() != "OperandKind(200)" {
		t.Errorf("unknown kind = %q", OperandKind(200).String())
	}
}
