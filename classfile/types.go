package classfile

import "fmt"

// OperandKind tags what a decoded Value represents inside bytecode.
// Values read for structural fields carry OperandNone.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandU1
	OperandU2
	OperandU4
	OperandS1
	OperandS2
	OperandS4
	OperandConst1    // constant pool index, 1 byte
	OperandConst2    // constant pool index, 2 bytes
	OperandLocal1    // local variable slot, 1 byte
	OperandLocal2    // local variable slot, 2 bytes
	OperandBranch2   // relative jump, 2 bytes, stored as absolute target
	OperandBranch4   // relative jump, 4 bytes, stored as absolute target
	OperandArrayType // newarray element type code
	OperandReserved  // bytes the format requires but that carry no information
	OperandOpcode
	OperandPadding
)

var operandKindNames = [...]string{
	OperandNone:      "none",
	OperandU1:        "u1",
	OperandU2:        "u2",
	OperandU4:        "u4",
	OperandS1:        "s1",
	OperandS2:        "s2",
	OperandS4:        "s4",
	OperandConst1:    "constant_index1",
	OperandConst2:    "constant_index2",
	OperandLocal1:    "local_index1",
	OperandLocal2:    "local_index2",
	OperandBranch2:   "branch_offset2",
	OperandBranch4:   "branch_offset4",
	OperandArrayType: "array_type",
	OperandReserved:  "reserved",
	OperandOpcode:    "opcode",
	OperandPadding:   "padding",
}

func (k OperandKind) String() string {
	if int(k) < len(operandKindNames) {
		return operandKindNames[k]
	}
	return fmt.Sprintf("OperandKind(%d)", uint8(k))
}

// MarshalText renders the kind by name in JSON output.
func (k OperandKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Width returns the number of bytes an operand of this kind occupies, or 0
// for kinds without a fixed width.
func (k OperandKind) Width() int {
	switch k {
	case OperandU1, OperandS1, OperandConst1, OperandLocal1, OperandArrayType, OperandOpcode:
		return 1
	case OperandU2, OperandS2, OperandConst2, OperandLocal2, OperandBranch2, OperandReserved:
		return 2
	case OperandU4, OperandS4, OperandBranch4:
		return 4
	}
	return 0
}

// Signed reports whether operands of this kind are read as two's complement.
func (k OperandKind) Signed() bool {
	switch k {
	case OperandS1, OperandS2, OperandS4, OperandBranch2, OperandBranch4:
		return true
	}
	return false
}

// Value is one field read from the class file. Offset and Width locate it in
// the input buffer; consecutive reads from one cursor never overlap or leave
// gaps.
type Value struct {
	Str    string
	Name   string
	Offset int
	Width  int
	Raw    uint64 // bits as read, big-endian
	Num    int64  // numeric value; branch operands hold the absolute target
	Kind   OperandKind
}

// End returns the offset just past the value.
func (v Value) End() int {
	return v.Offset + v.Width
}

// Index returns the numeric value as an int, for pool indices and counts.
func (v Value) Index() int {
	return int(v.Num)
}

// ClassFile is a fully decoded and resolved class file.
type ClassFile struct {
	ConstantPool    *ConstantPool
	Trailing        *Value
	Interfaces      []Value
	Fields          []Member
	Methods         []Member
	Attributes      []Attribute
	Magic           Value
	MinorVersion    Value
	MajorVersion    Value
	AccessFlags     Value
	ThisClass       Value
	SuperClass      Value
	InterfacesCount Value
	FieldsCount     Value
	MethodsCount    Value
	AttributesCount Value
}

// ValidMagic reports whether the magic number is 0xCAFEBABE. Decode does not
// check it.
func (cf *ClassFile) ValidMagic() bool {
	return cf.Magic.Raw == Magic
}

// Name returns the dotted name of this class.
func (cf *ClassFile) Name() string {
	return cf.ThisClass.Name
}

// HasSuperClass reports whether super_class is non-zero. Only
// java.lang.Object and module-info declare no superclass.
func (cf *ClassFile) HasSuperClass() bool {
	return cf.SuperClass.Num != 0
}

// SuperName returns the dotted superclass name, or "" when there is none.
func (cf *ClassFile) SuperName() string {
	return cf.SuperClass.Name
}

// Version returns "major.minor", followed by the Java release when known.
func (cf *ClassFile) Version() string {
	v := fmt.Sprintf("%d.%d", cf.MajorVersion.Num, cf.MinorVersion.Num)
	if rel := JavaRelease(uint16(cf.MajorVersion.Num)); rel != "" {
		v += " (" + rel + ")"
	}
	return v
}

// SourceFile returns the SourceFile attribute value, or "".
func (cf *ClassFile) SourceFile() string {
	for _, a := range cf.Attributes {
		if sf, ok := a.Body.(*SourceFileAttribute); ok {
			return sf.SourceFileIndex.Name
		}
	}
	return ""
}

// FindMethod returns the method with the given name and raw descriptor.
func (cf *ClassFile) FindMethod(name, desc string) *Member {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Name() == name && m.Descriptor() == desc {
			return m
		}
	}
	return nil
}

// Member is a field or a method.
type Member struct {
	Signature       string // formatted descriptor with the member name
	Attributes      []Attribute
	AccessFlags     Value
	NameIndex       Value
	DescriptorIndex Value
	AttributesCount Value
}

// Name returns the member's simple name.
func (m *Member) Name() string { return m.NameIndex.Name }

// Descriptor returns the raw descriptor text.
func (m *Member) Descriptor() string { return m.DescriptorIndex.Name }

// Display returns the flags followed by the signature.
func (m *Member) Display() string {
	if m.AccessFlags.Name == "" {
		return m.Signature
	}
	return m.AccessFlags.Name + " " + m.Signature
}

// Attribute returns the first attribute with the given name.
func (m *Member) Attribute(name string) (*Attribute, bool) {
	for i := range m.Attributes {
		if m.Attributes[i].Name() == name {
			return &m.Attributes[i], true
		}
	}
	return nil, false
}

// Code returns the method's Code attribute, or nil for abstract and native
// methods and for fields.
func (m *Member) Code() *CodeAttribute {
	for _, a := range m.Attributes {
		if c, ok := a.Body.(*CodeAttribute); ok {
			return c
		}
	}
	return nil
}
