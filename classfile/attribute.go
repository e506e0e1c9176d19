package classfile

import (
	"fmt"
	"strconv"

	"github.com/wippyai/classview/errors"
)

// Attribute is one attribute_info record.
type Attribute struct {
	Body      AttributeBody
	NameIndex Value
	Length    Value
}

// Name returns the attribute name, e.g. "Code".
func (a *Attribute) Name() string {
	return a.NameIndex.Name
}

// AttributeBody is the decoded payload of an attribute. The concrete types
// are the *Attribute structs in this file; unrecognised attributes decode to
// RawAttribute.
type AttributeBody interface {
	// appendValues appends the body's values in stream order.
	appendValues(dst []Value) []Value
}

// CodeAttribute holds a method body.
type CodeAttribute struct {
	pcIndex              map[int]int
	Instructions         []Instruction
	ExceptionTable       []ExceptionHandler
	Attributes           []Attribute
	MaxStack             Value
	MaxLocals            Value
	CodeLength           Value
	ExceptionTableLength Value
	AttributesCount      Value
}

// ExceptionHandler is one exception_table row. CatchType.Name is "any" for
// handlers that catch everything.
type ExceptionHandler struct {
	StartPC   Value
	EndPC     Value
	HandlerPC Value
	CatchType Value
}

// InstructionAt returns the instruction whose opcode is at pc.
func (c *CodeAttribute) InstructionAt(pc int) *Instruction {
	i, ok := c.pcIndex[pc]
	if !ok {
		return nil
	}
	return &c.Instructions[i]
}

// LineNumbers returns the LineNumberTable nested in this Code attribute.
func (c *CodeAttribute) LineNumbers() *LineNumberTableAttribute {
	for _, a := range c.Attributes {
		if t, ok := a.Body.(*LineNumberTableAttribute); ok {
			return t
		}
	}
	return nil
}

// ConstantValueAttribute gives the initial value of a static field.
type ConstantValueAttribute struct{ ConstantValueIndex Value }

// SourceFileAttribute names the source file the class was compiled from.
type SourceFileAttribute struct{ SourceFileIndex Value }

// SignatureAttribute holds a generic signature.
type SignatureAttribute struct{ SignatureIndex Value }

// NestHostAttribute names the host of the class's nest.
type NestHostAttribute struct{ HostClassIndex Value }

// ClassListAttribute is a counted list of class references. It backs
// Exceptions, NestMembers and PermittedSubclasses.
type ClassListAttribute struct {
	Classes []Value
	Count   Value
}

// InnerClassesAttribute lists the nested classes a class refers to.
type InnerClassesAttribute struct {
	Classes         []InnerClass
	NumberOfClasses Value
}

// InnerClass is one InnerClasses row. Outer class and inner name are
// optional and resolve to "" when zero.
type InnerClass struct {
	InnerClassInfoIndex   Value
	OuterClassInfoIndex   Value
	InnerNameIndex        Value
	InnerClassAccessFlags Value
}

// BootstrapMethodsAttribute holds the bootstrap methods used by dynamic constants.
type BootstrapMethodsAttribute struct {
	Methods             []BootstrapMethod
	NumBootstrapMethods Value
}

// BootstrapMethod is a method handle plus its static arguments.
type BootstrapMethod struct {
	Arguments          []Value
	BootstrapMethodRef Value
	NumArguments       Value
}

// LineNumberTableAttribute maps code offsets to source lines.
type LineNumberTableAttribute struct {
	Entries []LineNumber
	Length  Value
}

// LineNumber marks the line starting at StartPC.
type LineNumber struct {
	StartPC    Value
	LineNumber Value
}

// Line returns the source line covering pc, or 0 when unknown.
func (t *LineNumberTableAttribute) Line(pc int) int {
	line, best := 0, -1
	for _, e := range t.Entries {
		start := e.StartPC.Index()
		if start <= pc && start > best {
			best, line = start, e.LineNumber.Index()
		}
	}
	return line
}

// LocalVariableTableAttribute describes local variables for debuggers.
type LocalVariableTableAttribute struct {
	Entries []LocalVariable
	Length  Value
}

// LocalVariable is a named slot live over [StartPC, StartPC+Length).
type LocalVariable struct {
	StartPC         Value
	Length          Value
	NameIndex       Value
	DescriptorIndex Value
	Index           Value
}

// MarkerAttribute is an attribute with an empty body, such as Deprecated.
type MarkerAttribute struct{}

// RawAttribute keeps the bytes of an attribute that is not interpreted.
type RawAttribute struct{ Info Value }

func (c *CodeAttribute) appendValues(dst []Value) []Value {
	dst = append(dst, c.MaxStack, c.MaxLocals, c.CodeLength)
	for i := range c.Instructions {
		dst = append(dst, c.Instructions[i].Values()...)
	}
	dst = append(dst, c.ExceptionTableLength)
	for _, h := range c.ExceptionTable {
		dst = append(dst, h.StartPC, h.EndPC, h.HandlerPC, h.CatchType)
	}
	dst = append(dst, c.AttributesCount)
	return appendAttributeValues(dst, c.Attributes)
}

func (a *ConstantValueAttribute) appendValues(dst []Value) []Value {
	return append(dst, a.ConstantValueIndex)
}

func (a *SourceFileAttribute) appendValues(dst []Value) []Value {
	return append(dst, a.SourceFileIndex)
}

func (a *SignatureAttribute) appendValues(dst []Value) []Value {
	return append(dst, a.SignatureIndex)
}

func (a *NestHostAttribute) appendValues(dst []Value) []Value {
	return append(dst, a.HostClassIndex)
}

func (a *ClassListAttribute) appendValues(dst []Value) []Value {
	return append(append(dst, a.Count), a.Classes...)
}

func (a *InnerClassesAttribute) appendValues(dst []Value) []Value {
	dst = append(dst, a.NumberOfClasses)
	for _, c := range a.Classes {
		dst = append(dst, c.InnerClassInfoIndex, c.OuterClassInfoIndex, c.InnerNameIndex, c.InnerClassAccessFlags)
	}
	return dst
}

func (a *BootstrapMethodsAttribute) appendValues(dst []Value) []Value {
	dst = append(dst, a.NumBootstrapMethods)
	for _, m := range a.Methods {
		dst = append(dst, m.BootstrapMethodRef, m.NumArguments)
		dst = append(dst, m.Arguments...)
	}
	return dst
}

func (a *LineNumberTableAttribute) appendValues(dst []Value) []Value {
	dst = append(dst, a.Length)
	for _, e := range a.Entries {
		dst = append(dst, e.StartPC, e.LineNumber)
	}
	return dst
}

func (a *LocalVariableTableAttribute) appendValues(dst []Value) []Value {
	dst = append(dst, a.Length)
	for _, e := range a.Entries {
		dst = append(dst, e.StartPC, e.Length, e.NameIndex, e.DescriptorIndex, e.Index)
	}
	return dst
}

func (*MarkerAttribute) appendValues(dst []Value) []Value { return dst }

func (a *RawAttribute) appendValues(dst []Value) []Value {
	if a.Info.Width == 0 {
		return dst
	}
	return append(dst, a.Info)
}

func appendAttributeValues(dst []Value, attrs []Attribute) []Value {
	for i := range attrs {
		dst = append(dst, attrs[i].NameIndex, attrs[i].Length)
		dst = attrs[i].Body.appendValues(dst)
	}
	return dst
}

// attributeDecoder decodes one attribute body from a cursor bounded to the
// attribute length.
type attributeDecoder func(c *cursor, pool *ConstantPool) (AttributeBody, error)

var attributeDecoders map[string]attributeDecoder

func init() {
	attributeDecoders = map[string]attributeDecoder{
		"Code":                decodeCode,
		"ConstantValue":       decodeConstantValue,
		"SourceFile":          decodeSourceFile,
		"Signature":           decodeSignature,
		"NestHost":            decodeNestHost,
		"Exceptions":          decodeClassList,
		"NestMembers":         decodeClassList,
		"PermittedSubclasses": decodeClassList,
		"InnerClasses":        decodeInnerClasses,
		"BootstrapMethods":    decodeBootstrapMethods,
		"LineNumberTable":     decodeLineNumberTable,
		"LocalVariableTable":  decodeLocalVariableTable,
		"Deprecated":          decodeMarker,
		"Synthetic":           decodeMarker,
	}
}

func decodeAttributes(c *cursor, pool *ConstantPool) (Value, []Attribute, error) {
	count, err := c.u2()
	if err != nil {
		return Value{}, nil, errors.Within(err, "attributes_count")
	}
	attrs := make([]Attribute, 0, count.Index())
	for i := 0; i < count.Index(); i++ {
		a, err := decodeAttribute(c, pool)
		if err != nil {
			return Value{}, nil, errors.Within(err, fmt.Sprintf("attributes[%d]", i))
		}
		attrs = append(attrs, a)
	}
	return count, attrs, nil
}

func decodeAttribute(c *cursor, pool *ConstantPool) (Attribute, error) {
	var a Attribute
	var err error
	if a.NameIndex, err = c.u2(); err != nil {
		return a, err
	}
	if err = pool.refUtf8(&a.NameIndex); err != nil {
		return a, err
	}
	if a.Length, err = c.u4(); err != nil {
		return a, err
	}
	body, err := c.sub(int(a.Length.Raw))
	if err != nil {
		return a, err
	}
	body.enter(errors.PhaseAttribute)
	decode, ok := attributeDecoders[a.Name()]
	if !ok {
		info, err := body.skip(body.remaining())
		if err != nil {
			return a, err
		}
		a.Body = &RawAttribute{Info: info}
		return a, nil
	}
	if a.Body, err = decode(body, pool); err != nil {
		return a, errors.Within(err, a.Name())
	}
	if body.remaining() != 0 {
		return a, errors.Within(errors.InvalidData(errors.PhaseAttribute, body.pos(),
			fmt.Sprintf("%d unread bytes at end of attribute body", body.remaining())), a.Name())
	}
	return a, nil
}

func decodeCode(c *cursor, pool *ConstantPool) (AttributeBody, error) {
	code := &CodeAttribute{}
	var err error
	if code.MaxStack, err = c.u2(); err != nil {
		return nil, err
	}
	if code.MaxLocals, err = c.u2(); err != nil {
		return nil, err
	}
	if code.CodeLength, err = c.u4(); err != nil {
		return nil, err
	}
	body, err := c.sub(int(code.CodeLength.Raw))
	if err != nil {
		return nil, err
	}
	body.enter(errors.PhaseDisassemble)
	if code.Instructions, err = disassemble(body, pool); err != nil {
		return nil, err
	}
	code.pcIndex = make(map[int]int, len(code.Instructions))
	for i, in := range code.Instructions {
		code.pcIndex[in.PC] = i
	}

	if code.ExceptionTableLength, err = c.u2(); err != nil {
		return nil, err
	}
	for i := 0; i < code.ExceptionTableLength.Index(); i++ {
		var h ExceptionHandler
		for _, f := range []*Value{&h.StartPC, &h.EndPC, &h.HandlerPC, &h.CatchType} {
			if *f, err = c.u2(); err != nil {
				return nil, err
			}
		}
		if err := pool.refOptional(&h.CatchType, "any"); err != nil {
			return nil, errors.Within(err, fmt.Sprintf("exception_table[%d]", i))
		}
		code.ExceptionTable = append(code.ExceptionTable, h)
	}

	if code.AttributesCount, code.Attributes, err = decodeAttributes(c, pool); err != nil {
		return nil, err
	}
	return code, nil
}

func decodeConstantValue(c *cursor, pool *ConstantPool) (AttributeBody, error) {
	v, err := readRef(c, pool)
	return &ConstantValueAttribute{ConstantValueIndex: v}, err
}

func decodeSourceFile(c *cursor, pool *ConstantPool) (AttributeBody, error) {
	v, err := readRef(c, pool)
	return &SourceFileAttribute{SourceFileIndex: v}, err
}

func decodeSignature(c *cursor, pool *ConstantPool) (AttributeBody, error) {
	v, err := readRef(c, pool)
	return &SignatureAttribute{SignatureIndex: v}, err
}

func decodeNestHost(c *cursor, pool *ConstantPool) (AttributeBody, error) {
	v, err := readRef(c, pool)
	return &NestHostAttribute{HostClassIndex: v}, err
}

func decodeClassList(c *cursor, pool *ConstantPool) (AttributeBody, error) {
	a := &ClassListAttribute{}
	var err error
	if a.Count, err = c.u2(); err != nil {
		return nil, err
	}
	for i := 0; i < a.Count.Index(); i++ {
		v, err := readRef(c, pool)
		if err != nil {
			return nil, err
		}
		a.Classes = append(a.Classes, v)
	}
	return a, nil
}

func decodeInnerClasses(c *cursor, pool *ConstantPool) (AttributeBody, error) {
	a := &InnerClassesAttribute{}
	var err error
	if a.NumberOfClasses, err = c.u2(); err != nil {
		return nil, err
	}
	for i := 0; i < a.NumberOfClasses.Index(); i++ {
		var ic InnerClass
		if ic.InnerClassInfoIndex, err = readRef(c, pool); err != nil {
			return nil, err
		}
		for _, f := range []*Value{&ic.OuterClassInfoIndex, &ic.InnerNameIndex} {
			if *f, err = c.u2(); err != nil {
				return nil, err
			}
			if err = pool.refOptional(f, ""); err != nil {
				return nil, err
			}
		}
		if ic.InnerClassAccessFlags, err = c.u2(); err != nil {
			return nil, err
		}
		ic.InnerClassAccessFlags.Name = NestedClassAccessFlags.Describe(uint16(ic.InnerClassAccessFlags.Raw))
		a.Classes = append(a.Classes, ic)
	}
	return a, nil
}

func decodeBootstrapMethods(c *cursor, pool *ConstantPool) (AttributeBody, error) {
	a := &BootstrapMethodsAttribute{}
	var err error
	if a.NumBootstrapMethods, err = c.u2(); err != nil {
		return nil, err
	}
	for i := 0; i < a.NumBootstrapMethods.Index(); i++ {
		var m BootstrapMethod
		if m.BootstrapMethodRef, err = readRef(c, pool); err != nil {
			return nil, err
		}
		if m.NumArguments, err = c.u2(); err != nil {
			return nil, err
		}
		for j := 0; j < m.NumArguments.Index(); j++ {
			arg, err := readRef(c, pool)
			if err != nil {
				return nil, err
			}
			m.Arguments = append(m.Arguments, arg)
		}
		a.Methods = append(a.Methods, m)
	}
	return a, nil
}

func decodeLineNumberTable(c *cursor, _ *ConstantPool) (AttributeBody, error) {
	a := &LineNumberTableAttribute{}
	var err error
	if a.Length, err = c.u2(); err != nil {
		return nil, err
	}
	for i := 0; i < a.Length.Index(); i++ {
		var e LineNumber
		if e.StartPC, err = c.u2(); err != nil {
			return nil, err
		}
		if e.LineNumber, err = c.u2(); err != nil {
			return nil, err
		}
		a.Entries = append(a.Entries, e)
	}
	return a, nil
}

func decodeLocalVariableTable(c *cursor, pool *ConstantPool) (AttributeBody, error) {
	a := &LocalVariableTableAttribute{}
	var err error
	if a.Length, err = c.u2(); err != nil {
		return nil, err
	}
	for i := 0; i < a.Length.Index(); i++ {
		var e LocalVariable
		for _, f := range []*Value{&e.StartPC, &e.Length, &e.NameIndex, &e.DescriptorIndex, &e.Index} {
			if *f, err = c.u2(); err != nil {
				return nil, err
			}
		}
		if err = pool.refUtf8(&e.NameIndex); err != nil {
			return nil, err
		}
		if err = pool.refUtf8(&e.DescriptorIndex); err != nil {
			return nil, err
		}
		e.Index.Name = "@" + strconv.Itoa(e.Index.Index())
		a.Entries = append(a.Entries, e)
	}
	return a, nil
}

func decodeMarker(*cursor, *ConstantPool) (AttributeBody, error) {
	return &MarkerAttribute{}, nil
}

// readRef reads a u2 constant pool index and names it.
func readRef(c *cursor, pool *ConstantPool) (Value, error) {
	v, err := c.u2()
	if err != nil {
		return Value{}, err
	}
	if err := pool.ref(&v); err != nil {
		return Value{}, err
	}
	return v, nil
}
