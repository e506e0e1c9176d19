package classfile_test

import "encoding/binary"

// asm assembles class file bytes for tests.
type asm struct {
	b []byte
}

func (a *asm) u1(v ...byte) *asm {
	a.b = append(a.b, v...)
	return a
}

func (a *asm) u2(v int) *asm {
	a.b = binary.BigEndian.AppendUint16(a.b, uint16(v))
	return a
}

func (a *asm) u4(v int64) *asm {
	a.b = binary.BigEndian.AppendUint32(a.b, uint32(v))
	return a
}

func (a *asm) u8(v uint64) *asm {
	a.b = binary.BigEndian.AppendUint64(a.b, v)
	return a
}

func (a *asm) raw(b []byte) *asm {
	a.b = append(a.b, b...)
	return a
}

// utf8 appends a CONSTANT_Utf8 entry holding ASCII text.
func (a *asm) utf8(s string) *asm {
	a.u1(1).u2(len(s))
	a.b = append(a.b, s...)
	return a
}

func (a *asm) bytes() []byte {
	return a.b
}

// Pool indices of the helloWorld fixture.
const (
	hwThisName   = 1
	hwThisClass  = 2
	hwSuperName  = 3
	hwSuperClass = 4
	hwMain       = 5
	hwMainDesc   = 6
	hwCode       = 7
	hwField      = 8
	hwFieldDesc  = 9
	hwNameType   = 10
	hwFieldref   = 11
	hwLong       = 12 // and 13
	hwSourceAttr = 14
	hwSourceName = 15
	hwString     = 16
	hwPoolCount  = 17
)

// helloWorldCode is the bytecode of main in the helloWorld fixture.
//
//	 0: getstatic #11
//	 3: ifeq 72
//	 6: iinc @0, 1
//	 9: wide iinc @300, -2
//	15: ldc2_w #12
//	18: pop2
//	19: nop
//	20: tableswitch 0..1 default 72 (3 bytes padding)
//	44: lookupswitch 2 pairs default 72 (3 bytes padding)
//	72: return
func helloWorldCode() []byte {
	a := &asm{}
	a.u1(0xb2).u2(hwFieldref)
	a.u1(0x99).u2(69)
	a.u1(0x84, 0, 1)
	a.u1(0xc4, 0x84).u2(300).u2(-2)
	a.u1(0x14).u2(hwLong)
	a.u1(0x58)
	a.u1(0x00)
	a.u1(0xaa, 0, 0, 0).u4(52).u4(0).u4(1).u4(-14).u4(52)
	a.u1(0xab, 0, 0, 0).u4(28).u4(2).u4(-1).u4(-25).u4(100).u4(28)
	a.u1(0xb1)
	return a.bytes()
}

// helloWorld assembles a class with one field, one method carrying a Code
// attribute and a SourceFile attribute.
func helloWorld() []byte {
	code := helloWorldCode()

	a := &asm{}
	a.u4(0xCAFEBABE).u2(0).u2(52)
	a.u2(hwPoolCount)
	a.utf8("HelloWorld")
	a.u1(7).u2(hwThisName)
	a.utf8("java/lang/Object")
	a.u1(7).u2(hwSuperName)
	a.utf8("main")
	a.utf8("([Ljava/lang/String;)V")
	a.utf8("Code")
	a.utf8("field")
	a.utf8("I")
	a.u1(12).u2(hwField).u2(hwFieldDesc)
	a.u1(9).u2(hwThisClass).u2(hwNameType)
	a.u1(5).u8(1 << 40)
	a.utf8("SourceFile")
	a.utf8("HelloWorld.java")
	a.u1(8).u2(hwSourceName)

	a.u2(0x0021).u2(hwThisClass).u2(hwSuperClass)
	a.u2(0) // interfaces

	a.u2(1) // fields
	a.u2(0x0002).u2(hwField).u2(hwFieldDesc).u2(0)

	a.u2(1) // methods
	a.u2(0x0009).u2(hwMain).u2(hwMainDesc).u2(1)
	a.u2(hwCode).u4(int64(2 + 2 + 4 + len(code) + 2 + 8 + 2))
	a.u2(2).u2(1).u4(int64(len(code))).raw(code)
	a.u2(1).u2(0).u2(19).u2(72).u2(0)
	a.u2(0)

	a.u2(1) // attributes
	a.u2(hwSourceAttr).u4(2).u2(hwSourceName)
	return a.bytes()
}
