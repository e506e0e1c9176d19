package classfile

import (
	"fmt"
	"strings"
)

// Magic is the class file magic number.
const Magic uint64 = 0xCAFEBABE

// ConstantTag identifies the kind of a constant pool entry.
type ConstantTag uint8

// Constant pool tags as defined in JVMS §4.4.
const (
	TagUtf8               ConstantTag = 1
	TagInteger            ConstantTag = 3
	TagFloat              ConstantTag = 4
	TagLong               ConstantTag = 5
	TagDouble             ConstantTag = 6
	TagClass              ConstantTag = 7
	TagString             ConstantTag = 8
	TagFieldref           ConstantTag = 9
	TagMethodref          ConstantTag = 10
	TagInterfaceMethodref ConstantTag = 11
	TagNameAndType        ConstantTag = 12
	TagMethodHandle       ConstantTag = 15
	TagMethodType         ConstantTag = 16
	TagDynamic            ConstantTag = 17
	TagInvokeDynamic      ConstantTag = 18
	TagModule             ConstantTag = 19
	TagPackage            ConstantTag = 20
)

var constantTagNames = map[ConstantTag]string{
	TagUtf8:               "Utf8",
	TagInteger:            "Integer",
	TagFloat:              "Float",
	TagLong:               "Long",
	TagDouble:             "Double",
	TagClass:              "Class",
	TagString:             "String",
	TagFieldref:           "Fieldref",
	TagMethodref:          "Methodref",
	TagInterfaceMethodref: "InterfaceMethodref",
	TagNameAndType:        "NameAndType",
	TagMethodHandle:       "MethodHandle",
	TagMethodType:         "MethodType",
	TagDynamic:            "Dynamic",
	TagInvokeDynamic:      "InvokeDynamic",
	TagModule:             "Module",
	TagPackage:            "Package",
}

// Known reports whether t is one of the 17 defined tags.
func (t ConstantTag) Known() bool {
	_, ok := constantTagNames[t]
	return ok
}

// Wide reports whether entries of this kind occupy two pool slots.
func (t ConstantTag) Wide() bool {
	return t == TagLong || t == TagDouble
}

func (t ConstantTag) String() string {
	if name, ok := constantTagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// ReferenceKind is the reference_kind of a CONSTANT_MethodHandle.
type ReferenceKind uint8

const (
	RefGetField         ReferenceKind = 1
	RefGetStatic        ReferenceKind = 2
	RefPutField         ReferenceKind = 3
	RefPutStatic        ReferenceKind = 4
	RefInvokeVirtual    ReferenceKind = 5
	RefInvokeStatic     ReferenceKind = 6
	RefInvokeSpecial    ReferenceKind = 7
	RefNewInvokeSpecial ReferenceKind = 8
	RefInvokeInterface  ReferenceKind = 9
)

var referenceKindNames = [...]string{
	RefGetField:         "REF_getField",
	RefGetStatic:        "REF_getStatic",
	RefPutField:         "REF_putField",
	RefPutStatic:        "REF_putStatic",
	RefInvokeVirtual:    "REF_invokeVirtual",
	RefInvokeStatic:     "REF_invokeStatic",
	RefInvokeSpecial:    "REF_invokeSpecial",
	RefNewInvokeSpecial: "REF_newInvokeSpecial",
	RefInvokeInterface:  "REF_invokeInterface",
}

func (k ReferenceKind) String() string {
	if int(k) < len(referenceKindNames) && referenceKindNames[k] != "" {
		return referenceKindNames[k]
	}
	return fmt.Sprintf("REF_kind%d", uint8(k))
}

// AccessFlag is one named bit of an access_flags mask.
type AccessFlag struct {
	Name string
	Mask uint16
}

// FlagTable lists the flags valid in one context in JVMS declaration order.
type FlagTable []AccessFlag

// Describe returns the space-joined names of the flags set in mask, in table
// order. Bits the table does not define are ignored.
func (t FlagTable) Describe(mask uint16) string {
	var names []string
	for _, f := range t {
		if mask&f.Mask != 0 {
			names = append(names, f.Name)
		}
	}
	return strings.Join(names, " ")
}

// Access flag tables (JVMS §4.1, §4.5, §4.6, §4.7.6).
var (
	ClassAccessFlags = FlagTable{
		{"public", 0x0001},
		{"final", 0x0010},
		{"super", 0x0020},
		{"interface", 0x0200},
		{"abstract", 0x0400},
		{"synthetic", 0x1000},
		{"annotation", 0x2000},
		{"enum", 0x4000},
		{"module", 0x8000},
	}

	FieldAccessFlags = FlagTable{
		{"public", 0x0001},
		{"private", 0x0002},
		{"protected", 0x0004},
		{"static", 0x0008},
		{"final", 0x0010},
		{"volatile", 0x0040},
		{"transient", 0x0080},
		{"synthetic", 0x1000},
		{"enum", 0x4000},
	}

	MethodAccessFlags = FlagTable{
		{"public", 0x0001},
		{"private", 0x0002},
		{"protected", 0x0004},
		{"static", 0x0008},
		{"final", 0x0010},
		{"synchronized", 0x0020},
		{"bridge", 0x0040},
		{"varargs", 0x0080},
		{"native", 0x0100},
		{"abstract", 0x0400},
		{"strict", 0x0800},
		{"synthetic", 0x1000},
	}

	NestedClassAccessFlags = FlagTable{
		{"public", 0x0001},
		{"private", 0x0002},
		{"protected", 0x0004},
		{"static", 0x0008},
		{"final", 0x0010},
		{"interface", 0x0200},
		{"abstract", 0x0400},
		{"synthetic", 0x1000},
		{"annotation", 0x2000},
		{"enum", 0x4000},
	}
)

// Array type codes of the newarray instruction.
var newarrayTypes = map[uint64]string{
	4:  "boolean",
	5:  "char",
	6:  "float",
	7:  "double",
	8:  "byte",
	9:  "short",
	10: "int",
	11: "long",
}

// JavaRelease maps a class file major version to the Java SE release that
// introduced it, or "" when unknown.
func JavaRelease(major uint16) string {
	switch {
	case major >= 49 && major <= 80:
		return fmt.Sprintf("Java %d", major-44)
	case major == 48:
		return "Java 1.4"
	case major == 47:
		return "Java 1.3"
	case major == 46:
		return "Java 1.2"
	case major == 45:
		return "Java 1.1"
	}
	return ""
}
