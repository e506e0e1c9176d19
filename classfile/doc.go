// Package classfile decodes JVM class files into a fully resolved tree.
//
// Decode reads the whole file in one pass: header, constant pool, class
// references, fields, methods and attributes. Method bodies are
// disassembled into instructions as part of the Code attribute.
//
// # Values
//
// Every field read from the input is a Value that records its absolute
// offset and width alongside the raw bits, the numeric value and a resolved
// display name. Constant pool indices carry the display name of the entry
// they point at, so consumers never look indices up themselves:
//
//	cf, err := classfile.Decode(data)
//	if err != nil {
//	    return err
//	}
//	for _, m := range cf.Methods {
//	    fmt.Println(m.Display())
//	}
//
// Spans lists the values in stream order. For well-formed input they cover
// the buffer exactly, which makes byte-level views straightforward.
//
// # Constant Pool
//
// Pool indices are 1-based. Long and Double entries take two slots; the
// second slot is nil in ConstantPool.Entries and any reference to it fails
// with a dangling reference error. Names are resolved in a second pass once
// every entry has been read, since entries may refer forward.
//
// # Bytecode
//
// Branch operands hold absolute targets measured from the start of the
// code array, so CodeAttribute.InstructionAt resolves them directly.
// Switch padding and the reserved bytes of invokeinterface and
// invokedynamic are kept in Instruction.Hidden.
//
// # Errors
//
// Failures are *errors.Error values with a path locating the failing
// element, e.g. methods[1].m.attributes[0].Code.code@12.
package classfile
