// Package classview decodes and disassembles JVM class files.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	classview/
//	├── classfile/       Class file decoding, constant pool resolution, bytecode disassembly
//	│   └── internal/binary/  Big-endian byte cursor with offset tracking
//	├── descriptor/      Field and method descriptor parsing and formatting
//	├── listing/         javap-style text rendering with lipgloss styles
//	├── errors/          Structured error types for debugging
//	└── cmd/classview/   Command line inspector and interactive browser
//
// # Quick Start
//
// Decode a class and print its methods:
//
//	data, err := os.ReadFile("HelloWorld.class")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cf, err := classfile.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range cf.Methods {
//	    fmt.Println(m.Display())
//	}
//
// Every decoded field keeps its byte offset and width, so the tree can be
// laid over the raw input (see ClassFile.Spans and listing.Spans).
package classview
