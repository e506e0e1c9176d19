package listing

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/classview/classfile"
)

const indent = "  "

// Class renders the whole class: summary, constant pool, fields, methods and
// class attributes.
func Class(cf *classfile.ClassFile, st Styles) string {
	var b strings.Builder
	b.WriteString(Summary(cf, st))
	b.WriteString("\n")
	b.WriteString(ConstantPool(cf.ConstantPool, "", st))
	b.WriteString("\n")
	b.WriteString(Members("Fields", cf.Fields, st))
	b.WriteString("\n")
	b.WriteString(Members("Methods", cf.Methods, st))
	if len(cf.Attributes) > 0 {
		b.WriteString("\n")
		b.WriteString(st.Section.Render("Attributes:"))
		b.WriteString("\n")
		b.WriteString(Attributes(cf.Attributes, indent, st))
	}
	return b.String()
}

// Summary renders the class header.
func Summary(cf *classfile.ClassFile, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(cf.Name()))
	if cf.HasSuperClass() {
		b.WriteString(" extends ")
		b.WriteString(st.Name.Render(cf.SuperName()))
	}
	b.WriteString("\n")

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s%-14s %s\n", indent, label+":", value)
	}
	if !cf.ValidMagic() {
		field("magic", st.Warning.Render(cf.Magic.Str+" (expected 0xCAFEBABE)"))
	}
	field("version", cf.Version())
	field("flags", st.Flags.Render(fmt.Sprintf("(0x%04x) %s", cf.AccessFlags.Raw, cf.AccessFlags.Name)))
	if sf := cf.SourceFile(); sf != "" {
		field("source", sf)
	}
	if len(cf.Interfaces) > 0 {
		names := make([]string, len(cf.Interfaces))
		for i, v := range cf.Interfaces {
			names[i] = st.Name.Render(v.Name)
		}
		field("interfaces", strings.Join(names, ", "))
	}
	field("constants", strconv.Itoa(len(cf.ConstantPool.Constants())))
	field("fields", strconv.Itoa(len(cf.Fields)))
	field("methods", strconv.Itoa(len(cf.Methods)))
	if cf.Trailing != nil {
		field("trailing", st.Warning.Render(fmt.Sprintf("%d bytes at offset %d", cf.Trailing.Width, cf.Trailing.Offset)))
	}
	return b.String()
}

// ConstantPool renders the pool, one entry per line. A non-empty filter
// keeps entries whose tag or name contains it, ignoring case, or the entry
// whose "#index" equals it.
func ConstantPool(pool *classfile.ConstantPool, filter string, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Section.Render("Constant pool:"))
	b.WriteString("\n")
	for _, c := range pool.Constants() {
		if !MatchConstant(c, filter) {
			continue
		}
		b.WriteString(ConstantLine(c, st))
		b.WriteString("\n")
	}
	return b.String()
}

// MatchConstant reports whether c passes a ConstantPool filter.
func MatchConstant(c *classfile.Constant, filter string) bool {
	if filter == "" {
		return true
	}
	if strings.HasPrefix(filter, "#") {
		return filter == "#"+strconv.Itoa(c.Index)
	}
	f := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(c.Name), f) ||
		strings.Contains(strings.ToLower(c.Tag.Name), f)
}

// ConstantLine renders one pool entry as "#index = Tag refs // name".
func ConstantLine(c *classfile.Constant, st Styles) string {
	idx := st.Index.Render(fmt.Sprintf("%6s", "#"+strconv.Itoa(c.Index)))
	tag := st.Tag.Render(fmt.Sprintf("%-18s", c.Tag.Name))
	refs := c.Refs()
	if len(refs) == 0 {
		return fmt.Sprintf("%s = %s %s", idx, tag, st.Name.Render(c.Name))
	}
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = "#" + strconv.Itoa(r.Index())
	}
	return fmt.Sprintf("%s = %s %-14s %s", idx, tag, strings.Join(parts, "."),
		st.Comment.Render("// "+c.Name))
}

// Members renders a titled list of fields or methods with their attributes.
func Members(title string, members []classfile.Member, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Section.Render(title + ":"))
	b.WriteString("\n")
	for i := range members {
		b.WriteString(Member(&members[i], st))
		b.WriteString("\n")
	}
	return b.String()
}

// Member renders one field or method and its attributes.
func Member(m *classfile.Member, st Styles) string {
	var b strings.Builder
	b.WriteString(indent)
	if m.AccessFlags.Name != "" {
		b.WriteString(st.Flags.Render(m.AccessFlags.Name))
		b.WriteString(" ")
	}
	b.WriteString(st.Name.Render(m.Signature))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s%sdescriptor: %s\n", indent, indent, m.Descriptor())
	b.WriteString(Attributes(m.Attributes, indent+indent, st))
	return b.String()
}

// Attributes renders attributes at the given indentation.
func Attributes(attrs []classfile.Attribute, pad string, st Styles) string {
	var b strings.Builder
	for i := range attrs {
		a := &attrs[i]
		b.WriteString(pad)
		b.WriteString(st.Section.Render(a.Name() + ":"))
		switch body := a.Body.(type) {
		case *classfile.CodeAttribute:
			b.WriteString("\n")
			b.WriteString(Code(body, pad+indent, st))
		case *classfile.ConstantValueAttribute:
			b.WriteString(" " + st.Name.Render(body.ConstantValueIndex.Name) + "\n")
		case *classfile.SourceFileAttribute:
			b.WriteString(" " + st.Name.Render(body.SourceFileIndex.Name) + "\n")
		case *classfile.SignatureAttribute:
			b.WriteString(" " + st.Name.Render(body.SignatureIndex.Name) + "\n")
		case *classfile.NestHostAttribute:
			b.WriteString(" " + st.Name.Render(body.HostClassIndex.Name) + "\n")
		case *classfile.ClassListAttribute:
			b.WriteString("\n")
			for _, c := range body.Classes {
				b.WriteString(pad + indent + st.Name.Render(c.Name) + "\n")
			}
		case *classfile.InnerClassesAttribute:
			b.WriteString("\n")
			for _, c := range body.Classes {
				line := c.InnerClassInfoIndex.Name
				if c.OuterClassInfoIndex.Name != "" {
					line += " of " + c.OuterClassInfoIndex.Name
				}
				if c.InnerNameIndex.Name != "" {
					line += " as " + c.InnerNameIndex.Name
				}
				b.WriteString(pad + indent)
				if c.InnerClassAccessFlags.Name != "" {
					b.WriteString(st.Flags.Render(c.InnerClassAccessFlags.Name) + " ")
				}
				b.WriteString(st.Name.Render(line) + "\n")
			}
		case *classfile.BootstrapMethodsAttribute:
			b.WriteString("\n")
			for j, m := range body.Methods {
				fmt.Fprintf(&b, "%s%s%s: %s\n", pad, indent, st.Index.Render(strconv.Itoa(j)),
					st.Name.Render(m.BootstrapMethodRef.Name))
				for _, arg := range m.Arguments {
					fmt.Fprintf(&b, "%s%s%s%s\n", pad, indent, indent, st.Comment.Render(arg.Name))
				}
			}
		case *classfile.LineNumberTableAttribute:
			b.WriteString("\n")
			for _, e := range body.Entries {
				fmt.Fprintf(&b, "%s%sline %d: %d\n", pad, indent, e.LineNumber.Num, e.StartPC.Num)
			}
		case *classfile.LocalVariableTableAttribute:
			b.WriteString("\n")
			for _, e := range body.Entries {
				fmt.Fprintf(&b, "%s%s%s %5d %5d %s %s\n", pad, indent, st.Index.Render(fmt.Sprintf("%4s", e.Index.Name)),
					e.StartPC.Num, e.Length.Num, st.Name.Render(e.NameIndex.Name), e.DescriptorIndex.Name)
			}
		case *classfile.MarkerAttribute:
			b.WriteString("\n")
		case *classfile.RawAttribute:
			b.WriteString(" " + st.Comment.Render(fmt.Sprintf("%d bytes", body.Info.Width)) + "\n")
		}
	}
	return b.String()
}

// Code renders a method body: header, instructions and exception table.
func Code(code *classfile.CodeAttribute, pad string, st Styles) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sstack=%d, locals=%d, code_length=%d\n", pad,
		code.MaxStack.Num, code.MaxLocals.Num, code.CodeLength.Num)
	for i := range code.Instructions {
		b.WriteString(Instruction(&code.Instructions[i], pad, st))
	}
	if len(code.ExceptionTable) > 0 {
		fmt.Fprintf(&b, "%s%s\n", pad, st.Section.Render("Exception table:"))
		fmt.Fprintf(&b, "%s%s from    to target type\n", pad, indent)
		for _, h := range code.ExceptionTable {
			fmt.Fprintf(&b, "%s%s%5d %5d %6d %s\n", pad, indent,
				h.StartPC.Num, h.EndPC.Num, h.HandlerPC.Num, st.Name.Render(h.CatchType.Name))
		}
	}
	if len(code.Attributes) > 0 {
		b.WriteString(Attributes(code.Attributes, pad, st))
	}
	return b.String()
}

// Instruction renders one instruction; switches span several lines.
func Instruction(in *classfile.Instruction, pad string, st Styles) string {
	var b strings.Builder
	pc := st.Index.Render(fmt.Sprintf("%5d:", in.PC))
	mnemonic := st.Mnemonic.Render(in.Mnemonic())
	if in.Switch != nil {
		fmt.Fprintf(&b, "%s%s %s {", pad, pc, mnemonic)
		if in.Switch.Low != nil {
			b.WriteString(st.Comment.Render(fmt.Sprintf(" // %d to %d", in.Switch.Low.Num, in.Switch.High.Num)))
		} else {
			b.WriteString(st.Comment.Render(fmt.Sprintf(" // %d", in.Switch.NPairs.Num)))
		}
		b.WriteString("\n")
		for _, c := range in.Switch.Cases {
			fmt.Fprintf(&b, "%s%12d: %s\n", pad, c.Key, st.Offset.Render(c.Target.Name))
		}
		fmt.Fprintf(&b, "%s%12s: %s\n", pad, "default", st.Offset.Render(in.Switch.Default.Name))
		fmt.Fprintf(&b, "%s%7s}\n", pad, "")
		return b.String()
	}

	var args, comments []string
	for _, op := range in.Operands {
		switch op.Kind {
		case classfile.OperandConst1, classfile.OperandConst2:
			args = append(args, "#"+strconv.Itoa(op.Index()))
			comments = append(comments, op.Name)
		case classfile.OperandBranch2, classfile.OperandBranch4:
			args = append(args, st.Offset.Render(op.Name))
		case classfile.OperandOpcode:
			args = append(args, st.Mnemonic.Render(op.Name))
		default:
			args = append(args, op.Name)
		}
	}
	fmt.Fprintf(&b, "%s%s %s", pad, pc, mnemonic)
	if len(args) > 0 {
		b.WriteString(" " + strings.Join(args, ", "))
	}
	if len(comments) > 0 {
		b.WriteString(" " + st.Comment.Render("// "+strings.Join(comments, ", ")))
	}
	b.WriteString("\n")
	return b.String()
}

// maxHexBytes caps the bytes shown per span in a byte map.
const maxHexBytes = 8

// Spans renders a byte map: offset, width, leading bytes and label of
// every decoded value.
func Spans(cf *classfile.ClassFile, data []byte, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Section.Render("Byte map:"))
	b.WriteString("\n")
	for _, v := range cf.Spans() {
		end := v.End()
		if end > len(data) {
			end = len(data)
		}
		raw := data[v.Offset:end]
		more := ""
		if len(raw) > maxHexBytes {
			raw, more = raw[:maxHexBytes], ".."
		}
		fmt.Fprintf(&b, "%s %4d  %-18s %s\n",
			st.Offset.Render(fmt.Sprintf("%08x", v.Offset)),
			v.Width,
			hex.EncodeToString(raw)+more,
			SpanLabel(v))
	}
	return b.String()
}

// SpanLabel describes a value for the byte map.
func SpanLabel(v classfile.Value) string {
	switch {
	case v.Kind == classfile.OperandPadding:
		return "padding"
	case v.Kind == classfile.OperandReserved:
		return "reserved"
	case v.Name != "":
		return v.Name
	case v.Str != "":
		return v.Str
	case v.Width > 8:
		return fmt.Sprintf("%d bytes", v.Width)
	}
	return strconv.FormatInt(v.Num, 10)
}
