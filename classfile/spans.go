package classfile

// Spans returns every value of the class file in stream order. Values of
// zero width are left out. For a well-formed file the spans cover the input
// exactly once, from offset 0 to its length.
func (cf *ClassFile) Spans() []Value {
	vals := []Value{cf.Magic, cf.MinorVersion, cf.MajorVersion, cf.ConstantPool.Count}
	for _, c := range cf.ConstantPool.Constants() {
		vals = append(vals, c.Values()...)
	}
	vals = append(vals, cf.AccessFlags, cf.ThisClass, cf.SuperClass, cf.InterfacesCount)
	vals = append(vals, cf.Interfaces...)
	vals = appendMemberValues(append(vals, cf.FieldsCount), cf.Fields)
	vals = appendMemberValues(append(vals, cf.MethodsCount), cf.Methods)
	vals = append(vals, cf.AttributesCount)
	vals = appendAttributeValues(vals, cf.Attributes)
	if cf.Trailing != nil {
		vals = append(vals, *cf.Trailing)
	}

	out := vals[:0]
	for _, v := range vals {
		if v.Width > 0 {
			out = append(out, v)
		}
	}
	return out
}

func appendMemberValues(dst []Value, members []Member) []Value {
	for i := range members {
		m := &members[i]
		dst = append(dst, m.AccessFlags, m.NameIndex, m.DescriptorIndex, m.AttributesCount)
		dst = appendAttributeValues(dst, m.Attributes)
	}
	return dst
}

// SpanAt returns the value covering offset, if any.
func (cf *ClassFile) SpanAt(offset int) (Value, bool) {
	spans := cf.Spans()
	lo, hi := 0, len(spans)
	for lo < hi {
		mid := (lo + hi) / 2
		switch v := spans[mid]; {
		case offset < v.Offset:
			hi = mid
		case offset >= v.End():
			lo = mid + 1
		default:
			return v, true
		}
	}
	return Value{}, false
}
