package descriptor

import (
	"strings"

	"github.com/wippyai/classview/errors"
)

// Type is one parsed field type. Base holds the descriptor character of the
// element type: a primitive code, 'L' for class types or 'V' for void.
type Type struct {
	Class string // dotted class name when Base is 'L'
	Dims  int
	Base  byte
}

var baseNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// String renders the type as Java source text, e.g. "java.lang.String[]".
func (t Type) String() string {
	var b strings.Builder
	if t.Base == 'L' {
		b.WriteString(t.Class)
	} else {
		b.WriteString(baseNames[t.Base])
	}
	for i := 0; i < t.Dims; i++ {
		b.WriteString("[]")
	}
	return b.String()
}

// Void reports whether t is the void return type.
func (t Type) Void() bool {
	return t.Base == 'V'
}

// Method is a parsed method descriptor.
type Method struct {
	Params []Type
	Return Type
}

// ClassName converts an internal binary name to its dotted form.
func ClassName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

type parser struct {
	desc string
	pos  int
}

func (p *parser) fail(detail string) error {
	return errors.MalformedDescriptor(p.desc, p.pos, detail)
}

func (p *parser) fieldType(allowVoid bool) (Type, error) {
	var t Type
	for p.pos < len(p.desc) && p.desc[p.pos] == '[' {
		t.Dims++
		p.pos++
	}
	if p.pos >= len(p.desc) {
		return Type{}, p.fail("unexpected end of descriptor")
	}
	c := p.desc[p.pos]
	switch {
	case c == 'L':
		end := strings.IndexByte(p.desc[p.pos:], ';')
		if end < 0 {
			return Type{}, p.fail("unterminated class name")
		}
		if end == 1 {
			return Type{}, p.fail("empty class name")
		}
		t.Base = 'L'
		t.Class = ClassName(p.desc[p.pos+1 : p.pos+end])
		p.pos += end + 1
		return t, nil
	case c == 'V':
		if !allowVoid || t.Dims > 0 {
			return Type{}, p.fail("void is only valid as a return type")
		}
	case baseNames[c] == "":
		return Type{}, p.fail("unknown type code " + string(c))
	}
	t.Base = c
	p.pos++
	return t, nil
}

// ParseField parses a field descriptor such as "[Ljava/lang/Object;".
func ParseField(desc string) (Type, error) {
	p := &parser{desc: desc}
	t, err := p.fieldType(false)
	if err != nil {
		return Type{}, err
	}
	if p.pos != len(desc) {
		return Type{}, p.fail("trailing characters")
	}
	return t, nil
}

// ParseMethod parses a method descriptor such as "(IJ)V".
func ParseMethod(desc string) (Method, error) {
	p := &parser{desc: desc}
	if len(desc) == 0 || desc[0] != '(' {
		return Method{}, p.fail("method descriptor must start with '('")
	}
	p.pos++
	var m Method
	for {
		if p.pos >= len(desc) {
			return Method{}, p.fail("unterminated parameter list")
		}
		if desc[p.pos] == ')' {
			p.pos++
			break
		}
		t, err := p.fieldType(false)
		if err != nil {
			return Method{}, err
		}
		m.Params = append(m.Params, t)
	}
	ret, err := p.fieldType(true)
	if err != nil {
		return Method{}, err
	}
	if p.pos != len(desc) {
		return Method{}, p.fail("trailing characters")
	}
	m.Return = ret
	return m, nil
}

// Format renders desc with name placed where Java source puts it. Method
// descriptors become "ret name(params)", field descriptors "type name". An
// empty name leaves a field type on its own.
func Format(desc, name string) (string, error) {
	if strings.HasPrefix(desc, "(") {
		m, err := ParseMethod(desc)
		if err != nil {
			return "", err
		}
		params := make([]string, len(m.Params))
		for i, t := range m.Params {
			params[i] = t.String()
		}
		return m.Return.String() + " " + name + "(" + strings.Join(params, ", ") + ")", nil
	}
	t, err := ParseField(desc)
	if err != nil {
		return "", err
	}
	if name == "" {
		return t.String(), nil
	}
	return t.String() + " " + name, nil
}
