package classfile

import (
	"math"
	"strconv"
	"testing"

	"github.com/wippyai/classview/errors"
)

func utf8Entry(s string) []byte {
	return append([]byte{1, 0, byte(len(s))}, s...)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// allTagsPool holds one entry of every tag, with forward references.
var allTagsPool = concat(
	[]byte{0, 25},
	utf8Entry("HelloWorld"),           // 1
	[]byte{3, 12, 34, 56, 78},         // 2 Integer
	[]byte{4, 1, 1, 1, 1},             // 3 Float
	[]byte{5, 1, 1, 1, 1, 1, 1, 1, 1}, // 4 Long
	[]byte{6, 1, 1, 1, 1, 1, 1, 1, 1}, // 6 Double
	[]byte{7, 0, 1},                   // 8 Class
	[]byte{8, 0, 1},                   // 9 String
	[]byte{9, 0, 8, 0, 13},            // 10 Fieldref
	[]byte{10, 0, 8, 0, 22},           // 11 Methodref
	[]byte{11, 0, 8, 0, 22},           // 12 InterfaceMethodref
	[]byte{12, 0, 20, 0, 21},          // 13 NameAndType
	[]byte{15, 1, 0, 10},              // 14 MethodHandle
	[]byte{16, 0, 24},                 // 15 MethodType
	[]byte{17, 0, 0, 0, 13},           // 16 Dynamic
	[]byte{18, 0, 1, 0, 22},           // 17 InvokeDynamic
	[]byte{19, 0, 1},                  // 18 Module
	[]byte{20, 0, 1},                  // 19 Package
	utf8Entry("field"),                // 20
	utf8Entry("I"),                    // 21
	[]byte{12, 0, 23, 0, 24},          // 22 NameAndType
	utf8Entry("method"),               // 23
	utf8Entry("(LHelloWorld;)V"),      // 24
)

func TestConstantPoolAllTags(t *testing.T) {
	pool, err := decodeConstantPool(newCursor(allTagsPool))
	if err != nil {
		t.Fatalf("decodeConstantPool: %v", err)
	}
	if pool.Count.Num != 25 || pool.Count.Offset != 0 || pool.Count.Width != 2 {
		t.Errorf("count = %+v", pool.Count)
	}

	floatName := strconv.FormatFloat(float64(math.Float32frombits(0x01010101)), 'g', -1, 32)
	doubleName := strconv.FormatFloat(math.Float64frombits(0x0101010101010101), 'g', -1, 64)

	tests := []struct {
		index  int
		tag    string
		offset int
		name   string
	}{
		{1, "Utf8", 2, "HelloWorld"},
		{2, "Integer", 15, "203569230"},
		{3, "Float", 20, floatName},
		{4, "Long", 25, "72340172838076673"},
		{6, "Double", 34, doubleName},
		{8, "Class", 43, "HelloWorld"},
		{9, "String", 46, "HelloWorld"},
		{10, "Fieldref", 49, "int HelloWorld.field"},
		{11, "Methodref", 54, "void HelloWorld.method(HelloWorld)"},
		{12, "InterfaceMethodref", 59, "void HelloWorld.method(HelloWorld)"},
		{13, "NameAndType", 64, "int field"},
		{14, "MethodHandle", 69, "REF_getField int HelloWorld.field"},
		{15, "MethodType", 73, "void (HelloWorld)"},
		{16, "Dynamic", 76, "bootstrap_0: int field"},
		{17, "InvokeDynamic", 81, "bootstrap_1: void method(HelloWorld)"},
		{18, "Module", 86, "HelloWorld"},
		{19, "Package", 89, "HelloWorld"},
		{20, "Utf8", 92, "field"},
		{21, "Utf8", 100, "I"},
		{22, "NameAndType", 104, "void method(HelloWorld)"},
		{23, "Utf8", 109, "method"},
		{24, "Utf8", 118, "(LHelloWorld;)V"},
	}
	for _, tt := range tests {
		c, err := pool.Get(tt.index)
		if err != nil {
			t.Errorf("Get(%d): %v", tt.index, err)
			continue
		}
		if c.Index != tt.index || c.Tag.Name != tt.tag || c.Tag.Offset != tt.offset {
			t.Errorf("#%d = %d %q at %d, want %q at %d", tt.index, c.Index, c.Tag.Name, c.Tag.Offset, tt.tag, tt.offset)
		}
		if c.Name != tt.name {
			t.Errorf("#%d name = %q, want %q", tt.index, c.Name, tt.name)
		}
	}

	for _, hole := range []int{5, 7} {
		if pool.Entries[hole] != nil {
			t.Errorf("slot %d should be empty", hole)
		}
	}

	long := pool.Entries[4].Info.(*ConstantLong)
	if long.Bytes.Num != 72340172838076673 || long.Bytes.Width != 8 {
		t.Errorf("long = %+v", long.Bytes)
	}
	integer := pool.Entries[2].Info.(*ConstantInteger)
	if integer.Bytes.Num != 203569230 {
		t.Errorf("integer = %d", integer.Bytes.Num)
	}
	mh := pool.Entries[14].Info.(*ConstantMethodHandle)
	if mh.ReferenceKind.Name != "REF_getField" || mh.ReferenceIndex.Name != "int HelloWorld.field" {
		t.Errorf("method handle = %+v", mh)
	}
	ref := pool.Entries[10].Info.(*ConstantFieldref)
	if ref.ClassIndex.Name != "HelloWorld" || ref.NameAndTypeIndex.Name != "int field" {
		t.Errorf("fieldref indices = %q %q", ref.ClassIndex.Name, ref.NameAndTypeIndex.Name)
	}
	dyn := pool.Entries[17].Info.(*ConstantInvokeDynamic)
	if dyn.BootstrapMethodAttrIndex.Name != "" {
		t.Errorf("bootstrap attr index should not be resolved against the pool: %q", dyn.BootstrapMethodAttrIndex.Name)
	}
}

func TestConstantPoolClassNamesEarlierEntry(t *testing.T) {
	data := concat(
		[]byte{0, 4},
		utf8Entry("HelloWorld"),
		[]byte{3, 0x0C, 0x22, 0x38, 0x4E},
		[]byte{7, 0, 1},
	)
	pool, err := decodeConstantPool(newCursor(data))
	if err != nil {
		t.Fatal(err)
	}
	if got := pool.Name(3); got != "HelloWorld" {
		t.Errorf("Name(3) = %q", got)
	}
	if got := pool.Name(2); got != "203569230" {
		t.Errorf("Name(2) = %q", got)
	}
	if got := pool.Name(4); got != "" {
		t.Errorf("Name(4) = %q", got)
	}
}

func TestConstantPoolSignedValues(t *testing.T) {
	data := concat(
		[]byte{0, 4},
		[]byte{3, 0xff, 0xff, 0xff, 0xfe},
		[]byte{5, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	)
	pool, err := decodeConstantPool(newCursor(data))
	if err != nil {
		t.Fatal(err)
	}
	if got := pool.Name(1); got != "-2" {
		t.Errorf("integer = %q", got)
	}
	if got := pool.Name(2); got != "-1" {
		t.Errorf("long = %q", got)
	}
}

func TestConstantPoolErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"unknown tag", []byte{0, 2, 2}, errors.ErrUnknownConstantTag},
		{"truncated entry", []byte{0, 2, 7, 0}, errors.ErrUnexpectedEOF},
		{"index out of range", []byte{0, 2, 8, 0, 9}, errors.ErrDanglingReference},
		{"index zero", []byte{0, 2, 7, 0, 0}, errors.ErrDanglingReference},
		{"index into hole", concat([]byte{0, 4, 8, 0, 3}, []byte{6, 0, 0, 0, 0, 0, 0, 0, 0}), errors.ErrDanglingReference},
		{"class names non-utf8", []byte{0, 3, 7, 0, 2, 3, 0, 0, 0, 0}, errors.ErrInvalidData},
		{"self reference", []byte{0, 2, 15, 1, 0, 1}, errors.ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeConstantPool(newCursor(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConstantPoolSpans(t *testing.T) {
	pool, err := decodeConstantPool(newCursor(allTagsPool))
	if err != nil {
		t.Fatal(err)
	}
	next := pool.Count.End()
	for _, c := range pool.Constants() {
		for _, v := range c.Values() {
			if v.Width == 0 {
				continue
			}
			if v.Offset != next {
				t.Fatalf("#%d value at %d, want %d", c.Index, v.Offset, next)
			}
			next = v.End()
		}
	}
	if next != len(allTagsPool) {
		t.Errorf("entries end at %d, want %d", next, len(allTagsPool))
	}
}
