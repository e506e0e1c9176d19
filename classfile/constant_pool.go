package classfile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/wippyai/classview/descriptor"
	"github.com/wippyai/classview/errors"
	"go.uber.org/zap"
)

// ConstantInfo is the tag-specific payload of a constant pool entry. The
// concrete types are the Constant* structs in this file.
type ConstantInfo interface {
	Tag() ConstantTag
	// values lists the payload fields in stream order.
	values() []*Value
	// indices lists the payload fields that are constant pool indices.
	indices() []*Value
}

// ConstantUtf8 holds modified UTF-8 text; Bytes.Str is the decoded string.
type ConstantUtf8 struct {
	Length Value
	Bytes  Value
}

// ConstantInteger holds a 32-bit int; Bytes.Num is sign-extended.
type ConstantInteger struct{ Bytes Value }

// ConstantFloat holds an IEEE 754 single in Bytes.Raw.
type ConstantFloat struct{ Bytes Value }

// ConstantLong holds a 64-bit long read as one 8-byte value.
type ConstantLong struct{ Bytes Value }

// ConstantDouble holds an IEEE 754 double in Bytes.Raw.
type ConstantDouble struct{ Bytes Value }

// ConstantClass names a class or interface through a Utf8 entry.
type ConstantClass struct{ NameIndex Value }

// ConstantString is a java.lang.String literal backed by a Utf8 entry.
type ConstantString struct{ StringIndex Value }

// MemberRef is the shared layout of field and method references.
type MemberRef struct {
	ClassIndex       Value
	NameAndTypeIndex Value
}

// ConstantFieldref references a field.
type ConstantFieldref struct{ MemberRef }

// ConstantMethodref references a class method.
type ConstantMethodref struct{ MemberRef }

// ConstantInterfaceMethodref references an interface method.
type ConstantInterfaceMethodref struct{ MemberRef }

// ConstantNameAndType pairs a member name with its descriptor.
type ConstantNameAndType struct {
	NameIndex       Value
	DescriptorIndex Value
}

// ConstantMethodHandle pairs a reference kind with a field or method ref.
type ConstantMethodHandle struct {
	ReferenceKind  Value
	ReferenceIndex Value
}

// ConstantMethodType holds a method descriptor.
type ConstantMethodType struct{ DescriptorIndex Value }

// BootstrapRef is the shared layout of dynamically computed constants and
// call sites. BootstrapMethodAttrIndex points into the BootstrapMethods
// attribute, not into the pool.
type BootstrapRef struct {
	BootstrapMethodAttrIndex Value
	NameAndTypeIndex         Value
}

// ConstantDynamic is a dynamically computed constant.
type ConstantDynamic struct{ BootstrapRef }

// ConstantInvokeDynamic is an invokedynamic call site.
type ConstantInvokeDynamic struct{ BootstrapRef }

// ConstantModule names a module.
type ConstantModule struct{ NameIndex Value }

// ConstantPackage names a package exported or opened by a module.
type ConstantPackage struct{ NameIndex Value }

func (*ConstantUtf8) Tag() ConstantTag               { return TagUtf8 }
func (*ConstantInteger) Tag() ConstantTag            { return TagInteger }
func (*ConstantFloat) Tag() ConstantTag              { return TagFloat }
func (*ConstantLong) Tag() ConstantTag               { return TagLong }
func (*ConstantDouble) Tag() ConstantTag             { return TagDouble }
func (*ConstantClass) Tag() ConstantTag              { return TagClass }
func (*ConstantString) Tag() ConstantTag             { return TagString }
func (*ConstantFieldref) Tag() ConstantTag           { return TagFieldref }
func (*ConstantMethodref) Tag() ConstantTag          { return TagMethodref }
func (*ConstantInterfaceMethodref) Tag() ConstantTag { return TagInterfaceMethodref }
func (*ConstantNameAndType) Tag() ConstantTag        { return TagNameAndType }
func (*ConstantMethodHandle) Tag() ConstantTag       { return TagMethodHandle }
func (*ConstantMethodType) Tag() ConstantTag         { return TagMethodType }
func (*ConstantDynamic) Tag() ConstantTag            { return TagDynamic }
func (*ConstantInvokeDynamic) Tag() ConstantTag      { return TagInvokeDynamic }
func (*ConstantModule) Tag() ConstantTag             { return TagModule }
func (*ConstantPackage) Tag() ConstantTag            { return TagPackage }

func (c *ConstantUtf8) values() []*Value    { return []*Value{&c.Length, &c.Bytes} }
func (c *ConstantInteger) values() []*Value { return []*Value{&c.Bytes} }
func (c *ConstantFloat) values() []*Value   { return []*Value{&c.Bytes} }
func (c *ConstantLong) values() []*Value    { return []*Value{&c.Bytes} }
func (c *ConstantDouble) values() []*Value  { return []*Value{&c.Bytes} }
func (c *ConstantClass) values() []*Value   { return []*Value{&c.NameIndex} }
func (c *ConstantString) values() []*Value  { return []*Value{&c.StringIndex} }
func (c *MemberRef) values() []*Value       { return []*Value{&c.ClassIndex, &c.NameAndTypeIndex} }
func (c *ConstantNameAndType) values() []*Value {
	return []*Value{&c.NameIndex, &c.DescriptorIndex}
}
func (c *ConstantMethodHandle) values() []*Value {
	return []*Value{&c.ReferenceKind, &c.ReferenceIndex}
}
func (c *ConstantMethodType) values() []*Value { return []*Value{&c.DescriptorIndex} }
func (c *BootstrapRef) values() []*Value {
	return []*Value{&c.BootstrapMethodAttrIndex, &c.NameAndTypeIndex}
}
func (c *ConstantModule) values() []*Value  { return []*Value{&c.NameIndex} }
func (c *ConstantPackage) values() []*Value { return []*Value{&c.NameIndex} }

func (*ConstantUtf8) indices() []*Value          { return nil }
func (*ConstantInteger) indices() []*Value       { return nil }
func (*ConstantFloat) indices() []*Value         { return nil }
func (*ConstantLong) indices() []*Value          { return nil }
func (*ConstantDouble) indices() []*Value        { return nil }
func (c *ConstantClass) indices() []*Value       { return c.values() }
func (c *ConstantString) indices() []*Value      { return c.values() }
func (c *MemberRef) indices() []*Value           { return c.values() }
func (c *ConstantNameAndType) indices() []*Value { return c.values() }
func (c *ConstantMethodHandle) indices() []*Value {
	return []*Value{&c.ReferenceIndex}
}
func (c *ConstantMethodType) indices() []*Value { return c.values() }
func (c *BootstrapRef) indices() []*Value       { return []*Value{&c.NameAndTypeIndex} }
func (c *ConstantModule) indices() []*Value     { return c.values() }
func (c *ConstantPackage) indices() []*Value    { return c.values() }

// Constant is one constant pool entry.
type Constant struct {
	Info  ConstantInfo
	Name  string // resolved display name
	Tag   Value
	Index int
}

// Values returns the tag followed by the payload fields.
func (c *Constant) Values() []Value {
	vals := []Value{c.Tag}
	for _, v := range c.Info.values() {
		vals = append(vals, *v)
	}
	return vals
}

// Refs returns the payload fields that index other pool entries.
func (c *Constant) Refs() []Value {
	var refs []Value
	for _, v := range c.Info.indices() {
		refs = append(refs, *v)
	}
	return refs
}

// ConstantPool is the decoded pool. Entries is indexed by pool index; slot 0
// and the slot after each Long or Double are nil.
type ConstantPool struct {
	Entries []*Constant
	Count   Value
}

// Get returns the entry at index i, failing for 0, unused slots and indices
// past the end of the pool.
func (p *ConstantPool) Get(i int) (*Constant, error) {
	return p.lookup(i, errors.NoOffset)
}

func (p *ConstantPool) lookup(i, offset int) (*Constant, error) {
	if i <= 0 || i >= len(p.Entries) || p.Entries[i] == nil {
		return nil, errors.DanglingReference(errors.PhaseResolve, i, offset)
	}
	return p.Entries[i], nil
}

// ref names v after the entry it indexes.
func (p *ConstantPool) ref(v *Value) error {
	c, err := p.lookup(v.Index(), v.Offset)
	if err != nil {
		return err
	}
	v.Name = c.Name
	return nil
}

// refOptional is ref for indices where zero means absent; v is then named
// zero.
func (p *ConstantPool) refOptional(v *Value, zero string) error {
	if v.Num == 0 {
		v.Name = zero
		return nil
	}
	return p.ref(v)
}

// refUtf8 is ref for indices that must point at a Utf8 entry.
func (p *ConstantPool) refUtf8(v *Value) error {
	c, err := p.lookup(v.Index(), v.Offset)
	if err != nil {
		return err
	}
	u, ok := c.Info.(*ConstantUtf8)
	if !ok {
		return errors.InvalidData(errors.PhaseResolve, v.Offset,
			fmt.Sprintf("constant #%d is %s, expected Utf8", v.Index(), c.Info.Tag()))
	}
	v.Name = u.Bytes.Str
	return nil
}

// Name returns the display name of entry i, or "" when i is not a valid
// index.
func (p *ConstantPool) Name(i int) string {
	c, err := p.Get(i)
	if err != nil {
		return ""
	}
	return c.Name
}

// Constants returns the populated entries in index order.
func (p *ConstantPool) Constants() []*Constant {
	out := make([]*Constant, 0, len(p.Entries))
	for _, c := range p.Entries {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func decodeConstantPool(c *cursor) (*ConstantPool, error) {
	defer c.enter(errors.PhaseConstantPool)()
	count, err := c.u2()
	if err != nil {
		return nil, errors.Within(err, "constant_pool_count")
	}
	pool := &ConstantPool{Count: count, Entries: make([]*Constant, count.Index())}
	for i := 1; i < count.Index(); i++ {
		entry, err := decodeConstant(c, i)
		if err != nil {
			return nil, errors.Within(err, fmt.Sprintf("#%d", i))
		}
		pool.Entries[i] = entry
		if entry.Info.Tag().Wide() {
			i++
		}
	}
	Logger().Debug("constant pool decoded",
		zap.Int("count", count.Index()),
		zap.Int("end", c.pos()))

	if err := pool.resolve(); err != nil {
		return nil, err
	}
	return pool, nil
}

func decodeConstant(c *cursor, index int) (*Constant, error) {
	tagVal, err := c.u1()
	if err != nil {
		return nil, err
	}
	tag := ConstantTag(tagVal.Raw)
	if !tag.Known() {
		return nil, errors.UnknownConstantTag(tagVal.Offset, uint8(tagVal.Raw))
	}
	tagVal.Name = tag.String()

	var info ConstantInfo
	switch tag {
	case TagUtf8:
		length, err := c.u2()
		if err != nil {
			return nil, err
		}
		text, err := c.utf8(length.Index())
		if err != nil {
			return nil, err
		}
		info = &ConstantUtf8{Length: length, Bytes: text}
	case TagInteger:
		v, err := c.readSigned(4, OperandNone)
		if err != nil {
			return nil, err
		}
		v.Name = strconv.FormatInt(v.Num, 10)
		info = &ConstantInteger{Bytes: v}
	case TagFloat:
		v, err := c.u4()
		if err != nil {
			return nil, err
		}
		v.Name = strconv.FormatFloat(float64(math.Float32frombits(uint32(v.Raw))), 'g', -1, 32)
		info = &ConstantFloat{Bytes: v}
	case TagLong:
		v, err := c.u8()
		if err != nil {
			return nil, err
		}
		v.Num = int64(v.Raw)
		v.Name = strconv.FormatInt(v.Num, 10)
		info = &ConstantLong{Bytes: v}
	case TagDouble:
		v, err := c.u8()
		if err != nil {
			return nil, err
		}
		v.Name = strconv.FormatFloat(math.Float64frombits(v.Raw), 'g', -1, 64)
		info = &ConstantDouble{Bytes: v}
	case TagMethodHandle:
		kind, err := c.u1()
		if err != nil {
			return nil, err
		}
		kind.Name = ReferenceKind(kind.Raw).String()
		ref, err := c.u2()
		if err != nil {
			return nil, err
		}
		info = &ConstantMethodHandle{ReferenceKind: kind, ReferenceIndex: ref}
	default:
		info = newIndexConstant(tag)
		for _, field := range info.values() {
			if *field, err = c.u2(); err != nil {
				return nil, err
			}
		}
	}
	return &Constant{Index: index, Tag: tagVal, Info: info}, nil
}

// newIndexConstant allocates a constant whose payload is only u2 fields.
func newIndexConstant(tag ConstantTag) ConstantInfo {
	switch tag {
	case TagClass:
		return &ConstantClass{}
	case TagString:
		return &ConstantString{}
	case TagFieldref:
		return &ConstantFieldref{}
	case TagMethodref:
		return &ConstantMethodref{}
	case TagInterfaceMethodref:
		return &ConstantInterfaceMethodref{}
	case TagNameAndType:
		return &ConstantNameAndType{}
	case TagMethodType:
		return &ConstantMethodType{}
	case TagDynamic:
		return &ConstantDynamic{}
	case TagInvokeDynamic:
		return &ConstantInvokeDynamic{}
	case TagModule:
		return &ConstantModule{}
	case TagPackage:
		return &ConstantPackage{}
	}
	panic("classfile: no index layout for tag " + tag.String())
}

const (
	unvisited = iota
	visiting
	resolved
)

// resolver computes display names. Entries may reference entries later in
// the pool, so names are computed on demand with memoization.
type resolver struct {
	pool  *ConstantPool
	names []string
	state []uint8
}

// resolve runs after the whole pool is read. It names every entry, then
// copies the referenced names onto each index field.
func (p *ConstantPool) resolve() error {
	r := &resolver{
		pool:  p,
		names: make([]string, len(p.Entries)),
		state: make([]uint8, len(p.Entries)),
	}
	for i, c := range p.Entries {
		if c == nil {
			continue
		}
		name, err := r.name(i, c.Tag.Offset)
		if err != nil {
			return errors.Within(err, fmt.Sprintf("#%d", i))
		}
		c.Name = name
	}
	for _, c := range p.Entries {
		if c == nil {
			continue
		}
		for _, idx := range c.Info.indices() {
			idx.Name = r.names[idx.Index()]
		}
	}
	Logger().Debug("constant pool resolved", zap.Int("entries", len(p.Constants())))
	return nil
}

func (r *resolver) name(i, offset int) (string, error) {
	c, err := r.pool.lookup(i, offset)
	if err != nil {
		return "", err
	}
	switch r.state[i] {
	case resolved:
		return r.names[i], nil
	case visiting:
		return "", errors.InvalidData(errors.PhaseResolve, offset,
			fmt.Sprintf("constant #%d refers to itself", i))
	}
	r.state[i] = visiting
	name, err := r.compute(c)
	if err != nil {
		return "", err
	}
	r.names[i] = name
	r.state[i] = resolved
	return name, nil
}

func (r *resolver) ref(v Value) (string, error) {
	return r.name(v.Index(), v.Offset)
}

// utf8 returns the text of the Utf8 entry referenced by v.
func (r *resolver) utf8(v Value) (string, error) {
	c, err := r.pool.lookup(v.Index(), v.Offset)
	if err != nil {
		return "", err
	}
	u, ok := c.Info.(*ConstantUtf8)
	if !ok {
		return "", errors.InvalidData(errors.PhaseResolve, v.Offset,
			fmt.Sprintf("constant #%d is %s, expected Utf8", v.Index(), c.Info.Tag()))
	}
	return u.Bytes.Str, nil
}

func (r *resolver) nameAndType(v Value) (name, desc string, err error) {
	c, err := r.pool.lookup(v.Index(), v.Offset)
	if err != nil {
		return "", "", err
	}
	nat, ok := c.Info.(*ConstantNameAndType)
	if !ok {
		return "", "", errors.InvalidData(errors.PhaseResolve, v.Offset,
			fmt.Sprintf("constant #%d is %s, expected NameAndType", v.Index(), c.Info.Tag()))
	}
	if name, err = r.utf8(nat.NameIndex); err != nil {
		return "", "", err
	}
	if desc, err = r.utf8(nat.DescriptorIndex); err != nil {
		return "", "", err
	}
	return name, desc, nil
}

func (r *resolver) compute(c *Constant) (string, error) {
	switch info := c.Info.(type) {
	case *ConstantUtf8:
		return info.Bytes.Str, nil
	case *ConstantInteger:
		return info.Bytes.Name, nil
	case *ConstantFloat:
		return info.Bytes.Name, nil
	case *ConstantLong:
		return info.Bytes.Name, nil
	case *ConstantDouble:
		return info.Bytes.Name, nil
	case *ConstantClass:
		name, err := r.utf8(info.NameIndex)
		return descriptor.ClassName(name), err
	case *ConstantString:
		return r.utf8(info.StringIndex)
	case *ConstantModule:
		return r.utf8(info.NameIndex)
	case *ConstantPackage:
		return r.utf8(info.NameIndex)
	case *ConstantNameAndType:
		name, err := r.utf8(info.NameIndex)
		if err != nil {
			return "", err
		}
		desc, err := r.utf8(info.DescriptorIndex)
		if err != nil {
			return "", err
		}
		return descriptor.Format(desc, name)
	case *ConstantFieldref:
		return r.memberRef(&info.MemberRef)
	case *ConstantMethodref:
		return r.memberRef(&info.MemberRef)
	case *ConstantInterfaceMethodref:
		return r.memberRef(&info.MemberRef)
	case *ConstantMethodHandle:
		ref, err := r.ref(info.ReferenceIndex)
		if err != nil {
			return "", err
		}
		return info.ReferenceKind.Name + " " + ref, nil
	case *ConstantMethodType:
		desc, err := r.utf8(info.DescriptorIndex)
		if err != nil {
			return "", err
		}
		return descriptor.Format(desc, "")
	case *ConstantDynamic:
		return r.bootstrapRef(&info.BootstrapRef)
	case *ConstantInvokeDynamic:
		return r.bootstrapRef(&info.BootstrapRef)
	}
	return "", errors.UnknownConstantTag(c.Tag.Offset, uint8(c.Tag.Raw))
}

func (r *resolver) memberRef(m *MemberRef) (string, error) {
	class, err := r.ref(m.ClassIndex)
	if err != nil {
		return "", err
	}
	name, desc, err := r.nameAndType(m.NameAndTypeIndex)
	if err != nil {
		return "", err
	}
	return descriptor.Format(desc, class+"."+name)
}

func (r *resolver) bootstrapRef(b *BootstrapRef) (string, error) {
	nat, err := r.ref(b.NameAndTypeIndex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("bootstrap_%d: %s", b.BootstrapMethodAttrIndex.Num, nat), nil
}
