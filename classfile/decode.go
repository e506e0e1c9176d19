package classfile

import (
	"fmt"

	"github.com/wippyai/classview/descriptor"
	"github.com/wippyai/classview/errors"
	"go.uber.org/zap"
)

// Decode parses a class file. The buffer is not retained beyond the strings
// copied out of it. The magic number is read but not checked; see
// ClassFile.ValidMagic.
func Decode(data []byte) (*ClassFile, error) {
	c := newCursor(data)
	cf := &ClassFile{}
	var err error

	if cf.Magic, err = c.hex(4); err != nil {
		return nil, errors.Within(err, "magic")
	}
	if cf.MinorVersion, err = c.u2(); err != nil {
		return nil, errors.Within(err, "minor_version")
	}
	if cf.MajorVersion, err = c.u2(); err != nil {
		return nil, errors.Within(err, "major_version")
	}
	if cf.ConstantPool, err = decodeConstantPool(c); err != nil {
		return nil, errors.Within(err, "constant_pool")
	}
	pool := cf.ConstantPool

	if cf.AccessFlags, err = c.u2(); err != nil {
		return nil, errors.Within(err, "access_flags")
	}
	cf.AccessFlags.Name = ClassAccessFlags.Describe(uint16(cf.AccessFlags.Raw))
	if cf.ThisClass, err = readRef(c, pool); err != nil {
		return nil, errors.Within(err, "this_class")
	}
	if cf.SuperClass, err = c.u2(); err != nil {
		return nil, errors.Within(err, "super_class")
	}
	if err = pool.refOptional(&cf.SuperClass, ""); err != nil {
		return nil, errors.Within(err, "super_class")
	}

	if cf.InterfacesCount, err = c.u2(); err != nil {
		return nil, errors.Within(err, "interfaces_count")
	}
	for i := 0; i < cf.InterfacesCount.Index(); i++ {
		v, err := readRef(c, pool)
		if err != nil {
			return nil, errors.Within(err, fmt.Sprintf("interfaces[%d]", i))
		}
		cf.Interfaces = append(cf.Interfaces, v)
	}

	if cf.FieldsCount, cf.Fields, err = decodeMembers(c, pool, "fields", FieldAccessFlags); err != nil {
		return nil, err
	}
	if cf.MethodsCount, cf.Methods, err = decodeMembers(c, pool, "methods", MethodAccessFlags); err != nil {
		return nil, err
	}
	if cf.AttributesCount, cf.Attributes, err = decodeAttributes(c, pool); err != nil {
		return nil, err
	}

	if c.remaining() > 0 {
		trailing, err := c.skip(c.remaining())
		if err != nil {
			return nil, err
		}
		cf.Trailing = &trailing
	}

	Logger().Debug("class decoded",
		zap.String("class", cf.Name()),
		zap.String("version", cf.Version()),
		zap.Int("fields", len(cf.Fields)),
		zap.Int("methods", len(cf.Methods)),
		zap.Int("size", len(data)))
	return cf, nil
}

func decodeMembers(c *cursor, pool *ConstantPool, section string, flags FlagTable) (Value, []Member, error) {
	count, err := c.u2()
	if err != nil {
		return Value{}, nil, errors.Within(err, section+"_count")
	}
	members := make([]Member, 0, count.Index())
	for i := 0; i < count.Index(); i++ {
		m, err := decodeMember(c, pool, flags)
		if err != nil {
			return Value{}, nil, errors.Within(err, fmt.Sprintf("%s[%d]", section, i))
		}
		members = append(members, m)
	}
	return count, members, nil
}

func decodeMember(c *cursor, pool *ConstantPool, flags FlagTable) (Member, error) {
	var m Member
	var err error
	for _, f := range []*Value{&m.AccessFlags, &m.NameIndex, &m.DescriptorIndex} {
		if *f, err = c.u2(); err != nil {
			return m, err
		}
	}
	m.AccessFlags.Name = flags.Describe(uint16(m.AccessFlags.Raw))
	if err = pool.refUtf8(&m.NameIndex); err != nil {
		return m, errors.Within(err, "name_index")
	}
	if err = pool.refUtf8(&m.DescriptorIndex); err != nil {
		return m, errors.Within(err, "descriptor_index")
	}
	if m.Signature, err = descriptor.Format(m.Descriptor(), m.Name()); err != nil {
		return m, errors.Within(err, "descriptor_index")
	}
	if m.AttributesCount, m.Attributes, err = decodeAttributes(c, pool); err != nil {
		return m, errors.Within(err, m.Name())
	}
	return m, nil
}
