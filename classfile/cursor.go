package classfile

import (
	"fmt"

	"github.com/wippyai/classview/classfile/internal/binary"
	"github.com/wippyai/classview/errors"
)

// cursor turns reader results into located Values.
type cursor struct {
	r *binary.Reader
}

func newCursor(data []byte) *cursor {
	return &cursor{r: binary.NewReader(data)}
}

func (c *cursor) pos() int       { return c.r.Position() }
func (c *cursor) remaining() int { return c.r.Remaining() }

// enter tags read errors with phase until the returned func restores the
// previous one.
func (c *cursor) enter(phase errors.Phase) (restore func()) {
	prev := c.r.Phase()
	c.r.SetPhase(phase)
	return func() { c.r.SetPhase(prev) }
}

func (c *cursor) readUnsigned(width int, kind OperandKind) (Value, error) {
	off := c.r.Position()
	v, err := c.r.ReadUint(width)
	if err != nil {
		return Value{}, err
	}
	return Value{Offset: off, Width: width, Raw: v, Num: int64(v), Kind: kind}, nil
}

func (c *cursor) readSigned(width int, kind OperandKind) (Value, error) {
	off := c.r.Position()
	v, err := c.r.ReadInt(width)
	if err != nil {
		return Value{}, err
	}
	raw := uint64(v) & (1<<(8*uint(width)) - 1)
	return Value{Offset: off, Width: width, Raw: raw, Num: v, Kind: kind}, nil
}

func (c *cursor) u1() (Value, error) { return c.readUnsigned(1, OperandNone) }
func (c *cursor) u2() (Value, error) { return c.readUnsigned(2, OperandNone) }
func (c *cursor) u4() (Value, error) { return c.readUnsigned(4, OperandNone) }
func (c *cursor) u8() (Value, error) { return c.readUnsigned(8, OperandNone) }

func (c *cursor) s4() (Value, error) { return c.readSigned(4, OperandS4) }

// utf8 reads n bytes of modified UTF-8 into Str.
func (c *cursor) utf8(n int) (Value, error) {
	off := c.r.Position()
	s, err := c.r.ReadModifiedUTF8(n)
	if err != nil {
		return Value{}, err
	}
	return Value{Offset: off, Width: n, Str: s, Name: s}, nil
}

// hex reads n bytes as an unsigned number and renders them as 0x-prefixed
// upper-case hex.
func (c *cursor) hex(n int) (Value, error) {
	v, err := c.readUnsigned(n, OperandNone)
	if err != nil {
		return Value{}, err
	}
	v.Str = fmt.Sprintf("0x%0*X", 2*n, v.Raw)
	v.Name = v.Str
	return v, nil
}

// skip consumes n uninterpreted bytes as one opaque span.
func (c *cursor) skip(n int) (Value, error) {
	off := c.r.Position()
	if err := c.r.Skip(n); err != nil {
		return Value{}, err
	}
	return Value{Offset: off, Width: n}, nil
}

// align consumes padding up to the next multiple of boundary from base.
func (c *cursor) align(base, boundary int) (Value, error) {
	off := c.r.Position()
	pad, err := c.r.Align(base, boundary)
	if err != nil {
		return Value{}, err
	}
	return Value{Offset: off, Width: pad, Num: int64(pad), Kind: OperandPadding}, nil
}

// sub returns a cursor bounded to the next n bytes.
func (c *cursor) sub(n int) (*cursor, error) {
	r, err := c.r.Sub(n)
	if err != nil {
		return nil, err
	}
	return &cursor{r: r}, nil
}
