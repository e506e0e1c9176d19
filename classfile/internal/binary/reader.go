package binary

import (
	"strings"
	"unicode/utf8"

	"github.com/wippyai/classview/errors"
)

// Reader is a big-endian cursor over a fixed byte buffer with position tracking.
// Positions are absolute offsets into the buffer the root Reader was created
// with, including for Readers returned by Sub.
type Reader struct {
	phase errors.Phase
	buf   []byte
	pos   int
	end   int
}

// NewReader creates a Reader over the whole of buf. Its errors carry
// errors.PhaseDecode until SetPhase is called.
func NewReader(buf []byte) *Reader {
	return &Reader{phase: errors.PhaseDecode, buf: buf, pos: 0, end: len(buf)}
}

// Phase returns the phase attached to errors from this reader.
func (r *Reader) Phase() errors.Phase {
	return r.phase
}

// SetPhase sets the phase attached to errors from this reader.
func (r *Reader) SetPhase(p errors.Phase) {
	r.phase = p
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes before the reader's end.
func (r *Reader) Remaining() int {
	return r.end - r.pos
}

func (r *Reader) need(n int) error {
	if n < 0 || n > r.end-r.pos {
		return errors.UnexpectedEOF(r.phase, r.pos, n, r.end-r.pos)
	}
	return nil
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. The returned slice aliases the buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadUint reads a big-endian unsigned integer of width 1, 2, 4 or 8 bytes.
func (r *Reader) ReadUint(width int) (uint64, error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		return 0, errors.InvalidInput(r.phase, "unsigned reads take widths 1, 2, 4 or 8")
	}
	b, err := r.ReadBytes(width)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v, nil
}

// ReadInt reads a big-endian two's-complement integer of width 1, 2 or 4 bytes.
func (r *Reader) ReadInt(width int) (int64, error) {
	if width != 1 && width != 2 && width != 4 {
		return 0, errors.InvalidInput(r.phase, "signed reads take widths 1, 2 or 4")
	}
	v, err := r.ReadUint(width)
	if err != nil {
		return 0, err
	}
	shift := 64 - 8*uint(width)
	return int64(v<<shift) >> shift, nil
}

// ReadModifiedUTF8 decodes n bytes of the class file's modified UTF-8.
// One, two and three byte sequences are supported. Supplementary characters
// stored as surrogate pairs come out as two replacement characters. A byte
// that cannot start a sequence, or a lead byte whose continuation bytes are
// missing or malformed, decodes to U+FFFD and decoding resumes at the next
// byte.
func (r *Reader) ReadModifiedUTF8(n int) (string, error) {
	data, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < len(data); {
		x := data[i]
		switch {
		case x >= 0x01 && x <= 0x7f:
			b.WriteByte(x)
			i++
		case x&0xe0 == 0xc0 && i+1 < len(data) && continuation(data[i+1]):
			y := data[i+1]
			b.WriteRune(rune(x&0x1f)<<6 | rune(y&0x3f))
			i += 2
		case x&0xf0 == 0xe0 && i+2 < len(data) && continuation(data[i+1]) && continuation(data[i+2]):
			y, z := data[i+1], data[i+2]
			b.WriteRune(rune(x&0x0f)<<12 | rune(y&0x3f)<<6 | rune(z&0x3f))
			i += 3
		default:
			b.WriteRune(utf8.RuneError)
			i++
		}
	}
	return b.String(), nil
}

func continuation(b byte) bool {
	return b&0xc0 == 0x80
}

// Skip advances the position by n bytes without interpreting them.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Align consumes padding so that the next read starts at a multiple of
// boundary measured from base. It returns the number of bytes skipped.
func (r *Reader) Align(base, boundary int) (int, error) {
	if boundary <= 0 {
		return 0, errors.InvalidInput(r.phase, "alignment boundary must be positive")
	}
	pad := (boundary - (r.pos-base)%boundary) % boundary
	if err := r.Skip(pad); err != nil {
		return 0, err
	}
	return pad, nil
}

// Sub returns a Reader limited to the next n bytes and advances this reader
// past them. The child keeps absolute positions and the parent's phase.
func (r *Reader) Sub(n int) (*Reader, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	sub := &Reader{phase: r.phase, buf: r.buf, pos: r.pos, end: r.pos + n}
	r.pos += n
	return sub, nil
}
