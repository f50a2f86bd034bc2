package lumpio

import (
	"io"

	"gitlab.com/edge-engine/roqplay/internal/helper"
)

// Cursor is a read position over an in-memory lump. The cursor does not own
// the lump data: it must not be modified while the cursor is in use, and it
// stays valid only as long as whoever loaded it keeps it around.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	data []byte
	pos  int
	size int
}

var (
	_ Source        = (*Cursor)(nil)
	_ io.Reader     = (*Cursor)(nil)
	_ io.ByteReader = (*Cursor)(nil)
	_ io.WriterTo   = (*Cursor)(nil)
	_ io.Closer     = (*Cursor)(nil)
)

// NewCursor returns a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data, size: len(data)}
}

// Pos returns the current offset.
func (c *Cursor) Pos() int { return c.pos }

// Size returns the length of the lump.
func (c *Cursor) Size() int { return c.size }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	if c.pos >= c.size {
		return 0
	}
	return c.size - c.pos
}

// Tell returns the current offset, or -1 if the cursor is past its end.
func (c *Cursor) Tell() int64 {
	if c.pos > c.size {
		return -1
	}
	return int64(c.pos)
}

// Read copies up to size*count bytes from the cursor into dst and returns the
// number of whole elements copied. It follows fread: a request running past
// the end of the lump is clamped (a short read), and a cursor with nothing
// left returns 0. When the clamped byte count is not a multiple of size the
// trailing partial element is still copied into dst but is not counted.
//
// The only errors are precondition violations, which carry the
// InvalidArgument code and leave the cursor untouched.
func Read(dst []byte, size, count int, c *Cursor) (int, error) {
	if c == nil {
		return 0, helper.ErrInvalidArgumentf("lumpio: nil cursor")
	}
	rb, err := requestSize(dst, size, count)
	if err != nil || rb == 0 {
		return 0, err
	}

	if c.pos >= c.size {
		return 0, nil
	}

	if rb > c.size-c.pos {
		rb = c.size - c.pos
	}

	copy(dst[:rb], c.data[c.pos:c.pos+rb])
	c.pos += rb

	return rb / size, nil
}

// ReadElements implements Source.
func (c *Cursor) ReadElements(dst []byte, size, count int) (int, error) {
	return Read(dst, size, count, c)
}

// Read implements io.Reader. It returns io.EOF once the lump is exhausted.
func (c *Cursor) Read(p []byte) (int, error) {
	if c.pos >= c.size {
		return 0, io.EOF
	}
	n := copy(p, c.data[c.pos:c.size])
	c.pos += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= c.size {
		return 0, io.EOF
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// WriteTo implements io.WriterTo.
func (c *Cursor) WriteTo(w io.Writer) (int64, error) {
	if c.pos >= c.size {
		return 0, nil
	}

	rest := c.data[c.pos:c.size]
	n, err := w.Write(rest)
	c.pos += n
	if err == nil && n < len(rest) {
		err = io.ErrShortWrite
	}

	return int64(n), err
}

// Close drops the reference to the lump data. Any later read reports end of
// stream. Closing twice is harmless.
func (c *Cursor) Close() error {
	c.data = nil
	c.pos = 0
	c.size = 0
	return nil
}
