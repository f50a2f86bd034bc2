package lumpio

import (
	"io"
	"math"

	"gitlab.com/edge-engine/roqplay/internal/helper"
)

// Source is the read callback a demuxer pulls its input through. It copies up
// to size*count bytes into dst and returns the number of whole elements
// copied. A return of 0 with a nil error means end of stream.
type Source interface {
	ReadElements(dst []byte, size, count int) (int, error)
}

// NewStreamSource turns r into a Source with the same short read semantics
// as a Cursor. Errors other than io.EOF and io.ErrUnexpectedEOF from r are
// passed on unmodified.
func NewStreamSource(r io.Reader) Source {
	return &streamSource{r: r}
}

type streamSource struct {
	r   io.Reader
	eof bool
}

func (ss *streamSource) ReadElements(dst []byte, size, count int) (int, error) {
	rb, err := requestSize(dst, size, count)
	if err != nil || rb == 0 {
		return 0, err
	}

	if ss.eof {
		return 0, nil
	}

	n, err := io.ReadFull(ss.r, dst[:rb])
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		ss.eof = true
	default:
		return n / size, err
	}

	return n / size, nil
}

// requestSize validates a read request and returns its byte count.
func requestSize(dst []byte, size, count int) (int, error) {
	if dst == nil {
		return 0, helper.ErrInvalidArgumentf("lumpio: nil destination")
	}
	if size < 0 || count < 0 {
		return 0, helper.ErrInvalidArgumentf("lumpio: negative element size %d or count %d", size, count)
	}
	if size == 0 || count == 0 {
		return 0, nil
	}
	if count > math.MaxInt/size {
		return 0, helper.ErrInvalidArgumentf("lumpio: request of %d elements of %d bytes overflows", count, size)
	}

	rb := size * count
	if len(dst) < rb {
		return 0, helper.ErrInvalidArgumentf("lumpio: destination holds %d bytes, need %d", len(dst), rb)
	}

	return rb, nil
}
