package player

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"gitlab.com/edge-engine/roqplay/internal/helper"
	"gitlab.com/edge-engine/roqplay/lumpio"
)

// Feeder hands a lump to a sink one request per tick, the way a decoder
// pulls its input, without decoding anything. It has no playback state:
// it feeds until the lump is exhausted, a write fails or it is closed.
type Feeder struct {
	mu sync.Mutex

	cursor *lumpio.Cursor
	size   int
	count  int
	buf    []byte
	sink   io.Writer
	logger logrus.FieldLogger

	ticks, fed int
	err        error
	done       chan struct{}
}

// NewFeeder opens the named lump through opener. Each tick requests count
// elements of size bytes.
func NewFeeder(opener *Opener, name string, size, count int, sink io.Writer) (*Feeder, error) {
	if size <= 0 || count <= 0 {
		return nil, helper.ErrInvalidArgumentf("feeder: invalid request of %d elements of %d bytes", count, size)
	}

	cursor, err := opener.OpenLump(name)
	if err != nil {
		return nil, err
	}

	return &Feeder{
		cursor: cursor,
		size:   size,
		count:  count,
		buf:    make([]byte, size*count),
		sink:   sink,
		logger: opener.logger.WithField("lump", name),
		done:   make(chan struct{}),
	}, nil
}

// Ticker feeds one request to the sink.
func (f *Feeder) Ticker() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.finished() {
		return
	}
	f.ticks++

	n, err := lumpio.Read(f.buf, f.size, f.count, f.cursor)
	if err != nil {
		f.finish(err)
		return
	}

	if n == 0 {
		f.logger.WithField("bytes", f.fed).Debug("end of stream")
		f.finish(nil)
		return
	}

	if _, err := f.sink.Write(f.buf[:n*f.size]); err != nil {
		f.logger.WithError(err).Error("sink write failed")
		f.finish(err)
		return
	}
	f.fed += n * f.size
}

func (f *Feeder) finished() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Feeder) finish(err error) {
	if f.finished() {
		return
	}

	f.err = err
	f.cursor.Close()
	close(f.done)
}

// Done is closed once the feeder has nothing more to deliver.
func (f *Feeder) Done() <-chan struct{} {
	return f.done
}

// Err returns the error that ended feeding, or nil for a clean end of stream.
func (f *Feeder) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Stats returns the number of ticks that requested data and the bytes
// delivered to the sink.
func (f *Feeder) Stats() (ticks, bytes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticks, f.fed
}

// Close stops feeding and releases the lump.
func (f *Feeder) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finish(nil)
}
