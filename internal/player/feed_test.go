package player

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/edge-engine/roqplay/internal/helper"
	"gitlab.com/edge-engine/roqplay/internal/testhelper"
	"google.golang.org/grpc/codes"
)

var _ Tickable = (*Feeder)(nil)

func newTestFeeder(t *testing.T, data string, size, count int, sink io.Writer) *Feeder {
	o, _, _ := newTestOpener(t, testhelper.TestLump{Name: "D_INTRO", Data: []byte(data)})

	f, err := NewFeeder(o, "D_INTRO", size, count, sink)
	require.NoError(t, err)

	return f
}

func isDone(f *Feeder) bool {
	select {
	case <-f.Done():
		return true
	default:
		return false
	}
}

func TestFeederFeedsToEnd(t *testing.T) {
	sink := &bytes.Buffer{}
	f := newTestFeeder(t, "0123456789", 2, 2, sink)

	for _, want := range []string{"0123", "01234567", "0123456789"} {
		f.Ticker()
		require.Equal(t, want, sink.String())
		require.False(t, isDone(f))
	}

	f.Ticker()
	require.True(t, isDone(f))
	require.NoError(t, f.Err())

	ticks, fed := f.Stats()
	require.Equal(t, 4, ticks)
	require.Equal(t, 10, fed)

	f.Ticker()
	ticks, _ = f.Stats()
	require.Equal(t, 4, ticks, "no requests after the end of stream")
}

func TestFeederDropsTrailingPartialElement(t *testing.T) {
	sink := &bytes.Buffer{}
	f := newTestFeeder(t, "0123456789", 4, 1, sink)

	for i := 0; i < 3; i++ {
		f.Ticker()
	}

	require.Equal(t, "01234567", sink.String())
	require.True(t, isDone(f))
}

func TestFeederClose(t *testing.T) {
	sink := &bytes.Buffer{}
	f := newTestFeeder(t, "0123456789", 1, 2, sink)

	f.Ticker()
	f.Close()
	f.Close()
	require.True(t, isDone(f))
	require.NoError(t, f.Err())

	f.Ticker()
	require.Equal(t, "01", sink.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("device gone") }

func TestFeederSinkError(t *testing.T) {
	o, _, entries := newTestOpener(t, testhelper.TestLump{Name: "D_INTRO", Data: []byte("0123456789")})

	f, err := NewFeeder(o, "D_INTRO", 1, 4, failingWriter{})
	require.NoError(t, err)

	f.Ticker()
	require.True(t, isDone(f))
	require.EqualError(t, f.Err(), "device gone")

	logged := entries()
	require.Equal(t, "sink write failed", logged[len(logged)-1].Message)
}

func TestNewFeederErrors(t *testing.T) {
	o, _, _ := newTestOpener(t, testhelper.TestLump{Name: "D_INTRO", Data: []byte("0123456789")})

	_, err := NewFeeder(o, "D_INTRO", 0, 4, &bytes.Buffer{})
	testhelper.AssertGrpcError(t, err, codes.InvalidArgument, "")

	_, err = NewFeeder(o, "D_OUTRO", 1, 4, &bytes.Buffer{})
	testhelper.AssertGrpcError(t, err, codes.NotFound, "")
}

func TestDriveFeeder(t *testing.T) {
	sink := &bytes.Buffer{}
	f := newTestFeeder(t, "0123456789", 3, 1, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-f.Done()
		cancel()
	}()

	ticker := helper.NewManualTicker()
	ticker.ResetFunc = ticker.Tick

	require.Equal(t, context.Canceled, Drive(ctx, f, ticker))
	require.Equal(t, "012345678", sink.String())
	require.NoError(t, f.Err())
}
