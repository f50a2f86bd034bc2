package lumpio

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
	"gitlab.com/edge-engine/roqplay/internal/helper"
	"google.golang.org/grpc/codes"
)

func drain(t *testing.T, src Source, size, count int) ([]byte, []int) {
	t.Helper()

	dst := make([]byte, size*count)
	result := &bytes.Buffer{}
	var counts []int

	for {
		n, err := src.ReadElements(dst, size, count)
		require.NoError(t, err)
		counts = append(counts, n)
		if n == 0 {
			return result.Bytes(), counts
		}
		result.Write(dst[:n*size])
	}
}

func TestSourcesAgree(t *testing.T) {
	testData := "Hello this is the test data that will be received"

	for _, tc := range []struct {
		desc string
		src  func() Source
	}{
		{desc: "cursor", src: func() Source { return NewCursor([]byte(testData)) }},
		{desc: "stream", src: func() Source { return NewStreamSource(strings.NewReader(testData)) }},
		{desc: "dataerr", src: func() Source { return NewStreamSource(iotest.DataErrReader(strings.NewReader(testData))) }},
		{desc: "onebyte", src: func() Source { return NewStreamSource(iotest.OneByteReader(strings.NewReader(testData))) }},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			data, counts := drain(t, tc.src(), 4, 4)

			// 49 bytes: three full requests, then 1 whole element (and a byte) left
			require.Equal(t, []int{4, 4, 4, 0}, counts)
			require.Equal(t, testData[:48], string(data))
		})
	}
}

func TestStreamSourceEndOfStream(t *testing.T) {
	src := NewStreamSource(strings.NewReader("0123456789"))
	dst := make([]byte, 12)

	n, err := src.ReadElements(dst, 4, 3)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "0123456789", string(dst[:10]))

	for i := 0; i < 2; i++ {
		n, err = src.ReadElements(dst, 4, 3)
		require.NoError(t, err)
		require.Zero(t, n)
	}
}

func TestStreamSourceError(t *testing.T) {
	errBroken := errors.New("broken pipe")
	src := NewStreamSource(iotest.TimeoutReader(strings.NewReader("0123456789")))
	dst := make([]byte, 8)

	_, err := src.ReadElements(dst, 1, 8)
	require.NoError(t, err)

	_, err = src.ReadElements(dst, 1, 2)
	require.Equal(t, iotest.ErrTimeout, err)

	src = NewStreamSource(iotest.ErrReader(errBroken))
	n, err := src.ReadElements(dst, 1, 8)
	require.True(t, errors.Is(err, errBroken))
	require.Zero(t, n)
}

func TestStreamSourceInvalidArgument(t *testing.T) {
	src := NewStreamSource(strings.NewReader("data"))

	_, err := src.ReadElements(nil, 1, 1)
	require.Equal(t, codes.InvalidArgument, helper.GrpcCode(err))

	_, err = src.ReadElements(make([]byte, 1), 1, 2)
	require.Equal(t, codes.InvalidArgument, helper.GrpcCode(err))
}
