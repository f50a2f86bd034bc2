package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestError(t *testing.T) {
	input := errors.New("sentinel error")
	for _, tc := range []struct {
		desc     string
		decorate func(err error) error
		code     codes.Code
	}{
		{
			desc:     "Internal",
			decorate: ErrInternal,
			code:     codes.Internal,
		},
		{
			desc:     "InvalidArgument",
			decorate: ErrInvalidArgument,
			code:     codes.InvalidArgument,
		},
		{
			desc:     "NotFound",
			decorate: ErrNotFound,
			code:     codes.NotFound,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.decorate(input)
			require.True(t, errors.Is(err, input))
			require.Equal(t, tc.code, status.Code(err))
			require.Equal(t, tc.code, GrpcCode(err))
		})
	}
}

func TestErrorf(t *testing.T) {
	for _, tc := range []struct {
		desc   string
		errorf func(format string, a ...interface{}) error
		code   codes.Code
	}{
		{
			desc:   "Internalf",
			errorf: ErrInternalf,
			code:   codes.Internal,
		},
		{
			desc:   "InvalidArgumentf",
			errorf: ErrInvalidArgumentf,
			code:   codes.InvalidArgument,
		},
		{
			desc:   "NotFoundf",
			errorf: ErrNotFoundf,
			code:   codes.NotFound,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.errorf("expected %s", "message")
			require.EqualError(t, err, "expected message")
			require.Equal(t, tc.code, status.Code(err))
		})
	}
}

func TestDecorateErrorKeepsCode(t *testing.T) {
	inner := ErrNotFoundf("lump %q", "DEMO1")

	require.Equal(t, codes.NotFound, GrpcCode(ErrInternal(inner)))
	require.Equal(t, codes.NotFound, GrpcCode(ErrInvalidArgumentf("open: %w", inner)))
	require.Nil(t, ErrInternal(nil))
}

func TestGrpcCodeWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrInvalidArgumentf("inner"))

	require.Equal(t, codes.InvalidArgument, GrpcCode(err))
	require.Equal(t, codes.Unknown, GrpcCode(errors.New("plain")))
	require.Equal(t, codes.OK, GrpcCode(nil))
}
