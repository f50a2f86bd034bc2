package sentry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/edge-engine/roqplay/internal/helper"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGenerateEvent(t *testing.T) {
	for _, tc := range []struct {
		desc        string
		err         error
		wantNil     bool
		wantCode    codes.Code
		wantMessage string
		wantModule  string
	}{
		{
			desc:        "plain error",
			err:         errors.New("device gone"),
			wantCode:    codes.Unknown,
			wantMessage: "device gone",
		},
		{
			desc:        "missing lump",
			err:         fmt.Errorf("open lump %q: %w", "D_OUTRO", helper.ErrNotFoundf("wad: lump %q not found", "D_OUTRO")),
			wantCode:    codes.NotFound,
			wantMessage: `open lump "D_OUTRO": wad: lump "D_OUTRO" not found`,
		},
		{
			desc:        "module prefix",
			err:         errors.New("wad: malformed"),
			wantCode:    codes.Unknown,
			wantMessage: "wad: malformed",
			wantModule:  "wad",
		},
		{desc: "nil", err: nil, wantNil: true},
		{desc: "canceled", err: context.Canceled, wantCode: codes.Unknown, wantMessage: "context canceled"},
		{desc: "canceled status", err: status.Error(codes.Canceled, "interrupted"), wantNil: true},
		{desc: "deadline", err: status.Error(codes.DeadlineExceeded, "too slow"), wantNil: true},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			event := generateEvent("dump", time.Now().Add(-500*time.Millisecond), tc.err)

			if tc.wantNil {
				assert.Nil(t, event)
				return
			}

			require.NotNil(t, event)
			assert.Equal(t, "dump", event.Transaction)
			assert.Equal(t, tc.wantMessage, event.Message)
			assert.Equal(t, tc.wantCode.String(), event.Tags["code"])
			assert.Equal(t, "dump", event.Tags["command"])
			assert.NotEmpty(t, event.Tags["time_ms"])
			assert.Equal(t, []string{"roqlump", "dump", tc.wantCode.String()}, event.Fingerprint)
			require.Len(t, event.Exception, 1)
			assert.Equal(t, tc.wantModule, event.Exception[0].Module)
		})
	}
}

func TestConfigureSentryWithoutDSN(t *testing.T) {
	require.NoError(t, ConfigureSentry("1.0.0", Config{}))
}
