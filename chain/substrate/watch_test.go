package substrate

import (
	"context"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
)

func statusFeed(statuses ...types.ExtrinsicStatus) <-chan types.ExtrinsicStatus {
	ch := make(chan types.ExtrinsicStatus, len(statuses))
	for _, s := range statuses {
		ch <- s
	}

	return ch
}

func noFailure(types.Hash) (*DispatchError, error) { return nil, nil }

func describeRaw(e DispatchError) string { return e.Describe(nil) }

func Test_watchStatus(t *testing.T) {
	t.Parallel()

	blockHash := types.NewHash([]byte{0x01})
	finalHash := types.NewHash([]byte{0x02})

	tests := []struct {
		name          string
		give          []types.ExtrinsicStatus
		check         failureCheck
		opts          SubmitOptions
		wantInclusion Inclusion
		wantErrIs     error
		wantErr       string
		wantLogs      []string
	}{
		{
			name: "resolves on inclusion",
			give: []types.ExtrinsicStatus{
				{IsReady: true},
				{IsInBlock: true, AsInBlock: blockHash},
			},
			check:         noFailure,
			wantInclusion: Inclusion{BlockHash: blockHash},
			wantLogs:      []string{"Success: transaction in block"},
		},
		{
			name: "waits for finalization",
			give: []types.ExtrinsicStatus{
				{IsInBlock: true, AsInBlock: blockHash},
				{IsFinalized: true, AsFinalized: finalHash},
			},
			check:         noFailure,
			opts:          SubmitOptions{WaitForFinalization: true},
			wantInclusion: Inclusion{BlockHash: finalHash, Finalized: true},
			wantLogs:      []string{"Success: transaction in block", "Transaction finalized"},
		},
		{
			name: "dispatch failure",
			give: []types.ExtrinsicStatus{
				{IsInBlock: true, AsInBlock: blockHash},
			},
			check: func(types.Hash) (*DispatchError, error) {
				return &DispatchError{Raw: "BadOrigin"}, nil
			},
			wantInclusion: Inclusion{BlockHash: blockHash},
			wantErrIs:     ErrDispatchFailed,
			wantErr:       "dispatch failed: BadOrigin",
			wantLogs:      []string{"Dispatch failed"},
		},
		{
			name:      "dropped",
			give:      []types.ExtrinsicStatus{{IsReady: true}, {IsDropped: true}},
			check:     noFailure,
			wantErrIs: ErrTransactionDropped,
			wantErr:   "transaction dropped: dropped from the pool",
		},
		{
			name:      "invalid",
			give:      []types.ExtrinsicStatus{{IsInvalid: true}},
			check:     noFailure,
			wantErrIs: ErrTransactionDropped,
			wantErr:   "transaction dropped: invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lggr, logs := logger.TestObserved(t, zapcore.InfoLevel)

			got, err := watchStatus(t.Context(), lggr, statusFeed(tt.give...), make(chan error),
				tt.check, describeRaw, tt.opts)
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				require.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantInclusion, got)

			var messages []string
			for _, entry := range logs.All() {
				messages = append(messages, entry.Message)
			}
			for _, want := range tt.wantLogs {
				assert.Contains(t, messages, want)
			}
		})
	}
}

func Test_watchStatus_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := watchStatus(ctx, logger.Nop(), make(chan types.ExtrinsicStatus), make(chan error),
		noFailure, describeRaw, SubmitOptions{})
	require.ErrorIs(t, err, context.Canceled)
}
