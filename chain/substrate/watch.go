package substrate

import (
	"context"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
)

// Inclusion describes where a submitted extrinsic ended up.
type Inclusion struct {
	ExtrinsicHash types.Hash
	BlockHash     types.Hash
	Finalized     bool
}

// SubmitOptions tune the status watch of a submission.
type SubmitOptions struct {
	// WaitForFinalization keeps watching after the extrinsic is in a block until it is
	// finalized. By default the watch resolves on inclusion.
	WaitForFinalization bool
}

// failureCheck inspects the block an extrinsic was included in and returns the dispatch
// error it produced, if any.
type failureCheck func(blockHash types.Hash) (*DispatchError, error)

// watchStatus consumes extrinsic status updates until the extrinsic is included (or finalized
// when requested), dropped, or the context ends.
func watchStatus(
	ctx context.Context,
	lggr logger.Logger,
	statuses <-chan types.ExtrinsicStatus,
	errs <-chan error,
	check failureCheck,
	describe func(DispatchError) string,
	opts SubmitOptions,
) (Inclusion, error) {
	var inc Inclusion
	for {
		select {
		case <-ctx.Done():
			return inc, ctx.Err()
		case err, ok := <-errs:
			if !ok {
				return inc, fmt.Errorf("%w: subscription closed", ErrTransactionDropped)
			}

			return inc, fmt.Errorf("subscription failed: %w", err)
		case status, ok := <-statuses:
			if !ok {
				return inc, fmt.Errorf("%w: subscription closed", ErrTransactionDropped)
			}

			switch {
			case status.IsReady:
				lggr.Debug("Transaction ready")
			case status.IsBroadcast:
				lggr.Debugw("Transaction broadcast", "peers", len(status.AsBroadcast))
			case status.IsInBlock:
				inc.BlockHash = status.AsInBlock
				if dErr, err := check(status.AsInBlock); err != nil {
					lggr.Warnw("Unable to check dispatch result", "block", status.AsInBlock.Hex(), "err", err)
				} else if dErr != nil {
					msg := describe(*dErr)
					lggr.Errorw("Dispatch failed", "block", status.AsInBlock.Hex(), "error", msg)

					return inc, fmt.Errorf("%w: %s", ErrDispatchFailed, msg)
				}
				lggr.Infow("Success: transaction in block", "block", status.AsInBlock.Hex())
				if !opts.WaitForFinalization {
					return inc, nil
				}
			case status.IsRetracted:
				lggr.Warnw("Block retracted", "block", status.AsRetracted.Hex())
			case status.IsFinalityTimeout:
				lggr.Warnw("Finality timeout", "block", status.AsFinalityTimeout.Hex())
			case status.IsFinalized:
				inc.BlockHash = status.AsFinalized
				inc.Finalized = true
				lggr.Infow("Transaction finalized", "block", status.AsFinalized.Hex())

				return inc, nil
			case status.IsUsurped:
				return inc, fmt.Errorf("%w: usurped by %s", ErrTransactionDropped, status.AsUsurped.Hex())
			case status.IsDropped:
				return inc, fmt.Errorf("%w: dropped from the pool", ErrTransactionDropped)
			case status.IsInvalid:
				return inc, fmt.Errorf("%w: invalid", ErrTransactionDropped)
			}
		}
	}
}
