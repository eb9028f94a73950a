package substrate

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/retriever"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/state"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
)

const extrinsicFailedEvent = "System.ExtrinsicFailed"

// Client is a connection to a Substrate node with the metadata and runtime version captured
// at connect time.
type Client struct {
	URL string

	api         *gsrpc.SubstrateAPI
	meta        *types.Metadata
	genesisHash types.Hash
	runtime     *types.RuntimeVersion
	lggr        logger.Logger
}

// Dial connects to the websocket endpoint at url and fetches the metadata, genesis hash and
// runtime version. The handshake itself cannot be cancelled by gsrpc, so Dial stops waiting
// when ctx ends and closes the connection once the abandoned attempt completes.
func Dial(ctx context.Context, url string, lggr logger.Logger) (*Client, error) {
	type result struct {
		client *Client
		err    error
	}

	done := make(chan result, 1)
	go func() {
		c, err := dial(url, lggr)
		done <- result{c, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-done; r.client != nil {
				r.client.Close()
			}
		}()

		return nil, fmt.Errorf("connect to %s: %w", url, ctx.Err())
	case r := <-done:
		return r.client, r.err
	}
}

func dial(url string, lggr logger.Logger) (*Client, error) {
	api, err := gsrpc.NewSubstrateAPI(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	meta, err := api.RPC.State.GetMetadataLatest()
	if err != nil {
		api.Client.Close()
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}

	genesisHash, err := api.RPC.Chain.GetBlockHash(0)
	if err != nil {
		api.Client.Close()
		return nil, fmt.Errorf("failed to fetch genesis hash: %w", err)
	}

	rv, err := api.RPC.State.GetRuntimeVersionLatest()
	if err != nil {
		api.Client.Close()
		return nil, fmt.Errorf("failed to fetch runtime version: %w", err)
	}

	lggr.Infow("Connected", "url", url, "specVersion", rv.SpecVersion)

	return &Client{
		URL:         url,
		api:         api,
		meta:        meta,
		genesisHash: genesisHash,
		runtime:     rv,
		lggr:        lggr,
	}, nil
}

// Builder returns a call builder resolving indexes from the chain metadata.
func (c *Client) Builder() *Builder {
	return NewBuilder(c.meta)
}

// Errors returns the module error lookup of the chain metadata.
func (c *Client) Errors() ErrorLookup {
	return MetadataErrors(c.meta)
}

// Close terminates the connection.
func (c *Client) Close() {
	c.api.Client.Close()
}

// Submit signs call with signer, submits it and watches its status until inclusion, or
// finalization when requested.
func (c *Client) Submit(ctx context.Context, call Call, signer Keypair, opts SubmitOptions) (Inclusion, error) {
	nonce, err := callContext[uint32](ctx, c.api.Client, "system_accountNextIndex", signer.Address)
	if err != nil {
		return Inclusion{}, fmt.Errorf("failed to fetch nonce of %s: %w", signer.Address, err)
	}

	ext := types.NewExtrinsic(call.TypesCall())
	err = ext.Sign(signer, types.SignatureOptions{
		BlockHash:          c.genesisHash,
		Era:                types.ExtrinsicEra{IsMortalEra: false},
		GenesisHash:        c.genesisHash,
		Nonce:              types.NewUCompactFromUInt(uint64(nonce)),
		SpecVersion:        c.runtime.SpecVersion,
		Tip:                types.NewUCompactFromUInt(0),
		TransactionVersion: c.runtime.TransactionVersion,
	})
	if err != nil {
		return Inclusion{}, fmt.Errorf("failed to sign extrinsic: %w", err)
	}

	encoded, err := codec.Encode(ext)
	if err != nil {
		return Inclusion{}, fmt.Errorf("failed to encode extrinsic: %w", err)
	}
	extHash := types.NewHash(HashBytes(encoded))

	sub, err := c.api.RPC.Author.SubmitAndWatchExtrinsic(ext)
	if err != nil {
		return Inclusion{}, fmt.Errorf("failed to submit extrinsic: %w", err)
	}
	defer sub.Unsubscribe()

	c.lggr.Infow("Submitted", "signer", signer.Address, "nonce", nonce, "extrinsic", extHash.Hex())

	errs := c.Errors()
	inc, err := watchStatus(ctx, c.lggr, sub.Chan(), sub.Err(),
		func(blockHash types.Hash) (*DispatchError, error) {
			return c.dispatchFailure(blockHash, extHash)
		},
		func(e DispatchError) string { return e.Describe(errs) },
		opts,
	)
	inc.ExtrinsicHash = extHash

	return inc, err
}

// dispatchFailure finds the extrinsic in the block and returns its dispatch error, nil when
// it succeeded.
func (c *Client) dispatchFailure(blockHash, extHash types.Hash) (*DispatchError, error) {
	block, err := c.api.RPC.Chain.GetBlock(blockHash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch block: %w", err)
	}

	position := -1
	for i, ext := range block.Block.Extrinsics {
		encoded, encErr := codec.Encode(ext)
		if encErr != nil {
			return nil, fmt.Errorf("failed to encode extrinsic %d: %w", i, encErr)
		}
		if types.NewHash(HashBytes(encoded)) == extHash {
			position = i
			break
		}
	}
	if position < 0 {
		return nil, errors.New("extrinsic not found in block")
	}

	r, err := retriever.NewDefaultEventRetriever(state.NewEventProvider(c.api.RPC.State), c.api.RPC.State)
	if err != nil {
		return nil, fmt.Errorf("failed to create event retriever: %w", err)
	}

	events, err := r.GetEvents(blockHash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	for _, event := range events {
		if event.Name != extrinsicFailedEvent || event.Phase == nil {
			continue
		}
		if !event.Phase.IsApplyExtrinsic || int(event.Phase.AsApplyExtrinsic) != position {
			continue
		}

		var dErr DispatchError
		if len(event.Fields) > 0 {
			dErr = ParseDispatchError(event.Fields[0].Value)
		} else {
			dErr = DispatchError{Raw: "unknown"}
		}

		return &dErr, nil
	}

	return nil, nil
}

// QueryCallWeight returns the ref time weight the runtime charges for call, using the
// TransactionPaymentCallApi runtime API.
func (c *Client) QueryCallWeight(ctx context.Context, call Call) (uint64, error) {
	args := binary.LittleEndian.AppendUint32(call.Bytes(), uint32(call.Size()))

	res, err := callContext[string](ctx, c.api.Client, "state_call", "TransactionPaymentCallApi_query_call_info", hexutil.Encode(args))
	if err != nil {
		return 0, fmt.Errorf("failed to query call info: %w", err)
	}

	w, err := DecodeCallInfoWeight(res)
	if err != nil {
		return 0, err
	}

	return w.RefTimeUint64(), nil
}

// DecodeCallInfoWeight decodes the leading weight of a hex encoded RuntimeDispatchInfo.
func DecodeCallInfoWeight(hexInfo string) (Weight, error) {
	bz, err := hexutil.Decode(hexInfo)
	if err != nil {
		return Weight{}, fmt.Errorf("invalid call info: %w", err)
	}

	var w Weight
	if err := codec.Decode(bz, &w); err != nil {
		return Weight{}, fmt.Errorf("failed to decode call info weight: %w", err)
	}

	return w, nil
}

// caller is the request side of the gsrpc client.
type caller interface {
	Call(result any, method string, args ...any) error
}

// callContext performs an RPC request and stops waiting for it when ctx ends. The gsrpc
// client offers no cancellable call, so an abandoned request completes in the background and
// its result is discarded.
func callContext[T any](ctx context.Context, c caller, method string, args ...any) (T, error) {
	type result struct {
		value T
		err   error
	}

	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	done := make(chan result, 1)
	go func() {
		var v T
		err := c.Call(&v, method, args...)
		done <- result{v, err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%s: %w", method, ctx.Err())
	case r := <-done:
		return r.value, r.err
	}
}
