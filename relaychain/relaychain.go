// Package relaychain builds parachain calls that execute a call on the relay chain through
// XCM.
package relaychain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/pendulum-chain/pendulum-ops/chain/substrate"
	"github.com/pendulum-chain/pendulum-ops/chain/substrate/provider"
	"github.com/pendulum-chain/pendulum-ops/chain/substrate/xcm"
	"github.com/pendulum-chain/pendulum-ops/network"
	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
)

// RelayChain is the relay chain connection used to build and weigh the inner call.
// *substrate.Client satisfies it.
type RelayChain interface {
	Builder() *substrate.Builder
	QueryCallWeight(ctx context.Context, call substrate.Call) (uint64, error)
	Close()
}

var _ RelayChain = (*substrate.Client)(nil)

// ConnectFunc opens a relay chain connection.
type ConnectFunc func(ctx context.Context, url string) (RelayChain, error)

// InnerCallFunc builds the call to execute on the relay chain.
type InnerCallFunc func(relay *substrate.Builder) (substrate.Call, error)

// Config holds the configuration of a Builder.
type Config struct {
	// Required: The parachain the message is sent from.
	Network network.Definition
	// Required: Builds PolkadotXcm.send on the parachain.
	Parachain *substrate.Builder
	// Required
	Logger logger.Logger
	// Optional: Overrides how the relay chain is reached. Defaults to a websocket connection
	// through the Substrate RPC provider.
	Connect ConnectFunc
}

// Validate checks that all required configuration fields are set.
func (c Config) Validate() error {
	var missing []string

	if c.Network.Name == "" {
		missing = append(missing, "Network")
	}
	if c.Parachain == nil {
		missing = append(missing, "Parachain")
	}
	if c.Logger == nil {
		missing = append(missing, "Logger")
	}

	if len(missing) > 0 {
		return errors.New("relaychain.Config: missing required fields: " + strings.Join(missing, ", "))
	}

	return nil
}

// Builder wraps relay chain calls in an XCM envelope sent from the parachain.
type Builder struct {
	cfg  Config
	lggr logger.Logger
}

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lggr := cfg.Logger.Named("relaychain")
	if cfg.Connect == nil {
		cfg.Connect = func(ctx context.Context, url string) (RelayChain, error) {
			p := provider.NewRPCChainProvider(cfg.Network.Name+" relay chain", provider.RPCChainProviderConfig{
				WSURL:  url,
				Logger: cfg.Logger,
			})

			client, err := p.Initialize(ctx)
			if err != nil {
				return nil, err
			}

			return client, nil
		}
	}

	return &Builder{cfg: cfg, lggr: lggr}, nil
}

// Build connects to the relay chain, builds the inner call against its metadata, weighs it and
// returns the unsubmitted PolkadotXcm.send call. maxFee is the amount of relay chain tokens
// withdrawn from the parachain sovereign account to pay for execution. ok is false when the
// network has no relay chain to send to.
func (b *Builder) Build(ctx context.Context, inner InnerCallFunc, maxFee *big.Int) (call substrate.Call, ok bool, err error) {
	def := b.cfg.Network
	if !def.HasRelayChain() {
		b.lggr.Infow("Network has no relay chain, skipping XCM envelope", "network", def.Name)
		return substrate.Call{}, false, nil
	}

	relay, err := b.cfg.Connect(ctx, def.RelayChainWebsocketURL)
	if err != nil {
		return substrate.Call{}, false, err
	}
	defer relay.Close()

	innerCall, err := inner(relay.Builder())
	if err != nil {
		return substrate.Call{}, false, fmt.Errorf("failed to build relay chain call: %w", err)
	}

	weight, err := relay.QueryCallWeight(ctx, innerCall)
	if err != nil {
		return substrate.Call{}, false, err
	}
	b.lggr.Infow("Relay chain call weighed", "call", innerCall.Hex(), "refTime", weight)

	msg := xcm.RelayTransact(*def.ParaID, maxFee, weight, innerCall.Bytes())
	call, err = b.cfg.Parachain.XcmSend(xcm.RelayDestination(), msg)
	if err != nil {
		return substrate.Call{}, false, err
	}

	return call, true, nil
}

// RawCall returns an InnerCallFunc for a call that is already encoded for the relay chain.
func RawCall(call substrate.Call) InnerCallFunc {
	return func(*substrate.Builder) (substrate.Call, error) {
		return call, nil
	}
}
