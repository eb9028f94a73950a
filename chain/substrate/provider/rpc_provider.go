package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/pendulum-chain/pendulum-ops/chain/substrate"
	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
)

// DialFunc opens a connection to a Substrate node.
type DialFunc func(ctx context.Context, url string, lggr logger.Logger) (*substrate.Client, error)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: The websocket URL of the node.
	WSURL string
	// Required: The logger used for connection progress.
	Logger logger.Logger
	// Optional: Connection attempts before giving up. Defaults to 1, since an unreachable
	// endpoint usually means a wrong network name.
	ConnectAttempts uint
	// Optional: Delay between connection attempts. Defaults to 2 seconds.
	ConnectDelay time.Duration
	// Optional: Overrides how connections are opened. Defaults to substrate.Dial.
	Dial DialFunc
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.WSURL == "" {
		return errors.New("websocket url is required")
	}
	if c.Logger == nil {
		return errors.New("logger is required")
	}

	return nil
}

// RPCChainProvider connects to a Substrate node over a websocket.
type RPCChainProvider struct {
	// name identifies the network, e.g. pendulum or the relay chain of pendulum.
	name string

	config RPCChainProviderConfig

	// client is set by Initialize.
	client *substrate.Client
}

// NewRPCChainProvider creates a new RPCChainProvider for the named network.
func NewRPCChainProvider(name string, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		name:   name,
		config: config,
	}
}

// Initialize validates the configuration and connects, retrying as configured.
func (p *RPCChainProvider) Initialize(ctx context.Context) (*substrate.Client, error) {
	if p.client != nil {
		return p.client, nil // Already initialized
	}

	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	dial := p.config.Dial
	if dial == nil {
		dial = substrate.Dial
	}
	attempts := p.config.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}
	delay := p.config.ConnectDelay
	if delay == 0 {
		delay = 2 * time.Second
	}

	lggr := p.config.Logger.Named(p.name)
	lggr.Infow("Connecting", "url", p.config.WSURL)

	client, err := retry.DoWithData(func() (*substrate.Client, error) {
		return dial(ctx, p.config.WSURL, lggr)
	},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			lggr.Warnw("Connection attempt failed", "attempt", attempt+1, "err", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", p.name, err)
	}

	p.client = client

	return p.client, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "Substrate RPC Chain Provider"
}

// Client returns the client created by Initialize.
func (p *RPCChainProvider) Client() *substrate.Client {
	return p.client
}
