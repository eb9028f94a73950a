package commands

import (
	"context"

	"go.uber.org/zap/zapcore"

	"github.com/pendulum-chain/pendulum-ops/chain/substrate/provider"
	"github.com/pendulum-chain/pendulum-ops/governance"
	"github.com/pendulum-chain/pendulum-ops/launch"
	"github.com/pendulum-chain/pendulum-ops/network"
	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
	"github.com/pendulum-chain/pendulum-ops/pkg/prompt"
	"github.com/pendulum-chain/pendulum-ops/relaychain"
)

// Chain is a parachain connection that calls are built and submitted on.
type Chain interface {
	governance.Chain
	Close()
}

// ConnectFunc opens a connection to the parachain of def.
type ConnectFunc func(ctx context.Context, def network.Definition, lggr logger.Logger) (Chain, error)

// PrompterFunc returns the prompter of one command invocation.
type PrompterFunc func() prompt.Prompter

// LaunchFunc runs a local network until ctx is cancelled or a node exits.
type LaunchFunc func(ctx context.Context, cfg launch.Config) error

// LoggerFunc builds the logger for a --log-level override.
type LoggerFunc func(level zapcore.Level) (logger.Logger, error)

// defaultConnect is the production implementation that dials the network's websocket URL.
func defaultConnect(ctx context.Context, def network.Definition, lggr logger.Logger) (Chain, error) {
	p := provider.NewRPCChainProvider(def.Name, provider.RPCChainProviderConfig{
		WSURL:           def.WebsocketURL,
		Logger:          lggr,
		ConnectAttempts: 3,
	})

	client, err := p.Initialize(ctx)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// defaultPrompter is the production implementation that reads the terminal.
func defaultPrompter() prompt.Prompter {
	return prompt.Stdio()
}

// defaultLaunch is the production implementation that runs a launch.Launcher.
func defaultLaunch(ctx context.Context, cfg launch.Config) error {
	l, err := launch.NewLauncher(cfg)
	if err != nil {
		return err
	}

	return l.Run(ctx)
}

// Deps holds the injectable dependencies of the pendulum-ops commands.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// Connect opens the parachain connection.
	// Default: Substrate RPC provider over the network's websocket URL
	Connect ConnectFunc

	// ConnectRelay opens the relay chain connection of relay-call.
	// Default: the relaychain package default
	ConnectRelay relaychain.ConnectFunc

	// Prompter returns the operator prompt.
	// Default: prompt.Stdio
	Prompter PrompterFunc

	// Launch runs the local network.
	// Default: launch.NewLauncher(cfg).Run
	Launch LaunchFunc

	// NewLogger builds the logger when --log-level is given.
	// Default: logger.NewCLILogger
	NewLogger LoggerFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.Connect == nil {
		d.Connect = defaultConnect
	}
	if d.Prompter == nil {
		d.Prompter = defaultPrompter
	}
	if d.Launch == nil {
		d.Launch = defaultLaunch
	}
	if d.NewLogger == nil {
		d.NewLogger = logger.NewCLILogger
	}
}
