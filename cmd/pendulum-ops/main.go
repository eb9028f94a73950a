// Command pendulum-ops is the governance and operations tool of the Pendulum parachains.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"

	"github.com/pendulum-chain/pendulum-ops/commands"
	"github.com/pendulum-chain/pendulum-ops/config"
	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
)

const defaultConfigFile = "pendulum-ops.yaml"

func main() {
	os.Exit(run())
}

func run() int {
	configFile := os.Getenv("PENDULUM_OPS_CONFIG")
	if configFile == "" {
		configFile = defaultConfigFile
	}

	settings, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return commands.ExitFailure
	}

	lvl, err := zapcore.ParseLevel(settings.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		return commands.ExitFailure
	}

	lggr, err := logger.NewCLILogger(lvl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return commands.ExitFailure
	}
	defer func() { _ = lggr.Sync() }()

	networks, err := commands.LoadNetworks(settings, lggr)
	if err != nil {
		lggr.Errorw("Failed to load networks", "error", err)
		return commands.ExitFailure
	}

	root, err := commands.NewCommand(commands.Config{
		Logger:   lggr,
		Settings: settings,
		Networks: networks,
	})
	if err != nil {
		lggr.Errorw("Failed to build commands", "error", err)
		return commands.ExitFailure
	}

	if err := root.Execute(); err != nil {
		lggr.Error(err)
		return commands.ExitCode(err)
	}

	return commands.ExitOK
}
