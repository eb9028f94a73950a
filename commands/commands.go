// Package commands provides the pendulum-ops command tree.
//
//	root, err := commands.NewCommand(commands.Config{
//	    Logger:   lggr,
//	    Settings: settings,
//	    Networks: networks,
//	    Deps:     commands.Deps{...}, // inject fakes for testing
//	})
//	if err != nil {
//	    return err
//	}
//	err = root.Execute()
//	os.Exit(commands.ExitCode(err))
package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/pendulum-chain/pendulum-ops/commands/text"
	"github.com/pendulum-chain/pendulum-ops/config"
	"github.com/pendulum-chain/pendulum-ops/network"
	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
)

var (
	rootShort = "Governance and operations tooling for the Pendulum parachains"

	rootLong = text.LongDesc(`
		Builds, wraps and submits governance calls for the local, foucoco, amplitude and pendulum
		networks, authorizes runtime upgrades, sends calls to the relay chain through XCM and
		launches a local relay chain and parachain network.

		Secrets are read from the terminal unless configured through the environment.
	`)
)

// Config holds the configuration of the command tree.
type Config struct {
	// Logger is the logger to use for command output. Required.
	Logger logger.Logger

	// Settings is the file and environment configuration. Required.
	Settings *config.Config

	// Networks holds the network definitions with their signatory sets attached. Required.
	Networks *network.Config

	// Deps holds optional dependencies that can be overridden.
	// If fields are nil, production defaults are used.
	Deps Deps
}

// Validate checks that all required configuration fields are set.
func (c Config) Validate() error {
	var missing []string

	if c.Logger == nil {
		missing = append(missing, "Logger")
	}
	if c.Settings == nil {
		missing = append(missing, "Settings")
	}
	if c.Networks == nil {
		missing = append(missing, "Networks")
	}

	if len(missing) > 0 {
		return errors.New("commands.Config: missing required fields: " + strings.Join(missing, ", "))
	}

	return nil
}

// deps returns the Deps with defaults applied.
func (c *Config) deps() *Deps {
	c.Deps.applyDefaults()

	return &c.Deps
}

// app is shared by the subcommands. The logger is replaced when --log-level is given.
type app struct {
	cfg  Config
	lggr logger.Logger
}

// NewCommand creates the root pendulum-ops command with all subcommands.
func NewCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.deps()
	a := &app{cfg: cfg, lggr: cfg.Logger}

	cmd := &cobra.Command{
		Use:           "pendulum-ops",
		Short:         rootShort,
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("log-level") {
				return nil
			}

			return a.setLogLevel(cmd.Flag("log-level").Value.String())
		},
	}

	cmd.PersistentFlags().String("log-level", cfg.Settings.LogLevel, "Log level: debug, info, warn or error")

	cmd.AddCommand(newNetworksCmd(a))
	cmd.AddCommand(newSubmitCmd(a))
	cmd.AddCommand(newSubmitForCmd(a))
	cmd.AddCommand(newAuthorizeUpgradeCmd(a))
	cmd.AddCommand(newRelayCallCmd(a))
	cmd.AddCommand(newLaunchCmd(a))

	return cmd, nil
}

func (a *app) setLogLevel(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return newUsageError(fmt.Errorf("invalid log level: %w", err))
	}

	lggr, err := a.cfg.Deps.NewLogger(lvl)
	if err != nil {
		return err
	}
	a.lggr = lggr

	return nil
}

// LoadNetworks loads the network definitions for settings: the built-in definitions, the
// optional networks manifest and the signatory sets. A missing signatories file is logged and
// skipped since only the multisig modes need it.
func LoadNetworks(settings *config.Config, lggr logger.Logger) (*network.Config, error) {
	var manifests []string
	if settings.NetworksFile != "" {
		manifests = append(manifests, settings.NetworksFile)
	}

	networks, err := network.Load(manifests...)
	if err != nil {
		return nil, err
	}

	if settings.SignatoriesFile == "" {
		return networks, nil
	}
	if _, err := os.Stat(settings.SignatoriesFile); errors.Is(err, os.ErrNotExist) {
		lggr.Warnw("Signatories file not found, multisig modes are unavailable", "file", settings.SignatoriesFile)
		return networks, nil
	}

	sigs, err := network.LoadSignatories(settings.SignatoriesFile)
	if err != nil {
		return nil, err
	}
	if err := networks.AttachSignatories(sigs); err != nil {
		return nil, err
	}

	return networks, nil
}
