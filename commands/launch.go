package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pendulum-chain/pendulum-ops/commands/flags"
	"github.com/pendulum-chain/pendulum-ops/commands/text"
	"github.com/pendulum-chain/pendulum-ops/launch"
)

var (
	launchShort = "Launch a local relay chain and parachain network"

	launchLong = text.LongDesc(`
		Builds the relay chain spec with the parachains registered in its genesis, starts the
		relay chain validators and the collators and supervises them until interrupted or until
		a node exits.

		Binary paths of the topology are resolved against --base-dir. Chain specs and node logs
		are written to a new directory below --work-dir.
	`)

	launchExample = text.Examples(`
		# Launch the built-in topology with binaries in ./bin
		pendulum-ops launch --base-dir .

		# Launch a custom topology
		pendulum-ops launch --topology ./topology.toml
	`)
)

func newLaunchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "launch",
		Short:   launchShort,
		Long:    launchLong,
		Example: launchExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLaunch(cmd, a)
		},
	}

	cmd.Flags().StringP("topology", "t", a.cfg.Settings.Launch.TopologyFile, "TOML topology file, the built-in topology when empty")
	cmd.Flags().String("base-dir", "", "Directory relative binary paths are resolved against")
	cmd.Flags().String("work-dir", a.cfg.Settings.Launch.WorkDir, "Directory the run directory is created in")

	return cmd
}

func runLaunch(cmd *cobra.Command, a *app) error {
	topology := launch.DefaultTopology()
	if path := flags.MustString(cmd.Flags().GetString("topology")); path != "" {
		t, err := launch.LoadTopology(path)
		if err != nil {
			return &ExitError{Code: ExitLaunch, Err: err}
		}
		topology = t
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := a.cfg.Deps.Launch(ctx, launch.Config{
		Topology: topology,
		Logger:   a.lggr,
		BaseDir:  flags.MustString(cmd.Flags().GetString("base-dir")),
		WorkDir:  flags.MustString(cmd.Flags().GetString("work-dir")),
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		a.lggr.Info("Local network stopped")
	}

	return &ExitError{Code: ExitLaunch, Err: err}
}
