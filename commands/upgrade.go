package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pendulum-chain/pendulum-ops/chain/substrate"
	"github.com/pendulum-chain/pendulum-ops/commands/flags"
	"github.com/pendulum-chain/pendulum-ops/commands/text"
	"github.com/pendulum-chain/pendulum-ops/upgrade"
)

var (
	authorizeUpgradeShort = "Authorize a parachain runtime upgrade"

	authorizeUpgradeLong = text.LongDesc(`
		Hashes a compiled runtime blob with blake2b-256 and dispatches
		ParachainSystem.authorize_upgrade for that hash through the selected governance mode.

		The wasm file defaults to <NETWORK>_WASM_FILE. When <NETWORK>_SEED is set it signs live
		submissions instead of a secret entered at the prompt.
	`)

	authorizeUpgradeExample = text.Examples(`
		# Propose the upgrade through democracy without submitting
		pendulum-ops authorize-upgrade amplitude ./amplitude_runtime.compact.compressed.wasm

		# Authorize the upgrade on the local network with the sudo key
		LOCAL_SEED=//Alice pendulum-ops authorize-upgrade local runtime.wasm --mode simpleSudo
	`)
)

func newAuthorizeUpgradeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "authorize-upgrade <network> [wasm-file]",
		Short:   authorizeUpgradeShort,
		Long:    authorizeUpgradeLong,
		Example: authorizeUpgradeExample,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var wasmFile string
			if len(args) > 1 {
				wasmFile = args[1]
			}

			return runAuthorizeUpgrade(cmd, a, args[0], wasmFile)
		},
	}

	flags.Governance(cmd, "democracy")
	flags.DryRun(cmd)

	return cmd
}

func runAuthorizeUpgrade(cmd *cobra.Command, a *app, name, wasmFile string) error {
	secrets := a.cfg.Settings.Upgrade.For(name)
	if wasmFile == "" {
		wasmFile = secrets.WasmFile
	}
	if wasmFile == "" {
		return newUsageError(errors.New("no wasm file given and none configured for " + name))
	}

	def, err := a.cfg.Networks.Lookup(name)
	if err != nil {
		return newUsageError(err)
	}

	var signer *substrate.Keypair
	if secrets.Seed != "" && !flags.MustBool(cmd.Flags().GetBool("dry-run")) {
		kp, kpErr := substrate.KeypairFromSecret(secrets.Seed, def.SS58Prefix)
		if kpErr != nil {
			return fmt.Errorf("invalid seed configured for %s: %w", name, kpErr)
		}
		signer = &kp
	}

	s, err := a.openSession(cmd.Context(), cmd, name, signer)
	if err != nil {
		return err
	}
	defer s.Close()

	mode, err := parseMode(cmd, s.def)
	if err != nil {
		return err
	}

	authorizer, err := upgrade.NewAuthorizer(upgrade.Config{
		Builder:    s.chain.Builder(),
		Dispatcher: s.dispatcher,
		Logger:     a.lggr,
	})
	if err != nil {
		return err
	}

	hash, err := authorizer.Run(cmd.Context(), wasmFile, mode)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Runtime code hash: %s\n", hash.Hex())

	return nil
}
