package commands

import (
	"github.com/spf13/cobra"

	"github.com/pendulum-chain/pendulum-ops/commands/flags"
	"github.com/pendulum-chain/pendulum-ops/commands/text"
)

var (
	submitShort = "Wrap a call for a governance mode and print or submit it"

	submitLong = text.LongDesc(`
		Decodes a hex encoded runtime call and routes it through the selected governance mode.

		direct prints the call. sudo wraps it in Sudo.sudo_unchecked_weight and proposes that
		through the governance multisig. simpleSudo submits the sudo call with the sudo key.
		multisig proposes the call through the governance multisig. democracy prints the
		preimage and builds the preimage and proposal calls.

		Every mode prints the size, hex and hash of the payload. With --dry-run only addresses
		are asked and nothing is signed or submitted.
	`)

	submitExample = text.Examples(`
		# Propose a call through the foucoco multisig without signing
		pendulum-ops submit foucoco 0x0a0701 --mode multisig --dry-run

		# Submit a sudo call on the local network
		pendulum-ops submit local 0x0a0701 --mode simpleSudo
	`)

	submitForShort = "Sign and submit a call with the key of a given address"

	submitForLong = text.LongDesc(`
		Asks for the secret of address, checks that it derives that address and submits the call
		signed by it without any governance wrapping.
	`)

	submitForExample = text.Examples(`
		# Submit a call signed by a distribution account
		pendulum-ops submit-for amplitude 0x0a0701 6mrdgs7NXnLpVLmnFq5vmDT1Mcn4tH4aH8sHhvzhvtkR6DoG
	`)
)

func newSubmitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submit <network> <call-hex>",
		Short:   submitShort,
		Long:    submitLong,
		Example: submitExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, a, args[0], args[1])
		},
	}

	flags.Governance(cmd, "multisig")
	flags.DryRun(cmd)

	return cmd
}

func runSubmit(cmd *cobra.Command, a *app, name, callHex string) error {
	call, err := parseCallArg(callHex)
	if err != nil {
		return err
	}

	s, err := a.openSession(cmd.Context(), cmd, name, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	mode, err := parseMode(cmd, s.def)
	if err != nil {
		return err
	}

	return s.dispatcher.Dispatch(cmd.Context(), call, mode)
}

func newSubmitForCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submit-for <network> <call-hex> <address>",
		Short:   submitForShort,
		Long:    submitForLong,
		Example: submitForExample,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmitFor(cmd, a, args[0], args[1], args[2])
		},
	}

	cmd.Flags().Bool("finalized", false, "Wait for finalization instead of block inclusion")
	flags.DryRun(cmd)

	return cmd
}

func runSubmitFor(cmd *cobra.Command, a *app, name, callHex, address string) error {
	call, err := parseCallArg(callHex)
	if err != nil {
		return err
	}

	s, err := a.openSession(cmd.Context(), cmd, name, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.dispatcher.SubmitFor(cmd.Context(), call, address)
}
