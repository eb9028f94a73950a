package commands

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pendulum-chain/pendulum-ops/commands/flags"
	"github.com/pendulum-chain/pendulum-ops/commands/text"
	"github.com/pendulum-chain/pendulum-ops/network"
	"github.com/pendulum-chain/pendulum-ops/relaychain"
)

var (
	relayCallShort = "Send a relay chain call from the parachain through XCM"

	relayCallLong = text.LongDesc(`
		Wraps a call encoded for the relay chain in an XCM v2 message that withdraws --max-fee
		relay chain tokens from the parachain sovereign account, buys execution, transacts the
		call as the parachain and deposits the surplus back. The resulting PolkadotXcm.send call
		is routed through the selected governance mode.

		The relay chain is queried for the weight of the call.
	`)

	relayCallExample = text.Examples(`
		# Propose a relay chain call through the pendulum multisig without signing
		pendulum-ops relay-call pendulum 0x4603 --max-fee 1.5 --dry-run
	`)
)

func newRelayCallCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "relay-call <network> <relay-call-hex>",
		Short:   relayCallShort,
		Long:    relayCallLong,
		Example: relayCallExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelayCall(cmd, a, args[0], args[1])
		},
	}

	cmd.Flags().String("max-fee", "1", "Relay chain tokens withdrawn to pay for execution, in whole units")
	flags.Governance(cmd, "multisig")
	flags.DryRun(cmd)

	return cmd
}

func runRelayCall(cmd *cobra.Command, a *app, name, callHex string) error {
	inner, err := parseCallArg(callHex)
	if err != nil {
		return err
	}

	s, err := a.openSession(cmd.Context(), cmd, name, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	maxFee, err := relayAmount(s.def, flags.MustString(cmd.Flags().GetString("max-fee")))
	if err != nil {
		return newUsageError(err)
	}

	mode, err := parseMode(cmd, s.def)
	if err != nil {
		return err
	}

	b, err := relaychain.NewBuilder(relaychain.Config{
		Network:   s.def,
		Parachain: s.chain.Builder(),
		Logger:    a.lggr,
		Connect:   a.cfg.Deps.ConnectRelay,
	})
	if err != nil {
		return err
	}

	call, ok, err := b.Build(cmd.Context(), relaychain.RawCall(inner), maxFee)
	if err != nil {
		return err
	}
	if !ok {
		return newUsageError(fmt.Errorf("network %s has no relay chain", name))
	}

	return s.dispatcher.Dispatch(cmd.Context(), call, mode)
}

// relayAmount converts an amount of whole relay chain tokens to the relay chain's smallest
// denomination.
func relayAmount(def network.Definition, amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q: must not be negative", amount)
	}

	unit := def.RelayChainUnit
	if unit == 0 {
		unit = def.Unit
	}
	planck := d.Mul(decimal.NewFromBigInt(new(big.Int).SetUint64(unit), 0))
	if !planck.Equal(planck.Truncate(0)) {
		return nil, fmt.Errorf("invalid amount %q: finer than the smallest denomination", amount)
	}

	return planck.BigInt(), nil
}
