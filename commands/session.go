package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pendulum-chain/pendulum-ops/chain/substrate"
	"github.com/pendulum-chain/pendulum-ops/commands/flags"
	"github.com/pendulum-chain/pendulum-ops/governance"
	"github.com/pendulum-chain/pendulum-ops/network"
	"github.com/pendulum-chain/pendulum-ops/pkg/prompt"
)

// session is one connection to a network together with the dispatcher built on it.
type session struct {
	def        network.Definition
	chain      Chain
	prompter   prompt.Prompter
	dispatcher *governance.Dispatcher
}

func (s *session) Close() {
	_ = s.prompter.Close()
	s.chain.Close()
}

// openSession looks up name, connects to it and builds a dispatcher writing its report to the
// command's output.
func (a *app) openSession(ctx context.Context, cmd *cobra.Command, name string, signer *substrate.Keypair) (*session, error) {
	def, err := a.cfg.Networks.Lookup(name)
	if err != nil {
		return nil, newUsageError(err)
	}

	chain, err := a.cfg.Deps.Connect(ctx, def, a.lggr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", name, err)
	}

	p := a.cfg.Deps.Prompter()
	d, err := governance.NewDispatcher(governance.Config{
		Network:  def,
		Chain:    chain,
		Prompter: p,
		Out:      cmd.OutOrStdout(),
		Logger:   a.lggr,
		DryRun:   flags.MustBool(cmd.Flags().GetBool("dry-run")),
		Signer:   signer,
		SubmitOptions: substrate.SubmitOptions{
			WaitForFinalization: flags.MustBool(cmd.Flags().GetBool("finalized")),
		},
	})
	if err != nil {
		_ = p.Close()
		chain.Close()

		return nil, err
	}

	return &session{def: def, chain: chain, prompter: p, dispatcher: d}, nil
}

// parseMode reads the governance flags of cmd for def.
func parseMode(cmd *cobra.Command, def network.Definition) (governance.Mode, error) {
	mode, err := governance.ParseMode(flags.MustString(cmd.Flags().GetString("mode")), def)
	if err != nil {
		return nil, newUsageError(err)
	}

	d, ok := mode.(governance.Democracy)
	if !ok {
		return mode, nil
	}

	kind, err := governance.ParseProposalKind(flags.MustString(cmd.Flags().GetString("proposal")))
	if err != nil {
		return nil, newUsageError(err)
	}
	d.Kind = kind
	d.Deposit = def.UnitAmount(flags.MustUint64(cmd.Flags().GetUint64("deposit")))
	d.Submit = flags.MustBool(cmd.Flags().GetBool("submit-proposal"))

	return d, nil
}

// parseCallArg decodes a hex encoded call given on the command line.
func parseCallArg(arg string) (substrate.Call, error) {
	call, err := substrate.ParseCall(arg)
	if err != nil {
		return substrate.Call{}, newUsageError(err)
	}

	return call, nil
}
