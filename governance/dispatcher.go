// Package governance wraps runtime calls for the governance mode of a network and either
// prints them for review or signs and submits them.
package governance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pendulum-chain/pendulum-ops/chain/substrate"
	"github.com/pendulum-chain/pendulum-ops/network"
	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
	"github.com/pendulum-chain/pendulum-ops/pkg/prompt"
)

// ErrKeyMismatch is returned when the secret entered for an address derives another address.
var ErrKeyMismatch = errors.New("incorrect private key for address")

var (
	// Weight given to sudo_unchecked_weight. The sudo pallet skips the weight check.
	sudoWeight = substrate.NewWeight(0, 0)
	// Max weight of the call executed once the multisig threshold is reached.
	multisigMaxWeight = substrate.NewWeight(1_000_000_000, 100_000)
)

// Chain is the connection the dispatcher builds and submits calls with. *substrate.Client
// satisfies it.
type Chain interface {
	Builder() *substrate.Builder
	Submit(ctx context.Context, call substrate.Call, signer substrate.Keypair, opts substrate.SubmitOptions) (substrate.Inclusion, error)
}

var _ Chain = (*substrate.Client)(nil)

// Config holds the configuration of a Dispatcher.
type Config struct {
	// Required: The network the calls are meant for.
	Network network.Definition
	// Required: The chain connection.
	Chain Chain
	// Required: Asks the operator for addresses and secrets.
	Prompter prompt.Prompter
	// Required: Receives the payload report.
	Out io.Writer
	// Required
	Logger logger.Logger

	// DryRun prints payloads instead of submitting them. Addresses are asked instead of
	// secrets.
	DryRun bool
	// Signer, when set, signs live submissions instead of a secret entered at the prompt.
	Signer *substrate.Keypair
	// SubmitOptions tune the status watch of submissions.
	SubmitOptions substrate.SubmitOptions
}

// Validate checks that all required configuration fields are set.
func (c Config) Validate() error {
	var missing []string

	if c.Network.Name == "" {
		missing = append(missing, "Network")
	}
	if c.Chain == nil {
		missing = append(missing, "Chain")
	}
	if c.Prompter == nil {
		missing = append(missing, "Prompter")
	}
	if c.Out == nil {
		missing = append(missing, "Out")
	}
	if c.Logger == nil {
		missing = append(missing, "Logger")
	}

	if len(missing) > 0 {
		return errors.New("governance.Config: missing required fields: " + strings.Join(missing, ", "))
	}

	return nil
}

// Dispatcher routes calls through a governance mode.
type Dispatcher struct {
	cfg  Config
	lggr logger.Logger
}

// NewDispatcher returns a Dispatcher for cfg.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Dispatcher{
		cfg:  cfg,
		lggr: cfg.Logger.Named("governance"),
	}, nil
}

// Dispatch wraps call for mode and prints or submits the result.
func (d *Dispatcher) Dispatch(ctx context.Context, call substrate.Call, mode Mode) error {
	d.lggr.Infow("Dispatching call", "network", d.cfg.Network.Name, "mode", mode.Name(), "dryRun", d.cfg.DryRun)

	switch m := mode.(type) {
	case Direct:
		d.report(call)
		return nil
	case Sudo:
		sudoCall, err := d.builder().SudoUncheckedWeight(call, sudoWeight)
		if err != nil {
			return err
		}
		s, err := d.identify(ctx, "sudo signatory", "sudo signatory")
		if err != nil {
			return err
		}

		return d.multisig(ctx, sudoCall, m.Signatories, m.Threshold, s)
	case SimpleSudo:
		sudoCall, err := d.builder().SudoUncheckedWeight(call, sudoWeight)
		if err != nil {
			return err
		}
		s, err := d.identify(ctx, "sudo signatory", "sudo signatory")
		if err != nil {
			return err
		}
		d.report(sudoCall)

		return d.submit(ctx, sudoCall, s)
	case Multisig:
		s, err := d.identify(ctx, "initiating signatory", "multisig account signatory")
		if err != nil {
			return err
		}

		return d.multisig(ctx, call, m.Signatories, m.Threshold, s)
	case Democracy:
		return d.democracy(ctx, call, m)
	default:
		return fmt.Errorf("unsupported governance mode %T", mode)
	}
}

// SubmitFor asks for the secret of address and submits call signed by it. The derived
// address must equal address.
func (d *Dispatcher) SubmitFor(ctx context.Context, call substrate.Call, address string) error {
	secret, err := d.cfg.Prompter.AskSecret(ctx, fmt.Sprintf("Enter the secret mnemonic seed of address %q: ", address))
	if err != nil {
		return err
	}

	kp, err := substrate.KeypairFromSecret(secret, d.cfg.Network.SS58Prefix)
	if err != nil {
		return err
	}
	if kp.Address != address {
		return fmt.Errorf("%w: expected %s, got: %s", ErrKeyMismatch, address, kp.Address)
	}

	id, err := substrate.AccountIDOf(kp)
	if err != nil {
		return err
	}

	d.report(call)

	return d.submit(ctx, call, submitter{account: id, keypair: &kp})
}

func (d *Dispatcher) builder() *substrate.Builder {
	return d.cfg.Chain.Builder()
}

// multisig wraps call in Multisig.as_multi for the signatory set and submits it with s as the
// initiating signatory. The report shows call, which is what the other signatories approve.
func (d *Dispatcher) multisig(ctx context.Context, call substrate.Call, signatories []string, threshold uint16, s submitter) error {
	others, err := OtherSignatories(signatories, s.account)
	if err != nil {
		return err
	}

	multiCall, err := d.builder().AsMulti(threshold, others, call, multisigMaxWeight)
	if err != nil {
		return err
	}

	d.report(call)
	d.lggr.Debugw("Built multisig call", "threshold", threshold, "others", len(others), "call", multiCall.Hex())

	return d.submit(ctx, multiCall, s)
}

// submit signs and submits call unless this is a dry run.
func (d *Dispatcher) submit(ctx context.Context, call substrate.Call, s submitter) error {
	if d.cfg.DryRun {
		d.lggr.Info("Dry run, not submitting")
		return nil
	}
	if s.keypair == nil {
		return errors.New("no signing key for submission")
	}

	inc, err := d.cfg.Chain.Submit(ctx, call, *s.keypair, d.cfg.SubmitOptions)
	if err != nil {
		return err
	}

	d.lggr.Infow("Submission result", "extrinsic", inc.ExtrinsicHash.Hex(), "block", inc.BlockHash.Hex(), "finalized", inc.Finalized)

	return nil
}

// report prints the size, payload and hash of call.
func (d *Dispatcher) report(call substrate.Call) {
	fmt.Fprintf(d.cfg.Out, "Transaction size\n %d\n", call.Size())
	fmt.Fprintf(d.cfg.Out, "Transaction data:\n%s\n", call.Hex())
	fmt.Fprintf(d.cfg.Out, "\n\nTransaction hash: %s\n", call.Hash().Hex())
}

// submitter is the account a wrapped call is submitted from. keypair is nil in a dry run.
type submitter struct {
	account substrate.AccountID
	keypair *substrate.Keypair
}

// identify asks for the address of the submitting role in a dry run, and for its secret
// otherwise. A configured Signer answers without asking.
func (d *Dispatcher) identify(ctx context.Context, dryRunRole, liveRole string) (submitter, error) {
	if d.cfg.Signer != nil && !d.cfg.DryRun {
		return submitterFromKeypair(*d.cfg.Signer)
	}

	if d.cfg.DryRun {
		if d.cfg.Signer != nil {
			id, err := substrate.AccountIDOf(*d.cfg.Signer)
			if err != nil {
				return submitter{}, err
			}

			return submitter{account: id}, nil
		}

		addr, err := d.cfg.Prompter.Ask(ctx, "Enter the address of the "+dryRunRole+": ")
		if err != nil {
			return submitter{}, err
		}
		id, err := substrate.DecodeAddress(addr)
		if err != nil {
			return submitter{}, err
		}

		return submitter{account: id}, nil
	}

	secret, err := d.cfg.Prompter.AskSecret(ctx, "Enter the secret mnemonic seed of the "+liveRole+": ")
	if err != nil {
		return submitter{}, err
	}
	kp, err := substrate.KeypairFromSecret(secret, d.cfg.Network.SS58Prefix)
	if err != nil {
		return submitter{}, err
	}

	return submitterFromKeypair(kp)
}

func submitterFromKeypair(kp substrate.Keypair) (submitter, error) {
	id, err := substrate.AccountIDOf(kp)
	if err != nil {
		return submitter{}, err
	}

	return submitter{account: id, keypair: &kp}, nil
}
