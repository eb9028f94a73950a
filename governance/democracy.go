package governance

import (
	"context"
	"fmt"

	"github.com/pendulum-chain/pendulum-ops/chain/substrate"
)

// democracy prints the preimage of call and builds the preimage and proposal calls for m.
// They are submitted, in order, only when m.Submit is set and this is not a dry run.
func (d *Dispatcher) democracy(ctx context.Context, call substrate.Call, m Democracy) error {
	fmt.Fprintf(d.cfg.Out, "Preimage data %s\n", call.Hex())
	fmt.Fprintf(d.cfg.Out, "Preimage hash %s\n", call.Hash().Hex())

	calls, err := d.democracyCalls(call, m)
	if err != nil {
		return err
	}

	if !m.Submit || d.cfg.DryRun {
		d.lggr.Infow("Democracy calls built, not submitting", "count", len(calls))
		return nil
	}

	s, err := d.identify(ctx, "council member", "council member")
	if err != nil {
		return err
	}
	for _, c := range calls {
		if err := d.submit(ctx, c, s); err != nil {
			return err
		}
	}

	return nil
}

// democracyCalls returns the optional note_preimage call followed by the proposal call.
func (d *Dispatcher) democracyCalls(call substrate.Call, m Democracy) ([]substrate.Call, error) {
	b := d.builder()
	lookup := substrate.BoundedLookup{Hash: call.Hash(), Len: uint32(call.Size())}

	var calls []substrate.Call
	if m.NotePreimage {
		note, err := b.NotePreimage(call)
		if err != nil {
			return nil, err
		}
		d.lggr.Infow("Built note preimage call", "call", note.Hex())
		calls = append(calls, note)
	}

	kind := m.Kind
	if kind == "" {
		kind = ExternalMajority
	}

	if kind == Public {
		proposal, err := b.DemocracyPropose(lookup, substrate.CompactBalance{Amount: m.Deposit})
		if err != nil {
			return nil, err
		}
		d.lggr.Infow("Built public proposal call", "call", proposal.Hex())

		return append(calls, proposal), nil
	}

	method, threshold, ok := kind.councilMotion()
	if !ok {
		return nil, fmt.Errorf("unknown proposal kind %q", kind)
	}

	external, err := b.ExternalPropose(method, lookup)
	if err != nil {
		return nil, err
	}
	motion, err := b.CouncilPropose(threshold, external)
	if err != nil {
		return nil, err
	}
	d.lggr.Infow("Built council motion", "kind", string(kind), "threshold", threshold, "call", motion.Hex())

	return append(calls, motion), nil
}
