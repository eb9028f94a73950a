package substrate

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
)

// CallIndexResolver resolves "Pallet.call_name" to its call index. *types.Metadata
// satisfies it.
type CallIndexResolver interface {
	FindCallIndex(call string) (types.CallIndex, error)
}

// StaticCallIndexes is a fixed CallIndexResolver, useful when no metadata is at hand.
type StaticCallIndexes map[string]types.CallIndex

// FindCallIndex implements CallIndexResolver.
func (s StaticCallIndexes) FindCallIndex(call string) (types.CallIndex, error) {
	idx, ok := s[call]
	if !ok {
		return types.CallIndex{}, fmt.Errorf("unable to find call %s", call)
	}

	return idx, nil
}

// Builder encodes runtime calls against a chain's call indexes.
type Builder struct {
	resolver CallIndexResolver
}

// NewBuilder returns a Builder resolving call indexes with resolver.
func NewBuilder(resolver CallIndexResolver) *Builder {
	return &Builder{resolver: resolver}
}

// Build encodes the call name with the given SCALE encodable arguments.
func (b *Builder) Build(name string, args ...any) (Call, error) {
	idx, err := b.resolver.FindCallIndex(name)
	if err != nil {
		return Call{}, fmt.Errorf("failed to resolve %s: %w", name, err)
	}

	encoded := []byte{idx.SectionIndex, idx.MethodIndex}
	for i, arg := range args {
		bz, encErr := codec.Encode(arg)
		if encErr != nil {
			return Call{}, fmt.Errorf("failed to encode argument %d of %s: %w", i, name, encErr)
		}
		encoded = append(encoded, bz...)
	}

	return NewCall(encoded)
}

// SudoUncheckedWeight wraps call in Sudo.sudo_unchecked_weight.
func (b *Builder) SudoUncheckedWeight(call Call, weight Weight) (Call, error) {
	return b.Build("Sudo.sudo_unchecked_weight", call, weight)
}

// AsMulti creates or approves a multisig operation for call. others must already be sorted.
// The timepoint is always None, so this only creates new operations.
func (b *Builder) AsMulti(threshold uint16, others []AccountID, call Call, maxWeight Weight) (Call, error) {
	return b.Build("Multisig.as_multi", threshold, others, noTimepoint{}, call, maxWeight)
}

// NotePreimage builds Preimage.note_preimage for the encoded call.
func (b *Builder) NotePreimage(call Call) (Call, error) {
	return b.Build("Preimage.note_preimage", call.Bytes())
}

// DemocracyPropose builds a public Democracy.propose for a noted preimage.
func (b *Builder) DemocracyPropose(proposal BoundedLookup, deposit CompactBalance) (Call, error) {
	return b.Build("Democracy.propose", proposal, deposit)
}

// ExternalPropose builds one of the Democracy.external_propose* calls. method is the call
// name without the pallet, e.g. external_propose_majority.
func (b *Builder) ExternalPropose(method string, proposal BoundedLookup) (Call, error) {
	return b.Build("Democracy."+method, proposal)
}

// CouncilPropose wraps proposal in a Council.propose motion.
func (b *Builder) CouncilPropose(threshold uint32, proposal Call) (Call, error) {
	return b.Build("Council.propose", Compact(threshold), proposal, Compact(proposal.Size()))
}

// AuthorizeUpgrade builds ParachainSystem.authorize_upgrade.
func (b *Builder) AuthorizeUpgrade(codeHash types.Hash, checkVersion bool) (Call, error) {
	return b.Build("ParachainSystem.authorize_upgrade", codeHash, checkVersion)
}

// XcmSend builds PolkadotXcm.send. dest and message are already versioned XCM values.
func (b *Builder) XcmSend(dest, message any) (Call, error) {
	return b.Build("PolkadotXcm.send", dest, message)
}
