package substrate

import (
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// Weight is the two dimensional sp_weights::Weight. Both dimensions are compact encoded.
type Weight struct {
	RefTime   types.UCompact
	ProofSize types.UCompact
}

// NewWeight returns a Weight of refTime picoseconds and proofSize bytes.
func NewWeight(refTime, proofSize uint64) Weight {
	return Weight{
		RefTime:   types.NewUCompactFromUInt(refTime),
		ProofSize: types.NewUCompactFromUInt(proofSize),
	}
}

// RefTimeUint64 returns the ref time dimension.
func (w Weight) RefTimeUint64() uint64 {
	return (*big.Int)(&w.RefTime).Uint64()
}

// ProofSizeUint64 returns the proof size dimension.
func (w Weight) ProofSizeUint64() uint64 {
	return (*big.Int)(&w.ProofSize).Uint64()
}

// Compact encodes a compact unsigned integer argument.
type Compact uint64

// Encode implements scale.Encodeable.
func (c Compact) Encode(encoder scale.Encoder) error {
	return encoder.Encode(types.NewUCompactFromUInt(uint64(c)))
}

// CompactBalance encodes a compact u128 balance argument.
type CompactBalance struct {
	Amount *big.Int
}

// Encode implements scale.Encodeable.
func (c CompactBalance) Encode(encoder scale.Encoder) error {
	amount := c.Amount
	if amount == nil {
		amount = new(big.Int)
	}

	return encoder.Encode(types.NewUCompact(amount))
}

// noTimepoint encodes Option<Timepoint>::None, used when a multisig operation is first
// created.
type noTimepoint struct{}

// Encode implements scale.Encodeable.
func (noTimepoint) Encode(encoder scale.Encoder) error {
	return encoder.PushByte(0)
}

// BoundedLookup encodes frame_support::traits::Bounded::Lookup, the reference to a noted
// preimage used by democracy proposals.
type BoundedLookup struct {
	Hash types.Hash
	Len  uint32
}

const boundedLookupVariant = 2

// Encode implements scale.Encodeable.
func (b BoundedLookup) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(boundedLookupVariant); err != nil {
		return err
	}

	if err := encoder.Encode(b.Hash); err != nil {
		return err
	}

	return encoder.Encode(b.Len)
}
