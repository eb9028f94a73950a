// Package xcm encodes the subset of XCM v2 used to execute calls on the relay chain from a
// parachain.
package xcm

import (
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

const (
	versionedLocationV2 = 1
	versionedXcmV2      = 2

	junctionParachain = 0

	assetIDConcrete   = 0
	fungibilityAmount = 0

	multiAssetFilterWild = 1
	wildAll              = 0

	weightLimitUnlimited = 0
	weightLimitLimited   = 1
)

// OriginKind is the origin a Transact call is dispatched with.
type OriginKind uint8

const (
	OriginNative OriginKind = iota
	OriginSovereignAccount
	OriginSuperuser
	OriginXcm
)

// Junction is a parachain interior location item. Other junction kinds are not needed.
type Junction struct {
	Parachain uint32
}

// Encode implements scale.Encodeable.
func (j Junction) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(junctionParachain); err != nil {
		return err
	}

	return encoder.Encode(types.NewUCompactFromUInt(uint64(j.Parachain)))
}

// Junctions is the interior of a location. The variant index equals the number of junctions,
// so an empty value encodes as Here.
type Junctions []Junction

// Encode implements scale.Encodeable.
func (js Junctions) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(byte(len(js))); err != nil {
		return err
	}
	for _, j := range js {
		if err := j.Encode(encoder); err != nil {
			return err
		}
	}

	return nil
}

// MultiLocation is a relative location in the consensus system.
type MultiLocation struct {
	Parents  uint8
	Interior Junctions
}

// Encode implements scale.Encodeable.
func (l MultiLocation) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(l.Parents); err != nil {
		return err
	}

	return l.Interior.Encode(encoder)
}

// Here is the location of the chain itself.
func Here() MultiLocation {
	return MultiLocation{}
}

// Parent is the relay chain, seen from a parachain.
func Parent() MultiLocation {
	return MultiLocation{Parents: 1}
}

// Parachain is a child parachain, seen from the relay chain.
func Parachain(id uint32) MultiLocation {
	return MultiLocation{Interior: Junctions{{Parachain: id}}}
}

// VersionedMultiLocation tags a location as XCM v2.
type VersionedMultiLocation struct {
	V2 MultiLocation
}

// Encode implements scale.Encodeable.
func (v VersionedMultiLocation) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(versionedLocationV2); err != nil {
		return err
	}

	return v.V2.Encode(encoder)
}

// MultiAsset is a fungible amount of a concretely identified asset.
type MultiAsset struct {
	ID     MultiLocation
	Amount *big.Int
}

// Encode implements scale.Encodeable.
func (a MultiAsset) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(assetIDConcrete); err != nil {
		return err
	}
	if err := a.ID.Encode(encoder); err != nil {
		return err
	}
	if err := encoder.PushByte(fungibilityAmount); err != nil {
		return err
	}

	amount := a.Amount
	if amount == nil {
		amount = new(big.Int)
	}

	return encoder.Encode(types.NewUCompact(amount))
}

// WeightLimit bounds the weight bought by BuyExecution. A nil limit is Unlimited.
type WeightLimit struct {
	Limit *uint64
}

// Encode implements scale.Encodeable.
func (w WeightLimit) Encode(encoder scale.Encoder) error {
	if w.Limit == nil {
		return encoder.PushByte(weightLimitUnlimited)
	}
	if err := encoder.PushByte(weightLimitLimited); err != nil {
		return err
	}

	return encoder.Encode(types.NewUCompactFromUInt(*w.Limit))
}

// Instruction is a single XCM v2 instruction.
type Instruction interface {
	scale.Encodeable
	opcode() byte
}

// WithdrawAsset moves assets from the origin into the holding register.
type WithdrawAsset struct {
	Assets []MultiAsset
}

func (WithdrawAsset) opcode() byte { return 0 }

// Encode implements scale.Encodeable.
func (i WithdrawAsset) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(i.opcode()); err != nil {
		return err
	}

	return encoder.Encode(i.Assets)
}

// Transact dispatches an encoded call with the given origin.
type Transact struct {
	OriginType          OriginKind
	RequireWeightAtMost uint64
	Call                []byte
}

func (Transact) opcode() byte { return 6 }

// Encode implements scale.Encodeable.
func (i Transact) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(i.opcode()); err != nil {
		return err
	}
	if err := encoder.PushByte(byte(i.OriginType)); err != nil {
		return err
	}
	if err := encoder.Encode(types.NewUCompactFromUInt(i.RequireWeightAtMost)); err != nil {
		return err
	}

	return encoder.Encode(i.Call)
}

// DepositAsset deposits all assets left in holding to the beneficiary.
type DepositAsset struct {
	MaxAssets   uint32
	Beneficiary MultiLocation
}

func (DepositAsset) opcode() byte { return 13 }

// Encode implements scale.Encodeable.
func (i DepositAsset) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(i.opcode()); err != nil {
		return err
	}
	if err := encoder.Write([]byte{multiAssetFilterWild, wildAll}); err != nil {
		return err
	}
	if err := encoder.Encode(types.NewUCompactFromUInt(uint64(i.MaxAssets))); err != nil {
		return err
	}

	return i.Beneficiary.Encode(encoder)
}

// BuyExecution pays for the execution of the rest of the message.
type BuyExecution struct {
	Fees        MultiAsset
	WeightLimit WeightLimit
}

func (BuyExecution) opcode() byte { return 19 }

// Encode implements scale.Encodeable.
func (i BuyExecution) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(i.opcode()); err != nil {
		return err
	}
	if err := i.Fees.Encode(encoder); err != nil {
		return err
	}

	return i.WeightLimit.Encode(encoder)
}

// RefundSurplus returns unused weight fees to holding.
type RefundSurplus struct{}

func (RefundSurplus) opcode() byte { return 20 }

// Encode implements scale.Encodeable.
func (i RefundSurplus) Encode(encoder scale.Encoder) error {
	return encoder.PushByte(i.opcode())
}

// VersionedXcm tags a message as XCM v2.
type VersionedXcm struct {
	V2 []Instruction
}

// Encode implements scale.Encodeable.
func (v VersionedXcm) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(versionedXcmV2); err != nil {
		return err
	}
	if err := encoder.Encode(types.NewUCompactFromUInt(uint64(len(v.V2)))); err != nil {
		return err
	}
	for _, instr := range v.V2 {
		if err := instr.Encode(encoder); err != nil {
			return err
		}
	}

	return nil
}

// RelayTransact is the message a parachain sends to execute call on the relay chain: withdraw
// maxFee of the relay token from the parachain sovereign account, buy execution with it,
// dispatch the call natively, and deposit what is left back to the sovereign account.
func RelayTransact(paraID uint32, maxFee *big.Int, requireWeightAtMost uint64, call []byte) VersionedXcm {
	fee := MultiAsset{ID: Here(), Amount: maxFee}

	return VersionedXcm{V2: []Instruction{
		WithdrawAsset{Assets: []MultiAsset{fee}},
		BuyExecution{Fees: fee},
		Transact{OriginType: OriginNative, RequireWeightAtMost: requireWeightAtMost, Call: call},
		RefundSurplus{},
		DepositAsset{MaxAssets: 1, Beneficiary: Parachain(paraID)},
	}}
}

// RelayDestination is the versioned location of the relay chain.
func RelayDestination() VersionedMultiLocation {
	return VersionedMultiLocation{V2: Parent()}
}
