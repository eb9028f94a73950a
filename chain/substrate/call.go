package substrate

import (
	"errors"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/blake2b"
)

// Call is a SCALE encoded runtime call: a two byte call index followed by the encoded
// arguments. pendulum-ops never decodes the arguments of a call, it only wraps, hashes and
// submits it.
type Call struct {
	encoded []byte
}

// NewCall wraps an already encoded call.
func NewCall(encoded []byte) (Call, error) {
	if len(encoded) < 2 {
		return Call{}, errors.New("call must hold at least a two byte call index")
	}

	return Call{encoded: append([]byte(nil), encoded...)}, nil
}

// ParseCall decodes a 0x prefixed hex encoded call.
func ParseCall(hexCall string) (Call, error) {
	b, err := hexutil.Decode(hexCall)
	if err != nil {
		return Call{}, fmt.Errorf("invalid call hex: %w", err)
	}

	return NewCall(b)
}

// FromTypesCall encodes a gsrpc call.
func FromTypesCall(c types.Call) (Call, error) {
	b, err := codec.Encode(c)
	if err != nil {
		return Call{}, fmt.Errorf("failed to encode call: %w", err)
	}

	return NewCall(b)
}

// Bytes returns a copy of the encoded call.
func (c Call) Bytes() []byte {
	return append([]byte(nil), c.encoded...)
}

// Size is the encoded length in bytes.
func (c Call) Size() int {
	return len(c.encoded)
}

// Hex returns the 0x prefixed hex encoding.
func (c Call) Hex() string {
	return hexutil.Encode(c.encoded)
}

// Hash returns the blake2b-256 hash of the encoding, the value multisig and preimage pallets
// key calls by.
func (c Call) Hash() types.Hash {
	return types.NewHash(HashBytes(c.encoded))
}

// Index returns the pallet and method index of the call.
func (c Call) Index() types.CallIndex {
	if len(c.encoded) < 2 {
		return types.CallIndex{}
	}

	return types.CallIndex{SectionIndex: c.encoded[0], MethodIndex: c.encoded[1]}
}

// IsZero reports whether c holds no call.
func (c Call) IsZero() bool {
	return len(c.encoded) == 0
}

// Encode writes the call as a nested Box<Call> argument, i.e. without a length prefix.
func (c Call) Encode(encoder scale.Encoder) error {
	return encoder.Write(c.encoded)
}

// TypesCall returns the gsrpc representation used to build extrinsics.
func (c Call) TypesCall() types.Call {
	return types.Call{
		CallIndex: c.Index(),
		Args:      types.Args(c.Bytes()[2:]),
	}
}

// HashBytes returns the blake2b-256 digest of b.
func HashBytes(b []byte) []byte {
	sum := blake2b.Sum256(b)
	return sum[:]
}
