package substrate

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vedhavyas/go-subkey/v2"
)

// AccountID is a 32 byte sr25519 public key.
type AccountID [32]byte

// DecodeAddress parses an SS58 address or a 0x prefixed 32 byte public key.
func DecodeAddress(address string) (AccountID, error) {
	var id AccountID

	address = strings.TrimSpace(address)
	if address == "" {
		return id, errors.New("address is empty")
	}

	if strings.HasPrefix(address, "0x") {
		b, err := hexutil.Decode(address)
		if err != nil {
			return id, fmt.Errorf("invalid public key %s: %w", address, err)
		}

		return AccountIDFromBytes(b)
	}

	_, pub, err := subkey.SS58Decode(address)
	if err != nil {
		return id, fmt.Errorf("invalid address %s: %w", address, err)
	}

	return AccountIDFromBytes(pub)
}

// AccountIDFromBytes copies a 32 byte public key.
func AccountIDFromBytes(b []byte) (AccountID, error) {
	var id AccountID
	if len(b) != len(id) {
		return id, fmt.Errorf("public key must be %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)

	return id, nil
}

// Hex returns the lower case hex encoding without prefix. Multisig signatories are ordered by
// this value.
func (a AccountID) Hex() string {
	return hex.EncodeToString(a[:])
}

// SS58 encodes the account for the network with the given prefix.
func (a AccountID) SS58(prefix uint16) string {
	return subkey.SS58Encode(a[:], prefix)
}

// String implements fmt.Stringer.
func (a AccountID) String() string {
	return "0x" + a.Hex()
}
