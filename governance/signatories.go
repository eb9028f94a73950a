package governance

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pendulum-chain/pendulum-ops/chain/substrate"
)

// ErrNoSignatories is returned when a multisig mode is used on a network without a signatory
// set.
var ErrNoSignatories = errors.New("no signatories configured")

// OtherSignatories returns the signatory set without the submitter, ordered ascending by the
// hex encoding of the public keys as the multisig pallet requires.
func OtherSignatories(signatories []string, submitter substrate.AccountID) ([]substrate.AccountID, error) {
	if len(signatories) == 0 {
		return nil, ErrNoSignatories
	}

	others := make([]substrate.AccountID, 0, len(signatories))
	for _, addr := range signatories {
		id, err := substrate.DecodeAddress(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid signatory: %w", err)
		}
		if id.Hex() == submitter.Hex() {
			continue
		}
		others = append(others, id)
	}

	slices.SortFunc(others, func(a, b substrate.AccountID) int {
		return strings.Compare(a.Hex(), b.Hex())
	})

	return others, nil
}
