package substrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/cosmos/go-bip39"
)

// Keypair is an sr25519 signing key together with its SS58 address.
type Keypair = signature.KeyringPair

// KeypairFromSecret derives an sr25519 keypair from a secret URI: a mnemonic with an optional
// derivation path, a 0x seed, or a dev path such as //Alice. Mnemonics are checked against
// the BIP39 word list before derivation.
func KeypairFromSecret(secret string, ss58Prefix uint16) (Keypair, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return Keypair{}, errors.New("secret is empty")
	}

	if phrase := mnemonicPart(secret); phrase != "" && !bip39.IsMnemonicValid(phrase) {
		return Keypair{}, errors.New("invalid mnemonic")
	}

	kp, err := signature.KeyringPairFromSecret(secret, ss58Prefix)
	if err != nil {
		return Keypair{}, fmt.Errorf("failed to derive keypair: %w", err)
	}

	return kp, nil
}

// AccountIDOf returns the public key of kp.
func AccountIDOf(kp Keypair) (AccountID, error) {
	return AccountIDFromBytes(kp.PublicKey)
}

// mnemonicPart returns the phrase of a secret URI, or "" when the secret is a raw seed or a
// bare derivation path.
func mnemonicPart(secret string) string {
	if strings.HasPrefix(secret, "0x") || strings.HasPrefix(secret, "/") {
		return ""
	}
	if i := strings.Index(secret, "/"); i >= 0 {
		secret = secret[:i]
	}

	return strings.TrimSpace(secret)
}
