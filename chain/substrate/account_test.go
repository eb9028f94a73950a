package substrate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceAddress   = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	alicePublicKey = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	devPhrase      = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"
)

func Test_DecodeAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		wantHex string
		wantErr string
	}{
		{
			name:    "ss58",
			give:    aliceAddress,
			wantHex: alicePublicKey,
		},
		{
			name:    "public key",
			give:    "0x" + alicePublicKey,
			wantHex: alicePublicKey,
		},
		{
			name:    "empty",
			give:    " ",
			wantErr: "address is empty",
		},
		{
			name:    "short public key",
			give:    "0x0102",
			wantErr: "public key must be 32 bytes, got 2",
		},
		{
			name:    "garbage",
			give:    "not-an-address",
			wantErr: "invalid address not-an-address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeAddress(tt.give)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHex, got.Hex())
		})
	}
}

func Test_AccountID_SS58(t *testing.T) {
	t.Parallel()

	id, err := DecodeAddress(aliceAddress)
	require.NoError(t, err)

	assert.Equal(t, aliceAddress, id.SS58(42))
	assert.Equal(t, "0x"+alicePublicKey, id.String())

	pendulum, err := DecodeAddress(id.SS58(56))
	require.NoError(t, err)
	assert.Equal(t, id, pendulum)
}

func Test_AccountIDFromBytes(t *testing.T) {
	t.Parallel()

	id, err := AccountIDFromBytes(bytes.Repeat([]byte{0xff}, 32))
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 32), id[:])
}

func Test_KeypairFromSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		give        string
		wantAddress string
		wantErr     string
	}{
		{
			name:        "dev account",
			give:        "//Alice",
			wantAddress: aliceAddress,
		},
		{
			name:        "mnemonic with derivation path",
			give:        devPhrase + "//Alice",
			wantAddress: aliceAddress,
		},
		{
			name:    "invalid mnemonic",
			give:    "bottom drive obey lake curtain smoke basket hold race lonely fit wolk",
			wantErr: "invalid mnemonic",
		},
		{
			name:    "empty",
			give:    "",
			wantErr: "secret is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			kp, err := KeypairFromSecret(tt.give, 42)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddress, kp.Address)

			id, err := AccountIDOf(kp)
			require.NoError(t, err)
			assert.Equal(t, alicePublicKey, id.Hex())
		})
	}
}
