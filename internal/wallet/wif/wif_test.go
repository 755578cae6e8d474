package wif_test

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-hdkey/internal/wallet/wif"
)

func TestEncodeMatchesBtcutil(t *testing.T) {
	key, err := hex.DecodeString("e8f32e723decf4051aefac8e2c93c9c5b214313817cdb01a1494b917c8436b35")
	require.NoError(t, err)

	for _, compressed := range []bool{true, false} {
		s, err := wif.Encode(chaincfg.MainNetParams.PrivateKeyID, key, compressed)
		require.NoError(t, err)

		decoded, err := btcutil.DecodeWIF(s)
		require.NoError(t, err)

		assert.True(t, decoded.IsForNet(&chaincfg.MainNetParams))
		assert.Equal(t, compressed, decoded.CompressPubKey)
		assert.Equal(t, key, decoded.PrivKey.Serialize())
	}
}

func TestEncodeKnownValue(t *testing.T) {
	// private key 1, compressed, mainnet
	key := make([]byte, 32)
	key[31] = 1

	s, err := wif.Encode(0x80, key, true)
	require.NoError(t, err)
	assert.Equal(t, "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn", s)

	s, err = wif.Encode(0x80, key, false)
	require.NoError(t, err)
	assert.Equal(t, "5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDf", s)
}

func TestDecode(t *testing.T) {
	k, err := wif.DecodeForNetwork("KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn", 0x80)
	require.NoError(t, err)
	assert.True(t, k.Compressed)
	assert.Equal(t, byte(0x80), k.Version)
	assert.Equal(t, byte(1), k.PrivateKey[31])

	k, err = wif.Decode("5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDf")
	require.NoError(t, err)
	assert.False(t, k.Compressed)
}

func TestDecodeErrors(t *testing.T) {
	_, err := wif.DecodeForNetwork("KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn", 0xEF)
	assert.ErrorIs(t, err, wif.ErrVersionMismatch)

	_, err = wif.Decode("KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWo")
	assert.ErrorIs(t, err, wif.ErrMalformed)

	_, err = wif.Decode(base58.CheckEncode(append(make([]byte, 32), 0x02), 0x80))
	assert.ErrorIs(t, err, wif.ErrInvalidCompression)

	_, err = wif.Decode(base58.CheckEncode(make([]byte, 20), 0x80))
	assert.ErrorIs(t, err, wif.ErrMalformed)

	_, err = wif.Encode(0x80, make([]byte, 31), true)
	assert.ErrorIs(t, err, wif.ErrInvalidKey)
}
