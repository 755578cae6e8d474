package curve_test

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-hdkey/internal/wallet/curve"
	"github/chapool/go-hdkey/internal/wallet/hdpath"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	c, err := curve.New(curve.Secp256k1Type, curve.Options{})
	require.NoError(t, err)
	assert.Equal(t, curve.Secp256k1Type, c.Type())
	assert.Equal(t, btcec.S256().N, c.Order())
	assert.Equal(t, []byte("Bitcoin seed"), c.SeedModifier())

	c, err = curve.New(curve.Ed25519Type, curve.Options{})
	require.NoError(t, err)
	assert.Equal(t, curve.Ed25519Type, c.Type())
	assert.Nil(t, c.Order())
	assert.Equal(t, []byte("ed25519 seed"), c.SeedModifier())

	_, err = curve.New("p256", curve.Options{})
	var unsupported *curve.UnsupportedCurveError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, curve.Type("p256"), unsupported.Type)
}

func TestSecp256k1Master(t *testing.T) {
	c := curve.NewSecp256k1()

	m, err := c.DeriveMaster(mustHex(t, "000102030405060708090a0b0c0d0e0f"))
	require.NoError(t, err)

	assert.Equal(t, "e8f32e723decf4051aefac8e2c93c9c5b214313817cdb01a1494b917c8436b35", hex.EncodeToString(m.Key))
	assert.Equal(t, "873dff81c02f525623fd1fe5167eac3a55a049de3d314bb42ee227ffed37d508", hex.EncodeToString(m.ChainCode))

	pub, err := c.PublicKey(m.Key)
	require.NoError(t, err)
	assert.Equal(t, "0339a36013301597daef41fbe593a02cc513d0b55527ec2df1050e2e8ff49c85c2", hex.EncodeToString(pub))
}

func TestSecp256k1PublicChildMatchesPrivateChild(t *testing.T) {
	c := curve.NewSecp256k1()

	m, err := c.DeriveMaster(mustHex(t, "fffcf9f6f3f0edeae7e4e1dedbd8d5d2cfccc9c6c3c0bdbab7b4b1aeaba8a5a29f9c999693908d8a8784817e7b7875726f6c696663605d5a5754514e4b484542"))
	require.NoError(t, err)

	pub, err := c.PublicKey(m.Key)
	require.NoError(t, err)

	for _, index := range []uint32{0, 1, 7, 1000000000, hdpath.HardenedOffset - 1} {
		node := hdpath.FromIndices(index).Leaf()

		private, err := c.DeriveChild(curve.Parent{PrivateKey: m.Key, PublicKey: pub, ChainCode: m.ChainCode}, node)
		require.NoError(t, err)

		public, err := c.DerivePublicChild(pub, m.ChainCode, node)
		require.NoError(t, err)

		expected, err := c.PublicKey(private.Key)
		require.NoError(t, err)

		assert.Equal(t, expected, public.Key, "index %d", index)
		assert.Equal(t, private.ChainCode, public.ChainCode, "index %d", index)
	}
}

func TestSecp256k1PublicChildRejectsHardened(t *testing.T) {
	c := curve.NewSecp256k1()

	m, err := c.DeriveMaster(make([]byte, 32))
	require.NoError(t, err)
	pub, err := c.PublicKey(m.Key)
	require.NoError(t, err)

	_, err = c.DerivePublicChild(pub, m.ChainCode, hdpath.FromIndices(hdpath.Hardened(0)).Leaf())
	require.Error(t, err)
}

func TestSecp256k1InvalidKeys(t *testing.T) {
	c := curve.NewSecp256k1()

	_, err := c.PublicKey(make([]byte, 31))
	var invalid *curve.InvalidKeyError
	require.True(t, errors.As(err, &invalid))

	_, err = c.DeriveChild(curve.Parent{PrivateKey: make([]byte, 16), ChainCode: make([]byte, 32)}, hdpath.FromIndices(0).Leaf())
	require.True(t, errors.As(err, &invalid))
}

func TestEd25519SLIP10Vector1(t *testing.T) {
	c := curve.NewEd25519(false)

	m, err := c.DeriveMaster(mustHex(t, "000102030405060708090a0b0c0d0e0f"))
	require.NoError(t, err)

	assert.Equal(t, "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7", hex.EncodeToString(m.Key))
	assert.Equal(t, "90046a93de5380a72b5e45010748567d5ea02bbf6522f979e05c0d8d8ca9fffb", hex.EncodeToString(m.ChainCode))

	pub, err := c.PublicKey(m.Key)
	require.NoError(t, err)
	assert.Equal(t, "a4b2856bfec510abab89753fac1ac0e1112364e7d250545963f135f2a33188ed", hex.EncodeToString(pub))

	child, err := c.DeriveChild(curve.Parent{PrivateKey: m.Key, PublicKey: pub, ChainCode: m.ChainCode}, hdpath.MustParse("m/0'").Leaf())
	require.NoError(t, err)

	assert.Equal(t, "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3", hex.EncodeToString(child.Key))
	assert.Equal(t, "8b59aa11380b624e81507a27fedda59fea6d0b779a778918a2fd3590e16e9c69", hex.EncodeToString(child.ChainCode))

	childPub, err := c.PublicKey(child.Key)
	require.NoError(t, err)
	assert.Equal(t, "8c8a13df77a28f3445213a0f432fde644acaa215fc72dcdf300d5efaa85d350c", hex.EncodeToString(childPub))
}

func TestEd25519NonHardened(t *testing.T) {
	seed := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	node := hdpath.MustParse("m/1").Leaf()

	strict := curve.NewEd25519(false)
	m, err := strict.DeriveMaster(seed)
	require.NoError(t, err)
	pub, err := strict.PublicKey(m.Key)
	require.NoError(t, err)

	parent := curve.Parent{PrivateKey: m.Key, PublicKey: pub, ChainCode: m.ChainCode}

	_, err = strict.DeriveChild(parent, node)
	var nonHardened *curve.NonHardenedEd25519Error
	require.True(t, errors.As(err, &nonHardened))
	assert.Equal(t, uint32(1), nonHardened.Depth)
	assert.Equal(t, "1", nonHardened.Token)

	legacy := curve.NewEd25519(true)
	first, err := legacy.DeriveChild(parent, node)
	require.NoError(t, err)
	second, err := legacy.DeriveChild(parent, node)
	require.NoError(t, err)

	assert.Len(t, first.Key, 32)
	assert.Len(t, first.ChainCode, 32)
	assert.Equal(t, first, second)

	hardened, err := legacy.DeriveChild(parent, hdpath.MustParse("m/1'").Leaf())
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, hardened.Key)
}

func TestEd25519PublicDerivationUnsupported(t *testing.T) {
	_, err := curve.NewEd25519(true).DerivePublicChild(make([]byte, 32), make([]byte, 32), hdpath.MustParse("m/0").Leaf())
	assert.ErrorIs(t, err, curve.ErrPublicDerivationUnsupported)
}
