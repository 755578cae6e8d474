package coin_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-hdkey/internal/wallet/coin"
	"github/chapool/go-hdkey/internal/wallet/curve"
)

func TestBuiltinRegistry(t *testing.T) {
	r, err := coin.NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{"BTC", "DOGE", "ETH", "LTC", "SOL", "TBTC"}, r.Symbols())

	btc, err := r.Lookup("btc")
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin", btc.Name)
	assert.Equal(t, uint32(0x0488ADE4), btc.Bip32.Private)
	assert.Equal(t, uint32(0x0488B21E), btc.Bip32.Public)
	assert.Equal(t, byte(0x80), btc.WIF.Version)

	eth, err := r.Lookup("ETH")
	require.NoError(t, err)
	assert.Equal(t, uint32(60), eth.Slip44)
	assert.Nil(t, eth.Bip32)
	assert.Nil(t, eth.WIF)

	sol, err := r.Lookup("SOL")
	require.NoError(t, err)
	assert.Equal(t, curve.Ed25519Type, sol.Curve)
}

func TestLookupUnknown(t *testing.T) {
	r, err := coin.NewRegistry()
	require.NoError(t, err)

	_, err = r.Lookup("XYZ")
	var unknown *coin.UnknownSymbolError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "XYZ", unknown.Symbol)
}

func TestParseRegistry(t *testing.T) {
	r, err := coin.ParseRegistry(`
[[coin]]
symbol = "xtn"
name = "Example Testnet"
slip44 = 1
curve = "secp256k1"
address = "p2pkh"
address_version = 0x6f

[coin.bip32]
private = 0x04358394
public = 0x043587cf

[[coin]]
symbol = "ADA"
name = "Cardano"
slip44 = 1815
curve = "ed25519"
`)
	require.NoError(t, err)

	xtn, err := r.Lookup("XTN")
	require.NoError(t, err)
	assert.Equal(t, "XTN", xtn.Symbol)
	assert.Equal(t, byte(0x6f), xtn.AddressVersion)
	require.NotNil(t, xtn.Bip32)
	assert.Equal(t, uint32(0x04358394), xtn.Bip32.Private)
	assert.Nil(t, xtn.WIF)

	ada, err := r.Lookup("ada")
	require.NoError(t, err)
	assert.Equal(t, coin.AddressHex, ada.Address)

	// built-ins stay available
	_, err = r.Lookup("BTC")
	require.NoError(t, err)
}

func TestParseRegistryInvalid(t *testing.T) {
	tests := map[string]string{
		"bad toml":       `[[coin]`,
		"unknown key":    "[[coin]]\nsymbol = \"X\"\ncurve = \"secp256k1\"\ncolour = \"red\"\n",
		"missing symbol": "[[coin]]\ncurve = \"secp256k1\"\n",
		"bad curve":      "[[coin]]\nsymbol = \"X\"\ncurve = \"p256\"\n",
		"bad address":    "[[coin]]\nsymbol = \"X\"\ncurve = \"secp256k1\"\naddress = \"bech32\"\n",
		"p2pkh ed25519":  "[[coin]]\nsymbol = \"X\"\ncurve = \"ed25519\"\naddress = \"p2pkh\"\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := coin.ParseRegistry(doc)
			assert.Error(t, err)
		})
	}
}

func TestLoadRegistry(t *testing.T) {
	r, err := coin.LoadRegistry("")
	require.NoError(t, err)
	assert.Contains(t, r.Symbols(), "BTC")

	path := filepath.Join(t.TempDir(), "coins.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[coin]]\nsymbol = \"BTC\"\nname = \"Override\"\ncurve = \"secp256k1\"\n"), 0o600))

	r, err = coin.LoadRegistry(path)
	require.NoError(t, err)

	btc, err := r.Lookup("BTC")
	require.NoError(t, err)
	assert.Equal(t, "Override", btc.Name)
	assert.Nil(t, btc.Bip32)

	_, err = coin.LoadRegistry(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
