package coin

import (
	"fmt"

	"github/chapool/go-hdkey/internal/wallet/curve"
)

// AddressFormat selects how an address is rendered from a public key.
type AddressFormat string

const (
	// AddressP2PKH is Base58Check(version || hash160(pubkey)).
	AddressP2PKH AddressFormat = "p2pkh"
	// AddressEIP55 is the checksummed hex form of keccak256(uncompressed pubkey)[12:].
	AddressEIP55 AddressFormat = "eip55"
	// AddressBase58 is the raw public key in Base58, as used by ed25519 chains like Solana.
	AddressBase58 AddressFormat = "base58"
	// AddressHex is the hex encoded public key.
	AddressHex AddressFormat = "hex"
)

// Bip32Versions are the 4 byte prefixes of serialized extended keys.
type Bip32Versions struct {
	Private uint32 `toml:"private" json:"private"`
	Public  uint32 `toml:"public" json:"public"`
}

// WIFVersion is the version byte of the wallet import format.
type WIFVersion struct {
	Version byte `toml:"version" json:"version"`
}

// Coin is the registry entry of a single network.
// Bip32 and WIF are optional, consumers fall back to the BTC entry when missing.
type Coin struct {
	Symbol         string         `toml:"symbol" json:"symbol"`
	Name           string         `toml:"name" json:"name"`
	Slip44         uint32         `toml:"slip44" json:"slip44"`
	Curve          curve.Type     `toml:"curve" json:"curve"`
	Bip32          *Bip32Versions `toml:"bip32" json:"bip32,omitempty"`
	WIF            *WIFVersion    `toml:"wif" json:"wif,omitempty"`
	Address        AddressFormat  `toml:"address" json:"address"`
	AddressVersion byte           `toml:"address_version" json:"addressVersion"`
}

// Registry resolves coin metadata by ticker symbol.
type Registry interface {
	// Lookup returns the coin registered for symbol, case-insensitive.
	Lookup(symbol string) (Coin, error)

	// Symbols returns every registered symbol in sorted order.
	Symbols() []string
}

// UnknownSymbolError is returned for symbols missing from the registry.
type UnknownSymbolError struct {
	Symbol string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown coin symbol %q", e.Symbol)
}
