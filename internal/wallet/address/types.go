package address

import (
	"context"

	"github/chapool/go-hdkey/internal/wallet/coin"
	"github/chapool/go-hdkey/internal/wallet/hdkey"
)

// Service renders addresses for derived keys
type Service interface {
	// DeriveAddress derives the key at path from seed and returns its address on symbol's network
	DeriveAddress(ctx context.Context, seed []byte, symbol string, path string) (string, error)

	// AddressFromNode returns the address of an already derived node
	AddressFromNode(node *hdkey.Node) (string, error)

	// AddressFromPublicKey renders pub in c's address format
	AddressFromPublicKey(c coin.Coin, pub []byte) (string, error)

	// GetBIP44Path gets the first account's external BIP44 path for symbol
	// Format: m/44'/{slip44}'/0'/0/{index}
	GetBIP44Path(symbol string, addressIndex uint32) (string, error)
}
