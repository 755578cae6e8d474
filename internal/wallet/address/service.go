package address

import (
	"context"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/util"
	"github/chapool/go-hdkey/internal/wallet/bip44"
	"github/chapool/go-hdkey/internal/wallet/coin"
	"github/chapool/go-hdkey/internal/wallet/hdkey"
	"github/chapool/go-hdkey/internal/wallet/network"
)

type service struct {
	registry coin.Registry
	options  []network.Option
	bip44    bip44.Service
}

// NewService creates a new AddressService
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(registry coin.Registry, opts ...network.Option) (Service, error) {
	if registry == nil {
		return nil, errors.New("coin registry is required")
	}

	return &service{
		registry: registry,
		options:  append([]network.Option{network.WithRegistry(registry)}, opts...),
		bip44:    bip44.NewService(registry, opts...),
	}, nil
}

// DeriveAddress derives the key at path and renders its address
func (s *service) DeriveAddress(ctx context.Context, seed []byte, symbol string, path string) (string, error) {
	log := util.LogFromContext(ctx)

	node, err := hdkey.Create(seed, symbol, path, s.options...)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Str("path", path).Msg("Failed to derive key for address")
		return "", errors.Wrap(err, "failed to derive key")
	}

	return s.AddressFromNode(node)
}

func (s *service) AddressFromNode(node *hdkey.Node) (string, error) {
	return s.AddressFromPublicKey(node.Network().Coin(), node.PublicKey())
}

func (s *service) AddressFromPublicKey(c coin.Coin, pub []byte) (string, error) {
	switch c.Address {
	case coin.AddressP2PKH:
		if len(pub) != 33 { //nolint:mnd // compressed secp256k1 public key
			return "", errors.Errorf("p2pkh address requires a compressed public key, got %d bytes", len(pub))
		}
		return base58.CheckEncode(btcutil.Hash160(pub), c.AddressVersion), nil

	case coin.AddressEIP55:
		publicKey, err := crypto.DecompressPubkey(pub)
		if err != nil {
			return "", errors.Wrap(err, "failed to decompress public key")
		}
		return crypto.PubkeyToAddress(*publicKey).Hex(), nil

	case coin.AddressBase58:
		return base58.Encode(pub), nil

	case coin.AddressHex:
		return hex.EncodeToString(pub), nil

	default:
		return "", errors.Errorf("unsupported address format %q for %s", c.Address, c.Symbol)
	}
}

// GetBIP44Path gets the BIP44 path of the first account's external chain
func (s *service) GetBIP44Path(symbol string, addressIndex uint32) (string, error) {
	path, err := s.bip44.AddressPath(symbol, 0, bip44.ChangeExternal, addressIndex)
	if err != nil {
		return "", err
	}

	return path.String(), nil
}
