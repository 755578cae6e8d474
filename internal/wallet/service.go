package wallet

import (
	"context"
	"encoding/hex"

	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/util"
	"github/chapool/go-hdkey/internal/wallet/address"
	"github/chapool/go-hdkey/internal/wallet/bip44"
	"github/chapool/go-hdkey/internal/wallet/coin"
	"github/chapool/go-hdkey/internal/wallet/curve"
	"github/chapool/go-hdkey/internal/wallet/hdkey"
	"github/chapool/go-hdkey/internal/wallet/network"
)

// Service derives wallets from the seed held by the seed manager
type Service interface {
	// GetWallet derives the node at path on symbol's network
	GetWallet(ctx context.Context, symbol string, path string, includePrivate bool) (*Wallet, error)

	// ListWallets derives count consecutive BIP44 addresses starting at index 0
	ListWallets(ctx context.Context, symbol string, account uint32, change uint32, count uint32) ([]*Wallet, error)
}

// maxPreallocatedWallets bounds the up-front allocation of ListWallets
const maxPreallocatedWallets = 100

// ErrSeedNotInitialized is returned before the keystore has been unlocked
var ErrSeedNotInitialized = errors.New("seed not initialized")

type service struct {
	seedManager    SeedSource
	addressService address.Service
	bip44Service   bip44.Service
	options        []network.Option
}

// SeedSource is the subset of seed.Manager the wallet service reads from
type SeedSource interface {
	GetSeed() []byte
}

// NewService creates a new WalletService
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(seedManager SeedSource, registry coin.Registry, opts ...network.Option) (Service, error) {
	addressService, err := address.NewService(registry, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create address service")
	}

	return &service{
		seedManager:    seedManager,
		addressService: addressService,
		bip44Service:   bip44.NewService(registry, opts...),
		options:        append([]network.Option{network.WithRegistry(registry)}, opts...),
	}, nil
}

func (s *service) GetWallet(ctx context.Context, symbol string, path string, includePrivate bool) (*Wallet, error) {
	seed := s.seedManager.GetSeed()
	if seed == nil {
		return nil, ErrSeedNotInitialized
	}
	defer util.ZeroBytes(seed)

	node, err := hdkey.Create(seed, symbol, path, s.options...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to derive %s wallet", symbol)
	}

	return FromNode(ctx, node, s.addressService, includePrivate)
}

func (s *service) ListWallets(ctx context.Context, symbol string, account uint32, change uint32, count uint32) ([]*Wallet, error) {
	log := util.LogFromContext(ctx)

	seed := s.seedManager.GetSeed()
	if seed == nil {
		return nil, ErrSeedNotInitialized
	}
	defer util.ZeroBytes(seed)

	wallets := make([]*Wallet, 0, min(count, maxPreallocatedWallets))
	for index := range count {
		node, err := s.bip44Service.DeriveAddress(ctx, seed, symbol, account, change, index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive %s address %d", symbol, index)
		}

		w, err := FromNode(ctx, node, s.addressService, false)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}

	log.Debug().Str("symbol", symbol).Uint32("account", account).Uint32("count", count).Msg("Listed wallets")

	return wallets, nil
}

// FromNode summarizes node, private material is only included on request
func FromNode(ctx context.Context, node *hdkey.Node, addressService address.Service, includePrivate bool) (*Wallet, error) {
	addr, err := addressService.AddressFromNode(node)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render address")
	}

	fingerprint := node.Fingerprint()
	parentFingerprint := node.ParentFingerprint()

	w := &Wallet{
		Symbol:            node.Network().Symbol(),
		Path:              node.FullPath().String(),
		Depth:             node.Depth(),
		Fingerprint:       hex.EncodeToString(fingerprint[:]),
		ParentFingerprint: hex.EncodeToString(parentFingerprint[:]),
		Address:           addr,
		PublicKey:         node.PublicKeyHex(),
	}

	if w.ExtendedPublicKey, err = node.ExtendedPublicKey(); err != nil {
		return nil, errors.Wrap(err, "failed to serialize public key")
	}

	if includePrivate && !node.IsNeutered() {
		if w.ExtendedPrivateKey, err = node.ExtendedPrivateKey(); err != nil {
			return nil, errors.Wrap(err, "failed to serialize private key")
		}

		// WIF is only defined for secp256k1 keys
		if node.Network().Coin().Curve == curve.Secp256k1Type {
			if w.WIF, err = node.PrivateKeyAsWIF(); err != nil {
				return nil, errors.Wrap(err, "failed to encode WIF")
			}
		}
	}

	util.LogFromContext(ctx).Debug().Stringer("node", node).Msg("Derived wallet")

	return w, nil
}
