package bip44

import (
	"context"

	"github/chapool/go-hdkey/internal/wallet/hdkey"
	"github/chapool/go-hdkey/internal/wallet/hdpath"
)

const (
	// Purpose is the hardened first level of every BIP44 path.
	Purpose uint32 = 44

	// SeedLen is the only seed size accepted for account derivation.
	SeedLen = 64

	ChangeExternal uint32 = 0
	ChangeInternal uint32 = 1
)

// Service derives keys along m/44'/coin'/account'/change/index.
type Service interface {
	// AccountPath returns m/44'/coin'/account' for symbol.
	AccountPath(symbol string, account uint32) (hdpath.Path, error)

	// AddressPath returns m/44'/coin'/account'/change/index for symbol.
	AddressPath(symbol string, account uint32, change uint32, index uint32) (hdpath.Path, error)

	// DeriveAccount derives the account level node.
	DeriveAccount(ctx context.Context, seed []byte, symbol string, account uint32) (*hdkey.Node, error)

	// DeriveAddress derives the address level node.
	DeriveAddress(ctx context.Context, seed []byte, symbol string, account uint32, change uint32, index uint32) (*hdkey.Node, error)
}
