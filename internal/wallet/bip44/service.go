package bip44

import (
	"context"
	"fmt"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/util"
	"github/chapool/go-hdkey/internal/wallet/coin"
	"github/chapool/go-hdkey/internal/wallet/hdkey"
	"github/chapool/go-hdkey/internal/wallet/hdpath"
	"github/chapool/go-hdkey/internal/wallet/network"
)

type service struct {
	registry coin.Registry
	options  []network.Option
}

// NewService creates a new bip44 Service resolving coins through registry.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(registry coin.Registry, opts ...network.Option) Service {
	return &service{
		registry: registry,
		options:  append([]network.Option{network.WithRegistry(registry)}, opts...),
	}
}

func (s *service) AccountPath(symbol string, account uint32) (hdpath.Path, error) {
	c, err := s.registry.Lookup(symbol)
	if err != nil {
		return nil, err
	}

	if err := vala.BeginValidation().Validate(
		belowHardened(account, "account"),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "invalid account")
	}

	return hdpath.FromIndices(
		hdpath.Hardened(Purpose),
		hdpath.Hardened(c.Slip44),
		hdpath.Hardened(account),
	), nil
}

func (s *service) AddressPath(symbol string, account uint32, change uint32, index uint32) (hdpath.Path, error) {
	accountPath, err := s.AccountPath(symbol, account)
	if err != nil {
		return nil, err
	}

	if err := vala.BeginValidation().Validate(
		isChange(change),
		belowHardened(index, "address index"),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "invalid address")
	}

	indices := make([]uint32, 0, len(accountPath)+1)
	for _, n := range accountPath.Children() {
		indices = append(indices, n.Index)
	}

	return hdpath.FromIndices(append(indices, change, index)...), nil
}

func (s *service) DeriveAccount(ctx context.Context, seed []byte, symbol string, account uint32) (*hdkey.Node, error) {
	if len(seed) != SeedLen {
		return nil, &hdkey.InvalidSeedError{Length: len(seed)}
	}

	path, err := s.AccountPath(symbol, account)
	if err != nil {
		return nil, err
	}

	return s.derive(ctx, seed, symbol, path)
}

func (s *service) DeriveAddress(ctx context.Context, seed []byte, symbol string, account uint32, change uint32, index uint32) (*hdkey.Node, error) {
	if len(seed) != SeedLen {
		return nil, &hdkey.InvalidSeedError{Length: len(seed)}
	}

	path, err := s.AddressPath(symbol, account, change, index)
	if err != nil {
		return nil, err
	}

	return s.derive(ctx, seed, symbol, path)
}

func (s *service) derive(ctx context.Context, seed []byte, symbol string, path hdpath.Path) (*hdkey.Node, error) {
	log := util.LogFromContext(ctx)

	info, err := network.New(symbol, s.options...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve network")
	}

	node, err := hdkey.CreateFromPath(seed, info, path)
	if err != nil {
		log.Error().Err(err).Str("symbol", info.Symbol()).Str("path", path.String()).Msg("Failed to derive bip44 key")
		return nil, errors.Wrapf(err, "failed to derive %s", path.String())
	}

	log.Debug().Str("symbol", info.Symbol()).Str("path", path.String()).Msg("Derived bip44 key")

	return node, nil
}

func belowHardened(value uint32, name string) vala.Checker {
	return func() (bool, string) {
		return value < hdpath.HardenedOffset, fmt.Sprintf("%s must be below %d, got %d", name, hdpath.HardenedOffset, value)
	}
}

func isChange(change uint32) vala.Checker {
	return func() (bool, string) {
		return change == ChangeExternal || change == ChangeInternal, fmt.Sprintf("change must be 0 or 1, got %d", change)
	}
}
