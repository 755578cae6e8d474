package network

import (
	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/wallet/coin"
	"github/chapool/go-hdkey/internal/wallet/curve"
)

// Info is everything a derivation tree needs to know about its network.
// It is immutable and shared by every node of one tree.
type Info struct {
	coin       coin.Coin
	bip32      coin.Bip32Versions
	wifVersion byte
	curve      curve.DerivationCurve
}

type options struct {
	registry     coin.Registry
	curveOptions curve.Options
}

// Option customizes network resolution.
type Option func(*options)

// WithRegistry resolves symbols against r instead of the built-in registry.
func WithRegistry(r coin.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithLegacyEd25519 allows non-hardened ed25519 children. Keys derived this
// way are not interoperable with SLIP-0010 wallets.
func WithLegacyEd25519() Option {
	return func(o *options) {
		o.curveOptions.AllowNonHardenedEd25519 = true
	}
}

// WithCurveOptions replaces all curve options at once.
func WithCurveOptions(opts curve.Options) Option {
	return func(o *options) {
		o.curveOptions = opts
	}
}

// New resolves symbol into network information. Missing bip32 versions or WIF
// version are taken from the BTC entry of the registry.
func New(symbol string, opts ...Option) (*Info, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.registry == nil {
		r, err := coin.NewRegistry()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create coin registry")
		}
		o.registry = r
	}

	c, err := o.registry.Lookup(symbol)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve network")
	}

	reference, err := o.registry.Lookup(coin.ReferenceSymbol)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve reference network")
	}

	info := &Info{coin: c}

	switch {
	case c.Bip32 != nil:
		info.bip32 = *c.Bip32
	case reference.Bip32 != nil:
		info.bip32 = *reference.Bip32
	default:
		return nil, errors.Errorf("neither %s nor %s define bip32 versions", c.Symbol, reference.Symbol)
	}

	switch {
	case c.WIF != nil:
		info.wifVersion = c.WIF.Version
	case reference.WIF != nil:
		info.wifVersion = reference.WIF.Version
	default:
		return nil, errors.Errorf("neither %s nor %s define a WIF version", c.Symbol, reference.Symbol)
	}

	info.curve, err = curve.New(c.Curve, o.curveOptions)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to select curve for %s", c.Symbol)
	}

	return info, nil
}

// Symbol returns the normalized ticker symbol.
func (i *Info) Symbol() string {
	return i.coin.Symbol
}

// Coin returns the registry entry the network was built from.
func (i *Info) Coin() coin.Coin {
	return i.coin
}

// Bip32 returns the effective extended key versions.
func (i *Info) Bip32() coin.Bip32Versions {
	return i.bip32
}

// WIFVersion returns the effective wallet import format version byte.
func (i *Info) WIFVersion() byte {
	return i.wifVersion
}

//nolint:ireturn // The curve is selected at runtime
func (i *Info) Curve() curve.DerivationCurve {
	return i.curve
}
