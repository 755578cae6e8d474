package curve

import (
	"crypto/ed25519"
	"math/big"

	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/wallet/hdpath"
)

var ed25519Seed = []byte("ed25519 seed")

// ErrPublicDerivationUnsupported is returned by curves without public parent derivation.
var ErrPublicDerivationUnsupported = errors.New("public child derivation is not supported for ed25519")

// Ed25519 implements SLIP-0010 style derivation over ed25519. Every child is an
// independent HMAC chained value, there is no scalar addition and no retry.
type Ed25519 struct {
	allowNonHardened bool
}

// NewEd25519 returns the ed25519 DerivationCurve. With allowNonHardened set, non-hardened
// children hash the parent public key instead of failing.
func NewEd25519(allowNonHardened bool) *Ed25519 {
	return &Ed25519{allowNonHardened: allowNonHardened}
}

func (c *Ed25519) Type() Type {
	return Ed25519Type
}

// Order is nil, ed25519 child keys are not reduced.
func (c *Ed25519) Order() *big.Int {
	return nil
}

func (c *Ed25519) SeedModifier() []byte {
	return append([]byte(nil), ed25519Seed...)
}

// PublicKey returns the 32 byte ed25519 public key of a private key seed.
func (c *Ed25519) PublicKey(privateKey []byte) ([]byte, error) {
	if len(privateKey) != ed25519.SeedSize {
		return nil, &InvalidKeyError{Curve: Ed25519Type, Reason: "private key must be 32 bytes"}
	}

	pub, ok := ed25519.NewKeyFromSeed(privateKey).Public().(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("failed to cast ed25519 public key")
	}

	return []byte(pub), nil
}

func (c *Ed25519) DeriveMaster(seed []byte) (Material, error) {
	il, ir := hmacSHA512(ed25519Seed, seed)
	return Material{Key: il, ChainCode: ir}, nil
}

func (c *Ed25519) DeriveChild(parent Parent, node hdpath.Node) (Material, error) {
	if len(parent.PrivateKey) != KeySize {
		return Material{}, &InvalidKeyError{Curve: Ed25519Type, Reason: "parent private key must be 32 bytes"}
	}

	index := node.IndexBytes()

	var data []byte
	switch {
	case node.Hardened:
		data = concat([]byte{0x00}, parent.PrivateKey, index[:])
	case c.allowNonHardened:
		if len(parent.PublicKey) != ed25519.PublicKeySize {
			return Material{}, &InvalidKeyError{Curve: Ed25519Type, Reason: "parent public key must be 32 bytes"}
		}
		data = concat(parent.PublicKey, index[:])
	default:
		return Material{}, &NonHardenedEd25519Error{Depth: node.Depth, Token: node.Token}
	}

	il, ir := hmacSHA512(parent.ChainCode, data)
	return Material{Key: il, ChainCode: ir}, nil
}

func (c *Ed25519) DerivePublicChild(_ []byte, _ []byte, _ hdpath.Node) (Material, error) {
	return Material{}, ErrPublicDerivationUnsupported
}

// ensure interface compliance
var _ DerivationCurve = (*Ed25519)(nil)
