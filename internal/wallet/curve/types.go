package curve

import (
	"fmt"
	"math/big"

	"github/chapool/go-hdkey/internal/wallet/hdpath"
)

// Type names an elliptic curve family supported by the derivation engine.
type Type string

const (
	Secp256k1Type Type = "secp256k1"
	Ed25519Type   Type = "ed25519"
)

const (
	// KeySize is the size of every private key and chain code.
	KeySize = 32
)

// Material is the key and chain code pair produced by a derivation step.
type Material struct {
	Key       []byte
	ChainCode []byte
}

// Parent carries what a private child derivation needs from its parent node.
type Parent struct {
	PrivateKey []byte
	PublicKey  []byte
	ChainCode  []byte
}

// DerivationCurve bundles everything curve specific about HD derivation.
// An implementation is chosen once per network and shared by all nodes of a tree.
type DerivationCurve interface {
	// Type returns the curve family.
	Type() Type

	// Order returns the group order, or nil when the curve does not reduce scalars.
	Order() *big.Int

	// SeedModifier returns the HMAC key used to derive the master node.
	SeedModifier() []byte

	// PublicKey computes the serialized public key for a 32 byte private key.
	PublicKey(privateKey []byte) ([]byte, error)

	// DeriveMaster turns a seed into the master private key and chain code.
	DeriveMaster(seed []byte) (Material, error)

	// DeriveChild derives the private child described by node.
	DeriveChild(parent Parent, node hdpath.Node) (Material, error)

	// DerivePublicChild derives a non-hardened child public key from a public parent.
	DerivePublicChild(publicKey []byte, chainCode []byte, node hdpath.Node) (Material, error)
}

// UnsupportedCurveError is returned for curve types outside secp256k1 and ed25519.
type UnsupportedCurveError struct {
	Type Type
}

func (e *UnsupportedCurveError) Error() string {
	return fmt.Sprintf("unsupported curve type %q", string(e.Type))
}

// NonHardenedEd25519Error is returned when a non-hardened ed25519 child is requested
// while strict derivation is in effect.
type NonHardenedEd25519Error struct {
	Depth uint32
	Token string
}

func (e *NonHardenedEd25519Error) Error() string {
	return fmt.Sprintf("ed25519 supports hardened derivation only, got %q at depth %d", e.Token, e.Depth)
}

// InvalidKeyError is returned when key bytes handed to a curve have the wrong shape.
type InvalidKeyError struct {
	Curve  Type
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid %s key: %s", e.Curve, e.Reason)
}

// Options tune curve behaviour.
type Options struct {
	// AllowNonHardenedEd25519 enables non-hardened ed25519 children, hashing the
	// parent public key like secp256k1 does. Such keys are not SLIP-0010 compatible.
	AllowNonHardenedEd25519 bool
}

// New returns the DerivationCurve for t.
//
//nolint:ireturn // Returning interface is intentional, the curve is selected at runtime
func New(t Type, opts Options) (DerivationCurve, error) {
	switch t {
	case Secp256k1Type:
		return NewSecp256k1(), nil
	case Ed25519Type:
		return NewEd25519(opts.AllowNonHardenedEd25519), nil
	default:
		return nil, &UnsupportedCurveError{Type: t}
	}
}
