package curve

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/wallet/hdpath"
)

var (
	bitcoinSeed = []byte("Bitcoin seed")

	// ErrPointAtInfinity is returned when a public key operation leaves the curve.
	ErrPointAtInfinity = errors.New("derived point is at infinity")
)

// Secp256k1 implements BIP32 derivation over secp256k1.
type Secp256k1 struct {
	order *big.Int
}

// NewSecp256k1 returns the secp256k1 DerivationCurve.
func NewSecp256k1() *Secp256k1 {
	return &Secp256k1{order: btcec.S256().N}
}

func (c *Secp256k1) Type() Type {
	return Secp256k1Type
}

func (c *Secp256k1) Order() *big.Int {
	return new(big.Int).Set(c.order)
}

func (c *Secp256k1) SeedModifier() []byte {
	return append([]byte(nil), bitcoinSeed...)
}

// PublicKey returns the 33 byte compressed public key.
func (c *Secp256k1) PublicKey(privateKey []byte) ([]byte, error) {
	if len(privateKey) != KeySize {
		return nil, &InvalidKeyError{Curve: Secp256k1Type, Reason: "private key must be 32 bytes"}
	}

	_, pub := btcec.PrivKeyFromBytes(privateKey)
	return pub.SerializeCompressed(), nil
}

// DeriveMaster hashes the seed with "Bitcoin seed". While the left half is zero or
// not below the group order the full output becomes the new seed and the step repeats.
func (c *Secp256k1) DeriveMaster(seed []byte) (Material, error) {
	data := seed
	for {
		il, ir := hmacSHA512(bitcoinSeed, data)
		if c.validScalar(new(big.Int).SetBytes(il)) {
			return Material{Key: il, ChainCode: ir}, nil
		}

		ScalarRetries(Secp256k1Type, stageMaster).Inc()
		data = append(append(make([]byte, 0, 2*KeySize), il...), ir...)
	}
}

// DeriveChild computes k = (IL + kpar) mod n. When IL is not below n or k is zero the
// round is discarded and repeated with 0x01 || IR || index as data.
func (c *Secp256k1) DeriveChild(parent Parent, node hdpath.Node) (Material, error) {
	if len(parent.PrivateKey) != KeySize {
		return Material{}, &InvalidKeyError{Curve: Secp256k1Type, Reason: "parent private key must be 32 bytes"}
	}

	index := node.IndexBytes()

	var data []byte
	if node.Hardened {
		data = concat([]byte{0x00}, parent.PrivateKey, index[:])
	} else {
		if len(parent.PublicKey) != btcec.PubKeyBytesLenCompressed {
			return Material{}, &InvalidKeyError{Curve: Secp256k1Type, Reason: "parent public key must be 33 bytes"}
		}
		data = concat(parent.PublicKey, index[:])
	}

	kpar := new(big.Int).SetBytes(parent.PrivateKey)

	for {
		il, ir := hmacSHA512(parent.ChainCode, data)

		parsed := new(big.Int).SetBytes(il)
		if parsed.Cmp(c.order) < 0 {
			k := parsed.Add(parsed, kpar)
			k.Mod(k, c.order)

			if k.Sign() != 0 {
				return Material{Key: k.FillBytes(make([]byte, KeySize)), ChainCode: ir}, nil
			}
		}

		ScalarRetries(Secp256k1Type, stageChild).Inc()
		data = concat([]byte{0x01}, ir, index[:])
	}
}

// DerivePublicChild computes K = point(IL) + Kpar for non-hardened children, using the
// same discard rule as DeriveChild when IL is out of range or K is the point at infinity.
func (c *Secp256k1) DerivePublicChild(publicKey []byte, chainCode []byte, node hdpath.Node) (Material, error) {
	if node.Hardened {
		return Material{}, errors.New("hardened child cannot be derived from a public key")
	}

	parentKey, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return Material{}, errors.Wrap(err, "failed to parse parent public key")
	}

	var parentPoint btcec.JacobianPoint
	parentKey.AsJacobian(&parentPoint)

	index := node.IndexBytes()
	data := concat(parentKey.SerializeCompressed(), index[:])

	for {
		il, ir := hmacSHA512(chainCode, data)

		var scalar btcec.ModNScalar
		overflow := scalar.SetByteSlice(il)
		if !overflow {
			var ilPoint, childPoint btcec.JacobianPoint
			btcec.ScalarBaseMultNonConst(&scalar, &ilPoint)
			btcec.AddNonConst(&ilPoint, &parentPoint, &childPoint)

			if !isInfinity(&childPoint) {
				childPoint.ToAffine()
				child := btcec.NewPublicKey(&childPoint.X, &childPoint.Y)
				return Material{Key: child.SerializeCompressed(), ChainCode: ir}, nil
			}
		}

		ScalarRetries(Secp256k1Type, stagePublicChild).Inc()
		data = concat([]byte{0x01}, ir, index[:])
	}
}

func (c *Secp256k1) validScalar(k *big.Int) bool {
	return k.Sign() != 0 && k.Cmp(c.order) < 0
}

func isInfinity(p *btcec.JacobianPoint) bool {
	return (p.X.IsZero() && p.Y.IsZero()) || p.Z.IsZero()
}

func concat(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += len(p)
	}

	out := make([]byte, 0, size)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// ensure interface compliance
var _ DerivationCurve = (*Secp256k1)(nil)
