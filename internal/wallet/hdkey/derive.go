package hdkey

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-hdkey/internal/wallet/curve"
	"github/chapool/go-hdkey/internal/wallet/extkey"
	"github/chapool/go-hdkey/internal/wallet/hdpath"
	"github/chapool/go-hdkey/internal/wallet/network"
)

// Create derives the node at path for seed on the network registered as symbol.
// An empty path yields the master node.
func Create(seed []byte, symbol string, path string, opts ...network.Option) (*Node, error) {
	info, err := network.New(symbol, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create network for %s", symbol)
	}

	p, err := hdpath.Parse(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse derivation path")
	}

	return CreateFromPath(seed, info, p)
}

// CreateFromPath derives the node at an already parsed path.
func CreateFromPath(seed []byte, info *network.Info, path hdpath.Path) (*Node, error) {
	master, err := NewMaster(seed, info)
	if err != nil {
		return nil, err
	}

	node, err := master.DerivePath(path)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("symbol", info.Symbol()).
		Str("curve", string(info.Curve().Type())).
		Uint32("depth", node.Depth()).
		Msg("Derived HD node")

	return node, nil
}

// NewMaster derives the root node of a tree from seed.
func NewMaster(seed []byte, info *network.Info) (*Node, error) {
	if len(seed) < MinSeedLen || len(seed) > MaxSeedLen {
		return nil, &InvalidSeedError{Length: len(seed)}
	}

	material, err := info.Curve().DeriveMaster(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive master key")
	}

	root := hdpath.Node{Depth: 0, Token: hdpath.RootToken}

	node, err := newNode(info, material.Key, nil, material.ChainCode, nil, root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master node")
	}

	derivations.WithLabelValues(string(info.Curve().Type()), kindMaster).Inc()

	return node, nil
}

// DerivePath walks every non-root node of path starting at n. Depths are
// counted from n, so a path applied to a child continues below it.
func (n *Node) DerivePath(path hdpath.Path) (*Node, error) {
	current := n
	for _, step := range path.Children() {
		step.Depth = current.Depth() + 1

		child, err := current.child(step)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child at depth %d (%s)", current.Depth()+1, step.String())
		}
		current = child
	}

	return current, nil
}

// Derive parses path and applies it below n.
func (n *Node) Derive(path string) (*Node, error) {
	p, err := hdpath.Parse(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse derivation path")
	}

	return n.DerivePath(p)
}

// Child derives the direct child with the given child number. Indices at or above
// hdpath.HardenedOffset are hardened. Public-only nodes derive public children.
func (n *Node) Child(index uint32) (*Node, error) {
	target := hdpath.Node{
		Depth:    n.path.Depth + 1,
		Hardened: index >= hdpath.HardenedOffset,
		Index:    index,
	}
	target.Token = target.String()

	return n.child(target)
}

func (n *Node) child(target hdpath.Node) (*Node, error) {
	c := n.network.Curve()

	if n.IsNeutered() {
		if target.Hardened {
			return nil, &HardenedDerivationRequiresPrivateKeyError{Depth: target.Depth, Token: target.Token}
		}

		material, err := c.DerivePublicChild(n.publicKey(), n.chainCode, target)
		if err != nil {
			return nil, errors.Wrap(err, "failed to derive public child")
		}

		derivations.WithLabelValues(string(c.Type()), kindPublicChild).Inc()
		return newNode(n.network, nil, material.Key, material.ChainCode, n, target)
	}

	parent := curve.Parent{
		PrivateKey: n.privateKey,
		ChainCode:  n.chainCode,
	}
	if !target.Hardened {
		parent.PublicKey = n.publicKey()
	}

	material, err := c.DeriveChild(parent, target)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive private child")
	}

	derivations.WithLabelValues(string(c.Type()), kindPrivateChild).Inc()
	return newNode(n.network, material.Key, nil, material.ChainCode, n, target)
}

// FromExtendedKey imports a serialized extended key of info's network. The
// resulting node has no parent but keeps the serialized parent fingerprint.
func FromExtendedKey(s string, info *network.Info) (*Node, error) {
	f, err := extkey.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode extended key")
	}

	if f.Depth == 0 && (f.ParentFingerprint != [4]byte{} || f.ChildIndex != 0) {
		return nil, errors.Wrap(extkey.ErrInvalidKey, "master key with non-zero parent fingerprint or index")
	}

	path := hdpath.Node{
		Depth:    f.Depth,
		Hardened: f.ChildIndex >= hdpath.HardenedOffset,
		Index:    f.ChildIndex,
	}
	path.Token = path.String()

	var privateKey, publicKey []byte

	switch f.Version {
	case info.Bip32().Private:
		if f.Key[0] != 0x00 {
			return nil, errors.Wrap(extkey.ErrInvalidKey, "private key field must start with 0x00")
		}
		privateKey = f.Key[1:]
	case info.Bip32().Public:
		publicKey = f.Key
		if info.Curve().Type() == curve.Ed25519Type {
			if f.Key[0] != 0x00 {
				return nil, errors.Wrap(extkey.ErrInvalidKey, "ed25519 public key field must start with 0x00")
			}
			publicKey = f.Key[1:]
		}
	default:
		return nil, errors.Wrapf(ErrVersionMismatch, "version 0x%08x on %s", f.Version, info.Symbol())
	}

	if info.Curve().Type() == curve.Secp256k1Type {
		if err := checkSecp256k1Key(info.Curve().Order(), privateKey, publicKey); err != nil {
			return nil, err
		}
	}

	node, err := newNode(info, privateKey, publicKey, f.ChainCode, nil, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to import extended key")
	}
	node.importedParentFingerprint = f.ParentFingerprint

	return node, nil
}

// checkSecp256k1Key rejects private scalars outside [1, n) and public keys off the curve.
func checkSecp256k1Key(order *big.Int, privateKey []byte, publicKey []byte) error {
	if privateKey != nil {
		k := new(big.Int).SetBytes(privateKey)
		if k.Sign() == 0 || k.Cmp(order) >= 0 {
			return errors.Wrap(extkey.ErrInvalidKey, "private key is not a valid secp256k1 scalar")
		}
		return nil
	}

	if _, err := btcec.ParsePubKey(publicKey); err != nil {
		return errors.Wrapf(extkey.ErrInvalidKey, "public key is not on secp256k1: %v", err)
	}

	return nil
}
