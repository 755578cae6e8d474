package hdkey

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/wallet/curve"
	"github/chapool/go-hdkey/internal/wallet/extkey"
	"github/chapool/go-hdkey/internal/wallet/hdpath"
	"github/chapool/go-hdkey/internal/wallet/network"
	"github/chapool/go-hdkey/internal/wallet/wif"
)

// Node is one key of a derivation tree. Nodes are immutable once created, every
// derived attribute is computed on first access and cached.
type Node struct {
	network    *network.Info
	privateKey []byte
	chainCode  []byte
	parent     *Node
	path       hdpath.Node

	// parent fingerprint of imported keys, which have no parent node
	importedParentFingerprint [4]byte

	publicKey          func() []byte
	identifier         func() []byte
	parentFingerprint  func() [4]byte
	extendedPrivateKey func() (string, error)
	extendedPublicKey  func() (string, error)
	wif                func() (string, error)
}

// newNode wires up the memoized attributes. Exactly one of privateKey and
// publicKey is expected, chainCode must be 32 bytes.
func newNode(info *network.Info, privateKey []byte, publicKey []byte, chainCode []byte, parent *Node, path hdpath.Node) (*Node, error) {
	if len(chainCode) != curve.KeySize {
		return nil, errors.Errorf("chain code must be %d bytes", curve.KeySize)
	}

	n := &Node{
		network:    info,
		privateKey: bytes.Clone(privateKey),
		chainCode:  bytes.Clone(chainCode),
		parent:     parent,
		path:       path,
	}

	if privateKey != nil {
		if len(privateKey) != curve.KeySize {
			return nil, errors.Errorf("private key must be %d bytes", curve.KeySize)
		}

		n.publicKey = sync.OnceValue(func() []byte {
			// the only failure mode is a key length already rejected above
			pub, _ := n.network.Curve().PublicKey(n.privateKey)
			return pub
		})
	} else {
		if len(publicKey) == 0 {
			return nil, errors.New("either a private or a public key is required")
		}

		pub := bytes.Clone(publicKey)
		n.publicKey = func() []byte {
			return pub
		}
	}

	n.identifier = sync.OnceValue(func() []byte {
		return btcutil.Hash160(n.publicKey())
	})

	n.parentFingerprint = sync.OnceValue(func() [4]byte {
		if n.parent != nil {
			return n.parent.Fingerprint()
		}
		return n.importedParentFingerprint
	})

	n.extendedPrivateKey = sync.OnceValues(func() (string, error) {
		if n.IsNeutered() {
			return "", ErrNeutered
		}
		return n.encode(n.network.Bip32().Private, n.privateKey)
	})

	n.extendedPublicKey = sync.OnceValues(func() (string, error) {
		return n.encode(n.network.Bip32().Public, n.publicKey())
	})

	n.wif = sync.OnceValues(func() (string, error) {
		if n.IsNeutered() {
			return "", ErrNeutered
		}
		return wif.Encode(n.network.WIFVersion(), n.privateKey, true)
	})

	return n, nil
}

func (n *Node) encode(version uint32, key []byte) (string, error) {
	s, err := extkey.Encode(n.network.Curve().Type(), extkey.Fields{
		Version:           version,
		Depth:             n.path.Depth,
		ParentFingerprint: n.parentFingerprint(),
		ChildIndex:        n.path.Index,
		ChainCode:         n.chainCode,
		Key:               key,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to serialize key at depth %d", n.path.Depth)
	}

	return s, nil
}

// Network returns the network shared by the whole tree.
func (n *Node) Network() *network.Info {
	return n.network
}

// Parent returns the node this one was derived from, nil for the root or an imported key.
func (n *Node) Parent() *Node {
	return n.parent
}

// Path returns the path node describing this key's position.
func (n *Node) Path() hdpath.Node {
	return n.path
}

// FullPath returns the nodes from the top of the known tree down to n.
// A node imported from an extended key starts its own tree.
func (n *Node) FullPath() hdpath.Path {
	var p hdpath.Path
	for cur := n; cur != nil; cur = cur.parent {
		p = append(p, cur.path)
	}
	slices.Reverse(p)

	return p
}

func (n *Node) Depth() uint32 {
	return n.path.Depth
}

// Index returns the child number including the hardening offset.
func (n *Node) Index() uint32 {
	return n.path.Index
}

// IsNeutered reports whether the node carries only a public key.
func (n *Node) IsNeutered() bool {
	return n.privateKey == nil
}

// PrivateKey returns a copy of the private key, nil for neutered nodes.
// WARNING: Caller should clear the returned slice after use
func (n *Node) PrivateKey() []byte {
	return bytes.Clone(n.privateKey)
}

func (n *Node) PublicKey() []byte {
	return bytes.Clone(n.publicKey())
}

func (n *Node) PublicKeyHex() string {
	return hex.EncodeToString(n.publicKey())
}

func (n *Node) ChainCode() []byte {
	return bytes.Clone(n.chainCode)
}

// Identifier returns hash160 of the public key.
func (n *Node) Identifier() []byte {
	return bytes.Clone(n.identifier())
}

// Fingerprint returns the first four bytes of the identifier.
func (n *Node) Fingerprint() [4]byte {
	var fp [4]byte
	copy(fp[:], n.identifier())
	return fp
}

// ParentFingerprint returns the parent's fingerprint, zero for the root.
func (n *Node) ParentFingerprint() [4]byte {
	return n.parentFingerprint()
}

func (n *Node) ExtendedPrivateKey() (string, error) {
	return n.extendedPrivateKey()
}

func (n *Node) ExtendedPublicKey() (string, error) {
	return n.extendedPublicKey()
}

// PrivateKeyAsWIF returns the private key in compressed wallet import format.
func (n *Node) PrivateKeyAsWIF() (string, error) {
	return n.wif()
}

// Neuter returns a public-only copy of the node keeping its position in the tree.
func (n *Node) Neuter() *Node {
	if n.IsNeutered() {
		return n
	}

	neutered, err := newNode(n.network, nil, n.publicKey(), n.chainCode, n.parent, n.path)
	if err != nil {
		// unreachable, n already satisfies every invariant checked by newNode
		panic(err)
	}
	neutered.importedParentFingerprint = n.importedParentFingerprint

	return neutered
}

// String identifies the node without exposing key material.
func (n *Node) String() string {
	fp := n.Fingerprint()
	return fmt.Sprintf("%s depth=%d index=%d fingerprint=%x", n.network.Symbol(), n.path.Depth, n.path.Index, fp[:])
}
