package signer

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/util"
	"github/chapool/go-hdkey/internal/wallet/curve"
	"github/chapool/go-hdkey/internal/wallet/hdkey"
	"github/chapool/go-hdkey/internal/wallet/network"
	"github/chapool/go-hdkey/internal/wallet/seed"
)

// ErrInvalidSignature is returned by Verify for signatures that do not match
var ErrInvalidSignature = errors.New("invalid signature")

type service struct {
	seedManager seed.Manager
	options     []network.Option
}

// NewService creates a new SignerService
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(seedManager seed.Manager, opts ...network.Option) (Service, error) {
	if seedManager == nil {
		return nil, errors.New("seed manager is required")
	}

	return &service{
		seedManager: seedManager,
		options:     opts,
	}, nil
}

// derive returns the node at path, the caller must not keep it beyond the signing call
func (s *service) derive(symbol string, path string) (*hdkey.Node, error) {
	seed := s.seedManager.GetSeed()
	if seed == nil {
		return nil, errors.New("seed not initialized")
	}
	defer util.ZeroBytes(seed)

	node, err := hdkey.Create(seed, symbol, path, s.options...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive signing key")
	}

	return node, nil
}

// SignMessage signs message with the key at path
func (s *service) SignMessage(ctx context.Context, symbol string, path string, message []byte) (*Signature, error) {
	log := util.LogFromContext(ctx)

	node, err := s.derive(symbol, path)
	if err != nil {
		return nil, err
	}

	privateKey := node.PrivateKey()
	defer util.ZeroBytes(privateKey)

	var sig []byte
	switch t := node.Network().Curve().Type(); t {
	case curve.Secp256k1Type:
		key, _ := btcec.PrivKeyFromBytes(privateKey)
		digest := sha256.Sum256(message)
		sig = ecdsa.Sign(key, digest[:]).Serialize()
		key.Zero()

	case curve.Ed25519Type:
		key := ed25519.NewKeyFromSeed(privateKey)
		sig = ed25519.Sign(key, message)
		util.ZeroBytes(key)

	default:
		return nil, &curve.UnsupportedCurveError{Type: t}
	}

	log.Debug().Stringer("node", node).Msg("Signed message")

	return &Signature{
		Symbol:    node.Network().Symbol(),
		Path:      node.FullPath().String(),
		PublicKey: node.PublicKeyHex(),
		Signature: hex.EncodeToString(sig),
	}, nil
}

// Verify checks sig against message and the public key of curve t
func Verify(t curve.Type, publicKey []byte, message []byte, sig []byte) error {
	switch t {
	case curve.Secp256k1Type:
		pub, err := btcec.ParsePubKey(publicKey)
		if err != nil {
			return errors.Wrap(err, "failed to parse public key")
		}
		parsed, err := ecdsa.ParseDERSignature(sig)
		if err != nil {
			return errors.Wrap(err, "failed to parse signature")
		}
		digest := sha256.Sum256(message)
		if !parsed.Verify(digest[:], pub) {
			return ErrInvalidSignature
		}
		return nil

	case curve.Ed25519Type:
		if len(publicKey) != ed25519.PublicKeySize {
			return errors.Errorf("ed25519 public key must be %d bytes", ed25519.PublicKeySize)
		}
		if !ed25519.Verify(publicKey, message, sig) {
			return ErrInvalidSignature
		}
		return nil

	default:
		return &curve.UnsupportedCurveError{Type: t}
	}
}

// SignEVMTransaction signs an EVM transaction (EIP-1559)
func (s *service) SignEVMTransaction(ctx context.Context, req *SignEVMRequest) (*SignEVMResponse, error) {
	symbol := req.Symbol
	if symbol == "" {
		symbol = "ETH"
	}

	node, err := s.derive(symbol, req.DerivationPath)
	if err != nil {
		return nil, err
	}

	if node.Network().Curve().Type() != curve.Secp256k1Type {
		return nil, errors.Errorf("%s does not use secp256k1 keys", symbol)
	}

	// Clear private key after use
	privateKey := node.PrivateKey()
	defer util.ZeroBytes(privateKey)

	return s.signEIP1559Transaction(ctx, req, privateKey)
}
