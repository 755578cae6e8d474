package wif

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/pkg/errors"
)

const (
	keyLen          = 32
	compressionFlag = 0x01
)

var (
	ErrInvalidKey         = errors.New("WIF private key must be 32 bytes")
	ErrMalformed          = errors.New("malformed WIF string")
	ErrVersionMismatch    = errors.New("WIF version does not match network")
	ErrInvalidCompression = errors.New("invalid WIF compression flag")
)

// Key is a decoded wallet import format string.
type Key struct {
	Version    byte
	PrivateKey []byte
	Compressed bool
}

// Encode returns Base58Check(version || key [|| 0x01]).
func Encode(version byte, privateKey []byte, compressed bool) (string, error) {
	if len(privateKey) != keyLen {
		return "", ErrInvalidKey
	}

	payload := make([]byte, 0, keyLen+1)
	payload = append(payload, privateKey...)
	if compressed {
		payload = append(payload, compressionFlag)
	}

	return base58.CheckEncode(payload, version), nil
}

// Decode parses s without checking its network version.
func Decode(s string) (Key, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return Key{}, errors.Wrap(ErrMalformed, err.Error())
	}

	switch len(payload) {
	case keyLen:
		return Key{Version: version, PrivateKey: payload}, nil
	case keyLen + 1:
		if payload[keyLen] != compressionFlag {
			return Key{}, ErrInvalidCompression
		}
		return Key{Version: version, PrivateKey: payload[:keyLen], Compressed: true}, nil
	default:
		return Key{}, errors.Wrapf(ErrMalformed, "unexpected payload length %d", len(payload))
	}
}

// DecodeForNetwork parses s and checks that it carries version.
func DecodeForNetwork(s string, version byte) (Key, error) {
	k, err := Decode(s)
	if err != nil {
		return Key{}, err
	}

	if k.Version != version {
		return Key{}, errors.Wrapf(ErrVersionMismatch, "expected 0x%02x, got 0x%02x", version, k.Version)
	}

	return k, nil
}
