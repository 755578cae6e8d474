package extkey

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/wallet/curve"
)

const (
	// SerializedLen is the size of a serialized extended key.
	SerializedLen = 78

	keyFieldLen   = 33
	chainCodeLen  = 32
	compressedLen = 33
)

var (
	ErrInvalidLength = errors.New("extended key must be 78 bytes")
	ErrChecksum      = errors.New("extended key checksum mismatch")
	ErrInvalidKey    = errors.New("invalid extended key field")
)

// Fields are the parts of an extended key in serialization order.
type Fields struct {
	Version           uint32
	Depth             uint32
	ParentFingerprint [4]byte
	ChildIndex        uint32
	ChainCode         []byte
	// Key is a 32 byte private key, a 32 byte ed25519 public key or a 33 byte
	// compressed secp256k1 public key. After Deserialize it always holds the raw
	// 33 byte key field.
	Key []byte
}

// Serialize lays out version(4) depth(1) parentFingerprint(4) childIndex(4)
// chainCode(32) key(33). Depths above 255 are truncated to their low byte.
func Serialize(t curve.Type, f Fields) ([]byte, error) {
	if len(f.ChainCode) != chainCodeLen {
		return nil, errors.Wrap(ErrInvalidKey, "chain code must be 32 bytes")
	}

	keyField, err := encodeKeyField(t, f.Key)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, SerializedLen)
	buf = binary.BigEndian.AppendUint32(buf, f.Version)
	buf = append(buf, byte(f.Depth)) //nolint:gosec // truncation to one byte is part of the format
	buf = append(buf, f.ParentFingerprint[:]...)
	buf = binary.BigEndian.AppendUint32(buf, f.ChildIndex)
	buf = append(buf, f.ChainCode...)
	buf = append(buf, keyField...)

	return buf, nil
}

// Encode returns the Base58Check text form of Serialize.
func Encode(t curve.Type, f Fields) (string, error) {
	buf, err := Serialize(t, f)
	if err != nil {
		return "", err
	}

	// CheckEncode prepends its version byte before hashing, which is exactly the first byte of buf.
	return base58.CheckEncode(buf[1:], buf[0]), nil
}

// Deserialize splits a 78 byte extended key into its fields.
func Deserialize(buf []byte) (Fields, error) {
	if len(buf) != SerializedLen {
		return Fields{}, ErrInvalidLength
	}

	f := Fields{
		Version:    binary.BigEndian.Uint32(buf[0:4]),
		Depth:      uint32(buf[4]),
		ChildIndex: binary.BigEndian.Uint32(buf[9:13]),
		ChainCode:  append([]byte(nil), buf[13:45]...),
		Key:        append([]byte(nil), buf[45:78]...),
	}
	copy(f.ParentFingerprint[:], buf[5:9])

	return f, nil
}

// Decode parses the Base58Check text form produced by Encode.
func Decode(s string) (Fields, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		if errors.Is(err, base58.ErrChecksum) {
			return Fields{}, ErrChecksum
		}
		return Fields{}, errors.Wrap(ErrInvalidLength, err.Error())
	}

	buf := make([]byte, 0, SerializedLen)
	buf = append(buf, version)
	buf = append(buf, payload...)

	return Deserialize(buf)
}

// IsPrivate reports whether a deserialized key field holds a secp256k1 private key.
// ed25519 keys are always zero padded, so the field alone cannot tell them apart.
func (f Fields) IsPrivate() bool {
	return len(f.Key) == keyFieldLen && f.Key[0] == 0x00
}

// KeyBytes returns the key without the zero padding byte when one is present.
func (f Fields) KeyBytes() []byte {
	if f.IsPrivate() {
		return f.Key[1:]
	}

	return f.Key
}

func encodeKeyField(t curve.Type, key []byte) ([]byte, error) {
	switch t {
	case curve.Secp256k1Type:
		switch len(key) {
		case curve.KeySize:
			return append([]byte{0x00}, key...), nil
		case compressedLen:
			if key[0] != 0x02 && key[0] != 0x03 {
				return nil, errors.Wrap(ErrInvalidKey, "public key is not compressed")
			}
			return append([]byte(nil), key...), nil
		default:
			return nil, errors.Wrap(ErrInvalidKey, "secp256k1 key must be 32 or 33 bytes")
		}
	case curve.Ed25519Type:
		if len(key) != curve.KeySize {
			return nil, errors.Wrap(ErrInvalidKey, "ed25519 key must be 32 bytes")
		}
		return append([]byte{0x00}, key...), nil
	default:
		return nil, &curve.UnsupportedCurveError{Type: t}
	}
}
