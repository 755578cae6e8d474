package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// encryptSeed encrypts a seed using Ethereum keystore v3 format
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func (s *service) encryptSeed(seed []byte, password string) (*Keystore, error) {
	//nolint:mnd // 32 is the standard salt size for scrypt
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	//nolint:mnd // 16 is the standard IV size for AES-128-CTR
	iv := make([]byte, 16)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	params := s.params
	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	// First 16 bytes encrypt, last 16 bytes authenticate
	ciphertext, err := aes128CTR(derivedKey[:16], iv, seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt seed")
	}

	ks := &Keystore{
		Version: Version,
		ID:      uuid.New().String(),
		Crypto: CryptoJSON{
			Ciphertext:   hex.EncodeToString(ciphertext),
			CipherParams: CipherParamsJSON{IV: hex.EncodeToString(iv)},
			Cipher:       cipherName,
			KDF:          kdfName,
			KDFParams: KDFParamsJSON{
				DKLen: params.DKLen,
				Salt:  hex.EncodeToString(salt),
				N:     params.N,
				R:     params.R,
				P:     params.P,
			},
			MAC: hex.EncodeToString(calculateMAC(derivedKey[16:32], ciphertext)),
		},
	}

	return ks, nil
}

// aes128CTR applies the AES-128-CTR keystream; encryption and decryption are the same operation
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func aes128CTR(key []byte, iv []byte, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	out := make([]byte, len(in))
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(out, in)

	return out, nil
}

// calculateMAC calculates Keccak256(derivedKey[16:32] || ciphertext)
func calculateMAC(key []byte, ciphertext []byte) []byte {
	return crypto.Keccak256(key, ciphertext)
}
