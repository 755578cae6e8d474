package keystore

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// decryptSeed decrypts a seed from Ethereum keystore v3 format
func decryptSeed(ks *Keystore, password string) ([]byte, error) {
	if ks.Version != Version {
		return nil, errors.Errorf("unsupported keystore version %d", ks.Version)
	}
	if ks.Crypto.Cipher != cipherName || ks.Crypto.KDF != kdfName {
		return nil, errors.Errorf("unsupported cipher %q or kdf %q", ks.Crypto.Cipher, ks.Crypto.KDF)
	}

	salt, err := hex.DecodeString(ks.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode salt")
	}

	//nolint:varnamelen // iv is a common abbreviation for initialization vector
	iv, err := hex.DecodeString(ks.Crypto.CipherParams.IV)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode IV")
	}

	ciphertext, err := hex.DecodeString(ks.Crypto.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode ciphertext")
	}

	expectedMAC, err := hex.DecodeString(ks.Crypto.MAC)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode MAC")
	}

	kdf := ks.Crypto.KDFParams
	//nolint:mnd // AES-128 key plus MAC key
	if kdf.DKLen < 32 {
		return nil, errors.Errorf("derived key length %d too short", kdf.DKLen)
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, kdf.N, kdf.R, kdf.P, kdf.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	mac := calculateMAC(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, expectedMAC) != 1 {
		return nil, ErrInvalidPassword
	}

	seed, err := aes128CTR(derivedKey[:16], iv, ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt seed")
	}

	return seed, nil
}
