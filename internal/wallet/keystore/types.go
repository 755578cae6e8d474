package keystore

import (
	"github.com/pkg/errors"
)

const (
	// Version is the Ethereum keystore v3 version number
	Version = 3

	cipherName = "aes-128-ctr"
	kdfName    = "scrypt"
)

var (
	// ErrNotFound is returned when no keystore file exists yet
	ErrNotFound = errors.New("keystore not found")
	// ErrExists is returned when creating a keystore over an existing one
	ErrExists = errors.New("keystore already exists")
	// ErrInvalidPassword is returned on MAC mismatch
	ErrInvalidPassword = errors.New("invalid password")
)

// Keystore represents the Ethereum keystore v3 JSON structure wrapping an encrypted seed.
// Address holds the verification address derived from the seed, it is public data.
type Keystore struct {
	Version int        `json:"version"`
	ID      string     `json:"id"`
	Address string     `json:"address,omitempty"`
	Crypto  CryptoJSON `json:"crypto"`
}

type CryptoJSON struct {
	Ciphertext   string           `json:"ciphertext"`
	CipherParams CipherParamsJSON `json:"cipherparams"`
	Cipher       string           `json:"cipher"`
	KDF          string           `json:"kdf"`
	KDFParams    KDFParamsJSON    `json:"kdfparams"`
	MAC          string           `json:"mac"`
}

type CipherParamsJSON struct {
	IV string `json:"iv"`
}

type KDFParamsJSON struct {
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
}

// ScryptParams defines scrypt KDF parameters
type ScryptParams struct {
	DKLen int // Derived key length (32 bytes)
	N     int // CPU/memory cost parameter (262144)
	R     int // Block size parameter (8)
	P     int // Parallelization parameter (1)
}

// DefaultScryptParams returns default scrypt parameters for Ethereum keystore v3
func DefaultScryptParams() *ScryptParams {
	const (
		scryptDKLen = 32     // Derived key length (32 bytes)
		scryptN     = 262144 // CPU/memory cost parameter (2^18)
		scryptR     = 8      // Block size parameter
		scryptP     = 1      // Parallelization parameter
	)

	return &ScryptParams{
		DKLen: scryptDKLen,
		N:     scryptN,
		R:     scryptR,
		P:     scryptP,
	}
}

// NewScryptParams overrides the cost parameters of the defaults, zero values keep the default.
func NewScryptParams(n, r, p int) *ScryptParams {
	params := DefaultScryptParams()
	if n > 0 {
		params.N = n
	}
	if r > 0 {
		params.R = r
	}
	if p > 0 {
		params.P = p
	}

	return params
}
