package keystore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/util"
)

// Service provides keystore encryption and decryption functionality
type Service interface {
	// CreateKeystore encrypts seed and writes the keystore file.
	// address is the public verification address stored next to the ciphertext.
	CreateKeystore(ctx context.Context, seed []byte, password string, address string) (*Keystore, error)

	// DecryptSeed decrypts the seed from keystore
	DecryptSeed(ctx context.Context, keystore *Keystore, password string) ([]byte, error)

	// GetKeystore reads the keystore file
	GetKeystore(ctx context.Context) (*Keystore, error)

	// Exists checks if the keystore file exists
	Exists(ctx context.Context) (bool, error)
}

type service struct {
	path   string
	params *ScryptParams
}

// NewService creates a new KeystoreService storing a single keystore at path
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(path string, params *ScryptParams) (Service, error) {
	if path == "" {
		return nil, errors.New("keystore path is required")
	}
	if params == nil {
		params = DefaultScryptParams()
	}

	return &service{
		path:   path,
		params: params,
	}, nil
}

// CreateKeystore encrypts seed and writes it to the keystore file
func (s *service) CreateKeystore(ctx context.Context, seed []byte, password string, address string) (*Keystore, error) {
	log := util.LogFromContext(ctx)

	exists, err := s.Exists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check keystore existence")
	}
	if exists {
		return nil, ErrExists
	}

	ks, err := s.encryptSeed(seed, password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encrypt seed")
		return nil, errors.Wrap(err, "failed to encrypt seed")
	}
	ks.Address = address

	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal keystore JSON")
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("Failed to write keystore")
		return nil, errors.Wrap(err, "failed to write keystore")
	}

	log.Info().Str("path", s.path).Str("id", ks.ID).Msg("Keystore created")

	return ks, nil
}

// DecryptSeed decrypts the seed from keystore
func (s *service) DecryptSeed(ctx context.Context, keystore *Keystore, password string) ([]byte, error) {
	log := util.LogFromContext(ctx)

	seed, err := decryptSeed(keystore, password)
	if err != nil {
		log.Error().Err(err).Str("id", keystore.ID).Msg("Failed to decrypt seed")
		return nil, errors.Wrap(err, "failed to decrypt seed")
	}

	return seed, nil
}

// GetKeystore reads and parses the keystore file
func (s *service) GetKeystore(_ context.Context) (*Keystore, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to read keystore")
	}

	var ks Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal keystore JSON")
	}

	return &ks, nil
}

// Exists checks if keystore exists
func (s *service) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}

	return false, errors.Wrap(err, "failed to stat keystore")
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".keystore-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
