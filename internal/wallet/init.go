package wallet

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/util"
	"github/chapool/go-hdkey/internal/wallet/address"
	"github/chapool/go-hdkey/internal/wallet/bip44"
	"github/chapool/go-hdkey/internal/wallet/keystore"
	"github/chapool/go-hdkey/internal/wallet/seed"
	"golang.org/x/term"
)

// DefaultMinPasswordLength is used when KeystoreDeps.MinPasswordLength is not set
const DefaultMinPasswordLength = 8

var (
	// ErrPasswordMismatch is returned when the confirmation differs from the password
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrVerificationFailed is returned when the decrypted seed does not produce the stored address
	ErrVerificationFailed = errors.New("password verification failed: derived address does not match stored verification address")
)

// PasswordPrompter reads a password for prompt
type PasswordPrompter func(prompt string) (string, error)

// KeystoreDeps bundles what the keystore flows need
type KeystoreDeps struct {
	SeedManager       seed.Manager
	Keystore          keystore.Service
	Address           address.Service
	Prompt            PasswordPrompter
	MinPasswordLength int
}

// InitializeKeystore unlocks the keystore if it exists, otherwise creates one with a fresh random seed
func InitializeKeystore(ctx context.Context, deps KeystoreDeps) error {
	exists, err := deps.Keystore.Exists(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check keystore existence")
	}

	if exists {
		return UnlockKeystore(ctx, deps)
	}

	return CreateKeystore(ctx, deps, nil)
}

// CreateKeystore encrypts importSeed, or a new random seed if it is nil, into a new keystore
// and initializes the seed manager with it.
func CreateKeystore(ctx context.Context, deps KeystoreDeps, importSeed []byte) error {
	log := util.LogFromContext(util.ContextWithComponent(ctx, "wallet_init"))

	newSeed := importSeed
	if newSeed == nil {
		log.Info().Msg("Generating new seed...")

		newSeed = make([]byte, bip44.SeedLen)
		if _, err := rand.Read(newSeed); err != nil {
			return errors.Wrap(err, "failed to generate seed")
		}
		defer util.ZeroBytes(newSeed)
	}

	minPasswordLength := deps.MinPasswordLength
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}

	password, err := deps.Prompt(fmt.Sprintf("Enter password for keystore (min %d characters): ", minPasswordLength))
	if err != nil {
		return errors.Wrap(err, "failed to read password")
	}

	if len(password) < minPasswordLength {
		return errors.Errorf("password must be at least %d characters", minPasswordLength)
	}

	passwordConfirm, err := deps.Prompt("Confirm password: ")
	if err != nil {
		return errors.Wrap(err, "failed to read password confirmation")
	}

	if password != passwordConfirm {
		return ErrPasswordMismatch
	}

	// Validates the seed length before anything is written
	if err := deps.SeedManager.Initialize(newSeed); err != nil {
		return errors.Wrap(err, "failed to initialize seed manager")
	}

	verificationAddress, err := CreateVerificationAddress(ctx, newSeed, deps.Address)
	if err != nil {
		deps.SeedManager.Clear()
		return err
	}

	if _, err := deps.Keystore.CreateKeystore(ctx, newSeed, password, verificationAddress); err != nil {
		deps.SeedManager.Clear()
		return errors.Wrap(err, "failed to create keystore")
	}

	log.Info().Str("verification_address", verificationAddress).Msg("Keystore created successfully")

	return nil
}

// UnlockKeystore decrypts the existing keystore and initializes the seed manager
func UnlockKeystore(ctx context.Context, deps KeystoreDeps) error {
	log := util.LogFromContext(util.ContextWithComponent(ctx, "wallet_init"))

	//nolint:varnamelen // ks is a common abbreviation for keystore
	ks, err := deps.Keystore.GetKeystore(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get keystore")
	}

	log.Info().Msg("Keystore found. Please enter password to unlock...")

	password, err := deps.Prompt("Enter keystore password: ")
	if err != nil {
		return errors.Wrap(err, "failed to read password")
	}

	decrypted, err := deps.Keystore.DecryptSeed(ctx, ks, password)
	if err != nil {
		return errors.Wrap(err, "failed to decrypt keystore (invalid password?)")
	}
	defer util.ZeroBytes(decrypted)

	valid, err := VerifySeedByAddress(ctx, decrypted, deps.Address, ks.Address)
	if err != nil {
		return errors.Wrap(err, "failed to verify password")
	}

	if !valid {
		return ErrVerificationFailed
	}

	if err := deps.SeedManager.Initialize(decrypted); err != nil {
		return errors.Wrap(err, "failed to initialize seed manager")
	}

	log.Info().Msg("Seed manager initialized successfully")

	return nil
}

// TerminalPrompt prompts for password input on the controlling terminal (hides input)
//
//nolint:forbidigo // Password input requires direct terminal I/O
func TerminalPrompt(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", errors.Wrap(err, "failed to read password from terminal")
	}

	fmt.Fprintln(os.Stderr)

	return string(passwordBytes), nil
}
