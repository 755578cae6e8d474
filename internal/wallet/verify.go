package wallet

import (
	"context"

	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/util"
	"github/chapool/go-hdkey/internal/wallet/address"
)

const (
	// VerificationSymbol is the network the verification address is rendered on
	VerificationSymbol = "BTC"

	// VerificationPath is the derivation path of the verification address
	VerificationPath = "m/0'"
)

// VerifySeedByAddress derives the verification address from seed and compares it with the stored one.
// An empty stored address passes, keystores created without one cannot be verified.
func VerifySeedByAddress(ctx context.Context, seed []byte, addressService address.Service, storedAddress string) (bool, error) {
	log := util.LogFromContext(util.ContextWithComponent(ctx, "password_verification"))

	if storedAddress == "" {
		log.Info().Msg("No verification address found, skipping verification")
		return true, nil
	}

	derivedAddress, err := CreateVerificationAddress(ctx, seed, addressService)
	if err != nil {
		return false, err
	}

	if derivedAddress != storedAddress {
		log.Warn().
			Str("derived", derivedAddress).
			Str("stored", storedAddress).
			Msg("Password verification failed: addresses do not match")
		return false, nil
	}

	log.Info().Msg("Password verification successful")
	return true, nil
}

// CreateVerificationAddress derives the public address stored next to the encrypted seed
func CreateVerificationAddress(ctx context.Context, seed []byte, addressService address.Service) (string, error) {
	addr, err := addressService.DeriveAddress(ctx, seed, VerificationSymbol, VerificationPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to derive verification address")
	}

	return addr, nil
}
