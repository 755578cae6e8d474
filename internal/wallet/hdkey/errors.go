package hdkey

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	MinSeedLen = 16
	MaxSeedLen = 64
)

var (
	// ErrNeutered is returned when private material is requested from a public-only node.
	ErrNeutered = errors.New("node has no private key")
	// ErrVersionMismatch is returned when an extended key does not carry one of the network's versions.
	ErrVersionMismatch = errors.New("extended key version does not belong to network")
)

// InvalidSeedError is returned for seeds outside the accepted length range.
type InvalidSeedError struct {
	Length int
}

func (e *InvalidSeedError) Error() string {
	return fmt.Sprintf("seed must be between %d and %d bytes, got %d", MinSeedLen, MaxSeedLen, e.Length)
}

// HardenedDerivationRequiresPrivateKeyError is returned when a public-only node is asked for a hardened child.
type HardenedDerivationRequiresPrivateKeyError struct {
	Depth uint32
	Token string
}

func (e *HardenedDerivationRequiresPrivateKeyError) Error() string {
	return fmt.Sprintf("hardened child %q at depth %d requires a private key", e.Token, e.Depth)
}
