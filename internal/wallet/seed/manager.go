package seed

import (
	"encoding/hex"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/util"
	"github/chapool/go-hdkey/internal/wallet/hdkey"
)

// manager implements seed management with thread-safe access
type manager struct {
	seed        []byte
	mu          sync.RWMutex
	initialized bool
}

// NewManager creates a new SeedManager
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewManager() Manager {
	return &manager{
		seed:        nil,
		initialized: false,
	}
}

// Initialize validates and stores a copy of seed, replacing and wiping any previous seed
func (m *manager) Initialize(seed []byte) error {
	if len(seed) < hdkey.MinSeedLen || len(seed) > hdkey.MaxSeedLen {
		return &hdkey.InvalidSeedError{Length: len(seed)}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	util.ZeroBytes(m.seed)

	m.seed = make([]byte, len(seed))
	copy(m.seed, seed)
	m.initialized = true

	return nil
}

// InitializeHex decodes seedHex (with or without 0x prefix) and initializes the manager
func (m *manager) InitializeHex(seedHex string) error {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(seedHex), "0x"))
	if err != nil {
		// hex errors quote the offending input, which is secret here
		return errors.New("seed is not valid hex")
	}
	defer util.ZeroBytes(raw)

	return m.Initialize(raw)
}

// GetSeed gets the seed (returns a copy to prevent external modification)
func (m *manager) GetSeed() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized || m.seed == nil {
		return nil
	}

	// Return a copy to prevent external modification
	seedCopy := make([]byte, len(m.seed))
	copy(seedCopy, m.seed)
	return seedCopy
}

// IsInitialized checks if seed is initialized
func (m *manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.initialized
}

// Clear clears the seed from memory
func (m *manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seed != nil {
		util.ZeroBytes(m.seed)
		m.seed = nil
	}
	m.initialized = false
}
